package vm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTableSetGetDelete(t *testing.T) {
	tbl := NewTable()
	key := &ObjString{Chars: "greeting", Hash: FNV1a32("greeting")}

	isNew := tbl.Set(key, Number(1))
	assert.True(t, isNew)

	v, ok := tbl.Get(key)
	require.True(t, ok)
	assert.Equal(t, float64(1), v.Number)

	isNew = tbl.Set(key, Number(2))
	assert.False(t, isNew, "overwriting an existing key should not report new")

	assert.True(t, tbl.Delete(key))

	_, ok = tbl.Get(key)
	assert.False(t, ok, "deleted key must not be found")
}

func TestTableFindStringStopsAtEmptyNotTombstone(t *testing.T) {
	tbl := NewTable()
	a := &ObjString{Chars: "a", Hash: FNV1a32("a")}
	b := &ObjString{Chars: "b", Hash: FNV1a32("b")}

	tbl.Set(a, NilValue)
	tbl.Set(b, NilValue)
	tbl.Delete(a)

	// b must still be reachable even though a's slot (possibly earlier in
	// b's probe sequence) is now a tombstone.
	found := tbl.FindString("b", FNV1a32("b"))
	require.NotNil(t, found)
	assert.Equal(t, b, found)

	assert.Nil(t, tbl.FindString("a", FNV1a32("a")))
}

func TestTableGrowPreservesEntries(t *testing.T) {
	tbl := NewTable()
	var keys []*ObjString
	for i := 0; i < 50; i++ {
		s := string(rune('a' + i%26))
		k := &ObjString{Chars: s + string(rune(i)), Hash: FNV1a32(s)}
		keys = append(keys, k)
		tbl.Set(k, Number(float64(i)))
	}

	for i, k := range keys {
		v, ok := tbl.Get(k)
		require.True(t, ok)
		assert.Equal(t, float64(i), v.Number)
	}
	assert.Equal(t, len(keys), tbl.Count())
}
