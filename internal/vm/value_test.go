package vm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValueEquals(t *testing.T) {
	h := NewHeap()
	s1 := h.CopyString("hi")
	s2 := h.CopyString("hi")

	tests := []struct {
		name string
		a, b Value
		want bool
	}{
		{"nil equals nil", NilValue, NilValue, true},
		{"bool by value", Bool(true), Bool(true), true},
		{"bool mismatch", Bool(true), Bool(false), false},
		{"number by value", Number(1), Number(1), true},
		{"number mismatch", Number(1), Number(2), false},
		{"different variants never equal", Number(0), NilValue, false},
		{"nil is not false", NilValue, Bool(false), false},
		{"interned strings share identity", FromObj(s1), FromObj(s2), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.a.Equals(tt.b))
		})
	}
}

func TestValueIsFalsey(t *testing.T) {
	assert.True(t, NilValue.IsFalsey())
	assert.True(t, False.IsFalsey())
	assert.False(t, True.IsFalsey())
	assert.False(t, Number(0).IsFalsey(), "0 is truthy in this language")
}

func TestFormatNumber(t *testing.T) {
	assert.Equal(t, "3", Number(3).String())
	assert.Equal(t, "3.5", Number(3.5).String())
	assert.Equal(t, "-1", Number(-1).String())
}
