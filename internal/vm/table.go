package vm

// Table is an open-addressed, linear-probing hash table keyed by interned
// *ObjString identity (backed by the string's cached FNV-1a hash). It
// backs both the globals table and the intern set (used as a set: values
// are ignored, only key membership matters).
//
// An empty slot has a nil Key and a nil (NilValue) Value; a tombstone left
// behind by Delete has a nil Key and Value == True. Growth rehashes into a
// power-of-two-sized array, doubling from an initial capacity of 8, kept
// under a 0.75 max load factor.
type Table struct {
	count   int
	entries []tableEntry
}

type tableEntry struct {
	Key   *ObjString
	Value Value
}

const tableMaxLoad = 0.75

// NewTable returns an empty Table; it allocates its backing array lazily
// on first insert.
func NewTable() *Table {
	return &Table{}
}

// Count returns the number of occupied slots: live entries plus any
// tombstones left by Delete since the table last grew.
func (t *Table) Count() int { return t.count }

// Set inserts or overwrites key's value. Returns true iff key was not
// already present. Reusing a tombstone slot does not increment count,
// since tombstones are already counted towards the load factor.
func (t *Table) Set(key *ObjString, value Value) bool {
	if float64(t.count+1) > float64(len(t.entries))*tableMaxLoad {
		t.grow()
	}

	entry := t.findEntry(t.entries, key)
	isNew := entry.Key == nil
	if isNew && entry.Value.IsNil() {
		t.count++
	}

	entry.Key = key
	entry.Value = value
	return isNew
}

// Get looks up key. Returns the value and true on a hit.
func (t *Table) Get(key *ObjString) (Value, bool) {
	if len(t.entries) == 0 {
		return NilValue, false
	}
	entry := t.findEntry(t.entries, key)
	if entry.Key == nil {
		return NilValue, false
	}
	return entry.Value, true
}

// Delete turns key's slot into a tombstone. Returns true iff key was
// present.
func (t *Table) Delete(key *ObjString) bool {
	if len(t.entries) == 0 {
		return false
	}
	entry := t.findEntry(t.entries, key)
	if entry.Key == nil {
		return false
	}
	entry.Key = nil
	entry.Value = True // tombstone marker
	return true
}

// FindString is the string-interning lookup: probes by hash, comparing
// length then bytes, and returns the already-interned string if found. It
// must stop at the first truly empty slot and never at a tombstone, or a
// string whose probe sequence crosses a deleted slot would appear absent.
func (t *Table) FindString(chars string, hash uint32) *ObjString {
	if len(t.entries) == 0 {
		return nil
	}
	mask := uint32(len(t.entries) - 1)
	index := hash & mask
	for {
		entry := &t.entries[index]
		if entry.Key == nil {
			if entry.Value.IsNil() {
				return nil // truly empty: string isn't interned
			}
			// tombstone: keep probing
		} else if entry.Key.Hash == hash && entry.Key.Chars == chars {
			return entry.Key
		}
		index = (index + 1) & mask
	}
}

func (t *Table) findEntry(entries []tableEntry, key *ObjString) *tableEntry {
	mask := uint32(len(entries) - 1)
	index := key.Hash & mask
	var tombstone *tableEntry

	for {
		entry := &entries[index]
		if entry.Key == nil {
			if entry.Value.IsNil() {
				if tombstone != nil {
					return tombstone
				}
				return entry
			}
			if tombstone == nil {
				tombstone = entry
			}
		} else if entry.Key == key {
			return entry
		}
		index = (index + 1) & mask
	}
}

func (t *Table) grow() {
	newCap := 8
	if len(t.entries) > 0 {
		newCap = len(t.entries) * 2
	}
	newEntries := make([]tableEntry, newCap)

	t.count = 0
	for _, entry := range t.entries {
		if entry.Key == nil {
			continue
		}
		dest := t.findEntry(newEntries, entry.Key)
		dest.Key = entry.Key
		dest.Value = entry.Value
		t.count++
	}
	t.entries = newEntries
}
