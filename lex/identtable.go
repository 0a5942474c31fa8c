package lex

// IdentifierTable is the demonstration identifier symbol table described
// alongside the teaching language's scanner: a fixed-size hash table keyed
// by the sum of an identifier's code points modulo 997, with chaining on
// collision. It is not consulted by the grammar, normalizer, table builder,
// or parser -- those only ever see the single identifier token class -- but
// the CLI wires it up so a demo run can show identifiers being interned the
// same way the reference scanner does.
type IdentifierTable struct {
	buckets [997][]string
	index   map[string]int
}

// NewIdentifierTable returns an empty table.
func NewIdentifierTable() *IdentifierTable {
	return &IdentifierTable{index: map[string]int{}}
}

// hash sums the rune values of ident modulo the bucket count.
func (t *IdentifierTable) hash(ident string) int {
	sum := 0
	for _, r := range ident {
		sum += int(r)
	}
	return sum % len(t.buckets)
}

// Add interns ident, returning its bucket index. Re-adding an
// already-interned identifier returns its existing index without modifying
// the table.
func (t *IdentifierTable) Add(ident string) int {
	if idx, ok := t.index[ident]; ok {
		return idx
	}
	idx := t.hash(ident)
	t.buckets[idx] = append(t.buckets[idx], ident)
	t.index[ident] = idx
	return idx
}

// Lookup reports whether ident has been interned and its bucket index.
func (t *IdentifierTable) Lookup(ident string) (int, bool) {
	idx, ok := t.index[ident]
	return idx, ok
}

// Bucket returns the identifiers chained at the given bucket index, in
// insertion order.
func (t *IdentifierTable) Bucket(idx int) []string {
	return t.buckets[idx]
}

// Len returns the number of distinct identifiers interned.
func (t *IdentifierTable) Len() int {
	return len(t.index)
}
