package catalog

// Searchable record fields.
const (
	FieldKind = "kind"
	FieldName = "name"
)

// Category labels used by the item selection state.
const (
	KindFruits     = "Fruits"
	KindVegetables = "Vegetables"
)

// Record is one searchable dataset entry.
type Record struct {
	Kind string `json:"kind"`
	Name string `json:"name"`
}

// Field returns the value of the named field. Unknown field names
// report false and match nothing.
func (r Record) Field(name string) (string, bool) {
	switch name {
	case FieldKind:
		return r.Kind, true
	case FieldName:
		return r.Name, true
	}
	return "", false
}

// Store exposes the static dataset to the conversation engine.
type Store interface {
	List() []Record
	Kinds() []string
}

// MemoryStore implements Store with an immutable in-memory slice,
// loaded once at startup and never mutated.
type MemoryStore struct {
	items []Record
	kinds []string
}

// NewMemoryStore returns a MemoryStore holding the supplied records.
func NewMemoryStore(items []Record) *MemoryStore {
	store := &MemoryStore{items: append([]Record(nil), items...)}
	seen := make(map[string]bool, len(items))
	for _, item := range store.items {
		if !seen[item.Kind] {
			seen[item.Kind] = true
			store.kinds = append(store.kinds, item.Kind)
		}
	}
	return store
}

// List returns the records in dataset order.
func (s *MemoryStore) List() []Record {
	return append([]Record(nil), s.items...)
}

// Kinds returns the distinct record kinds in order of first appearance.
func (s *MemoryStore) Kinds() []string {
	return append([]string(nil), s.kinds...)
}

// Seed provides the default dataset served by the toy search feature.
func Seed() []Record {
	return []Record{
		{Kind: KindFruits, Name: "Apple"},
		{Kind: KindFruits, Name: "Banana"},
		{Kind: KindVegetables, Name: "Potato"},
		{Kind: KindVegetables, Name: "Cabbage"},
		{Kind: KindVegetables, Name: "Tomato"},
	}
}
