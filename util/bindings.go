package util

// Binding represents a single name to value binding.
type Binding struct {
	Key   string
	Value string
}

// Bindings is an ordered list of bindings. Keys are unique if only Set is used.
type Bindings struct {
	items []Binding
}

// NewBindings creates an empty Bindings list.
func NewBindings() Bindings {
	return Bindings{}
}

// Len returns the number of bindings in the list
func (l *Bindings) Len() int {
	return len(l.items)
}

// Add the binding to the list, even if the key already exists.
func (l *Bindings) Add(key, value string) {
	l.items = append(l.items, Binding{
		Key:   key,
		Value: value,
	})
}

// Set the given binding if it already exists or create a new
// one otherwise. Returns true if an existing binding got overwritten.
func (l *Bindings) Set(key, val string) bool {
	for i := range l.items {
		if l.items[i].Key == key {
			l.items[i].Value = val
			return true
		}
	}

	l.Add(key, val)

	return false
}

// Merge the current list with another list.
// Bindings in "other" will be prioritized.
func (l Bindings) Merge(other Bindings) Bindings {
	result := NewBindings()

	for _, a := range l.items {
		result.Set(a.Key, a.Value)
	}

	for _, a := range other.items {
		result.Set(a.Key, a.Value)
	}

	return result
}

// Get returns the value for a given key.
func (l Bindings) Get(key string) (string, bool) {
	for _, a := range l.items {
		if a.Key == key {
			return a.Value, true
		}
	}

	return "", false
}

// Has returns true if key is bound to exactly val.
func (l Bindings) Has(key, val string) bool {
	v, ok := l.Get(key)
	return ok && v == val
}

// All returns a copy of all bindings in insertion order.
func (l Bindings) All() []Binding {
	return append([]Binding(nil), l.items...)
}
