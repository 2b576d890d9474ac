package jchain

// D represents a JSON object, defined as an ordered collection of key-value
// pairs. Each entry in the document is represented by an E.
type D []E

// A represents a JSON array, defined as a slice of values of any type.
type A []any

// E represents a single entry in a document. It consists of a string key and an
// associated value of any type.
type E struct {
	Key   string
	Value any
}

// Number holds the literal text of a JSON number so that values such as large
// identifiers survive a decode/encode round trip unchanged.
type Number string

func (n Number) String() string { return string(n) }

// Get returns the value stored under key and whether the key is present.
func (d D) Get(key string) (any, bool) {
	for _, e := range d {
		if e.Key == key {
			return e.Value, true
		}
	}
	return nil, false
}

// Value returns the value stored under key, or nil.
func (d D) Value(key string) any {
	v, _ := d.Get(key)
	return v
}

func (d D) Has(key string) bool {
	_, ok := d.Get(key)
	return ok
}

// Set overwrites the value of an existing key in place, keeping its position,
// or appends a new entry. The receiver's backing array may be modified, so the
// returned document must be used in place of d.
func (d D) Set(key string, v any) D {
	for i := range d {
		if d[i].Key == key {
			d[i].Value = v
			return d
		}
	}
	return append(d, E{Key: key, Value: v})
}

// Keys returns the document keys in order.
func (d D) Keys() []string {
	keys := make([]string, len(d))
	for i, e := range d {
		keys[i] = e.Key
	}
	return keys
}
