package jchain

// Lookup evaluates path against v without modifying it. It understands the
// ordered model (D, A) as well as map[string]any and []any as produced by
// encoding/json. Missing fields, type mismatches, out of range indexes and
// explicit nulls all report false.
func Lookup(v any, path Path) (any, bool) {
	if len(path) == 0 {
		return nil, false
	}
	cur := v
	for _, seg := range path {
		next, ok := field(cur, seg.Field)
		if !ok {
			return nil, false
		}
		if seg.Indexed {
			if next, ok = element(next, seg.Index); !ok {
				return nil, false
			}
		}
		cur = next
	}
	if cur == nil {
		return nil, false
	}
	return cur, true
}

// hasField reports whether v is an object with the given top-level key.
func hasField(v any, key string) bool {
	_, ok := field(v, key)
	return ok
}

func field(v any, key string) (any, bool) {
	switch o := v.(type) {
	case D:
		return o.Get(key)
	case map[string]any:
		val, ok := o[key]
		return val, ok
	default:
		return nil, false
	}
}

func element(v any, index int) (any, bool) {
	var arr []any
	switch a := v.(type) {
	case A:
		arr = a
	case []any:
		arr = a
	default:
		return nil, false
	}
	if index < 0 || index >= len(arr) {
		return nil, false
	}
	return arr[index], true
}
