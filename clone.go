package jchain

import "sort"

// Clone returns a deep copy of v. Objects and arrays are copied recursively;
// map[string]any becomes a D with sorted keys and []any becomes an A. Scalars
// and values of any other type are returned as is.
func Clone(v any) any {
	switch t := v.(type) {
	case D:
		if t == nil {
			return D(nil)
		}
		out := make(D, len(t))
		for i, e := range t {
			out[i] = E{Key: e.Key, Value: Clone(e.Value)}
		}
		return out
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		out := make(D, len(keys))
		for i, k := range keys {
			out[i] = E{Key: k, Value: Clone(t[k])}
		}
		return out
	case A:
		return cloneSlice(t)
	case []any:
		return cloneSlice(t)
	default:
		return v
	}
}

func cloneSlice(s []any) A {
	if s == nil {
		return nil
	}
	out := make(A, len(s))
	for i, v := range s {
		out[i] = Clone(v)
	}
	return out
}
