package jchain

// Resolve looks up the value a reference points at.
//
// A named reference ($[name].path) is evaluated against the first source called
// name and nothing else. An unnamed reference (%path) tries every named source
// in order, then every prior payload in order; a prior payload only qualifies
// when its root object already has the path's first field. The second result
// is false when nothing matched.
func Resolve(ref Reference, named []NamedSource, history []any) (any, bool) {
	if len(ref.Path) == 0 {
		return nil, false
	}

	if ref.Named() {
		for _, ns := range named {
			if ns.Name == ref.Source {
				return ns.Source.Lookup(ref.Path)
			}
		}
		return nil, false
	}

	for _, ns := range named {
		if v, ok := ns.Source.Lookup(ref.Path); ok {
			return v, true
		}
	}

	first := ref.Path[0].Field
	for _, h := range history {
		if !hasField(h, first) {
			continue
		}
		if v, ok := Lookup(h, ref.Path); ok {
			return v, true
		}
	}
	return nil, false
}
