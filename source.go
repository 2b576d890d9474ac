package jchain

import (
	"strconv"

	"github.com/go-json-experiment/json/jsontext"
	"github.com/tidwall/gjson"
)

// Source is a read-only document that reference paths are evaluated against.
type Source interface {
	Lookup(p Path) (any, bool)
}

// NamedSource pairs a Source with the name references use to address it.
type NamedSource struct {
	Name   string
	Source Source
}

type docSource struct {
	v any
}

// Doc wraps an already decoded document (D, A, map[string]any, []any).
func Doc(v any) Source { return docSource{v: v} }

func (s docSource) Lookup(p Path) (any, bool) { return Lookup(s.v, p) }

type rawSource struct {
	root gjson.Result
}

// Raw wraps a raw JSON body, such as a captured HTTP response. Paths are
// walked with gjson and only the matched value is decoded. Use ValidJSON to
// reject malformed bodies up front; a malformed body simply resolves nothing,
// and with duplicate names the first occurrence wins.
func Raw(data []byte) Source {
	return rawSource{root: gjson.ParseBytes(data)}
}

// ValidJSON reports whether data is well-formed JSON without duplicate object
// names, the same rule Unmarshal applies. gjson alone would accept duplicates
// and resolve the first one.
func ValidJSON(data []byte) bool { return jsontext.Value(data).IsValid() }

func (s rawSource) Lookup(p Path) (any, bool) {
	if len(p) == 0 {
		return nil, false
	}
	cur := s.root
	for _, seg := range p {
		if !cur.IsObject() {
			return nil, false
		}
		// segment names are restricted to [A-Za-z0-9_], none of which gjson
		// treats as syntax
		cur = cur.Get(seg.Field)
		if !cur.Exists() {
			return nil, false
		}
		if seg.Indexed {
			if !cur.IsArray() {
				return nil, false
			}
			cur = cur.Get(strconv.Itoa(seg.Index))
			if !cur.Exists() {
				return nil, false
			}
		}
	}
	if cur.Type == gjson.Null {
		return nil, false
	}
	v, err := Unmarshal([]byte(cur.Raw))
	if err != nil {
		return nil, false
	}
	return v, true
}
