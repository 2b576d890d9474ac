package jchain

import (
	"fmt"
	"regexp"
	"strings"
)

const (
	namedSigil   = "$["
	unnamedSigil = "%"
)

// Matches: $[responseName].json.path
var namedRefPattern = regexp.MustCompile(`^\$\[([A-Za-z0-9_]+)\]\.(.+)$`)

// Value is the classified right-hand side of a modification rule: either a
// Literal or a Reference.
type Value interface {
	isValue()
}

// Literal is written as is.
type Literal struct {
	Value any
}

// Reference is resolved against named sources and prior payloads before being
// written. Source is empty for the unnamed %path form.
type Reference struct {
	Raw    string
	Source string
	Path   Path
}

func (Literal) isValue()   {}
func (Reference) isValue() {}

// Named reports whether the reference targets one specific source.
func (r Reference) Named() bool { return r.Source != "" }

func (r Reference) String() string { return r.Raw }

// Classify decides whether raw is a literal or a reference token. Only strings
// are candidates; after trimming they must start with "$[" (named form
// $[name].path) or "%" (unnamed form %path).
//
// Strings that carry a sigil but break the grammar are literals unless strict is
// set, in which case they fail with ErrInvalidReference or a *PathError for the
// inner path.
func Classify(raw any, strict bool) (Value, error) {
	s, ok := raw.(string)
	if !ok {
		return Literal{Value: raw}, nil
	}
	t := strings.TrimSpace(s)

	switch {
	case strings.HasPrefix(t, namedSigil):
		m := namedRefPattern.FindStringSubmatch(t)
		if m == nil {
			if strict {
				return nil, fmt.Errorf("%w %q: expected $[name].path", ErrInvalidReference, t)
			}
			return Literal{Value: raw}, nil
		}
		p, err := ParsePath(m[2])
		if err != nil {
			if strict {
				return nil, fmt.Errorf("reference %q: %w", t, err)
			}
			return Literal{Value: raw}, nil
		}
		return Reference{Raw: t, Source: m[1], Path: p}, nil

	case strings.HasPrefix(t, unnamedSigil):
		p, err := ParsePath(t[len(unnamedSigil):])
		if err != nil {
			if strict {
				return nil, fmt.Errorf("reference %q: %w", t, err)
			}
			return Literal{Value: raw}, nil
		}
		return Reference{Raw: t, Path: p}, nil
	}

	return Literal{Value: raw}, nil
}

// ParseReference parses s as a reference token and fails if it is not one.
func ParseReference(s string) (Reference, error) {
	v, err := Classify(s, true)
	if err != nil {
		return Reference{}, err
	}
	ref, ok := v.(Reference)
	if !ok {
		return Reference{}, fmt.Errorf("%w %q: missing sigil", ErrInvalidReference, s)
	}
	return ref, nil
}
