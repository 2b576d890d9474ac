package jchain

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	segmentPattern = regexp.MustCompile(`^([A-Za-z0-9_]+)(?:\[([0-9]+)\])?$`)
	namePattern    = regexp.MustCompile(`^[A-Za-z0-9_]+$`)
)

// Segment is one navigation step: a field name, optionally followed by an
// array index.
type Segment struct {
	Field   string
	Index   int
	Indexed bool
}

func (s Segment) String() string {
	if !s.Indexed {
		return s.Field
	}
	return s.Field + "[" + strconv.Itoa(s.Index) + "]"
}

// Path is a parsed dotted path such as team.members[0].id. A parsed Path always
// has at least one segment.
type Path []Segment

func (p Path) String() string {
	parts := make([]string, len(p))
	for i, s := range p {
		parts[i] = s.String()
	}
	return strings.Join(parts, ".")
}

// ParsePath splits raw on '.' and matches every token against name or
// name[index], where name is made of letters, digits and underscores and index
// is a non-negative integer.
func ParsePath(raw string) (Path, error) {
	if raw == "" {
		return nil, &PathError{Path: raw, Reason: "empty path"}
	}
	tokens := strings.Split(raw, ".")
	p := make(Path, 0, len(tokens))
	for _, tok := range tokens {
		seg, err := parseSegment(raw, tok)
		if err != nil {
			return nil, err
		}
		p = append(p, seg)
	}
	return p, nil
}

// MustParsePath is like ParsePath but panics on error.
func MustParsePath(raw string) Path {
	p, err := ParsePath(raw)
	if err != nil {
		panic(err)
	}
	return p
}

func parseSegment(raw, tok string) (Segment, error) {
	if tok == "" {
		return Segment{}, &PathError{Path: raw, Token: tok, Reason: "empty segment"}
	}
	m := segmentPattern.FindStringSubmatch(tok)
	if m == nil {
		return Segment{}, &PathError{Path: raw, Token: tok, Reason: "expected name or name[index]"}
	}
	if m[2] == "" {
		return Segment{Field: m[1]}, nil
	}
	idx, err := strconv.Atoi(m[2])
	if err != nil {
		return Segment{}, &PathError{Path: raw, Token: tok, Reason: "index out of range"}
	}
	return Segment{Field: m[1], Index: idx, Indexed: true}, nil
}

func validName(name string) bool {
	return namePattern.MatchString(name)
}
