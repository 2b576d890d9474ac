package jchain

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidPath is matched by every *PathError.
	ErrInvalidPath = errors.New("invalid path")
	// ErrInvalidReference reports a sigil-prefixed string that does not follow
	// the reference grammar. Only returned when strict references are enabled.
	ErrInvalidReference = errors.New("invalid reference")
	// ErrNotObject reports a document root that is not a JSON object.
	ErrNotObject = errors.New("not an object")
	// ErrDuplicateSource reports a second registration under the same name.
	ErrDuplicateSource = errors.New("source already registered")
	// ErrInvalidSourceName reports a source name references cannot address.
	ErrInvalidSourceName = errors.New("invalid source name")
)

// PathError describes a path string that failed the segment grammar.
type PathError struct {
	// Path is the raw path as supplied by the caller.
	Path string
	// Token is the offending dot-separated token, empty when the whole path is.
	Token  string
	Reason string
}

func (e *PathError) Error() string {
	if e.Token == "" {
		return fmt.Sprintf("invalid path %q: %s", e.Path, e.Reason)
	}
	return fmt.Sprintf("invalid path %q: segment %q: %s", e.Path, e.Token, e.Reason)
}

func (e *PathError) Unwrap() error { return ErrInvalidPath }

// IsPathError reports whether err is or wraps a *PathError.
func IsPathError(err error) bool {
	var pe *PathError
	return errors.As(err, &pe)
}

// UnresolvedReference records a reference that no source could satisfy. The
// composer writes null at Path and carries on.
type UnresolvedReference struct {
	Path      string
	Reference string
}

func (u UnresolvedReference) String() string {
	return fmt.Sprintf("%s <- %s", u.Path, u.Reference)
}

func kindOf(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case D, map[string]any:
		return "object"
	case A, []any:
		return "array"
	case string:
		return "string"
	case bool:
		return "boolean"
	case Number, float64, float32, int, int64, int32, uint, uint64, uint32:
		return "number"
	default:
		return fmt.Sprintf("%T", v)
	}
}
