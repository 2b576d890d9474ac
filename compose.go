package jchain

import (
	"fmt"
	"log/slog"
)

// Rule is one parsed modification: write Value at Path.
type Rule struct {
	// Raw is the path as written in the modifications document.
	Raw   string
	Path  Path
	Value Value
}

// ParseRules parses every entry of a modifications document, in order, before
// anything is applied. Keys are paths; values are literals or reference tokens.
func ParseRules(mods D, strict bool) ([]Rule, error) {
	rules := make([]Rule, 0, len(mods))
	for _, e := range mods {
		p, err := ParsePath(e.Key)
		if err != nil {
			return nil, fmt.Errorf("rule %q: %w", e.Key, err)
		}
		v, err := Classify(e.Value, strict)
		if err != nil {
			return nil, fmt.Errorf("rule %q: %w", e.Key, err)
		}
		rules = append(rules, Rule{Raw: e.Key, Path: p, Value: v})
	}
	return rules, nil
}

// Composer applies modification rules to base documents. Its configuration is
// fixed once NewComposer returns and every call works on its own clone of the
// base, so a Composer may be shared between goroutines.
type Composer struct {
	sources      *Sources
	history      []any
	logger       *slog.Logger
	strict       bool
	onUnresolved func(UnresolvedReference)
}

// NewComposer builds a Composer from the given options.
func NewComposer(opts ...Option) (*Composer, error) {
	c := &Composer{
		sources: NewSources(),
		logger:  slog.New(slog.DiscardHandler),
	}
	if err := apply(c, opts...); err != nil {
		return nil, err
	}
	return c, nil
}

// Compose is a shorthand for NewComposer(opts...) followed by Compose.
func Compose(base any, mods D, opts ...Option) (D, error) {
	c, err := NewComposer(opts...)
	if err != nil {
		return nil, err
	}
	return c.Compose(base, mods)
}

// Compose returns a copy of base with every rule of mods applied in order.
// base must be an object and is never modified.
func (c *Composer) Compose(base any, mods D) (D, error) {
	rules, err := ParseRules(mods, c.strict)
	if err != nil {
		return nil, err
	}
	return c.Apply(base, rules)
}

// Apply is like Compose for rules parsed ahead of time.
//
// Later rules overwrite earlier ones at overlapping paths. References nobody
// can resolve write null, are logged at warn level and passed to the
// unresolved handler; they do not fail the call.
func (c *Composer) Apply(base any, rules []Rule) (D, error) {
	root, ok := Clone(base).(D)
	if !ok {
		return nil, fmt.Errorf("base document: %w (got %s)", ErrNotObject, kindOf(base))
	}
	if root == nil {
		root = D{}
	}

	named := c.sources.List()
	for _, r := range rules {
		var val any
		switch v := r.Value.(type) {
		case Literal:
			val = Clone(v.Value)
		case Reference:
			got, ok := Resolve(v, named, c.history)
			if !ok {
				c.unresolved(r.Raw, v)
				break
			}
			val = Clone(got)
		default:
			return nil, fmt.Errorf("rule %q: unsupported value %T", r.Raw, r.Value)
		}
		root = SetAtPath(root, r.Path, val)
	}
	return root, nil
}

// Resolve resolves ref against the Composer's sources and history.
func (c *Composer) Resolve(ref Reference) (any, bool) {
	return Resolve(ref, c.sources.List(), c.history)
}

func (c *Composer) unresolved(path string, ref Reference) {
	c.logger.Warn("unresolved reference, writing null",
		slog.String("path", path),
		slog.String("reference", ref.Raw),
		slog.String("source", ref.Source),
	)
	if c.onUnresolved != nil {
		c.onUnresolved(UnresolvedReference{Path: path, Reference: ref.Raw})
	}
}
