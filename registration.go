package jchain

import (
	"fmt"
	"log/slog"
)

// Option is a deferred Composer setting. Options only touch the Composer they
// are applied to, so callers can build sets of sources once and reuse them:
//
//	auth := jchain.WithRawSource("authResponse", body)
//	c, _ := jchain.NewComposer(auth, jchain.WithHistory(prev))
type Option func(c *Composer) error

// Group groups multiple options into one:
//
//	common := jchain.Group(jchain.WithLogger(log), jchain.WithStrictReferences())
//	jchain.NewComposer(common, jchain.WithSource("user", doc))
func Group(opts ...Option) Option {
	return func(c *Composer) error { return apply(c, opts...) }
}

// apply applies options in order and stops at the first error.
func apply(c *Composer, opts ...Option) error {
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(c); err != nil {
			return err
		}
	}
	return nil
}

// WithSource registers a decoded document as a named source.
func WithSource(name string, doc any) Option {
	return func(c *Composer) error {
		return c.sources.Register(name, Doc(doc))
	}
}

// WithRawSource registers a raw JSON body as a named source. The body must be
// valid JSON.
func WithRawSource(name string, body []byte) Option {
	return func(c *Composer) error {
		if !ValidJSON(body) {
			return fmt.Errorf("source %q: body is not valid JSON", name)
		}
		return c.sources.Register(name, Raw(body))
	}
}

// WithSources registers every entry of s, in its order.
func WithSources(s *Sources) Option {
	return func(c *Composer) error {
		for _, ns := range s.List() {
			if err := c.sources.Register(ns.Name, ns.Source); err != nil {
				return err
			}
		}
		return nil
	}
}

// WithHistory appends previously composed payloads, searched in the given
// order by unnamed references once no named source matched.
func WithHistory(docs ...any) Option {
	return func(c *Composer) error {
		c.history = append(c.history, docs...)
		return nil
	}
}

// WithLogger sets the logger unresolved references are reported to.
func WithLogger(l *slog.Logger) Option {
	return func(c *Composer) error {
		if l == nil {
			return fmt.Errorf("nil logger")
		}
		c.logger = l
		return nil
	}
}

// WithStrictReferences makes sigil-prefixed strings that break the reference
// grammar fail composition instead of being written literally.
func WithStrictReferences() Option {
	return func(c *Composer) error {
		c.strict = true
		return nil
	}
}

// WithUnresolvedHandler registers fn to be called for every reference that
// resolved to nothing.
func WithUnresolvedHandler(fn func(UnresolvedReference)) Option {
	return func(c *Composer) error {
		c.onUnresolved = fn
		return nil
	}
}
