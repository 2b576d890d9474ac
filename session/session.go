// Package session keeps the state of a multi-step scenario between
// compositions: responses captured under a name and the payloads composed so
// far. The jchain engine itself is stateless; a Session feeds it.
package session

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/calumari/jchain"
	"github.com/calumari/jchain/fixture"
)

// Session is safe for concurrent use.
type Session struct {
	mu         sync.Mutex
	cfg        Config
	logger     *slog.Logger
	sources    *jchain.Sources
	history    []jchain.D // most recent first
	unresolved []jchain.UnresolvedReference
}

// New creates a Session. A nil cfg uses the defaults; a nil logger discards.
func New(cfg *Config, logger *slog.Logger) *Session {
	c := *defaultConfig()
	if cfg != nil {
		c = *cfg
	}
	if c.HistoryLimit <= 0 {
		c.HistoryLimit = DefaultHistoryLimit
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Session{
		cfg:     c,
		logger:  logger,
		sources: jchain.NewSources(),
	}
}

// Capture stores a raw response body under name, replacing any earlier capture
// with that name. The body must be valid JSON.
func (s *Session) Capture(name string, body []byte) error {
	if !jchain.ValidJSON(body) {
		return fmt.Errorf("capture %q: body is not valid JSON", name)
	}
	// the body is retained, so keep a private copy
	cp := append([]byte(nil), body...)
	if err := s.sources.Put(name, jchain.Raw(cp)); err != nil {
		return fmt.Errorf("capture %q: %w", name, err)
	}
	s.logger.Debug("captured response", slog.String("source", name), slog.Int("bytes", len(cp)))
	return nil
}

// CaptureDocument stores an already decoded document under name. The document
// is cloned.
func (s *Session) CaptureDocument(name string, doc any) error {
	if err := s.sources.Put(name, jchain.Doc(jchain.Clone(doc))); err != nil {
		return fmt.Errorf("capture %q: %w", name, err)
	}
	return nil
}

// Compose composes base with mods against every capture and the recorded
// history, then records the result as the most recent payload.
func (s *Session) Compose(base any, mods jchain.D) (jchain.D, error) {
	s.mu.Lock()
	history := make([]any, len(s.history))
	for i, h := range s.history {
		history[i] = h
	}
	strict := s.cfg.StrictReferences
	s.mu.Unlock()

	var missed []jchain.UnresolvedReference
	opts := []jchain.Option{
		jchain.WithSources(s.sources),
		jchain.WithHistory(history...),
		jchain.WithLogger(s.logger),
		jchain.WithUnresolvedHandler(func(u jchain.UnresolvedReference) { missed = append(missed, u) }),
	}
	if strict {
		opts = append(opts, jchain.WithStrictReferences())
	}

	out, err := jchain.Compose(base, mods, opts...)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.unresolved = append(s.unresolved, missed...)
	s.history = append([]jchain.D{jchain.Clone(out).(jchain.D)}, s.history...)
	if len(s.history) > s.cfg.HistoryLimit {
		s.history = s.history[:s.cfg.HistoryLimit]
	}
	s.logger.Debug("composed payload",
		slog.Int("rules", len(mods)),
		slog.Int("unresolved", len(missed)),
		slog.Int("history", len(s.history)),
	)
	return out, nil
}

// ComposeFixtures loads base and mods by name from the configured fixtures
// directory and composes them.
func (s *Session) ComposeFixtures(baseName, modsName string) (jchain.D, error) {
	base, err := s.LoadFixture(baseName)
	if err != nil {
		return nil, err
	}
	mods, err := s.LoadFixture(modsName)
	if err != nil {
		return nil, err
	}
	return s.Compose(base, mods)
}

// LoadFixture finds and loads an object fixture by name prefix under the
// configured fixtures directory.
func (s *Session) LoadFixture(name string) (jchain.D, error) {
	if s.cfg.FixturesDir == "" {
		return nil, errors.New("no fixtures directory configured")
	}
	path, err := fixture.Find(s.cfg.FixturesDir, name)
	if err != nil {
		return nil, err
	}
	return fixture.LoadDocument(path)
}

// History returns the recorded payloads, most recent first.
func (s *Session) History() []jchain.D {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]jchain.D, len(s.history))
	for i, h := range s.history {
		out[i] = jchain.Clone(h).(jchain.D)
	}
	return out
}

// Unresolved returns every reference that resolved to nothing so far.
func (s *Session) Unresolved() []jchain.UnresolvedReference {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]jchain.UnresolvedReference(nil), s.unresolved...)
}

// Sources returns the names of the captured responses in capture order.
func (s *Session) Sources() []string {
	list := s.sources.List()
	names := make([]string, len(list))
	for i, ns := range list {
		names[i] = ns.Name
	}
	return names
}

// Reset drops captures, history and unresolved references.
func (s *Session) Reset() {
	for _, ns := range s.sources.List() {
		s.sources.Remove(ns.Name)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history = nil
	s.unresolved = nil
}
