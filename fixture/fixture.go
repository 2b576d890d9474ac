// Package fixture locates and loads payload fixtures: base documents,
// modification documents and canned responses stored as JSON or YAML files.
// Object key order is kept in both formats since modification rules are
// applied in declaration order.
package fixture

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/calumari/jchain"
)

var (
	// ErrNotFound is returned by Find when no file matches.
	ErrNotFound = errors.New("fixture not found")
	// ErrUnsupportedFormat is returned for extensions other than .json, .yaml and .yml.
	ErrUnsupportedFormat = errors.New("unsupported fixture format")
)

// Find walks root and returns the first regular file whose name starts with
// name, compared case-insensitively. Directories are walked in lexical order,
// so the result is stable for a given tree.
func Find(root, name string) (string, error) {
	if name == "" {
		return "", fmt.Errorf("empty fixture name: %w", ErrNotFound)
	}
	if _, err := os.Stat(root); err != nil {
		return "", fmt.Errorf("fixture root %s: %w", root, err)
	}

	prefix := strings.ToLower(name)
	var found string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if strings.HasPrefix(strings.ToLower(d.Name()), prefix) {
			found = path
			return fs.SkipAll
		}
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("searching %s for %q: %w", root, name, err)
	}
	if found == "" {
		return "", fmt.Errorf("%q under %s: %w", name, root, ErrNotFound)
	}
	return found, nil
}

// Load reads a fixture file and decodes it into the ordered value model.
func Load(path string) (any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading fixture %s: %w", path, err)
	}

	var v any
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		v, err = jchain.Unmarshal(data)
	case ".yaml", ".yml":
		v, err = FromYAML(data)
	default:
		return nil, fmt.Errorf("fixture %s: %w %q", path, ErrUnsupportedFormat, ext)
	}
	if err != nil {
		return nil, fmt.Errorf("parsing fixture %s: %w", path, err)
	}
	return v, nil
}

// LoadDocument is like Load but requires the fixture to hold an object.
func LoadDocument(path string) (jchain.D, error) {
	v, err := Load(path)
	if err != nil {
		return nil, err
	}
	d, ok := v.(jchain.D)
	if !ok {
		return nil, fmt.Errorf("fixture %s: %w", path, jchain.ErrNotObject)
	}
	return d, nil
}

// LoadRaw reads a fixture as raw JSON bytes, converting YAML to JSON. The
// result is suitable for jchain.Raw.
func LoadRaw(path string) ([]byte, error) {
	if ext := strings.ToLower(filepath.Ext(path)); ext == ".json" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading fixture %s: %w", path, err)
		}
		return data, nil
	}
	v, err := Load(path)
	if err != nil {
		return nil, err
	}
	data, err := jchain.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encoding fixture %s: %w", path, err)
	}
	return data, nil
}
