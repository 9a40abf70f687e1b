// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package alias maps human-friendly citation names to DBLP keys.
//
// The alias file holds one "<alias> <DBLP:key>" pair per line. Text after
// '%' or '#' is a comment. The mapping is kept bijective: one alias per
// DBLP key and one DBLP key per alias.
package alias

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/pdiddy/bibcloud/pkg/types"
)

var (
	// ErrNotBijective is returned when the alias file binds an alias or a
	// DBLP key twice to different partners.
	ErrNotBijective = errors.New("alias mapping is not bijective")

	// ErrAliasConflict is returned when a document cites a DBLP key both
	// through its alias and directly.
	ErrAliasConflict = errors.New("citations cannot be used both aliased and non-aliased")
)

// Resolver holds the forward and reverse alias mappings. It is read-only
// after Load.
type Resolver struct {
	forward map[string]string // alias -> canonical
	reverse map[string]string // canonical -> alias
}

// NewResolver returns an empty resolver.
func NewResolver() *Resolver {
	return &Resolver{
		forward: make(map[string]string),
		reverse: make(map[string]string),
	}
}

// Load reads the alias file at path. A missing file is not an error and
// yields an empty resolver.
func Load(path string, log logrus.FieldLogger) (*Resolver, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			log.WithField("file", path).Info("no alias file")
			return NewResolver(), nil
		}
		return nil, fmt.Errorf("opening alias file %s: %w", path, err)
	}
	defer f.Close()

	r, err := Parse(f, log.WithField("file", path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return r, nil
}

// Parse reads alias definitions from r. Malformed lines are logged and
// skipped.
func Parse(r io.Reader, log logrus.FieldLogger) (*Resolver, error) {
	res := NewResolver()
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(stripComment(scanner.Text()))
		if line == "" {
			continue
		}

		fields := strings.Fields(line)
		if len(fields) < 2 || !strings.Contains(fields[1], types.CanonicalPrefix) {
			log.WithField("line", lineNo).Warnf("alias parsing: bad line %q", line)
			continue
		}
		if err := res.add(fields[0], fields[1]); err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading aliases: %w", err)
	}
	return res, nil
}

func (r *Resolver) add(alias, canonical string) error {
	prevCanon, hasAlias := r.forward[alias]
	prevAlias, hasCanon := r.reverse[canonical]
	if hasAlias && prevCanon == canonical {
		return nil
	}
	if hasAlias {
		return fmt.Errorf("%w: alias %s maps to both %s and %s", ErrNotBijective, alias, prevCanon, canonical)
	}
	if hasCanon {
		return fmt.Errorf("%w: %s has aliases %s and %s", ErrNotBijective, canonical, prevAlias, alias)
	}
	r.forward[alias] = canonical
	r.reverse[canonical] = alias
	return nil
}

// stripComment drops everything from the first '%' or '#'.
func stripComment(line string) string {
	if i := strings.IndexAny(line, "%#"); i >= 0 {
		return line[:i]
	}
	return line
}

// Len returns the number of alias pairs.
func (r *Resolver) Len() int {
	return len(r.forward)
}

// Resolve returns the canonical key for an alias, or key unchanged.
func (r *Resolver) Resolve(key string) string {
	if c, ok := r.forward[key]; ok {
		return c
	}
	return key
}

// Reverse returns the alias for a canonical key, or key unchanged.
func (r *Resolver) Reverse(key string) string {
	if a, ok := r.reverse[key]; ok {
		return a
	}
	return key
}

// Conflicts returns the keys that are cited directly even though an alias
// exists for them.
func (r *Resolver) Conflicts(keys []string) []string {
	var out []string
	for _, k := range keys {
		if _, ok := r.reverse[k]; ok {
			out = append(out, k)
		}
	}
	return out
}

// Check returns ErrAliasConflict naming every conflicting key.
func (r *Resolver) Check(keys []string) error {
	if c := r.Conflicts(keys); len(c) > 0 {
		return fmt.Errorf("%w: %s", ErrAliasConflict, strings.Join(c, ", "))
	}
	return nil
}

// ResolveAll maps keys to canonical form, preserving order.
func (r *Resolver) ResolveAll(keys []string) []string {
	out := make([]string, len(keys))
	for i, k := range keys {
		out[i] = r.Resolve(k)
	}
	return out
}
