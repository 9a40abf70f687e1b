// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package overrides loads the user-maintained correction tables: title
// replacements and venue short names.
package overrides

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// Titles maps a raw DBLP title to the text that replaces it.
type Titles map[string]string

// Lookup returns the replacement for raw, if any.
func (t Titles) Lookup(raw string) (string, bool) {
	s, ok := t[raw]
	return s, ok
}

// LoadTitles reads a title override file. Each line is
// "<raw title>|<replacement>". Lines starting with '%' or '#' are comments.
// A missing file yields an empty table.
func LoadTitles(path string, log logrus.FieldLogger) (Titles, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			log.WithField("file", path).Debug("no title override file")
			return Titles{}, nil
		}
		return nil, fmt.Errorf("opening title file %s: %w", path, err)
	}
	defer f.Close()
	return ParseTitles(f, log.WithField("file", path))
}

// ParseTitles reads title overrides from r. Lines without exactly one '|'
// are logged and skipped. Titles may legitimately contain '%', so comments
// are whole-line only.
func ParseTitles(r io.Reader, log logrus.FieldLogger) (Titles, error) {
	titles := Titles{}
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "%") || strings.HasPrefix(line, "#") {
			continue
		}
		parts := strings.Split(line, "|")
		if len(parts) != 2 {
			log.WithField("line", lineNo).Warnf("title override: bad line %q", line)
			continue
		}
		raw, repl := strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1])
		if raw == "" || repl == "" {
			log.WithField("line", lineNo).Warnf("title override: empty side in %q", line)
			continue
		}
		titles[raw] = repl
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading title overrides: %w", err)
	}
	return titles, nil
}
