// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package citations scans a LaTeX .aux file for citation keys and the
// declared bibliography style.
package citations

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"sort"
	"strings"

	"github.com/pdiddy/bibcloud/pkg/types"
)

// ErrMissingInput is returned when the .aux file does not exist.
var ErrMissingInput = errors.New("input file does not exist")

// Citation marker patterns. Each captures the text inside the first brace
// pair after the marker.
var (
	// bibtexCiteRe matches \citation{key1,key2} lines written by LaTeX.
	bibtexCiteRe = regexp.MustCompile(`\\citation\{([^}]*)\}`)

	// biblatexCiteRe matches \abx@aux@cite{key} lines written by biblatex.
	biblatexCiteRe = regexp.MustCompile(`\\abx@aux@cite\{([^}]*)\}`)

	// bibstyleRe matches \bibstyle{name}.
	bibstyleRe = regexp.MustCompile(`\\bibstyle\{([^}]*)\}`)
)

// Document holds what bibcloud needs from an .aux file.
type Document struct {
	// Keys are the unique citation keys, sorted lexicographically.
	Keys []string

	// Style is the declared bibliography style, empty unless exactly one
	// \bibstyle line is present.
	Style types.BibStyle

	// StyleLines counts \bibstyle declarations seen.
	StyleLines int
}

// Load reads and scans the .aux file at path.
func Load(path string) (Document, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Document{}, fmt.Errorf("%w: %s", ErrMissingInput, path)
		}
		return Document{}, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	doc, err := Extract(f)
	if err != nil {
		return Document{}, fmt.Errorf("scanning %s: %w", path, err)
	}
	return doc, nil
}

// Extract scans r line by line. A marker's argument may list several keys
// separated by commas; each is returned individually.
func Extract(r io.Reader) (Document, error) {
	seen := make(map[string]bool)
	var doc Document

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		if m := bibstyleRe.FindStringSubmatch(line); m != nil {
			doc.StyleLines++
			doc.Style = types.BibStyle(strings.TrimSpace(m[1]))
		}

		for _, key := range lineKeys(line) {
			seen[key] = true
		}
	}
	if err := scanner.Err(); err != nil {
		return Document{}, err
	}

	// An ambiguous style declaration selects nothing.
	if doc.StyleLines != 1 {
		doc.Style = ""
	}

	doc.Keys = make([]string, 0, len(seen))
	for key := range seen {
		doc.Keys = append(doc.Keys, key)
	}
	sort.Strings(doc.Keys)
	return doc, nil
}

// lineKeys returns the keys cited on a single line, or nil.
func lineKeys(line string) []string {
	m := bibtexCiteRe.FindStringSubmatch(line)
	if m == nil {
		m = biblatexCiteRe.FindStringSubmatch(line)
	}
	if m == nil {
		return nil
	}

	var keys []string
	for _, k := range strings.Split(m[1], ",") {
		k = strings.TrimSpace(k)
		if k != "" {
			keys = append(keys, k)
		}
	}
	return keys
}
