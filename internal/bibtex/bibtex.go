// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package bibtex serializes normalized entries to a .bib file.
package bibtex

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pdiddy/bibcloud/pkg/types"
)

// Header opens every generated file.
const Header = "%%% This file is automatically generated by bibcloud\n%%% DO NOT EDIT\n\n"

// Write writes the header and then each entry in the order given.
func Write(w io.Writer, entries []types.Entry) error {
	bw := bufio.NewWriter(w)
	bw.WriteString(Header)
	for _, e := range entries {
		bw.WriteString(Format(e))
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("writing bibliography: %w", err)
	}
	return nil
}

// Format renders one entry, preceded by a blank line:
//
//	@inproceedings{DBLP:conf/osdi/Smith10,
//	  author = {Jane Smith},
//	  booktitle = OSDI10
//	}
func Format(e types.Entry) string {
	var b strings.Builder
	fmt.Fprintf(&b, "\n@%s{%s,\n", e.Type, e.Key)
	for i, f := range e.Fields {
		if i > 0 {
			b.WriteString(",\n")
		}
		b.WriteString("  ")
		b.WriteString(f.Name)
		b.WriteString(" = ")
		b.WriteString(delimit(f))
	}
	b.WriteString("\n}\n")
	return b.String()
}

func delimit(f types.EntryField) string {
	switch f.Delimiter {
	case types.DoubleBraced:
		return "{{" + f.Value + "}}"
	case types.Quoted:
		return `"` + f.Value + `"`
	case types.Bare:
		return f.Value
	default:
		return "{" + f.Value + "}"
	}
}

// WriteFile writes entries to path through a temporary file in the same
// directory, so path is either fully replaced or left as it was.
func WriteFile(path string, entries []types.Entry) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".bibcloud-*.bib")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()

	writeErr := Write(tmp, entries)
	closeErr := tmp.Close()
	if writeErr != nil {
		os.Remove(tmpPath)
		return writeErr
	}
	if closeErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("closing temp file: %w", closeErr)
	}
	if err := os.Chmod(tmpPath, 0o644); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("setting mode on %s: %w", tmpPath, err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("renaming %s: %w", path, err)
	}
	return nil
}
