// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package cache

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/beevik/etree"
	"github.com/sirupsen/logrus"

	"github.com/pdiddy/bibcloud/pkg/types"
)

// XMLStore keeps the cache as one DBLP-style XML document. The whole tree
// is held in memory and rewritten on every append.
type XMLStore struct {
	path  string
	doc   *etree.Document
	root  *etree.Element
	index map[string]types.Record
	order []string
	log   logrus.FieldLogger
}

// OpenXML loads the cache document at path. A missing or unparsable file
// is logged and the cache starts empty.
func OpenXML(path string, log logrus.FieldLogger) (*XMLStore, error) {
	s := &XMLStore{
		path:  path,
		index: make(map[string]types.Record),
		log:   log.WithField("file", path),
	}

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		s.log.Info("no cache yet, starting empty")
		s.reset()
		return s, nil
	case err != nil:
		return nil, fmt.Errorf("reading cache: %w", err)
	}

	doc, err := readDocument(data)
	if err != nil || doc.Root().Tag != rootTag {
		s.log.WithError(err).Warn("cache is corrupt, starting empty")
		s.reset()
		return s, nil
	}
	setUTF8(doc)
	s.doc = doc
	s.root = doc.Root()

	for _, el := range s.root.ChildElements() {
		rec, err := parseRecord(el)
		if err != nil {
			s.log.WithError(err).Warn("skipping cached element")
			continue
		}
		s.add(rec)
	}
	s.log.WithField("records", len(s.order)).Debug("cache loaded")
	return s, nil
}

func (s *XMLStore) reset() {
	s.doc = newDocument()
	s.root = s.doc.Root()
}

func (s *XMLStore) add(rec types.Record) {
	c := rec.Canonical()
	if _, ok := s.index[c]; ok {
		return
	}
	s.index[c] = rec
	s.order = append(s.order, c)
}

// Lookup implements Store.
func (s *XMLStore) Lookup(canonical string) (types.Record, bool) {
	rec, ok := s.index[canonical]
	return rec, ok
}

// Append implements Store. The record element is copied verbatim into the
// tree; existing elements are left untouched so their serialization does
// not change between runs.
func (s *XMLStore) Append(data []byte) (types.Record, error) {
	rec, el, err := parseResponse(data)
	if err != nil {
		return types.Record{}, err
	}
	if existing, ok := s.index[rec.Canonical()]; ok {
		return existing, nil
	}

	s.root.AddChild(el)
	s.root.CreateText("\n")
	if err := s.flush(); err != nil {
		s.root.RemoveChildAt(len(s.root.Child) - 1)
		s.root.RemoveChild(el)
		return types.Record{}, err
	}
	s.add(rec)
	return rec, nil
}

// flush writes the document to a temporary file and renames it over the
// cache, so a failed write leaves the previous cache intact.
func (s *XMLStore) flush() error {
	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".cache-*.xml")
	if err != nil {
		return fmt.Errorf("creating temp cache file: %w", err)
	}
	tmpPath := tmp.Name()

	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("setting cache file mode: %w", err)
	}
	if _, err := s.doc.WriteTo(tmp); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("writing cache: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("closing temp cache file: %w", err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("renaming cache file: %w", err)
	}
	return nil
}

// Keys implements Store.
func (s *XMLStore) Keys() []string {
	return append([]string(nil), s.order...)
}

// Len implements Store.
func (s *XMLStore) Len() int { return len(s.order) }

// Close implements Store. Every append is already on disk.
func (s *XMLStore) Close() error { return nil }
