// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package cache stores DBLP records that have already been fetched, keyed
// by canonical citation key. Records are appended and never edited.
package cache

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/pdiddy/bibcloud/pkg/types"
)

var (
	// ErrInvalidRecord reports a document that does not hold a usable DBLP
	// record.
	ErrInvalidRecord = errors.New("invalid DBLP record")

	// ErrUnknownBackend is returned by Open for an unrecognized backend.
	ErrUnknownBackend = errors.New("unknown cache backend")
)

// Store is a persistent set of DBLP records.
type Store interface {
	// Lookup returns the record cached under a canonical key.
	Lookup(canonical string) (types.Record, bool)

	// Append parses a DBLP response document and stores its record. If the
	// key is already cached the existing record is returned unchanged.
	Append(doc []byte) (types.Record, error)

	// Keys returns the cached canonical keys in insertion order.
	Keys() []string

	// Len returns the number of cached records.
	Len() int

	Close() error
}

// Open creates cfg.Dir if needed and opens the configured backend.
func Open(cfg types.CacheConfig, log logrus.FieldLogger) (Store, error) {
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating cache directory: %w", err)
	}
	switch cfg.Backend {
	case types.BackendXML, "":
		return OpenXML(filepath.Join(cfg.Dir, orDefault(cfg.XMLFile, types.DefaultXMLFile)), log)
	case types.BackendSQLite:
		return OpenSQLite(filepath.Join(cfg.Dir, orDefault(cfg.SQLiteFile, types.DefaultSQLiteFile)), log)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, cfg.Backend)
	}
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
