// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package cache

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/beevik/etree"
	_ "github.com/mattn/go-sqlite3"
	"github.com/sirupsen/logrus"

	"github.com/pdiddy/bibcloud/pkg/types"
)

// SQLiteStore keeps one row per record. Rows hold the record element as
// XML and are inserted with INSERT OR IGNORE, so a cached record is never
// replaced.
type SQLiteStore struct {
	db  *sql.DB
	log logrus.FieldLogger
}

// OpenSQLite opens or creates the database at path and its schema.
func OpenSQLite(path string, log logrus.FieldLogger) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	s := &SQLiteStore{db: db, log: log.WithField("file", path)}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

func (s *SQLiteStore) createSchema() error {
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS records (
		key TEXT PRIMARY KEY,
		type TEXT NOT NULL,
		xml TEXT NOT NULL,
		added_at TEXT NOT NULL
	)`)
	return err
}

// Lookup implements Store. Query and decode failures are logged and
// reported as a miss.
func (s *SQLiteStore) Lookup(canonical string) (types.Record, bool) {
	key, ok := types.DBLPKey(canonical)
	if !ok {
		return types.Record{}, false
	}
	var raw string
	err := s.db.QueryRow(`SELECT xml FROM records WHERE key = ?`, key).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return types.Record{}, false
	}
	if err != nil {
		s.log.WithError(err).WithField("citation", canonical).Error("cache lookup failed")
		return types.Record{}, false
	}
	doc, err := readDocument([]byte(raw))
	if err == nil {
		var el *etree.Element
		if el, err = recordElement(doc); err == nil {
			var rec types.Record
			if rec, err = parseRecord(el); err == nil {
				return rec, true
			}
		}
	}
	s.log.WithError(err).WithField("citation", canonical).Warn("cached row is corrupt")
	return types.Record{}, false
}

// Append implements Store.
func (s *SQLiteStore) Append(data []byte) (types.Record, error) {
	rec, el, err := parseResponse(data)
	if err != nil {
		return types.Record{}, err
	}

	doc := etree.NewDocument()
	doc.SetRoot(el)
	raw, err := doc.WriteToString()
	if err != nil {
		return types.Record{}, fmt.Errorf("serializing record: %w", err)
	}

	res, err := s.db.Exec(
		`INSERT OR IGNORE INTO records (key, type, xml, added_at) VALUES (?, ?, ?, ?)`,
		rec.Key, string(rec.Type), raw, time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return types.Record{}, fmt.Errorf("inserting record %s: %w", rec.Key, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		if existing, ok := s.Lookup(rec.Canonical()); ok {
			return existing, nil
		}
	}
	return rec, nil
}

// Keys implements Store.
func (s *SQLiteStore) Keys() []string {
	rows, err := s.db.Query(`SELECT key FROM records ORDER BY rowid`)
	if err != nil {
		s.log.WithError(err).Error("listing cache failed")
		return nil
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			s.log.WithError(err).Error("listing cache failed")
			return keys
		}
		keys = append(keys, types.CanonicalKey(k))
	}
	return keys
}

// Len implements Store.
func (s *SQLiteStore) Len() int {
	var n int
	if err := s.db.QueryRow(`SELECT count(*) FROM records`).Scan(&n); err != nil {
		s.log.WithError(err).Error("counting cache failed")
	}
	return n
}

// Close releases the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
