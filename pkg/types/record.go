// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "strings"

// CanonicalPrefix marks a citation key as a DBLP record reference.
const CanonicalPrefix = "DBLP:"

// IsCanonical reports whether key refers to a DBLP record.
func IsCanonical(key string) bool {
	return strings.HasPrefix(key, CanonicalPrefix)
}

// CanonicalKey turns a DBLP record key ("conf/osdi/Smith10") into a
// citation key ("DBLP:conf/osdi/Smith10").
func CanonicalKey(dblpKey string) string {
	return CanonicalPrefix + dblpKey
}

// DBLPKey strips the canonical prefix. ok is false for non-DBLP keys.
func DBLPKey(citation string) (key string, ok bool) {
	if !IsCanonical(citation) {
		return "", false
	}
	return strings.TrimPrefix(citation, CanonicalPrefix), true
}

// RecordType is the DBLP element tag of a cached record.
type RecordType string

const (
	RecordArticle       RecordType = "article"
	RecordInProceedings RecordType = "inproceedings"
	RecordInCollection  RecordType = "incollection"
	RecordBook          RecordType = "book"
)

// Known reports whether t is one of the record types bibcloud can emit.
func (t RecordType) Known() bool {
	switch t {
	case RecordArticle, RecordInProceedings, RecordInCollection, RecordBook:
		return true
	}
	return false
}

// Field is one child element of a DBLP record, in document order.
type Field struct {
	Name  string `json:"name" yaml:"name"`
	Value string `json:"value" yaml:"value"`
}

// Record holds a DBLP bibliographic record as obtained from the remote
// service. Records are never edited once cached.
type Record struct {
	// Key is the DBLP record key without the canonical prefix.
	Key string `json:"key" yaml:"key"`

	// Type is the record's element tag.
	Type RecordType `json:"type" yaml:"type"`

	// Fields lists the record's children in document order; repeated
	// names (author, ee) appear once per occurrence.
	Fields []Field `json:"fields" yaml:"fields"`
}

// Canonical returns the record's citation key.
func (r Record) Canonical() string {
	return CanonicalKey(r.Key)
}

// Values returns every value of the named field in document order.
func (r Record) Values(name string) []string {
	var out []string
	for _, f := range r.Fields {
		if f.Name == name {
			out = append(out, f.Value)
		}
	}
	return out
}

// First returns the first value of the named field.
func (r Record) First(name string) (string, bool) {
	for _, f := range r.Fields {
		if f.Name == name {
			return f.Value, true
		}
	}
	return "", false
}
