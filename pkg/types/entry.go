// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Delimiter selects how a BibTeX field value is enclosed.
type Delimiter int

const (
	// Braced writes {value}.
	Braced Delimiter = iota
	// DoubleBraced writes {{value}}, protecting capitalization.
	DoubleBraced
	// Quoted writes "value".
	Quoted
	// Bare writes value unenclosed, as a @string macro reference.
	Bare
)

// EntryField is one normalized "name = value" pair.
type EntryField struct {
	Name      string
	Value     string
	Delimiter Delimiter
}

// Entry is the normalized, escaped BibTeX form of a Record.
type Entry struct {
	// Type is the BibTeX entry type written after '@'.
	Type string

	// Key is the cite key as used in the LaTeX document.
	Key string

	// Fields are written in order.
	Fields []EntryField
}

// Field returns the first field with the given name.
func (e Entry) Field(name string) (EntryField, bool) {
	for _, f := range e.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return EntryField{}, false
}

// BibStyle is the bibliography style declared by \bibstyle in the aux file.
type BibStyle string

// StyleAbbrvnat is the natbib abbreviated style. It renders ee/doi fields
// poorly, so electronic identifiers are left out under it.
const StyleAbbrvnat BibStyle = "abbrvnat"

// SuppressesElectronicID reports whether ee/doi output is disabled.
func (s BibStyle) SuppressesElectronicID() bool {
	return s == StyleAbbrvnat
}
