// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package normalize turns cached DBLP records into BibTeX entries.
//
// It repairs non-ASCII text, escapes '%' and '&', strips DBLP author
// disambiguation numbers, applies title overrides, resolves venue names to
// per-year @string macros and decides between doi and ee output.
package normalize

import (
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/pdiddy/bibcloud/internal/overrides"
	"github.com/pdiddy/bibcloud/pkg/types"
)

// ErrUnknownRecordType is returned for DBLP records other than article,
// inproceedings, incollection and book.
var ErrUnknownRecordType = errors.New("unknown record type")

type fieldMode int

const (
	modeVerbatim fieldMode = iota
	modeDoubleBraced
	modeElectronic
)

type fieldSpec struct {
	name string
	mode fieldMode
}

var (
	proceedingsFields = []fieldSpec{
		{"title", modeDoubleBraced},
		{"pages", modeVerbatim},
		{"year", modeVerbatim},
		{"ee", modeElectronic},
	}

	fieldLists = map[types.RecordType][]fieldSpec{
		types.RecordArticle: {
			{"title", modeDoubleBraced},
			{"journal", modeVerbatim},
			{"volume", modeVerbatim},
			{"number", modeVerbatim},
			{"pages", modeVerbatim},
			{"year", modeVerbatim},
			{"ee", modeElectronic},
		},
		types.RecordInProceedings: proceedingsFields,
		types.RecordInCollection:  proceedingsFields,
		types.RecordBook: {
			{"title", modeDoubleBraced},
			{"booktitle", modeVerbatim},
			{"series", modeVerbatim},
			{"publisher", modeVerbatim},
			{"year", modeVerbatim},
		},
	}
)

// doiPrefixes are resolver URL prefixes under which DBLP stores DOIs.
var doiPrefixes = []string{
	"http://doi.acm.org/",
	"http://doi.ieeecomputersociety.org/",
	"http://dx.doi.org/",
	"https://dx.doi.org/",
	"http://doi.org/",
	"https://doi.org/",
}

// disambiguationPrefix starts the numeric suffix DBLP appends to
// homonymous author names ("Jane Doe 0001").
const disambiguationPrefix = "000"

// Options configures a Normalizer.
type Options struct {
	Titles overrides.Titles
	Venues *VenueTable
	Style  types.BibStyle
	Logger logrus.FieldLogger
}

// Normalizer converts records to entries. It holds only read-only tables
// and is safe to reuse across records.
type Normalizer struct {
	titles overrides.Titles
	venues *VenueTable
	style  types.BibStyle
	log    logrus.FieldLogger
}

// New builds a Normalizer. A nil Venues uses the built-in table only.
func New(opts Options) *Normalizer {
	n := &Normalizer{
		titles: opts.Titles,
		venues: opts.Venues,
		style:  opts.Style,
		log:    opts.Logger,
	}
	if n.titles == nil {
		n.titles = overrides.Titles{}
	}
	if n.venues == nil {
		n.venues = NewVenueTable(overrides.Venues{})
	}
	if n.log == nil {
		l := logrus.New()
		l.SetLevel(logrus.PanicLevel)
		n.log = l
	}
	return n
}

// Normalize converts rec into a BibTeX entry. citedAs is the key used in
// the LaTeX document; when it differs from the record's canonical key the
// entry records the alias in a bibsource field.
func (n *Normalizer) Normalize(rec types.Record, citedAs string) (types.Entry, error) {
	specs, ok := fieldLists[rec.Type]
	if !ok {
		return types.Entry{}, fmt.Errorf("%w: %q for %s", ErrUnknownRecordType, rec.Type, rec.Canonical())
	}
	log := n.log.WithField("citation", rec.Canonical())

	entryType := string(rec.Type)
	if rec.Type == types.RecordInCollection {
		entryType = string(types.RecordInProceedings)
	}
	if citedAs == "" {
		citedAs = rec.Canonical()
	}
	e := types.Entry{Type: entryType, Key: citedAs}

	e.Fields = append(e.Fields, types.EntryField{
		Name:  "author",
		Value: n.authors(rec, log),
	})

	electronicDone := n.style.SuppressesElectronicID()
	for _, spec := range specs {
		for _, raw := range rec.Values(spec.name) {
			switch spec.mode {
			case modeVerbatim:
				v, rep := cleanText(raw)
				n.logRepair(log, spec.name, rep)
				e.Fields = append(e.Fields, types.EntryField{Name: spec.name, Value: v})
			case modeDoubleBraced:
				e.Fields = append(e.Fields, types.EntryField{
					Name:      spec.name,
					Value:     n.doubleBraced(spec.name, raw, log),
					Delimiter: types.DoubleBraced,
				})
			case modeElectronic:
				if electronicDone {
					continue
				}
				e.Fields = append(e.Fields, electronicField(raw))
				electronicDone = true
			}
		}
	}

	if rec.Type == types.RecordInProceedings || rec.Type == types.RecordInCollection {
		venue, f, ok := n.booktitle(rec, log)
		if ok {
			e.Fields = append(e.Fields, f)
		}
		if n.venues.IsWorkshop(venue) || rec.Type == types.RecordInCollection {
			log.WithField("venue", venue).Debug("tagged as workshop")
			e.Fields = append(e.Fields, types.EntryField{Name: "keywords", Value: "workshop"})
		}
	}

	if citedAs != rec.Canonical() {
		e.Fields = append(e.Fields, types.EntryField{
			Name:  "bibsource",
			Value: "DBLP alias: " + rec.Canonical(),
		})
	}
	return e, nil
}

// authors joins the cleaned author list with " and ".
func (n *Normalizer) authors(rec types.Record, log logrus.FieldLogger) string {
	raw := rec.Values("author")
	names := make([]string, 0, len(raw))
	for _, a := range raw {
		v, rep := cleanText(a)
		n.logRepair(log, "author", rep)
		names = append(names, TrimDisambiguation(v))
	}
	return strings.Join(names, " and ")
}

// doubleBraced produces the value of a {{...}} field. A title override
// replaces the raw title and is escaped but not repaired.
func (n *Normalizer) doubleBraced(name, raw string, log logrus.FieldLogger) string {
	if name == "title" {
		if repl, ok := n.titles.Lookup(raw); ok {
			log.Debug("title override applied")
			return EscapeText(repl)
		}
	}
	v, rep := cleanText(raw)
	n.logRepair(log, name, rep)
	return v
}

// booktitle synthesizes the venue field. It returns the venue name used for
// workshop matching, the field, and whether a field should be written.
func (n *Normalizer) booktitle(rec types.Record, log logrus.FieldLogger) (string, types.EntryField, bool) {
	raw, ok := rec.First("booktitle")
	if !ok || strings.TrimSpace(raw) == "" {
		log.Warn("record has no booktitle")
		return "", types.EntryField{}, false
	}
	year, _ := rec.First("year")
	yy := twoDigitYear(year)

	short, known := n.venues.Lookup(raw)
	switch {
	case known && !strings.Contains(short, " "):
		return short, types.EntryField{Name: "booktitle", Value: short + yy, Delimiter: types.Bare}, true
	case known:
		return short, types.EntryField{Name: "booktitle", Value: quotedText(short), Delimiter: types.Quoted}, true
	case !strings.Contains(raw, " "):
		// Already an acronym such as "OSDI".
		return raw, types.EntryField{Name: "booktitle", Value: raw + yy, Delimiter: types.Bare}, true
	default:
		log.WithField("venue", raw).Warn("unknown conference")
		return raw, types.EntryField{Name: "booktitle", Value: quotedText(raw), Delimiter: types.Quoted}, true
	}
}

// electronicField maps a DBLP ee URL to a doi field when it points at a
// known DOI resolver, and to an ee field otherwise.
func electronicField(url string) types.EntryField {
	for _, p := range doiPrefixes {
		if strings.HasPrefix(url, p) {
			return types.EntryField{Name: "doi", Value: strings.TrimPrefix(url, p)}
		}
	}
	return types.EntryField{Name: "ee", Value: EscapePercent(url)}
}

// TrimDisambiguation drops a trailing DBLP homonym number from an author
// name: "Jane Doe 0001" becomes "Jane Doe".
func TrimDisambiguation(name string) string {
	words := strings.Split(name, " ")
	if len(words) < 2 {
		return name
	}
	if strings.HasPrefix(words[len(words)-1], disambiguationPrefix) {
		return strings.Join(words[:len(words)-1], " ")
	}
	return name
}

// twoDigitYear returns the last two characters of a year ("2016" -> "16").
func twoDigitYear(year string) string {
	year = strings.TrimSpace(year)
	if len(year) <= 2 {
		return year
	}
	return year[len(year)-2:]
}

func (n *Normalizer) logRepair(log logrus.FieldLogger, field string, rep RepairResult) {
	if !rep.Fallback {
		return
	}
	entry := log.WithField("field", field)
	if len(rep.Unmapped) > 0 {
		entry.Warnf("characters without a BibTeX mapping passed through: %q", string(rep.Unmapped))
		return
	}
	entry.Debug("non-ASCII text converted")
}
