// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package normalize

import (
	"sort"
	"strings"

	"github.com/pdiddy/bibcloud/internal/overrides"
)

// builtinVenues maps DBLP booktitles that are not already acronyms to the
// short names used in the abbreviation file. A short name with spaces is
// emitted as a quoted literal rather than a per-year macro.
var builtinVenues = map[string]string{
	"ACM Conference on Computer and Communications Security":     "ACM Conference on Computer and Communications Security",
	"USENIX Annual Technical Conference, General Track":          "USENIX Annual Technical Conference",
	"USENIX Annual Technical Conference":                         "USENIX",
	"Integrated Network Management":                              "Integrated Network Management",
	"Virtual Machine Research and Technology Symposium":          "Virtual Machine Research and Technology Symposium",
	"Workshop on I/O Virtualization":                             "Workshop on I/O Virtualization",
	"Best of PLDI":                                               "Best of PLDI",
	"SIGMOD Conference":                                          "SIGMOD Conference",
	"IEEE Symposium on Security and Privacy":                     "IEEE Symposium on Security and Privacy",
	"USENIX Summer":                                              "USENIX Summer",
	"USENIX Annual Technical Conference, FREENIX Track":          "USENIX Annual Technical Conference, FREENIX Track",
	"Internet Measurement Conference":                            "IMC",
	"Internet Measurement Comference":                            "IMC",
	"Internet Measurement Workshop":                              "IMC",
	"IPDPS Workshops":                                            "IPDPS",
	"USENIX Security Symposium":                                  "USS",
	"ACM SIGOPS European Workshop":                               "ACM SIGOPS European Workshop",
	"3PGCIC":                                                     "threePGCIC",
	"Big Data":                                                   "bigdata",
	"INFLOW@SOSP":                                                "inflow",
	"IEEE Real Time Technology and Applications Symposium":       "rtas",
	"Hot Interconnects":                                          "hoti",
	"Workshop on Hot Topics in Operating Systems":                "hotos",
	"IEEE WISA":                                                  "IEEE WISA",
}

// builtinWorkshops are venue names whose papers get keywords = {workshop}.
var builtinWorkshops = []string{"HotOS", "KBNets@SIGCOMM"}

// VenueTable resolves DBLP booktitles to short names. It is immutable once
// built.
type VenueTable struct {
	names     map[string]string
	workshops map[string]bool // lower-cased
}

// NewVenueTable layers user overrides on top of the built-in table.
func NewVenueTable(user overrides.Venues) *VenueTable {
	t := &VenueTable{
		names:     make(map[string]string, len(builtinVenues)+len(user.Names)),
		workshops: make(map[string]bool),
	}
	for raw, short := range builtinVenues {
		t.names[raw] = short
	}
	for raw, short := range user.Names {
		t.names[raw] = short
	}
	for _, w := range builtinWorkshops {
		t.workshops[strings.ToLower(w)] = true
	}
	for _, w := range user.Workshops {
		t.workshops[strings.ToLower(w)] = true
	}
	return t
}

// Lookup returns the short name for a raw booktitle.
func (t *VenueTable) Lookup(raw string) (string, bool) {
	s, ok := t.names[raw]
	return s, ok
}

// IsWorkshop reports whether name is tagged as a workshop. The comparison
// ignores case, so the "hotos" short name matches the HotOS entry.
func (t *VenueTable) IsWorkshop(name string) bool {
	return t.workshops[strings.ToLower(name)]
}

// VenueMapping is one row of the table, for listing.
type VenueMapping struct {
	Raw   string
	Short string
}

// Mappings returns the table sorted by raw name.
func (t *VenueTable) Mappings() []VenueMapping {
	out := make([]VenueMapping, 0, len(t.names))
	for raw, short := range t.names {
		out = append(out, VenueMapping{Raw: raw, Short: short})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Raw < out[j].Raw })
	return out
}

// Workshops returns the workshop names, lower-cased and sorted.
func (t *VenueTable) Workshops() []string {
	out := make([]string, 0, len(t.workshops))
	for w := range t.workshops {
		out = append(out, w)
	}
	sort.Strings(out)
	return out
}
