// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package overrides

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTitles(t *testing.T) {
	in := `% fix capitalization
the Foo System|The Foo System
  Paxos made simple.  |  Paxos Made Simple.
no separator here
a|b|c
100% Uptime|100% Uptime, Really
`
	logger, hook := test.NewNullLogger()
	titles, err := ParseTitles(strings.NewReader(in), logger)
	require.NoError(t, err)

	assert.Len(t, titles, 3)
	got, ok := titles.Lookup("the Foo System")
	assert.True(t, ok)
	assert.Equal(t, "The Foo System", got)

	got, ok = titles.Lookup("Paxos made simple.")
	assert.True(t, ok)
	assert.Equal(t, "Paxos Made Simple.", got)

	_, ok = titles.Lookup("100% Uptime")
	assert.True(t, ok, "percent signs inside titles are not comments")

	assert.Len(t, hook.AllEntries(), 2)
}

func TestLoadTitlesMissing(t *testing.T) {
	logger, _ := test.NewNullLogger()
	titles, err := LoadTitles(filepath.Join(t.TempDir(), "dblp-title.txt"), logger)
	require.NoError(t, err)
	assert.Empty(t, titles)
}

func TestLoadVenues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dblp-venue.yaml")
	data := `venues:
  "Foo Bar Workshop": FBW
  "Some Long Venue": "Some Long Venue"
  "Broken": ""
workshops:
  - FBW
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	logger, hook := test.NewNullLogger()
	v, err := LoadVenues(path, logger)
	require.NoError(t, err)

	assert.Equal(t, "FBW", v.Names["Foo Bar Workshop"])
	assert.Equal(t, "Some Long Venue", v.Names["Some Long Venue"])
	assert.NotContains(t, v.Names, "Broken")
	assert.Equal(t, []string{"FBW"}, v.Workshops)
	assert.Len(t, hook.AllEntries(), 1)
}

func TestLoadVenuesMissing(t *testing.T) {
	logger, _ := test.NewNullLogger()
	v, err := LoadVenues(filepath.Join(t.TempDir(), "none.yaml"), logger)
	require.NoError(t, err)
	assert.Empty(t, v.Names)
	assert.Empty(t, v.Workshops)
}

func TestLoadVenuesInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dblp-venue.yaml")
	require.NoError(t, os.WriteFile(path, []byte("venues: [unclosed"), 0o644))

	logger, _ := test.NewNullLogger()
	_, err := LoadVenues(path, logger)
	assert.Error(t, err)
}
