// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package citations

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/bibcloud/pkg/types"
)

const sampleAux = `\relax
\citation{DBLP:conf/osdi/Smith10}
\bibstyle{plain}
\citation{DBLP:conf/osdi/Smith10,DBLP:journals/cacm/Jones99}
\@writefile{toc}{\contentsline {section}{Introduction}{1}}
\bibdata{dblp,misc}
`

func TestExtractScenario(t *testing.T) {
	doc, err := Extract(strings.NewReader(sampleAux))
	require.NoError(t, err)

	assert.Equal(t, []string{"DBLP:conf/osdi/Smith10", "DBLP:journals/cacm/Jones99"}, doc.Keys)
	assert.Equal(t, types.BibStyle("plain"), doc.Style)
	assert.Equal(t, 1, doc.StyleLines)
}

func TestExtractMarkers(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"bibtex single", `\citation{a}`, []string{"a"}},
		{"bibtex list with spaces", `\citation{b, a ,c}`, []string{"a", "b", "c"}},
		{"biblatex", `\abx@aux@cite{DBLP:conf/sosp/X01}`, []string{"DBLP:conf/sosp/X01"}},
		{"empty keys dropped", `\citation{a,,b,}`, []string{"a", "b"}},
		{"no marker", `\bibdata{dblp}`, []string{}},
		{"only first brace pair", `\citation{a}{b}`, []string{"a"}},
		{"duplicates across lines", "\\citation{z}\n\\citation{z,y}", []string{"y", "z"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := Extract(strings.NewReader(tt.in))
			require.NoError(t, err)
			assert.Equal(t, tt.want, doc.Keys)
		})
	}
}

func TestExtractKeysSortedAndUnique(t *testing.T) {
	in := "\\citation{q,b,a}\n\\abx@aux@cite{b}\n\\citation{m,a}\n"
	doc, err := Extract(strings.NewReader(in))
	require.NoError(t, err)

	assert.True(t, sort.StringsAreSorted(doc.Keys))
	seen := map[string]bool{}
	for _, k := range doc.Keys {
		assert.False(t, seen[k], "duplicate key %q", k)
		seen[k] = true
		assert.Contains(t, in, k)
	}
}

func TestExtractStyle(t *testing.T) {
	t.Run("abbrvnat", func(t *testing.T) {
		doc, err := Extract(strings.NewReader(`\bibstyle{abbrvnat}`))
		require.NoError(t, err)
		assert.Equal(t, types.StyleAbbrvnat, doc.Style)
		assert.True(t, doc.Style.SuppressesElectronicID())
	})

	t.Run("ambiguous", func(t *testing.T) {
		doc, err := Extract(strings.NewReader("\\bibstyle{plain}\n\\bibstyle{abbrvnat}\n"))
		require.NoError(t, err)
		assert.Equal(t, types.BibStyle(""), doc.Style)
		assert.Equal(t, 2, doc.StyleLines)
	})

	t.Run("absent", func(t *testing.T) {
		doc, err := Extract(strings.NewReader(`\citation{a}`))
		require.NoError(t, err)
		assert.Empty(t, doc.Style)
	})
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "paper.aux"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMissingInput)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "paper.aux")
	require.NoError(t, os.WriteFile(path, []byte(sampleAux), 0o644))

	doc, err := Load(path)
	require.NoError(t, err)
	assert.Len(t, doc.Keys, 2)
}
