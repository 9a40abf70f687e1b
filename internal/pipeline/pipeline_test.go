// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/bibcloud/internal/alias"
	"github.com/pdiddy/bibcloud/internal/cache"
	"github.com/pdiddy/bibcloud/internal/citations"
	"github.com/pdiddy/bibcloud/internal/normalize"
	"github.com/pdiddy/bibcloud/pkg/types"
)

var records = map[string]string{
	"conf/osdi/Smith10": `<?xml version="1.0" encoding="US-ASCII"?>
<dblp>
<inproceedings key="conf/osdi/Smith10" mdate="2010-11-01">
<author>Jane Smith 0001</author>
<title>the Foo System.</title>
<pages>1-14</pages>
<year>2010</year>
<booktitle>OSDI</booktitle>
<ee>http://dx.doi.org/10.1/abc</ee>
</inproceedings>
</dblp>
`,
	"journals/cacm/Jones99": `<?xml version="1.0" encoding="US-ASCII"?>
<dblp>
<article key="journals/cacm/Jones99" mdate="2000-01-01">
<author>Bob Jones</author>
<title>On Things &amp; Stuff.</title>
<journal>Commun. ACM</journal>
<volume>42</volume>
<year>1999</year>
</article>
</dblp>
`,
	"phd/Doe20": `<?xml version="1.0" encoding="US-ASCII"?>
<dblp>
<phdthesis key="phd/Doe20"><author>Jo Doe</author><title>T.</title><year>2020</year></phdthesis>
</dblp>
`,
}

type fixture struct {
	dir   string
	cfg   types.Config
	calls *int32
	deps  Deps
}

func newFixture(t *testing.T, aux string) *fixture {
	t.Helper()
	dir := t.TempDir()
	var calls int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		key := strings.TrimSuffix(strings.TrimPrefix(r.URL.Path, "/rec/"), ".xml")
		body, ok := records[key]
		if !ok {
			http.NotFound(w, r)
			return
		}
		fmt.Fprint(w, body)
	}))
	t.Cleanup(ts.Close)

	cfg := types.DefaultConfig()
	cfg.Fetch.BaseURL = ts.URL + "/rec/"
	cfg.Fetch.Delay = 0
	cfg.Cache.Dir = filepath.Join(dir, ".bibcloud")
	cfg.Overrides.AliasFile = filepath.Join(dir, "dblp-alias.txt")
	cfg.Overrides.TitleFile = filepath.Join(dir, "dblp-title.txt")
	cfg.Overrides.VenueFile = filepath.Join(dir, "dblp-venue.yaml")
	cfg.OutputFile = filepath.Join(dir, "dblp.bib")

	require.NoError(t, os.WriteFile(filepath.Join(dir, "paper.aux"), []byte(aux), 0o644))

	log, _ := test.NewNullLogger()
	return &fixture{
		dir:   dir,
		cfg:   cfg,
		calls: &calls,
		deps:  Deps{Client: ts.Client(), Logger: log},
	}
}

func (f *fixture) write(t *testing.T, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(f.dir, name), []byte(content), 0o644))
}

func (f *fixture) base() string { return filepath.Join(f.dir, "paper") }

func (f *fixture) output(t *testing.T) string {
	t.Helper()
	data, err := os.ReadFile(f.cfg.OutputFile)
	require.NoError(t, err)
	return string(data)
}

func TestRun_AllCached(t *testing.T) {
	f := newFixture(t, "\\citation{DBLP:journals/cacm/Jones99}\n\\citation{DBLP:conf/osdi/Smith10}\n")

	require.NoError(t, os.MkdirAll(f.cfg.Cache.Dir, 0o755))
	log, _ := test.NewNullLogger()
	store, err := cache.OpenXML(filepath.Join(f.cfg.Cache.Dir, types.DefaultXMLFile), log)
	require.NoError(t, err)
	for _, k := range []string{"conf/osdi/Smith10", "journals/cacm/Jones99"} {
		_, err := store.Append([]byte(records[k]))
		require.NoError(t, err)
	}

	sum, err := Run(context.Background(), f.cfg, f.base(), f.deps)
	require.NoError(t, err)

	assert.Equal(t, int32(0), atomic.LoadInt32(f.calls))
	assert.Equal(t, 2, sum.Cached)
	assert.Equal(t, 2, sum.Written)

	out := f.output(t)
	assert.Equal(t, 2, strings.Count(out, "\n@"))
	smith := strings.Index(out, "@inproceedings{DBLP:conf/osdi/Smith10,")
	jones := strings.Index(out, "@article{DBLP:journals/cacm/Jones99,")
	require.True(t, smith >= 0 && jones >= 0, out)
	assert.Less(t, smith, jones)
}

func TestRun_FetchAliasesAndMissing(t *testing.T) {
	f := newFixture(t, strings.Join([]string{
		`\relax`,
		`\citation{DBLP:conf/osdi/Smith10,jones}`,
		`\abx@aux@cite{knuth84}`,
		`\citation{DBLP:conf/x/Gone}`,
		`\bibstyle{plain}`,
	}, "\n"))
	f.write(t, "dblp-alias.txt", "% aliases\njones DBLP:journals/cacm/Jones99\n")
	f.write(t, "dblp-title.txt", "the Foo System.|The Foo System\n")

	sum, err := Run(context.Background(), f.cfg, f.base(), f.deps)
	require.NoError(t, err)

	assert.Equal(t, 4, sum.Citations)
	assert.Equal(t, 3, sum.Canonical)
	assert.Equal(t, 1, sum.Foreign)
	assert.Equal(t, 2, sum.Fetched)
	assert.Equal(t, 1, sum.FetchFailures)
	assert.Equal(t, 2, sum.Written)
	assert.Equal(t, []string{"DBLP:conf/x/Gone"}, sum.Missing)

	out := f.output(t)
	assert.True(t, strings.HasPrefix(out, "%%% This file is automatically generated by bibcloud\n%%% DO NOT EDIT\n"))
	assert.Contains(t, out, "@inproceedings{DBLP:conf/osdi/Smith10,")
	assert.Contains(t, out, "  author = {Jane Smith},")
	assert.Contains(t, out, "  title = {{The Foo System}},")
	assert.Contains(t, out, "  doi = {10.1/abc},")
	assert.Contains(t, out, "  booktitle = OSDI10")
	assert.Contains(t, out, "@article{jones,")
	assert.Contains(t, out, "  title = {{On Things {\\&} Stuff.}},")
	assert.Contains(t, out, "  bibsource = {DBLP alias: DBLP:journals/cacm/Jones99}")
	assert.NotContains(t, out, "knuth84")
	assert.NotContains(t, out, "Gone")

	assert.FileExists(t, filepath.Join(f.cfg.Cache.Dir, types.DefaultXMLFile))

	// A second run finds everything it can in the cache and only retries
	// the missing record.
	before := atomic.LoadInt32(f.calls)
	sum, err = Run(context.Background(), f.cfg, f.base(), f.deps)
	require.NoError(t, err)
	assert.Equal(t, 2, sum.Cached)
	assert.Equal(t, before+1, atomic.LoadInt32(f.calls))
	assert.Equal(t, out, f.output(t))
}

func TestRun_AbbrvnatSuppressesDOI(t *testing.T) {
	f := newFixture(t, "\\citation{DBLP:conf/osdi/Smith10}\n\\bibstyle{abbrvnat}\n")

	_, err := Run(context.Background(), f.cfg, f.base(), f.deps)
	require.NoError(t, err)
	assert.NotContains(t, f.output(t), "doi =")
}

func TestRun_AliasConflictIsFatal(t *testing.T) {
	f := newFixture(t, "\\citation{jones}\n\\citation{DBLP:journals/cacm/Jones99}\n")
	f.write(t, "dblp-alias.txt", "jones DBLP:journals/cacm/Jones99\n")

	_, err := Run(context.Background(), f.cfg, f.base(), f.deps)
	assert.ErrorIs(t, err, alias.ErrAliasConflict)
	assert.Equal(t, int32(0), atomic.LoadInt32(f.calls))
	assert.NoFileExists(t, f.cfg.OutputFile)
}

func TestRun_MissingAux(t *testing.T) {
	f := newFixture(t, "")
	_, err := Run(context.Background(), f.cfg, filepath.Join(f.dir, "other"), f.deps)
	assert.ErrorIs(t, err, citations.ErrMissingInput)
}

func TestRun_UnknownRecordTypeIsFatal(t *testing.T) {
	f := newFixture(t, "\\citation{DBLP:phd/Doe20}\n")
	f.write(t, "dblp.bib", "previous")

	_, err := Run(context.Background(), f.cfg, f.base(), f.deps)
	assert.ErrorIs(t, err, normalize.ErrUnknownRecordType)
	assert.Equal(t, "previous", f.output(t))
}

func TestRun_Cancelled(t *testing.T) {
	f := newFixture(t, "\\citation{DBLP:conf/osdi/Smith10}\n")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Run(ctx, f.cfg, f.base(), f.deps)
	assert.ErrorIs(t, err, context.Canceled)
	assert.NoFileExists(t, f.cfg.OutputFile)
}

func TestFetch(t *testing.T) {
	f := newFixture(t, "\\citation{DBLP:conf/osdi/Smith10}\n\\citation{foreign}\n")

	sum, err := Fetch(context.Background(), f.cfg, f.base()+".aux", f.deps)
	require.NoError(t, err)
	assert.Equal(t, 1, sum.Fetched)
	assert.Equal(t, 1, sum.Foreign)
	assert.NoFileExists(t, f.cfg.OutputFile)
}

func TestAuxPath(t *testing.T) {
	assert.Equal(t, "paper.aux", AuxPath("paper"))
	assert.Equal(t, "paper.aux", AuxPath("paper.aux"))
}
