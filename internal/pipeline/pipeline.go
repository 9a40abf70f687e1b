// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pipeline runs bibcloud end to end for one LaTeX document: extract
// citations, resolve aliases, fetch missing records, normalize and write the
// bibliography.
package pipeline

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/pdiddy/bibcloud/internal/alias"
	"github.com/pdiddy/bibcloud/internal/bibtex"
	"github.com/pdiddy/bibcloud/internal/cache"
	"github.com/pdiddy/bibcloud/internal/citations"
	"github.com/pdiddy/bibcloud/internal/fetch"
	"github.com/pdiddy/bibcloud/internal/normalize"
	"github.com/pdiddy/bibcloud/internal/overrides"
	"github.com/pdiddy/bibcloud/pkg/types"
)

// Deps carries the collaborators a run needs. Zero values are replaced by
// defaults built from the config.
type Deps struct {
	Client *http.Client
	Logger logrus.FieldLogger
}

// Summary reports what a run did.
type Summary struct {
	Citations     int
	Canonical     int
	Foreign       int
	Cached        int
	Fetched       int
	FetchFailures int
	Written       int
	Missing       []string
	Output        string
}

// Plan is the resolved input of a run: the citations of one document in
// canonical form, with the override tables that apply to them.
type Plan struct {
	Document citations.Document
	Aliases  *alias.Resolver
	Keys     []string
	Titles   overrides.Titles
	Venues   *normalize.VenueTable
}

// AuxPath returns the .aux file for a base name. A trailing ".aux" is
// accepted.
func AuxPath(base string) string {
	return strings.TrimSuffix(base, ".aux") + ".aux"
}

// Load extracts the citations of base, loads the override files and checks
// aliases. Alias conflicts and a missing .aux file are fatal.
func Load(cfg types.Config, base string, log logrus.FieldLogger) (*Plan, error) {
	doc, err := citations.Load(AuxPath(base))
	if err != nil {
		return nil, err
	}
	if doc.StyleLines > 1 {
		log.WithField("count", doc.StyleLines).Warn("several \\bibstyle lines, ignoring style")
	}
	log.WithFields(logrus.Fields{"citations": len(doc.Keys), "style": doc.Style}).Debug("citations extracted")

	aliases, err := alias.Load(cfg.Overrides.AliasFile, log)
	if err != nil {
		return nil, err
	}
	titles, err := overrides.LoadTitles(cfg.Overrides.TitleFile, log)
	if err != nil {
		return nil, err
	}
	venues, err := overrides.LoadVenues(cfg.Overrides.VenueFile, log)
	if err != nil {
		return nil, err
	}

	if err := aliases.Check(doc.Keys); err != nil {
		return nil, err
	}

	return &Plan{
		Document: doc,
		Aliases:  aliases,
		Keys:     aliases.ResolveAll(doc.Keys),
		Titles:   titles,
		Venues:   normalize.NewVenueTable(venues),
	}, nil
}

// Fetch loads the plan for base and fetches its missing records without
// writing a bibliography.
func Fetch(ctx context.Context, cfg types.Config, base string, deps Deps) (Summary, error) {
	deps = withDefaults(cfg, deps)
	plan, err := Load(cfg, base, deps.Logger)
	if err != nil {
		return Summary{}, err
	}
	store, err := cache.Open(cfg.Cache, deps.Logger)
	if err != nil {
		return Summary{}, err
	}
	defer store.Close()

	sum := plan.summary()
	fetchAll(ctx, cfg, plan, store, deps, &sum)
	return sum, ctx.Err()
}

// Run executes the full pipeline for base and writes cfg.OutputFile.
// Citations whose records cannot be obtained are reported in
// Summary.Missing and left out of the output.
func Run(ctx context.Context, cfg types.Config, base string, deps Deps) (Summary, error) {
	deps = withDefaults(cfg, deps)
	log := deps.Logger

	plan, err := Load(cfg, base, log)
	if err != nil {
		return Summary{}, err
	}
	store, err := cache.Open(cfg.Cache, log)
	if err != nil {
		return Summary{}, err
	}
	defer store.Close()

	sum := plan.summary()
	fetchAll(ctx, cfg, plan, store, deps, &sum)
	if err := ctx.Err(); err != nil {
		return sum, err
	}

	n := normalize.New(normalize.Options{
		Titles: plan.Titles,
		Venues: plan.Venues,
		Style:  plan.Document.Style,
		Logger: log,
	})
	var entries []types.Entry
	for _, key := range plan.Keys {
		if !types.IsCanonical(key) {
			continue
		}
		rec, ok := store.Lookup(key)
		if !ok {
			sum.Missing = append(sum.Missing, key)
			continue
		}
		e, err := n.Normalize(rec, plan.Aliases.Reverse(key))
		if err != nil {
			return sum, err
		}
		entries = append(entries, e)
	}
	for _, key := range sum.Missing {
		log.WithField("citation", key).Warn("no record, left out of the bibliography")
	}

	if err := bibtex.WriteFile(cfg.OutputFile, entries); err != nil {
		return sum, fmt.Errorf("writing %s: %w", cfg.OutputFile, err)
	}
	sum.Written = len(entries)
	sum.Output = cfg.OutputFile
	log.WithFields(logrus.Fields{"file": cfg.OutputFile, "entries": sum.Written}).Info("bibliography written")
	return sum, nil
}

func (p *Plan) summary() Summary {
	s := Summary{Citations: len(p.Keys)}
	for _, k := range p.Keys {
		if types.IsCanonical(k) {
			s.Canonical++
		} else {
			s.Foreign++
		}
	}
	return s
}

func fetchAll(ctx context.Context, cfg types.Config, plan *Plan, store cache.Store, deps Deps, sum *Summary) {
	f := fetch.New(deps.Client, store, cfg.Fetch, cfg.Cache.Dir, deps.Logger)
	res := f.FetchMissing(ctx, plan.Keys)
	sum.Cached = res.Cached
	sum.Fetched = res.Fetched
	sum.FetchFailures = res.Failed
}

func withDefaults(cfg types.Config, deps Deps) Deps {
	if deps.Client == nil {
		deps.Client = &http.Client{Timeout: cfg.Fetch.Timeout}
	}
	if deps.Logger == nil {
		l := logrus.New()
		l.SetOutput(os.Stderr)
		deps.Logger = l
	}
	return deps
}
