// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package fetch retrieves missing records from DBLP and appends them to the
// cache.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/pdiddy/bibcloud/internal/cache"
	"github.com/pdiddy/bibcloud/internal/httputil"
	"github.com/pdiddy/bibcloud/pkg/types"
)

const (
	tmpFile   = "tmp.xml"
	errorFile = "error.xml"
)

var (
	// ErrEmptyResponse is returned when DBLP answers 200 with no body.
	ErrEmptyResponse = errors.New("empty response")

	// ErrKeyMismatch is returned when DBLP answers with a record under a
	// different key than requested, as it does for renamed records.
	ErrKeyMismatch = errors.New("fetched record has a different key")
)

// BatchResult holds the outcome of a FetchMissing run.
type BatchResult struct {
	Fetched  int
	Cached   int
	Foreign  int
	Failed   int
	Failures []string
}

// Total returns the number of keys processed.
func (r BatchResult) Total() int {
	return r.Fetched + r.Cached + r.Foreign + r.Failed
}

// HasFailures reports whether any fetch failed.
func (r BatchResult) HasFailures() bool {
	return r.Failed > 0
}

// Fetcher downloads DBLP records one at a time, spaced by the configured
// delay.
type Fetcher struct {
	client  *http.Client
	store   cache.Store
	cfg     types.FetchConfig
	workDir string
	limiter *rate.Limiter
	log     logrus.FieldLogger
}

// New returns a Fetcher that appends to store and keeps its scratch files
// in workDir.
func New(client *http.Client, store cache.Store, cfg types.FetchConfig, workDir string, log logrus.FieldLogger) *Fetcher {
	if cfg.BaseURL == "" {
		cfg.BaseURL = types.DefaultBaseURL
	}
	limit := rate.Inf
	if cfg.Delay > 0 {
		limit = rate.Every(cfg.Delay)
	}
	return &Fetcher{
		client:  client,
		store:   store,
		cfg:     cfg,
		workDir: workDir,
		limiter: rate.NewLimiter(limit, 1),
		log:     log,
	}
}

// FetchMissing fetches every canonical key in keys that is not cached.
// Non-canonical keys are counted as foreign and skipped. A failed fetch is
// logged and the batch continues; cancellation of ctx stops the batch
// before the next request.
func (f *Fetcher) FetchMissing(ctx context.Context, keys []string) BatchResult {
	var result BatchResult
	for _, key := range keys {
		if !types.IsCanonical(key) {
			result.Foreign++
			continue
		}
		if _, ok := f.store.Lookup(key); ok {
			result.Cached++
			continue
		}
		if ctx.Err() != nil {
			break
		}

		log := f.log.WithField("citation", key)
		if _, err := f.Fetch(ctx, key); err != nil {
			if ctx.Err() != nil {
				break
			}
			log.WithError(err).Warn("fetch failed")
			result.Failed++
			result.Failures = append(result.Failures, key)
			continue
		}
		log.Info("fetched")
		result.Fetched++
	}
	f.log.WithFields(logrus.Fields{
		"fetched": result.Fetched,
		"cached":  result.Cached,
		"foreign": result.Foreign,
		"failed":  result.Failed,
	}).Debug("fetch summary")
	return result
}

// Fetch downloads one record and appends it to the store. The response is
// kept in tmp.xml while it is processed; a response that does not parse is
// moved to error.xml for inspection.
func (f *Fetcher) Fetch(ctx context.Context, canonical string) (types.Record, error) {
	key, ok := types.DBLPKey(canonical)
	if !ok {
		return types.Record{}, fmt.Errorf("not a DBLP key: %q", canonical)
	}
	if err := f.limiter.Wait(ctx); err != nil {
		return types.Record{}, err
	}

	body, err := f.get(ctx, f.cfg.BaseURL+key+".xml")
	if err != nil {
		return types.Record{}, err
	}

	tmpPath := filepath.Join(f.workDir, tmpFile)
	if err := os.WriteFile(tmpPath, body, 0o644); err != nil {
		return types.Record{}, fmt.Errorf("writing %s: %w", tmpPath, err)
	}

	rec, err := f.store.Append(body)
	if errors.Is(err, cache.ErrInvalidRecord) {
		errPath := filepath.Join(f.workDir, errorFile)
		if mvErr := os.Rename(tmpPath, errPath); mvErr != nil {
			f.log.WithError(mvErr).Warn("could not keep bad response")
		} else {
			f.log.WithField("file", errPath).Info("bad response kept for inspection")
		}
		return types.Record{}, err
	}
	os.Remove(tmpPath)
	if err != nil {
		return types.Record{}, err
	}

	if rec.Canonical() != canonical {
		return rec, fmt.Errorf("%w: asked for %s, got %s", ErrKeyMismatch, canonical, rec.Canonical())
	}
	return rec, nil
}

func (f *Fetcher) get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	if f.cfg.UserAgent != "" {
		req.Header.Set("User-Agent", f.cfg.UserAgent)
	}
	req.Header.Set("Accept", "application/xml")

	resp, err := httputil.DoWithRetry(ctx, f.client, req, f.cfg.MaxRetries, f.log)
	if err != nil {
		return nil, fmt.Errorf("HTTP request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP %d from %s", resp.StatusCode, url)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}
	if len(body) == 0 {
		return nil, ErrEmptyResponse
	}
	return body, nil
}
