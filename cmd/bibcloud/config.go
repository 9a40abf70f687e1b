// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"net/http"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/pdiddy/bibcloud/internal/secrets"
	"github.com/pdiddy/bibcloud/pkg/types"
)

// setDefaults registers every config key with its default so that config
// files and BIBCLOUD_* variables can override any of them.
func setDefaults() {
	d := types.DefaultConfig()
	viper.SetDefault("fetch.base_url", d.Fetch.BaseURL)
	viper.SetDefault("fetch.delay", d.Fetch.Delay)
	viper.SetDefault("fetch.timeout", d.Fetch.Timeout)
	viper.SetDefault("fetch.user_agent", d.Fetch.UserAgent)
	viper.SetDefault("fetch.max_retries", d.Fetch.MaxRetries)
	viper.SetDefault("cache.dir", d.Cache.Dir)
	viper.SetDefault("cache.backend", string(d.Cache.Backend))
	viper.SetDefault("cache.xml_file", d.Cache.XMLFile)
	viper.SetDefault("cache.sqlite_file", d.Cache.SQLiteFile)
	viper.SetDefault("overrides.alias_file", d.Overrides.AliasFile)
	viper.SetDefault("overrides.title_file", d.Overrides.TitleFile)
	viper.SetDefault("overrides.venue_file", d.Overrides.VenueFile)
	viper.SetDefault("output_file", d.OutputFile)
}

func bindFlag(key string, f *pflag.Flag) {
	if err := viper.BindPFlag(key, f); err != nil {
		panic(err)
	}
}

// loadConfig assembles a Config from viper. Zero values left by an empty
// flag fall back to the defaults.
func loadConfig() types.Config {
	d := types.DefaultConfig()
	cfg := types.Config{
		Fetch: types.FetchConfig{
			HTTPConfig: types.HTTPConfig{
				Timeout:   viper.GetDuration("fetch.timeout"),
				UserAgent: viper.GetString("fetch.user_agent"),
			},
			BaseURL:    viper.GetString("fetch.base_url"),
			Delay:      viper.GetDuration("fetch.delay"),
			MaxRetries: viper.GetInt("fetch.max_retries"),
		},
		Cache: types.CacheConfig{
			Dir:        viper.GetString("cache.dir"),
			Backend:    types.CacheBackend(viper.GetString("cache.backend")),
			XMLFile:    viper.GetString("cache.xml_file"),
			SQLiteFile: viper.GetString("cache.sqlite_file"),
		},
		Overrides: types.OverrideConfig{
			AliasFile: viper.GetString("overrides.alias_file"),
			TitleFile: viper.GetString("overrides.title_file"),
			VenueFile: viper.GetString("overrides.venue_file"),
		},
		OutputFile: viper.GetString("output_file"),
	}

	if cfg.Fetch.Timeout == 0 {
		cfg.Fetch.Timeout = d.Fetch.Timeout
	}
	if cfg.Fetch.UserAgent == "" {
		cfg.Fetch.UserAgent = d.Fetch.UserAgent
	}
	cfg.Fetch.UserAgent = secrets.UserAgent(cfg.Fetch.UserAgent, loadedSecrets)
	if cfg.Fetch.BaseURL == "" {
		cfg.Fetch.BaseURL = d.Fetch.BaseURL
	}
	if cfg.Fetch.Delay == 0 && !viper.IsSet("fetch.delay") {
		cfg.Fetch.Delay = d.Fetch.Delay
	}
	if cfg.Cache.Dir == "" {
		cfg.Cache.Dir = d.Cache.Dir
	}
	if cfg.Cache.Backend == "" {
		cfg.Cache.Backend = d.Cache.Backend
	}
	if cfg.OutputFile == "" {
		cfg.OutputFile = d.OutputFile
	}
	return cfg
}

func httpClient(cfg types.Config) *http.Client {
	return &http.Client{Timeout: cfg.Fetch.Timeout}
}
