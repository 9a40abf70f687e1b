// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the bibcloud CLI.
package main

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/bibcloud/internal/secrets"
)

// version is set at build time via ldflags.
var version = "dev"

const secretsDir = ".secrets/"

var (
	// log is configured by the root command before any subcommand runs.
	log = logrus.New()

	// loadedSecrets holds values loaded from .secrets/ at startup.
	loadedSecrets map[string]string
)

// rootCmd is the base command for the bibcloud CLI.
var rootCmd = &cobra.Command{
	Use:   "bibcloud",
	Short: "Generate BibTeX for DBLP citations from a LaTeX .aux file",
	Long: `bibcloud reads the citations of a LaTeX document from its .aux file,
fetches every DBLP-keyed citation ("DBLP:conf/osdi/Smith10") it has not seen
before into a local cache, and writes a cleaned-up dblp.bib.

Aliases from dblp-alias.txt let documents cite DBLP records by short names.
Titles and venue names can be corrected with dblp-title.txt and
dblp-venue.yaml.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if viper.GetBool("verbose") {
			log.SetLevel(logrus.DebugLevel)
		}
		s, err := secrets.Load(secretsDir, log)
		if err != nil {
			return err
		}
		loadedSecrets = s
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)
	setDefaults()

	log.SetOutput(os.Stderr)
	log.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})

	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "config file (default: ./bibcloud.yaml or ~/.config/bibcloud/bibcloud.yaml)")
	pf.BoolP("verbose", "v", false, "log debug detail")
	pf.String("cache-dir", "", "working directory for the record cache (default .bibcloud)")
	pf.String("backend", "", "cache backend: xml or sqlite (default xml)")
	pf.Duration("delay", 0, "minimum delay between DBLP requests (default 2s)")
	pf.String("base-url", "", "DBLP record endpoint (default https://dblp.org/rec/)")

	bindFlag("verbose", pf.Lookup("verbose"))
	bindFlag("cache.dir", pf.Lookup("cache-dir"))
	bindFlag("cache.backend", pf.Lookup("backend"))
	bindFlag("fetch.delay", pf.Lookup("delay"))
	bindFlag("fetch.base_url", pf.Lookup("base-url"))
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("bibcloud")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "bibcloud"))
		}
	}

	viper.SetEnvPrefix("BIBCLOUD")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		log.WithField("file", viper.ConfigFileUsed()).Debug("using config file")
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		log.Error(err)
		os.Exit(1)
	}
}
