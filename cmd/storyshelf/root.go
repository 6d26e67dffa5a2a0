package main

import (
	"fmt"
	"os"
	"storyshelf/internal/adapters/api"
	"storyshelf/internal/adapters/util"
	"storyshelf/internal/config"
	"storyshelf/internal/core/service"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// catalogFactory builds the catalog the commands query. Tests swap it out.
type catalogFactory func(cfg *config.Config) api.Catalog

func defaultCatalogFactory(cfg *config.Config) api.Catalog {
	return service.CreateCatalogService(cfg)
}

// app carries state shared by the subcommands. Commands that talk to the
// catalog call load first so help and completion work without config.
type app struct {
	v          *viper.Viper
	configFile string
	newCatalog catalogFactory

	cfg     *config.Config
	catalog api.Catalog
}

func newRootCmd(factory catalogFactory) *cobra.Command {
	a := &app{v: viper.New(), newCatalog: factory}

	cmd := &cobra.Command{
		Use:   "storyshelf",
		Short: "Browse, filter and search an OPDS catalog of free children's books",
		Long: `Storyshelf walks an OPDS catalog, normalizes every entry into a uniform
book record and re-labels languages, reading levels and categories into a
fixed taxonomy.

Configuration comes from SS_* environment variables (or a .env file), an
optional YAML file passed with --config, and flags, in increasing priority.`,
		SilenceUsage: true,
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&a.configFile, "config", "", "YAML config file")
	flags.String("root-url", "", "OPDS root feed URL (SS_OPDS_ROOT_URL)")
	flags.String("log-level", "", "debug, info, warn or error (SS_LOG_LEVEL)")
	flags.Int("concurrency", 0, "parallel section fetches (SS_FETCH_CONCURRENCY)")
	flags.StringP("output", "o", "json", "output format: json or yaml")

	for key, flag := range map[string]string{
		"root_url":          "root-url",
		"log_level":         "log-level",
		"fetch_concurrency": "concurrency",
		"output":            "output",
	} {
		_ = a.v.BindPFlag(key, flags.Lookup(flag))
	}

	cmd.AddCommand(
		newBooksCmd(a),
		newSearchCmd(a),
		newOptionsCmd(a),
		newBrowseCmd(a),
		newServeCmd(a),
	)
	return cmd
}

// load merges environment (.env included), config file and flags into a
// validated config and builds the catalog.
func (a *app) load() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	if a.configFile != "" {
		a.v.SetConfigFile(a.configFile)
		if err := a.v.ReadInConfig(); err != nil {
			return fmt.Errorf("failed to read config file %s: %w", a.configFile, err)
		}
	}
	a.apply(cfg)

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	util.SetupLogger(cfg.LogLevel, os.Stderr)
	a.cfg = cfg
	a.catalog = a.newCatalog(cfg)
	return nil
}

// apply overrides cfg with every key set in the config file or on the
// command line.
func (a *app) apply(cfg *config.Config) {
	v := a.v
	if v.IsSet("root_url") && v.GetString("root_url") != "" {
		cfg.OPDSRootURL = v.GetString("root_url")
	}
	if v.IsSet("log_level") && v.GetString("log_level") != "" {
		cfg.LogLevel = v.GetString("log_level")
	}
	if v.IsSet("fetch_concurrency") && v.GetInt("fetch_concurrency") > 0 {
		cfg.FetchConcurrency = v.GetInt("fetch_concurrency")
	}
	if v.IsSet("port") {
		cfg.APIPort = v.GetInt("port")
	}
	if v.IsSet("user_agent") {
		cfg.UserAgent = v.GetString("user_agent")
	}
	if v.IsSet("http_timeout") {
		cfg.HTTPTimeout = v.GetDuration("http_timeout")
	}
	if v.IsSet("cache_ttl") {
		cfg.CacheTTL = v.GetDuration("cache_ttl")
	}
	if v.IsSet("max_section_pages") {
		cfg.MaxSectionPages = v.GetInt("max_section_pages")
	}
	if v.IsSet("search_max_results") {
		cfg.SearchMaxResults = v.GetInt("search_max_results")
	}
	if v.IsSet("search_min_query_len") {
		cfg.SearchMinQueryLength = v.GetInt("search_min_query_len")
	}
	if v.IsSet("search_debounce") {
		cfg.SearchDebounce = v.GetDuration("search_debounce")
	}
}

func (a *app) outputFormat() string {
	return strings.ToLower(a.v.GetString("output"))
}
