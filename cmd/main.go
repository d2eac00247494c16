package main

import (
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	cfgPkg "github.com/xhad/newsum/pkg/config"
	"github.com/xhad/newsum/pkg/logger"
)

type flags struct {
	configPath string
	ollamaURL  string
	model      string
	backend    string
	dbDriver   string
	dbURL      string
	table      string
	cachePath  string
	verbose    bool
	noColor    bool
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	f := &flags{}

	root := &cobra.Command{
		Use:           "newsum",
		Short:         "Search scraped articles and summarize the best matches",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&f.configPath, "config", "", "Path to config file (yaml or toml)")
	pf.StringVar(&f.ollamaURL, "ollama-url", "", "Ollama server URL")
	pf.StringVar(&f.model, "model", "", "LLM model to use")
	pf.StringVar(&f.backend, "backend", "", "Summarizer backend: ollama or extractive")
	pf.StringVar(&f.dbDriver, "db-driver", "", "Corpus store: sqlite, postgres or mongo")
	pf.StringVar(&f.dbURL, "db-url", "", "Corpus store path or connection string")
	pf.StringVar(&f.table, "table", "", "Corpus table or collection name")
	pf.StringVar(&f.cachePath, "cache", "", "Summary cache file")
	pf.BoolVarP(&f.verbose, "verbose", "v", false, "Enable debug logging")
	pf.BoolVar(&f.noColor, "no-color", false, "Disable colored output")

	root.AddCommand(
		newSearchCmd(f),
		newIngestCmd(f),
		newCacheCmd(f),
	)
	return root
}

// loadConfig reads the config file and lets command line flags override it.
func loadConfig(cmd *cobra.Command, f *flags) (*cfgPkg.Config, error) {
	cfg, err := cfgPkg.LoadConfig(f.configPath)
	if err != nil {
		return nil, err
	}

	set := cmd.Flags().Changed
	if set("ollama-url") {
		cfg.LLM.BaseURL = f.ollamaURL
	}
	if set("model") {
		cfg.LLM.Model = f.model
	}
	if set("backend") {
		cfg.LLM.Backend = f.backend
	}
	if set("db-driver") {
		cfg.Database.Driver = f.dbDriver
	}
	if set("db-url") {
		cfg.Database.URL = f.dbURL
	}
	if set("table") {
		cfg.Database.TableName = f.table
	}
	if set("cache") {
		cfg.Cache.Path = f.cachePath
	}
	if set("verbose") {
		cfg.UI.Verbose = f.verbose
	}
	if set("no-color") {
		cfg.UI.NoColor = f.noColor
	}

	logger.SetVerbose(cfg.UI.Verbose)
	if cfg.UI.NoColor {
		color.NoColor = true
	}

	if errs := cfg.Validate(); len(errs) > 0 {
		for _, e := range errs {
			logger.Error("config: %v", e)
		}
		return nil, errs[0]
	}
	return cfg, nil
}
