// Package commands implements CLI command handlers for sizescope.
package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sizescope/sizescope/internal/config"
	"github.com/sizescope/sizescope/internal/sizetable"
)

// addDataFlags registers the data source override flags shared by every
// command that reads size tables.
func addDataFlags(cmd *cobra.Command) {
	cmd.Flags().String("data-url", "", "Base URL of the size table server")
	cmd.Flags().String("data-dir", "", "Local directory of size tables and snapshots")
}

// loadConfig reads configuration, applying the command's data source flag
// overrides on top of file and environment values.
func loadConfig(cmd *cobra.Command, requireSource bool) (*config.Config, error) {
	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		configPath, _ = cmd.Root().PersistentFlags().GetString("config")
	}

	cfg, err := config.Load(configPath, false)
	if err != nil {
		return nil, err
	}

	if v, _ := cmd.Flags().GetString("data-url"); v != "" {
		cfg.Data.BaseURL = v
	}

	if v, _ := cmd.Flags().GetString("data-dir"); v != "" {
		cfg.Data.Dir = v
	}

	err = cfg.Validate(requireSource)
	if err != nil {
		return nil, err
	}

	return cfg, nil
}

// buildLoader constructs the table loader for the configured source. A local
// directory takes precedence over a base URL.
func buildLoader(cfg *config.Config) (*sizetable.Loader, error) {
	var src sizetable.Source

	switch {
	case cfg.Data.Dir != "":
		src = sizetable.NewDirSource(cfg.Data.Dir)
	case cfg.Data.BaseURL != "":
		src = sizetable.NewHTTPSource(cfg.Data.BaseURL)
	default:
		return nil, config.ErrNoDataSource
	}

	loader, err := sizetable.NewLoader(src, cfg.Data.CacheSize)
	if err != nil {
		return nil, fmt.Errorf("building table loader: %w", err)
	}

	return loader, nil
}
