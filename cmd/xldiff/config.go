package main

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"
)

// fileConfig carries default settings loaded from a TOML file. Flags set on
// the command line always win over the file.
type fileConfig struct {
	Tier    string `toml:"tier"`
	Workers int    `toml:"workers"`
	Output  string `toml:"output"`
	JSON    bool   `toml:"json"`
}

// loadConfig reads the config file at path. An empty path means no file and
// yields the zero config.
func loadConfig(path string) (fileConfig, error) {
	var cfg fileConfig
	if path == "" {
		return cfg, nil
	}
	if _, err := os.Stat(path); err != nil {
		return cfg, fmt.Errorf("config file not found: %s", path)
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// applyConfig fills in config-file values for flags the user did not set.
func applyConfig(cmd *cobra.Command, cfg fileConfig) {
	if cfg.Tier != "" && !cmd.Flags().Changed("tier") {
		tierName = cfg.Tier
	}
	if cfg.Workers > 0 && !cmd.Flags().Changed("workers") {
		workers = cfg.Workers
	}
	if cfg.Output != "" && !cmd.Flags().Changed("output") {
		outputPath = cfg.Output
	}
	if cfg.JSON && !cmd.Flags().Changed("json") {
		jsonOut = true
	}
}
