// Package main provides the CLI entry point for xldiff.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/hmakino/xldiff-go/pkg/xldiff"
	"github.com/hmakino/xldiff-go/pkg/xldiff/output"
)

var (
	outputPath string
	tierName   string
	jsonOut    bool
	pretty     bool
	workers    int
	configPath string
)

// foundDifferences drives the exit code after a successful run.
var foundDifferences bool

func main() {
	rootCmd := &cobra.Command{
		Use:   "xldiff [A] [B]",
		Short: "Structural diff for Excel workbooks",
		Long: `xldiff compares two workbook files, or two directories of workbooks
matched by file name, and reports every structural and visual difference:
cell values, formulas, comments, data validations, protection flags,
formatting, row/column geometry, sheet presence and workbook metadata.

Exit codes: 0 no differences, 1 differences found, 2 error.`,
		Args:         cobra.ExactArgs(2),
		RunE:         run,
		SilenceUsage: true,
	}

	rootCmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output file path (default: stdout)")
	rootCmd.Flags().StringVar(&tierName, "tier", "common", "Formatting tier: off, common, full")
	rootCmd.Flags().BoolVar(&jsonOut, "json", false, "Emit the report as JSON instead of text")
	rootCmd.Flags().BoolVar(&pretty, "pretty", false, "Pretty-print JSON output")
	rootCmd.Flags().IntVar(&workers, "workers", 1, "Concurrent pair comparisons in directory mode")
	rootCmd.Flags().StringVar(&configPath, "config", "", "TOML config file with default settings")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(2)
	}
	if foundDifferences {
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	applyConfig(cmd, cfg)

	tier, err := xldiff.ParseTier(tierName)
	if err != nil {
		return err
	}
	opts := xldiff.DefaultOptions()
	opts.Tier = tier
	opts.Workers = workers

	pathA, pathB := args[0], args[1]
	dirMode, err := resolveMode(pathA, pathB)
	if err != nil {
		return err
	}

	out := os.Stdout
	if outputPath != "" {
		f, err := os.Create(outputPath)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		out = f
	}

	if dirMode {
		rep, err := xldiff.CompareDirs(context.Background(), pathA, pathB, opts)
		if err != nil {
			return err
		}
		foundDifferences = !rep.Empty()
		if jsonOut {
			data, err := output.ToJSON(rep, pretty)
			if err != nil {
				return fmt.Errorf("serialization failed: %w", err)
			}
			_, err = fmt.Fprintln(out, string(data))
			return err
		}
		return output.WriteBatchReport(out, rep)
	}

	rep, err := xldiff.CompareFiles(pathA, pathB, opts)
	if err != nil {
		return err
	}
	foundDifferences = !rep.Empty()
	if jsonOut {
		data, err := output.ToJSON(rep, pretty)
		if err != nil {
			return fmt.Errorf("serialization failed: %w", err)
		}
		_, err = fmt.Fprintln(out, string(data))
		return err
	}
	return output.WriteReport(out, rep)
}

// resolveMode decides between single-pair and directory mode. Mixing a file
// with a directory is a usage error.
func resolveMode(pathA, pathB string) (dirMode bool, err error) {
	infoA, err := os.Stat(pathA)
	if err != nil {
		return false, fmt.Errorf("path not found: %s", pathA)
	}
	infoB, err := os.Stat(pathB)
	if err != nil {
		return false, fmt.Errorf("path not found: %s", pathB)
	}
	if infoA.IsDir() != infoB.IsDir() {
		return false, fmt.Errorf("cannot compare a file with a directory: %s vs %s", pathA, pathB)
	}
	return infoA.IsDir(), nil
}
