package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"riskcsv/internal/columns"
	cfgpkg "riskcsv/internal/config"
	"riskcsv/internal/utils"
)

var (
	// Global flags (wired later to config/viper)
	cfgFile string
	debug   bool
	flagOut string

	// Loaded configuration
	cfg *cfgpkg.Global
)

var rootCmd = &cobra.Command{
	Use:   "riskcsv",
	Short: "riskcsv: normalize review-text CSV exports and report on risk scores",
	Long: `riskcsv ingests CSV/TXT review exports (GBK or UTF-8), normalizes the
content column into strategy-tagged text files, and separately merges
risk-score exports into a filterable, NID-linkable analysis dataset.`,
}

// Execute is the entry point called by main.main()
func Execute() {
	// Initialize configuration before executing commands
	cobra.OnInitialize(loadConfig)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "✗ Error:", err)
		os.Exit(1)
	}
}

func init() {
	// Persistent global flags available to all subcommands
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.riskcsv/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug output")
	rootCmd.PersistentFlags().StringVar(&flagOut, "out", "", "output directory (overrides config)")
}

func loadConfig() {
	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		// Non-fatal: allow running commands that don't need config
		fmt.Fprintf(os.Stderr, "⚠ Warning: failed to load config: %v\n", err)
		return
	}
	cfg = c
}

func ensureConfig() *cfgpkg.Global {
	if cfg == nil {
		cfg = &cfgpkg.Global{Strategy: "default"}
	}
	if flagOut != "" {
		cfg.OutputDir = flagOut
	}
	return cfg
}

func matcher() columns.Matcher {
	return columns.Matcher{ExtraScoreFragments: ensureConfig().ScoreAliases}
}

func debugf(format string, args ...any) {
	if debug {
		fmt.Fprintf(os.Stderr, format, args...)
	}
}

// collectInputs expands glob patterns, drops duplicates, and keeps only
// .csv/.txt paths, preserving argument order (the user's selection order).
func collectInputs(args []string) []string {
	var files []string
	seen := map[string]struct{}{}
	for _, arg := range args {
		matches, err := filepath.Glob(arg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "⚠ Skipping %s: bad glob pattern: %v\n", arg, err)
			continue
		}
		if len(matches) == 0 {
			// treat as literal path if exists
			if _, err := os.Stat(arg); err == nil {
				matches = []string{arg}
			}
		}
		for _, m := range matches {
			if _, ok := seen[m]; ok {
				continue
			}
			seen[m] = struct{}{}
			if !acceptedInput(m) {
				fmt.Fprintf(os.Stderr, "⚠ Skipping %s: only .csv/.txt files are accepted\n", filepath.Base(m))
				continue
			}
			files = append(files, m)
		}
	}
	return files
}

func acceptedInput(path string) bool {
	name := strings.ToLower(path)
	return strings.HasSuffix(name, ".csv") || strings.HasSuffix(name, ".txt")
}

// outPath joins the configured output directory (created on demand) with name.
func outPath(name string) (string, error) {
	dir := ensureConfig().OutputDir
	if dir == "" {
		return name, nil
	}
	if err := utils.EnsureDir(dir); err != nil {
		return "", fmt.Errorf("mkdir output dir: %w", err)
	}
	return filepath.Join(dir, name), nil
}
