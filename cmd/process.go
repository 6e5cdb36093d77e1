package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"riskcsv/internal/export"
	"riskcsv/internal/session"
	"riskcsv/internal/utils"
)

var (
	procStrategy string
	procDelim    string
	procZip      bool
	procQuiet    bool
)

var processCmd = &cobra.Command{
	Use:   "process <files...>",
	Short: "Normalize content exports into strategy-tagged text files",
	Long: `Process reads each CSV/TXT export, locates the content column (内容 or
content, trying GBK then UTF-8), normalizes and deduplicates the rows, and
writes <name>_processed.txt per input. With --zip the per-file outputs are
bundled into ` + export.ArchiveName + ` instead. A file that fails is
reported and skipped; the rest of the batch still completes.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		files := collectInputs(args)
		if len(files) == 0 {
			return fmt.Errorf("no input files matched (.csv/.txt)")
		}
		c := ensureConfig()
		strategy := c.Strategy
		if procStrategy != "" {
			strategy = procStrategy
		}
		if procDelim != "" {
			c.Delimiter = procDelim
		}
		delim, err := c.DelimiterRune()
		if err != nil {
			return err
		}

		sess := session.New(strategy, matcher(), delim)
		results := sess.ProcessFiles(cmd.Context(), files)

		total := len(results)
		failed := 0
		var entries []export.Entry
		for i, res := range results {
			if !procQuiet {
				fmt.Printf("[%d/%d] %s\n", i+1, total, res.Name)
			}
			if res.Err != "" {
				failed++
				fmt.Printf("✗ %s: %s\n", res.Name, res.Err)
				continue
			}
			debugf("%s: %d total, %d valid, %d skipped\n", res.Name, res.Stats.TotalRows, res.Stats.ValidRows, res.Stats.SkippedRows)

			name := export.ProcessedName(res.Name)
			data := export.TSV(res.Rows)
			if procZip {
				if len(res.Rows) == 0 {
					fmt.Printf("⚠ %s: no rows, left out of the archive\n", res.Name)
					continue
				}
				entries = append(entries, export.Entry{Name: name, Data: data})
				continue
			}
			path, err := outPath(name)
			if err != nil {
				return err
			}
			if err := utils.SafeWriteFile(path, data); err != nil {
				return fmt.Errorf("write %s: %w", name, err)
			}
			fmt.Printf("✓ %s: %d rows → %s\n", res.Name, res.Stats.ValidRows, filepath.Base(path))
		}

		if procZip && len(entries) > 0 {
			data, err := export.Zip(entries)
			if err != nil {
				return err
			}
			path, err := outPath(export.ArchiveName)
			if err != nil {
				return err
			}
			if err := utils.SafeWriteFile(path, data); err != nil {
				return fmt.Errorf("write archive: %w", err)
			}
			fmt.Printf("✓ Bundled %d files into %s\n", len(entries), filepath.Base(path))
		}

		if failed == total {
			return fmt.Errorf("all %d files failed", total)
		}
		return nil
	},
}

func init() {
	processCmd.Flags().StringVar(&procStrategy, "strategy", "", "strategy tag for output rows (overrides config)")
	processCmd.Flags().StringVar(&procDelim, "delimiter", "", "input delimiter: ','|';'|'tab' (default: sniff per file)")
	processCmd.Flags().BoolVar(&procZip, "zip", false, "bundle outputs into "+export.ArchiveName)
	processCmd.Flags().BoolVarP(&procQuiet, "quiet", "q", false, "suppress per-file progress")
	rootCmd.AddCommand(processCmd)
}
