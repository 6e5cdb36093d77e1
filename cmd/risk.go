package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"

	"riskcsv/internal/export"
	"riskcsv/internal/nidmap"
	"riskcsv/internal/session"
	"riskcsv/internal/textenc"
	"riskcsv/internal/utils"
)

var (
	riskMinScore float64
	riskNIDMap   string
	riskFormat   string
	riskDedup    bool
	riskDelim    string
)

var riskCmd = &cobra.Command{
	Use:   "risk <files...>",
	Short: "Merge risk-score exports, join NIDs, and export the analysis",
	Long: `Risk reads each export's risk-score column (trying GBK then UTF-8),
merges every file's rows into one dataset with fresh sequential ids, and
writes ` + export.RiskCSVName + ` (or --format xlsx). --nid-map joins an
external business id onto rows by exact normalized-content match;
--min-score filters before export; --dedup drops repeated content across
the merged set.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		files := collectInputs(args)
		if len(files) == 0 {
			return fmt.Errorf("no input files matched (.csv/.txt)")
		}
		if riskFormat != "csv" && riskFormat != "xlsx" {
			return fmt.Errorf("unsupported --format: %s (use csv or xlsx)", riskFormat)
		}
		c := ensureConfig()
		if riskDelim != "" {
			c.Delimiter = riskDelim
		}
		delim, err := c.DelimiterRune()
		if err != nil {
			return err
		}
		m := matcher()

		sess := session.New(c.Strategy, m, delim)
		results := sess.LoadRisk(cmd.Context(), files)
		failed := 0
		for _, r := range results {
			if r.Err != "" {
				failed++
				fmt.Printf("✗ %s: %s\n", r.Name, r.Err)
				continue
			}
			fmt.Printf("✓ %s: %d rows\n", r.Name, len(r.Rows))
		}
		if failed == len(results) {
			return fmt.Errorf("all %d files failed", len(results))
		}
		if len(sess.Rows) == 0 {
			fmt.Println("⚠ No valid rows in the selected files")
			return nil
		}

		if riskNIDMap != "" {
			matched, err := joinNIDMap(sess, riskNIDMap, delim)
			if err != nil {
				return err
			}
			if sess.Linked {
				fmt.Printf("✓ NID mapping linked %d of %d rows\n", matched, len(sess.Rows))
			} else {
				fmt.Println("⚠ NID mapping matched no rows")
			}
		}

		rows := sess.Rows
		min := c.MinScore
		if cmd.Flags().Changed("min-score") {
			min = riskMinScore
		}
		if min > 0 {
			rows = sess.Filter(min)
			fmt.Printf("Filtered to %d rows with score >= %s\n", len(rows), export.FormatScore(min))
		}
		if riskDedup {
			before := len(rows)
			rows = session.Dedup(rows)
			debugf("dedup dropped %d rows\n", before-len(rows))
		}

		printSummary(session.Summarize(rows))

		var (
			name string
			data []byte
		)
		switch riskFormat {
		case "xlsx":
			name = export.RiskXLSXName
			data, err = export.RiskXLSX(rows)
			if err != nil {
				return err
			}
		default:
			name = export.RiskCSVName
			data = export.RiskCSV(rows)
		}
		path, err := outPath(name)
		if err != nil {
			return err
		}
		if err := utils.SafeWriteFile(path, data); err != nil {
			return fmt.Errorf("write export: %w", err)
		}
		fmt.Printf("✓ Exported %d rows → %s\n", len(rows), filepath.Base(path))
		return nil
	},
}

// joinNIDMap parses the mapping file through the same encoding resolver
// (predicate: NID column present) and applies it to the session.
func joinNIDMap(sess *session.Session, path string, delim rune) (int, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("read nid map: %w", err)
	}
	m := matcher()
	tbl, _, err := textenc.Resolve(raw, delim, m.HasNID)
	if err != nil {
		return 0, fmt.Errorf("parse nid map: %w", err)
	}
	mp, err := nidmap.Build(tbl, m)
	if err != nil {
		return 0, fmt.Errorf("nid map %s: %w", filepath.Base(path), err)
	}
	return sess.ApplyMapping(mp), nil
}

func printSummary(s session.Summary) {
	if s.Count == 0 {
		fmt.Println("No rows to export")
		return
	}
	fmt.Printf("Rows: %d  score min/max/mean: %s / %s / %.3f\n",
		s.Count, export.FormatScore(s.Min), export.FormatScore(s.Max), s.Mean)
	types := make([]string, 0, len(s.ByType))
	for t := range s.ByType {
		types = append(types, t)
	}
	sort.Strings(types)
	for _, t := range types {
		fmt.Printf("  %s: %d\n", t, s.ByType[t])
	}
}

func init() {
	riskCmd.Flags().Float64Var(&riskMinScore, "min-score", 0, "keep only rows with score >= this (overrides config)")
	riskCmd.Flags().StringVar(&riskNIDMap, "nid-map", "", "CSV/TXT file mapping content to business ids (NID)")
	riskCmd.Flags().StringVar(&riskFormat, "format", "csv", "export format: csv or xlsx")
	riskCmd.Flags().BoolVar(&riskDedup, "dedup", false, "drop rows whose content repeats across the merged set")
	riskCmd.Flags().StringVar(&riskDelim, "delimiter", "", "input delimiter: ','|';'|'tab' (default: sniff per file)")
	rootCmd.AddCommand(riskCmd)
}
