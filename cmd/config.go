package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	cfgpkg "riskcsv/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or set riskcsv configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg == nil {
			fmt.Println("No config loaded")
			return nil
		}
		fmt.Printf("strategy: %s\n", cfg.Strategy)
		fmt.Printf("output_dir: %s\n", cfg.OutputDir)
		fmt.Printf("delimiter: %s\n", cfg.Delimiter)
		if len(cfg.ScoreAliases) > 0 {
			fmt.Printf("score_aliases: %s\n", strings.Join(cfg.ScoreAliases, ", "))
		}
		fmt.Printf("min_score: %.3f\n", cfg.MinScore)
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a config value and save to disk",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, val := args[0], args[1]
		if cfg == nil {
			c, err := cfgpkg.Load(cfgFile)
			if err != nil {
				return err
			}
			cfg = c
		}
		switch key {
		case "strategy":
			if strings.TrimSpace(val) == "" {
				return fmt.Errorf("strategy must not be empty")
			}
			cfg.Strategy = val
		case "output_dir":
			cfg.OutputDir = val
		case "delimiter":
			switch val {
			case "", ",", ";", "tab":
				cfg.Delimiter = val
			default:
				return fmt.Errorf("invalid delimiter: %q (use ','|';'|'tab' or empty to sniff)", val)
			}
		case "score_aliases":
			var aliases []string
			for _, a := range strings.Split(val, ",") {
				if a = strings.TrimSpace(a); a != "" {
					aliases = append(aliases, a)
				}
			}
			cfg.ScoreAliases = aliases
		case "min_score":
			f, err := strconv.ParseFloat(val, 64)
			if err != nil || f < 0 {
				return fmt.Errorf("invalid float for min_score: %v", val)
			}
			cfg.MinScore = f
		default:
			return fmt.Errorf("unknown key: %s", key)
		}
		if err := cfgpkg.Save(cfg, cfgFile); err != nil {
			return err
		}
		fmt.Println("Saved config")
		return nil
	},
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
	rootCmd.AddCommand(configCmd)
}
