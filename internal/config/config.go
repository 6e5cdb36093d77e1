package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Global configuration structure.
type Global struct {
	// Strategy is the tag written into every processed row.
	Strategy string `mapstructure:"strategy" yaml:"strategy"`
	// OutputDir is where artifacts are written. Empty means the working
	// directory.
	OutputDir string `mapstructure:"output_dir" yaml:"output_dir"`
	// Delimiter forces the input delimiter (",", ";" or "tab"); empty sniffs
	// per file.
	Delimiter string `mapstructure:"delimiter" yaml:"delimiter"`
	// ScoreAliases are extra substring fragments accepted for the risk score
	// column, for exports from scoring operators we have not seen yet.
	ScoreAliases []string `mapstructure:"score_aliases" yaml:"score_aliases"`
	// MinScore is the default risk score threshold for the risk report.
	MinScore float64 `mapstructure:"min_score" yaml:"min_score"`
}

// Save writes the given configuration to the cfgFile path. If cfgFile is empty,
// it writes to ~/.riskcsv/config.yaml, creating the directory if necessary.
func Save(c *Global, cfgFile string) error {
	var path string
	if cfgFile != "" {
		path = cfgFile
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("resolve home dir: %w", err)
		}
		dir := filepath.Join(home, ".riskcsv")
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir config dir: %w", err)
		}
		path = filepath.Join(dir, "config.yaml")
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Load loads configuration from file, env, and defaults.
// Precedence: flags (cfgFile) > env > config file > defaults.
func Load(cfgFile string) (*Global, error) {
	v := viper.New()
	v.SetEnvPrefix("RISKCSV")
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("strategy", "default")
	v.SetDefault("output_dir", "")
	v.SetDefault("delimiter", "")
	v.SetDefault("score_aliases", []string{})
	v.SetDefault("min_score", 0.0)

	// Config file
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolve home dir: %w", err)
		}
		dir := filepath.Join(home, ".riskcsv")
		_ = os.MkdirAll(dir, 0o755)
		v.AddConfigPath(dir)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	// optional read
	_ = v.ReadInConfig()

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &c, nil
}

// DelimiterRune maps the config delimiter string to a rune, 0 meaning sniff.
func (c *Global) DelimiterRune() (rune, error) {
	switch c.Delimiter {
	case "":
		return 0, nil
	case ",":
		return ',', nil
	case "\t", "tab":
		return '\t', nil
	case ";":
		return ';', nil
	default:
		return 0, fmt.Errorf("unsupported delimiter: %q (use ','|';'|'tab')", c.Delimiter)
	}
}
