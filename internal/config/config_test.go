package config_test

import (
	"path/filepath"
	"testing"

	"riskcsv/internal/config"
)

func TestLoadDefaults(t *testing.T) {
	c, err := config.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if c.Strategy != "default" {
		t.Fatalf("strategy = %q", c.Strategy)
	}
	if c.Delimiter != "" || c.OutputDir != "" || c.MinScore != 0 {
		t.Fatalf("defaults = %+v", c)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	in := &config.Global{
		Strategy:     "审核策略A",
		OutputDir:    "/tmp/out",
		Delimiter:    "tab",
		ScoreAliases: []string{"打分结果"},
		MinScore:     0.5,
	}
	if err := config.Save(in, path); err != nil {
		t.Fatalf("save: %v", err)
	}
	out, err := config.Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if out.Strategy != in.Strategy || out.OutputDir != in.OutputDir ||
		out.Delimiter != in.Delimiter || out.MinScore != in.MinScore {
		t.Fatalf("round trip = %+v", out)
	}
	if len(out.ScoreAliases) != 1 || out.ScoreAliases[0] != "打分结果" {
		t.Fatalf("score aliases = %v", out.ScoreAliases)
	}
}

func TestDelimiterRune(t *testing.T) {
	cases := map[string]rune{
		"":    0,
		",":   ',',
		";":   ';',
		"tab": '\t',
		"\t":  '\t',
	}
	for in, want := range cases {
		c := &config.Global{Delimiter: in}
		got, err := c.DelimiterRune()
		if err != nil || got != want {
			t.Fatalf("DelimiterRune(%q) = %q, %v", in, got, err)
		}
	}
	c := &config.Global{Delimiter: "|"}
	if _, err := c.DelimiterRune(); err == nil {
		t.Fatal("expected error for unsupported delimiter")
	}
}
