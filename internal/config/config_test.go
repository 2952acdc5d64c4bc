package config

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"
)

func TestEmbeddedDefaultsMatchHardcoded(t *testing.T) {
	var embedded BrawlConfig
	if err := yaml.Unmarshal(DefaultYAML(), &embedded); err != nil {
		t.Fatalf("embedded defaults do not parse: %v", err)
	}

	if want := DefaultBrawlConfig(); !reflect.DeepEqual(embedded, want) {
		t.Errorf("defaults/brawl.yaml and DefaultBrawlConfig() diverged\nyaml: %+v\ncode: %+v", embedded, want)
	}
}

func TestDefaultConfigValid(t *testing.T) {
	if err := DefaultBrawlConfig().Validate(); err != nil {
		t.Fatalf("default config should be valid: %v", err)
	}
}

func TestLoadBrawlFallsBackToEmbedded(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Chdir(t.TempDir())

	cfg, err := LoadBrawl("")
	if err != nil {
		t.Fatalf("LoadBrawl() failed: %v", err)
	}
	if !reflect.DeepEqual(cfg, DefaultBrawlConfig()) {
		t.Error("without config files LoadBrawl should return the defaults")
	}
}

func TestLoadBrawlUserConfig(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Chdir(t.TempDir())

	dir := filepath.Join(home, ".arcade", "configs")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "brawl.yaml"), []byte("match:\n  stocks: 5\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadBrawl("")
	if err != nil {
		t.Fatalf("LoadBrawl() failed: %v", err)
	}
	if cfg.Match.Stocks != 5 {
		t.Errorf("stocks = %d, expected 5 from user config", cfg.Match.Stocks)
	}
}

func TestLoadBrawlCustomPathOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.yaml")
	data := "physics:\n  gravity: 1.5\nai:\n  jump_threshold: 80\n"
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadBrawl(path)
	if err != nil {
		t.Fatalf("LoadBrawl() failed: %v", err)
	}

	if cfg.Physics.Gravity != 1.5 {
		t.Errorf("gravity = %v, expected 1.5", cfg.Physics.Gravity)
	}
	if cfg.AI.JumpThreshold != 80 {
		t.Errorf("jump_threshold = %v, expected 80", cfg.AI.JumpThreshold)
	}

	// Untouched keys keep their defaults
	def := DefaultBrawlConfig()
	if cfg.Physics.MaxFallSpeed != def.Physics.MaxFallSpeed {
		t.Errorf("max_fall_speed = %v, expected default %v", cfg.Physics.MaxFallSpeed, def.Physics.MaxFallSpeed)
	}
	if len(cfg.Characters) != 3 {
		t.Errorf("roster should be kept, got %d characters", len(cfg.Characters))
	}
}

func TestLoadBrawlCustomPathErrors(t *testing.T) {
	dir := t.TempDir()

	if _, err := LoadBrawl(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("missing custom config should be an error")
	}

	bad := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(bad, []byte("physics: [not, a, map"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadBrawl(bad); err == nil {
		t.Error("malformed YAML should be an error")
	}

	invalid := filepath.Join(dir, "invalid.yaml")
	if err := os.WriteFile(invalid, []byte("match:\n  stocks: 0\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	_, err := LoadBrawl(invalid)
	if err == nil || !strings.Contains(err.Error(), "match.stocks") {
		t.Errorf("expected a match.stocks validation error, got %v", err)
	}
}

func TestValidateReportsProblems(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*BrawlConfig)
		want   string
	}{
		{"zero weight", func(c *BrawlConfig) {
			ch := c.Characters["tank"]
			ch.Weight = 0
			c.Characters["tank"] = ch
		}, "characters.tank: weight"},
		{"missing character", func(c *BrawlConfig) {
			delete(c.Characters, "ninja")
		}, "characters.ninja is missing"},
		{"unknown special", func(c *BrawlConfig) {
			ch := c.Characters["mage"]
			ch.Special = "heal"
			c.Characters["mage"] = ch
		}, `unknown special "heal"`},
		{"blast inside floor", func(c *BrawlConfig) {
			c.Stage.Blast.Right = 900
		}, "stage.blast"},
		{"zero active frames", func(c *BrawlConfig) {
			ch := c.Characters["ninja"]
			ch.Light.Active = 0
			c.Characters["ninja"] = ch
		}, "light.active"},
		{"cooldown shorter than the move", func(c *BrawlConfig) {
			ch := c.Characters["ninja"]
			ch.Heavy.Cooldown = ch.Heavy.Startup + ch.Heavy.Active + ch.Heavy.Recovery - 1
			c.Characters["ninja"] = ch
		}, "heavy.cooldown"},
		{"no tick", func(c *BrawlConfig) {
			c.Physics.TickDT = 0
		}, "physics.tick_dt"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultBrawlConfig()
			tc.mutate(&cfg)

			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected a validation error")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Errorf("error %q does not mention %q", err, tc.want)
			}
		})
	}
}

func TestParseDifficulty(t *testing.T) {
	tests := []struct {
		in      string
		want    DifficultyPreset
		wantErr bool
	}{
		{"", DifficultyNormal, false},
		{"easy", DifficultyEasy, false},
		{" HARD ", DifficultyHard, false},
		{"fixed", DifficultyFixed, false},
		{"nightmare", "", true},
	}

	for _, tc := range tests {
		got, err := ParseDifficulty(tc.in)
		if (err != nil) != tc.wantErr {
			t.Errorf("ParseDifficulty(%q) error = %v, wantErr %v", tc.in, err, tc.wantErr)
			continue
		}
		if got != tc.want {
			t.Errorf("ParseDifficulty(%q) = %q, expected %q", tc.in, got, tc.want)
		}
	}
}

func TestApplyBrawlPreset(t *testing.T) {
	cfg := DefaultBrawlConfig()
	stocks := cfg.Match.Stocks

	ApplyBrawlPreset(&cfg, DifficultyHard)
	if !cfg.AI.Difficulty.Enabled || cfg.AI.Difficulty.InitialLevel != 0.7 {
		t.Errorf("hard preset: got %+v", cfg.AI.Difficulty)
	}

	ApplyBrawlPreset(&cfg, DifficultyFixed)
	if cfg.AI.Difficulty.Enabled {
		t.Error("fixed preset should disable progression")
	}

	for _, p := range []DifficultyPreset{DifficultyEasy, DifficultyNormal, DifficultyHard, DifficultyFixed} {
		ApplyBrawlPreset(&cfg, p)
		if cfg.Match.Stocks != stocks {
			t.Errorf("preset %v changed stocks to %d", p, cfg.Match.Stocks)
		}
	}
}
