package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// LoadBrawl loads the brawler tuning.
// Search order: customPath -> ~/.arcade/configs/brawl.yaml -> ./configs/brawl.yaml -> embedded default
//
// Files are decoded over the defaults, so a file only needs the keys it changes.
// Character entries and slices are replaced as a whole.
func LoadBrawl(customPath string) (BrawlConfig, error) {
	// Try custom path first
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return BrawlConfig{}, fmt.Errorf("failed to read config %s: %w", customPath, err)
		}
		cfg, err := decodeOverDefaults(data)
		if err != nil {
			return BrawlConfig{}, fmt.Errorf("failed to parse config %s: %w", customPath, err)
		}
		if err := cfg.Validate(); err != nil {
			return BrawlConfig{}, fmt.Errorf("invalid config %s: %w", customPath, err)
		}
		return cfg, nil
	}

	// Try user config directory, then local configs directory
	candidates := []string{userConfigPath("brawl.yaml"), filepath.Join("configs", "brawl.yaml")}
	for _, path := range candidates {
		if path == "" {
			continue
		}
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		if cfg, err := decodeOverDefaults(data); err == nil && cfg.Validate() == nil {
			return cfg, nil
		}
	}

	// Use embedded default YAML
	var cfg BrawlConfig
	if err := yaml.Unmarshal(defaultBrawlYAML, &cfg); err != nil {
		return DefaultBrawlConfig(), nil // Fallback to hardcoded if embed fails
	}
	return cfg, nil
}

// decodeOverDefaults unmarshals data on top of DefaultBrawlConfig.
func decodeOverDefaults(data []byte) (BrawlConfig, error) {
	cfg := DefaultBrawlConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return BrawlConfig{}, err
	}
	return cfg, nil
}

// userConfigPath returns the path to user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".arcade", "configs", filename)
}

// ApplyBrawlPreset sets the AI starting level and progression for a
// difficulty preset. Match settings such as stocks are left alone.
func ApplyBrawlPreset(cfg *BrawlConfig, preset DifficultyPreset) {
	if preset == DifficultyFixed {
		cfg.AI.Difficulty.Enabled = false
		return
	}
	cfg.AI.Difficulty.Enabled = true
	cfg.AI.Difficulty.InitialLevel = InitialLevelForPreset(preset)
}
