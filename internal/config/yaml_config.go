package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

// YAMLConfig represents the structure of the presets.yaml file.
// Render presets are easier to manage in YAML than in env vars.
type YAMLConfig struct {
	Presets  []RenderPreset `yaml:"presets"`
	Defaults DefaultsConfig `yaml:"defaults"`
}

// RenderPreset defines an output preset offered in the render form and
// forwarded to the engine by name.
type RenderPreset struct {
	Name        string `yaml:"name"`
	Label       string `yaml:"label"` // human-readable, shown in the UI
	Width       int    `yaml:"width"`
	Height      int    `yaml:"height"`
	FrameRate   int    `yaml:"frame_rate,omitempty"`
	Format      string `yaml:"format,omitempty"` // mp4, webm
	Description string `yaml:"description,omitempty"`
}

// DefaultsConfig defines fallback settings for new projects.
type DefaultsConfig struct {
	Preset      string `yaml:"preset"`       // preset name used when none selected
	AspectRatio string `yaml:"aspect_ratio"` // default project aspect ratio
}

// LoadYAMLConfig loads the YAML preset configuration file.
// Path is determined by PRESETS_FILE env var, defaulting to "presets.yaml".
// Returns nil without error if the config file doesn't exist.
func LoadYAMLConfig() (*YAMLConfig, error) {
	path := getEnv("PRESETS_FILE", "presets.yaml")

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			// Config file is optional
			return nil, nil
		}
		return nil, err
	}

	var cfg YAMLConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	// Set defaults
	if cfg.Defaults.AspectRatio == "" {
		cfg.Defaults.AspectRatio = "16:9"
	}
	if cfg.Defaults.Preset == "" && len(cfg.Presets) > 0 {
		cfg.Defaults.Preset = cfg.Presets[0].Name
	}

	return &cfg, nil
}

// GetPresetByName finds a render preset by its name.
func (c *YAMLConfig) GetPresetByName(name string) *RenderPreset {
	if c == nil {
		return nil
	}
	for i := range c.Presets {
		if c.Presets[i].Name == name {
			return &c.Presets[i]
		}
	}
	return nil
}

// PresetNames returns the configured preset names in declaration order.
func (c *YAMLConfig) PresetNames() []string {
	if c == nil {
		return nil
	}
	names := make([]string, 0, len(c.Presets))
	for _, p := range c.Presets {
		names = append(names, p.Name)
	}
	return names
}
