package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	if cfg.ServerAddr != ":3000" {
		t.Errorf("ServerAddr = %q, want :3000", cfg.ServerAddr)
	}
	if cfg.EngineURL != "http://localhost:8080" {
		t.Errorf("EngineURL = %q, want http://localhost:8080", cfg.EngineURL)
	}
	if cfg.EngineTimeout != 30*time.Second {
		t.Errorf("EngineTimeout = %v, want 30s", cfg.EngineTimeout)
	}
	if cfg.JobPollEvery != 3*time.Second {
		t.Errorf("JobPollEvery = %v, want 3s", cfg.JobPollEvery)
	}
	if cfg.MaxUploadBytes != 512<<20 {
		t.Errorf("MaxUploadBytes = %d, want %d", cfg.MaxUploadBytes, int64(512<<20))
	}
	if cfg.SiteTitle != "BeatStitch" {
		t.Errorf("SiteTitle = %q, want BeatStitch", cfg.SiteTitle)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("ENGINE_URL", "http://engine:9000")
	t.Setenv("JOB_POLL_INTERVAL", "10s")
	t.Setenv("SMTP_PORT", "2525")

	cfg := Load()

	if cfg.EngineURL != "http://engine:9000" {
		t.Errorf("EngineURL = %q, want http://engine:9000", cfg.EngineURL)
	}
	if cfg.JobPollEvery != 10*time.Second {
		t.Errorf("JobPollEvery = %v, want 10s", cfg.JobPollEvery)
	}
	if cfg.SMTPPort != 2525 {
		t.Errorf("SMTPPort = %d, want 2525", cfg.SMTPPort)
	}
}

func TestIsDev(t *testing.T) {
	tests := []struct {
		env  string
		want bool
	}{
		{"development", true},
		{"dev", true},
		{"production", false},
		{"staging", false},
	}

	for _, tt := range tests {
		t.Run(tt.env, func(t *testing.T) {
			cfg := &Config{Env: tt.env}
			if got := cfg.IsDev(); got != tt.want {
				t.Errorf("IsDev() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIsEmailEnabled(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		want bool
	}{
		{"host and from set", Config{SMTPHost: "smtp.example.com", SMTPFrom: "noreply@example.com"}, true},
		{"host only", Config{SMTPHost: "smtp.example.com"}, false},
		{"from only", Config{SMTPFrom: "noreply@example.com"}, false},
		{"neither", Config{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.cfg.IsEmailEnabled(); got != tt.want {
				t.Errorf("IsEmailEnabled() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestLoadYAMLConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "presets.yaml")

	content := `
presets:
  - name: youtube-1080p
    label: YouTube 1080p
    width: 1920
    height: 1080
    frame_rate: 30
    format: mp4
  - name: shorts
    label: Shorts / Reels
    width: 1080
    height: 1920
defaults:
  aspect_ratio: "9:16"
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write presets file: %v", err)
	}
	t.Setenv("PRESETS_FILE", path)

	cfg, err := LoadYAMLConfig()
	if err != nil {
		t.Fatalf("LoadYAMLConfig() error: %v", err)
	}
	if cfg == nil {
		t.Fatal("LoadYAMLConfig() returned nil for existing file")
	}

	if len(cfg.Presets) != 2 {
		t.Fatalf("len(Presets) = %d, want 2", len(cfg.Presets))
	}
	if p := cfg.GetPresetByName("youtube-1080p"); p == nil || p.Width != 1920 {
		t.Errorf("GetPresetByName(youtube-1080p) = %+v, want width 1920", p)
	}
	if p := cfg.GetPresetByName("missing"); p != nil {
		t.Errorf("GetPresetByName(missing) = %+v, want nil", p)
	}

	// Default preset falls back to the first declared preset.
	if cfg.Defaults.Preset != "youtube-1080p" {
		t.Errorf("Defaults.Preset = %q, want youtube-1080p", cfg.Defaults.Preset)
	}
	if cfg.Defaults.AspectRatio != "9:16" {
		t.Errorf("Defaults.AspectRatio = %q, want 9:16", cfg.Defaults.AspectRatio)
	}

	names := cfg.PresetNames()
	if len(names) != 2 || names[0] != "youtube-1080p" || names[1] != "shorts" {
		t.Errorf("PresetNames() = %v", names)
	}
}

func TestLoadYAMLConfigMissingFile(t *testing.T) {
	t.Setenv("PRESETS_FILE", filepath.Join(t.TempDir(), "does-not-exist.yaml"))

	cfg, err := LoadYAMLConfig()
	if err != nil {
		t.Fatalf("LoadYAMLConfig() error for missing file: %v", err)
	}
	if cfg != nil {
		t.Errorf("LoadYAMLConfig() = %+v, want nil for missing file", cfg)
	}
}
