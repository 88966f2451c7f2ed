package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/viper"

	"github.com/Iron-Ham/taskrank/internal/task"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg == nil {
		t.Fatal("Default() returned nil")
	}

	// Verify default analysis config
	if cfg.Analysis.Strategy != "smart_balance" {
		t.Errorf("Analysis.Strategy = %q, want %q", cfg.Analysis.Strategy, "smart_balance")
	}
	if cfg.Analysis.ReferenceDate != "" {
		t.Errorf("Analysis.ReferenceDate = %q, want empty", cfg.Analysis.ReferenceDate)
	}
	if len(cfg.Analysis.Weights) != 0 {
		t.Errorf("Analysis.Weights should be empty, got %v", cfg.Analysis.Weights)
	}
	if cfg.Analysis.MaxParallel != 4 {
		t.Errorf("Analysis.MaxParallel = %d, want 4", cfg.Analysis.MaxParallel)
	}

	// Verify default suggest config
	if cfg.Suggest.Count != 3 {
		t.Errorf("Suggest.Count = %d, want 3", cfg.Suggest.Count)
	}

	// Verify default output config
	if cfg.Output.Format != "text" {
		t.Errorf("Output.Format = %q, want %q", cfg.Output.Format, "text")
	}
	if cfg.Output.Color != "auto" {
		t.Errorf("Output.Color = %q, want %q", cfg.Output.Color, "auto")
	}
	if cfg.Output.TitleWidth != 40 {
		t.Errorf("Output.TitleWidth = %d, want 40", cfg.Output.TitleWidth)
	}

	// Verify default logging config
	if cfg.Logging.Enabled {
		t.Error("Logging.Enabled should be false by default")
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("Logging.Level = %q, want %q", cfg.Logging.Level, "info")
	}
	if cfg.Logging.MaxSizeMB != 10 || cfg.Logging.MaxBackups != 3 {
		t.Errorf("Logging rotation = %d/%d, want 10/3", cfg.Logging.MaxSizeMB, cfg.Logging.MaxBackups)
	}
}

func TestAnalysisConfig_Reference(t *testing.T) {
	t.Run("empty means today", func(t *testing.T) {
		cfg := AnalysisConfig{}
		got, err := cfg.Reference()
		if err != nil {
			t.Fatalf("Reference() error: %v", err)
		}
		if got != task.Today() {
			t.Errorf("Reference() = %s, want today", got)
		}
	})

	t.Run("explicit date", func(t *testing.T) {
		cfg := AnalysisConfig{ReferenceDate: "2025-01-15"}
		got, err := cfg.Reference()
		if err != nil {
			t.Fatalf("Reference() error: %v", err)
		}
		if got.String() != "2025-01-15" {
			t.Errorf("Reference() = %s, want 2025-01-15", got)
		}
	})

	t.Run("malformed date", func(t *testing.T) {
		cfg := AnalysisConfig{ReferenceDate: "15/01/2025"}
		if _, err := cfg.Reference(); err == nil {
			t.Error("expected an error for a malformed date")
		}
	})
}

func TestLoggingConfig_Rotation(t *testing.T) {
	cfg := LoggingConfig{MaxSizeMB: 5, MaxBackups: 2}
	rot := cfg.Rotation()
	if rot.MaxSizeMB != 5 || rot.MaxBackups != 2 {
		t.Errorf("Rotation() = %+v, want 5/2", rot)
	}
}

func TestConfigDir(t *testing.T) {
	// Test with XDG_CONFIG_HOME set
	t.Run("with XDG_CONFIG_HOME", func(t *testing.T) {
		t.Setenv("XDG_CONFIG_HOME", "/custom/config")

		result := ConfigDir()
		expected := "/custom/config/taskrank"
		if result != expected {
			t.Errorf("ConfigDir() = %q, want %q", result, expected)
		}
	})

	// Test without XDG_CONFIG_HOME
	t.Run("without XDG_CONFIG_HOME", func(t *testing.T) {
		t.Setenv("XDG_CONFIG_HOME", "")
		result := ConfigDir()

		// Should be based on home directory
		home, _ := os.UserHomeDir()
		expected := filepath.Join(home, ".config", "taskrank")
		if result != expected {
			t.Errorf("ConfigDir() = %q, want %q", result, expected)
		}
	})
}

func TestConfigFile(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/custom/config")

	result := ConfigFile()
	expected := "/custom/config/taskrank/config.yaml"
	if result != expected {
		t.Errorf("ConfigFile() = %q, want %q", result, expected)
	}
}

func TestGet(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	// Set defaults in viper first (normally done by cmd init)
	SetDefaults()

	// Get() should return defaults when no config file exists
	cfg := Get()
	if cfg == nil {
		t.Fatal("Get() returned nil")
	}

	// Should have default values
	if cfg.Analysis.Strategy != "smart_balance" {
		t.Errorf("Get().Analysis.Strategy = %q, want %q", cfg.Analysis.Strategy, "smart_balance")
	}
	if cfg.Suggest.Count != 3 {
		t.Errorf("Get().Suggest.Count = %d, want 3", cfg.Suggest.Count)
	}
}

func TestLoad_FromFile(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)
	SetDefaults()

	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `analysis:
  strategy: deadline-driven
  reference_date: "2025-03-01"
  weights:
    urgency: 2
    importance: 1
suggest:
  count: 5
output:
  format: json
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	viper.SetConfigFile(path)
	if err := viper.ReadInConfig(); err != nil {
		t.Fatalf("ReadInConfig: %v", err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.Analysis.Strategy != "deadline-driven" {
		t.Errorf("Strategy = %q", cfg.Analysis.Strategy)
	}
	if cfg.Analysis.ReferenceDate != "2025-03-01" {
		t.Errorf("ReferenceDate = %q", cfg.Analysis.ReferenceDate)
	}
	if len(cfg.Analysis.Weights) != 2 {
		t.Errorf("Weights = %v, want two keys", cfg.Analysis.Weights)
	}
	if cfg.Suggest.Count != 5 {
		t.Errorf("Suggest.Count = %d, want 5", cfg.Suggest.Count)
	}
	if cfg.Output.Format != "json" {
		t.Errorf("Output.Format = %q, want json", cfg.Output.Format)
	}
	// Untouched sections keep their defaults.
	if cfg.Output.TitleWidth != 40 {
		t.Errorf("Output.TitleWidth = %d, want 40", cfg.Output.TitleWidth)
	}
}

func TestLoad_Invalid(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)
	SetDefaults()

	viper.Set("suggest.count", 0)
	viper.Set("output.color", "rainbow")

	_, err := Load()
	if err == nil {
		t.Fatal("Load() should reject invalid values")
	}
	if !strings.Contains(err.Error(), "suggest.count") || !strings.Contains(err.Error(), "output.color") {
		t.Errorf("error should name both fields: %v", err)
	}

	// Get falls back to defaults.
	if cfg := Get(); cfg.Suggest.Count != 3 {
		t.Errorf("Get().Suggest.Count = %d, want default 3", cfg.Suggest.Count)
	}
}
