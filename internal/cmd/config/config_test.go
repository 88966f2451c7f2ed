package config

import (
	"bytes"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	appconfig "github.com/Iron-Ham/taskrank/internal/config"
)

// setupConfig swaps in an in-memory filesystem, fresh viper defaults and a
// fixed config directory.
func setupConfig(t *testing.T) afero.Fs {
	t.Helper()

	viper.Reset()
	appconfig.SetDefaults()
	t.Cleanup(viper.Reset)

	t.Setenv("XDG_CONFIG_HOME", "/cfg")

	orig := fs
	fs = afero.NewMemMapFs()
	t.Cleanup(func() { fs = orig })
	return fs
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	parent := &cobra.Command{Use: "taskrank", SilenceUsage: true, SilenceErrors: true}
	Register(parent)

	var out bytes.Buffer
	parent.SetOut(&out)
	parent.SetErr(&out)
	parent.SetArgs(args)
	err := parent.Execute()
	return out.String(), err
}

func TestConfigShow(t *testing.T) {
	setupConfig(t)

	for _, args := range [][]string{{"config"}, {"config", "show"}} {
		out, err := run(t, args...)
		if err != nil {
			t.Fatalf("%v: unexpected error: %v", args, err)
		}
		for _, want := range []string{
			"Config file: (none - using defaults)",
			"strategy: smart_balance",
			"reference_date: (today)",
			"weights: (strategy defaults)",
			"count: 3",
			"format: text",
			"file: (stderr)",
		} {
			if !strings.Contains(out, want) {
				t.Errorf("%v: output missing %q:\n%s", args, want, out)
			}
		}
	}
}

func TestConfigSet(t *testing.T) {
	memFS := setupConfig(t)

	out, err := run(t, "config", "set", "analysis.strategy", "deadline_driven")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "Set analysis.strategy = deadline_driven") {
		t.Errorf("unexpected output:\n%s", out)
	}

	data, err := afero.ReadFile(memFS, "/cfg/taskrank/config.yaml")
	if err != nil {
		t.Fatalf("config file not written: %v", err)
	}
	if !strings.Contains(string(data), "deadline_driven") {
		t.Errorf("config file missing new value:\n%s", data)
	}
	if got := viper.GetString("analysis.strategy"); got != "deadline_driven" {
		t.Errorf("viper value = %q, want deadline_driven", got)
	}
}

func TestConfigSet_Typed(t *testing.T) {
	setupConfig(t)

	if _, err := run(t, "config", "set", "suggest.count", "5"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := viper.GetInt("suggest.count"); got != 5 {
		t.Errorf("suggest.count = %d, want 5", got)
	}

	if _, err := run(t, "config", "set", "logging.enabled", "true"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !viper.GetBool("logging.enabled") {
		t.Error("logging.enabled should be true")
	}
}

func TestConfigSet_Rejected(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		value   string
		wantErr string
	}{
		{"unknown key", "analysis.colour", "red", "unknown configuration key"},
		{"not an int", "suggest.count", "many", "expected integer"},
		{"not a bool", "logging.enabled", "sometimes", "expected true or false"},
		{"out of range", "suggest.count", "20", "invalid value for suggest.count"},
		{"bad enum", "output.format", "xml", "invalid value for output.format"},
		{"bad strategy", "analysis.strategy", "random", "invalid value for analysis.strategy"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			memFS := setupConfig(t)
			before := viper.Get(tt.key)

			_, err := run(t, "config", "set", tt.key, tt.value)
			if err == nil {
				t.Fatal("expected an error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %q, want it to contain %q", err, tt.wantErr)
			}
			if got := viper.Get(tt.key); got != before {
				t.Errorf("value not rolled back: %v, want %v", got, before)
			}
			if exists, _ := afero.Exists(memFS, "/cfg/taskrank/config.yaml"); exists {
				t.Error("config file should not be written on failure")
			}
		})
	}
}

func TestConfigInit(t *testing.T) {
	memFS := setupConfig(t)

	out, err := run(t, "config", "init")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "Created config file at /cfg/taskrank/config.yaml") {
		t.Errorf("unexpected output:\n%s", out)
	}

	data, err := afero.ReadFile(memFS, "/cfg/taskrank/config.yaml")
	if err != nil {
		t.Fatalf("config file not written: %v", err)
	}
	if string(data) != configTemplate {
		t.Error("config file does not match the template")
	}

	// The template must itself be a valid configuration.
	viper.SetConfigType("yaml")
	if err := viper.ReadConfig(bytes.NewReader(data)); err != nil {
		t.Fatalf("template does not parse: %v", err)
	}
	if _, err := appconfig.Load(); err != nil {
		t.Errorf("template does not validate: %v", err)
	}

	if _, err := run(t, "config", "init"); err == nil || !strings.Contains(err.Error(), "already exists") {
		t.Errorf("second init error = %v, want already exists", err)
	}
}

func TestConfigPath(t *testing.T) {
	setupConfig(t)

	out, err := run(t, "config", "path")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, want := range []string{
		"Default path: /cfg/taskrank/config.yaml (not created)",
		"TASKRANK_ANALYSIS_STRATEGY",
		".env",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestKeyHelp(t *testing.T) {
	help := keyHelp()
	for key := range settableKeys {
		if !strings.Contains(help, key) {
			t.Errorf("key help missing %s", key)
		}
	}
	if strings.Index(help, "analysis.") > strings.Index(help, "suggest.") {
		t.Error("keys should be listed in sorted order")
	}
}
