package config

import (
	"errors"
	"os"
	"testing"

	"pgregory.net/rapid"
)

func TestConfigMergePrecedence(t *testing.T) {
	nonEmptyString := rapid.StringMatching(`[a-zA-Z0-9/_.-]{1,20}`)

	// Generator for a Config with all string fields either empty or non-empty.
	configGen := rapid.Custom(func(t *rapid.T) *Config {
		cfg := &Config{}
		if rapid.Bool().Draw(t, "hasEndpoint") {
			cfg.Endpoint = nonEmptyString.Draw(t, "endpoint")
		}
		if rapid.Bool().Draw(t, "hasTriggerPath") {
			cfg.TriggerPath = nonEmptyString.Draw(t, "triggerPath")
		}
		if rapid.Bool().Draw(t, "hasTempDir") {
			cfg.TempDir = nonEmptyString.Draw(t, "tempDir")
		}
		cfg.KeepOpenOnBlur = rapid.Bool().Draw(t, "keepOpenOnBlur")
		return cfg
	})

	rapid.Check(t, func(t *rapid.T) {
		global := configGen.Draw(t, "global")
		project := configGen.Draw(t, "project")

		merged := Merge(global, project)
		defaults := Defaults()

		checkStringField(t, "Endpoint",
			global.Endpoint, project.Endpoint, defaults.Endpoint,
			merged.Endpoint)

		checkStringField(t, "TriggerPath",
			global.TriggerPath, project.TriggerPath, defaults.TriggerPath,
			merged.TriggerPath)

		checkStringField(t, "TempDir",
			global.TempDir, project.TempDir, defaults.TempDir,
			merged.TempDir)

		// KeepOpenOnBlur merges as an OR: either layer can opt in.
		if want := global.KeepOpenOnBlur || project.KeepOpenOnBlur; merged.KeepOpenOnBlur != want {
			t.Fatalf("KeepOpenOnBlur: want %v, got %v", want, merged.KeepOpenOnBlur)
		}
	})
}

// checkStringField asserts the merge precedence rule for a single string field:
//   - project non-empty  → merged == project
//   - project empty, global non-empty → merged == global
//   - both empty → merged == defaultVal
func checkStringField(t *rapid.T, name, globalVal, projectVal, defaultVal, mergedVal string) {
	t.Helper()
	switch {
	case projectVal != "":
		if mergedVal != projectVal {
			t.Fatalf("%s: both set — expected project value %q, got %q", name, projectVal, mergedVal)
		}
	case globalVal != "":
		if mergedVal != globalVal {
			t.Fatalf("%s: only global set — expected global value %q, got %q", name, globalVal, mergedVal)
		}
	default:
		if mergedVal != defaultVal {
			t.Fatalf("%s: neither set — expected default %q, got %q", name, defaultVal, mergedVal)
		}
	}
}

func TestDefaultsValues(t *testing.T) {
	d := Defaults()
	if d.Endpoint != "http://127.0.0.1:8000" {
		t.Errorf("Endpoint: want %q, got %q", "http://127.0.0.1:8000", d.Endpoint)
	}
	if d.TriggerPath != "" {
		t.Errorf("TriggerPath: want empty, got %q", d.TriggerPath)
	}
	if d.KeepOpenOnBlur {
		t.Error("KeepOpenOnBlur: want false by default")
	}
}

func TestLoadGlobalMissingFileReturnsDefaults(t *testing.T) {
	tmp := t.TempDir()
	t.Setenv("HOME", tmp)

	cfg, err := LoadGlobal()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg == nil {
		t.Fatal("expected non-nil config, got nil")
	}
	defaults := Defaults()
	if cfg.Endpoint != defaults.Endpoint {
		t.Errorf("Endpoint: want %q, got %q", defaults.Endpoint, cfg.Endpoint)
	}
}

func TestLoadGlobalReadsFile(t *testing.T) {
	tmp := t.TempDir()
	t.Setenv("HOME", tmp)

	cfgDir := tmp + "/.config/synctank"
	if err := os.MkdirAll(cfgDir, 0o755); err != nil {
		t.Fatal(err)
	}
	body := `{"endpoint":"http://sync.internal:9000","keep_open_on_blur":true}`
	if err := os.WriteFile(cfgDir+"/config.json", []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadGlobal()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Endpoint != "http://sync.internal:9000" {
		t.Errorf("Endpoint: want %q, got %q", "http://sync.internal:9000", cfg.Endpoint)
	}
	if !cfg.KeepOpenOnBlur {
		t.Error("KeepOpenOnBlur: want true")
	}
}

func TestLoadProjectMissingFileReturnsNil(t *testing.T) {
	tmp := t.TempDir()
	orig, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(tmp); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Chdir(orig) })

	cfg, err := LoadProject()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg != nil {
		t.Errorf("expected nil config, got %+v", cfg)
	}
}

func TestLoadGlobalParseError(t *testing.T) {
	tmp := t.TempDir()
	t.Setenv("HOME", tmp)

	cfgDir := tmp + "/.config/synctank"
	if err := os.MkdirAll(cfgDir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(cfgDir+"/config.json", []byte("{invalid json"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := LoadGlobal()
	if err == nil {
		t.Fatal("expected an error for invalid JSON, got nil")
	}
	var parseErr *ParseError
	if !errors.As(err, &parseErr) {
		t.Errorf("expected *ParseError, got %T: %v", err, err)
	}
}
