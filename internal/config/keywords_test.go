package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultKeywordsPopulated(t *testing.T) {
	kw := DefaultKeywords()

	sets := map[string][]string{
		"greetings":          kw.Greetings,
		"reset":              kw.Reset,
		"escalation":         kw.Escalation,
		"managed_it":         kw.ManagedIT,
		"enterprise":         kw.Enterprise,
		"business":           kw.Business,
		"residential":        kw.Residential,
		"fiber":              kw.Fiber,
		"fixed_wireless":     kw.FixedWireless,
		"cellular":           kw.Cellular,
		"credential_request": kw.CredentialRequest,
		"connectivity_loss":  kw.ConnectivityLoss,
		"degraded_speed":     kw.DegradedSpeed,
		"intermittent_drops": kw.IntermittentDrops,
		"scope_internet":     kw.ScopeInternet,
		"scope_it":           kw.ScopeIT,
	}
	for name, set := range sets {
		if len(set) == 0 {
			t.Errorf("default keyword set %s is empty", name)
		}
	}
	if len(kw.EquipmentHints) == 0 {
		t.Error("default equipment hints are empty")
	}
}

func TestLoadKeywordsEmptyPathReturnsDefaults(t *testing.T) {
	kw, err := LoadKeywords("")
	if err != nil {
		t.Fatalf("LoadKeywords() error: %v", err)
	}
	if len(kw.Greetings) == 0 {
		t.Error("defaults not returned for empty path")
	}
}

func TestLoadKeywordsMergesPerList(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keywords.yaml")
	content := "greetings:\n  - howdy\nfiber:\n  - glass\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile() error: %v", err)
	}

	kw, err := LoadKeywords(path)
	if err != nil {
		t.Fatalf("LoadKeywords() error: %v", err)
	}

	if len(kw.Greetings) != 1 || kw.Greetings[0] != "howdy" {
		t.Errorf("greetings = %v, want [howdy]", kw.Greetings)
	}
	if len(kw.Fiber) != 1 || kw.Fiber[0] != "glass" {
		t.Errorf("fiber = %v, want [glass]", kw.Fiber)
	}
	// untouched lists keep their defaults
	if len(kw.Business) == 0 {
		t.Error("business list lost its defaults on partial override")
	}
}

func TestLoadKeywordsMissingFile(t *testing.T) {
	if _, err := LoadKeywords(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("LoadKeywords() with missing file succeeded")
	}
}

func TestLoadKeywordsInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("greetings: {nope"), 0o644); err != nil {
		t.Fatalf("WriteFile() error: %v", err)
	}
	if _, err := LoadKeywords(path); err == nil {
		t.Error("LoadKeywords() with invalid yaml succeeded")
	}
}
