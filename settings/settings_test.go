package settings

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultsAreValid(t *testing.T) {
	if err := DefaultSettings().Validate(); err != nil {
		t.Fatalf("default settings should validate: %v", err)
	}
	if h := DefaultPhysics().RequiredHeadroom(); h != 28 {
		t.Fatalf("expected 28 blips of headroom, got %d", h)
	}
}

func TestSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "blueprint.toml")
	if err := SaveDefault(path); err != nil {
		t.Fatalf("failed saving default settings: %v", err)
	}
	if err := SaveDefault(path); err == nil {
		t.Fatalf("saving over an existing file should fail")
	}

	s, err := Load(path)
	if err != nil {
		t.Fatalf("failed loading settings: %v", err)
	}
	if s != DefaultSettings() {
		t.Fatalf("loaded settings %+v differ from defaults %+v", s, DefaultSettings())
	}
}

func TestLoadRejectsInvalidPhysics(t *testing.T) {
	path := filepath.Join(t.TempDir(), "blueprint.toml")
	data := []byte("[Physics]\nBlipsPerBlock = 16\nMaxJumpBlips = 40\n")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("failed writing settings: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatalf("expected a jump height of two blocks to be rejected")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Fatalf("expected an error for a missing file")
	}
}
