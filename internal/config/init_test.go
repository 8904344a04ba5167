package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/temirov/digest/internal/utils"
)

func TestInitializeConfigurationCreatesLocalFile(t *testing.T) {
	workingDirectory := t.TempDir()
	options := InitOptions{WorkingDirectory: workingDirectory, Target: InitTargetLocal}
	path, err := InitializeConfiguration(options)
	if err != nil {
		t.Fatalf("InitializeConfiguration error: %v", err)
	}
	expectedPath := filepath.Join(workingDirectory, utils.ConfigFileName)
	if path != expectedPath {
		t.Fatalf("expected path %s, got %s", expectedPath, path)
	}
	content, readErr := os.ReadFile(path)
	if readErr != nil {
		t.Fatalf("read config: %v", readErr)
	}
	if !strings.Contains(string(content), "digest:") || !strings.Contains(string(content), "policy:") {
		t.Fatalf("unexpected configuration content: %s", string(content))
	}
}

func TestInitializeConfigurationTemplateLoads(t *testing.T) {
	homeDir := t.TempDir()
	t.Setenv("HOME", homeDir)
	t.Setenv("USERPROFILE", homeDir)
	workingDirectory := t.TempDir()
	if _, err := InitializeConfiguration(InitOptions{WorkingDirectory: workingDirectory}); err != nil {
		t.Fatalf("InitializeConfiguration error: %v", err)
	}
	loadedConfig, err := LoadApplicationConfiguration(LoadOptions{WorkingDirectory: workingDirectory})
	if err != nil {
		t.Fatalf("LoadApplicationConfiguration error: %v", err)
	}
	if loadedConfig.Digest.Budget == nil || *loadedConfig.Digest.Budget != 70000 {
		t.Fatalf("expected template budget 70000, got %v", loadedConfig.Digest.Budget)
	}
	if loadedConfig.Digest.Ceiling == nil || *loadedConfig.Digest.Ceiling != 6000 {
		t.Fatalf("expected template ceiling 6000, got %v", loadedConfig.Digest.Ceiling)
	}
	if loadedConfig.Digest.Format != "raw" {
		t.Fatalf("expected template format raw, got %q", loadedConfig.Digest.Format)
	}
}

func TestDefaultConfigurationDocumentListsEveryKey(t *testing.T) {
	document, err := DefaultConfigurationDocument()
	if err != nil {
		t.Fatalf("DefaultConfigurationDocument error: %v", err)
	}
	expectedLines := []string{
		"digest:",
		"  format: raw",
		"  budget: 70000",
		"  ceiling: 6000",
		"  tree_max_entries: 500",
		"  summary: true",
		"    model: gpt-4o",
		"    use_gitignore: true",
		"policy:",
		"  exclude_directories: []",
		"  entry_point_extensions: []",
		"  infrastructure_names: []",
	}
	for _, expectedLine := range expectedLines {
		if !strings.Contains(string(document), expectedLine+"\n") {
			t.Fatalf("expected line %q in document:\n%s", expectedLine, document)
		}
	}
}

func TestInitializeConfigurationRejectsUnknownTarget(t *testing.T) {
	if _, err := InitializeConfiguration(InitOptions{Target: InitTarget("remote"), WorkingDirectory: t.TempDir()}); err == nil {
		t.Fatalf("expected an error for an unknown target")
	}
}

func TestInitializeConfigurationHonorsGlobalTarget(t *testing.T) {
	homeDir := t.TempDir()
	t.Setenv("HOME", homeDir)
	t.Setenv("USERPROFILE", homeDir)
	path, err := InitializeConfiguration(InitOptions{Target: InitTargetGlobal, Force: true})
	if err != nil {
		t.Fatalf("InitializeConfiguration error: %v", err)
	}
	if !strings.HasPrefix(path, homeDir) {
		t.Fatalf("expected configuration under home dir, got %s", path)
	}
	if _, statErr := os.Stat(path); statErr != nil {
		t.Fatalf("expected file to exist at %s: %v", path, statErr)
	}
}

func TestInitializeConfigurationPreventsOverwriteWithoutForce(t *testing.T) {
	workingDirectory := t.TempDir()
	path := filepath.Join(workingDirectory, utils.ConfigFileName)
	if err := os.WriteFile(path, []byte("existing"), 0o600); err != nil {
		t.Fatalf("write seed config: %v", err)
	}
	_, err := InitializeConfiguration(InitOptions{WorkingDirectory: workingDirectory, Target: InitTargetLocal, Force: false})
	if err == nil {
		t.Fatalf("expected error when configuration already exists")
	}
	if _, err := InitializeConfiguration(InitOptions{WorkingDirectory: workingDirectory, Target: InitTargetLocal, Force: true}); err != nil {
		t.Fatalf("expected overwrite with force, got %v", err)
	}
}
