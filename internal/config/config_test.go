package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/SlapDrone/slopify/internal/logging"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("MkdirAll() error = %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
}

func TestLoad_DefaultWhenMissing(t *testing.T) {
	tmpDir := t.TempDir()

	cfg, err := Load(tmpDir)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Output != DefaultOutput {
		t.Fatalf("Output = %q, want %q", cfg.Output, DefaultOutput)
	}
	if len(cfg.Deny) != 1 || cfg.Deny[0] != "LICENSE*" {
		t.Fatalf("Deny = %v, want [LICENSE*]", cfg.Deny)
	}
	if len(cfg.MarkupExtensions) != 1 || cfg.MarkupExtensions[0] != ".md" {
		t.Fatalf("MarkupExtensions = %v, want [.md]", cfg.MarkupExtensions)
	}
}

func TestLoad_OverridesFromFile(t *testing.T) {
	tmpDir := t.TempDir()
	writeFile(t, filepath.Join(tmpDir, GlobalFileName), `
output = "bundle.md"
recursive = true
log_level = "debug"
markup_extensions = [".markdown"]

[languages]
tpl = "html"
`)

	cfg, err := Load(tmpDir)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Output != "bundle.md" {
		t.Errorf("Output = %q, want %q", cfg.Output, "bundle.md")
	}
	if !cfg.Recursive {
		t.Error("Recursive should be true")
	}
	if cfg.LogLevel != logging.LevelDebug {
		t.Errorf("LogLevel = %q, want debug", cfg.LogLevel)
	}
	if len(cfg.MarkupExtensions) != 2 {
		t.Errorf("MarkupExtensions = %v, want defaults plus .markdown", cfg.MarkupExtensions)
	}
	if cfg.Languages["tpl"] != "html" {
		t.Errorf("Languages[tpl] = %q, want html", cfg.Languages["tpl"])
	}
}

func TestLoad_InvalidTOML(t *testing.T) {
	tmpDir := t.TempDir()
	writeFile(t, filepath.Join(tmpDir, GlobalFileName), `output = [not toml`)

	if _, err := Load(tmpDir); err == nil {
		t.Fatalf("Load() expected error, got nil")
	}
}

func TestLoad_InvalidLogLevel(t *testing.T) {
	tmpDir := t.TempDir()
	writeFile(t, filepath.Join(tmpDir, GlobalFileName), `log_level = "chatty"`)

	if _, err := Load(tmpDir); err == nil {
		t.Fatalf("Load() expected error for unknown log level, got nil")
	}
}

func TestLoad_DisabledTools(t *testing.T) {
	tmpDir := t.TempDir()
	writeFile(t, filepath.Join(tmpDir, GlobalFileName), `disabled_tools = ["slop_import", "slop_export"]`)

	cfg, err := Load(tmpDir)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if len(cfg.DisabledTools) != 2 {
		t.Fatalf("DisabledTools length = %d, want 2", len(cfg.DisabledTools))
	}
	if cfg.DisabledTools[0] != "slop_import" {
		t.Errorf("DisabledTools[0] = %q, want %q", cfg.DisabledTools[0], "slop_import")
	}
}

func TestLoadWithRepo_BothPresent(t *testing.T) {
	globalDir := t.TempDir()
	repoRoot := t.TempDir()

	writeFile(t, filepath.Join(globalDir, GlobalFileName), `
output = "global.md"
ignore = ["*.log"]
`)
	writeFile(t, filepath.Join(repoRoot, RepoFileName), `
output = "repo.md"
ignore = ["dist/", "*.log"]
`)

	cfg, err := LoadWithRepo(globalDir, repoRoot, "")
	if err != nil {
		t.Fatalf("LoadWithRepo() error = %v", err)
	}

	// Repo overrides scalar
	if cfg.Output != "repo.md" {
		t.Errorf("Output = %q, want repo.md (repo override)", cfg.Output)
	}

	// Arrays merged
	if len(cfg.Ignore) != 2 {
		t.Errorf("Ignore = %v, want 2 deduplicated entries", cfg.Ignore)
	}
}

func TestLoadWithRepo_OnlyGlobal(t *testing.T) {
	globalDir := t.TempDir()
	repoDir := t.TempDir()

	writeFile(t, filepath.Join(globalDir, GlobalFileName), `allow_unsafe_paths = true`)

	cfg, err := LoadWithRepo(globalDir, repoDir, "")
	if err != nil {
		t.Fatalf("LoadWithRepo() error = %v", err)
	}

	if !cfg.AllowUnsafePaths {
		t.Error("AllowUnsafePaths should be true")
	}
	if cfg.Output != DefaultOutput {
		t.Errorf("Output = %q, want default", cfg.Output)
	}
}

func TestLoadWithRepo_NeitherPresent(t *testing.T) {
	cfg, err := LoadWithRepo(t.TempDir(), t.TempDir(), "")
	if err != nil {
		t.Fatalf("LoadWithRepo() error = %v", err)
	}

	if cfg.Output != DefaultOutput {
		t.Errorf("Output = %q, want %q", cfg.Output, DefaultOutput)
	}
	if len(cfg.DisabledTools) != 0 {
		t.Errorf("DisabledTools = %v, want empty", cfg.DisabledTools)
	}
}

func TestLoadWithRepo_ExplicitPath(t *testing.T) {
	repoRoot := t.TempDir()
	writeFile(t, filepath.Join(repoRoot, RepoFileName), `output = "found.md"`)

	explicit := filepath.Join(t.TempDir(), "custom.toml")
	writeFile(t, explicit, `output = "explicit.md"`)

	cfg, err := LoadWithRepo("", repoRoot, explicit)
	if err != nil {
		t.Fatalf("LoadWithRepo() error = %v", err)
	}
	if cfg.Output != "explicit.md" {
		t.Errorf("Output = %q, want explicit.md", cfg.Output)
	}
}

func TestLoadWithRepo_ExplicitPathMissing(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nope.toml")

	if _, err := LoadWithRepo("", t.TempDir(), missing); err == nil {
		t.Fatal("LoadWithRepo() expected error for missing explicit config")
	}
}

func TestMerge_ScalarOverride(t *testing.T) {
	base := &Config{Output: "a.md", LogLevel: logging.LevelInfo}
	overlay := &Config{Output: "b.md"}

	result := Merge(base, overlay)

	if result.Output != "b.md" {
		t.Errorf("Output = %q, want b.md (overlay)", result.Output)
	}
	if result.LogLevel != logging.LevelInfo {
		t.Errorf("LogLevel = %q, want info (base, overlay is zero)", result.LogLevel)
	}
}

func TestMerge_BooleanOr(t *testing.T) {
	base := &Config{AllowUnsafePaths: true}
	overlay := &Config{Recursive: true}

	result := Merge(base, overlay)

	if !result.AllowUnsafePaths {
		t.Error("AllowUnsafePaths should be true (base OR overlay)")
	}
	if !result.Recursive {
		t.Error("Recursive should be true (base OR overlay)")
	}
}

func TestMerge_ArrayMergeDedup(t *testing.T) {
	base := &Config{Deny: []string{"LICENSE*", " *.pem "}}
	overlay := &Config{Deny: []string{"*.pem", "secrets/"}}

	result := Merge(base, overlay)

	want := []string{"LICENSE*", "*.pem", "secrets/"}
	if len(result.Deny) != len(want) {
		t.Fatalf("Deny = %v, want %v", result.Deny, want)
	}
	for i := range want {
		if result.Deny[i] != want[i] {
			t.Errorf("Deny[%d] = %q, want %q", i, result.Deny[i], want[i])
		}
	}
}

func TestMerge_MapOverlayWins(t *testing.T) {
	base := &Config{Languages: map[string]string{"tpl": "html", "h": "c"}}
	overlay := &Config{Languages: map[string]string{"h": "cpp"}}

	result := Merge(base, overlay)

	if result.Languages["tpl"] != "html" || result.Languages["h"] != "cpp" {
		t.Errorf("Languages = %v, want tpl=html h=cpp", result.Languages)
	}
	if base.Languages["h"] != "c" {
		t.Error("Merge must not mutate base")
	}
}

func TestFindRepoConfig_InParentDir(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, RepoFileName)
	writeFile(t, configPath, ``)

	subdir := filepath.Join(tmpDir, "subdir", "deeper")
	if err := os.MkdirAll(subdir, 0755); err != nil {
		t.Fatalf("MkdirAll() error = %v", err)
	}

	if found := FindRepoConfig(tmpDir); found != configPath {
		t.Errorf("FindRepoConfig() = %q, want %q", found, configPath)
	}
	if found := FindRepoConfig(subdir); found != configPath {
		t.Errorf("FindRepoConfig() = %q, want %q", found, configPath)
	}
}

func TestFindRepoConfig_NotFound(t *testing.T) {
	if found := FindRepoConfig(t.TempDir()); found != "" {
		t.Errorf("FindRepoConfig() = %q, want empty string", found)
	}
	if found := FindRepoConfig(""); found != "" {
		t.Errorf("FindRepoConfig(\"\") = %q, want empty string", found)
	}
}
