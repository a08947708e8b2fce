package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/SlapDrone/slopify/internal/logging"
)

const (
	// GlobalFileName is the config file inside the global directory (~/.slopify).
	GlobalFileName = "config.toml"

	// RepoFileName is the per-project config file found by walking upward.
	RepoFileName = ".slopify.toml"

	// DefaultOutput is the document written by export when no output is given.
	DefaultOutput = "slop.md"
)

// Config holds application configuration.
type Config struct {
	// Output is the default export document path.
	Output string `toml:"output,omitempty"`

	// Recursive makes export descend into directories by default.
	Recursive bool `toml:"recursive,omitempty"`

	// Ignore holds extra gitignore-syntax patterns, applied after the base .gitignore.
	Ignore []string `toml:"ignore,omitempty"`

	// Deny holds patterns that are always excluded, regardless of .gitignore negations.
	Deny []string `toml:"deny,omitempty"`

	// MarkupExtensions lists extensions decoded as markup sections (".md" by default).
	MarkupExtensions []string `toml:"markup_extensions,omitempty"`

	// Languages maps a file extension (with or without the dot) to a fence tag.
	Languages map[string]string `toml:"languages,omitempty"`

	// DetectLanguages falls back to lexer-based detection for unknown extensions.
	DetectLanguages bool `toml:"detect_languages,omitempty"`

	// AllowUnsafePaths permits import to write outside the base directory.
	// Use with caution: a hand-edited document can then name any path.
	AllowUnsafePaths bool `toml:"allow_unsafe_paths,omitempty"`

	// LogLevel is debug, info, warn or error. Empty means warn.
	LogLevel logging.Level `toml:"log_level,omitempty"`

	// DisabledTools is a list of MCP tool names to exclude from registration.
	// Unknown tool names are logged as warnings.
	DisabledTools []string `toml:"disabled_tools,omitempty"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Output:           DefaultOutput,
		Deny:             []string{"LICENSE*"},
		MarkupExtensions: []string{".md"},
	}
}

// Load loads configuration from baseDir/config.toml.
// Returns default config if the file doesn't exist.
// The baseDir parameter allows tests to use t.TempDir() instead of ~/.slopify.
func Load(baseDir string) (*Config, error) {
	return LoadFile(filepath.Join(baseDir, GlobalFileName))
}

// LoadFile loads configuration from a specific file on top of the defaults.
// A missing file yields the defaults.
func LoadFile(configPath string) (*Config, error) {
	cfg, err := loadFileRaw(configPath)
	if err != nil {
		return nil, err
	}
	return Merge(DefaultConfig(), cfg), nil
}

// LoadWithRepo loads configuration from both the global directory and the repo.
// The repo config is the nearest .slopify.toml found by walking upward from startDir,
// or explicitPath when it is non-empty.
// Repo config takes precedence for scalar values; arrays are merged (deduplicated).
// Either or both configs may be missing.
func LoadWithRepo(globalDir, startDir, explicitPath string) (*Config, error) {
	global := &Config{}
	if globalDir != "" {
		var err error
		global, err = loadFileRaw(filepath.Join(globalDir, GlobalFileName))
		if err != nil {
			return nil, err
		}
	}

	repoConfigPath := explicitPath
	if repoConfigPath == "" {
		repoConfigPath = FindRepoConfig(startDir)
	} else if _, err := os.Stat(repoConfigPath); err != nil {
		return nil, fmt.Errorf("config file %s: %w", repoConfigPath, err)
	}
	repo, err := loadFileRaw(repoConfigPath)
	if err != nil {
		return nil, err
	}

	// Apply defaults, then global, then repo
	return Merge(Merge(DefaultConfig(), global), repo), nil
}

// FindRepoConfig walks upward from startDir to find the nearest .slopify.toml.
// Returns the path if found, or empty string if not found.
func FindRepoConfig(startDir string) string {
	if startDir == "" {
		return ""
	}
	dir := startDir
	for {
		configPath := filepath.Join(dir, RepoFileName)
		if info, err := os.Stat(configPath); err == nil && !info.IsDir() {
			return configPath
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

// loadFileRaw loads configuration from a specific file path.
// Returns zero-valued config if the path is empty or the file doesn't exist (not defaults).
func loadFileRaw(configPath string) (*Config, error) {
	if configPath == "" {
		return &Config{}, nil
	}
	data, err := os.ReadFile(configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, err
	}

	cfg := &Config{}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", configPath, err)
	}

	return cfg, nil
}

// Merge combines base and overlay configs.
// Overlay values take precedence for scalars; arrays are merged and deduplicated;
// maps are merged key by key with overlay winning.
func Merge(base, overlay *Config) *Config {
	result := &Config{}

	// Scalars: overlay wins if non-zero, else base
	result.Output = overlay.Output
	if result.Output == "" {
		result.Output = base.Output
	}

	result.LogLevel = overlay.LogLevel
	if result.LogLevel == "" {
		result.LogLevel = base.LogLevel
	}

	// Booleans: overlay wins if true, else base
	result.Recursive = base.Recursive || overlay.Recursive
	result.DetectLanguages = base.DetectLanguages || overlay.DetectLanguages
	result.AllowUnsafePaths = base.AllowUnsafePaths || overlay.AllowUnsafePaths

	// Arrays: merge and deduplicate
	result.Ignore = mergeStringSlice(base.Ignore, overlay.Ignore)
	result.Deny = mergeStringSlice(base.Deny, overlay.Deny)
	result.MarkupExtensions = mergeStringSlice(base.MarkupExtensions, overlay.MarkupExtensions)
	result.DisabledTools = mergeStringSlice(base.DisabledTools, overlay.DisabledTools)

	result.Languages = mergeStringMap(base.Languages, overlay.Languages)

	return result
}

// mergeStringSlice combines two slices, trims whitespace, and removes duplicates.
func mergeStringSlice(a, b []string) []string {
	seen := make(map[string]bool)
	result := make([]string, 0, len(a)+len(b))

	for _, s := range a {
		s = strings.TrimSpace(s)
		if s != "" && !seen[s] {
			seen[s] = true
			result = append(result, s)
		}
	}
	for _, s := range b {
		s = strings.TrimSpace(s)
		if s != "" && !seen[s] {
			seen[s] = true
			result = append(result, s)
		}
	}

	if len(result) == 0 {
		return nil
	}
	return result
}

func mergeStringMap(a, b map[string]string) map[string]string {
	if len(a) == 0 && len(b) == 0 {
		return nil
	}
	result := make(map[string]string, len(a)+len(b))
	for k, v := range a {
		result[k] = v
	}
	for k, v := range b {
		result[k] = v
	}
	return result
}
