// Package config handles loading and merging Carson configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration structure.
type Config struct {
	// Extends allows inheriting from a remote config (e.g., "org/repo@branch").
	Extends string `yaml:"extends,omitempty"`

	// Workflow is a preset workflow name (e.g., "status-triage").
	Workflow string `yaml:"workflow,omitempty"`

	// Steps is a custom list of pipeline steps (overrides workflow).
	Steps []string `yaml:"steps,omitempty"`

	// BugLabel is the label that puts an untriaged issue up for review.
	BugLabel string `yaml:"bug_label,omitempty"`

	// BotUsers lists additional accounts whose events are ignored.
	BotUsers []string `yaml:"bot_users,omitempty"`

	// DryRun logs status changes instead of writing them.
	DryRun bool `yaml:"dry_run,omitempty"`

	// Logger configures log level and encoding.
	Logger LoggerConfig `yaml:"logger"`

	// Repositories lists the repositories this config applies to.
	Repositories []RepositoryConfig `yaml:"repositories,omitempty"`
}

// LoggerConfig holds logging settings.
type LoggerConfig struct {
	Level    string `yaml:"level"`
	Encoding string `yaml:"encoding"`
}

// RepositoryConfig defines a repository and whether events from it are handled.
type RepositoryConfig struct {
	Org     string `yaml:"org"`
	Repo    string `yaml:"repo"`
	Enabled bool   `yaml:"enabled"`
}

// knownWorkflows must stay in sync with pipeline.Presets.
var knownWorkflows = map[string]bool{
	"status-triage": true,
	"comments-only": true,
}

// Load reads a config file from the given path and expands environment variables.
func Load(path string) (*Config, error) {
	cfg, err := loadRaw(path)
	if err != nil {
		return nil, err
	}

	cfg.applyDefaults()

	return cfg, nil
}

// LoadWithInheritance loads a config and resolves the 'extends' chain.
// The fetcher function is used to retrieve remote configs.
func LoadWithInheritance(path string, fetcher func(ref string) ([]byte, error)) (*Config, error) {
	cfg, err := loadRaw(path)
	if err != nil {
		return nil, err
	}

	if cfg.Extends == "" {
		cfg.applyDefaults()
		return cfg, nil
	}

	parentData, err := fetcher(cfg.Extends)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch parent config '%s': %w", cfg.Extends, err)
	}

	parentCfg, err := parseRaw(parentData)
	if err != nil {
		return nil, fmt.Errorf("failed to parse parent config: %w", err)
	}

	// Merge: child overrides parent
	merged := mergeConfigs(parentCfg, cfg)
	merged.applyDefaults()

	return merged, nil
}

// FindConfigPath searches for a config file in standard locations.
func FindConfigPath(explicit string) string {
	if explicit != "" {
		if _, err := os.Stat(explicit); err == nil {
			return explicit
		}
		return ""
	}

	candidates := []string{
		".github/carson.yaml",
		".github/carson.yml",
		".carson.yaml",
		".carson.yml",
	}

	for _, c := range candidates {
		if _, err := os.Stat(c); err == nil {
			abs, _ := filepath.Abs(c)
			return abs
		}
	}

	return ""
}

// Default returns a config with every default applied.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Validate checks the config for values the bot cannot act on.
func (c *Config) Validate() error {
	if c.Workflow != "" && len(c.Steps) == 0 && !knownWorkflows[c.Workflow] {
		return fmt.Errorf("unknown workflow: %s", c.Workflow)
	}

	for i, r := range c.Repositories {
		if r.Org == "" || r.Repo == "" {
			return fmt.Errorf("repositories[%d]: org and repo are required", i)
		}
	}

	switch c.Logger.Encoding {
	case "", "json", "console":
	default:
		return fmt.Errorf("invalid logger encoding: %s (must be json or console)", c.Logger.Encoding)
	}

	return nil
}

// RepositoryEnabled reports whether events from org/repo should be handled.
// An empty repository list enables every repository.
func (c *Config) RepositoryEnabled(org, repo string) bool {
	if len(c.Repositories) == 0 {
		return true
	}
	for _, r := range c.Repositories {
		if strings.EqualFold(r.Org, org) && strings.EqualFold(r.Repo, repo) {
			return r.Enabled
		}
	}
	return false
}

func loadRaw(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return parseRaw(data)
}

func parseRaw(data []byte) (*Config, error) {
	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return &cfg, nil
}

// applyDefaults sets default values for unset fields.
func (c *Config) applyDefaults() {
	if c.Workflow == "" {
		c.Workflow = "status-triage"
	}
	if c.BugLabel == "" {
		c.BugLabel = "bug"
	}
	if c.Logger.Level == "" {
		c.Logger.Level = "info"
	}
	if c.Logger.Encoding == "" {
		c.Logger.Encoding = "json"
	}
}

// mergeConfigs merges a child config onto a parent config.
// Non-zero values in child override parent.
func mergeConfigs(parent, child *Config) *Config {
	result := *parent
	result.Extends = child.Extends

	if child.Workflow != "" {
		result.Workflow = child.Workflow
	}
	if len(child.Steps) > 0 {
		result.Steps = child.Steps
	}
	if child.BugLabel != "" {
		result.BugLabel = child.BugLabel
	}

	// Bot users accumulate so a repo cannot un-ignore an org-wide bot.
	result.BotUsers = append(append([]string{}, parent.BotUsers...), child.BotUsers...)

	if child.DryRun {
		result.DryRun = true
	}

	if child.Logger.Level != "" {
		result.Logger.Level = child.Logger.Level
	}
	if child.Logger.Encoding != "" {
		result.Logger.Encoding = child.Logger.Encoding
	}

	// Repositories: child completely overrides if non-empty
	if len(child.Repositories) > 0 {
		result.Repositories = child.Repositories
	}

	return &result
}

// ParseExtendsRef parses "org/repo@branch" into components.
func ParseExtendsRef(ref string) (org, repo, branch, path string, err error) {
	// Format: org/repo@branch or org/repo@branch:path
	parts := strings.SplitN(ref, "@", 2)
	if len(parts) != 2 {
		return "", "", "", "", fmt.Errorf("invalid extends reference: %s (expected org/repo@branch)", ref)
	}

	orgRepo := strings.SplitN(parts[0], "/", 2)
	if len(orgRepo) != 2 {
		return "", "", "", "", fmt.Errorf("invalid extends reference: %s (expected org/repo)", ref)
	}

	org = orgRepo[0]
	repo = orgRepo[1]

	branchPath := strings.SplitN(parts[1], ":", 2)
	branch = branchPath[0]
	if len(branchPath) == 2 {
		path = branchPath[1]
	} else {
		path = ".github/carson.yaml"
	}

	return org, repo, branch, path, nil
}
