// Package config loads application configuration from environment variables,
// an optional YAML file, and command-line flags.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/ericfisherdev/dailytracker/internal/domain/model"
	"github.com/ericfisherdev/dailytracker/internal/retry"
)

// ErrMissing is returned when required identifiers or credentials are absent.
var ErrMissing = errors.New("missing required configuration")

// EnvPrefix prefixes every environment variable read by Load.
const EnvPrefix = "DAILYTRACKER"

// Config holds the application configuration. It is built once by the
// composition root and passed down; no other package reads the environment.
type Config struct {
	GitHubToken     string
	Repository      model.Repository
	AnthropicAPIKey string
	Model           string
	MaxTokens       int64

	// AutomationLogin, when set, is accepted as the author of confirmation
	// requests in addition to any Bot account.
	AutomationLogin string

	LogLevel slog.Level

	ReadRetry     retry.Policy
	WriteRetry    retry.Policy
	GenerateRetry retry.Policy

	MaxIssues       int
	MaxPullRequests int
	StaleAfterDays  int

	// Date overrides the tracking date. Zero means the current UTC date.
	Date time.Time

	TelemetryEnabled bool

	// GitHub Actions context.
	GitHubActions    bool
	GitHubOutputPath string
}

// Today returns the tracking date: the override if set, else now in UTC.
func (c *Config) Today(now time.Time) time.Time {
	if !c.Date.IsZero() {
		return c.Date
	}
	return now.UTC()
}

// Load reads configuration and returns a validated Config.
// Sources, highest precedence first: flags, DAILYTRACKER_* environment
// variables, the GitHub Actions variables GITHUB_TOKEN, GITHUB_REPOSITORY and
// ANTHROPIC_API_KEY, the YAML file at configFile (optional), defaults.
// Required: GitHub token, repository (owner/repo), Anthropic API key.
func Load(configFile string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	v.SetDefault("model", "claude-sonnet-4-5")
	v.SetDefault("max_tokens", 2048)
	v.SetDefault("log_level", "info")
	v.SetDefault("read_attempts", 3)
	v.SetDefault("read_delay", "2s")
	v.SetDefault("write_attempts", 3)
	v.SetDefault("write_delay", "2s")
	v.SetDefault("generate_attempts", 3)
	v.SetDefault("generate_delay", "10s")
	v.SetDefault("max_issues", 100)
	v.SetDefault("max_pull_requests", 50)
	v.SetDefault("stale_after_days", 7)

	bindings := map[string][]string{
		"github_token":      {envName("github_token"), "GITHUB_TOKEN"},
		"repository":        {envName("repository"), "GITHUB_REPOSITORY"},
		"anthropic_api_key": {envName("anthropic_api_key"), "ANTHROPIC_API_KEY"},
		"github_actions":    {"GITHUB_ACTIONS"},
		"github_output":     {"GITHUB_OUTPUT"},
	}
	for key, envs := range bindings {
		if err := v.BindEnv(append([]string{key}, envs...)...); err != nil {
			return nil, fmt.Errorf("binding %s: %w", key, err)
		}
	}

	if configFile != "" {
		v.SetConfigFile(configFile)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config file %s: %w", configFile, err)
		}
	}

	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return nil, fmt.Errorf("binding flags: %w", err)
		}
	}

	cfg := &Config{
		GitHubToken:      strings.TrimSpace(v.GetString("github_token")),
		AnthropicAPIKey:  strings.TrimSpace(v.GetString("anthropic_api_key")),
		Model:            v.GetString("model"),
		AutomationLogin:  strings.TrimSpace(v.GetString("automation_login")),
		TelemetryEnabled: v.GetBool("otel_enabled"),
		GitHubActions:    v.GetString("github_actions") == "true",
		GitHubOutputPath: v.GetString("github_output"),
	}

	var missing []string
	if cfg.GitHubToken == "" {
		missing = append(missing, envName("github_token")+" (or GITHUB_TOKEN)")
	}
	repoName := strings.TrimSpace(v.GetString("repository"))
	if repoName == "" {
		missing = append(missing, envName("repository")+" (or GITHUB_REPOSITORY)")
	}
	if cfg.AnthropicAPIKey == "" {
		missing = append(missing, envName("anthropic_api_key")+" (or ANTHROPIC_API_KEY)")
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissing, strings.Join(missing, ", "))
	}

	repo, err := splitRepo(repoName)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", envName("repository"), err)
	}
	cfg.Repository = repo

	if err := cfg.LogLevel.UnmarshalText([]byte(v.GetString("log_level"))); err != nil {
		return nil, fmt.Errorf("%s has invalid level %q: %w", envName("log_level"), v.GetString("log_level"), err)
	}

	maxTokens, err := positiveInt(v, "max_tokens")
	if err != nil {
		return nil, err
	}
	cfg.MaxTokens = int64(maxTokens)

	if cfg.ReadRetry, err = policy(v, "read"); err != nil {
		return nil, err
	}
	if cfg.WriteRetry, err = policy(v, "write"); err != nil {
		return nil, err
	}
	if cfg.GenerateRetry, err = policy(v, "generate"); err != nil {
		return nil, err
	}

	if cfg.MaxIssues, err = positiveInt(v, "max_issues"); err != nil {
		return nil, err
	}
	if cfg.MaxPullRequests, err = positiveInt(v, "max_pull_requests"); err != nil {
		return nil, err
	}
	if cfg.StaleAfterDays, err = positiveInt(v, "stale_after_days"); err != nil {
		return nil, err
	}

	if d := strings.TrimSpace(v.GetString("date")); d != "" {
		parsed, err := time.ParseInLocation("2006-01-02", d, time.UTC)
		if err != nil {
			return nil, fmt.Errorf("%s has invalid date %q (want YYYY-MM-DD): %w", envName("date"), d, err)
		}
		cfg.Date = parsed
	}

	return cfg, nil
}

// policy reads <prefix>_attempts and <prefix>_delay into a retry.Policy.
func policy(v *viper.Viper, prefix string) (retry.Policy, error) {
	attempts, err := positiveInt(v, prefix+"_attempts")
	if err != nil {
		return retry.Policy{}, err
	}

	key := prefix + "_delay"
	raw := v.GetString(key)
	delay, err := time.ParseDuration(raw)
	if err != nil {
		return retry.Policy{}, fmt.Errorf("%s has invalid duration %q: %w", envName(key), raw, err)
	}
	if delay < 0 {
		return retry.Policy{}, fmt.Errorf("%s must not be negative, got %s", envName(key), delay)
	}

	return retry.Policy{Attempts: attempts, Delay: delay}, nil
}

func positiveInt(v *viper.Viper, key string) (int, error) {
	raw := v.GetString(key)
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("%s has invalid number %q: %w", envName(key), raw, err)
	}
	if n < 1 {
		return 0, fmt.Errorf("%s must be at least 1, got %d", envName(key), n)
	}
	return n, nil
}

func envName(key string) string {
	return EnvPrefix + "_" + strings.ToUpper(key)
}

// splitRepo splits a "owner/repo" string into its two components.
func splitRepo(fullName string) (model.Repository, error) {
	parts := strings.SplitN(fullName, "/", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" || strings.Contains(parts[1], "/") {
		return model.Repository{}, fmt.Errorf("invalid repo name %q: expected owner/repo", fullName)
	}
	return model.Repository{Owner: parts[0], Name: parts[1]}, nil
}
