package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/nkuhn-vmw/mcp-server-deployment/internal/core/domain"
	"github.com/nkuhn-vmw/mcp-server-deployment/internal/core/validation"
	"github.com/spf13/viper"
)

// =============================================================================
// Config Types
// =============================================================================

// Config holds all application configuration.
type Config struct {
	Log      LogConfig      `mapstructure:"log"`
	Output   OutputConfig   `mapstructure:"output"`
	Pipeline PipelineConfig `mapstructure:"pipeline"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// OutputConfig holds where generated workflows are written.
type OutputConfig struct {
	Dir string `mapstructure:"dir"`
}

// PipelineConfig describes the pipeline to generate.
type PipelineConfig struct {
	// Platform is "github" or "enterprise".
	Platform string `mapstructure:"platform"`

	// Host is the GitHub Enterprise hostname. Ignored for github.
	Host string `mapstructure:"host"`

	RunnerLabel string `mapstructure:"runner_label"`

	// SharedCredentials lists the pipeline-wide references among the
	// expected ones. Leave false when they already exist at organisation level.
	SharedCredentials bool `mapstructure:"shared_credentials"`

	Apps []AppConfig `mapstructure:"apps"`
}

// AppConfig describes one application. Env vars are given as a JSON object
// string because their key order is significant.
type AppConfig struct {
	Name            string `mapstructure:"name"`
	UpstreamRepo    string `mapstructure:"upstream_repo"`
	ManifestPath    string `mapstructure:"manifest_path"`
	ArtifactPattern string `mapstructure:"artifact_pattern"`
	EnvVarsJSON     string `mapstructure:"env_vars_json"`
	DeployType      string `mapstructure:"deploy_type"`
}

// PipelineSpec converts the pipeline section into a domain.PipelineSpec.
// Enumerations and reference values are checked here; naming and shape are
// validated by the generator.
func (c *Config) PipelineSpec() (domain.PipelineSpec, error) {
	platform, err := domain.ParsePlatform(c.Pipeline.Platform, c.Pipeline.Host)
	if err != nil {
		return domain.PipelineSpec{}, domain.NewFieldError("pipeline.platform", err.Error(), err)
	}

	apps := make([]domain.AppDescriptor, 0, len(c.Pipeline.Apps))
	for i, app := range c.Pipeline.Apps {
		deployType, err := domain.ParseDeployType(app.DeployType)
		if err != nil {
			return domain.PipelineSpec{}, domain.NewFieldError(fmt.Sprintf("pipeline.apps[%d].deploy_type", i), err.Error(), err)
		}
		descriptor := domain.AppDescriptor{
			Name:            app.Name,
			UpstreamRepo:    app.UpstreamRepo,
			ManifestPath:    app.ManifestPath,
			ArtifactPattern: app.ArtifactPattern,
			EnvVarsJSON:     app.EnvVarsJSON,
			DeployType:      deployType,
		}
		if field, msg := validation.ValidateAppFields(descriptor); field != "" {
			return domain.PipelineSpec{}, domain.NewFieldError(fmt.Sprintf("pipeline.apps[%d].%s", i, field), msg, domain.ErrIncompleteApp)
		}
		apps = append(apps, descriptor)
	}

	return domain.PipelineSpec{
		Apps:                      apps,
		Platform:                  platform,
		RunnerLabel:               c.Pipeline.RunnerLabel,
		SharedCredentialsIncluded: c.Pipeline.SharedCredentials,
	}, nil
}

// =============================================================================
// Config Loading
// =============================================================================

// LoadConfig loads configuration from file and environment.
func LoadConfig(configPath string) (*Config, error) {
	v := viper.New()

	// Set defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("output.dir", ".github/workflows")
	v.SetDefault("pipeline.platform", string(domain.PlatformGitHub))
	v.SetDefault("pipeline.host", "")
	v.SetDefault("pipeline.runner_label", domain.DefaultRunnerLabel)
	v.SetDefault("pipeline.shared_credentials", false)

	// Load from file if provided. The file carries the pipeline, so a
	// missing file is an error rather than a fallback to defaults.
	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigParseError); ok {
				return nil, fmt.Errorf("failed to parse config file: %w", err)
			}
			return nil, fmt.Errorf("failed to read config file %s: %w", configPath, err)
		}
	}

	// Enable environment variable overrides
	v.SetEnvPrefix("DEPLOYGEN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Unmarshal config
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// =============================================================================
// Logger Setup
// =============================================================================

// SetupLogger creates a logger with the configured level and format.
// Logs go to stderr; stdout carries command output.
func SetupLogger(cfg *Config) *slog.Logger {
	var level slog.Level
	switch strings.ToLower(cfg.Log.Level) {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn", "warning":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}

	var handler slog.Handler
	if strings.ToLower(cfg.Log.Format) == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}

	return slog.New(handler)
}
