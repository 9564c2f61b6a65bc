package domain

import (
	"fmt"
	"strings"
)

const (
	// MinApps is the smallest number of applications a pipeline can deploy.
	MinApps = 1
	// MaxApps is the largest number of applications a pipeline can deploy.
	MaxApps = 10

	// DefaultRunnerLabel is used when no runner label is configured.
	DefaultRunnerLabel = "ubuntu-latest"

	// GitHubCloudHost is the source platform host for github.com.
	GitHubCloudHost = "github.com"
)

// =============================================================================
// Platform
// =============================================================================

// PlatformKind identifies the source platform hosting the upstream releases.
type PlatformKind string

const (
	PlatformGitHub     PlatformKind = "github"
	PlatformEnterprise PlatformKind = "enterprise"
)

// Platform is the source platform the pipeline authenticates against.
type Platform struct {
	Kind PlatformKind `json:"kind"`
	Host string       `json:"host,omitempty"`
}

// GitHubCloud returns the github.com platform.
func GitHubCloud() Platform {
	return Platform{Kind: PlatformGitHub}
}

// Enterprise returns a GitHub Enterprise Server platform on the given host.
func Enterprise(host string) Platform {
	return Platform{Kind: PlatformEnterprise, Host: host}
}

// ParsePlatform parses a platform kind case-insensitively.
// An empty kind selects github.com.
func ParsePlatform(kind, host string) (Platform, error) {
	var p Platform
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case "", string(PlatformGitHub):
		p = GitHubCloud()
	case string(PlatformEnterprise):
		p = Enterprise(strings.TrimSpace(host))
	default:
		return Platform{}, fmt.Errorf("%w: %q (expected github or enterprise)", ErrInvalidPlatform, kind)
	}
	if err := p.Validate(); err != nil {
		return Platform{}, err
	}
	return p, nil
}

// Validate checks that an enterprise platform names its host.
func (p Platform) Validate() error {
	switch p.Kind {
	case PlatformGitHub:
		return nil
	case PlatformEnterprise:
		if p.Host == "" {
			return fmt.Errorf("%w: enterprise platform requires a host", ErrInvalidPlatform)
		}
		if strings.ContainsAny(p.Host, " /\t\"'") {
			return fmt.Errorf("%w: host %q must be a bare hostname", ErrInvalidPlatform, p.Host)
		}
		return nil
	default:
		return fmt.Errorf("%w: unknown kind %q", ErrInvalidPlatform, p.Kind)
	}
}

// Hostname returns the host the gh CLI authenticates against.
func (p Platform) Hostname() string {
	if p.Kind == PlatformEnterprise {
		return p.Host
	}
	return GitHubCloudHost
}

// DisplayName returns a human-readable platform name for step titles.
func (p Platform) DisplayName() string {
	if p.Kind == PlatformEnterprise {
		return "GitHub Enterprise"
	}
	return "GitHub"
}

// =============================================================================
// Environments
// =============================================================================

// Environment is one stage of the promotion policy.
type Environment struct {
	Short string // job and marker directory suffix, e.g. "nonprod"
	Upper string // credential reference infix, e.g. "NONPROD"
	Label string // display label, e.g. "Non-Production"
}

var (
	Nonprod = Environment{Short: "nonprod", Upper: "NONPROD", Label: "Non-Production"}
	Prod    = Environment{Short: "prod", Upper: "PROD", Label: "Production"}
)

// Environments returns the promotion order.
func Environments() []Environment {
	return []Environment{Nonprod, Prod}
}

// =============================================================================
// Pipeline Spec
// =============================================================================

// PipelineSpec is the fully collected input of one generation run.
// The order of Apps fixes step order in every job and the document name.
type PipelineSpec struct {
	Apps                      []AppDescriptor `json:"apps"`
	Platform                  Platform        `json:"platform"`
	RunnerLabel               string          `json:"runner_label,omitempty"`
	SharedCredentialsIncluded bool            `json:"shared_credentials_included"`
}

// Runner returns the configured runner label or DefaultRunnerLabel.
func (s PipelineSpec) Runner() string {
	if label := strings.TrimSpace(s.RunnerLabel); label != "" {
		return label
	}
	return DefaultRunnerLabel
}

// Validate checks cardinality, platform and every application's own fields.
// Cross-application naming rules live in the naming package.
func (s PipelineSpec) Validate() error {
	if len(s.Apps) < MinApps || len(s.Apps) > MaxApps {
		return &InvalidCardinalityError{Count: len(s.Apps)}
	}
	if err := s.Platform.Validate(); err != nil {
		return NewFieldError("platform", err.Error(), err)
	}

	for i, app := range s.Apps {
		field := fmt.Sprintf("apps[%d]", i)
		if err := ValidateAppName(app.Name); err != nil {
			return NewFieldError(field+".name", err.Error(), err)
		}
		if !app.DeployType.IsValid() {
			err := fmt.Errorf("%w: %q", ErrInvalidDeployType, app.DeployType)
			return NewFieldError(field+".deploy_type", err.Error(), err)
		}
		if _, err := app.EnvVarKeys(); err != nil {
			return NewFieldError(field+".env_vars_json", err.Error(), err)
		}
	}
	return nil
}
