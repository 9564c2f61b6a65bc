package domain

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

// =============================================================================
// Deploy Type
// =============================================================================

// DeployType selects how an application's release artifact is pushed.
type DeployType string

const (
	// DeployTypeFile pushes the downloaded artifact as-is (jar, war, binary).
	DeployTypeFile DeployType = "file"
	// DeployTypeArchive extracts the downloaded archive and pushes the directory.
	DeployTypeArchive DeployType = "archive"
)

// IsValid checks if the deploy type is valid.
func (dt DeployType) IsValid() bool {
	switch dt {
	case DeployTypeFile, DeployTypeArchive:
		return true
	default:
		return false
	}
}

// ParseDeployType parses a deploy type case-insensitively.
// An empty value selects DeployTypeFile.
func ParseDeployType(s string) (DeployType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", string(DeployTypeFile):
		return DeployTypeFile, nil
	case string(DeployTypeArchive):
		return DeployTypeArchive, nil
	default:
		return "", fmt.Errorf("%w: %q (expected file or archive)", ErrInvalidDeployType, s)
	}
}

// =============================================================================
// Application Descriptor
// =============================================================================

// AppDescriptor is the full configuration for one deployable application.
//
// UpstreamRepo, ManifestPath and ArtifactPattern are never written into the
// generated pipeline. The pipeline reads them from credential references
// named after the application's prefix, and the descriptor carries them so
// the surrounding tool knows what to store under each reference.
type AppDescriptor struct {
	Name            string     `json:"name"`
	UpstreamRepo    string     `json:"upstream_repo"`
	ManifestPath    string     `json:"manifest_path"`
	ArtifactPattern string     `json:"artifact_pattern"`
	EnvVarsJSON     string     `json:"env_vars_json,omitempty"`
	DeployType      DeployType `json:"deploy_type"`
}

var (
	appNameRegex = regexp.MustCompile(`^[A-Za-z0-9 ._-]+$`)
	envKeyRegex  = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)
)

// ValidateAppName checks that a name is usable both as a display name inside
// generated shell steps and as the source of a reference prefix.
func ValidateAppName(name string) error {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidAppName)
	}
	if !appNameRegex.MatchString(trimmed) {
		return fmt.Errorf("%w: %q may only contain letters, digits, spaces, '-', '_' and '.'", ErrInvalidAppName, name)
	}
	return nil
}

// DisplayName returns the trimmed application name.
func (a AppDescriptor) DisplayName() string {
	return strings.TrimSpace(a.Name)
}

// EnvVarKeys returns the keys of the application's env vars JSON object in
// document order. An empty value or an empty object yields no keys.
//
// The object is walked token by token so key order survives; values must be
// strings, numbers or booleans because they are applied one by one as
// runtime variables.
func (a AppDescriptor) EnvVarKeys() ([]string, error) {
	raw := strings.TrimSpace(a.EnvVarsJSON)
	if raw == "" {
		return nil, nil
	}
	if !json.Valid([]byte(raw)) {
		return nil, fmt.Errorf("%w: not valid JSON", ErrInvalidEnvVars)
	}

	dec := json.NewDecoder(strings.NewReader(raw))
	dec.UseNumber()
	if tok, err := dec.Token(); err != nil || tok != json.Delim('{') {
		return nil, fmt.Errorf("%w: must be a JSON object", ErrInvalidEnvVars)
	}

	var keys []string
	seen := make(map[string]bool)
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidEnvVars, err)
		}
		key, _ := tok.(string)
		if !envKeyRegex.MatchString(key) {
			return nil, fmt.Errorf("%w: %q is not a valid variable name", ErrInvalidEnvVars, key)
		}

		value, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidEnvVars, err)
		}
		switch value.(type) {
		case string, json.Number, bool:
		default:
			return nil, fmt.Errorf("%w: value of %q must be a string, number or boolean", ErrInvalidEnvVars, key)
		}

		if seen[key] {
			return nil, fmt.Errorf("%w: duplicate key %q", ErrInvalidEnvVars, key)
		}
		seen[key] = true
		keys = append(keys, key)
	}
	return keys, nil
}

// HasEnvVars reports whether the application sets at least one runtime variable.
// Invalid JSON reports false; PipelineSpec.Validate rejects it beforehand.
func (a AppDescriptor) HasEnvVars() bool {
	keys, err := a.EnvVarKeys()
	return err == nil && len(keys) > 0
}
