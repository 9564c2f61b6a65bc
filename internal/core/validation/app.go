package validation

import (
	"regexp"
	"strings"

	"github.com/nkuhn-vmw/mcp-server-deployment/internal/core/domain"
	"github.com/nkuhn-vmw/mcp-server-deployment/internal/core/version"
)

var repoRegex = regexp.MustCompile(`^[A-Za-z0-9_.-]+/[A-Za-z0-9_.-]+$`)

// =============================================================================
// Application Field Validation
// =============================================================================

// ValidateAppFields validates the fields of app that become reference values.
// Returns the field name and error message if validation fails.
// Returns empty strings if all fields are valid.
//
// Example:
//
//	field, msg := ValidateAppFields(domain.AppDescriptor{Name: "api"})
//	// field == "upstream_repo", msg == "upstream_repo is required"
func ValidateAppFields(app domain.AppDescriptor) (field, message string) {
	if strings.TrimSpace(app.Name) == "" {
		return "name", "name is required"
	}
	repo := strings.TrimSpace(app.UpstreamRepo)
	if repo == "" {
		return "upstream_repo", "upstream_repo is required"
	}
	if !repoRegex.MatchString(repo) {
		return "upstream_repo", "upstream_repo must have the form owner/repository"
	}
	if strings.TrimSpace(app.ManifestPath) == "" {
		return "manifest_path", "manifest_path is required"
	}
	if strings.TrimSpace(app.ArtifactPattern) == "" {
		return "artifact_pattern", "artifact_pattern is required"
	}
	return "", ""
}

// CheckArtifactPattern reports whether pattern contains the version
// placeholder. A pattern without it matches the same asset name in every
// release, which is allowed but usually a mistake.
//
// Example:
//
//	ok, reason := CheckArtifactPattern("app.jar")
//	if !ok {
//	    // Warn with reason
//	}
func CheckArtifactPattern(pattern string) (ok bool, reason string) {
	if !strings.Contains(pattern, version.PatternPlaceholder) {
		return false, "artifact_pattern has no " + version.PatternPlaceholder + " placeholder; every release must publish the same asset name"
	}
	return true, ""
}
