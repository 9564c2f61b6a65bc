package validation

import (
	"testing"

	"github.com/nkuhn-vmw/mcp-server-deployment/internal/core/domain"
	"github.com/stretchr/testify/assert"
)

func completeApp() domain.AppDescriptor {
	return domain.AppDescriptor{
		Name:            "orders-api",
		UpstreamRepo:    "acme/orders-api",
		ManifestPath:    "manifests/orders.yml",
		ArtifactPattern: "orders-api-{version}.jar",
		DeployType:      domain.DeployTypeFile,
	}
}

// =============================================================================
// ValidateAppFields Tests
// =============================================================================

func TestValidateAppFields_AllValid(t *testing.T) {
	field, msg := ValidateAppFields(completeApp())
	assert.Empty(t, field)
	assert.Empty(t, msg)
}

func TestValidateAppFields_Missing(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*domain.AppDescriptor)
		field  string
		msg    string
	}{
		{"name", func(a *domain.AppDescriptor) { a.Name = "  " }, "name", "name is required"},
		{"upstream repo", func(a *domain.AppDescriptor) { a.UpstreamRepo = "" }, "upstream_repo", "upstream_repo is required"},
		{"manifest path", func(a *domain.AppDescriptor) { a.ManifestPath = "" }, "manifest_path", "manifest_path is required"},
		{"artifact pattern", func(a *domain.AppDescriptor) { a.ArtifactPattern = "" }, "artifact_pattern", "artifact_pattern is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := completeApp()
			tt.mutate(&app)
			field, msg := ValidateAppFields(app)
			assert.Equal(t, tt.field, field)
			assert.Equal(t, tt.msg, msg)
		})
	}
}

func TestValidateAppFields_RepoForm(t *testing.T) {
	for _, repo := range []string{"orders-api", "acme/orders/api", "https://github.com/acme/orders-api", "acme/ orders"} {
		app := completeApp()
		app.UpstreamRepo = repo
		field, _ := ValidateAppFields(app)
		assert.Equal(t, "upstream_repo", field, repo)
	}
}

func TestValidateAppFields_ChecksInOrder(t *testing.T) {
	// When multiple fields are missing, first one is reported
	field, _ := ValidateAppFields(domain.AppDescriptor{})
	assert.Equal(t, "name", field, "should check name first")
}

// =============================================================================
// CheckArtifactPattern Tests
// =============================================================================

func TestCheckArtifactPattern(t *testing.T) {
	ok, reason := CheckArtifactPattern("app-{version}.jar")
	assert.True(t, ok)
	assert.Empty(t, reason)

	ok, reason = CheckArtifactPattern("app.jar")
	assert.False(t, ok)
	assert.Contains(t, reason, "{version}")
}
