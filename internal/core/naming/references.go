package naming

import "github.com/nkuhn-vmw/mcp-server-deployment/internal/core/domain"

// Per-application reference suffixes.
const (
	SuffixUpstreamRepo    = "UPSTREAM_REPO"
	SuffixName            = "NAME"
	SuffixManifestPath    = "MANIFEST_PATH"
	SuffixArtifactPattern = "ARTIFACT_PATTERN"
	SuffixCFEnvJSON       = "CF_ENV_JSON"
)

// Shared reference names.
const (
	RefUpstreamToken = "UPSTREAM_TOKEN"
	RefReviewers     = "PROD_REVIEWERS"
)

// CF target fields, one reference per field and environment.
const (
	CFFieldAPI      = "API"
	CFFieldUsername = "USERNAME"
	CFFieldPassword = "PASSWORD"
	CFFieldOrg      = "ORG"
	CFFieldSpace    = "SPACE"
)

// ScopeShared is the Reference scope of pipeline-wide references.
const ScopeShared = "shared"

// Reference is one external credential reference the generated pipeline reads.
// The generator never populates references; Value carries what the
// surrounding tool would store, and is empty for shared references.
type Reference struct {
	Name        string
	Scope       string
	Optional    bool
	Description string
	Value       string
}

// AppSuffixes returns the per-application suffixes in reference order.
func AppSuffixes() []string {
	return []string{SuffixUpstreamRepo, SuffixName, SuffixManifestPath, SuffixArtifactPattern, SuffixCFEnvJSON}
}

// AppRef returns the reference name for an application field.
// Pattern: {PREFIX}_{SUFFIX}
func AppRef(p Prefix, suffix string) string {
	return p.Upper + Separator + suffix
}

// CFRef returns the reference name of a CF target field for env.
// Pattern: CF_{ENV}_{FIELD}
func CFRef(env domain.Environment, field string) string {
	return "CF_" + env.Upper + Separator + field
}

// CFFields returns the CF target fields in login order.
func CFFields() []string {
	return []string{CFFieldAPI, CFFieldUsername, CFFieldPassword, CFFieldOrg, CFFieldSpace}
}

// SharedReferences returns the pipeline-wide references in a stable order.
func SharedReferences() []Reference {
	refs := []Reference{{
		Name:        RefUpstreamToken,
		Scope:       ScopeShared,
		Description: "Token authenticating to the source platform",
	}}
	for _, env := range domain.Environments() {
		for _, field := range CFFields() {
			refs = append(refs, Reference{
				Name:        CFRef(env, field),
				Scope:       ScopeShared,
				Description: "CF " + env.Label + " target " + field,
			})
		}
	}
	return append(refs, Reference{
		Name:        RefReviewers,
		Scope:       ScopeShared,
		Description: "Comma-separated production reviewers to notify",
	})
}

// AppReferences returns the references scoped to one application.
// The env JSON reference is listed only when the application sets env vars.
func AppReferences(app domain.AppDescriptor) []Reference {
	p := DerivePrefix(app.Name)
	scope := app.DisplayName()
	refs := []Reference{
		{Name: AppRef(p, SuffixUpstreamRepo), Scope: scope, Description: "Upstream repository publishing releases", Value: app.UpstreamRepo},
		{Name: AppRef(p, SuffixName), Scope: scope, Description: "Base application name on the CF target", Value: app.DisplayName()},
		{Name: AppRef(p, SuffixManifestPath), Scope: scope, Description: "Path of the CF manifest in this repository", Value: app.ManifestPath},
		{Name: AppRef(p, SuffixArtifactPattern), Scope: scope, Description: "Release asset pattern; {version} is replaced by the dotted version", Value: app.ArtifactPattern},
	}
	if app.HasEnvVars() {
		refs = append(refs, Reference{
			Name:        AppRef(p, SuffixCFEnvJSON),
			Scope:       scope,
			Optional:    true,
			Description: "JSON object of runtime variables",
			Value:       app.EnvVarsJSON,
		})
	}
	return refs
}

// References returns every reference the pipeline generated from spec expects.
// Shared references are listed only when SharedCredentialsIncluded is set; otherwise
// they are assumed to exist at organisation level.
func References(spec domain.PipelineSpec) []Reference {
	var refs []Reference
	for _, app := range spec.Apps {
		refs = append(refs, AppReferences(app)...)
	}
	if spec.SharedCredentialsIncluded {
		refs = append(refs, SharedReferences()...)
	}
	return refs
}
