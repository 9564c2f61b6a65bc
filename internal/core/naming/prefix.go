package naming

import (
	"fmt"
	"strings"

	"github.com/nkuhn-vmw/mcp-server-deployment/internal/core/domain"
)

// Separator is the canonical separator inside a prefix.
const Separator = "_"

// ReservedTokens are leading prefix tokens the credential store refuses.
// GitHub rejects secret names beginning with GITHUB_.
var ReservedTokens = []string{"GITHUB"}

// Prefix is the reference namespace derived from an application name.
type Prefix struct {
	Upper string // e.g. "ORDERS_API", used for credential references
	Lower string // e.g. "orders_api", used for inputs, outputs and step ids
}

// =============================================================================
// Prefix Derivation
// =============================================================================

// DerivePrefix turns an application name into its reference prefix.
// Runs of separators (space, '-', '_', '.') collapse into a single '_';
// leading and trailing separators are dropped.
//
// Example:
//
//	DerivePrefix("orders-api")       // {ORDERS_API orders_api}
//	DerivePrefix(" MCP  Server.v2 ") // {MCP_SERVER_V2 mcp_server_v2}
func DerivePrefix(name string) Prefix {
	var b strings.Builder
	pending := false
	for _, r := range strings.TrimSpace(name) {
		if isSeparator(r) {
			pending = b.Len() > 0
			continue
		}
		if pending {
			b.WriteString(Separator)
			pending = false
		}
		b.WriteRune(r)
	}

	canonical := b.String()
	return Prefix{
		Upper: strings.ToUpper(canonical),
		Lower: strings.ToLower(canonical),
	}
}

func isSeparator(r rune) bool {
	return r == ' ' || r == '-' || r == '_' || r == '.' || r == '\t'
}

// Validate checks that an upper prefix can scope credential references.
func Validate(upper string) error {
	if reason := prefixProblem(upper); reason != "" {
		return &domain.NamingConflictError{Prefix: upper, Reason: reason}
	}
	return nil
}

func prefixProblem(upper string) string {
	if upper == "" {
		return "derives an empty prefix"
	}
	if c := upper[0]; c < 'A' || c > 'Z' {
		return "prefix must start with a letter"
	}
	for _, token := range ReservedTokens {
		if upper == token || strings.HasPrefix(upper, token+Separator) {
			return fmt.Sprintf("prefix begins with reserved token %s", token)
		}
	}
	return ""
}

// =============================================================================
// Application List Validation
// =============================================================================

// ValidateApps validates every application name, derives its prefix and
// rejects reserved or colliding identifiers. The returned prefixes are in
// application order.
func ValidateApps(apps []domain.AppDescriptor) ([]Prefix, error) {
	prefixes := make([]Prefix, 0, len(apps))
	byPrefix := make(map[string]string)
	owners := make(map[string]string)
	for _, ref := range SharedReferences() {
		owners[ref.Name] = "a shared credential reference"
	}

	for _, app := range apps {
		if err := domain.ValidateAppName(app.Name); err != nil {
			return nil, err
		}

		p := DerivePrefix(app.Name)
		if reason := prefixProblem(p.Upper); reason != "" {
			return nil, &domain.NamingConflictError{Name: app.Name, Prefix: p.Upper, Reason: reason}
		}
		if other, ok := byPrefix[p.Upper]; ok {
			return nil, &domain.NamingConflictError{
				Name:   app.Name,
				Prefix: p.Upper,
				Reason: fmt.Sprintf("same prefix as %q", other),
			}
		}
		byPrefix[p.Upper] = app.DisplayName()

		for _, id := range Identifiers(p) {
			if other, ok := owners[id]; ok {
				return nil, &domain.NamingConflictError{
					Name:   app.Name,
					Prefix: p.Upper,
					Reason: fmt.Sprintf("%s is already used by %s", id, other),
				}
			}
			owners[id] = fmt.Sprintf("%q", app.DisplayName())
		}

		prefixes = append(prefixes, p)
	}
	return prefixes, nil
}

// =============================================================================
// Workflow Identifiers
// =============================================================================

// TagInput returns the workflow input id carrying the release tag.
func TagInput(p Prefix) string { return p.Lower + "_tag" }

// DeployInput returns the workflow input id carrying the deploy flag.
func DeployInput(p Prefix) string { return "deploy_" + p.Lower }

// CheckStepID returns the id of the validate step publishing version outputs.
func CheckStepID(p Prefix) string { return "check_" + p.Lower }

// Job outputs published by the validate job for each application.
func OutputDeploy(p Prefix) string        { return p.Lower + "_deploy" }
func OutputReleaseTag(p Prefix) string    { return p.Lower + "_release_tag" }
func OutputVersion(p Prefix) string       { return p.Lower + "_version" }
func OutputVersionDotted(p Prefix) string { return p.Lower + "_version_dotted" }

// Identifiers returns every name derived from p that must be unique across
// the pipeline.
func Identifiers(p Prefix) []string {
	ids := []string{
		TagInput(p),
		DeployInput(p),
		CheckStepID(p),
		OutputDeploy(p),
		OutputReleaseTag(p),
		OutputVersion(p),
		OutputVersionDotted(p),
	}
	for _, suffix := range AppSuffixes() {
		ids = append(ids, AppRef(p, suffix))
	}
	return ids
}

// =============================================================================
// Document Naming
// =============================================================================

// DocumentName returns the workflow file name for an ordered application list.
// Pattern: deploy-{app1}-{app2}...yml
//
// Example:
//
//	DocumentName(apps) // "deploy-orders-api-billing.yml"
func DocumentName(apps []domain.AppDescriptor) string {
	parts := make([]string, 0, len(apps))
	for _, app := range apps {
		parts = append(parts, strings.ReplaceAll(DerivePrefix(app.Name).Lower, Separator, "-"))
	}
	return "deploy-" + strings.Join(parts, "-") + ".yml"
}

// MarkerPath returns the path, relative to the marker directory, of the file
// recording the last release tag deployed to env.
func MarkerPath(env domain.Environment, p Prefix) string {
	return env.Short + "/" + p.Lower
}
