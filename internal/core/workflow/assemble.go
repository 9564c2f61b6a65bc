package workflow

import (
	"strings"
	"time"

	"github.com/nkuhn-vmw/mcp-server-deployment/internal/core/domain"
	"github.com/nkuhn-vmw/mcp-server-deployment/internal/core/naming"
)

// DateCommentPrefix starts the single comment line that varies between
// generations of the same spec.
const DateCommentPrefix = "# Generated by deploygen on "

// Options holds the inputs of Generate that are not part of the PipelineSpec.
type Options struct {
	// GeneratedAt is written to the date comment. It is the only value that
	// changes the output of two generations of the same spec.
	GeneratedAt time.Time
}

// Result is one generated workflow.
type Result struct {
	// Name is the workflow file name derived from the ordered app names.
	Name string
	// Content is the rendered document.
	Content []byte
	// References lists the credential references the workflow expects.
	References []naming.Reference
	// Document is the structured form of Content.
	Document *Document
}

// =============================================================================
// Generation
// =============================================================================

// Generate validates spec and produces the workflow document and its expected
// references. On error nothing is returned: there is no partial document.
func Generate(spec domain.PipelineSpec, opts Options) (*Result, error) {
	plan, err := NewPlan(spec)
	if err != nil {
		return nil, err
	}
	doc, err := Assemble(plan, opts)
	if err != nil {
		return nil, err
	}
	content, err := doc.Marshal()
	if err != nil {
		return nil, err
	}
	return &Result{
		Name:       naming.DocumentName(spec.Apps),
		Content:    content,
		References: naming.References(spec),
		Document:   doc,
	}, nil
}

// Assemble composes the document sections in their fixed order: header,
// inputs, permissions and runtime config, then the validate, non-production
// deploy, notify and production deploy jobs.
func Assemble(plan *Plan, opts Options) (*Document, error) {
	validate, err := ValidateJob(plan)
	if err != nil {
		return nil, err
	}
	nonprod, err := DeployJob(plan, domain.Nonprod)
	if err != nil {
		return nil, err
	}
	notify, err := NotifyJob(plan)
	if err != nil {
		return nil, err
	}
	prod, err := DeployJob(plan, domain.Prod)
	if err != nil {
		return nil, err
	}

	name := naming.DocumentName(plan.Spec.Apps)
	return &Document{
		Comments: []string{
			strings.TrimPrefix(DateCommentPrefix, "# ") + opts.GeneratedAt.UTC().Format("2006-01-02"),
			"Do not edit by hand; regenerate with `deploygen generate`.",
		},
		Name:   "Deploy " + strings.Join(appNames(plan), ", "),
		Inputs: Inputs(plan),
		Permissions: Pairs{
			{Key: "contents", Value: "write"},
			{Key: "issues", Value: "write"},
		},
		Env: Pairs{
			{Key: "GH_HOST", Value: plan.Spec.Platform.Hostname()},
			{Key: "MARKER_DIR", Value: MarkerDir},
		},
		Concurrency: Concurrency{Group: strings.TrimSuffix(name, ".yml")},
		Jobs:        []Job{validate, nonprod, notify, prod},
	}, nil
}

// Inputs returns the dispatch inputs: per application, its release tag then
// its deploy flag.
func Inputs(plan *Plan) []Input {
	inputs := make([]Input, 0, 2*len(plan.Apps))
	for _, app := range plan.Apps {
		inputs = append(inputs,
			Input{
				ID:          naming.TagInput(app.Prefix),
				Description: "Release tag of " + app.Name() + " to deploy (e.g. v1.2.3)",
				Type:        InputString,
			},
			Input{
				ID:          naming.DeployInput(app.Prefix),
				Description: "Deploy " + app.Name(),
				Type:        InputBoolean,
				Default:     "false",
			},
		)
	}
	return inputs
}

func appNames(plan *Plan) []string {
	names := make([]string, 0, len(plan.Apps))
	for _, app := range plan.Apps {
		names = append(names, app.Name())
	}
	return names
}
