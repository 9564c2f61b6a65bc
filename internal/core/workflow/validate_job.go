package workflow

import (
	"github.com/nkuhn-vmw/mcp-server-deployment/internal/core/domain"
	"github.com/nkuhn-vmw/mcp-server-deployment/internal/core/naming"
	"github.com/nkuhn-vmw/mcp-server-deployment/internal/core/version"
)

// Step outputs published by the release check.
const (
	OutputReleaseTag    = "releaseTag"
	OutputVersion       = "version"
	OutputVersionDotted = "versionDotted"
	OutputDeploy        = "deploy"
)

// =============================================================================
// Validate Job
// =============================================================================

// ValidateJob emits the job confirming every selected release exists.
//
// For each application, in order: an authenticate step, then a release check
// gated by the application's deploy input. The check fails the job when the
// tag is missing upstream, which stops the run before any deploy job starts.
// Otherwise it publishes the tag, both version forms and the deploy flag.
func ValidateJob(plan *Plan) (Job, error) {
	job := Job{
		ID:     JobValidate,
		Name:   "Validate release tags",
		RunsOn: plan.Spec.Runner(),
	}

	templates := []Step{
		authStep(plan.Spec.Platform, appNameToken),
		releaseCheckStep(),
	}
	for _, app := range plan.Apps {
		steps, err := renderSteps(templates, app.Context(domain.Environment{}))
		if err != nil {
			return Job{}, err
		}
		job.Steps = append(job.Steps, steps...)
		job.Outputs = append(job.Outputs, validateOutputs(app.Prefix)...)
	}
	return job, nil
}

// validateOutputs maps the check step outputs to job outputs. The deploy
// output falls back to 'false' when the check step was skipped.
func validateOutputs(p naming.Prefix) Pairs {
	stepOutput := func(name string) string {
		return "steps." + naming.CheckStepID(p) + ".outputs." + name
	}
	return Pairs{
		{Key: naming.OutputDeploy(p), Value: expr(stepOutput(OutputDeploy) + " || 'false'")},
		{Key: naming.OutputReleaseTag(p), Value: expr(stepOutput(OutputReleaseTag))},
		{Key: naming.OutputVersion(p), Value: expr(stepOutput(OutputVersion))},
		{Key: naming.OutputVersionDotted(p), Value: expr(stepOutput(OutputVersionDotted))},
	}
}

func releaseCheckStep() Step {
	return Step{
		Name: "Check " + appNameToken + " release tag",
		ID:   naming.CheckStepID(appTokens),
		If:   "inputs." + naming.DeployInput(appTokens) + " == true",
		Env: Pairs{
			{Key: "TAG", Value: input(naming.TagInput(appTokens))},
			{Key: "REPO", Value: secret(naming.AppRef(appTokens, naming.SuffixUpstreamRepo))},
		},
		Run: script(
			`if [ -z "$TAG" ]; then`,
			`  echo "::error::`+appNameToken+` is selected for deployment but no release tag was given"`,
			`  exit 1`,
			`fi`,
			`if ! gh release view "$TAG" --repo "$REPO" > /dev/null; then`,
			`  echo "::error::Release $TAG not found in the `+appNameToken+` upstream repository"`,
			`  exit 1`,
			`fi`,
			`VERSION_DOTTED="`+version.ShellDotted+`"`,
			`VERSION="`+version.ShellNumeric+`"`,
			`{`,
			`  echo "`+OutputReleaseTag+`=$TAG"`,
			`  echo "`+OutputVersion+`=$VERSION"`,
			`  echo "`+OutputVersionDotted+`=$VERSION_DOTTED"`,
			`  echo "`+OutputDeploy+`=true"`,
			`} >> "$GITHUB_OUTPUT"`,
		),
	}
}
