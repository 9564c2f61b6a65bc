package workflow

import (
	"github.com/nkuhn-vmw/mcp-server-deployment/internal/core/domain"
	"github.com/nkuhn-vmw/mcp-server-deployment/internal/core/naming"
)

// NotifyJob emits the job asking production reviewers for approval.
//
// It runs once after the non-production deploy. The notification is best
// effort: the step continues on error and a failed call only logs a warning,
// so it never blocks the production job.
func NotifyJob(plan *Plan) (Job, error) {
	deployVar := "$" + appTokens.Upper + "_DEPLOY"
	tagVar := "$" + appTokens.Upper + "_TAG"

	head := Step{
		Name:            "Notify production reviewers",
		ContinueOnError: true,
		Env: Pairs{
			{Key: "GH_TOKEN", Value: expr("github.token")},
			{Key: "GH_REPO", Value: expr("github.repository")},
			{Key: "REVIEWERS", Value: secret(naming.RefReviewers)},
			{Key: "RUN_URL", Value: expr("github.server_url") + "/" + expr("github.repository") + "/actions/runs/" + expr("github.run_id")},
		},
		Run: script(`APPS=""`),
	}
	block := Step{
		Env: Pairs{
			{Key: appTokens.Upper + "_DEPLOY", Value: validateOutput(naming.OutputDeploy(appTokens))},
			{Key: appTokens.Upper + "_TAG", Value: validateOutput(naming.OutputReleaseTag(appTokens))},
		},
		Run: script(
			`if [ "`+deployVar+`" = "true" ]; then`,
			`  APPS="$APPS, `+appNameToken+`(`+tagVar+`)"`,
			`fi`,
		),
	}
	tail := script(
		`APPS="${APPS#, }"`,
		`if [ -z "$APPS" ]; then`,
		`  echo "No applications selected; skipping notification"`,
		`  exit 0`,
		`fi`,
		`MENTIONS=""`,
		`IFS=',' read -ra NAMES <<< "$REVIEWERS"`,
		`for NAME in "${NAMES[@]}"; do`,
		`  NAME="$(echo "$NAME" | xargs)"`,
		`  if [ -n "$NAME" ]; then`,
		`    MENTIONS="$MENTIONS @${NAME#@}"`,
		`  fi`,
		`done`,
		`BODY="Deployed to `+envTokens.Label+`: $APPS. The `+domain.Prod.Label+` deployment is waiting for approval: $RUN_URL${MENTIONS:+ Reviewers:$MENTIONS}"`,
		`if ! gh issue create --title "`+domain.Prod.Label+` approval requested: $APPS" --body "$BODY"; then`,
		`  echo "::warning::Could not notify reviewers; approve the `+domain.Prod.Label+` deployment at $RUN_URL"`,
		`fi`,
	)

	step, err := perAppStep(plan, domain.Nonprod, head, block, tail)
	if err != nil {
		return Job{}, err
	}
	return Job{
		ID:     JobNotify,
		Name:   "Request " + domain.Prod.Label + " approval",
		Needs:  []string{JobValidate, DeployJobID(domain.Nonprod)},
		RunsOn: plan.Spec.Runner(),
		Steps:  []Step{step},
	}, nil
}
