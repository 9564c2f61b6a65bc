package workflow

import (
	"strings"

	"github.com/nkuhn-vmw/mcp-server-deployment/internal/core/domain"
	"github.com/nkuhn-vmw/mcp-server-deployment/internal/core/naming"
	"github.com/nkuhn-vmw/mcp-server-deployment/internal/core/version"
)

// ManifestFile is the name the application manifest is copied to.
const ManifestFile = "manifest.yml"

// ExtractDir is the archive extraction directory inside an app's work dir.
const ExtractDir = "extracted"

// =============================================================================
// Deploy Job
// =============================================================================

// DeployJob emits the deploy job for env.
//
// After shared setup (checkout, authentication, CF CLI, CF login) every
// application selected for deployment gets its strategy's steps, in
// application order. A trailing step records a version marker per deployed
// application and commits them all together.
func DeployJob(plan *Plan, env domain.Environment) (Job, error) {
	job := Job{
		ID:          DeployJobID(env),
		Name:        "Deploy to " + env.Label,
		Needs:       deployNeeds(env),
		RunsOn:      plan.Spec.Runner(),
		Environment: env.Short,
	}

	setup, err := renderSteps([]Step{
		checkoutStep(),
		authStep(plan.Spec.Platform, ""),
		installCFStep(),
		cfLoginStep(),
	}, envContext(env))
	if err != nil {
		return Job{}, err
	}
	job.Steps = append(job.Steps, setup...)

	for _, app := range plan.Apps {
		steps, err := renderSteps(appDeploySteps(app), app.Context(env))
		if err != nil {
			return Job{}, err
		}
		job.Steps = append(job.Steps, steps...)
	}

	record, err := recordStep(plan, env)
	if err != nil {
		return Job{}, err
	}
	job.Steps = append(job.Steps, record)
	return job, nil
}

// deployNeeds returns the jobs env's deploy job waits for. Production waits
// for the non-production deploy as well as validation.
func deployNeeds(env domain.Environment) []string {
	if env == domain.Prod {
		return []string{JobValidate, DeployJobID(domain.Nonprod)}
	}
	return []string{JobValidate}
}

// =============================================================================
// Per-Application Steps
// =============================================================================

// appDeploySteps returns the step templates deploying one application.
//
// File:    download -> manifest -> push
// Archive: download -> extract -> manifest (into extracted root) -> push directory
//
// With env vars the push does not start the app; one set-env step per key
// and a start step follow.
func appDeploySteps(app App) []Step {
	workDir := "deploy/" + appTokens.Lower
	pushDir := workDir

	steps := []Step{downloadStep(workDir)}
	if app.Descriptor.DeployType == domain.DeployTypeArchive {
		pushDir = workDir + "/" + ExtractDir
		steps = append(steps, extractStep(workDir))
	}
	steps = append(steps, manifestStep(pushDir))

	noStart := len(app.EnvKeys) > 0
	steps = append(steps, pushStep(app.Descriptor.DeployType, workDir, noStart))
	if noStart {
		for _, key := range app.EnvKeys {
			steps = append(steps, setEnvStep(key))
		}
		steps = append(steps, startStep())
	}

	condition := deployCondition(appTokens)
	for i := range steps {
		steps[i].If = condition
	}
	return steps
}

// shellPlaceholder is the artifact pattern placeholder escaped for bash
// pattern substitution.
var shellPlaceholder = strings.NewReplacer("{", `\{`, "}", `\}`).Replace(version.PatternPlaceholder)

// instanceEnv names the deployed instance: base name plus numeric version.
func instanceEnv() Pair {
	return Pair{
		Key: "INSTANCE",
		Value: secret(naming.AppRef(appTokens, naming.SuffixName)) + "-" +
			validateOutput(naming.OutputVersion(appTokens)),
	}
}

func downloadStep(workDir string) Step {
	return Step{
		Name: "Download " + appNameToken + " artifact (" + envTokens.Label + ")",
		Env: Pairs{
			{Key: "TAG", Value: validateOutput(naming.OutputReleaseTag(appTokens))},
			{Key: "VERSION_DOTTED", Value: validateOutput(naming.OutputVersionDotted(appTokens))},
			{Key: "REPO", Value: secret(naming.AppRef(appTokens, naming.SuffixUpstreamRepo))},
			{Key: "ARTIFACT_PATTERN", Value: secret(naming.AppRef(appTokens, naming.SuffixArtifactPattern))},
		},
		Run: script(
			`rm -rf "`+workDir+`"`,
			`mkdir -p "`+workDir+`"`,
			`ASSET="${ARTIFACT_PATTERN//`+shellPlaceholder+`/$VERSION_DOTTED}"`,
			`gh release download "$TAG" --repo "$REPO" --pattern "$ASSET" --dir "`+workDir+`"`,
			`COUNT="$(find "`+workDir+`" -maxdepth 1 -type f | wc -l)"`,
			`if [ "$COUNT" -ne 1 ]; then`,
			`  echo "::error::Expected exactly one asset matching $ASSET in $REPO@$TAG, found $COUNT"`,
			`  exit 1`,
			`fi`,
		),
	}
}

func extractStep(workDir string) Step {
	return Step{
		Name: "Extract " + appNameToken + " archive (" + envTokens.Label + ")",
		Run: script(
			`cd "`+workDir+`"`,
			`ARCHIVE="$(find . -maxdepth 1 -type f | head -n 1)"`,
			`mkdir -p `+ExtractDir,
			`case "$ARCHIVE" in`,
			`  *.zip)`,
			`    unzip -q "$ARCHIVE" -d `+ExtractDir,
			`    ;;`,
			`  *.tar.gz|*.tgz)`,
			`    tar -xzf "$ARCHIVE" -C `+ExtractDir,
			`    ;;`,
			`  *)`,
			`    echo "::error::Unsupported archive format: $ARCHIVE (expected .zip, .tar.gz or .tgz)"`,
			`    exit 1`,
			`    ;;`,
			`esac`,
		),
	}
}

func manifestStep(pushDir string) Step {
	return Step{
		Name: "Place " + appNameToken + " manifest (" + envTokens.Label + ")",
		Env: Pairs{
			{Key: "MANIFEST_PATH", Value: secret(naming.AppRef(appTokens, naming.SuffixManifestPath))},
		},
		Run: script(
			`if [ ! -f "$MANIFEST_PATH" ]; then`,
			`  echo "::error::Manifest $MANIFEST_PATH not found for `+appNameToken+`"`,
			`  exit 1`,
			`fi`,
			`cp "$MANIFEST_PATH" "`+pushDir+`/`+ManifestFile+`"`,
		),
	}
}

func pushStep(deployType domain.DeployType, workDir string, noStart bool) Step {
	flags := ""
	name := "Push " + appNameToken + " (" + envTokens.Label + ")"
	if noStart {
		flags = " --no-start"
		name = "Push " + appNameToken + " without starting (" + envTokens.Label + ")"
	}

	var run string
	if deployType == domain.DeployTypeArchive {
		run = script(
			`cd "`+workDir+`/`+ExtractDir+`"`,
			`cf push "$INSTANCE" -f `+ManifestFile+` -p .`+flags,
		)
	} else {
		run = script(
			`cd "`+workDir+`"`,
			`ARTIFACT="$(find . -maxdepth 1 -type f ! -name `+ManifestFile+` | head -n 1)"`,
			`cf push "$INSTANCE" -f `+ManifestFile+` -p "$ARTIFACT"`+flags,
		)
	}

	return Step{Name: name, Env: Pairs{instanceEnv()}, Run: run}
}

func setEnvStep(key string) Step {
	return Step{
		Name: "Set " + key + " for " + appNameToken + " (" + envTokens.Label + ")",
		Env: Pairs{
			instanceEnv(),
			{Key: "ENV_JSON", Value: secret(naming.AppRef(appTokens, naming.SuffixCFEnvJSON))},
			{Key: "ENV_KEY", Value: key},
		},
		Run: `cf set-env "$INSTANCE" "$ENV_KEY" "$(jq -r --arg k "$ENV_KEY" '.[$k] | tostring' <<< "$ENV_JSON")"`,
	}
}

func startStep() Step {
	return Step{
		Name: "Start " + appNameToken + " (" + envTokens.Label + ")",
		Env:  Pairs{instanceEnv()},
		Run:  `cf start "$INSTANCE"`,
	}
}

// =============================================================================
// Version Markers
// =============================================================================

// recordStep writes one marker per deployed application and commits them
// with a single message listing every deployed app(tag). Nothing is
// committed when no application was deployed or when every marker already
// holds the deployed tag, as on a redeploy.
func recordStep(plan *Plan, env domain.Environment) (Step, error) {
	marker := `"$MARKER_DIR/` + naming.MarkerPath(envTokens, appTokens) + `"`
	deployVar := "$" + appTokens.Upper + "_DEPLOY"
	tagVar := "$" + appTokens.Upper + "_TAG"

	head := Step{
		Name: "Record deployed versions (" + envTokens.Label + ")",
		Run: script(
			`DEPLOYED=""`,
			`mkdir -p "$MARKER_DIR/`+envTokens.Short+`"`,
		),
	}
	block := Step{
		Env: Pairs{
			{Key: appTokens.Upper + "_DEPLOY", Value: validateOutput(naming.OutputDeploy(appTokens))},
			{Key: appTokens.Upper + "_TAG", Value: validateOutput(naming.OutputReleaseTag(appTokens))},
		},
		Run: script(
			`if [ "`+deployVar+`" = "true" ]; then`,
			`  echo "`+tagVar+`" > `+marker,
			`  git add `+marker,
			`  DEPLOYED="$DEPLOYED, `+appNameToken+`(`+tagVar+`)"`,
			`fi`,
		),
	}
	tail := script(
		`if [ -z "$DEPLOYED" ]; then`,
		`  echo "No applications deployed to `+envTokens.Label+`; nothing to record"`,
		`  exit 0`,
		`fi`,
		`if git diff --cached --quiet; then`,
		`  echo "Markers already record ${DEPLOYED#, }; nothing to commit"`,
		`  exit 0`,
		`fi`,
		`git config user.name "github-actions[bot]"`,
		`git config user.email "41898282+github-actions[bot]@users.noreply.github.com"`,
		`git commit -m "Record `+envTokens.Label+` deployment: ${DEPLOYED#, }"`,
		`git pull --rebase`,
		`git push`,
	)
	return perAppStep(plan, env, head, block, tail)
}
