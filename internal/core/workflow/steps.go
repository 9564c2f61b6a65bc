package workflow

import (
	"strings"

	"github.com/nkuhn-vmw/mcp-server-deployment/internal/core/domain"
	"github.com/nkuhn-vmw/mcp-server-deployment/internal/core/naming"
	"github.com/nkuhn-vmw/mcp-server-deployment/internal/core/render"
)

// Job ids.
const (
	JobValidate = "validate"
	JobNotify   = "notify"
)

// MarkerDir is the repository directory holding last-deployed tag markers.
const MarkerDir = ".github/deployments"

// CheckoutAction is the action used to check out the workflow repository.
const CheckoutAction = "actions/checkout@v4"

// DeployJobID returns the id of the deploy job for env.
func DeployJobID(env domain.Environment) string {
	return "deploy-" + env.Short
}

// =============================================================================
// Tokenized Names
// =============================================================================

// Step templates derive their identifiers from the naming package applied to
// token values, so rendering a template for an application yields exactly
// the names naming derives for it.
var (
	appTokens = naming.Prefix{
		Upper: token(render.TokenAppUpper),
		Lower: token(render.TokenAppLower),
	}
	envTokens = domain.Environment{
		Short: token(render.TokenEnvShort),
		Upper: token(render.TokenEnvUpper),
		Label: token(render.TokenEnvLabel),
	}
	appNameToken = token(render.TokenAppName)
)

func token(name string) string {
	return render.StartTag + name + render.EndTag
}

// =============================================================================
// Expressions
// =============================================================================

func expr(body string) string {
	return "${{ " + body + " }}"
}

func secret(name string) string {
	return expr("secrets." + name)
}

func input(id string) string {
	return expr("inputs." + id)
}

func validateOutput(name string) string {
	return expr("needs." + JobValidate + ".outputs." + name)
}

// deployCondition gates an application's deploy steps on its resolved flag.
func deployCondition(p naming.Prefix) string {
	return "needs." + JobValidate + ".outputs." + naming.OutputDeploy(p) + " == 'true'"
}

// script joins lines into a newline-terminated shell script.
func script(lines ...string) string {
	return strings.Join(lines, "\n") + "\n"
}

// =============================================================================
// Rendering
// =============================================================================

// renderStep renders every text field of a step template against ctx.
func renderStep(tpl Step, ctx render.Context) (Step, error) {
	out := tpl
	var err error
	for _, field := range []*string{&out.Name, &out.ID, &out.If, &out.Uses, &out.Run} {
		if *field, err = render.Render(*field, ctx); err != nil {
			return Step{}, err
		}
	}
	if out.With, err = renderPairs(tpl.With, ctx); err != nil {
		return Step{}, err
	}
	if out.Env, err = renderPairs(tpl.Env, ctx); err != nil {
		return Step{}, err
	}
	return out, nil
}

func renderPairs(pairs Pairs, ctx render.Context) (Pairs, error) {
	if pairs == nil {
		return nil, nil
	}
	out := make(Pairs, 0, len(pairs))
	for _, pair := range pairs {
		key, err := render.Render(pair.Key, ctx)
		if err != nil {
			return nil, err
		}
		value, err := render.Render(pair.Value, ctx)
		if err != nil {
			return nil, err
		}
		out = append(out, Pair{Key: key, Value: value})
	}
	return out, nil
}

func renderSteps(tpls []Step, ctx render.Context) ([]Step, error) {
	steps := make([]Step, 0, len(tpls))
	for _, tpl := range tpls {
		step, err := renderStep(tpl, ctx)
		if err != nil {
			return nil, err
		}
		steps = append(steps, step)
	}
	return steps, nil
}

// perAppStep builds one step whose script has a shared head and tail and one
// block per application. head and tail are rendered for env; block is
// rendered once per application and its env entries are appended in order.
func perAppStep(plan *Plan, env domain.Environment, head, block Step, tail string) (Step, error) {
	step, err := renderStep(head, envContext(env))
	if err != nil {
		return Step{}, err
	}

	var run strings.Builder
	run.WriteString(step.Run)
	for _, app := range plan.Apps {
		rendered, err := renderStep(block, app.Context(env))
		if err != nil {
			return Step{}, err
		}
		step.Env = append(step.Env, rendered.Env...)
		run.WriteString(rendered.Run)
	}

	rendered, err := render.Render(tail, envContext(env))
	if err != nil {
		return Step{}, err
	}
	run.WriteString(rendered)
	step.Run = run.String()
	return step, nil
}

// =============================================================================
// Shared Steps
// =============================================================================

// authStep logs the gh CLI in to the source platform.
func authStep(platform domain.Platform, qualifier string) Step {
	name := "Authenticate to " + platform.DisplayName()
	if qualifier != "" {
		name += " (" + qualifier + ")"
	}
	return Step{
		Name: name,
		Env:  Pairs{{Key: "UPSTREAM_TOKEN", Value: secret(naming.RefUpstreamToken)}},
		Run:  `echo "$UPSTREAM_TOKEN" | gh auth login --hostname "$GH_HOST" --with-token`,
	}
}

func checkoutStep() Step {
	return Step{Name: "Checkout", Uses: CheckoutAction}
}

func installCFStep() Step {
	return Step{
		Name: "Install CF CLI",
		Run: script(
			`mkdir -p "$HOME/.local/bin"`,
			`curl -fsSL "https://packages.cloudfoundry.org/stable?release=linux64-binary&version=v8&source=github" | tar -zx -C "$HOME/.local/bin"`,
			`echo "$HOME/.local/bin" >> "$GITHUB_PATH"`,
		),
	}
}

// cfLoginStep is a template rendered with the environment tokens.
func cfLoginStep() Step {
	return Step{
		Name: "Log in to Cloud Foundry (" + envTokens.Label + ")",
		Env: Pairs{
			{Key: "CF_API", Value: secret(naming.CFRef(envTokens, naming.CFFieldAPI))},
			{Key: "CF_USERNAME", Value: secret(naming.CFRef(envTokens, naming.CFFieldUsername))},
			{Key: "CF_PASSWORD", Value: secret(naming.CFRef(envTokens, naming.CFFieldPassword))},
			{Key: "CF_ORG", Value: secret(naming.CFRef(envTokens, naming.CFFieldOrg))},
			{Key: "CF_SPACE", Value: secret(naming.CFRef(envTokens, naming.CFFieldSpace))},
		},
		Run: script(
			`cf api "$CF_API"`,
			`cf auth`,
			`cf target -o "$CF_ORG" -s "$CF_SPACE"`,
		),
	}
}
