package workflow

import (
	"github.com/nkuhn-vmw/mcp-server-deployment/internal/core/domain"
	"github.com/nkuhn-vmw/mcp-server-deployment/internal/core/naming"
	"github.com/nkuhn-vmw/mcp-server-deployment/internal/core/render"
)

// App is one validated application with everything derived from it.
type App struct {
	Descriptor domain.AppDescriptor
	Prefix     naming.Prefix
	EnvKeys    []string
}

// Name returns the application's display name.
func (a App) Name() string {
	return a.Descriptor.DisplayName()
}

// Context returns the render context for this application in env.
// Pass the zero Environment for steps that are not environment specific.
func (a App) Context(env domain.Environment) render.Context {
	return render.Context{
		AppUpper: a.Prefix.Upper,
		AppLower: a.Prefix.Lower,
		AppName:  a.Name(),
		EnvShort: env.Short,
		EnvUpper: env.Upper,
		EnvLabel: env.Label,
	}
}

// Plan is a validated PipelineSpec ready for emission.
type Plan struct {
	Spec domain.PipelineSpec
	Apps []App
}

// NewPlan validates spec and derives every application's prefix and env
// keys. Any error means nothing may be emitted.
func NewPlan(spec domain.PipelineSpec) (*Plan, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	prefixes, err := naming.ValidateApps(spec.Apps)
	if err != nil {
		return nil, err
	}

	plan := &Plan{Spec: spec, Apps: make([]App, 0, len(spec.Apps))}
	for i, descriptor := range spec.Apps {
		keys, err := descriptor.EnvVarKeys()
		if err != nil {
			return nil, err
		}
		plan.Apps = append(plan.Apps, App{
			Descriptor: descriptor,
			Prefix:     prefixes[i],
			EnvKeys:    keys,
		})
	}
	return plan, nil
}

func envContext(env domain.Environment) render.Context {
	return render.Context{EnvShort: env.Short, EnvUpper: env.Upper, EnvLabel: env.Label}
}
