package main

import (
	"io"
	"log/slog"
	"time"

	"github.com/nkuhn-vmw/mcp-server-deployment/internal/core/validation"
	"github.com/nkuhn-vmw/mcp-server-deployment/internal/core/workflow"
	"github.com/spf13/cobra"
)

// RootOptions holds state shared by every command.
type RootOptions struct {
	ConfigPath string

	out    io.Writer
	now    func() time.Time
	cfg    *Config
	logger *slog.Logger
}

func NewRootOptions(out io.Writer) *RootOptions {
	return &RootOptions{out: out, now: time.Now}
}

func NewRootCmd(o *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "deploygen",
		Version: Version,
		Short:   "deploygen generates multi-application deployment workflows",
		Long: `deploygen generates a GitHub Actions workflow deploying up to ten
applications to Cloud Foundry, first to non-production and then, after
approval, to production.`,
	}

	// Affects children as well
	cmd.SilenceErrors = true
	cmd.SilenceUsage = true

	cmd.PersistentFlags().StringVarP(&o.ConfigPath, "config", "c", "", "Path to config file")

	cmd.AddCommand(NewGenerateCmd(NewGenerateOptions(o)))
	cmd.AddCommand(NewDiffCmd(NewDiffOptions(o)))
	cmd.AddCommand(NewRefsCmd(NewRefsOptions(o)))
	cmd.AddCommand(NewTagCmd(NewTagOptions(o)))
	cmd.AddCommand(NewVersionCmd(NewVersionOptions(o)))

	return cmd
}

// load reads the configuration and sets up the logger.
func (o *RootOptions) load() error {
	cfg, err := LoadConfig(o.ConfigPath)
	if err != nil {
		return &CommandError{Op: "load config", Err: err, ExitCode: ExitConfigError}
	}
	o.cfg = cfg
	o.logger = SetupLogger(cfg)
	o.logger.Debug("loaded configuration",
		"config", o.ConfigPath,
		"apps", len(cfg.Pipeline.Apps),
	)
	return nil
}

// generate builds the workflow for the loaded configuration.
func (o *RootOptions) generate() (*workflow.Result, error) {
	spec, err := o.cfg.PipelineSpec()
	if err != nil {
		return nil, &CommandError{Op: "read pipeline", Err: err, ExitCode: ExitConfigError}
	}
	for _, app := range spec.Apps {
		if ok, reason := validation.CheckArtifactPattern(app.ArtifactPattern); !ok {
			o.logger.Warn(reason, "app", app.DisplayName())
		}
	}

	result, err := workflow.Generate(spec, workflow.Options{GeneratedAt: o.now()})
	if err != nil {
		o.logger.Error("generation failed", "error", err)
		return nil, &CommandError{Op: "generate", Err: err, ExitCode: ExitGenerationError}
	}

	o.logger.Info("generated workflow",
		"name", result.Name,
		"apps", len(spec.Apps),
		"platform", spec.Platform.Hostname(),
		"references", len(result.References),
	)
	return result, nil
}

// outputDir returns override when set, else the configured directory.
func (o *RootOptions) outputDir(override string) string {
	if override != "" {
		return override
	}
	return o.cfg.Output.Dir
}
