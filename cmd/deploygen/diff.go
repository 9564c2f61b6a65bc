package main

import (
	"errors"
	"fmt"

	"github.com/nkuhn-vmw/mcp-server-deployment/internal/shell/output"
	"github.com/spf13/cobra"
)

type DiffOptions struct {
	root *RootOptions

	OutDir string
}

func NewDiffOptions(root *RootOptions) *DiffOptions {
	return &DiffOptions{root: root}
}

func NewDiffCmd(o *DiffOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "diff",
		Short: "Report whether the committed workflow differs from a fresh generation",
		Long: `diff regenerates the workflow and compares it with the one on disk,
ignoring the generation date. It exits with status 3 when they differ.`,
		Args: cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error { return o.Run() },
	}
	cmd.Flags().StringVarP(&o.OutDir, "out-dir", "o", "", "Directory holding the workflow (default from output.dir)")
	return cmd
}

func (o *DiffOptions) Run() error {
	if err := o.root.load(); err != nil {
		return err
	}
	result, err := o.root.generate()
	if err != nil {
		return err
	}

	writer := output.NewWriter(o.root.outputDir(o.OutDir), o.root.logger)
	stored, err := writer.Read(result.Name)
	if errors.Is(err, output.ErrNotFound) {
		return &CommandError{Op: "diff", Err: err, ExitCode: ExitDrift}
	}
	if err != nil {
		return &CommandError{Op: "diff", Err: err, ExitCode: ExitGenerationError}
	}

	report, drifted := output.Drift(stored, result.Content)
	if !drifted {
		fmt.Fprintf(o.root.out, "%s is up to date\n", writer.Path(result.Name))
		return nil
	}

	fmt.Fprint(o.root.out, report)
	return &CommandError{
		Op:       "diff",
		Err:      fmt.Errorf("%s is out of date; run `deploygen generate`", writer.Path(result.Name)),
		ExitCode: ExitDrift,
	}
}
