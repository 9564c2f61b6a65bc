package main

import (
	"fmt"

	"github.com/nkuhn-vmw/mcp-server-deployment/internal/shell/output"
	"github.com/spf13/cobra"
)

type GenerateOptions struct {
	root *RootOptions

	OutDir string
	Stdout bool
}

func NewGenerateOptions(root *RootOptions) *GenerateOptions {
	return &GenerateOptions{root: root}
}

func NewGenerateCmd(o *GenerateOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate the deployment workflow",
		Args:  cobra.NoArgs,
		RunE:  func(_ *cobra.Command, _ []string) error { return o.Run() },
	}
	cmd.Flags().StringVarP(&o.OutDir, "out-dir", "o", "", "Directory to write the workflow to (default from output.dir)")
	cmd.Flags().BoolVar(&o.Stdout, "stdout", false, "Print the workflow instead of writing it")
	return cmd
}

func (o *GenerateOptions) Run() error {
	if err := o.root.load(); err != nil {
		return err
	}
	result, err := o.root.generate()
	if err != nil {
		return err
	}

	if o.Stdout {
		_, err := o.root.out.Write(result.Content)
		return err
	}

	writer := output.NewWriter(o.root.outputDir(o.OutDir), o.root.logger)
	path, err := writer.Write(result)
	if err != nil {
		return &CommandError{Op: "write workflow", Err: err, ExitCode: ExitGenerationError}
	}

	fmt.Fprintf(o.root.out, "Wrote %s\n", path)
	fmt.Fprintf(o.root.out, "The workflow expects %d credential references (see `deploygen refs`).\n", len(result.References))
	return nil
}
