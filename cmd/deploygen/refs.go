package main

import (
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

type RefsOptions struct {
	root *RootOptions

	Format string
}

func NewRefsOptions(root *RootOptions) *RefsOptions {
	return &RefsOptions{root: root}
}

func NewRefsCmd(o *RefsOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "refs",
		Short: "List the credential references the workflow expects",
		Long: `refs lists the names of the secrets the generated workflow reads.
Values are never printed.`,
		Args: cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error { return o.Run() },
	}
	cmd.Flags().StringVar(&o.Format, "format", "text", "Output format (text, yaml)")
	return cmd
}

// refView is a Reference without its value.
type refView struct {
	Name        string `yaml:"name"`
	Scope       string `yaml:"scope"`
	Optional    bool   `yaml:"optional,omitempty"`
	Description string `yaml:"description"`
}

func (o *RefsOptions) Run() error {
	if o.Format != "text" && o.Format != "yaml" {
		return &CommandError{Op: "refs", Err: fmt.Errorf("unknown format %q", o.Format), ExitCode: ExitConfigError}
	}
	if err := o.root.load(); err != nil {
		return err
	}
	result, err := o.root.generate()
	if err != nil {
		return err
	}

	views := make([]refView, 0, len(result.References))
	for _, ref := range result.References {
		views = append(views, refView{
			Name:        ref.Name,
			Scope:       ref.Scope,
			Optional:    ref.Optional,
			Description: ref.Description,
		})
	}

	if o.Format == "yaml" {
		enc := yaml.NewEncoder(o.root.out)
		enc.SetIndent(2)
		if err := enc.Encode(views); err != nil {
			return err
		}
		return enc.Close()
	}

	tw := tabwriter.NewWriter(o.root.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tSCOPE\tOPTIONAL\tDESCRIPTION")
	for _, v := range views {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", v.Name, v.Scope, strconv.FormatBool(v.Optional), v.Description)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	if !o.root.cfg.Pipeline.SharedCredentials {
		fmt.Fprintln(o.root.out, "Shared references are not listed; they are assumed to exist at organisation level.")
	}
	return nil
}
