package main

import (
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/nkuhn-vmw/mcp-server-deployment/internal/core/version"
	"github.com/spf13/cobra"
)

// TagOptions previews what the generated pipeline derives from a release tag.
type TagOptions struct {
	root *RootOptions

	Pattern  string
	Base     string
	Previous string
}

func NewTagOptions(root *RootOptions) *TagOptions {
	return &TagOptions{root: root}
}

func NewTagCmd(o *TagOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tag TAG",
		Short: "Show the versions, asset and instance name derived from a release tag",
		Args:  cobra.ExactArgs(1),
		RunE:  func(_ *cobra.Command, args []string) error { return o.Run(args[0]) },
	}
	cmd.Flags().StringVar(&o.Pattern, "pattern", "", "Artifact pattern containing "+version.PatternPlaceholder)
	cmd.Flags().StringVar(&o.Base, "base", "", "Base application name")
	cmd.Flags().StringVar(&o.Previous, "previous", "", "Previously deployed tag to compare against")
	return cmd
}

func (o *TagOptions) Run(tag string) error {
	v := version.Derive(tag)
	if v.Dotted == "" {
		return &CommandError{Op: "tag", Err: errors.New("tag is empty"), ExitCode: ExitGenerationError}
	}

	tw := tabwriter.NewWriter(o.root.out, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "dotted:\t%s\n", v.Dotted)
	fmt.Fprintf(tw, "numeric:\t%s\n", v.Numeric)
	if o.Pattern != "" {
		fmt.Fprintf(tw, "asset:\t%s\n", version.ApplyPattern(o.Pattern, v.Dotted))
	}
	if o.Base != "" {
		fmt.Fprintf(tw, "instance:\t%s\n", version.InstanceName(o.Base, v))
	}
	if o.Previous != "" {
		change, err := version.Compare(o.Previous, tag)
		if err != nil {
			tw.Flush()
			return &CommandError{Op: "tag", Err: err, ExitCode: ExitGenerationError}
		}
		fmt.Fprintf(tw, "change:\t%s from %s\n", change, o.Previous)
	}
	return tw.Flush()
}
