package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

type VersionOptions struct {
	root *RootOptions
}

func NewVersionOptions(root *RootOptions) *VersionOptions {
	return &VersionOptions{root: root}
}

func NewVersionCmd(o *VersionOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version",
		Args:  cobra.NoArgs,
		RunE:  func(_ *cobra.Command, _ []string) error { return o.Run() },
	}
}

func (o *VersionOptions) Run() error {
	fmt.Fprintf(o.root.out, "deploygen %s (built %s)\n", Version, BuildTime)
	return nil
}
