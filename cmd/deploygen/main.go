package main

import (
	"errors"
	"fmt"
	"io"
	"os"
)

// Version information (set by build)
var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	cmd := NewRootCmd(NewRootOptions(stdout))
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	if err := cmd.Execute(); err != nil {
		var cErr *CommandError
		if errors.As(err, &cErr) {
			fmt.Fprintf(stderr, "%s: %v\n", cErr.Op, cErr.Err)
			return cErr.ExitCode
		}
		// Flag and argument errors from cobra
		fmt.Fprintf(stderr, "error: %v\n", err)
		return ExitConfigError
	}
	return ExitSuccess
}

// =============================================================================
// Exit Codes
// =============================================================================

const (
	ExitSuccess         = 0
	ExitConfigError     = 1
	ExitGenerationError = 2
	ExitDrift           = 3
)

// CommandError represents a failed command and the exit code it maps to.
type CommandError struct {
	Op       string
	Err      error
	ExitCode int
}

func (e *CommandError) Error() string {
	return e.Op + ": " + e.Err.Error()
}

func (e *CommandError) Unwrap() error {
	return e.Err
}
