package launcher

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
)

const (
	execFailureTemplateConstant      = "unable to execute %s: %v"
	childExitMessageTemplateConstant = "child process exited with code %d"
)

// ExecError reports an artifact that could not be started.
type ExecError struct {
	Path  string
	Cause error
}

// Error describes the launch failure.
func (execError ExecError) Error() string {
	return fmt.Sprintf(execFailureTemplateConstant, execError.Path, execError.Cause)
}

// Unwrap exposes the underlying cause.
func (execError ExecError) Unwrap() error {
	return execError.Cause
}

// ChildExitError carries a launched artifact's non-zero exit code so the
// calling process can adopt it as its own.
type ChildExitError struct {
	ExitCode int
}

// Error describes the child exit.
func (childError ChildExitError) Error() string {
	return fmt.Sprintf(childExitMessageTemplateConstant, childError.ExitCode)
}

// ProcessLauncher starts a binary and reports its exit code.
type ProcessLauncher interface {
	Launch(executionContext context.Context, binaryPath string, arguments []string) (int, error)
}

// OSProcessLauncher launches processes with inherited standard streams. No
// buffering or interception takes place so chained invocations behave exactly
// as if the artifact were invoked directly.
type OSProcessLauncher struct{}

// NewOSProcessLauncher constructs an operating system backed launcher.
func NewOSProcessLauncher() *OSProcessLauncher {
	return &OSProcessLauncher{}
}

// Launch starts the binary and waits for completion, returning its exit code.
func (processLauncher *OSProcessLauncher) Launch(executionContext context.Context, binaryPath string, arguments []string) (int, error) {
	childCommand := exec.CommandContext(executionContext, binaryPath, arguments...)
	childCommand.Stdin = os.Stdin
	childCommand.Stdout = os.Stdout
	childCommand.Stderr = os.Stderr

	runError := childCommand.Run()
	if runError == nil {
		return 0, nil
	}

	exitError := &exec.ExitError{}
	if errors.As(runError, &exitError) {
		return exitError.ExitCode(), nil
	}
	return 0, ExecError{Path: binaryPath, Cause: runError}
}
