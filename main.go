package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/temirov/forksmith/cmd/cli"
	"github.com/temirov/forksmith/internal/launcher"
)

const (
	exitErrorTemplateConstant = "%v\n"
)

// main executes the forksmith command-line application.
func main() {
	executionError := cli.Execute()
	if executionError == nil {
		return
	}

	childExitError := launcher.ChildExitError{}
	if !errors.As(executionError, &childExitError) {
		fmt.Fprintf(os.Stderr, exitErrorTemplateConstant, executionError)
	}
	os.Exit(cli.ExitCodeForError(executionError))
}
