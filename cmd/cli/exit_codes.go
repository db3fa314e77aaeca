package cli

import (
	"errors"

	"github.com/temirov/forksmith/internal/builder"
	"github.com/temirov/forksmith/internal/forkrepo"
	"github.com/temirov/forksmith/internal/inspect"
	"github.com/temirov/forksmith/internal/launcher"
)

// Stable exit codes per error class so automated callers can branch without
// parsing diagnostics.
const (
	ExitCodeSuccess         = 0
	ExitCodeGenericFailure  = 1
	ExitCodeConflict        = 2
	ExitCodeFetchFailure    = 3
	ExitCodeBuildFailure    = 4
	ExitCodeArtifactMissing = 5
	ExitCodeExecFailure     = 6
)

// ExitCodeForError maps an execution error to the process exit code. A child
// process exit propagates the child's own code.
func ExitCodeForError(executionError error) int {
	if executionError == nil {
		return ExitCodeSuccess
	}

	childExitError := launcher.ChildExitError{}
	if errors.As(executionError, &childExitError) {
		return childExitError.ExitCode
	}

	conflictError := inspect.ConflictError{}
	if errors.As(executionError, &conflictError) {
		return ExitCodeConflict
	}

	fetchError := forkrepo.FetchError{}
	if errors.As(executionError, &fetchError) {
		return ExitCodeFetchFailure
	}

	referenceUpdateError := forkrepo.ReferenceUpdateError{}
	if errors.As(executionError, &referenceUpdateError) {
		return ExitCodeFetchFailure
	}

	buildError := builder.BuildError{}
	if errors.As(executionError, &buildError) {
		return ExitCodeBuildFailure
	}

	artifactMissingError := builder.ArtifactMissingError{}
	if errors.As(executionError, &artifactMissingError) {
		return ExitCodeArtifactMissing
	}

	inspectedArtifactMissingError := inspect.ArtifactMissingError{}
	if errors.As(executionError, &inspectedArtifactMissingError) {
		return ExitCodeArtifactMissing
	}

	execError := launcher.ExecError{}
	if errors.As(executionError, &execError) {
		return ExitCodeExecFailure
	}

	return ExitCodeGenericFailure
}
