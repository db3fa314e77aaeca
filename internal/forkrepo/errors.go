package forkrepo

import "fmt"

const (
	repoNotFoundErrorTemplateConstant    = "%s is not a git repository: %s"
	ambiguousRefErrorTemplateConstant    = "reference %q did not resolve: %s"
	fetchErrorTemplateConstant           = "fetching remote %q failed: %s"
	referenceUpdateErrorTemplateConstant = "fast-forward to %q failed: %s"
	unknownErrorCauseLabelConstant       = "unknown cause"
	divergenceParseErrorTemplateConstant = "unexpected rev-list output %q for %q"
)

// RepoNotFoundError indicates the configured path is not a usable repository root.
type RepoNotFoundError struct {
	Path  string
	Cause error
}

// Error describes the missing repository.
func (notFoundError RepoNotFoundError) Error() string {
	return fmt.Sprintf(repoNotFoundErrorTemplateConstant, notFoundError.Path, describeCause(notFoundError.Cause))
}

// Unwrap exposes the underlying cause.
func (notFoundError RepoNotFoundError) Unwrap() error {
	return notFoundError.Cause
}

// AmbiguousRefError indicates a branch or remote reference could not be resolved.
type AmbiguousRefError struct {
	Reference string
	Cause     error
}

// Error describes the unresolved reference.
func (refError AmbiguousRefError) Error() string {
	return fmt.Sprintf(ambiguousRefErrorTemplateConstant, refError.Reference, describeCause(refError.Cause))
}

// Unwrap exposes the underlying cause.
func (refError AmbiguousRefError) Unwrap() error {
	return refError.Cause
}

// FetchError indicates a remote fetch failed; network faults and ref-lock
// contention both surface here.
type FetchError struct {
	RemoteName string
	Cause      error
}

// Error describes the failed fetch.
func (fetchError FetchError) Error() string {
	return fmt.Sprintf(fetchErrorTemplateConstant, fetchError.RemoteName, describeCause(fetchError.Cause))
}

// Unwrap exposes the underlying cause.
func (fetchError FetchError) Unwrap() error {
	return fetchError.Cause
}

// ReferenceUpdateError indicates the branch pointer could not be moved.
type ReferenceUpdateError struct {
	Target string
	Cause  error
}

// Error describes the failed reference update.
func (updateError ReferenceUpdateError) Error() string {
	return fmt.Sprintf(referenceUpdateErrorTemplateConstant, updateError.Target, describeCause(updateError.Cause))
}

// Unwrap exposes the underlying cause.
func (updateError ReferenceUpdateError) Unwrap() error {
	return updateError.Cause
}

func describeCause(cause error) string {
	if cause == nil {
		return unknownErrorCauseLabelConstant
	}
	return cause.Error()
}
