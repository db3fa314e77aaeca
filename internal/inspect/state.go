package inspect

import (
	"fmt"

	"github.com/temirov/forksmith/internal/forkrepo"
)

const (
	qualifiedReferenceTemplateConstant     = "%s/%s"
	conflictMessageTemplateConstant        = "unresolved merge conflicts in %s"
	artifactMissingMessageTemplateConstant = "fork artifact missing at %s"
)

// RemoteRef identifies one tracked counterpart branch on a named remote.
type RemoteRef struct {
	RemoteName string
	BranchName string
}

// Qualified renders the remote-qualified reference, for example origin/main.
func (reference RemoteRef) Qualified() string {
	return fmt.Sprintf(qualifiedReferenceTemplateConstant, reference.RemoteName, reference.BranchName)
}

// RepoState is an immutable snapshot of repository health. Each command
// computes a fresh snapshot; snapshots are never cached between invocations.
type RepoState struct {
	BranchName            string
	Detached              bool
	HeadCommit            string
	Clean                 bool
	Conflicted            bool
	LocalRemotePresent    bool
	UpstreamRemotePresent bool
	LocalDivergence       forkrepo.Divergence
	UpstreamDivergence    forkrepo.Divergence
	BinaryExists          bool
}

// ConflictError reports unresolved merge conflicts in the working tree.
type ConflictError struct {
	Path string
}

// Error describes the conflicted repository.
func (conflictError ConflictError) Error() string {
	return fmt.Sprintf(conflictMessageTemplateConstant, conflictError.Path)
}

// ArtifactMissingError reports that the inspected fork has no built artifact on disk.
type ArtifactMissingError struct {
	Path string
}

// Error describes the missing artifact.
func (missingError ArtifactMissingError) Error() string {
	return fmt.Sprintf(artifactMissingMessageTemplateConstant, missingError.Path)
}
