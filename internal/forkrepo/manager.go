package forkrepo

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/temirov/forksmith/internal/execshell"
)

const (
	gitExecutorMissingMessageConstant           = "git executor not configured"
	gitRevParseSubcommandConstant               = "rev-parse"
	gitWorkTreeFlagConstant                     = "--is-inside-work-tree"
	gitAbbrevRefFlagConstant                    = "--abbrev-ref"
	gitHeadReferenceConstant                    = "HEAD"
	gitStatusSubcommandConstant                 = "status"
	gitStatusPorcelainFlagConstant              = "--porcelain"
	gitDiffSubcommandConstant                   = "diff"
	gitDiffNameOnlyFlagConstant                 = "--name-only"
	gitDiffUnmergedFilterFlagConstant           = "--diff-filter=U"
	gitRemoteSubcommandConstant                 = "remote"
	gitRevListSubcommandConstant                = "rev-list"
	gitRevListLeftRightFlagConstant             = "--left-right"
	gitRevListCountFlagConstant                 = "--count"
	gitFetchSubcommandConstant                  = "fetch"
	gitMergeSubcommandConstant                  = "merge"
	gitMergeFastForwardOnlyFlagConstant         = "--ff-only"
	gitSymmetricRangeTemplateConstant           = "%s...%s"
	gitTerminalPromptEnvironmentNameConstant    = "GIT_TERMINAL_PROMPT"
	gitTerminalPromptEnvironmentDisableConstant = "0"
	divergenceFieldCountConstant                = 2
)

// ErrGitExecutorNotConfigured indicates the manager was constructed without an executor.
var ErrGitExecutorNotConfigured = errors.New(gitExecutorMissingMessageConstant)

// GitExecutor exposes the subset of shell execution the manager relies on.
type GitExecutor interface {
	ExecuteGit(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error)
}

// Divergence reports the commit counts on each side of a symmetric range.
type Divergence struct {
	Ahead  int
	Behind int
}

// RepositoryManager performs repository-level git operations for one repository path.
type RepositoryManager struct {
	executor GitExecutor
}

// NewRepositoryManager constructs a RepositoryManager around the provided executor.
func NewRepositoryManager(executor GitExecutor) (*RepositoryManager, error) {
	if executor == nil {
		return nil, ErrGitExecutorNotConfigured
	}
	return &RepositoryManager{executor: executor}, nil
}

// EnsureRepository verifies the path names a git work tree.
func (manager *RepositoryManager) EnsureRepository(executionContext context.Context, repositoryPath string) error {
	_, executionError := manager.executeGit(executionContext, repositoryPath, gitRevParseSubcommandConstant, gitWorkTreeFlagConstant)
	if executionError != nil {
		return RepoNotFoundError{Path: repositoryPath, Cause: executionError}
	}
	return nil
}

// CurrentBranch resolves the checked-out branch name; detached reports true
// with an empty name.
func (manager *RepositoryManager) CurrentBranch(executionContext context.Context, repositoryPath string) (string, bool, error) {
	executionResult, executionError := manager.executeGit(executionContext, repositoryPath, gitRevParseSubcommandConstant, gitAbbrevRefFlagConstant, gitHeadReferenceConstant)
	if executionError != nil {
		return "", false, AmbiguousRefError{Reference: gitHeadReferenceConstant, Cause: executionError}
	}

	branchName := strings.TrimSpace(executionResult.StandardOutput)
	if len(branchName) == 0 || strings.EqualFold(branchName, gitHeadReferenceConstant) {
		return "", true, nil
	}
	return branchName, false, nil
}

// HeadCommit resolves the commit identifier HEAD currently points at.
func (manager *RepositoryManager) HeadCommit(executionContext context.Context, repositoryPath string) (string, error) {
	return manager.ResolveCommit(executionContext, repositoryPath, gitHeadReferenceConstant)
}

// ResolveCommit resolves an arbitrary reference to a commit identifier.
func (manager *RepositoryManager) ResolveCommit(executionContext context.Context, repositoryPath string, reference string) (string, error) {
	executionResult, executionError := manager.executeGit(executionContext, repositoryPath, gitRevParseSubcommandConstant, reference)
	if executionError != nil {
		return "", AmbiguousRefError{Reference: reference, Cause: executionError}
	}

	commitIdentifier := strings.TrimSpace(executionResult.StandardOutput)
	if len(commitIdentifier) == 0 {
		return "", AmbiguousRefError{Reference: reference}
	}
	return commitIdentifier, nil
}

// CheckCleanWorktree reports whether the index and working tree carry no pending changes.
func (manager *RepositoryManager) CheckCleanWorktree(executionContext context.Context, repositoryPath string) (bool, error) {
	executionResult, executionError := manager.executeGit(executionContext, repositoryPath, gitStatusSubcommandConstant, gitStatusPorcelainFlagConstant)
	if executionError != nil {
		return false, executionError
	}
	return len(strings.TrimSpace(executionResult.StandardOutput)) == 0, nil
}

// HasUnmergedPaths reports whether the working tree contains unresolved merge conflicts.
func (manager *RepositoryManager) HasUnmergedPaths(executionContext context.Context, repositoryPath string) (bool, error) {
	executionResult, executionError := manager.executeGit(executionContext, repositoryPath, gitDiffSubcommandConstant, gitDiffNameOnlyFlagConstant, gitDiffUnmergedFilterFlagConstant)
	if executionError != nil {
		return false, executionError
	}
	return len(strings.TrimSpace(executionResult.StandardOutput)) > 0, nil
}

// ListRemotes returns the configured remote names.
func (manager *RepositoryManager) ListRemotes(executionContext context.Context, repositoryPath string) ([]string, error) {
	executionResult, executionError := manager.executeGit(executionContext, repositoryPath, gitRemoteSubcommandConstant)
	if executionError != nil {
		return nil, executionError
	}

	remoteNames := []string{}
	for _, outputLine := range strings.Split(executionResult.StandardOutput, "\n") {
		remoteName := strings.TrimSpace(outputLine)
		if len(remoteName) == 0 {
			continue
		}
		remoteNames = append(remoteNames, remoteName)
	}
	return remoteNames, nil
}

// HasRemote reports whether the named remote is configured.
func (manager *RepositoryManager) HasRemote(executionContext context.Context, repositoryPath string, remoteName string) (bool, error) {
	remoteNames, listError := manager.ListRemotes(executionContext, repositoryPath)
	if listError != nil {
		return false, listError
	}
	for _, configuredRemoteName := range remoteNames {
		if configuredRemoteName == remoteName {
			return true, nil
		}
	}
	return false, nil
}

// CountDivergence computes ahead/behind commit counts between two references
// relative to their merge base.
func (manager *RepositoryManager) CountDivergence(executionContext context.Context, repositoryPath string, baseReference string, otherReference string) (Divergence, error) {
	rangeSpecification := fmt.Sprintf(gitSymmetricRangeTemplateConstant, baseReference, otherReference)
	executionResult, executionError := manager.executeGit(executionContext, repositoryPath, gitRevListSubcommandConstant, gitRevListLeftRightFlagConstant, gitRevListCountFlagConstant, rangeSpecification)
	if executionError != nil {
		return Divergence{}, AmbiguousRefError{Reference: rangeSpecification, Cause: executionError}
	}

	countFields := strings.Fields(executionResult.StandardOutput)
	if len(countFields) != divergenceFieldCountConstant {
		return Divergence{}, AmbiguousRefError{
			Reference: rangeSpecification,
			Cause:     fmt.Errorf(divergenceParseErrorTemplateConstant, executionResult.StandardOutput, rangeSpecification),
		}
	}

	aheadCount, aheadParseError := strconv.Atoi(countFields[0])
	if aheadParseError != nil {
		return Divergence{}, AmbiguousRefError{Reference: rangeSpecification, Cause: aheadParseError}
	}
	behindCount, behindParseError := strconv.Atoi(countFields[1])
	if behindParseError != nil {
		return Divergence{}, AmbiguousRefError{Reference: rangeSpecification, Cause: behindParseError}
	}

	return Divergence{Ahead: aheadCount, Behind: behindCount}, nil
}

// Fetch retrieves the latest refs from the named remote.
func (manager *RepositoryManager) Fetch(executionContext context.Context, repositoryPath string, remoteName string) error {
	_, executionError := manager.executeGit(executionContext, repositoryPath, gitFetchSubcommandConstant, remoteName)
	if executionError != nil {
		return FetchError{RemoteName: remoteName, Cause: executionError}
	}
	return nil
}

// FastForward advances the current branch pointer to the target reference
// without creating a merge commit.
func (manager *RepositoryManager) FastForward(executionContext context.Context, repositoryPath string, targetReference string) error {
	_, executionError := manager.executeGit(executionContext, repositoryPath, gitMergeSubcommandConstant, gitMergeFastForwardOnlyFlagConstant, targetReference)
	if executionError != nil {
		return ReferenceUpdateError{Target: targetReference, Cause: executionError}
	}
	return nil
}

func (manager *RepositoryManager) executeGit(executionContext context.Context, repositoryPath string, arguments ...string) (execshell.ExecutionResult, error) {
	return manager.executor.ExecuteGit(executionContext, execshell.CommandDetails{
		Arguments:        arguments,
		WorkingDirectory: repositoryPath,
		EnvironmentVariables: map[string]string{
			gitTerminalPromptEnvironmentNameConstant: gitTerminalPromptEnvironmentDisableConstant,
		},
	})
}
