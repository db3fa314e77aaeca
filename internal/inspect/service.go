package inspect

import (
	"context"
	"errors"
	"io/fs"

	"go.uber.org/zap"

	"github.com/temirov/forksmith/internal/forkrepo"
)

const (
	repositoryManagerMissingMessageConstant = "repository manager not configured"
	fileSystemMissingMessageConstant        = "file system not configured"
	headReferenceConstant                   = "HEAD"
	divergenceUnavailableMessageConstant    = "Divergence unavailable, counting as zero"
	remoteMissingMessageConstant            = "Tracked remote not configured in repository"
	logFieldReferenceConstant               = "reference"
	logFieldRemoteConstant                  = "remote"
	logFieldRepositoryConstant              = "repository"
	executableModeMaskConstant              = 0o111
)

// ErrRepositoryManagerNotConfigured indicates the service was built without a repository manager.
var ErrRepositoryManagerNotConfigured = errors.New(repositoryManagerMissingMessageConstant)

// ErrFileSystemNotConfigured indicates the service was built without a file system.
var ErrFileSystemNotConfigured = errors.New(fileSystemMissingMessageConstant)

// RepositoryManager describes the read-only repository queries the inspector requires.
type RepositoryManager interface {
	EnsureRepository(executionContext context.Context, repositoryPath string) error
	CurrentBranch(executionContext context.Context, repositoryPath string) (string, bool, error)
	HeadCommit(executionContext context.Context, repositoryPath string) (string, error)
	CheckCleanWorktree(executionContext context.Context, repositoryPath string) (bool, error)
	HasUnmergedPaths(executionContext context.Context, repositoryPath string) (bool, error)
	HasRemote(executionContext context.Context, repositoryPath string, remoteName string) (bool, error)
	CountDivergence(executionContext context.Context, repositoryPath string, baseReference string, otherReference string) (forkrepo.Divergence, error)
}

// FileSystem describes the artifact probe the inspector requires.
type FileSystem interface {
	Stat(path string) (fs.FileInfo, error)
}

// Dependencies aggregates inspector collaborators.
type Dependencies struct {
	Logger            *zap.Logger
	RepositoryManager RepositoryManager
	FileSystem        FileSystem
}

// Service computes repository state snapshots.
type Service struct {
	logger            *zap.Logger
	repositoryManager RepositoryManager
	fileSystem        FileSystem
}

// NewService validates dependencies and constructs an inspector.
func NewService(dependencies Dependencies) (*Service, error) {
	if dependencies.RepositoryManager == nil {
		return nil, ErrRepositoryManagerNotConfigured
	}
	if dependencies.FileSystem == nil {
		return nil, ErrFileSystemNotConfigured
	}

	logger := dependencies.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Service{
		logger:            logger,
		repositoryManager: dependencies.RepositoryManager,
		fileSystem:        dependencies.FileSystem,
	}, nil
}

// Inspect builds a fresh RepoState for the repository at repositoryPath,
// measuring divergence against the two supplied remote references and probing
// the artifact path. The inspection performs no network access and no mutation.
func (service *Service) Inspect(executionContext context.Context, repositoryPath string, localReference RemoteRef, upstreamReference RemoteRef, artifactPath string) (RepoState, error) {
	if ensureError := service.repositoryManager.EnsureRepository(executionContext, repositoryPath); ensureError != nil {
		return RepoState{}, ensureError
	}

	branchName, detached, branchError := service.repositoryManager.CurrentBranch(executionContext, repositoryPath)
	if branchError != nil {
		return RepoState{}, branchError
	}

	headCommit, headError := service.repositoryManager.HeadCommit(executionContext, repositoryPath)
	if headError != nil {
		return RepoState{}, headError
	}

	clean, cleanError := service.repositoryManager.CheckCleanWorktree(executionContext, repositoryPath)
	if cleanError != nil {
		return RepoState{}, cleanError
	}

	conflicted, conflictError := service.repositoryManager.HasUnmergedPaths(executionContext, repositoryPath)
	if conflictError != nil {
		return RepoState{}, conflictError
	}

	localPresent, localDivergence, localError := service.measureRemote(executionContext, repositoryPath, localReference)
	if localError != nil {
		return RepoState{}, localError
	}

	upstreamPresent, upstreamDivergence, upstreamError := service.measureRemote(executionContext, repositoryPath, upstreamReference)
	if upstreamError != nil {
		return RepoState{}, upstreamError
	}

	return RepoState{
		BranchName:            branchName,
		Detached:              detached,
		HeadCommit:            headCommit,
		Clean:                 clean,
		Conflicted:            conflicted,
		LocalRemotePresent:    localPresent,
		UpstreamRemotePresent: upstreamPresent,
		LocalDivergence:       localDivergence,
		UpstreamDivergence:    upstreamDivergence,
		BinaryExists:          service.artifactIsExecutable(artifactPath),
	}, nil
}

// measureRemote counts ahead/behind against one remote reference. A remote
// that is not configured yields zero counts rather than an error so status can
// still report overall health. An unresolvable remote branch, which happens
// before the first fetch, degrades to zero counts with a warning.
func (service *Service) measureRemote(executionContext context.Context, repositoryPath string, reference RemoteRef) (bool, forkrepo.Divergence, error) {
	remotePresent, remoteError := service.repositoryManager.HasRemote(executionContext, repositoryPath, reference.RemoteName)
	if remoteError != nil {
		return false, forkrepo.Divergence{}, remoteError
	}
	if !remotePresent {
		service.logger.Warn(
			remoteMissingMessageConstant,
			zap.String(logFieldRepositoryConstant, repositoryPath),
			zap.String(logFieldRemoteConstant, reference.RemoteName),
		)
		return false, forkrepo.Divergence{}, nil
	}

	divergence, divergenceError := service.repositoryManager.CountDivergence(executionContext, repositoryPath, headReferenceConstant, reference.Qualified())
	if divergenceError != nil {
		ambiguousError := forkrepo.AmbiguousRefError{}
		if errors.As(divergenceError, &ambiguousError) {
			service.logger.Warn(
				divergenceUnavailableMessageConstant,
				zap.String(logFieldRepositoryConstant, repositoryPath),
				zap.String(logFieldReferenceConstant, reference.Qualified()),
				zap.Error(divergenceError),
			)
			return true, forkrepo.Divergence{}, nil
		}
		return true, forkrepo.Divergence{}, divergenceError
	}

	return true, divergence, nil
}

func (service *Service) artifactIsExecutable(artifactPath string) bool {
	fileInformation, statError := service.fileSystem.Stat(artifactPath)
	if statError != nil {
		return false
	}
	fileMode := fileInformation.Mode()
	return fileMode.IsRegular() && fileMode.Perm()&executableModeMaskConstant != 0
}
