package syncer

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/temirov/forksmith/internal/forkcfg"
	"github.com/temirov/forksmith/internal/forkrepo"
	"github.com/temirov/forksmith/internal/inspect"
)

const (
	syncRepositoryManagerMissingConstant = "repository manager not configured for sync"
	inspectorMissingMessageConstant      = "inspector not configured for sync"
	dirtyTreeMessageTemplateConstant     = "working tree has uncommitted changes in %s"
	detachedHeadReferenceConstant        = "HEAD"
	missingRemoteLogMessageConstant      = "Tracked remote missing, sync cannot proceed"
	fastForwardLogMessageConstant        = "Fast-forwarded local branch"
	dryRunFastForwardLogMessageConstant  = "Fast-forward eligible, skipping under dry run"
	logFieldSyncRepositoryConstant       = "repository"
	logFieldSyncRemoteConstant           = "remote"
	logFieldFromCommitConstant           = "from"
	logFieldToCommitConstant             = "to"
)

// ErrRepositoryManagerNotConfigured indicates the service was built without a repository manager.
var ErrRepositoryManagerNotConfigured = errors.New(syncRepositoryManagerMissingConstant)

// ErrInspectorNotConfigured indicates the service was built without an inspector.
var ErrInspectorNotConfigured = errors.New(inspectorMissingMessageConstant)

// DirtyTreeError reports a mutation refused because the working tree has
// pending changes.
type DirtyTreeError struct {
	Path string
}

// Error describes the dirty worktree.
func (dirtyError DirtyTreeError) Error() string {
	return fmt.Sprintf(dirtyTreeMessageTemplateConstant, dirtyError.Path)
}

// RepositoryManager describes the repository operations the orchestrator requires.
type RepositoryManager interface {
	EnsureRepository(executionContext context.Context, repositoryPath string) error
	CurrentBranch(executionContext context.Context, repositoryPath string) (string, bool, error)
	HasRemote(executionContext context.Context, repositoryPath string, remoteName string) (bool, error)
	Fetch(executionContext context.Context, repositoryPath string, remoteName string) error
	CheckCleanWorktree(executionContext context.Context, repositoryPath string) (bool, error)
	ResolveCommit(executionContext context.Context, repositoryPath string, reference string) (string, error)
	FastForward(executionContext context.Context, repositoryPath string, targetReference string) error
}

// Inspector computes post-fetch repository state snapshots.
type Inspector interface {
	Inspect(executionContext context.Context, repositoryPath string, localReference inspect.RemoteRef, upstreamReference inspect.RemoteRef, artifactPath string) (inspect.RepoState, error)
}

// Dependencies aggregates orchestrator collaborators.
type Dependencies struct {
	Logger            *zap.Logger
	RepositoryManager RepositoryManager
	Inspector         Inspector
}

// Service performs the sync protocol: fetch, inspect, classify, and
// fast-forward when safe.
type Service struct {
	logger            *zap.Logger
	repositoryManager RepositoryManager
	inspector         Inspector
}

// NewService validates dependencies and constructs an orchestrator.
func NewService(dependencies Dependencies) (*Service, error) {
	if dependencies.RepositoryManager == nil {
		return nil, ErrRepositoryManagerNotConfigured
	}
	if dependencies.Inspector == nil {
		return nil, ErrInspectorNotConfigured
	}

	logger := dependencies.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Service{
		logger:            logger,
		repositoryManager: dependencies.RepositoryManager,
		inspector:         dependencies.Inspector,
	}, nil
}

// Sync fetches both remotes, recomputes repository state, and classifies it
// into exactly one Outcome. Fast-forward moves the local branch pointer to the
// upstream tip only when the tree is clean and local history has no unique
// commits relative to upstream. Under dry run the same outcome is reported
// without mutating anything.
func (service *Service) Sync(executionContext context.Context, configuration forkcfg.Configuration, dryRun bool) (Outcome, error) {
	repositoryPath := configuration.Repository.Path

	if ensureError := service.repositoryManager.EnsureRepository(executionContext, repositoryPath); ensureError != nil {
		return Outcome{}, ensureError
	}

	_, detached, branchError := service.repositoryManager.CurrentBranch(executionContext, repositoryPath)
	if branchError != nil {
		return Outcome{}, branchError
	}
	if detached {
		return Outcome{}, forkrepo.AmbiguousRefError{Reference: detachedHeadReferenceConstant}
	}

	localReference := inspect.RemoteRef{RemoteName: configuration.Repository.LocalRemote, BranchName: configuration.Repository.LocalBranch}
	upstreamReference := inspect.RemoteRef{RemoteName: configuration.Repository.UpstreamRemote, BranchName: configuration.Repository.UpstreamBranch}

	missingRemote, missingError := service.findMissingRemote(executionContext, repositoryPath, localReference, upstreamReference)
	if missingError != nil {
		return Outcome{}, missingError
	}
	if len(missingRemote) > 0 {
		service.logger.Warn(
			missingRemoteLogMessageConstant,
			zap.String(logFieldSyncRepositoryConstant, repositoryPath),
			zap.String(logFieldSyncRemoteConstant, missingRemote),
		)
		return Outcome{Kind: OutcomeMissingRemote, DryRun: dryRun}, nil
	}

	for _, remoteName := range []string{localReference.RemoteName, upstreamReference.RemoteName} {
		if fetchError := service.repositoryManager.Fetch(executionContext, repositoryPath, remoteName); fetchError != nil {
			return Outcome{}, fetchError
		}
	}

	repositoryState, inspectionError := service.inspector.Inspect(executionContext, repositoryPath, localReference, upstreamReference, configuration.BinaryPath())
	if inspectionError != nil {
		return Outcome{}, inspectionError
	}

	return service.classify(executionContext, repositoryPath, repositoryState, upstreamReference, dryRun)
}

func (service *Service) findMissingRemote(executionContext context.Context, repositoryPath string, references ...inspect.RemoteRef) (string, error) {
	for _, reference := range references {
		remotePresent, remoteError := service.repositoryManager.HasRemote(executionContext, repositoryPath, reference.RemoteName)
		if remoteError != nil {
			return "", remoteError
		}
		if !remotePresent {
			return reference.RemoteName, nil
		}
	}
	return "", nil
}

// classify selects the single outcome for the snapshot. First match wins:
// conflict, dirty, up to date, fast-forward eligible, needs push, diverged.
// Local history ahead of upstream with nothing to push falls through to up to
// date since no action is required.
func (service *Service) classify(executionContext context.Context, repositoryPath string, repositoryState inspect.RepoState, upstreamReference inspect.RemoteRef, dryRun bool) (Outcome, error) {
	if repositoryState.Conflicted {
		return Outcome{Kind: OutcomeConflict, DryRun: dryRun}, nil
	}
	if !repositoryState.Clean {
		return Outcome{Kind: OutcomeDirty, DryRun: dryRun}, nil
	}

	aheadUpstream := repositoryState.UpstreamDivergence.Ahead
	behindUpstream := repositoryState.UpstreamDivergence.Behind

	if aheadUpstream == 0 && behindUpstream == 0 {
		return Outcome{Kind: OutcomeUpToDate, DryRun: dryRun}, nil
	}

	if behindUpstream > 0 && aheadUpstream == 0 {
		return service.performFastForward(executionContext, repositoryPath, repositoryState, upstreamReference, dryRun)
	}

	if aheadUpstream > 0 && behindUpstream > 0 {
		return Outcome{Kind: OutcomeDiverged, DryRun: dryRun}, nil
	}

	if repositoryState.LocalDivergence.Ahead > 0 {
		return Outcome{Kind: OutcomeNeedsPush, DryRun: dryRun}, nil
	}

	return Outcome{Kind: OutcomeUpToDate, DryRun: dryRun}, nil
}

func (service *Service) performFastForward(executionContext context.Context, repositoryPath string, repositoryState inspect.RepoState, upstreamReference inspect.RemoteRef, dryRun bool) (Outcome, error) {
	upstreamTip, resolveError := service.repositoryManager.ResolveCommit(executionContext, repositoryPath, upstreamReference.Qualified())
	if resolveError != nil {
		return Outcome{}, resolveError
	}

	outcome := Outcome{
		Kind:       OutcomeFastForwarded,
		DryRun:     dryRun,
		FromCommit: repositoryState.HeadCommit,
		ToCommit:   upstreamTip,
	}

	if dryRun {
		service.logger.Info(
			dryRunFastForwardLogMessageConstant,
			zap.String(logFieldSyncRepositoryConstant, repositoryPath),
			zap.String(logFieldFromCommitConstant, outcome.FromCommit),
			zap.String(logFieldToCommitConstant, outcome.ToCommit),
		)
		return outcome, nil
	}

	clean, cleanError := service.repositoryManager.CheckCleanWorktree(executionContext, repositoryPath)
	if cleanError != nil {
		return Outcome{}, cleanError
	}
	if !clean {
		return Outcome{}, DirtyTreeError{Path: repositoryPath}
	}

	if forwardError := service.repositoryManager.FastForward(executionContext, repositoryPath, upstreamReference.Qualified()); forwardError != nil {
		return Outcome{}, forwardError
	}

	service.logger.Info(
		fastForwardLogMessageConstant,
		zap.String(logFieldSyncRepositoryConstant, repositoryPath),
		zap.String(logFieldFromCommitConstant, outcome.FromCommit),
		zap.String(logFieldToCommitConstant, outcome.ToCommit),
	)
	return outcome, nil
}
