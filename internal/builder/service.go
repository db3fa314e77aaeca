package builder

import (
	"context"
	"errors"
	"fmt"
	"io/fs"

	"go.uber.org/zap"

	"github.com/temirov/forksmith/internal/execshell"
	"github.com/temirov/forksmith/internal/forkcfg"
)

const (
	cargoExecutorMissingMessageConstant = "cargo executor not configured"
	builderFileSystemMissingConstant    = "file system not configured for builder"
	buildFailureMessageTemplateConstant = "build failed with exit code %d"
	artifactMissingTemplateConstant     = "expected artifact missing at %s"
	dirtyTreeBuildWarningConstant       = "Building despite uncommitted changes in the fork worktree"
	cargoBuildSubcommandConstant        = "build"
	cargoProfileFlagConstant            = "--profile"
	logFieldBuildRepositoryConstant     = "repository"
)

// ErrCargoExecutorNotConfigured indicates the service was built without a cargo executor.
var ErrCargoExecutorNotConfigured = errors.New(cargoExecutorMissingMessageConstant)

// ErrFileSystemNotConfigured indicates the service was built without a file system.
var ErrFileSystemNotConfigured = errors.New(builderFileSystemMissingConstant)

// BuildError reports a build tool invocation that exited unsuccessfully.
type BuildError struct {
	ExitCode int
	Cause    error
}

// Error describes the failed build.
func (buildError BuildError) Error() string {
	return fmt.Sprintf(buildFailureMessageTemplateConstant, buildError.ExitCode)
}

// Unwrap exposes the underlying command failure.
func (buildError BuildError) Unwrap() error {
	return buildError.Cause
}

// ArtifactMissingError reports a configured artifact path that does not exist.
type ArtifactMissingError struct {
	Path string
}

// Error describes the missing artifact.
func (missingError ArtifactMissingError) Error() string {
	return fmt.Sprintf(artifactMissingTemplateConstant, missingError.Path)
}

// Artifact describes the build output checked before and after an invocation.
type Artifact struct {
	Path    string
	Exists  bool
	Profile string
}

// CargoExecutor runs cargo commands.
type CargoExecutor interface {
	ExecuteCargo(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error)
}

// FileSystem probes artifact paths.
type FileSystem interface {
	Stat(path string) (fs.FileInfo, error)
}

// WorktreeChecker reports whether the repository worktree has pending changes.
type WorktreeChecker interface {
	CheckCleanWorktree(executionContext context.Context, repositoryPath string) (bool, error)
}

// Dependencies aggregates build collaborators. WorktreeChecker is optional;
// when present a dirty tree produces a warning but never blocks the build.
type Dependencies struct {
	Logger          *zap.Logger
	CargoExecutor   CargoExecutor
	FileSystem      FileSystem
	WorktreeChecker WorktreeChecker
}

// Service runs builds and verifies artifacts.
type Service struct {
	logger          *zap.Logger
	cargoExecutor   CargoExecutor
	fileSystem      FileSystem
	worktreeChecker WorktreeChecker
}

// NewService validates dependencies and constructs a build service.
func NewService(dependencies Dependencies) (*Service, error) {
	if dependencies.CargoExecutor == nil {
		return nil, ErrCargoExecutorNotConfigured
	}
	if dependencies.FileSystem == nil {
		return nil, ErrFileSystemNotConfigured
	}

	logger := dependencies.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Service{
		logger:          logger,
		cargoExecutor:   dependencies.CargoExecutor,
		fileSystem:      dependencies.FileSystem,
		worktreeChecker: dependencies.WorktreeChecker,
	}, nil
}

// Build invokes cargo for the configured profile inside the workspace
// directory and confirms the artifact exists afterward. A clean compiler exit
// with a missing artifact indicates a path configuration mismatch and is
// surfaced as ArtifactMissingError rather than BuildError.
func (service *Service) Build(executionContext context.Context, configuration forkcfg.Configuration) (Artifact, error) {
	service.warnWhenDirty(executionContext, configuration.Repository.Path)

	buildDetails := execshell.CommandDetails{
		Arguments:        []string{cargoBuildSubcommandConstant, cargoProfileFlagConstant, configuration.Build.Profile},
		WorkingDirectory: configuration.WorkspacePath(),
	}

	_, buildRunError := service.cargoExecutor.ExecuteCargo(executionContext, buildDetails)
	if buildRunError != nil {
		failedError := execshell.CommandFailedError{}
		if errors.As(buildRunError, &failedError) {
			return Artifact{}, BuildError{ExitCode: failedError.Result.ExitCode, Cause: buildRunError}
		}
		return Artifact{}, buildRunError
	}

	artifactPath := configuration.BinaryPath()
	if !service.artifactExists(artifactPath) {
		return Artifact{}, ArtifactMissingError{Path: artifactPath}
	}

	return Artifact{Path: artifactPath, Exists: true, Profile: configuration.Build.Profile}, nil
}

// VerifyArtifact reports the artifact state without building.
func (service *Service) VerifyArtifact(configuration forkcfg.Configuration) Artifact {
	artifactPath := configuration.BinaryPath()
	return Artifact{
		Path:    artifactPath,
		Exists:  service.artifactExists(artifactPath),
		Profile: configuration.Build.Profile,
	}
}

func (service *Service) warnWhenDirty(executionContext context.Context, repositoryPath string) {
	if service.worktreeChecker == nil {
		return
	}
	clean, cleanError := service.worktreeChecker.CheckCleanWorktree(executionContext, repositoryPath)
	if cleanError != nil || clean {
		return
	}
	service.logger.Warn(
		dirtyTreeBuildWarningConstant,
		zap.String(logFieldBuildRepositoryConstant, repositoryPath),
	)
}

func (service *Service) artifactExists(artifactPath string) bool {
	fileInformation, statError := service.fileSystem.Stat(artifactPath)
	if statError != nil {
		return false
	}
	return fileInformation.Mode().IsRegular()
}
