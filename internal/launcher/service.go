package launcher

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/temirov/forksmith/internal/builder"
	"github.com/temirov/forksmith/internal/forkcfg"
)

const (
	artifactBuilderMissingMessageConstant  = "artifact builder not configured"
	processLauncherMissingConstant         = "process launcher not configured"
	launcherFileSystemMissingConstant      = "file system not configured for launcher"
	workingDirectoryShortFlagConstant      = "-C"
	workingDirectoryLongFlagConstant       = "--cd"
	workingDirectoryAssignedFlagConstant   = "--cd="
	buildingMissingArtifactMessageConstant = "Artifact absent, building before launch"
	logFieldArtifactPathConstant           = "artifact"
)

// ErrArtifactBuilderNotConfigured indicates the service was built without a builder.
var ErrArtifactBuilderNotConfigured = errors.New(artifactBuilderMissingMessageConstant)

// ErrProcessLauncherNotConfigured indicates the service was built without a launcher.
var ErrProcessLauncherNotConfigured = errors.New(processLauncherMissingConstant)

// ErrFileSystemNotConfigured indicates the service was built without a file system.
var ErrFileSystemNotConfigured = errors.New(launcherFileSystemMissingConstant)

// ArtifactBuilder builds and probes the fork's artifact.
type ArtifactBuilder interface {
	Build(executionContext context.Context, configuration forkcfg.Configuration) (builder.Artifact, error)
	VerifyArtifact(configuration forkcfg.Configuration) builder.Artifact
}

// WorkingDirectoryResolver reports the invoking process's working directory.
type WorkingDirectoryResolver interface {
	Getwd() (string, error)
}

// Dependencies aggregates launch collaborators.
type Dependencies struct {
	Logger          *zap.Logger
	ArtifactBuilder ArtifactBuilder
	ProcessLauncher ProcessLauncher
	FileSystem      WorkingDirectoryResolver
}

// Service runs the artifact, building it on demand when absent.
type Service struct {
	logger          *zap.Logger
	artifactBuilder ArtifactBuilder
	processLauncher ProcessLauncher
	fileSystem      WorkingDirectoryResolver
}

// NewService validates dependencies and constructs a launch service.
func NewService(dependencies Dependencies) (*Service, error) {
	if dependencies.ArtifactBuilder == nil {
		return nil, ErrArtifactBuilderNotConfigured
	}
	if dependencies.ProcessLauncher == nil {
		return nil, ErrProcessLauncherNotConfigured
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
		artifactBuilder: dependencies.ArtifactBuilder,
		processLauncher: dependencies.ProcessLauncher,
		fileSystem:      dependencies.FileSystem,
	}, nil
}

// Run launches the artifact with the provided arguments, inheriting standard
// streams. A missing artifact triggers exactly one build attempt; a failed
// build propagates without launching anything. The child's non-zero exit code
// is returned as ChildExitError so the caller can adopt it.
func (service *Service) Run(executionContext context.Context, configuration forkcfg.Configuration, arguments []string) error {
	artifact := service.artifactBuilder.VerifyArtifact(configuration)
	if !artifact.Exists {
		service.logger.Info(
			buildingMissingArtifactMessageConstant,
			zap.String(logFieldArtifactPathConstant, artifact.Path),
		)
		builtArtifact, buildError := service.artifactBuilder.Build(executionContext, configuration)
		if buildError != nil {
			return buildError
		}
		artifact = builtArtifact
	}

	launchArguments, argumentError := service.prepareArguments(arguments)
	if argumentError != nil {
		return argumentError
	}

	exitCode, launchError := service.processLauncher.Launch(executionContext, artifact.Path, launchArguments)
	if launchError != nil {
		return launchError
	}
	if exitCode != 0 {
		return ChildExitError{ExitCode: exitCode}
	}
	return nil
}

// prepareArguments points the artifact at the invoking process's working
// directory unless the caller already selected one.
func (service *Service) prepareArguments(arguments []string) ([]string, error) {
	if containsWorkingDirectoryFlag(arguments) {
		return arguments, nil
	}

	workingDirectory, workingDirectoryError := service.fileSystem.Getwd()
	if workingDirectoryError != nil {
		return nil, workingDirectoryError
	}

	prepared := make([]string, 0, len(arguments)+2)
	prepared = append(prepared, workingDirectoryShortFlagConstant, workingDirectory)
	prepared = append(prepared, arguments...)
	return prepared, nil
}

func containsWorkingDirectoryFlag(arguments []string) bool {
	for _, argument := range arguments {
		if argument == workingDirectoryShortFlagConstant || argument == workingDirectoryLongFlagConstant {
			return true
		}
		if strings.HasPrefix(argument, workingDirectoryAssignedFlagConstant) {
			return true
		}
	}
	return false
}
