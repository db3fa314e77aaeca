package inspect

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/forksmith/internal/execshell"
	"github.com/temirov/forksmith/internal/filesystem"
	"github.com/temirov/forksmith/internal/forkcfg"
	"github.com/temirov/forksmith/internal/forkrepo"
)

const (
	commandUseConstant              = "status"
	commandShortDescriptionConstant = "Report fork state against both remotes"
	commandLongDescriptionConstant  = "status prints the current branch, head commit, cleanliness, divergence against the push and upstream remotes, conflict state, and artifact presence for the vendored fork."
	branchReportTemplateConstant    = "branch: %s\n"
	detachedBranchLabelConstant     = "(detached)"
	headReportTemplateConstant      = "head: %s\n"
	cleanReportTemplateConstant     = "clean: %t\n"
	conflictReportTemplateConstant  = "conflict: %t\n"
	remoteReportTemplateConstant    = "%s %s: ahead %d, behind %d\n"
	remoteMissingTemplateConstant   = "%s %s: remote missing\n"
	localRemoteLabelConstant        = "local"
	upstreamRemoteLabelConstant     = "upstream"
	artifactReportTemplateConstant  = "artifact %s: %s\n"
	artifactPresentLabelConstant    = "present"
	artifactAbsentLabelConstant     = "missing"
)

// LoggerProvider supplies a zap logger instance.
type LoggerProvider func() *zap.Logger

// CommandBuilder assembles the status Cobra command.
type CommandBuilder struct {
	LoggerProvider        LoggerProvider
	ConfigurationProvider func() forkcfg.Configuration
	CommandRunner         execshell.CommandRunner
	EventObserverProvider func() execshell.CommandEventObserver
	FileSystem            FileSystem
}

// Build constructs the status command.
func (commandBuilder *CommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:           commandUseConstant,
		Short:         commandShortDescriptionConstant,
		Long:          commandLongDescriptionConstant,
		SilenceErrors: true,
		SilenceUsage:  true,
		Args:          cobra.NoArgs,
		RunE:          commandBuilder.runStatus,
	}
	return command, nil
}

func (commandBuilder *CommandBuilder) runStatus(command *cobra.Command, _ []string) error {
	configuration := commandBuilder.resolveConfiguration()
	logger := commandBuilder.resolveLogger()

	service, serviceError := commandBuilder.resolveService(logger)
	if serviceError != nil {
		return serviceError
	}

	localReference := RemoteRef{RemoteName: configuration.Repository.LocalRemote, BranchName: configuration.Repository.LocalBranch}
	upstreamReference := RemoteRef{RemoteName: configuration.Repository.UpstreamRemote, BranchName: configuration.Repository.UpstreamBranch}

	repositoryState, inspectionError := service.Inspect(command.Context(), configuration.Repository.Path, localReference, upstreamReference, configuration.BinaryPath())
	if inspectionError != nil {
		return inspectionError
	}

	writeStatusReport(command, repositoryState, localReference, upstreamReference, configuration.BinaryPath())

	if repositoryState.Conflicted {
		return ConflictError{Path: configuration.Repository.Path}
	}
	if !repositoryState.BinaryExists {
		return ArtifactMissingError{Path: configuration.BinaryPath()}
	}
	return nil
}

func writeStatusReport(command *cobra.Command, repositoryState RepoState, localReference RemoteRef, upstreamReference RemoteRef, artifactPath string) {
	branchLabel := repositoryState.BranchName
	if repositoryState.Detached {
		branchLabel = detachedBranchLabelConstant
	}
	fmt.Fprintf(command.OutOrStdout(), branchReportTemplateConstant, branchLabel)
	fmt.Fprintf(command.OutOrStdout(), headReportTemplateConstant, repositoryState.HeadCommit)
	fmt.Fprintf(command.OutOrStdout(), cleanReportTemplateConstant, repositoryState.Clean)
	fmt.Fprintf(command.OutOrStdout(), conflictReportTemplateConstant, repositoryState.Conflicted)
	writeRemoteReport(command, localRemoteLabelConstant, localReference, repositoryState.LocalRemotePresent, repositoryState.LocalDivergence)
	writeRemoteReport(command, upstreamRemoteLabelConstant, upstreamReference, repositoryState.UpstreamRemotePresent, repositoryState.UpstreamDivergence)

	artifactLabel := artifactAbsentLabelConstant
	if repositoryState.BinaryExists {
		artifactLabel = artifactPresentLabelConstant
	}
	fmt.Fprintf(command.OutOrStdout(), artifactReportTemplateConstant, artifactPath, artifactLabel)
}

func writeRemoteReport(command *cobra.Command, remoteLabel string, reference RemoteRef, remotePresent bool, divergence forkrepo.Divergence) {
	if !remotePresent {
		fmt.Fprintf(command.OutOrStdout(), remoteMissingTemplateConstant, remoteLabel, reference.Qualified())
		return
	}
	fmt.Fprintf(command.OutOrStdout(), remoteReportTemplateConstant, remoteLabel, reference.Qualified(), divergence.Ahead, divergence.Behind)
}

func (commandBuilder *CommandBuilder) configureEventObserver(shellExecutor *execshell.ShellExecutor) {
	if commandBuilder.EventObserverProvider == nil {
		return
	}
	if eventObserver := commandBuilder.EventObserverProvider(); eventObserver != nil {
		shellExecutor.UseEventObserver(eventObserver)
	}
}

func (commandBuilder *CommandBuilder) resolveConfiguration() forkcfg.Configuration {
	if commandBuilder.ConfigurationProvider == nil {
		return forkcfg.DefaultConfiguration()
	}
	return commandBuilder.ConfigurationProvider().Sanitize()
}

func (commandBuilder *CommandBuilder) resolveLogger() *zap.Logger {
	if commandBuilder.LoggerProvider != nil {
		if logger := commandBuilder.LoggerProvider(); logger != nil {
			return logger
		}
	}
	return zap.NewNop()
}

func (commandBuilder *CommandBuilder) resolveService(logger *zap.Logger) (*Service, error) {
	commandRunner := commandBuilder.CommandRunner
	if commandRunner == nil {
		commandRunner = execshell.NewOSCommandRunner()
	}

	shellExecutor, executorError := execshell.NewShellExecutor(logger, commandRunner)
	if executorError != nil {
		return nil, executorError
	}
	commandBuilder.configureEventObserver(shellExecutor)

	repositoryManager, managerError := forkrepo.NewRepositoryManager(shellExecutor)
	if managerError != nil {
		return nil, managerError
	}

	fileSystem := commandBuilder.FileSystem
	if fileSystem == nil {
		fileSystem = filesystem.NewOSFileSystem()
	}

	return NewService(Dependencies{
		Logger:            logger,
		RepositoryManager: repositoryManager,
		FileSystem:        fileSystem,
	})
}
