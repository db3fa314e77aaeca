package builder

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
	commandUseConstant              = "build"
	commandShortDescriptionConstant = "Build the fork artifact for the configured profile"
	commandLongDescriptionConstant  = "build runs the cargo build for the configured profile inside the fork workspace and verifies the expected artifact exists afterward. A dirty worktree warns but does not block."
	artifactPathTemplateConstant    = "%s\n"
)

// LoggerProvider supplies a zap logger instance.
type LoggerProvider func() *zap.Logger

// CommandBuilder assembles the build Cobra command.
type CommandBuilder struct {
	LoggerProvider        LoggerProvider
	ConfigurationProvider func() forkcfg.Configuration
	CommandRunner         execshell.CommandRunner
	EventObserverProvider func() execshell.CommandEventObserver
	FileSystem            FileSystem
}

// Build constructs the build command.
func (commandBuilder *CommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:           commandUseConstant,
		Short:         commandShortDescriptionConstant,
		Long:          commandLongDescriptionConstant,
		SilenceErrors: true,
		SilenceUsage:  true,
		Args:          cobra.NoArgs,
		RunE:          commandBuilder.runBuild,
	}
	return command, nil
}

func (commandBuilder *CommandBuilder) runBuild(command *cobra.Command, _ []string) error {
	configuration := commandBuilder.resolveConfiguration()
	logger := commandBuilder.resolveLogger()

	service, serviceError := commandBuilder.resolveService(logger)
	if serviceError != nil {
		return serviceError
	}

	artifact, buildError := service.Build(command.Context(), configuration)
	if buildError != nil {
		return buildError
	}

	fmt.Fprintf(command.OutOrStdout(), artifactPathTemplateConstant, artifact.Path)
	return nil
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
		Logger:          logger,
		CargoExecutor:   shellExecutor,
		FileSystem:      fileSystem,
		WorktreeChecker: repositoryManager,
	})
}
