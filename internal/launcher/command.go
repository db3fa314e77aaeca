package launcher

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/forksmith/internal/builder"
	"github.com/temirov/forksmith/internal/execshell"
	"github.com/temirov/forksmith/internal/filesystem"
	"github.com/temirov/forksmith/internal/forkcfg"
	"github.com/temirov/forksmith/internal/forkrepo"
)

const (
	commandUseConstant              = "run -- [arguments]"
	commandShortDescriptionConstant = "Execute the fork artifact, building it first when absent"
	commandLongDescriptionConstant  = "run launches the built fork binary with the provided arguments and inherited standard streams. When the artifact is absent a single build is attempted first; the child's exit code becomes this process's exit code."
)

// LoggerProvider supplies a zap logger instance.
type LoggerProvider func() *zap.Logger

// FileSystem combines the probes the run command needs.
type FileSystem interface {
	builder.FileSystem
	WorkingDirectoryResolver
}

// CommandBuilder assembles the run Cobra command.
type CommandBuilder struct {
	LoggerProvider        LoggerProvider
	ConfigurationProvider func() forkcfg.Configuration
	CommandRunner         execshell.CommandRunner
	EventObserverProvider func() execshell.CommandEventObserver
	ProcessLauncher       ProcessLauncher
	FileSystem            FileSystem
}

// Build constructs the run command.
func (commandBuilder *CommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:           commandUseConstant,
		Short:         commandShortDescriptionConstant,
		Long:          commandLongDescriptionConstant,
		SilenceErrors: true,
		SilenceUsage:  true,
		Args:          cobra.ArbitraryArgs,
		RunE:          commandBuilder.runLaunch,
	}
	return command, nil
}

func (commandBuilder *CommandBuilder) runLaunch(command *cobra.Command, arguments []string) error {
	configuration := commandBuilder.resolveConfiguration()
	logger := commandBuilder.resolveLogger()

	service, serviceError := commandBuilder.resolveService(logger)
	if serviceError != nil {
		return serviceError
	}

	return service.Run(command.Context(), configuration, arguments)
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

	buildService, buildServiceError := builder.NewService(builder.Dependencies{
		Logger:          logger,
		CargoExecutor:   shellExecutor,
		FileSystem:      fileSystem,
		WorktreeChecker: repositoryManager,
	})
	if buildServiceError != nil {
		return nil, buildServiceError
	}

	processLauncher := commandBuilder.ProcessLauncher
	if processLauncher == nil {
		processLauncher = NewOSProcessLauncher()
	}

	return NewService(Dependencies{
		Logger:          logger,
		ArtifactBuilder: buildService,
		ProcessLauncher: processLauncher,
		FileSystem:      fileSystem,
	})
}
