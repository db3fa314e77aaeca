package syncer

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/forksmith/internal/execshell"
	"github.com/temirov/forksmith/internal/filesystem"
	"github.com/temirov/forksmith/internal/forkcfg"
	"github.com/temirov/forksmith/internal/forkrepo"
	"github.com/temirov/forksmith/internal/inspect"
)

const (
	commandUseConstant               = "sync"
	commandShortDescriptionConstant  = "Fetch both remotes and fast-forward the fork when safe"
	commandLongDescriptionConstant   = "sync fetches the push and upstream remotes, classifies the fork's divergence, and fast-forwards the local branch to the upstream tip when local history has no unique commits. The classification is printed as a single SYNC_RESULT line."
	dryRunFlagNameConstant           = "dry-run"
	dryRunFlagUsageConstant          = "Report the outcome without mutating refs or the worktree"
	resultLineOutputTemplateConstant = "%s\n"
)

// LoggerProvider supplies a zap logger instance.
type LoggerProvider func() *zap.Logger

// CommandBuilder assembles the sync Cobra command.
type CommandBuilder struct {
	LoggerProvider        LoggerProvider
	ConfigurationProvider func() forkcfg.Configuration
	CommandRunner         execshell.CommandRunner
	EventObserverProvider func() execshell.CommandEventObserver
	FileSystem            inspect.FileSystem
}

// Build constructs the sync command.
func (commandBuilder *CommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:           commandUseConstant,
		Short:         commandShortDescriptionConstant,
		Long:          commandLongDescriptionConstant,
		SilenceErrors: true,
		SilenceUsage:  true,
		Args:          cobra.NoArgs,
		RunE:          commandBuilder.runSync,
	}
	command.Flags().Bool(dryRunFlagNameConstant, false, dryRunFlagUsageConstant)
	return command, nil
}

func (commandBuilder *CommandBuilder) runSync(command *cobra.Command, _ []string) error {
	configuration := commandBuilder.resolveConfiguration()
	logger := commandBuilder.resolveLogger()

	dryRun, flagError := command.Flags().GetBool(dryRunFlagNameConstant)
	if flagError != nil {
		return flagError
	}

	service, serviceError := commandBuilder.resolveService(logger)
	if serviceError != nil {
		return serviceError
	}

	outcome, syncError := service.Sync(command.Context(), configuration, dryRun)
	if syncError != nil {
		return syncError
	}

	fmt.Fprintf(command.OutOrStdout(), resultLineOutputTemplateConstant, RenderResultLine(outcome))

	if outcome.Kind == OutcomeConflict {
		return inspect.ConflictError{Path: configuration.Repository.Path}
	}
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

	inspector, inspectorError := inspect.NewService(inspect.Dependencies{
		Logger:            logger,
		RepositoryManager: repositoryManager,
		FileSystem:        fileSystem,
	})
	if inspectorError != nil {
		return nil, inspectorError
	}

	return NewService(Dependencies{
		Logger:            logger,
		RepositoryManager: repositoryManager,
		Inspector:         inspector,
	})
}
