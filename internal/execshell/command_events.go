package execshell

// CommandEventObserver receives lifecycle notifications for every git and
// cargo invocation the executor performs. The sync and status commands attach
// a console narrator here when human-readable output is configured.
type CommandEventObserver interface {
	// CommandStarted notifies observers that command execution is beginning.
	CommandStarted(command ShellCommand)
	// CommandCompleted notifies observers that command execution finished and supplies the result.
	CommandCompleted(command ShellCommand, result ExecutionResult)
	// CommandExecutionFailed reports unexpected failures prior to receiving an execution result.
	CommandExecutionFailed(command ShellCommand, failure error)
}

// discardingCommandEventObserver swallows all command events. It stands in
// whenever no observer has been attached.
type discardingCommandEventObserver struct{}

var _ CommandEventObserver = discardingCommandEventObserver{}

func (discardingCommandEventObserver) CommandStarted(ShellCommand) {}

func (discardingCommandEventObserver) CommandCompleted(ShellCommand, ExecutionResult) {}

func (discardingCommandEventObserver) CommandExecutionFailed(ShellCommand, error) {}
