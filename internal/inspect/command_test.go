package inspect_test

import (
	"bytes"
	"context"
	"io/fs"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/temirov/forksmith/internal/execshell"
	"github.com/temirov/forksmith/internal/forkcfg"
	"github.com/temirov/forksmith/internal/inspect"
)

type scriptedCommandRunner struct {
	responses map[string]execshell.ExecutionResult
}

func (runner *scriptedCommandRunner) Run(_ context.Context, command execshell.ShellCommand) (execshell.ExecutionResult, error) {
	key := strings.Join(command.Details.Arguments, " ")
	response, scripted := runner.responses[key]
	if !scripted {
		return execshell.ExecutionResult{}, nil
	}
	return response, nil
}

func cleanRepositoryResponses() map[string]execshell.ExecutionResult {
	return map[string]execshell.ExecutionResult{
		"rev-parse --is-inside-work-tree":                    {StandardOutput: "true\n"},
		"rev-parse --abbrev-ref HEAD":                        {StandardOutput: "main\n"},
		"rev-parse HEAD":                                     {StandardOutput: "abc123\n"},
		"status --porcelain":                                 {},
		"diff --name-only --diff-filter=U":                   {},
		"remote":                                             {StandardOutput: "origin\nupstream\n"},
		"rev-list --left-right --count HEAD...origin/main":   {StandardOutput: "0\t0\n"},
		"rev-list --left-right --count HEAD...upstream/main": {StandardOutput: "0\t2\n"},
	}
}

func TestStatusCommandReportsStateAndArtifact(t *testing.T) {
	commandBuilder := inspect.CommandBuilder{
		LoggerProvider:        func() *zap.Logger { return zap.NewNop() },
		ConfigurationProvider: forkcfg.DefaultConfiguration,
		CommandRunner:         &scriptedCommandRunner{responses: cleanRepositoryResponses()},
		FileSystem:            &stubFileSystem{entries: map[string]fs.FileMode{"vendor/fork/target/release/fork": 0o755}},
	}

	statusCommand, buildError := commandBuilder.Build()
	require.NoError(t, buildError)

	outputBuffer := &bytes.Buffer{}
	statusCommand.SetOut(outputBuffer)
	statusCommand.SetContext(context.Background())

	executionError := statusCommand.RunE(statusCommand, nil)
	require.NoError(t, executionError)

	reportedOutput := outputBuffer.String()
	require.Contains(t, reportedOutput, "branch: main")
	require.Contains(t, reportedOutput, "head: abc123")
	require.Contains(t, reportedOutput, "clean: true")
	require.Contains(t, reportedOutput, "conflict: false")
	require.Contains(t, reportedOutput, "local origin/main: ahead 0, behind 0")
	require.Contains(t, reportedOutput, "upstream upstream/main: ahead 0, behind 2")
	require.Contains(t, reportedOutput, "artifact vendor/fork/target/release/fork: present")
}

func TestStatusCommandFailsWhenArtifactMissing(t *testing.T) {
	commandBuilder := inspect.CommandBuilder{
		LoggerProvider:        func() *zap.Logger { return zap.NewNop() },
		ConfigurationProvider: forkcfg.DefaultConfiguration,
		CommandRunner:         &scriptedCommandRunner{responses: cleanRepositoryResponses()},
		FileSystem:            &stubFileSystem{},
	}

	statusCommand, buildError := commandBuilder.Build()
	require.NoError(t, buildError)

	outputBuffer := &bytes.Buffer{}
	statusCommand.SetOut(outputBuffer)
	statusCommand.SetContext(context.Background())

	executionError := statusCommand.RunE(statusCommand, nil)
	artifactMissingError := inspect.ArtifactMissingError{}
	require.ErrorAs(t, executionError, &artifactMissingError)
	require.Equal(t, "vendor/fork/target/release/fork", artifactMissingError.Path)
	require.Contains(t, outputBuffer.String(), "artifact vendor/fork/target/release/fork: missing")
}

func TestStatusCommandFailsOnConflictBeforeArtifact(t *testing.T) {
	responses := cleanRepositoryResponses()
	responses["status --porcelain"] = execshell.ExecutionResult{StandardOutput: "UU src/lib.rs\n"}
	responses["diff --name-only --diff-filter=U"] = execshell.ExecutionResult{StandardOutput: "src/lib.rs\n"}

	commandBuilder := inspect.CommandBuilder{
		LoggerProvider:        func() *zap.Logger { return zap.NewNop() },
		ConfigurationProvider: forkcfg.DefaultConfiguration,
		CommandRunner:         &scriptedCommandRunner{responses: responses},
		FileSystem:            &stubFileSystem{},
	}

	statusCommand, buildError := commandBuilder.Build()
	require.NoError(t, buildError)

	outputBuffer := &bytes.Buffer{}
	statusCommand.SetOut(outputBuffer)
	statusCommand.SetContext(context.Background())

	executionError := statusCommand.RunE(statusCommand, nil)
	conflictError := inspect.ConflictError{}
	require.ErrorAs(t, executionError, &conflictError)
	require.Equal(t, "vendor/fork", conflictError.Path)
	require.Contains(t, outputBuffer.String(), "conflict: true")
}

type recordingEventObserver struct {
	startedCommands   []execshell.ShellCommand
	completedCommands []execshell.ShellCommand
}

func (eventObserver *recordingEventObserver) CommandStarted(command execshell.ShellCommand) {
	eventObserver.startedCommands = append(eventObserver.startedCommands, command)
}

func (eventObserver *recordingEventObserver) CommandCompleted(command execshell.ShellCommand, _ execshell.ExecutionResult) {
	eventObserver.completedCommands = append(eventObserver.completedCommands, command)
}

func (eventObserver *recordingEventObserver) CommandExecutionFailed(execshell.ShellCommand, error) {}

func TestStatusCommandNotifiesEventObserver(t *testing.T) {
	eventObserver := &recordingEventObserver{}
	commandBuilder := inspect.CommandBuilder{
		LoggerProvider:        func() *zap.Logger { return zap.NewNop() },
		ConfigurationProvider: forkcfg.DefaultConfiguration,
		CommandRunner:         &scriptedCommandRunner{responses: cleanRepositoryResponses()},
		EventObserverProvider: func() execshell.CommandEventObserver { return eventObserver },
		FileSystem:            &stubFileSystem{entries: map[string]fs.FileMode{"vendor/fork/target/release/fork": 0o755}},
	}

	statusCommand, buildError := commandBuilder.Build()
	require.NoError(t, buildError)

	outputBuffer := &bytes.Buffer{}
	statusCommand.SetOut(outputBuffer)
	statusCommand.SetContext(context.Background())

	executionError := statusCommand.RunE(statusCommand, nil)
	require.NoError(t, executionError)

	require.NotEmpty(t, eventObserver.startedCommands)
	require.Len(t, eventObserver.completedCommands, len(eventObserver.startedCommands))
	require.Equal(t, execshell.CommandGit, eventObserver.startedCommands[0].Name)
}

func TestStatusCommandReportsDetachedHead(t *testing.T) {
	responses := cleanRepositoryResponses()
	responses["rev-parse --abbrev-ref HEAD"] = execshell.ExecutionResult{StandardOutput: "HEAD\n"}

	commandBuilder := inspect.CommandBuilder{
		LoggerProvider:        func() *zap.Logger { return zap.NewNop() },
		ConfigurationProvider: forkcfg.DefaultConfiguration,
		CommandRunner:         &scriptedCommandRunner{responses: responses},
		FileSystem:            &stubFileSystem{entries: map[string]fs.FileMode{"vendor/fork/target/release/fork": 0o755}},
	}

	statusCommand, buildError := commandBuilder.Build()
	require.NoError(t, buildError)

	outputBuffer := &bytes.Buffer{}
	statusCommand.SetOut(outputBuffer)
	statusCommand.SetContext(context.Background())

	executionError := statusCommand.RunE(statusCommand, nil)
	require.NoError(t, executionError)
	require.Contains(t, outputBuffer.String(), "branch: (detached)")
}
