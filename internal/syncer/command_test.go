package syncer_test

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/temirov/forksmith/internal/execshell"
	"github.com/temirov/forksmith/internal/forkcfg"
	"github.com/temirov/forksmith/internal/inspect"
	"github.com/temirov/forksmith/internal/syncer"
)

type scriptedCommandRunner struct {
	responses map[string]execshell.ExecutionResult
	recorded  []string
}

func (runner *scriptedCommandRunner) Run(_ context.Context, command execshell.ShellCommand) (execshell.ExecutionResult, error) {
	key := strings.Join(command.Details.Arguments, " ")
	runner.recorded = append(runner.recorded, key)
	response, scripted := runner.responses[key]
	if !scripted {
		return execshell.ExecutionResult{}, nil
	}
	return response, nil
}

func fastForwardEligibleResponses() map[string]execshell.ExecutionResult {
	return map[string]execshell.ExecutionResult{
		"rev-parse --is-inside-work-tree":                    {StandardOutput: "true\n"},
		"rev-parse --abbrev-ref HEAD":                        {StandardOutput: "main\n"},
		"rev-parse HEAD":                                     {StandardOutput: "abc123\n"},
		"rev-parse upstream/main":                            {StandardOutput: "def456\n"},
		"status --porcelain":                                 {},
		"diff --name-only --diff-filter=U":                   {},
		"remote":                                             {StandardOutput: "origin\nupstream\n"},
		"rev-list --left-right --count HEAD...origin/main":   {StandardOutput: "0\t3\n"},
		"rev-list --left-right --count HEAD...upstream/main": {StandardOutput: "0\t3\n"},
	}
}

func TestSyncCommandEmitsResultLine(t *testing.T) {
	runner := &scriptedCommandRunner{responses: fastForwardEligibleResponses()}
	commandBuilder := syncer.CommandBuilder{
		LoggerProvider:        func() *zap.Logger { return zap.NewNop() },
		ConfigurationProvider: forkcfg.DefaultConfiguration,
		CommandRunner:         runner,
	}

	syncCommand, buildError := commandBuilder.Build()
	require.NoError(t, buildError)

	outputBuffer := &bytes.Buffer{}
	syncCommand.SetOut(outputBuffer)
	syncCommand.SetContext(context.Background())

	executionError := syncCommand.RunE(syncCommand, nil)
	require.NoError(t, executionError)
	require.Equal(t, "SYNC_RESULT outcome=fast_forwarded dry_run=false from=abc123 to=def456\n", outputBuffer.String())
	require.Contains(t, runner.recorded, "merge --ff-only upstream/main")
}

func TestSyncCommandDryRunSkipsMutation(t *testing.T) {
	runner := &scriptedCommandRunner{responses: fastForwardEligibleResponses()}
	commandBuilder := syncer.CommandBuilder{
		LoggerProvider:        func() *zap.Logger { return zap.NewNop() },
		ConfigurationProvider: forkcfg.DefaultConfiguration,
		CommandRunner:         runner,
	}

	syncCommand, buildError := commandBuilder.Build()
	require.NoError(t, buildError)

	outputBuffer := &bytes.Buffer{}
	syncCommand.SetOut(outputBuffer)
	syncCommand.SetContext(context.Background())
	require.NoError(t, syncCommand.Flags().Set("dry-run", "true"))

	executionError := syncCommand.RunE(syncCommand, nil)
	require.NoError(t, executionError)
	require.Equal(t, "SYNC_RESULT outcome=fast_forwarded dry_run=true from=abc123 to=def456\n", outputBuffer.String())
	require.NotContains(t, runner.recorded, "merge --ff-only upstream/main")
}

func TestSyncCommandSignalsConflict(t *testing.T) {
	responses := fastForwardEligibleResponses()
	responses["status --porcelain"] = execshell.ExecutionResult{StandardOutput: "UU src/lib.rs\n"}
	responses["diff --name-only --diff-filter=U"] = execshell.ExecutionResult{StandardOutput: "src/lib.rs\n"}

	runner := &scriptedCommandRunner{responses: responses}
	commandBuilder := syncer.CommandBuilder{
		LoggerProvider:        func() *zap.Logger { return zap.NewNop() },
		ConfigurationProvider: forkcfg.DefaultConfiguration,
		CommandRunner:         runner,
	}

	syncCommand, buildError := commandBuilder.Build()
	require.NoError(t, buildError)

	outputBuffer := &bytes.Buffer{}
	syncCommand.SetOut(outputBuffer)
	syncCommand.SetContext(context.Background())

	executionError := syncCommand.RunE(syncCommand, nil)
	conflictError := inspect.ConflictError{}
	require.ErrorAs(t, executionError, &conflictError)
	require.Equal(t, "SYNC_RESULT outcome=conflict dry_run=false from=- to=-\n", outputBuffer.String())
	require.NotContains(t, runner.recorded, "merge --ff-only upstream/main")
}
