package cmd

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mgijax/mousemine-dumper/internal/config"
	"github.com/mgijax/mousemine-dumper/internal/exitcode"
	"github.com/mgijax/mousemine-dumper/pkg/pipeline"
)

func requireShell(t *testing.T) {
	t.Helper()

	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "pipeline.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
	cmd := NewRootCommand()
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	err := cmd.ExecuteContext(context.Background())

	return stdout.String(), stderr.String(), err
}

func twoSteps(first, second string) string {
	return fmt.Sprintf(`
steps:
  - name: first
    command: sh
    args: ["-c", %q]
  - name: second
    command: sh
    args: ["-c", %q]
`, first, second)
}

func TestRootAllStepsSucceed(t *testing.T) {
	t.Parallel()
	requireShell(t)

	path := writeConfig(t, twoSteps("echo one", "echo two"))

	stdout, stderr, err := execute(t, "--config", path)
	require.NoError(t, err)
	assert.Equal(t, exitcode.Success, exitcode.FromError(err))
	assert.Equal(t, "one\ntwo\n", stdout)
	assert.Contains(t, stderr, "step finished")
	assert.Contains(t, stderr, "succeeded in")
}

func TestRootFirstStepFails(t *testing.T) {
	t.Parallel()
	requireShell(t)

	marker := filepath.Join(t.TempDir(), "second-ran")
	path := writeConfig(t, twoSteps("exit 1", "touch "+marker))

	_, stderr, err := execute(t, "--config", path)
	require.ErrorIs(t, err, pipeline.ErrStepFailed)
	assert.Equal(t, exitcode.Failure, exitcode.FromError(err))

	var stepErr *pipeline.StepError
	require.True(t, errors.As(err, &stepErr))
	assert.Equal(t, 0, stepErr.Index)
	assert.Equal(t, 1, stepErr.Status)

	assert.NoFileExists(t, marker)
	assert.Contains(t, stderr, "step skipped")
	assert.Contains(t, stderr, "skipped")
}

func TestRootSecondStepFails(t *testing.T) {
	t.Parallel()
	requireShell(t)

	marker := filepath.Join(t.TempDir(), "first-ran")
	path := writeConfig(t, twoSteps("touch "+marker, "exit 2"))

	_, _, err := execute(t, "--config", path)
	require.Error(t, err)
	assert.Equal(t, exitcode.Failure, exitcode.FromError(err))

	var stepErr *pipeline.StepError
	require.True(t, errors.As(err, &stepErr))
	assert.Equal(t, 1, stepErr.Index)
	assert.Equal(t, "second", stepErr.Name)
	assert.Equal(t, 2, stepErr.Status)
	assert.FileExists(t, marker)
}

func TestRootMissingExecutable(t *testing.T) {
	t.Parallel()
	requireShell(t)

	marker := filepath.Join(t.TempDir(), "second-ran")
	path := writeConfig(t, fmt.Sprintf(`
steps:
  - name: first
    command: /nonexistent/dumpMgiItemXml
  - name: second
    command: sh
    args: ["-c", "touch %s"]
`, marker))

	_, _, err := execute(t, "--config", path)
	require.ErrorIs(t, err, pipeline.ErrStepFailed)
	require.ErrorIs(t, err, pipeline.ErrLaunch)
	assert.Equal(t, exitcode.Failure, exitcode.FromError(err))
	assert.NoFileExists(t, marker)
}

func TestRootStatus255IsFailure(t *testing.T) {
	t.Parallel()
	requireShell(t)

	path := writeConfig(t, twoSteps("exit 255", "true"))

	_, _, err := execute(t, "--config", path, "--quiet")
	require.Error(t, err)
	assert.Equal(t, exitcode.Failure, exitcode.FromError(err))
}

func TestRootDryRun(t *testing.T) {
	t.Parallel()

	marker := filepath.Join(t.TempDir(), "ran")
	path := writeConfig(t, fmt.Sprintf(`
vars:
  MOUSEMINE_TEST_OUT: %s
steps:
  - name: first
    command: touch
    args: ["${MOUSEMINE_TEST_OUT}"]
    env: ["A=b"]
`, marker))

	stdout, _, err := execute(t, "--config", path, "--dry-run")
	require.NoError(t, err)
	assert.Equal(t, fmt.Sprintf("1. first: touch %s\n   env: A=b\n", marker), stdout)
	assert.NoFileExists(t, marker)
}

func TestRootUsageErrors(t *testing.T) {
	t.Parallel()

	tcs := map[string][]string{
		"positional argument": {"extra"},
		"unknown flag":        {"--unknown"},
		"bad log level":       {"--log-level", "loud", "--config", writeConfig(t, twoSteps("true", "true"))},
	}

	for name, args := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			_, _, err := execute(t, args...)
			require.Error(t, err)
			assert.Equal(t, exitcode.Usage, exitcode.FromError(err))
		})
	}
}

func TestRootInvalidConfig(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, "steps: []\n")

	_, _, err := execute(t, "--config", path)
	require.Error(t, err)
	assert.Equal(t, exitcode.Failure, exitcode.FromError(err))
}

func TestRootReservedStepName(t *testing.T) {
	t.Parallel()
	requireShell(t)

	dir := t.TempDir()
	marker := filepath.Join(dir, "ran")
	path := writeConfig(t, fmt.Sprintf(`
steps:
  - name: end
    command: touch
    args: [%q]
`, marker))

	_, _, err := execute(t, "--config", path, "--graph", filepath.Join(dir, "run.dot"))
	require.ErrorIs(t, err, config.ErrReservedStepName)
	assert.Equal(t, exitcode.Failure, exitcode.FromError(err))
	assert.NoFileExists(t, marker)
}

func TestRootGraphAndLogFile(t *testing.T) {
	t.Parallel()
	requireShell(t)

	dir := t.TempDir()
	graphPath := filepath.Join(dir, "run.dot")
	logPath := filepath.Join(dir, "logs", "runner.log")
	path := writeConfig(t, twoSteps("exit 3", "true"))

	_, _, err := execute(t, "--config", path, "--graph", graphPath, "--log-file", logPath, "--log-format", "json", "-q")
	require.Error(t, err)

	graph, err := os.ReadFile(graphPath)
	require.NoError(t, err)
	assert.Contains(t, string(graph), "strict digraph")
	assert.Contains(t, string(graph), `"first" -> "second"`)

	logs, err := os.ReadFile(logPath)
	require.NoError(t, err)
	assert.Contains(t, string(logs), `"msg":"step failed"`)
	assert.Contains(t, string(logs), `"exit_code":3`)
	assert.Contains(t, string(logs), `"msg":"pipeline failed"`)
}

func TestRootHeartbeat(t *testing.T) {
	t.Parallel()
	requireShell(t)

	path := writeConfig(t, twoSteps("sleep 0.3", "true"))

	_, stderr, err := execute(t, "--config", path, "--heartbeat", "50ms")
	require.NoError(t, err)
	assert.Contains(t, stderr, `msg="step running" run_id=`)
	assert.Contains(t, stderr, "step=first")
}
