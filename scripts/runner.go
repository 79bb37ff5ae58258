package scripts

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// Runner executes external programs such as ffmpeg, whisper.cpp or a
// summarization script and returns what they wrote to stdout.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
	RunWithInput(ctx context.Context, stdin io.Reader, name string, args ...string) ([]byte, error)
}

// waitDelay bounds how long Wait blocks on pipes held open by children of a
// killed process.
const waitDelay = 2 * time.Second

// Config is shared by every command the runner starts.
type Config struct {
	Dir         string   // working directory, empty for the current one
	Environment []string // appended to os.Environ()
}

// CommandRunner runs programs with os/exec.
type CommandRunner struct {
	config Config
	logger *logrus.Logger
}

// NewRunner creates a new command runner
func NewRunner(cfg Config, logger *logrus.Logger) *CommandRunner {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &CommandRunner{config: cfg, logger: logger}
}

// Run executes name with no stdin.
func (r *CommandRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	return r.RunWithInput(ctx, nil, name, args...)
}

// RunWithInput executes name with stdin attached. A failed command returns a
// *ScriptError carrying its stderr.
func (r *CommandRunner) RunWithInput(
	ctx context.Context,
	stdin io.Reader,
	name string,
	args ...string,
) ([]byte, error) {
	const op = "CommandRunner.Run"

	if name == "" {
		return nil, newScriptError(op, nil, "command name is required")
	}

	r.logger.WithFields(logrus.Fields{
		"command": name,
		"args":    args,
	}).Debug("Executing command")

	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = r.config.Dir
	cmd.Env = buildEnvironment(r.config.Environment)
	cmd.WaitDelay = waitDelay
	if stdin != nil {
		cmd.Stdin = stdin
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			err = ctx.Err()
		}
		stderrOutput := strings.TrimSpace(stderr.String())
		r.logger.WithFields(logrus.Fields{
			"command": name,
			"error":   err,
			"stderr":  stderrOutput,
		}).Error("Command execution failed")

		scriptErr := newScriptError(op, err, fmt.Sprintf("%s failed", name))
		scriptErr.Stderr = stderrOutput
		return nil, scriptErr
	}

	return stdout.Bytes(), nil
}

func buildEnvironment(additionalEnv []string) []string {
	env := os.Environ()
	if len(additionalEnv) > 0 {
		env = append(env, additionalEnv...)
	}
	return env
}
