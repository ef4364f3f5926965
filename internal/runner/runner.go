package runner

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"os/exec"
	"strings"
	"time"
)

// DefaultTimeout bounds every external command unless the Runner says otherwise.
const DefaultTimeout = 30 * time.Second

// waitDelay bounds how long Run keeps draining output after the process
// has been killed. A grandchild holding the pipe open must not keep the
// call alive.
const waitDelay = 2 * time.Second

// Executor runs an external binary and classifies the outcome.
type Executor interface {
	Run(ctx context.Context, bin string, args ...string) Result
}

// Runner executes external tool binaries with a hard wall-clock bound.
type Runner struct {
	Timeout time.Duration
	Logger  *slog.Logger
}

// New creates a Runner. A zero timeout means DefaultTimeout.
func New(timeout time.Duration, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Runner{Timeout: timeout, Logger: logger}
}

// Run starts bin with args and waits for it to exit or for the timeout
// to expire. On timeout the process group is killed before Run returns.
// Run never returns a zero Result: the Kind is always one of Success,
// NonZeroExit, Timeout or SpawnFailure.
func (r *Runner) Run(ctx context.Context, bin string, args ...string) Result {
	timeout := r.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	cctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(cctx, bin, args...)
	var buf bytes.Buffer
	cmd.Stdout = &buf
	cmd.Stderr = &buf
	setProcessGroup(cmd)
	cmd.Cancel = func() error { return killProcessGroup(cmd) }
	cmd.WaitDelay = waitDelay

	start := time.Now()
	err := cmd.Run()
	res := Result{
		Command: commandLine(bin, args),
		Output:  buf.String(),
		Elapsed: time.Since(start),
		cause:   err,
	}

	switch {
	case cmd.Process == nil && cctx.Err() == nil:
		res.Kind = SpawnFailure
		res.ExitCode = -1
	case err == nil:
		res.Kind = Success
	case cctx.Err() != nil:
		// Also covers a context that was done before the process started.
		res.Kind = Timeout
		res.ExitCode = -1
	default:
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			res.Kind = NonZeroExit
			res.ExitCode = exitErr.ExitCode()
		} else if cmd.ProcessState != nil && cmd.ProcessState.Success() {
			// exec.ErrWaitDelay: the process itself exited cleanly.
			res.Kind = Success
		} else {
			res.Kind = NonZeroExit
			if cmd.ProcessState != nil {
				res.ExitCode = cmd.ProcessState.ExitCode()
			}
		}
	}

	r.log().Debug("command finished",
		"bin", bin,
		"args", args,
		"outcome", res.Kind.String(),
		"exit_code", res.ExitCode,
		"elapsed", res.Elapsed,
	)
	return res
}

func (r *Runner) log() *slog.Logger {
	if r.Logger == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return r.Logger
}

func commandLine(bin string, args []string) string {
	if len(args) == 0 {
		return bin
	}
	return bin + " " + strings.Join(args, " ")
}
