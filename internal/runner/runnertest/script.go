// Package runnertest provides a scripted runner.Executor for tests.
package runnertest

import (
	"context"
	"strings"
	"sync"

	"github.com/FluidXR/fetchdroid/internal/runner"
)

// Script answers commands from a table keyed by the full command line
// ("adb -s X shell getprop ro.product.model"). Unscripted commands get
// Default, which is a NonZeroExit unless overridden.
type Script struct {
	Default runner.Result

	mu        sync.Mutex
	responses map[string]runner.Result
	calls     []string
}

// New returns an empty Script.
func New() *Script {
	return &Script{
		Default:   runner.Result{Kind: runner.NonZeroExit, ExitCode: 1, Output: "unscripted command"},
		responses: make(map[string]runner.Result),
	}
}

// On registers the result returned for line.
func (s *Script) On(line string, res runner.Result) *Script {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.responses[line] = res
	return s
}

// OnOutput registers a successful command printing output.
func (s *Script) OnOutput(line, output string) *Script {
	return s.On(line, runner.Result{Kind: runner.Success, Output: output})
}

// OnFailure registers a failing command of the given kind.
func (s *Script) OnFailure(line string, kind runner.Kind, output string) *Script {
	code := 1
	if kind != runner.NonZeroExit {
		code = -1
	}
	return s.On(line, runner.Result{Kind: kind, ExitCode: code, Output: output})
}

// Run implements runner.Executor.
func (s *Script) Run(ctx context.Context, bin string, args ...string) runner.Result {
	line := strings.Join(append([]string{bin}, args...), " ")
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, line)
	res, ok := s.responses[line]
	if !ok {
		res = s.Default
	}
	res.Command = line
	return res
}

// Calls returns every command line run so far, in order.
func (s *Script) Calls() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.calls...)
}
