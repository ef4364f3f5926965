package runner

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Kind classifies how an external command ended.
type Kind int

const (
	Success Kind = iota
	NonZeroExit
	Timeout
	SpawnFailure
	// ParseFailure is never produced by Run. Parsers use it when a tool
	// succeeded but printed something of the wrong shape.
	ParseFailure
)

func (k Kind) String() string {
	switch k {
	case Success:
		return "success"
	case NonZeroExit:
		return "non-zero exit"
	case Timeout:
		return "timeout"
	case SpawnFailure:
		return "spawn failure"
	case ParseFailure:
		return "parse failure"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Result is the outcome of one Run call. Output holds stdout and stderr
// merged in the order the process wrote them.
type Result struct {
	Command  string
	Output   string
	Kind     Kind
	ExitCode int
	Elapsed  time.Duration

	cause error
}

// OK reports whether the command exited with status zero.
func (r Result) OK() bool {
	return r.Kind == Success
}

// Err returns nil for a successful command and an *Error otherwise.
func (r Result) Err() error {
	if r.Kind == Success {
		return nil
	}
	return &Error{
		Kind:     r.Kind,
		Command:  r.Command,
		Output:   r.Output,
		ExitCode: r.ExitCode,
		Err:      r.cause,
	}
}

// Text returns the trimmed output, or "" when the command failed.
func (r Result) Text() string {
	if r.Kind != Success {
		return ""
	}
	return strings.TrimSpace(r.Output)
}

// Error describes a failed external command.
type Error struct {
	Kind     Kind
	Command  string
	Output   string
	ExitCode int
	Err      error
}

func (e *Error) Error() string {
	out := strings.TrimSpace(e.Output)
	switch e.Kind {
	case Timeout:
		return fmt.Sprintf("%s: timed out", e.Command)
	case SpawnFailure:
		return fmt.Sprintf("%s: cannot start: %v", e.Command, e.Err)
	case ParseFailure:
		return fmt.Sprintf("%s: unexpected output: %q", e.Command, out)
	}
	if out == "" {
		return fmt.Sprintf("%s: exit status %d", e.Command, e.ExitCode)
	}
	return fmt.Sprintf("%s: exit status %d\n%s", e.Command, e.ExitCode, out)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// ParseError reports output from source that did not have the expected shape.
func ParseError(source, output string) error {
	return &Error{Kind: ParseFailure, Command: source, Output: output}
}

// IsKind reports whether err wraps an *Error of the given kind.
func IsKind(err error, kind Kind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}
