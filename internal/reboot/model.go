// Package reboot decides which reboot targets a device may use and
// executes them. Every target runs through su on the device, so only
// devices that pass the root probe are offered any.
package reboot

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/FluidXR/fetchdroid/internal/adb"
)

// MsgElevationRequired is reported when su is missing or refused.
const MsgElevationRequired = "elevated access required"

// State is the probe state of one device.
type State int

const (
	Unprobed State = iota
	Probing
	Rooted
	Unrooted
)

func (s State) String() string {
	switch s {
	case Unprobed:
		return "unprobed"
	case Probing:
		return "probing"
	case Rooted:
		return "rooted"
	case Unrooted:
		return "unrooted"
	default:
		return "invalid"
	}
}

// Outcome is the result of executing a mode. OK false is an error whose
// reason is in Message.
type Outcome struct {
	Mode    Mode
	OK      bool
	Message string
}

// Model caches probe results per device identifier.
type Model struct {
	ADB    *adb.Client
	Logger *slog.Logger

	mu     sync.Mutex
	states map[string]State
}

// NewModel creates a Model. A nil logger discards output.
func NewModel(client *adb.Client, logger *slog.Logger) *Model {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Model{ADB: client, Logger: logger, states: make(map[string]State)}
}

// State returns the cached state for id.
func (m *Model) State(id string) State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.states[id]
}

func (m *Model) setState(id string, s State) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.states[id] = s
}

// Probe runs `su -c id` on the device and records whether it answered
// as uid 0.
func (m *Model) Probe(ctx context.Context, id string) State {
	m.setState(id, Probing)
	res := m.ADB.Shell(ctx, id, "su", "-c", "id")
	state := Unrooted
	if res.OK() && strings.Contains(res.Output, "uid=0") {
		state = Rooted
	}
	m.setState(id, state)
	m.Logger.Debug("root probe finished", "device", id, "state", state.String(), "outcome", res.Kind.String())
	return state
}

// AvailableModes returns the modes id may use, probing first if the
// device has no settled state.
func (m *Model) AvailableModes(ctx context.Context, id string) []Mode {
	state := m.State(id)
	if state != Rooted && state != Unrooted {
		state = m.Probe(ctx, id)
	}
	if state != Rooted {
		return nil
	}
	return Modes()
}

// Execute sends the mode's reboot command through su. It does not touch
// the probe state.
func (m *Model) Execute(ctx context.Context, id string, mode Mode) Outcome {
	info, ok := Lookup(mode)
	if !ok {
		return Outcome{Mode: mode, Message: "unknown reboot mode"}
	}
	res := m.ADB.Shell(ctx, id, "su", "-c", "'"+info.Command+"'")
	log := m.Logger.With("device", id, "mode", mode.String())
	if res.OK() {
		log.Info("reboot command sent")
		return Outcome{Mode: mode, OK: true, Message: "reboot command sent"}
	}
	out := strings.TrimSpace(res.Output)
	var msg string
	switch {
	case strings.Contains(out, "not found") || strings.Contains(out, "su:"):
		msg = MsgElevationRequired
	case out != "":
		msg = out
	default:
		msg = res.Err().Error()
	}
	log.Warn("reboot command failed", "reason", msg)
	return Outcome{Mode: mode, Message: msg}
}

// Retain drops cached state for every identifier not in ids. Call it
// with the result of each discovery cycle.
func (m *Model) Retain(ids []string) {
	keep := make(map[string]bool, len(ids))
	for _, id := range ids {
		keep[id] = true
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for id := range m.states {
		if !keep[id] {
			delete(m.states, id)
		}
	}
}
