package reboot

import (
	"context"
	"testing"

	"github.com/FluidXR/fetchdroid/internal/adb"
	"github.com/FluidXR/fetchdroid/internal/runner"
	"github.com/FluidXR/fetchdroid/internal/runner/runnertest"
)

const probe = "adb -s D shell su -c id"

func newTestModel(s *runnertest.Script) *Model {
	return NewModel(adb.NewClient("adb", s), nil)
}

func TestAvailableModesRooted(t *testing.T) {
	script := runnertest.New().OnOutput(probe, "uid=0(root) gid=0(root) groups=0(root)\n")
	m := newTestModel(script)

	modes := m.AvailableModes(context.Background(), "D")
	if len(modes) != 7 {
		t.Fatalf("AvailableModes = %v, want all 7 modes", modes)
	}
	for i, want := range []Mode{Normal, Recovery, Bootloader, Fastboot, Download, SafeMode, PowerOff} {
		if modes[i] != want {
			t.Errorf("modes[%d] = %v, want %v", i, modes[i], want)
		}
	}
	if got := m.State("D"); got != Rooted {
		t.Errorf("State = %v, want rooted", got)
	}
}

func TestAvailableModesUnrooted(t *testing.T) {
	tests := []struct {
		name string
		res  runner.Result
	}{
		{"shell uid", runner.Result{Kind: runner.Success, Output: "uid=2000(shell) gid=2000(shell)\n"}},
		{"su missing", runner.Result{Kind: runner.NonZeroExit, ExitCode: 127, Output: "/system/bin/sh: su: not found\n"}},
		{"uid=0 but failed", runner.Result{Kind: runner.NonZeroExit, ExitCode: 1, Output: "uid=0 denied\n"}},
		{"timeout", runner.Result{Kind: runner.Timeout, ExitCode: -1}},
	}
	for _, tt := range tests {
		script := runnertest.New().On(probe, tt.res)
		m := newTestModel(script)
		if modes := m.AvailableModes(context.Background(), "D"); len(modes) != 0 {
			t.Errorf("%s: AvailableModes = %v, want none", tt.name, modes)
		}
		if got := m.State("D"); got != Unrooted {
			t.Errorf("%s: State = %v, want unrooted", tt.name, got)
		}
	}
}

func TestProbeIsCachedUntilRetainDropsDevice(t *testing.T) {
	script := runnertest.New().OnOutput(probe, "uid=0(root)\n")
	m := newTestModel(script)
	ctx := context.Background()

	m.AvailableModes(ctx, "D")
	m.AvailableModes(ctx, "D")
	m.Retain([]string{"D", "other"})
	m.AvailableModes(ctx, "D")
	if n := len(script.Calls()); n != 1 {
		t.Fatalf("probe ran %d times while device stayed visible, want 1", n)
	}

	m.Retain([]string{"other"})
	if got := m.State("D"); got != Unprobed {
		t.Fatalf("State after device disappeared = %v, want unprobed", got)
	}
	m.AvailableModes(ctx, "D")
	if n := len(script.Calls()); n != 2 {
		t.Errorf("probe ran %d times after reappearance, want 2", n)
	}
}

func TestExecute(t *testing.T) {
	recovery := "adb -s D shell su -c 'reboot recovery'"
	tests := []struct {
		name    string
		res     runner.Result
		wantOK  bool
		wantMsg string
	}{
		{"success", runner.Result{Kind: runner.Success}, true, "reboot command sent"},
		{"su missing", runner.Result{Kind: runner.NonZeroExit, ExitCode: 127, Output: "sh: su: not found\n"}, false, MsgElevationRequired},
		{"su denied", runner.Result{Kind: runner.NonZeroExit, ExitCode: 1, Output: "su: permission denied\n"}, false, MsgElevationRequired},
		{"other failure", runner.Result{Kind: runner.NonZeroExit, ExitCode: 1, Output: "reboot: busy\n"}, false, "reboot: busy"},
	}
	for _, tt := range tests {
		script := runnertest.New().On(recovery, tt.res)
		m := newTestModel(script)
		out := m.Execute(context.Background(), "D", Recovery)
		if out.OK != tt.wantOK || out.Message != tt.wantMsg || out.Mode != Recovery {
			t.Errorf("%s: Execute = %+v, want OK=%v Message=%q", tt.name, out, tt.wantOK, tt.wantMsg)
		}
		if got := m.State("D"); got != Unprobed {
			t.Errorf("%s: Execute changed probe state to %v", tt.name, got)
		}
	}
}

func TestExecuteTimeoutReportsFailure(t *testing.T) {
	script := runnertest.New().OnFailure("adb -s D shell su -c 'reboot -p'", runner.Timeout, "")
	out := newTestModel(script).Execute(context.Background(), "D", PowerOff)
	if out.OK || out.Message == "" {
		t.Errorf("Execute on timeout = %+v, want an error message", out)
	}
}

func TestParseMode(t *testing.T) {
	for _, m := range Modes() {
		got, err := ParseMode(m.String())
		if err != nil || got != m {
			t.Errorf("ParseMode(%q) = %v, %v; want %v", m.String(), got, err, m)
		}
		if info, ok := Lookup(m); !ok || info.Command == "" || info.Name == "" {
			t.Errorf("Lookup(%v) = %+v, %v; want a complete entry", m, info, ok)
		}
	}
	if _, err := ParseMode("edl"); err == nil {
		t.Error("ParseMode(edl) succeeded, want error")
	}
}
