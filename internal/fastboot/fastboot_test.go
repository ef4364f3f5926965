package fastboot

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/FluidXR/fetchdroid/internal/runner"
	"github.com/FluidXR/fetchdroid/internal/runner/runnertest"
)

func TestParseDevicesKeepsFirstLine(t *testing.T) {
	got := parseDevices("0A1B2C\tfastboot\n\nnoise without tab\n9Z\tfastboot\n")
	if want := []string{"0A1B2C", "9Z"}; !reflect.DeepEqual(got, want) {
		t.Errorf("parseDevices = %q, want %q", got, want)
	}
	if got := parseDevices(""); got != nil {
		t.Errorf("parseDevices(empty) = %q", got)
	}
}

func TestDevices(t *testing.T) {
	script := runnertest.New().OnOutput("fastboot devices", "0A1B2C\tfastboot\n")
	got, err := NewClient("", script).Devices(context.Background())
	if err != nil {
		t.Fatalf("Devices: %v", err)
	}
	if !reflect.DeepEqual(got, []string{"0A1B2C"}) {
		t.Errorf("Devices = %q", got)
	}
}

func TestClassifyFlash(t *testing.T) {
	tests := []struct {
		output string
		want   FlashStatus
	}{
		{"Sending 'boot' (65536 KB)  OKAY [  1.6s]\nWriting 'boot'  OKAY [  0.3s]\nFinished. Total time: 2.0s\n", FlashOK},
		{"finished. total time: 0.5s", FlashOK},
		{"Writing 'boot'  FAILED (remote: 'Partition flashing is not allowed')\n", FlashFailed},
		{"Sending 'boot' OKAY\nerror: cannot load 'boot.img'\n", FlashFailed},
		{"< waiting for any device >", FlashUnknown},
		{"", FlashUnknown},
	}
	for _, tt := range tests {
		if got := classifyFlash(tt.output); got != tt.want {
			t.Errorf("classifyFlash(%q) = %s, want %s", tt.output, got, tt.want)
		}
	}
}

func writeImage(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "boot.img")
	if err := os.WriteFile(path, []byte("ANDROID!"), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestFlashSuccess(t *testing.T) {
	image := writeImage(t)
	script := runnertest.New().OnOutput("fastboot -s 0A1B2C flash boot "+image,
		"Sending 'boot' OKAY\nWriting 'boot' OKAY\nFinished. Total time: 1.1s\n")

	res, err := NewClient("fastboot", script).Flash(context.Background(), "0A1B2C", "boot", image)
	if err != nil {
		t.Fatalf("Flash: %v", err)
	}
	if res.Status != FlashOK {
		t.Errorf("Status = %s, want ok", res.Status)
	}
}

func TestFlashWithoutSerial(t *testing.T) {
	image := writeImage(t)
	script := runnertest.New().OnOutput("fastboot flash vbmeta "+image, "OKAY\n")

	if _, err := NewClient("fastboot", script).Flash(context.Background(), "", "vbmeta", image); err != nil {
		t.Fatalf("Flash: %v", err)
	}
	if calls := script.Calls(); len(calls) != 1 || calls[0] != "fastboot flash vbmeta "+image {
		t.Errorf("calls = %q", calls)
	}
}

func TestFlashNonZeroExitIsFailed(t *testing.T) {
	image := writeImage(t)
	script := runnertest.New().OnFailure("fastboot flash boot "+image, runner.NonZeroExit, "FAILED (remote: 'locked')\n")

	res, err := NewClient("fastboot", script).Flash(context.Background(), "", "boot", image)
	if !runner.IsKind(err, runner.NonZeroExit) {
		t.Fatalf("err = %v, want non-zero exit", err)
	}
	if res.Status != FlashFailed {
		t.Errorf("Status = %s, want failed", res.Status)
	}
}

func TestFlashRejectsBadInput(t *testing.T) {
	script := runnertest.New()
	c := NewClient("fastboot", script)
	image := writeImage(t)

	if _, err := c.Flash(context.Background(), "", "bootloader", image); err == nil {
		t.Error("unknown partition accepted")
	}
	if _, err := c.Flash(context.Background(), "", "boot", filepath.Join(t.TempDir(), "missing.img")); err == nil {
		t.Error("missing image accepted")
	}
	if _, err := c.Flash(context.Background(), "", "boot", t.TempDir()); err == nil {
		t.Error("directory accepted as image")
	}
	if calls := script.Calls(); len(calls) != 0 {
		t.Errorf("fastboot ran for invalid input: %q", calls)
	}
}

func TestLookupPartition(t *testing.T) {
	for _, p := range Partitions {
		if _, ok := LookupPartition(p.Name); !ok {
			t.Errorf("LookupPartition(%q) not found", p.Name)
		}
	}
	if len(Partitions) != 8 {
		t.Errorf("got %d partitions, want 8", len(Partitions))
	}
}

func TestLookupAction(t *testing.T) {
	a, ok := LookupAction("getvar-all")
	if !ok {
		t.Fatal("getvar-all not found")
	}
	if !reflect.DeepEqual(a.Args, []string{"getvar", "all"}) {
		t.Errorf("Args = %q", a.Args)
	}
	if _, ok := LookupAction("oem-unlock"); !ok {
		t.Error("oem-unlock not found")
	}
	if _, ok := LookupAction("erase"); ok {
		t.Error("erase found")
	}
}
