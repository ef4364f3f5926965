package deviceinfo

import (
	"context"
	"reflect"
	"testing"

	"github.com/FluidXR/fetchdroid/internal/adb"
	"github.com/FluidXR/fetchdroid/internal/chipset"
	"github.com/FluidXR/fetchdroid/internal/runner"
	"github.com/FluidXR/fetchdroid/internal/runner/runnertest"
)

const pixelCPUInfo = `processor	: 0
processor	: 1
processor	: 2
processor	: 3
processor	: 4
processor	: 5
processor	: 6
processor	: 7
Hardware	: Qualcomm Technologies, Inc SM8250
`

// scriptDevice registers a healthy device with id on s.
func scriptDevice(s *runnertest.Script, id string) {
	shell := "adb -s " + id + " shell "
	s.OnOutput(shell+"getprop ro.product.model", "Pixel 5\n")
	s.OnOutput(shell+"getprop ro.product.manufacturer", "Google\n")
	s.OnOutput(shell+"getprop ro.build.version.release", "14\n")
	s.OnOutput(shell+"getprop ro.serialno", "0A1B2C\n")
	s.OnOutput(shell+"getprop ro.build.display.id", "UP1A.231005.007\n")
	s.OnOutput(shell+"getprop ro.build.version.security_patch", "2023-10-05\n")
	s.OnOutput(shell+"getprop ro.boot.verifiedbootstate", "orange\n")
	s.OnOutput(shell+"which su", "/system/bin/su\n")
	s.OnOutput(shell+"cat /proc/uptime", "7260.50 14000.00\n")
	s.OnOutput(shell+"df /data", "Filesystem 1K-blocks Used Available Use% Mounted on\n/dev/block/dm-5 1000000 400000 600000 40% /data\n")
	s.OnOutput(shell+"pm list packages", "package:a\npackage:b\npackage:c\n")
	s.OnOutput(shell+"cat /proc/cpuinfo", pixelCPUInfo)
	s.OnOutput(shell+"getprop ro.board.platform", "kona\n")
	s.OnOutput(shell+"getprop ro.hardware", "redfin\n")
	s.OnOutput(shell+"getprop ro.chipname", "\n")
	s.OnOutput(shell+"cat "+maxFreqPath, "2841600\n")
	s.OnOutput(shell+"cat /proc/meminfo", "MemTotal: 7869012 kB\n")
	s.OnOutput(shell+"dumpsys battery", "  level: 85\n")
}

func newTestAggregator(s *runnertest.Script) *Aggregator {
	return NewAggregator(adb.NewClient("adb", s), nil)
}

func TestCollectFullSnapshot(t *testing.T) {
	script := runnertest.New()
	scriptDevice(script, "emulator-5554")

	got := newTestAggregator(script).Collect(context.Background(), "emulator-5554")
	if got == nil {
		t.Fatal("Collect returned nil for a reachable device")
	}

	want := Snapshot{
		DeviceID:       "emulator-5554",
		Model:          "Pixel 5",
		Manufacturer:   "Google",
		AndroidVersion: "14",
		SerialNumber:   "0A1B2C",
		BuildNumber:    "UP1A.231005.007",
		Bootloader:     Unlocked,
		Rooted:         true,
		Connected:      true,
		Uptime:         "2h 1m",
		InstalledApps:  3,
		SecurityPatch:  "2023-10-05",
		RAM:            "7 GB",
		Battery:        "85%",
	}
	want.Storage, _ = parseStorage("h\nfs 1000000 400000 600000")
	want.Chipset = Chipset{
		Brand:       chipset.Qualcomm,
		Model:       "Snapdragon 865 (kona)",
		Cores:       8,
		MaxGHz:      2.841,
		Description: "Qualcomm Snapdragon 865 (kona) (8 cores) @ 2.8 GHz",
	}
	if !reflect.DeepEqual(*got, want) {
		t.Errorf("Collect =\n%+v\nwant\n%+v", *got, want)
	}
}

func TestCollectQueryOrder(t *testing.T) {
	script := runnertest.New()
	scriptDevice(script, "X")
	newTestAggregator(script).Collect(context.Background(), "X")

	shell := "adb -s X shell "
	want := []string{
		shell + "getprop ro.product.model",
		shell + "getprop ro.product.manufacturer",
		shell + "getprop ro.build.version.release",
		shell + "getprop ro.serialno",
		shell + "getprop ro.build.display.id",
		shell + "getprop ro.build.version.security_patch",
		shell + "getprop ro.boot.verifiedbootstate",
		shell + "which su",
		shell + "cat /proc/uptime",
		shell + "df /data",
		shell + "pm list packages",
		shell + "cat /proc/cpuinfo",
		shell + "getprop ro.board.platform",
		shell + "getprop ro.hardware",
		shell + "getprop ro.chipname",
		shell + "cat " + maxFreqPath,
		shell + "cat /proc/meminfo",
		shell + "dumpsys battery",
	}
	if got := script.Calls(); !reflect.DeepEqual(got, want) {
		t.Errorf("query order =\n%v\nwant\n%v", got, want)
	}
}

func TestCollectUnreachable(t *testing.T) {
	for _, kind := range []runner.Kind{runner.SpawnFailure, runner.Timeout, runner.NonZeroExit} {
		script := runnertest.New()
		script.OnFailure("adb -s gone shell getprop ro.product.model", kind, "error: device 'gone' not found")
		if got := newTestAggregator(script).Collect(context.Background(), "gone"); got != nil {
			t.Errorf("%v on first query: Collect = %+v, want nil", kind, got)
		}
		if n := len(script.Calls()); n != 1 {
			t.Errorf("%v on first query: %d commands run, want 1", kind, n)
		}
	}
}

func TestCollectDegradesEveryOtherQuery(t *testing.T) {
	script := runnertest.New()
	script.OnOutput("adb -s D shell getprop ro.product.model", "\n")
	script.Default = runner.Result{Kind: runner.Timeout, ExitCode: -1}

	got := newTestAggregator(script).Collect(context.Background(), "D")
	if got == nil {
		t.Fatal("Collect returned nil although the first query succeeded")
	}
	want := defaults("D")
	want.Connected = true
	want.SerialNumber = "D"
	if !reflect.DeepEqual(*got, want) {
		t.Errorf("Collect =\n%+v\nwant\n%+v", *got, want)
	}
}

func TestCollectIsIdempotent(t *testing.T) {
	script := runnertest.New()
	scriptDevice(script, "S")
	agg := newTestAggregator(script)

	first := agg.Collect(context.Background(), "S")
	second := agg.Collect(context.Background(), "S")
	if !reflect.DeepEqual(first, second) {
		t.Errorf("snapshots differ:\n%+v\n%+v", first, second)
	}
}
