package deviceinfo

import (
	"context"
	"io"
	"log/slog"

	"github.com/FluidXR/fetchdroid/internal/adb"
	"github.com/FluidXR/fetchdroid/internal/chipset"
)

const maxFreqPath = "/sys/devices/system/cpu/cpu0/cpufreq/cpuinfo_max_freq"

// Aggregator builds snapshots over an adb client.
type Aggregator struct {
	ADB    *adb.Client
	Logger *slog.Logger
}

// NewAggregator creates an Aggregator. A nil logger discards output.
func NewAggregator(client *adb.Client, logger *slog.Logger) *Aggregator {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Aggregator{ADB: client, Logger: logger}
}

// Collect queries the device and returns a complete snapshot. It returns
// nil only when the first query fails, meaning the device cannot be
// reached at all. Every later query falls back to its default on failure.
func (a *Aggregator) Collect(ctx context.Context, id string) *Snapshot {
	log := a.Logger.With("device", id)

	first := a.ADB.Getprop(ctx, id, "ro.product.model")
	if err := first.Err(); err != nil {
		log.Info("device unreachable", "error", err)
		return nil
	}

	s := defaults(id)
	s.Connected = true
	q := &query{agg: a, ctx: ctx, id: id, log: log}

	s.Model = orDefault(first.Text(), Unknown)
	s.Manufacturer = orDefault(q.prop("ro.product.manufacturer"), Unknown)
	s.AndroidVersion = orDefault(q.prop("ro.build.version.release"), Unknown)
	s.SerialNumber = orDefault(q.prop("ro.serialno"), id)
	s.BuildNumber = orDefault(q.prop("ro.build.display.id"), Unknown)
	s.SecurityPatch = orDefault(q.prop("ro.build.version.security_patch"), Unknown)

	if state, ok := q.shell("ro.boot.verifiedbootstate", "getprop", "ro.boot.verifiedbootstate"); ok {
		s.Bootloader = parseBootloader(state)
	}
	if su, ok := q.shell("which su", "which", "su"); ok {
		s.Rooted = parseRooted(su)
	}
	if out, ok := q.shell("uptime", "cat", "/proc/uptime"); ok {
		if uptime, err := parseUptime(out); err == nil {
			s.Uptime = uptime
		} else {
			q.degraded("uptime", err)
		}
	}
	if out, ok := q.shell("storage", "df", "/data"); ok {
		storage, err := parseStorage(out)
		if err != nil {
			q.degraded("storage", err)
		}
		s.Storage = storage
	}
	if out, ok := q.shell("packages", "pm", "list", "packages"); ok {
		s.InstalledApps = countPackages(out)
	}

	s.Chipset = q.chipset()

	if out, ok := q.shell("meminfo", "cat", "/proc/meminfo"); ok {
		if ram, err := parseMemTotal(out); err == nil {
			s.RAM = ram
		} else {
			q.degraded("ram", err)
		}
	}
	if out, ok := q.shell("battery", "dumpsys", "battery"); ok {
		if level, err := parseBattery(out); err == nil {
			s.Battery = level
		} else {
			q.degraded("battery", err)
		}
	}

	log.Debug("snapshot collected", "model", s.Model, "chipset", s.Chipset.Description)
	return &s
}

// query runs the per-field shell commands for one Collect call.
type query struct {
	agg *Aggregator
	ctx context.Context
	id  string
	log *slog.Logger
}

// shell runs a command and returns its trimmed output. ok is false when
// the command failed; the failure is logged and the caller keeps its default.
func (q *query) shell(field string, args ...string) (string, bool) {
	res := q.agg.ADB.Shell(q.ctx, q.id, args...)
	if err := res.Err(); err != nil {
		q.degraded(field, err)
		return "", false
	}
	return res.Text(), true
}

func (q *query) prop(name string) string {
	out, _ := q.shell(name, "getprop", name)
	return out
}

func (q *query) degraded(field string, err error) {
	q.log.Debug("query degraded to default", "field", field, "error", err)
}

func (q *query) chipset() Chipset {
	cpuinfo, _ := q.shell("cpuinfo", "cat", "/proc/cpuinfo")
	platform := q.prop("ro.board.platform")
	hardware := q.prop("ro.hardware")
	chipname := q.prop("ro.chipname")

	source := chipsetSource(platform, hardware, chipname, cpuinfo)
	fact := chipset.Classify(source)
	c := Chipset{
		Brand: fact.Brand,
		Model: fact.Model,
		Cores: countCores(cpuinfo),
	}
	if out, ok := q.shell("max frequency", "cat", maxFreqPath); ok {
		if ghz, err := parseMaxFreq(out); err == nil {
			c.MaxGHz = ghz
		} else {
			q.degraded("max frequency", err)
		}
	}
	c.Description = chipset.Describe(fact, c.Cores, c.MaxGHz)
	q.log.Debug("chipset classified", "source", source, "brand", fact.Brand, "model", fact.Model)
	return c
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
