// Package manager exposes the device actions a front end triggers:
// discovery, snapshots, free-text tool commands, root probing, reboots
// and flashing. Results land in a store.Store for presentation.
package manager

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/FluidXR/fetchdroid/internal/adb"
	"github.com/FluidXR/fetchdroid/internal/deviceinfo"
	"github.com/FluidXR/fetchdroid/internal/fastboot"
	"github.com/FluidXR/fetchdroid/internal/reboot"
	"github.com/FluidXR/fetchdroid/internal/runner"
	"github.com/FluidXR/fetchdroid/internal/store"
)

// ErrUnreachable is returned when a device stops answering before its
// first query completes.
var ErrUnreachable = errors.New("device unreachable")

// Recorder persists collected snapshots. *history.DB implements it.
type Recorder interface {
	Record(snap deviceinfo.Snapshot) (bool, error)
}

// Options configures New.
type Options struct {
	ADBPath      string
	FastbootPath string
	Exec         runner.Executor
	FlashExec    runner.Executor // long-running flashes; nil means Exec
	Store        *store.Store
	History      Recorder // nil disables history
	Logger       *slog.Logger
	MaxParallel  int
}

// Manager owns the tool clients and the store they report into.
type Manager struct {
	ADB      *adb.Client
	Fastboot *fastboot.Client
	Flasher  *fastboot.Client
	Info     *deviceinfo.Aggregator
	Rebooter *reboot.Model
	Store    *store.Store
	History  Recorder
	Logger   *slog.Logger

	MaxParallel int
}

// New wires a Manager from opts.
func New(opts Options) *Manager {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	st := opts.Store
	if st == nil {
		st = store.New()
	}
	parallel := opts.MaxParallel
	if parallel < 1 {
		parallel = 1
	}
	flashExec := opts.FlashExec
	if flashExec == nil {
		flashExec = opts.Exec
	}
	adbClient := adb.NewClient(opts.ADBPath, opts.Exec)
	return &Manager{
		ADB:         adbClient,
		Fastboot:    fastboot.NewClient(opts.FastbootPath, opts.Exec),
		Flasher:     fastboot.NewClient(opts.FastbootPath, flashExec),
		Info:        deviceinfo.NewAggregator(adbClient, logger),
		Rebooter:    reboot.NewModel(adbClient, logger),
		Store:       st,
		History:     opts.History,
		Logger:      logger,
		MaxParallel: parallel,
	}
}

// ScanDevices lists adb devices, publishes the list, and snapshots the
// first one. With nothing listed the store goes back to the disconnected
// snapshot. Probe results for devices that vanished are forgotten.
func (m *Manager) ScanDevices(ctx context.Context) ([]string, error) {
	m.Store.SetScanning(true)
	defer m.Store.SetScanning(false)

	ids, err := m.ADB.Devices(ctx)
	if err != nil {
		m.Logger.Warn("device scan failed", "error", err)
		m.Store.SetDevices(nil)
		m.Store.SetSnapshot(deviceinfo.Disconnected())
		m.Rebooter.Retain(nil)
		return nil, err
	}
	m.Store.SetDevices(ids)
	m.Rebooter.Retain(ids)
	m.Logger.Info("device scan finished", "devices", len(ids))

	if len(ids) == 0 {
		m.Store.SetSnapshot(deviceinfo.Disconnected())
		return ids, nil
	}
	// An unreachable first device leaves the previous snapshot in place.
	m.Snapshot(ctx, ids[0])
	return ids, nil
}

// ScanFastboot lists devices in bootloader mode and publishes the list.
func (m *Manager) ScanFastboot(ctx context.Context) ([]string, error) {
	m.Store.SetScanning(true)
	defer m.Store.SetScanning(false)

	ids, err := m.Fastboot.Devices(ctx)
	if err != nil {
		m.Logger.Warn("fastboot scan failed", "error", err)
		m.Store.SetFastbootDevices(nil)
		return nil, err
	}
	m.Store.SetFastbootDevices(ids)
	m.Logger.Info("fastboot scan finished", "devices", len(ids))
	return ids, nil
}

// Snapshot collects a fresh snapshot of id, publishes it, and records it
// in history. The store is left alone when the device is unreachable.
func (m *Manager) Snapshot(ctx context.Context, id string) (deviceinfo.Snapshot, error) {
	snap := m.Info.Collect(ctx, id)
	if snap == nil {
		m.Logger.Warn("device unreachable", "device", id)
		return deviceinfo.Snapshot{}, fmt.Errorf("%s: %w", id, ErrUnreachable)
	}
	m.Store.SetSnapshot(*snap)
	m.record(*snap)
	return *snap, nil
}

// SnapshotAll collects snapshots of every id concurrently, at most
// MaxParallel at a time. The result is index-aligned with ids; unreachable
// devices are nil. The store's current snapshot is not changed.
func (m *Manager) SnapshotAll(ctx context.Context, ids []string) []*deviceinfo.Snapshot {
	out := make([]*deviceinfo.Snapshot, len(ids))
	var wg sync.WaitGroup
	sem := make(chan struct{}, m.MaxParallel)

	for i, id := range ids {
		wg.Add(1)
		sem <- struct{}{}
		go func(i int, id string) {
			defer wg.Done()
			defer func() { <-sem }()
			snap := m.Info.Collect(ctx, id)
			if snap != nil {
				m.record(*snap)
			}
			out[i] = snap
		}(i, id)
	}
	wg.Wait()
	return out
}

// RunADB splits line with shell quoting rules and runs it through adb.
func (m *Manager) RunADB(ctx context.Context, line string) (runner.Result, error) {
	args, err := runner.SplitArgs(line)
	if err != nil {
		return runner.Result{}, err
	}
	res := m.ADB.Run(ctx, args...)
	m.Logger.Info("adb command finished", "args", args, "outcome", res.Kind.String())
	return res, nil
}

// RunFastboot splits line with shell quoting rules and runs it through fastboot.
func (m *Manager) RunFastboot(ctx context.Context, line string) (runner.Result, error) {
	args, err := runner.SplitArgs(line)
	if err != nil {
		return runner.Result{}, err
	}
	res := m.Fastboot.Run(ctx, args...)
	m.Logger.Info("fastboot command finished", "args", args, "outcome", res.Kind.String())
	return res, nil
}

// ProbeRoot re-runs the root probe for id regardless of any cached state.
func (m *Manager) ProbeRoot(ctx context.Context, id string) reboot.State {
	return m.Rebooter.Probe(ctx, id)
}

// RebootModes returns the reboot modes id may use.
func (m *Manager) RebootModes(ctx context.Context, id string) []reboot.Mode {
	return m.Rebooter.AvailableModes(ctx, id)
}

// Reboot executes mode on id.
func (m *Manager) Reboot(ctx context.Context, id string, mode reboot.Mode) reboot.Outcome {
	return m.Rebooter.Execute(ctx, id, mode)
}

// Flash writes image to partition on the fastboot device id through the
// flash executor, which carries the longer transfer timeout.
func (m *Manager) Flash(ctx context.Context, id, partition, image string) (fastboot.FlashResult, error) {
	res, err := m.Flasher.Flash(ctx, id, partition, image)
	log := m.Logger.With("device", id, "partition", partition, "status", string(res.Status))
	if err != nil {
		log.Warn("flash failed", "error", err)
		return res, err
	}
	log.Info("flash finished")
	return res, nil
}

// Watch rescans adb and fastboot devices every interval until ctx is
// done. onScan, if set, runs after each cycle. The first cycle starts
// immediately.
func (m *Manager) Watch(ctx context.Context, interval time.Duration, onScan func()) error {
	if interval <= 0 {
		return fmt.Errorf("watch interval must be positive, got %s", interval)
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		m.ScanDevices(ctx)
		m.ScanFastboot(ctx)
		if onScan != nil {
			onScan()
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

func (m *Manager) record(snap deviceinfo.Snapshot) {
	if m.History == nil {
		return
	}
	wrote, err := m.History.Record(snap)
	if err != nil {
		m.Logger.Warn("history record failed", "device", snap.DeviceID, "error", err)
		return
	}
	if wrote {
		m.Logger.Debug("snapshot recorded", "device", snap.DeviceID)
	}
}
