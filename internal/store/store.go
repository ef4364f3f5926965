// Package store holds the latest discovery and snapshot results for
// whatever presents them. Each field is swapped as a whole value, so a
// reader sees either the previous complete value or the new one.
package store

import (
	"sync/atomic"

	"github.com/FluidXR/fetchdroid/internal/deviceinfo"
)

// Store is the observable state of the device manager.
type Store struct {
	devices  atomic.Pointer[[]string]
	fastboot atomic.Pointer[[]string]
	snapshot atomic.Pointer[deviceinfo.Snapshot]
	scanning atomic.Bool

	changes chan struct{}
}

// New returns a Store with empty device lists and the disconnected snapshot.
func New() *Store {
	s := &Store{changes: make(chan struct{}, 1)}
	empty := []string{}
	s.devices.Store(&empty)
	s.fastboot.Store(&empty)
	disconnected := deviceinfo.Disconnected()
	s.snapshot.Store(&disconnected)
	return s
}

// Devices returns the identifiers from the last adb discovery.
func (s *Store) Devices() []string {
	return append([]string(nil), (*s.devices.Load())...)
}

// FastbootDevices returns the identifiers from the last fastboot discovery.
func (s *Store) FastbootDevices() []string {
	return append([]string(nil), (*s.fastboot.Load())...)
}

// Snapshot returns the latest device snapshot.
func (s *Store) Snapshot() deviceinfo.Snapshot {
	return *s.snapshot.Load()
}

// Scanning reports whether a scan is in progress.
func (s *Store) Scanning() bool {
	return s.scanning.Load()
}

// Changes delivers a signal after any field is replaced. Signals coalesce:
// a slow reader sees one pending signal, not one per change.
func (s *Store) Changes() <-chan struct{} {
	return s.changes
}

// SetDevices replaces the adb device list.
func (s *Store) SetDevices(ids []string) {
	v := append([]string{}, ids...)
	s.devices.Store(&v)
	s.notify()
}

// SetFastbootDevices replaces the fastboot device list.
func (s *Store) SetFastbootDevices(ids []string) {
	v := append([]string{}, ids...)
	s.fastboot.Store(&v)
	s.notify()
}

// SetSnapshot replaces the current snapshot.
func (s *Store) SetSnapshot(snap deviceinfo.Snapshot) {
	s.snapshot.Store(&snap)
	s.notify()
}

// SetScanning sets the scan-in-progress flag.
func (s *Store) SetScanning(scanning bool) {
	s.scanning.Store(scanning)
	s.notify()
}

func (s *Store) notify() {
	select {
	case s.changes <- struct{}{}:
	default:
	}
}
