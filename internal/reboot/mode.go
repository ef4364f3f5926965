package reboot

import (
	"fmt"
	"strings"
)

// Mode identifies a reboot target.
type Mode int

const (
	Normal Mode = iota
	Recovery
	Bootloader
	Fastboot
	Download
	SafeMode
	PowerOff
)

// ModeInfo is the fixed data attached to a Mode.
type ModeInfo struct {
	Key         string
	Command     string
	Name        string
	Description string
}

var modeTable = map[Mode]ModeInfo{
	Normal:     {"normal", "reboot", "Normal reboot", "Reboot into the system"},
	Recovery:   {"recovery", "reboot recovery", "Recovery", "Reboot into recovery mode"},
	Bootloader: {"bootloader", "reboot bootloader", "Bootloader", "Reboot into the bootloader (fastboot/download)"},
	Fastboot:   {"fastboot", "reboot fastboot", "Fastboot", "Reboot into userspace fastboot"},
	Download:   {"download", "reboot download", "Download", "Reboot into download mode"},
	SafeMode:   {"safemode", "reboot safemode", "Safe mode", "Reboot into safe mode"},
	PowerOff:   {"poweroff", "reboot -p", "Power off", "Shut the device down"},
}

var modeOrder = []Mode{Normal, Recovery, Bootloader, Fastboot, Download, SafeMode, PowerOff}

// Modes returns every reboot mode in display order.
func Modes() []Mode {
	return append([]Mode(nil), modeOrder...)
}

// Lookup returns the table entry for m.
func Lookup(m Mode) (ModeInfo, bool) {
	info, ok := modeTable[m]
	return info, ok
}

// ParseMode finds a mode by its key ("recovery", "poweroff", ...).
func ParseMode(key string) (Mode, error) {
	key = strings.ToLower(strings.TrimSpace(key))
	for _, m := range modeOrder {
		if modeTable[m].Key == key {
			return m, nil
		}
	}
	return 0, fmt.Errorf("unknown reboot mode %q", key)
}

func (m Mode) String() string {
	if info, ok := modeTable[m]; ok {
		return info.Key
	}
	return fmt.Sprintf("mode(%d)", int(m))
}
