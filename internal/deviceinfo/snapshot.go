// Package deviceinfo collects a complete Snapshot of an Android device by
// running a fixed sequence of adb shell queries and parsing their output.
package deviceinfo

import "github.com/FluidXR/fetchdroid/internal/chipset"

// Unknown is the display value for any text field whose query failed.
const Unknown = "unknown"

// BootloaderState is derived from ro.boot.verifiedbootstate.
type BootloaderState string

const (
	Locked            BootloaderState = "locked"
	PartiallyLocked   BootloaderState = "partially_locked"
	Unlocked          BootloaderState = "unlocked"
	BootloaderUnknown BootloaderState = "unknown"
)

// Storage describes the /data partition.
type Storage struct {
	Total       string  `json:"total" cbor:"1,keyasint"`
	Used        string  `json:"used" cbor:"2,keyasint"`
	Available   string  `json:"available" cbor:"3,keyasint"`
	TotalGB     float64 `json:"total_gb" cbor:"4,keyasint"`
	UsedGB      float64 `json:"used_gb" cbor:"5,keyasint"`
	AvailableGB float64 `json:"available_gb" cbor:"6,keyasint"`
	Percent     int     `json:"percent" cbor:"7,keyasint"`
}

// Chipset is the classified processor plus what the kernel reports about it.
type Chipset struct {
	Brand       chipset.Brand `json:"brand" cbor:"1,keyasint"`
	Model       string        `json:"model" cbor:"2,keyasint"`
	Cores       int           `json:"cores,omitempty" cbor:"3,keyasint,omitempty"`
	MaxGHz      float64       `json:"max_ghz,omitempty" cbor:"4,keyasint,omitempty"`
	Description string        `json:"description" cbor:"5,keyasint"`
}

// Snapshot is everything known about one device at one point in time.
// Every field is populated; failed queries leave their default.
type Snapshot struct {
	DeviceID       string          `json:"device_id" cbor:"1,keyasint"`
	Model          string          `json:"model" cbor:"2,keyasint"`
	Manufacturer   string          `json:"manufacturer" cbor:"3,keyasint"`
	AndroidVersion string          `json:"android_version" cbor:"4,keyasint"`
	SerialNumber   string          `json:"serial_number" cbor:"5,keyasint"`
	BuildNumber    string          `json:"build_number" cbor:"6,keyasint"`
	Bootloader     BootloaderState `json:"bootloader" cbor:"7,keyasint"`
	Rooted         bool            `json:"rooted" cbor:"8,keyasint"`
	Connected      bool            `json:"connected" cbor:"9,keyasint"`
	Uptime         string          `json:"uptime" cbor:"10,keyasint"`
	Storage        Storage         `json:"storage" cbor:"11,keyasint"`
	InstalledApps  int             `json:"installed_apps" cbor:"12,keyasint"`
	SecurityPatch  string          `json:"security_patch" cbor:"13,keyasint"`
	Chipset        Chipset         `json:"chipset" cbor:"14,keyasint"`
	RAM            string          `json:"ram" cbor:"15,keyasint"`
	Battery        string          `json:"battery" cbor:"16,keyasint"`
}

// Disconnected is the snapshot shown when no device is attached.
func Disconnected() Snapshot {
	s := defaults("")
	s.Model = "not connected"
	return s
}

func defaults(id string) Snapshot {
	return Snapshot{
		DeviceID:       id,
		Model:          Unknown,
		Manufacturer:   Unknown,
		AndroidVersion: Unknown,
		SerialNumber:   Unknown,
		BuildNumber:    Unknown,
		Bootloader:     BootloaderUnknown,
		Uptime:         Unknown,
		Storage:        unknownStorage(),
		SecurityPatch:  Unknown,
		Chipset: Chipset{
			Brand:       chipset.Unknown,
			Model:       chipset.UnknownModel,
			Description: Unknown,
		},
		RAM:     Unknown,
		Battery: Unknown,
	}
}

func unknownStorage() Storage {
	return Storage{Total: Unknown, Used: Unknown, Available: Unknown}
}
