package fastboot

import (
	"context"
	"fmt"
	"os"
	"strings"
)

// Partition is a flashable target offered to the user.
type Partition struct {
	Name        string
	Description string
}

// Partitions lists the partitions the flash action accepts, in display order.
var Partitions = []Partition{
	{"boot", "kernel image"},
	{"recovery", "recovery mode image"},
	{"system", "system image"},
	{"userdata", "user data"},
	{"cache", "cache"},
	{"vendor", "vendor image"},
	{"dtbo", "device tree overlay"},
	{"vbmeta", "verified boot metadata"},
}

// QuickAction is a canned fastboot command.
type QuickAction struct {
	Args        []string
	Description string
}

// QuickActions are the common fastboot commands exposed as shortcuts.
var QuickActions = []QuickAction{
	{[]string{"devices"}, "detect devices"},
	{[]string{"getvar", "all"}, "read all bootloader variables"},
	{[]string{"reboot"}, "reboot the device"},
	{[]string{"reboot-bootloader"}, "reboot into the bootloader"},
	{[]string{"oem", "unlock"}, "unlock the bootloader"},
}

// Key names the action on the command line, e.g. "getvar-all".
func (a QuickAction) Key() string {
	return strings.Join(a.Args, "-")
}

// LookupAction returns the quick action with the given key.
func LookupAction(key string) (QuickAction, bool) {
	for _, a := range QuickActions {
		if a.Key() == key {
			return a, true
		}
	}
	return QuickAction{}, false
}

// FlashStatus summarizes what fastboot reported for a flash.
type FlashStatus string

const (
	FlashOK      FlashStatus = "ok"
	FlashFailed  FlashStatus = "failed"
	FlashUnknown FlashStatus = "unknown"
)

// FlashResult is the outcome of writing one image.
type FlashResult struct {
	Partition string
	Image     string
	Status    FlashStatus
	Output    string
}

// LookupPartition returns the partition with the given name.
func LookupPartition(name string) (Partition, bool) {
	for _, p := range Partitions {
		if p.Name == name {
			return p, true
		}
	}
	return Partition{}, false
}

// Flash writes image to partition on the device with the given serial.
// An empty serial lets fastboot pick the only attached device.
func (c *Client) Flash(ctx context.Context, serial, partition, image string) (FlashResult, error) {
	result := FlashResult{Partition: partition, Image: image, Status: FlashUnknown}
	if _, ok := LookupPartition(partition); !ok {
		return result, fmt.Errorf("unknown partition %q", partition)
	}
	if info, err := os.Stat(image); err != nil {
		return result, fmt.Errorf("image %s: %w", image, err)
	} else if info.IsDir() {
		return result, fmt.Errorf("image %s is a directory", image)
	}

	var args []string
	if serial != "" {
		args = append(args, "-s", serial)
	}
	args = append(args, "flash", partition, image)
	res := c.Run(ctx, args...)
	result.Output = res.Output
	result.Status = classifyFlash(res.Output)
	if err := res.Err(); err != nil {
		result.Status = FlashFailed
		return result, fmt.Errorf("fastboot flash %s: %w", partition, err)
	}
	return result, nil
}

// classifyFlash reads the fastboot transcript. fastboot reports success
// with "OKAY" per stage and a final "Finished"/"finished" line.
func classifyFlash(output string) FlashStatus {
	switch {
	case strings.Contains(output, "FAILED") || strings.Contains(output, "error"):
		return FlashFailed
	case strings.Contains(output, "OKAY") || strings.Contains(strings.ToLower(output), "finished"):
		return FlashOK
	default:
		return FlashUnknown
	}
}
