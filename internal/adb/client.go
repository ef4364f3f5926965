package adb

import (
	"bufio"
	"context"
	"fmt"
	"strings"

	"github.com/FluidXR/fetchdroid/internal/runner"
)

// Client wraps ADB command-line calls.
type Client struct {
	Path string
	Exec runner.Executor
}

// NewClient creates a new ADB client for the binary at path.
func NewClient(path string, exec runner.Executor) *Client {
	if path == "" {
		path = "adb"
	}
	return &Client{Path: path, Exec: exec}
}

// Run executes adb with raw arguments.
func (c *Client) Run(ctx context.Context, args ...string) runner.Result {
	return c.Exec.Run(ctx, c.Path, args...)
}

// Shell runs a shell command on the given device.
func (c *Client) Shell(ctx context.Context, serial string, args ...string) runner.Result {
	full := append([]string{"-s", serial, "shell"}, args...)
	return c.Run(ctx, full...)
}

// Getprop reads one system property from the device.
func (c *Client) Getprop(ctx context.Context, serial, prop string) runner.Result {
	return c.Shell(ctx, serial, "getprop", prop)
}

// Devices returns the identifiers listed by `adb devices`, in output order.
func (c *Client) Devices(ctx context.Context) ([]string, error) {
	res := c.Run(ctx, "devices")
	if err := res.Err(); err != nil {
		return nil, fmt.Errorf("adb devices: %w", err)
	}
	return parseDevices(res.Output), nil
}

// List returns all devices with the details printed by `adb devices -l`.
func (c *Client) List(ctx context.Context) ([]Device, error) {
	res := c.Run(ctx, "devices", "-l")
	if err := res.Err(); err != nil {
		return nil, fmt.Errorf("adb devices -l: %w", err)
	}
	return parseDeviceList(res.Output), nil
}

// Connect connects to a wireless ADB device.
func (c *Client) Connect(ctx context.Context, addr string) error {
	res := c.Run(ctx, "connect", addr)
	if err := res.Err(); err != nil {
		return fmt.Errorf("adb connect %s: %w", addr, err)
	}
	output := strings.TrimSpace(res.Output)
	if strings.Contains(output, "connected") && !strings.Contains(output, "cannot") {
		return nil
	}
	return fmt.Errorf("adb connect %s: %s", addr, output)
}

// parseDevices parses `adb devices`. The first line is the
// "List of devices attached" header. Duplicates are kept.
func parseDevices(output string) []string {
	lines := strings.Split(output, "\n")
	if len(lines) > 0 {
		lines = lines[1:]
	}
	return tabSeparatedIDs(lines)
}

// tabSeparatedIDs returns the text before the first tab of every
// non-blank line that has one.
func tabSeparatedIDs(lines []string) []string {
	var ids []string
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		id, _, found := strings.Cut(line, "\t")
		if !found {
			continue
		}
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		ids = append(ids, id)
	}
	return ids
}

// parseDeviceList parses `adb devices -l` output.
func parseDeviceList(output string) []Device {
	var devices []Device
	scanner := bufio.NewScanner(strings.NewReader(output))
	for scanner.Scan() {
		line := scanner.Text()
		if strings.HasPrefix(line, "List of") || strings.TrimSpace(line) == "" {
			continue
		}
		if strings.HasPrefix(line, "* daemon") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}
		d := Device{
			Serial: fields[0],
			State:  fields[1],
		}
		if strings.Contains(d.Serial, ":") {
			d.ConnType = WiFi
		} else {
			d.ConnType = USB
		}
		for _, f := range fields[2:] {
			key, value, ok := strings.Cut(f, ":")
			if !ok {
				continue
			}
			switch key {
			case "model":
				d.Model = value
			case "product":
				d.Product = value
			case "transport_id":
				d.TransportID = value
			}
		}
		devices = append(devices, d)
	}
	return devices
}
