// Package fastboot wraps the fastboot command-line client used while a
// device sits in its bootloader.
package fastboot

import (
	"context"
	"fmt"
	"strings"

	"github.com/FluidXR/fetchdroid/internal/runner"
)

// Client wraps fastboot command-line calls.
type Client struct {
	Path string
	Exec runner.Executor
}

// NewClient creates a new fastboot client for the binary at path.
func NewClient(path string, exec runner.Executor) *Client {
	if path == "" {
		path = "fastboot"
	}
	return &Client{Path: path, Exec: exec}
}

// Run executes fastboot with raw arguments.
func (c *Client) Run(ctx context.Context, args ...string) runner.Result {
	return c.Exec.Run(ctx, c.Path, args...)
}

// Devices returns the identifiers listed by `fastboot devices`. Unlike
// adb, fastboot prints no header line.
func (c *Client) Devices(ctx context.Context) ([]string, error) {
	res := c.Run(ctx, "devices")
	if err := res.Err(); err != nil {
		return nil, fmt.Errorf("fastboot devices: %w", err)
	}
	return parseDevices(res.Output), nil
}

func parseDevices(output string) []string {
	var ids []string
	for _, line := range strings.Split(output, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		id, _, found := strings.Cut(line, "\t")
		if !found {
			continue
		}
		if id = strings.TrimSpace(id); id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}
