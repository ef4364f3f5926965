// Package rclone copies the history database to and from rclone remotes.
package rclone

import (
	"context"
	"fmt"
	"strings"

	"github.com/FluidXR/fetchdroid/internal/runner"
)

// Client wraps rclone command-line calls.
type Client struct {
	Path string
	Exec runner.Executor
}

// NewClient creates a new rclone client.
func NewClient(exec runner.Executor) *Client {
	return &Client{Path: "rclone", Exec: exec}
}

// Copy uploads a local file to an rclone remote destination.
// dest should be like "gdrive:fetchdroid/history.db".
func (c *Client) Copy(ctx context.Context, localPath, dest string) error {
	res := c.Exec.Run(ctx, c.Path, "copyto", localPath, dest)
	if err := res.Err(); err != nil {
		return fmt.Errorf("rclone copyto %s -> %s: %w", localPath, dest, err)
	}
	return nil
}

// CopyFrom downloads a remote file to a local path.
func (c *Client) CopyFrom(ctx context.Context, remoteSrc, localDest string) error {
	res := c.Exec.Run(ctx, c.Path, "copyto", remoteSrc, localDest)
	if err := res.Err(); err != nil {
		return fmt.Errorf("rclone copyto %s -> %s: %w", remoteSrc, localDest, err)
	}
	return nil
}

// ListRemotes returns configured rclone remotes.
func (c *Client) ListRemotes(ctx context.Context) ([]string, error) {
	res := c.Exec.Run(ctx, c.Path, "listremotes")
	if err := res.Err(); err != nil {
		return nil, fmt.Errorf("rclone listremotes: %w", err)
	}
	var remotes []string
	for _, line := range strings.Split(res.Text(), "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			remotes = append(remotes, line)
		}
	}
	return remotes, nil
}

// RemoteName returns the "name:" prefix of a remote path, or "" for a
// local path. A single drive letter ("C:\backup") is local.
func RemoteName(remote string) string {
	i := strings.Index(remote, ":")
	if i <= 1 {
		return ""
	}
	return remote[:i+1]
}

// CheckRemote verifies that the remote named in dest is configured in
// rclone. Local paths always pass.
func (c *Client) CheckRemote(ctx context.Context, dest string) error {
	name := RemoteName(dest)
	if name == "" {
		return nil
	}
	remotes, err := c.ListRemotes(ctx)
	if err != nil {
		return err
	}
	for _, r := range remotes {
		if r == name {
			return nil
		}
	}
	return fmt.Errorf("rclone has no remote %q; configured: %s", name, strings.Join(remotes, " "))
}

// Join appends a file name to a remote path.
func Join(remote, name string) string {
	if !strings.HasSuffix(remote, "/") && !strings.HasSuffix(remote, ":") {
		remote += "/"
	}
	return remote + name
}
