package runner

import (
	"os"
	"path/filepath"
	"runtime"

	"github.com/mattn/go-shellwords"
)

// Resolve returns the path to use for the named tool. A copy bundled in
// resourcesDir/platform-tools wins; otherwise the bare name is returned
// and looked up in PATH when the command is started.
func Resolve(resourcesDir, name string) string {
	if resourcesDir == "" {
		return name
	}
	exe := name
	if runtime.GOOS == "windows" {
		exe += ".exe"
	}
	bundled := filepath.Join(resourcesDir, "platform-tools", exe)
	info, err := os.Stat(bundled)
	if err != nil || info.IsDir() {
		return name
	}
	if abs, err := filepath.Abs(bundled); err == nil {
		return abs
	}
	return bundled
}

// SplitArgs breaks a free-text command line into arguments using shell
// quoting rules, so `flash boot "my image.img"` keeps the path whole.
func SplitArgs(line string) ([]string, error) {
	args, err := shellwords.Parse(line)
	if err != nil {
		return nil, ParseError("command line", line)
	}
	return args, nil
}
