package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/FluidXR/fetchdroid/internal/adb"
	"github.com/FluidXR/fetchdroid/internal/config"
	"github.com/FluidXR/fetchdroid/internal/runner"
)

type dependency struct {
	name       string
	binary     string
	optional   bool
	installCmd map[string]string // GOOS -> install command
}

var dependencies = []dependency{
	{
		name:   "ADB (Android Debug Bridge)",
		binary: "adb",
		installCmd: map[string]string{
			"darwin":  "brew install android-platform-tools",
			"linux":   "sudo apt install android-tools-adb",
			"windows": "winget install Google.PlatformTools",
		},
	},
	{
		name:   "fastboot",
		binary: "fastboot",
		installCmd: map[string]string{
			"darwin":  "brew install android-platform-tools",
			"linux":   "sudo apt install android-tools-fastboot",
			"windows": "winget install Google.PlatformTools",
		},
	},
	{
		name:     "rclone (history backup only)",
		binary:   "rclone",
		optional: true,
		installCmd: map[string]string{
			"darwin":  "brew install rclone",
			"linux":   "curl https://rclone.org/install.sh | sudo bash",
			"windows": "winget install Rclone.Rclone",
		},
	},
}

// locate returns where binary would be run from: the bundled
// platform-tools directory first, then PATH.
func locate(resources, binary string) (string, error) {
	path := runner.Resolve(resources, binary)
	if filepath.IsAbs(path) {
		return path, nil
	}
	return exec.LookPath(path)
}

func resourcesDir() string {
	cfg, err := config.Load()
	if err != nil {
		return config.DefaultConfig().Resources()
	}
	return cfg.Resources()
}

// checkDeps verifies that the required tools are available. On a
// terminal it offers to install missing ones.
func checkDeps() error {
	resources := resourcesDir()
	var missing []dependency
	for _, dep := range dependencies {
		if dep.optional {
			continue
		}
		if _, err := locate(resources, dep.binary); err != nil {
			missing = append(missing, dep)
		}
	}
	if len(missing) == 0 {
		return nil
	}

	fmt.Println("fetchdroid requires the following tools that are not installed:")
	fmt.Println()
	for _, dep := range missing {
		fmt.Printf("  - %s (%s)\n", dep.name, dep.binary)
	}
	fmt.Println()

	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return fmt.Errorf("missing %s; install it or place it under %s",
			missing[0].binary, filepath.Join(resources, "platform-tools"))
	}

	reader := bufio.NewReader(os.Stdin)

	for _, dep := range missing {
		cmd, ok := dep.installCmd[runtime.GOOS]
		if !ok {
			fmt.Printf("Please install %s manually and try again.\n", dep.name)
			continue
		}

		fmt.Printf("Install %s with: %s\n", dep.name, cmd)
		fmt.Print("Run now? [Y/n] ")
		answer, _ := reader.ReadString('\n')
		answer = strings.TrimSpace(strings.ToLower(answer))

		if answer != "" && answer != "y" && answer != "yes" {
			fmt.Printf("Skipped. Install %s manually before using fetchdroid.\n", dep.name)
			continue
		}

		fmt.Printf("Running: %s\n", cmd)
		parts := strings.Fields(cmd)
		install := exec.Command(parts[0], parts[1:]...)
		install.Stdout = os.Stdout
		install.Stderr = os.Stderr
		install.Stdin = os.Stdin
		if err := install.Run(); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to install %s: %v\n", dep.name, err)
			fmt.Fprintf(os.Stderr, "Please install it manually and try again.\n")
		} else {
			fmt.Printf("%s installed successfully.\n\n", dep.name)
		}
	}

	// Re-check after install attempts
	for _, dep := range missing {
		if _, err := locate(resources, dep.binary); err != nil {
			return fmt.Errorf("%s is required but not installed", dep.binary)
		}
	}
	return nil
}

// checkNewDevices prompts the user to nickname any newly discovered devices.
func checkNewDevices(ctx context.Context) {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return
	}
	a, err := newApp()
	if err != nil {
		return
	}
	defer a.Close()

	devices, err := a.mgr.ADB.List(ctx)
	if err != nil {
		return
	}

	reader := bufio.NewReader(os.Stdin)
	changed := false

	for _, d := range devices {
		if !d.IsOnline() {
			continue
		}
		if _, known := a.cfg.Devices[d.Serial]; known {
			continue
		}

		model := d.Model
		if model == "" {
			model = "unknown model"
		}
		fmt.Printf("\nNew device detected: %s (%s)\n", d.Serial, model)
		fmt.Print("Give it a nickname (or press Enter to skip): ")
		name, _ := reader.ReadString('\n')
		name = strings.TrimSpace(name)

		dc := a.cfg.Devices[d.Serial]
		if name != "" {
			dc.Nickname = name
		}
		if d.ConnType == adb.WiFi {
			dc.WiFiIP = d.Serial
		}
		a.cfg.Devices[d.Serial] = dc
		changed = true
	}

	if changed {
		if err := config.Save(a.cfg); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: could not save config: %v\n", err)
		}
	}
}

var depsCmd = &cobra.Command{
	Use:   "deps",
	Short: "Show where adb, fastboot and rclone are found",
	RunE: func(cmd *cobra.Command, args []string) error {
		resources := resourcesDir()
		fmt.Printf("Resources directory: %s\n\n", resources)
		var missing bool
		for _, dep := range dependencies {
			path, err := locate(resources, dep.binary)
			switch {
			case err == nil:
				fmt.Printf("  %-10s %s\n", dep.binary, path)
			case dep.optional:
				fmt.Printf("  %-10s not found (optional)\n", dep.binary)
			default:
				fmt.Printf("  %-10s not found\n", dep.binary)
				missing = true
			}
		}
		if missing {
			return fmt.Errorf("required tools are missing; run a device command to install them")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(depsCmd)
}
