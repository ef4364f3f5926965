package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version of fetchdroid.
const Version = "0.1.0"

var (
	verbose     bool
	timeoutFlag string
)

var rootCmd = &cobra.Command{
	Use:     "fetchdroid",
	Short:   "Inspect, reboot and flash Android devices over adb and fastboot",
	Version: Version,
	Long: `fetchdroid discovers Android devices attached over adb or sitting in
fastboot, collects a snapshot of their hardware and software state, and
exposes the reboot and flash operations each device is allowed to use.`,
	SilenceUsage: true,
}

// requireDeps returns a PersistentPreRunE that checks for the adb and
// fastboot binaries and prompts to nickname any new devices.
func requireDeps() func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		if err := checkDeps(); err != nil {
			return err
		}
		checkNewDevices(cmd.Context())
		return nil
	}
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log every command at debug level")
	rootCmd.PersistentFlags().StringVar(&timeoutFlag, "timeout", "", "per-command timeout, e.g. 45s (default from config)")
}
