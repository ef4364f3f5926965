package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/FluidXR/fetchdroid/internal/reboot"
)

var rebootDevice string

var probeRootCmd = &cobra.Command{
	Use:               "root <serial>",
	Short:             "Check whether a device grants root through su",
	Args:              cobra.ExactArgs(1),
	PersistentPreRunE: requireDeps(),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		state := a.mgr.ProbeRoot(cmd.Context(), args[0])
		fmt.Printf("%s%s: %s\n", args[0], nickname(a, args[0]), state)
		return nil
	},
}

var rebootCmd = &cobra.Command{
	Use:   "reboot <mode> --device <serial>",
	Short: "Reboot a rooted device into a mode",
	Long: `Sends the reboot command for mode through su on the device.
Modes: normal, recovery, bootloader, fastboot, download, safemode, poweroff.
Run 'fetchdroid reboot modes <serial>' to see which a device may use.`,
	Args:              cobra.ExactArgs(1),
	PersistentPreRunE: requireDeps(),
	RunE: func(cmd *cobra.Command, args []string) error {
		mode, err := reboot.ParseMode(args[0])
		if err != nil {
			return err
		}
		if rebootDevice == "" {
			return fmt.Errorf("--device is required")
		}
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		out := a.mgr.Reboot(cmd.Context(), rebootDevice, mode)
		if !out.OK {
			return fmt.Errorf("%s: %s", rebootDevice, out.Message)
		}
		info, _ := reboot.Lookup(mode)
		fmt.Printf("%s: %s (%s)\n", rebootDevice, out.Message, info.Name)
		return nil
	},
}

var rebootModesCmd = &cobra.Command{
	Use:   "modes <serial>",
	Short: "List the reboot modes a device may use",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		modes := a.mgr.RebootModes(cmd.Context(), args[0])
		if len(modes) == 0 {
			fmt.Printf("%s%s: no reboot modes available (%s)\n",
				args[0], nickname(a, args[0]), reboot.MsgElevationRequired)
			return nil
		}
		for _, m := range modes {
			info, _ := reboot.Lookup(m)
			fmt.Printf("  %-11s %-18s %s\n", info.Key, info.Name, info.Description)
		}
		return nil
	},
}

func init() {
	rebootCmd.Flags().StringVarP(&rebootDevice, "device", "d", "", "serial of the device to reboot")
	rebootCmd.AddCommand(rebootModesCmd)
	rootCmd.AddCommand(rebootCmd)
	rootCmd.AddCommand(probeRootCmd)
}
