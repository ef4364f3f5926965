package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/FluidXR/fetchdroid/internal/fastboot"
)

var flashDevice string

var flashCmd = &cobra.Command{
	Use:   "flash <partition> <image>",
	Short: "Flash an image to a partition of a fastboot device",
	Long: `Writes image to partition with fastboot. Accepted partitions:
boot, recovery, system, userdata, cache, vendor, dtbo, vbmeta.
Without --device fastboot picks the only attached device.`,
	Args:              cobra.ExactArgs(2),
	PersistentPreRunE: requireDeps(),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		fmt.Printf("Flashing %s -> %s...\n", args[1], args[0])
		res, err := a.mgr.Flash(cmd.Context(), flashDevice, args[0], args[1])
		if res.Output != "" {
			fmt.Print(res.Output)
		}
		if err != nil {
			return err
		}
		switch res.Status {
		case fastboot.FlashOK:
			fmt.Println("Flash finished.")
		case fastboot.FlashFailed:
			return fmt.Errorf("flash of %s reported failure", args[0])
		default:
			fmt.Fprintln(os.Stderr, "fastboot exited cleanly but printed no confirmation; check the output above.")
		}
		return nil
	},
}

var fastbootActionsCmd = &cobra.Command{
	Use:   "fastboot-actions [action]",
	Short: "List or run common fastboot commands",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			for _, act := range fastboot.QuickActions {
				fmt.Printf("  %-18s %s\n", act.Key(), act.Description)
			}
			fmt.Println("\nPartitions accepted by flash:")
			for _, p := range fastboot.Partitions {
				fmt.Printf("  %-18s %s\n", p.Name, p.Description)
			}
			return nil
		}
		act, ok := fastboot.LookupAction(args[0])
		if !ok {
			return fmt.Errorf("unknown fastboot action %q", args[0])
		}
		if err := checkDeps(); err != nil {
			return err
		}
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		res := a.mgr.Fastboot.Run(cmd.Context(), act.Args...)
		fmt.Print(res.Output)
		return res.Err()
	},
}

func init() {
	flashCmd.Flags().StringVarP(&flashDevice, "device", "d", "", "serial of the fastboot device")
	rootCmd.AddCommand(flashCmd)
	rootCmd.AddCommand(fastbootActionsCmd)
}
