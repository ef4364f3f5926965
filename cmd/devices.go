package cmd

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/FluidXR/fetchdroid/internal/history"
)

var (
	devicesLong     bool
	devicesFastboot bool
)

var devicesCmd = &cobra.Command{
	Use:               "devices",
	Short:             "List connected devices",
	PersistentPreRunE: requireDeps(),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()
		ctx := cmd.Context()

		if devicesFastboot {
			ids, err := a.mgr.ScanFastboot(ctx)
			if err != nil {
				return err
			}
			if len(ids) == 0 {
				fmt.Println("No fastboot devices.")
			}
			for _, id := range ids {
				fmt.Printf("%-20s [fastboot]%s\n", id, nickname(a, id))
			}
			return nil
		}

		if !devicesLong {
			ids, err := a.mgr.ADB.Devices(ctx)
			if err != nil {
				return err
			}
			if len(ids) == 0 {
				fmt.Println("No devices connected.")
			}
			for _, id := range ids {
				fmt.Printf("%s%s\n", id, nickname(a, id))
			}
			return nil
		}

		devices, err := a.mgr.ADB.List(ctx)
		if err != nil {
			return err
		}
		if len(devices) == 0 {
			fmt.Println("No devices connected.")
			return nil
		}

		summaries := map[string]history.DeviceSummary{}
		if a.history != nil {
			if list, err := a.history.Devices(); err == nil {
				for _, s := range list {
					summaries[s.DeviceID] = s
				}
			}
		}

		for _, d := range devices {
			status := d.State
			if !d.IsOnline() {
				status = "OFFLINE"
			}

			fmt.Printf("%-20s %s  [%s] [%s]%s\n",
				d.Serial, d.Model, d.ConnType, status, nickname(a, d.Serial))

			if s, ok := summaries[d.Serial]; ok {
				fmt.Printf("  Snapshots recorded: %d | Last change: %s\n",
					s.Snapshots, humanize.Time(s.LastSeen))
			}
		}
		return nil
	},
}

func nickname(a *app, serial string) string {
	if nick := a.cfg.Nickname(serial); nick != "" {
		return fmt.Sprintf(" (%s)", nick)
	}
	return ""
}

func init() {
	devicesCmd.Flags().BoolVarP(&devicesLong, "long", "l", false, "show state, connection type, model and history")
	devicesCmd.Flags().BoolVar(&devicesFastboot, "fastboot", false, "list devices in fastboot mode instead")
	rootCmd.AddCommand(devicesCmd)
}
