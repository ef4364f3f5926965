package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/FluidXR/fetchdroid/internal/deviceinfo"
)

var (
	infoJSON bool
	infoAll  bool
)

var infoCmd = &cobra.Command{
	Use:   "info [serial]",
	Short: "Show a snapshot of a device",
	Long: `Collects model, Android version, bootloader and root state, chipset,
storage, RAM and battery from a device. Without a serial the first
device listed by adb is used. --all snapshots every listed device.`,
	Args:              cobra.MaximumNArgs(1),
	PersistentPreRunE: requireDeps(),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()
		ctx := cmd.Context()

		var snaps []deviceinfo.Snapshot
		switch {
		case infoAll:
			ids, err := a.mgr.ADB.Devices(ctx)
			if err != nil {
				return err
			}
			for i, snap := range a.mgr.SnapshotAll(ctx, ids) {
				if snap == nil {
					fmt.Fprintf(os.Stderr, "%s: device unreachable\n", ids[i])
					continue
				}
				snaps = append(snaps, *snap)
			}
		case len(args) == 1:
			snap, err := a.mgr.Snapshot(ctx, args[0])
			if err != nil {
				return err
			}
			snaps = append(snaps, snap)
		default:
			ids, err := a.mgr.ScanDevices(ctx)
			if err != nil {
				return err
			}
			if len(ids) == 0 {
				return fmt.Errorf("no devices connected")
			}
			snap := a.mgr.Store.Snapshot()
			if !snap.Connected {
				return fmt.Errorf("%s: device unreachable", ids[0])
			}
			snaps = append(snaps, snap)
		}

		if infoJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			if infoAll {
				return enc.Encode(snaps)
			}
			if len(snaps) == 0 {
				return fmt.Errorf("no snapshot collected")
			}
			return enc.Encode(snaps[0])
		}

		for _, snap := range snaps {
			title := snap.Manufacturer + " " + snap.Model + nickname(a, snap.DeviceID)
			fmt.Println(renderSnapshot(snap, title))
		}
		return nil
	},
}

func init() {
	infoCmd.Flags().BoolVar(&infoJSON, "json", false, "print the snapshot as JSON")
	infoCmd.Flags().BoolVar(&infoAll, "all", false, "snapshot every connected device")
	rootCmd.AddCommand(infoCmd)
}
