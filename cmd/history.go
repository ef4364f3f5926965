package cmd

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/FluidXR/fetchdroid/internal/config"
	"github.com/FluidXR/fetchdroid/internal/history"
	"github.com/FluidXR/fetchdroid/internal/rclone"
	"github.com/FluidXR/fetchdroid/internal/runner"
)

// backupName is the history database path under each destination.
const backupName = ".fetchdroid/" + history.FileName

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history [serial]",
	Short: "Show recorded snapshot history",
	Long: `Without a serial, summarizes the history kept for every device.
With a serial, lists that device's recorded snapshots, newest first.
A snapshot is only recorded when it differs from the previous one.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := history.Open(config.ConfigDir())
		if err != nil {
			return fmt.Errorf("open history: %w", err)
		}
		defer db.Close()
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		if len(args) == 0 {
			devices, err := db.Devices()
			if err != nil {
				return err
			}
			if len(devices) == 0 {
				fmt.Println("No history recorded.")
				return nil
			}
			for _, d := range devices {
				label := d.DeviceID
				if nick := cfg.Nickname(d.DeviceID); nick != "" {
					label += " (" + nick + ")"
				}
				fmt.Printf("%-30s %4d snapshots, last change %s\n",
					label, d.Snapshots, humanize.Time(d.LastSeen))
			}
			return nil
		}

		entries, err := db.List(args[0], historyLimit)
		if err != nil {
			return err
		}
		if len(entries) == 0 {
			fmt.Printf("No history for %s.\n", args[0])
			return nil
		}
		for _, e := range entries {
			s := e.Snapshot
			fmt.Printf("%-16s Android %-4s %-18s battery %-5s storage %3d%%  uptime %-9s root=%t bootloader=%s\n",
				humanize.Time(e.TakenAt), s.AndroidVersion, s.BuildNumber,
				s.Battery, s.Storage.Percent, s.Uptime, s.Rooted, s.Bootloader)
		}
		return nil
	},
}

var historyBackupCmd = &cobra.Command{
	Use:   "backup [destination-name]",
	Short: "Copy the history database to rclone destinations",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		dests, err := pickDestinations(a.cfg, args)
		if err != nil {
			return err
		}
		db := a.history
		if db == nil {
			if db, err = history.Open(config.ConfigDir()); err != nil {
				return fmt.Errorf("open history: %w", err)
			}
			defer db.Close()
		}
		if err := db.Checkpoint(); err != nil {
			return err
		}
		dbPath := db.Path()

		rc := rclone.NewClient(a.transfer)
		var failed int
		for _, dest := range dests {
			remote := rclone.Join(dest.RcloneRemote, backupName)
			fmt.Printf("  %s -> %s\n", dest.Name, remote)
			if err := rc.Copy(cmd.Context(), dbPath, remote); err != nil {
				fmt.Fprintf(os.Stderr, "  Warning: history backup to %s failed: %v\n", dest.Name, err)
				failed++
			}
		}
		if failed == len(dests) {
			return fmt.Errorf("history backup failed on every destination")
		}
		return nil
	},
}

var historyRestoreCmd = &cobra.Command{
	Use:   "restore [destination-name]",
	Short: "Restore the history database from a backup",
	Long: `Downloads the history database backup from a configured rclone destination.
If no destination is specified, tries each one until a backup is found.

Example: fetchdroid history restore my-nas`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		dests, err := pickDestinations(cfg, args)
		if err != nil {
			return err
		}

		configDir := config.ConfigDir()
		localDB := filepath.Join(configDir, history.FileName)
		if _, err := os.Stat(localDB); err == nil {
			fmt.Printf("Warning: local history already exists at %s\n", localDB)
			fmt.Print("Overwrite? [y/N] ")
			answer, _ := bufio.NewReader(os.Stdin).ReadString('\n')
			answer = strings.TrimSpace(strings.ToLower(answer))
			if answer != "y" && answer != "yes" {
				fmt.Println("Aborted.")
				return nil
			}
		}
		if err := os.MkdirAll(configDir, 0o755); err != nil {
			return fmt.Errorf("create config dir: %w", err)
		}

		rc := rclone.NewClient(runner.New(cfg.TransferTimeout, nil))
		for _, dest := range dests {
			remote := rclone.Join(dest.RcloneRemote, backupName)
			fmt.Printf("Trying %s (%s)...\n", dest.Name, remote)
			if err := rc.CopyFrom(cmd.Context(), remote, localDB); err != nil {
				fmt.Printf("  Not found or failed: %v\n", err)
				continue
			}
			// Stale WAL files would be replayed over the restored database.
			os.Remove(localDB + "-wal")
			os.Remove(localDB + "-shm")
			fmt.Printf("History restored from %s to %s\n", dest.Name, localDB)
			return nil
		}
		return fmt.Errorf("no history backup found on any destination")
	},
}

// pickDestinations returns the named destination, or all of them.
func pickDestinations(cfg *config.Config, args []string) ([]config.Destination, error) {
	if len(cfg.Destinations) == 0 {
		return nil, fmt.Errorf("no destinations configured; add one with 'fetchdroid config add-dest' first")
	}
	if len(args) == 0 {
		return cfg.Destinations, nil
	}
	for _, d := range cfg.Destinations {
		if d.Name == args[0] {
			return []config.Destination{d}, nil
		}
	}
	return nil, fmt.Errorf("destination %q not found in config", args[0])
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "maximum entries to show (0 for all)")
	historyCmd.AddCommand(historyBackupCmd)
	historyCmd.AddCommand(historyRestoreCmd)
	rootCmd.AddCommand(historyCmd)
}
