package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/FluidXR/fetchdroid/internal/store"
)

var watchInterval time.Duration

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Rescan devices periodically and print changes",
	Long: `Scans adb and fastboot devices, snapshots the first adb device, and
repeats every refresh interval (config refresh_interval, default 5m)
until interrupted. A line is printed whenever the device lists or the
current snapshot change. Snapshots are recorded in history when it is
enabled.`,
	PersistentPreRunE: requireDeps(),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		interval := a.cfg.RefreshInterval
		if watchInterval > 0 {
			interval = watchInterval
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		printCtx, cancelPrint := context.WithCancel(ctx)

		var wg sync.WaitGroup
		wg.Add(1)
		go func() {
			defer wg.Done()
			printChanges(printCtx, a.mgr.Store, func(serial string) string { return nickname(a, serial) }, os.Stdout)
		}()

		fmt.Printf("Watching every %s (Ctrl-C to stop)\n", interval)
		err = a.mgr.Watch(ctx, interval, nil)
		cancelPrint()
		wg.Wait()
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	},
}

// printChanges writes a status line to w each time the store settles into
// a state different from the last one printed. It returns when ctx is done.
func printChanges(ctx context.Context, st *store.Store, nick func(string) string, w io.Writer) {
	var last string
	for {
		select {
		case <-ctx.Done():
			return
		case <-st.Changes():
		}
		if st.Scanning() {
			continue
		}
		line := statusLine(st, nick)
		if line == last {
			continue
		}
		last = line
		fmt.Fprintf(w, "[%s] %s\n", time.Now().Format("15:04:05"), line)
	}
}

func statusLine(st *store.Store, nick func(string) string) string {
	line := fmt.Sprintf("adb: %s | fastboot: %s",
		listOrNone(st.Devices()), listOrNone(st.FastbootDevices()))
	if snap := st.Snapshot(); snap.Connected {
		line += fmt.Sprintf(" | %s%s battery %s, storage %d%%",
			snap.Model, nick(snap.DeviceID), snap.Battery, snap.Storage.Percent)
	}
	return line
}

func listOrNone(ids []string) string {
	if len(ids) == 0 {
		return "none"
	}
	return strings.Join(ids, ", ")
}

func init() {
	watchCmd.Flags().DurationVar(&watchInterval, "interval", 0, "override the refresh interval")
	rootCmd.AddCommand(watchCmd)
}
