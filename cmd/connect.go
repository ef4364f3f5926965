package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

// defaultADBPort is appended to configured addresses without a port.
const defaultADBPort = "5555"

var connectCmd = &cobra.Command{
	Use:   "connect [serial...]",
	Short: "Connect to devices over wireless adb",
	Long: `Connects to the WiFi address stored for each serial with
'fetchdroid config set-wifi'. Without arguments every device with a
stored address is tried.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := checkDeps(); err != nil {
			return err
		}
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		serials := args
		if len(serials) == 0 {
			for serial, dc := range a.cfg.Devices {
				if dc.WiFiIP != "" {
					serials = append(serials, serial)
				}
			}
		}
		if len(serials) == 0 {
			return fmt.Errorf("no WiFi addresses configured; use 'fetchdroid config set-wifi' first")
		}

		var failed int
		for _, serial := range serials {
			addr := a.cfg.Devices[serial].WiFiIP
			if addr == "" {
				fmt.Fprintf(os.Stderr, "%s: no WiFi address configured\n", serial)
				failed++
				continue
			}
			if !strings.Contains(addr, ":") {
				addr += ":" + defaultADBPort
			}
			if err := a.mgr.ADB.Connect(cmd.Context(), addr); err != nil {
				fmt.Fprintf(os.Stderr, "%s: %v\n", serial, err)
				failed++
				continue
			}
			fmt.Printf("Connected %s%s at %s\n", serial, nickname(a, serial), addr)
		}
		if failed > 0 {
			return fmt.Errorf("%d of %d connections failed", failed, len(serials))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(connectCmd)
}
