package cmd

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"time"

	"github.com/FluidXR/fetchdroid/internal/config"
	"github.com/FluidXR/fetchdroid/internal/logging"
	"github.com/FluidXR/fetchdroid/internal/rclone"
	"github.com/FluidXR/fetchdroid/internal/runner"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage fetchdroid configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		fmt.Printf("Config file: %s\n\n", config.ConfigPath())
		fmt.Printf("Resources directory: %s\n", cfg.Resources())
		fmt.Printf("Command timeout:     %s\n", cfg.CommandTimeout)
		fmt.Printf("Transfer timeout:    %s\n", cfg.TransferTimeout)
		fmt.Printf("Refresh interval:    %s\n", cfg.RefreshInterval)
		fmt.Printf("Max parallel:        %d\n", cfg.MaxParallel)
		fmt.Printf("History:             %t\n", cfg.History)
		fmt.Printf("Log level:           %s\n", cfg.LogLevel)
		fmt.Printf("\nDestinations:\n")
		if len(cfg.Destinations) == 0 {
			fmt.Println("  (none configured)")
		}
		for _, d := range cfg.Destinations {
			fmt.Printf("  - %s: %s\n", d.Name, d.RcloneRemote)
		}
		fmt.Printf("\nDevices:\n")
		if len(cfg.Devices) == 0 {
			fmt.Println("  (none configured)")
		}
		serials := make([]string, 0, len(cfg.Devices))
		for serial := range cfg.Devices {
			serials = append(serials, serial)
		}
		sort.Strings(serials)
		for _, serial := range serials {
			dc := cfg.Devices[serial]
			fmt.Printf("  - %s", serial)
			if dc.Nickname != "" {
				fmt.Printf(" (%s)", dc.Nickname)
			}
			if dc.WiFiIP != "" {
				fmt.Printf(" [wifi: %s]", dc.WiFiIP)
			}
			fmt.Println()
		}
		return nil
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create default config file",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.DefaultConfig()
		if err := config.Save(cfg); err != nil {
			return err
		}
		fmt.Printf("Config created at %s\n", config.ConfigPath())
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Long: `Keys: resources_dir, command_timeout, transfer_timeout, refresh_interval,
max_parallel, history, log_level.

Example: fetchdroid config set command_timeout 45s`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, value := args[0], args[1]

		cfg, err := config.Load()
		if err != nil {
			return err
		}
		if err := setConfigValue(cfg, key, value); err != nil {
			return err
		}
		if err := cfg.Validate(); err != nil {
			return err
		}
		if err := config.Save(cfg); err != nil {
			return err
		}
		fmt.Printf("Set %s = %s\n", key, value)
		return nil
	},
}

func setConfigValue(cfg *config.Config, key, value string) error {
	var err error
	switch key {
	case "resources_dir":
		cfg.ResourcesDir = value
	case "command_timeout":
		cfg.CommandTimeout, err = time.ParseDuration(value)
	case "transfer_timeout":
		cfg.TransferTimeout, err = time.ParseDuration(value)
	case "refresh_interval":
		cfg.RefreshInterval, err = time.ParseDuration(value)
	case "max_parallel":
		cfg.MaxParallel, err = strconv.Atoi(value)
	case "history":
		cfg.History, err = strconv.ParseBool(value)
	case "log_level":
		_, err = logging.ParseLevel(value)
		cfg.LogLevel = value
	default:
		return fmt.Errorf("unknown config key %q", key)
	}
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	return nil
}

var configNicknameCmd = &cobra.Command{
	Use:   "nickname <serial> <name>",
	Short: "Set a nickname for a device",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		serial := args[0]
		name := args[1]

		cfg, err := config.Load()
		if err != nil {
			return err
		}
		dc := cfg.Devices[serial]
		dc.Nickname = name
		cfg.Devices[serial] = dc
		if err := config.Save(cfg); err != nil {
			return err
		}
		fmt.Printf("Set nickname for %s: %s\n", serial, name)
		return nil
	},
}

var configAddDestCmd = &cobra.Command{
	Use:   "add-dest <name> <rclone_remote>",
	Short: "Add an rclone destination for history backups",
	Long:  `Example: fetchdroid config add-dest google-drive "gdrive:Android"`,
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]
		remote := args[1]

		cfg, err := config.Load()
		if err != nil {
			return err
		}
		for _, d := range cfg.Destinations {
			if d.Name == name {
				return fmt.Errorf("destination %q already exists", name)
			}
		}
		rc := rclone.NewClient(runner.New(cfg.CommandTimeout, nil))
		if err := rc.CheckRemote(cmd.Context(), remote); err != nil {
			if !runner.IsKind(err, runner.SpawnFailure) {
				return err
			}
			fmt.Fprintln(os.Stderr, "Warning: rclone not found; remote not verified")
		}
		cfg.Destinations = append(cfg.Destinations, config.Destination{
			Name:         name,
			RcloneRemote: remote,
		})
		if err := config.Save(cfg); err != nil {
			return err
		}
		fmt.Printf("Added destination: %s -> %s\n", name, remote)
		return nil
	},
}

var configRemoveDestCmd = &cobra.Command{
	Use:   "remove-dest <name>",
	Short: "Remove an rclone destination",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]

		cfg, err := config.Load()
		if err != nil {
			return err
		}
		found := false
		var remaining []config.Destination
		for _, d := range cfg.Destinations {
			if d.Name == name {
				found = true
				continue
			}
			remaining = append(remaining, d)
		}
		if !found {
			return fmt.Errorf("destination %q not found", name)
		}
		cfg.Destinations = remaining
		if err := config.Save(cfg); err != nil {
			return err
		}
		fmt.Printf("Removed destination: %s\n", name)
		return nil
	},
}

var configSetWiFiCmd = &cobra.Command{
	Use:   "set-wifi <serial> <ip[:port]>",
	Short: "Set the wireless adb address for a device",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		serial := args[0]
		ip := args[1]

		cfg, err := config.Load()
		if err != nil {
			return err
		}
		dc := cfg.Devices[serial]
		dc.WiFiIP = ip
		cfg.Devices[serial] = dc
		if err := config.Save(cfg); err != nil {
			return err
		}
		fmt.Printf("Set WiFi address for %s: %s\n", serial, ip)
		return nil
	},
}

func init() {
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configNicknameCmd)
	configCmd.AddCommand(configAddDestCmd)
	configCmd.AddCommand(configRemoveDestCmd)
	configCmd.AddCommand(configSetWiFiCmd)
	rootCmd.AddCommand(configCmd)
}
