package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/FluidXR/fetchdroid/internal/runner"
)

var adbCmd = &cobra.Command{
	Use:   "adb <command line>",
	Short: "Run a free-text adb command",
	Long: `Runs adb with the given arguments under the configured timeout.
Arguments are joined and split again with shell quoting rules, so quote
the whole line to keep inner quotes:

  fetchdroid adb 'shell "ls /sdcard"'`,
	Args:               cobra.MinimumNArgs(1),
	DisableFlagParsing: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTool(cmd.Context(), args, func(a *app, ctx context.Context, line string) (runner.Result, error) {
			return a.mgr.RunADB(ctx, line)
		})
	},
}

var fastbootCmd = &cobra.Command{
	Use:                "fastboot <command line>",
	Short:              "Run a free-text fastboot command",
	Args:               cobra.MinimumNArgs(1),
	DisableFlagParsing: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTool(cmd.Context(), args, func(a *app, ctx context.Context, line string) (runner.Result, error) {
			return a.mgr.RunFastboot(ctx, line)
		})
	},
}

func runTool(ctx context.Context, args []string, run func(*app, context.Context, string) (runner.Result, error)) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	res, err := run(a, ctx, strings.Join(args, " "))
	if err != nil {
		return err
	}
	fmt.Print(res.Output)
	if res.Output != "" && !strings.HasSuffix(res.Output, "\n") {
		fmt.Println()
	}
	if !res.OK() {
		fmt.Fprintf(os.Stderr, "%s\n", res.Kind)
		return res.Err()
	}
	return nil
}

func init() {
	rootCmd.AddCommand(adbCmd)
	rootCmd.AddCommand(fastbootCmd)
}
