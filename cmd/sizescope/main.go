// Package main provides the entry point for the sizescope CLI tool.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sizescope/sizescope/cmd/sizescope/commands"
	"github.com/sizescope/sizescope/internal/version"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "sizescope",
		Short: "Build artifact size tracking and comparison",
		Long: `Sizescope tracks per-file build artifact sizes across released versions.

Commands:
  serve     Serve the comparison dashboard
  compare   Compare two versions' size tables
  timeline  Chart one file's size across versions
  report    Write a standalone HTML comparison report
  snapshot  Mirror remote size tables into a local snapshot directory`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().String("config", "", "config file path (default: .sizescope.yaml)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().BoolP("quiet", "q", false, "suppress progress output")

	rootCmd.AddCommand(commands.NewServeCommand())
	rootCmd.AddCommand(commands.NewCompareCommand())
	rootCmd.AddCommand(commands.NewTimelineCommand())
	rootCmd.AddCommand(commands.NewReportCommand())
	rootCmd.AddCommand(commands.NewSnapshotCommand())
	rootCmd.AddCommand(versionCmd())

	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Fprintf(os.Stdout, "sizescope %s (commit: %s, built: %s)\n", version.Version, version.Commit, version.Date)
		},
	}
}
