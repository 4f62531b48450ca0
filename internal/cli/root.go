// Package cli implements the hub CLI commands.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// RootCmd is the top-level command.
var RootCmd = &cobra.Command{
	Use:   "hub",
	Short: "Campus student hub",
	Long: "Client for the campus academic-records portal and its assistant service.\n" +
		"Sessions persist across runs: log in once, then query attendance, results,\n" +
		"timetable, notifications, or chat with the assistant.",
	SilenceUsage: true,
}

func exitErr(msg string, err error) {
	fmt.Fprintf(os.Stderr, "error: %s: %v\n", msg, err)
	os.Exit(1)
}
