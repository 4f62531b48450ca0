package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/campus-hub/campus-student-hub/internal/domain/session"
	"github.com/campus-hub/campus-student-hub/pkg/timeutil"
)

func init() {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the current session",
		Args:  cobra.NoArgs,
		Run:   runStatus,
	}

	RootCmd.AddCommand(cmd)
}

func runStatus(cmd *cobra.Command, _ []string) {
	a, err := newApp(cmd.Context())
	if err != nil {
		exitErr("startup", err)
	}
	defer a.close()

	snap := a.manager.Snapshot()

	switch snap.Lifecycle {
	case session.Authenticated:
		fmt.Printf("Logged in as %s (%s)\n", snap.Identity.Name, snap.Identity.Mobile)
	case session.AuthFailed:
		fmt.Printf("Last login failed: %s\n", snap.LastError)
		return
	default:
		fmt.Println("Not logged in.")
		return
	}

	for _, kind := range session.AllResourceKinds() {
		slot := snap.Resource(kind)
		if slot.Resource.Present() {
			fetched := timeutil.ToCampus(slot.Resource.FetchedAt)
			fmt.Printf("  %-10s fetched %s %s\n",
				kind, timeutil.FormatDate(fetched), timeutil.FormatClock(fetched))
		} else if slot.RetryEligible {
			fmt.Printf("  %-10s unavailable (run: hub %s --refetch)\n", kind, kind)
		} else {
			fmt.Printf("  %-10s not loaded\n", kind)
		}
	}
}
