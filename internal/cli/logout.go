package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/campus-hub/campus-student-hub/internal/domain/session"
)

func init() {
	cmd := &cobra.Command{
		Use:   "logout",
		Short: "Clear the session and all persisted data",
		Long: "Reset the in-memory session and purge every persisted key,\n" +
			"including notification read markers. Always succeeds.",
		Args: cobra.NoArgs,
		Run:  runLogout,
	}

	RootCmd.AddCommand(cmd)
}

func runLogout(cmd *cobra.Command, _ []string) {
	a, err := newApp(cmd.Context())
	if err != nil {
		exitErr("startup", err)
	}
	defer a.close()

	wasAuthenticated := a.manager.Snapshot().Lifecycle == session.Authenticated

	a.manager.Logout(cmd.Context())

	if wasAuthenticated {
		fmt.Println("Logged out.")
	} else {
		fmt.Println("No active session; persisted data cleared anyway.")
	}
}
