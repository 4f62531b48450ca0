package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/campus-hub/campus-student-hub/internal/domain/notification"
)

func init() {
	cmd := &cobra.Command{
		Use:   "notifications",
		Short: "Show campus bulletins",
		Long: "Fetch the campus bulletin feed. Bulletins already seen are marked\n" +
			"read; pass --mark-read to mark the rest.",
		Args: cobra.NoArgs,
		Run:  runNotifications,
	}

	cmd.Flags().Bool("mark-read", false, "Mark every listed bulletin as read")
	cmd.Flags().Bool("unread-only", false, "Only show unread bulletins")

	RootCmd.AddCommand(cmd)
}

func runNotifications(cmd *cobra.Command, _ []string) {
	markRead, _ := cmd.Flags().GetBool("mark-read")
	unreadOnly, _ := cmd.Flags().GetBool("unread-only")

	a, err := newApp(cmd.Context())
	if err != nil {
		exitErr("startup", err)
	}
	defer a.close()

	bulletins, err := a.center.Fetch(cmd.Context())
	if err != nil {
		exitErr("notifications", err)
	}

	if len(bulletins) == 0 {
		fmt.Println("No bulletins.")
		return
	}

	shown := 0
	for _, b := range bulletins {
		if unreadOnly && b.Read {
			continue
		}
		marker := " "
		if !b.Read {
			marker = "*"
		}
		fmt.Printf("%s %s  %s\n", marker, b.Date, b.Title)
		shown++
	}
	if shown == 0 {
		fmt.Println("No unread bulletins.")
	}

	if unread := notification.UnreadCount(bulletins); unread > 0 && !markRead {
		fmt.Printf("\n%d unread (pass --mark-read to clear)\n", unread)
	}

	if markRead {
		if err := a.center.MarkAllRead(cmd.Context(), bulletins); err != nil {
			exitErr("mark read", err)
		}
		fmt.Println("\nAll bulletins marked read.")
	}
}
