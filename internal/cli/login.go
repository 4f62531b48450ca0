package cli

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/campus-hub/campus-student-hub/internal/domain/session"
	"github.com/campus-hub/campus-student-hub/internal/domain/shared"
	"github.com/campus-hub/campus-student-hub/pkg/logger"
)

func init() {
	cmd := &cobra.Command{
		Use:   "login <mobile>",
		Short: "Log in to the campus portal",
		Long: "Authenticate with the portal and hydrate attendance, results and\n" +
			"timetable. The session persists until logout.",
		Args: cobra.ExactArgs(1),
		Run:  runLogin,
	}

	cmd.Flags().StringP("password", "p", "", "Password (prompted when omitted)")

	RootCmd.AddCommand(cmd)
}

func runLogin(cmd *cobra.Command, args []string) {
	mobile := strings.TrimSpace(args[0])

	// Input-boundary validation: reject before building anything.
	if !session.Mobile(mobile).IsValid() {
		exitErr("login", errors.New("mobile must be a 10-digit number"))
	}

	password, _ := cmd.Flags().GetString("password")
	if password == "" {
		password = promptPassword()
	}
	if password == "" {
		exitErr("login", errors.New("password is required"))
	}

	a, err := newApp(cmd.Context())
	if err != nil {
		exitErr("startup", err)
	}
	defer a.close()

	if err := a.manager.Login(cmd.Context(), mobile, password); err != nil {
		if errors.Is(err, shared.ErrUnauthorized) {
			snap := a.manager.Snapshot()
			fmt.Printf("Login rejected: %s\n", snap.LastError)
			os.Exit(1)
		}
		exitErr("login", err)
	}

	snap := a.manager.Snapshot()
	fmt.Printf("Logged in as %s (%s)\n", snap.Identity.Name, snap.Identity.Mobile)

	for _, kind := range session.AllResourceKinds() {
		slot := snap.Resource(kind)
		if slot.Resource.Present() {
			fmt.Printf("  %-10s ready\n", kind)
		} else {
			fmt.Printf("  %-10s unavailable (run: hub %s --refetch)\n", kind, kind)
		}
	}

	a.log.Info("login completed",
		logger.String("mobile", mobile),
		logger.Bool("fully_hydrated", snap.FullyHydrated()),
	)
}

func promptPassword() string {
	fmt.Fprint(os.Stderr, "Password: ")
	reader := bufio.NewReader(os.Stdin)
	line, _ := reader.ReadString('\n')
	return strings.TrimSpace(line)
}
