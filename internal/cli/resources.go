package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/campus-hub/campus-student-hub/internal/domain/session"
)

func init() {
	for _, kind := range session.AllResourceKinds() {
		kind := kind
		cmd := &cobra.Command{
			Use:   kind.String(),
			Short: fmt.Sprintf("Show the %s resource", kind),
			Args:  cobra.NoArgs,
			Run: func(cmd *cobra.Command, _ []string) {
				runResource(cmd, kind)
			},
		}
		cmd.Flags().Bool("refetch", false, "Fetch the resource again before showing it")
		cmd.Flags().Bool("raw", false, "Print the payload without indentation")

		RootCmd.AddCommand(cmd)
	}
}

func runResource(cmd *cobra.Command, kind session.ResourceKind) {
	refetch, _ := cmd.Flags().GetBool("refetch")
	raw, _ := cmd.Flags().GetBool("raw")

	a, err := newApp(cmd.Context())
	if err != nil {
		exitErr("startup", err)
	}
	defer a.close()

	snap := a.manager.Snapshot()
	if snap.Lifecycle != session.Authenticated {
		exitErr(kind.String(), errors.New("not logged in (run: hub login <mobile>)"))
	}

	slot := snap.Resource(kind)
	if refetch || !slot.Resource.Present() {
		if err := a.manager.RefetchResource(cmd.Context(), kind); err != nil {
			exitErr(fmt.Sprintf("fetch %s", kind), err)
		}
		slot = a.manager.Snapshot().Resource(kind)
	}

	if raw {
		fmt.Println(string(slot.Resource.Payload))
		return
	}

	var pretty bytes.Buffer
	if err := json.Indent(&pretty, slot.Resource.Payload, "", "  "); err != nil {
		fmt.Println(string(slot.Resource.Payload))
		return
	}
	fmt.Println(pretty.String())
}
