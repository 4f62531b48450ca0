package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/campus-hub/campus-student-hub/internal/application/chat"
	"github.com/campus-hub/campus-student-hub/internal/domain/conversation"
	"github.com/campus-hub/campus-student-hub/pkg/timeutil"
)

func init() {
	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Chat with the campus assistant",
		Long: "Interactive conversation with the assistant. Special inputs:\n" +
			"  /search <query>   run a proactive search\n" +
			"  /feedback <text>  send feedback about the last reply\n" +
			"  /toggle-search    flip search augmentation for chat replies\n" +
			"  /quit             end the conversation",
		Args: cobra.NoArgs,
		Run:  runChat,
	}

	cmd.Flags().Bool("search", false, "Start with search augmentation enabled")

	RootCmd.AddCommand(cmd)
}

func runChat(cmd *cobra.Command, _ []string) {
	withSearch, _ := cmd.Flags().GetBool("search")

	a, err := newApp(cmd.Context())
	if err != nil {
		exitErr("startup", err)
	}
	defer a.close()

	orch := a.newOrchestrator()
	defer orch.Close()
	orch.SetIncludeSearch(withSearch)

	for _, turn := range orch.Transcript() {
		printTurn(turn)
	}

	var lastQuery, lastReply string

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("you> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())

		switch {
		case line == "":
			continue

		case line == "/quit" || line == "/exit":
			return

		case line == "/toggle-search":
			orch.SetIncludeSearch(!orch.IncludeSearch())
			fmt.Printf("search augmentation: %v\n", orch.IncludeSearch())
			continue

		case strings.HasPrefix(line, "/search"):
			query := strings.TrimSpace(strings.TrimPrefix(line, "/search"))
			runChatSearch(cmd, orch, query)
			continue

		case strings.HasPrefix(line, "/feedback"):
			text := strings.TrimSpace(strings.TrimPrefix(line, "/feedback"))
			runChatFeedback(cmd, orch, lastQuery, lastReply, text)
			continue
		}

		reply, err := orch.SendMessage(cmd.Context(), line)
		if err != nil && reply.Text == "" {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			continue
		}
		printTurn(reply)
		lastQuery, lastReply = line, reply.Text
	}
}

func runChatSearch(cmd *cobra.Command, orch *chat.Orchestrator, query string) {
	if query == "" {
		fmt.Fprintln(os.Stderr, "usage: /search <query>")
		return
	}

	if err := orch.Search(cmd.Context(), query); err != nil {
		// The state machine already settled with the failure entry; fall
		// through and render it.
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
	}

	state := orch.SearchState()
	if len(state.Results) == 0 {
		fmt.Println("no results")
		return
	}
	for _, entry := range state.Results {
		fmt.Printf("  %s\n", entry)
	}
}

func runChatFeedback(cmd *cobra.Command, orch *chat.Orchestrator, lastQuery, lastReply, text string) {
	if text == "" {
		fmt.Fprintln(os.Stderr, "usage: /feedback <text>")
		return
	}
	if lastReply == "" {
		fmt.Fprintln(os.Stderr, "nothing to give feedback on yet")
		return
	}

	err := orch.SubmitFeedback(cmd.Context(), conversation.Feedback{
		Query:    lastQuery,
		Response: lastReply,
		Text:     text,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "feedback not delivered: %v\n", err)
		return
	}
	fmt.Println("feedback sent, thank you")
}

func printTurn(turn conversation.Turn) {
	label := "bot"
	if turn.Author == conversation.AuthorUser {
		label = "you"
	}
	fmt.Printf("[%s] %s> %s\n", timeutil.FormatClock(timeutil.ToCampus(turn.CreatedAt)), label, turn.Text)
}
