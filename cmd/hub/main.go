// Package main is the entrypoint of the campus student hub CLI.
//
// The hub is a client for two campus services: the academic-records portal
// (login, attendance, results, timetable) and the assistant service (chat,
// search, feedback, bulletins). Session state persists across invocations
// through the configured store backend.
//
// The architecture follows Clean Architecture and DDD:
// - Domain: session, conversation and notification models, no external deps
// - Application: session manager, conversation orchestrator, bulletin center
// - Infrastructure: store backends, portal and assistant clients, event bus
// - Interface: the CLI commands
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/campus-hub/campus-student-hub/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := cli.RootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
