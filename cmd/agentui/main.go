package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "agentui",
		Short: "Agent-to-UI rendering engine",
		Long: `agentui serves the dynamic UI rendering engine behind the
CounselKit collaboration client.

A remote agent pushes declarative UI specifications and state deltas
over a WebSocket; the engine resolves them against the component
registry and maintains a live, reactive view tree per session.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		serveCmd(),
		componentsCmd(),
		versionCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}
