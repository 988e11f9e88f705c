package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var opts cliOptions
	root := &cobra.Command{
		Use:          "lfctl",
		Short:        "Command-line client for the logframe design service",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&opts.server, "server", envOr("LFCTL_SERVER", "http://127.0.0.1:8080"), "API base URL")
	root.PersistentFlags().StringVar(&opts.sessionFile, "session", defaultSessionFile(), "session state file")

	root.AddCommand(
		newLoginCmd(&opts),
		newRegisterCmd(&opts),
		newLogoutCmd(&opts),
		newProjectsCmd(&opts),
		newStepCmd(&opts),
		newImportCmd(&opts),
		newExportCmd(&opts),
		newDiscoverCmd(&opts),
		newBadgesCmd(&opts),
	)
	return root
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func defaultSessionFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".lfctl-session.json"
	}
	return home + "/.lfctl/session.json"
}
