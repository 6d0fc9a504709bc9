// Package main is the entry point for the codepadctl CLI.
package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
)

// Global flags.
var (
	serverURL string
	timeout   time.Duration
)

const defaultServerURL = "http://localhost:3001"

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "codepadctl",
		Short:         "Command line client for the codepad execution gateway",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&serverURL, "server", envOr("CODEPAD_SERVER", defaultServerURL), "Gateway base URL")
	root.PersistentFlags().DurationVar(&timeout, "timeout", 60*time.Second, "Request timeout")

	root.AddCommand(newLanguagesCmd())
	root.AddCommand(newResolveCmd())
	root.AddCommand(newShareCmd())
	root.AddCommand(newRunCmd())

	return root
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		var exit *exitError
		if errors.As(err, &exit) {
			os.Exit(exit.code)
		}
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
