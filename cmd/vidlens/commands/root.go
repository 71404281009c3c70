package commands

import (
	"github.com/spf13/cobra"
)

var (
	// serverURL is the base URL of the vidlensd HTTP API.
	serverURL string

	// jsonOutput switches command output to raw JSON.
	jsonOutput bool
)

// rootCmd is the base command for the CLI.
var rootCmd = &cobra.Command{
	Use:   "vidlens",
	Short: "vidlens video search CLI",
	Long: `vidlens talks to a running vidlensd daemon: stream live search
results over WebSocket, or query channel profiles, video tags and word
statistics over the HTTP API.`,
}

// Execute runs the CLI.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&serverURL, "server", "http://localhost:8080",
		"Base URL of the vidlensd daemon",
	)
	rootCmd.PersistentFlags().BoolVar(
		&jsonOutput, "json", false,
		"Print raw JSON responses",
	)

	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(channelCmd)
	rootCmd.AddCommand(tagsCmd)
	rootCmd.AddCommand(statsCmd)
}
