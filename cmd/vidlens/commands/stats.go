package commands

import (
	"fmt"
	"net/url"

	"github.com/spf13/cobra"
)

// statsLimit caps how many rows the text output prints.
var statsLimit int

// statsCmd fetches the word-frequency table for a query.
var statsCmd = &cobra.Command{
	Use:   "stats <query>",
	Short: "Show word-frequency statistics for a query's results",
	Args:  cobra.ExactArgs(1),
	RunE:  runStats,
}

func init() {
	statsCmd.Flags().IntVar(
		&statsLimit, "limit", 25,
		"Maximum number of words to print",
	)
}

func runStats(cmd *cobra.Command, args []string) error {
	var body struct {
		Query string `json:"query"`
		Stats []struct {
			Word  string `json:"word"`
			Count int64  `json:"count"`
		} `json:"stats"`
	}

	path := "/api/v1/stats?query=" + url.QueryEscape(args[0])
	err := apiGet(path, &body)
	if err != nil || jsonOutput {
		return err
	}

	fmt.Printf("word frequencies for %q:\n", body.Query)
	for i, row := range body.Stats {
		if i >= statsLimit {
			break
		}
		fmt.Printf("  %6d  %s\n", row.Count, row.Word)
	}

	return nil
}
