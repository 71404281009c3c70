package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// tagsCmd fetches a video's tags.
var tagsCmd = &cobra.Command{
	Use:   "tags <video-id>",
	Short: "Show a video's tags",
	Args:  cobra.ExactArgs(1),
	RunE:  runTags,
}

func runTags(cmd *cobra.Command, args []string) error {
	var body struct {
		VideoID string   `json:"videoId"`
		Tags    []string `json:"tags"`
	}

	err := apiGet("/api/v1/videos/"+args[0]+"/tags", &body)
	if err != nil || jsonOutput {
		return err
	}

	if len(body.Tags) == 0 {
		fmt.Printf("no tags for %s\n", body.VideoID)
		return nil
	}

	fmt.Println(strings.Join(body.Tags, ", "))

	return nil
}
