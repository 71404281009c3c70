package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// channelCmd fetches a channel profile.
var channelCmd = &cobra.Command{
	Use:   "channel <channel-id>",
	Short: "Show a channel's profile and recent uploads",
	Args:  cobra.ExactArgs(1),
	RunE:  runChannel,
}

func runChannel(cmd *cobra.Command, args []string) error {
	var profile struct {
		Channel struct {
			ID              string `json:"id"`
			Title           string `json:"title"`
			Description     string `json:"description"`
			Country         string `json:"country"`
			SubscriberCount uint64 `json:"subscriberCount"`
			VideoCount      uint64 `json:"videoCount"`
		} `json:"channel"`
		Videos []struct {
			Title    string `json:"title"`
			VideoURL string `json:"videoUrl"`
		} `json:"videos"`
	}

	err := apiGet("/api/v1/channels/"+args[0], &profile)
	if err != nil || jsonOutput {
		return err
	}

	ch := profile.Channel
	fmt.Printf("%s (%s)\n", ch.Title, ch.ID)
	if ch.Country != "" {
		fmt.Printf("country: %s\n", ch.Country)
	}
	fmt.Printf("subscribers: %d  videos: %d\n",
		ch.SubscriberCount, ch.VideoCount)
	if ch.Description != "" {
		fmt.Printf("\n%s\n", ch.Description)
	}

	if len(profile.Videos) > 0 {
		fmt.Println("\nRecent uploads:")
		for _, video := range profile.Videos {
			fmt.Printf("  %s\n    %s\n", video.Title,
				video.VideoURL)
		}
	}

	return nil
}
