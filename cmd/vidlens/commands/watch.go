package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gorilla/websocket"
	"github.com/spf13/cobra"
)

// watchCmd subscribes to a query and streams results until interrupted.
var watchCmd = &cobra.Command{
	Use:   "watch <query>",
	Short: "Stream live search results for a query",
	Long: `Subscribes to a query over the daemon's WebSocket endpoint. The
first frame summarizes everything already seen for the query; afterwards
each new result is printed as it is found. Interrupt to stop.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

// resultFrame is the subset of both wire frames the watcher renders.
type resultFrame struct {
	Code                string       `json:"code"`
	Query               string       `json:"query"`
	Message             string       `json:"message"`
	TotalCount          int          `json:"totalCount"`
	TotalSentimentScore float64      `json:"totalSentimentScore"`
	TotalReadingScore   float64      `json:"totalReadingScore"`
	TotalReadingGrade   float64      `json:"totalReadingGrade"`
	Results             []watchVideo `json:"results"`
	Result              *watchVideo  `json:"result"`
}

type watchVideo struct {
	Title          string  `json:"title"`
	Channel        string  `json:"channel"`
	VideoURL       string  `json:"videoUrl"`
	SentimentScore float64 `json:"sentimentScore"`
	ReadingScore   float64 `json:"readingScore"`
	GradeLevel     float64 `json:"gradeLevel"`
}

func runWatch(cmd *cobra.Command, args []string) error {
	query := args[0]

	conn, _, err := websocket.DefaultDialer.Dial(wsBaseURL(), nil)
	if err != nil {
		return fmt.Errorf("connecting to %s: %w", wsBaseURL(), err)
	}
	defer conn.Close()

	if err := conn.WriteJSON(map[string]string{
		"code":  "start",
		"query": query,
	}); err != nil {
		return fmt.Errorf("starting search: %w", err)
	}

	// A stop frame on interrupt lets the daemon unsubscribe promptly
	// instead of waiting for the close.
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		_ = conn.WriteJSON(map[string]string{
			"code":  "stop",
			"query": query,
		})
		conn.Close()
	}()

	fmt.Printf("Watching %q, interrupt to stop.\n", query)

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			// Normal exit path once the interrupt closes the
			// connection.
			return nil
		}

		if jsonOutput {
			fmt.Println(string(data))
			continue
		}

		var frame resultFrame
		if err := json.Unmarshal(data, &frame); err != nil {
			continue
		}
		renderFrame(frame)
	}
}

// renderFrame prints one wire frame in a human-readable form.
func renderFrame(frame resultFrame) {
	switch frame.Code {
	case "MultipleResult":
		fmt.Printf("%d results seen for %q "+
			"(sentiment %.2f, reading %.2f, grade %.2f)\n",
			frame.TotalCount, frame.Query,
			frame.TotalSentimentScore, frame.TotalReadingScore,
			frame.TotalReadingGrade)
		for _, video := range frame.Results {
			printVideo(video)
		}

	case "SingleResult":
		if frame.Result != nil {
			printVideo(*frame.Result)
		}

	case "error":
		fmt.Fprintf(os.Stderr, "error: %s\n", frame.Message)
	}
}

func printVideo(v watchVideo) {
	fmt.Printf("  %s (%s)\n", v.Title, v.Channel)
	fmt.Printf("    %s\n", v.VideoURL)
	fmt.Printf("    sentiment %.2f  reading %.2f  grade %.2f\n",
		v.SentimentScore, v.ReadingScore, v.GradeLevel)
}
