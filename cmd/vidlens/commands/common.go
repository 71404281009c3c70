package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// apiGet fetches one API path and decodes the JSON body into out. With
// --json the raw body is printed instead and out is left untouched.
func apiGet(path string, out any) error {
	resp, err := http.Get(strings.TrimRight(serverURL, "/") + path)
	if err != nil {
		return fmt.Errorf("requesting %s: %w", path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var apiErr struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(body, &apiErr) == nil && apiErr.Error != "" {
			return fmt.Errorf("server: %s", apiErr.Error)
		}
		return fmt.Errorf("server returned %s", resp.Status)
	}

	if jsonOutput {
		fmt.Println(string(body))
		return nil
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}

	return nil
}

// wsBaseURL derives the WebSocket endpoint from the server URL.
func wsBaseURL() string {
	base := strings.TrimRight(serverURL, "/")
	switch {
	case strings.HasPrefix(base, "https://"):
		base = "wss://" + strings.TrimPrefix(base, "https://")
	case strings.HasPrefix(base, "http://"):
		base = "ws://" + strings.TrimPrefix(base, "http://")
	}

	return base + "/ws"
}
