package web

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/roasbeef/vidlens/internal/actorutil"
	"github.com/roasbeef/vidlens/internal/models"
	"github.com/roasbeef/vidlens/internal/wordstats"
	"golang.org/x/sync/errgroup"
)

// channelProfile is the channel endpoint's response body.
type channelProfile struct {
	Channel models.ChannelInfo    `json:"channel"`
	Videos  []*models.VideoResult `json:"videos"`
}

// handleChannel assembles a channel profile: the channel's details and its
// recent uploads, fetched concurrently.
func (s *Server) handleChannel(w http.ResponseWriter, r *http.Request) {
	channelID := r.PathValue("id")

	ctx, cancel := context.WithTimeout(r.Context(), s.cfg.AskTimeout)
	defer cancel()

	var profile channelProfile

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		info, err := s.cfg.Catalog.ChannelDetails(gctx, channelID)
		if err != nil {
			return err
		}
		profile.Channel = info

		return nil
	})
	g.Go(func() error {
		videos, err := s.cfg.Catalog.RecentUploads(gctx, channelID)
		if err != nil {
			return err
		}
		profile.Videos = videos

		return nil
	})

	if err := g.Wait(); err != nil {
		log.ErrorS(ctx, "Channel profile failed", err,
			"channel_id", channelID)
		writeError(w, http.StatusBadGateway, err)
		return
	}

	writeJSON(w, profile)
}

// handleTags returns a video's tags.
func (s *Server) handleTags(w http.ResponseWriter, r *http.Request) {
	videoID := r.PathValue("id")

	ctx, cancel := context.WithTimeout(r.Context(), s.cfg.AskTimeout)
	defer cancel()

	tags, err := s.cfg.Catalog.TagsFor(ctx, videoID)
	if err != nil {
		log.ErrorS(ctx, "Tag lookup failed", err, "video_id", videoID)
		writeError(w, http.StatusBadGateway, err)
		return
	}

	writeJSON(w, map[string]any{
		"videoId": videoID,
		"tags":    tags,
	})
}

// handleStats returns the word-frequency table for a query's results.
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("query")
	if query == "" {
		writeErrorMessage(w, http.StatusBadRequest,
			"missing query parameter")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.cfg.AskTimeout)
	defer cancel()

	stats, err := actorutil.AskAwait(
		ctx, s.cfg.WordStats, wordstats.ComputeStats{Query: query},
	)
	if err != nil {
		log.ErrorS(ctx, "Word stats failed", err, "query", query)
		writeError(w, http.StatusBadGateway, err)
		return
	}

	writeJSON(w, map[string]any{
		"query": query,
		"stats": stats,
	})
}

// writeJSON writes a 200 response with a JSON body.
func writeJSON(w http.ResponseWriter, body any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.ErrorS(context.Background(), "Response encode failed", err)
	}
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, err error) {
	writeErrorMessage(w, status, err.Error())
}

// writeErrorMessage writes a JSON error response with a fixed message.
func writeErrorMessage(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
