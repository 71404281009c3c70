// Package models defines the domain types shared across the vidlens
// services: catalog search results and channel profiles.
package models

// VideoResult is one entry returned by a catalog search. The identity
// fields are set once at fetch time; the three score fields start at zero
// and are filled in by the enrichment pipeline.
type VideoResult struct {
	// ID is the catalog's video identifier.
	ID string `json:"id"`

	// Title is the video title.
	Title string `json:"title"`

	// Channel is the display name of the publishing channel.
	Channel string `json:"channel"`

	// Description is the video description, the input text for both
	// enrichment stages.
	Description string `json:"description"`

	// VideoURL is the watch hyperlink.
	VideoURL string `json:"videoUrl"`

	// ChannelID identifies the publishing channel.
	ChannelID string `json:"channelId"`

	// ThumbnailURL is the default thumbnail hyperlink.
	ThumbnailURL string `json:"thumbnailUrl"`

	// SentimentScore is the summed lexicon sentiment of the description.
	SentimentScore float64 `json:"sentimentScore"`

	// ReadingScore is the Flesch Reading Ease score of the description.
	ReadingScore float64 `json:"readingScore"`

	// GradeLevel is the Flesch-Kincaid grade level of the description.
	GradeLevel float64 `json:"gradeLevel"`
}

// DedupKey is the comparable identity used by workers to decide whether a
// result has been seen before. It deliberately includes SentimentScore while
// excluding ReadingScore and GradeLevel: the upstream system we mirror
// defined equality this way, and compatibility requires keeping the quirk.
type DedupKey struct {
	ID             string
	Title          string
	Channel        string
	Description    string
	VideoURL       string
	ChannelID      string
	ThumbnailURL   string
	SentimentScore float64
}

// Key derives the dedup identity of the result.
func (v *VideoResult) Key() DedupKey {
	return DedupKey{
		ID:             v.ID,
		Title:          v.Title,
		Channel:        v.Channel,
		Description:    v.Description,
		VideoURL:       v.VideoURL,
		ChannelID:      v.ChannelID,
		ThumbnailURL:   v.ThumbnailURL,
		SentimentScore: v.SentimentScore,
	}
}

// ChannelInfo is the profile of one catalog channel.
type ChannelInfo struct {
	// ID is the channel identifier.
	ID string `json:"id"`

	// Title is the channel's display name.
	Title string `json:"title"`

	// Description is the channel's self description.
	Description string `json:"description"`

	// Country is the channel's declared country code, if any.
	Country string `json:"country,omitempty"`

	// ThumbnailURL is the channel avatar hyperlink.
	ThumbnailURL string `json:"thumbnailUrl"`

	// SubscriberCount is the channel's subscriber total.
	SubscriberCount uint64 `json:"subscriberCount"`

	// VideoCount is the number of uploads on the channel.
	VideoCount uint64 `json:"videoCount"`

	// UploadsPlaylistID is the playlist holding the channel's uploads.
	UploadsPlaylistID string `json:"uploadsPlaylistId,omitempty"`
}
