// Package catalog abstracts the upstream video catalog behind a small
// interface so the polling engine and the web layer never touch HTTP
// directly. The production implementation talks to the YouTube Data API v3;
// tests swap in the in-memory Fake.
package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/roasbeef/vidlens/internal/models"
)

// ErrMissingAPIKey means the daemon was started without an upstream API
// key. There is no point retrying: the supervisor escalates this class of
// error instead of resuming the worker.
var ErrMissingAPIKey = errors.New("catalog: missing API key")

// TransientError wraps failures that are expected to clear on their own,
// like network timeouts and upstream 5xx responses. The supervision policy
// resumes workers that hit these.
type TransientError struct {
	Err error
}

// Error implements the error interface.
func (e *TransientError) Error() string {
	return fmt.Sprintf("transient catalog error: %v", e.Err)
}

// Unwrap exposes the underlying cause.
func (e *TransientError) Unwrap() error {
	return e.Err
}

// IsTransient reports whether err is, or wraps, a TransientError.
func IsTransient(err error) bool {
	var te *TransientError
	return errors.As(err, &te)
}

// Catalog is the read-only view of the upstream video service.
type Catalog interface {
	// Search returns the most recent videos matching query, newest
	// first, as the upstream orders them.
	Search(ctx context.Context, query string) ([]*models.VideoResult,
		error)

	// ChannelDetails returns the profile of one channel.
	ChannelDetails(ctx context.Context, channelID string) (
		models.ChannelInfo, error)

	// RecentUploads returns the latest uploads of one channel.
	RecentUploads(ctx context.Context, channelID string) (
		[]*models.VideoResult, error)

	// TagsFor returns the tags attached to one video, cleaned of
	// punctuation.
	TagsFor(ctx context.Context, videoID string) ([]string, error)
}
