package catalog

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
)

const searchBody = `{
  "items": [
    {
      "id": {"videoId": "vid-1"},
      "snippet": {
        "title": "Rocket launch",
        "description": "A launch to orbit.",
        "channelId": "chan-1",
        "channelTitle": "Space Channel",
        "thumbnails": {"default": {"url": "http://img/1"}}
      }
    },
    {
      "id": {"videoId": "vid-2"},
      "snippet": {
        "title": "Engine test",
        "description": "Static fire.",
        "channelId": "chan-1",
        "channelTitle": "Space Channel",
        "thumbnails": {"default": {"url": "http://img/2"}}
      }
    }
  ]
}`

const channelBody = `{
  "items": [
    {
      "id": "chan-1",
      "snippet": {
        "title": "Space Channel",
        "description": "Launches and more.",
        "country": "US",
        "thumbnails": {"default": {"url": "http://img/c"}}
      },
      "contentDetails": {"relatedPlaylists": {"uploads": "UU-chan-1"}},
      "statistics": {"subscriberCount": "1200", "videoCount": "34"}
    }
  ]
}`

const playlistBody = `{
  "items": [
    {
      "snippet": {
        "title": "Latest upload",
        "description": "Fresh off the pad.",
        "channelId": "chan-1",
        "channelTitle": "Space Channel",
        "thumbnails": {"default": {"url": "http://img/3"}},
        "resourceId": {"videoId": "vid-3"}
      }
    }
  ]
}`

const videoBody = `{
  "items": [
    {"snippet": {"tags": ["rockets!", "space", "orbit?"]}}
  ]
}`

// newTestClient spins up a fake API server and a client aimed at it. The
// returned counter tracks upstream hits per endpoint path.
func newTestClient(t *testing.T) (*YouTubeClient, *atomic.Int64) {
	t.Helper()

	var hits atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			hits.Add(1)
			require.Equal(t, "test-key", r.URL.Query().Get("key"))

			w.Header().Set("Content-Type", "application/json")
			switch r.URL.Path {
			case "/search":
				q := r.URL.Query()
				require.Equal(t, "50", q.Get("maxResults"))
				require.Equal(t, "date", q.Get("order"))
				require.Equal(t, "video", q.Get("type"))
				w.Write([]byte(searchBody))

			case "/channels":
				w.Write([]byte(channelBody))

			case "/playlistItems":
				q := r.URL.Query()
				require.Equal(t, "UU-chan-1",
					q.Get("playlistId"))
				w.Write([]byte(playlistBody))

			case "/videos":
				w.Write([]byte(videoBody))

			default:
				t.Errorf("unexpected path %s", r.URL.Path)
			}
		},
	))
	t.Cleanup(srv.Close)

	client, err := NewYouTubeClient("test-key", WithBaseURL(srv.URL))
	require.NoError(t, err)

	return client, &hits
}

// TestNewClientRequiresAPIKey verifies construction fails fast without a
// key.
func TestNewClientRequiresAPIKey(t *testing.T) {
	t.Parallel()

	_, err := NewYouTubeClient("")
	require.ErrorIs(t, err, ErrMissingAPIKey)
}

// TestSearchMapsResults verifies field mapping, watch URL construction and
// that the second identical search is served from cache.
func TestSearchMapsResults(t *testing.T) {
	t.Parallel()

	client, hits := newTestClient(t)
	ctx := context.Background()

	results, err := client.Search(ctx, "rockets")
	require.NoError(t, err)
	require.Len(t, results, 2)

	first := results[0]
	require.Equal(t, "vid-1", first.ID)
	require.Equal(t, "Rocket launch", first.Title)
	require.Equal(t, "Space Channel", first.Channel)
	require.Equal(t, "A launch to orbit.", first.Description)
	require.Equal(t,
		"https://www.youtube.com/watch?v=vid-1", first.VideoURL)
	require.Equal(t, "chan-1", first.ChannelID)
	require.Equal(t, "http://img/1", first.ThumbnailURL)

	// Scores are not the catalog's business.
	require.Zero(t, first.SentimentScore)
	require.Zero(t, first.ReadingScore)

	// Same query again: cache hit, no extra upstream call.
	again, err := client.Search(ctx, "rockets")
	require.NoError(t, err)
	require.Len(t, again, 2)
	require.EqualValues(t, 1, hits.Load())
}

// TestChannelDetails verifies the profile mapping, including the uploads
// playlist needed by RecentUploads.
func TestChannelDetails(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t)

	info, err := client.ChannelDetails(context.Background(), "chan-1")
	require.NoError(t, err)
	require.Equal(t, "chan-1", info.ID)
	require.Equal(t, "Space Channel", info.Title)
	require.Equal(t, "US", info.Country)
	require.EqualValues(t, 1200, info.SubscriberCount)
	require.EqualValues(t, 34, info.VideoCount)
	require.Equal(t, "UU-chan-1", info.UploadsPlaylistID)
}

// TestRecentUploads verifies the playlist resolution path end to end.
func TestRecentUploads(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t)

	uploads, err := client.RecentUploads(context.Background(), "chan-1")
	require.NoError(t, err)
	require.Len(t, uploads, 1)
	require.Equal(t, "vid-3", uploads[0].ID)
	require.Equal(t,
		"https://www.youtube.com/watch?v=vid-3", uploads[0].VideoURL)
}

// TestTagsForCleansPunctuation verifies tag punctuation stripping.
func TestTagsForCleansPunctuation(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t)

	tags, err := client.TagsFor(context.Background(), "vid-1")
	require.NoError(t, err)
	require.Equal(t, []string{"rockets", "space", "orbit"}, tags)
}

// TestServerErrorIsTransient verifies 5xx responses classify as transient
// so the supervision policy resumes rather than stops the worker.
func TestServerErrorIsTransient(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, "upstream sad", http.StatusBadGateway)
		},
	))
	t.Cleanup(srv.Close)

	client, err := NewYouTubeClient("test-key", WithBaseURL(srv.URL))
	require.NoError(t, err)

	_, err = client.Search(context.Background(), "rockets")
	require.Error(t, err)
	require.True(t, IsTransient(err))
}

// TestClientErrorIsPermanent verifies 4xx responses do not classify as
// transient.
func TestClientErrorIsPermanent(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, "bad key", http.StatusForbidden)
		},
	))
	t.Cleanup(srv.Close)

	client, err := NewYouTubeClient("test-key", WithBaseURL(srv.URL))
	require.NoError(t, err)

	_, err = client.Search(context.Background(), "rockets")
	require.Error(t, err)
	require.False(t, IsTransient(err))
}
