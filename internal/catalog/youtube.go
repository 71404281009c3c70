package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/roasbeef/vidlens/internal/cache"
	"github.com/roasbeef/vidlens/internal/models"
	"golang.org/x/time/rate"
)

const (
	// DefaultBaseURL is the YouTube Data API v3 root.
	DefaultBaseURL = "https://www.googleapis.com/youtube/v3"

	// searchPageSize is how many results a search fetches per call.
	searchPageSize = 50

	// uploadsPageSize is how many recent uploads a channel profile shows.
	uploadsPageSize = 10

	// watchURLPrefix builds the user-facing hyperlink for a video ID.
	watchURLPrefix = "https://www.youtube.com/watch?v="

	// defaultRequestsPerSec bounds our upstream call rate. The free API
	// quota is tight, so we stay well under it.
	defaultRequestsPerSec = 5
)

// tagPunctuation is stripped from every tag before it is returned.
const tagPunctuation = "`~!@#$%^&*()_+[]\\;',./{}|:\"<>?"

// YouTubeClient implements Catalog over the YouTube Data API v3. Responses
// are cached per key with a short TTL so a worker re-polling inside the TTL
// window does not spend quota.
type YouTubeClient struct {
	apiKey  string
	baseURL string
	httpc   *http.Client
	limiter *rate.Limiter

	searchCache  *cache.Cache[[]*models.VideoResult]
	channelCache *cache.Cache[models.ChannelInfo]
	uploadsCache *cache.Cache[[]*models.VideoResult]
	tagsCache    *cache.Cache[[]string]
}

// YouTubeOption customizes a YouTubeClient.
type YouTubeOption func(*YouTubeClient)

// WithBaseURL points the client at an alternate API root. Tests aim this at
// an httptest server.
func WithBaseURL(baseURL string) YouTubeOption {
	return func(c *YouTubeClient) {
		c.baseURL = strings.TrimRight(baseURL, "/")
	}
}

// WithHTTPClient swaps the underlying HTTP client.
func WithHTTPClient(httpc *http.Client) YouTubeOption {
	return func(c *YouTubeClient) {
		c.httpc = httpc
	}
}

// WithCacheTTL overrides the TTL of all four response caches.
func WithCacheTTL(ttl time.Duration) YouTubeOption {
	return func(c *YouTubeClient) {
		c.searchCache = cache.NewWithTTL[[]*models.VideoResult](ttl)
		c.channelCache = cache.NewWithTTL[models.ChannelInfo](ttl)
		c.uploadsCache = cache.NewWithTTL[[]*models.VideoResult](ttl)
		c.tagsCache = cache.NewWithTTL[[]string](ttl)
	}
}

// NewYouTubeClient builds a catalog client for the given API key. An empty
// key fails fast with ErrMissingAPIKey so the daemon refuses to start
// rather than failing on every poll.
func NewYouTubeClient(apiKey string,
	opts ...YouTubeOption) (*YouTubeClient, error) {

	if apiKey == "" {
		return nil, ErrMissingAPIKey
	}

	c := &YouTubeClient{
		apiKey:  apiKey,
		baseURL: DefaultBaseURL,
		httpc: &http.Client{
			Timeout: 30 * time.Second,
		},
		limiter: rate.NewLimiter(
			rate.Limit(defaultRequestsPerSec),
			defaultRequestsPerSec,
		),
		searchCache:  cache.New[[]*models.VideoResult](),
		channelCache: cache.New[models.ChannelInfo](),
		uploadsCache: cache.New[[]*models.VideoResult](),
		tagsCache:    cache.New[[]string](),
	}
	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// searchListResponse mirrors the subset of the v3 search.list payload that
// we consume.
type searchListResponse struct {
	Items []struct {
		ID struct {
			VideoID string `json:"videoId"`
		} `json:"id"`
		Snippet snippet `json:"snippet"`
	} `json:"items"`
}

// snippet is the common metadata block shared by several list endpoints.
type snippet struct {
	Title        string `json:"title"`
	Description  string `json:"description"`
	ChannelID    string `json:"channelId"`
	ChannelTitle string `json:"channelTitle"`
	Country      string `json:"country"`
	Thumbnails   struct {
		Default struct {
			URL string `json:"url"`
		} `json:"default"`
	} `json:"thumbnails"`
	ResourceID struct {
		VideoID string `json:"videoId"`
	} `json:"resourceId"`
}

type channelListResponse struct {
	Items []struct {
		ID             string  `json:"id"`
		Snippet        snippet `json:"snippet"`
		ContentDetails struct {
			RelatedPlaylists struct {
				Uploads string `json:"uploads"`
			} `json:"relatedPlaylists"`
		} `json:"contentDetails"`
		Statistics struct {
			SubscriberCount string `json:"subscriberCount"`
			VideoCount      string `json:"videoCount"`
		} `json:"statistics"`
	} `json:"items"`
}

type playlistItemListResponse struct {
	Items []struct {
		Snippet snippet `json:"snippet"`
	} `json:"items"`
}

type videoListResponse struct {
	Items []struct {
		Snippet struct {
			Tags []string `json:"tags"`
		} `json:"snippet"`
	} `json:"items"`
}

// Search implements Catalog. Results come back in the upstream's date
// order, newest first.
func (c *YouTubeClient) Search(ctx context.Context,
	query string) ([]*models.VideoResult, error) {

	if cached := c.searchCache.Get(query); cached.IsSome() {
		log.TraceS(ctx, "Search cache hit", "query", query)
		return cached.UnwrapOr(nil), nil
	}

	params := url.Values{
		"part":       {"snippet"},
		"maxResults": {strconv.Itoa(searchPageSize)},
		"order":      {"date"},
		"q":          {query},
		"type":       {"video"},
	}

	var resp searchListResponse
	if err := c.get(ctx, "search", params, &resp); err != nil {
		return nil, err
	}

	results := make([]*models.VideoResult, 0, len(resp.Items))
	for _, item := range resp.Items {
		results = append(results, &models.VideoResult{
			ID:           item.ID.VideoID,
			Title:        item.Snippet.Title,
			Channel:      item.Snippet.ChannelTitle,
			Description:  item.Snippet.Description,
			VideoURL:     watchURLPrefix + item.ID.VideoID,
			ChannelID:    item.Snippet.ChannelID,
			ThumbnailURL: item.Snippet.Thumbnails.Default.URL,
		})
	}

	c.searchCache.Put(query, results)
	log.DebugS(ctx, "Fetched search results",
		"query", query, "num_results", len(results))

	return results, nil
}

// ChannelDetails implements Catalog.
func (c *YouTubeClient) ChannelDetails(ctx context.Context,
	channelID string) (models.ChannelInfo, error) {

	if cached := c.channelCache.Get(channelID); cached.IsSome() {
		return cached.UnwrapOr(models.ChannelInfo{}), nil
	}

	params := url.Values{
		"part": {"snippet,contentDetails,statistics"},
		"id":   {channelID},
	}

	var resp channelListResponse
	if err := c.get(ctx, "channels", params, &resp); err != nil {
		return models.ChannelInfo{}, err
	}
	if len(resp.Items) == 0 {
		return models.ChannelInfo{}, fmt.Errorf(
			"channel %s not found", channelID,
		)
	}

	item := resp.Items[0]
	subs, _ := strconv.ParseUint(item.Statistics.SubscriberCount, 10, 64)
	vids, _ := strconv.ParseUint(item.Statistics.VideoCount, 10, 64)

	info := models.ChannelInfo{
		ID:                item.ID,
		Title:             item.Snippet.Title,
		Description:       item.Snippet.Description,
		Country:           item.Snippet.Country,
		ThumbnailURL:      item.Snippet.Thumbnails.Default.URL,
		SubscriberCount:   subs,
		VideoCount:        vids,
		UploadsPlaylistID: item.ContentDetails.RelatedPlaylists.Uploads,
	}

	c.channelCache.Put(channelID, info)

	return info, nil
}

// RecentUploads implements Catalog. It resolves the channel's uploads
// playlist (served from the channel cache when warm) and lists its newest
// entries.
func (c *YouTubeClient) RecentUploads(ctx context.Context,
	channelID string) ([]*models.VideoResult, error) {

	if cached := c.uploadsCache.Get(channelID); cached.IsSome() {
		return cached.UnwrapOr(nil), nil
	}

	info, err := c.ChannelDetails(ctx, channelID)
	if err != nil {
		return nil, err
	}

	params := url.Values{
		"part":       {"snippet"},
		"playlistId": {info.UploadsPlaylistID},
		"maxResults": {strconv.Itoa(uploadsPageSize)},
	}

	var resp playlistItemListResponse
	if err := c.get(ctx, "playlistItems", params, &resp); err != nil {
		return nil, err
	}

	results := make([]*models.VideoResult, 0, len(resp.Items))
	for _, item := range resp.Items {
		videoID := item.Snippet.ResourceID.VideoID
		results = append(results, &models.VideoResult{
			ID:           videoID,
			Title:        item.Snippet.Title,
			Channel:      item.Snippet.ChannelTitle,
			Description:  item.Snippet.Description,
			VideoURL:     watchURLPrefix + videoID,
			ChannelID:    item.Snippet.ChannelID,
			ThumbnailURL: item.Snippet.Thumbnails.Default.URL,
		})
	}

	c.uploadsCache.Put(channelID, results)

	return results, nil
}

// TagsFor implements Catalog. Tags are stripped of punctuation before they
// are returned; a video without tags yields an empty slice.
func (c *YouTubeClient) TagsFor(ctx context.Context,
	videoID string) ([]string, error) {

	if cached := c.tagsCache.Get(videoID); cached.IsSome() {
		return cached.UnwrapOr(nil), nil
	}

	params := url.Values{
		"part": {"snippet"},
		"id":   {videoID},
	}

	var resp videoListResponse
	if err := c.get(ctx, "videos", params, &resp); err != nil {
		return nil, err
	}
	if len(resp.Items) == 0 {
		return nil, fmt.Errorf("video %s not found", videoID)
	}

	tags := make([]string, 0, len(resp.Items[0].Snippet.Tags))
	for _, tag := range resp.Items[0].Snippet.Tags {
		tags = append(tags, cleanTag(tag))
	}

	c.tagsCache.Put(videoID, tags)

	return tags, nil
}

// get performs one rate-limited GET against the API and decodes the JSON
// body into out. Network failures and 5xx responses come back as
// TransientError so the supervision policy can tell them apart from
// permanent ones.
func (c *YouTubeClient) get(ctx context.Context, endpoint string,
	params url.Values, out any) error {

	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	params.Set("key", c.apiKey)
	reqURL := c.baseURL + "/" + endpoint + "?" + params.Encode()

	req, err := http.NewRequestWithContext(
		ctx, http.MethodGet, reqURL, nil,
	)
	if err != nil {
		return fmt.Errorf("building %s request: %w", endpoint, err)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return &TransientError{
			Err: fmt.Errorf("%s request: %w", endpoint, err),
		}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:

	case resp.StatusCode >= 500,
		resp.StatusCode == http.StatusTooManyRequests:

		return &TransientError{
			Err: fmt.Errorf("%s returned %s", endpoint, resp.Status),
		}

	default:
		return fmt.Errorf("%s returned %s", endpoint, resp.Status)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding %s response: %w", endpoint, err)
	}

	return nil
}

// cleanTag removes the punctuation characters the upstream allows in tags
// but our consumers do not want to display.
func cleanTag(tag string) string {
	return strings.Map(func(r rune) rune {
		if strings.ContainsRune(tagPunctuation, r) {
			return -1
		}
		return r
	}, tag)
}

// Compile-time interface check.
var _ Catalog = (*YouTubeClient)(nil)
