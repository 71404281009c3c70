package catalog

import (
	"context"
	"fmt"
	"sync"

	"github.com/roasbeef/vidlens/internal/models"
)

// Fake is an in-memory Catalog for tests. Search results are queued per
// query: each call pops the next batch, and the last batch repeats once the
// queue is drained, which mirrors an upstream whose newest page stops
// changing. An injected error takes precedence over queued data.
type Fake struct {
	mu sync.Mutex

	searchQueues map[string][][]*models.VideoResult
	lastBatch    map[string][]*models.VideoResult
	channels     map[string]models.ChannelInfo
	uploads      map[string][]*models.VideoResult
	tags         map[string][]string

	nextErr error

	searchCalls int
}

// NewFake creates an empty fake catalog.
func NewFake() *Fake {
	return &Fake{
		searchQueues: make(map[string][][]*models.VideoResult),
		lastBatch:    make(map[string][]*models.VideoResult),
		channels:     make(map[string]models.ChannelInfo),
		uploads:      make(map[string][]*models.VideoResult),
		tags:         make(map[string][]string),
	}
}

// QueueSearch appends a batch to the query's result queue.
func (f *Fake) QueueSearch(query string, batch []*models.VideoResult) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.searchQueues[query] = append(f.searchQueues[query], batch)
}

// SetChannel registers a channel profile.
func (f *Fake) SetChannel(info models.ChannelInfo) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.channels[info.ID] = info
}

// SetUploads registers a channel's recent uploads.
func (f *Fake) SetUploads(channelID string, batch []*models.VideoResult) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.uploads[channelID] = batch
}

// SetTags registers a video's tags.
func (f *Fake) SetTags(videoID string, tags []string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.tags[videoID] = tags
}

// FailNext makes the next catalog call return err, once.
func (f *Fake) FailNext(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.nextErr = err
}

// SearchCalls reports how many Search calls have been made.
func (f *Fake) SearchCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.searchCalls
}

// takeErr pops the injected error, if any.
func (f *Fake) takeErr() error {
	err := f.nextErr
	f.nextErr = nil

	return err
}

// Search implements Catalog.
func (f *Fake) Search(_ context.Context,
	query string) ([]*models.VideoResult, error) {

	f.mu.Lock()
	defer f.mu.Unlock()

	f.searchCalls++

	if err := f.takeErr(); err != nil {
		return nil, err
	}

	queue := f.searchQueues[query]
	if len(queue) == 0 {
		return f.lastBatch[query], nil
	}

	batch := queue[0]
	f.searchQueues[query] = queue[1:]
	f.lastBatch[query] = batch

	return batch, nil
}

// ChannelDetails implements Catalog.
func (f *Fake) ChannelDetails(_ context.Context,
	channelID string) (models.ChannelInfo, error) {

	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.takeErr(); err != nil {
		return models.ChannelInfo{}, err
	}

	info, ok := f.channels[channelID]
	if !ok {
		return models.ChannelInfo{}, fmt.Errorf(
			"channel %s not found", channelID,
		)
	}

	return info, nil
}

// RecentUploads implements Catalog.
func (f *Fake) RecentUploads(_ context.Context,
	channelID string) ([]*models.VideoResult, error) {

	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.takeErr(); err != nil {
		return nil, err
	}

	return f.uploads[channelID], nil
}

// TagsFor implements Catalog.
func (f *Fake) TagsFor(_ context.Context,
	videoID string) ([]string, error) {

	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.takeErr(); err != nil {
		return nil, err
	}

	tags, ok := f.tags[videoID]
	if !ok {
		return nil, fmt.Errorf("video %s not found", videoID)
	}

	return tags, nil
}

// Compile-time interface check.
var _ Catalog = (*Fake)(nil)
