package search

import (
	"github.com/roasbeef/vidlens/internal/baselib/actor"
	"github.com/roasbeef/vidlens/internal/models"
)

// WorkerMessage is the sealed set of messages a search worker consumes.
type WorkerMessage interface {
	actor.Message

	workerMessage()
}

// Subscribe registers a subscriber with a worker. The subscriber receives a
// SubscribeAck summarizing everything seen so far, then one NewResult per
// fresh item on every later poll.
type Subscribe struct {
	actor.BaseMessage

	// Subscriber is where the worker delivers events.
	Subscriber actor.TellOnlyRef[SubscriberEvent]
}

// MessageType returns the message's type name.
func (Subscribe) MessageType() string { return "Subscribe" }

func (Subscribe) workerMessage() {}

// Unsubscribe removes a subscriber from a worker. The worker itself keeps
// polling; only delivery stops.
type Unsubscribe struct {
	actor.BaseMessage

	// Subscriber identifies the registration to drop.
	Subscriber actor.TellOnlyRef[SubscriberEvent]
}

// MessageType returns the message's type name.
func (Unsubscribe) MessageType() string { return "Unsubscribe" }

func (Unsubscribe) workerMessage() {}

// Tick triggers one poll of the catalog. The worker's own timer sends these,
// but tests may inject them directly.
type Tick struct {
	actor.BaseMessage
}

// MessageType returns the message's type name.
func (Tick) MessageType() string { return "Tick" }

func (Tick) workerMessage() {}

// fetchDone re-enters the worker's mailbox when an asynchronous fetch
// completes, so all state mutation stays on the actor goroutine.
type fetchDone struct {
	actor.BaseMessage

	results []*models.VideoResult
	err     error
}

// MessageType returns the message's type name.
func (fetchDone) MessageType() string { return "fetchDone" }

func (fetchDone) workerMessage() {}

// SubscriberEvent is the sealed set of messages a worker delivers to its
// subscribers.
type SubscriberEvent interface {
	actor.Message

	subscriberEvent()
}

// SubscribeAck is the batch summary a subscriber receives right after
// subscribing: how many results the worker has seen (capped at 50), score
// totals over the most recent 50, and the most recent 10 items in the order
// they were first seen.
type SubscribeAck struct {
	actor.BaseMessage

	Query               string                `json:"query"`
	TotalCount          int                   `json:"totalCount"`
	TotalSentimentScore float64               `json:"totalSentimentScore"`
	TotalReadingScore   float64               `json:"totalReadingScore"`
	TotalReadingGrade   float64               `json:"totalReadingGrade"`
	Results             []*models.VideoResult `json:"results"`
}

// MessageType returns the wire code of the event.
func (SubscribeAck) MessageType() string { return "MultipleResult" }

func (SubscribeAck) subscriberEvent() {}

// NewResult carries one previously unseen item to every subscriber of a
// query.
type NewResult struct {
	actor.BaseMessage

	Query  string              `json:"query"`
	Result *models.VideoResult `json:"result"`
}

// MessageType returns the wire code of the event.
func (NewResult) MessageType() string { return "SingleResult" }

func (NewResult) subscriberEvent() {}

// SupervisorMessage is the sealed set of messages the search supervisor
// consumes.
type SupervisorMessage interface {
	actor.Message

	supervisorMessage()
}

// StartSearch subscribes a user to a query, creating the query's worker on
// first use.
type StartSearch struct {
	actor.BaseMessage

	// Query is the search term.
	Query string

	// Subscriber is where the query's events are delivered.
	Subscriber actor.TellOnlyRef[SubscriberEvent]
}

// MessageType returns the message's type name.
func (StartSearch) MessageType() string { return "StartSearch" }

func (StartSearch) supervisorMessage() {}

// EndSearch unsubscribes a user from a query. Unknown queries are ignored.
type EndSearch struct {
	actor.BaseMessage

	// Query is the search term.
	Query string

	// Subscriber identifies the registration to drop.
	Subscriber actor.TellOnlyRef[SubscriberEvent]
}

// MessageType returns the message's type name.
func (EndSearch) MessageType() string { return "EndSearch" }

func (EndSearch) supervisorMessage() {}

// workerFailed reports a failed poll from a worker to its supervisor, which
// decides the worker's fate via the fault policy.
type workerFailed struct {
	actor.BaseMessage

	query string
	err   error
}

// MessageType returns the message's type name.
func (workerFailed) MessageType() string { return "workerFailed" }

func (workerFailed) supervisorMessage() {}
