package web

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/roasbeef/vidlens/internal/baselib/actor"
	"github.com/roasbeef/vidlens/internal/search"
)

const (
	// writeWait is the time allowed to write one message to the peer.
	writeWait = 10 * time.Second

	// pongWait is the time allowed between pongs from the peer.
	pongWait = 60 * time.Second

	// pingPeriod is how often we ping the peer. Must be less than
	// pongWait.
	pingPeriod = (pongWait * 9) / 10

	// maxMessageSize caps inbound client frames.
	maxMessageSize = 4096

	// inboxSize buffers worker events awaiting the write pump.
	inboxSize = 256
)

// clientRequest is the inbound frame: a command code plus the query it
// applies to.
type clientRequest struct {
	Code  string `json:"code"`
	Query string `json:"query"`
}

// errorFrame is sent for malformed or unrecognized client frames. The
// connection stays open.
type errorFrame struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// upgrader upgrades HTTP connections at /ws.
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		host := r.Host
		return origin == "http://"+host || origin == "https://"+host
	},
}

// session is one user's WebSocket connection. It owns the set of queries
// the user has started and an inbox that search workers deliver events
// into; a write pump serializes everything onto the wire. When the
// connection drops, every started query is ended on the user's behalf.
type session struct {
	id         string
	conn       *websocket.Conn
	supervisor search.SupervisorRef

	// inbox receives worker events; its ref identity is this session's
	// subscriber identity across the engine.
	inbox *actor.ChannelTellOnlyRef[search.SubscriberEvent]

	// out carries server-generated frames (errors) to the write pump.
	out chan any

	// searches tracks the queries this session has started.
	searches map[string]struct{}

	done chan struct{}
}

// handleWebSocket upgrades the connection and runs a session on it.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.ErrorS(r.Context(), "WebSocket upgrade failed", err)
		return
	}

	id := uuid.NewString()
	sess := &session{
		id:         id,
		conn:       conn,
		supervisor: s.cfg.Supervisor,
		inbox: actor.NewChannelTellOnlyRef[search.SubscriberEvent](
			"session/"+id, inboxSize,
		),
		out:      make(chan any, 16),
		searches: make(map[string]struct{}),
		done:     make(chan struct{}),
	}

	log.InfoS(r.Context(), "Session opened", "session_id", id)

	go sess.writePump()
	sess.readLoop()
}

// readLoop consumes client frames until the connection drops, then ends
// every started search.
func (c *session) readLoop() {
	defer func() {
		close(c.done)
		c.conn.Close()
		c.endAllSearches()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err,
				websocket.CloseGoingAway,
				websocket.CloseNormalClosure) {

				log.DebugS(context.Background(),
					"Session read error",
					"session_id", c.id, "err", err)
			}
			return
		}

		c.handleRequest(data)
	}
}

// handleRequest dispatches one inbound frame.
func (c *session) handleRequest(data []byte) {
	ctx := context.Background()

	var req clientRequest
	if err := json.Unmarshal(data, &req); err != nil {
		c.sendError("invalid request frame")
		return
	}

	switch req.Code {
	case "start":
		c.searches[req.Query] = struct{}{}
		c.supervisor.Tell(ctx, search.StartSearch{
			Query:      req.Query,
			Subscriber: c.inbox,
		})

		log.InfoS(ctx, "Session started search",
			"session_id", c.id, "query", req.Query)

	case "stop":
		delete(c.searches, req.Query)
		c.supervisor.Tell(ctx, search.EndSearch{
			Query:      req.Query,
			Subscriber: c.inbox,
		})

		log.InfoS(ctx, "Session stopped search",
			"session_id", c.id, "query", req.Query)

	default:
		c.sendError("unrecognized message code: " + req.Code)
	}
}

// endAllSearches unsubscribes the session from everything it started.
func (c *session) endAllSearches() {
	ctx := context.Background()

	for query := range c.searches {
		c.supervisor.Tell(ctx, search.EndSearch{
			Query:      query,
			Subscriber: c.inbox,
		})
	}

	log.InfoS(ctx, "Session closed", "session_id", c.id,
		"num_searches", len(c.searches))
}

// sendError queues an error frame, dropping it if the pump is backed up.
func (c *session) sendError(msg string) {
	select {
	case c.out <- errorFrame{Code: "error", Message: msg}:
	default:
	}
}

// writePump serializes worker events and server frames onto the wire and
// keeps the connection alive with pings.
func (c *session) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case ev := <-c.inbox.Messages():
			if !c.write(wireFrame(ev)) {
				return
			}

		case frame := <-c.out:
			if !c.write(frame) {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			err := c.conn.WriteMessage(websocket.PingMessage, nil)
			if err != nil {
				return
			}

		case <-c.done:
			return
		}
	}
}

// write marshals and sends one frame, reporting whether the connection is
// still usable.
func (c *session) write(frame any) bool {
	c.conn.SetWriteDeadline(time.Now().Add(writeWait))

	data, err := json.Marshal(frame)
	if err != nil {
		log.ErrorS(context.Background(), "Frame marshal failed", err,
			"session_id", c.id)
		return true
	}

	if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
		return false
	}

	return true
}

// wireFrame wraps a worker event with its wire code.
func wireFrame(ev search.SubscriberEvent) any {
	switch e := ev.(type) {
	case search.SubscribeAck:
		return struct {
			Code string `json:"code"`
			search.SubscribeAck
		}{Code: e.MessageType(), SubscribeAck: e}

	case search.NewResult:
		return struct {
			Code string `json:"code"`
			search.NewResult
		}{Code: e.MessageType(), NewResult: e}

	default:
		return errorFrame{
			Code:    "error",
			Message: "unknown event " + ev.MessageType(),
		}
	}
}
