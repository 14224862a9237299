package broadcast

import (
	"context"
	"sync"
	"time"

	"github.com/yakoovad/club-portal/pkg/logger"
	"go.uber.org/zap"
)

type Topic string

const (
	// TopicAttendanceVoted fires after a successful attendance vote.
	TopicAttendanceVoted Topic = "attendance_voted"
	// TopicSessionStale asks consumers holding session-derived data to reload it.
	TopicSessionStale Topic = "session_stale"
	// TopicTeamChanged fires when a session's cached team pointer changes.
	TopicTeamChanged Topic = "team_changed"
	// TopicMatchRecorded fires after a match record was submitted.
	TopicMatchRecorded Topic = "match_recorded"
	// TopicMatchChanged fires after a match was created, edited or deleted.
	TopicMatchChanged Topic = "match_changed"
	// TopicRosterChanged fires after a member's status or role changed or a
	// member was added or removed by staff.
	TopicRosterChanged Topic = "roster_changed"
)

type Event struct {
	Topic     Topic     `json:"topic"`
	TeamID    string    `json:"teamId,omitempty"`
	MatchID   string    `json:"matchId,omitempty"`
	SessionID string    `json:"sessionId,omitempty"`
	Origin    string    `json:"origin,omitempty"`
	At        time.Time `json:"at"`
}

type Handler func(ctx context.Context, e Event)

// Publisher is what services depend on; they never call subscribers directly.
type Publisher interface {
	Publish(ctx context.Context, e Event)
}

// Forwarder ships locally published events to other portal instances.
type Forwarder interface {
	Forward(ctx context.Context, e Event) error
}

// Hub is an in-process publish/subscribe bus. Handlers run synchronously
// in publish order.
type Hub struct {
	mu      sync.RWMutex
	nextID  int
	subs    map[Topic]map[int]Handler
	origin  string
	forward Forwarder
}

func NewHub(origin string) *Hub {
	return &Hub{
		subs:   make(map[Topic]map[int]Handler),
		origin: origin,
	}
}

func (h *Hub) WithForwarder(f Forwarder) *Hub {
	h.forward = f
	return h
}

func (h *Hub) Origin() string {
	return h.origin
}

// Subscribe registers fn for topic and returns a function that removes it.
func (h *Hub) Subscribe(topic Topic, fn Handler) func() {
	h.mu.Lock()
	defer h.mu.Unlock()

	id := h.nextID
	h.nextID++
	if h.subs[topic] == nil {
		h.subs[topic] = make(map[int]Handler)
	}
	h.subs[topic][id] = fn

	return func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		delete(h.subs[topic], id)
	}
}

// Publish delivers e locally and, when a forwarder is set, to other
// instances. Forwarding failures are logged and never reach the caller.
func (h *Hub) Publish(ctx context.Context, e Event) {
	if e.At.IsZero() {
		e.At = time.Now().UTC()
	}
	if e.Origin == "" {
		e.Origin = h.origin
	}

	h.deliver(ctx, e)

	if h.forward == nil {
		return
	}
	if err := h.forward.Forward(ctx, e); err != nil {
		logger.FromContext(ctx).Warn("failed to forward event",
			zap.String("topic", string(e.Topic)),
			zap.Error(err))
	}
}

// Receive delivers an event that arrived from another instance. Events
// this hub published itself are dropped.
func (h *Hub) Receive(ctx context.Context, e Event) {
	if e.Origin == h.origin {
		return
	}
	h.deliver(ctx, e)
}

func (h *Hub) deliver(ctx context.Context, e Event) {
	h.mu.RLock()
	handlers := make([]Handler, 0, len(h.subs[e.Topic]))
	for _, fn := range h.subs[e.Topic] {
		handlers = append(handlers, fn)
	}
	h.mu.RUnlock()

	for _, fn := range handlers {
		fn(ctx, e)
	}
}
