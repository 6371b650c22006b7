package notifier

import (
	"fmt"
	"log"
	"sync"
	"time"

	"erp-app/types"
)

// Event kinds published to connected scheduler clients.
const (
	EventOrderUpdated    = "order_updated"
	EventPriorityUpdated = "priority_updated"
	EventRunUpdated      = "run_updated"
)

// Actions carried by events.
const (
	ActionCreated   = "created"
	ActionUpdated   = "updated"
	ActionDeleted   = "deleted"
	ActionReordered = "reordered"
	ActionMoved     = "moved"
	ActionSynced    = "synced"
)

// Move direction tags: one priority event for the bin the line left,
// one for the bin it entered.
const (
	DirectionFrom = "from"
	DirectionTo   = "to"
)

// Event is the envelope every notification carries. Unit names the
// business unit (tenant) the change happened in.
type Event struct {
	Event   string      `json:"event"`
	Action  string      `json:"action"`
	Unit    string      `json:"unit"`
	Payload interface{} `json:"payload,omitempty"`
	At      time.Time   `json:"at"`
}

type OrderPayload struct {
	OrderType string            `json:"order_type"`
	OrderID   types.SnowflakeID `json:"order_id"`
	Order     interface{}       `json:"order,omitempty"`
}

// PriorityPayload scopes a priority list change. VendorID 0 with an
// empty KickDate means all vendors / all dates (the coarse broadcast
// sync uses).
type PriorityPayload struct {
	VendorID  uint   `json:"vendor_id"`
	KickDate  string `json:"kick_date"`
	BoxType   string `json:"box_type,omitempty"`
	LineID    uint   `json:"line_id,omitempty"`
	Seq       *int   `json:"seq,omitempty"`
	Direction string `json:"direction,omitempty"`
	Created   int    `json:"created,omitempty"`
	Deleted   int    `json:"deleted,omitempty"`
}

type RunPayload struct {
	RunID types.SnowflakeID `json:"run_id"`
	Run   interface{}       `json:"run,omitempty"`
}

// Publisher delivers events to whatever transport is attached. The
// websocket layer subscribes to the hub; this package does not know
// about connections.
type Publisher interface {
	Publish(e Event) error
}

// Hub fans events out to subscriber channels in-process.
type Hub struct {
	mu   sync.Mutex
	subs map[chan Event]struct{}
}

func NewHub() *Hub {
	return &Hub{subs: make(map[chan Event]struct{})}
}

func (h *Hub) Subscribe(buffer int) chan Event {
	ch := make(chan Event, buffer)
	h.mu.Lock()
	h.subs[ch] = struct{}{}
	h.mu.Unlock()
	return ch
}

func (h *Hub) Unsubscribe(ch chan Event) {
	h.mu.Lock()
	if _, ok := h.subs[ch]; ok {
		delete(h.subs, ch)
		close(ch)
	}
	h.mu.Unlock()
}

// Publish sends to every subscriber without blocking. A subscriber
// whose buffer is full misses the event; it reconciles on its next
// full read.
func (h *Hub) Publish(e Event) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	dropped := 0
	for ch := range h.subs {
		select {
		case ch <- e:
		default:
			dropped++
		}
	}
	if dropped > 0 {
		return fmt.Errorf("event %s/%s dropped for %d subscriber(s)", e.Event, e.Action, dropped)
	}
	return nil
}

var defaultHub *Hub

func Init() {
	defaultHub = NewHub()
}

func Default() *Hub {
	return defaultHub
}

// Publish is fire-and-forget: a failed or unconfigured publish is
// logged and swallowed. The storage transaction is the record; the
// notification must never fail the mutation that triggered it.
func Publish(e Event) {
	if defaultHub == nil {
		return
	}
	if e.At.IsZero() {
		e.At = time.Now()
	}
	if err := defaultHub.Publish(e); err != nil {
		log.Println("notifier: publish failed:", err)
	}
}
