package notify

import (
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
)

type Kind string

const (
	KindSuccess Kind = "success"
	KindError   Kind = "error"
)

// DisplayFor is how long a browser should show a toast before dismissing it.
const DisplayFor = 3 * time.Second

// Notification is a transient toast. Nothing about it is persisted.
type Notification struct {
	ID        uint64    `json:"id"`
	Kind      Kind      `json:"kind"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"createdAt"`
	TTLMillis int64     `json:"ttlMs"`
}

func Success(title, message string) Notification {
	return Notification{Kind: KindSuccess, Title: title, Message: message}
}

func Failure(title, message string) Notification {
	return Notification{Kind: KindError, Title: title, Message: message}
}

type Notifier interface {
	Notify(n Notification)
}

type discard struct{}

func (discard) Notify(Notification) {}

// Discard drops every notification.
var Discard Notifier = discard{}

const subscriberBuffer = 32

// Broadcaster fans notifications out to every subscriber. Slow subscribers
// miss notifications rather than block the sender.
type Broadcaster struct {
	subscribers map[uint64]chan Notification
	nextSubID   atomic.Uint64
	nextNoteID  atomic.Uint64
	mu          sync.RWMutex
}

func NewBroadcaster() *Broadcaster {
	return &Broadcaster{
		subscribers: make(map[uint64]chan Notification),
	}
}

func (b *Broadcaster) Subscribe() (uint64, <-chan Notification) {
	id := b.nextSubID.Add(1)
	ch := make(chan Notification, subscriberBuffer)

	b.mu.Lock()
	b.subscribers[id] = ch
	b.mu.Unlock()

	return id, ch
}

func (b *Broadcaster) Unsubscribe(id uint64) {
	b.mu.Lock()
	if ch, ok := b.subscribers[id]; ok {
		close(ch)
		delete(b.subscribers, id)
	}
	b.mu.Unlock()
}

// Notify stamps n and delivers it to all current subscribers.
func (b *Broadcaster) Notify(n Notification) {
	n.ID = b.nextNoteID.Add(1)
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now()
	}
	if n.TTLMillis == 0 {
		n.TTLMillis = DisplayFor.Milliseconds()
	}

	if n.Kind == KindError {
		slog.Warn("notification", "title", n.Title, "message", n.Message)
	} else {
		slog.Info("notification", "title", n.Title, "message", n.Message)
	}

	b.mu.RLock()
	defer b.mu.RUnlock()

	for _, ch := range b.subscribers {
		select {
		case ch <- n:
		default:
		}
	}
}

func (b *Broadcaster) SubscriberCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subscribers)
}

// Close closes every subscriber channel so stream handlers can exit.
func (b *Broadcaster) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	for id, ch := range b.subscribers {
		close(ch)
		delete(b.subscribers, id)
	}
}
