package api

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	"github.com/p-n-ai/pai-topics/internal/editor"
)

const (
	notifierBuffer = 32
	notifierWrite  = 5 * time.Second
)

// Notifier streams editor events to websocket clients. Clients connecting
// with ?topic=<id> only receive events for that topic.
type Notifier struct {
	mu      sync.RWMutex
	clients map[*subscriber]struct{}
}

type subscriber struct {
	topicID string
	send    chan editor.Event
}

func NewNotifier() *Notifier {
	return &Notifier{clients: make(map[*subscriber]struct{})}
}

// LogEvent broadcasts event. Subscribers whose buffer is full miss it.
func (n *Notifier) LogEvent(event editor.Event) error {
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now()
	}

	n.mu.RLock()
	defer n.mu.RUnlock()
	for sub := range n.clients {
		if sub.topicID != "" && sub.topicID != event.TopicID {
			continue
		}
		select {
		case sub.send <- event:
		default:
			slog.Warn("dropping event for slow subscriber", "topic_id", event.TopicID)
		}
	}
	return nil
}

// Subscribers returns the number of connected clients.
func (n *Notifier) Subscribers() int {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return len(n.clients)
}

func (n *Notifier) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, nil)
	if err != nil {
		slog.Warn("websocket accept failed", "error", err)
		return
	}
	defer conn.CloseNow() //nolint:errcheck

	// Clients never send; CloseRead handles control frames and cancels ctx
	// when the peer goes away.
	ctx := conn.CloseRead(r.Context())

	sub := &subscriber{
		topicID: r.URL.Query().Get("topic"),
		send:    make(chan editor.Event, notifierBuffer),
	}
	n.register(sub)
	defer n.unregister(sub)

	for {
		select {
		case <-ctx.Done():
			return
		case event := <-sub.send:
			if err := write(ctx, conn, event); err != nil {
				slog.Debug("websocket write failed", "error", err)
				return
			}
		}
	}
}

func write(ctx context.Context, conn *websocket.Conn, event editor.Event) error {
	ctx, cancel := context.WithTimeout(ctx, notifierWrite)
	defer cancel()
	return wsjson.Write(ctx, conn, event)
}

func (n *Notifier) register(sub *subscriber) {
	n.mu.Lock()
	n.clients[sub] = struct{}{}
	n.mu.Unlock()
}

func (n *Notifier) unregister(sub *subscriber) {
	n.mu.Lock()
	delete(n.clients, sub)
	n.mu.Unlock()
}
