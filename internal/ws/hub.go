package ws

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"todo_webapp/internal/domain"
	"todo_webapp/internal/logger"
)

const snapshotTimeout = 5 * time.Second

// TaskLister provides the visible-task snapshot for a viewer. Satisfied by
// repository.TaskRepository.
type TaskLister interface {
	ListVisible(ctx context.Context, viewerID int64) ([]*domain.Task, error)
}

// Hub fans task mutations out to subscribed connections. Each subscriber
// carries a viewer identity; the hub re-evaluates the publish predicate per
// subscriber on every mutation and emits added/changed/removed accordingly.
type Hub struct {
	mu          sync.RWMutex
	subscribers map[*Client]struct{}

	tasks TaskLister
}

func NewHub(tasks TaskLister) *Hub {
	return &Hub{
		subscribers: make(map[*Client]struct{}),
		tasks:       tasks,
	}
}

// Subscribe registers the client and queues its initial snapshot. The
// registration, the snapshot query and the snapshot enqueue all happen under
// the write lock: PublishTask needs the read lock to reach any subscriber,
// so no event can slot into the send queue ahead of the snapshot. A client
// that applies messages in order therefore converges on the visible set.
func (h *Hub) Subscribe(c *Client) {
	ctx, cancel := context.WithTimeout(context.Background(), snapshotTimeout)
	defer cancel()

	h.mu.Lock()
	h.subscribers[c] = struct{}{}

	tasks, err := h.tasks.ListVisible(ctx, c.ViewerID)
	if err != nil {
		// without a base snapshot incremental events would describe a
		// partial world; drop the subscription and let the client redial
		delete(h.subscribers, c)
		n := len(h.subscribers)
		h.mu.Unlock()

		subscribersGauge.Set(float64(n))
		logger.Error("ws snapshot query failed", "viewer_id", c.ViewerID, "error", err)
		c.enqueue(mustMarshal(ErrorPayload{Type: MsgError, Message: "snapshot failed"}))
		if c.Conn != nil {
			_ = c.Conn.Close()
		}
		return
	}
	if tasks == nil {
		tasks = []*domain.Task{}
	}
	c.enqueue(mustMarshal(Envelope{Type: MsgSnapshot, Tasks: tasks}))
	n := len(h.subscribers)
	h.mu.Unlock()

	subscribersGauge.Set(float64(n))
	logger.Debug("ws subscriber registered", "viewer_id", c.ViewerID, "subscribers", n)
}

func (h *Hub) Unsubscribe(c *Client) {
	h.mu.Lock()
	delete(h.subscribers, c)
	n := len(h.subscribers)
	h.mu.Unlock()

	subscribersGauge.Set(float64(n))
	logger.Debug("ws subscriber removed", "viewer_id", c.ViewerID, "subscribers", n)
}

// PublishTask implements service.TaskPublisher. old is nil for an insert,
// updated is nil for a delete. Marshalling happens at most three times per
// mutation: the removed payload and the added/changed payloads are shared
// between subscribers with the same visibility outcome.
func (h *Hub) PublishTask(old, updated *domain.Task) {
	h.mu.RLock()
	subs := make([]*Client, 0, len(h.subscribers))
	for c := range h.subscribers {
		subs = append(subs, c)
	}
	h.mu.RUnlock()

	cache := make(map[string][]byte, 3)
	for _, c := range subs {
		msgType, task, ok := DiffEvent(old, updated, c.ViewerID)
		if !ok {
			continue
		}

		payload, cached := cache[msgType]
		if !cached {
			env := Envelope{Type: msgType}
			if msgType == MsgRemoved {
				env.ID = task.ID
			} else {
				env.Task = task
			}
			payload = mustMarshal(env)
			cache[msgType] = payload
		}

		c.enqueue(payload)
		eventsTotal.WithLabelValues(msgType).Inc()
	}
}

// SubscriberCount returns the number of live subscriptions.
func (h *Hub) SubscriberCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscribers)
}

func mustMarshal(v any) []byte {
	b, err := json.Marshal(v)
	if err != nil {
		// payload types contain only marshallable fields
		panic(err)
	}
	return b
}
