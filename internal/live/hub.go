package live

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/sunilfabrications/backend/pkg/logger"
)

const subscriberBuffer = 8

// SnapshotLoader produces the full current state of a collection.
type SnapshotLoader func(ctx context.Context) (any, error)

// Snapshot is the payload delivered to subscribers on every change.
type Snapshot struct {
	Collection string `json:"collection"`
	Data       any    `json:"data"`
}

type subscriber struct {
	id uuid.UUID
	ch chan Snapshot
}

// Hub fans full collection snapshots out to registered subscribers. It is the
// in-process replacement for a realtime database: services call Changed after
// each successful mutation and every subscriber receives the fresh snapshot.
type Hub struct {
	mu      sync.RWMutex
	loaders map[string]SnapshotLoader
	subs    map[string]map[uuid.UUID]subscriber
	logg    *logger.Logger
}

// NewHub builds an empty hub.
func NewHub(logg *logger.Logger) *Hub {
	return &Hub{
		loaders: make(map[string]SnapshotLoader),
		subs:    make(map[string]map[uuid.UUID]subscriber),
		logg:    logg,
	}
}

// RegisterLoader binds the snapshot source for a collection. Registering the
// same collection twice replaces the loader.
func (h *Hub) RegisterLoader(collection string, loader SnapshotLoader) {
	if collection == "" || loader == nil {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.loaders[collection] = loader
}

// Subscribe registers a listener and immediately delivers the current
// snapshot. The returned channel closes on Unsubscribe.
func (h *Hub) Subscribe(ctx context.Context, collection string) (uuid.UUID, <-chan Snapshot, error) {
	h.mu.RLock()
	loader, ok := h.loaders[collection]
	h.mu.RUnlock()
	if !ok {
		return uuid.Nil, nil, fmt.Errorf("unknown collection %q", collection)
	}

	data, err := loader(ctx)
	if err != nil {
		return uuid.Nil, nil, fmt.Errorf("load %s snapshot: %w", collection, err)
	}

	sub := subscriber{id: uuid.New(), ch: make(chan Snapshot, subscriberBuffer)}
	sub.ch <- Snapshot{Collection: collection, Data: data}

	h.mu.Lock()
	if h.subs[collection] == nil {
		h.subs[collection] = make(map[uuid.UUID]subscriber)
	}
	h.subs[collection][sub.id] = sub
	h.mu.Unlock()

	return sub.id, sub.ch, nil
}

// Unsubscribe removes the listener and closes its channel.
func (h *Hub) Unsubscribe(collection string, id uuid.UUID) {
	h.mu.Lock()
	defer h.mu.Unlock()
	subs, ok := h.subs[collection]
	if !ok {
		return
	}
	sub, ok := subs[id]
	if !ok {
		return
	}
	delete(subs, id)
	close(sub.ch)
}

// Changed reloads the collection snapshot and fans it out. Slow subscribers
// with a full buffer miss this update rather than blocking the mutation path;
// the next change delivers a full snapshot anyway.
func (h *Hub) Changed(ctx context.Context, collection string) {
	h.mu.RLock()
	loader, ok := h.loaders[collection]
	count := len(h.subs[collection])
	h.mu.RUnlock()

	if !ok || count == 0 {
		return
	}

	data, err := loader(ctx)
	if err != nil {
		if h.logg != nil {
			logCtx := h.logg.WithField(ctx, "collection", collection)
			h.logg.Error(logCtx, "live snapshot reload failed", err)
		}
		return
	}

	// Deliver under the read lock. Unsubscribe closes channels while holding
	// the write lock, so membership checked here cannot race a close: a
	// subscriber that left while the loader ran is simply no longer in the map.
	snapshot := Snapshot{Collection: collection, Data: data}
	h.mu.RLock()
	for _, sub := range h.subs[collection] {
		select {
		case sub.ch <- snapshot:
		default:
		}
	}
	h.mu.RUnlock()
}

// SubscriberCount reports the current listener count for a collection.
func (h *Hub) SubscriberCount(collection string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs[collection])
}
