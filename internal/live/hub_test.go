package live

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHubSubscribeDeliversInitialSnapshot(t *testing.T) {
	hub := NewHub(nil)
	hub.RegisterLoader("orders", func(ctx context.Context) (any, error) {
		return []string{"order-1"}, nil
	})

	id, ch, err := hub.Subscribe(context.Background(), "orders")
	require.NoError(t, err)
	defer hub.Unsubscribe("orders", id)

	snapshot := <-ch
	assert.Equal(t, "orders", snapshot.Collection)
	assert.Equal(t, []string{"order-1"}, snapshot.Data)
}

func TestHubChangedFansOutToAllSubscribers(t *testing.T) {
	state := []string{"a"}
	hub := NewHub(nil)
	hub.RegisterLoader("gallery", func(ctx context.Context) (any, error) {
		return state, nil
	})

	id1, ch1, err := hub.Subscribe(context.Background(), "gallery")
	require.NoError(t, err)
	id2, ch2, err := hub.Subscribe(context.Background(), "gallery")
	require.NoError(t, err)
	defer hub.Unsubscribe("gallery", id1)
	defer hub.Unsubscribe("gallery", id2)

	<-ch1
	<-ch2

	state = []string{"a", "b"}
	hub.Changed(context.Background(), "gallery")

	assert.Equal(t, []string{"a", "b"}, (<-ch1).Data)
	assert.Equal(t, []string{"a", "b"}, (<-ch2).Data)
}

func TestHubUnsubscribeClosesChannel(t *testing.T) {
	hub := NewHub(nil)
	hub.RegisterLoader("feedback", func(ctx context.Context) (any, error) {
		return nil, nil
	})

	id, ch, err := hub.Subscribe(context.Background(), "feedback")
	require.NoError(t, err)
	<-ch

	hub.Unsubscribe("feedback", id)

	_, open := <-ch
	assert.False(t, open)
	assert.Equal(t, 0, hub.SubscriberCount("feedback"))
}

func TestHubSubscribeUnknownCollection(t *testing.T) {
	hub := NewHub(nil)
	_, _, err := hub.Subscribe(context.Background(), "nope")
	assert.Error(t, err)
}

func TestHubSubscribeLoaderFailure(t *testing.T) {
	hub := NewHub(nil)
	hub.RegisterLoader("orders", func(ctx context.Context) (any, error) {
		return nil, errors.New("db down")
	})

	_, _, err := hub.Subscribe(context.Background(), "orders")
	assert.Error(t, err)
	assert.Equal(t, 0, hub.SubscriberCount("orders"))
}

func TestHubSlowSubscriberDoesNotBlockChanged(t *testing.T) {
	hub := NewHub(nil)
	hub.RegisterLoader("orders", func(ctx context.Context) (any, error) {
		return "snap", nil
	})

	id, _, err := hub.Subscribe(context.Background(), "orders")
	require.NoError(t, err)
	defer hub.Unsubscribe("orders", id)

	// Fill the buffer well past capacity; Changed must return regardless.
	for i := 0; i < subscriberBuffer*2; i++ {
		hub.Changed(context.Background(), "orders")
	}
}

func TestHubChangedRacingUnsubscribeSkipsRemovedSubscriber(t *testing.T) {
	hub := NewHub(nil)

	var calls int32
	reloadStarted := make(chan struct{})
	release := make(chan struct{})
	hub.RegisterLoader("orders", func(ctx context.Context) (any, error) {
		if atomic.AddInt32(&calls, 1) == 1 {
			return "initial", nil
		}
		close(reloadStarted)
		<-release
		return "reload", nil
	})

	id, ch, err := hub.Subscribe(context.Background(), "orders")
	require.NoError(t, err)
	<-ch

	done := make(chan struct{})
	go func() {
		defer close(done)
		hub.Changed(context.Background(), "orders")
	}()

	// Drop the subscriber while Changed is still inside the loader, then let
	// the reload finish. Delivery must notice the removal instead of sending
	// on the closed channel.
	<-reloadStarted
	hub.Unsubscribe("orders", id)
	close(release)
	<-done

	_, open := <-ch
	assert.False(t, open)
	assert.Equal(t, 0, hub.SubscriberCount("orders"))
}
