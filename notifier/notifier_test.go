package notifier

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHubFansOut(t *testing.T) {
	h := NewHub()
	a := h.Subscribe(4)
	b := h.Subscribe(4)

	err := h.Publish(Event{Event: EventPriorityUpdated, Action: ActionReordered, Unit: "boxplant_main"})
	require.NoError(t, err)

	got := <-a
	assert.Equal(t, EventPriorityUpdated, got.Event)
	assert.Equal(t, ActionReordered, got.Action)
	assert.Equal(t, "boxplant_main", got.Unit)

	got = <-b
	assert.Equal(t, EventPriorityUpdated, got.Event)
}

func TestHubFullSubscriberDoesNotBlock(t *testing.T) {
	h := NewHub()
	slow := h.Subscribe(1)
	fast := h.Subscribe(4)

	require.NoError(t, h.Publish(Event{Event: EventRunUpdated}))
	// slow's buffer is now full; the next publish reports the drop but
	// still delivers to fast.
	err := h.Publish(Event{Event: EventOrderUpdated})
	assert.Error(t, err)

	assert.Len(t, fast, 2)
	assert.Len(t, slow, 1)
	got := <-slow
	assert.Equal(t, EventRunUpdated, got.Event)
}

func TestHubUnsubscribeCloses(t *testing.T) {
	h := NewHub()
	ch := h.Subscribe(1)
	h.Unsubscribe(ch)

	_, open := <-ch
	assert.False(t, open)

	// Publishing after the unsubscribe reaches nobody and reports no
	// drops.
	assert.NoError(t, h.Publish(Event{Event: EventRunUpdated}))
}

func TestPackagePublishWithoutInitIsSafe(t *testing.T) {
	defaultHub = nil
	assert.NotPanics(t, func() {
		Publish(Event{Event: EventOrderUpdated})
	})

	Init()
	ch := Default().Subscribe(1)
	Publish(Event{Event: EventOrderUpdated, Action: ActionUpdated})
	got := <-ch
	assert.Equal(t, ActionUpdated, got.Action)
}
