package service

import (
	"testing"

	"github.com/bnema/docforge/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventBus_PublishToSubscribers(t *testing.T) {
	bus := NewEventBus()
	a := bus.Subscribe("job-1")
	b := bus.Subscribe("job-1")
	other := bus.Subscribe("job-2")

	bus.Publish("job-1", Event{Type: EventStatus, Job: &domain.Job{ID: "job-1", Status: domain.JobStatusConverting}})

	for _, ch := range []chan Event{a, b} {
		select {
		case ev := <-ch:
			assert.Equal(t, domain.JobStatusConverting, ev.Job.Status)
		default:
			t.Fatal("expected event")
		}
	}
	assert.Empty(t, other)
}

func TestEventBus_UnsubscribeClosesChannel(t *testing.T) {
	bus := NewEventBus()
	ch := bus.Subscribe("job-1")

	bus.Unsubscribe("job-1", ch)

	_, open := <-ch
	assert.False(t, open)
	bus.Publish("job-1", Event{Type: EventStatus})
	assert.Empty(t, bus.subscribers)
}

func TestEventBus_DropsWhenSubscriberIsSlow(t *testing.T) {
	bus := NewEventBus()
	ch := bus.Subscribe("job-1")

	for i := 0; i < cap(ch)+5; i++ {
		bus.Publish("job-1", Event{Type: EventStatus})
	}

	require.Len(t, ch, cap(ch))
}
