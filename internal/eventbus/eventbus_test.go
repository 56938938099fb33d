package eventbus

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tvnav/internal/domain"
)

func TestPublishDeliversInOrder(t *testing.T) {
	b := New()
	defer b.Close()

	got := make(chan int, 3)
	b.Subscribe(EventCursorMoved, func(e DomainEvent) {
		got <- e.(domain.CursorMovedEvent).NewIndex
	})

	for i := 0; i < 3; i++ {
		b.Publish(domain.CursorMovedEvent{NewIndex: i})
	}

	for want := 0; want < 3; want++ {
		select {
		case idx := <-got:
			assert.Equal(t, want, idx)
		case <-time.After(time.Second):
			t.Fatal("event not delivered")
		}
	}
}

func TestUnsubscribeStopsDelivery(t *testing.T) {
	b := New()
	defer b.Close()

	first := make(chan struct{}, 4)
	second := make(chan struct{}, 4)
	unsubscribe := b.Subscribe(EventOverlayOpened, func(DomainEvent) { first <- struct{}{} })
	b.Subscribe(EventOverlayOpened, func(DomainEvent) { second <- struct{}{} })

	unsubscribe()
	b.Publish(domain.OverlayOpenedEvent{OverlayID: "detail"})

	select {
	case <-second:
	case <-time.After(time.Second):
		t.Fatal("remaining subscriber not called")
	}
	assert.Len(t, first, 0)
}

func TestHandlerPanicDoesNotStopBus(t *testing.T) {
	b := New()
	defer b.Close()

	done := make(chan struct{}, 1)
	b.Subscribe(EventError, func(DomainEvent) { panic("boom") })
	b.Subscribe(EventBackHandled, func(DomainEvent) { done <- struct{}{} })

	b.Publish(domain.ErrorEvent{Message: "x"})
	b.Publish(domain.BackHandledEvent{Outcome: domain.BackNavigated})

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("bus stopped after panic")
	}
}

func TestPublishAfterCloseIsDropped(t *testing.T) {
	b := New()
	b.Close()
	require.NotPanics(t, func() {
		b.Publish(domain.ErrorEvent{Message: "late"})
		b.Close()
	})
}
