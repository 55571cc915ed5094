package worker

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deskflow/helpdesk-service/internal/config"
	"github.com/deskflow/helpdesk-service/internal/events"
	"github.com/deskflow/helpdesk-service/internal/service"
)

func TestWorkerDeliversQueuedEventsBeforeStop(t *testing.T) {
	inner := events.NewInMemoryDispatcher(nil)
	w := StartNotificationWorker(inner, service.NewNotificationService(inner, nil, config.NotificationConfig{}), 4, nil)

	var mu sync.Mutex
	var got []string
	w.Subscribe(events.EventWorkLogRecorded, func(_ context.Context, e events.Event) error {
		mu.Lock()
		defer mu.Unlock()
		got = append(got, e.TicketID)
		return nil
	})

	for _, id := range []string{"t1", "t2", "t3"} {
		require.NoError(t, w.Publish(context.Background(), events.Event{Type: events.EventWorkLogRecorded, TicketID: id}))
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, w.Stop(ctx))

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"t1", "t2", "t3"}, got)
}

func TestPublishAfterStopIsInline(t *testing.T) {
	inner := events.NewInMemoryDispatcher(nil)
	w := StartNotificationWorker(inner, nil, 1, nil)
	require.NoError(t, w.Stop(context.Background()))

	delivered := false
	w.Subscribe(events.EventTicketCreated, func(context.Context, events.Event) error {
		delivered = true
		return nil
	})
	require.NoError(t, w.Publish(context.Background(), events.Event{Type: events.EventTicketCreated}))
	assert.True(t, delivered)
}
