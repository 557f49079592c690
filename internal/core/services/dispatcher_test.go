package services_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/hosteldesk/complaints-backend/internal/core/domain"
	apperrors "github.com/hosteldesk/complaints-backend/internal/core/errors"
	"github.com/hosteldesk/complaints-backend/internal/core/mocks"
	"github.com/hosteldesk/complaints-backend/internal/core/ports"
	"github.com/hosteldesk/complaints-backend/internal/core/services"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestDispatcher_OnComplaintEvent(t *testing.T) {
	ctx := context.Background()
	event := domain.NewComplaintEvent("c-1", "north-wing", "plumbing", "high", time.Now())

	t.Run("broadcasts then notifies", func(t *testing.T) {
		broadcaster := mocks.NewMockEventBroadcaster()
		notifier := mocks.NewMockAlertNotifier()
		dispatcher := services.NewDispatcher(broadcaster, notifier, testLogger())

		broadcaster.On("Broadcast", event).
			Return(ports.BroadcastResult{Attempted: 2, Delivered: 2}, nil)
		notifier.On("Notify", ctx, event).
			Return(ports.NotifyResult{Status: ports.NotifySent, Recipients: []string{"chat-1"}})

		err := dispatcher.OnComplaintEvent(ctx, event)

		require.NoError(t, err)
		broadcaster.AssertExpectations(t)
		notifier.AssertExpectations(t)
	})

	t.Run("malformed event is rejected before any fan-out", func(t *testing.T) {
		broadcaster := mocks.NewMockEventBroadcaster()
		notifier := mocks.NewMockAlertNotifier()
		dispatcher := services.NewDispatcher(broadcaster, notifier, testLogger())

		bad := domain.Event{Type: "complaint_deleted", Timestamp: time.Now()}
		err := dispatcher.OnComplaintEvent(ctx, bad)

		assert.ErrorIs(t, err, apperrors.ErrMalformedEvent)
		broadcaster.AssertNotCalled(t, "Broadcast")
		notifier.AssertNotCalled(t, "Notify")
	})

	t.Run("broadcast failure does not block the notifier", func(t *testing.T) {
		broadcaster := mocks.NewMockEventBroadcaster()
		notifier := mocks.NewMockAlertNotifier()
		dispatcher := services.NewDispatcher(broadcaster, notifier, testLogger())

		broadcaster.On("Broadcast", event).
			Return(ports.BroadcastResult{}, errors.New("registry wedged"))
		notifier.On("Notify", ctx, event).
			Return(ports.NotifyResult{Status: ports.NotifySent})

		err := dispatcher.OnComplaintEvent(ctx, event)

		require.NoError(t, err)
		notifier.AssertExpectations(t)
	})

	t.Run("suppressed alert is not an error", func(t *testing.T) {
		broadcaster := mocks.NewMockEventBroadcaster()
		notifier := mocks.NewMockAlertNotifier()
		dispatcher := services.NewDispatcher(broadcaster, notifier, testLogger())

		broadcaster.On("Broadcast", mock.AnythingOfType("domain.Event")).
			Return(ports.BroadcastResult{Attempted: 1, Delivered: 1}, nil)
		notifier.On("Notify", ctx, mock.AnythingOfType("domain.Event")).
			Return(ports.NotifyResult{Status: ports.NotifySuppressed, Reason: ports.SuppressRateLimited})

		err := dispatcher.OnComplaintEvent(ctx, event)

		require.NoError(t, err)
	})
}
