package telegram

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
	"github.com/hosteldesk/complaints-backend/internal/core/mocks"
	"github.com/hosteldesk/complaints-backend/internal/core/ports"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func enabledConfig() Config {
	return Config{
		Enabled:         true,
		RateLimitWindow: 5 * time.Minute,
		MaxPerWindow:    10,
		Recipients:      []string{"chat-1"},
	}
}

func highSeverityEvent() domain.Event {
	return domain.NewComplaintEvent("c-1", "north-wing", "plumbing", "high", time.Now())
}

func lowSeverityEvent() domain.Event {
	return domain.NewComplaintEvent("c-2", "north-wing", "pest", "low", time.Now())
}

func TestNotifier_Notify_Suppression(t *testing.T) {
	ctx := context.Background()

	t.Run("disabled", func(t *testing.T) {
		sender := mocks.NewMockAlertSender()
		cfg := enabledConfig()
		cfg.Enabled = false
		notifier := NewNotifier(sender, cfg, testLogger())

		result := notifier.Notify(ctx, highSeverityEvent())

		assert.Equal(t, ports.NotifySuppressed, result.Status)
		assert.Equal(t, ports.SuppressDisabled, result.Reason)
		sender.AssertNotCalled(t, "Send")
	})

	t.Run("no recipients behaves as disabled", func(t *testing.T) {
		sender := mocks.NewMockAlertSender()
		cfg := enabledConfig()
		cfg.Recipients = nil
		notifier := NewNotifier(sender, cfg, testLogger())

		result := notifier.Notify(ctx, highSeverityEvent())

		assert.Equal(t, ports.NotifySuppressed, result.Status)
		assert.Equal(t, ports.SuppressDisabled, result.Reason)
		sender.AssertNotCalled(t, "Send")
	})

	t.Run("status updates never alert externally", func(t *testing.T) {
		sender := mocks.NewMockAlertSender()
		notifier := NewNotifier(sender, enabledConfig(), testLogger())

		event := domain.NewStatusUpdateEvent("c-1", "north-wing", "reported", "in_progress", "u-1", time.Now())
		result := notifier.Notify(ctx, event)

		assert.Equal(t, ports.NotifySuppressed, result.Status)
		sender.AssertNotCalled(t, "Send")
	})

	t.Run("severity filtered", func(t *testing.T) {
		sender := mocks.NewMockAlertSender()
		cfg := enabledConfig()
		cfg.HighSeverityOnly = true
		notifier := NewNotifier(sender, cfg, testLogger())

		result := notifier.Notify(ctx, lowSeverityEvent())

		assert.Equal(t, ports.NotifySuppressed, result.Status)
		assert.Equal(t, ports.SuppressSeverityFiltered, result.Reason)
		sender.AssertNotCalled(t, "Send")
	})
}

func TestNotifier_Notify_Sends(t *testing.T) {
	ctx := context.Background()

	t.Run("delivers to every recipient", func(t *testing.T) {
		sender := mocks.NewMockAlertSender()
		cfg := enabledConfig()
		cfg.Recipients = []string{"chat-1", "chat-2"}
		notifier := NewNotifier(sender, cfg, testLogger())

		sender.On("Send", ctx, "chat-1", mock.AnythingOfType("string")).Return(nil)
		sender.On("Send", ctx, "chat-2", mock.AnythingOfType("string")).Return(nil)

		result := notifier.Notify(ctx, highSeverityEvent())

		assert.Equal(t, ports.NotifySent, result.Status)
		assert.ElementsMatch(t, []string{"chat-1", "chat-2"}, result.Recipients)
		assert.Empty(t, result.Failures)
		sender.AssertExpectations(t)
	})

	t.Run("transport failure is folded into the result", func(t *testing.T) {
		sender := mocks.NewMockAlertSender()
		cfg := enabledConfig()
		cfg.Recipients = []string{"chat-1", "chat-2"}
		notifier := NewNotifier(sender, cfg, testLogger())

		sendErr := errors.New("telegram: 502")
		sender.On("Send", ctx, "chat-1", mock.AnythingOfType("string")).Return(sendErr)
		sender.On("Send", ctx, "chat-2", mock.AnythingOfType("string")).Return(nil)

		result := notifier.Notify(ctx, highSeverityEvent())

		// Still an attempt: failures are reported, never raised.
		assert.Equal(t, ports.NotifySent, result.Status)
		require.Len(t, result.Failures, 1)
		assert.Equal(t, "chat-1", result.Failures[0].Recipient)
		assert.ErrorIs(t, result.Failures[0].Err, sendErr)
	})
}

func TestNotifier_Notify_RateLimit(t *testing.T) {
	ctx := context.Background()

	t.Run("caps attempts inside the window", func(t *testing.T) {
		sender := mocks.NewMockAlertSender()
		cfg := enabledConfig()
		cfg.MaxPerWindow = 3
		notifier := NewNotifier(sender, cfg, testLogger())

		sender.On("Send", ctx, "chat-1", mock.AnythingOfType("string")).Return(nil)

		var statuses []ports.NotifyStatus
		for i := 0; i < 4; i++ {
			statuses = append(statuses, notifier.Notify(ctx, highSeverityEvent()).Status)
		}

		assert.Equal(t, []ports.NotifyStatus{
			ports.NotifySent, ports.NotifySent, ports.NotifySent, ports.NotifySuppressed,
		}, statuses)

		result := notifier.Notify(ctx, highSeverityEvent())
		assert.Equal(t, ports.SuppressRateLimited, result.Reason)
		sender.AssertNumberOfCalls(t, "Send", 3)
	})

	t.Run("window slides", func(t *testing.T) {
		sender := mocks.NewMockAlertSender()
		cfg := enabledConfig()
		cfg.MaxPerWindow = 1
		notifier := NewNotifier(sender, cfg, testLogger())

		current := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
		notifier.now = func() time.Time { return current }

		sender.On("Send", ctx, "chat-1", mock.AnythingOfType("string")).Return(nil)

		assert.Equal(t, ports.NotifySent, notifier.Notify(ctx, highSeverityEvent()).Status)
		assert.Equal(t, ports.NotifySuppressed, notifier.Notify(ctx, highSeverityEvent()).Status)

		// Advance past the window: the old attempt falls out.
		current = current.Add(cfg.RateLimitWindow + time.Second)
		assert.Equal(t, ports.NotifySent, notifier.Notify(ctx, highSeverityEvent()).Status)
	})

	t.Run("failed sends still count against the window", func(t *testing.T) {
		sender := mocks.NewMockAlertSender()
		cfg := enabledConfig()
		cfg.MaxPerWindow = 2
		notifier := NewNotifier(sender, cfg, testLogger())

		sender.On("Send", ctx, "chat-1", mock.AnythingOfType("string")).Return(errors.New("telegram: down"))

		for i := 0; i < 2; i++ {
			result := notifier.Notify(ctx, highSeverityEvent())
			assert.Equal(t, ports.NotifySent, result.Status)
			assert.Len(t, result.Failures, 1)
		}

		result := notifier.Notify(ctx, highSeverityEvent())
		assert.Equal(t, ports.NotifySuppressed, result.Status)
		assert.Equal(t, ports.SuppressRateLimited, result.Reason)
		sender.AssertNumberOfCalls(t, "Send", 2)
	})
}

func TestFormatAlert(t *testing.T) {
	event := domain.NewComplaintEvent(
		"3f2504e0-4f89-11d3-9a0c-0305e82c3301",
		"north-wing", "plumbing", "high", time.Now(),
	)

	text := formatAlert(event)

	assert.Contains(t, text, "New Complaint Alert")
	assert.Contains(t, text, "north-wing")
	assert.Contains(t, text, "HIGH")
	assert.Contains(t, text, "3f2504e0")
	assert.NotContains(t, text, "11d3-9a0c")
}
