package services

import (
	"context"
	"log/slog"

	"github.com/hosteldesk/complaints-backend/internal/core/domain"
	"github.com/hosteldesk/complaints-backend/internal/core/ports"
)

// Dispatcher is the single integration point for complaint lifecycle events.
// The persistence layer calls OnComplaintEvent strictly after its
// transaction commits, so no event for rolled-back state ever escapes.
type Dispatcher struct {
	broadcaster ports.EventBroadcaster
	notifier    ports.AlertNotifier
	logger      *slog.Logger
}

var _ ports.EventDispatcher = (*Dispatcher)(nil)

// NewDispatcher creates an event dispatcher.
func NewDispatcher(broadcaster ports.EventBroadcaster, notifier ports.AlertNotifier, logger *slog.Logger) *Dispatcher {
	return &Dispatcher{
		broadcaster: broadcaster,
		notifier:    notifier,
		logger:      logger.With("component", "event_dispatcher"),
	}
}

// OnComplaintEvent validates the event once, then runs broadcast and
// notification as two independent, fail-isolated steps. Only a malformed
// event surfaces to the caller: suppressing it would hide an upstream bug.
func (d *Dispatcher) OnComplaintEvent(ctx context.Context, event domain.Event) error {
	if err := event.Validate(); err != nil {
		return err
	}

	if result, err := d.broadcaster.Broadcast(event); err != nil {
		// Validate already ran, so this is unexpected; delivery problems
		// must never reach the caller.
		d.logger.Error("broadcast failed",
			"event_type", event.Type,
			"error", err,
		)
	} else {
		d.logger.Debug("event broadcast",
			"event_type", event.Type,
			"attempted", result.Attempted,
			"delivered", result.Delivered,
			"removed_stale", result.RemovedStale,
		)
	}

	outcome := d.notifier.Notify(ctx, event)
	if outcome.Status == ports.NotifySuppressed {
		d.logger.Debug("external alert suppressed",
			"event_type", event.Type,
			"reason", outcome.Reason,
		)
	}

	return nil
}
