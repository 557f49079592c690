package telegram

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/hosteldesk/complaints-backend/internal/core/domain"
	"github.com/hosteldesk/complaints-backend/internal/core/ports"
)

// Config controls alert admission and delivery.
type Config struct {
	Enabled          bool
	HighSeverityOnly bool
	RateLimitWindow  time.Duration
	MaxPerWindow     int
	Recipients       []string
}

// windowKey identifies one sliding window: per recipient, per event class.
type windowKey struct {
	recipient string
	class     domain.EventType
}

// Notifier decides whether an event warrants an external alert and sends it
// through the underlying transport. Admission uses a process-local sliding
// window of attempt timestamps, pruned on every access; the window is
// advisory and resets on restart.
type Notifier struct {
	sender ports.AlertSender
	cfg    Config
	logger *slog.Logger

	mu      sync.Mutex
	windows map[windowKey][]time.Time

	// now is swappable for tests.
	now func() time.Time
}

var _ ports.AlertNotifier = (*Notifier)(nil)

// NewNotifier creates a rate-limited notifier over the given transport.
func NewNotifier(sender ports.AlertSender, cfg Config, logger *slog.Logger) *Notifier {
	return &Notifier{
		sender:  sender,
		cfg:     cfg,
		logger:  logger.With("component", "alert_notifier"),
		windows: make(map[windowKey][]time.Time),
		now:     time.Now,
	}
}

// Notify evaluates the event against the configured policy and attempts
// delivery to each recipient independently. Transport failures are caught
// per recipient and folded into the result; they never propagate.
func (n *Notifier) Notify(ctx context.Context, event domain.Event) ports.NotifyResult {
	if !n.cfg.Enabled || len(n.cfg.Recipients) == 0 {
		return n.suppress(event, ports.SuppressDisabled)
	}

	// Only freshly reported complaints alert externally.
	if event.Type != domain.EventNewComplaint {
		return n.suppress(event, ports.SuppressDisabled)
	}

	if n.cfg.HighSeverityOnly && event.Severity() != string(domain.SeverityHigh) {
		return n.suppress(event, ports.SuppressSeverityFiltered)
	}

	admitted := n.admit(event.Type)
	if len(admitted) == 0 {
		return n.suppress(event, ports.SuppressRateLimited)
	}

	text := formatAlert(event)
	result := ports.NotifyResult{
		Status:     ports.NotifySent,
		Recipients: admitted,
	}

	for _, recipient := range admitted {
		if err := n.sender.Send(ctx, recipient, text); err != nil {
			n.logger.Error("alert delivery failed",
				"recipient", recipient,
				"event_type", event.Type,
				"error", err,
			)
			result.Failures = append(result.Failures, ports.NotifyFailure{
				Recipient: recipient,
				Err:       err,
			})
		}
	}

	n.logger.Info("alert dispatched",
		"event_type", event.Type,
		"recipients", len(result.Recipients),
		"failures", len(result.Failures),
	)
	return result
}

// admit prunes each recipient's window and returns the recipients still
// under the limit, recording an attempt timestamp for each. The timestamp
// is recorded before the transport is tried so total call volume stays
// bounded even when every send fails.
func (n *Notifier) admit(class domain.EventType) []string {
	now := n.now().UTC()
	cutoff := now.Add(-n.cfg.RateLimitWindow)

	n.mu.Lock()
	defer n.mu.Unlock()

	var admitted []string
	for _, recipient := range n.cfg.Recipients {
		key := windowKey{recipient: recipient, class: class}

		kept := n.windows[key][:0]
		for _, ts := range n.windows[key] {
			if ts.After(cutoff) {
				kept = append(kept, ts)
			}
		}

		if len(kept) >= n.cfg.MaxPerWindow {
			n.windows[key] = kept
			continue
		}

		n.windows[key] = append(kept, now)
		admitted = append(admitted, recipient)
	}
	return admitted
}

// suppress records a suppressed alert. Suppression is always traceable,
// never silent.
func (n *Notifier) suppress(event domain.Event, reason ports.SuppressReason) ports.NotifyResult {
	n.logger.Info("alert suppressed",
		"event_type", event.Type,
		"reason", reason,
	)
	return ports.NotifyResult{
		Status: ports.NotifySuppressed,
		Reason: reason,
	}
}
