package ports

import (
	"context"
	"time"

	"github.com/hosteldesk/complaints-backend/internal/core/domain"
)

// EventSink is the outbound side of one live connection. The registry owns
// the binding between a connection id and its sink; the router only ever
// talks to sinks, never to transport internals.
type EventSink interface {
	// Deliver queues one event for this connection. It must return an error
	// when the connection can no longer accept events (closed socket, full
	// outbound buffer) so the caller can evict the connection.
	Deliver(event domain.Event) error

	// Close tears the underlying transport down. Safe to call more than once.
	Close()
}

// SnapshotFilter narrows a registry snapshot.
type SnapshotFilter struct {
	Role   *domain.ConnectionRole
	Hostel string // non-empty matches unscoped connections plus this hostel
}

// Member pairs a connection's metadata with its outbound sink.
type Member struct {
	Connection domain.Connection
	Sink       EventSink
}

// RegistryStats is the read-only view exposed over the admin API.
type RegistryStats struct {
	TotalConnections int            `json:"total_connections"`
	ByRole           map[string]int `json:"by_role"`
}

// ConnectionRegistry is the authoritative bookkeeping of live connections.
type ConnectionRegistry interface {
	Register(conn domain.Connection, sink EventSink) error
	Unregister(connectionID string)
	Touch(connectionID string)
	Snapshot(filter *SnapshotFilter) []Member
	Sweep(maxIdle time.Duration) int
	Size() int
	Stats() RegistryStats
}

// BroadcastResult reports the outcome of one fan-out call.
type BroadcastResult struct {
	Attempted    int
	Delivered    int
	RemovedStale int
}

// EventBroadcaster fans one event out to the matching connection subset.
type EventBroadcaster interface {
	Broadcast(event domain.Event) (BroadcastResult, error)
}

// NotifyStatus tells whether an external alert was attempted or suppressed.
type NotifyStatus string

const (
	NotifySent       NotifyStatus = "sent"
	NotifySuppressed NotifyStatus = "suppressed"
)

// SuppressReason explains why an alert was not attempted.
type SuppressReason string

const (
	SuppressDisabled         SuppressReason = "disabled"
	SuppressSeverityFiltered SuppressReason = "severity_filtered"
	SuppressRateLimited      SuppressReason = "rate_limited"
)

// NotifyFailure records one recipient the transport could not reach.
type NotifyFailure struct {
	Recipient string
	Err       error
}

// NotifyResult is the full, never-raised report of one notify call.
type NotifyResult struct {
	Status     NotifyStatus
	Reason     SuppressReason // set only when suppressed
	Recipients []string       // recipients an attempt was made for
	Failures   []NotifyFailure
}

// AlertNotifier decides whether an event warrants an external alert and
// sends it with backpressure protection. Transport failures are folded into
// the result, never raised.
type AlertNotifier interface {
	Notify(ctx context.Context, event domain.Event) NotifyResult
}

// EventDispatcher is the single integration point the persistence layer
// calls strictly after its transaction commits.
type EventDispatcher interface {
	OnComplaintEvent(ctx context.Context, event domain.Event) error
}

// AlertSender is the thin capability the notifier formats messages for.
type AlertSender interface {
	Send(ctx context.Context, recipient, text string) error
}
