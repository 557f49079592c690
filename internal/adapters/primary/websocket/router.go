package websocket

import (
	"log/slog"

	"github.com/hosteldesk/complaints-backend/internal/core/domain"
	"github.com/hosteldesk/complaints-backend/internal/core/ports"
)

// ScopePolicy controls whether status and assignment updates are narrowed
// to the complaint's hostel or broadcast to every live connection.
type ScopePolicy string

const (
	// ScopeGlobal delivers status/assignment updates to all connections.
	ScopeGlobal ScopePolicy = "global"
	// ScopeHostel narrows delivery to connections scoped to the event's
	// hostel (unscoped connections always match).
	ScopeHostel ScopePolicy = "hostel"
)

// Router fans one event out to the matching connection subset, isolating
// per-connection failures from each other and from the caller.
type Router struct {
	registry ports.ConnectionRegistry
	policy   ScopePolicy
	logger   *slog.Logger
}

var _ ports.EventBroadcaster = (*Router)(nil)

// NewRouter creates a broadcast router over the given registry.
func NewRouter(registry ports.ConnectionRegistry, policy ScopePolicy, logger *slog.Logger) *Router {
	if policy == "" {
		policy = ScopeGlobal
	}
	return &Router{
		registry: registry,
		policy:   policy,
		logger:   logger.With("component", "broadcast_router"),
	}
}

// Broadcast delivers one event to every matching connection. A failing peer
// is unregistered and delivery continues; only a malformed event is fatal
// to the call.
func (r *Router) Broadcast(event domain.Event) (ports.BroadcastResult, error) {
	if err := event.Validate(); err != nil {
		return ports.BroadcastResult{}, err
	}

	targets := r.registry.Snapshot(r.filterFor(event))

	result := ports.BroadcastResult{Attempted: len(targets)}
	for _, target := range targets {
		if err := target.Sink.Deliver(event); err != nil {
			r.logger.Warn("delivery failed, evicting connection",
				"connection_id", target.Connection.ID,
				"event_type", event.Type,
				"error", err,
			)
			r.registry.Unregister(target.Connection.ID)
			result.RemovedStale++
			continue
		}
		result.Delivered++
	}

	r.logger.Debug("broadcast complete",
		"event_type", event.Type,
		"attempted", result.Attempted,
		"delivered", result.Delivered,
		"removed_stale", result.RemovedStale,
	)
	return result, nil
}

// filterFor selects the target subset for an event. New complaints go to
// admins only; porters are not alerted on unassigned new complaints.
func (r *Router) filterFor(event domain.Event) *ports.SnapshotFilter {
	switch event.Type {
	case domain.EventNewComplaint:
		role := domain.RoleAdmin
		return &ports.SnapshotFilter{Role: &role}
	default:
		if r.policy == ScopeHostel {
			return &ports.SnapshotFilter{Hostel: event.Hostel()}
		}
		return nil
	}
}
