package websocket

import (
	"log/slog"
	"sync"
	"time"

	"github.com/hosteldesk/complaints-backend/internal/core/domain"
	apperrors "github.com/hosteldesk/complaints-backend/internal/core/errors"
	"github.com/hosteldesk/complaints-backend/internal/core/ports"
)

// Registry is the authoritative, concurrency-safe bookkeeping of live
// connections. It is constructor-injected so independent registries can
// coexist under test.
type Registry struct {
	// mu protects entries. Critical sections stay short: snapshots copy
	// the matching members and release the lock before anyone sends.
	mu      sync.RWMutex
	entries map[string]*registryEntry

	logger *slog.Logger
}

type registryEntry struct {
	conn domain.Connection
	sink ports.EventSink
}

var _ ports.ConnectionRegistry = (*Registry)(nil)

// NewRegistry creates an empty connection registry.
func NewRegistry(logger *slog.Logger) *Registry {
	return &Registry{
		entries: make(map[string]*registryEntry),
		logger:  logger.With("component", "connection_registry"),
	}
}

// Register admits a new connection. The caller must supply a globally
// unique connection id and a role already drawn from the closed set.
func (r *Registry) Register(conn domain.Connection, sink ports.EventSink) error {
	if _, err := domain.ParseConnectionRole(string(conn.Role)); err != nil {
		return err
	}

	now := time.Now().UTC()
	if conn.EstablishedAt.IsZero() {
		conn.EstablishedAt = now
	}
	if conn.LastSeenAt.IsZero() {
		conn.LastSeenAt = now
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.entries[conn.ID]; exists {
		return apperrors.ErrDuplicateConnection
	}
	r.entries[conn.ID] = &registryEntry{conn: conn, sink: sink}

	r.logger.Info("connection registered",
		"connection_id", conn.ID,
		"role", conn.Role,
		"hostel_scope", conn.HostelScope,
		"total", len(r.entries),
	)
	return nil
}

// Unregister removes a connection and closes its sink. It is idempotent:
// a race between a network error and the periodic sweep is benign.
func (r *Registry) Unregister(connectionID string) {
	r.mu.Lock()
	entry, ok := r.entries[connectionID]
	if ok {
		delete(r.entries, connectionID)
	}
	remaining := len(r.entries)
	r.mu.Unlock()

	if !ok {
		return
	}

	entry.sink.Close()
	r.logger.Info("connection unregistered",
		"connection_id", connectionID,
		"total", remaining,
	)
}

// Touch updates a connection's last-seen timestamp. A touch on a connection
// that is already gone is a benign race and silently no-ops.
func (r *Registry) Touch(connectionID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if entry, ok := r.entries[connectionID]; ok {
		entry.conn.LastSeenAt = time.Now().UTC()
	}
}

// Snapshot returns a point-in-time copy of the matching members. Callers
// may iterate it freely; concurrent mutation never invalidates it.
func (r *Registry) Snapshot(filter *ports.SnapshotFilter) []ports.Member {
	r.mu.RLock()
	defer r.mu.RUnlock()

	members := make([]ports.Member, 0, len(r.entries))
	for _, entry := range r.entries {
		if !matches(entry.conn, filter) {
			continue
		}
		members = append(members, ports.Member{Connection: entry.conn, Sink: entry.sink})
	}
	return members
}

func matches(conn domain.Connection, filter *ports.SnapshotFilter) bool {
	if filter == nil {
		return true
	}
	if filter.Role != nil && conn.Role != *filter.Role {
		return false
	}
	if filter.Hostel != "" && conn.HostelScope != "" && conn.HostelScope != filter.Hostel {
		return false
	}
	return true
}

// Sweep removes connections idle longer than maxIdle and returns the removed
// count. It catches sockets that died without a clean close signal.
func (r *Registry) Sweep(maxIdle time.Duration) int {
	cutoff := time.Now().UTC().Add(-maxIdle)

	r.mu.Lock()
	var stale []*registryEntry
	for id, entry := range r.entries {
		if entry.conn.LastSeenAt.Before(cutoff) {
			stale = append(stale, entry)
			delete(r.entries, id)
		}
	}
	r.mu.Unlock()

	for _, entry := range stale {
		entry.sink.Close()
		r.logger.Warn("swept idle connection",
			"connection_id", entry.conn.ID,
			"last_seen_at", entry.conn.LastSeenAt,
		)
	}
	return len(stale)
}

// Size returns the number of live connections.
func (r *Registry) Size() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

// Stats returns connection counts broken down by role.
func (r *Registry) Stats() ports.RegistryStats {
	r.mu.RLock()
	defer r.mu.RUnlock()

	byRole := map[string]int{
		string(domain.RoleAdmin):  0,
		string(domain.RolePorter): 0,
	}
	for _, entry := range r.entries {
		byRole[string(entry.conn.Role)]++
	}

	return ports.RegistryStats{
		TotalConnections: len(r.entries),
		ByRole:           byRole,
	}
}
