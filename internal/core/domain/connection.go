package domain

import (
	"time"

	apperrors "github.com/hosteldesk/complaints-backend/internal/core/errors"
)

// ConnectionRole is the closed set of roles a live connection can carry.
type ConnectionRole string

const (
	RoleAdmin  ConnectionRole = "admin"
	RolePorter ConnectionRole = "porter"
)

// ParseConnectionRole validates a role string against the closed set.
// Unknown roles are rejected at admission and never stored.
func ParseConnectionRole(s string) (ConnectionRole, error) {
	switch ConnectionRole(s) {
	case RoleAdmin:
		return RoleAdmin, nil
	case RolePorter:
		return RolePorter, nil
	default:
		return "", apperrors.ErrUnknownRole
	}
}

// Connection describes one live, authenticated dashboard channel.
// It is exclusively owned by the connection registry.
type Connection struct {
	ID            string
	Role          ConnectionRole
	HostelScope   string // empty means unscoped
	EstablishedAt time.Time
	LastSeenAt    time.Time
}
