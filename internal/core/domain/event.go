package domain

import (
	"fmt"
	"time"

	apperrors "github.com/hosteldesk/complaints-backend/internal/core/errors"
)

// EventType defines the type of real-time event.
type EventType string

const (
	EventNewComplaint     EventType = "new_complaint"
	EventStatusUpdate     EventType = "status_update"
	EventAssignmentUpdate EventType = "assignment_update"
)

// Event is the payload sent to dashboard clients. It is an immutable value:
// constructed at the integration point, dispatched, then discarded.
type Event struct {
	Type      EventType `json:"event"`
	Timestamp time.Time `json:"timestamp"`
	Data      any       `json:"data"`
}

// NewComplaintData is the payload for a new_complaint event.
type NewComplaintData struct {
	ComplaintID string `json:"complaint_id"`
	Hostel      string `json:"hostel"`
	Category    string `json:"category"`
	Severity    string `json:"severity"`
	CreatedAt   string `json:"created_at"`
}

// StatusUpdateData is the payload for a status_update event.
type StatusUpdateData struct {
	ComplaintID string `json:"complaint_id"`
	Hostel      string `json:"hostel,omitempty"`
	OldStatus   string `json:"old_status"`
	NewStatus   string `json:"new_status"`
	UpdatedBy   string `json:"updated_by"`
	UpdatedAt   string `json:"updated_at"`
}

// AssignmentUpdateData is the payload for an assignment_update event.
type AssignmentUpdateData struct {
	ComplaintID string `json:"complaint_id"`
	Hostel      string `json:"hostel,omitempty"`
	AssignedTo  string `json:"assigned_to"`
	AssignedBy  string `json:"assigned_by"`
	UpdatedAt   string `json:"updated_at"`
}

// NewComplaintEvent builds an event announcing a freshly reported complaint.
func NewComplaintEvent(complaintID, hostel, category, severity string, createdAt time.Time) Event {
	return Event{
		Type:      EventNewComplaint,
		Timestamp: time.Now().UTC(),
		Data: NewComplaintData{
			ComplaintID: complaintID,
			Hostel:      hostel,
			Category:    category,
			Severity:    severity,
			CreatedAt:   createdAt.UTC().Format(time.RFC3339),
		},
	}
}

// NewStatusUpdateEvent builds an event announcing a status transition.
func NewStatusUpdateEvent(complaintID, hostel, oldStatus, newStatus, updatedBy string, updatedAt time.Time) Event {
	return Event{
		Type:      EventStatusUpdate,
		Timestamp: time.Now().UTC(),
		Data: StatusUpdateData{
			ComplaintID: complaintID,
			Hostel:      hostel,
			OldStatus:   oldStatus,
			NewStatus:   newStatus,
			UpdatedBy:   updatedBy,
			UpdatedAt:   updatedAt.UTC().Format(time.RFC3339),
		},
	}
}

// NewAssignmentEvent builds an event announcing a complaint assignment.
func NewAssignmentEvent(complaintID, hostel, assignedTo, assignedBy string, updatedAt time.Time) Event {
	return Event{
		Type:      EventAssignmentUpdate,
		Timestamp: time.Now().UTC(),
		Data: AssignmentUpdateData{
			ComplaintID: complaintID,
			Hostel:      hostel,
			AssignedTo:  assignedTo,
			AssignedBy:  assignedBy,
			UpdatedAt:   updatedAt.UTC().Format(time.RFC3339),
		},
	}
}

// Hostel returns the hostel the event is scoped to, if any.
func (e Event) Hostel() string {
	switch d := e.Data.(type) {
	case NewComplaintData:
		return d.Hostel
	case StatusUpdateData:
		return d.Hostel
	case AssignmentUpdateData:
		return d.Hostel
	}
	return ""
}

// Severity returns the severity carried by the event, if any. Only
// new_complaint events carry a severity.
func (e Event) Severity() string {
	if d, ok := e.Data.(NewComplaintData); ok {
		return d.Severity
	}
	return ""
}

// Validate checks that the event carries every field its type requires.
// A failure here is a caller contract violation, not a delivery problem.
func (e Event) Validate() error {
	if e.Timestamp.IsZero() {
		return fmt.Errorf("%w: missing timestamp", apperrors.ErrMalformedEvent)
	}

	switch e.Type {
	case EventNewComplaint:
		d, ok := e.Data.(NewComplaintData)
		if !ok {
			return fmt.Errorf("%w: new_complaint payload has wrong shape", apperrors.ErrMalformedEvent)
		}
		if d.ComplaintID == "" || d.Hostel == "" || d.Severity == "" {
			return fmt.Errorf("%w: new_complaint requires complaint_id, hostel and severity", apperrors.ErrMalformedEvent)
		}
	case EventStatusUpdate:
		d, ok := e.Data.(StatusUpdateData)
		if !ok {
			return fmt.Errorf("%w: status_update payload has wrong shape", apperrors.ErrMalformedEvent)
		}
		if d.ComplaintID == "" || d.OldStatus == "" || d.NewStatus == "" {
			return fmt.Errorf("%w: status_update requires complaint_id, old_status and new_status", apperrors.ErrMalformedEvent)
		}
	case EventAssignmentUpdate:
		d, ok := e.Data.(AssignmentUpdateData)
		if !ok {
			return fmt.Errorf("%w: assignment_update payload has wrong shape", apperrors.ErrMalformedEvent)
		}
		if d.ComplaintID == "" || d.AssignedTo == "" {
			return fmt.Errorf("%w: assignment_update requires complaint_id and assigned_to", apperrors.ErrMalformedEvent)
		}
	default:
		return fmt.Errorf("%w: unknown event type %q", apperrors.ErrMalformedEvent, e.Type)
	}

	return nil
}
