package domain

import (
	"time"

	"github.com/google/uuid"

	apperrors "github.com/hosteldesk/complaints-backend/internal/core/errors"
)

// ComplaintStatus represents the possible states of a complaint.
type ComplaintStatus string

const (
	StatusReported   ComplaintStatus = "reported"
	StatusInProgress ComplaintStatus = "in_progress"
	StatusOnHold     ComplaintStatus = "on_hold"
	StatusResolved   ComplaintStatus = "resolved"
	StatusRejected   ComplaintStatus = "rejected"
	StatusClosed     ComplaintStatus = "closed"
)

// Severity represents the urgency of a complaint.
type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// Category is the complaint category storage key.
type Category string

const (
	CategoryPlumbing   Category = "plumbing"
	CategoryElectrical Category = "electrical"
	CategoryStructural Category = "structural"
	CategoryPest       Category = "pest"
	CategoryCommonArea Category = "common_area"
	CategoryOther      Category = "other"
)

// ValidStatuses lists every status the system recognizes.
var ValidStatuses = []ComplaintStatus{
	StatusReported, StatusInProgress, StatusOnHold,
	StatusResolved, StatusRejected, StatusClosed,
}

// validTransitions defines the allowed status transition graph.
var validTransitions = map[ComplaintStatus][]ComplaintStatus{
	StatusReported:   {StatusInProgress, StatusOnHold, StatusRejected},
	StatusInProgress: {StatusOnHold, StatusResolved, StatusRejected},
	StatusOnHold:     {StatusInProgress, StatusRejected},
	StatusResolved:   {StatusClosed, StatusInProgress},
	StatusRejected:   {StatusClosed},
	StatusClosed:     {},
}

// Complaint is the core domain entity.
type Complaint struct {
	ID          uuid.UUID
	Hostel      string
	Wing        string
	RoomNumber  string
	Category    Category
	Severity    Severity
	Description string
	Status      ComplaintStatus
	ReporterID  uuid.UUID
	AssigneeID  *uuid.UUID
	CreatedAt   time.Time
	UpdatedAt   *time.Time
}

// ComplaintParams holds the input for creating a new complaint.
type ComplaintParams struct {
	Hostel      string
	Wing        string
	RoomNumber  string
	Category    Category
	Severity    Severity
	Description string
	ReporterID  uuid.UUID
}

// NewComplaint is a factory function to create a valid new complaint.
func NewComplaint(params ComplaintParams) (*Complaint, error) {
	if params.Hostel == "" {
		return nil, apperrors.ErrHostelRequired
	}
	if params.Description == "" {
		return nil, apperrors.ErrDescriptionRequired
	}
	if !IsValidSeverity(params.Severity) {
		return nil, apperrors.ErrInvalidSeverity
	}
	if !IsValidCategory(params.Category) {
		return nil, apperrors.ErrInvalidCategory
	}

	return &Complaint{
		Hostel:      params.Hostel,
		Wing:        params.Wing,
		RoomNumber:  params.RoomNumber,
		Category:    params.Category,
		Severity:    params.Severity,
		Description: params.Description,
		Status:      StatusReported,
		ReporterID:  params.ReporterID,
		CreatedAt:   time.Now().UTC(),
	}, nil
}

// UpdateStatus changes the complaint's status, enforcing the transition graph.
func (c *Complaint) UpdateStatus(newStatus ComplaintStatus) error {
	allowed, ok := validTransitions[c.Status]
	if !ok {
		return apperrors.ErrInvalidStatusTransition
	}

	for _, s := range allowed {
		if s == newStatus {
			c.Status = newStatus
			now := time.Now().UTC()
			c.UpdatedAt = &now
			return nil
		}
	}

	return apperrors.ErrInvalidStatusTransition
}

// Assign sets or changes the porter responsible for the complaint.
func (c *Complaint) Assign(porterID uuid.UUID) error {
	if c.Status == StatusClosed {
		return apperrors.ErrCannotAssignClosed
	}
	c.AssigneeID = &porterID
	now := time.Now().UTC()
	c.UpdatedAt = &now
	return nil
}

// IsAssignedTo checks whether the complaint is assigned to the given porter.
func (c *Complaint) IsAssignedTo(porterID uuid.UUID) bool {
	return c.AssigneeID != nil && *c.AssigneeID == porterID
}

// IsValidStatus reports whether s is one of the recognized statuses.
func IsValidStatus(s ComplaintStatus) bool {
	for _, v := range ValidStatuses {
		if v == s {
			return true
		}
	}
	return false
}

// IsValidSeverity reports whether s is one of the recognized severities.
func IsValidSeverity(s Severity) bool {
	switch s {
	case SeverityLow, SeverityMedium, SeverityHigh:
		return true
	}
	return false
}

// IsValidCategory reports whether c is one of the recognized categories.
func IsValidCategory(c Category) bool {
	switch c {
	case CategoryPlumbing, CategoryElectrical, CategoryStructural,
		CategoryPest, CategoryCommonArea, CategoryOther:
		return true
	}
	return false
}
