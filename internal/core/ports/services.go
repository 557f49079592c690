package ports

import (
	"context"

	"github.com/google/uuid"

	"github.com/hosteldesk/complaints-backend/internal/core/domain"
)

// AuthService defines the port for authentication business logic.
type AuthService interface {
	Register(ctx context.Context, params domain.UserRegistrationParams) (*domain.User, error)
	Login(ctx context.Context, email, password string) (*domain.User, error)
}

// CreateComplaintParams defines the required input for filing a complaint.
type CreateComplaintParams struct {
	Hostel      string
	Wing        string
	RoomNumber  string
	Category    domain.Category
	Severity    domain.Severity
	Description string
	ReporterID  uuid.UUID
}

// UpdateStatusParams defines the input for changing a complaint's status.
type UpdateStatusParams struct {
	ComplaintID uuid.UUID
	Status      domain.ComplaintStatus
	ActorID     uuid.UUID
	ActorRole   domain.ConnectionRole
}

// AssignComplaintParams defines the input for assigning a complaint.
type AssignComplaintParams struct {
	ComplaintID uuid.UUID
	AssigneeID  uuid.UUID
	ActorID     uuid.UUID
	ActorRole   domain.ConnectionRole
}

// ListComplaintsParams defines the input for listing complaints.
type ListComplaintsParams struct {
	Hostel   *string
	Status   *string
	Assignee *uuid.UUID
	Limit    int
	Offset   int
}

// ComplaintService defines the core business operations for complaints.
// Every mutation persists first and emits its lifecycle event only after
// the write has committed.
type ComplaintService interface {
	CreateComplaint(ctx context.Context, params CreateComplaintParams) (*domain.Complaint, error)
	GetComplaint(ctx context.Context, complaintID uuid.UUID) (*domain.Complaint, error)
	UpdateStatus(ctx context.Context, params UpdateStatusParams) (*domain.Complaint, error)
	AssignComplaint(ctx context.Context, params AssignComplaintParams) (*domain.Complaint, error)
	ListComplaints(ctx context.Context, params ListComplaintsParams) ([]*domain.Complaint, error)
}
