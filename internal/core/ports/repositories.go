package ports

import (
	"context"

	"github.com/google/uuid"

	"github.com/hosteldesk/complaints-backend/internal/core/domain"
)

// ListComplaintsRepoParams defines filtering for complaint listings.
type ListComplaintsRepoParams struct {
	Hostel   *string
	Status   *domain.ComplaintStatus
	Assignee *uuid.UUID
	Limit    int
	Offset   int
}

// ComplaintRepository is the port for complaint persistence.
type ComplaintRepository interface {
	Create(ctx context.Context, complaint *domain.Complaint) (*domain.Complaint, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Complaint, error)
	Update(ctx context.Context, complaint *domain.Complaint) (*domain.Complaint, error)
	ListPaginated(ctx context.Context, params ListComplaintsRepoParams) ([]*domain.Complaint, error)
}

// UserRepository is the port for staff account persistence.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}
