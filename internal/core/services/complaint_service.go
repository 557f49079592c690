package services

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/hosteldesk/complaints-backend/internal/core/domain"
	apperrors "github.com/hosteldesk/complaints-backend/internal/core/errors"
	"github.com/hosteldesk/complaints-backend/internal/core/ports"
)

// ComplaintService implements business logic for complaint management.
type ComplaintService struct {
	complaintRepo ports.ComplaintRepository
	dispatcher    ports.EventDispatcher
	logger        *slog.Logger
}

var _ ports.ComplaintService = (*ComplaintService)(nil)

// NewComplaintService creates a new complaint service.
func NewComplaintService(
	complaintRepo ports.ComplaintRepository,
	dispatcher ports.EventDispatcher,
	logger *slog.Logger,
) ports.ComplaintService {
	return &ComplaintService{
		complaintRepo: complaintRepo,
		dispatcher:    dispatcher,
		logger:        logger.With("component", "complaint_service"),
	}
}

// CreateComplaint handles the use case for filing a new complaint.
func (s *ComplaintService) CreateComplaint(ctx context.Context, params ports.CreateComplaintParams) (*domain.Complaint, error) {
	complaint, err := domain.NewComplaint(domain.ComplaintParams{
		Hostel:      params.Hostel,
		Wing:        params.Wing,
		RoomNumber:  params.RoomNumber,
		Category:    params.Category,
		Severity:    params.Severity,
		Description: params.Description,
		ReporterID:  params.ReporterID,
	})
	if err != nil {
		return nil, err
	}

	created, err := s.complaintRepo.Create(ctx, complaint)
	if err != nil {
		return nil, err
	}

	// The write has committed; fan out. Delivery problems stay local to the
	// dispatcher and never unwind a successfully filed complaint.
	event := domain.NewComplaintEvent(
		created.ID.String(),
		created.Hostel,
		string(created.Category),
		string(created.Severity),
		created.CreatedAt,
	)
	if err := s.dispatcher.OnComplaintEvent(ctx, event); err != nil {
		s.logger.Error("lifecycle event rejected",
			"complaint_id", created.ID,
			"error", err,
		)
	}

	return created, nil
}

// GetComplaint retrieves a single complaint.
func (s *ComplaintService) GetComplaint(ctx context.Context, complaintID uuid.UUID) (*domain.Complaint, error) {
	return s.complaintRepo.GetByID(ctx, complaintID)
}

// UpdateStatus changes a complaint's status with business rule enforcement.
func (s *ComplaintService) UpdateStatus(ctx context.Context, params ports.UpdateStatusParams) (*domain.Complaint, error) {
	complaint, err := s.complaintRepo.GetByID(ctx, params.ComplaintID)
	if err != nil {
		return nil, err
	}

	// Porters may only move complaints assigned to them; admins may move any.
	if params.ActorRole != domain.RoleAdmin && !complaint.IsAssignedTo(params.ActorID) {
		return nil, apperrors.ErrForbidden
	}

	oldStatus := complaint.Status
	if err := complaint.UpdateStatus(params.Status); err != nil {
		return nil, err
	}

	updated, err := s.complaintRepo.Update(ctx, complaint)
	if err != nil {
		return nil, err
	}

	event := domain.NewStatusUpdateEvent(
		updated.ID.String(),
		updated.Hostel,
		string(oldStatus),
		string(updated.Status),
		params.ActorID.String(),
		*updated.UpdatedAt,
	)
	if err := s.dispatcher.OnComplaintEvent(ctx, event); err != nil {
		s.logger.Error("lifecycle event rejected",
			"complaint_id", updated.ID,
			"error", err,
		)
	}

	return updated, nil
}

// AssignComplaint assigns a complaint to a porter.
func (s *ComplaintService) AssignComplaint(ctx context.Context, params ports.AssignComplaintParams) (*domain.Complaint, error) {
	if params.ActorRole != domain.RoleAdmin {
		return nil, apperrors.ErrForbidden
	}

	complaint, err := s.complaintRepo.GetByID(ctx, params.ComplaintID)
	if err != nil {
		return nil, err
	}

	if err := complaint.Assign(params.AssigneeID); err != nil {
		return nil, err
	}

	updated, err := s.complaintRepo.Update(ctx, complaint)
	if err != nil {
		return nil, err
	}

	event := domain.NewAssignmentEvent(
		updated.ID.String(),
		updated.Hostel,
		params.AssigneeID.String(),
		params.ActorID.String(),
		*updated.UpdatedAt,
	)
	if err := s.dispatcher.OnComplaintEvent(ctx, event); err != nil {
		s.logger.Error("lifecycle event rejected",
			"complaint_id", updated.ID,
			"error", err,
		)
	}

	return updated, nil
}

// ListComplaints lists complaints matching the given filters.
func (s *ComplaintService) ListComplaints(ctx context.Context, params ports.ListComplaintsParams) ([]*domain.Complaint, error) {
	repoParams := ports.ListComplaintsRepoParams{
		Hostel:   params.Hostel,
		Assignee: params.Assignee,
		Limit:    params.Limit,
		Offset:   params.Offset,
	}
	if repoParams.Limit <= 0 || repoParams.Limit > 100 {
		repoParams.Limit = 50
	}

	if params.Status != nil {
		status := domain.ComplaintStatus(*params.Status)
		if !domain.IsValidStatus(status) {
			return nil, apperrors.ErrInvalidStatus
		}
		repoParams.Status = &status
	}

	return s.complaintRepo.ListPaginated(ctx, repoParams)
}
