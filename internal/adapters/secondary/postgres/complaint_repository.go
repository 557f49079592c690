package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hosteldesk/complaints-backend/internal/core/domain"
	apperrors "github.com/hosteldesk/complaints-backend/internal/core/errors"
	"github.com/hosteldesk/complaints-backend/internal/core/ports"
)

// ComplaintRepository is the secondary adapter for complaint persistence.
type ComplaintRepository struct {
	pool *pgxpool.Pool
}

var _ ports.ComplaintRepository = (*ComplaintRepository)(nil)

// NewComplaintRepository creates a new complaint repository.
func NewComplaintRepository(pool *pgxpool.Pool) ports.ComplaintRepository {
	return &ComplaintRepository{pool: pool}
}

const complaintColumns = `id, hostel, wing, room_number, category, severity, description, status, reporter_id, assignee_id, created_at, updated_at`

func scanComplaint(row pgx.Row) (*domain.Complaint, error) {
	var (
		c          domain.Complaint
		assigneeID pgtype.UUID
		updatedAt  pgtype.Timestamptz
	)

	err := row.Scan(
		&c.ID, &c.Hostel, &c.Wing, &c.RoomNumber,
		&c.Category, &c.Severity, &c.Description, &c.Status,
		&c.ReporterID, &assigneeID, &c.CreatedAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}

	if assigneeID.Valid {
		id := uuid.UUID(assigneeID.Bytes)
		c.AssigneeID = &id
	}
	if updatedAt.Valid {
		c.UpdatedAt = &updatedAt.Time
	}

	return &c, nil
}

// Create persists a new complaint entity.
func (r *ComplaintRepository) Create(ctx context.Context, complaint *domain.Complaint) (*domain.Complaint, error) {
	query := `
		INSERT INTO complaints (hostel, wing, room_number, category, severity, description, status, reporter_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING ` + complaintColumns

	row := r.pool.QueryRow(ctx, query,
		complaint.Hostel, complaint.Wing, complaint.RoomNumber,
		string(complaint.Category), string(complaint.Severity),
		complaint.Description, string(complaint.Status),
		complaint.ReporterID, complaint.CreatedAt,
	)

	created, err := scanComplaint(row)
	if err != nil {
		return nil, fmt.Errorf("create complaint: %w", err)
	}
	return created, nil
}

// GetByID retrieves a single complaint by its ID.
func (r *ComplaintRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Complaint, error) {
	query := `SELECT ` + complaintColumns + ` FROM complaints WHERE id = $1`

	complaint, err := scanComplaint(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrComplaintNotFound
		}
		return nil, fmt.Errorf("get complaint: %w", err)
	}
	return complaint, nil
}

// Update persists changes to an existing complaint entity.
func (r *ComplaintRepository) Update(ctx context.Context, complaint *domain.Complaint) (*domain.Complaint, error) {
	query := `
		UPDATE complaints
		SET status = $2, assignee_id = $3, updated_at = $4
		WHERE id = $1
		RETURNING ` + complaintColumns

	assigneeID := pgtype.UUID{}
	if complaint.AssigneeID != nil {
		assigneeID = pgtype.UUID{Bytes: *complaint.AssigneeID, Valid: true}
	}
	updatedAt := pgtype.Timestamptz{}
	if complaint.UpdatedAt != nil {
		updatedAt = pgtype.Timestamptz{Time: *complaint.UpdatedAt, Valid: true}
	}

	updated, err := scanComplaint(r.pool.QueryRow(ctx, query,
		complaint.ID, string(complaint.Status), assigneeID, updatedAt,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrComplaintNotFound
		}
		return nil, fmt.Errorf("update complaint: %w", err)
	}
	return updated, nil
}

// ListPaginated lists complaints matching the given filters, newest first.
func (r *ComplaintRepository) ListPaginated(ctx context.Context, params ports.ListComplaintsRepoParams) ([]*domain.Complaint, error) {
	var (
		conditions []string
		args       []any
	)

	addCondition := func(clause string, value any) {
		args = append(args, value)
		conditions = append(conditions, fmt.Sprintf(clause, len(args)))
	}

	if params.Hostel != nil {
		addCondition("hostel = $%d", *params.Hostel)
	}
	if params.Status != nil {
		addCondition("status = $%d", string(*params.Status))
	}
	if params.Assignee != nil {
		addCondition("assignee_id = $%d", *params.Assignee)
	}

	query := `SELECT ` + complaintColumns + ` FROM complaints`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}

	args = append(args, params.Limit)
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d", len(args))
	args = append(args, params.Offset)
	query += fmt.Sprintf(" OFFSET $%d", len(args))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list complaints: %w", err)
	}
	defer rows.Close()

	var complaints []*domain.Complaint
	for rows.Next() {
		complaint, err := scanComplaint(rows)
		if err != nil {
			return nil, fmt.Errorf("scan complaint: %w", err)
		}
		complaints = append(complaints, complaint)
	}
	return complaints, rows.Err()
}
