package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	mw "github.com/hosteldesk/complaints-backend/internal/adapters/primary/http/middleware"
	"github.com/hosteldesk/complaints-backend/internal/core/domain"
	apperrors "github.com/hosteldesk/complaints-backend/internal/core/errors"
	"github.com/hosteldesk/complaints-backend/internal/core/ports"
)

// ComplaintHandler handles complaint REST endpoints
type ComplaintHandler struct {
	complaintSvc ports.ComplaintService
	errorHandler *ErrorHandler
	logger       *slog.Logger
}

// NewComplaintHandler creates a new complaint handler
func NewComplaintHandler(complaintSvc ports.ComplaintService, errorHandler *ErrorHandler, logger *slog.Logger) *ComplaintHandler {
	return &ComplaintHandler{
		complaintSvc: complaintSvc,
		errorHandler: errorHandler,
		logger:       logger,
	}
}

// RegisterRoutes registers complaint routes on the given router
func (h *ComplaintHandler) RegisterRoutes(r chi.Router) {
	r.Post("/", h.HandleCreate)
	r.Get("/", h.HandleList)
	r.Get("/{complaintID}", h.HandleGet)
	r.Patch("/{complaintID}/status", h.HandleUpdateStatus)
	r.Patch("/{complaintID}/assign", h.HandleAssign)
}

// CreateComplaintRequest is the request DTO for filing a complaint
type CreateComplaintRequest struct {
	Hostel      string `json:"hostel"`
	Wing        string `json:"wing"`
	RoomNumber  string `json:"roomNumber"`
	Category    string `json:"category"`
	Severity    string `json:"severity"`
	Description string `json:"description"`
}

// UpdateStatusRequest is the request DTO for a status change
type UpdateStatusRequest struct {
	Status string `json:"status"`
}

// AssignRequest is the request DTO for assigning a complaint
type AssignRequest struct {
	AssigneeID string `json:"assigneeId"`
}

// ComplaintResponse is the response DTO for a complaint
type ComplaintResponse struct {
	ID          string  `json:"id"`
	Hostel      string  `json:"hostel"`
	Wing        string  `json:"wing,omitempty"`
	RoomNumber  string  `json:"roomNumber,omitempty"`
	Category    string  `json:"category"`
	Severity    string  `json:"severity"`
	Description string  `json:"description"`
	Status      string  `json:"status"`
	ReporterID  string  `json:"reporterId"`
	AssigneeID  *string `json:"assigneeId"`
	CreatedAt   string  `json:"createdAt"`
	UpdatedAt   *string `json:"updatedAt"`
}

func newComplaintResponse(c *domain.Complaint) ComplaintResponse {
	resp := ComplaintResponse{
		ID:          c.ID.String(),
		Hostel:      c.Hostel,
		Wing:        c.Wing,
		RoomNumber:  c.RoomNumber,
		Category:    string(c.Category),
		Severity:    string(c.Severity),
		Description: c.Description,
		Status:      string(c.Status),
		ReporterID:  c.ReporterID.String(),
		CreatedAt:   c.CreatedAt.UTC().Format(time.RFC3339),
	}
	if c.AssigneeID != nil {
		value := c.AssigneeID.String()
		resp.AssigneeID = &value
	}
	if c.UpdatedAt != nil {
		value := c.UpdatedAt.UTC().Format(time.RFC3339)
		resp.UpdatedAt = &value
	}
	return resp
}

// HandleCreate files a new complaint
func (h *ComplaintHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	claims, ok := mw.ClaimsFromContext(r.Context())
	if !ok {
		h.errorHandler.Handle(w, r, apperrors.ErrUnauthorized)
		return
	}

	var req CreateComplaintRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.errorHandler.Handle(w, r, apperrors.NewBadRequestError(err, "Invalid request body"))
		return
	}

	complaint, err := h.complaintSvc.CreateComplaint(r.Context(), ports.CreateComplaintParams{
		Hostel:      req.Hostel,
		Wing:        req.Wing,
		RoomNumber:  req.RoomNumber,
		Category:    domain.Category(req.Category),
		Severity:    domain.Severity(req.Severity),
		Description: req.Description,
		ReporterID:  claims.UserID,
	})
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	WriteCreated(w, newComplaintResponse(complaint))
}

// HandleList lists complaints
func (h *ComplaintHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	params := ports.ListComplaintsParams{}

	if hostel := r.URL.Query().Get("hostel"); hostel != "" {
		params.Hostel = &hostel
	}
	if status := r.URL.Query().Get("status"); status != "" {
		params.Status = &status
	}
	if assignee := r.URL.Query().Get("assignee"); assignee != "" {
		assigneeID, err := uuid.Parse(assignee)
		if err != nil {
			h.errorHandler.Handle(w, r, apperrors.NewBadRequestError(err, "Invalid assignee filter"))
			return
		}
		params.Assignee = &assigneeID
	}

	complaints, err := h.complaintSvc.ListComplaints(r.Context(), params)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	responses := make([]ComplaintResponse, 0, len(complaints))
	for _, c := range complaints {
		responses = append(responses, newComplaintResponse(c))
	}
	WriteList(w, responses)
}

// HandleGet returns a single complaint
func (h *ComplaintHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	complaintID, err := uuid.Parse(chi.URLParam(r, "complaintID"))
	if err != nil {
		h.errorHandler.Handle(w, r, apperrors.NewBadRequestError(err, "Invalid complaint ID"))
		return
	}

	complaint, err := h.complaintSvc.GetComplaint(r.Context(), complaintID)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	WriteSuccess(w, newComplaintResponse(complaint))
}

// HandleUpdateStatus changes a complaint's status
func (h *ComplaintHandler) HandleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	claims, ok := mw.ClaimsFromContext(r.Context())
	if !ok {
		h.errorHandler.Handle(w, r, apperrors.ErrUnauthorized)
		return
	}

	complaintID, err := uuid.Parse(chi.URLParam(r, "complaintID"))
	if err != nil {
		h.errorHandler.Handle(w, r, apperrors.NewBadRequestError(err, "Invalid complaint ID"))
		return
	}

	var req UpdateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.errorHandler.Handle(w, r, apperrors.NewBadRequestError(err, "Invalid request body"))
		return
	}

	complaint, err := h.complaintSvc.UpdateStatus(r.Context(), ports.UpdateStatusParams{
		ComplaintID: complaintID,
		Status:      domain.ComplaintStatus(req.Status),
		ActorID:     claims.UserID,
		ActorRole:   domain.ConnectionRole(claims.Role),
	})
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	WriteSuccess(w, newComplaintResponse(complaint))
}

// HandleAssign assigns a complaint to a porter
func (h *ComplaintHandler) HandleAssign(w http.ResponseWriter, r *http.Request) {
	claims, ok := mw.ClaimsFromContext(r.Context())
	if !ok {
		h.errorHandler.Handle(w, r, apperrors.ErrUnauthorized)
		return
	}

	complaintID, err := uuid.Parse(chi.URLParam(r, "complaintID"))
	if err != nil {
		h.errorHandler.Handle(w, r, apperrors.NewBadRequestError(err, "Invalid complaint ID"))
		return
	}

	var req AssignRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.errorHandler.Handle(w, r, apperrors.NewBadRequestError(err, "Invalid request body"))
		return
	}

	assigneeID, err := uuid.Parse(req.AssigneeID)
	if err != nil {
		h.errorHandler.Handle(w, r, apperrors.NewBadRequestError(err, "Invalid assignee ID"))
		return
	}

	complaint, err := h.complaintSvc.AssignComplaint(r.Context(), ports.AssignComplaintParams{
		ComplaintID: complaintID,
		AssigneeID:  assigneeID,
		ActorID:     claims.UserID,
		ActorRole:   domain.ConnectionRole(claims.Role),
	})
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	WriteSuccess(w, newComplaintResponse(complaint))
}
