package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/hosteldesk/complaints-backend/internal/core/domain"
	"github.com/hosteldesk/complaints-backend/internal/core/ports"
)

// MockComplaintRepository is a mock implementation of ports.ComplaintRepository
type MockComplaintRepository struct {
	mock.Mock
}

func NewMockComplaintRepository() *MockComplaintRepository {
	return &MockComplaintRepository{}
}

func (m *MockComplaintRepository) Create(ctx context.Context, complaint *domain.Complaint) (*domain.Complaint, error) {
	args := m.Called(ctx, complaint)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Complaint), args.Error(1)
}

func (m *MockComplaintRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Complaint, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Complaint), args.Error(1)
}

func (m *MockComplaintRepository) Update(ctx context.Context, complaint *domain.Complaint) (*domain.Complaint, error) {
	args := m.Called(ctx, complaint)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Complaint), args.Error(1)
}

func (m *MockComplaintRepository) ListPaginated(ctx context.Context, params ports.ListComplaintsRepoParams) ([]*domain.Complaint, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Complaint), args.Error(1)
}

// MockUserRepository is a mock implementation of ports.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{}
}

func (m *MockUserRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	args := m.Called(ctx, user)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

// MockEventBroadcaster is a mock implementation of ports.EventBroadcaster
type MockEventBroadcaster struct {
	mock.Mock
}

func NewMockEventBroadcaster() *MockEventBroadcaster {
	return &MockEventBroadcaster{}
}

func (m *MockEventBroadcaster) Broadcast(event domain.Event) (ports.BroadcastResult, error) {
	args := m.Called(event)
	return args.Get(0).(ports.BroadcastResult), args.Error(1)
}

// MockAlertNotifier is a mock implementation of ports.AlertNotifier
type MockAlertNotifier struct {
	mock.Mock
}

func NewMockAlertNotifier() *MockAlertNotifier {
	return &MockAlertNotifier{}
}

func (m *MockAlertNotifier) Notify(ctx context.Context, event domain.Event) ports.NotifyResult {
	args := m.Called(ctx, event)
	return args.Get(0).(ports.NotifyResult)
}

// MockEventDispatcher is a mock implementation of ports.EventDispatcher
type MockEventDispatcher struct {
	mock.Mock
}

func NewMockEventDispatcher() *MockEventDispatcher {
	return &MockEventDispatcher{}
}

func (m *MockEventDispatcher) OnComplaintEvent(ctx context.Context, event domain.Event) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

// MockAlertSender is a mock implementation of ports.AlertSender
type MockAlertSender struct {
	mock.Mock
}

func NewMockAlertSender() *MockAlertSender {
	return &MockAlertSender{}
}

func (m *MockAlertSender) Send(ctx context.Context, recipient, text string) error {
	args := m.Called(ctx, recipient, text)
	return args.Error(0)
}

// MockComplaintService is a mock implementation of ports.ComplaintService
type MockComplaintService struct {
	mock.Mock
}

func NewMockComplaintService() *MockComplaintService {
	return &MockComplaintService{}
}

func (m *MockComplaintService) CreateComplaint(ctx context.Context, params ports.CreateComplaintParams) (*domain.Complaint, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Complaint), args.Error(1)
}

func (m *MockComplaintService) GetComplaint(ctx context.Context, complaintID uuid.UUID) (*domain.Complaint, error) {
	args := m.Called(ctx, complaintID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Complaint), args.Error(1)
}

func (m *MockComplaintService) UpdateStatus(ctx context.Context, params ports.UpdateStatusParams) (*domain.Complaint, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Complaint), args.Error(1)
}

func (m *MockComplaintService) AssignComplaint(ctx context.Context, params ports.AssignComplaintParams) (*domain.Complaint, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Complaint), args.Error(1)
}

func (m *MockComplaintService) ListComplaints(ctx context.Context, params ports.ListComplaintsParams) ([]*domain.Complaint, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Complaint), args.Error(1)
}

// MockAuthService is a mock implementation of ports.AuthService
type MockAuthService struct {
	mock.Mock
}

func NewMockAuthService() *MockAuthService {
	return &MockAuthService{}
}

func (m *MockAuthService) Register(ctx context.Context, params domain.UserRegistrationParams) (*domain.User, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockAuthService) Login(ctx context.Context, email, password string) (*domain.User, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
