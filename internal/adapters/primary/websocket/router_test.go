package websocket_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ws "github.com/hosteldesk/complaints-backend/internal/adapters/primary/websocket"
	"github.com/hosteldesk/complaints-backend/internal/core/domain"
	apperrors "github.com/hosteldesk/complaints-backend/internal/core/errors"
)

func newComplaintEvent() domain.Event {
	return domain.NewComplaintEvent("c-1", "north-wing", "plumbing", "high", time.Now())
}

func statusEvent(hostel string) domain.Event {
	return domain.NewStatusUpdateEvent("c-1", hostel, "reported", "in_progress", "admin-1", time.Now())
}

func TestRouter_Broadcast_NewComplaintTargetsAdminsOnly(t *testing.T) {
	registry := ws.NewRegistry(testLogger())
	router := ws.NewRouter(registry, ws.ScopeGlobal, testLogger())

	admin1, admin2 := &fakeSink{}, &fakeSink{}
	porter := &fakeSink{}
	require.NoError(t, registry.Register(adminConn("a-1"), admin1))
	require.NoError(t, registry.Register(adminConn("a-2"), admin2))
	require.NoError(t, registry.Register(porterConn("p-1", "north-wing"), porter))

	result, err := router.Broadcast(newComplaintEvent())

	require.NoError(t, err)
	assert.Equal(t, 2, result.Attempted)
	assert.Equal(t, 2, result.Delivered)
	assert.Equal(t, 0, result.RemovedStale)
	assert.Equal(t, 1, admin1.deliveredCount())
	assert.Equal(t, 1, admin2.deliveredCount())
	assert.Equal(t, 0, porter.deliveredCount())
}

func TestRouter_Broadcast_StatusUpdateIsRoleNeutral(t *testing.T) {
	registry := ws.NewRegistry(testLogger())
	router := ws.NewRouter(registry, ws.ScopeGlobal, testLogger())

	admin := &fakeSink{}
	porter := &fakeSink{}
	require.NoError(t, registry.Register(adminConn("a-1"), admin))
	require.NoError(t, registry.Register(porterConn("p-1", "south-wing"), porter))

	result, err := router.Broadcast(statusEvent("north-wing"))

	require.NoError(t, err)
	assert.Equal(t, 2, result.Delivered)
	assert.Equal(t, 1, admin.deliveredCount())
	// Global policy ignores hostel scope entirely.
	assert.Equal(t, 1, porter.deliveredCount())
}

func TestRouter_Broadcast_HostelPolicyNarrowsUpdates(t *testing.T) {
	registry := ws.NewRegistry(testLogger())
	router := ws.NewRouter(registry, ws.ScopeHostel, testLogger())

	unscoped := &fakeSink{}
	matching := &fakeSink{}
	elsewhere := &fakeSink{}
	require.NoError(t, registry.Register(adminConn("a-1"), unscoped))
	require.NoError(t, registry.Register(porterConn("p-1", "north-wing"), matching))
	require.NoError(t, registry.Register(porterConn("p-2", "south-wing"), elsewhere))

	result, err := router.Broadcast(statusEvent("north-wing"))

	require.NoError(t, err)
	assert.Equal(t, 2, result.Delivered)
	assert.Equal(t, 1, unscoped.deliveredCount())
	assert.Equal(t, 1, matching.deliveredCount())
	assert.Equal(t, 0, elsewhere.deliveredCount())
}

func TestRouter_Broadcast_FailingPeersAreEvicted(t *testing.T) {
	registry := ws.NewRegistry(testLogger())
	router := ws.NewRouter(registry, ws.ScopeGlobal, testLogger())

	healthy1 := &fakeSink{}
	broken := &fakeSink{failWith: errors.New("send buffer full")}
	healthy2 := &fakeSink{}
	require.NoError(t, registry.Register(adminConn("a-1"), healthy1))
	require.NoError(t, registry.Register(adminConn("a-2"), broken))
	require.NoError(t, registry.Register(adminConn("a-3"), healthy2))

	result, err := router.Broadcast(newComplaintEvent())

	require.NoError(t, err)
	assert.Equal(t, 3, result.Attempted)
	assert.Equal(t, 2, result.Delivered)
	assert.Equal(t, 1, result.RemovedStale)

	// The failed peer is gone and its transport closed; survivors stay.
	assert.Equal(t, 2, registry.Size())
	assert.Equal(t, 1, broken.closeCount())

	// A follow-up broadcast no longer attempts the evicted peer.
	result, err = router.Broadcast(newComplaintEvent())
	require.NoError(t, err)
	assert.Equal(t, 2, result.Attempted)
	assert.Equal(t, 2, result.Delivered)
}

func TestRouter_Broadcast_MalformedEventIsFatal(t *testing.T) {
	registry := ws.NewRegistry(testLogger())
	router := ws.NewRouter(registry, ws.ScopeGlobal, testLogger())

	sink := &fakeSink{}
	require.NoError(t, registry.Register(adminConn("a-1"), sink))

	event := domain.Event{Type: "complaint_deleted", Timestamp: time.Now()}
	_, err := router.Broadcast(event)

	assert.ErrorIs(t, err, apperrors.ErrMalformedEvent)
	assert.Equal(t, 0, sink.deliveredCount())
}

func TestRouter_Broadcast_EmptyRegistry(t *testing.T) {
	registry := ws.NewRegistry(testLogger())
	router := ws.NewRouter(registry, ws.ScopeGlobal, testLogger())

	result, err := router.Broadcast(newComplaintEvent())

	require.NoError(t, err)
	assert.Equal(t, 0, result.Attempted)
	assert.Equal(t, 0, result.Delivered)
	assert.Equal(t, 0, result.RemovedStale)
}
