package client

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrainerApprovals_RejectWithoutReason(t *testing.T) {
	api := newFakeAPI(t)
	ta := NewTrainerApprovals(api.client(t, admin))

	for _, reason := range []string{"", "   \t"} {
		err := ta.Reject(context.Background(), 3, reason)
		assert.ErrorIs(t, err, ErrReasonRequired)
	}
	assert.Zero(t, api.total())
}

func TestTrainerApprovals_TransitionsReload(t *testing.T) {
	api := newFakeAPI(t)
	pending := []Trainer{{ID: 3, Name: "Rudi", ApprovalStatus: ApprovalPending}, {ID: 4, Name: "Sari", ApprovalStatus: ApprovalPending}}
	counts := TrainerCounts{Pending: 2, Total: 2}
	var mu sync.Mutex

	api.handle("GET /api/admin/trainers", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "pending", r.URL.Query().Get("status"))
		mu.Lock()
		defer mu.Unlock()
		ok(w, TrainerListing{Trainers: pending, Counts: counts})
	})
	api.handle("POST /api/admin/trainers/{id}/approve", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "3", r.PathValue("id"))
		mu.Lock()
		defer mu.Unlock()
		pending = pending[1:]
		counts = TrainerCounts{Pending: 1, Approved: 1, Total: 2}
		ok(w, nil)
	})
	api.handle("POST /api/admin/trainers/{id}/reject", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "No certification", body["reason"])
		mu.Lock()
		defer mu.Unlock()
		pending = nil
		counts = TrainerCounts{Approved: 1, Rejected: 1, Total: 2}
		ok(w, nil)
	})

	ta := NewTrainerApprovals(api.client(t, admin))
	require.NoError(t, ta.Reload(context.Background()))
	assert.Len(t, ta.Trainers(), 2)

	require.NoError(t, ta.Approve(context.Background(), 3))
	assert.Len(t, ta.Trainers(), 1)
	assert.Equal(t, 1, ta.Counts().Approved)

	require.NoError(t, ta.Reject(context.Background(), 4, "  No certification "))
	assert.Empty(t, ta.Trainers())
	assert.Equal(t, TrainerCounts{Approved: 1, Rejected: 1, Total: 2}, ta.Counts())
	assert.Equal(t, 3, api.count("GET /api/admin/trainers"))
}

func TestTrainerApprovals_FilterAll(t *testing.T) {
	api := newFakeAPI(t)
	api.handle("GET /api/admin/trainers", func(w http.ResponseWriter, r *http.Request) {
		_, has := r.URL.Query()["status"]
		assert.False(t, has)
		ok(w, TrainerListing{Counts: TrainerCounts{Total: 0}})
	})

	ta := NewTrainerApprovals(api.client(t, admin))
	require.NoError(t, ta.Filter(context.Background(), ""))
	assert.Equal(t, 1, api.count("GET /api/admin/trainers"))
}

func TestTrainerApprovals_FailedApproveDoesNotReload(t *testing.T) {
	api := newFakeAPI(t)
	api.handle("POST /api/admin/trainers/{id}/approve", func(w http.ResponseWriter, r *http.Request) {
		fail(w, http.StatusConflict, "Trainer cannot move to approved from approved")
	})

	ta := NewTrainerApprovals(api.client(t, admin))
	err := ta.Approve(context.Background(), 3)

	assert.Equal(t, http.StatusConflict, StatusCode(err))
	assert.Zero(t, api.count("GET /api/admin/trainers"))
}
