package integration_test

import (
	"context"
	"testing"
	"time"

	"fitzone/internal/auth"
	"fitzone/internal/trainer"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrainer_ApprovalTransitions(t *testing.T) {
	conn := setupTestDB(t)
	ctx := context.Background()
	now := time.Now()

	admin := createUser(t, conn, "admin@test.com", auth.RoleAdmin, auth.ApprovalApproved)
	rudi := createUser(t, conn, "rudi@test.com", auth.RoleTrainer, auth.ApprovalPending)
	sari := createUser(t, conn, "sari@test.com", auth.RoleTrainer, auth.ApprovalPending)
	createUser(t, conn, "member@test.com", auth.RoleMember, auth.ApprovalApproved)

	repo := trainer.NewRepository(conn)

	counts, err := repo.Counts(ctx)
	require.NoError(t, err)
	assert.Equal(t, trainer.Counts{Pending: 2, Total: 2}, counts)

	approved, err := repo.Decide(ctx, rudi, auth.ApprovalPending, auth.ApprovalApproved, nil, admin, now)
	require.NoError(t, err)
	assert.Equal(t, auth.ApprovalApproved, approved.ApprovalStatus)
	assert.NotNil(t, approved.ApprovedAt)

	reason := "Missing certification"
	rejected, err := repo.Decide(ctx, sari, auth.ApprovalPending, auth.ApprovalRejected, &reason, admin, now)
	require.NoError(t, err)
	assert.Equal(t, reason, *rejected.RejectionReason)
	assert.Nil(t, rejected.ApprovedAt)

	_, err = repo.Decide(ctx, rudi, auth.ApprovalApproved, auth.ApprovalRejected, &reason, admin, now)
	assert.ErrorIs(t, err, trainer.ErrInvalidTransition)

	_, err = repo.Decide(ctx, sari, auth.ApprovalRejected, auth.ApprovalApproved, nil, admin, now)
	assert.NoError(t, err, "rejected trainers can be re-approved")

	pending, err := repo.List(ctx, auth.ApprovalPending)
	require.NoError(t, err)
	assert.Empty(t, pending)

	all, err := repo.List(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
