package integration_test

import (
	"context"
	"testing"
	"time"

	"fitzone/internal/auth"
	"fitzone/internal/membership"
	"fitzone/internal/payment"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPendingPayment(t *testing.T, repo payment.Repository, userID int, plan membership.Plan, now time.Time, ttl time.Duration) *payment.Payment {
	t.Helper()
	va := payment.NewVANumber("bca")
	p := &payment.Payment{
		OrderID:      payment.NewOrderID(now),
		UserID:       userID,
		PlanID:       plan.ID,
		PlanName:     plan.Name,
		DurationDays: plan.DurationDays,
		Subtotal:     plan.Price,
		AdminFee:     payment.BankTransferFee,
		Amount:       plan.Price + payment.BankTransferFee,
		Method:       payment.MethodBankTransfer,
		Detail:       "bca",
		Status:       payment.StatusPending,
		VANumber:     &va,
		Instructions: payment.Instructions{"Transfer to " + va},
		ExpiredAt:    now.Add(ttl),
	}
	require.NoError(t, repo.Create(context.Background(), p))
	return p
}

func TestPayment_SettleActivatesMembership(t *testing.T) {
	conn := setupTestDB(t)
	ctx := context.Background()
	now := time.Now()

	member := createUser(t, conn, "member@test.com", auth.RoleMember, auth.ApprovalApproved)
	vip, _ := membership.PlanByID(3)

	repo := payment.NewRepository(conn)
	p := newPendingPayment(t, repo, member, vip, now, 24*time.Hour)

	pending, err := repo.FindPending(ctx, member, now)
	require.NoError(t, err)
	require.NotNil(t, pending)
	assert.Equal(t, p.OrderID, pending.OrderID)

	paid, m, err := repo.Settle(ctx, p.OrderID, payment.StatusPending, "TXN-1", vip, now)
	require.NoError(t, err)
	assert.Equal(t, payment.StatusSuccess, paid.Status)
	assert.NotNil(t, paid.PaidAt)
	assert.Equal(t, "VIP", m.PlanName)
	assert.True(t, m.IsActive(now))

	_, err = repo.Transition(ctx, p.OrderID, payment.StatusSuccess, payment.StatusFailed, "")
	assert.ErrorIs(t, err, payment.ErrInvalidTransition)

	_, _, err = repo.Settle(ctx, p.OrderID, payment.StatusPending, "TXN-2", vip, now)
	assert.ErrorIs(t, err, payment.ErrInvalidTransition, "second settlement loses the race")

	stored, err := repo.GetByOrderID(ctx, p.OrderID)
	require.NoError(t, err)
	assert.Equal(t, "TXN-1", *stored.TransactionID)
}

func TestPayment_ExpireStale(t *testing.T) {
	conn := setupTestDB(t)
	ctx := context.Background()
	now := time.Now()

	member := createUser(t, conn, "member@test.com", auth.RoleMember, auth.ApprovalApproved)
	other := createUser(t, conn, "other@test.com", auth.RoleMember, auth.ApprovalApproved)
	basic, _ := membership.PlanByID(1)

	repo := payment.NewRepository(conn)
	stale := newPendingPayment(t, repo, member, basic, now.Add(-48*time.Hour), 24*time.Hour)
	fresh := newPendingPayment(t, repo, other, basic, now, 24*time.Hour)

	n, err := repo.ExpireStale(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	got, err := repo.GetByOrderID(ctx, stale.OrderID)
	require.NoError(t, err)
	assert.Equal(t, payment.StatusExpired, got.Status)

	got, err = repo.GetByOrderID(ctx, fresh.OrderID)
	require.NoError(t, err)
	assert.Equal(t, payment.StatusPending, got.Status)

	none, err := repo.FindPending(ctx, member, now)
	require.NoError(t, err)
	assert.Nil(t, none)
}

func TestPayment_Report(t *testing.T) {
	conn := setupTestDB(t)
	ctx := context.Background()
	now := time.Now()

	member := createUser(t, conn, "member@test.com", auth.RoleMember, auth.ApprovalApproved)
	basic, _ := membership.PlanByID(1)

	repo := payment.NewRepository(conn)
	p := newPendingPayment(t, repo, member, basic, now, time.Hour)
	_, _, err := repo.Settle(ctx, p.OrderID, payment.StatusPending, "TXN-1", basic, now)
	require.NoError(t, err)

	records, err := repo.List(ctx, payment.ReportFilter{Status: payment.StatusSuccess, Plan: "basic"})
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "member@test.com", records[0].Member.Email)

	stats := payment.Summarize(records)
	assert.Equal(t, basic.Price+payment.BankTransferFee, stats.SuccessfulAmount)

	daily, err := repo.DailyRevenue(ctx, now.AddDate(0, 0, -30))
	require.NoError(t, err)
	require.Len(t, daily, 1)
	assert.Equal(t, basic.Price+payment.BankTransferFee, daily[0].Total)
}

func TestPayment_OnePendingPerMember(t *testing.T) {
	conn := setupTestDB(t)
	ctx := context.Background()
	now := time.Now()

	member := createUser(t, conn, "member@test.com", auth.RoleMember, auth.ApprovalApproved)
	basic, _ := membership.PlanByID(1)
	vip, _ := membership.PlanByID(3)

	repo := payment.NewRepository(conn)
	overdue := newPendingPayment(t, repo, member, basic, now.Add(-48*time.Hour), 24*time.Hour)
	current := newPendingPayment(t, repo, member, vip, now, 24*time.Hour)

	got, err := repo.GetByOrderID(ctx, overdue.OrderID)
	require.NoError(t, err)
	assert.Equal(t, payment.StatusExpired, got.Status, "overdue payment gives up its slot")

	second := *current
	second.ID = 0
	second.OrderID = payment.NewOrderID(now.Add(time.Second))
	err = repo.Create(ctx, &second)
	assert.ErrorIs(t, err, payment.ErrPendingExists)

	pending, err := repo.FindPending(ctx, member, now)
	require.NoError(t, err)
	require.NotNil(t, pending)
	assert.Equal(t, current.OrderID, pending.OrderID)
}
