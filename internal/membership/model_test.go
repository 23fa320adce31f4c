package membership

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var today = time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC)

func TestPlans(t *testing.T) {
	plans := Plans()
	require.Len(t, plans, 3)
	assert.Equal(t, int64(150000), plans[0].Price)
	assert.True(t, plans[1].IsPopular)
	assert.Equal(t, Unlimited, plans[2].ClassLimit)

	plans[0].Price = 1
	p, ok := PlanByID(1)
	require.True(t, ok)
	assert.Equal(t, int64(150000), p.Price, "catalog must not be mutable through Plans()")

	_, ok = PlanByID(9)
	assert.False(t, ok)
}

func TestMembership_CheckBookable(t *testing.T) {
	tests := []struct {
		name string
		m    *Membership
		want error
	}{
		{"no membership", nil, ErrMembershipRequired},
		{"expired yesterday", &Membership{PlanID: 1, ClassLimit: 8, ExpiryDate: today.AddDate(0, 0, -1)}, ErrMembershipRequired},
		{"expires today", &Membership{PlanID: 1, ClassLimit: 8, ExpiryDate: today}, nil},
		{"quota used", &Membership{PlanID: 1, ClassLimit: 8, ClassesUsed: 8, ExpiryDate: today.AddDate(0, 0, 5)}, ErrClassLimitReached},
		{"unlimited", &Membership{PlanID: 3, ClassLimit: Unlimited, ClassesUsed: 300, ExpiryDate: today.AddDate(0, 0, 5)}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, tt.m.CheckBookable(today), tt.want)
			if tt.want == nil {
				assert.NoError(t, tt.m.CheckBookable(today))
			}
		})
	}
}

func TestNewView(t *testing.T) {
	v := NewView(nil, today)
	assert.Equal(t, "None", v.Status)
	assert.Nil(t, v.Remaining)

	m := &Membership{PlanID: 2, ClassLimit: 20, ClassesUsed: 5, ExpiryDate: today.AddDate(0, 0, 2)}
	v = NewView(m, today)
	assert.Equal(t, "Active", v.Status)
	require.NotNil(t, v.Plan)
	assert.Equal(t, "Premium", v.Plan.Name)
	require.NotNil(t, v.Remaining)
	assert.Equal(t, 15, *v.Remaining)
	assert.Equal(t, 3, v.DaysLeft)

	m.ExpiryDate = today.AddDate(0, 0, -3)
	v = NewView(m, today)
	assert.Equal(t, "Expired", v.Status)
	assert.Nil(t, v.Remaining)
	assert.Zero(t, v.DaysLeft)
}
