package payment

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusTransitions(t *testing.T) {
	assert.True(t, StatusPending.CanTransitionTo(StatusProcessing))
	assert.True(t, StatusPending.CanTransitionTo(StatusSuccess))
	assert.True(t, StatusProcessing.CanTransitionTo(StatusExpired))
	assert.False(t, StatusProcessing.CanTransitionTo(StatusPending))

	for _, terminal := range []Status{StatusSuccess, StatusFailed, StatusExpired} {
		assert.True(t, terminal.IsTerminal(), terminal)
		for _, next := range Statuses {
			assert.False(t, terminal.CanTransitionTo(next), "%s -> %s", terminal, next)
		}
	}
	assert.False(t, StatusPending.IsTerminal())
}

func TestFromGateway(t *testing.T) {
	cases := map[string]Status{
		"capture":    StatusSuccess,
		"settlement": StatusSuccess,
		"success":    StatusSuccess,
		"deny":       StatusFailed,
		"cancel":     StatusFailed,
		"failed":     StatusFailed,
		"expire":     StatusExpired,
		"pending":    StatusProcessing,
	}
	for in, want := range cases {
		got, ok := FromGateway(in)
		assert.True(t, ok, in)
		assert.Equal(t, want, got, in)
	}
	_, ok := FromGateway("refund")
	assert.False(t, ok)
}

func TestMethods(t *testing.T) {
	bank, ok := MethodByCode(MethodBankTransfer)
	require.True(t, ok)
	assert.Equal(t, int64(4000), bank.AdminFee)
	assert.True(t, bank.RequiresDetail())
	assert.True(t, bank.HasOption("mandiri"))
	assert.False(t, bank.HasOption("gopay"))

	qris, ok := MethodByCode(MethodQRIS)
	require.True(t, ok)
	assert.Zero(t, qris.AdminFee)
	assert.False(t, qris.RequiresDetail())

	_, ok = MethodByCode("cash")
	assert.False(t, ok)
}

func TestIDs(t *testing.T) {
	at := time.Date(2026, 10, 19, 9, 30, 5, 0, time.UTC)
	assert.Regexp(t, regexp.MustCompile(`^FZ-20261019093005-[A-Z0-9]{6}$`), NewOrderID(at))

	assert.Regexp(t, `^1234\d{8}$`, NewVANumber("bca"))
	assert.Regexp(t, `^8810\d{8}$`, NewVANumber("bni"))
	assert.Regexp(t, `^0023\d{8}$`, NewVANumber("bri"))
	assert.Regexp(t, `^8900\d{8}$`, NewVANumber("mandiri"))
	assert.Regexp(t, `^9999\d{8}$`, NewVANumber("other"))

	assert.Regexp(t, `^TXN-[0-9A-F]{12}$`, NewTransactionID())
}

func TestInstructionsScan(t *testing.T) {
	var in Instructions
	require.NoError(t, in.Scan([]byte(`["a","b"]`)))
	assert.Equal(t, Instructions{"a", "b"}, in)

	require.NoError(t, in.Scan(nil))
	assert.Empty(t, in)
	assert.Error(t, in.Scan(42))

	v, err := Instructions(nil).Value()
	require.NoError(t, err)
	assert.Equal(t, []byte("[]"), v)
}

func TestSummarize(t *testing.T) {
	rec := func(plan, method string, status Status, amount int64) Record {
		return Record{Payment: Payment{PlanName: plan, Method: method, Status: status, Amount: amount}}
	}
	st := Summarize([]Record{
		rec("Basic", MethodBankTransfer, StatusSuccess, 154000),
		rec("Basic", MethodQRIS, StatusPending, 150000),
		rec("VIP", MethodEWallet, StatusSuccess, 500000),
		rec("VIP", MethodBankTransfer, StatusFailed, 504000),
	})

	assert.Equal(t, 4, st.TotalPayments)
	assert.Equal(t, int64(1308000), st.TotalAmount)
	assert.Equal(t, int64(654000), st.SuccessfulAmount)
	assert.Equal(t, 2, st.StatusCounts[StatusSuccess])
	assert.Equal(t, 0, st.StatusCounts[StatusExpired])
	assert.Equal(t, map[string]int{"Basic": 2, "VIP": 2}, st.PlanCounts)
	assert.Equal(t, map[string]int64{"Basic": 154000, "VIP": 500000}, st.PlanRevenue)
	assert.Equal(t, 2, st.MethodCounts[MethodBankTransfer])
	assert.NotNil(t, st.DailyRevenue)
}

func TestSimulatedGateway(t *testing.T) {
	expires := time.Date(2026, 10, 20, 9, 0, 0, 0, time.UTC)

	ch, err := SimulatedGateway{}.Charge(context.Background(), ChargeRequest{OrderID: "FZ-1", Amount: 154000, Method: MethodBankTransfer, Detail: "bca", ExpiresAt: expires})
	require.NoError(t, err)
	assert.Regexp(t, `^1234\d{8}$`, ch.VANumber)
	require.Len(t, ch.Instructions, 4)
	assert.Contains(t, ch.Instructions[0], "BCA")
	assert.Contains(t, ch.Instructions[1], "Rp 154.000")

	ch, err = SimulatedGateway{}.Charge(context.Background(), ChargeRequest{OrderID: "FZ-2", Amount: 150000, Method: MethodQRIS, ExpiresAt: expires})
	require.NoError(t, err)
	assert.Empty(t, ch.VANumber)
	assert.Equal(t, "data:image/png;base64,QRIS_PLACEHOLDER_FZ-2", ch.QRCode)
}

func TestNewGateway(t *testing.T) {
	assert.Equal(t, "simulated", NewGateway("", false).Name())
	assert.Equal(t, "midtrans", NewGateway("SB-Mid-server-key", false).Name())
}
