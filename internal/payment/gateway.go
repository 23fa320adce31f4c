package payment

import (
	"context"
	"fmt"
	"strings"
	"time"

	"fitzone/internal/email"

	"github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/snap"
)

type Customer struct {
	Name  string
	Email string
	Phone string
}

type ChargeRequest struct {
	OrderID   string
	Amount    int64
	Method    string
	Detail    string
	PlanName  string
	Customer  Customer
	ExpiresAt time.Time
}

// Charge is what the gateway hands back for the member to complete payment.
type Charge struct {
	VANumber     string
	PaymentURL   string
	QRCode       string
	Instructions []string
}

// Gateway opens a charge with a payment provider.
type Gateway interface {
	Name() string
	Charge(ctx context.Context, req ChargeRequest) (*Charge, error)
}

func qrPlaceholder(orderID string) string {
	return "data:image/png;base64,QRIS_PLACEHOLDER_" + orderID
}

func deadline(t time.Time) string {
	return t.Format("02 Jan 2006 15:04 MST")
}

// InstructionsFor returns the steps a member follows for method.
func InstructionsFor(method, detail, vaNumber string, amount int64, expiresAt time.Time) []string {
	switch method {
	case MethodBankTransfer:
		return []string{
			fmt.Sprintf("Transfer to %s virtual account %s", strings.ToUpper(detail), vaNumber),
			fmt.Sprintf("Transfer exactly %s", email.FormatRupiah(amount)),
			"Payment is verified automatically within 5 minutes",
			fmt.Sprintf("Complete the transfer within 24 hours, before %s", deadline(expiresAt)),
		}
	case MethodEWallet:
		return []string{
			fmt.Sprintf("Open the %s app", walletName(detail)),
			"Scan the QR code shown on this page",
			fmt.Sprintf("Confirm the payment of %s", email.FormatRupiah(amount)),
			"Payment is verified automatically",
		}
	case MethodQRIS:
		return []string{
			"Open any banking or e-wallet app that supports QRIS",
			"Choose the Scan QR or QRIS menu",
			"Scan the QR code shown on this page",
			fmt.Sprintf("Confirm the payment of %s", email.FormatRupiah(amount)),
		}
	default:
		return []string{
			"Continue to the secure card payment page",
			fmt.Sprintf("Pay %s before %s", email.FormatRupiah(amount), deadline(expiresAt)),
		}
	}
}

func walletName(code string) string {
	m, _ := MethodByCode(MethodEWallet)
	for _, o := range m.Options {
		if o.Code == code {
			return o.Name
		}
	}
	return "e-wallet"
}

// SimulatedGateway issues local virtual account numbers and QR placeholders.
// Settlement happens through the simulate endpoint or a callback.
type SimulatedGateway struct{}

func (SimulatedGateway) Name() string { return "simulated" }

func (SimulatedGateway) Charge(_ context.Context, req ChargeRequest) (*Charge, error) {
	ch := &Charge{}
	switch req.Method {
	case MethodBankTransfer:
		ch.VANumber = NewVANumber(req.Detail)
	case MethodQRIS:
		ch.QRCode = qrPlaceholder(req.OrderID)
	}
	ch.Instructions = InstructionsFor(req.Method, req.Detail, ch.VANumber, req.Amount, req.ExpiresAt)
	return ch, nil
}

// MidtransGateway opens a Snap transaction and returns its redirect URL.
type MidtransGateway struct {
	client snap.Client
}

func NewMidtransGateway(serverKey string, production bool) *MidtransGateway {
	env := midtrans.Sandbox
	if production {
		env = midtrans.Production
	}
	g := &MidtransGateway{}
	g.client.New(serverKey, env)
	return g
}

func (g *MidtransGateway) Name() string { return "midtrans" }

func (g *MidtransGateway) Charge(_ context.Context, req ChargeRequest) (*Charge, error) {
	sr := &snap.Request{
		TransactionDetails: midtrans.TransactionDetails{
			OrderID:  req.OrderID,
			GrossAmt: req.Amount,
		},
		CustomerDetail: &midtrans.CustomerDetails{
			FName: req.Customer.Name,
			Email: req.Customer.Email,
			Phone: req.Customer.Phone,
		},
		Items: &[]midtrans.ItemDetails{
			{
				ID:       req.OrderID,
				Price:    req.Amount,
				Qty:      1,
				Name:     req.PlanName + " membership",
				Category: "membership",
			},
		},
	}
	if req.Method == MethodCreditCard {
		sr.CreditCard = &snap.CreditCardDetails{Secure: true}
	}

	resp, merr := g.client.CreateTransaction(sr)
	if merr != nil {
		return nil, fmt.Errorf("midtrans: %w", merr)
	}
	return &Charge{
		PaymentURL: resp.RedirectURL,
		Instructions: []string{
			"Continue to the payment page to complete your payment",
			fmt.Sprintf("Pay %s before %s", email.FormatRupiah(req.Amount), deadline(req.ExpiresAt)),
		},
	}, nil
}

// NewGateway picks Midtrans when a server key is configured.
func NewGateway(serverKey string, production bool) Gateway {
	if serverKey == "" {
		return SimulatedGateway{}
	}
	return NewMidtransGateway(serverKey, production)
}
