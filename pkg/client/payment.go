package client

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// Step is where the checkout screen is.
type Step int

const (
	StepSelect Step = iota
	StepProcess
	StepStatus
)

func (s Step) String() string {
	switch s {
	case StepSelect:
		return "select"
	case StepProcess:
		return "process"
	case StepStatus:
		return "status"
	}
	return fmt.Sprintf("Step(%d)", int(s))
}

type Ticker interface {
	C() <-chan time.Time
	Stop()
}

type timeTicker struct{ t *time.Ticker }

func (t timeTicker) C() <-chan time.Time { return t.t.C }
func (t timeTicker) Stop()               { t.t.Stop() }

type PaymentFlowOptions struct {
	// Simulation allows Simulate. Leave it off against production servers.
	Simulation bool
	Now        func() time.Time
	NewTicker  func(time.Duration) Ticker
	// OnTick receives the remaining time after every countdown tick.
	OnTick func(remaining time.Duration)
}

// PaymentFlow walks one plan purchase through select, process and status.
// Expiry is decided by the server: when the local countdown reaches zero
// the flow re-reads the payment exactly once and shows what it says.
type PaymentFlow struct {
	client  *Client
	plan    Plan
	methods []PaymentMethod
	opts    PaymentFlowOptions

	mu        sync.Mutex
	step      Step
	method    *PaymentMethod
	option    string
	payment   *Payment
	remaining time.Duration
	stop      context.CancelFunc
	expired   chan struct{}
	err       error
}

func NewPaymentFlow(c *Client, plan Plan, methods []PaymentMethod, opts PaymentFlowOptions) *PaymentFlow {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.NewTicker == nil {
		opts.NewTicker = func(d time.Duration) Ticker { return timeTicker{time.NewTicker(d)} }
	}
	return &PaymentFlow{
		client:  c,
		plan:    plan,
		methods: methods,
		opts:    opts,
		expired: make(chan struct{}),
	}
}

func (f *PaymentFlow) Step() Step {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.step
}

// Select picks a method and, for methods with providers, the provider.
func (f *PaymentFlow) Select(code, option string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.step != StepSelect {
		return ErrWrongStep
	}

	for i := range f.methods {
		m := &f.methods[i]
		if m.Code != code {
			continue
		}
		if len(m.Options) == 0 {
			f.method, f.option = m, ""
			return nil
		}
		for _, o := range m.Options {
			if o.Code == option {
				f.method, f.option = m, option
				return nil
			}
		}
		return ErrOptionRequired
	}
	return ErrMethodRequired
}

// Total is the plan price plus the selected method's admin fee. Once a
// payment exists it is the amount that payment charges.
func (f *PaymentFlow) Total() int64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.payment != nil {
		return f.payment.Amount
	}
	total := f.plan.Price
	if f.method != nil {
		total += f.method.AdminFee
	}
	return total
}

// Create submits the payment and moves to the process step. The countdown
// runs until ctx ends, Stop is called or the payment settles.
func (f *PaymentFlow) Create(ctx context.Context) (*Payment, error) {
	f.mu.Lock()
	if f.step != StepSelect {
		f.mu.Unlock()
		return nil, ErrWrongStep
	}
	if f.method == nil {
		f.mu.Unlock()
		return nil, ErrMethodRequired
	}
	code, option := f.method.Code, f.option
	f.mu.Unlock()

	co, err := f.client.CreatePayment(ctx, f.plan.ID, code, option)
	if err != nil {
		return nil, err
	}
	p := co.Payment

	f.mu.Lock()
	// The server hands back a still-pending payment instead of opening a
	// second one, and it may be for another plan.
	if co.Existing && co.Plan.ID != 0 {
		f.plan = co.Plan
	}
	f.payment = p
	f.step = StepProcess
	f.remaining = f.remainingAt(f.opts.Now())
	f.mu.Unlock()

	if p.Status.IsTerminal() {
		f.apply(p)
		return p, nil
	}

	cctx, cancel := context.WithCancel(ctx)
	f.mu.Lock()
	f.stop = cancel
	f.mu.Unlock()
	go f.countdown(cctx, p.OrderID, f.opts.NewTicker(time.Second))

	return p, nil
}

// Plan is the plan being paid for.
func (f *PaymentFlow) Plan() Plan {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.plan
}

func (f *PaymentFlow) Payment() *Payment {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.payment == nil {
		return nil
	}
	p := *f.payment
	return &p
}

func (f *PaymentFlow) Remaining() time.Duration {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.remaining
}

// Expired is closed once the countdown has hit zero and the status has
// been re-read. Err reports whether that read failed.
func (f *PaymentFlow) Expired() <-chan struct{} {
	return f.expired
}

func (f *PaymentFlow) Err() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.err
}

// Refresh re-reads the payment on demand.
func (f *PaymentFlow) Refresh(ctx context.Context) (*Payment, error) {
	orderID, err := f.orderID()
	if err != nil {
		return nil, err
	}
	p, err := f.client.PaymentStatus(ctx, orderID)
	if err != nil {
		return nil, err
	}
	f.apply(p)
	return p, nil
}

// Simulate asks the server to settle the payment. It is refused locally
// unless the flow was built with simulation enabled.
func (f *PaymentFlow) Simulate(ctx context.Context, success bool) (*Payment, error) {
	if !f.opts.Simulation {
		return nil, ErrSimulationDisabled
	}
	orderID, err := f.orderID()
	if err != nil {
		return nil, err
	}
	p, err := f.client.SimulatePayment(ctx, orderID, success)
	if err != nil {
		return nil, err
	}
	f.apply(p)
	return p, nil
}

// Stop tears the countdown down. Safe to call more than once.
func (f *PaymentFlow) Stop() {
	f.mu.Lock()
	stop := f.stop
	f.stop = nil
	f.mu.Unlock()
	if stop != nil {
		stop()
	}
}

func (f *PaymentFlow) orderID() (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.step == StepSelect || f.payment == nil {
		return "", ErrWrongStep
	}
	return f.payment.OrderID, nil
}

func (f *PaymentFlow) apply(p *Payment) {
	f.mu.Lock()
	f.payment = p
	terminal := p.Status.IsTerminal()
	if terminal {
		f.step = StepStatus
		f.remaining = 0
	}
	f.mu.Unlock()
	if terminal {
		f.Stop()
	}
}

// remainingAt must be called with mu held.
func (f *PaymentFlow) remainingAt(now time.Time) time.Duration {
	if f.payment == nil {
		return 0
	}
	d := f.payment.ExpiredAt.Sub(now)
	if d < 0 {
		return 0
	}
	return d.Truncate(time.Second)
}

func (f *PaymentFlow) countdown(ctx context.Context, orderID string, ticker Ticker) {
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C():
		}

		f.mu.Lock()
		f.remaining = f.remainingAt(f.opts.Now())
		remaining := f.remaining
		f.mu.Unlock()
		if f.opts.OnTick != nil {
			f.opts.OnTick(remaining)
		}
		if remaining > 0 {
			continue
		}

		p, err := f.client.PaymentStatus(ctx, orderID)
		if err == nil {
			f.apply(p)
		}
		f.mu.Lock()
		f.err = err
		f.mu.Unlock()
		close(f.expired)
		return
	}
}
