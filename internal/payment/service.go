package payment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"fitzone/internal/auth"
	"fitzone/internal/email"
	"fitzone/internal/logger"
	"fitzone/internal/membership"
	"fitzone/internal/metrics"
	"fitzone/internal/user"
)

const reportWindow = 30 * 24 * time.Hour

// ActiveMembershipError refuses a purchase while a plan is still running.
type ActiveMembershipError struct {
	Plan  string
	Until time.Time
}

func (e *ActiveMembershipError) Error() string {
	return fmt.Sprintf("active %s membership until %s", e.Plan, e.Until.Format("2006-01-02"))
}

func (e *ActiveMembershipError) Is(target error) bool { return target == ErrActiveMembership }

// StatusError reports the status that blocked an action on a payment.
type StatusError struct {
	Status Status
}

func (e *StatusError) Error() string { return "payment already " + string(e.Status) }

func (e *StatusError) Is(target error) bool { return target == ErrNotPending }

type UserLookup interface {
	FindByID(ctx context.Context, id int) (*user.User, error)
}

type MembershipLookup interface {
	GetByUserID(ctx context.Context, userID int) (*membership.Membership, error)
}

type Options struct {
	Expiry        time.Duration
	CallbackToken string
}

type Service interface {
	Methods() []Method
	Create(ctx context.Context, userID int, req CreateRequest) (*Checkout, error)
	Status(ctx context.Context, actor auth.Actor, orderID string) (*Payment, error)
	Simulate(ctx context.Context, actor auth.Actor, orderID, action string) (*Payment, error)
	Callback(ctx context.Context, token string, req CallbackRequest) (*Payment, error)
	History(ctx context.Context, userID int) ([]Payment, error)
	All(ctx context.Context) ([]Record, error)
	Report(ctx context.Context, f ReportFilter) (*Report, error)
	ExpireStale(ctx context.Context) (int64, error)
}

type service struct {
	repo        Repository
	memberships MembershipLookup
	users       UserLookup
	gateway     Gateway
	notifier    email.Notifier
	opts        Options
	now         func() time.Time
}

func NewService(repo Repository, memberships MembershipLookup, users UserLookup, gateway Gateway, notifier email.Notifier, opts Options) Service {
	if opts.Expiry <= 0 {
		opts.Expiry = 24 * time.Hour
	}
	return &service{
		repo:        repo,
		memberships: memberships,
		users:       users,
		gateway:     gateway,
		notifier:    notifier,
		opts:        opts,
		now:         time.Now,
	}
}

func (s *service) Methods() []Method {
	return Methods()
}

func checkout(p *Payment, plan membership.Plan, existing bool) *Checkout {
	return &Checkout{
		Payment:  p,
		Plan:     plan,
		Subtotal: p.Subtotal,
		AdminFee: p.AdminFee,
		Total:    p.Amount,
		Existing: existing,
	}
}

func resume(pending *Payment) *Checkout {
	p, ok := membership.PlanByID(pending.PlanID)
	if !ok {
		p = membership.Plan{ID: pending.PlanID, Name: pending.PlanName, DurationDays: pending.DurationDays}
	}
	return checkout(pending, p, true)
}

// Create opens a payment for plan. A member with an unexpired pending
// payment gets that payment back instead of a new one.
func (s *service) Create(ctx context.Context, userID int, req CreateRequest) (*Checkout, error) {
	method, ok := MethodByCode(req.PaymentMethod)
	if !ok {
		return nil, ErrInvalidMethod
	}
	detail := req.PaymentDetail
	if method.RequiresDetail() {
		if !method.HasOption(detail) {
			return nil, ErrInvalidDetail
		}
	} else {
		detail = ""
	}

	plan, ok := membership.PlanByID(req.PlanID)
	if !ok {
		return nil, membership.ErrPlanNotFound
	}

	u, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	m, err := s.memberships.GetByUserID(ctx, userID)
	if err != nil && !errors.Is(err, membership.ErrMembershipNotFound) {
		return nil, err
	}
	if m.IsActive(now) {
		return nil, &ActiveMembershipError{Plan: m.PlanName, Until: m.ExpiryDate}
	}

	pending, err := s.repo.FindPending(ctx, userID, now)
	if err != nil {
		return nil, err
	}
	if pending != nil {
		return resume(pending), nil
	}

	p := &Payment{
		OrderID:      NewOrderID(now),
		UserID:       userID,
		PlanID:       plan.ID,
		PlanName:     plan.Name,
		DurationDays: plan.DurationDays,
		Subtotal:     plan.Price,
		AdminFee:     method.AdminFee,
		Amount:       plan.Price + method.AdminFee,
		Method:       method.Code,
		Detail:       detail,
		Status:       StatusPending,
		ExpiredAt:    now.Add(s.opts.Expiry),
	}

	cust := Customer{Name: u.Name, Email: u.Email}
	if u.Phone != nil {
		cust.Phone = *u.Phone
	}
	ch, err := s.gateway.Charge(ctx, ChargeRequest{
		OrderID:   p.OrderID,
		Amount:    p.Amount,
		Method:    p.Method,
		Detail:    p.Detail,
		PlanName:  plan.Name,
		Customer:  cust,
		ExpiresAt: p.ExpiredAt,
	})
	if err != nil {
		return nil, fmt.Errorf("%s charge: %w", s.gateway.Name(), err)
	}
	p.VANumber = nullable(ch.VANumber)
	p.PaymentURL = nullable(ch.PaymentURL)
	p.Instructions = Instructions(ch.Instructions)

	if err := s.repo.Create(ctx, p); err != nil {
		if !errors.Is(err, ErrPendingExists) {
			return nil, err
		}
		// A concurrent request opened the pending payment first.
		logger.Warn("payment create lost to a concurrent request", "order_id", p.OrderID, "user_id", userID)
		pending, ferr := s.repo.FindPending(ctx, userID, now)
		if ferr != nil {
			return nil, ferr
		}
		if pending == nil {
			return nil, err
		}
		return resume(pending), nil
	}

	metrics.RecordPayment(string(StatusPending), p.Method)
	logger.Info("payment created", "order_id", p.OrderID, "user_id", userID, "plan", plan.Name,
		"amount", p.Amount, "gateway", s.gateway.Name())
	return checkout(p, plan, false), nil
}

func (s *service) owned(ctx context.Context, actor auth.Actor, orderID string) (*Payment, error) {
	p, err := s.repo.GetByOrderID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin() && p.UserID != actor.ID {
		return nil, ErrNotOwner
	}
	return p, nil
}

// Status returns the payment, expiring it first if its deadline passed.
func (s *service) Status(ctx context.Context, actor auth.Actor, orderID string) (*Payment, error) {
	p, err := s.owned(ctx, actor, orderID)
	if err != nil {
		return nil, err
	}
	if !p.IsOverdue(s.now()) {
		return p, nil
	}

	expired, err := s.repo.Transition(ctx, orderID, StatusPending, StatusExpired, "")
	if errors.Is(err, ErrInvalidTransition) {
		// Settled or expired concurrently.
		return s.repo.GetByOrderID(ctx, orderID)
	}
	if err != nil {
		return nil, err
	}
	metrics.RecordPaymentsExpired(1)
	metrics.RecordPayment(string(StatusExpired), expired.Method)
	return expired, nil
}

// Simulate settles or fails a pending payment without a gateway.
func (s *service) Simulate(ctx context.Context, actor auth.Actor, orderID, action string) (*Payment, error) {
	p, err := s.owned(ctx, actor, orderID)
	if err != nil {
		return nil, err
	}
	if p.Status != StatusPending {
		return nil, &StatusError{Status: p.Status}
	}
	if p.IsOverdue(s.now()) {
		return s.apply(ctx, p, StatusExpired, "")
	}

	next := StatusFailed
	if action == "success" {
		next = StatusSuccess
	}
	return s.apply(ctx, p, next, NewTransactionID())
}

// Callback applies a gateway notification.
func (s *service) Callback(ctx context.Context, token string, req CallbackRequest) (*Payment, error) {
	if s.opts.CallbackToken != "" && token != s.opts.CallbackToken {
		return nil, ErrBadCallbackToken
	}
	next, ok := FromGateway(req.TransactionStatus)
	if !ok {
		return nil, ErrUnknownStatus
	}

	p, err := s.repo.GetByOrderID(ctx, req.OrderID)
	if err != nil {
		return nil, err
	}
	if p.Status == next {
		return p, nil
	}
	if !p.Status.CanTransitionTo(next) {
		return nil, ErrInvalidTransition
	}
	return s.apply(ctx, p, next, req.TransactionID)
}

func planFor(p *Payment) membership.Plan {
	plan, ok := membership.PlanByID(p.PlanID)
	if !ok {
		plan = membership.Plan{ID: p.PlanID, Name: p.PlanName}
	}
	plan.DurationDays = p.DurationDays
	return plan
}

func (s *service) apply(ctx context.Context, p *Payment, next Status, transactionID string) (*Payment, error) {
	if next != StatusSuccess {
		updated, err := s.repo.Transition(ctx, p.OrderID, p.Status, next, transactionID)
		if err != nil {
			return nil, err
		}
		metrics.RecordPayment(string(next), updated.Method)
		if next == StatusExpired {
			metrics.RecordPaymentsExpired(1)
		}
		logger.Info("payment status changed", "order_id", p.OrderID, "from", p.Status, "to", next)
		return updated, nil
	}

	plan := planFor(p)
	updated, m, err := s.repo.Settle(ctx, p.OrderID, p.Status, transactionID, plan, s.now())
	if err != nil {
		return nil, err
	}
	metrics.RecordPayment(string(StatusSuccess), updated.Method)
	metrics.RecordMembershipActivation(plan.Name, "payment")
	logger.Info("payment settled", "order_id", updated.OrderID, "user_id", updated.UserID,
		"plan", plan.Name, "expiry", m.ExpiryDate)

	if s.notifier != nil {
		u, err := s.users.FindByID(ctx, updated.UserID)
		if err != nil {
			logger.WithError(err).Warn("payment settled for unknown user", "order_id", updated.OrderID)
			return updated, nil
		}
		if err := s.notifier.SendPaymentSuccess(ctx, u.Email, u.Name, plan.Name, updated.OrderID, updated.Amount, m.ExpiryDate); err != nil {
			logger.WithError(err).Warn("failed to queue payment email", "order_id", updated.OrderID)
		}
	}
	return updated, nil
}

func (s *service) History(ctx context.Context, userID int) ([]Payment, error) {
	return s.repo.ListByUser(ctx, userID)
}

func (s *service) All(ctx context.Context) ([]Record, error) {
	return s.repo.List(ctx, ReportFilter{})
}

func (s *service) Report(ctx context.Context, f ReportFilter) (*Report, error) {
	payments, err := s.repo.List(ctx, f)
	if err != nil {
		return nil, err
	}
	daily, err := s.repo.DailyRevenue(ctx, s.now().Add(-reportWindow))
	if err != nil {
		return nil, err
	}

	st := Summarize(payments)
	if daily != nil {
		st.DailyRevenue = daily
	}
	if payments == nil {
		payments = []Record{}
	}
	return &Report{Payments: payments, Statistics: st}, nil
}

// ExpireStale bulk-expires pending payments past their deadline.
func (s *service) ExpireStale(ctx context.Context) (int64, error) {
	n, err := s.repo.ExpireStale(ctx, s.now())
	if err != nil {
		return 0, err
	}
	if n > 0 {
		metrics.RecordPaymentsExpired(n)
		logger.Info("expired stale payments", "count", n)
	}
	return n, nil
}
