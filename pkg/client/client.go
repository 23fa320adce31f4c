// Package client is a Go SDK for the FitZone API. It carries the workflow
// rules the web client applies before and after calling the server.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

type envelope struct {
	Status   string          `json:"status"`
	Data     json.RawMessage `json:"data"`
	Message  string          `json:"message"`
	Count    *int            `json:"count"`
	Code     string          `json:"code"`
	Redirect string          `json:"redirect"`
}

type Client struct {
	baseURL string
	http    *http.Client
	session *Session
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// New builds a client for baseURL (for example http://localhost:8080/api).
// Every request carries the session's token.
func New(baseURL string, session *Session, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 15 * time.Second},
		session: session,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) Session() *Session { return c.session }

func (c *Client) do(ctx context.Context, method, path string, in, out interface{}) error {
	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	token := c.session.Token()
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil && err != io.EOF {
		if resp.StatusCode >= 300 {
			return &APIError{StatusCode: resp.StatusCode}
		}
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		if token != "" {
			_ = c.session.Logout()
		}
		return ErrUnauthenticated
	case resp.StatusCode >= 300 && env.Redirect != "":
		return &RedirectError{StatusCode: resp.StatusCode, Code: env.Code, Message: env.Message, Target: env.Redirect}
	case resp.StatusCode >= 300:
		return &APIError{StatusCode: resp.StatusCode, Message: env.Message, Code: env.Code}
	}

	if out == nil || len(env.Data) == 0 || string(env.Data) == "null" {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}

func withQuery(path string, q url.Values) string {
	if enc := q.Encode(); enc != "" {
		return path + "?" + enc
	}
	return path
}

func (c *Client) startSession(res authResult) (*User, error) {
	if err := c.session.Set(SessionData{Token: res.AccessToken, RefreshToken: res.RefreshToken, User: res.User}); err != nil {
		return nil, err
	}
	return res.User, nil
}

func (c *Client) Login(ctx context.Context, email, password string) (*User, error) {
	var res authResult
	if err := c.do(ctx, http.MethodPost, "/auth/login", map[string]string{"email": email, "password": password}, &res); err != nil {
		return nil, err
	}
	return c.startSession(res)
}

// Register creates an account and logs it in. Password confirmation is
// checked locally before anything is sent.
func (c *Client) Register(ctx context.Context, req RegisterRequest) (*User, error) {
	if req.ConfirmPassword != "" && req.ConfirmPassword != req.Password {
		return nil, &APIError{StatusCode: http.StatusBadRequest, Message: "passwords do not match"}
	}
	if len(req.Password) < 6 {
		return nil, &APIError{StatusCode: http.StatusBadRequest, Message: "password must be at least 6 characters"}
	}
	var res authResult
	if err := c.do(ctx, http.MethodPost, "/auth/register", req, &res); err != nil {
		return nil, err
	}
	return c.startSession(res)
}

// Logout revokes the token server side and always clears the local session.
func (c *Client) Logout(ctx context.Context) error {
	var err error
	if c.session.LoggedIn() {
		err = c.do(ctx, http.MethodPost, "/auth/logout", nil, nil)
		if err == ErrUnauthenticated {
			err = nil
		}
	}
	if cerr := c.session.Logout(); cerr != nil && err == nil {
		err = cerr
	}
	return err
}

// Me re-reads the user from the server and refreshes the cached copy.
func (c *Client) Me(ctx context.Context) (*User, error) {
	var res struct {
		User *User `json:"user"`
	}
	if err := c.do(ctx, http.MethodGet, "/auth/me", nil, &res); err != nil {
		return nil, err
	}
	if err := c.session.UpdateUser(res.User); err != nil {
		return nil, err
	}
	return res.User, nil
}

func (c *Client) Classes(ctx context.Context) ([]Class, error) {
	var out []Class
	return out, c.do(ctx, http.MethodGet, "/classes", nil, &out)
}

func (c *Client) Class(ctx context.Context, id int) (*Class, error) {
	var out Class
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/classes/%d", id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) MyBookings(ctx context.Context) ([]Booking, error) {
	var out []Booking
	return out, c.do(ctx, http.MethodGet, "/bookings/my", nil, &out)
}

func (c *Client) AllBookings(ctx context.Context) ([]Booking, error) {
	var out []Booking
	return out, c.do(ctx, http.MethodGet, "/bookings", nil, &out)
}

func (c *Client) CreateBooking(ctx context.Context, classID int) (*Booking, error) {
	var out Booking
	if err := c.do(ctx, http.MethodPost, "/bookings", map[string]int{"class_id": classID}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CancelBooking(ctx context.Context, id int) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/bookings/%d", id), nil, nil)
}

func (c *Client) Plans(ctx context.Context) ([]Plan, error) {
	var out []Plan
	return out, c.do(ctx, http.MethodGet, "/membership/plans", nil, &out)
}

func (c *Client) MyMembership(ctx context.Context) (*MembershipView, error) {
	var out MembershipView
	if err := c.do(ctx, http.MethodGet, "/membership/my", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) PaymentMethods(ctx context.Context) ([]PaymentMethod, error) {
	var out []PaymentMethod
	return out, c.do(ctx, http.MethodGet, "/payment/methods", nil, &out)
}

func (c *Client) CreatePayment(ctx context.Context, planID int, method, detail string) (*Checkout, error) {
	in := map[string]interface{}{"plan_id": planID, "payment_method": method, "payment_detail": detail}
	var out Checkout
	if err := c.do(ctx, http.MethodPost, "/payment/create", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) PaymentStatus(ctx context.Context, orderID string) (*Payment, error) {
	var out Payment
	if err := c.do(ctx, http.MethodGet, "/payment/"+url.PathEscape(orderID)+"/status", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SimulatePayment forces a pending payment to success or failed. Only
// servers started with simulation enabled expose it.
func (c *Client) SimulatePayment(ctx context.Context, orderID string, success bool) (*Payment, error) {
	action := "failed"
	if success {
		action = "success"
	}
	var out Payment
	if err := c.do(ctx, http.MethodPost, "/payment/"+url.PathEscape(orderID)+"/simulate", map[string]string{"action": action}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) PaymentHistory(ctx context.Context) ([]Payment, error) {
	var out []Payment
	return out, c.do(ctx, http.MethodGet, "/payment/history", nil, &out)
}

// Attendance lists attendance records, optionally for one class (0 = all).
func (c *Client) Attendance(ctx context.Context, classID int) ([]AttendanceRecord, error) {
	q := url.Values{}
	if classID > 0 {
		q.Set("class_id", fmt.Sprint(classID))
	}
	var out []AttendanceRecord
	return out, c.do(ctx, http.MethodGet, withQuery("/attendance", q), nil, &out)
}

func (c *Client) MarkAttendance(ctx context.Context, bookingID int, attended bool) error {
	in := map[string]interface{}{"booking_id": bookingID, "attended": attended}
	return c.do(ctx, http.MethodPost, "/attendance", in, nil)
}

// Users lists accounts, optionally filtered by role ("" = all).
func (c *Client) Users(ctx context.Context, role Role) ([]User, error) {
	q := url.Values{}
	if role != "" {
		q.Set("role", string(role))
	}
	var out []User
	return out, c.do(ctx, http.MethodGet, withQuery("/users", q), nil, &out)
}

func (c *Client) DeleteUser(ctx context.Context, id int) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/users/%d", id), nil, nil)
}

// Trainers lists trainer accounts by approval status ("" = all) with counts.
func (c *Client) Trainers(ctx context.Context, status ApprovalStatus) (*TrainerListing, error) {
	q := url.Values{}
	if status != "" {
		q.Set("status", string(status))
	}
	var out TrainerListing
	if err := c.do(ctx, http.MethodGet, withQuery("/admin/trainers", q), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ApproveTrainer(ctx context.Context, id int) error {
	return c.do(ctx, http.MethodPost, fmt.Sprintf("/admin/trainers/%d/approve", id), nil, nil)
}

func (c *Client) RejectTrainer(ctx context.Context, id int, reason string) error {
	return c.do(ctx, http.MethodPost, fmt.Sprintf("/admin/trainers/%d/reject", id), map[string]string{"reason": reason}, nil)
}
