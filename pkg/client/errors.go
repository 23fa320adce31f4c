package client

import (
	"errors"
	"fmt"
)

// MembershipPage is where the server sends members who cannot book.
const MembershipPage = "/membership"

var (
	// ErrUnauthenticated means the token is missing or expired. The UI
	// should send the user to the login page.
	ErrUnauthenticated = errors.New("not logged in")

	// ErrMembershipRequired matches any *RedirectError pointing at the
	// membership plans page.
	ErrMembershipRequired = errors.New("active membership required")

	ErrClassFull          = errors.New("class is fully booked")
	ErrClassNotLoaded     = errors.New("class not in the loaded list")
	ErrBookingDeclined    = errors.New("booking not confirmed")
	ErrReasonRequired     = errors.New("rejection reason is required")
	ErrSimulationDisabled = errors.New("payment simulation is disabled")
	ErrMethodRequired     = errors.New("select a payment method")
	ErrOptionRequired     = errors.New("select a provider for this payment method")
	ErrWrongStep          = errors.New("payment flow is not at this step")
)

// APIError is a non-2xx response that carries no redirect hint.
type APIError struct {
	StatusCode int
	Message    string
	Code       string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("request failed with status %d", e.StatusCode)
	}
	return e.Message
}

// RedirectError is a 403 the server annotated with where the user should go.
type RedirectError struct {
	StatusCode int
	Code       string
	Message    string
	Target     string
}

func (e *RedirectError) Error() string {
	return e.Message
}

func (e *RedirectError) Is(target error) bool {
	return target == ErrMembershipRequired && e.Target == MembershipPage
}

// StatusCode extracts the HTTP status from an error returned by Client,
// or 0 when err did not come from a response.
func StatusCode(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	var redirect *RedirectError
	if errors.As(err, &redirect) {
		return redirect.StatusCode
	}
	if errors.Is(err, ErrUnauthenticated) {
		return 401
	}
	return 0
}
