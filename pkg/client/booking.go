package client

import (
	"context"
	"sync"
)

// BookingWorkflow holds the class list and the member's bookings the way
// the classes and my-bookings pages show them.
type BookingWorkflow struct {
	client *Client

	mu      sync.RWMutex
	classes []Class
	mine    []Booking
}

func NewBookingWorkflow(c *Client) *BookingWorkflow {
	return &BookingWorkflow{client: c}
}

// Load fetches classes and the member's bookings.
func (w *BookingWorkflow) Load(ctx context.Context) error {
	classes, err := w.client.Classes(ctx)
	if err != nil {
		return err
	}
	mine, err := w.client.MyBookings(ctx)
	if err != nil {
		return err
	}
	w.mu.Lock()
	w.classes, w.mine = classes, mine
	w.mu.Unlock()
	return nil
}

func (w *BookingWorkflow) Classes() []Class {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return append([]Class(nil), w.classes...)
}

func (w *BookingWorkflow) MyBookings() []Booking {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return append([]Booking(nil), w.mine...)
}

// CanInitiateBooking is false for full classes and for users who cannot
// book at all.
func (w *BookingWorkflow) CanInitiateBooking(c Class) bool {
	return c.AvailableSlots > 0 && w.client.Session().Capabilities().CanBookClasses
}

// Book asks confirm first and then creates the booking. Full classes and
// declined confirmations never reach the server. A missing membership comes
// back as an error matching ErrMembershipRequired. On success the booking
// list is re-fetched.
func (w *BookingWorkflow) Book(ctx context.Context, classID int, confirm func(Class) bool) (*Booking, error) {
	class, ok := w.class(classID)
	if !ok {
		return nil, ErrClassNotLoaded
	}
	if class.AvailableSlots <= 0 {
		return nil, ErrClassFull
	}
	if confirm != nil && !confirm(class) {
		return nil, ErrBookingDeclined
	}

	b, err := w.client.CreateBooking(ctx, classID)
	if err != nil {
		return nil, err
	}

	mine, err := w.client.MyBookings(ctx)
	if err != nil {
		return b, err
	}
	w.mu.Lock()
	w.mine = mine
	for i := range w.classes {
		if w.classes[i].ID == classID && w.classes[i].AvailableSlots > 0 {
			w.classes[i].AvailableSlots--
			w.classes[i].BookedCount++
		}
	}
	w.mu.Unlock()
	return b, nil
}

// Cancel cancels on the server and then drops the booking from the local
// list without re-fetching.
func (w *BookingWorkflow) Cancel(ctx context.Context, bookingID int) error {
	if err := w.client.CancelBooking(ctx, bookingID); err != nil {
		return err
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	for i, b := range w.mine {
		if b.ID == bookingID {
			w.mine = append(w.mine[:i:i], w.mine[i+1:]...)
			break
		}
	}
	return nil
}

func (w *BookingWorkflow) class(id int) (Class, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	for _, c := range w.classes {
		if c.ID == id {
			return c, true
		}
	}
	return Class{}, false
}
