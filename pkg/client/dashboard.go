package client

import (
	"context"

	"golang.org/x/sync/errgroup"
)

type Dashboard struct {
	Members  []User
	Classes  []Class
	Bookings []Booking
}

// Dashboard fetches members, classes and bookings in parallel. The first
// failure cancels the other requests and is returned.
func (c *Client) Dashboard(ctx context.Context) (*Dashboard, error) {
	var d Dashboard
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() (err error) {
		d.Members, err = c.Users(ctx, RoleMember)
		return err
	})
	g.Go(func() (err error) {
		d.Classes, err = c.Classes(ctx)
		return err
	})
	g.Go(func() (err error) {
		d.Bookings, err = c.AllBookings(ctx)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &d, nil
}
