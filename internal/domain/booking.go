package domain

import "time"

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCancelled BookingStatus = "cancelled"
)

type Booking struct {
	ID            string
	TripID        string
	UserID        string
	PassengerName string
	HasBicycle    bool
	HasDog        bool
	Status        BookingStatus
	ExpiresAt     time.Time
	CreatedAt     time.Time
}

// Expired reports whether the payment hold has lapsed. Expiry is checked
// lazily at payment time; no background process sweeps pending bookings.
func (b *Booking) Expired(now time.Time) bool {
	return b.ExpiresAt.Before(now)
}

// BookingDetails is a booking with its trip and endpoint stations resolved.
type BookingDetails struct {
	Booking     Booking
	Trip        Trip
	Origin      Station
	Destination Station
}
