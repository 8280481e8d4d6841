package domain

import "errors"

var (
	ErrTripNotFound    = errors.New("trip not found")
	ErrBookingNotFound = errors.New("booking not found")
	ErrUserNotFound    = errors.New("user not found")
)

var (
	ErrBicyclesNotAllowed = errors.New("bicycles are not allowed on this trip")
	ErrDogsNotAllowed     = errors.New("dogs are not allowed on this trip")
	ErrBookingConfirmed   = errors.New("cannot cancel a confirmed booking")
	ErrBookingExpired     = errors.New("booking has expired")
	ErrAlreadyPaid        = errors.New("booking is already paid")
	ErrAmountMismatch     = errors.New("payment amount must match trip price")
	ErrForbidden          = errors.New("access denied to this booking")
)

var ErrValidation = errors.New("validation error")
