package domain

import "time"

type Trip struct {
	ID              string
	OriginID        string
	DestinationID   string
	DepartureTime   time.Time
	ArrivalTime     time.Time
	Operator        string
	Price           float64
	BicyclesAllowed bool
	DogsAllowed     bool
}
