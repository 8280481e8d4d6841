package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/ovchar/trainbook/internal/domain"
)

type TripFilter struct {
	OriginID      string
	DestinationID string
	DayStart      time.Time
	DayEnd        time.Time
	Bicycles      bool
	Dogs          bool
}

type TripRepository interface {
	Search(ctx context.Context, filter TripFilter, limit, offset int) ([]domain.Trip, error)
	Count(ctx context.Context, filter TripFilter) (int, error)
	GetByID(ctx context.Context, id string) (*domain.Trip, error)
}

type PGTripRepository struct {
	db *pgxpool.Pool
}

func NewTripRepository(db *pgxpool.Pool) TripRepository {
	return &PGTripRepository{db: db}
}

const tripColumns = `id, origin_id, destination_id, departure_time, arrival_time, operator, price, bicycles_allowed, dogs_allowed`

func tripWhere(filter TripFilter) (string, []any) {
	conds := []string{"origin_id = $1", "destination_id = $2", "departure_time >= $3", "departure_time <= $4"}
	args := []any{filter.OriginID, filter.DestinationID, filter.DayStart, filter.DayEnd}
	// true-only filters: false or absent means "no filter", not "must be false"
	if filter.Bicycles {
		conds = append(conds, "bicycles_allowed = true")
	}
	if filter.Dogs {
		conds = append(conds, "dogs_allowed = true")
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func (r *PGTripRepository) Search(ctx context.Context, filter TripFilter, limit, offset int) ([]domain.Trip, error) {
	where, args := tripWhere(filter)
	args = append(args, limit, offset)
	query := fmt.Sprintf(`SELECT %s FROM trips%s ORDER BY departure_time LIMIT $%d OFFSET $%d`, tripColumns, where, len(args)-1, len(args))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	trips := make([]domain.Trip, 0)
	for rows.Next() {
		var t domain.Trip
		if err := rows.Scan(&t.ID, &t.OriginID, &t.DestinationID, &t.DepartureTime, &t.ArrivalTime, &t.Operator, &t.Price, &t.BicyclesAllowed, &t.DogsAllowed); err != nil {
			return nil, err
		}
		trips = append(trips, t)
	}
	return trips, rows.Err()
}

func (r *PGTripRepository) Count(ctx context.Context, filter TripFilter) (int, error) {
	where, args := tripWhere(filter)
	var total int
	if err := r.db.QueryRow(ctx, `SELECT count(*) FROM trips`+where, args...).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}

func (r *PGTripRepository) GetByID(ctx context.Context, id string) (*domain.Trip, error) {
	row := r.db.QueryRow(ctx, `SELECT `+tripColumns+` FROM trips WHERE id=$1`, id)
	var t domain.Trip
	if err := row.Scan(&t.ID, &t.OriginID, &t.DestinationID, &t.DepartureTime, &t.ArrivalTime, &t.Operator, &t.Price, &t.BicyclesAllowed, &t.DogsAllowed); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTripNotFound
		}
		return nil, err
	}
	return &t, nil
}

var _ TripRepository = (*PGTripRepository)(nil)
