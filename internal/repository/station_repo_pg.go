package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/ovchar/trainbook/internal/domain"
)

type StationFilter struct {
	Search  string
	Country string
}

type StationRepository interface {
	List(ctx context.Context, filter StationFilter, limit, offset int) ([]domain.Station, error)
	Count(ctx context.Context, filter StationFilter) (int, error)
	GetByID(ctx context.Context, id string) (*domain.Station, error)
}

type PGStationRepository struct {
	db *pgxpool.Pool
}

func NewStationRepository(db *pgxpool.Pool) StationRepository {
	return &PGStationRepository{db: db}
}

func stationWhere(filter StationFilter) (string, []any) {
	var conds []string
	var args []any
	if filter.Country != "" {
		args = append(args, filter.Country)
		conds = append(conds, fmt.Sprintf("country_code = $%d", len(args)))
	}
	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		conds = append(conds, fmt.Sprintf("(name ILIKE $%d OR address ILIKE $%d)", len(args), len(args)))
	}
	if len(conds) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func (r *PGStationRepository) List(ctx context.Context, filter StationFilter, limit, offset int) ([]domain.Station, error) {
	where, args := stationWhere(filter)
	args = append(args, limit, offset)
	query := fmt.Sprintf(`SELECT id, name, address, country_code, timezone FROM stations%s ORDER BY name LIMIT $%d OFFSET $%d`, where, len(args)-1, len(args))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	stations := make([]domain.Station, 0)
	for rows.Next() {
		var s domain.Station
		if err := rows.Scan(&s.ID, &s.Name, &s.Address, &s.CountryCode, &s.Timezone); err != nil {
			return nil, err
		}
		stations = append(stations, s)
	}
	return stations, rows.Err()
}

func (r *PGStationRepository) Count(ctx context.Context, filter StationFilter) (int, error) {
	where, args := stationWhere(filter)
	var total int
	if err := r.db.QueryRow(ctx, `SELECT count(*) FROM stations`+where, args...).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}

func (r *PGStationRepository) GetByID(ctx context.Context, id string) (*domain.Station, error) {
	row := r.db.QueryRow(ctx, `SELECT id, name, address, country_code, timezone FROM stations WHERE id=$1`, id)
	var s domain.Station
	if err := row.Scan(&s.ID, &s.Name, &s.Address, &s.CountryCode, &s.Timezone); err != nil {
		return nil, err
	}
	return &s, nil
}

var _ StationRepository = (*PGStationRepository)(nil)
