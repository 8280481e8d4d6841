package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/ovchar/trainbook/internal/domain"
	"github.com/ovchar/trainbook/internal/repository"
	"github.com/sirupsen/logrus"
)

type StationQuery struct {
	Search string
	// Country is an exact 2-letter code filter.
	Country string
	// Coordinates is accepted but not used for ordering; distance sort is
	// not implemented and the filter passes through without error.
	Coordinates string
	Page        int
	Limit       int
}

type TripQuery struct {
	Origin      string
	Destination string
	Date        time.Time
	Bicycles    bool
	Dogs        bool
	Page        int
	Limit       int
}

type StationPage struct {
	Items []domain.Station `json:"items"`
	Total int              `json:"total"`
}

type TripPage struct {
	Items []domain.Trip `json:"items"`
	Total int           `json:"total"`
}

type CatalogUseCase interface {
	ListStations(ctx context.Context, q StationQuery) (*StationPage, error)
	SearchTrips(ctx context.Context, q TripQuery) (*TripPage, error)
}

type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, payload []byte) error
}

type CatalogService struct {
	stations repository.StationRepository
	trips    repository.TripRepository
	cache    Cache
	log      *logrus.Logger
}

func NewCatalogService(stations repository.StationRepository, trips repository.TripRepository, cache Cache, log *logrus.Logger) *CatalogService {
	return &CatalogService{stations: stations, trips: trips, cache: cache, log: log}
}

func (s *CatalogService) ListStations(ctx context.Context, q StationQuery) (*StationPage, error) {
	key := fmt.Sprintf("cache:stations:%s|%s|%d|%d", strings.ToLower(q.Search), q.Country, q.Page, q.Limit)
	if page := s.cached(ctx, key); page != nil {
		var cached StationPage
		if err := json.Unmarshal(page, &cached); err == nil {
			return &cached, nil
		}
	}

	filter := repository.StationFilter{Search: q.Search, Country: q.Country}
	offset := (q.Page - 1) * q.Limit

	items, err := s.stations.List(ctx, filter, q.Limit, offset)
	if err != nil {
		return nil, err
	}
	total, err := s.stations.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	page := &StationPage{Items: items, Total: total}
	s.store(ctx, key, page)
	return page, nil
}

func (s *CatalogService) SearchTrips(ctx context.Context, q TripQuery) (*TripPage, error) {
	start, end := DayBounds(q.Date)
	key := fmt.Sprintf("cache:trips:%s|%s|%s|%t|%t|%d|%d", q.Origin, q.Destination, start.Format(time.RFC3339), q.Bicycles, q.Dogs, q.Page, q.Limit)
	if page := s.cached(ctx, key); page != nil {
		var cached TripPage
		if err := json.Unmarshal(page, &cached); err == nil {
			return &cached, nil
		}
	}

	filter := repository.TripFilter{
		OriginID:      q.Origin,
		DestinationID: q.Destination,
		DayStart:      start,
		DayEnd:        end,
		Bicycles:      q.Bicycles,
		Dogs:          q.Dogs,
	}
	offset := (q.Page - 1) * q.Limit

	items, err := s.trips.Search(ctx, filter, q.Limit, offset)
	if err != nil {
		return nil, err
	}
	total, err := s.trips.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	page := &TripPage{Items: items, Total: total}
	s.store(ctx, key, page)
	return page, nil
}

func (s *CatalogService) cached(ctx context.Context, key string) []byte {
	if s.cache == nil {
		return nil
	}
	data, err := s.cache.Get(ctx, key)
	if err != nil {
		s.log.WithError(err).WithField("key", key).Warn("catalog cache read failed")
		return nil
	}
	return data
}

func (s *CatalogService) store(ctx context.Context, key string, page any) {
	if s.cache == nil {
		return
	}
	payload, err := json.Marshal(page)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, key, payload); err != nil {
		s.log.WithError(err).WithField("key", key).Warn("catalog cache write failed")
	}
}

// DayBounds returns the inclusive UTC calendar-day window for the given
// date: 00:00:00.000 through 23:59:59.999.
func DayBounds(date time.Time) (time.Time, time.Time) {
	d := date.UTC()
	start := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
	end := start.Add(24*time.Hour - time.Millisecond)
	return start, end
}

var _ CatalogUseCase = (*CatalogService)(nil)
