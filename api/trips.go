package api

import (
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/ovchar/trainbook/internal/domain"
	"github.com/ovchar/trainbook/internal/httpx"
	"github.com/ovchar/trainbook/internal/service/catalog"
	"github.com/sirupsen/logrus"
)

type TripHandler struct {
	service catalog.CatalogUseCase
	log     *logrus.Logger
}

func NewTripHandler(service catalog.CatalogUseCase, log *logrus.Logger) *TripHandler {
	return &TripHandler{service: service, log: log}
}

func (h *TripHandler) Register(router *gin.RouterGroup) {
	router.GET("", h.list)
}

type tripLinks struct {
	Self        string `json:"self"`
	Origin      string `json:"origin"`
	Destination string `json:"destination"`
}

type tripResponse struct {
	ID              string    `json:"id"`
	Origin          string    `json:"origin"`
	Destination     string    `json:"destination"`
	DepartureTime   time.Time `json:"departure_time"`
	ArrivalTime     time.Time `json:"arrival_time"`
	Operator        string    `json:"operator"`
	Price           float64   `json:"price"`
	BicyclesAllowed bool      `json:"bicycles_allowed"`
	DogsAllowed     bool      `json:"dogs_allowed"`
	Links           tripLinks `json:"links"`
}

type tripListResponse struct {
	Data  []tripResponse `json:"data"`
	Links httpx.Links    `json:"links"`
}

func (h *TripHandler) list(c *gin.Context) {
	page, limit, err := parsePagination(c)
	if err != nil {
		httpx.BadRequest(c, err.Error())
		return
	}

	origin := c.Query("origin")
	destination := c.Query("destination")
	if !validUUID(origin) {
		httpx.BadRequest(c, "origin must be a valid station id")
		return
	}
	if !validUUID(destination) {
		httpx.BadRequest(c, "destination must be a valid station id")
		return
	}

	rawDate := c.Query("date")
	date, err := parseDate(rawDate)
	if err != nil {
		httpx.BadRequest(c, "date must be an ISO date or datetime")
		return
	}

	bicycles, err := parseBoolFlag(c, "bicycles")
	if err != nil {
		httpx.BadRequest(c, err.Error())
		return
	}
	dogs, err := parseBoolFlag(c, "dogs")
	if err != nil {
		httpx.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.SearchTrips(c.Request.Context(), catalog.TripQuery{
		Origin:      origin,
		Destination: destination,
		Date:        date,
		Bicycles:    bicycles,
		Dogs:        dogs,
		Page:        page,
		Limit:       limit,
	})
	if err != nil {
		handleError(c, h.log, err)
		return
	}

	root := httpx.APIRoot(c.Request)
	data := make([]tripResponse, 0, len(result.Items))
	for _, t := range result.Items {
		data = append(data, toTripResponse(t, root))
	}

	query := fmt.Sprintf("origin=%s&destination=%s&date=%s", origin, destination, url.QueryEscape(rawDate))
	links := httpx.PageLinks(httpx.BaseURL(c.Request), page, limit, result.Total).WithQuery(query)

	c.JSON(http.StatusOK, tripListResponse{Data: data, Links: links})
}

func toTripResponse(t domain.Trip, root string) tripResponse {
	return tripResponse{
		ID:              t.ID,
		Origin:          t.OriginID,
		Destination:     t.DestinationID,
		DepartureTime:   t.DepartureTime,
		ArrivalTime:     t.ArrivalTime,
		Operator:        t.Operator,
		Price:           t.Price,
		BicyclesAllowed: t.BicyclesAllowed,
		DogsAllowed:     t.DogsAllowed,
		Links: tripLinks{
			Self:        root + "/trips/" + t.ID,
			Origin:      root + "/stations/" + t.OriginID,
			Destination: root + "/stations/" + t.DestinationID,
		},
	}
}

// parseDate accepts a plain date or a full RFC3339 timestamp; either way the
// search window is the UTC calendar day containing it.
func parseDate(raw string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, fmt.Errorf("date is required")
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", raw)
}

// parseBoolFlag treats absence and false the same: no filter is applied.
func parseBoolFlag(c *gin.Context, name string) (bool, error) {
	raw := c.Query(name)
	switch raw {
	case "", "false":
		return false, nil
	case "true":
		return true, nil
	default:
		return false, fmt.Errorf("%s must be true or false", name)
	}
}

func validUUID(s string) bool {
	if len(s) != 36 {
		return false
	}
	_, err := uuid.Parse(s)
	return err == nil
}
