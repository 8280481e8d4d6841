package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ovchar/trainbook/internal/auth"
	"github.com/ovchar/trainbook/internal/domain"
	"github.com/ovchar/trainbook/internal/httpx"
	"github.com/ovchar/trainbook/internal/service/booking"
	"github.com/sirupsen/logrus"
)

type BookingHandler struct {
	service booking.BookingUseCase
	log     *logrus.Logger
}

func NewBookingHandler(service booking.BookingUseCase, log *logrus.Logger) *BookingHandler {
	return &BookingHandler{service: service, log: log}
}

func (h *BookingHandler) Register(router *gin.RouterGroup) {
	router.GET("", h.list)
	router.POST("", auth.RequireWriteScope(), h.create)
	router.GET("/:id", h.get)
	router.DELETE("/:id", auth.RequireWriteScope(), h.cancel)
}

type createBookingRequest struct {
	TripID        string `json:"trip_id" binding:"required,uuid4"`
	PassengerName string `json:"passenger_name" binding:"required"`
	HasBicycle    bool   `json:"has_bicycle"`
	HasDog        bool   `json:"has_dog"`
}

type bookingLinks struct {
	Self string `json:"self"`
}

type bookingResponse struct {
	ID            string        `json:"id"`
	TripID        string        `json:"trip_id"`
	PassengerName string        `json:"passenger_name"`
	HasBicycle    bool          `json:"has_bicycle"`
	HasDog        bool          `json:"has_dog"`
	Status        string        `json:"status"`
	ExpiresAt     string        `json:"expires_at"`
	CreatedAt     string        `json:"created_at"`
	Links         *bookingLinks `json:"links,omitempty"`
}

type stationSummary struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type bookingTripInfo struct {
	ID            string         `json:"id"`
	Origin        stationSummary `json:"origin"`
	Destination   stationSummary `json:"destination"`
	DepartureTime time.Time      `json:"departure_time"`
	ArrivalTime   time.Time      `json:"arrival_time"`
	Operator      string         `json:"operator"`
	Price         float64        `json:"price"`
}

type bookingDetailsResponse struct {
	bookingResponse
	Trip bookingTripInfo `json:"trip"`
}

type bookingListResponse struct {
	Data  []bookingResponse `json:"data"`
	Links httpx.Links       `json:"links"`
}

func (h *BookingHandler) list(c *gin.Context) {
	user := auth.UserFrom(c)

	page, limit, err := parsePagination(c)
	if err != nil {
		httpx.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.List(c.Request.Context(), user.ID, page, limit)
	if err != nil {
		handleError(c, h.log, err)
		return
	}

	data := make([]bookingResponse, 0, len(result.Items))
	for _, b := range result.Items {
		data = append(data, toBookingResponse(b, nil))
	}

	c.JSON(http.StatusOK, bookingListResponse{
		Data:  data,
		Links: httpx.PageLinks(httpx.BaseURL(c.Request), page, limit, result.Total),
	})
}

func (h *BookingHandler) create(c *gin.Context) {
	user := auth.UserFrom(c)

	var req createBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.BadRequest(c, err.Error())
		return
	}

	created, err := h.service.Create(c.Request.Context(), user.ID, booking.CreateBookingInput{
		TripID:        req.TripID,
		PassengerName: req.PassengerName,
		HasBicycle:    req.HasBicycle,
		HasDog:        req.HasDog,
	})
	if err != nil {
		handleError(c, h.log, err)
		return
	}

	links := &bookingLinks{Self: httpx.APIRoot(c.Request) + "/bookings/" + created.ID}
	c.JSON(http.StatusCreated, toBookingResponse(*created, links))
}

func (h *BookingHandler) get(c *gin.Context) {
	user := auth.UserFrom(c)

	id := c.Param("id")
	if !validUUID(id) {
		httpx.BadRequest(c, "Invalid booking ID format")
		return
	}

	details, err := h.service.Get(c.Request.Context(), user.ID, id)
	if err != nil {
		handleError(c, h.log, err)
		return
	}

	links := &bookingLinks{Self: httpx.APIRoot(c.Request) + "/bookings/" + details.Booking.ID}
	c.JSON(http.StatusOK, bookingDetailsResponse{
		bookingResponse: toBookingResponse(details.Booking, links),
		Trip: bookingTripInfo{
			ID:            details.Trip.ID,
			Origin:        stationSummary{ID: details.Origin.ID, Name: details.Origin.Name},
			Destination:   stationSummary{ID: details.Destination.ID, Name: details.Destination.Name},
			DepartureTime: details.Trip.DepartureTime,
			ArrivalTime:   details.Trip.ArrivalTime,
			Operator:      details.Trip.Operator,
			Price:         details.Trip.Price,
		},
	})
}

func (h *BookingHandler) cancel(c *gin.Context) {
	user := auth.UserFrom(c)

	id := c.Param("id")
	if !validUUID(id) {
		httpx.BadRequest(c, "Invalid booking ID format")
		return
	}

	if err := h.service.Cancel(c.Request.Context(), user.ID, id); err != nil {
		handleError(c, h.log, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func toBookingResponse(b domain.Booking, links *bookingLinks) bookingResponse {
	return bookingResponse{
		ID:            b.ID,
		TripID:        b.TripID,
		PassengerName: b.PassengerName,
		HasBicycle:    b.HasBicycle,
		HasDog:        b.HasDog,
		Status:        string(b.Status),
		ExpiresAt:     b.ExpiresAt.Format(time.RFC3339),
		CreatedAt:     b.CreatedAt.Format(time.RFC3339),
		Links:         links,
	}
}
