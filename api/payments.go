package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ovchar/trainbook/internal/auth"
	"github.com/ovchar/trainbook/internal/domain"
	"github.com/ovchar/trainbook/internal/httpx"
	"github.com/ovchar/trainbook/internal/service/payment"
	"github.com/sirupsen/logrus"
)

type PaymentHandler struct {
	service payment.PaymentUseCase
	log     *logrus.Logger
}

func NewPaymentHandler(service payment.PaymentUseCase, log *logrus.Logger) *PaymentHandler {
	return &PaymentHandler{service: service, log: log}
}

// Register attaches the payment route to the bookings group.
func (h *PaymentHandler) Register(router *gin.RouterGroup) {
	router.POST("/:id/payment", h.submit)
}

type submitPaymentRequest struct {
	Amount   float64              `json:"amount" binding:"required,gt=0"`
	Currency string               `json:"currency" binding:"required"`
	Source   domain.PaymentSource `json:"source" binding:"required"`
}

type paymentLinks struct {
	Booking string `json:"booking"`
}

type paymentResponse struct {
	ID       string               `json:"id"`
	Amount   float64              `json:"amount"`
	Currency string               `json:"currency"`
	Source   domain.PaymentSource `json:"source"`
	Status   string               `json:"status"`
	Links    paymentLinks         `json:"links"`
}

func (h *PaymentHandler) submit(c *gin.Context) {
	user := auth.UserFrom(c)

	bookingID := c.Param("id")
	if !validUUID(bookingID) {
		httpx.BadRequest(c, "Invalid booking ID format")
		return
	}

	var req submitPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.BadRequest(c, err.Error())
		return
	}
	if !domain.ValidCurrency(req.Currency) {
		httpx.BadRequest(c, "currency is not supported")
		return
	}
	if err := req.Source.Validate(time.Now()); err != nil {
		handleError(c, h.log, err)
		return
	}

	result, err := h.service.Submit(c.Request.Context(), user.ID, bookingID, payment.SubmitPaymentInput{
		Amount:   req.Amount,
		Currency: req.Currency,
		Source:   req.Source,
	})
	if err != nil {
		handleError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, paymentResponse{
		ID:       result.ID,
		Amount:   result.Amount,
		Currency: result.Currency,
		Source:   result.Source,
		Status:   string(result.Status),
		Links:    paymentLinks{Booking: httpx.APIRoot(c.Request) + "/bookings/" + bookingID},
	})
}
