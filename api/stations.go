package api

import (
	"net/http"
	"regexp"

	"github.com/gin-gonic/gin"
	"github.com/ovchar/trainbook/internal/domain"
	"github.com/ovchar/trainbook/internal/httpx"
	"github.com/ovchar/trainbook/internal/service/catalog"
	"github.com/sirupsen/logrus"
)

type StationHandler struct {
	service catalog.CatalogUseCase
	log     *logrus.Logger
}

func NewStationHandler(service catalog.CatalogUseCase, log *logrus.Logger) *StationHandler {
	return &StationHandler{service: service, log: log}
}

func (h *StationHandler) Register(router *gin.RouterGroup) {
	router.GET("", h.list)
}

type stationResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Address     string `json:"address"`
	CountryCode string `json:"country_code"`
	Timezone    string `json:"timezone"`
}

type stationListResponse struct {
	Data  []stationResponse `json:"data"`
	Links httpx.Links       `json:"links"`
}

var coordinatesRe = regexp.MustCompile(`^-?\d+\.?\d*,-?\d+\.?\d*$`)

func (h *StationHandler) list(c *gin.Context) {
	page, limit, err := parsePagination(c)
	if err != nil {
		httpx.BadRequest(c, err.Error())
		return
	}

	country := c.Query("country")
	if country != "" && len(country) != 2 {
		httpx.BadRequest(c, "country must be a 2-letter code")
		return
	}

	coordinates := c.Query("coordinates")
	if coordinates != "" && !coordinatesRe.MatchString(coordinates) {
		httpx.BadRequest(c, "coordinates must be lat,lng")
		return
	}

	result, err := h.service.ListStations(c.Request.Context(), catalog.StationQuery{
		Search:      c.Query("search"),
		Country:     country,
		Coordinates: coordinates,
		Page:        page,
		Limit:       limit,
	})
	if err != nil {
		handleError(c, h.log, err)
		return
	}

	data := make([]stationResponse, 0, len(result.Items))
	for _, s := range result.Items {
		data = append(data, toStationResponse(s))
	}

	c.JSON(http.StatusOK, stationListResponse{
		Data:  data,
		Links: httpx.PageLinks(httpx.BaseURL(c.Request), page, limit, result.Total),
	})
}

func toStationResponse(s domain.Station) stationResponse {
	return stationResponse{
		ID:          s.ID,
		Name:        s.Name,
		Address:     s.Address,
		CountryCode: s.CountryCode,
		Timezone:    s.Timezone,
	}
}
