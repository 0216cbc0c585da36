package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/uniride/uniride/internal/pkg/models"
	"github.com/uniride/uniride/services/presence/usecase"
)

// HTTPHandler exposes the daemon's local control API: tracking counterparties
// and querying the cached proximity view.
type HTTPHandler struct {
	tracker *usecase.Tracker
	finder  *usecase.Finder
}

func NewHTTPHandler(tracker *usecase.Tracker, finder *usecase.Finder) *HTTPHandler {
	return &HTTPHandler{
		tracker: tracker,
		finder:  finder,
	}
}

// RegisterRoutes wires the control endpoints onto the echo instance.
func (h *HTTPHandler) RegisterRoutes(e *echo.Echo) {
	e.POST("/track/:subject_id", h.track)
	e.DELETE("/track/:subject_id", h.untrack)
	e.GET("/nearby", h.nearby)
}

func (h *HTTPHandler) track(c echo.Context) error {
	if err := h.tracker.Track(c.Param("subject_id")); err != nil {
		return echo.NewHTTPError(http.StatusBadGateway, err.Error())
	}
	return c.NoContent(http.StatusAccepted)
}

func (h *HTTPHandler) untrack(c echo.Context) error {
	if err := h.tracker.Untrack(c.Param("subject_id")); err != nil {
		return echo.NewHTTPError(http.StatusBadGateway, err.Error())
	}
	return c.NoContent(http.StatusAccepted)
}

func (h *HTTPHandler) nearby(c echo.Context) error {
	lat, err := strconv.ParseFloat(c.QueryParam("lat"), 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid lat")
	}
	lng, err := strconv.ParseFloat(c.QueryParam("lng"), 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid lng")
	}
	radius := 0.0
	if raw := c.QueryParam("radius_km"); raw != "" {
		radius, err = strconv.ParseFloat(raw, 64)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid radius_km")
		}
	}

	origin := models.Position{Latitude: lat, Longitude: lng}
	results, err := h.finder.NearbyFromCache(c.Request().Context(), origin, radius)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if results == nil {
		results = []models.NearbyResult{}
	}
	return c.JSON(http.StatusOK, results)
}
