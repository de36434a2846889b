package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/paulmach/orb/geojson"

	"github.com/bhaskarBabu123/rsr-cabs-management-sub000/internal/api/middleware"
	"github.com/bhaskarBabu123/rsr-cabs-management-sub000/internal/geo"
	"github.com/bhaskarBabu123/rsr-cabs-management-sub000/internal/model"
	"github.com/bhaskarBabu123/rsr-cabs-management-sub000/internal/service/location"
)

// LocationHandlers serves the REST fallback path for live locations
type LocationHandlers struct {
	svc *location.Service
}

// SetupLocationHandlers registers the location endpoints
func SetupLocationHandlers(router *gin.RouterGroup, svc *location.Service) *LocationHandlers {
	h := &LocationHandlers{svc: svc}

	group := router.Group("/location")
	group.POST("/update", h.Update)
	group.GET("/current/:tripId", h.Current)
	group.GET("/history/:tripId", h.History)

	return h
}

type updateRequest struct {
	TripID   string `json:"tripId" binding:"required"`
	Location struct {
		Coordinates model.Coordinates `json:"coordinates" binding:"required"`
		Speed       float64           `json:"speed"`
		Bearing     float64           `json:"bearing"`
		Accuracy    float64           `json:"accuracy"`
	} `json:"location" binding:"required"`
}

// Update is the fire-and-forget REST write used when the channel is down
func (h *LocationHandlers) Update(c *gin.Context) {
	var req updateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid request body"})
		return
	}

	identity, _ := middleware.Identity(c)

	h.svc.HandleUpdate(model.TripLocation{
		TripID:   req.TripID,
		DriverID: identity.UserID,
		Location: model.LocationSample{
			Coordinates: req.Location.Coordinates,
			SpeedMps:    req.Location.Speed,
			BearingDeg:  req.Location.Bearing,
			AccuracyM:   req.Location.Accuracy,
		},
	})

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// Current returns the latest known location for a trip
func (h *LocationHandlers) Current(c *gin.Context) {
	tripID := c.Param("tripId")

	loc, err := h.svc.Current(c.Request.Context(), tripID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "No location for trip"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"location": gin.H{
			"location": gin.H{
				"coordinates": loc.Location.Coordinates,
				"accuracy":    loc.Location.AccuracyM,
			},
			"speed":     loc.Location.SpeedMps,
			"timestamp": loc.Location.CapturedAt,
		},
	})
}

// History returns the most recent samples for a trip, newest first
func (h *LocationHandlers) History(c *gin.Context) {
	tripID := c.Param("tripId")

	limit := 50
	if v := c.Query("limit"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid limit"})
			return
		}
		limit = parsed
	}

	history, err := h.svc.History(c.Request.Context(), tripID, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to load history"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "history": history})
}

// Trace renders the stored history as a GeoJSON overlay for map clients
func (h *LocationHandlers) Trace(c *gin.Context) {
	tripID := c.Param("id")

	history, err := h.svc.History(c.Request.Context(), tripID, 200)
	if err != nil || len(history) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "No trace for trip"})
		return
	}

	coords := make([]model.Coordinates, len(history))
	for i, loc := range history {
		// History arrives newest first; the line is drawn oldest first
		coords[len(history)-1-i] = loc.Location.Coordinates
	}

	feature := geojson.NewFeature(geo.LineString(coords))
	feature.Properties["trip_id"] = tripID

	fc := geojson.NewFeatureCollection()
	fc.Append(feature)

	c.JSON(http.StatusOK, fc)
}
