package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bhaskarBabu123/rsr-cabs-management-sub000/internal/model"
	"github.com/bhaskarBabu123/rsr-cabs-management-sub000/internal/service/trip"
)

// TripHandlers serves trip lifecycle and stop confirmation endpoints
type TripHandlers struct {
	svc *trip.Service
}

// SetupTripHandlers registers the trip endpoints
func SetupTripHandlers(router *gin.RouterGroup, svc *trip.Service, trace gin.HandlerFunc) {
	h := &TripHandlers{svc: svc}

	group := router.Group("/trips")
	group.GET("/:id", h.Get)
	group.GET("/:id/route", trace)
	group.PATCH("/:id/start", h.Start)
	group.PATCH("/:id/complete", h.Complete)
	group.PATCH("/:id/employees/:employeeId/status", h.UpdateEmployeeStatus)
}

// Get returns a trip with its passenger stops
func (h *TripHandlers) Get(c *gin.Context) {
	t, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, trip.ErrTripNotFound) {
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{"success": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "trip": t})
}

// Start transitions a trip to active
func (h *TripHandlers) Start(c *gin.Context) {
	t, err := h.svc.Start(c.Request.Context(), c.Param("id"))
	if err != nil {
		status := http.StatusInternalServerError
		switch {
		case errors.Is(err, trip.ErrTripNotFound):
			status = http.StatusNotFound
		case errors.Is(err, trip.ErrTripNotStartable):
			status = http.StatusConflict
		}
		c.JSON(status, gin.H{"success": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "trip": t})
}

// Complete transitions a trip to completed; repeat calls are no-ops
func (h *TripHandlers) Complete(c *gin.Context) {
	t, err := h.svc.Complete(c.Request.Context(), c.Param("id"))
	if err != nil {
		status := http.StatusInternalServerError
		switch {
		case errors.Is(err, trip.ErrTripNotFound):
			status = http.StatusNotFound
		case errors.Is(err, trip.ErrInvalidTransition):
			status = http.StatusConflict
		}
		c.JSON(status, gin.H{"success": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "trip": t})
}

type statusRequest struct {
	Status model.StopStatus `json:"status" binding:"required"`
}

// UpdateEmployeeStatus persists a stop confirmation for one passenger
func (h *TripHandlers) UpdateEmployeeStatus(c *gin.Context) {
	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid request body"})
		return
	}
	if req.Status != model.StopPickedUp && req.Status != model.StopDropped {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Status must be picked_up or dropped"})
		return
	}

	err := h.svc.UpdateEmployeeStatus(c.Request.Context(), c.Param("id"), c.Param("employeeId"), req.Status)
	if err != nil {
		status := http.StatusInternalServerError
		switch {
		case errors.Is(err, trip.ErrEmployeeNotFound):
			status = http.StatusNotFound
		case errors.Is(err, trip.ErrInvalidTransition):
			status = http.StatusConflict
		}
		c.JSON(status, gin.H{"success": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
