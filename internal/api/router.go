package api

import (
	"github.com/gin-gonic/gin"

	"github.com/bhaskarBabu123/rsr-cabs-management-sub000/internal/api/handlers"
	"github.com/bhaskarBabu123/rsr-cabs-management-sub000/internal/api/middleware"
	"github.com/bhaskarBabu123/rsr-cabs-management-sub000/internal/live"
	"github.com/bhaskarBabu123/rsr-cabs-management-sub000/internal/metrics"
	"github.com/bhaskarBabu123/rsr-cabs-management-sub000/internal/service/location"
	"github.com/bhaskarBabu123/rsr-cabs-management-sub000/internal/service/trip"
)

// Services groups everything the router wires handlers to
type Services struct {
	Location *location.Service
	Trip     *trip.Service
	Hub      *live.Hub
	Metrics  *metrics.Collector
}

// SetupRouter initializes all application routes
func SetupRouter(r *gin.Engine, s Services) {
	handlers.SetupMainHandlers(r.Group(""))
	handlers.SetupWSHandlers(r.Group(""), s.Hub)

	if s.Metrics != nil {
		r.GET("/metrics", gin.WrapH(s.Metrics.Handler()))
	}

	// Everything below requires a valid bearer token
	authed := r.Group("")
	authed.Use(middleware.Auth())

	locationHandlers := handlers.SetupLocationHandlers(authed, s.Location)
	handlers.SetupTripHandlers(authed, s.Trip, locationHandlers.Trace)
}
