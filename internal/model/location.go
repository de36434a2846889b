package model

import "time"

// Coordinates is a WGS84 latitude/longitude pair
type Coordinates struct {
	Lat float64 `json:"lat" bson:"lat"`
	Lng float64 `json:"lng" bson:"lng"`
}

// LocationSample is a single reading from a driver's device.
// Components hold at most the latest sample; history lives in MongoDB.
type LocationSample struct {
	Coordinates Coordinates `json:"coordinates" bson:"coordinates"`
	SpeedMps    float64     `json:"speed" bson:"speed"`
	BearingDeg  float64     `json:"bearing" bson:"bearing"`
	AccuracyM   float64     `json:"accuracy" bson:"accuracy"`
	CapturedAt  time.Time   `json:"timestamp" bson:"timestamp"`
}

// TripLocation ties a sample to the trip and driver that produced it
type TripLocation struct {
	TripID   string         `json:"trip_id" bson:"trip_id"`
	DriverID string         `json:"driver_id" bson:"driver_id"`
	Location LocationSample `json:"location" bson:"location"`
}

// Newer reports whether other should replace the current sample.
// Most recent capture timestamp wins regardless of delivery path
// (channel vs REST fallback).
func (l LocationSample) Newer(other LocationSample) bool {
	return other.CapturedAt.After(l.CapturedAt)
}
