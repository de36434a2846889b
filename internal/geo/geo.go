package geo

import (
	"fmt"
	"math"

	"github.com/golang/geo/s1"
	"github.com/golang/geo/s2"

	"github.com/bhaskarBabu123/rsr-cabs-management-sub000/internal/model"
)

const earthRadiusMeters = 6371000.0

// HaversineDistance returns the great-circle distance between two
// coordinates in meters.
func HaversineDistance(a, b model.Coordinates) float64 {
	p1 := s2.PointFromLatLng(s2.LatLngFromDegrees(a.Lat, a.Lng))
	p2 := s2.PointFromLatLng(s2.LatLngFromDegrees(b.Lat, b.Lng))

	angle := s1.Angle(s2.ChordAngleBetweenPoints(p1, p2).Angle())
	return angle.Radians() * earthRadiusMeters
}

// MoveToward returns the point distanceMeters along the great circle
// from start to end, clamped at end.
func MoveToward(start, end model.Coordinates, distanceMeters float64) model.Coordinates {
	startPoint := s2.PointFromLatLng(s2.LatLngFromDegrees(start.Lat, start.Lng))
	endPoint := s2.PointFromLatLng(s2.LatLngFromDegrees(end.Lat, end.Lng))

	totalDistance := HaversineDistance(start, end)
	if distanceMeters >= totalDistance || totalDistance == 0 {
		return end
	}

	fraction := distanceMeters / totalDistance
	newPoint := s2.Interpolate(fraction, startPoint, endPoint)
	newLatLng := s2.LatLngFromPoint(newPoint)

	return model.Coordinates{Lat: newLatLng.Lat.Degrees(), Lng: newLatLng.Lng.Degrees()}
}

// Bearing returns the initial bearing from a to b in degrees [0, 360),
// 0 = north, 90 = east.
func Bearing(a, b model.Coordinates) float64 {
	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	lngDiff := (b.Lng - a.Lng) * math.Pi / 180

	y := math.Sin(lngDiff) * math.Cos(lat2)
	x := math.Cos(lat1)*math.Sin(lat2) - math.Sin(lat1)*math.Cos(lat2)*math.Cos(lngDiff)
	bearing := math.Atan2(y, x) * 180 / math.Pi

	return math.Mod(bearing+360, 360)
}

var compassPoints = [8]string{"N", "NE", "E", "SE", "S", "SW", "W", "NW"}

// CompassPoint buckets a bearing into one of the 8 compass points
func CompassPoint(bearingDeg float64) string {
	normalized := math.Mod(bearingDeg, 360)
	if normalized < 0 {
		normalized += 360
	}
	idx := int(math.Round(normalized/45)) % 8
	return compassPoints[idx]
}

// ETAMinutes estimates minutes to cover distanceMeters at speedMps.
// Zero or negative speed means unknown/stopped and yields 0.
func ETAMinutes(distanceMeters, speedMps float64) int {
	if speedMps <= 0 {
		return 0
	}
	distanceKm := distanceMeters / 1000
	speedKmh := speedMps * 3.6
	eta := int(math.Round(distanceKm * 60 / speedKmh))
	if eta < 1 {
		return 1
	}
	return eta
}

// FormatETA renders an ETA for display. 0 means unknown.
func FormatETA(minutes int) string {
	if minutes <= 0 {
		return "--"
	}
	if minutes <= 2 {
		return "Soon"
	}
	return fmt.Sprintf("%dmin", minutes)
}

// FormatDistanceKm renders meters as kilometers with one decimal
func FormatDistanceKm(meters float64) string {
	return fmt.Sprintf("%.1fkm", meters/1000)
}
