package geo

import (
	"github.com/paulmach/orb"

	"github.com/bhaskarBabu123/rsr-cabs-management-sub000/internal/model"
)

// DecodePolyline converts an encoded polyline string to coordinates.
// Implementation based on Google's Encoded Polyline Algorithm Format
// with the standard 1e-5 precision.
func DecodePolyline(encoded string) []model.Coordinates {
	var points []model.Coordinates
	index, lat, lng := 0, 0, 0

	for index < len(encoded) {
		// Extract latitude
		shift, result := 0, 0
		for {
			if index >= len(encoded) {
				return points
			}
			b := int(encoded[index]) - 63
			index++
			result |= (b & 0x1f) << shift
			shift += 5
			if b < 0x20 {
				break
			}
		}

		if result&1 != 0 {
			lat -= result >> 1
		} else {
			lat += result >> 1
		}

		// Extract longitude
		shift, result = 0, 0
		for {
			if index >= len(encoded) {
				return points
			}
			b := int(encoded[index]) - 63
			index++
			result |= (b & 0x1f) << shift
			shift += 5
			if b < 0x20 {
				break
			}
		}

		if result&1 != 0 {
			lng -= result >> 1
		} else {
			lng += result >> 1
		}

		points = append(points, model.Coordinates{
			Lat: float64(lat) * 1e-5,
			Lng: float64(lng) * 1e-5,
		})
	}

	return points
}

// LineString converts coordinates to an orb.LineString (lng/lat order)
// for GeoJSON serialization.
func LineString(coords []model.Coordinates) orb.LineString {
	line := make(orb.LineString, len(coords))
	for i, c := range coords {
		line[i] = orb.Point{c.Lng, c.Lat}
	}
	return line
}
