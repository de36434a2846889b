package geo

import (
	"math"
	"testing"

	"github.com/bhaskarBabu123/rsr-cabs-management-sub000/internal/model"
)

func TestDecodePolyline(t *testing.T) {
	// Reference string from the polyline format documentation
	points := DecodePolyline("_p~iF~ps|U_ulLnnqC_mqNvxq`@")

	want := []model.Coordinates{
		{Lat: 38.5, Lng: -120.2},
		{Lat: 40.7, Lng: -120.95},
		{Lat: 43.252, Lng: -126.453},
	}
	if len(points) != len(want) {
		t.Fatalf("decoded %d points, want %d", len(points), len(want))
	}
	for i := range want {
		if math.Abs(points[i].Lat-want[i].Lat) > 1e-5 || math.Abs(points[i].Lng-want[i].Lng) > 1e-5 {
			t.Errorf("point %d = %+v, want %+v", i, points[i], want[i])
		}
	}
}

func TestDecodePolyline_Empty(t *testing.T) {
	if points := DecodePolyline(""); len(points) != 0 {
		t.Errorf("decoded %d points from empty string, want 0", len(points))
	}
}

func TestLineString_LngLatOrder(t *testing.T) {
	line := LineString([]model.Coordinates{{Lat: 28.6, Lng: 77.2}})
	if len(line) != 1 {
		t.Fatalf("got %d points, want 1", len(line))
	}
	if line[0][0] != 77.2 || line[0][1] != 28.6 {
		t.Errorf("point = %+v, want [lng lat] order", line[0])
	}
}
