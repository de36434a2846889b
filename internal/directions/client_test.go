package directions

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/bhaskarBabu123/rsr-cabs-management-sub000/internal/model"
)

func TestClient_Route(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("origin") == "" || q.Get("destination") == "" || q.Get("mode") != "driving" {
			t.Errorf("missing query params: %v", q)
		}
		w.Write([]byte(`{
			"status": "OK",
			"routes": [{
				"legs": [{
					"distance": {"text": "4.2 km", "value": 4200},
					"duration": {"text": "12 mins", "value": 720},
					"steps": [{"html_instructions": "Head north on MG Road"}]
				}],
				"overview_polyline": {"points": "_p~iF~ps|U_ulLnnqC"}
			}]
		}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-key")
	route, err := client.Route(context.Background(),
		model.Coordinates{Lat: 12.90, Lng: 77.55}, model.Coordinates{Lat: 12.98, Lng: 77.60})
	if err != nil {
		t.Fatalf("route: %v", err)
	}

	if route.DistanceMeters != 4200 || route.DistanceText != "4.2 km" {
		t.Errorf("distance = %d/%s", route.DistanceMeters, route.DistanceText)
	}
	if route.DurationText != "12 mins" {
		t.Errorf("duration = %s", route.DurationText)
	}
	if route.FirstInstruction != "Head north on MG Road" {
		t.Errorf("instruction = %s", route.FirstInstruction)
	}
	if len(route.Path) != 2 {
		t.Errorf("decoded path = %d points, want 2", len(route.Path))
	}
}

func TestClient_Route_ProviderFailures(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"http error", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}},
		{"not found status", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"status": "NOT_FOUND", "routes": []}`))
		}},
		{"no legs", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"status": "OK", "routes": [{"legs": []}]}`))
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(tt.handler)
			defer server.Close()

			client := NewClient(server.URL, "k")
			_, err := client.Route(context.Background(),
				model.Coordinates{Lat: 12.90, Lng: 77.55}, model.Coordinates{Lat: 12.98, Lng: 77.60})
			if !errors.Is(err, ErrDirectionsFailed) {
				t.Errorf("err = %v, want ErrDirectionsFailed", err)
			}
		})
	}
}
