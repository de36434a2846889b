package geocode

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestHTTPProvider_ReverseGeocode(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("latlng") == "" || q.Get("key") != "test-key" {
			t.Errorf("missing query params: %v", q)
		}
		w.Write([]byte(`{
			"status": "OK",
			"results": [
				{"formatted_address": "12 MG Road, Bengaluru, Karnataka"},
				{"formatted_address": "Bengaluru, Karnataka"}
			]
		}`))
	}))
	defer server.Close()

	provider := NewHTTPProvider(server.URL, "test-key", "in", "en")
	addresses, err := provider.ReverseGeocode(context.Background(), 12.9716, 77.5946)
	if err != nil {
		t.Fatalf("reverse geocode: %v", err)
	}
	if len(addresses) != 2 || addresses[0] != "12 MG Road, Bengaluru, Karnataka" {
		t.Errorf("addresses = %v", addresses)
	}
}

func TestHTTPProvider_ErrorStatuses(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"http error", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}},
		{"zero results", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"status": "ZERO_RESULTS", "results": []}`))
		}},
		{"malformed body", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`not json`))
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(tt.handler)
			defer server.Close()

			provider := NewHTTPProvider(server.URL, "k", "in", "en")
			if _, err := provider.ReverseGeocode(context.Background(), 12.9716, 77.5946); !errors.Is(err, ErrGeocodeFailed) {
				t.Errorf("err = %v, want ErrGeocodeFailed", err)
			}
		})
	}
}
