package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/bhaskarBabu123/rsr-cabs-management-sub000/internal/config"
	"github.com/bhaskarBabu123/rsr-cabs-management-sub000/internal/model"
)

// REST talks to the tracking backend over HTTP. It is the fallback
// write path when the live channel is down and the recovery read path
// after a reconnect. It also implements sequencer.TripStore for
// driver-side stop confirmation.
type REST struct {
	baseURL string
	token   string
	http    *http.Client
}

func NewREST(baseURL, token string) *REST {
	return &REST{
		baseURL: baseURL,
		token:   token,
		http:    &http.Client{Timeout: config.RestFallbackTimeout},
	}
}

func (r *REST) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, r.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+r.token)

	resp, err := r.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var apiErr struct {
			Error string `json:"error"`
		}
		json.NewDecoder(resp.Body).Decode(&apiErr)
		return fmt.Errorf("%s %s: %d %s", method, path, resp.StatusCode, apiErr.Error)
	}

	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}

// UpdateLocation is the fire-and-forget REST location write
func (r *REST) UpdateLocation(ctx context.Context, tripID string, sample model.LocationSample) error {
	body := map[string]interface{}{
		"tripId": tripID,
		"location": map[string]interface{}{
			"coordinates": sample.Coordinates,
			"speed":       sample.SpeedMps,
			"bearing":     sample.BearingDeg,
			"accuracy":    sample.AccuracyM,
		},
	}
	return r.do(ctx, http.MethodPost, "/location/update", body, nil)
}

// CurrentLocation fetches the latest known sample for a trip
func (r *REST) CurrentLocation(ctx context.Context, tripID string) (model.LocationSample, error) {
	var resp struct {
		Success  bool `json:"success"`
		Location struct {
			Location struct {
				Coordinates model.Coordinates `json:"coordinates"`
				Accuracy    float64           `json:"accuracy"`
			} `json:"location"`
			Speed     float64 `json:"speed"`
			Timestamp string  `json:"timestamp"`
		} `json:"location"`
	}
	if err := r.do(ctx, http.MethodGet, "/location/current/"+tripID, nil, &resp); err != nil {
		return model.LocationSample{}, err
	}

	sample := model.LocationSample{
		Coordinates: resp.Location.Location.Coordinates,
		AccuracyM:   resp.Location.Location.Accuracy,
		SpeedMps:    resp.Location.Speed,
	}
	sample.CapturedAt, _ = parseTimestamp(resp.Location.Timestamp)
	return sample, nil
}

func parseTimestamp(s string) (time.Time, error) {
	return time.Parse(time.RFC3339Nano, s)
}

// History fetches recent samples for a trip, newest first
func (r *REST) History(ctx context.Context, tripID string, limit int) ([]model.TripLocation, error) {
	var resp struct {
		Success bool                 `json:"success"`
		History []model.TripLocation `json:"history"`
	}
	path := fmt.Sprintf("/location/history/%s?limit=%d", tripID, limit)
	if err := r.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return resp.History, nil
}

// GetTrip loads a trip with its passenger stops
func (r *REST) GetTrip(ctx context.Context, tripID string) (*model.Trip, error) {
	var resp struct {
		Success bool        `json:"success"`
		Trip    *model.Trip `json:"trip"`
	}
	if err := r.do(ctx, http.MethodGet, "/trips/"+tripID, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Trip, nil
}

// StartTrip transitions a trip to active
func (r *REST) StartTrip(ctx context.Context, tripID string) error {
	return r.do(ctx, http.MethodPatch, "/trips/"+tripID+"/start", nil, nil)
}

// CompleteTrip transitions a trip to completed
func (r *REST) CompleteTrip(ctx context.Context, tripID string) error {
	return r.do(ctx, http.MethodPatch, "/trips/"+tripID+"/complete", nil, nil)
}

// UpdateEmployeeStatus persists a stop confirmation
func (r *REST) UpdateEmployeeStatus(ctx context.Context, tripID, employeeID string, status model.StopStatus) error {
	path := fmt.Sprintf("/trips/%s/employees/%s/status", tripID, employeeID)
	return r.do(ctx, http.MethodPatch, path, map[string]string{"status": string(status)}, nil)
}
