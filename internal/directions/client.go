package directions

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/bhaskarBabu123/rsr-cabs-management-sub000/internal/geo"
	"github.com/bhaskarBabu123/rsr-cabs-management-sub000/internal/model"
)

// ErrDirectionsFailed marks a provider failure. Callers keep the
// previously computed route.
var ErrDirectionsFailed = errors.New("directions failed")

// Route is a routed path between the vehicle and its next stop
type Route struct {
	Path             []model.Coordinates
	DistanceMeters   int
	DistanceText     string
	DurationText     string
	FirstInstruction string
}

// Client requests driving routes from a Google-shaped directions endpoint
type Client struct {
	BaseURL string
	APIKey  string
	HTTP    *http.Client
}

func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		BaseURL: baseURL,
		APIKey:  apiKey,
		HTTP:    &http.Client{Timeout: 10 * time.Second},
	}
}

type directionsResponse struct {
	Status string `json:"status"`
	Routes []struct {
		Legs []struct {
			Distance struct {
				Text  string `json:"text"`
				Value int    `json:"value"`
			} `json:"distance"`
			Duration struct {
				Text  string `json:"text"`
				Value int    `json:"value"`
			} `json:"duration"`
			Steps []struct {
				HTMLInstructions string `json:"html_instructions"`
			} `json:"steps"`
		} `json:"legs"`
		OverviewPolyline struct {
			Points string `json:"points"`
		} `json:"overview_polyline"`
	} `json:"routes"`
}

// Route requests a driving route between origin and destination
func (c *Client) Route(ctx context.Context, origin, destination model.Coordinates) (Route, error) {
	q := url.Values{}
	q.Set("origin", fmt.Sprintf("%f,%f", origin.Lat, origin.Lng))
	q.Set("destination", fmt.Sprintf("%f,%f", destination.Lat, destination.Lng))
	q.Set("mode", "driving")
	q.Set("key", c.APIKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"?"+q.Encode(), nil)
	if err != nil {
		return Route{}, fmt.Errorf("%w: %v", ErrDirectionsFailed, err)
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return Route{}, fmt.Errorf("%w: %v", ErrDirectionsFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Route{}, fmt.Errorf("%w: provider returned %d", ErrDirectionsFailed, resp.StatusCode)
	}

	var body directionsResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return Route{}, fmt.Errorf("%w: %v", ErrDirectionsFailed, err)
	}
	if body.Status != "OK" || len(body.Routes) == 0 || len(body.Routes[0].Legs) == 0 {
		return Route{}, fmt.Errorf("%w: status %s", ErrDirectionsFailed, body.Status)
	}

	r := body.Routes[0]
	leg := r.Legs[0]

	route := Route{
		Path:           geo.DecodePolyline(r.OverviewPolyline.Points),
		DistanceMeters: leg.Distance.Value,
		DistanceText:   leg.Distance.Text,
		DurationText:   leg.Duration.Text,
	}
	if len(leg.Steps) > 0 {
		route.FirstInstruction = leg.Steps[0].HTMLInstructions
	}
	return route, nil
}
