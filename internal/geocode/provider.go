package geocode

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// ErrGeocodeFailed marks a provider failure. Callers fall back to
// coordinate text; the failure is never cached.
var ErrGeocodeFailed = errors.New("geocode failed")

// Provider resolves coordinates to candidate formatted addresses
type Provider interface {
	ReverseGeocode(ctx context.Context, lat, lng float64) ([]string, error)
}

// HTTPProvider talks to a Google-shaped reverse geocoding endpoint
type HTTPProvider struct {
	BaseURL  string
	APIKey   string
	Region   string
	Language string
	Client   *http.Client
}

func NewHTTPProvider(baseURL, apiKey, region, language string) *HTTPProvider {
	return &HTTPProvider{
		BaseURL:  baseURL,
		APIKey:   apiKey,
		Region:   region,
		Language: language,
		Client:   &http.Client{Timeout: 10 * time.Second},
	}
}

type geocodeResponse struct {
	Status  string `json:"status"`
	Results []struct {
		FormattedAddress string `json:"formatted_address"`
	} `json:"results"`
}

func (p *HTTPProvider) ReverseGeocode(ctx context.Context, lat, lng float64) ([]string, error) {
	q := url.Values{}
	q.Set("latlng", fmt.Sprintf("%f,%f", lat, lng))
	q.Set("region", p.Region)
	q.Set("language", p.Language)
	q.Set("key", p.APIKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.BaseURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGeocodeFailed, err)
	}

	resp, err := p.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGeocodeFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: provider returned %d", ErrGeocodeFailed, resp.StatusCode)
	}

	var body geocodeResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGeocodeFailed, err)
	}
	if body.Status != "OK" || len(body.Results) == 0 {
		return nil, fmt.Errorf("%w: status %s", ErrGeocodeFailed, body.Status)
	}

	addresses := make([]string, len(body.Results))
	for i, r := range body.Results {
		addresses[i] = r.FormattedAddress
	}
	return addresses, nil
}
