package shipping

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// Router resolves the driving distance between two coordinate pairs.
type Router interface {
	DrivingDistanceKm(ctx context.Context, from, to Coordinates) (float64, error)
}

// OSRMRouter implements Router against an OSRM-compatible routing API.
type OSRMRouter struct {
	baseURL    string
	httpClient *http.Client
}

func NewOSRMRouter(baseURL string, httpClient *http.Client) *OSRMRouter {
	return &OSRMRouter{baseURL: baseURL, httpClient: httpClient}
}

func (r *OSRMRouter) DrivingDistanceKm(ctx context.Context, from, to Coordinates) (float64, error) {
	// OSRM takes lon,lat pairs and reports distances in metres.
	endpoint := fmt.Sprintf("%s/route/v1/driving/%f,%f;%f,%f?overview=false",
		r.baseURL, from.Lon, from.Lat, to.Lon, to.Lat)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return 0, fmt.Errorf("shipping: build route request: %w", err)
	}

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("shipping: route lookup: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("shipping: route lookup: status %d", resp.StatusCode)
	}

	var result struct {
		Code   string `json:"code"`
		Routes []struct {
			Distance float64 `json:"distance"`
		} `json:"routes"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return 0, fmt.Errorf("shipping: decode route response: %w", err)
	}
	if result.Code != "Ok" || len(result.Routes) == 0 {
		return 0, fmt.Errorf("shipping: no route found (code %q)", result.Code)
	}

	return result.Routes[0].Distance / 1000, nil
}
