package shipping

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
)

// ErrNoResults means the geocoding service had no match for a postal
// code. Surfaced to the client as an invalid-destination error.
var ErrNoResults = errors.New("shipping: postal code not found")

type Coordinates struct {
	Lat float64
	Lon float64
}

// Geocoder resolves a Mexican postal code to approximate coordinates.
type Geocoder interface {
	Locate(ctx context.Context, postalCode string) (Coordinates, error)
}

// NominatimGeocoder implements Geocoder against a Nominatim-compatible
// search endpoint.
type NominatimGeocoder struct {
	baseURL    string
	httpClient *http.Client
}

func NewNominatimGeocoder(baseURL string, httpClient *http.Client) *NominatimGeocoder {
	return &NominatimGeocoder{baseURL: baseURL, httpClient: httpClient}
}

func (g *NominatimGeocoder) Locate(ctx context.Context, postalCode string) (Coordinates, error) {
	query := url.Values{
		"postalcode": {postalCode},
		"country":    {"mx"},
		"format":     {"json"},
		"limit":      {"1"},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		g.baseURL+"/search?"+query.Encode(), nil)
	if err != nil {
		return Coordinates{}, fmt.Errorf("shipping: build geocode request: %w", err)
	}
	// Nominatim's usage policy requires an identifying User-Agent.
	req.Header.Set("User-Agent", "materialespayan-storefront/1.0")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return Coordinates{}, fmt.Errorf("shipping: geocode %s: %w", postalCode, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return Coordinates{}, fmt.Errorf("shipping: geocode %s: status %d", postalCode, resp.StatusCode)
	}

	var results []struct {
		Lat string `json:"lat"`
		Lon string `json:"lon"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return Coordinates{}, fmt.Errorf("shipping: decode geocode response: %w", err)
	}
	if len(results) == 0 {
		return Coordinates{}, fmt.Errorf("%w: %s", ErrNoResults, postalCode)
	}

	lat, err := strconv.ParseFloat(results[0].Lat, 64)
	if err != nil {
		return Coordinates{}, fmt.Errorf("shipping: bad latitude %q: %w", results[0].Lat, err)
	}
	lon, err := strconv.ParseFloat(results[0].Lon, 64)
	if err != nil {
		return Coordinates{}, fmt.Errorf("shipping: bad longitude %q: %w", results[0].Lon, err)
	}

	return Coordinates{Lat: lat, Lon: lon}, nil
}
