package shipping

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/materialespayan/storefront-backend/internal/pkg/cache"
)

// coordTTL bounds how long a geocoded postal code is trusted. Postal
// codes move rarely; a day keeps the cache warm across quiet periods.
const coordTTL = 24 * time.Hour

// Quote is the priced result of a shipping estimate.
type Quote struct {
	PostalCode string  `json:"postalCode"`
	DistanceKm float64 `json:"distanceKm"`
	Cost       float64 `json:"cost"`
	FreeKm     float64 `json:"freeKm"`
	RatePerKm  float64 `json:"ratePerKm"`
}

// Estimator prices delivery from the store to a destination postal
// code. Geocoded coordinates are cached per postal code; the routing
// call is always live.
type Estimator struct {
	geocoder    Geocoder
	router      Router
	coords      cache.Cache
	storePostal string
}

func NewEstimator(geocoder Geocoder, router Router, coords cache.Cache, storePostal string) *Estimator {
	return &Estimator{
		geocoder:    geocoder,
		router:      router,
		coords:      coords,
		storePostal: storePostal,
	}
}

// Estimate quotes delivery to the given postal code. A destination equal
// to the store's own code short-circuits to a free quote without
// touching the geocoding or routing services.
func (e *Estimator) Estimate(ctx context.Context, postalCode string) (*Quote, error) {
	quote := &Quote{
		PostalCode: postalCode,
		FreeKm:     FreeKm,
		RatePerKm:  RatePerKm,
	}

	if postalCode == e.storePostal {
		return quote, nil
	}

	origin, err := e.locate(ctx, e.storePostal)
	if err != nil {
		return nil, err
	}
	dest, err := e.locate(ctx, postalCode)
	if err != nil {
		return nil, err
	}

	distanceKm, err := e.router.DrivingDistanceKm(ctx, origin, dest)
	if err != nil {
		return nil, err
	}

	quote.DistanceKm = math.Round(distanceKm*100) / 100
	quote.Cost = Cost(distanceKm)
	return quote, nil
}

// locate resolves a postal code through the cache, falling back to a
// live geocoding call. Cache failures are logged and ignored so a down
// cache never fails a quote.
func (e *Estimator) locate(ctx context.Context, postalCode string) (Coordinates, error) {
	key := e.coords.GenerateKey("geocode", postalCode)

	if cached, err := e.coords.Get(ctx, key); err != nil {
		slog.DebugContext(ctx, "coordinate cache read failed", "postal_code", postalCode, "error", err)
	} else if cached != "" {
		if coords, err := parseCoordinates(cached); err == nil {
			return coords, nil
		}
	}

	coords, err := e.geocoder.Locate(ctx, postalCode)
	if err != nil {
		return Coordinates{}, err
	}

	if err := e.coords.Set(ctx, key, formatCoordinates(coords), coordTTL); err != nil {
		slog.DebugContext(ctx, "coordinate cache write failed", "postal_code", postalCode, "error", err)
	}
	return coords, nil
}

func formatCoordinates(c Coordinates) string {
	return strconv.FormatFloat(c.Lat, 'f', -1, 64) + "," + strconv.FormatFloat(c.Lon, 'f', -1, 64)
}

func parseCoordinates(s string) (Coordinates, error) {
	lat, lon, ok := strings.Cut(s, ",")
	if !ok {
		return Coordinates{}, fmt.Errorf("shipping: malformed cached coordinates %q", s)
	}
	latF, err := strconv.ParseFloat(lat, 64)
	if err != nil {
		return Coordinates{}, err
	}
	lonF, err := strconv.ParseFloat(lon, 64)
	if err != nil {
		return Coordinates{}, err
	}
	return Coordinates{Lat: latF, Lon: lonF}, nil
}
