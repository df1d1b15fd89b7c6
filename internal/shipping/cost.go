// Package shipping computes distance-based delivery quotes. The cost
// formula is the only business rule owned by this codebase; distances
// come from public geocoding and routing services.
package shipping

import "math"

const (
	// FreeKm is the distance below which delivery is free.
	FreeKm = 5.0
	// RatePerKm is charged in MXN for every kilometre past FreeKm.
	RatePerKm = 80.0
)

// Cost maps a driving distance to a delivery price: free up to FreeKm,
// then linear at RatePerKm, rounded to centavos.
func Cost(distanceKm float64) float64 {
	if distanceKm <= FreeKm {
		return 0
	}
	return round2((distanceKm - FreeKm) * RatePerKm)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
