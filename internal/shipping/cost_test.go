package shipping

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCost(t *testing.T) {
	tests := []struct {
		name       string
		distanceKm float64
		want       float64
	}{
		{"zero distance", 0, 0},
		{"inside free radius", 3.2, 0},
		{"exactly at free radius", 5, 0},
		{"just past free radius", 5.1, 8},
		{"typical delivery", 12.3, 584},
		{"long haul", 40, 2800},
		{"fractional rounding", 7.333, 186.64},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Cost(tt.distanceKm), 0.001)
		})
	}
}
