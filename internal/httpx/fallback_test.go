package httpx

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFirstNonEmpty(t *testing.T) {
	assert.Equal(t, "a", firstNonEmpty("a", "b"))
	assert.Equal(t, "b", firstNonEmpty("", "b"))
	assert.Equal(t, "", firstNonEmpty("", ""))
	assert.Equal(t, "", firstNonEmpty())
}

func TestFirstPositive(t *testing.T) {
	assert.InDelta(t, 1.5, firstPositive(1.5, 3), 0.001)
	assert.InDelta(t, 3.0, firstPositive(0, 3), 0.001)
	assert.InDelta(t, 3.0, firstPositive(-2, 3), 0.001)
	assert.Zero(t, firstPositive(0, 0))
}

func TestResolveShippingCost(t *testing.T) {
	t.Run("object cost wins over flat number", func(t *testing.T) {
		cost := resolveShippingCost(CheckoutRequest{
			Shipping:     &ShippingInfo{Cost: 584},
			ShippingCost: 100,
		})
		assert.InDelta(t, 584.0, cost, 0.001)
	})

	t.Run("flat number used when object cost is zero", func(t *testing.T) {
		cost := resolveShippingCost(CheckoutRequest{
			Shipping:     &ShippingInfo{Cost: 0},
			ShippingCost: 100,
		})
		assert.InDelta(t, 100.0, cost, 0.001)
	})

	t.Run("flat number used when object absent", func(t *testing.T) {
		cost := resolveShippingCost(CheckoutRequest{ShippingCost: 100})
		assert.InDelta(t, 100.0, cost, 0.001)
	})

	t.Run("no source yields zero", func(t *testing.T) {
		assert.Zero(t, resolveShippingCost(CheckoutRequest{}))
	})
}
