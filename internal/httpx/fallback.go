package httpx

// firstNonEmpty returns the first non-empty string, in argument order.
// Used wherever a value can arrive under several names (query vs body,
// current vs legacy field); the call site fixes the precedence.
func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// firstPositive returns the first value greater than zero, in argument
// order, or zero when none qualifies.
func firstPositive(values ...float64) float64 {
	for _, v := range values {
		if v > 0 {
			return v
		}
	}
	return 0
}

// resolveShippingCost picks the checkout shipping cost. Precedence:
// the shipping object's cost field, then the flat shippingCost number.
func resolveShippingCost(req CheckoutRequest) float64 {
	var objectCost float64
	if req.Shipping != nil {
		objectCost = req.Shipping.Cost
	}
	return firstPositive(objectCost, req.ShippingCost)
}
