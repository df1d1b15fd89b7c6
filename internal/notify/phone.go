package notify

import "strings"

// countryCode is prefixed to bare local numbers. The storefront serves
// Mexican customers, so ten-digit numbers are assumed to be local.
const countryCode = "52"

// NormalizePhone strips formatting characters and prefixes the country
// code when the number looks local. It is idempotent: normalizing an
// already-normalized number returns it unchanged. This is a heuristic,
// not a numbering-plan validation.
func NormalizePhone(raw string) string {
	var digits strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	number := digits.String()

	if len(number) == 10 {
		return countryCode + number
	}
	return number
}
