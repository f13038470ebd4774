// Package pricing holds the pure money and points arithmetic. No state,
// no I/O; callers are responsible for domain validity of the inputs.
package pricing

import (
	"math"
	"strconv"
)

const (
	// PointValue is the discount one loyalty point buys, in currency units.
	PointValue = 0.1
	// EarnRate is the share of the final price returned as points.
	EarnRate = 0.05
	// MinQuantity and MaxQuantity bound a single order line.
	MinQuantity = 1
	MaxQuantity = 9
)

// eps absorbs float64 representation error before flooring.
const eps = 1e-9

// LineTotal returns the base total for quantity units at unitPrice.
func LineTotal(unitPrice float64, quantity int) float64 {
	return unitPrice * float64(quantity)
}

// RedeemableDiscount returns the discount a balance can buy against
// cartTotal and the number of points that discount consumes. The
// discount is capped at the cart total; points consumed never exceed
// the balance.
func RedeemableDiscount(balancePoints int64, cartTotal float64) (discount float64, pointsUsed int64) {
	if balancePoints <= 0 || cartTotal <= 0 {
		return 0, 0
	}
	ceiling := float64(balancePoints) * PointValue
	if ceiling <= cartTotal {
		return ceiling, balancePoints
	}
	return cartTotal, int64(math.Floor(cartTotal/PointValue + eps))
}

// PointsEarned returns the points credited for spending spendAmount.
func PointsEarned(spendAmount float64) int64 {
	if spendAmount <= 0 {
		return 0
	}
	return int64(math.Floor(spendAmount*EarnRate + eps))
}

// ValidQuantity reports whether q is an allowed order quantity.
func ValidQuantity(q int) bool {
	return q >= MinQuantity && q <= MaxQuantity
}

// FormatAmount renders a currency amount without trailing zeros.
func FormatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
