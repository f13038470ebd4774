package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLineTotal(t *testing.T) {
	for q := MinQuantity; q <= MaxQuantity; q++ {
		assert.Equal(t, 65.0*float64(q), LineTotal(65, q))
	}
	assert.Equal(t, 0.0, LineTotal(0, 3))
}

func TestRedeemableDiscount(t *testing.T) {
	tests := []struct {
		name       string
		balance    int64
		total      float64
		discount   float64
		pointsUsed int64
	}{
		{"zero balance", 0, 65, 0, 0},
		{"zero total", 1000, 0, 0, 0},
		{"balance below total", 100, 65, 10, 100},
		{"balance covers total", 1000, 65, 65, 650},
		{"exact cover", 650, 65, 65, 650},
		{"tiny balance", 7, 65, 0.7, 7},
		{"large balance large total", 6500, 650, 650, 6500},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			discount, used := RedeemableDiscount(tt.balance, tt.total)
			assert.InDelta(t, tt.discount, discount, 1e-9)
			assert.Equal(t, tt.pointsUsed, used)
		})
	}
}

func TestRedeemableDiscountBounds(t *testing.T) {
	for balance := int64(0); balance <= 2000; balance += 37 {
		for _, total := range []float64{0, 1, 20, 65, 135, 999} {
			discount, used := RedeemableDiscount(balance, total)
			assert.LessOrEqual(t, discount, total, "discount exceeds cart total")
			assert.LessOrEqual(t, discount, float64(balance)*PointValue+1e-9, "discount exceeds balance value")
			assert.LessOrEqual(t, used, balance, "points used exceed balance")
			assert.GreaterOrEqual(t, used, int64(0))
		}
	}
}

func TestPointsEarned(t *testing.T) {
	assert.Equal(t, int64(10), PointsEarned(200))
	assert.Equal(t, int64(3), PointsEarned(65))
	assert.Equal(t, int64(0), PointsEarned(19))
	assert.Equal(t, int64(1), PointsEarned(20))
	assert.Equal(t, int64(0), PointsEarned(0))
	assert.Equal(t, int64(0), PointsEarned(-5))
}

func TestValidQuantity(t *testing.T) {
	for q := 1; q <= 9; q++ {
		assert.True(t, ValidQuantity(q))
	}
	assert.False(t, ValidQuantity(0))
	assert.False(t, ValidQuantity(10))
	assert.False(t, ValidQuantity(-1))
}
