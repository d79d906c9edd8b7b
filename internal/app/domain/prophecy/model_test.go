package prophecy

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCostForEscalation(t *testing.T) {
	// floor(9 × 1.5ⁿ) for the USD lane.
	assert.Equal(t, int64(9), CostFor(PayUSD, 0))
	assert.Equal(t, int64(13), CostFor(PayUSD, 1))
	assert.Equal(t, int64(20), CostFor(PayUSD, 2))
	assert.Equal(t, int64(30), CostFor(PayUSD, 3))
	assert.Equal(t, int64(45), CostFor(PayUSD, 4))

	assert.Equal(t, int64(90), CostFor(PayBonked, 0))
	assert.Equal(t, int64(135), CostFor(PayBonked, 1))
}

func TestPaymentMethodValid(t *testing.T) {
	assert.True(t, PayUSD.Valid())
	assert.True(t, PayBonked.Valid())
	assert.False(t, PaymentMethod("doubloons").Valid())
}
