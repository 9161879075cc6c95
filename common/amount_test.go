package common

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUnitsPerToken(t *testing.T) {
	units, err := UnitsPerToken(0)
	assert.NoError(t, err)
	assert.Equal(t, uint64(1), units)

	units, err = UnitsPerToken(6)
	assert.NoError(t, err)
	assert.Equal(t, uint64(1_000_000), units)

	units, err = UnitsPerToken(18)
	assert.NoError(t, err)
	assert.Equal(t, uint64(1_000_000_000_000_000_000), units)

	_, err = UnitsPerToken(19)
	assert.ErrorIs(t, err, ErrInvalidDecimals)
}

func TestMinAmountToRaiseUnits(t *testing.T) {
	min, err := MinAmountToRaiseUnits(0)
	assert.NoError(t, err)
	assert.Equal(t, uint64(1), min)

	min, err = MinAmountToRaiseUnits(1)
	assert.NoError(t, err)
	assert.Equal(t, uint64(3), min)

	min, err = MinAmountToRaiseUnits(6)
	assert.NoError(t, err)
	assert.Equal(t, uint64(729), min)

	min, err = MinAmountToRaiseUnits(18)
	assert.NoError(t, err)
	assert.Equal(t, uint64(387_420_489), min)

	_, err = MinAmountToRaiseUnits(19)
	assert.ErrorIs(t, err, ErrInvalidDecimals)
}

func TestMaxContribution(t *testing.T) {
	assert.Equal(t, uint64(100), MaxContribution(1000))
	assert.Equal(t, uint64(0), MaxContribution(9))
	assert.Equal(t, uint64(1), MaxContribution(19))
	assert.Equal(t, uint64(math.MaxUint64/10), MaxContribution(math.MaxUint64))
}

func TestElapsedDays(t *testing.T) {
	start := int64(1_700_000_000)

	assert.Equal(t, int64(0), ElapsedDays(start, start))
	assert.Equal(t, int64(0), ElapsedDays(start+SecondsToDays-1, start))
	assert.Equal(t, int64(1), ElapsedDays(start+SecondsToDays, start))
	assert.Equal(t, int64(10), ElapsedDays(start+10*SecondsToDays+5, start))
	assert.Equal(t, int64(0), ElapsedDays(start-100, start))
}

func TestFormatAmount(t *testing.T) {
	assert.Equal(t, "1.5", FormatAmount(1_500_000, 6))
	assert.Equal(t, "42", FormatAmount(42, 0))
	assert.Equal(t, "0.000001", FormatAmount(1, 6))
	assert.Equal(t, "18446744073.709551615", FormatAmount(math.MaxUint64, 9))
}
