package common

import (
	"errors"
	"math/big"
	"math/bits"

	"github.com/shopspring/decimal"
)

var ErrInvalidDecimals = errors.New("decimals out of range")

// UnitsPerToken returns 10^decimals, the smallest-unit size of one whole token
func UnitsPerToken(decimals uint8) (uint64, error) {
	if decimals > MaxDecimals {
		return 0, ErrInvalidDecimals
	}
	units := uint64(1)
	for i := uint8(0); i < decimals; i++ {
		units *= 10
	}
	return units, nil
}

// MinAmountToRaiseUnits is MinAmountToRaise raised to the mint's decimals,
// in smallest units
func MinAmountToRaiseUnits(decimals uint8) (uint64, error) {
	if decimals > MaxDecimals {
		return 0, ErrInvalidDecimals
	}
	minimum := uint64(1)
	for i := uint8(0); i < decimals; i++ {
		hi, lo := bits.Mul64(minimum, MinAmountToRaise)
		if hi != 0 {
			return 0, ErrInvalidDecimals
		}
		minimum = lo
	}
	return minimum, nil
}

// MaxContribution is the per-contributor cap for a target. The product is
// computed in 128 bits so targets near MaxUint64 do not wrap.
func MaxContribution(amountToRaise uint64) uint64 {
	hi, lo := bits.Mul64(amountToRaise, MaxContributionPercentage)
	quo, _ := bits.Div64(hi, lo, PercentageScaler)
	return quo
}

// ElapsedDays truncates to whole days; a start in the future counts as zero
func ElapsedDays(now int64, timeStarted int64) int64 {
	if now <= timeStarted {
		return 0
	}
	return (now - timeStarted) / SecondsToDays
}

func FormatAmount(amount uint64, decimals uint8) string {
	return decimal.NewFromBigInt(new(big.Int).SetUint64(amount), -int32(decimals)).String()
}
