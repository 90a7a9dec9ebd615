package loan

import (
	"errors"
	"math/big"

	"github.com/shopspring/decimal"
)

// WeiPerEther is the exponent between ether and wei.
const WeiPerEther = 18

// MaxAmount is the largest representable amount (2^256 - 1 wei).
var MaxAmount = decimal.NewFromBigInt(
	new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 256), big.NewInt(1)), 0)

var errNotWei = errors.New("amount must be a non-negative whole number of wei")

// CheckAmount rejects fractional, negative and out-of-range amounts.
func CheckAmount(d decimal.Decimal) error {
	if d.IsNegative() || !d.IsInteger() {
		return errNotWei
	}
	if d.GreaterThan(MaxAmount) {
		return ErrArithmeticOverflow
	}
	return nil
}

// Ether converts an ether quantity such as "0.0001" into wei.
func Ether(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, err
	}
	wei := d.Shift(WeiPerEther)
	if err := CheckAmount(wei); err != nil {
		return decimal.Zero, err
	}
	return wei, nil
}

// MustEther is Ether for constants and tests.
func MustEther(s string) decimal.Decimal {
	wei, err := Ether(s)
	if err != nil {
		panic(err)
	}
	return wei
}

func checked(d decimal.Decimal) (decimal.Decimal, error) {
	if d.GreaterThan(MaxAmount) {
		return decimal.Zero, ErrArithmeticOverflow
	}
	return d, nil
}

// floorDiv is integer division for non-negative operands.
func floorDiv(a, b decimal.Decimal) (decimal.Decimal, error) {
	if b.IsZero() {
		return decimal.Zero, ErrDivisionByZero
	}
	q, _ := a.QuoRem(b, 0)
	return q, nil
}
