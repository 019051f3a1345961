package approve

import (
	"fmt"
	"math/big"

	"github.com/holiman/uint256"
)

// Amount is an allowance written as Coeff × Base^Exp. It is evaluated
// exactly in 256-bit unsigned arithmetic.
type Amount struct {
	Coeff uint64
	Base  uint64
	Exp   uint64
}

// Pow returns Base^Exp.
func Pow(base, exp uint64) Amount {
	return Amount{Coeff: 1, Base: base, Exp: exp}
}

// Int evaluates the amount. It fails if the result does not fit in a uint256.
func (a Amount) Int() (*uint256.Int, error) {
	switch {
	case a.Coeff == 0:
		return new(uint256.Int), nil
	case a.Exp == 0 || a.Base == 1:
		return uint256.NewInt(a.Coeff), nil
	case a.Base == 0:
		return new(uint256.Int), nil
	case a.Exp > 256:
		// Base >= 2, so Base^Exp >= 2^257.
		return nil, fmt.Errorf("amount %s overflows uint256", a)
	}

	base := uint256.NewInt(a.Base)
	v := uint256.NewInt(1)
	for i := uint64(0); i < a.Exp; i++ {
		if _, overflow := v.MulOverflow(v, base); overflow {
			return nil, fmt.Errorf("amount %s overflows uint256", a)
		}
	}
	if _, overflow := v.MulOverflow(v, uint256.NewInt(a.Coeff)); overflow {
		return nil, fmt.Errorf("amount %s overflows uint256", a)
	}
	return v, nil
}

// Big evaluates the amount as a *big.Int, the type ABI packing expects.
func (a Amount) Big() (*big.Int, error) {
	v, err := a.Int()
	if err != nil {
		return nil, err
	}
	return v.ToBig(), nil
}

func (a Amount) String() string {
	if a.Coeff == 1 {
		return fmt.Sprintf("%d^%d", a.Base, a.Exp)
	}
	return fmt.Sprintf("%d × %d^%d", a.Coeff, a.Base, a.Exp)
}
