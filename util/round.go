package util

import (
	"math"
	"math/big"
)

// Round rounds x to the given number of decimal places using HALF_UP
// (ties away from zero). The exact binary value of x is rounded, not its
// shortest decimal form, so 1.005 rounds to 1.0 at two places.
func Round(x float64, places int) float64 {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return x
	}
	exact := new(big.Rat).SetFloat64(x)
	neg := exact.Sign() < 0
	exact.Abs(exact)

	scale := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(places)), nil)
	exact.Mul(exact, new(big.Rat).SetInt(scale))

	// floor(num/den + 1/2) == (2*num + den) / (2*den)
	num := new(big.Int).Lsh(exact.Num(), 1)
	num.Add(num, exact.Denom())
	den := new(big.Int).Lsh(exact.Denom(), 1)
	q := new(big.Int).Quo(num, den)
	if neg {
		q.Neg(q)
	}

	out, _ := new(big.Rat).SetFrac(q, scale).Float64()
	return out
}
