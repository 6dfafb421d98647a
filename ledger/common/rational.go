// Copyright 2026 Blink Labs Software
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package common

import (
	"math/big"
)

// oneRat is the constant 1/1 for reuse in calculations.
// WARNING: This package-level big.Rat value must not be mutated. Always use
// it as a read-only constant. Create new big.Rat instances for calculations.
var oneRat = big.NewRat(1, 1)

// halfRat is the constant 1/2, used for range reduction in ExpRat.
// WARNING: must not be mutated.
var halfRat = big.NewRat(1, 2)

// LnOneMinus computes ln(1-x) for 0 < x < 1 using the Taylor series:
// ln(1-x) = -x - x²/2 - x³/3 - x⁴/4 - ...
//
// 20 terms provides sufficient precision for the parameter ranges used
// by the ledger (active slot coefficients and decay rates well below 1).
func LnOneMinus(x *big.Rat) *big.Rat {
	const terms = 20

	result := new(big.Rat)
	xPower := new(big.Rat).Set(x) // x^n starting with x^1
	term := new(big.Rat)
	denom := new(big.Rat)

	for n := 1; n <= terms; n++ {
		// Add -x^n / n to result
		denom.SetFrac64(int64(n), 1)
		term.Quo(xPower, denom)
		result.Sub(result, term)

		// xPower = xPower * x for next iteration
		xPower.Mul(xPower, x)
	}

	return result
}

// ExpRat computes exp(x) for a rational x of either sign. The argument is
// range-reduced to |y| <= 1/2 via exp(x) = exp(x/2^k)^(2^k) so the Taylor
// series converges quickly, then squared back up.
func ExpRat(x *big.Rat) *big.Rat {
	if x.Sign() == 0 {
		return new(big.Rat).Set(oneRat)
	}
	// Range reduction
	y := new(big.Rat).Set(x)
	k := 0
	absY := new(big.Rat).Abs(y)
	for absY.Cmp(halfRat) > 0 {
		y.Quo(y, big.NewRat(2, 1))
		absY.Quo(absY, big.NewRat(2, 1))
		k++
	}
	result := expTaylor(y)
	for i := 0; i < k; i++ {
		result.Mul(result, result)
	}
	return result
}

// expTaylor computes exp(x) for |x| <= 1/2 using the Taylor series:
// exp(x) = 1 + x + x²/2! + x³/3! + ...
func expTaylor(x *big.Rat) *big.Rat {
	const terms = 20

	result := new(big.Rat).Set(oneRat) // Start with 1
	term := new(big.Rat).Set(oneRat)   // Current term (x^n / n!)
	denom := new(big.Rat)

	for n := 1; n <= terms; n++ {
		// term = term * x / n
		term.Mul(term, x)
		denom.SetFrac64(int64(n), 1)
		term.Quo(term, denom)

		result.Add(result, term)
	}

	return result
}
