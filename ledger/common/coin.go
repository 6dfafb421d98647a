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
	"fmt"
	"math/big"
)

// Coin is a non-negative amount of the base currency unit. Coin amounts
// form a commutative monoid under addition. Subtraction is checked:
// an underflow in a valid execution indicates a broken ledger invariant,
// so callers must handle the error rather than saturate.
type Coin uint64

// CoinUnderflowError indicates a checked Coin subtraction went below zero
type CoinUnderflowError struct {
	Amount     Coin
	Subtracted Coin
}

func (e CoinUnderflowError) Error() string {
	return fmt.Sprintf(
		"coin underflow: %d - %d",
		e.Amount,
		e.Subtracted,
	)
}

// Add returns the sum of two Coin amounts
func (c Coin) Add(other Coin) Coin {
	return c + other
}

// Sub returns the difference of two Coin amounts, or an error on underflow
func (c Coin) Sub(other Coin) (Coin, error) {
	if other > c {
		return 0, CoinUnderflowError{Amount: c, Subtracted: other}
	}
	return c - other, nil
}

// ToRat returns the Coin amount as a big.Rat for exact reward arithmetic
func (c Coin) ToRat() *big.Rat {
	return new(big.Rat).SetFrac(
		new(big.Int).SetUint64(uint64(c)),
		big.NewInt(1),
	)
}

// FloorCoin converts an exact rational amount to Coin, flooring to the
// nearest whole unit. Negative values floor to zero.
func FloorCoin(r *big.Rat) Coin {
	if r == nil || r.Sign() <= 0 {
		return 0
	}
	floor := new(big.Int).Quo(r.Num(), r.Denom())
	if !floor.IsUint64() {
		// Beyond total money supply; clamp rather than wrap
		return Coin(^uint64(0))
	}
	return Coin(floor.Uint64())
}
