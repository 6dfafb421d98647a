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

package shelley

import (
	"math/big"

	"github.com/blinklabs-io/shelley-ledger/ledger/common"
)

// Refund returns the portion of a deposit owed back when the registration
// made at regSlot is released at curSlot:
//
//	refund = floor(deposit * (minPart + (1-minPart) * e^(-decayRate*dt)))
//
// The refund decays from the full deposit toward minPart*deposit as the
// registration ages. A nil minPart or decayRate means no decay and the
// full deposit is owed.
func Refund(
	deposit common.Coin,
	minPart *big.Rat,
	decayRate *big.Rat,
	regSlot common.Slot,
	curSlot common.Slot,
) common.Coin {
	if minPart == nil || decayRate == nil {
		return deposit
	}
	if curSlot < regSlot {
		curSlot = regSlot
	}
	dt := new(big.Rat).SetUint64(uint64(curSlot - regSlot))
	exponent := new(big.Rat).Mul(decayRate, dt)
	exponent.Neg(exponent)
	decayed := common.ExpRat(exponent)
	fraction := new(big.Rat).SetInt64(1)
	fraction.Sub(fraction, minPart)
	fraction.Mul(fraction, decayed)
	fraction.Add(fraction, minPart)
	fraction.Mul(fraction, deposit.ToRat())
	return common.FloorCoin(fraction)
}

// KeyRefund returns the refund owed for a stake key registered at regSlot
func KeyRefund(
	pp *ProtocolParameters,
	regSlot common.Slot,
	curSlot common.Slot,
) common.Coin {
	return Refund(pp.KeyDeposit, pp.KeyMinRefund, pp.KeyDecayRate, regSlot, curSlot)
}

// PoolRefund returns the refund owed for a pool registered at regSlot
func PoolRefund(
	pp *ProtocolParameters,
	regSlot common.Slot,
	curSlot common.Slot,
) common.Coin {
	return Refund(pp.PoolDeposit, pp.PoolMinRefund, pp.PoolDecayRate, regSlot, curSlot)
}

// Obligation returns the total refund currently owed for every registered
// stake key and pool. The deposit pot must always cover this amount.
func Obligation(
	pp *ProtocolParameters,
	stakeKeys map[common.Credential]common.Slot,
	stakePools map[common.PoolKeyHash]common.Slot,
	curSlot common.Slot,
) common.Coin {
	var ret common.Coin
	for _, regSlot := range stakeKeys {
		ret += KeyRefund(pp, regSlot, curSlot)
	}
	for _, regSlot := range stakePools {
		ret += PoolRefund(pp, regSlot, curSlot)
	}
	return ret
}
