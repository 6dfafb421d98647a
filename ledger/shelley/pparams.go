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

// ProtocolParameters are the tunable economic and timing constants the
// transition rules read. They only change at an epoch boundary.
type ProtocolParameters struct {
	// Linear fee policy: minFee = MinFeeA * txSize + MinFeeB
	MinFeeA uint
	MinFeeB uint
	// MaxTxSize bounds the serialized transaction body size
	MaxTxSize uint
	// MinUtxoValue is the smallest amount a transaction output may carry
	MinUtxoValue common.Coin
	// Stake key deposit and its refund decay schedule
	KeyDeposit   common.Coin
	KeyMinRefund *big.Rat
	KeyDecayRate *big.Rat
	// Stake pool deposit and its refund decay schedule
	PoolDeposit   common.Coin
	PoolMinRefund *big.Rat
	PoolDecayRate *big.Rat
	// MaxEpoch bounds how far ahead a pool retirement may be scheduled
	MaxEpoch uint64
	// NOpt is the target number of pools; pool stake is capped at 1/NOpt
	// of total stake for reward purposes
	NOpt uint
	// A0 is the pledge influence factor in the pool reward cap
	A0 *big.Rat
	// Rho is the monetary expansion rate drawn from reserves each epoch
	Rho *big.Rat
	// Tau is the fraction of the reward pot diverted to the treasury
	Tau *big.Rat
	// ActiveSlotCoeff is the per-slot probability that some pool leads
	ActiveSlotCoeff *big.Rat
	// MovingAvgWeight weights the previous performance average against the
	// newest epoch's observation
	MovingAvgWeight *big.Rat
	// MinPoolCost is the floor on a registered pool's declared fixed cost
	MinPoolCost common.Coin
	// SlotsPerEpoch fixes the epoch length in slots
	SlotsPerEpoch uint64
}

// Copy returns a deep copy. Rational parameters share no storage with the
// original, so the copy can outlive parameter updates.
func (p *ProtocolParameters) Copy() *ProtocolParameters {
	ret := *p
	ret.KeyMinRefund = copyRat(p.KeyMinRefund)
	ret.KeyDecayRate = copyRat(p.KeyDecayRate)
	ret.PoolMinRefund = copyRat(p.PoolMinRefund)
	ret.PoolDecayRate = copyRat(p.PoolDecayRate)
	ret.A0 = copyRat(p.A0)
	ret.Rho = copyRat(p.Rho)
	ret.Tau = copyRat(p.Tau)
	ret.ActiveSlotCoeff = copyRat(p.ActiveSlotCoeff)
	ret.MovingAvgWeight = copyRat(p.MovingAvgWeight)
	return &ret
}

// EpochInfo returns the epoch schedule implied by the parameters
func (p *ProtocolParameters) EpochInfo() common.EpochInfo {
	return common.EpochInfo{SlotsPerEpoch: p.SlotsPerEpoch}
}

// MinFee returns the smallest acceptable fee for a body of the given
// serialized size
func (p *ProtocolParameters) MinFee(txSize uint) common.Coin {
	return common.Coin(p.MinFeeA)*common.Coin(txSize) + common.Coin(p.MinFeeB)
}

func copyRat(r *big.Rat) *big.Rat {
	if r == nil {
		return nil
	}
	return new(big.Rat).Set(r)
}
