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

// Package consensus provides the slot leader eligibility predicate. The
// VRF output is consumed as opaque bytes; proof generation and
// verification belong to the caller.
package consensus

import (
	"math/big"

	"github.com/blinklabs-io/shelley-ledger/ledger/common"
)

// vrfOutputBits sizes the comparison space for the hashed leader value
const vrfOutputBits = 256

// twoTo256 is 2^256, the upper bound for leader value comparison.
// WARNING: This package-level big.Int value must not be mutated. Always
// use it as a read-only constant.
var twoTo256 = new(big.Int).Exp(big.NewInt(2), big.NewInt(vrfOutputBits), nil)

// CertifiedNatThreshold computes the leadership threshold for a pool:
//
//	T = 2^256 * (1 - (1-f)^σ)
//
// Where f is the active slot coefficient and σ = poolStake / totalStake.
// A pool whose VRF leader value falls below T is eligible to lead the
// slot, which happens with probability 1 - (1-f)^σ for uniformly drawn
// VRF outputs.
func CertifiedNatThreshold(
	poolStake uint64,
	totalStake uint64,
	activeSlotCoeff *big.Rat,
) *big.Int {
	if activeSlotCoeff == nil {
		return big.NewInt(0)
	}
	if totalStake == 0 || poolStake == 0 {
		return big.NewInt(0)
	}
	if poolStake > totalStake {
		poolStake = totalStake
	}

	sigma := new(big.Rat).SetFrac(
		new(big.Int).SetUint64(poolStake),
		new(big.Int).SetUint64(totalStake),
	)

	// (1-f)^σ = exp(σ * ln(1-f)), via Taylor expansion on exact rationals
	oneMinusFPowerSigma := common.ExpRat(
		new(big.Rat).Mul(sigma, common.LnOneMinus(activeSlotCoeff)),
	)

	probability := new(big.Rat).Sub(
		big.NewRat(1, 1),
		oneMinusFPowerSigma,
	)

	// threshold = floor(probability * 2^256)
	threshold := new(big.Int).Mul(probability.Num(), twoTo256)
	threshold.Div(threshold, probability.Denom())

	return threshold
}

// VrfLeaderValue computes the leader value from a VRF output, applying
// domain separation by hashing with an "L" prefix:
//
//	leaderValue = BLAKE2b-256("L" || vrfOutput)
func VrfLeaderValue(vrfOutput []byte) []byte {
	data := append([]byte{0x4C}, vrfOutput...)
	hash := common.Blake2b256Hash(data)
	return hash.Bytes()
}

// VRFOutputToInt interprets a leader value as an unsigned big-endian
// integer for comparison against the threshold
func VRFOutputToInt(output []byte) *big.Int {
	return new(big.Int).SetBytes(output)
}

// IsVRFOutputBelowThreshold reports whether a VRF output makes the pool a
// slot leader: it hashes the output into a leader value and compares it
// against the threshold
func IsVRFOutputBelowThreshold(vrfOutput []byte, threshold *big.Int) bool {
	if threshold == nil || len(vrfOutput) == 0 {
		return false
	}
	vrfInt := VRFOutputToInt(VrfLeaderValue(vrfOutput))
	return vrfInt.Cmp(threshold) < 0
}

// IsSlotLeader is the full eligibility predicate from pre-computed
// components: the pool's stake, the total active stake, the active slot
// coefficient, and the slot's VRF output
func IsSlotLeader(
	vrfOutput []byte,
	poolStake uint64,
	totalStake uint64,
	activeSlotCoeff *big.Rat,
) bool {
	if activeSlotCoeff == nil || totalStake == 0 || poolStake == 0 {
		return false
	}
	threshold := CertifiedNatThreshold(poolStake, totalStake, activeSlotCoeff)
	return IsVRFOutputBelowThreshold(vrfOutput, threshold)
}
