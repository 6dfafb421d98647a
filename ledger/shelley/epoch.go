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

// EpochEnv is the read-only environment for an epoch transition
type EpochEnv struct {
	// Epoch being entered
	Epoch common.Epoch
	// Blocks produced per pool in the prior epoch, supplied by the
	// chain-selection layer
	Blocks map[common.PoolKeyHash]uint64
	// NewPparams is an optional governance-supplied parameter update
	NewPparams *ProtocolParameters
}

// ApplyEpoch runs the epoch-boundary transitions in their fixed order:
// deposit pot snap, reward computation and distribution, pool retirement,
// and parameter change. The input state is never modified. An error is
// fatal: it indicates a protocol-level inconsistency, not a rejectable
// signal.
func ApplyEpoch(env EpochEnv, es EpochState) (EpochState, error) {
	newState := es.Copy()
	boundarySlot := es.Pparams.EpochInfo().FirstSlot(env.Epoch)

	decayed, err := applyUtxoEp(&newState, boundarySlot)
	if err != nil {
		return es, err
	}
	if err := applyAccnt(env, &newState, decayed); err != nil {
		return es, err
	}
	applyPoolClean(env, &newState)
	if err := applyNewPc(env, &newState, boundarySlot); err != nil {
		return es, err
	}
	return newState, nil
}

// applyUtxoEp snaps the deposit pot to the exact current refund
// obligation and drains the fee pot. The decayed deposit difference and
// the collected fees feed the reward pot.
func applyUtxoEp(es *EpochState, slot common.Slot) (common.Coin, error) {
	utxoState := &es.LedgerState.UtxoState
	obligation := Obligation(
		es.Pparams,
		es.LedgerState.DPState.DState.StakeKeys,
		es.LedgerState.DPState.PState.StakePools,
		slot,
	)
	decayed, err := utxoState.Deposited.Sub(obligation)
	if err != nil {
		return 0, ExcessObligationError{
			Obligation: obligation,
			Deposited:  utxoState.Deposited,
		}
	}
	decayed += utxoState.Fees
	utxoState.Deposited = obligation
	utxoState.Fees = 0
	return decayed, nil
}

// applyAccnt computes the epoch's reward pot, distributes it, and settles
// the treasury and reserves. Reward balances overwritten by the
// left-biased merge flow back into the undistributed pool so the total
// supply is untouched.
func applyAccnt(env EpochEnv, es *EpochState, decayed common.Coin) error {
	expansion := scaledFloor(es.Pparams.Rho, es.AccountState.Reserves)
	rewardPot := decayed + es.AccountState.RewardPool + expansion
	cut := scaledFloor(es.Pparams.Tau, rewardPot)
	available := rewardPot - cut

	sd := CalcStakeDistribution(es.LedgerState)
	rewards, paid := CalculateRewards(
		es.Pparams,
		available,
		sd,
		es.LedgerState.DPState,
	)

	reserves, err := es.AccountState.Reserves.Sub(expansion)
	if err != nil {
		return err
	}
	es.AccountState.Reserves = reserves
	es.AccountState.Treasury += cut

	var forfeited common.Coin
	dState := &es.LedgerState.DPState.DState
	for cred, amount := range rewards {
		forfeited += dState.Rewards[cred]
		dState.Rewards[cred] = amount
	}
	es.AccountState.RewardPool = available - paid + forfeited

	es.LedgerState.DPState.PState.Avgs = UpdateAvgs(
		es.Pparams,
		es.LedgerState.DPState.PState,
		env.Blocks,
		sd,
	)
	return nil
}

// applyPoolClean removes every pool scheduled to retire at the entered
// epoch from the registry, parameters, retirement schedule, and
// performance averages in one step. Delegations pointing at removed
// pools are left in place; they simply attract no rewards.
func applyPoolClean(env EpochEnv, es *EpochState) {
	pState := &es.LedgerState.DPState.PState
	for pool, epoch := range pState.Retiring {
		if epoch != env.Epoch {
			continue
		}
		delete(pState.StakePools, pool)
		delete(pState.PoolParams, pool)
		delete(pState.Retiring, pool)
		delete(pState.Avgs, pool)
	}
}

// applyNewPc applies the governance-supplied parameter set, if any, and
// settles the deposit pot against the obligation recomputed under the
// effective parameters. The difference moves to or from the reserves.
// Reserves that cannot cover an obligation increase mean the parameter
// change itself was invalid.
func applyNewPc(env EpochEnv, es *EpochState, slot common.Slot) error {
	effective := es.Pparams
	if env.NewPparams != nil {
		effective = env.NewPparams.Copy()
	}
	utxoState := &es.LedgerState.UtxoState
	oldObligation := utxoState.Deposited
	newObligation := Obligation(
		effective,
		es.LedgerState.DPState.DState.StakeKeys,
		es.LedgerState.DPState.PState.StakePools,
		slot,
	)
	if newObligation > oldObligation {
		diff := newObligation - oldObligation
		reserves, err := es.AccountState.Reserves.Sub(diff)
		if err != nil {
			return ExcessObligationError{
				Obligation: newObligation,
				Deposited:  oldObligation,
			}
		}
		es.AccountState.Reserves = reserves
	} else {
		es.AccountState.Reserves += oldObligation - newObligation
	}
	utxoState.Deposited = newObligation
	es.Pparams = effective
	return nil
}

// scaledFloor returns floor(rate * amount) for a rational rate, treating
// a nil rate as zero
func scaledFloor(rate *big.Rat, amount common.Coin) common.Coin {
	if rate == nil {
		return 0
	}
	ret := new(big.Rat).Mul(rate, amount.ToRat())
	return common.FloorCoin(ret)
}
