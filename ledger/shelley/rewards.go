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

// StakeDistribution aggregates the stake controlled by each registered
// credential and, through delegation edges, by each pool
type StakeDistribution struct {
	Total        common.Coin
	ByCredential map[common.Credential]common.Coin
	ByPool       map[common.PoolKeyHash]common.Coin
}

// CalcStakeDistribution computes the active stake distribution from the
// UTxO set and reward balances. An output's stake follows its address's
// staking part, with pointer addresses resolved through the registration
// pointer map. Only registered credentials hold stake; only delegated
// stake counts toward a pool.
func CalcStakeDistribution(ls LedgerState) StakeDistribution {
	sd := StakeDistribution{
		ByCredential: map[common.Credential]common.Coin{},
		ByPool:       map[common.PoolKeyHash]common.Coin{},
	}
	ds := ls.DPState.DState
	addStake := func(cred common.Credential, amount common.Coin) {
		if _, ok := ds.StakeKeys[cred]; !ok {
			return
		}
		sd.ByCredential[cred] += amount
		sd.Total += amount
		if pool, ok := ds.Delegations[cred]; ok {
			sd.ByPool[pool] += amount
		}
	}
	for _, output := range ls.UtxoState.Utxos {
		addr := output.OutputAddress
		if cred := addr.StakeCredential(); cred != nil {
			addStake(*cred, output.OutputAmount)
		} else if addr.StakePtr != nil {
			if cred, ok := ds.Ptrs[*addr.StakePtr]; ok {
				addStake(cred, output.OutputAmount)
			}
		}
	}
	for cred, balance := range ds.Rewards {
		addStake(cred, balance)
	}
	return sd
}

// MaxPool returns the saturation-capped reward bound for a pool:
//
//	R/(1+a0) * (s' + p'*a0*(s' - p'*(z0-s')/z0)/z0)
//
// where z0 = 1/nOpt, s' is the pool's stake share capped at z0, and p'
// is its pledge share capped at z0. Stake beyond the 1/nOpt saturation
// point earns nothing, which keeps pools from growing without bound.
func MaxPool(
	pp *ProtocolParameters,
	rewardPot common.Coin,
	sigma *big.Rat,
	pledgeRatio *big.Rat,
) common.Coin {
	if pp.NOpt == 0 {
		return 0
	}
	z0 := big.NewRat(1, int64(pp.NOpt)) // #nosec G115
	sCapped := new(big.Rat).Set(sigma)
	if sCapped.Cmp(z0) > 0 {
		sCapped.Set(z0)
	}
	pCapped := new(big.Rat).Set(pledgeRatio)
	if pCapped.Cmp(z0) > 0 {
		pCapped.Set(z0)
	}
	a0 := pp.A0
	if a0 == nil {
		a0 = new(big.Rat)
	}
	// p' * (z0 - s') / z0
	inner := new(big.Rat).Sub(z0, sCapped)
	inner.Quo(inner, z0)
	inner.Mul(inner, pCapped)
	// s' - inner
	inner.Sub(sCapped, inner)
	// p' * a0 * inner / z0
	factor := new(big.Rat).Mul(pCapped, a0)
	factor.Mul(factor, inner)
	factor.Quo(factor, z0)
	// s' + factor
	factor.Add(factor, sCapped)
	// R / (1 + a0) * factor
	denom := new(big.Rat).SetInt64(1)
	denom.Add(denom, a0)
	ret := rewardPot.ToRat()
	ret.Quo(ret, denom)
	ret.Mul(ret, factor)
	return common.FloorCoin(ret)
}

// poolPerformance returns the pool's reward weighting from its moving
// average, clamped to [0, 1]. A pool with no history is weighted fully.
func poolPerformance(ps PState, pool common.PoolKeyHash) *big.Rat {
	avg, ok := ps.Avgs[pool]
	if !ok {
		return big.NewRat(1, 1)
	}
	if avg.Sign() < 0 {
		return new(big.Rat)
	}
	if avg.Cmp(big.NewRat(1, 1)) > 0 {
		return big.NewRat(1, 1)
	}
	return new(big.Rat).Set(avg)
}

// leaderReward returns the pool operator's share of the pool reward:
// the declared cost plus a margin-weighted share of the remainder,
// growing with the owners' own stake. A reward at or below the cost goes
// to the operator in full.
func leaderReward(
	poolReward common.Coin,
	cost common.Coin,
	margin *big.Rat,
	ownerStake common.Coin,
	poolStake common.Coin,
) common.Coin {
	if poolReward <= cost {
		return poolReward
	}
	remainder := (poolReward - cost).ToRat()
	share := new(big.Rat).SetInt64(1)
	share.Sub(share, margin)
	if poolStake > 0 {
		stakeFrac := ownerStake.ToRat()
		stakeFrac.Quo(stakeFrac, poolStake.ToRat())
		share.Mul(share, stakeFrac)
	} else {
		share.SetInt64(0)
	}
	share.Add(share, margin)
	remainder.Mul(remainder, share)
	return cost + common.FloorCoin(remainder)
}

// memberReward returns a delegating member's share of the pool reward:
// their stake-proportional slice of the after-cost remainder, less the
// pool margin. Nothing is owed when the reward does not cover the cost.
func memberReward(
	poolReward common.Coin,
	cost common.Coin,
	margin *big.Rat,
	memberStake common.Coin,
	poolStake common.Coin,
) common.Coin {
	if poolReward <= cost || poolStake == 0 {
		return 0
	}
	ret := (poolReward - cost).ToRat()
	share := new(big.Rat).SetInt64(1)
	share.Sub(share, margin)
	ret.Mul(ret, share)
	stakeFrac := memberStake.ToRat()
	stakeFrac.Quo(stakeFrac, poolStake.ToRat())
	ret.Mul(ret, stakeFrac)
	return common.FloorCoin(ret)
}

// CalculateRewards splits the available reward pot across pools and their
// members. Each pool's reward is its performance-weighted saturation cap;
// the split floors every payout, so the sum paid never exceeds the pot
// and the rounding residue stays undistributed. Payments land only on
// registered reward accounts.
func CalculateRewards(
	pp *ProtocolParameters,
	available common.Coin,
	sd StakeDistribution,
	dps DPState,
) (map[common.Credential]common.Coin, common.Coin) {
	rewards := map[common.Credential]common.Coin{}
	var paid common.Coin
	ds := dps.DState
	ps := dps.PState
	pay := func(cred common.Credential, amount common.Coin) {
		if amount == 0 {
			return
		}
		if _, ok := ds.StakeKeys[cred]; !ok {
			return
		}
		rewards[cred] += amount
		paid += amount
	}
	for pool, params := range ps.PoolParams {
		poolStake := sd.ByPool[pool]
		if poolStake == 0 || sd.Total == 0 {
			continue
		}
		sigma := poolStake.ToRat()
		sigma.Quo(sigma, sd.Total.ToRat())
		pledgeRatio := params.Pledge.ToRat()
		pledgeRatio.Quo(pledgeRatio, sd.Total.ToRat())
		cap := MaxPool(pp, available, sigma, pledgeRatio)
		poolReward := new(big.Rat).Mul(poolPerformance(ps, pool), cap.ToRat())
		reward := common.FloorCoin(poolReward)
		margin := new(big.Rat)
		if params.Margin != nil && params.Margin.Rat != nil {
			margin = params.Margin.ToBigRat()
		}
		owners := map[common.Credential]struct{}{}
		var ownerStake common.Coin
		for _, owner := range params.PoolOwners {
			cred := common.NewKeyCredential(owner)
			owners[cred] = struct{}{}
			ownerStake += sd.ByCredential[cred]
		}
		pay(
			params.RewardAccount,
			leaderReward(reward, params.Cost, margin, ownerStake, poolStake),
		)
		for cred, delegatedPool := range ds.Delegations {
			if delegatedPool != pool {
				continue
			}
			if _, ok := owners[cred]; ok {
				continue
			}
			pay(
				cred,
				memberReward(
					reward,
					params.Cost,
					margin,
					sd.ByCredential[cred],
					poolStake,
				),
			)
		}
	}
	return rewards, paid
}

// UpdateAvgs returns the next epoch's performance moving averages:
//
//	avg' = w*avg + (1-w)*(blocks/expectedBlocks)
//
// where expectedBlocks = sigma * activeSlotCoeff * slotsPerEpoch. Pools
// with no stake keep their average unchanged.
func UpdateAvgs(
	pp *ProtocolParameters,
	ps PState,
	blocks map[common.PoolKeyHash]uint64,
	sd StakeDistribution,
) map[common.PoolKeyHash]*big.Rat {
	weight := pp.MovingAvgWeight
	if weight == nil {
		weight = new(big.Rat)
	}
	newAvgs := map[common.PoolKeyHash]*big.Rat{}
	for pool := range ps.StakePools {
		prior, ok := ps.Avgs[pool]
		if !ok {
			prior = big.NewRat(1, 1)
		}
		poolStake := sd.ByPool[pool]
		if poolStake == 0 || sd.Total == 0 ||
			pp.ActiveSlotCoeff == nil || pp.SlotsPerEpoch == 0 {
			newAvgs[pool] = new(big.Rat).Set(prior)
			continue
		}
		sigma := poolStake.ToRat()
		sigma.Quo(sigma, sd.Total.ToRat())
		expected := new(big.Rat).Mul(sigma, pp.ActiveSlotCoeff)
		expected.Mul(expected, new(big.Rat).SetUint64(pp.SlotsPerEpoch))
		ratio := new(big.Rat)
		if expected.Sign() > 0 {
			ratio.SetUint64(blocks[pool])
			ratio.Quo(ratio, expected)
		}
		avg := new(big.Rat).Mul(weight, prior)
		complement := new(big.Rat).SetInt64(1)
		complement.Sub(complement, weight)
		complement.Mul(complement, ratio)
		avg.Add(avg, complement)
		newAvgs[pool] = avg
	}
	return newAvgs
}
