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

package shelley_test

import (
	"math/big"
	"testing"

	test_ledger "github.com/blinklabs-io/shelley-ledger/internal/test/ledger"
	"github.com/blinklabs-io/shelley-ledger/ledger/common"
	"github.com/blinklabs-io/shelley-ledger/ledger/shelley"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMaxPool(t *testing.T) {
	pp := test_ledger.Pparams()
	pp.NOpt = 2
	pp.A0 = new(big.Rat)

	t.Run("unsaturated pool earns its stake share", func(t *testing.T) {
		cap := shelley.MaxPool(pp, 1000, big.NewRat(1, 2), new(big.Rat))
		assert.Equal(t, common.Coin(500), cap)
	})

	t.Run("stake beyond saturation earns nothing extra", func(t *testing.T) {
		saturated := shelley.MaxPool(pp, 1000, big.NewRat(1, 2), new(big.Rat))
		oversized := shelley.MaxPool(pp, 1000, big.NewRat(3, 4), new(big.Rat))
		assert.Equal(t, saturated, oversized)
	})

	t.Run("pledge raises the cap when influence is set", func(t *testing.T) {
		influenced := test_ledger.Pparams()
		influenced.NOpt = 2
		influenced.A0 = big.NewRat(3, 10)
		unpledged := shelley.MaxPool(
			influenced,
			1000,
			big.NewRat(1, 2),
			new(big.Rat),
		)
		pledged := shelley.MaxPool(
			influenced,
			1000,
			big.NewRat(1, 2),
			big.NewRat(1, 2),
		)
		assert.Greater(t, pledged, unpledged)
	})

	t.Run("cap never exceeds the pot", func(t *testing.T) {
		for nOpt := uint(1); nOpt <= 10; nOpt++ {
			capPp := test_ledger.Pparams()
			capPp.NOpt = nOpt
			cap := shelley.MaxPool(
				capPp,
				1000,
				big.NewRat(1, 1),
				big.NewRat(1, 1),
			)
			assert.LessOrEqual(t, cap, common.Coin(1000), "nOpt %d", nOpt)
		}
	})
}

// rewardFixture builds a state where a single pool holds half of a 10000
// total stake: alice delegates 3000, the pool owner delegates 2000, and
// bob holds 5000 undelegated
func rewardFixture(
	cost common.Coin,
) (shelley.LedgerState, *test_ledger.Actor, common.PoolKeyHash) {
	poolOp := test_ledger.NewActor("pool-op")
	pool := poolOp.KeyHash()
	ls := shelley.NewLedgerState()
	ds := &ls.DPState.DState
	for _, actor := range []*test_ledger.Actor{alice, bob, poolOp} {
		ds.StakeKeys[actor.Credential()] = 0
		ds.Rewards[actor.Credential()] = 0
	}
	ds.Delegations[alice.Credential()] = pool
	ds.Delegations[poolOp.Credential()] = pool
	params := simplePoolCert(poolOp)
	params.Cost = cost
	ls.DPState.PState.StakePools[pool] = 0
	ls.DPState.PState.PoolParams[pool] = params
	ls.UtxoState.Utxos[test_ledger.GenesisUtxo("alice", 0)] =
		shelley.TransactionOutput{
			OutputAddress: alice.BaseAddress(alice),
			OutputAmount:  3000,
		}
	ls.UtxoState.Utxos[test_ledger.GenesisUtxo("pool-op", 0)] =
		shelley.TransactionOutput{
			OutputAddress: poolOp.BaseAddress(poolOp),
			OutputAmount:  2000,
		}
	ls.UtxoState.Utxos[test_ledger.GenesisUtxo("bob", 0)] =
		shelley.TransactionOutput{
			OutputAddress: bob.BaseAddress(bob),
			OutputAmount:  5000,
		}
	return ls, poolOp, pool
}

func TestCalculateRewardsSplit(t *testing.T) {
	pp := test_ledger.Pparams()
	pp.NOpt = 2
	pp.A0 = new(big.Rat)
	ls, poolOp, pool := rewardFixture(0)

	sd := shelley.CalcStakeDistribution(ls)
	require.Equal(t, common.Coin(10000), sd.Total)
	require.Equal(t, common.Coin(5000), sd.ByPool[pool])

	rewards, paid := shelley.CalculateRewards(pp, 1000, sd, ls.DPState)

	// sigma = 1/2, cap = floor(1000/2) = 500, full performance. The
	// owner takes their stake-proportional leader share and alice the
	// member share.
	assert.Equal(t, common.Coin(200), rewards[poolOp.Credential()])
	assert.Equal(t, common.Coin(300), rewards[alice.Credential()])
	assert.Equal(t, common.Coin(500), paid)
	assert.NotContains(t, rewards, bob.Credential())

	cap := shelley.MaxPool(pp, 1000, big.NewRat(1, 2), new(big.Rat))
	assert.LessOrEqual(t, paid, cap)
	assert.LessOrEqual(t, cap, common.Coin(1000))
}

func TestCalculateRewardsCostExceedsReward(t *testing.T) {
	pp := test_ledger.Pparams()
	pp.NOpt = 2
	pp.A0 = new(big.Rat)
	ls, poolOp, _ := rewardFixture(600)

	sd := shelley.CalcStakeDistribution(ls)
	rewards, paid := shelley.CalculateRewards(pp, 1000, sd, ls.DPState)

	// Pool reward 500 does not cover the declared cost 600: the whole
	// reward goes to the operator and members get nothing
	assert.Equal(t, common.Coin(500), rewards[poolOp.Credential()])
	assert.NotContains(t, rewards, alice.Credential())
	assert.Equal(t, common.Coin(500), paid)
}

func TestCalculateRewardsPerformanceScaling(t *testing.T) {
	pp := test_ledger.Pparams()
	pp.NOpt = 2
	pp.A0 = new(big.Rat)
	ls, _, pool := rewardFixture(0)
	ls.DPState.PState.Avgs[pool] = big.NewRat(1, 2)

	sd := shelley.CalcStakeDistribution(ls)
	_, paid := shelley.CalculateRewards(pp, 1000, sd, ls.DPState)

	// Half performance halves the pool reward: floor(500 * 1/2) = 250
	assert.Equal(t, common.Coin(250), paid)
}

func TestCalcStakeDistributionPointerAddress(t *testing.T) {
	ls := shelley.NewLedgerState()
	ptr := common.Ptr{Slot: 5, TxIx: 0, CertIx: 0}
	ls.DPState.DState.StakeKeys[alice.Credential()] = 5
	ls.DPState.DState.Rewards[alice.Credential()] = 25
	ls.DPState.DState.Ptrs[ptr] = alice.Credential()
	ls.UtxoState.Utxos[test_ledger.GenesisUtxo("alice", 0)] =
		shelley.TransactionOutput{
			OutputAddress: common.NewPointerAddress(alice.KeyHash(), ptr),
			OutputAmount:  1000,
		}

	sd := shelley.CalcStakeDistribution(ls)
	// Pointer-addressed output plus reward balance
	assert.Equal(t, common.Coin(1025), sd.ByCredential[alice.Credential()])
	assert.Equal(t, common.Coin(1025), sd.Total)
}

func TestUpdateAvgs(t *testing.T) {
	pp := test_ledger.Pparams()
	ls, _, pool := rewardFixture(0)
	ls.DPState.PState.Avgs[pool] = big.NewRat(1, 1)
	sd := shelley.CalcStakeDistribution(ls)

	// sigma = 1/2, expected = 1/2 * 1/20 * 100 = 2.5 blocks; producing
	// five doubles the observation, smoothed by the 1/2 weight:
	// 1/2*1 + 1/2*2 = 3/2
	avgs := shelley.UpdateAvgs(
		pp,
		ls.DPState.PState,
		map[common.PoolKeyHash]uint64{pool: 5},
		sd,
	)
	require.NotNil(t, avgs[pool])
	assert.Zero(t, avgs[pool].Cmp(big.NewRat(3, 2)))
}
