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

// decayParams returns parameters where a 1000 coin key deposit decays
// toward a 200 coin floor with rate 1/100 per slot
func decayParams() *shelley.ProtocolParameters {
	pp := test_ledger.Pparams()
	pp.KeyDeposit = 1000
	pp.KeyMinRefund = big.NewRat(1, 5)
	pp.KeyDecayRate = big.NewRat(1, 100)
	return pp
}

func TestKeyRefundDecay(t *testing.T) {
	pp := decayParams()

	t.Run("no time elapsed refunds the full deposit", func(t *testing.T) {
		assert.Equal(t, common.Coin(1000), shelley.KeyRefund(pp, 100, 100))
	})

	t.Run("refund decays with age", func(t *testing.T) {
		// floor(1000 * (1/5 + 4/5 * e^-1)) = floor(494.30...) = 494
		assert.Equal(t, common.Coin(494), shelley.KeyRefund(pp, 0, 100))
		// floor(1000 * (1/5 + 4/5 * e^-2)) = floor(308.27...) = 308
		assert.Equal(t, common.Coin(308), shelley.KeyRefund(pp, 0, 200))
	})

	t.Run("old registrations converge to the floor", func(t *testing.T) {
		assert.Equal(t, common.Coin(200), shelley.KeyRefund(pp, 0, 10000))
	})

	t.Run("nil decay parameters mean the full deposit", func(t *testing.T) {
		defaults := test_ledger.Pparams()
		assert.Equal(
			t,
			defaults.KeyDeposit,
			shelley.KeyRefund(defaults, 0, 10000),
		)
	})
}

func TestApplyTxDecayedRefundConservation(t *testing.T) {
	// Alice registered at slot 0 with a 1000 coin deposit and deregisters
	// at slot 100: the refund is the decayed 494, and the remaining 506
	// stays in the deposit pot for the epoch boundary to settle
	ls, genesisInput := genesisState()
	ls.UtxoState.Deposited = 1000
	ls.DPState.DState.StakeKeys[alice.Credential()] = 0
	ls.DPState.DState.Rewards[alice.Credential()] = 0

	pp := decayParams()
	env := shelley.LedgerEnv{Slot: 100, Pparams: pp}
	tx := test_ledger.NewTx().
		WithInput(genesisInput).
		WithOutput(alice.PaymentAddress(), 9894).
		WithFee(600).
		WithTtl(200).
		WithCert(test_ledger.DeregKeyCert(alice)).
		WithWithdrawal(alice.Credential(), 0).
		SignedBy(alice).
		Tx()

	newState, err := shelley.ApplyTx(env, ls, tx)
	require.NoError(t, err)

	// consumed = 10000 input + 494 refund, produced = 9894 out + 600 fee
	assert.Equal(t, common.Coin(506), newState.UtxoState.Deposited)
	assert.Equal(t, common.Coin(600), newState.UtxoState.Fees)
	assert.NotContains(t, newState.DPState.DState.StakeKeys, alice.Credential())
	assert.Equal(t, ledgerTotal(ls), ledgerTotal(newState))
}

func TestApplyTxRefundMismatch(t *testing.T) {
	// Claiming the full deposit after decay leaves the transaction
	// unbalanced by the decayed difference
	ls, genesisInput := genesisState()
	ls.UtxoState.Deposited = 1000
	ls.DPState.DState.StakeKeys[alice.Credential()] = 0
	ls.DPState.DState.Rewards[alice.Credential()] = 0

	pp := decayParams()
	env := shelley.LedgerEnv{Slot: 100, Pparams: pp}
	tx := test_ledger.NewTx().
		WithInput(genesisInput).
		WithOutput(alice.PaymentAddress(), 10400).
		WithFee(600).
		WithTtl(200).
		WithCert(test_ledger.DeregKeyCert(alice)).
		WithWithdrawal(alice.Credential(), 0).
		SignedBy(alice).
		Tx()

	_, err := shelley.ApplyTx(env, ls, tx)
	require.Error(t, err)

	var conservedErr shelley.ValueNotConservedUtxoError
	require.ErrorAs(t, err, &conservedErr)
	assert.Equal(t, common.Coin(10494), conservedErr.Consumed)
	assert.Equal(t, common.Coin(11000), conservedErr.Produced)
}
