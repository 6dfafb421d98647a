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
	"errors"
	"testing"

	test_ledger "github.com/blinklabs-io/shelley-ledger/internal/test/ledger"
	"github.com/blinklabs-io/shelley-ledger/ledger/common"
	"github.com/blinklabs-io/shelley-ledger/ledger/shelley"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	alice = test_ledger.NewActor("alice")
	bob   = test_ledger.NewActor("bob")
	carol = test_ledger.NewActor("carol")
)

// genesisState returns a ledger state with a single 10000 coin output
// owned by alice
func genesisState() (shelley.LedgerState, shelley.TransactionInput) {
	ls := shelley.NewLedgerState()
	genesisInput := test_ledger.GenesisUtxo("alice", 0)
	ls.UtxoState.Utxos[genesisInput] = shelley.TransactionOutput{
		OutputAddress: alice.PaymentAddress(),
		OutputAmount:  10000,
	}
	return ls, genesisInput
}

func ledgerTotal(ls shelley.LedgerState) common.Coin {
	ret := ls.UtxoState.Balance()
	ret += ls.UtxoState.Deposited
	ret += ls.UtxoState.Fees
	for _, balance := range ls.DPState.DState.Rewards {
		ret += balance
	}
	return ret
}

func TestApplyTxPayment(t *testing.T) {
	ls, genesisInput := genesisState()
	tx := test_ledger.NewTx().
		WithInput(genesisInput).
		WithOutput(bob.PaymentAddress(), 3000).
		WithOutput(alice.PaymentAddress(), 6400).
		WithFee(600).
		WithTtl(100).
		SignedBy(alice).
		Tx()
	env := shelley.LedgerEnv{
		Slot:    0,
		Pparams: test_ledger.Pparams(),
	}
	newState, err := shelley.ApplyTx(env, ls, tx)
	require.NoError(t, err)

	// Spent input is gone, the two new outputs are keyed by the new
	// transaction identity
	assert.NotContains(t, newState.UtxoState.Utxos, genesisInput)
	require.Len(t, newState.UtxoState.Utxos, 2)
	txId := tx.Id()
	assert.Equal(
		t,
		shelley.TransactionOutput{
			OutputAddress: bob.PaymentAddress(),
			OutputAmount:  3000,
		},
		newState.UtxoState.Utxos[shelley.NewTransactionInput(txId, 0)],
	)
	assert.Equal(
		t,
		shelley.TransactionOutput{
			OutputAddress: alice.PaymentAddress(),
			OutputAmount:  6400,
		},
		newState.UtxoState.Utxos[shelley.NewTransactionInput(txId, 1)],
	)
	assert.Equal(t, common.Coin(600), newState.UtxoState.Fees)

	// The input state is untouched and value is conserved
	assert.Contains(t, ls.UtxoState.Utxos, genesisInput)
	assert.Equal(t, common.Coin(0), ls.UtxoState.Fees)
	assert.Equal(t, ledgerTotal(ls), ledgerTotal(newState))
}

func TestApplyTxFeeTooSmall(t *testing.T) {
	ls, genesisInput := genesisState()
	tx := test_ledger.NewTx().
		WithInput(genesisInput).
		WithOutput(bob.PaymentAddress(), 3000).
		WithOutput(alice.PaymentAddress(), 6999).
		WithFee(1).
		WithTtl(100).
		SignedBy(alice).
		Tx()
	pp := test_ledger.Pparams()
	pp.MinFeeA = 1
	pp.MinFeeB = 1
	env := shelley.LedgerEnv{Slot: 0, Pparams: pp}
	_, err := shelley.ApplyTx(env, ls, tx)
	require.Error(t, err)

	var feeErr shelley.FeeTooSmallUtxoError
	require.ErrorAs(t, err, &feeErr)
	assert.Equal(t, common.Coin(1), feeErr.Provided)
	assert.Equal(t, pp.MinFee(tx.Body.Size()), feeErr.Min)
}

func TestApplyTxExpired(t *testing.T) {
	ls, genesisInput := genesisState()
	tx := test_ledger.NewTx().
		WithInput(genesisInput).
		WithOutput(bob.PaymentAddress(), 9400).
		WithFee(600).
		WithTtl(0).
		SignedBy(alice).
		Tx()
	env := shelley.LedgerEnv{Slot: 1, Pparams: test_ledger.Pparams()}
	_, err := shelley.ApplyTx(env, ls, tx)
	require.Error(t, err)

	var expiredErr shelley.ExpiredUtxoError
	require.ErrorAs(t, err, &expiredErr)
	assert.Equal(t, common.Slot(0), expiredErr.Ttl)
	assert.Equal(t, common.Slot(1), expiredErr.Slot)
}

func TestApplyTxAccumulatesFailures(t *testing.T) {
	// No inputs, expired, unbalanced, undersized fee: every rule reports
	ls, _ := genesisState()
	tx := test_ledger.NewTx().
		WithOutput(bob.PaymentAddress(), 3000).
		WithFee(0).
		WithTtl(0).
		Tx()
	pp := test_ledger.Pparams()
	pp.MinFeeA = 1
	pp.MinFeeB = 1
	env := shelley.LedgerEnv{Slot: 5, Pparams: pp}
	_, err := shelley.ApplyTx(env, ls, tx)
	require.Error(t, err)

	var emptyErr shelley.InputSetEmptyUtxoError
	assert.ErrorAs(t, err, &emptyErr)
	var expiredErr shelley.ExpiredUtxoError
	assert.ErrorAs(t, err, &expiredErr)
	var feeErr shelley.FeeTooSmallUtxoError
	assert.ErrorAs(t, err, &feeErr)
	var conservedErr shelley.ValueNotConservedUtxoError
	assert.ErrorAs(t, err, &conservedErr)
	assert.Equal(t, common.Coin(0), conservedErr.Consumed)
	assert.Equal(t, common.Coin(3000), conservedErr.Produced)

	// Failures carry their origin tags
	var utxowErr shelley.UtxowFailure
	assert.ErrorAs(t, err, &utxowErr)
	var utxoErr shelley.UtxoFailure
	assert.ErrorAs(t, err, &utxoErr)
}

func TestApplyTxBadInputs(t *testing.T) {
	ls, _ := genesisState()
	bogusInput := test_ledger.GenesisUtxo("nobody", 42)
	tx := test_ledger.NewTx().
		WithInput(bogusInput).
		WithOutput(bob.PaymentAddress(), 400).
		WithFee(0).
		WithTtl(100).
		Tx()
	env := shelley.LedgerEnv{Slot: 0, Pparams: test_ledger.Pparams()}
	_, err := shelley.ApplyTx(env, ls, tx)
	require.Error(t, err)

	var badErr shelley.BadInputsUtxoError
	require.ErrorAs(t, err, &badErr)
	assert.Equal(t, []shelley.TransactionInput{bogusInput}, badErr.Inputs)
}

func TestApplyTxMaxTxSize(t *testing.T) {
	ls, genesisInput := genesisState()
	tx := test_ledger.NewTx().
		WithInput(genesisInput).
		WithOutput(bob.PaymentAddress(), 9400).
		WithFee(600).
		WithTtl(100).
		SignedBy(alice).
		Tx()
	pp := test_ledger.Pparams()
	pp.MaxTxSize = 10
	env := shelley.LedgerEnv{Slot: 0, Pparams: pp}
	_, err := shelley.ApplyTx(env, ls, tx)
	require.Error(t, err)

	var sizeErr shelley.MaxTxSizeUtxoError
	require.ErrorAs(t, err, &sizeErr)
	assert.Equal(t, tx.Body.Size(), sizeErr.TxSize)
	assert.Equal(t, uint(10), sizeErr.MaxTxSize)
	assert.Greater(t, sizeErr.TxSize, sizeErr.MaxTxSize)
}

func TestApplyTxOutputTooSmall(t *testing.T) {
	ls, genesisInput := genesisState()
	tx := test_ledger.NewTx().
		WithInput(genesisInput).
		WithOutput(bob.PaymentAddress(), 5).
		WithOutput(alice.PaymentAddress(), 9395).
		WithFee(600).
		WithTtl(100).
		SignedBy(alice).
		Tx()
	pp := test_ledger.Pparams()
	pp.MinUtxoValue = 100
	env := shelley.LedgerEnv{Slot: 0, Pparams: pp}
	_, err := shelley.ApplyTx(env, ls, tx)
	require.Error(t, err)

	var smallErr shelley.OutputTooSmallUtxoError
	require.ErrorAs(t, err, &smallErr)
	require.Len(t, smallErr.Outputs, 1)
	assert.Equal(t, common.Coin(5), smallErr.Outputs[0].OutputAmount)
}

func TestApplyTxRoundTrip(t *testing.T) {
	// Spending the created outputs back to the original owner restores
	// the original address set, though not the original input identities
	ls, genesisInput := genesisState()
	env := shelley.LedgerEnv{Slot: 0, Pparams: test_ledger.Pparams()}

	tx1 := test_ledger.NewTx().
		WithInput(genesisInput).
		WithOutput(bob.PaymentAddress(), 3000).
		WithOutput(alice.PaymentAddress(), 6400).
		WithFee(600).
		WithTtl(100).
		SignedBy(alice).
		Tx()
	midState, err := shelley.ApplyTx(env, ls, tx1)
	require.NoError(t, err)

	tx1Id := tx1.Id()
	tx2 := test_ledger.NewTx().
		WithInput(shelley.NewTransactionInput(tx1Id, 0)).
		WithInput(shelley.NewTransactionInput(tx1Id, 1)).
		WithOutput(alice.PaymentAddress(), 8800).
		WithFee(600).
		WithTtl(100).
		SignedBy(alice, bob).
		Tx()
	finalState, err := shelley.ApplyTx(env, midState, tx2)
	require.NoError(t, err)

	require.Len(t, finalState.UtxoState.Utxos, 1)
	for _, output := range finalState.UtxoState.Utxos {
		assert.Equal(t, alice.PaymentAddress(), output.OutputAddress)
	}
	assert.Equal(t, common.Coin(1200), finalState.UtxoState.Fees)
	assert.Equal(t, ledgerTotal(ls), ledgerTotal(finalState))
}

func TestApplyTxSeqOrdering(t *testing.T) {
	ls, genesisInput := genesisState()
	env := shelley.LedgerEnv{Slot: 0, Pparams: test_ledger.Pparams()}

	tx1 := test_ledger.NewTx().
		WithInput(genesisInput).
		WithOutput(bob.PaymentAddress(), 9400).
		WithFee(600).
		WithTtl(100).
		SignedBy(alice).
		Tx()
	tx2 := test_ledger.NewTx().
		WithInput(shelley.NewTransactionInput(tx1.Id(), 0)).
		WithOutput(carol.PaymentAddress(), 8800).
		WithFee(600).
		WithTtl(100).
		SignedBy(bob).
		Tx()

	t.Run("in order succeeds", func(t *testing.T) {
		newState, err := shelley.ApplyTxSeq(
			env,
			ls,
			[]*shelley.Transaction{tx1, tx2},
		)
		require.NoError(t, err)
		assert.Equal(t, common.Coin(1200), newState.UtxoState.Fees)
	})

	t.Run("out of order fails and leaves state untouched", func(t *testing.T) {
		_, err := shelley.ApplyTxSeq(
			env,
			ls,
			[]*shelley.Transaction{tx2, tx1},
		)
		require.Error(t, err)
		var badErr shelley.BadInputsUtxoError
		assert.True(t, errors.As(err, &badErr))
		assert.Contains(t, ls.UtxoState.Utxos, genesisInput)
	})
}
