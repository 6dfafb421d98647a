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
	"sync"
	"testing"

	test_ledger "github.com/blinklabs-io/shelley-ledger/internal/test/ledger"
	"github.com/blinklabs-io/shelley-ledger/ledger/common"
	"github.com/blinklabs-io/shelley-ledger/ledger/shelley"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// TestParallelTraces runs the same transaction trace concurrently against
// copies of one initial state. Transitions share no mutable state, so
// every trace must produce the identical result with no synchronization.
func TestParallelTraces(t *testing.T) {
	ls, genesisInput := genesisState()
	env := shelley.LedgerEnv{Slot: 0, Pparams: test_ledger.Pparams()}
	tx := test_ledger.NewTx().
		WithInput(genesisInput).
		WithOutput(bob.PaymentAddress(), 3000).
		WithOutput(alice.PaymentAddress(), 6400).
		WithFee(600).
		WithTtl(100).
		SignedBy(alice).
		Tx()

	const traces = 16
	results := make([]shelley.LedgerState, traces)
	errs := make([]error, traces)
	var wg sync.WaitGroup
	for i := 0; i < traces; i++ {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i], errs[i] = shelley.ApplyTx(env, ls.Copy(), tx)
		}()
	}
	wg.Wait()

	for i := 0; i < traces; i++ {
		require.NoError(t, errs[i])
		assert.Equal(t, results[0].UtxoState.Utxos, results[i].UtxoState.Utxos)
		assert.Equal(t, common.Coin(600), results[i].UtxoState.Fees)
	}
	// Shared pre-state never observed a write
	assert.Contains(t, ls.UtxoState.Utxos, genesisInput)
	assert.Equal(t, common.Coin(0), ls.UtxoState.Fees)
}

func TestLedgerStateCopyNoAliasing(t *testing.T) {
	ls, genesisInput := genesisState()
	ls.DPState.DState.StakeKeys[alice.Credential()] = 0
	ls.DPState.DState.Rewards[alice.Credential()] = 10

	copied := ls.Copy()
	copied.UtxoState.Utxos[genesisInput] = shelley.TransactionOutput{
		OutputAddress: bob.PaymentAddress(),
		OutputAmount:  1,
	}
	copied.DPState.DState.Rewards[alice.Credential()] = 999

	assert.Equal(
		t,
		common.Coin(10000),
		ls.UtxoState.Utxos[genesisInput].OutputAmount,
	)
	assert.Equal(
		t,
		common.Coin(10),
		ls.DPState.DState.Rewards[alice.Credential()],
	)
}
