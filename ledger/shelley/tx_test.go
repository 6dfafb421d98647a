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
	"testing"

	"github.com/blinklabs-io/shelley-ledger/cbor"
	test_ledger "github.com/blinklabs-io/shelley-ledger/internal/test/ledger"
	"github.com/blinklabs-io/shelley-ledger/ledger/common"
	"github.com/blinklabs-io/shelley-ledger/ledger/shelley"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransactionBodyCborStability(t *testing.T) {
	tx := test_ledger.NewTx().
		WithInput(test_ledger.GenesisUtxo("alice", 0)).
		WithOutput(bob.PaymentAddress(), 9400).
		WithFee(600).
		WithTtl(100).
		WithCert(test_ledger.RegKeyCert(alice)).
		Tx()

	bodyCbor, err := cbor.Encode(&tx.Body)
	require.NoError(t, err)

	var decoded shelley.TransactionBody
	_, err = cbor.Decode(bodyCbor, &decoded)
	require.NoError(t, err)

	// Decoding stores the original bytes, so identity and size survive
	// the round trip
	assert.Equal(t, bodyCbor, decoded.Cbor())
	assert.Equal(t, tx.Body.Hash(), decoded.Hash())
	assert.Equal(t, tx.Body.Size(), decoded.Size())

	assert.Equal(t, tx.Body.TxInputs, decoded.TxInputs)
	assert.Equal(t, common.Coin(600), decoded.TxFee)
	require.Len(t, decoded.Certs, 1)
	regCert, ok := decoded.Certs[0].Certificate.(*common.StakeRegistrationCertificate)
	require.True(t, ok)
	assert.Equal(t, alice.Credential(), regCert.StakeCredential)

	// Re-encoding a decoded body reproduces the original bytes
	reencoded, err := cbor.Encode(&decoded)
	require.NoError(t, err)
	assert.Equal(t, bodyCbor, reencoded)
}

func TestTransactionCborRoundTrip(t *testing.T) {
	tx := test_ledger.NewTx().
		WithInput(test_ledger.GenesisUtxo("alice", 0)).
		WithOutput(bob.PaymentAddress(), 9400).
		WithFee(600).
		WithTtl(100).
		SignedBy(alice).
		Tx()

	txCbor, err := cbor.Encode(tx)
	require.NoError(t, err)

	var decoded shelley.Transaction
	_, err = cbor.Decode(txCbor, &decoded)
	require.NoError(t, err)

	assert.Equal(t, txCbor, decoded.Cbor())
	assert.Equal(t, tx.Id(), decoded.Id())
	require.Len(t, decoded.WitnessSet.VkeyWitnesses, 1)
	assert.Equal(
		t,
		tx.WitnessSet.VkeyWitnesses[0].Signature,
		decoded.WitnessSet.VkeyWitnesses[0].Signature,
	)
}
