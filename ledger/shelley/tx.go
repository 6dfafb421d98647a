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
	"fmt"
	"sort"

	"github.com/blinklabs-io/shelley-ledger/cbor"
	"github.com/blinklabs-io/shelley-ledger/ledger/common"
)

// TransactionInput references a prior transaction's output by the
// transaction body hash and output index
type TransactionInput struct {
	cbor.StructAsArray
	TxId        common.TxId
	OutputIndex uint32
}

func NewTransactionInput(txId common.TxId, outputIndex uint32) TransactionInput {
	return TransactionInput{
		TxId:        txId,
		OutputIndex: outputIndex,
	}
}

func (i TransactionInput) String() string {
	return fmt.Sprintf("%s#%d", i.TxId, i.OutputIndex)
}

// TransactionOutput pays an amount to an address
type TransactionOutput struct {
	cbor.StructAsArray
	OutputAddress common.Address
	OutputAmount  common.Coin
}

func (o TransactionOutput) String() string {
	return fmt.Sprintf("%s+%d", o.OutputAddress.String(), o.OutputAmount)
}

// TransactionBody is the signed portion of a transaction. The body is
// immutable once witnessed: witness validity is checked against the
// body's content hash.
type TransactionBody struct {
	cbor.StructAsArray
	cbor.DecodeStoreCbor
	TxInputs    []TransactionInput
	TxOutputs   []TransactionOutput
	Certs       []common.CertificateWrapper
	Withdrawals map[common.Credential]common.Coin
	TxFee       common.Coin
	Ttl         common.Slot
}

func (b *TransactionBody) UnmarshalCBOR(cborData []byte) error {
	return b.UnmarshalCborGeneric(cborData, b)
}

// MarshalCBOR returns the original bytes for a decoded body so the body
// hash stays stable across a decode/encode round trip
func (b *TransactionBody) MarshalCBOR() ([]byte, error) {
	if b.Cbor() != nil {
		return b.Cbor(), nil
	}
	return cbor.EncodeGeneric(b)
}

// bodyCbor returns the stored CBOR for the body, encoding on demand when
// the body was constructed in memory rather than decoded
func (b *TransactionBody) bodyCbor() []byte {
	bodyCbor := b.Cbor()
	if len(bodyCbor) == 0 {
		var err error
		bodyCbor, err = cbor.Encode(b)
		if err != nil {
			panic(
				fmt.Sprintf(
					"unexpected error encoding transaction body: %s",
					err,
				),
			)
		}
		b.SetCbor(bodyCbor)
	}
	return bodyCbor
}

// Hash returns the blake2b-256 hash of the body CBOR. This is both the
// transaction identity used for new outputs and the message signed by
// witnesses.
func (b *TransactionBody) Hash() common.TxId {
	return common.Blake2b256Hash(b.bodyCbor())
}

// Size returns the serialized byte length of the body, the basis for the
// minimum fee calculation
func (b *TransactionBody) Size() uint {
	return uint(len(b.bodyCbor()))
}

// Certificates returns the body's certificates in the order they appear
func (b *TransactionBody) Certificates() []common.Certificate {
	ret := make([]common.Certificate, len(b.Certs))
	for i, cert := range b.Certs {
		ret[i] = cert.Certificate
	}
	return ret
}

// SortedWithdrawals returns the withdrawal accounts in a stable order so
// that failure reporting is deterministic
func (b *TransactionBody) SortedWithdrawals() []common.Credential {
	ret := make([]common.Credential, 0, len(b.Withdrawals))
	for cred := range b.Withdrawals {
		ret = append(ret, cred)
	}
	sort.Slice(ret, func(i, j int) bool {
		if ret[i].CredType != ret[j].CredType {
			return ret[i].CredType < ret[j].CredType
		}
		return string(ret[i].Credential[:]) < string(ret[j].Credential[:])
	})
	return ret
}

// TransactionWitnessSet carries the signatures over the body hash
type TransactionWitnessSet struct {
	cbor.StructAsArray
	VkeyWitnesses []common.VKeyWitness
}

// Transaction is a transaction body plus its witness set
type Transaction struct {
	cbor.StructAsArray
	cbor.DecodeStoreCbor
	Body       TransactionBody
	WitnessSet TransactionWitnessSet
}

func (t *Transaction) UnmarshalCBOR(cborData []byte) error {
	return t.UnmarshalCborGeneric(cborData, t)
}

// Id returns the transaction identity, the hash of the body
func (t *Transaction) Id() common.TxId {
	return t.Body.Hash()
}

// Consumed returns the inputs spent by the transaction
func (t *Transaction) Consumed() []TransactionInput {
	return t.Body.TxInputs
}

// Produced returns the UTxO entries the transaction creates, keyed by the
// transaction identity and output index
func (t *Transaction) Produced() map[TransactionInput]TransactionOutput {
	txId := t.Id()
	ret := make(
		map[TransactionInput]TransactionOutput,
		len(t.Body.TxOutputs),
	)
	for idx, output := range t.Body.TxOutputs {
		// #nosec G115
		ret[NewTransactionInput(txId, uint32(idx))] = output
	}
	return ret
}
