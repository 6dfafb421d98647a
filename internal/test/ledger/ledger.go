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

// Package test_ledger provides deterministic fixtures for the ledger rule
// tests: named actors with real ed25519 keys, a transaction builder, and
// a default parameter set. Keeping this in an internal package lets every
// in-repo test share the same fixtures without exporting test-only APIs.
package test_ledger

import (
	"crypto/ed25519"
	"fmt"
	"math/big"

	"github.com/blinklabs-io/shelley-ledger/ledger/common"
	"github.com/blinklabs-io/shelley-ledger/ledger/shelley"
)

// Actor is a test participant with a real ed25519 keypair derived
// deterministically from a name
type Actor struct {
	Name    string
	PrivKey ed25519.PrivateKey
	PubKey  ed25519.PublicKey
}

// NewActor derives an actor from a name. The same name always yields the
// same keys.
func NewActor(name string) *Actor {
	seed := common.Blake2b256Hash([]byte(name))
	privKey := ed25519.NewKeyFromSeed(seed.Bytes())
	pubKey, ok := privKey.Public().(ed25519.PublicKey)
	if !ok {
		panic("unexpected ed25519 public key type")
	}
	return &Actor{
		Name:    name,
		PrivKey: privKey,
		PubKey:  pubKey,
	}
}

// KeyHash returns the hash of the actor's verification key
func (a *Actor) KeyHash() common.AddrKeyHash {
	return common.Blake2b224Hash(a.PubKey)
}

// Credential returns the actor's staking credential
func (a *Actor) Credential() common.Credential {
	return common.NewKeyCredential(a.KeyHash())
}

// PaymentAddress returns an enterprise address owned by the actor
func (a *Actor) PaymentAddress() common.Address {
	return common.NewEnterpriseAddress(a.KeyHash())
}

// BaseAddress returns an address paying to the actor and staking to the
// given staking actor
func (a *Actor) BaseAddress(stake *Actor) common.Address {
	return common.NewBaseAddress(a.KeyHash(), stake.KeyHash())
}

// Witness signs the transaction body hash with the actor's key
func (a *Actor) Witness(body *shelley.TransactionBody) common.VKeyWitness {
	return common.VKeyWitness{
		VKey:      a.PubKey,
		Signature: ed25519.Sign(a.PrivKey, body.Hash().Bytes()),
	}
}

// TxBuilder assembles a signed transaction for tests
type TxBuilder struct {
	tx      shelley.Transaction
	signers []*Actor
}

func NewTx() *TxBuilder {
	return &TxBuilder{}
}

func (b *TxBuilder) WithInput(input shelley.TransactionInput) *TxBuilder {
	b.tx.Body.TxInputs = append(b.tx.Body.TxInputs, input)
	return b
}

func (b *TxBuilder) WithOutput(
	addr common.Address,
	amount common.Coin,
) *TxBuilder {
	b.tx.Body.TxOutputs = append(
		b.tx.Body.TxOutputs,
		shelley.TransactionOutput{
			OutputAddress: addr,
			OutputAmount:  amount,
		},
	)
	return b
}

func (b *TxBuilder) WithFee(fee common.Coin) *TxBuilder {
	b.tx.Body.TxFee = fee
	return b
}

func (b *TxBuilder) WithTtl(ttl common.Slot) *TxBuilder {
	b.tx.Body.Ttl = ttl
	return b
}

func (b *TxBuilder) WithCert(cert common.Certificate) *TxBuilder {
	b.tx.Body.Certs = append(
		b.tx.Body.Certs,
		common.CertificateWrapper{
			Type:        cert.Type(),
			Certificate: cert,
		},
	)
	return b
}

func (b *TxBuilder) WithWithdrawal(
	cred common.Credential,
	amount common.Coin,
) *TxBuilder {
	if b.tx.Body.Withdrawals == nil {
		b.tx.Body.Withdrawals = map[common.Credential]common.Coin{}
	}
	b.tx.Body.Withdrawals[cred] = amount
	return b
}

func (b *TxBuilder) SignedBy(actors ...*Actor) *TxBuilder {
	b.signers = append(b.signers, actors...)
	return b
}

// Tx returns the assembled transaction with witnesses from every signer
func (b *TxBuilder) Tx() *shelley.Transaction {
	tx := b.tx
	for _, signer := range b.signers {
		tx.WitnessSet.VkeyWitnesses = append(
			tx.WitnessSet.VkeyWitnesses,
			signer.Witness(&tx.Body),
		)
	}
	return &tx
}

// RegKeyCert returns a stake key registration certificate for the actor
func RegKeyCert(actor *Actor) common.Certificate {
	return &common.StakeRegistrationCertificate{
		CertType:        common.CertificateTypeStakeRegistration,
		StakeCredential: actor.Credential(),
	}
}

// DeregKeyCert returns a stake key deregistration certificate for the actor
func DeregKeyCert(actor *Actor) common.Certificate {
	return &common.StakeDeregistrationCertificate{
		CertType:        common.CertificateTypeStakeDeregistration,
		StakeCredential: actor.Credential(),
	}
}

// DelegateCert returns a delegation certificate from the actor to the pool
func DelegateCert(actor *Actor, pool common.PoolKeyHash) common.Certificate {
	return &common.StakeDelegationCertificate{
		CertType:        common.CertificateTypeStakeDelegation,
		StakeCredential: actor.Credential(),
		PoolKeyHash:     pool,
	}
}

// GenesisUtxo returns a transaction input usable as a genesis entry
func GenesisUtxo(label string, idx uint32) shelley.TransactionInput {
	return shelley.NewTransactionInput(
		common.Blake2b256Hash([]byte(fmt.Sprintf("genesis-%s", label))),
		idx,
	)
}

// Pparams returns a parameter set with simple values for rule tests:
// no fee minimum, no deposit decay, and no minimum output value unless a
// test overrides them
func Pparams() *shelley.ProtocolParameters {
	return &shelley.ProtocolParameters{
		MaxTxSize:       16384,
		KeyDeposit:      7,
		PoolDeposit:     250,
		MaxEpoch:        18,
		NOpt:            100,
		A0:              big.NewRat(3, 10),
		Rho:             big.NewRat(1, 1000),
		Tau:             big.NewRat(1, 5),
		ActiveSlotCoeff: big.NewRat(1, 20),
		MovingAvgWeight: big.NewRat(1, 2),
		SlotsPerEpoch:   100,
	}
}
