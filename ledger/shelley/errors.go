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
	"strings"

	"github.com/blinklabs-io/shelley-ledger/ledger/common"
)

// BadInputsUtxoError is raised when a transaction spends inputs that are
// not present in the UTxO set
type BadInputsUtxoError struct {
	Inputs []TransactionInput
}

func (e BadInputsUtxoError) Error() string {
	tmpInputs := make([]string, len(e.Inputs))
	for i, input := range e.Inputs {
		tmpInputs[i] = input.String()
	}
	return "bad inputs: " + strings.Join(tmpInputs, ", ")
}

// ExpiredUtxoError is raised when a transaction is applied in a slot past
// its declared time-to-live
type ExpiredUtxoError struct {
	Ttl  common.Slot
	Slot common.Slot
}

func (e ExpiredUtxoError) Error() string {
	return fmt.Sprintf(
		"expired UTxO: TTL %d, slot %d",
		e.Ttl,
		e.Slot,
	)
}

// InputSetEmptyUtxoError is raised when a transaction spends no inputs
type InputSetEmptyUtxoError struct{}

func (InputSetEmptyUtxoError) Error() string {
	return "input set empty"
}

// FeeTooSmallUtxoError is raised when the declared fee is below the
// minimum implied by the fee policy and the transaction size
type FeeTooSmallUtxoError struct {
	Provided common.Coin
	Min      common.Coin
}

func (e FeeTooSmallUtxoError) Error() string {
	return fmt.Sprintf(
		"fee too small: provided %d, minimum %d",
		e.Provided,
		e.Min,
	)
}

// ValueNotConservedUtxoError is raised when the value consumed by a
// transaction differs from the value it produces
type ValueNotConservedUtxoError struct {
	Consumed common.Coin
	Produced common.Coin
}

func (e ValueNotConservedUtxoError) Error() string {
	return fmt.Sprintf(
		"value not conserved: consumed %d, produced %d",
		e.Consumed,
		e.Produced,
	)
}

// OutputTooSmallUtxoError is raised when a transaction creates outputs
// below the minimum UTxO value
type OutputTooSmallUtxoError struct {
	Outputs []TransactionOutput
}

func (e OutputTooSmallUtxoError) Error() string {
	tmpOutputs := make([]string, len(e.Outputs))
	for i, output := range e.Outputs {
		tmpOutputs[i] = output.String()
	}
	return "output too small: " + strings.Join(tmpOutputs, ", ")
}

// MaxTxSizeUtxoError is raised when the serialized transaction body
// exceeds the protocol limit
type MaxTxSizeUtxoError struct {
	TxSize    uint
	MaxTxSize uint
}

func (e MaxTxSizeUtxoError) Error() string {
	return fmt.Sprintf(
		"transaction size %d exceeds limit %d",
		e.TxSize,
		e.MaxTxSize,
	)
}

// IncorrectRewardsError is raised when a withdrawal does not match the
// full current balance of the named reward account
type IncorrectRewardsError struct {
	Withdrawals []common.Credential
}

func (e IncorrectRewardsError) Error() string {
	tmpCreds := make([]string, len(e.Withdrawals))
	for i, cred := range e.Withdrawals {
		tmpCreds[i] = cred.String()
	}
	return "incorrect withdrawal amounts for: " + strings.Join(tmpCreds, ", ")
}

// InvalidWitnessesError is raised when a witness signature does not
// verify against the transaction body hash
type InvalidWitnessesError struct {
	Witnesses []common.AddrKeyHash
}

func (e InvalidWitnessesError) Error() string {
	return "invalid witnesses: " + joinKeyHashes(e.Witnesses)
}

// MissingVkeyWitnessesError is raised when a key that must sign the
// transaction has no witness in the witness set
type MissingVkeyWitnessesError struct {
	KeyHashes []common.AddrKeyHash
}

func (e MissingVkeyWitnessesError) Error() string {
	return "missing vkey witnesses: " + joinKeyHashes(e.KeyHashes)
}

// ExtraneousVkeyWitnessesError is raised when the witness set contains
// signatures from keys the transaction does not require
type ExtraneousVkeyWitnessesError struct {
	KeyHashes []common.AddrKeyHash
}

func (e ExtraneousVkeyWitnessesError) Error() string {
	return "extraneous vkey witnesses: " + joinKeyHashes(e.KeyHashes)
}

func joinKeyHashes(keyHashes []common.AddrKeyHash) string {
	tmpHashes := make([]string, len(keyHashes))
	for i, keyHash := range keyHashes {
		tmpHashes[i] = keyHash.String()
	}
	return strings.Join(tmpHashes, ", ")
}

// StakeKeyAlreadyRegisteredError is raised when registering a stake
// credential that is already registered
type StakeKeyAlreadyRegisteredError struct {
	Credential common.Credential
}

func (e StakeKeyAlreadyRegisteredError) Error() string {
	return "stake key already registered: " + e.Credential.String()
}

// StakeKeyNotRegisteredError is raised when deregistering or delegating
// a stake credential that is not registered
type StakeKeyNotRegisteredError struct {
	Credential common.Credential
}

func (e StakeKeyNotRegisteredError) Error() string {
	return "stake key not registered: " + e.Credential.String()
}

// StakeKeyNonZeroBalanceError is raised when deregistering a stake
// credential whose reward account still holds value
type StakeKeyNonZeroBalanceError struct {
	Credential common.Credential
	Balance    common.Coin
}

func (e StakeKeyNonZeroBalanceError) Error() string {
	return fmt.Sprintf(
		"stake key %s has non-zero reward balance %d",
		e.Credential.String(),
		e.Balance,
	)
}

// StakeDelegationImpossibleError is raised when a delegation certificate
// names a credential that is not a registered stake key
type StakeDelegationImpossibleError struct {
	Credential common.Credential
}

func (e StakeDelegationImpossibleError) Error() string {
	return "stake delegation impossible: " + e.Credential.String()
}

// StakePoolNotRegisteredError is raised when retiring or delegating to a
// pool that is not registered
type StakePoolNotRegisteredError struct {
	PoolKeyHash common.PoolKeyHash
}

func (e StakePoolNotRegisteredError) Error() string {
	return "stake pool not registered: " + e.PoolKeyHash.String()
}

// StakePoolCostTooLowError is raised when a pool registration declares a
// fixed cost below the protocol minimum
type StakePoolCostTooLowError struct {
	Cost        common.Coin
	MinPoolCost common.Coin
}

func (e StakePoolCostTooLowError) Error() string {
	return fmt.Sprintf(
		"stake pool cost %d below minimum %d",
		e.Cost,
		e.MinPoolCost,
	)
}

// WrongRetirementEpochError is raised when a pool retirement names an
// epoch outside the allowed window
type WrongRetirementEpochError struct {
	Specified  common.Epoch
	FirstValid common.Epoch
	LastValid  common.Epoch
}

func (e WrongRetirementEpochError) Error() string {
	return fmt.Sprintf(
		"wrong retirement epoch %d: must be within (%d, %d]",
		e.Specified,
		e.FirstValid,
		e.LastValid,
	)
}

// RegCertWithdrawalError is raised when a credential registered by a
// certificate in a transaction also appears in that transaction's
// withdrawals
type RegCertWithdrawalError struct {
	Credential common.Credential
}

func (e RegCertWithdrawalError) Error() string {
	return "registration certificate credential appears in withdrawals: " +
		e.Credential.String()
}

// DeregCertNoWithdrawalError is raised when a deregistration certificate's
// credential does not appear in the transaction's withdrawals. Rewards
// must be swept in the same transaction that deregisters the key.
type DeregCertNoWithdrawalError struct {
	Credential common.Credential
}

func (e DeregCertNoWithdrawalError) Error() string {
	return "deregistration certificate credential missing from withdrawals: " +
		e.Credential.String()
}

// DelegateNotRegisteredPoolError is raised when a delegation certificate
// in a transaction targets a pool that is neither registered nor
// registered earlier in the same certificate batch
type DelegateNotRegisteredPoolError struct {
	PoolKeyHash common.PoolKeyHash
}

func (e DelegateNotRegisteredPoolError) Error() string {
	return "delegation target pool not registered: " + e.PoolKeyHash.String()
}

// DeregCertPoolConflictError is raised when a deregistration certificate's
// credential is an active pool or a pool pending retirement
type DeregCertPoolConflictError struct {
	Credential common.Credential
}

func (e DeregCertPoolConflictError) Error() string {
	return "deregistration credential is an active or retiring pool: " +
		e.Credential.String()
}

// ExcessObligationError is raised at an epoch boundary when the deposit
// pot does not cover the recomputed obligation. It indicates state
// corruption and is fatal rather than a rule failure.
type ExcessObligationError struct {
	Obligation common.Coin
	Deposited  common.Coin
}

func (e ExcessObligationError) Error() string {
	return fmt.Sprintf(
		"obligation %d exceeds deposit pot %d",
		e.Obligation,
		e.Deposited,
	)
}

// UtxoFailure wraps a failure raised by the UTXO rules
type UtxoFailure struct {
	Err error
}

func (e UtxoFailure) Error() string {
	return "UTXO rule failure: " + e.Err.Error()
}

func (e UtxoFailure) Unwrap() error {
	return e.Err
}

// UtxowFailure wraps a failure raised by the witnessed UTXO rules
type UtxowFailure struct {
	Err error
}

func (e UtxowFailure) Error() string {
	return "UTXOW rule failure: " + e.Err.Error()
}

func (e UtxowFailure) Unwrap() error {
	return e.Err
}

// DelegFailure wraps a failure raised by the stake delegation rules
type DelegFailure struct {
	Err error
}

func (e DelegFailure) Error() string {
	return "DELEG rule failure: " + e.Err.Error()
}

func (e DelegFailure) Unwrap() error {
	return e.Err
}

// PoolFailure wraps a failure raised by the stake pool rules
type PoolFailure struct {
	Err error
}

func (e PoolFailure) Error() string {
	return "POOL rule failure: " + e.Err.Error()
}

func (e PoolFailure) Unwrap() error {
	return e.Err
}

// DelplFailure wraps a certificate failure with the position of the
// certificate within the transaction
type DelplFailure struct {
	CertIndex int
	Err       error
}

func (e DelplFailure) Error() string {
	return fmt.Sprintf(
		"certificate %d failure: %s",
		e.CertIndex,
		e.Err.Error(),
	)
}

func (e DelplFailure) Unwrap() error {
	return e.Err
}

// DelegsFailure wraps a failure raised by the certificate sequence rules
type DelegsFailure struct {
	Err error
}

func (e DelegsFailure) Error() string {
	return "DELEGS rule failure: " + e.Err.Error()
}

func (e DelegsFailure) Unwrap() error {
	return e.Err
}

// DelegtFailure wraps a failure raised by the transaction-level
// delegation rules
type DelegtFailure struct {
	Err error
}

func (e DelegtFailure) Error() string {
	return "DELEGT rule failure: " + e.Err.Error()
}

func (e DelegtFailure) Unwrap() error {
	return e.Err
}
