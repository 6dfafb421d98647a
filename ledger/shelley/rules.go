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
	"github.com/blinklabs-io/shelley-ledger/ledger/common"
)

// UtxoEnv is the read-only environment for the UTxO rules
type UtxoEnv struct {
	Slot    common.Slot
	Pparams *ProtocolParameters
}

// UtxoValidationRuleFunc represents a function that validates a
// transaction against the UTxO rules. Each rule reports at most one
// failure; rules are evaluated independently and failures accumulate.
type UtxoValidationRuleFunc func(*Transaction, UtxoEnv, LedgerState) error

var utxoValidationRules = []UtxoValidationRuleFunc{
	UtxoValidateBadInputs,
	UtxoValidateExpired,
	UtxoValidateInputSetEmpty,
	UtxoValidateFeeTooSmall,
	UtxoValidateMaxTxSize,
	UtxoValidateValueNotConserved,
	UtxoValidateOutputTooSmall,
	UtxoValidateIncorrectRewards,
}

// UtxoValidateBadInputs ensures that all inputs are present in the UTxO set
func UtxoValidateBadInputs(
	tx *Transaction,
	env UtxoEnv,
	ls LedgerState,
) error {
	var badInputs []TransactionInput
	for _, input := range tx.Body.TxInputs {
		if _, ok := ls.UtxoState.Utxos[input]; !ok {
			badInputs = append(badInputs, input)
		}
	}
	if len(badInputs) > 0 {
		return BadInputsUtxoError{Inputs: badInputs}
	}
	return nil
}

// UtxoValidateExpired ensures that the current slot has not passed the
// transaction's time-to-live
func UtxoValidateExpired(
	tx *Transaction,
	env UtxoEnv,
	ls LedgerState,
) error {
	if tx.Body.Ttl >= env.Slot {
		return nil
	}
	return ExpiredUtxoError{
		Ttl:  tx.Body.Ttl,
		Slot: env.Slot,
	}
}

// UtxoValidateInputSetEmpty ensures that the transaction spends at least
// one input. Inputs are what make a transaction unique, so an empty input
// set would allow replay.
func UtxoValidateInputSetEmpty(
	tx *Transaction,
	env UtxoEnv,
	ls LedgerState,
) error {
	if len(tx.Body.TxInputs) > 0 {
		return nil
	}
	return InputSetEmptyUtxoError{}
}

// UtxoValidateFeeTooSmall ensures that the declared fee meets the minimum
// implied by the linear fee policy and the serialized body size
func UtxoValidateFeeTooSmall(
	tx *Transaction,
	env UtxoEnv,
	ls LedgerState,
) error {
	minFee := env.Pparams.MinFee(tx.Body.Size())
	if tx.Body.TxFee >= minFee {
		return nil
	}
	return FeeTooSmallUtxoError{
		Provided: tx.Body.TxFee,
		Min:      minFee,
	}
}

// UtxoValidateMaxTxSize ensures that the serialized body does not exceed
// the protocol limit. A zero limit disables the check.
func UtxoValidateMaxTxSize(
	tx *Transaction,
	env UtxoEnv,
	ls LedgerState,
) error {
	if env.Pparams.MaxTxSize == 0 {
		return nil
	}
	txSize := tx.Body.Size()
	if txSize <= env.Pparams.MaxTxSize {
		return nil
	}
	return MaxTxSizeUtxoError{
		TxSize:    txSize,
		MaxTxSize: env.Pparams.MaxTxSize,
	}
}

// UtxoValidateValueNotConserved ensures that the consumed value equals the
// produced value exactly. Consumed is spent inputs plus reward withdrawals
// plus deposit refunds for deregistrations; produced is new outputs plus
// the fee plus deposits for new registrations.
func UtxoValidateValueNotConserved(
	tx *Transaction,
	env UtxoEnv,
	ls LedgerState,
) error {
	consumed := consumedValue(tx, env, ls)
	produced := producedValue(tx, env, ls)
	if consumed == produced {
		return nil
	}
	return ValueNotConservedUtxoError{
		Consumed: consumed,
		Produced: produced,
	}
}

// UtxoValidateOutputTooSmall ensures that no output carries less than the
// minimum UTxO value
func UtxoValidateOutputTooSmall(
	tx *Transaction,
	env UtxoEnv,
	ls LedgerState,
) error {
	var badOutputs []TransactionOutput
	for _, output := range tx.Body.TxOutputs {
		if output.OutputAmount < env.Pparams.MinUtxoValue {
			badOutputs = append(badOutputs, output)
		}
	}
	if len(badOutputs) > 0 {
		return OutputTooSmallUtxoError{Outputs: badOutputs}
	}
	return nil
}

// UtxoValidateIncorrectRewards ensures that every withdrawal names a
// registered reward account and matches its full recorded balance.
// Withdrawals are all-or-nothing per account.
func UtxoValidateIncorrectRewards(
	tx *Transaction,
	env UtxoEnv,
	ls LedgerState,
) error {
	var badCreds []common.Credential
	for _, cred := range tx.Body.SortedWithdrawals() {
		balance, ok := ls.DPState.DState.Rewards[cred]
		if !ok || balance != tx.Body.Withdrawals[cred] {
			badCreds = append(badCreds, cred)
		}
	}
	if len(badCreds) > 0 {
		return IncorrectRewardsError{Withdrawals: badCreds}
	}
	return nil
}

// consumedValue sums the value a transaction draws from the system
func consumedValue(tx *Transaction, env UtxoEnv, ls LedgerState) common.Coin {
	var ret common.Coin
	for _, input := range tx.Body.TxInputs {
		if output, ok := ls.UtxoState.Utxos[input]; ok {
			ret += output.OutputAmount
		}
	}
	for _, amount := range tx.Body.Withdrawals {
		ret += amount
	}
	ret += txRefunds(tx, env, ls)
	return ret
}

// producedValue sums the value a transaction pushes into the system
func producedValue(tx *Transaction, env UtxoEnv, ls LedgerState) common.Coin {
	var ret common.Coin
	for _, output := range tx.Body.TxOutputs {
		ret += output.OutputAmount
	}
	ret += tx.Body.TxFee
	ret += txDeposits(tx, env, ls)
	return ret
}

// txDeposits returns the total deposits owed for the transaction's
// registration certificates. A pool re-registration takes no new deposit.
func txDeposits(tx *Transaction, env UtxoEnv, ls LedgerState) common.Coin {
	var ret common.Coin
	newPools := map[common.PoolKeyHash]struct{}{}
	for _, cert := range tx.Body.Certificates() {
		switch c := cert.(type) {
		case *common.StakeRegistrationCertificate:
			ret += env.Pparams.KeyDeposit
		case *common.PoolRegistrationCertificate:
			if _, ok := ls.DPState.PState.StakePools[c.Operator]; ok {
				continue
			}
			if _, ok := newPools[c.Operator]; ok {
				continue
			}
			newPools[c.Operator] = struct{}{}
			ret += env.Pparams.PoolDeposit
		}
	}
	return ret
}

// txRefunds returns the total decayed deposit refunds owed for the
// transaction's deregistration certificates
func txRefunds(tx *Transaction, env UtxoEnv, ls LedgerState) common.Coin {
	var ret common.Coin
	for _, cert := range tx.Body.Certificates() {
		if c, ok := cert.(*common.StakeDeregistrationCertificate); ok {
			regSlot, registered := ls.DPState.DState.StakeKeys[c.StakeCredential]
			if !registered {
				continue
			}
			ret += KeyRefund(env.Pparams, regSlot, env.Slot)
		}
	}
	return ret
}

// ValidateUtxo runs every UTxO rule and returns the accumulated failures
func ValidateUtxo(
	tx *Transaction,
	env UtxoEnv,
	ls LedgerState,
) common.Validity {
	v := common.Valid()
	for _, validationFunc := range utxoValidationRules {
		v.Add(validationFunc(tx, env, ls))
	}
	return v
}

// ApplyUtxo validates a transaction against the UTxO rules and, on
// success, returns a new ledger state with inputs spent, outputs created,
// the fee accumulated, and the deposit pot adjusted. The input state is
// never modified.
func ApplyUtxo(
	env UtxoEnv,
	ls LedgerState,
	tx *Transaction,
) (LedgerState, error) {
	if err := ValidateUtxo(tx, env, ls).Err(); err != nil {
		return ls, err
	}
	return applyUtxo(env, ls, tx)
}

// applyUtxo applies an already-validated transaction
func applyUtxo(
	env UtxoEnv,
	ls LedgerState,
	tx *Transaction,
) (LedgerState, error) {
	newState := ls.Copy()
	for _, input := range tx.Body.TxInputs {
		delete(newState.UtxoState.Utxos, input)
	}
	for input, output := range tx.Produced() {
		newState.UtxoState.Utxos[input] = output
	}
	newState.UtxoState.Fees += tx.Body.TxFee
	deposited := newState.UtxoState.Deposited + txDeposits(tx, env, ls)
	deposited, err := deposited.Sub(txRefunds(tx, env, ls))
	if err != nil {
		return ls, err
	}
	newState.UtxoState.Deposited = deposited
	return newState, nil
}
