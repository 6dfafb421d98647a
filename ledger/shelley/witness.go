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
	"sort"

	"github.com/blinklabs-io/shelley-ledger/ledger/common"
)

// UtxowValidationRuleFunc represents a function that validates a
// transaction's witness set
type UtxowValidationRuleFunc func(*Transaction, UtxoEnv, LedgerState) error

var utxowValidationRules = []UtxowValidationRuleFunc{
	UtxowValidateInvalidWitnesses,
	UtxowValidateMissingVkeyWitnesses,
	UtxowValidateExtraneousVkeyWitnesses,
}

// UtxowValidateInvalidWitnesses ensures that every supplied witness
// signature verifies against the transaction body hash and its claimed key
func UtxowValidateInvalidWitnesses(
	tx *Transaction,
	env UtxoEnv,
	ls LedgerState,
) error {
	bodyHash := tx.Body.Hash()
	var badWitnesses []common.AddrKeyHash
	for _, witness := range tx.WitnessSet.VkeyWitnesses {
		err := common.VerifyVKeySignature(
			witness.VKey,
			witness.Signature,
			bodyHash.Bytes(),
		)
		if err != nil {
			badWitnesses = append(badWitnesses, witness.KeyHash())
		}
	}
	if len(badWitnesses) > 0 {
		sortKeyHashes(badWitnesses)
		return InvalidWitnessesError{Witnesses: badWitnesses}
	}
	return nil
}

// UtxowValidateMissingVkeyWitnesses ensures that every key required to
// authorize the transaction has a witness in the witness set
func UtxowValidateMissingVkeyWitnesses(
	tx *Transaction,
	env UtxoEnv,
	ls LedgerState,
) error {
	provided := providedWitnesses(tx)
	var missing []common.AddrKeyHash
	for keyHash := range requiredWitnesses(tx, ls) {
		if _, ok := provided[keyHash]; !ok {
			missing = append(missing, keyHash)
		}
	}
	if len(missing) > 0 {
		sortKeyHashes(missing)
		return MissingVkeyWitnessesError{KeyHashes: missing}
	}
	return nil
}

// UtxowValidateExtraneousVkeyWitnesses ensures that the witness set
// contains no signatures from keys the transaction does not require
func UtxowValidateExtraneousVkeyWitnesses(
	tx *Transaction,
	env UtxoEnv,
	ls LedgerState,
) error {
	required := requiredWitnesses(tx, ls)
	var extraneous []common.AddrKeyHash
	for keyHash := range providedWitnesses(tx) {
		if _, ok := required[keyHash]; !ok {
			extraneous = append(extraneous, keyHash)
		}
	}
	if len(extraneous) > 0 {
		sortKeyHashes(extraneous)
		return ExtraneousVkeyWitnessesError{KeyHashes: extraneous}
	}
	return nil
}

// requiredWitnesses returns the set of key hashes that must sign the
// transaction: owners of spent inputs, certificate authorizers, and
// withdrawal account keys
func requiredWitnesses(
	tx *Transaction,
	ls LedgerState,
) map[common.AddrKeyHash]struct{} {
	required := map[common.AddrKeyHash]struct{}{}
	for _, input := range tx.Body.TxInputs {
		if output, ok := ls.UtxoState.Utxos[input]; ok {
			required[output.OutputAddress.PaymentKey] = struct{}{}
		}
	}
	for _, cert := range tx.Body.Certificates() {
		switch c := cert.(type) {
		case *common.StakeRegistrationCertificate:
			// Registration is unauthenticated; the deposit is the cost
		case *common.StakeDeregistrationCertificate:
			if c.StakeCredential.CredType == common.CredentialTypeAddrKeyHash {
				required[c.StakeCredential.Credential] = struct{}{}
			}
		case *common.StakeDelegationCertificate:
			if c.StakeCredential.CredType == common.CredentialTypeAddrKeyHash {
				required[c.StakeCredential.Credential] = struct{}{}
			}
		case *common.PoolRegistrationCertificate:
			required[c.Operator] = struct{}{}
			for _, owner := range c.PoolOwners {
				required[owner] = struct{}{}
			}
		case *common.PoolRetirementCertificate:
			required[c.PoolKeyHash] = struct{}{}
		}
	}
	for cred := range tx.Body.Withdrawals {
		if cred.CredType == common.CredentialTypeAddrKeyHash {
			required[cred.Credential] = struct{}{}
		}
	}
	return required
}

// providedWitnesses returns the set of key hashes with a signature in the
// witness set
func providedWitnesses(tx *Transaction) map[common.AddrKeyHash]struct{} {
	provided := map[common.AddrKeyHash]struct{}{}
	for _, witness := range tx.WitnessSet.VkeyWitnesses {
		provided[witness.KeyHash()] = struct{}{}
	}
	return provided
}

func sortKeyHashes(keyHashes []common.AddrKeyHash) {
	sort.Slice(keyHashes, func(i, j int) bool {
		return string(keyHashes[i][:]) < string(keyHashes[j][:])
	})
}

// ValidateUtxow runs the witness rules and the wrapped UTxO rules,
// accumulating all failures. Witness failures come first, then UTxO
// failures tagged with their origin.
func ValidateUtxow(
	tx *Transaction,
	env UtxoEnv,
	ls LedgerState,
) common.Validity {
	v := common.Valid()
	for _, validationFunc := range utxowValidationRules {
		v.Add(validationFunc(tx, env, ls))
	}
	for _, failure := range ValidateUtxo(tx, env, ls).Failures() {
		v.Add(UtxoFailure{Err: failure})
	}
	return v
}

// ApplyUtxow validates a transaction's witnesses and UTxO rules together
// and, on success, applies the UTxO changes. The input state is never
// modified.
func ApplyUtxow(
	env UtxoEnv,
	ls LedgerState,
	tx *Transaction,
) (LedgerState, error) {
	if err := ValidateUtxow(tx, env, ls).Err(); err != nil {
		return ls, err
	}
	return applyUtxo(env, ls, tx)
}
