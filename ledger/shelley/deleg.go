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

	"github.com/blinklabs-io/shelley-ledger/ledger/common"
)

// CertEnv is the read-only environment for processing a single
// certificate. Ptr identifies the certificate's position on the chain and
// doubles as the pointer-address key recorded at stake key registration.
type CertEnv struct {
	Ptr     common.Ptr
	Epoch   common.Epoch
	Pparams *ProtocolParameters
}

// ApplyDeleg processes a stake key certificate against the delegation
// state. The input state is never modified.
func ApplyDeleg(
	env CertEnv,
	ds DState,
	cert common.Certificate,
) (DState, error) {
	switch c := cert.(type) {
	case *common.StakeRegistrationCertificate:
		if _, ok := ds.StakeKeys[c.StakeCredential]; ok {
			return ds, DelegFailure{
				Err: StakeKeyAlreadyRegisteredError{
					Credential: c.StakeCredential,
				},
			}
		}
		newState := ds.Copy()
		newState.StakeKeys[c.StakeCredential] = env.Ptr.Slot
		newState.Rewards[c.StakeCredential] = 0
		newState.Ptrs[env.Ptr] = c.StakeCredential
		return newState, nil
	case *common.StakeDeregistrationCertificate:
		if _, ok := ds.StakeKeys[c.StakeCredential]; !ok {
			return ds, DelegFailure{
				Err: StakeKeyNotRegisteredError{
					Credential: c.StakeCredential,
				},
			}
		}
		if balance := ds.Rewards[c.StakeCredential]; balance > 0 {
			return ds, DelegFailure{
				Err: StakeKeyNonZeroBalanceError{
					Credential: c.StakeCredential,
					Balance:    balance,
				},
			}
		}
		newState := ds.Copy()
		delete(newState.StakeKeys, c.StakeCredential)
		delete(newState.Rewards, c.StakeCredential)
		delete(newState.Delegations, c.StakeCredential)
		for ptr, cred := range newState.Ptrs {
			if cred == c.StakeCredential {
				delete(newState.Ptrs, ptr)
			}
		}
		return newState, nil
	case *common.StakeDelegationCertificate:
		if _, ok := ds.StakeKeys[c.StakeCredential]; !ok {
			return ds, DelegFailure{
				Err: StakeDelegationImpossibleError{
					Credential: c.StakeCredential,
				},
			}
		}
		// Re-delegation overwrites the previous target
		newState := ds.Copy()
		newState.Delegations[c.StakeCredential] = c.PoolKeyHash
		return newState, nil
	}
	return ds, fmt.Errorf(
		"unexpected certificate type %d for stake key rules",
		cert.Type(),
	)
}

// ApplyPool processes a stake pool certificate against the pool state.
// The input state is never modified.
func ApplyPool(
	env CertEnv,
	ps PState,
	cert common.Certificate,
) (PState, error) {
	switch c := cert.(type) {
	case *common.PoolRegistrationCertificate:
		if c.Cost < env.Pparams.MinPoolCost {
			return ps, PoolFailure{
				Err: StakePoolCostTooLowError{
					Cost:        c.Cost,
					MinPoolCost: env.Pparams.MinPoolCost,
				},
			}
		}
		newState := ps.Copy()
		if _, ok := newState.StakePools[c.Operator]; !ok {
			newState.StakePools[c.Operator] = env.Ptr.Slot
		}
		// Re-registration updates parameters, keeps the original
		// registration slot, and cancels any pending retirement
		newState.PoolParams[c.Operator] = *c
		delete(newState.Retiring, c.Operator)
		return newState, nil
	case *common.PoolRetirementCertificate:
		if _, ok := ps.StakePools[c.PoolKeyHash]; !ok {
			return ps, PoolFailure{
				Err: StakePoolNotRegisteredError{
					PoolKeyHash: c.PoolKeyHash,
				},
			}
		}
		firstValid := env.Epoch
		lastValid := env.Epoch + common.Epoch(env.Pparams.MaxEpoch)
		if c.Epoch <= firstValid || c.Epoch > lastValid {
			return ps, PoolFailure{
				Err: WrongRetirementEpochError{
					Specified:  c.Epoch,
					FirstValid: firstValid,
					LastValid:  lastValid,
				},
			}
		}
		newState := ps.Copy()
		newState.Retiring[c.PoolKeyHash] = c.Epoch
		return newState, nil
	}
	return ps, fmt.Errorf(
		"unexpected certificate type %d for stake pool rules",
		cert.Type(),
	)
}

// ApplyDelpl dispatches a certificate to the stake key or stake pool
// rules by its variant
func ApplyDelpl(
	env CertEnv,
	dps DPState,
	cert common.Certificate,
) (DPState, error) {
	switch cert.Type() {
	case common.CertificateTypeStakeRegistration,
		common.CertificateTypeStakeDeregistration,
		common.CertificateTypeStakeDelegation:
		newDState, err := ApplyDeleg(env, dps.DState, cert)
		if err != nil {
			return dps, err
		}
		return DPState{DState: newDState, PState: dps.PState}, nil
	case common.CertificateTypePoolRegistration,
		common.CertificateTypePoolRetirement:
		newPState, err := ApplyPool(env, dps.PState, cert)
		if err != nil {
			return dps, err
		}
		return DPState{DState: dps.DState, PState: newPState}, nil
	}
	return dps, fmt.Errorf("unknown certificate type: %d", cert.Type())
}

// ApplyDelegs folds a transaction's certificates over the delegation and
// pool state in list order. The batch is atomic: any failure rejects the
// whole batch, but every certificate is still checked so all failures are
// reported together, each tagged with its position.
func ApplyDelegs(
	env DelegEnv,
	dps DPState,
	certs []common.Certificate,
) (DPState, error) {
	v := common.Valid()
	workState := dps
	for idx, cert := range certs {
		certEnv := CertEnv{
			Ptr: common.Ptr{
				Slot:   env.Slot,
				TxIx:   env.TxIx,
				CertIx: uint32(idx), // #nosec G115
			},
			Epoch:   env.Epoch,
			Pparams: env.Pparams,
		}
		newState, err := ApplyDelpl(certEnv, workState, cert)
		if err != nil {
			v.Add(DelplFailure{CertIndex: idx, Err: err})
			continue
		}
		workState = newState
	}
	if err := v.Err(); err != nil {
		return dps, err
	}
	return workState, nil
}

// DelegEnv is the read-only environment for processing one transaction's
// certificates and withdrawals
type DelegEnv struct {
	Slot    common.Slot
	TxIx    uint32
	Epoch   common.Epoch
	Pparams *ProtocolParameters
}

// ApplyDelrwds debits the transaction's reward withdrawals. Each
// withdrawal must name a registered account and match its full balance;
// the account is left registered with a zero balance.
func ApplyDelrwds(
	ds DState,
	withdrawals map[common.Credential]common.Coin,
) (DState, error) {
	var badCreds []common.Credential
	for cred, amount := range withdrawals {
		balance, ok := ds.Rewards[cred]
		if !ok || balance != amount {
			badCreds = append(badCreds, cred)
		}
	}
	if len(badCreds) > 0 {
		return ds, IncorrectRewardsError{Withdrawals: badCreds}
	}
	if len(withdrawals) == 0 {
		return ds, nil
	}
	newState := ds.Copy()
	for cred := range withdrawals {
		newState.Rewards[cred] = 0
	}
	return newState, nil
}

// DelegtValidationRuleFunc represents a rule over one transaction's whole
// certificate batch and withdrawal set
type DelegtValidationRuleFunc func(*Transaction, DelegEnv, DPState) error

var delegtValidationRules = []DelegtValidationRuleFunc{
	DelegtValidateRegCertWithdrawal,
	DelegtValidateDeregCertWithdrawal,
	DelegtValidateDelegatePoolRegistered,
	DelegtValidateDeregCertPoolConflict,
}

// DelegtValidateRegCertWithdrawal ensures that no credential registered
// by a certificate in the transaction also appears in its withdrawals.
// A freshly registered account has nothing to withdraw.
func DelegtValidateRegCertWithdrawal(
	tx *Transaction,
	env DelegEnv,
	dps DPState,
) error {
	for _, cert := range tx.Body.Certificates() {
		if c, ok := cert.(*common.StakeRegistrationCertificate); ok {
			if _, ok := tx.Body.Withdrawals[c.StakeCredential]; ok {
				return RegCertWithdrawalError{
					Credential: c.StakeCredential,
				}
			}
		}
	}
	return nil
}

// DelegtValidateDeregCertWithdrawal ensures that every deregistration
// certificate's credential appears in the withdrawals, sweeping its
// reward balance in the same transaction
func DelegtValidateDeregCertWithdrawal(
	tx *Transaction,
	env DelegEnv,
	dps DPState,
) error {
	for _, cert := range tx.Body.Certificates() {
		if c, ok := cert.(*common.StakeDeregistrationCertificate); ok {
			if _, ok := tx.Body.Withdrawals[c.StakeCredential]; !ok {
				return DeregCertNoWithdrawalError{
					Credential: c.StakeCredential,
				}
			}
		}
	}
	return nil
}

// DelegtValidateDelegatePoolRegistered ensures that every delegation
// certificate targets a registered pool. A pool registered earlier in the
// same certificate batch counts.
func DelegtValidateDelegatePoolRegistered(
	tx *Transaction,
	env DelegEnv,
	dps DPState,
) error {
	batchPools := map[common.PoolKeyHash]struct{}{}
	for _, cert := range tx.Body.Certificates() {
		switch c := cert.(type) {
		case *common.PoolRegistrationCertificate:
			batchPools[c.Operator] = struct{}{}
		case *common.StakeDelegationCertificate:
			if _, ok := dps.PState.StakePools[c.PoolKeyHash]; ok {
				continue
			}
			if _, ok := batchPools[c.PoolKeyHash]; ok {
				continue
			}
			return DelegateNotRegisteredPoolError{
				PoolKeyHash: c.PoolKeyHash,
			}
		}
	}
	return nil
}

// DelegtValidateDeregCertPoolConflict ensures that a deregistration
// certificate's credential is not an active pool or a pool pending
// retirement
func DelegtValidateDeregCertPoolConflict(
	tx *Transaction,
	env DelegEnv,
	dps DPState,
) error {
	for _, cert := range tx.Body.Certificates() {
		c, ok := cert.(*common.StakeDeregistrationCertificate)
		if !ok {
			continue
		}
		poolKey := common.PoolKeyHash(c.StakeCredential.Credential)
		_, active := dps.PState.StakePools[poolKey]
		_, retiring := dps.PState.Retiring[poolKey]
		if active || retiring {
			return DeregCertPoolConflictError{
				Credential: c.StakeCredential,
			}
		}
	}
	return nil
}

// ValidateDelegt runs the cross-certificate rules, accumulating all
// failures
func ValidateDelegt(
	tx *Transaction,
	env DelegEnv,
	dps DPState,
) common.Validity {
	v := common.Valid()
	for _, validationFunc := range delegtValidationRules {
		v.Add(validationFunc(tx, env, dps))
	}
	return v
}

// ApplyDelegt processes one transaction's withdrawals and certificate
// batch: cross-certificate rules first, then withdrawals debited, then
// certificates applied in order. All failures accumulate; any failure
// leaves the state untouched.
func ApplyDelegt(
	env DelegEnv,
	dps DPState,
	tx *Transaction,
) (DPState, error) {
	v := ValidateDelegt(tx, env, dps)
	workState := dps
	newDState, err := ApplyDelrwds(workState.DState, tx.Body.Withdrawals)
	if err != nil {
		v.Add(err)
	} else {
		workState = DPState{DState: newDState, PState: workState.PState}
	}
	newState, err := ApplyDelegs(env, workState, tx.Body.Certificates())
	if err != nil {
		v.Add(DelegsFailure{Err: err})
	} else {
		workState = newState
	}
	if err := v.Err(); err != nil {
		return dps, err
	}
	return workState, nil
}
