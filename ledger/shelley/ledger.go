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
	"errors"

	"github.com/blinklabs-io/shelley-ledger/ledger/common"
)

// LedgerEnv is the read-only environment for processing one transaction
// end-to-end
type LedgerEnv struct {
	Slot    common.Slot
	TxIx    uint32
	Pparams *ProtocolParameters
}

// ApplyTx processes one signed transaction: witnessed UTxO rules and
// certificate/withdrawal rules both run against the same pre-state
// snapshot, and their failures accumulate tagged by origin. The state
// advances only when both succeed. The input state is never modified.
func ApplyTx(
	env LedgerEnv,
	ls LedgerState,
	tx *Transaction,
) (LedgerState, error) {
	utxoEnv := UtxoEnv{
		Slot:    env.Slot,
		Pparams: env.Pparams,
	}
	delegEnv := DelegEnv{
		Slot:    env.Slot,
		TxIx:    env.TxIx,
		Epoch:   env.Pparams.EpochInfo().EpochOfSlot(env.Slot),
		Pparams: env.Pparams,
	}
	v := common.Valid()
	for _, failure := range ValidateUtxow(tx, utxoEnv, ls).Failures() {
		v.Add(UtxowFailure{Err: failure})
	}
	newDPState, err := ApplyDelegt(delegEnv, ls.DPState, tx)
	if err != nil {
		var ruleViolations *common.RuleViolations
		if errors.As(err, &ruleViolations) {
			for _, failure := range ruleViolations.Violations {
				v.Add(DelegtFailure{Err: failure})
			}
		} else {
			v.Add(DelegtFailure{Err: err})
		}
	}
	if err := v.Err(); err != nil {
		return ls, err
	}
	newState, err := applyUtxo(utxoEnv, ls, tx)
	if err != nil {
		return ls, err
	}
	newState.DPState = newDPState.Copy()
	return newState, nil
}

// ApplyTxSeq processes a sequence of transactions strictly in order, as
// within a block. Fee totals, UTxO entries, and reward balances depend on
// the order, so application is not commutative. The first failing
// transaction rejects the sequence.
func ApplyTxSeq(
	env LedgerEnv,
	ls LedgerState,
	txs []*Transaction,
) (LedgerState, error) {
	workState := ls
	for idx, tx := range txs {
		txEnv := env
		txEnv.TxIx = uint32(idx) // #nosec G115
		newState, err := ApplyTx(txEnv, workState, tx)
		if err != nil {
			return ls, err
		}
		workState = newState
	}
	return workState, nil
}
