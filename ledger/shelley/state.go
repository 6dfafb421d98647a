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
	"math/big"

	"github.com/blinklabs-io/shelley-ledger/ledger/common"
)

// UtxoState is the value-carrying portion of the ledger: the unspent
// output set plus the deposit and fee pots
type UtxoState struct {
	Utxos     map[TransactionInput]TransactionOutput
	Deposited common.Coin
	Fees      common.Coin
}

func NewUtxoState() UtxoState {
	return UtxoState{
		Utxos: map[TransactionInput]TransactionOutput{},
	}
}

func (s UtxoState) Copy() UtxoState {
	ret := s
	ret.Utxos = make(
		map[TransactionInput]TransactionOutput,
		len(s.Utxos),
	)
	for k, v := range s.Utxos {
		ret.Utxos[k] = v
	}
	return ret
}

// Balance returns the total value held in unspent outputs
func (s UtxoState) Balance() common.Coin {
	var ret common.Coin
	for _, output := range s.Utxos {
		ret += output.OutputAmount
	}
	return ret
}

// DState tracks stake key registrations, reward accounts, delegation
// choices, and the pointer map. StakeKeys records the registration slot
// so that deposit refunds can decay from it.
type DState struct {
	StakeKeys   map[common.Credential]common.Slot
	Rewards     map[common.Credential]common.Coin
	Delegations map[common.Credential]common.PoolKeyHash
	Ptrs        map[common.Ptr]common.Credential
}

func NewDState() DState {
	return DState{
		StakeKeys:   map[common.Credential]common.Slot{},
		Rewards:     map[common.Credential]common.Coin{},
		Delegations: map[common.Credential]common.PoolKeyHash{},
		Ptrs:        map[common.Ptr]common.Credential{},
	}
}

func (s DState) Copy() DState {
	ret := NewDState()
	for k, v := range s.StakeKeys {
		ret.StakeKeys[k] = v
	}
	for k, v := range s.Rewards {
		ret.Rewards[k] = v
	}
	for k, v := range s.Delegations {
		ret.Delegations[k] = v
	}
	for k, v := range s.Ptrs {
		ret.Ptrs[k] = v
	}
	return ret
}

// PState tracks stake pool registrations, their declared parameters,
// scheduled retirements, and the per-pool performance moving average.
// StakePools records the registration slot so that deposit refunds can
// decay from it.
type PState struct {
	StakePools map[common.PoolKeyHash]common.Slot
	PoolParams map[common.PoolKeyHash]common.PoolRegistrationCertificate
	Retiring   map[common.PoolKeyHash]common.Epoch
	Avgs       map[common.PoolKeyHash]*big.Rat
}

func NewPState() PState {
	return PState{
		StakePools: map[common.PoolKeyHash]common.Slot{},
		PoolParams: map[common.PoolKeyHash]common.PoolRegistrationCertificate{},
		Retiring:   map[common.PoolKeyHash]common.Epoch{},
		Avgs:       map[common.PoolKeyHash]*big.Rat{},
	}
}

func (s PState) Copy() PState {
	ret := NewPState()
	for k, v := range s.StakePools {
		ret.StakePools[k] = v
	}
	for k, v := range s.PoolParams {
		ret.PoolParams[k] = v
	}
	for k, v := range s.Retiring {
		ret.Retiring[k] = v
	}
	for k, v := range s.Avgs {
		ret.Avgs[k] = new(big.Rat).Set(v)
	}
	return ret
}

// DPState pairs the delegation and pool states, which certificate
// processing updates together
type DPState struct {
	DState DState
	PState PState
}

func NewDPState() DPState {
	return DPState{
		DState: NewDState(),
		PState: NewPState(),
	}
}

func (s DPState) Copy() DPState {
	return DPState{
		DState: s.DState.Copy(),
		PState: s.PState.Copy(),
	}
}

// LedgerState is everything a single transaction can touch
type LedgerState struct {
	UtxoState UtxoState
	DPState   DPState
}

func NewLedgerState() LedgerState {
	return LedgerState{
		UtxoState: NewUtxoState(),
		DPState:   NewDPState(),
	}
}

func (s LedgerState) Copy() LedgerState {
	return LedgerState{
		UtxoState: s.UtxoState.Copy(),
		DPState:   s.DPState.Copy(),
	}
}

// AccountState holds the centralized pots outside the UTxO. RewardPool
// carries value earmarked for rewards but not yet paid out, including the
// rounding residue from floor division.
type AccountState struct {
	Treasury   common.Coin
	Reserves   common.Coin
	RewardPool common.Coin
}

// EpochState is the full chain state carried across an epoch boundary
type EpochState struct {
	AccountState AccountState
	LedgerState  LedgerState
	Pparams      *ProtocolParameters
}

func NewEpochState(pparams *ProtocolParameters) EpochState {
	return EpochState{
		LedgerState: NewLedgerState(),
		Pparams:     pparams,
	}
}

func (s EpochState) Copy() EpochState {
	return EpochState{
		AccountState: s.AccountState,
		LedgerState:  s.LedgerState.Copy(),
		Pparams:      s.Pparams.Copy(),
	}
}

// TotalCoin sums every pot in the system: unspent outputs, deposits,
// fees, reward accounts, treasury, and reserves. Transaction application
// preserves this total exactly; epoch application preserves it up to the
// declared reward pot movements.
func (s EpochState) TotalCoin() common.Coin {
	ret := s.LedgerState.UtxoState.Balance()
	ret += s.LedgerState.UtxoState.Deposited
	ret += s.LedgerState.UtxoState.Fees
	for _, balance := range s.LedgerState.DPState.DState.Rewards {
		ret += balance
	}
	ret += s.AccountState.Treasury
	ret += s.AccountState.Reserves
	ret += s.AccountState.RewardPool
	return ret
}
