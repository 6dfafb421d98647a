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

package common

import (
	"encoding/binary"
	"fmt"

	"github.com/blinklabs-io/shelley-ledger/cbor"
	"github.com/btcsuite/btcd/btcutil/bech32"
)

// Address is a payment key hash with an optional staking part. The staking
// part either names a staking credential directly or points at the
// certificate that registered one (a pointer address).
type Address struct {
	cbor.StructAsArray
	PaymentKey Blake2b224
	StakeKey   *Blake2b224
	StakePtr   *Ptr
}

// NewEnterpriseAddress returns an address with no staking part
func NewEnterpriseAddress(paymentKey Blake2b224) Address {
	return Address{PaymentKey: paymentKey}
}

// NewBaseAddress returns an address with a direct staking part
func NewBaseAddress(paymentKey Blake2b224, stakeKey Blake2b224) Address {
	return Address{
		PaymentKey: paymentKey,
		StakeKey:   &stakeKey,
	}
}

// NewPointerAddress returns an address whose staking part is resolved
// through the pointer map maintained at stake key registration
func NewPointerAddress(paymentKey Blake2b224, ptr Ptr) Address {
	return Address{
		PaymentKey: paymentKey,
		StakePtr:   &ptr,
	}
}

// StakeCredential returns the directly-named staking credential, or nil
// for enterprise and pointer addresses. Pointer addresses are resolved by
// the caller against the registration pointer map.
func (a Address) StakeCredential() *Credential {
	if a.StakeKey == nil {
		return nil
	}
	cred := NewKeyCredential(*a.StakeKey)
	return &cred
}

// String returns the bech32-encoded version of the address
func (a Address) String() string {
	data := make([]byte, 0, 2*Blake2b224Size)
	data = append(data, a.PaymentKey[:]...)
	if a.StakeKey != nil {
		data = append(data, a.StakeKey[:]...)
	} else if a.StakePtr != nil {
		ptrData := make([]byte, 16)
		binary.BigEndian.PutUint64(ptrData[:8], uint64(a.StakePtr.Slot))
		binary.BigEndian.PutUint32(ptrData[8:12], a.StakePtr.TxIx)
		binary.BigEndian.PutUint32(ptrData[12:], a.StakePtr.CertIx)
		data = append(data, ptrData...)
	}
	// Convert data to base32 and encode as bech32
	convData, err := bech32.ConvertBits(data, 8, 5, true)
	if err != nil {
		panic(
			fmt.Sprintf("unexpected error converting data to bech32: %s", err),
		)
	}
	encoded, err := bech32.Encode("addr", convData)
	if err != nil {
		panic(fmt.Sprintf("unexpected error encoding data as bech32: %s", err))
	}
	return encoded
}
