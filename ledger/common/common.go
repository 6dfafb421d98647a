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
	"encoding/hex"
	"fmt"

	"github.com/btcsuite/btcd/btcutil/bech32"
	"golang.org/x/crypto/blake2b"
)

const (
	Blake2b256Size = 32
	Blake2b224Size = 28
)

type Blake2b256 [Blake2b256Size]byte

func NewBlake2b256(data []byte) Blake2b256 {
	b := Blake2b256{}
	copy(b[:], data)
	return b
}

func (b Blake2b256) String() string {
	return hex.EncodeToString(b[:])
}

func (b Blake2b256) Bytes() []byte {
	return b[:]
}

func Blake2b256Hash(data []byte) Blake2b256 {
	hash, err := blake2b.New(Blake2b256Size, nil)
	if err != nil {
		panic(
			fmt.Sprintf(
				"unexpected error creating empty blake2b hash: %s",
				err,
			),
		)
	}
	hash.Write(data)
	return Blake2b256(hash.Sum(nil))
}

type Blake2b224 [Blake2b224Size]byte

func NewBlake2b224(data []byte) Blake2b224 {
	b := Blake2b224{}
	copy(b[:], data)
	return b
}

func (b Blake2b224) String() string {
	return hex.EncodeToString(b[:])
}

func (b Blake2b224) Bytes() []byte {
	return b[:]
}

// Bech32 returns the hash encoded as bech32 with the given prefix
func (b Blake2b224) Bech32(prefix string) string {
	convData, err := bech32.ConvertBits(b.Bytes(), 8, 5, true)
	if err != nil {
		panic(
			fmt.Sprintf("unexpected error converting data to bech32: %s", err),
		)
	}
	encoded, err := bech32.Encode(prefix, convData)
	if err != nil {
		panic(
			fmt.Sprintf("unexpected error encoding data as bech32: %s", err),
		)
	}
	return encoded
}

func Blake2b224Hash(data []byte) Blake2b224 {
	hash, err := blake2b.New(Blake2b224Size, nil)
	if err != nil {
		panic(
			fmt.Sprintf(
				"unexpected error creating empty blake2b hash: %s",
				err,
			),
		)
	}
	hash.Write(data)
	return Blake2b224(hash.Sum(nil))
}

type (
	// PoolKeyHash is the key hash identifying a stake pool
	PoolKeyHash = Blake2b224
	// AddrKeyHash is the hash of a payment or staking verification key
	AddrKeyHash = Blake2b224
	// TxId is the hash of a transaction body
	TxId = Blake2b256
)

// PoolId is a stake pool identifier with bech32 rendering
type PoolId Blake2b224

func NewPoolIdFromBech32(poolId string) (PoolId, error) {
	_, data, err := bech32.DecodeNoLimit(poolId)
	if err != nil {
		return PoolId{}, err
	}
	decoded, err := bech32.ConvertBits(data, 5, 8, false)
	if err != nil {
		return PoolId{}, err
	}
	if len(decoded) != Blake2b224Size {
		return PoolId{}, fmt.Errorf(
			"invalid pool ID length: %d",
			len(decoded),
		)
	}
	return PoolId(NewBlake2b224(decoded)), nil
}

func (p PoolId) String() string {
	return Blake2b224(p).Bech32("pool")
}
