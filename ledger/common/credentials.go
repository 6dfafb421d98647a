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
	"github.com/blinklabs-io/shelley-ledger/cbor"

	utxorpc "github.com/utxorpc/go-codegen/utxorpc/v1alpha/cardano"
)

const (
	CredentialTypeAddrKeyHash = 0
	CredentialTypeScriptHash  = 1
)

// Credential is a registered key or script hash eligible to delegate and
// earn rewards. A credential's presence in the stake key set is the single
// source of truth for "is registered".
type Credential struct {
	cbor.StructAsArray
	CredType   uint
	Credential Blake2b224
}

// NewKeyCredential returns a key-hash credential for the given hash
func NewKeyCredential(keyHash Blake2b224) Credential {
	return Credential{
		CredType:   CredentialTypeAddrKeyHash,
		Credential: keyHash,
	}
}

func (c Credential) String() string {
	return c.Credential.String()
}

// Bech32 returns the credential hash encoded as bech32 with the given prefix
func (c Credential) Bech32(prefix string) string {
	return c.Credential.Bech32(prefix)
}

func (c Credential) Utxorpc() *utxorpc.StakeCredential {
	ret := &utxorpc.StakeCredential{}
	switch c.CredType {
	case CredentialTypeAddrKeyHash:
		ret.StakeCredential = &utxorpc.StakeCredential_AddrKeyHash{
			AddrKeyHash: c.Credential[:],
		}
	case CredentialTypeScriptHash:
		ret.StakeCredential = &utxorpc.StakeCredential_ScriptHash{
			ScriptHash: c.Credential[:],
		}
	}
	return ret
}
