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
	"crypto/ed25519"
	"errors"
	"fmt"

	"github.com/blinklabs-io/shelley-ledger/cbor"
)

// VKeyWitness is a verification key and a signature over a transaction
// body hash. Witness validity is always checked against the body's
// content hash, never against a different body.
type VKeyWitness struct {
	cbor.StructAsArray
	VKey      []byte
	Signature []byte
}

// KeyHash returns the hash identifying the witness verification key
func (w VKeyWitness) KeyHash() Blake2b224 {
	return Blake2b224Hash(w.VKey)
}

// VerifyVKeySignature verifies an ed25519 signature against the provided
// public key and message
func VerifyVKeySignature(pubKey, sig, msg []byte) error {
	if len(pubKey) != ed25519.PublicKeySize {
		return fmt.Errorf("invalid public key size: %d", len(pubKey))
	}
	if len(sig) != ed25519.SignatureSize {
		return fmt.Errorf("invalid signature size: %d", len(sig))
	}
	if !ed25519.Verify(ed25519.PublicKey(pubKey), msg, sig) {
		return errors.New("signature verification failed")
	}
	return nil
}
