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
	"fmt"

	"github.com/blinklabs-io/shelley-ledger/cbor"

	utxorpc "github.com/utxorpc/go-codegen/utxorpc/v1alpha/cardano"
)

const (
	CertificateTypeStakeRegistration   = 0
	CertificateTypeStakeDeregistration = 1
	CertificateTypeStakeDelegation     = 2
	CertificateTypePoolRegistration    = 3
	CertificateTypePoolRetirement      = 4
)

// Certificate is the tagged variant over the delegation certificate types.
// Each variant owns the data needed to validate and apply it.
type Certificate interface {
	isCertificate()
	Cbor() []byte
	Type() uint
	Utxorpc() (*utxorpc.Certificate, error)
}

// CertificateWrapper decodes a certificate by its leading type tag
type CertificateWrapper struct {
	Type        uint
	Certificate Certificate
}

func (c *CertificateWrapper) UnmarshalCBOR(data []byte) error {
	// Determine cert type
	certType, err := cbor.DecodeIdFromList(data)
	if err != nil {
		return err
	}
	var tmpCert Certificate
	switch uint(certType) {
	case CertificateTypeStakeRegistration:
		tmpCert = &StakeRegistrationCertificate{}
	case CertificateTypeStakeDeregistration:
		tmpCert = &StakeDeregistrationCertificate{}
	case CertificateTypeStakeDelegation:
		tmpCert = &StakeDelegationCertificate{}
	case CertificateTypePoolRegistration:
		tmpCert = &PoolRegistrationCertificate{}
	case CertificateTypePoolRetirement:
		tmpCert = &PoolRetirementCertificate{}
	default:
		return fmt.Errorf("unknown certificate type: %d", certType)
	}
	// Decode cert
	if _, err := cbor.Decode(data, tmpCert); err != nil {
		return err
	}
	c.Type = uint(certType)
	c.Certificate = tmpCert
	return nil
}

func (c *CertificateWrapper) MarshalCBOR() ([]byte, error) {
	return cbor.Encode(c.Certificate)
}

type StakeRegistrationCertificate struct {
	cbor.StructAsArray
	cbor.DecodeStoreCbor
	CertType        uint
	StakeCredential Credential
}

func (c StakeRegistrationCertificate) isCertificate() {}

func (c *StakeRegistrationCertificate) UnmarshalCBOR(cborData []byte) error {
	return c.UnmarshalCborGeneric(cborData, c)
}

func (c *StakeRegistrationCertificate) Utxorpc() (*utxorpc.Certificate, error) {
	return &utxorpc.Certificate{
		Certificate: &utxorpc.Certificate_StakeRegistration{
			StakeRegistration: c.StakeCredential.Utxorpc(),
		},
	}, nil
}

func (c *StakeRegistrationCertificate) Type() uint {
	return c.CertType
}

type StakeDeregistrationCertificate struct {
	cbor.StructAsArray
	cbor.DecodeStoreCbor
	CertType        uint
	StakeCredential Credential
}

func (c StakeDeregistrationCertificate) isCertificate() {}

func (c *StakeDeregistrationCertificate) UnmarshalCBOR(cborData []byte) error {
	return c.UnmarshalCborGeneric(cborData, c)
}

func (c *StakeDeregistrationCertificate) Utxorpc() (*utxorpc.Certificate, error) {
	return &utxorpc.Certificate{
		Certificate: &utxorpc.Certificate_StakeDeregistration{
			StakeDeregistration: c.StakeCredential.Utxorpc(),
		},
	}, nil
}

func (c *StakeDeregistrationCertificate) Type() uint {
	return c.CertType
}

type StakeDelegationCertificate struct {
	cbor.StructAsArray
	cbor.DecodeStoreCbor
	CertType        uint
	StakeCredential Credential
	PoolKeyHash     PoolKeyHash
}

func (c StakeDelegationCertificate) isCertificate() {}

func (c *StakeDelegationCertificate) UnmarshalCBOR(cborData []byte) error {
	return c.UnmarshalCborGeneric(cborData, c)
}

func (c *StakeDelegationCertificate) Utxorpc() (*utxorpc.Certificate, error) {
	return &utxorpc.Certificate{
		Certificate: &utxorpc.Certificate_StakeDelegation{
			StakeDelegation: &utxorpc.StakeDelegationCert{
				StakeCredential: c.StakeCredential.Utxorpc(),
				PoolKeyhash:     c.PoolKeyHash[:],
			},
		},
	}, nil
}

func (c *StakeDelegationCertificate) Type() uint {
	return c.CertType
}

type VrfKeyHash = Blake2b256

type PoolRegistrationCertificate struct {
	cbor.StructAsArray
	cbor.DecodeStoreCbor
	CertType      uint
	Operator      PoolKeyHash
	VrfKeyHash    VrfKeyHash
	Pledge        Coin
	Cost          Coin
	Margin        *cbor.Rat
	RewardAccount Credential
	PoolOwners    []AddrKeyHash
}

func (c PoolRegistrationCertificate) isCertificate() {}

func (c *PoolRegistrationCertificate) UnmarshalCBOR(cborData []byte) error {
	return c.UnmarshalCborGeneric(cborData, c)
}

func (c *PoolRegistrationCertificate) Utxorpc() (*utxorpc.Certificate, error) {
	tmpPoolOwners := make([][]byte, len(c.PoolOwners))
	for i, owner := range c.PoolOwners {
		tmpPoolOwners[i] = owner[:]
	}
	var tmpMargin *utxorpc.RationalNumber
	if c.Margin != nil && c.Margin.Rat != nil {
		if !c.Margin.Num().IsInt64() || !c.Margin.Denom().IsUint64() {
			return nil, fmt.Errorf(
				"pool margin out of range: %s",
				c.Margin.RatString(),
			)
		}
		// #nosec G115
		tmpMargin = &utxorpc.RationalNumber{
			Numerator:   int32(c.Margin.Num().Int64()),
			Denominator: uint32(c.Margin.Denom().Uint64()),
		}
	}
	return &utxorpc.Certificate{
		Certificate: &utxorpc.Certificate_PoolRegistration{
			PoolRegistration: &utxorpc.PoolRegistrationCert{
				Operator:      c.Operator[:],
				VrfKeyhash:    c.VrfKeyHash[:],
				Pledge:        uint64(c.Pledge),
				Cost:          uint64(c.Cost),
				Margin:        tmpMargin,
				RewardAccount: c.RewardAccount.Credential[:],
				PoolOwners:    tmpPoolOwners,
			},
		},
	}, nil
}

func (c *PoolRegistrationCertificate) Type() uint {
	return c.CertType
}

type PoolRetirementCertificate struct {
	cbor.StructAsArray
	cbor.DecodeStoreCbor
	CertType    uint
	PoolKeyHash PoolKeyHash
	Epoch       Epoch
}

func (c PoolRetirementCertificate) isCertificate() {}

func (c *PoolRetirementCertificate) UnmarshalCBOR(cborData []byte) error {
	return c.UnmarshalCborGeneric(cborData, c)
}

func (c *PoolRetirementCertificate) Utxorpc() (*utxorpc.Certificate, error) {
	return &utxorpc.Certificate{
		Certificate: &utxorpc.Certificate_PoolRetirement{
			PoolRetirement: &utxorpc.PoolRetirementCert{
				PoolKeyhash: c.PoolKeyHash[:],
				Epoch:       uint64(c.Epoch),
			},
		},
	}, nil
}

func (c *PoolRetirementCertificate) Type() uint {
	return c.CertType
}
