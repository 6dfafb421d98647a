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

// Slot is a monotonic logical time unit
type Slot uint64

// Epoch is a maximal contiguous range of slots
type Epoch uint64

// EpochInfo converts between slots and epochs for a fixed epoch length
type EpochInfo struct {
	SlotsPerEpoch uint64
}

// EpochOfSlot returns the epoch containing the given slot
func (ei EpochInfo) EpochOfSlot(slot Slot) Epoch {
	if ei.SlotsPerEpoch == 0 {
		return 0
	}
	return Epoch(uint64(slot) / ei.SlotsPerEpoch)
}

// FirstSlot returns the first slot of the given epoch
func (ei EpochInfo) FirstSlot(epoch Epoch) Slot {
	return Slot(uint64(epoch) * ei.SlotsPerEpoch)
}

// Ptr locates a certificate within the chain by slot, transaction index
// and certificate index. Outputs may name a staking credential indirectly
// through the pointer recorded at stake key registration.
type Ptr struct {
	Slot   Slot
	TxIx   uint32
	CertIx uint32
}
