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

// Package shelley implements the ledger transition rules: witnessed UTxO
// validation, the stake key and pool certificate state machines, and the
// epoch boundary with its reward calculation. Every transition is a pure
// function from (environment, state, signal) to a new state or an
// accumulated failure list; the input state is never modified.
package shelley
