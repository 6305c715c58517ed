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

// Package cbor wraps github.com/fxamacker/cbor/v2 with the canonical settings
// used for ledger state.
//
// Ledger entries and transactions are encoded as CBOR arrays (embed
// StructAsArray) whose first item identifies the concrete type, which lets
// DecodeById pick the destination type without a separate envelope. Encoding
// is deterministic: map keys are sorted and indefinite-length items are
// rejected in both directions, so equal values always hash equally.
package cbor
