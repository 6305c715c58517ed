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

// Fees holds the fee schedule and reserve requirements of a ledger, in drops
type Fees struct {
	Base      uint64
	Reserve   uint64
	Increment uint64
}

func DefaultFees() Fees {
	return Fees{
		Base:      10,
		Reserve:   10 * uint64(DropsPerXRP),
		Increment: 2 * uint64(DropsPerXRP),
	}
}

// AccountReserve returns the minimum native balance of an account owning
// ownerCount objects
func (f Fees) AccountReserve(ownerCount uint32) Amount {
	return NativeAmount(int64(f.Reserve + uint64(ownerCount)*f.Increment))
}
