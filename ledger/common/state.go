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

// ReadView is a read-only view of ledger state
type ReadView interface {
	// Read returns the entry at the keylet, or nil when there is none or it
	// has another type. The returned entry must not be modified.
	Read(k Keylet) Entry
	Exists(k Keylet) bool
	Fees() Fees
	Rules() Rules
	// Seq is the sequence number of the ledger being built
	Seq() uint32
	// Open reports whether the view is an open (speculative) ledger
	Open() bool
}

// ApplyView is a ReadView that can be modified
type ApplyView interface {
	ReadView
	// Peek returns a private copy of the entry at the keylet. Changes to it
	// take effect through Update.
	Peek(k Keylet) Entry
	Insert(e Entry)
	Update(e Entry)
	Erase(e Entry)
	// DirInsert appends key to the directory rooted at dir and returns the
	// page it was placed on. describe is called on every newly created page.
	// ok is false when the directory is full.
	DirInsert(dir Keylet, key Hash256, describe func(*DirectoryNode)) (page uint64, ok bool)
	// DirRemove removes key from the given page of the directory rooted at
	// dir. The root page is kept when empty if keepRoot is set.
	DirRemove(dir Keylet, page uint64, key Hash256, keepRoot bool) bool
}

// RawView receives the changes of a sandbox when it is applied
type RawView interface {
	ReadView
	RawInsert(e Entry)
	RawReplace(e Entry)
	RawErase(e Entry)
}

// ReadAs reads the entry at k as a T, returning the zero T when absent
func ReadAs[T Entry](v ReadView, k Keylet) T {
	ret, _ := v.Read(k).(T)
	return ret
}

// PeekAs peeks the entry at k as a T, returning the zero T when absent
func PeekAs[T Entry](v ApplyView, k Keylet) T {
	ret, _ := v.Peek(k).(T)
	return ret
}

func ReadAccount(v ReadView, account AccountID) *AccountRoot {
	return ReadAs[*AccountRoot](v, AccountKeylet(account))
}

func PeekAccount(v ApplyView, account AccountID) *AccountRoot {
	return PeekAs[*AccountRoot](v, AccountKeylet(account))
}
