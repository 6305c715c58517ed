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
)

// EntryType identifies the kind of a ledger entry
type EntryType uint16

const (
	EntryTypeAccountRoot     EntryType = 0x0061
	EntryTypeDirectoryNode   EntryType = 0x0064
	EntryTypeDepositPreauth  EntryType = 0x0070
	EntryTypeTrustLine       EntryType = 0x0072
	EntryTypeMPTokenIssuance EntryType = 0x007e
	EntryTypeMPToken         EntryType = 0x007f
)

func (t EntryType) String() string {
	switch t {
	case EntryTypeAccountRoot:
		return "AccountRoot"
	case EntryTypeDirectoryNode:
		return "DirectoryNode"
	case EntryTypeDepositPreauth:
		return "DepositPreauth"
	case EntryTypeTrustLine:
		return "RippleState"
	case EntryTypeMPTokenIssuance:
		return "MPTokenIssuance"
	case EntryTypeMPToken:
		return "MPToken"
	}
	return fmt.Sprintf("EntryType(%#04x)", uint16(t))
}

func (t EntryType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// Key spaces keep keys of different entry kinds apart
const (
	spaceAccount        = 'a'
	spaceDirNode        = 'd'
	spaceOwnerDir       = 'O'
	spaceTrustLine      = 'r'
	spaceDepositPreauth = 'p'
	spaceIssuance       = '~'
	spaceMPToken        = 't'
	spaceHolderDir      = 'M'
)

// Keylet is the key of a ledger entry together with the type expected there
type Keylet struct {
	Type EntryType
	Key  Hash256
}

func (k Keylet) String() string {
	return k.Type.String() + ":" + k.Key.String()
}

func indexHash(space uint16, parts ...[]byte) Hash256 {
	prefix := make([]byte, 2)
	binary.BigEndian.PutUint16(prefix, space)
	return Blake2b256Hash(append([][]byte{prefix}, parts...)...)
}

func AccountKeylet(account AccountID) Keylet {
	return Keylet{
		Type: EntryTypeAccountRoot,
		Key:  indexHash(spaceAccount, account[:]),
	}
}

// OwnerDirKeylet is the root page of the directory of entries owned by an
// account
func OwnerDirKeylet(owner AccountID) Keylet {
	return Keylet{
		Type: EntryTypeDirectoryNode,
		Key:  indexHash(spaceOwnerDir, owner[:]),
	}
}

// HolderDirKeylet is the root page of the directory of MPToken entries that
// belong to an issuance
func HolderDirKeylet(id TokenID) Keylet {
	return Keylet{
		Type: EntryTypeDirectoryNode,
		Key:  indexHash(spaceHolderDir, id[:]),
	}
}

// DirPageKeylet returns page number page of the directory rooted at root.
// Page zero is the root itself.
func DirPageKeylet(root Hash256, page uint64) Keylet {
	if page == 0 {
		return Keylet{Type: EntryTypeDirectoryNode, Key: root}
	}
	pageBytes := make([]byte, 8)
	binary.BigEndian.PutUint64(pageBytes, page)
	return Keylet{
		Type: EntryTypeDirectoryNode,
		Key:  indexHash(spaceDirNode, root[:], pageBytes),
	}
}

// TrustLineKeylet returns the same key for either ordering of the accounts
func TrustLineKeylet(a, b AccountID, currency Currency) Keylet {
	low, high := a, b
	if high.Less(low) {
		low, high = high, low
	}
	return Keylet{
		Type: EntryTypeTrustLine,
		Key:  indexHash(spaceTrustLine, low[:], high[:], currency[:]),
	}
}

func DepositPreauthKeylet(owner, authorized AccountID) Keylet {
	return Keylet{
		Type: EntryTypeDepositPreauth,
		Key:  indexHash(spaceDepositPreauth, owner[:], authorized[:]),
	}
}

func IssuanceKeylet(id TokenID) Keylet {
	return Keylet{
		Type: EntryTypeMPTokenIssuance,
		Key:  indexHash(spaceIssuance, id[:]),
	}
}

func MPTokenKeylet(id TokenID, holder AccountID) Keylet {
	issuanceKey := IssuanceKeylet(id).Key
	return Keylet{
		Type: EntryTypeMPToken,
		Key:  indexHash(spaceMPToken, issuanceKey[:], holder[:]),
	}
}
