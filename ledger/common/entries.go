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
	"reflect"

	"github.com/blinklabs-io/goxrpl/cbor"
	"github.com/jinzhu/copier"
)

// Entry is a ledger object. Entries are encoded as CBOR arrays whose first
// item is the entry type.
type Entry interface {
	EntryType() EntryType
	Key() Hash256
}

// NewEntry returns an empty entry of the given type, or nil for an unknown type
func NewEntry(t EntryType) Entry {
	switch t {
	case EntryTypeAccountRoot:
		return &AccountRoot{}
	case EntryTypeDirectoryNode:
		return &DirectoryNode{}
	case EntryTypeDepositPreauth:
		return &DepositPreauth{}
	case EntryTypeTrustLine:
		return &TrustLine{}
	case EntryTypeMPTokenIssuance:
		return &MPTokenIssuance{}
	case EntryTypeMPToken:
		return &MPToken{}
	}
	return nil
}

// DecodeEntry decodes an entry produced by EncodeEntry
func DecodeEntry(data []byte) (Entry, error) {
	ret, err := cbor.DecodeById(data, entryDecoders)
	if err != nil {
		return nil, err
	}
	return ret.(Entry), nil
}

func EncodeEntry(e Entry) ([]byte, error) {
	return cbor.Encode(e)
}

var entryDecoders = func() map[int]func() any {
	ret := make(map[int]func() any)
	for _, t := range []EntryType{
		EntryTypeAccountRoot,
		EntryTypeDirectoryNode,
		EntryTypeDepositPreauth,
		EntryTypeTrustLine,
		EntryTypeMPTokenIssuance,
		EntryTypeMPToken,
	} {
		ret[int(t)] = func() any { return NewEntry(t) }
	}
	return ret
}()

var cloneOptions = copier.Option{
	DeepCopy: true,
	// Amount keeps its state in unexported fields, which a field-by-field
	// copy would drop
	Converters: []copier.TypeConverter{
		{
			SrcType: Amount{},
			DstType: Amount{},
			Fn: func(src any) (any, error) {
				return src.(Amount), nil
			},
		},
	},
}

// CloneEntry returns a deep copy of an entry
func CloneEntry[T Entry](e T) T {
	src := reflect.ValueOf(e)
	if src.Kind() != reflect.Pointer || src.IsNil() {
		return e
	}
	dst := reflect.New(src.Elem().Type())
	if err := copier.CopyWithOption(dst.Interface(), e, cloneOptions); err != nil {
		panic("unexpected error cloning ledger entry: " + err.Error())
	}
	return dst.Interface().(T)
}

type AccountRoot struct {
	cbor.StructAsArray
	LedgerEntryType EntryType
	Index           Hash256
	Account         AccountID
	Balance         Amount
	Sequence        uint32
	OwnerCount      uint32
	Flags           uint32
	// AMMID marks an account controlled by an automated market maker
	AMMID *Hash256
}

func NewAccountRoot(account AccountID, balance Amount, sequence uint32) *AccountRoot {
	return &AccountRoot{
		LedgerEntryType: EntryTypeAccountRoot,
		Index:           AccountKeylet(account).Key,
		Account:         account,
		Balance:         balance,
		Sequence:        sequence,
	}
}

func (a *AccountRoot) EntryType() EntryType { return EntryTypeAccountRoot }

func (a *AccountRoot) Key() Hash256 { return a.Index }

func (a *AccountRoot) HasFlag(flag uint32) bool {
	return a.Flags&flag != 0
}

// DirectoryNode is one page of a directory. The root page links to the last
// page through IndexPrevious.
type DirectoryNode struct {
	cbor.StructAsArray
	LedgerEntryType EntryType
	Index           Hash256
	RootIndex       Hash256
	Indexes         []Hash256
	IndexNext       uint64
	IndexPrevious   uint64
	Owner           *AccountID
	TokenID         *TokenID
}

func NewDirectoryNode(root Hash256, page uint64) *DirectoryNode {
	return &DirectoryNode{
		LedgerEntryType: EntryTypeDirectoryNode,
		Index:           DirPageKeylet(root, page).Key,
		RootIndex:       root,
	}
}

func (d *DirectoryNode) EntryType() EntryType { return EntryTypeDirectoryNode }

func (d *DirectoryNode) Key() Hash256 { return d.Index }

// TrustLine is a bilateral balance in one currency between a low and a high
// account, ordered by account ID. A positive balance means the high account
// owes the low account.
type TrustLine struct {
	cbor.StructAsArray
	LedgerEntryType EntryType
	Index           Hash256
	Balance         Amount
	LowLimit        Amount
	HighLimit       Amount
	Flags           uint32
	LowNode         uint64
	HighNode        uint64
}

// NewTrustLine returns an empty line between a and b with zero limits
func NewTrustLine(a, b AccountID, currency Currency) *TrustLine {
	low, high := a, b
	if high.Less(low) {
		low, high = high, low
	}
	return &TrustLine{
		LedgerEntryType: EntryTypeTrustLine,
		Index:           TrustLineKeylet(low, high, currency).Key,
		Balance:         IssuedAmount(0, 0, NewIssue(currency, NoAccount)),
		LowLimit:        IssuedAmount(0, 0, NewIssue(currency, low)),
		HighLimit:       IssuedAmount(0, 0, NewIssue(currency, high)),
	}
}

func (l *TrustLine) EntryType() EntryType { return EntryTypeTrustLine }

func (l *TrustLine) Key() Hash256 { return l.Index }

func (l *TrustLine) Low() AccountID {
	return l.LowLimit.Issuer()
}

func (l *TrustLine) High() AccountID {
	return l.HighLimit.Issuer()
}

func (l *TrustLine) Currency() Currency {
	return l.Balance.Currency()
}

func (l *TrustLine) HasFlag(flag uint32) bool {
	return l.Flags&flag != 0
}

// BalanceFor returns the balance from the point of view of account, issued by
// the other side of the line. Positive means account is owed.
func (l *TrustLine) BalanceFor(account AccountID) Amount {
	bal := l.Balance
	other := l.High()
	if account == l.High() {
		bal = bal.Negate()
		other = l.Low()
	}
	return bal.WithIssuer(other)
}

// LimitFor returns the limit account has set on the line
func (l *TrustLine) LimitFor(account AccountID) Amount {
	if account == l.High() {
		return l.HighLimit
	}
	return l.LowLimit
}

// SideFlags returns the reserve and freeze flags belonging to account's side
// of the line
func (l *TrustLine) SideFlags(account AccountID) (reserve, freeze uint32) {
	if account == l.High() {
		return LsfHighReserve, LsfHighFreeze
	}
	return LsfLowReserve, LsfLowFreeze
}

type DepositPreauth struct {
	cbor.StructAsArray
	LedgerEntryType EntryType
	Index           Hash256
	Account         AccountID
	Authorize       AccountID
	OwnerNode       uint64
}

func NewDepositPreauth(owner, authorized AccountID) *DepositPreauth {
	return &DepositPreauth{
		LedgerEntryType: EntryTypeDepositPreauth,
		Index:           DepositPreauthKeylet(owner, authorized).Key,
		Account:         owner,
		Authorize:       authorized,
	}
}

func (d *DepositPreauth) EntryType() EntryType { return EntryTypeDepositPreauth }

func (d *DepositPreauth) Key() Hash256 { return d.Index }

// MPTokenIssuance describes one token type and its policy
type MPTokenIssuance struct {
	cbor.StructAsArray
	LedgerEntryType   EntryType
	Index             Hash256
	Issuer            AccountID
	Sequence          uint32
	Flags             uint32
	OutstandingAmount uint64
	MaximumAmount     *uint64
	AssetScale        *uint8
	TransferFee       *uint16
	Metadata          Blob
	OwnerNode         uint64
}

func NewMPTokenIssuance(issuer AccountID, sequence uint32) *MPTokenIssuance {
	return &MPTokenIssuance{
		LedgerEntryType: EntryTypeMPTokenIssuance,
		Index:           IssuanceKeylet(NewTokenID(sequence, issuer)).Key,
		Issuer:          issuer,
		Sequence:        sequence,
	}
}

func (i *MPTokenIssuance) EntryType() EntryType { return EntryTypeMPTokenIssuance }

func (i *MPTokenIssuance) Key() Hash256 { return i.Index }

func (i *MPTokenIssuance) TokenID() TokenID {
	return NewTokenID(i.Sequence, i.Issuer)
}

func (i *MPTokenIssuance) HasFlag(flag uint32) bool {
	return i.Flags&flag != 0
}

// MaxAmount returns the cap on the outstanding amount
func (i *MPTokenIssuance) MaxAmount() uint64 {
	if i.MaximumAmount != nil {
		return *i.MaximumAmount
	}
	return MaxTokenAmount
}

// MPToken holds one account's balance of one issuance
type MPToken struct {
	cbor.StructAsArray
	LedgerEntryType EntryType
	Index           Hash256
	Account         AccountID
	IssuanceID      TokenID
	Flags           uint32
	Amount          uint64
	OwnerNode       uint64
	HolderNode      uint64
}

func NewMPToken(id TokenID, holder AccountID) *MPToken {
	return &MPToken{
		LedgerEntryType: EntryTypeMPToken,
		Index:           MPTokenKeylet(id, holder).Key,
		Account:         holder,
		IssuanceID:      id,
	}
}

func (t *MPToken) EntryType() EntryType { return EntryTypeMPToken }

func (t *MPToken) Key() Hash256 { return t.Index }

func (t *MPToken) HasFlag(flag uint32) bool {
	return t.Flags&flag != 0
}
