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

package mptoken

import (
	"errors"
	"fmt"
	"iter"
	"strconv"
	"strings"

	"github.com/blinklabs-io/goxrpl/ledger/common"
	"github.com/blinklabs-io/goxrpl/ledger/view"
)

const (
	DefaultHolderLimit = 50
	MaxHolderLimit     = 100
)

var ErrInvalidCursor = errors.New("invalid holder cursor")

// HolderRecord describes one holder of an issuance
type HolderRecord struct {
	Account    common.AccountID `json:"account"`
	TokenIndex common.Hash256   `json:"mptoken_index"`
	Amount     uint64           `json:"mpt_amount,string"`
	Flags      uint32           `json:"flags"`

	page uint64
}

func (r HolderRecord) Locked() bool {
	return r.Flags&common.LsfMPTLocked != 0
}

func (r HolderRecord) Authorized() bool {
	return r.Flags&common.LsfMPTAuthorized != 0
}

// Cursor resumes holder enumeration after the holder entry with key After,
// which sits on directory page Page
type Cursor struct {
	After common.Hash256
	Page  uint64
}

func (c Cursor) String() string {
	return c.After.String() + "," + strconv.FormatUint(c.Page, 10)
}

func ParseCursor(s string) (Cursor, error) {
	key, page, ok := strings.Cut(s, ",")
	if !ok {
		return Cursor{}, ErrInvalidCursor
	}
	after, err := common.ParseHash256(key)
	if err != nil {
		return Cursor{}, fmt.Errorf("%w: %w", ErrInvalidCursor, err)
	}
	pageNum, err := strconv.ParseUint(page, 10, 64)
	if err != nil {
		return Cursor{}, fmt.Errorf("%w: %w", ErrInvalidCursor, err)
	}
	return Cursor{After: after, Page: pageNum}, nil
}

// Holders iterates over the holders of an issuance in directory order,
// starting after the cursor when one is given. An error ends the sequence.
func Holders(v common.ReadView, id common.TokenID, cursor *Cursor) iter.Seq2[HolderRecord, error] {
	return func(yield func(HolderRecord, error) bool) {
		if readIssuance(v, id) == nil {
			yield(HolderRecord{}, fmt.Errorf("issuance %s: %w", id, common.ErrObjectNotFound))
			return
		}
		dir := common.HolderDirKeylet(id)
		var startPage uint64
		skipping := false
		if cursor != nil {
			node := common.ReadAs[*common.DirectoryNode](v, common.DirPageKeylet(dir.Key, cursor.Page))
			if node == nil || node.RootIndex != dir.Key {
				yield(HolderRecord{}, ErrInvalidCursor)
				return
			}
			startPage = cursor.Page
			skipping = true
		}
		for entry := range view.DirWalk(v, dir, startPage) {
			if skipping {
				if entry.Page != cursor.Page {
					// The cursor key was not on its page
					yield(HolderRecord{}, ErrInvalidCursor)
					return
				}
				if entry.Key == cursor.After {
					skipping = false
				}
				continue
			}
			token := common.ReadAs[*common.MPToken](v, common.Keylet{Type: common.EntryTypeMPToken, Key: entry.Key})
			if token == nil {
				yield(HolderRecord{}, fmt.Errorf("holder entry %s: %w", entry.Key, common.ErrObjectNotFound))
				return
			}
			rec := HolderRecord{
				Account:    token.Account,
				TokenIndex: token.Key(),
				Amount:     token.Amount,
				Flags:      token.Flags,
				page:       entry.Page,
			}
			if !yield(rec, nil) {
				return
			}
		}
		if skipping {
			yield(HolderRecord{}, ErrInvalidCursor)
		}
	}
}

// HolderPage returns up to limit holders after the cursor, and a cursor for
// the next page when more remain. The limit is clamped to MaxHolderLimit and
// defaults to DefaultHolderLimit.
func HolderPage(v common.ReadView, id common.TokenID, cursor *Cursor, limit int) ([]HolderRecord, *Cursor, error) {
	if limit <= 0 {
		limit = DefaultHolderLimit
	}
	limit = min(limit, MaxHolderLimit)
	var ret []HolderRecord
	var last *Cursor
	for rec, err := range Holders(v, id, cursor) {
		if err != nil {
			return nil, nil, err
		}
		if len(ret) == limit {
			return ret, last, nil
		}
		ret = append(ret, rec)
		last = &Cursor{After: rec.TokenIndex, Page: rec.page}
	}
	return ret, nil, nil
}
