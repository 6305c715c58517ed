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

package view

import (
	"fmt"
	"maps"
	"slices"

	"github.com/blinklabs-io/goxrpl/ledger/common"
)

// Compile-time checks that Sandbox implements the view interfaces
var (
	_ common.ApplyView = (*Sandbox)(nil)
	_ common.RawView   = (*Sandbox)(nil)
)

// DefaultDirectoryPageLimit is the number of pages a directory may grow to
const DefaultDirectoryPageLimit uint64 = 262144

type action uint8

const (
	actionCache action = iota
	actionInsert
	actionModify
	actionErase
)

type item struct {
	action action
	entry  common.Entry
}

// Sandbox buffers changes on top of a parent view. Nothing reaches the parent
// until Apply is called, so a sandbox can be thrown away to roll back.
type Sandbox struct {
	parent       common.ReadView
	items        map[common.Hash256]*item
	dirPageLimit uint64
}

type SandboxOptionFunc func(*Sandbox)

// WithDirectoryPageLimit bounds the number of pages in any directory
func WithDirectoryPageLimit(limit uint64) SandboxOptionFunc {
	return func(s *Sandbox) {
		s.dirPageLimit = limit
	}
}

// NewSandbox returns a sandbox over parent. A sandbox nested in another
// sandbox inherits its directory page limit.
func NewSandbox(parent common.ReadView, opts ...SandboxOptionFunc) *Sandbox {
	s := &Sandbox{
		parent:       parent,
		items:        make(map[common.Hash256]*item),
		dirPageLimit: DefaultDirectoryPageLimit,
	}
	if p, ok := parent.(*Sandbox); ok {
		s.dirPageLimit = p.dirPageLimit
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Sandbox) Parent() common.ReadView {
	return s.parent
}

func (s *Sandbox) Fees() common.Fees { return s.parent.Fees() }

func (s *Sandbox) Rules() common.Rules { return s.parent.Rules() }

func (s *Sandbox) Seq() uint32 { return s.parent.Seq() }

func (s *Sandbox) Open() bool { return s.parent.Open() }

func (s *Sandbox) Read(k common.Keylet) common.Entry {
	if it, ok := s.items[k.Key]; ok {
		if it.action == actionErase || it.entry.EntryType() != k.Type {
			return nil
		}
		return it.entry
	}
	return s.parent.Read(k)
}

func (s *Sandbox) Exists(k common.Keylet) bool {
	return s.Read(k) != nil
}

func (s *Sandbox) Peek(k common.Keylet) common.Entry {
	if it, ok := s.items[k.Key]; ok {
		if it.action == actionErase || it.entry.EntryType() != k.Type {
			return nil
		}
		return it.entry
	}
	e := s.parent.Read(k)
	if e == nil {
		return nil
	}
	// Later peeks of the same key share this copy
	c := common.CloneEntry(e)
	s.items[k.Key] = &item{action: actionCache, entry: c}
	return c
}

func (s *Sandbox) parentHas(e common.Entry) bool {
	return s.parent.Exists(common.Keylet{Type: e.EntryType(), Key: e.Key()})
}

func (s *Sandbox) Insert(e common.Entry) {
	key := e.Key()
	if it, ok := s.items[key]; ok {
		if it.action != actionErase {
			panic(fmt.Sprintf("insert of existing ledger entry %s", key))
		}
		s.items[key] = &item{action: actionModify, entry: e}
		return
	}
	if s.parentHas(e) {
		panic(fmt.Sprintf("insert of existing ledger entry %s", key))
	}
	s.items[key] = &item{action: actionInsert, entry: e}
}

func (s *Sandbox) Update(e common.Entry) {
	key := e.Key()
	if it, ok := s.items[key]; ok {
		switch it.action {
		case actionErase:
			panic(fmt.Sprintf("update of erased ledger entry %s", key))
		case actionCache:
			it.action = actionModify
		}
		it.entry = e
		return
	}
	if !s.parentHas(e) {
		panic(fmt.Sprintf("update of missing ledger entry %s", key))
	}
	s.items[key] = &item{action: actionModify, entry: e}
}

func (s *Sandbox) Erase(e common.Entry) {
	key := e.Key()
	if it, ok := s.items[key]; ok {
		switch it.action {
		case actionErase:
			panic(fmt.Sprintf("erase of erased ledger entry %s", key))
		case actionInsert:
			delete(s.items, key)
		default:
			it.action = actionErase
			it.entry = e
		}
		return
	}
	if !s.parentHas(e) {
		panic(fmt.Sprintf("erase of missing ledger entry %s", key))
	}
	s.items[key] = &item{action: actionErase, entry: e}
}

func (s *Sandbox) RawInsert(e common.Entry) { s.Insert(e) }

func (s *Sandbox) RawReplace(e common.Entry) { s.Update(e) }

func (s *Sandbox) RawErase(e common.Entry) { s.Erase(e) }

func (s *Sandbox) sortedKeys() []common.Hash256 {
	return slices.SortedFunc(maps.Keys(s.items), common.Hash256.Compare)
}

// Apply pushes every buffered change to the target view in key order and
// empties the sandbox
func (s *Sandbox) Apply(to common.RawView) {
	for _, key := range s.sortedKeys() {
		it := s.items[key]
		switch it.action {
		case actionInsert:
			to.RawInsert(it.entry)
		case actionModify:
			to.RawReplace(it.entry)
		case actionErase:
			to.RawErase(it.entry)
		}
	}
	s.Discard()
}

// Discard drops every buffered change
func (s *Sandbox) Discard() {
	clear(s.items)
}

// ChangeKind describes what happened to a ledger entry
type ChangeKind uint8

const (
	ChangeCreated ChangeKind = iota + 1
	ChangeModified
	ChangeDeleted
)

func (k ChangeKind) String() string {
	switch k {
	case ChangeCreated:
		return "CreatedNode"
	case ChangeModified:
		return "ModifiedNode"
	case ChangeDeleted:
		return "DeletedNode"
	}
	return fmt.Sprintf("ChangeKind(%d)", k)
}

// Change is one entry changed by a sandbox. Before is nil for created
// entries and After is nil for deleted ones.
type Change struct {
	Key    common.Hash256
	Kind   ChangeKind
	Before common.Entry
	After  common.Entry
}

func (c Change) EntryType() common.EntryType {
	if c.After != nil {
		return c.After.EntryType()
	}
	return c.Before.EntryType()
}

// Changes lists the buffered changes in key order
func (s *Sandbox) Changes() []Change {
	var ret []Change
	for _, key := range s.sortedKeys() {
		it := s.items[key]
		k := common.Keylet{Type: it.entry.EntryType(), Key: key}
		switch it.action {
		case actionInsert:
			ret = append(ret, Change{Key: key, Kind: ChangeCreated, After: it.entry})
		case actionModify:
			ret = append(ret, Change{Key: key, Kind: ChangeModified, Before: s.parent.Read(k), After: it.entry})
		case actionErase:
			ret = append(ret, Change{Key: key, Kind: ChangeDeleted, Before: s.parent.Read(k)})
		}
	}
	return ret
}

// Size returns the number of buffered changes
func (s *Sandbox) Size() int {
	ret := 0
	for _, it := range s.items {
		if it.action != actionCache {
			ret++
		}
	}
	return ret
}
