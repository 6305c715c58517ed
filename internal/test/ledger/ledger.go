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

package test_ledger

import (
	"maps"
	"slices"

	"github.com/blinklabs-io/goxrpl/ledger/common"
)

// Compile-time checks that MockView implements the view interfaces
var (
	_ common.ReadView = (*MockView)(nil)
	_ common.RawView  = (*MockView)(nil)
)

// MockView is the canonical internal in-memory ledger used by tests. Tests
// should construct &test_ledger.MockView{} and configure fields (e.g.
// FeesVal, RulesVal, ReadFunc) to control behavior. Entries added with Add or
// applied from a sandbox are kept in a map.
type MockView struct {
	FeesVal  common.Fees
	RulesVal common.Rules
	SeqVal   uint32
	OpenVal  bool
	// ReadFunc optionally overrides entry lookup. If nil, entries are read
	// from the map.
	ReadFunc func(common.Keylet) common.Entry

	entries map[common.Hash256]common.Entry
}

// NewMockView returns a view with default fees, every feature enabled and
// the given entries
func NewMockView(entries ...common.Entry) *MockView {
	m := &MockView{
		FeesVal:  common.DefaultFees(),
		RulesVal: common.AllRules(),
		SeqVal:   1,
	}
	m.Add(entries...)
	return m
}

// Add stores entries directly
func (m *MockView) Add(entries ...common.Entry) {
	if m.entries == nil {
		m.entries = make(map[common.Hash256]common.Entry)
	}
	for _, e := range entries {
		m.entries[e.Key()] = common.CloneEntry(e)
	}
}

// Keys returns the keys of all stored entries in order
func (m *MockView) Keys() []common.Hash256 {
	return slices.SortedFunc(maps.Keys(m.entries), common.Hash256.Compare)
}

func (m *MockView) Read(k common.Keylet) common.Entry {
	if m.ReadFunc != nil {
		return m.ReadFunc(k)
	}
	e, ok := m.entries[k.Key]
	if !ok || e.EntryType() != k.Type {
		return nil
	}
	return e
}

func (m *MockView) Exists(k common.Keylet) bool {
	return m.Read(k) != nil
}

func (m *MockView) Fees() common.Fees { return m.FeesVal }

func (m *MockView) Rules() common.Rules { return m.RulesVal }

func (m *MockView) Seq() uint32 { return m.SeqVal }

func (m *MockView) Open() bool { return m.OpenVal }

func (m *MockView) RawInsert(e common.Entry) {
	m.Add(e)
}

func (m *MockView) RawReplace(e common.Entry) {
	m.Add(e)
}

func (m *MockView) RawErase(e common.Entry) {
	delete(m.entries, e.Key())
}
