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

package view_test

import (
	"encoding/binary"
	"testing"

	"github.com/blinklabs-io/goxrpl/internal/test"
	test_ledger "github.com/blinklabs-io/goxrpl/internal/test/ledger"
	"github.com/blinklabs-io/goxrpl/ledger/common"
	"github.com/blinklabs-io/goxrpl/ledger/view"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dirKey(n int) common.Hash256 {
	var ret common.Hash256
	binary.BigEndian.PutUint64(ret[24:], uint64(n))
	return ret
}

func fillDir(t *testing.T, sb *view.Sandbox, dir common.Keylet, owner common.AccountID, n int) []uint64 {
	t.Helper()
	pages := make([]uint64, n)
	for i := range n {
		page, ok := sb.DirInsert(dir, dirKey(i), view.OwnerDirDescriber(owner))
		require.True(t, ok, "insert %d", i)
		pages[i] = page
	}
	return pages
}

func TestDirInsertPages(t *testing.T) {
	alice := test.Account("alice")
	dir := common.OwnerDirKeylet(alice)
	sb := view.NewSandbox(test_ledger.NewMockView())

	pages := fillDir(t, sb, dir, alice, view.DirNodeMaxEntries*2+1)
	assert.Equal(t, uint64(0), pages[0])
	assert.Equal(t, uint64(0), pages[view.DirNodeMaxEntries-1])
	assert.Equal(t, uint64(1), pages[view.DirNodeMaxEntries])
	assert.Equal(t, uint64(2), pages[view.DirNodeMaxEntries*2])

	root := common.ReadAs[*common.DirectoryNode](sb, dir)
	require.NotNil(t, root)
	assert.Equal(t, uint64(1), root.IndexNext)
	assert.Equal(t, uint64(2), root.IndexPrevious)
	require.NotNil(t, root.Owner)
	assert.Equal(t, alice, *root.Owner)

	last := common.ReadAs[*common.DirectoryNode](sb, common.DirPageKeylet(dir.Key, 2))
	require.NotNil(t, last)
	assert.Equal(t, uint64(0), last.IndexNext)
	assert.Equal(t, uint64(1), last.IndexPrevious)
	assert.Equal(t, dir.Key, last.RootIndex)

	assert.Equal(t, view.DirNodeMaxEntries*2+1, view.DirCount(sb, dir))
	i := 0
	for entry := range view.DirWalk(sb, dir, 0) {
		assert.Equal(t, dirKey(i), entry.Key)
		assert.Equal(t, pages[i], entry.Page)
		i++
	}
}

func TestDirInsertFull(t *testing.T) {
	alice := test.Account("alice")
	dir := common.OwnerDirKeylet(alice)
	sb := view.NewSandbox(test_ledger.NewMockView(), view.WithDirectoryPageLimit(1))

	fillDir(t, sb, dir, alice, view.DirNodeMaxEntries)
	_, ok := sb.DirInsert(dir, dirKey(999), nil)
	assert.False(t, ok)
}

func TestDirRemove(t *testing.T) {
	alice := test.Account("alice")
	dir := common.OwnerDirKeylet(alice)
	sb := view.NewSandbox(test_ledger.NewMockView())
	n := view.DirNodeMaxEntries*2 + 1
	pages := fillDir(t, sb, dir, alice, n)

	// Empty the middle page, which must be unlinked
	for i := view.DirNodeMaxEntries; i < view.DirNodeMaxEntries*2; i++ {
		require.True(t, sb.DirRemove(dir, pages[i], dirKey(i), false))
	}
	assert.False(t, sb.Exists(common.DirPageKeylet(dir.Key, 1)))
	root := common.ReadAs[*common.DirectoryNode](sb, dir)
	assert.Equal(t, uint64(2), root.IndexNext)
	last := common.ReadAs[*common.DirectoryNode](sb, common.DirPageKeylet(dir.Key, 2))
	assert.Equal(t, uint64(0), last.IndexPrevious)

	assert.False(t, sb.DirRemove(dir, 0, dirKey(999), false))

	for i := range view.DirNodeMaxEntries {
		require.True(t, sb.DirRemove(dir, pages[i], dirKey(i), false))
	}
	// The root stays while another page links from it
	assert.True(t, sb.Exists(dir))
	require.True(t, sb.DirRemove(dir, 2, dirKey(n-1), false))
	assert.False(t, sb.Exists(dir))
	assert.True(t, view.DirIsEmpty(sb, dir))
}

func TestDirRemoveKeepRoot(t *testing.T) {
	alice := test.Account("alice")
	dir := common.OwnerDirKeylet(alice)
	sb := view.NewSandbox(test_ledger.NewMockView())
	fillDir(t, sb, dir, alice, 1)
	require.True(t, sb.DirRemove(dir, 0, dirKey(0), true))
	assert.True(t, sb.Exists(dir))
	assert.True(t, view.DirIsEmpty(sb, dir))
}
