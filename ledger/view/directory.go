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
	"iter"
	"slices"

	"github.com/blinklabs-io/goxrpl/ledger/common"
)

// DirNodeMaxEntries is the number of keys a directory page holds
const DirNodeMaxEntries = 32

// DirInsert appends key to the last page of the directory rooted at dir,
// creating the root or a new page as needed
func (s *Sandbox) DirInsert(dir common.Keylet, key common.Hash256, describe func(*common.DirectoryNode)) (uint64, bool) {
	root := common.PeekAs[*common.DirectoryNode](s, dir)
	if root == nil {
		root = common.NewDirectoryNode(dir.Key, 0)
		if describe != nil {
			describe(root)
		}
		root.Indexes = []common.Hash256{key}
		s.Insert(root)
		return 0, true
	}
	page := root.IndexPrevious
	node := root
	if page != 0 {
		node = common.PeekAs[*common.DirectoryNode](s, common.DirPageKeylet(dir.Key, page))
		if node == nil {
			return 0, false
		}
	}
	if len(node.Indexes) < DirNodeMaxEntries {
		node.Indexes = append(node.Indexes, key)
		s.Update(node)
		return page, true
	}
	next := page + 1
	if next >= s.dirPageLimit {
		return 0, false
	}
	node.IndexNext = next
	root.IndexPrevious = next
	s.Update(node)
	if node != root {
		s.Update(root)
	}
	newNode := common.NewDirectoryNode(dir.Key, next)
	if describe != nil {
		describe(newNode)
	}
	newNode.IndexPrevious = page
	newNode.Indexes = []common.Hash256{key}
	s.Insert(newNode)
	return next, true
}

// DirRemove removes key from one page of the directory rooted at dir. Empty
// pages other than the root are unlinked and erased. The root is erased once
// the whole directory is empty unless keepRoot is set.
func (s *Sandbox) DirRemove(dir common.Keylet, page uint64, key common.Hash256, keepRoot bool) bool {
	node := common.PeekAs[*common.DirectoryNode](s, common.DirPageKeylet(dir.Key, page))
	if node == nil {
		return false
	}
	idx := slices.Index(node.Indexes, key)
	if idx < 0 {
		return false
	}
	node.Indexes = slices.Delete(node.Indexes, idx, idx+1)
	if len(node.Indexes) > 0 {
		s.Update(node)
		return true
	}
	if page == 0 {
		if keepRoot || node.IndexNext != 0 {
			s.Update(node)
		} else {
			s.Erase(node)
		}
		return true
	}
	prevPage, nextPage := node.IndexPrevious, node.IndexNext
	prev := common.PeekAs[*common.DirectoryNode](s, common.DirPageKeylet(dir.Key, prevPage))
	next := prev
	if nextPage != prevPage {
		next = common.PeekAs[*common.DirectoryNode](s, common.DirPageKeylet(dir.Key, nextPage))
	}
	if prev == nil || next == nil {
		return false
	}
	prev.IndexNext = nextPage
	next.IndexPrevious = prevPage
	s.Update(prev)
	if next != prev {
		s.Update(next)
	}
	s.Erase(node)
	root := common.PeekAs[*common.DirectoryNode](s, dir)
	if !keepRoot && root != nil && len(root.Indexes) == 0 && root.IndexNext == 0 {
		s.Erase(root)
	}
	return true
}

// DirEntry is a key found in a directory along with the page holding it
type DirEntry struct {
	Page uint64
	Key  common.Hash256
}

// DirWalk iterates over the keys of a directory in page order, starting at
// the given page
func DirWalk(v common.ReadView, dir common.Keylet, startPage uint64) iter.Seq[DirEntry] {
	return func(yield func(DirEntry) bool) {
		page := startPage
		for {
			node := common.ReadAs[*common.DirectoryNode](v, common.DirPageKeylet(dir.Key, page))
			if node == nil {
				return
			}
			for _, key := range node.Indexes {
				if !yield(DirEntry{Page: page, Key: key}) {
					return
				}
			}
			page = node.IndexNext
			if page == 0 {
				return
			}
		}
	}
}

// DirIsEmpty reports whether the directory rooted at dir holds no keys
func DirIsEmpty(v common.ReadView, dir common.Keylet) bool {
	for range DirWalk(v, dir, 0) {
		return false
	}
	return true
}

// DirCount returns the number of keys in the directory rooted at dir
func DirCount(v common.ReadView, dir common.Keylet) int {
	ret := 0
	for range DirWalk(v, dir, 0) {
		ret++
	}
	return ret
}
