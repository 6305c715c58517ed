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

// Package store keeps ledger entries in a LevelDB database. Changes arrive
// through the raw view interface and are written in one batch on Commit.
package store

import (
	"errors"
	"fmt"
	"iter"
	"log/slog"
	"maps"
	"slices"

	"github.com/blinklabs-io/goxrpl/ledger/common"
	lru "github.com/hashicorp/golang-lru"
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/opt"
	"github.com/syndtr/goleveldb/leveldb/storage"
	"github.com/syndtr/goleveldb/leveldb/util"
)

// Compile-time checks that Store implements the view interfaces
var (
	_ common.ReadView = (*Store)(nil)
	_ common.RawView  = (*Store)(nil)
)

const (
	DefaultCacheSize = 4096

	entryPrefix = "e/"
)

// Store is a ledger backed by LevelDB. It is not safe for concurrent use.
//
// Read cannot return an error, so a storage or decoding failure is recorded
// and reported by Err. Callers check Err before trusting a result computed
// from the store.
type Store struct {
	db        *leveldb.DB
	cache     *lru.Cache
	pending   map[common.Hash256]common.Entry
	fees      common.Fees
	rules     common.Rules
	seq       uint32
	open      bool
	cacheSize int
	sync      bool
	logger    *slog.Logger
	err       error
}

type StoreOptionFunc func(*Store)

func WithFees(fees common.Fees) StoreOptionFunc {
	return func(s *Store) {
		s.fees = fees
	}
}

func WithRules(rules common.Rules) StoreOptionFunc {
	return func(s *Store) {
		s.rules = rules
	}
}

func WithLedgerSeq(seq uint32) StoreOptionFunc {
	return func(s *Store) {
		s.seq = seq
	}
}

// WithOpenLedger marks the store as an open ledger, which enables the
// checks reserved for speculative application
func WithOpenLedger(open bool) StoreOptionFunc {
	return func(s *Store) {
		s.open = open
	}
}

// WithCacheSize sets the number of decoded entries kept in memory
func WithCacheSize(size int) StoreOptionFunc {
	return func(s *Store) {
		s.cacheSize = size
	}
}

// WithSyncWrites makes Commit wait for the data to reach disk
func WithSyncWrites(sync bool) StoreOptionFunc {
	return func(s *Store) {
		s.sync = sync
	}
}

func WithLogger(logger *slog.Logger) StoreOptionFunc {
	return func(s *Store) {
		s.logger = logger
	}
}

// New opens the store at path, creating it if needed. An empty path keeps
// everything in memory.
func New(path string, opts ...StoreOptionFunc) (*Store, error) {
	s := &Store{
		pending:   make(map[common.Hash256]common.Entry),
		fees:      common.DefaultFees(),
		rules:     common.AllRules(),
		seq:       1,
		cacheSize: DefaultCacheSize,
	}
	for _, o := range opts {
		o(s)
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	cache, err := lru.New(s.cacheSize)
	if err != nil {
		return nil, fmt.Errorf("create entry cache: %w", err)
	}
	s.cache = cache
	var db *leveldb.DB
	if path == "" {
		db, err = leveldb.Open(storage.NewMemStorage(), nil)
	} else {
		db, err = leveldb.OpenFile(path, &opt.Options{})
	}
	if err != nil {
		return nil, fmt.Errorf("open ledger database: %w", err)
	}
	s.db = db
	s.logger.Debug("opened ledger store", "path", path, "seq", s.seq)
	return s, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Err returns the first storage error seen since the last Commit or Rollback
func (s *Store) Err() error {
	return s.err
}

func (s *Store) fail(err error, key common.Hash256) {
	s.logger.Error("ledger store failure", "key", key.String(), "error", err)
	if s.err == nil {
		s.err = err
	}
}

func entryKey(key common.Hash256) []byte {
	return append([]byte(entryPrefix), key[:]...)
}

func (s *Store) Fees() common.Fees { return s.fees }

func (s *Store) Rules() common.Rules { return s.rules }

func (s *Store) Seq() uint32 { return s.seq }

func (s *Store) Open() bool { return s.open }

func (s *Store) load(key common.Hash256) common.Entry {
	if e, ok := s.pending[key]; ok {
		return e
	}
	if cached, ok := s.cache.Get(key); ok {
		return cached.(common.Entry)
	}
	data, err := s.db.Get(entryKey(key), nil)
	if err != nil {
		if !errors.Is(err, leveldb.ErrNotFound) {
			s.fail(err, key)
		}
		return nil
	}
	e, err := common.DecodeEntry(data)
	if err != nil {
		s.fail(fmt.Errorf("decode ledger entry: %w", err), key)
		return nil
	}
	s.cache.Add(key, e)
	return e
}

func (s *Store) Read(k common.Keylet) common.Entry {
	e := s.load(k.Key)
	if e == nil || e.EntryType() != k.Type {
		return nil
	}
	return e
}

func (s *Store) Exists(k common.Keylet) bool {
	return s.Read(k) != nil
}

func (s *Store) RawInsert(e common.Entry) {
	s.pending[e.Key()] = e
}

func (s *Store) RawReplace(e common.Entry) {
	s.pending[e.Key()] = e
}

func (s *Store) RawErase(e common.Entry) {
	s.pending[e.Key()] = nil
}

// Commit writes the pending changes to the database in one batch
func (s *Store) Commit() error {
	if s.err != nil {
		return fmt.Errorf("ledger store failed earlier: %w", s.err)
	}
	batch := new(leveldb.Batch)
	keys := slices.SortedFunc(maps.Keys(s.pending), common.Hash256.Compare)
	for _, key := range keys {
		e := s.pending[key]
		if e == nil {
			batch.Delete(entryKey(key))
			continue
		}
		data, err := common.EncodeEntry(e)
		if err != nil {
			return fmt.Errorf("encode ledger entry %s: %w", key, err)
		}
		batch.Put(entryKey(key), data)
	}
	if err := s.db.Write(batch, &opt.WriteOptions{Sync: s.sync}); err != nil {
		return fmt.Errorf("write ledger batch: %w", err)
	}
	for _, key := range keys {
		if e := s.pending[key]; e != nil {
			s.cache.Add(key, e)
		} else {
			s.cache.Remove(key)
		}
	}
	s.logger.Debug("committed ledger changes", "entries", len(keys))
	clear(s.pending)
	return nil
}

// Rollback drops the pending changes and any recorded error
func (s *Store) Rollback() {
	clear(s.pending)
	s.err = nil
}

// Entries iterates over the committed entries in key order
func (s *Store) Entries() iter.Seq2[common.Entry, error] {
	return func(yield func(common.Entry, error) bool) {
		it := s.db.NewIterator(util.BytesPrefix([]byte(entryPrefix)), nil)
		defer it.Release()
		for it.Next() {
			e, err := common.DecodeEntry(it.Value())
			if !yield(e, err) {
				return
			}
		}
		if err := it.Error(); err != nil {
			yield(nil, err)
		}
	}
}
