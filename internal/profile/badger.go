// Campusmatch - Personalized Campus Opportunity Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/campusmatch

package profile

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"sync"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"
)

// profileKeyPrefix namespaces profile records in BadgerDB.
const profileKeyPrefix = "profile:"

// lockStripes is the number of per-user mutex stripes. Distinct users map to
// different stripes with high probability, so they rarely serialize on the
// same lock.
const lockStripes = 64

// BadgerStore implements Store using BadgerDB for durable storage.
// Profiles survive restarts; each Update is a read-modify-write under a
// striped per-user mutex plus a Badger transaction.
type BadgerStore struct {
	db    *badger.DB
	locks [lockStripes]sync.Mutex
}

// Open opens a Badger-backed profile store at the given path.
// With inMemory set, state lives only for the process lifetime; this is the
// mode tests use.
func Open(path string, inMemory bool) (*BadgerStore, error) {
	opts := badger.DefaultOptions(path).WithLogger(nil)
	if inMemory {
		opts = badger.DefaultOptions("").WithInMemory(true).WithLogger(nil)
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open profile store: %w", err)
	}

	return NewBadgerStore(db), nil
}

// NewBadgerStore wraps an already-open BadgerDB handle.
func NewBadgerStore(db *badger.DB) *BadgerStore {
	return &BadgerStore{db: db}
}

// Get retrieves the profile for userID, creating and persisting an empty one
// on first access.
func (s *BadgerStore) Get(ctx context.Context, userID string) (*Profile, error) {
	lock := s.lockFor(userID)
	lock.Lock()
	defer lock.Unlock()

	p, err := s.load(userID)
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, ErrProfileNotFound) {
		return nil, err
	}

	p = NewProfile(userID)
	if err := s.persist(p); err != nil {
		return nil, err
	}
	return p, nil
}

// Update applies mutate to the user's profile and persists the result.
// The profile is created first if it does not exist, so the very first
// interaction a user makes already has state to mutate.
func (s *BadgerStore) Update(ctx context.Context, userID string, mutate func(*Profile) error) (*Profile, error) {
	lock := s.lockFor(userID)
	lock.Lock()
	defer lock.Unlock()

	p, err := s.load(userID)
	if errors.Is(err, ErrProfileNotFound) {
		p = NewProfile(userID)
	} else if err != nil {
		return nil, err
	}

	if err := mutate(p); err != nil {
		return nil, err
	}

	p.UpdatedAt = time.Now().UTC()
	if err := s.persist(p); err != nil {
		return nil, err
	}
	return p, nil
}

// Close releases the underlying BadgerDB handle.
func (s *BadgerStore) Close() error {
	return s.db.Close()
}

// load reads a profile without taking the stripe lock (callers hold it).
func (s *BadgerStore) load(userID string) (*Profile, error) {
	var p Profile

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(profileKeyPrefix + userID))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrProfileNotFound
		}
		if err != nil {
			return fmt.Errorf("get profile: %w", err)
		}

		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &p)
		})
	})
	if err != nil {
		return nil, err
	}

	return &p, nil
}

// persist writes a profile in a single transaction.
func (s *BadgerStore) persist(p *Profile) error {
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal profile: %w", err)
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(profileKeyPrefix+p.UserID), data)
	})
	if err != nil {
		return fmt.Errorf("persist profile: %w", err)
	}
	return nil
}

// lockFor maps a user ID to its mutex stripe.
func (s *BadgerStore) lockFor(userID string) *sync.Mutex {
	h := fnv.New32a()
	h.Write([]byte(userID)) //nolint:errcheck // fnv hash writes never fail
	return &s.locks[h.Sum32()%lockStripes]
}
