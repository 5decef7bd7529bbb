package pebble

import (
	"context"
	"errors"
	"fmt"

	"github.com/birdayz/sigchain/chainstore"
	"github.com/cockroachdb/pebble"
)

const keyPrefix = "chain/"

// Store keeps chain documents in a local Pebble database.
type Store struct {
	db   *pebble.DB
	sync bool
}

// Open opens or creates the database in dir. With sync set every write is
// fsynced before Put returns.
func Open(dir string, sync bool) (*Store, error) {
	db, err := pebble.Open(dir, &pebble.Options{})
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", dir, err)
	}
	return &Store{db: db, sync: sync}, nil
}

func key(name string) []byte {
	return []byte(keyPrefix + name)
}

func (s *Store) Put(_ context.Context, name string, data []byte) error {
	if err := chainstore.ValidateName(name); err != nil {
		return err
	}
	return s.db.Set(key(name), data, &pebble.WriteOptions{Sync: s.sync})
}

func (s *Store) Get(_ context.Context, name string) ([]byte, error) {
	v, closer, err := s.db.Get(key(name))
	if err != nil {
		if errors.Is(err, pebble.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", chainstore.ErrNotFound, name)
		}
		return nil, err
	}
	defer closer.Close()

	res := make([]byte, len(v))
	copy(res, v)

	return res, nil
}

func (s *Store) List(context.Context) ([]string, error) {
	iter, err := s.db.NewIter(&pebble.IterOptions{
		LowerBound: []byte(keyPrefix),
		UpperBound: prefixEnd([]byte(keyPrefix)),
	})
	if err != nil {
		return nil, err
	}

	var names []string
	for iter.First(); iter.Valid(); iter.Next() {
		names = append(names, string(iter.Key()[len(keyPrefix):]))
	}
	if err := iter.Error(); err != nil {
		_ = iter.Close()
		return nil, err
	}
	return names, iter.Close()
}

func (s *Store) Delete(_ context.Context, name string) error {
	return s.db.Delete(key(name), &pebble.WriteOptions{Sync: s.sync})
}

func (s *Store) Close() error {
	if err := s.db.Flush(); err != nil {
		return err
	}
	return s.db.Close()
}

// prefixEnd returns the smallest key greater than every key with prefix p.
func prefixEnd(p []byte) []byte {
	end := make([]byte, len(p))
	copy(end, p)
	for i := len(end) - 1; i >= 0; i-- {
		end[i]++
		if end[i] != 0 {
			return end[:i+1]
		}
	}
	return nil
}

var _ chainstore.Store = (*Store)(nil)
