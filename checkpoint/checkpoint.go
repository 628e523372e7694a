// Package checkpoint remembers, per channel, the newest message already
// archived so an archive run can resume with an After bound.
package checkpoint

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dgraph-io/badger/v4"

	"github.com/nrfta/chat-paging-go/snowflake"
)

const keyPrefix = "checkpoint:"

func key(channelID snowflake.ID) []byte {
	return []byte(keyPrefix + channelID.String())
}

type Store struct {
	db *badger.DB
}

// Open opens the checkpoint database at path. An empty path keeps
// checkpoints in memory.
func Open(path string) (*Store, error) {
	opts := badger.DefaultOptions(path).WithLoggingLevel(badger.ERROR)
	if path == "" {
		opts = badger.DefaultOptions("").WithInMemory(true).WithLogger(nil)
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open checkpoints: %w", err)
	}
	return New(db), nil
}

// New wraps an already open database.
func New(db *badger.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Save records lastID for the channel. A checkpoint never moves backwards:
// saving an ID at or below the stored one is a no-op.
func (s *Store) Save(channelID, lastID snowflake.ID) error {
	return s.db.Update(func(txn *badger.Txn) error {
		current, ok, err := get(txn, channelID)
		if err != nil {
			return err
		}
		if ok && current >= lastID {
			return nil
		}
		return txn.Set(key(channelID), []byte(lastID.String()))
	})
}

// Load returns the checkpoint of a channel; ok is false when none was saved.
func (s *Store) Load(channelID snowflake.ID) (id snowflake.ID, ok bool, err error) {
	err = s.db.View(func(txn *badger.Txn) error {
		id, ok, err = get(txn, channelID)
		return err
	})
	return id, ok, err
}

// All returns every stored checkpoint keyed by channel.
func (s *Store) All() (map[snowflake.ID]snowflake.ID, error) {
	out := make(map[snowflake.ID]snowflake.ID)
	prefix := []byte(keyPrefix)

	err := s.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			item := it.Item()
			channelID, err := snowflake.Parse(strings.TrimPrefix(string(item.Key()), keyPrefix))
			if err != nil {
				return fmt.Errorf("corrupt checkpoint key %q: %w", item.Key(), err)
			}
			err = item.Value(func(val []byte) error {
				id, err := snowflake.Parse(string(val))
				if err != nil {
					return fmt.Errorf("corrupt checkpoint for channel %s: %w", channelID, err)
				}
				out[channelID] = id
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	return out, err
}

func get(txn *badger.Txn, channelID snowflake.ID) (snowflake.ID, bool, error) {
	item, err := txn.Get(key(channelID))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}

	var id snowflake.ID
	err = item.Value(func(val []byte) error {
		id, err = snowflake.Parse(string(val))
		return err
	})
	if err != nil {
		return 0, false, fmt.Errorf("corrupt checkpoint for channel %s: %w", channelID, err)
	}
	return id, true, nil
}
