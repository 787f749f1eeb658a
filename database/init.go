package database

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.etcd.io/bbolt"
)

var Buckets = map[string][]byte{
	"profiles": []byte("Profiles"),
}

// BoltStore keeps one nested bucket per scope under Profiles.
type BoltStore struct {
	db *bbolt.DB
}

// Init opens (or creates) the bolt file and its root buckets.
func Init(path string) (*BoltStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, err
	}

	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		for _, bucket := range Buckets {
			if _, err := tx.CreateBucketIfNotExists(bucket); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &BoltStore{db: db}, nil
}

func (s *BoltStore) Close() error {
	return s.db.Close()
}

func (s *BoltStore) Get(_ context.Context, scope, key string) ([]byte, error) {
	var out []byte
	err := s.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket(Buckets["profiles"]).Bucket([]byte(scope))
		if b == nil {
			return ErrNotFound
		}
		v := b.Get([]byte(key))
		if v == nil {
			return ErrNotFound
		}
		// v is only valid for the life of the transaction
		out = append([]byte(nil), v...)
		return nil
	})
	return out, err
}

func (s *BoltStore) Put(_ context.Context, scope, key string, value []byte) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		b, err := tx.Bucket(Buckets["profiles"]).CreateBucketIfNotExists([]byte(scope))
		if err != nil {
			return err
		}
		return b.Put([]byte(key), value)
	})
}

func (s *BoltStore) Delete(_ context.Context, scope, key string) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(Buckets["profiles"]).Bucket([]byte(scope))
		if b == nil {
			return nil
		}
		return b.Delete([]byte(key))
	})
}
