package storage

import (
	"bytes"
	"fmt"
	"path/filepath"
	"time"

	"go.etcd.io/bbolt"

	"github.com/mesh-intelligence/ivory/pkg/types"
)

// BoltFileName is the database file used by the bolt backend.
const BoltFileName = "ivory.bolt"

var tablesBucket = []byte("tables")

// boltStore keeps every snapshot as a value in one Bolt bucket, keyed by
// table name.
type boltStore struct {
	db *bbolt.DB
}

func openBoltStore(dir string) (*boltStore, error) {
	path := filepath.Join(dir, BoltFileName)
	db, err := bbolt.Open(path, 0o600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(tablesBucket)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("create bucket: %w", err)
	}
	return &boltStore{db: db}, nil
}

func (s *boltStore) Load(name string) ([]byte, error) {
	var data []byte
	err := s.db.View(func(tx *bbolt.Tx) error {
		v := tx.Bucket(tablesBucket).Get([]byte(name))
		if v == nil {
			return types.ErrTableNotFound
		}
		// v is only valid for the life of the transaction.
		data = bytes.Clone(v)
		return nil
	})
	return data, err
}

func (s *boltStore) Store(name string, data []byte) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(tablesBucket).Put([]byte(name), data)
	})
}

func (s *boltStore) Remove(name string) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(tablesBucket)
		if b.Get([]byte(name)) == nil {
			return types.ErrTableNotFound
		}
		return b.Delete([]byte(name))
	})
}

func (s *boltStore) List() ([]string, error) {
	var names []string
	err := s.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket(tablesBucket).ForEach(func(k, _ []byte) error {
			names = append(names, string(k))
			return nil
		})
	})
	return names, err
}

func (s *boltStore) Close() error {
	return s.db.Close()
}
