package submission

import (
	"time"

	bolt "go.etcd.io/bbolt"
)

var submissionBucket = []byte("submissions")

type boltStore struct {
	db *bolt.DB
}

// NewBoltStore opens (or creates) the durable queue file at path.
func NewBoltStore(path string) (*boltStore, error) {
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, err
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(submissionBucket)
		return err
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &boltStore{db: db}, nil
}

func (s *boltStore) Close() error {
	return s.db.Close()
}

func (s *boltStore) Set(id string, data []byte) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(submissionBucket).Put([]byte(id), data)
	})
}

func (s *boltStore) Get(id string) ([]byte, error) {
	var data []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(submissionBucket).Get([]byte(id))
		if v == nil {
			return ErrNotFound
		}

		data = make([]byte, len(v))
		copy(data, v)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return data, nil
}

func (s *boltStore) Remove(id string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(submissionBucket).Delete([]byte(id))
	})
}

func (s *boltStore) List() (map[string][]byte, error) {
	snapshot := map[string][]byte{}
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(submissionBucket).ForEach(func(k, v []byte) error {
			data := make([]byte, len(v))
			copy(data, v)
			snapshot[string(k)] = data
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	return snapshot, nil
}
