package idempotency

import (
	"context"
	"encoding/json"
	"time"

	"github.com/boltdb/bolt"
	"github.com/pkg/errors"

	"github.com/evgeny-myasishchev/savings-ledger/pkg/lib-core-golang/diag"
)

var logger = diag.CreateLogger()

const bucketName = "entry-submissions"

// MaxKeyLength is the longest accepted idempotency key
const MaxKeyLength = 255

// ErrNotFound is returned when there is no record for a key
var ErrNotFound = errors.New("idempotency key not found")

// PendingTimeout is how long a reservation is honored
// before it is considered abandoned and may be taken over
const PendingTimeout = time.Minute

// Record remembers an entry submitted with an idempotency key.
// Record without entry code is a pending reservation
type Record struct {
	Key string `json:"key"`

	// Fingerprint identifies the submitted payload
	Fingerprint string    `json:"fingerprint"`
	EntryCode   string    `json:"entryCode,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Pending checks the submission is still in progress
func (r Record) Pending() bool {
	return r.EntryCode == ""
}

// Store keeps idempotency records
type Store interface {
	Lookup(ctx context.Context, key string) (*Record, error)

	// Reserve atomically writes a pending record unless there is one for the key.
	// Returns the stored record and true if the key was reserved.
	// Abandoned reservations are taken over
	Reserve(ctx context.Context, record Record) (*Record, bool, error)

	// Complete sets the entry code of a reserved key
	Complete(ctx context.Context, key string, entryCode string) error

	// Release removes a pending reservation so the key could be reused
	Release(ctx context.Context, key string) error

	Close() error
}

type boltStore struct {
	db *bolt.DB
}

func getRecord(bucket *bolt.Bucket, key string) (*Record, error) {
	value := bucket.Get([]byte(key))
	if value == nil {
		return nil, ErrNotFound
	}
	var record Record
	if err := json.Unmarshal(value, &record); err != nil {
		return nil, errors.Wrapf(err, "Failed to read idempotency record %v", key)
	}
	return &record, nil
}

func putRecord(bucket *bolt.Bucket, record Record) error {
	data, err := json.Marshal(record)
	if err != nil {
		return err
	}
	return bucket.Put([]byte(record.Key), data)
}

func (s *boltStore) Lookup(ctx context.Context, key string) (*Record, error) {
	var record *Record
	err := s.db.View(func(tx *bolt.Tx) error {
		var err error
		record, err = getRecord(tx.Bucket([]byte(bucketName)), key)
		return err
	})
	if err != nil {
		return nil, err
	}
	return record, nil
}

func (s *boltStore) Reserve(ctx context.Context, record Record) (*Record, bool, error) {
	if record.Key == "" || len(record.Key) > MaxKeyLength {
		return nil, false, errors.Errorf("Idempotency key must be 1 to %v bytes long", MaxKeyLength)
	}
	record.EntryCode = ""
	result := &record
	reserved := false
	err := s.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(bucketName))
		existing, err := getRecord(bucket, record.Key)
		if err != nil && err != ErrNotFound {
			return err
		}
		if existing != nil {
			abandoned := existing.Pending() && existing.CreatedAt.Add(PendingTimeout).Before(record.CreatedAt)
			if !abandoned {
				result = existing
				return nil
			}
			logger.Warn(ctx, "Taking over abandoned reservation of idempotency key %v", record.Key)
		}
		reserved = true
		return putRecord(bucket, record)
	})
	if err != nil {
		return nil, false, errors.Wrap(err, "Failed to reserve idempotency key")
	}
	if !reserved {
		logger.WithData(diag.MsgData{"entryCode": result.EntryCode}).
			Info(ctx, "Idempotency key %v is already taken", record.Key)
	}
	return result, reserved, nil
}

func (s *boltStore) Complete(ctx context.Context, key string, entryCode string) error {
	err := s.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(bucketName))
		record, err := getRecord(bucket, key)
		if err != nil {
			return err
		}
		record.EntryCode = entryCode
		return putRecord(bucket, *record)
	})
	return errors.Wrapf(err, "Failed to complete idempotency key %v", key)
}

func (s *boltStore) Release(ctx context.Context, key string) error {
	err := s.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(bucketName))
		record, err := getRecord(bucket, key)
		if err == ErrNotFound {
			return nil
		}
		if err != nil {
			return err
		}
		if !record.Pending() {
			return errors.Errorf("Idempotency key %v is completed", key)
		}
		return bucket.Delete([]byte(key))
	})
	return errors.Wrapf(err, "Failed to release idempotency key %v", key)
}

func (s *boltStore) Close() error {
	return s.db.Close()
}

// OpenBoltStore opens or creates a bolt database at given path
func OpenBoltStore(path string) (Store, error) {
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, errors.Wrapf(err, "Failed to open idempotency db %v", path)
	}
	if err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucketName))
		return err
	}); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "Failed to create idempotency bucket")
	}
	return &boltStore{db: db}, nil
}
