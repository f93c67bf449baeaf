package idempotency

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/bxcodec/faker/v3"
	"github.com/stretchr/testify/assert"
)

func newTestStore(t *testing.T) Store {
	store, err := OpenBoltStore(filepath.Join(t.TempDir(), "idempotency.db"))
	if err != nil {
		panic(err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func randomRecord() Record {
	return Record{
		Key:         faker.UUIDHyphenated(),
		Fingerprint: faker.Word(),
		CreatedAt:   time.Now().UTC().Truncate(time.Second),
	}
}

func randomEntryCode() string {
	return "TXN" + time.Now().UTC().Format("20060102150405") + "4321"
}

func TestBoltStore(t *testing.T) {
	type testCase struct {
		name string
		run  func(t *testing.T, store Store)
	}
	tests := []func() testCase{
		func() testCase {
			return testCase{
				name: "reserve and lookup pending",
				run: func(t *testing.T, store Store) {
					record := randomRecord()
					got, reserved, err := store.Reserve(context.TODO(), record)
					if !assert.NoError(t, err) {
						return
					}
					assert.True(t, reserved)
					assert.Equal(t, record, *got)

					found, err := store.Lookup(context.TODO(), record.Key)
					if assert.NoError(t, err) {
						assert.True(t, found.Pending())
						assert.Equal(t, record.Fingerprint, found.Fingerprint)
						assert.True(t, record.CreatedAt.Equal(found.CreatedAt))
					}
				},
			}
		},
		func() testCase {
			return testCase{
				name: "complete reservation",
				run: func(t *testing.T, store Store) {
					record := randomRecord()
					if _, _, err := store.Reserve(context.TODO(), record); !assert.NoError(t, err) {
						return
					}
					code := randomEntryCode()
					if !assert.NoError(t, store.Complete(context.TODO(), record.Key, code)) {
						return
					}
					found, err := store.Lookup(context.TODO(), record.Key)
					if assert.NoError(t, err) {
						assert.False(t, found.Pending())
						assert.Equal(t, code, found.EntryCode)
						assert.Equal(t, record.Fingerprint, found.Fingerprint)
					}
				},
			}
		},
		func() testCase {
			return testCase{
				name: "keep first reservation",
				run: func(t *testing.T, store Store) {
					first := randomRecord()
					if _, _, err := store.Reserve(context.TODO(), first); !assert.NoError(t, err) {
						return
					}
					second := randomRecord()
					second.Key = first.Key
					got, reserved, err := store.Reserve(context.TODO(), second)
					if !assert.NoError(t, err) {
						return
					}
					assert.False(t, reserved)
					assert.True(t, got.Pending())
					assert.Equal(t, first.Fingerprint, got.Fingerprint)
				},
			}
		},
		func() testCase {
			return testCase{
				name: "keep completed record",
				run: func(t *testing.T, store Store) {
					first := randomRecord()
					if _, _, err := store.Reserve(context.TODO(), first); !assert.NoError(t, err) {
						return
					}
					code := randomEntryCode()
					if !assert.NoError(t, store.Complete(context.TODO(), first.Key, code)) {
						return
					}
					second := first
					second.CreatedAt = first.CreatedAt.Add(PendingTimeout * 10)
					got, reserved, err := store.Reserve(context.TODO(), second)
					if !assert.NoError(t, err) {
						return
					}
					assert.False(t, reserved)
					assert.Equal(t, code, got.EntryCode)
				},
			}
		},
		func() testCase {
			return testCase{
				name: "take over abandoned reservation",
				run: func(t *testing.T, store Store) {
					first := randomRecord()
					if _, _, err := store.Reserve(context.TODO(), first); !assert.NoError(t, err) {
						return
					}
					second := randomRecord()
					second.Key = first.Key
					second.CreatedAt = first.CreatedAt.Add(PendingTimeout + time.Second)
					got, reserved, err := store.Reserve(context.TODO(), second)
					if !assert.NoError(t, err) {
						return
					}
					assert.True(t, reserved)
					assert.Equal(t, second.Fingerprint, got.Fingerprint)
				},
			}
		},
		func() testCase {
			return testCase{
				name: "release reservation",
				run: func(t *testing.T, store Store) {
					record := randomRecord()
					if _, _, err := store.Reserve(context.TODO(), record); !assert.NoError(t, err) {
						return
					}
					if !assert.NoError(t, store.Release(context.TODO(), record.Key)) {
						return
					}
					_, err := store.Lookup(context.TODO(), record.Key)
					assert.Equal(t, ErrNotFound, err)

					_, reserved, err := store.Reserve(context.TODO(), record)
					assert.NoError(t, err)
					assert.True(t, reserved)
				},
			}
		},
		func() testCase {
			return testCase{
				name: "do not release completed record",
				run: func(t *testing.T, store Store) {
					record := randomRecord()
					if _, _, err := store.Reserve(context.TODO(), record); !assert.NoError(t, err) {
						return
					}
					code := randomEntryCode()
					if !assert.NoError(t, store.Complete(context.TODO(), record.Key, code)) {
						return
					}
					assert.Error(t, store.Release(context.TODO(), record.Key))
					found, err := store.Lookup(context.TODO(), record.Key)
					if assert.NoError(t, err) {
						assert.Equal(t, code, found.EntryCode)
					}
				},
			}
		},
		func() testCase {
			return testCase{
				name: "complete unknown key",
				run: func(t *testing.T, store Store) {
					err := store.Complete(context.TODO(), faker.UUIDHyphenated(), randomEntryCode())
					assert.Error(t, err)
				},
			}
		},
		func() testCase {
			return testCase{
				name: "lookup unknown key",
				run: func(t *testing.T, store Store) {
					_, err := store.Lookup(context.TODO(), faker.UUIDHyphenated())
					assert.Equal(t, ErrNotFound, err)
				},
			}
		},
		func() testCase {
			return testCase{
				name: "reject bad keys",
				run: func(t *testing.T, store Store) {
					record := randomRecord()
					record.Key = ""
					_, _, err := store.Reserve(context.TODO(), record)
					assert.Error(t, err)
					record.Key = strings.Repeat("k", MaxKeyLength+1)
					_, _, err = store.Reserve(context.TODO(), record)
					assert.Error(t, err)
				},
			}
		},
	}
	for _, tt := range tests {
		tt := tt()
		t.Run(tt.name, func(t *testing.T) {
			tt.run(t, newTestStore(t))
		})
	}

	t.Run("records survive reopen", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "idempotency.db")
		store, err := OpenBoltStore(path)
		if !assert.NoError(t, err) {
			return
		}
		record := randomRecord()
		_, _, err = store.Reserve(context.TODO(), record)
		assert.NoError(t, err)
		code := randomEntryCode()
		assert.NoError(t, store.Complete(context.TODO(), record.Key, code))
		assert.NoError(t, store.Close())

		store, err = OpenBoltStore(path)
		if !assert.NoError(t, err) {
			return
		}
		defer store.Close()
		found, err := store.Lookup(context.TODO(), record.Key)
		if assert.NoError(t, err) {
			assert.Equal(t, code, found.EntryCode)
		}
	})
}
