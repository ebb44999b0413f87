package storage

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/vi13x/antc-trx/internal/logger/mocks"
)

type record struct {
	ID     string `json:"id"`
	Amount string `json:"amount"`
}

type failingKV struct{ err error }

func (f failingKV) Get(string) ([]byte, error) { return nil, f.err }
func (f failingKV) Set(string, []byte) error   { return f.err }
func (f failingKV) Close() error               { return nil }

func openBackends(t *testing.T) map[string]KV {
	t.Helper()
	dir := t.TempDir()

	b, err := OpenBadger(filepath.Join(dir, "badger"))
	require.NoError(t, err)
	f, err := OpenFileDB(filepath.Join(dir, "file", "db.json"))
	require.NoError(t, err)
	m, err := OpenMemory()
	require.NoError(t, err)

	kvs := map[string]KV{DriverBadger: b, DriverFile: f, DriverMemory: m}
	t.Cleanup(func() {
		for _, kv := range kvs {
			_ = kv.Close()
		}
	})
	return kvs
}

func TestStoreRoundTrip(t *testing.T) {
	for name, kv := range openBackends(t) {
		t.Run(name, func(t *testing.T) {
			log := mocks.NewILogger(t)
			s := NewStore(kv, log)

			in := []record{{ID: "ANTC-1", Amount: "100"}, {ID: "ANTC-2", Amount: "50"}}
			s.Save(KeyTransactions, in)
			assert.Equal(t, in, Load(s, KeyTransactions, []record{}))

			reg := map[string]record{"1": {ID: "w"}}
			s.Save(KeyWebhooks, reg)
			assert.Equal(t, reg, Load(s, KeyWebhooks, map[string]record{}))

			s.SaveString(KeyLegacyWebhook, "https://discord.com/api/webhooks/1/x")
			assert.Equal(t, "https://discord.com/api/webhooks/1/x", s.LoadString(KeyLegacyWebhook))
		})
	}
}

func TestStoreLoadMissingReturnsDefault(t *testing.T) {
	kv, err := OpenMemory()
	require.NoError(t, err)
	defer kv.Close()

	s := NewStore(kv, mocks.NewILogger(t))
	assert.Equal(t, []record{}, Load(s, KeyTransactions, []record{}))
	assert.Equal(t, "", s.LoadString(KeyLegacyWebhook))
}

func TestStoreLoadCorruptReturnsDefault(t *testing.T) {
	kv, err := OpenMemory()
	require.NoError(t, err)
	defer kv.Close()

	log := mocks.NewILogger(t)
	log.On("Errorf", "%v", mock.Anything).Once()

	require.NoError(t, kv.Set(KeyTransactions, []byte("{not json")))
	s := NewStore(kv, log)
	assert.Equal(t, []record{}, Load(s, KeyTransactions, []record{}))
}

func TestStoreSaveSwallowsErrors(t *testing.T) {
	log := mocks.NewILogger(t)
	log.On("Errorf", "%v", mock.MatchedBy(func(err error) bool {
		var se *StorageError
		return errors.As(err, &se) && se.Op == "save" && se.Key == KeyTransactions
	})).Once()

	s := NewStore(failingKV{err: errors.New("quota exceeded")}, log)
	assert.NotPanics(t, func() { s.Save(KeyTransactions, []record{{ID: "x"}}) })
}

func TestFileDBPersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "db.json")

	db, err := OpenFileDB(path)
	require.NoError(t, err)
	require.NoError(t, db.Set("k", []byte("a much longer value than the next one")))
	require.NoError(t, db.Set("k", []byte("short")))
	require.NoError(t, db.Close())

	db, err = OpenFileDB(path)
	require.NoError(t, err)
	defer db.Close()

	v, err := db.Get("k")
	require.NoError(t, err)
	assert.Equal(t, "short", string(v))

	_, err = db.Get("missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestOpenUnknownDriver(t *testing.T) {
	_, err := Open("etcd", t.TempDir())
	assert.Error(t, err)
}

func TestBackupAndRestore(t *testing.T) {
	kv, err := OpenMemory()
	require.NoError(t, err)
	defer kv.Close()

	s := NewStore(kv, mocks.NewILogger(t))
	s.Save(KeyTransactions, []record{{ID: "ANTC-1"}})
	s.SaveString(KeyLegacyWebhook, "legacy")

	dir := t.TempDir()
	now := time.Date(2026, 10, 19, 14, 30, 0, 0, time.UTC)
	path, err := s.Backup(dir, now)
	require.NoError(t, err)
	assert.Equal(t, "trxdesk-20261019-143000.json", filepath.Base(path))

	names, err := ListBackups(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"trxdesk-20261019-143000.json"}, names)

	s.Save(KeyTransactions, []record{})
	s.SaveString(KeyLegacyWebhook, "changed")
	s.Save(KeyWebhooks, map[string]string{"7": "later"})

	require.NoError(t, s.Restore(dir, names[0]))
	assert.Empty(t, Load(s, KeyWebhooks, map[string]string{}))
	assert.Equal(t, []record{{ID: "ANTC-1"}}, Load(s, KeyTransactions, []record{}))
	assert.Equal(t, "legacy", s.LoadString(KeyLegacyWebhook))

	assert.Error(t, s.Restore(dir, "../etc/passwd"))
	_, err = s.Backup("", now)
	assert.Error(t, err)
}
