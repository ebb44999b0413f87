package storage

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/vi13x/antc-trx/internal/logger"
)

// Logical keys, matching the storefront browser storage layout.
const (
	KeyTransactions  = "antc_transactions"
	KeyWebhooks      = "antc_webhooks"
	KeyLegacyWebhook = "antc_webhook_url"
)

// Keys lists every logical key the Store persists.
var Keys = []string{KeyTransactions, KeyWebhooks, KeyLegacyWebhook}

// StorageError is logged, never returned to Store callers.
type StorageError struct {
	Op  string
	Key string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s %s: %v", e.Op, e.Key, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// Store is the best-effort persistence adapter for the ledger and webhook registry.
type Store struct {
	kv  KV
	log logger.ILogger
}

func NewStore(kv KV, log logger.ILogger) *Store {
	return &Store{kv: kv, log: log}
}

func (s *Store) KV() KV { return s.kv }

// Load decodes the JSON value at key. Missing or corrupt data yields def.
func Load[T any](s *Store, key string, def T) T {
	raw, err := s.kv.Get(key)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			s.log.Errorf("%v", &StorageError{Op: "load", Key: key, Err: err})
		}
		return def
	}
	if len(raw) == 0 {
		return def
	}
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		s.log.Errorf("%v", &StorageError{Op: "decode", Key: key, Err: err})
		return def
	}
	return v
}

// Save encodes v as JSON and writes it synchronously. Failures are logged only.
func (s *Store) Save(key string, v any) {
	raw, err := json.Marshal(v)
	if err != nil {
		s.log.Errorf("%v", &StorageError{Op: "encode", Key: key, Err: err})
		return
	}
	s.write(key, raw)
}

// LoadString reads a bare string value; "" when absent.
func (s *Store) LoadString(key string) string {
	raw, err := s.kv.Get(key)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			s.log.Errorf("%v", &StorageError{Op: "load", Key: key, Err: err})
		}
		return ""
	}
	return string(raw)
}

func (s *Store) SaveString(key, value string) {
	s.write(key, []byte(value))
}

func (s *Store) write(key string, raw []byte) {
	if err := s.kv.Set(key, raw); err != nil {
		s.log.Errorf("%v", &StorageError{Op: "save", Key: key, Err: err})
	}
}

func (s *Store) Close() error { return s.kv.Close() }
