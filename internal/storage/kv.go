package storage

import (
	"errors"
	"fmt"
	"strings"
)

var ErrNotFound = errors.New("not found")

// KV is the durable key-value storage behind the Store.
type KV interface {
	// Get returns ErrNotFound when key was never written.
	Get(key string) ([]byte, error)
	Set(key string, value []byte) error
	Close() error
}

const (
	DriverBadger = "badger"
	DriverFile   = "file"
	DriverMemory = "memory"
)

// Open picks a KV backend by driver name.
func Open(driver, path string) (KV, error) {
	switch strings.ToLower(driver) {
	case DriverBadger, "":
		return OpenBadger(path)
	case DriverFile:
		return OpenFileDB(path)
	case DriverMemory:
		return OpenMemory()
	default:
		return nil, fmt.Errorf("unknown storage driver %q", driver)
	}
}
