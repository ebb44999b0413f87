package storage

import (
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"
)

type snapshot struct {
	Version   int               `json:"version"`
	Values    map[string]string `json:"values"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}

// FileDB keeps every key in one JSON document, rewritten on each Set.
type FileDB struct {
	mu   sync.RWMutex
	file *os.File
	snap *snapshot
	path string
}

func OpenFileDB(path string) (*FileDB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o600)
	if err != nil {
		return nil, err
	}
	db := &FileDB{file: f, path: path}
	if err := db.load(); err != nil {
		_ = f.Close()
		return nil, err
	}
	return db, nil
}

func (db *FileDB) Close() error { return db.file.Close() }

func (db *FileDB) Path() string { return db.path }

func (db *FileDB) load() error {
	info, err := db.file.Stat()
	if err != nil {
		return err
	}
	if info.Size() == 0 {
		db.snap = &snapshot{
			Version:   1,
			Values:    map[string]string{},
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		}
		return db.flushLocked()
	}
	var snap snapshot
	if err := json.NewDecoder(db.file).Decode(&snap); err != nil {
		return err
	}
	if snap.Values == nil {
		snap.Values = map[string]string{}
	}
	db.snap = &snap
	return nil
}

func (db *FileDB) flushLocked() error {
	if _, err := db.file.Seek(0, io.SeekStart); err != nil {
		return err
	}
	enc := json.NewEncoder(db.file)
	enc.SetIndent("", "  ")
	if err := enc.Encode(db.snap); err != nil {
		return err
	}
	// truncate in case new content is shorter
	pos, _ := db.file.Seek(0, io.SeekCurrent)
	if err := db.file.Truncate(pos); err != nil {
		return err
	}
	return db.file.Sync()
}

func (db *FileDB) Get(key string) ([]byte, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()
	v, ok := db.snap.Values[key]
	if !ok {
		return nil, ErrNotFound
	}
	return []byte(v), nil
}

func (db *FileDB) Set(key string, value []byte) error {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.snap.Values[key] = string(value)
	db.snap.UpdatedAt = time.Now()
	return db.flushLocked()
}
