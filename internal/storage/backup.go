package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/hashicorp/go-multierror"
)

const backupPrefix = "trxdesk-"

// emptyValues is what a backup records for a key that was never written, so a
// restore also clears data created after the snapshot.
var emptyValues = map[string]string{
	KeyTransactions:  "[]",
	KeyWebhooks:      "{}",
	KeyLegacyWebhook: "",
}

// Backup copies every logical key into a timestamped JSON file under dir.
func (s *Store) Backup(dir string, now time.Time) (string, error) {
	if dir == "" {
		return "", errors.New("backups dir is not configured")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	dump := make(map[string]string, len(Keys))
	for _, k := range Keys {
		raw, err := s.kv.Get(k)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				dump[k] = emptyValues[k]
				continue
			}
			return "", &StorageError{Op: "backup", Key: k, Err: err}
		}
		dump[k] = string(raw)
	}
	b, err := json.MarshalIndent(dump, "", "  ")
	if err != nil {
		return "", err
	}
	name := fmt.Sprintf("%s%s.json", backupPrefix, now.Format("20060102-150405"))
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, b, 0o600); err != nil {
		return "", err
	}
	return path, nil
}

func ListBackups(dir string) ([]string, error) {
	ents, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var out []string
	for _, e := range ents {
		if !e.IsDir() && strings.HasPrefix(e.Name(), backupPrefix) && strings.HasSuffix(e.Name(), ".json") {
			out = append(out, e.Name())
		}
	}
	sort.Strings(out)
	return out, nil
}

// Restore writes the keys of a backup file back into the KV.
// Callers must reload anything they hold in memory.
func (s *Store) Restore(dir, name string) error {
	if name != filepath.Base(name) {
		return fmt.Errorf("invalid backup name %q", name)
	}
	b, err := os.ReadFile(filepath.Join(dir, name))
	if err != nil {
		return err
	}
	var dump map[string]string
	if err := json.Unmarshal(b, &dump); err != nil {
		return fmt.Errorf("backup %s: %w", name, err)
	}
	var result *multierror.Error
	for _, k := range Keys {
		v, ok := dump[k]
		if !ok {
			continue
		}
		if err := s.kv.Set(k, []byte(v)); err != nil {
			result = multierror.Append(result, &StorageError{Op: "restore", Key: k, Err: err})
		}
	}
	return result.ErrorOrNil()
}
