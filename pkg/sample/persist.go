package sample

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sort"
	"time"

	"github.com/gofrs/flock"
	"gopkg.in/yaml.v3"

	"github.com/open-source-cooperative/keyring-core/pkg/keyring"
)

// On-disk snapshot structure. The file is a YAML list of buckets sorted by
// (service, user), each with its records sorted by uuid, so snapshots are
// stable and human-diffable. Secrets serialize as base64 binary. There is
// no schema version; format changes are breaking.
type bucketSnapshot struct {
	Service string           `yaml:"service"`
	User    string           `yaml:"user"`
	Records []recordSnapshot `yaml:"records"`
}

type recordSnapshot struct {
	UUID         string  `yaml:"uuid"`
	Secret       []byte  `yaml:"secret"`
	Comment      *string `yaml:"comment,omitempty"`
	CreationTime *string `yaml:"creation_time,omitempty"`
}

const lockTimeout = 10 * time.Second

// withFileLock runs fn while holding an advisory lock on path's companion
// lock file. Uncoordinated writers sharing a backing path can still clobber
// each other's snapshots between save calls; the lock only keeps individual
// load and save operations whole.
func withFileLock(path string, fn func() error) error {
	lock := flock.New(path + ".lock")
	ctx, cancel := context.WithTimeout(context.Background(), lockTimeout)
	defer cancel()
	locked, err := lock.TryLockContext(ctx, 100*time.Millisecond)
	if err != nil {
		return &keyring.PlatformError{Err: fmt.Errorf("locking backing file: %w", err)}
	}
	if !locked {
		return &keyring.PlatformError{Err: fmt.Errorf("locking backing file %s: timeout", path)}
	}
	defer lock.Unlock()
	return fn()
}

// loadSnapshot reads a backing file into a bucket map. A missing file
// yields an empty map; read and decode failures are fatal.
func loadSnapshot(path string) (map[credID]*bucket, error) {
	buckets := make(map[credID]*bucket)
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return buckets, nil
		}
		return nil, &keyring.InvalidError{Field: "path", Reason: err.Error()}
	}
	err := withFileLock(path, func() error {
		content, err := os.ReadFile(path)
		if err != nil {
			return &keyring.PlatformError{Err: err}
		}
		var snapshot []bucketSnapshot
		if err := yaml.Unmarshal(content, &snapshot); err != nil {
			return &keyring.PlatformError{Err: err}
		}
		for _, bs := range snapshot {
			b := &bucket{records: make(map[string]*record, len(bs.Records))}
			for _, rs := range bs.Records {
				rec := newRecord(rs.Secret)
				rec.id = rs.UUID
				rec.comment = rs.Comment
				rec.created = rs.CreationTime
				b.records[rec.id] = rec
			}
			buckets[credID{service: bs.Service, user: bs.User}] = b
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return buckets, nil
}

// Save writes a snapshot of the whole store to the backing file,
// overwriting any previous snapshot. It is a no-op for in-memory stores.
// Callers must not mutate the store while a save is in progress; the store
// does not enforce this itself.
func (s *Store) Save() error {
	if s.backing == "" {
		return nil
	}
	snapshot, err := s.snapshot()
	if err != nil {
		return err
	}
	content, err := yaml.Marshal(snapshot)
	if err != nil {
		return &keyring.PlatformError{Err: err}
	}
	return withFileLock(s.backing, func() error {
		if err := os.WriteFile(s.backing, content, 0o600); err != nil {
			return &keyring.PlatformError{Err: err}
		}
		return nil
	})
}

// Close saves the store to its backing file, if any. Go has no destructors,
// so clients of file-backed stores should arrange for Close to run at
// teardown, typically with defer.
func (s *Store) Close() error {
	return s.Save()
}

// snapshot captures the store content in serialization order. Empty buckets
// are map housekeeping, not content, and are skipped.
func (s *Store) snapshot() ([]bucketSnapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]credID, 0, len(s.buckets))
	for id := range s.buckets {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		if ids[i].service != ids[j].service {
			return ids[i].service < ids[j].service
		}
		return ids[i].user < ids[j].user
	})
	snapshot := make([]bucketSnapshot, 0, len(ids))
	for _, id := range ids {
		b := s.buckets[id]
		b.mu.RLock()
		records := make([]recordSnapshot, 0, len(b.records))
		for _, rec := range b.records {
			rec.mu.Lock()
			secret, err := rec.secret.Bytes()
			if err != nil {
				rec.mu.Unlock()
				b.mu.RUnlock()
				return nil, &keyring.PlatformError{Err: err}
			}
			records = append(records, recordSnapshot{
				UUID:         rec.id,
				Secret:       secret,
				Comment:      rec.comment,
				CreationTime: rec.created,
			})
			rec.mu.Unlock()
		}
		b.mu.RUnlock()
		if len(records) == 0 {
			continue
		}
		sort.Slice(records, func(i, j int) bool { return records[i].UUID < records[j].UUID })
		snapshot = append(snapshot, bucketSnapshot{Service: id.service, User: id.user, Records: records})
	}
	return snapshot, nil
}
