// Package natsobj provides stream handles backed by NATS Object Store.
// Objects are materialized into memory when opened and written back to the
// store when the handle is closed or synced, with a TTL cache to avoid
// refetching hot objects.
package natsobj

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/inovacc/streamio"
)

type StorageType int

const (
	// FileStorage specifies on disk storage. It's the default.
	FileStorage StorageType = iota
	// MemoryStorage specifies in memory only.
	MemoryStorage
)

type Config struct {
	Bucket      string
	Description string
	TTL         time.Duration
	Compression bool
	Storage     StorageType
}

func (c *Config) validate() error {
	if c.Bucket == "" {
		return errors.New("bucket name is required")
	}
	return nil
}

func (c *Config) objectStoreConfig() *nats.ObjectStoreConfig {
	natsConfig := &nats.ObjectStoreConfig{
		TTL:         c.TTL,
		Bucket:      c.Bucket,
		Compression: c.Compression,
		Description: c.Description,
	}

	switch c.Storage {
	case FileStorage:
		natsConfig.Storage = nats.FileStorage
	case MemoryStorage:
		natsConfig.Storage = nats.MemoryStorage
	}
	return natsConfig
}

// Store wraps a NATS Object Store bucket and hands out stream handles over
// its objects.
type Store struct {
	store  nats.ObjectStore
	bucket string
	ttl    time.Duration
	mu     sync.RWMutex
	cache  map[string]*cacheEntry
}

// NewStore opens the configured bucket, creating it when it does not exist
// yet. A zero TTL defaults to 24 hours for the object cache.
func NewStore(js nats.JetStreamContext, config Config) (*Store, error) {
	if err := config.validate(); err != nil {
		return nil, err
	}

	store, err := js.ObjectStore(config.Bucket)
	if err != nil {
		if errors.Is(err, nats.ErrStreamNotFound) {
			// Store doesn't exist, try to create it
			store, err = js.CreateObjectStore(config.objectStoreConfig())
			if err != nil {
				return nil, fmt.Errorf("failed to create object store: %w", err)
			}
		} else {
			return nil, fmt.Errorf("failed to get object store: %w", err)
		}
	}

	ttl := config.TTL
	if ttl == 0 {
		ttl = 24 * time.Hour
	}

	return &Store{
		store:  store,
		bucket: config.Bucket,
		ttl:    ttl,
		cache:  make(map[string]*cacheEntry),
	}, nil
}

// Bucket returns the name of the underlying bucket.
func (s *Store) Bucket() string {
	return s.bucket
}

func (s *Store) getCached(name string) (*cacheEntry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, exists := s.cache[name]
	if !exists || entry.isExpired() {
		return nil, false
	}
	return entry, true
}

func (s *Store) setCached(name string, info *nats.ObjectInfo, data []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cache[name] = newCacheEntry(info, data, s.ttl)
}

func (s *Store) invalidateCache(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.cache, name)
}

func mapNATSError(err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, nats.ErrObjectNotFound):
		return os.ErrNotExist
	case errors.Is(err, nats.ErrInvalidKey):
		return os.ErrInvalid
	default:
		return err
	}
}

// load fetches object bytes and info, consulting the cache first.
func (s *Store) load(name string) ([]byte, *nats.ObjectInfo, error) {
	if entry, ok := s.getCached(name); ok {
		data, err := entry.getData()
		if err == nil {
			info, _ := entry.getInfo()
			return data, info, nil
		}
		s.invalidateCache(name)
	}

	obj, err := s.store.Get(name)
	if err != nil {
		return nil, nil, mapNATSError(err)
	}
	defer func() {
		_ = obj.Close()
	}()

	data, err := io.ReadAll(obj)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read object data: %w", err)
	}

	info, err := s.store.GetInfo(name)
	if err != nil {
		return nil, nil, mapNATSError(err)
	}

	s.setCached(name, info, data)
	return data, info, nil
}

// save writes object bytes back and drops the stale cache entry.
func (s *Store) save(name string, data []byte) error {
	_, err := s.store.Put(&nats.ObjectMeta{Name: name}, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("failed to put object: %w", err)
	}
	s.invalidateCache(name)
	return nil
}

// Open opens the named object as a stream handle. Mode semantics follow
// fopen: "r" requires the object to exist, "w" truncates, "x" fails when
// the object already exists, "a" positions the cursor at the end and "c"
// opens or creates.
func (s *Store) Open(name, mode string) (*Object, error) {
	if name == "" {
		return nil, errors.New("empty name not allowed")
	}

	base := byte('r')
	if mode != "" {
		base = mode[0]
	}

	existing, info, err := s.load(name)
	exists := err == nil
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}

	var modTime time.Time
	if exists && info != nil {
		modTime = info.ModTime
	}

	var data []byte
	switch base {
	case 'r':
		if !exists {
			return nil, err
		}
		data = append([]byte(nil), existing...)
	case 'w':
		data = []byte{}
	case 'x':
		if exists {
			return nil, os.ErrExist
		}
		data = []byte{}
	case 'a', 'c':
		data = append([]byte(nil), existing...)
	default:
		return nil, fmt.Errorf("unsupported mode %q", mode)
	}

	obj := &Object{
		store:   s,
		name:    name,
		mode:    mode,
		data:    data,
		modTime: modTime,
	}
	if base == 'a' {
		obj.pos = int64(len(data))
	}
	return obj, nil
}

// Stat returns a FileInfo describing the named object.
func (s *Store) Stat(name string) (os.FileInfo, error) {
	if entry, ok := s.getCached(name); ok {
		if info, err := entry.getInfo(); err == nil {
			return streamio.NewFileInfo(name, int64(info.Size), info.ModTime), nil
		}
	}

	info, err := s.store.GetInfo(name)
	if err != nil {
		return nil, mapNATSError(err)
	}
	return streamio.NewFileInfo(name, int64(info.Size), info.ModTime), nil
}

// Remove deletes the named object.
func (s *Store) Remove(name string) error {
	s.invalidateCache(name)
	return mapNATSError(s.store.Delete(name))
}

// List returns info for every live object in the bucket.
func (s *Store) List() ([]os.FileInfo, error) {
	objects, err := s.store.List()
	if err != nil {
		if errors.Is(err, nats.ErrNoObjectsFound) {
			return nil, nil
		}
		return nil, err
	}

	infos := make([]os.FileInfo, 0, len(objects))
	for _, obj := range objects {
		if obj.Deleted {
			continue
		}
		infos = append(infos, streamio.NewFileInfo(obj.Name, int64(obj.Size), obj.ModTime))
	}
	return infos, nil
}
