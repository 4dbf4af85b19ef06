package gallery

import (
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// ClientCacheTTL is kept under PresignTTL so cached links are never close to expiry.
const ClientCacheTTL = 50 * time.Minute

// Source is the server side of the gallery protocol as a client sees it.
type Source interface {
	Version(ctx context.Context) (string, error)
	Images(ctx context.Context) (*ImageSet, error)
}

// CachedImages is the tuple a client persists between page views.
type CachedImages struct {
	Version  string    `json:"version"`
	Images   []string  `json:"images"`
	CachedAt time.Time `json:"cachedAt"`
}

// Store persists a client's CachedImages. Load returns (nil, nil) when empty.
type Store interface {
	Load() (*CachedImages, error)
	Save(c CachedImages) error
}

// Client runs the two-phase fetch: a cheap version check first, the
// presigning call only when the version moved or the local copy is too old.
type Client struct {
	Source Source
	Store  Store
	TTL    time.Duration
	Now    func() time.Time
}

// Result reports where the URLs came from.
type Result struct {
	ImageSet
	FromCache bool `json:"fromCache"`
}

func (c *Client) Fetch(ctx context.Context) (*Result, error) {
	now := time.Now()
	if c.Now != nil {
		now = c.Now()
	}
	ttl := c.TTL
	if ttl <= 0 {
		ttl = ClientCacheTTL
	}

	local, err := c.Store.Load()
	if err != nil {
		log.Warn().Err(err).Msg("gallery: local cache unreadable")
		local = nil
	}
	if local != nil && now.Sub(local.CachedAt) >= ttl {
		local = nil
	}

	version, err := c.Source.Version(ctx)
	if err != nil {
		return nil, err
	}
	if local != nil && local.Version == version {
		return &Result{ImageSet: ImageSet{Images: local.Images, Version: local.Version}, FromCache: true}, nil
	}

	set, err := c.Source.Images(ctx)
	if err != nil {
		return nil, err
	}
	if err := c.Store.Save(CachedImages{Version: set.Version, Images: set.Images, CachedAt: now}); err != nil {
		log.Warn().Err(err).Msg("gallery: local cache not saved")
	}
	return &Result{ImageSet: *set}, nil
}

// MemoryStore holds the cached tuple in process.
type MemoryStore struct {
	mu     sync.Mutex
	cached *CachedImages
}

func (s *MemoryStore) Load() (*CachedImages, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cached == nil {
		return nil, nil
	}
	c := *s.cached
	return &c, nil
}

func (s *MemoryStore) Save(c CachedImages) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cached = &c
	return nil
}

// FileStore keeps the cached tuple as a JSON file.
type FileStore struct {
	Path string
}

func (s FileStore) Load() (*CachedImages, error) {
	raw, err := os.ReadFile(s.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var c CachedImages
	if err := json.Unmarshal(raw, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

func (s FileStore) Save(c CachedImages) error {
	raw, err := json.Marshal(c)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(s.Path), 0o755); err != nil {
		return err
	}
	tmp := s.Path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, s.Path)
}
