package gallery

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

const (
	ServerCacheTTL   = 5 * time.Minute
	PresignTTL       = time.Hour
	PresignBatchSize = 50

	refreshTimeout = 30 * time.Second
)

// ImageSet is what the gallery page renders.
type ImageSet struct {
	Images  []string `json:"images"`
	Version string   `json:"version"`
}

// Service serves the bucket's image listing, fingerprinted and cached, and
// presigns display URLs for it.
type Service struct {
	Bucket     Bucket
	Cache      ListingCache
	TTL        time.Duration
	PresignTTL time.Duration
	BatchSize  int
	Now        func() time.Time

	refresh singleflight.Group
}

func NewService(bucket Bucket, cache ListingCache) *Service {
	if cache == nil {
		cache = &MemoryListingCache{}
	}
	return &Service{
		Bucket:     bucket,
		Cache:      cache,
		TTL:        ServerCacheTTL,
		PresignTTL: PresignTTL,
		BatchSize:  PresignBatchSize,
		Now:        time.Now,
	}
}

// Version returns the current listing fingerprint.
func (s *Service) Version(ctx context.Context) (string, error) {
	l, err := s.listing(ctx)
	if err != nil {
		return "", err
	}
	return l.Version, nil
}

// Images presigns every key of the current listing. Presigning runs in
// batches: concurrent inside a batch, one batch after another. URL order
// follows key order.
func (s *Service) Images(ctx context.Context) (*ImageSet, error) {
	l, err := s.listing(ctx)
	if err != nil {
		return nil, err
	}
	urls, err := s.presignAll(ctx, l.Keys)
	if err != nil {
		return nil, err
	}
	return &ImageSet{Images: urls, Version: l.Version}, nil
}

func (s *Service) listing(ctx context.Context) (*Listing, error) {
	if s.Bucket == nil {
		return nil, ErrStorageNotConfigured
	}
	now := s.now()
	if s.Cache != nil {
		cached, err := s.Cache.Get(ctx)
		if err != nil {
			log.Warn().Err(err).Msg("gallery: listing cache read failed")
		} else if cached != nil && now.Sub(cached.FetchedAt) < s.ttl() {
			return cached, nil
		}
	}

	// The refresh is shared by every waiting request, so it must outlive the
	// one that started it.
	v, err, _ := s.refresh.Do("listing", func() (interface{}, error) {
		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), refreshTimeout)
		defer cancel()
		keys, err := ListImages(ctx, s.Bucket)
		if err != nil {
			return nil, fmt.Errorf("list bucket: %w", err)
		}
		l := &Listing{Keys: keys, Version: Fingerprint(keys), FetchedAt: now}
		if s.Cache != nil {
			if err := s.Cache.Put(ctx, *l); err != nil {
				log.Warn().Err(err).Msg("gallery: listing cache write failed")
			}
		}
		log.Debug().Int("keys", len(keys)).Str("version", l.Version).Msg("gallery: listing refreshed")
		return l, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Listing), nil
}

func (s *Service) presignAll(ctx context.Context, keys []string) ([]string, error) {
	size := s.BatchSize
	if size <= 0 {
		size = PresignBatchSize
	}
	ttl := s.PresignTTL
	if ttl <= 0 {
		ttl = PresignTTL
	}

	urls := make([]string, len(keys))
	for start := 0; start < len(keys); start += size {
		end := min(start+size, len(keys))
		g, gctx := errgroup.WithContext(ctx)
		for i := start; i < end; i++ {
			g.Go(func() error {
				u, err := s.Bucket.PresignGet(gctx, keys[i], ttl)
				if err != nil {
					return fmt.Errorf("presign %s: %w", keys[i], err)
				}
				urls[i] = u
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
	}
	return urls, nil
}

func (s *Service) ttl() time.Duration {
	if s.TTL <= 0 {
		return ServerCacheTTL
	}
	return s.TTL
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}
