package gallery

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"path"
	"sort"
	"strings"
	"time"
)

// Bucket is the slice of an object store the gallery needs.
type Bucket interface {
	// ListPage returns one page of object keys and the token for the next
	// page; an empty next token ends the listing.
	ListPage(ctx context.Context, continuation string) (keys []string, next string, err error)
	PresignGet(ctx context.Context, key string, ttl time.Duration) (string, error)
}

var imageExtensions = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".gif": true, ".webp": true,
	".avif": true, ".svg": true, ".bmp": true, ".ico": true,
}

// IsImage matches on file extension, ignoring case.
func IsImage(name string) bool {
	return imageExtensions[strings.ToLower(path.Ext(name))]
}

// Listing is one cached snapshot of the bucket's image keys.
type Listing struct {
	Keys      []string  `json:"keys"`
	Version   string    `json:"version"`
	FetchedAt time.Time `json:"fetchedAt"`
}

// Fingerprint hashes the sorted key list; the first 16 hex chars of the sha256
// are enough to detect a change.
func Fingerprint(keys []string) string {
	sorted := append([]string(nil), keys...)
	sort.Strings(sorted)
	sum := sha256.Sum256([]byte(strings.Join(sorted, "\n")))
	return hex.EncodeToString(sum[:])[:16]
}

// ListImages pages through the whole bucket and keeps image keys, sorted.
func ListImages(ctx context.Context, b Bucket) ([]string, error) {
	var keys []string
	token := ""
	for {
		page, next, err := b.ListPage(ctx, token)
		if err != nil {
			return nil, err
		}
		for _, k := range page {
			if IsImage(k) {
				keys = append(keys, k)
			}
		}
		if next == "" {
			break
		}
		token = next
	}
	sort.Strings(keys)
	if keys == nil {
		keys = []string{}
	}
	return keys, nil
}
