// Command gallery fetches the photo gallery from a running API using the
// same two-phase cache check the site does, keeping its local copy in a file.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"wedding-backend/internal/application/gallery"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	var (
		apiURL    string
		cachePath string
		asJSON    bool
	)
	flag.StringVar(&apiURL, "api", envOr("GALLERY_API_URL", "http://localhost:8080"), "base URL of the wedding API")
	flag.StringVar(&cachePath, "cache", defaultCachePath(), "path of the local gallery cache file")
	flag.BoolVar(&asJSON, "json", false, "print the result as JSON")
	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client := &gallery.Client{
		Source: gallery.NewHTTPSource(apiURL),
		Store:  gallery.FileStore{Path: cachePath},
	}
	res, err := client.Fetch(ctx)
	if err != nil {
		log.Error().Err(err).Msg("gallery fetch failed")
		os.Exit(1)
	}

	if asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(res); err != nil {
			os.Exit(1)
		}
		return
	}
	source := "fetched"
	if res.FromCache {
		source = "cached"
	}
	fmt.Printf("version %s (%s, %d images)\n", res.Version, source, len(res.Images))
	for _, u := range res.Images {
		fmt.Println(u)
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func defaultCachePath() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		dir = os.TempDir()
	}
	return filepath.Join(dir, "wedding-gallery", "gallery.json")
}
