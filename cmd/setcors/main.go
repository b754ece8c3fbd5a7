// Command setcors applies a CORS ruleset to the media bucket so browsers
// can PUT directly to presigned upload URLs.
package main

import (
	"context"
	"flag"
	"log"
	"strings"
	"time"

	"campus-swamp/internal/config"
	"campus-swamp/internal/storage"
)

func main() {
	origins := flag.String("origins", "*", "comma-separated allowed origins")
	methods := flag.String("methods", "PUT,GET,HEAD", "comma-separated allowed methods")
	headers := flag.String("headers", "*", "comma-separated allowed headers")
	maxAge := flag.Int("max-age", 3600, "preflight cache lifetime in seconds")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client, err := storage.NewS3Client(ctx, *cfg.Storage)
	if err != nil {
		log.Fatalf("Failed to initialize storage: %v", err)
	}

	err = client.ApplyCORS(ctx,
		splitList(*origins),
		splitList(*methods),
		splitList(*headers),
		int32(*maxAge),
	)
	if err != nil {
		log.Fatalf("Failed to apply bucket CORS: %v", err)
	}
	log.Printf("Applied CORS rules to bucket %s (origins: %s)", cfg.Storage.Bucket, *origins)
}

func splitList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
