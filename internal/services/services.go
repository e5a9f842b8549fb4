// package services defines the Resolver and Fetcher interfaces for the media relay
package services

import (
	"context"

	"github.com/desertthunder/faustok/internal/models"
)

// Resolver turns a shareable video URL into direct media URLs of one kind.
type Resolver interface {
	// Resolve returns the media of the requested kind or [shared.ErrMediaNotFound].
	Resolve(ctx context.Context, sourceURL string, kind models.MediaKind) (*models.ResolvedMedia, error)
}

// Fetcher downloads a direct URL to a local path.
type Fetcher interface {
	// Fetch streams the body of directURL into destPath, overwriting it, and returns the byte count.
	Fetch(ctx context.Context, directURL, destPath string) (int64, error)
}
