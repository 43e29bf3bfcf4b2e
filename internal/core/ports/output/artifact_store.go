package ports

import (
	"context"
	"io"
)

// ArtifactContent is one (possibly partial) read of a stored artifact.
// ContentRange is empty when the whole object was returned. The caller owns
// closing Body.
type ArtifactContent struct {
	Body          io.ReadCloser
	ContentType   string
	ContentRange  string
	ContentLength int64
}

// ArtifactStore is the durable blob boundary. Uploads always come from spool
// files on disk, never memory. Get honors an optional HTTP Range header
// value; a missing key surfaces domain.ErrArtifactNotFound.
type ArtifactStore interface {
	PutFile(ctx context.Context, key string, path string, contentType string) error
	Get(ctx context.Context, key string, rangeHeader string) (*ArtifactContent, error)
	Delete(ctx context.Context, key string) error
}
