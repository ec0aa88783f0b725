// Package scanstore stores uploaded receipt scans.
package scanstore

import (
	"context"
	"io"
)

type ScanStore interface {
	Save(ctx context.Context, prefix, mimeType string, r io.Reader) (storageKey string, err error)
	Get(ctx context.Context, storageKey string) (io.ReadCloser, string, error)
	Delete(ctx context.Context, storageKey string) error
}
