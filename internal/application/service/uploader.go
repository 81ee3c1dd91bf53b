package service

import (
	"context"
	"io"
)

type Uploader interface {
	// Upload stores file under folder/publicID, replacing any previous asset, and returns its URL.
	Upload(ctx context.Context, file io.Reader, folder string, publicID string) (string, error)
	Delete(ctx context.Context, publicID string) error
}
