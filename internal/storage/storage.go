// Package storage holds the object store adapter and the media gateway that
// turns uploads into opaque media references. Bodies are streamed and never
// touch local disk.
package storage

import (
	"context"
	"errors"
	"io"
)

// ErrObjectNotFound is returned by ObjectStore.RemoveObject when the key does not exist.
var ErrObjectNotFound = errors.New("object not found")

// PutOptions describe an object being written. Size is the exact body length,
// or -1 when unknown.
type PutOptions struct {
	Size        int64
	ContentType string
	Metadata    map[string]string
}

// StoredObject is what the store reports back after a write.
type StoredObject struct {
	Key  string
	Size int64
	ETag string
}

// ObjectStore is the minimal S3-style surface the media gateway needs.
type ObjectStore interface {
	PutObject(ctx context.Context, key string, r io.Reader, opt PutOptions) (StoredObject, error)
	// RemoveObject deletes key, returning ErrObjectNotFound when nothing was there.
	RemoveObject(ctx context.Context, key string) error
}
