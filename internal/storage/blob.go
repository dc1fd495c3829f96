package storage

import (
	"io"

	"github.com/pkg/errors"
)

var (
	ErrNotFound   = errors.New("blob not found")
	ErrInvalidKey = errors.New("invalid blob key")
)

type BlobStore interface {
	Put(key string, r io.Reader) (string, error) // returns canonical key
	Get(key string) (io.ReadCloser, error)
	List(prefix string) ([]string, error) // keys under prefix, sorted
	SignedURL(key string) (string, error) // fs returns "file://..." for dev
}
