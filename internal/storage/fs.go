package storage

import (
	"io"
	"io/fs"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pkg/errors"
)

type FSStore struct{ base string }

func NewFSStore(base string) (*FSStore, error) {
	if base == "" {
		base = "./data"
	}
	if err := os.MkdirAll(base, 0o755); err != nil {
		return nil, errors.Wrap(err, "create blob dir")
	}
	return &FSStore{base: base}, nil
}

// resolve maps a slash-separated key under base, refusing keys that escape it.
func (s *FSStore) resolve(key string) (string, string, error) {
	clean := path.Clean("/" + strings.TrimSpace(key))[1:]
	if clean == "" || clean != strings.TrimPrefix(key, "/") {
		return "", "", errors.Wrap(ErrInvalidKey, key)
	}
	return clean, filepath.Join(s.base, filepath.FromSlash(clean)), nil
}

func (s *FSStore) Put(key string, r io.Reader) (string, error) {
	key, dst, err := s.resolve(key)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return "", errors.Wrap(err, "create blob dir")
	}
	f, err := os.Create(dst)
	if err != nil {
		return "", errors.Wrap(err, "create blob")
	}
	defer f.Close()
	if _, err := io.Copy(f, r); err != nil {
		return "", errors.Wrap(err, "write blob")
	}
	return key, nil
}

func (s *FSStore) Get(key string) (io.ReadCloser, error) {
	_, src, err := s.resolve(key)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(src)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, errors.Wrap(ErrNotFound, key)
	}
	return f, err
}

func (s *FSStore) List(prefix string) ([]string, error) {
	var keys []string
	err := filepath.WalkDir(s.base, func(p string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		rel, err := filepath.Rel(s.base, p)
		if err != nil {
			return err
		}
		if k := filepath.ToSlash(rel); strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "list blobs")
	}
	sort.Strings(keys)
	return keys, nil
}

func (s *FSStore) SignedURL(key string) (string, error) {
	_, p, err := s.resolve(key)
	if err != nil {
		return "", err
	}
	u := url.URL{Scheme: "file", Path: filepath.ToSlash(p)}
	return u.String(), nil
}
