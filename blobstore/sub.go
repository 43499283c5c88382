package blobstore

import (
	"context"
	"strings"
)

// Sub returns a Store whose names are relative to prefix inside s.
func Sub(s Store, prefix string) Store {
	prefix = strings.Trim(prefix, "/")
	if prefix == "" {
		return s
	}
	return &subStore{parent: s, prefix: prefix}
}

type subStore struct {
	parent Store
	prefix string
}

func (s *subStore) full(name string) string {
	return s.prefix + "/" + name
}

func (s *subStore) Open(ctx context.Context, name string) (Blob, error) {
	return s.parent.Open(ctx, s.full(name))
}

func (s *subStore) List(ctx context.Context, prefix string) ([]string, error) {
	names, err := s.parent.List(ctx, s.full(prefix))
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(names))
	for _, n := range names {
		out = append(out, strings.TrimPrefix(n, s.prefix+"/"))
	}
	return out, nil
}
