package io

import (
	"context"
	"os"
	"sync"

	"golang.org/x/sync/singleflight"
)

// FileSource reads a snapshot from the local filesystem. The first successful
// read is cached; concurrent callers share a single read.
type FileSource struct {
	path string

	cache   []byte
	cached  bool
	cacheMu sync.RWMutex
	group   singleflight.Group
}

// NewFileSource creates a filesystem-based snapshot source.
func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

func (s *FileSource) Name() string { return s.path }

// Fetch reads the file content. Results are cached.
func (s *FileSource) Fetch(ctx context.Context) ([]byte, error) {
	s.cacheMu.RLock()
	if s.cached {
		defer s.cacheMu.RUnlock()
		return s.cache, nil
	}
	s.cacheMu.RUnlock()

	result, err, _ := s.group.Do(s.path, func() (any, error) {
		s.cacheMu.RLock()
		if s.cached {
			defer s.cacheMu.RUnlock()
			return s.cache, nil
		}
		s.cacheMu.RUnlock()

		if err := ctx.Err(); err != nil {
			return nil, err
		}
		data, err := os.ReadFile(s.path)
		if err != nil {
			return nil, err
		}

		s.cacheMu.Lock()
		s.cache = data
		s.cached = true
		s.cacheMu.Unlock()

		return data, nil
	})
	if err != nil {
		return nil, err
	}

	return result.([]byte), nil
}
