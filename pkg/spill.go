// Package pkg provides utilities shared by testsmith commands.
package pkg

import (
	"encoding/gob"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
)

// Spill is an append-only, disk-backed log of items of type T. It keeps
// memory flat for long runs whose logs are only read back in full.
type Spill[T any] interface {
	Len() int
	Path() string
	Append(items ...T) error
	Range(fn func(index int, item T) error) error
	All() ([]T, error)
	Close() error
}

type gobSpill[T any] struct {
	mu      sync.Mutex
	path    string
	file    *os.File
	encoder *gob.Encoder
	length  int
	closed  bool
}

// NewSpill creates a spill file under dir. An empty dir uses the system
// temporary directory.
func NewSpill[T any](dir string) (Spill[T], error) {
	if dir != "" {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			slog.Error("failed to create spill directory", "path", dir, "error", err)
			return nil, fmt.Errorf("failed to create spill directory: %w", err)
		}
	}

	file, err := os.CreateTemp(dir, "testsmith-spill-*.gob")
	if err != nil {
		slog.Error("failed to create spill file", "dir", dir, "error", err)
		return nil, fmt.Errorf("failed to create spill file: %w", err)
	}

	slog.Debug("created spill", "path", file.Name())

	return &gobSpill[T]{
		path:    file.Name(),
		file:    file,
		encoder: gob.NewEncoder(file),
	}, nil
}

func (s *gobSpill[T]) Path() string {
	return s.path
}

func (s *gobSpill[T]) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.length
}

// Append encodes items in order. Items before a failing one stay appended.
func (s *gobSpill[T]) Append(items ...T) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return errors.New("spill is closed")
	}

	for _, item := range items {
		if err := s.encoder.Encode(item); err != nil {
			slog.Error("failed to encode spill item", "path", s.path, "index", s.length, "error", err)
			return fmt.Errorf("failed to encode item: %w", err)
		}

		s.length++
	}

	return nil
}

// Range decodes items from the start of the file and calls fn for each.
func (s *gobSpill[T]) Range(fn func(index int, item T) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return errors.New("spill is closed")
	}

	file, err := os.Open(s.path)
	if err != nil {
		return fmt.Errorf("failed to open spill: %w", err)
	}

	defer func() {
		if err := file.Close(); err != nil {
			slog.Error("failed to close spill reader", "path", s.path, "error", err)
		}
	}()

	decoder := gob.NewDecoder(file)

	for i := range s.length {
		var item T
		if err := decoder.Decode(&item); err != nil {
			if errors.Is(err, io.EOF) {
				return fmt.Errorf("spill truncated at index %d", i)
			}

			return fmt.Errorf("failed to decode item at index %d: %w", i, err)
		}

		if err := fn(i, item); err != nil {
			return err
		}
	}

	return nil
}

// All returns every item in append order.
func (s *gobSpill[T]) All() ([]T, error) {
	out := make([]T, 0, s.Len())

	err := s.Range(func(_ int, item T) error {
		out = append(out, item)
		return nil
	})

	return out, err
}

// Close closes and removes the spill file.
func (s *gobSpill[T]) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}

	s.closed = true

	closeErr := s.file.Close()
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Error("failed to remove spill file", "path", s.path, "error", err)
		return err
	}

	return closeErr
}
