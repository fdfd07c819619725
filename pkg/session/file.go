package session

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// FileStore is a file-based buffer store for CLI applications.
// Buffers are stored as JSON files in a config directory.
type FileStore struct {
	mu      sync.RWMutex
	baseDir string
}

// NewFileStore creates a new file-based buffer store.
// If baseDir is empty, defaults to ~/.config/mermaidflow/buffers/
func NewFileStore(baseDir string) (*FileStore, error) {
	if baseDir == "" {
		dir, err := DefaultDir()
		if err != nil {
			return nil, err
		}
		baseDir = dir
	}
	if err := os.MkdirAll(baseDir, 0700); err != nil {
		return nil, fmt.Errorf("create buffer dir: %w", err)
	}
	return &FileStore{baseDir: baseDir}, nil
}

// DefaultDir returns the default buffer directory.
func DefaultDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home dir: %w", err)
	}
	return filepath.Join(home, ".config", "mermaidflow", "buffers"), nil
}

func (s *FileStore) bufferPath(id string) string {
	return filepath.Join(s.baseDir, filepath.Base(id)+".json")
}

func (s *FileStore) Get(ctx context.Context, id string) (*Buffer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	path := s.bufferPath(id)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read buffer file: %w", err)
	}

	var buf Buffer
	if err := json.Unmarshal(data, &buf); err != nil {
		return nil, fmt.Errorf("parse buffer: %w", err)
	}

	if buf.IsExpired() {
		os.Remove(path)
		return nil, nil
	}
	return &buf, nil
}

func (s *FileStore) Set(ctx context.Context, buf *Buffer) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.MarshalIndent(buf, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal buffer: %w", err)
	}

	if err := os.WriteFile(s.bufferPath(buf.ID), data, 0600); err != nil {
		return fmt.Errorf("write buffer file: %w", err)
	}
	return nil
}

func (s *FileStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.bufferPath(id)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove buffer file: %w", err)
	}
	return nil
}

func (s *FileStore) Cleanup(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		return fmt.Errorf("read buffer dir: %w", err)
	}

	now := time.Now()
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}
		path := filepath.Join(s.baseDir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		var buf Buffer
		if err := json.Unmarshal(data, &buf); err != nil {
			continue
		}
		if now.After(buf.ExpiresAt) {
			os.Remove(path)
		}
	}
	return nil
}

func (s *FileStore) Close() error { return nil }

// Path returns the base directory for buffer files.
func (s *FileStore) Path() string {
	return s.baseDir
}

var _ Store = (*FileStore)(nil)

// =============================================================================
// CLI convenience wrapper
// =============================================================================

// DefaultCLIBufferID names the single buffer the CLI edits.
const DefaultCLIBufferID = "cli"

// CLIStore wraps FileStore for the CLI's single working buffer.
type CLIStore struct {
	store    *FileStore
	bufferID string
	ttl      time.Duration
}

// NewCLIStore creates a store for the CLI buffer under dir (the default
// directory when empty).
func NewCLIStore(dir string) (*CLIStore, error) {
	store, err := NewFileStore(dir)
	if err != nil {
		return nil, err
	}
	return &CLIStore{store: store, bufferID: DefaultCLIBufferID, ttl: 30 * 24 * time.Hour}, nil
}

// Load returns the CLI buffer, or nil when none is stored.
func (c *CLIStore) Load(ctx context.Context) (*Buffer, error) {
	return c.store.Get(ctx, c.bufferID)
}

// Seed loads the CLI buffer and seeds it with source, creating it when
// missing. It reports whether the text was replaced.
func (c *CLIStore) Seed(ctx context.Context, source string) (*Buffer, bool, error) {
	buf, err := c.Load(ctx)
	if err != nil {
		return nil, false, err
	}
	replaced := true
	if buf == nil {
		now := time.Now()
		buf = &Buffer{ID: c.bufferID, Seed: source, Text: source, CreatedAt: now, UpdatedAt: now}
	} else {
		replaced = buf.SeedWith(source)
	}
	buf.Touch(c.ttl)
	if err := c.store.Set(ctx, buf); err != nil {
		return nil, false, err
	}
	return buf, replaced, nil
}

// Save stores the CLI buffer.
func (c *CLIStore) Save(ctx context.Context, buf *Buffer) error {
	buf.ID = c.bufferID
	buf.Touch(c.ttl)
	return c.store.Set(ctx, buf)
}

// Delete removes the CLI buffer.
func (c *CLIStore) Delete(ctx context.Context) error {
	return c.store.Delete(ctx, c.bufferID)
}

// Path returns the buffer file path.
func (c *CLIStore) Path() string {
	return c.store.bufferPath(c.bufferID)
}
