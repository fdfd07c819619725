// Package session provides editable diagram buffers and their storage.
//
// A Buffer holds the text a user edits next to the compiled diagram. It is
// seeded from compiler output and keeps user edits until the seed changes:
// re-running the compiler on identical input leaves the edits in place,
// while new input replaces them.
//
// Buffers are caller-owned state keyed by ID, with implementations of
// [Store] for different backends:
//   - memory: In-process storage, the default for the HTTP server
//   - file: JSON files under ~/.config/mermaidflow/buffers/ for the CLI
//   - redis: Shared storage for multi-instance servers, with TTL-bound keys
//
// # Usage
//
//	buf, err := session.New(diagram.Source, session.DefaultTTL)
//	if err != nil {
//	    return err
//	}
//	store.Set(ctx, buf)
//
//	// Later, after recompiling:
//	buf, err = store.Get(ctx, id)
//	if buf == nil {
//	    // Not found or expired
//	}
//	buf.SeedWith(diagram.Source) // keeps edits when the source is unchanged
package session

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/mermaidflow/pkg/attrs"
)

// DefaultTTL is how long an untouched buffer is kept.
const DefaultTTL = 24 * time.Hour

// Buffer is an editable copy of compiled diagram text.
type Buffer struct {
	ID        string     `json:"id"`
	Seed      string     `json:"seed"`
	Text      string     `json:"text"`
	Maps      attrs.Maps `json:"maps"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	ExpiresAt time.Time  `json:"expires_at"`
}

// New creates a buffer with a fresh UUID, seeded with seed.
func New(seed string, ttl time.Duration) (*Buffer, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return nil, err
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	now := time.Now()
	return &Buffer{
		ID:        id.String(),
		Seed:      seed,
		Text:      seed,
		CreatedAt: now,
		UpdatedAt: now,
		ExpiresAt: now.Add(ttl),
	}, nil
}

// SeedWith records seed as the buffer's origin. When seed differs from the
// current one the text is replaced and SeedWith reports true; otherwise the
// text, edited or not, is kept.
func (b *Buffer) SeedWith(seed string) bool {
	if b.Seed == seed {
		return false
	}
	b.Seed = seed
	b.Text = seed
	b.UpdatedAt = time.Now()
	return true
}

// Get returns the current text.
func (b *Buffer) Get() string {
	return b.Text
}

// Set replaces the text with a user edit.
func (b *Buffer) Set(text string) {
	b.Text = text
	b.UpdatedAt = time.Now()
}

// Reset discards edits, restoring the seed.
func (b *Buffer) Reset() {
	b.Set(b.Seed)
}

// Edited reports whether the text differs from the seed.
func (b *Buffer) Edited() bool {
	return b.Text != b.Seed
}

// Touch extends the buffer's lifetime by ttl from now.
func (b *Buffer) Touch(ttl time.Duration) {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	b.ExpiresAt = time.Now().Add(ttl)
}

// IsExpired returns true if the buffer has expired.
func (b *Buffer) IsExpired() bool {
	return time.Now().After(b.ExpiresAt)
}

// Store is the interface for buffer storage backends.
type Store interface {
	// Get retrieves a buffer by ID.
	// Returns nil, nil if the buffer doesn't exist or has expired.
	Get(ctx context.Context, id string) (*Buffer, error)

	// Set stores a buffer.
	Set(ctx context.Context, buf *Buffer) error

	// Delete removes a buffer.
	Delete(ctx context.Context, id string) error

	// Cleanup removes expired buffers (may be a no-op for Redis).
	Cleanup(ctx context.Context) error

	// Close releases backend resources.
	Close() error
}

// ValidID reports whether id is a well-formed buffer ID.
func ValidID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
