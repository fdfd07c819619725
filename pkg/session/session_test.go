package session

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"

	"github.com/matzehuels/mermaidflow/pkg/attrs"
)

func TestBufferSeedWith(t *testing.T) {
	buf, err := New("flowchart TD\n", time.Hour)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if !ValidID(buf.ID) {
		t.Errorf("ID %q is not a UUID", buf.ID)
	}
	if buf.Get() != "flowchart TD\n" || buf.Edited() {
		t.Fatalf("fresh buffer = %q, edited=%v", buf.Get(), buf.Edited())
	}

	buf.Set("edited")
	if !buf.Edited() {
		t.Error("Edited() = false after Set")
	}

	if buf.SeedWith("flowchart TD\n") {
		t.Error("SeedWith(same) reported a replacement")
	}
	if buf.Get() != "edited" {
		t.Errorf("same seed discarded edits: %q", buf.Get())
	}

	if !buf.SeedWith("flowchart LR\n") {
		t.Error("SeedWith(new) reported no replacement")
	}
	if buf.Get() != "flowchart LR\n" || buf.Edited() {
		t.Errorf("new seed = %q, edited=%v", buf.Get(), buf.Edited())
	}

	buf.Set("again")
	buf.Reset()
	if buf.Get() != "flowchart LR\n" {
		t.Errorf("Reset() = %q", buf.Get())
	}
}

func TestBufferExpiry(t *testing.T) {
	buf, _ := New("x", time.Hour)
	if buf.IsExpired() {
		t.Error("fresh buffer expired")
	}
	buf.ExpiresAt = time.Now().Add(-time.Second)
	if !buf.IsExpired() {
		t.Error("past buffer not expired")
	}
	buf.Touch(time.Minute)
	if buf.IsExpired() {
		t.Error("touched buffer expired")
	}
}

func TestValidID(t *testing.T) {
	if ValidID("not-a-uuid") {
		t.Error("ValidID accepted garbage")
	}
	if ValidID("../etc/passwd") {
		t.Error("ValidID accepted a path")
	}
}

// storeContract exercises the behaviour every Store must share.
func storeContract(t *testing.T, store Store) {
	t.Helper()
	ctx := context.Background()

	got, err := store.Get(ctx, "missing")
	if err != nil || got != nil {
		t.Fatalf("Get(missing) = %v, %v; want nil, nil", got, err)
	}

	buf, err := New("seed", time.Hour)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	buf.Set("edited")
	buf.Maps = attrs.Maps{URLs: attrs.Map{"A": "https://x"}, Notes: attrs.Map{"A": "n"}}
	if err := store.Set(ctx, buf); err != nil {
		t.Fatalf("Set: %v", err)
	}

	got, err = store.Get(ctx, buf.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got == nil {
		t.Fatal("Get returned nil for stored buffer")
	}
	if got.Seed != "seed" || got.Text != "edited" {
		t.Errorf("Get = %+v", got)
	}
	if got.Maps.URLs["A"] != "https://x" || got.Maps.Notes["A"] != "n" {
		t.Errorf("maps not persisted: %+v", got.Maps)
	}

	if err := store.Delete(ctx, buf.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if got, _ := store.Get(ctx, buf.ID); got != nil {
		t.Error("Get after Delete returned a buffer")
	}
	if err := store.Delete(ctx, buf.ID); err != nil {
		t.Errorf("Delete twice: %v", err)
	}
	if err := store.Cleanup(ctx); err != nil {
		t.Errorf("Cleanup: %v", err)
	}
}

func TestMemoryStore(t *testing.T) {
	storeContract(t, NewMemoryStore())
}

func TestMemoryStoreExpiry(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	buf, _ := New("x", time.Hour)
	buf.ExpiresAt = time.Now().Add(-time.Minute)
	store.Set(ctx, buf)
	live, _ := New("y", time.Hour)
	store.Set(ctx, live)

	if err := store.Cleanup(ctx); err != nil {
		t.Fatalf("Cleanup: %v", err)
	}
	if store.Len() != 1 {
		t.Errorf("Len() = %d after cleanup, want 1", store.Len())
	}
	if got, _ := store.Get(ctx, buf.ID); got != nil {
		t.Error("expired buffer returned")
	}
}

func TestMemoryStoreReturnsCopies(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	buf, _ := New("x", time.Hour)
	store.Set(ctx, buf)

	got, _ := store.Get(ctx, buf.ID)
	got.Set("changed")

	again, _ := store.Get(ctx, buf.ID)
	if again.Text != "x" {
		t.Errorf("unsaved edit leaked into store: %q", again.Text)
	}
}

func TestFileStore(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	storeContract(t, store)
}

func TestFileStoreCleanup(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFileStore(dir)
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	ctx := context.Background()

	buf, _ := New("x", time.Hour)
	buf.ExpiresAt = time.Now().Add(-time.Minute)
	if err := store.Set(ctx, buf); err != nil {
		t.Fatalf("Set: %v", err)
	}
	os.WriteFile(filepath.Join(dir, "junk.json"), []byte("{"), 0600)

	if err := store.Cleanup(ctx); err != nil {
		t.Fatalf("Cleanup: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, buf.ID+".json")); !os.IsNotExist(err) {
		t.Errorf("expired buffer file still present: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "junk.json")); err != nil {
		t.Errorf("unparseable file removed: %v", err)
	}
}

func TestCLIStore(t *testing.T) {
	ctx := context.Background()
	store, err := NewCLIStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewCLIStore: %v", err)
	}

	if buf, err := store.Load(ctx); err != nil || buf != nil {
		t.Fatalf("Load(empty) = %v, %v", buf, err)
	}

	buf, replaced, err := store.Seed(ctx, "one")
	if err != nil || !replaced {
		t.Fatalf("Seed(first) = %v, %v", replaced, err)
	}
	buf.Set("mine")
	if err := store.Save(ctx, buf); err != nil {
		t.Fatalf("Save: %v", err)
	}

	buf, replaced, err = store.Seed(ctx, "one")
	if err != nil || replaced || buf.Text != "mine" {
		t.Errorf("Seed(same) = %q, %v, %v", buf.Text, replaced, err)
	}

	buf, replaced, err = store.Seed(ctx, "two")
	if err != nil || !replaced || buf.Text != "two" {
		t.Errorf("Seed(new) = %q, %v, %v", buf.Text, replaced, err)
	}

	if filepath.Base(store.Path()) != DefaultCLIBufferID+".json" {
		t.Errorf("Path() = %s", store.Path())
	}
	if err := store.Delete(ctx); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if buf, _ := store.Load(ctx); buf != nil {
		t.Error("Load after Delete returned a buffer")
	}
}

func setupRedisStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	store, err := NewRedisStore(context.Background(), RedisOptions{
		URL: fmt.Sprintf("redis://%s", mr.Addr()),
	})
	if err != nil {
		t.Fatalf("NewRedisStore: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store, mr
}

func TestRedisStore(t *testing.T) {
	store, _ := setupRedisStore(t)
	storeContract(t, store)
}

func TestRedisStoreTTL(t *testing.T) {
	store, mr := setupRedisStore(t)
	ctx := context.Background()

	buf, _ := New("x", time.Minute)
	if err := store.Set(ctx, buf); err != nil {
		t.Fatalf("Set: %v", err)
	}
	key := "mermaidflow:buffer:" + buf.ID
	if !mr.Exists(key) {
		t.Fatalf("key %s not written", key)
	}
	if ttl := mr.TTL(key); ttl <= 0 || ttl > time.Minute {
		t.Errorf("TTL = %v, want (0, 1m]", ttl)
	}

	mr.FastForward(2 * time.Minute)
	if got, _ := store.Get(ctx, buf.ID); got != nil {
		t.Error("buffer survived its TTL")
	}
}

func TestRedisStoreConnectFailure(t *testing.T) {
	_, err := NewRedisStore(context.Background(), RedisOptions{
		URL:            "redis://127.0.0.1:1",
		ConnectTimeout: 200 * time.Millisecond,
	})
	if err == nil {
		t.Error("expected connection error")
	}
}
