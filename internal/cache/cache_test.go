package cache

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestKey(t *testing.T) {
	k1 := Key("brave:8:unemployment rate 2024")
	k2 := Key("brave:8:unemployment rate 2024")
	k3 := Key("serper:8:unemployment rate 2024")

	if k1 != k2 {
		t.Error("identical identifiers must hash to the same key")
	}
	if k1 == k3 {
		t.Error("different providers must produce different keys")
	}
	if !strings.HasPrefix(k1, "parallax:v1:") {
		t.Errorf("key = %q, want the versioned prefix", k1)
	}
}

func TestMemoryCache_RoundTrip(t *testing.T) {
	c := NewMemoryCache(time.Minute, time.Minute)

	if _, found := c.Get("missing"); found {
		t.Error("unexpected hit for missing key")
	}

	if err := c.Set("k", []byte("payload"), 0); err != nil {
		t.Fatalf("Set: %v", err)
	}
	val, found := c.Get("k")
	if !found || !bytes.Equal(val, []byte("payload")) {
		t.Errorf("Get = %q/%v", val, found)
	}

	c.Delete("k")
	if _, found := c.Get("k"); found {
		t.Error("key survived Delete")
	}
}

func TestMemoryCache_Expiry(t *testing.T) {
	c := NewMemoryCache(time.Minute, time.Minute)
	c.Set("k", []byte("v"), 10*time.Millisecond)
	time.Sleep(30 * time.Millisecond)
	if _, found := c.Get("k"); found {
		t.Error("entry should have expired")
	}
}

func TestMemoryCache_Clear(t *testing.T) {
	c := NewMemoryCache(time.Minute, time.Minute)
	c.Set("a", []byte("1"), 0)
	c.Set("b", []byte("2"), 0)
	c.Clear()
	if _, found := c.Get("a"); found {
		t.Error("Clear left entries behind")
	}
}

func TestDiskCache_RoundTrip(t *testing.T) {
	c := NewDiskCache(t.TempDir(), time.Minute)

	if _, found := c.Get("missing"); found {
		t.Error("unexpected hit for missing key")
	}

	if err := c.Set("k", []byte("payload"), 0); err != nil {
		t.Fatalf("Set: %v", err)
	}
	val, found := c.Get("k")
	if !found || !bytes.Equal(val, []byte("payload")) {
		t.Errorf("Get = %q/%v", val, found)
	}
}

func TestDiskCache_ExpiredEntryRemoved(t *testing.T) {
	dir := t.TempDir()
	c := NewDiskCache(dir, time.Minute)
	expired := `{"data":"dg==","saved_at":"2020-01-01T00:00:00Z","expires_at":"2020-01-01T00:30:00Z"}`
	os.WriteFile(filepath.Join(dir, "k.cache"), []byte(expired), 0o644)

	if _, found := c.Get("k"); found {
		t.Error("expired entry should miss")
	}
	if _, err := os.Stat(filepath.Join(dir, "k.cache")); !os.IsNotExist(err) {
		t.Error("expired file should be removed on read")
	}
}

func TestDiskCache_CorruptEntryRemoved(t *testing.T) {
	dir := t.TempDir()
	c := NewDiskCache(dir, time.Minute)
	os.WriteFile(filepath.Join(dir, "k.cache"), []byte("not json"), 0o644)

	if _, found := c.Get("k"); found {
		t.Error("corrupt entry should miss")
	}
	if _, err := os.Stat(filepath.Join(dir, "k.cache")); !os.IsNotExist(err) {
		t.Error("corrupt file should be removed")
	}
}

func TestDiskCache_DeleteMissingIsNoError(t *testing.T) {
	c := NewDiskCache(t.TempDir(), time.Minute)
	if err := c.Delete("never-set"); err != nil {
		t.Errorf("Delete missing: %v", err)
	}
}

func TestDiskCache_NoTempLeftovers(t *testing.T) {
	dir := t.TempDir()
	c := NewDiskCache(dir, time.Minute)
	c.Set("k", []byte("v"), 0)

	entries, _ := os.ReadDir(dir)
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), ".tmp") {
			t.Errorf("temp file left behind: %s", e.Name())
		}
	}
}

func TestLayeredCache_PromotesDiskHits(t *testing.T) {
	dir := t.TempDir()
	c := NewLayeredCache(time.Minute, dir, time.Minute)
	c.Set("k", []byte("v"), 0)

	// Fresh layered cache over the same dir: memory is cold, disk warm.
	c2 := NewLayeredCache(time.Minute, dir, time.Minute)
	val, found := c2.Get("k")
	if !found || !bytes.Equal(val, []byte("v")) {
		t.Fatalf("Get = %q/%v, want disk hit", val, found)
	}

	// Remove the disk file; a promoted entry must still answer from memory.
	os.Remove(filepath.Join(dir, "k.cache"))
	if _, found := c2.Get("k"); !found {
		t.Error("disk hit was not promoted into memory")
	}
}

func TestLayeredCache_DeleteBothLayers(t *testing.T) {
	dir := t.TempDir()
	c := NewLayeredCache(time.Minute, dir, time.Minute)
	c.Set("k", []byte("v"), 0)
	c.Delete("k")

	if _, found := c.Get("k"); found {
		t.Error("key survived layered Delete")
	}
}
