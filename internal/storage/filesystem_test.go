package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func newTestStore(t *testing.T) *FileStore {
	t.Helper()
	store, err := NewFileStore(t.TempDir(), "http://localhost:8080/static")
	if err != nil {
		t.Fatalf("NewFileStore returned error: %v", err)
	}
	return store
}

func TestUploadAndReadRoundTrip(t *testing.T) {
	store := newTestStore(t)

	url, err := store.Upload(context.Background(), "user-1/rec-1/image", []byte("jpg-bytes"), "image/jpeg")
	if err != nil {
		t.Fatalf("Upload returned error: %v", err)
	}
	expected := "http://localhost:8080/static/user-1/rec-1/image.jpg"
	if url != expected {
		t.Fatalf("url mismatch: got %q want %q", url, expected)
	}

	data, err := store.Read(context.Background(), "user-1/rec-1/image.jpg")
	if err != nil {
		t.Fatalf("Read returned error: %v", err)
	}
	if string(data) != "jpg-bytes" {
		t.Fatalf("data mismatch: got %q", data)
	}
}

func TestUploadKeepsExplicitExtension(t *testing.T) {
	store := newTestStore(t)

	url, err := store.Upload(context.Background(), "a/b.png", []byte("png"), "image/jpeg")
	if err != nil {
		t.Fatalf("Upload returned error: %v", err)
	}
	if url != "http://localhost:8080/static/a/b.png" {
		t.Fatalf("url mismatch: got %q", url)
	}
}

func TestUploadRejectsTraversalKeys(t *testing.T) {
	base := t.TempDir()
	store, err := NewFileStore(base, "http://localhost:8080/static")
	if err != nil {
		t.Fatalf("NewFileStore returned error: %v", err)
	}

	for _, key := range []string{"..", "   ", ""} {
		if _, err := store.Upload(context.Background(), key, []byte("x"), "image/jpeg"); err == nil {
			t.Fatalf("key %q must be rejected", key)
		}
	}

	// Leading parent segments are stripped; the write stays under the base.
	if _, err := store.Upload(context.Background(), "../escape", []byte("x"), "image/jpeg"); err != nil {
		t.Fatalf("Upload returned error: %v", err)
	}
	if _, err := os.Stat(filepath.Join(filepath.Dir(base), "escape.jpg")); err == nil {
		t.Fatal("traversal key escaped the base path")
	}
	if _, err := os.Stat(filepath.Join(base, "escape.jpg")); err != nil {
		t.Fatalf("cleaned key not written under base: %v", err)
	}
}

func TestKeyForURL(t *testing.T) {
	store := newTestStore(t)

	key, ok := store.KeyForURL("http://localhost:8080/static/user-1/rec-1/image.jpg")
	if !ok {
		t.Fatal("expected a local key")
	}
	if key != "user-1/rec-1/image.jpg" {
		t.Fatalf("key mismatch: got %q", key)
	}

	if _, ok := store.KeyForURL("https://elsewhere.example.com/v.mp4"); ok {
		t.Fatal("foreign url must not resolve to a key")
	}
	if _, ok := store.KeyForURL("http://localhost:8080/static/"); ok {
		t.Fatal("empty key must not resolve")
	}
}

func TestExtensionForContentType(t *testing.T) {
	cases := []struct {
		contentType string
		want        string
	}{
		{"image/jpeg", ".jpg"},
		{"image/png", ".png"},
		{"audio/wav", ".wav"},
		{"audio/mpeg", ".mp3"},
		{"video/mp4", ".mp4"},
		{"application/octet-stream", ""},
	}
	for _, tc := range cases {
		if got := extensionForContentType(tc.contentType); got != tc.want {
			t.Fatalf("extensionForContentType(%q) mismatch: got %q want %q", tc.contentType, got, tc.want)
		}
	}
}
