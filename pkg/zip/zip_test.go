package zip

import (
	"archive/zip"
	"bytes"
	"io"
	"testing"
)

func TestArchiveAssets(t *testing.T) {
	data := ArchiveAssets([]Asset{
		{Filename: "narrative.txt", MIME: "text/plain", Data: []byte("I made it.")},
		{Filename: "empty.bin", MIME: "application/octet-stream"},
		{Filename: "image.jpg", MIME: "image/jpeg", Data: []byte("jpg")},
	})

	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("open archive: %v", err)
	}
	if len(zr.File) != 2 {
		t.Fatalf("entry count mismatch: got %d want 2", len(zr.File))
	}

	rc, err := zr.File[0].Open()
	if err != nil {
		t.Fatalf("open entry: %v", err)
	}
	defer rc.Close()
	content, _ := io.ReadAll(rc)
	if string(content) != "I made it." {
		t.Fatalf("content mismatch: got %q", content)
	}
}
