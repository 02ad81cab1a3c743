package integration

import (
	"bytes"
	"context"
	"errors"
	"regexp"
	"strings"
	"testing"

	"github.com/restofleet/pos-admin-api/internal/service"
)

var fileNamePattern = regexp.MustCompile(`^[0-9a-fA-F-]{36}\.(jpg|png)$`)

// pngFixtureBytes is the PNG signature plus padding, enough for content
// sniffing to classify it as image/png.
func pngFixtureBytes() []byte {
	return append([]byte("\x89PNG\r\n\x1a\n"), bytes.Repeat([]byte{0}, 64)...)
}

func jpegFixtureBytes() []byte {
	return append([]byte("\xFF\xD8\xFF\xE0"), bytes.Repeat([]byte{0}, 64)...)
}

func TestProductImageUploadStoresObjectWithMetadata(t *testing.T) {
	env := newMinIOIntegrationEnv(t)

	content := pngFixtureBytes()
	stored, err := env.storage.Upload(context.Background(), "products", bytes.NewReader(content), int64(len(content)))
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if !fileNamePattern.MatchString(stored.FileName) {
		t.Fatalf("unexpected file name format: %q", stored.FileName)
	}
	if !strings.HasSuffix(stored.FileName, ".png") {
		t.Fatalf("expected png extension, got %q", stored.FileName)
	}
	if stored.UploadedAt.IsZero() {
		t.Fatal("expected uploaded timestamp")
	}

	obj := env.mustStatObject(t, "products/"+stored.FileName)
	if obj.ContentType != "image/png" {
		t.Fatalf("expected content type image/png, got %q", obj.ContentType)
	}
	if obj.Size != int64(len(content)) {
		t.Fatalf("expected size %d, got %d", len(content), obj.Size)
	}

	url := env.storage.PublicURL("products", stored.FileName)
	if url != "/storage/products/"+stored.FileName {
		t.Fatalf("unexpected public url: %q", url)
	}
}

func TestUploadAcceptsJPEGAndDeleteRemovesObject(t *testing.T) {
	env := newMinIOIntegrationEnv(t)

	content := jpegFixtureBytes()
	stored, err := env.storage.Upload(context.Background(), "avatars", bytes.NewReader(content), int64(len(content)))
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	key := "avatars/" + stored.FileName
	if !env.objectExists(t, key) {
		t.Fatalf("expected object %q to exist", key)
	}

	if err := env.storage.Delete(context.Background(), "avatars", stored.FileName); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if env.objectExists(t, key) {
		t.Fatalf("expected object %q to be gone", key)
	}
}

func TestUploadRejectsBadInput(t *testing.T) {
	env := newMinIOIntegrationEnv(t)

	content := pngFixtureBytes()
	if _, err := env.storage.Upload(context.Background(), "invoices", bytes.NewReader(content), int64(len(content))); !errors.Is(err, service.ErrInvalidUploadFolder) {
		t.Fatalf("expected ErrInvalidUploadFolder, got %v", err)
	}

	text := []byte("definitely not an image, just plain text padding padding")
	if _, err := env.storage.Upload(context.Background(), "products", bytes.NewReader(text), int64(len(text))); !errors.Is(err, service.ErrInvalidFileType) {
		t.Fatalf("expected ErrInvalidFileType, got %v", err)
	}

	if _, err := env.storage.Upload(context.Background(), "products", bytes.NewReader(content), 6<<20); !errors.Is(err, service.ErrFileTooBig) {
		t.Fatalf("expected ErrFileTooBig, got %v", err)
	}
}
