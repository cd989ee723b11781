package localfs

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"
)

func TestSaveOpenDelete(t *testing.T) {
	dir := t.TempDir()
	storage, err := New(dir)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	ctx := context.Background()

	if err := storage.Save(ctx, "doc_a.pdf", bytes.NewBufferString("%PDF")); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	rc, err := storage.Open(ctx, "doc_a.pdf")
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	raw, _ := io.ReadAll(rc)
	_ = rc.Close()
	if string(raw) != "%PDF" {
		t.Fatalf("unexpected content %q", raw)
	}

	if err := storage.Delete(ctx, "doc_a.pdf"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if err := storage.Delete(ctx, "doc_a.pdf"); err != nil {
		t.Fatalf("second Delete() error = %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "doc_a.pdf")); !os.IsNotExist(err) {
		t.Fatalf("expected file removed, stat err = %v", err)
	}
}

func TestKeysCannotEscapeBasePath(t *testing.T) {
	dir := t.TempDir()
	storage, err := New(filepath.Join(dir, "store"))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if err := storage.Save(context.Background(), "../../escape.pdf", bytes.NewBufferString("x")); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "store", "escape.pdf")); err != nil {
		t.Fatalf("expected file inside base path: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "escape.pdf")); !os.IsNotExist(err) {
		t.Fatalf("file escaped base path")
	}
}
