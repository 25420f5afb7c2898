package storage

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/chdeepakkumar/portfolio/internal/common"
	"github.com/chdeepakkumar/portfolio/internal/logging"
)

func testLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewJSONHandler(io.Discard, nil)))
}

func newLocal(t *testing.T) *Local {
	t.Helper()
	l, err := NewLocal(t.TempDir(), testLogger())
	if err != nil {
		t.Fatalf("NewLocal error: %v", err)
	}
	return l
}

func TestLocal_WriteReadRoundtrip(t *testing.T) {
	t.Parallel()

	l := newLocal(t)
	ctx := context.Background()

	if err := l.Write(ctx, "knowledge/portfolio.json", `{"a":1}`, true); err != nil {
		t.Fatalf("Write error: %v", err)
	}
	got, err := l.Read(ctx, "knowledge/portfolio.json")
	if err != nil {
		t.Fatalf("Read error: %v", err)
	}
	if got != `{"a":1}` {
		t.Fatalf("content mismatch: %q", got)
	}
}

func TestLocal_ReadMissing(t *testing.T) {
	t.Parallel()

	l := newLocal(t)
	_, err := l.Read(context.Background(), "nope.json")
	if !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestLocal_ExistsNeverErrors(t *testing.T) {
	t.Parallel()

	l := newLocal(t)
	ctx := context.Background()

	ok, err := l.Exists(ctx, "absent.json")
	if err != nil || ok {
		t.Fatalf("absent object: got (%v, %v)", ok, err)
	}
	if err := l.Write(ctx, "present.json", "x", false); err != nil {
		t.Fatalf("Write error: %v", err)
	}
	ok, err = l.Exists(ctx, "present.json")
	if err != nil || !ok {
		t.Fatalf("present object: got (%v, %v)", ok, err)
	}
}

func TestLocal_DeleteMissing(t *testing.T) {
	t.Parallel()

	l := newLocal(t)
	err := l.Delete(context.Background(), "absent.json")
	if !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestLocal_ListMissingPrefixIsEmpty(t *testing.T) {
	t.Parallel()

	l := newLocal(t)
	infos, err := l.List(context.Background(), "no-such-dir")
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if len(infos) != 0 {
		t.Fatalf("expected empty listing, got %d entries", len(infos))
	}
}

func TestLocal_ListReturnsBareNames(t *testing.T) {
	t.Parallel()

	l := newLocal(t)
	ctx := context.Background()

	if err := l.Write(ctx, "resume/a.pdf", "x", false); err != nil {
		t.Fatalf("Write error: %v", err)
	}
	if err := l.Write(ctx, "resume/b.pdf", "y", false); err != nil {
		t.Fatalf("Write error: %v", err)
	}

	infos, err := l.List(ctx, "resume")
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if len(infos) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(infos))
	}
	for _, info := range infos {
		if info.Name != "a.pdf" && info.Name != "b.pdf" {
			t.Fatalf("expected bare name, got %q", info.Name)
		}
	}
}

func TestLocal_PathTraversalRejected(t *testing.T) {
	t.Parallel()

	l := newLocal(t)
	ctx := context.Background()

	for _, p := range []string{"", "/abs.json", "../escape.json", "a/../../b", "a//b"} {
		if _, err := l.Read(ctx, p); !errors.Is(err, common.ErrValidation) {
			t.Fatalf("path %q: expected ErrValidation, got %v", p, err)
		}
	}
}

func TestLocal_Stat(t *testing.T) {
	t.Parallel()

	l := newLocal(t)
	ctx := context.Background()

	if err := l.Write(ctx, "dir/file.json", "12345", false); err != nil {
		t.Fatalf("Write error: %v", err)
	}
	info, err := l.Stat(ctx, "dir/file.json")
	if err != nil {
		t.Fatalf("Stat error: %v", err)
	}
	if info.Name != "file.json" || info.Size != 5 {
		t.Fatalf("unexpected info: %+v", info)
	}
}
