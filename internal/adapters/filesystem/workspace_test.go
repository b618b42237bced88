package filesystem_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/example/devkit/internal/adapters/filesystem"
)

func TestWorkspaceAdapter_ReadWriteFile(t *testing.T) {
	tmpDir := t.TempDir()
	adapter := filesystem.NewWorkspaceAdapter()
	ctx := context.Background()
	path := filepath.Join(tmpDir, ".ssh", "config")

	// File should not exist initially
	_, exists, err := adapter.ReadFile(ctx, path)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if exists {
		t.Error("expected file to not exist")
	}

	// Write creates parent directories
	if err := adapter.WriteFile(ctx, path, []byte("Host a\n"), 0600); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	data, exists, err := adapter.ReadFile(ctx, path)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if !exists || string(data) != "Host a\n" {
		t.Errorf("unexpected content %q (exists=%v)", data, exists)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat failed: %v", err)
	}
	if info.Mode().Perm() != 0600 {
		t.Errorf("expected mode 0600, got %v", info.Mode().Perm())
	}

	// Overwrite leaves no temp files behind
	if err := adapter.WriteFile(ctx, path, []byte("Host b\n"), 0600); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	entries, _ := os.ReadDir(filepath.Dir(path))
	if len(entries) != 1 {
		t.Errorf("expected 1 entry, got %d", len(entries))
	}
}

func TestWorkspaceAdapter_DirectoryExists(t *testing.T) {
	tmpDir := t.TempDir()
	adapter := filesystem.NewWorkspaceAdapter()
	ctx := context.Background()

	exists, err := adapter.DirectoryExists(ctx, tmpDir)
	if err != nil || !exists {
		t.Errorf("expected %s to exist (err=%v)", tmpDir, err)
	}

	exists, err = adapter.DirectoryExists(ctx, filepath.Join(tmpDir, "missing"))
	if err != nil || exists {
		t.Errorf("expected missing dir to not exist (err=%v)", err)
	}

	file := filepath.Join(tmpDir, "file")
	os.WriteFile(file, []byte("x"), 0644)
	exists, _ = adapter.DirectoryExists(ctx, file)
	if exists {
		t.Error("expected a regular file to not count as a directory")
	}
}

func TestWorkspaceAdapter_Glob(t *testing.T) {
	tmpDir := t.TempDir()
	adapter := filesystem.NewWorkspaceAdapter()

	for path, content := range map[string]string{
		"a.sql":           "12345",
		"dumps/b.sql":     "1",
		"dumps/old/c.sql": "12",
		"notes.txt":       "n",
	} {
		full := filepath.Join(tmpDir, path)
		os.MkdirAll(filepath.Dir(full), 0755)
		if err := os.WriteFile(full, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}

	files, err := adapter.Glob(context.Background(), filepath.Join(tmpDir, "**", "*.sql"))
	if err != nil {
		t.Fatalf("Glob failed: %v", err)
	}

	want := map[string]int64{
		filepath.Join(tmpDir, "a.sql"):           5,
		filepath.Join(tmpDir, "dumps/b.sql"):     1,
		filepath.Join(tmpDir, "dumps/old/c.sql"): 2,
	}
	if len(files) != len(want) {
		t.Fatalf("expected %d files, got %d: %+v", len(want), len(files), files)
	}
	for _, f := range files {
		size, ok := want[f.Path]
		if !ok {
			t.Errorf("unexpected match %s", f.Path)
			continue
		}
		if f.Size != size {
			t.Errorf("%s: expected size %d, got %d", f.Path, size, f.Size)
		}
	}

	// Directories never match
	files, _ = adapter.Glob(context.Background(), filepath.Join(tmpDir, "*"))
	for _, f := range files {
		if filepath.Base(f.Path) == "dumps" {
			t.Error("directory matched as a file")
		}
	}
}

func TestWorkspaceAdapter_GlobBadPattern(t *testing.T) {
	adapter := filesystem.NewWorkspaceAdapter()

	if _, err := adapter.Glob(context.Background(), "[unclosed"); err == nil {
		t.Error("expected error for malformed pattern")
	}
}
