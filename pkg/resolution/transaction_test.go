package resolution

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestTransaction_AppliesWritesAndDeletes(t *testing.T) {
	dir := t.TempDir()
	victim := filepath.Join(dir, "old.yaml")
	if err := os.WriteFile(victim, []byte("old"), 0644); err != nil {
		t.Fatalf("Failed to seed victim file: %v", err)
	}

	tx := Transaction{
		Writes: []FileWrite{
			{Path: filepath.Join(dir, "nested", "new.yaml"), Data: []byte("new")},
		},
		Deletes: []string{victim},
	}
	if err := tx.Apply(); err != nil {
		t.Fatalf("Apply failed: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "nested", "new.yaml"))
	if err != nil {
		t.Fatalf("Written file missing: %v", err)
	}
	if string(data) != "new" {
		t.Errorf("Written content = %q, want %q", data, "new")
	}
	if _, err := os.Stat(victim); !os.IsNotExist(err) {
		t.Errorf("Deleted file still present: %v", err)
	}
}

func TestTransaction_DeleteMissingFileTolerated(t *testing.T) {
	dir := t.TempDir()
	tx := Transaction{Deletes: []string{filepath.Join(dir, "never-existed.yaml")}}
	if err := tx.Apply(); err != nil {
		t.Errorf("Deleting an absent file should not fail: %v", err)
	}
}

func TestTransaction_WriteFailureNamesEveryFile(t *testing.T) {
	dir := t.TempDir()
	blocked := filepath.Join(dir, "blocked")
	// A regular file where a directory is needed makes MkdirAll fail.
	if err := os.WriteFile(blocked, []byte("x"), 0644); err != nil {
		t.Fatalf("Failed to seed blocking file: %v", err)
	}

	first := filepath.Join(dir, "a.yaml")
	failing := filepath.Join(blocked, "b.yaml")
	never := filepath.Join(dir, "c.yaml")
	tx := Transaction{
		Writes: []FileWrite{
			{Path: first, Data: []byte("a")},
			{Path: failing, Data: []byte("b")},
			{Path: never, Data: []byte("c")},
		},
		Deletes: []string{filepath.Join(dir, "d.yaml")},
	}

	err := tx.Apply()
	var wf *WriteFailure
	if !errors.As(err, &wf) {
		t.Fatalf("Expected a WriteFailure, got %v", err)
	}
	if wf.Failed != failing {
		t.Errorf("Failed = %s, want %s", wf.Failed, failing)
	}
	if len(wf.Succeeded) != 1 || wf.Succeeded[0] != first {
		t.Errorf("Succeeded = %v, want [%s]", wf.Succeeded, first)
	}
	wantNotAttempted := []string{never, filepath.Join(dir, "d.yaml")}
	if len(wf.NotAttempted) != len(wantNotAttempted) {
		t.Fatalf("NotAttempted = %v, want %v", wf.NotAttempted, wantNotAttempted)
	}
	for i, path := range wantNotAttempted {
		if wf.NotAttempted[i] != path {
			t.Errorf("NotAttempted[%d] = %s, want %s", i, wf.NotAttempted[i], path)
		}
	}

	// The file written before the failure is on disk; later ones are not.
	if _, err := os.Stat(first); err != nil {
		t.Errorf("File written before the failure should exist: %v", err)
	}
	if _, err := os.Stat(never); !os.IsNotExist(err) {
		t.Error("File after the failure should never be attempted")
	}
}

func TestTransaction_EmptyAndFiles(t *testing.T) {
	var tx Transaction
	if !tx.Empty() {
		t.Error("Zero-value transaction should be empty")
	}
	tx.Writes = append(tx.Writes, FileWrite{Path: "w"})
	tx.Deletes = append(tx.Deletes, "d")
	if tx.Empty() {
		t.Error("Transaction with planned work should not be empty")
	}
	files := tx.Files()
	if len(files) != 2 || files[0] != "w" || files[1] != "d" {
		t.Errorf("Files() = %v, want writes before deletes", files)
	}
}
