package resolution

import (
	"fmt"
	"os"
	"path/filepath"
)

// FileWrite is one planned file replacement.
type FileWrite struct {
	Path string
	Data []byte
}

// Transaction is a scoped multi-file mutation: every new file content is
// computed in memory before the first byte hits disk, then the whole plan is
// applied in one pass. Deciding the next step never interleaves with writing
// the current one.
type Transaction struct {
	Writes  []FileWrite
	Deletes []string
}

// Empty reports whether the transaction plans no work.
func (t *Transaction) Empty() bool {
	return len(t.Writes) == 0 && len(t.Deletes) == 0
}

// Files lists every path the transaction touches, writes before deletes.
func (t *Transaction) Files() []string {
	out := make([]string, 0, len(t.Writes)+len(t.Deletes))
	for _, w := range t.Writes {
		out = append(out, w.Path)
	}
	return append(out, t.Deletes...)
}

// Apply executes the plan. On the first I/O failure it stops and returns a
// WriteFailure naming the files already written, the failing file, and the
// files never attempted, so a partial state is always detectable.
func (t *Transaction) Apply() error {
	all := t.Files()
	var succeeded []string

	fail := func(path string, err error) error {
		attempted := len(succeeded) + 1
		return &WriteFailure{
			Failed:       path,
			Err:          err,
			Succeeded:    succeeded,
			NotAttempted: all[attempted:],
		}
	}

	for _, w := range t.Writes {
		if err := os.MkdirAll(filepath.Dir(w.Path), 0755); err != nil {
			return fail(w.Path, fmt.Errorf("failed to create directory: %w", err))
		}
		if err := os.WriteFile(w.Path, w.Data, 0644); err != nil {
			return fail(w.Path, err)
		}
		succeeded = append(succeeded, w.Path)
	}

	for _, path := range t.Deletes {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return fail(path, err)
		}
		succeeded = append(succeeded, path)
	}
	return nil
}
