package report

import (
	"fmt"
	"os"
)

func readFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read report %s: %w", path, err)
	}
	return data, nil
}

// WriteFile renders the report to a file, creating parent-relative paths as
// given. Stdout is selected by passing "-" to the caller, not here.
func WriteFile(path string, render func(f *os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create report file %s: %w", path, err)
	}
	defer f.Close()

	if err := render(f); err != nil {
		return fmt.Errorf("failed to write report %s: %w", path, err)
	}
	return f.Sync()
}
