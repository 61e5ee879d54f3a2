package utils

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
)

// WriteTextFile writes text content to a file, creating parent
// directories as needed.
func WriteTextFile(filePath string, content string) error {
	if err := EnsureDir(filepath.Dir(filePath)); err != nil {
		return err
	}

	f, err := os.Create(filePath)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer func() {
		if err := f.Close(); err != nil {
			LogWarning("Failed to close file: %v", err)
		}
	}()

	writer := bufio.NewWriter(f)
	if _, err := writer.WriteString(content); err != nil {
		return fmt.Errorf("failed to write to file: %w", err)
	}

	if err := writer.Flush(); err != nil {
		return fmt.Errorf("failed to flush writer: %w", err)
	}

	LogDebug("Wrote %d bytes to %s", len(content), filePath)
	return nil
}

// EnsureDir creates a directory and its parents if they do not exist.
func EnsureDir(dir string) error {
	if dir == "" || dir == "." {
		return nil
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}
	return nil
}

// ExpandHomeDir expands a path if it starts with "~/".
func ExpandHomeDir(path string) (string, error) {
	if len(path) >= 2 && path[:2] == "~/" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		return filepath.Join(home, path[2:]), nil
	}
	return path, nil
}
