// Copyright (c) 2026 Harry Huang

// Package fsutil provides small filesystem helpers shared by the map tools.
package fsutil

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// EnsureOutputDir creates path if needed and drops a catch-all .gitignore
// so tool-generated assets are never committed.
func EnsureOutputDir(path string) error {
	if err := os.MkdirAll(path, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	gitignore := filepath.Join(path, ".gitignore")
	if err := os.WriteFile(gitignore, []byte("*\n"), 0o644); err != nil {
		return fmt.Errorf("failed to write .gitignore: %w", err)
	}
	return nil
}

// CopyFile copies src to dst, replacing any existing file.
func CopyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("failed to open source file: %w", err)
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("failed to create destination file: %w", err)
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return fmt.Errorf("failed to copy file: %w", err)
	}
	return nil
}
