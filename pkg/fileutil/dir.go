package fileutil

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

var (
	ErrNotDirectory       = errors.New("not a directory")
	ErrNoInputFile        = errors.New("input file is missing, add one .csv or .txt file to the input directory")
	ErrMultipleInputFiles = errors.New("only one input file (.csv or .txt) is permitted, remove the extra files")
)

var inputExtensions = []string{".csv", ".txt"}

// EnsureDir checks that path exists and is a directory
func EnsureDir(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("checking directory %s: %w", path, err)
	}

	if !info.IsDir() {
		return fmt.Errorf("checking directory %s: %w", path, ErrNotDirectory)
	}

	return nil
}

// FindInputFile returns the single .csv or .txt file found in dir
func FindInputFile(dir string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("reading input directory: %w", err)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() || !hasInputExtension(entry.Name()) {
			continue
		}
		files = append(files, filepath.Join(dir, entry.Name()))
	}
	sort.Strings(files)

	switch {
	case len(files) == 0:
		return "", ErrNoInputFile
	case len(files) > 1:
		return "", fmt.Errorf("%w: found %s", ErrMultipleInputFiles, strings.Join(files, ", "))
	}

	return files[0], nil
}

func hasInputExtension(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, allowed := range inputExtensions {
		if ext == allowed {
			return true
		}
	}
	return false
}
