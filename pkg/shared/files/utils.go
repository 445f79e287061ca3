package files

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// SarifExtensions are the file name suffixes picked up when a directory is given as a target.
var SarifExtensions = []string{".sarif", ".sarif.json"}

// ExpandPath resolves paths that include a tilde (~) to the user's home directory.
func ExpandPath(path string) (string, error) {
	if strings.HasPrefix(path, "~/") {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(homeDir, path[2:]), nil
	}
	return path, nil
}

// ValidatePath checks if the given path is a valid file path for reading.
func ValidatePath(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("path stat error: %w", err)
	}
	if info.IsDir() {
		return fmt.Errorf("path %q is a directory, not a file", path)
	}

	if info.Mode()&os.ModeType != 0 {
		return fmt.Errorf("path %q is not a regular file", path)
	}
	return nil
}

// IsSarifFile reports whether name carries one of the SARIF extensions.
func IsSarifFile(name string) bool {
	lower := strings.ToLower(name)
	for _, ext := range SarifExtensions {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}

// ExpandTargets turns the given paths into the list of files to validate.
// Files are kept whatever their name but must be regular; directories are walked recursively for
// SARIF files. The result is free of duplicates, directory contents sorted.
func ExpandTargets(paths []string) ([]string, error) {
	var targets []string
	seen := make(map[string]bool)
	add := func(path string) {
		if !seen[path] {
			seen[path] = true
			targets = append(targets, path)
		}
	}

	for _, raw := range paths {
		path, err := ExpandPath(raw)
		if err != nil {
			return nil, fmt.Errorf("failed to expand path %q: %w", raw, err)
		}
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("target %q: %w", raw, err)
		}
		if !info.IsDir() {
			if err := ValidatePath(path); err != nil {
				return nil, fmt.Errorf("target %q: %w", raw, err)
			}
			add(filepath.Clean(path))
			continue
		}

		var found []string
		err = filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				return fmt.Errorf("failed to access %q: %w", p, err)
			}
			if d.Type().IsRegular() && IsSarifFile(d.Name()) {
				found = append(found, p)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
		sort.Strings(found)
		for _, p := range found {
			add(p)
		}
	}
	return targets, nil
}

// CreateFolderIfNotExists checks if a folder exists, and if not, creates it.
func CreateFolderIfNotExists(folder string) error {
	if _, err := os.Stat(folder); os.IsNotExist(err) {
		if err := os.MkdirAll(folder, os.ModePerm); err != nil {
			return fmt.Errorf("unable to create folder %q: %w", folder, err)
		}
	} else if err != nil {
		return fmt.Errorf("unable to check folder %q: %w", folder, err)
	}
	return nil
}

// DetermineFileFullPath returns the file to write and its folder. An existing
// directory, or a missing path without an extension, is treated as a folder
// in which nameTemplate is created.
func DetermineFileFullPath(path, nameTemplate string) (string, string, error) {
	path, err := ExpandPath(path)
	if err != nil {
		return "", "", fmt.Errorf("failed to unwrap path %q: %w", path, err)
	}

	fileInfo, err := os.Stat(path)
	if err != nil && !os.IsNotExist(err) {
		return "", "", fmt.Errorf("failed to unwrap path %q: %w", path, err)
	}

	var fullPath, folder string
	if err == nil && fileInfo.IsDir() || (err != nil && filepath.Ext(path) == "") {
		folder = path
		fullPath = filepath.Join(path, nameTemplate)
	} else {
		folder = filepath.Dir(path)
		fullPath = path
	}

	return fullPath, folder, nil
}
