package store

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

// FileName is the database file name inside the local data directory.
const FileName = "contacts.db3"

// DefaultPath returns the platform's local application data location for
// the contacts database:
//
//	windows: %LOCALAPPDATA%\contacts.db3
//	darwin:  ~/Library/Application Support/contacts.db3
//	other:   $XDG_DATA_HOME/contacts.db3 (default ~/.local/share)
func DefaultPath() (string, error) {
	dir, err := localDataDir(runtime.GOOS, os.Getenv, os.UserHomeDir)
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, FileName), nil
}

// EnsureDir creates the parent directory of path if it does not exist.
func EnsureDir(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return initError("mkdir", err)
	}
	return nil
}

func localDataDir(goos string, getenv func(string) string, home func() (string, error)) (string, error) {
	switch goos {
	case "windows":
		if dir := getenv("LOCALAPPDATA"); dir != "" {
			return dir, nil
		}
		return "", fmt.Errorf("LOCALAPPDATA is not set")
	case "darwin":
		h, err := home()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		return filepath.Join(h, "Library", "Application Support"), nil
	default:
		if dir := getenv("XDG_DATA_HOME"); dir != "" {
			return dir, nil
		}
		h, err := home()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		return filepath.Join(h, ".local", "share"), nil
	}
}
