package internal

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

// DataPaths holds the detected locations for local dashboard state
type DataPaths struct {
	BaseDir      string // base data directory
	DatabasePath string // dashboard.db inside BaseDir
}

// DetectDataPaths resolves the OS-specific data directory for the dashboard
func DetectDataPaths() (DataPaths, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return DataPaths{}, fmt.Errorf("failed to get home directory: %w", err)
	}

	var baseDir string
	switch runtime.GOOS {
	case "darwin":
		baseDir = filepath.Join(home, "Library/Application Support/Faraday")
	case "linux":
		baseDir = filepath.Join(home, ".config/faraday")
	default:
		return DataPaths{}, fmt.Errorf("unsupported OS: %s (only macOS and Linux are supported)", runtime.GOOS)
	}

	return pathsFor(baseDir), nil
}

// GetDataPaths returns paths for a custom base directory, or the detected
// default when customDir is empty.
func GetDataPaths(customDir string) (DataPaths, error) {
	if customDir == "" {
		return DetectDataPaths()
	}

	info, err := os.Stat(customDir)
	if err == nil && !info.IsDir() {
		return DataPaths{}, fmt.Errorf("data path is not a directory: %s", customDir)
	}
	return pathsFor(customDir), nil
}

func pathsFor(baseDir string) DataPaths {
	return DataPaths{
		BaseDir:      baseDir,
		DatabasePath: filepath.Join(baseDir, "dashboard.db"),
	}
}

// EnsureDataDir creates the base data directory if it does not exist
func (p DataPaths) EnsureDataDir() error {
	return os.MkdirAll(p.BaseDir, 0755)
}

// DatabaseExists reports whether the local database file is present
func (p DataPaths) DatabaseExists() bool {
	info, err := os.Stat(p.DatabasePath)
	return err == nil && !info.IsDir()
}
