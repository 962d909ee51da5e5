package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

const (
	appDir         = "venue"
	localStoreFile = "local.db"
)

var (
	dirMu       sync.RWMutex
	dirOverride string
)

// SetDataDir points storage at dir instead of ~/.config/venue. An empty dir
// restores the default.
func SetDataDir(dir string) {
	dirMu.Lock()
	defer dirMu.Unlock()
	dirOverride = dir
}

func ConfigDir() (string, error) {
	dirMu.RLock()
	override := dirOverride
	dirMu.RUnlock()
	if override != "" {
		return override, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appDir), nil
}

func LocalStorePath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, localStoreFile), nil
}

func ensureConfigDir() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", fmt.Errorf("create config dir: %w", err)
	}
	return dir, nil
}
