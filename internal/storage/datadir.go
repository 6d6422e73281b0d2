package storage

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
)

const appDirName = "FavMeData"

// DataDir returns the per-user directory holding favorites and settings:
// %LOCALAPPDATA%\FavMeData on Windows, ~/Library/Application Support/FavMeData
// on macOS and ~/.config/FavMeData elsewhere.
func DataDir() (string, error) {
	return dataDir(runtime.GOOS, os.Getenv, os.UserHomeDir)
}

func dataDir(goos string, getenv func(string) string, home func() (string, error)) (string, error) {
	if goos == "windows" {
		local := getenv("LOCALAPPDATA")
		if local == "" {
			return "", errors.New("LOCALAPPDATA is not set")
		}
		return filepath.Join(local, appDirName), nil
	}

	homeDir, err := home()
	if err != nil {
		return "", err
	}
	if goos == "darwin" {
		return filepath.Join(homeDir, "Library", "Application Support", appDirName), nil
	}
	return filepath.Join(homeDir, ".config", appDirName), nil
}
