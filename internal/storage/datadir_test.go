package storage

import (
	"errors"
	"path/filepath"
	"testing"

	"gotest.tools/v3/assert"
)

func TestDataDir(t *testing.T) {
	home := func() (string, error) { return "/home/me", nil }
	env := func(key string) string {
		if key == "LOCALAPPDATA" {
			return `C:\Users\me\AppData\Local`
		}
		return ""
	}

	tests := []struct {
		goos string
		want string
	}{
		{goos: "linux", want: filepath.Join("/home/me", ".config", "FavMeData")},
		{goos: "darwin", want: filepath.Join("/home/me", "Library", "Application Support", "FavMeData")},
		{goos: "windows", want: filepath.Join(`C:\Users\me\AppData\Local`, "FavMeData")},
	}

	for _, tt := range tests {
		t.Run(tt.goos, func(t *testing.T) {
			got, err := dataDir(tt.goos, env, home)
			assert.NilError(t, err)
			assert.Equal(t, got, tt.want)
		})
	}
}

func TestDataDir_Errors(t *testing.T) {
	_, err := dataDir("windows", func(string) string { return "" }, nil)
	assert.ErrorContains(t, err, "LOCALAPPDATA")

	_, err = dataDir("linux", nil, func() (string, error) { return "", errors.New("no home") })
	assert.ErrorContains(t, err, "no home")
}
