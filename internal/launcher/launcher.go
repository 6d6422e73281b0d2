// Package launcher hands favorites to the operating system.
package launcher

import (
	"fmt"
	"os"
	"os/exec"
	"runtime"

	"github.com/atotto/clipboard"

	"github.com/nikbrunner/favme/internal/model"
)

// Launcher opens folders and websites with the platform default handler.
type Launcher struct {
	goos  string
	start func(name string, args ...string) error
	copy  func(text string) error
}

// New creates a Launcher for the current platform.
func New() *Launcher {
	return &Launcher{
		goos:  runtime.GOOS,
		start: startDetached,
		copy:  clipboard.WriteAll,
	}
}

// Open launches the entry's value unmodified. Folders are checked for
// existence first.
func (l *Launcher) Open(e model.Entry) error {
	if e.Kind == model.KindFolder {
		if _, err := os.Stat(e.Value); err != nil {
			return fmt.Errorf("folder %q not found: %w", e.Value, err)
		}
	}
	name, args := l.command(e.Value)
	if name == "" {
		return fmt.Errorf("opening is not supported on %s", l.goos)
	}
	return l.start(name, args...)
}

// Copy puts the entry's value on the system clipboard.
func (l *Launcher) Copy(e model.Entry) error {
	return l.copy(e.Value)
}

// command returns the shell-open invocation for target.
func (l *Launcher) command(target string) (string, []string) {
	switch l.goos {
	case "darwin":
		return "open", []string{target}
	case "windows":
		return "rundll32", []string{"url.dll,FileProtocolHandler", target}
	case "linux", "freebsd", "openbsd", "netbsd":
		return "xdg-open", []string{target}
	}
	return "", nil
}

func startDetached(name string, args ...string) error {
	cmd := exec.Command(name, args...)
	if err := cmd.Start(); err != nil {
		return err
	}
	// Don't wait; the handler outlives us.
	return cmd.Process.Release()
}
