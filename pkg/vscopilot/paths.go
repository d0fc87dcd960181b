package vscopilot

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

// Platform is the operating-system family used to pick storage layouts.
// Anything that is not Windows or macOS gets the XDG-style layout.
type Platform string

const (
	PlatformWindows Platform = "windows"
	PlatformMacOS   Platform = "macos"
	PlatformOther   Platform = "other"
)

// channelDirs are the per-installation-channel application directories,
// in discovery order: stable first, then the pre-release build.
var channelDirs = []string{"Code", "Code - Insiders"}

// StorageRoots returns the candidate per-user storage roots for the
// given platform and home directory, one per installation channel. It
// never touches the filesystem; callers check which candidates exist.
func StorageRoots(platform Platform, home string) []string {
	roots := make([]string, 0, len(channelDirs))
	for _, channel := range channelDirs {
		switch platform {
		case PlatformWindows:
			roots = append(roots, filepath.Join(home, "AppData", "Roaming", channel, "User"))
		case PlatformMacOS:
			roots = append(roots, filepath.Join(home, "Library", "Application Support", channel, "User"))
		default:
			roots = append(roots, filepath.Join(home, ".config", channel, "User"))
		}
	}
	return roots
}

// CurrentPlatform maps the running OS onto a storage-layout platform.
func CurrentPlatform() Platform {
	switch runtime.GOOS {
	case "windows":
		return PlatformWindows
	case "darwin":
		return PlatformMacOS
	default:
		return PlatformOther
	}
}

// DefaultStorageRoots resolves the candidate roots for the running
// machine. Failing to determine the home directory is the one
// environment error this package propagates.
func DefaultStorageRoots() ([]string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get home directory: %w", err)
	}
	return StorageRoots(CurrentPlatform(), home), nil
}
