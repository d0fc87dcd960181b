package vscopilot

import (
	"path/filepath"
	"testing"
)

func TestStorageRoots_Ordering(t *testing.T) {
	roots := StorageRoots(PlatformOther, "/home/dev")
	if len(roots) != 2 {
		t.Fatalf("root count = %d, want 2", len(roots))
	}
	if want := filepath.Join("/home/dev", ".config", "Code", "User"); roots[0] != want {
		t.Errorf("stable root = %v, want %v", roots[0], want)
	}
	if want := filepath.Join("/home/dev", ".config", "Code - Insiders", "User"); roots[1] != want {
		t.Errorf("insiders root = %v, want %v", roots[1], want)
	}
}

func TestStorageRoots_Platforms(t *testing.T) {
	tests := []struct {
		platform Platform
		want     string
	}{
		{PlatformWindows, filepath.Join("/home/dev", "AppData", "Roaming", "Code", "User")},
		{PlatformMacOS, filepath.Join("/home/dev", "Library", "Application Support", "Code", "User")},
		{PlatformOther, filepath.Join("/home/dev", ".config", "Code", "User")},
		// Unrecognized platforms fall through to the XDG layout.
		{Platform("beos"), filepath.Join("/home/dev", ".config", "Code", "User")},
	}
	for _, tt := range tests {
		roots := StorageRoots(tt.platform, "/home/dev")
		if roots[0] != tt.want {
			t.Errorf("StorageRoots(%s)[0] = %v, want %v", tt.platform, roots[0], tt.want)
		}
	}
}
