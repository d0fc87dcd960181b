package vscopilot

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
)

// MultiRootPrefix marks workspace references that point at a multi-root
// workspace rather than a single folder. Consumers can distinguish the
// two cases without re-reading workspace.json.
const MultiRootPrefix = "multi-root:"

// workspaceMeta is the undocumented workspace.json the editor writes
// inside each workspaceStorage subdirectory. Single-root workspaces
// carry a file:// URI in "folder"; multi-root workspaces carry an
// opaque reference in "workspace".
type workspaceMeta struct {
	Folder    string `json:"folder"`
	Workspace string `json:"workspace"`
}

// BuildWorkspaceMapping maps each workspaceStorage subdirectory name
// under root to a resolved workspace reference. Mapping is best-effort:
// subdirectories whose workspace.json is missing, unreadable, or
// unparsable are left out, and a missing workspaceStorage directory
// yields an empty map.
func BuildWorkspaceMapping(root string) map[string]string {
	mapping := make(map[string]string)

	storageDir := filepath.Join(root, "workspaceStorage")
	entries, err := os.ReadDir(storageDir)
	if err != nil {
		log.Debugf("no workspaceStorage under %s: %v", root, err)
		return mapping
	}

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		name := entry.Name()

		data, err := os.ReadFile(filepath.Join(storageDir, name, "workspace.json"))
		if err != nil {
			log.Debugf("workspace %s: no workspace.json: %v", name, err)
			continue
		}

		var meta workspaceMeta
		if err := json.Unmarshal(data, &meta); err != nil {
			log.Debugf("workspace %s: unparsable workspace.json: %v", name, err)
			continue
		}

		switch {
		case meta.Folder != "":
			mapping[name] = strings.TrimPrefix(meta.Folder, "file://")
		case meta.Workspace != "":
			mapping[name] = MultiRootPrefix + meta.Workspace
		default:
			log.Debugf("workspace %s: workspace.json has neither folder nor workspace", name)
		}
	}

	return mapping
}

// workspaceDirFromPath extracts the workspace directory name from a
// session file path by scanning for the workspaceStorage segment. The
// first occurrence wins; a path that contains the segment twice resolves
// to the earlier one.
func workspaceDirFromPath(path string) string {
	parts := strings.Split(filepath.ToSlash(path), "/")
	for i, part := range parts {
		if part == "workspaceStorage" && i+1 < len(parts) {
			return parts[i+1]
		}
	}
	return ""
}
