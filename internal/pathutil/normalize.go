package pathutil

import (
	"fmt"
	"path"
	"path/filepath"
)

// Normalize returns a canonical filesystem path string.
// It removes trailing slashes, collapses "." and "..", and
// preserves relative paths when provided.
func Normalize(p string) string {
	if p == "" {
		return p
	}
	return filepath.Clean(p)
}

// CatalogPath maps a filesystem path under root to its catalog path:
// "/" followed by the slash-separated path relative to root.
func CatalogPath(root, realPath string) (string, error) {
	rel, err := filepath.Rel(root, realPath)
	if err != nil {
		return "", fmt.Errorf("path %q is not under %q: %w", realPath, root, err)
	}
	if rel == "." {
		return "/", nil
	}
	return "/" + filepath.ToSlash(rel), nil
}

// CleanCatalog canonicalizes a catalog path: rooted at "/", no trailing
// slash, "." and ".." collapsed.
func CleanCatalog(p string) string {
	return path.Clean("/" + p)
}

// ParentCatalog returns the catalog path of p's parent directory.
func ParentCatalog(p string) string {
	return path.Dir(CleanCatalog(p))
}
