package verify

import (
	"os"
	"path/filepath"

	"treeverify/internal/manifest"
)

// Collect flattens dir into obligations rooted at root. A manifest directory
// with no matching directory on disk is skipped whole: its files are not
// reported missing, only its path is noted in MissingDirs.
func Collect(root string, dir *manifest.Node) Worklist {
	var wl Worklist
	collect(root, dir, "", &wl)
	return wl
}

func collect(absDir string, node *manifest.Node, rel string, wl *Worklist) {
	for _, name := range node.Names() {
		child := node.Children[name]
		abs := filepath.Join(absDir, name)
		relPath := filepath.Join(rel, name)

		if child.IsDir() {
			if !isDir(abs) {
				wl.MissingDirs = append(wl.MissingDirs, relPath)
				continue
			}
			collect(abs, child, relPath, wl)
			continue
		}

		wl.Obligations = append(wl.Obligations, Obligation{
			AbsPath:  abs,
			RelPath:  relPath,
			Expected: child.Digest,
		})
	}
}

// isDir treats any stat failure as absence.
func isDir(p string) bool {
	info, err := os.Stat(p)
	return err == nil && info.IsDir()
}
