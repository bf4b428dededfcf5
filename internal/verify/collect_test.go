package verify

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"treeverify/internal/manifest"
)

func TestCollect(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "present", "deep"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "blocker"), []byte("x"), 0o600))

	m := manifest.NewDirectory(map[string]*manifest.Node{
		"top.txt": manifest.NewFile("d1"),
		"present": manifest.NewDirectory(map[string]*manifest.Node{
			"p.txt": manifest.NewFile("d2"),
			"deep": manifest.NewDirectory(map[string]*manifest.Node{
				"q.txt": manifest.NewFile("d3"),
			}),
		}),
		"absent": manifest.NewDirectory(map[string]*manifest.Node{
			"r.txt": manifest.NewFile("d4"),
			"nested": manifest.NewDirectory(map[string]*manifest.Node{
				"s.txt": manifest.NewFile("d5"),
			}),
		}),
		"blocker": manifest.NewDirectory(map[string]*manifest.Node{
			"t.txt": manifest.NewFile("d6"),
		}),
	})

	wl := Collect(root, m)

	assert.ElementsMatch(t, []Obligation{
		{AbsPath: filepath.Join(root, "top.txt"), RelPath: "top.txt", Expected: "d1"},
		{AbsPath: filepath.Join(root, "present", "p.txt"), RelPath: filepath.Join("present", "p.txt"), Expected: "d2"},
		{AbsPath: filepath.Join(root, "present", "deep", "q.txt"), RelPath: filepath.Join("present", "deep", "q.txt"), Expected: "d3"},
	}, wl.Obligations)

	// Only the outermost absent directory is noted; nothing below it is visited.
	assert.ElementsMatch(t, []string{"absent", "blocker"}, wl.MissingDirs)
}

func TestCollect_EmptyManifest(t *testing.T) {
	wl := Collect(t.TempDir(), manifest.NewDirectory(nil))
	assert.Empty(t, wl.Obligations)
	assert.Empty(t, wl.MissingDirs)
}

func TestCollect_CountsEveryLeafUnderExistingDirs(t *testing.T) {
	root := t.TempDir()
	m := manifest.NewDirectory(nil)
	want := 0
	for _, d := range []string{"a", "b", "c"} {
		require.NoError(t, os.Mkdir(filepath.Join(root, d), 0o755))
		sub := manifest.NewDirectory(nil)
		for _, f := range []string{"1", "2", "3", "4"} {
			sub.Children[f] = manifest.NewFile("x")
			want++
		}
		m.Children[d] = sub
	}

	assert.Len(t, Collect(root, m).Obligations, want)
}
