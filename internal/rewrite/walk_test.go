package rewrite

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeTree 在临时目录里铺一棵文件树，内容无关紧要。
func writeTree(t *testing.T, root string, paths ...string) {
	t.Helper()

	for _, p := range paths {
		full := filepath.Join(root, p)
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0750))
		require.NoError(t, os.WriteFile(full, []byte("package p\n"), 0600))
	}
}

func TestCollectFiles_WalksDirectories(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root,
		"a.go",
		"a_test.go",
		"notgo.txt",
		"_skip.go",
		".hidden.go",
		"sub/c.go",
		"vendor/v.go",
		"testdata/td.go",
		"_build/x.go",
		".git/y.go",
	)

	files, err := collectFiles([]string{root}, nil)
	require.NoError(t, err)

	want := []string{
		filepath.Join(root, "a.go"),
		filepath.Join(root, "a_test.go"),
		filepath.Join(root, "sub", "c.go"),
	}
	assert.Equal(t, want, files)
}

func TestCollectFiles_Exclude(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, "a.go", "a_gen.go", "sub/b_gen.go")

	files, err := collectFiles([]string{root}, []string{"*_gen.go"})
	require.NoError(t, err)

	assert.Equal(t, []string{filepath.Join(root, "a.go")}, files)
}

func TestCollectFiles_ExplicitFileBypassesSkipRules(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, "_skip.go")

	target := filepath.Join(root, "_skip.go")
	files, err := collectFiles([]string{target}, nil)
	require.NoError(t, err)

	assert.Equal(t, []string{target}, files)
}

func TestCollectFiles_ExplicitNonGoFile(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, "readme.txt")

	_, err := collectFiles([]string{filepath.Join(root, "readme.txt")}, nil)
	require.ErrorIs(t, err, ErrNotGoSource)
}

func TestCollectFiles_MissingPath(t *testing.T) {
	_, err := collectFiles([]string{filepath.Join(t.TempDir(), "absent")}, nil)
	require.Error(t, err)
}

func TestCollectFiles_Deduplicates(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, "a.go")

	target := filepath.Join(root, "a.go")
	files, err := collectFiles([]string{target, target, root}, nil)
	require.NoError(t, err)

	assert.Equal(t, []string{target}, files)
}

func TestCollectDirs(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root,
		"a.go",
		"sub/c.go",
		"sub/deep/d.go",
		"vendor/v.go",
		"_build/x.go",
	)

	dirs, err := collectDirs([]string{root})
	require.NoError(t, err)

	want := []string{
		root,
		filepath.Join(root, "sub"),
		filepath.Join(root, "sub", "deep"),
	}
	assert.Equal(t, want, dirs)
}

func TestCollectDirs_FileMapsToParent(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, "sub/c.go")

	dirs, err := collectDirs([]string{filepath.Join(root, "sub", "c.go")})
	require.NoError(t, err)

	assert.Equal(t, []string{filepath.Join(root, "sub")}, dirs)
}

func TestSkipDir(t *testing.T) {
	assert.True(t, skipDir(".git"))
	assert.True(t, skipDir("_build"))
	assert.True(t, skipDir("vendor"))
	assert.True(t, skipDir("testdata"))
	assert.False(t, skipDir("internal"))
	assert.False(t, skipDir("pkg"))
}

func TestIsGoFile(t *testing.T) {
	assert.True(t, isGoFile("main.go"))
	assert.True(t, isGoFile("main_test.go"))
	assert.False(t, isGoFile("main.txt"))
	assert.False(t, isGoFile("_gen.go"))
	assert.False(t, isGoFile(".hidden.go"))
	assert.False(t, isGoFile("go"))
}
