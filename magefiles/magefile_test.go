package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for name, body := range files {
		path := filepath.Join(root, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	}
}

func TestGoPackageStats(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"internal/pubmed/pubmed.go":      "package pubmed\n\nfunc A() {}\n",
		"internal/pubmed/pubmed_test.go": "package pubmed\n\nfunc TestA(t *testing.T) {}\nfunc TestB(t *testing.T) {}\n",
		"_examples/x/x.go":               "package x\n",
		"bin/ignored.go":                 "package bin\n",
	})

	stats, err := goPackageStats(root)
	require.NoError(t, err)
	require.Len(t, stats, 1)

	ps := stats[filepath.ToSlash(filepath.Join(root, "internal/pubmed"))]
	require.NotNil(t, ps)
	assert.Equal(t, 2, ps.prodLines)
	assert.Equal(t, 3, ps.testLines)
	assert.Equal(t, 2, ps.testFuncs)
}

func TestMarkdownWords(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"DESIGN.md":             "one two\nthree\n",
		"docs/notes.md":         "four",
		"_examples/a/README.md": "not counted here",
		"config.yaml":           "ignored: true",
	})

	words, err := markdownWords(root)
	require.NoError(t, err)
	assert.Equal(t, 4, words)
}
