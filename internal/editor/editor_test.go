package editor

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mithrel/folio/internal/importer"
	"github.com/mithrel/folio/pkg/api"
)

func TestComposeAndParse(t *testing.T) {
	p := api.Post{Slug: "s", Title: "T", Author: "A", Date: "2024-01-01", Category: "C", Content: "# Body"}
	data, err := ComposeContent(p)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "---\n# Folio post."))

	got, err := ParseEdited(data)
	require.NoError(t, err)
	assert.Equal(t, p, got)

	_, err = ParseEdited([]byte("just text"))
	assert.ErrorIs(t, err, importer.ErrNoFrontMatter)
}

func TestTitleFromContent(t *testing.T) {
	assert.Equal(t, "Hello world", TitleFromContent("\n\n#  Hello   world\nmore"))
	assert.Equal(t, "", TitleFromContent("  \n"))
	long := strings.Repeat("x", 130)
	assert.Len(t, TitleFromContent(long), 120)
}

func TestPathForSlug(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_RUNTIME_DIR", dir)
	path, err := PathForSlug("Team Notes")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "folio", "team-notes.folio.md"), path)

	path, err = PathForSlug("")
	require.NoError(t, err)
	assert.Equal(t, "new-post.folio.md", filepath.Base(path))
}

func TestOpenAtWithScriptedEditor(t *testing.T) {
	dir := t.TempDir()
	script := filepath.Join(dir, "ed.sh")
	require.NoError(t, os.WriteFile(script, []byte("#!/bin/sh\necho appended >> \"$1\"\n"), 0o755))
	t.Setenv("VISUAL", script)

	path := filepath.Join(dir, "edit", "p.folio.md")
	out, changed, err := OpenAt(path, []byte("start\n"))
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, "start\nappended\n", string(out))
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}
