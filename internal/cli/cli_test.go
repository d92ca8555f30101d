package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zalando/go-keyring"

	"github.com/mithrel/folio/internal/present/format"
	"github.com/mithrel/folio/pkg/api"
	"github.com/mithrel/folio/pkg/blocks"
)

// isolate points every XDG location at a temp dir and returns it.
func isolate(t *testing.T) string {
	t.Helper()
	tmp := t.TempDir()
	t.Setenv("HOME", tmp)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tmp, "config"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(tmp, "data"))
	t.Setenv("XDG_RUNTIME_DIR", filepath.Join(tmp, "run"))
	return tmp
}

func writeConfigTOML(t *testing.T, dir string, seed bool) string {
	t.Helper()
	cfg := filepath.Join(dir, "config.toml")
	esc := func(s string) string { return strings.ReplaceAll(s, "\\", "\\\\") }
	seedVal := "false"
	if seed {
		seedVal = "true"
	}
	content := `data_dir = "` + esc(dir) + `"
db_url = "sqlite://` + esc(filepath.Join(dir, "folio.db")) + `"
seed_demo = ` + seedVal + `
http_addr = "127.0.0.1:0"

[cache]
backend = "memory"

[log]
level = "error"
`
	require.NoError(t, os.WriteFile(cfg, []byte(content), 0o600))
	return cfg
}

func runCLI(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func mustRun(t *testing.T, args ...string) string {
	t.Helper()
	out, err := runCLI(t, "", args...)
	require.NoError(t, err, out)
	return out
}

func TestRenderFromStdin(t *testing.T) {
	dir := isolate(t)
	cfg := writeConfigTOML(t, dir, false)

	out, err := runCLI(t, "# Title\n> quote\n1. one\n2. two\n```x := 1", "--config", cfg, "render", "--output", "json")
	require.NoError(t, err, out)
	var nodes []blocks.Node
	require.NoError(t, json.Unmarshal([]byte(out), &nodes), out)
	assert.Equal(t, []blocks.Node{
		{Type: "heading", Level: 1, Text: "Title"},
		{Type: "blockquote", Text: "quote"},
		{Type: "list", Items: []string{"one", "two"}},
		{Type: "code", Text: "x := 1"},
	}, nodes)
}

func TestRenderFilePlain(t *testing.T) {
	dir := isolate(t)
	cfg := writeConfigTOML(t, dir, false)
	doc := filepath.Join(dir, "doc.txt")
	require.NoError(t, os.WriteFile(doc, []byte("## Section\n- a\n- b\n"), 0o600))

	out := mustRun(t, "--config", cfg, "render", doc)
	assert.Equal(t, "Section\n-------\n\n- a\n- b\n", out)

	out = mustRun(t, "--config", cfg, "render", "--output", "plain", filepath.Join(dir, "doc.txt"))
	assert.Contains(t, out, "Section")

	empty := filepath.Join(dir, "empty.txt")
	require.NoError(t, os.WriteFile(empty, nil, 0o600))
	assert.Equal(t, api.NoContentPlaceholder+"\n", mustRun(t, "--config", cfg, "render", empty))

	_, err := runCLI(t, "", "--config", cfg, "render", "--output", "bogus", doc)
	assert.ErrorContains(t, err, "invalid --output")
}

func TestPostAddShowDelete(t *testing.T) {
	dir := isolate(t)
	cfg := writeConfigTOML(t, dir, false)
	content := filepath.Join(dir, "post.txt")
	require.NoError(t, os.WriteFile(content, []byte("# Hello\nFirst paragraph.\n"), 0o600))

	out := mustRun(t, "--config", cfg, "post", "add", "hello-world",
		"--author", "Ann", "--date", "2025-03-01", "--category", "notes", "--file", content)
	assert.Equal(t, "hello-world\tHello\n", out)

	_, err := runCLI(t, "", "--config", cfg, "post", "add", "hello-world", "--title", "again")
	assert.ErrorContains(t, err, "conflict")

	_, err = runCLI(t, "", "--config", cfg, "post", "add", "Bad Slug")
	assert.ErrorContains(t, err, "invalid slug")

	_, err = runCLI(t, "", "--config", cfg, "post", "add", "dated", "--date", "March 1")
	assert.ErrorContains(t, err, "invalid --date")

	out = mustRun(t, "--config", cfg, "post", "show", "hello-world", "--output", "json")
	var doc format.PostDocument
	require.NoError(t, json.Unmarshal([]byte(out), &doc), out)
	assert.Equal(t, "Hello", doc.Title)
	assert.Equal(t, "Ann", doc.Author)
	assert.Equal(t, "# Hello\nFirst paragraph.", doc.Content)
	assert.Equal(t, []blocks.Node{
		{Type: "heading", Level: 1, Text: "Hello"},
		{Type: "paragraph", Text: "First paragraph."},
	}, doc.Blocks)

	out = mustRun(t, "--config", cfg, "post", "show", "hello-world", "--output", "html")
	assert.Contains(t, out, "<!DOCTYPE html>")
	assert.Contains(t, out, "March 1, 2025")

	out = mustRun(t, "--config", cfg, "post", "delete", "hello-world")
	assert.Equal(t, "Deleted hello-world\n", out)

	_, err = runCLI(t, "", "--config", cfg, "post", "show", "hello-world")
	assert.ErrorContains(t, err, `post "hello-world" not found`)
}

func TestPostAddFromStdin(t *testing.T) {
	dir := isolate(t)
	cfg := writeConfigTOML(t, dir, false)

	out, err := runCLI(t, "piped body\n", "--config", cfg, "post", "add", "piped", "--title", "Piped", "--file", "-")
	require.NoError(t, err, out)

	out = mustRun(t, "--config", cfg, "post", "show", "piped", "--output", "plain", "--width", "40")
	assert.Contains(t, out, "piped body")
}

func TestPostListFilters(t *testing.T) {
	dir := isolate(t)
	cfg := writeConfigTOML(t, dir, true)

	out := mustRun(t, "--config", cfg, "post", "list", "--output", "json", "--page-size", "2")
	var posts []api.Post
	require.NoError(t, json.Unmarshal([]byte(out), &posts), out)
	require.Len(t, posts, 3)
	assert.Equal(t, "why-i-love-python", posts[0].Slug)
	assert.Equal(t, "fastapi-and-nextjs", posts[2].Slug)

	out = mustRun(t, "--config", cfg, "post", "list", "--output", "json", "--limit", "2", "--page-size", "1")
	posts = nil
	require.NoError(t, json.Unmarshal([]byte(out), &posts), out)
	assert.Len(t, posts, 2)

	out = mustRun(t, "--config", cfg, "post", "list", "--output", "ndjson", "--category", "Python development")
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 1)
	assert.Contains(t, lines[0], `"slug":"why-i-love-python"`)

	out = mustRun(t, "--config", cfg, "post", "list", "--since", "2025-06-01", "--until", "2025-06-30")
	assert.Contains(t, out, "SLUG")
	assert.Contains(t, out, "first-post")
	assert.NotContains(t, out, "why-i-love-python")

	out = mustRun(t, "--config", cfg, "post", "list", "--noheaders")
	assert.NotContains(t, out, "SLUG")

	_, err := runCLI(t, "", "--config", cfg, "post", "list", "--since", "soon")
	assert.Error(t, err)

	_, err = runCLI(t, "", "--config", cfg, "post", "list", "--output", "pretty")
	assert.ErrorContains(t, err, "invalid --output")
}

func TestPostListExcerpts(t *testing.T) {
	dir := isolate(t)
	cfg := writeConfigTOML(t, dir, true)
	f, err := os.OpenFile(cfg, os.O_APPEND|os.O_WRONLY, 0o600)
	require.NoError(t, err)
	_, err = f.WriteString("\n[render]\nexcerpt_length = 20\n")
	require.NoError(t, err)
	require.NoError(t, f.Close())

	out := mustRun(t, "--config", cfg, "post", "list", "--output", "json")
	var rows []struct {
		Slug    string `json:"slug"`
		Excerpt string `json:"excerpt"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &rows), out)
	require.Len(t, rows, 3)
	assert.Equal(t, "This is the content ...", rows[1].Excerpt)

	out = mustRun(t, "--config", cfg, "post", "list", "--output", "ndjson", "--category", "Python development")
	assert.Contains(t, out, `"excerpt":"Python has a simple ..."`)

	out = mustRun(t, "--config", cfg, "post", "list", "--category", "Backend development")
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "EXCERPT")
	assert.True(t, strings.HasSuffix(lines[1], "# A modern stack Pa..."), lines[1])
}

func TestPostSearch(t *testing.T) {
	dir := isolate(t)
	cfg := writeConfigTOML(t, dir, true)

	out := mustRun(t, "--config", cfg, "post", "search", "pythn", "--output", "json")
	var posts []api.Post
	require.NoError(t, json.Unmarshal([]byte(out), &posts), out)
	require.NotEmpty(t, posts)
	assert.Equal(t, "why-i-love-python", posts[0].Slug)

	_, err := runCLI(t, "", "--config", cfg, "post", "search", "zzzzqqq")
	assert.ErrorContains(t, err, "no posts match")
}

func TestPostEditWithScriptedEditor(t *testing.T) {
	dir := isolate(t)
	cfg := writeConfigTOML(t, dir, true)

	script := filepath.Join(dir, "ed.sh")
	require.NoError(t, os.WriteFile(script, []byte(`#!/bin/sh
cat > "$1" <<'EOF'
---
title: Edited
author: Me
date: "2025-03-01"
category: notes
---

# New body
EOF
`), 0o755))
	t.Setenv("VISUAL", script)

	out := mustRun(t, "--config", cfg, "post", "edit", "first-post")
	assert.Equal(t, "first-post\tEdited\tv2\n", out)

	out = mustRun(t, "--config", cfg, "post", "show", "first-post", "--output", "json")
	var doc format.PostDocument
	require.NoError(t, json.Unmarshal([]byte(out), &doc), out)
	assert.Equal(t, "Edited", doc.Title)
	assert.Equal(t, "2025-03-01", doc.Date)
	assert.Equal(t, "# New body", doc.Content)

	t.Run("unchanged", func(t *testing.T) {
		noop := filepath.Join(dir, "noop.sh")
		require.NoError(t, os.WriteFile(noop, []byte("#!/bin/sh\nexit 0\n"), 0o755))
		t.Setenv("VISUAL", noop)
		out := mustRun(t, "--config", cfg, "post", "edit", "first-post")
		assert.Equal(t, "No changes.\n", out)
	})

	t.Run("missing", func(t *testing.T) {
		_, err := runCLI(t, "", "--config", cfg, "post", "edit", "ghost")
		assert.ErrorContains(t, err, "not found")
	})
}

func TestPostDeleteManyNeedsConfirmation(t *testing.T) {
	dir := isolate(t)
	cfg := writeConfigTOML(t, dir, true)

	_, err := runCLI(t, "", "--config", cfg, "post", "delete", "first-post", "why-i-love-python")
	assert.ErrorContains(t, err, "confirmation required")

	out := mustRun(t, "--config", cfg, "post", "delete", "--yes", "first-post", "why-i-love-python")
	assert.Equal(t, "Deleted first-post\nDeleted why-i-love-python\n", out)

	_, err = runCLI(t, "", "--config", cfg, "post", "delete", "first-post")
	assert.ErrorContains(t, err, "not found")
}

func TestPostImportExport(t *testing.T) {
	dir := isolate(t)
	cfg := writeConfigTOML(t, dir, true)
	exportDir := filepath.Join(dir, "export")

	out := mustRun(t, "--config", cfg, "post", "export", "--dir", exportDir)
	assert.Equal(t, "Exported 3 posts to "+exportDir+"\n", out)
	_, err := os.Stat(filepath.Join(exportDir, "first-post.md"))
	require.NoError(t, err)

	cfg2Dir := filepath.Join(dir, "second")
	require.NoError(t, os.MkdirAll(cfg2Dir, 0o700))
	cfg2 := writeConfigTOML(t, cfg2Dir, false)

	out = mustRun(t, "--config", cfg2, "post", "import", filepath.Join(exportDir, "**", "*.md"))
	assert.Contains(t, out, "Created: 3")

	out = mustRun(t, "--config", cfg2, "post", "import", filepath.Join(exportDir, "*.md"))
	assert.Contains(t, out, "Skipped (exists): 3")

	out = mustRun(t, "--config", cfg2, "post", "show", "fastapi-and-nextjs", "--output", "json")
	var doc format.PostDocument
	require.NoError(t, json.Unmarshal([]byte(out), &doc), out)
	assert.Equal(t, "Petr Petrov", doc.Author)
	assert.Equal(t, "2025-05-30", doc.Date)

	_, err = runCLI(t, "", "--config", cfg2, "post", "export")
	assert.ErrorContains(t, err, "--dir is required")
}

func TestConfigGenerateAndCheck(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "gen", "config.toml")

	out := mustRun(t, "config", "generate", "--output", path)
	assert.Equal(t, "Wrote "+path+"\n", out)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "# Folio configuration (TOML)"))

	_, err = runCLI(t, "", "config", "generate", "--output", path)
	assert.ErrorContains(t, err, "config already exists")

	out = mustRun(t, "config", "generate", "--output", path, "--update")
	assert.Contains(t, out, "Config already up to date")

	out = mustRun(t, "config", "generate", "--output", path, "--overwrite")
	assert.Contains(t, out, "Backup: "+path+".bak")

	out = mustRun(t, "--config", path, "config", "check")
	assert.Contains(t, out, "Config OK")

	bad := filepath.Join(dir, "bad.toml")
	require.NoError(t, os.WriteFile(bad, []byte("[render]\nwidth = 0\n[cache]\nbackend = \"disk\"\n"), 0o600))
	_, err = runCLI(t, "", "--config", bad, "config", "check")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "render.width must be greater than 0")
	assert.Contains(t, err.Error(), "cache.backend must be none, memory or redis")
}

func TestCompletionGenerate(t *testing.T) {
	isolate(t)
	out := mustRun(t, "completion", "generate", "bash")
	assert.Contains(t, out, "folio-cli")

	_, err := runCLI(t, "", "completion", "generate", "tcsh")
	assert.Error(t, err)
}

func TestSlugCompletion(t *testing.T) {
	dir := isolate(t)
	cfg := writeConfigTOML(t, dir, false)
	mustRun(t, "--config", cfg, "post", "add", "release-notes", "--title", "Release notes")
	mustRun(t, "--config", cfg, "post", "add", "roadmap", "--title", "Roadmap")

	out := mustRun(t, "__complete", "--config", cfg, "post", "show", "relnot")
	assert.Contains(t, out, "release-notes")
	assert.NotContains(t, out, "roadmap\n")
	assert.NotContains(t, out, "first-post")
}

func TestTokenCommands(t *testing.T) {
	keyring.MockInit()
	isolate(t)

	_, err := runCLI(t, "", "token", "show")
	assert.ErrorContains(t, err, "no token in the keyring")

	out := mustRun(t, "token", "set")
	generated := strings.TrimSpace(out)
	assert.Len(t, generated, 43)
	assert.Equal(t, generated+"\n", mustRun(t, "token", "show"))

	mustRun(t, "token", "set", "chosen")
	assert.Equal(t, "chosen\n", mustRun(t, "token", "show"))

	assert.Equal(t, "Token removed\n", mustRun(t, "token", "delete"))
	_, err = runCLI(t, "", "token", "show")
	assert.Error(t, err)
}

func TestApplyConfigFlagOverrides(t *testing.T) {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.String("db-url", "", "")
	fs.String("log-level", "", "")
	fs.Bool("verbose", false, "")
	fs.Int("width", 0, "")
	fs.StringSlice("origins", nil, "")
	require.NoError(t, fs.Parse([]string{"--db-url", "mem://", "--verbose", "--width", "72", "--origins", "a,b"}))

	v := viper.New()
	v.Set("log.level", "warn")
	applyConfigFlagOverrides(fs, v, map[string]string{
		"db-url":    "db_url",
		"log-level": "log.level",
		"verbose":   "debug",
		"width":     "render.width",
		"origins":   "cors.origins",
	})
	assert.Equal(t, "mem://", v.Get("db_url"))
	assert.Equal(t, "warn", v.Get("log.level"), "unset flags leave the config alone")
	assert.Equal(t, true, v.Get("debug"))
	assert.Equal(t, 72, v.Get("render.width"))
	assert.Equal(t, []string{"a", "b"}, v.Get("cors.origins"))
}

func TestPagerCommand(t *testing.T) {
	t.Setenv("FOLIO_PAGER", "")
	t.Setenv("PAGER", "")
	assert.Equal(t, defaultPager, pagerCommand())

	t.Setenv("PAGER", "more")
	assert.Equal(t, "more", pagerCommand())

	t.Setenv("FOLIO_PAGER", "cat")
	assert.Equal(t, "", pagerCommand())
}

func TestConfigShowMasksToken(t *testing.T) {
	dir := isolate(t)
	cfg := writeConfigTOML(t, dir, false)
	f, err := os.OpenFile(cfg, os.O_APPEND|os.O_WRONLY, 0o600)
	require.NoError(t, err)
	_, err = f.WriteString("\n[auth]\ntoken = \"hunter2\"\n")
	require.NoError(t, err)
	require.NoError(t, f.Close())

	out := mustRun(t, "--config", cfg, "--log-level", "debug", "config", "show")
	assert.NotContains(t, out, "hunter2")
	assert.Contains(t, out, "********")
	assert.Contains(t, out, "level: debug")
	assert.Contains(t, out, "backend: memory")
}
