package importer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/mithrel/folio/internal/db"
	"github.com/mithrel/folio/pkg/api"
)

// Expand resolves doublestar patterns such as posts/**/*.md into a sorted,
// de-duplicated file list. A pattern without magic is taken literally.
func Expand(patterns []string) ([]string, error) {
	seen := map[string]bool{}
	var out []string
	for _, pat := range patterns {
		if !doublestar.ValidatePattern(filepath.ToSlash(pat)) {
			return nil, fmt.Errorf("invalid pattern %q", pat)
		}
		matches, err := doublestar.FilepathGlob(pat, doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("expand %q: %w", pat, err)
		}
		if len(matches) == 0 {
			return nil, fmt.Errorf("no files match %q", pat)
		}
		for _, m := range matches {
			if !seen[m] {
				seen[m] = true
				out = append(out, m)
			}
		}
	}
	sort.Strings(out)
	return out, nil
}

// Options controls Import.
type Options struct {
	// Overwrite replaces posts whose slug already exists.
	Overwrite bool
	Log       *slog.Logger
}

// Result counts what Import did. Failed holds one error per rejected file.
type Result struct {
	Created int
	Updated int
	Skipped int
	Failed  []error
}

// Import reads each file and stores it as a post. A missing slug is derived
// from the file name. Per-file problems are collected in Result.Failed and
// do not stop the import.
func Import(ctx context.Context, store db.Store, files []string, opts Options) (Result, error) {
	var res Result
	for _, path := range files {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		p, err := readPost(path)
		if err != nil {
			res.Failed = append(res.Failed, fmt.Errorf("%s: %w", path, err))
			continue
		}
		_, err = store.CreatePost(ctx, p)
		switch {
		case err == nil:
			res.Created++
		case errors.Is(err, db.ErrConflict) && opts.Overwrite:
			cur, gerr := store.GetPost(ctx, p.Slug)
			if gerr == nil {
				_, gerr = store.UpdatePostCAS(ctx, p, cur.Version)
			}
			if gerr != nil {
				res.Failed = append(res.Failed, fmt.Errorf("%s: %w", path, gerr))
				continue
			}
			res.Updated++
		case errors.Is(err, db.ErrConflict):
			res.Skipped++
		default:
			return res, fmt.Errorf("%s: %w", path, err)
		}
		if opts.Log != nil {
			opts.Log.Debug("imported post", "slug", p.Slug, "file", path)
		}
	}
	return res, nil
}

func readPost(path string) (api.Post, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return api.Post{}, err
	}
	p, err := Parse(data)
	if err != nil {
		return api.Post{}, err
	}
	if p.Slug == "" {
		p.Slug = api.Slugify(strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)))
	}
	if !api.ValidSlug(p.Slug) {
		return api.Post{}, fmt.Errorf("invalid slug %q", p.Slug)
	}
	return p, nil
}

// Export writes every post matching q to dir as <slug>.md and returns the
// number of files written.
func Export(ctx context.Context, store db.Store, dir string, q api.ListQuery) (int, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return 0, err
	}
	n := 0
	for {
		posts, page, err := store.ListPosts(ctx, q)
		if err != nil {
			return n, err
		}
		for _, p := range posts {
			data, err := Format(p)
			if err != nil {
				return n, err
			}
			if err := os.WriteFile(filepath.Join(dir, p.Slug+".md"), data, 0o644); err != nil {
				return n, err
			}
			n++
		}
		if page.Next == "" {
			return n, nil
		}
		q.Cursor = page.Next
	}
}
