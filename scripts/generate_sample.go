//go:build ignore

// generate_sample writes a deterministic set of posts as Markdown files
// for `folio-cli post import`.
//
//	go run scripts/generate_sample.go ./sample-posts
package main

import (
	"fmt"
	mrand "math/rand"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mithrel/folio/internal/importer"
	"github.com/mithrel/folio/pkg/api"
)

var categories = []string{
	"Web development",
	"Backend development",
	"Python development",
	"Tooling",
	"Notes",
}

var words = strings.Fields("go python rust cache render block list quote code " +
	"server client request stream index query page cursor slug draft")

func main() {
	if len(os.Args) != 2 {
		fmt.Fprintln(os.Stderr, "usage: generate_sample <dir>")
		os.Exit(2)
	}
	dir := os.Args[1]
	if err := os.MkdirAll(dir, 0o755); err != nil {
		panic(err)
	}

	// Deterministic seed for reproducible output
	mr := mrand.New(mrand.NewSource(42))

	const total = 500
	base := time.Date(2025, 7, 30, 0, 0, 0, 0, time.UTC)

	for i := 0; i < total; i++ {
		title := fmt.Sprintf("Sample post %03d about %s", i+1, pick(mr, 2))
		p := api.Post{
			Slug:     api.Slugify(title),
			Title:    title,
			Author:   fmt.Sprintf("Author %d", 1+mr.Intn(8)),
			Date:     base.AddDate(0, 0, -(i + mr.Intn(3))).Format(api.DateLayout),
			Category: categories[mr.Intn(len(categories))],
			Content:  body(mr, i+1),
		}
		data, err := importer.Format(p)
		if err != nil {
			panic(err)
		}
		if err := os.WriteFile(filepath.Join(dir, p.Slug+".md"), data, 0o644); err != nil {
			panic(err)
		}
	}
	fmt.Printf("wrote %d posts to %s\n", total, dir)
}

// body mixes every block kind so rendering paths get exercised.
func body(r *mrand.Rand, n int) string {
	var lines []string
	lines = append(lines, fmt.Sprintf("# Sample %03d", n), "", pick(r, 12))
	if r.Float64() < 0.5 {
		lines = append(lines, "", "> "+pick(r, 6))
	}
	lines = append(lines, "", "## Points")
	for k := 0; k < 1+r.Intn(4); k++ {
		if r.Float64() < 0.5 {
			lines = append(lines, "- "+pick(r, 3))
		} else {
			lines = append(lines, fmt.Sprintf("%d. %s", k+1, pick(r, 3)))
		}
	}
	if r.Float64() < 0.3 {
		lines = append(lines, "", "```fmt.Println(\"sample\")")
	}
	return strings.Join(lines, "\n")
}

func pick(r *mrand.Rand, k int) string {
	out := make([]string, k)
	for i := range out {
		out[i] = words[r.Intn(len(words))]
	}
	return strings.Join(out, " ")
}
