// Package importer moves posts between the store and Markdown files with a
// YAML front matter header.
package importer

import (
	"bytes"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"

	"github.com/mithrel/folio/pkg/api"
)

var ErrNoFrontMatter = errors.New("missing front matter")

const fence = "---"

// FrontMatter is the metadata header of a post file.
type FrontMatter struct {
	Slug     string `yaml:"slug,omitempty" mapstructure:"slug"`
	Title    string `yaml:"title" mapstructure:"title"`
	Author   string `yaml:"author,omitempty" mapstructure:"author"`
	Date     string `yaml:"date,omitempty" mapstructure:"date"`
	Category string `yaml:"category,omitempty" mapstructure:"category"`
}

// Parse splits a post file into its front matter and content. Values are
// decoded weakly, so `date: 2024-01-15` and `title: 2024` both work.
func Parse(data []byte) (api.Post, error) {
	s := strings.ReplaceAll(string(data), "\r\n", "\n")
	if !strings.HasPrefix(s, fence+"\n") {
		return api.Post{}, ErrNoFrontMatter
	}
	rest := s[len(fence)+1:]
	var header, body string
	switch {
	case strings.HasPrefix(rest, fence+"\n"):
		header, body = "", rest[len(fence)+1:]
	case rest == fence:
		header, body = "", ""
	default:
		end := strings.Index(rest, "\n"+fence+"\n")
		if end < 0 {
			if !strings.HasSuffix(rest, "\n"+fence) {
				return api.Post{}, fmt.Errorf("%w: unterminated header", ErrNoFrontMatter)
			}
			end = len(rest) - len(fence) - 1
			header, body = rest[:end], ""
		} else {
			header, body = rest[:end], rest[end+len(fence)+2:]
		}
	}

	raw := map[string]any{}
	if err := yaml.Unmarshal([]byte(header), &raw); err != nil {
		return api.Post{}, fmt.Errorf("parse front matter: %w", err)
	}
	var fm FrontMatter
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       timeToDate,
		WeaklyTypedInput: true,
		Result:           &fm,
	})
	if err != nil {
		return api.Post{}, err
	}
	if err := dec.Decode(raw); err != nil {
		return api.Post{}, fmt.Errorf("decode front matter: %w", err)
	}

	body = strings.TrimPrefix(body, "\n")
	body = strings.TrimSuffix(body, "\n")
	return api.Post{
		Slug:     fm.Slug,
		Title:    fm.Title,
		Author:   fm.Author,
		Date:     fm.Date,
		Category: fm.Category,
		Content:  body,
	}, nil
}

// timeToDate turns YAML timestamps into YYYY-MM-DD strings.
func timeToDate(from, to reflect.Type, data any) (any, error) {
	if t, ok := data.(time.Time); ok && to.Kind() == reflect.String {
		return t.Format(api.DateLayout), nil
	}
	return data, nil
}

// Format writes p in the format Parse reads.
func Format(p api.Post) ([]byte, error) {
	header, err := yaml.Marshal(FrontMatter{
		Slug:     p.Slug,
		Title:    p.Title,
		Author:   p.Author,
		Date:     p.Date,
		Category: p.Category,
	})
	if err != nil {
		return nil, fmt.Errorf("encode front matter: %w", err)
	}
	var b bytes.Buffer
	b.WriteString(fence + "\n")
	b.Write(header)
	b.WriteString(fence + "\n\n")
	b.WriteString(p.Content)
	b.WriteString("\n")
	return b.Bytes(), nil
}
