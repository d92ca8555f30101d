package format

import (
	"bytes"
	"html/template"
	"io"

	"github.com/mithrel/folio/pkg/api"
	"github.com/mithrel/folio/pkg/blocks"
)

const fragmentTemplate = `{{- define "blocks" -}}
{{- if isEmpty . -}}
<p class="text-gray-700 mb-4 leading-relaxed">{{ placeholder }}</p>
{{- else -}}
{{- range . -}}
{{- with heading . -}}
{{- if eq .Level 1 }}<h1 class="text-3xl font-bold text-gray-900 mb-4">{{ .Text }}</h1>
{{ else if eq .Level 2 }}<h2 class="text-2xl font-bold text-gray-800 mb-3 mt-6">{{ .Text }}</h2>
{{ else }}<h3 class="text-xl font-semibold text-gray-800 mb-2 mt-4">{{ .Text }}</h3>
{{ end -}}
{{- end -}}
{{- with quote . }}<blockquote class="border-l-4 border-blue-500 pl-4 italic text-gray-600 mb-4">{{ .Text }}</blockquote>
{{ end -}}
{{- with code . }}<div class="bg-gray-100 p-4 rounded-lg overflow-x-auto mb-4"><code class="text-sm text-gray-800">{{ .Text }}</code></div>
{{ end -}}
{{- with list . }}<ul class="list-disc list-inside mb-4 space-y-1">
{{- range .Items }}<li class="text-gray-700">{{ . }}</li>{{ end -}}
</ul>
{{ end -}}
{{- with paragraph . }}<p class="text-gray-700 mb-4 leading-relaxed">{{ .Text }}</p>
{{ end -}}
{{- end -}}
{{- end -}}
{{- end -}}`

const pageTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{ .Post.DisplayTitle }}</title>
<script src="https://cdn.tailwindcss.com"></script>
</head>
<body class="min-h-screen bg-gray-50">
<article class="max-w-4xl mx-auto p-8">
<a href="/posts" class="text-blue-500 hover:underline mb-8 block">&larr; Back to all posts</a>
<header class="mb-8">
<h1 class="text-4xl font-extrabold text-gray-900 mb-4">{{ .Post.DisplayTitle }}</h1>
<div class="flex items-center gap-6 text-sm text-gray-600 mb-4">
<span class="flex items-center gap-2"><span class="w-3 h-3 bg-blue-500 rounded-full"></span>{{ .Post.DisplayAuthor }}</span>
<span class="flex items-center gap-2"><span class="w-3 h-3 bg-green-500 rounded-full"></span>{{ .Post.DisplayDate }}</span>
<span class="px-3 py-1 bg-blue-100 text-blue-800 rounded-full text-xs font-medium">{{ .Post.DisplayCategory }}</span>
</div>
</header>
<div class="bg-white rounded-lg shadow-sm border border-gray-200 p-8">
<div class="prose prose-lg max-w-none">
{{ template "blocks" .Blocks }}</div>
</div>
</article>
</body>
</html>
`

const indexTemplate = `{{- define "index" -}}
<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{ .Title }}</title>
<script src="https://cdn.tailwindcss.com"></script>
</head>
<body class="min-h-screen bg-gray-50">
<main class="max-w-4xl mx-auto p-8">
<h1 class="text-4xl font-extrabold text-gray-900 mb-8">{{ .Title }}</h1>
{{- if not .Rows }}
<p class="text-gray-600">No posts yet.</p>
{{- end }}
{{- range .Rows }}
<article class="bg-white rounded-lg shadow-sm border border-gray-200 p-6 mb-6">
<h2 class="text-2xl font-bold text-gray-800 mb-2"><a href="/posts/{{ .Slug }}" class="hover:text-blue-600">{{ .DisplayTitle }}</a></h2>
<div class="flex items-center gap-4 text-sm text-gray-600 mb-3">
<span class="author">{{ .DisplayAuthor }}</span>
<span class="date">{{ .DisplayDate }}</span>
<span class="category px-3 py-1 bg-blue-100 text-blue-800 rounded-full text-xs font-medium">{{ .DisplayCategory }}</span>
</div>
<p class="excerpt text-gray-700 leading-relaxed">{{ .Excerpt }}</p>
</article>
{{- end }}
{{- with .Next }}
<a href="?cursor={{ . }}" rel="next" class="text-blue-500 hover:underline">Older posts &rarr;</a>
{{- end }}
</main>
</body>
</html>
{{ end -}}`

var htmlTemplates = template.Must(template.New("page").Funcs(template.FuncMap{
	"isEmpty":     blocks.IsEmpty,
	"placeholder": func() string { return api.NoContentPlaceholder },
	"heading":     as[blocks.Heading],
	"quote":       as[blocks.Blockquote],
	"code":        as[blocks.CodeLine],
	"list":        as[blocks.List],
	"paragraph":   as[blocks.Paragraph],
}).Parse(pageTemplate + fragmentTemplate + indexTemplate))

// as returns a pointer to blk when it is a T, for use with template "with".
func as[T blocks.Block](blk blocks.Block) *T {
	if x, ok := blk.(T); ok {
		return &x
	}
	return nil
}

// WriteHTMLBlocks writes a semantic HTML fragment for bs.
func WriteHTMLBlocks(w io.Writer, bs []blocks.Block) error {
	return htmlTemplates.ExecuteTemplate(w, "blocks", bs)
}

// HTMLBlocks is the string form of WriteHTMLBlocks.
func HTMLBlocks(bs []blocks.Block) (string, error) {
	var buf bytes.Buffer
	err := WriteHTMLBlocks(&buf, bs)
	return buf.String(), err
}

// WriteHTMLPage writes a standalone page for a post.
func WriteHTMLPage(w io.Writer, p api.Post, bs []blocks.Block) error {
	return htmlTemplates.ExecuteTemplate(w, "page", struct {
		Post   api.Post
		Blocks []blocks.Block
	}{p, bs})
}

// IndexPage is the data behind WriteHTMLIndex. Next is the cursor of the
// following page, empty on the last one.
type IndexPage struct {
	Title string
	Rows  []PostRow
	Next  string
}

// WriteHTMLIndex writes a listing page linking every row to its post page.
func WriteHTMLIndex(w io.Writer, page IndexPage) error {
	if page.Title == "" {
		page.Title = "All posts"
	}
	return htmlTemplates.ExecuteTemplate(w, "index", page)
}
