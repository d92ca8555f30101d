package server

import (
	"bytes"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/viper"

	"github.com/mithrel/folio/internal/cache"
	"github.com/mithrel/folio/internal/db"
	"github.com/mithrel/folio/internal/logging"
	"github.com/mithrel/folio/internal/metrics"
	"github.com/mithrel/folio/internal/present/format"
	"github.com/mithrel/folio/internal/util"
	"github.com/mithrel/folio/pkg/api"
	"github.com/mithrel/folio/pkg/blocks"
)

const (
	contentTypeJSON     = "application/json"
	contentTypeProtobuf = "application/x-protobuf"

	// NextCursorHeader carries the cursor of the next page of a listing.
	NextCursorHeader = "X-Next-Cursor"

	maxBodyBytes  = 1 << 20
	indexPageSize = 20
)

// Server serves the blog API backed by a Store.
type Server struct {
	cfg      *viper.Viper
	store    db.Store
	renderer *cache.Renderer
	metrics  *metrics.Metrics
	log      *slog.Logger
}

// New returns a Server. A nil renderer renders without a cache, a nil
// logger discards, and nil metrics get a private registry.
func New(cfg *viper.Viper, store db.Store, r *cache.Renderer, m *metrics.Metrics, log *slog.Logger) *Server {
	if log == nil {
		log = logging.NewNop()
	}
	if m == nil {
		m = metrics.New()
	}
	if r == nil {
		r = cache.NewRenderer(nil, log, m)
	}
	return &Server{cfg: cfg, store: store, renderer: r, metrics: m, log: log}
}

// Router returns an http.Handler with registered routes.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.instrument)
	r.Use(s.cors)

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"message": "Blog API is running"})
	})
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})
	r.Method(http.MethodGet, "/metrics", s.metrics.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Post("/render", s.handleRender)
		r.Route("/posts", func(r chi.Router) {
			r.Get("/", s.handleListPosts)
			r.With(s.auth).Post("/", s.handleCreatePost)
			r.Route("/{slug}", func(r chi.Router) {
				r.Get("/", s.handleGetPost)
				r.Get("/blocks", s.handleGetBlocks)
				r.With(s.auth).Put("/", s.handleUpdatePost)
				r.With(s.auth).Delete("/", s.handleDeletePost)
			})
		})
	})
	r.Get("/posts", s.handleIndexPage)
	r.Get("/posts/{slug}", s.handlePostPage)
	return r
}

// auth guards write routes with the configured bearer token. An empty
// token rejects every write.
func (s *Server) auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tok := strings.TrimSpace(s.cfg.GetString("auth.token"))
		got := r.Header.Get("Authorization")
		if tok == "" || !strings.HasPrefix(got, "Bearer ") ||
			subtle.ConstantTimeCompare([]byte(strings.TrimSpace(strings.TrimPrefix(got, "Bearer "))), []byte(tok)) != 1 {
			writeDetail(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin != "" && s.originAllowed(origin) {
			h := w.Header()
			h.Set("Access-Control-Allow-Origin", origin)
			h.Add("Vary", "Origin")
			h.Set("Access-Control-Allow-Credentials", "true")
			h.Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
			h.Set("Access-Control-Allow-Headers", "Authorization, Content-Type, If-None-Match")
			h.Set("Access-Control-Expose-Headers", "ETag, "+NextCursorHeader)
		}
		if r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != "" {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) originAllowed(origin string) bool {
	for _, o := range s.cfg.GetStringSlice("cors.origins") {
		if o == "*" || strings.EqualFold(strings.TrimRight(o, "/"), origin) {
			return true
		}
	}
	return false
}

// instrument logs one line per request and counts it by route pattern.
func (s *Server) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		s.metrics.HTTPRequests.WithLabelValues(route, strconv.Itoa(status)).Inc()
		s.log.Info("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"route", route,
			"status", status,
			"bytes", ww.BytesWritten(),
			"dur", time.Since(start),
		)
	})
}

func (s *Server) handleListPosts(w http.ResponseWriter, r *http.Request) {
	qv := r.URL.Query()
	q := api.ListQuery{
		Category: qv.Get("category"),
		Cursor:   qv.Get("cursor"),
	}
	if l := qv.Get("limit"); l != "" {
		n, err := strconv.Atoi(l)
		if err != nil || n < 0 {
			writeDetail(w, http.StatusBadRequest, "limit must be a non-negative integer")
			return
		}
		q.Limit = n
	}
	since, until, err := util.NormalizeDateRange(qv.Get("since"), qv.Get("until"))
	if err != nil {
		writeDetail(w, http.StatusBadRequest, err.Error())
		return
	}
	q.Since, q.Until = since, until

	posts, page, err := s.store.ListPosts(r.Context(), q)
	if err != nil {
		s.storeError(w, r, err)
		return
	}
	out := make([]api.PostSummary, 0, len(posts))
	for _, p := range posts {
		out = append(out, p.Summary())
	}
	if page.Next != "" {
		w.Header().Set(NextCursorHeader, page.Next)
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleGetPost(w http.ResponseWriter, r *http.Request) {
	p, err := s.store.GetPost(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		s.storeError(w, r, err)
		return
	}
	w.Header().Set("ETag", etag(p.Hash()))
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleGetBlocks(w http.ResponseWriter, r *http.Request) {
	p, err := s.store.GetPost(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		s.storeError(w, r, err)
		return
	}
	tag := etag(api.ContentHash(p.Content))
	w.Header().Set("ETag", tag)
	w.Header().Add("Vary", "Accept")
	if etagMatches(r.Header.Get("If-None-Match"), tag) {
		w.WriteHeader(http.StatusNotModified)
		return
	}
	s.writeBlocks(w, r, s.renderer.Render(r.Context(), "http", p.Content))
}

// handleRender renders a raw document posted as the request body.
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &tooLarge):
		writeDetail(w, http.StatusRequestEntityTooLarge, "document too large")
		return
	case err != nil:
		s.log.Warn("read render body", "error", err)
		writeDetail(w, http.StatusBadRequest, "could not read request body")
		return
	}
	s.writeBlocks(w, r, s.renderer.Render(r.Context(), "api", string(body)))
}

func (s *Server) writeBlocks(w http.ResponseWriter, r *http.Request, bs []blocks.Block) {
	if strings.Contains(r.Header.Get("Accept"), contentTypeProtobuf) {
		b, err := blocks.EncodeProto(bs)
		if err != nil {
			s.log.Error("encode blocks", "error", err)
			writeDetail(w, http.StatusInternalServerError, "encode failed")
			return
		}
		w.Header().Set("Content-Type", contentTypeProtobuf)
		_, _ = w.Write(b)
		return
	}
	writeJSON(w, http.StatusOK, blocks.Encode(bs))
}

// handleIndexPage lists posts newest first as HTML, one page at a time.
func (s *Server) handleIndexPage(w http.ResponseWriter, r *http.Request) {
	q := api.ListQuery{
		Category: r.URL.Query().Get("category"),
		Cursor:   r.URL.Query().Get("cursor"),
		Limit:    indexPageSize,
	}
	posts, page, err := s.store.ListPosts(r.Context(), q)
	if err != nil {
		s.log.Error("list posts", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	title := "All posts"
	if q.Category != "" {
		title = q.Category
	}
	excerpt := s.cfg.GetInt("render.excerpt_length")
	if excerpt <= 0 {
		excerpt = api.DefaultExcerptLength
	}
	var buf bytes.Buffer
	err = format.WriteHTMLIndex(&buf, format.IndexPage{
		Title: title,
		Rows:  format.NewPostRows(posts, excerpt),
		Next:  page.Next,
	})
	if err != nil {
		s.log.Error("render index", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}

func (s *Server) handlePostPage(w http.ResponseWriter, r *http.Request) {
	p, err := s.store.GetPost(r.Context(), chi.URLParam(r, "slug"))
	if errors.Is(err, db.ErrNotFound) {
		http.Error(w, "Post not found", http.StatusNotFound)
		return
	}
	if err != nil {
		s.log.Error("load post", "slug", chi.URLParam(r, "slug"), "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	var buf bytes.Buffer
	if err := format.WriteHTMLPage(&buf, p, s.renderer.Render(r.Context(), "page", p.Content)); err != nil {
		s.log.Error("render page", "slug", p.Slug, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}

func (s *Server) handleCreatePost(w http.ResponseWriter, r *http.Request) {
	var p api.Post
	if !decodePost(w, r, &p) {
		return
	}
	if !api.ValidSlug(p.Slug) {
		writeDetail(w, http.StatusBadRequest, "invalid slug")
		return
	}
	created, err := s.store.CreatePost(r.Context(), p)
	if err != nil {
		s.storeError(w, r, err)
		return
	}
	w.Header().Set("Location", "/api/posts/"+created.Slug)
	writeJSON(w, http.StatusCreated, created)
}

// handleUpdatePost replaces a post. The body's version is the expected
// stored version; zero means "whatever is stored now".
func (s *Server) handleUpdatePost(w http.ResponseWriter, r *http.Request) {
	var p api.Post
	if !decodePost(w, r, &p) {
		return
	}
	p.Slug = chi.URLParam(r, "slug")
	ifVersion := p.Version
	if ifVersion == 0 {
		cur, err := s.store.GetPost(r.Context(), p.Slug)
		if err != nil {
			s.storeError(w, r, err)
			return
		}
		ifVersion = cur.Version
	}
	updated, err := s.store.UpdatePostCAS(r.Context(), p, ifVersion)
	if err != nil {
		s.storeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeletePost(w http.ResponseWriter, r *http.Request) {
	if err := s.store.DeletePost(r.Context(), chi.URLParam(r, "slug")); err != nil {
		s.storeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func decodePost(w http.ResponseWriter, r *http.Request, p *api.Post) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(p); err != nil {
		writeDetail(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

func (s *Server) storeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, db.ErrNotFound):
		writeDetail(w, http.StatusNotFound, "Post not found")
	case errors.Is(err, db.ErrConflict):
		writeDetail(w, http.StatusConflict, "Post conflict")
	default:
		s.log.Error("store", "path", r.URL.Path, "error", err)
		writeDetail(w, http.StatusInternalServerError, "internal error")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", contentTypeJSON)
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}

func etag(hash string) string { return `"` + hash + `"` }

// etagMatches reports whether an If-None-Match header names tag.
func etagMatches(header, tag string) bool {
	for _, part := range strings.Split(header, ",") {
		part = strings.TrimPrefix(strings.TrimSpace(part), "W/")
		if part == "*" || part == tag {
			return true
		}
	}
	return false
}
