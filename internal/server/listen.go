package server

import (
	"context"
	"crypto/tls"
	"errors"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/quic-go/quic-go/http3"

	"github.com/mithrel/folio/internal/config"
)

const shutdownTimeout = 5 * time.Second

// ListenAndServe serves on http_addr until ctx is cancelled. With
// tls.domain set the listener speaks TLS using certificates from
// CertMagic, and tls.http3 adds an HTTP/3 listener on the same port.
func (s *Server) ListenAndServe(ctx context.Context) error {
	addr := s.cfg.GetString("http_addr")
	var tlsConf *tls.Config
	if domain := strings.TrimSpace(s.cfg.GetString("tls.domain")); domain != "" {
		var err error
		tlsConf, err = BuildCertMagicTLS(ctx, CertMagicConfig{
			Domain:     domain,
			Email:      s.cfg.GetString("tls.email"),
			StorageDir: config.ResolveTLSStorage(s.cfg),
		})
		if err != nil {
			return err
		}
	}
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return s.serve(ctx, ln, tlsConf)
}

// Serve serves plain HTTP on ln until ctx is cancelled.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	return s.serve(ctx, ln, nil)
}

func (s *Server) serve(ctx context.Context, ln net.Listener, tlsConf *tls.Config) error {
	handler := s.Router()
	var h3 *http3.Server
	if tlsConf != nil && s.cfg.GetBool("tls.http3") {
		h3 = &http3.Server{
			Addr:      ln.Addr().String(),
			Handler:   handler,
			TLSConfig: http3.ConfigureTLSConfig(tlsConf),
		}
		handler = advertiseHTTP3(h3, handler)
	}

	srv := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		TLSConfig:         tlsConf,
	}
	if tlsConf != nil {
		ln = tls.NewListener(ln, tlsConf)
	}

	errc := make(chan error, 2)
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
	}()
	if h3 != nil {
		go func() {
			if err := h3.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errc <- err
			}
		}()
	}
	s.log.Info("serving", "addr", ln.Addr().String(), "tls", tlsConf != nil, "http3", h3 != nil)

	var serveErr error
	select {
	case <-ctx.Done():
	case serveErr = <-errc:
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if h3 != nil {
		_ = h3.Close()
	}
	if err := srv.Shutdown(shutdownCtx); err != nil && serveErr == nil {
		serveErr = err
	}
	return serveErr
}

// advertiseHTTP3 sets Alt-Svc so clients can upgrade to the QUIC listener.
func advertiseHTTP3(h3 *http3.Server, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = h3.SetQUICHeaders(w.Header())
		next.ServeHTTP(w, r)
	})
}
