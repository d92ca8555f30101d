package server

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"os"

	"github.com/caddyserver/certmagic"
)

// CertMagicConfig configures automatic certificate management with CertMagic.
type CertMagicConfig struct {
	Domain     string
	Email      string
	StorageDir string
	CA         string // optional; defaults to Let's Encrypt prod
}

// BuildCertMagicTLS provisions or loads the certificate for cfg.Domain and
// returns a TLS config that keeps it renewed. Only the TLS-ALPN challenge is
// used, so the listener itself must be reachable on :443.
func BuildCertMagicTLS(ctx context.Context, cfg CertMagicConfig) (*tls.Config, error) {
	if cfg.Domain == "" {
		return nil, errors.New("domain is required")
	}
	if cfg.StorageDir == "" {
		return nil, errors.New("certificate storage dir is required")
	}
	if err := os.MkdirAll(cfg.StorageDir, 0o700); err != nil {
		return nil, fmt.Errorf("cert storage: %w", err)
	}

	cm := certmagic.NewDefault()
	cm.Storage = &certmagic.FileStorage{Path: cfg.StorageDir}
	issuer := certmagic.NewACMEIssuer(cm, certmagic.ACMEIssuer{
		CA:                   ifEmpty(cfg.CA, certmagic.LetsEncryptProductionCA),
		Email:                cfg.Email,
		Agreed:               true,
		DisableHTTPChallenge: true,
	})
	cm.Issuers = []certmagic.Issuer{issuer}

	if err := cm.ManageSync(ctx, []string{cfg.Domain}); err != nil {
		return nil, err
	}

	tlsConf := cm.TLSConfig()
	tlsConf.NextProtos = appendProto(tlsConf.NextProtos, "h2", "http/1.1")
	tlsConf.MinVersion = tls.VersionTLS12
	return tlsConf, nil
}

func appendProto(protos []string, want ...string) []string {
	for _, w := range want {
		has := false
		for _, p := range protos {
			if p == w {
				has = true
				break
			}
		}
		if !has {
			protos = append(protos, w)
		}
	}
	return protos
}

func ifEmpty(s, d string) string {
	if s == "" {
		return d
	}
	return s
}
