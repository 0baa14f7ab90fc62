// internal/tlsconfig/builder.go
//
// Server-side TLS context construction.
//
// Context
// -------
// `Build` turns the SSL_* settings into a *tls.Config for the self-hosted
// run path:
//
//   - Cert and key are required together.  If either is empty the result
//     is (nil, nil) and the caller decides whether plaintext is allowed.
//   - Every configured file is checked before anything is parsed, so a
//     typo surfaces as a *MissingFileError naming the path.
//   - The key may be encrypted; see keys.go.
//   - An optional CA bundle enables client-certificate verification when
//     a client presents one.
//
// Notes
// -----
//   - The minimum protocol version is TLS 1.2.
//   - A leading "~/" in any path is expanded to the user's home dir.
//   - Oxford commas, two spaces after periods.

package tlsconfig

import (
	"bytes"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Options names the TLS artifacts on disk.
type Options struct {
	CertPath    string
	KeyPath     string
	KeyPassword string
	CABundle    string
}

// Loaded reports which artifacts went into a context.
type Loaded struct {
	CertPath  string
	KeyPath   string
	CABundle  string
	Encrypted bool
}

// Build returns a server *tls.Config, or (nil, nil) when cert or key is
// not configured.
func Build(opts Options) (*tls.Config, error) {
	cfg, _, err := BuildWithReport(opts)
	return cfg, err
}

// BuildWithReport is Build plus a summary of what was loaded.
func BuildWithReport(opts Options) (*tls.Config, *Loaded, error) {
	if opts.CertPath == "" || opts.KeyPath == "" {
		return nil, nil, nil
	}

	certPath, err := expandHome(opts.CertPath)
	if err != nil {
		return nil, nil, err
	}
	keyPath, err := expandHome(opts.KeyPath)
	if err != nil {
		return nil, nil, err
	}
	caPath, err := expandHome(opts.CABundle)
	if err != nil {
		return nil, nil, err
	}

	if err := mustExist(KindCertificate, certPath); err != nil {
		return nil, nil, err
	}
	if err := mustExist(KindKey, keyPath); err != nil {
		return nil, nil, err
	}
	if caPath != "" {
		if err := mustExist(KindCABundle, caPath); err != nil {
			return nil, nil, err
		}
	}

	certPEM, err := os.ReadFile(certPath)
	if err != nil {
		return nil, nil, fmt.Errorf("tlsconfig: read certificate: %w", err)
	}
	keyPEM, err := os.ReadFile(keyPath)
	if err != nil {
		return nil, nil, fmt.Errorf("tlsconfig: read private key: %w", err)
	}

	plainKey, err := decryptKey(keyPEM, opts.KeyPassword)
	if err != nil {
		return nil, nil, err
	}

	pair, err := tls.X509KeyPair(certPEM, plainKey)
	if err != nil {
		return nil, nil, fmt.Errorf("tlsconfig: load key pair: %w", err)
	}

	cfg := &tls.Config{
		MinVersion:   tls.VersionTLS12,
		Certificates: []tls.Certificate{pair},
	}
	loaded := &Loaded{
		CertPath:  certPath,
		KeyPath:   keyPath,
		Encrypted: !bytes.Equal(plainKey, keyPEM),
	}

	if caPath != "" {
		caPEM, err := os.ReadFile(caPath)
		if err != nil {
			return nil, nil, fmt.Errorf("tlsconfig: read CA bundle: %w", err)
		}
		pool := x509.NewCertPool()
		if !pool.AppendCertsFromPEM(caPEM) {
			return nil, nil, fmt.Errorf("%w: %s", ErrEmptyCABundle, caPath)
		}
		cfg.ClientCAs = pool
		cfg.ClientAuth = tls.VerifyClientCertIfGiven
		loaded.CABundle = caPath
	}

	return cfg, loaded, nil
}

func mustExist(kind, path string) error {
	_, err := os.Stat(path)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, fs.ErrNotExist):
		return &MissingFileError{Kind: kind, Path: path}
	default:
		return fmt.Errorf("tlsconfig: stat %s %s: %w", kind, path, err)
	}
}

func expandHome(p string) (string, error) {
	if p != "~" && !strings.HasPrefix(p, "~/") {
		return p, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("tlsconfig: expand %s: %w", p, err)
	}
	return filepath.Join(home, strings.TrimPrefix(p, "~")), nil
}
