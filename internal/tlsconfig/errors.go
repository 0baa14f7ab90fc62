package tlsconfig

import (
	"errors"
	"fmt"
	"io/fs"
)

// Artifact kinds reported by MissingFileError.
const (
	KindCertificate = "certificate"
	KindKey         = "private key"
	KindCABundle    = "CA bundle"
)

var (
	// ErrKeyPasswordRequired is returned for an encrypted key with no
	// password configured.
	ErrKeyPasswordRequired = errors.New("tlsconfig: private key is encrypted but SSL_KEY_PASSWORD is empty")

	// ErrNoPrivateKey is returned when the key file holds no PEM private key.
	ErrNoPrivateKey = errors.New("tlsconfig: no PEM private key found")

	// ErrEmptyCABundle is returned when the CA bundle holds no certificates.
	ErrEmptyCABundle = errors.New("tlsconfig: CA bundle contains no certificates")
)

// MissingFileError names a configured TLS artifact that does not exist.
// errors.Is(err, fs.ErrNotExist) holds.
type MissingFileError struct {
	Kind string
	Path string
}

func (e *MissingFileError) Error() string {
	return fmt.Sprintf("tlsconfig: %s file not found: %s", e.Kind, e.Path)
}

func (e *MissingFileError) Unwrap() error { return fs.ErrNotExist }
