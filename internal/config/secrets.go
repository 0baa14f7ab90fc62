// internal/config/secrets.go
//
// Vault reference resolution.
//
// Context
// -------
// Secret-bearing keys may hold a reference instead of the secret itself:
//
//	SECRET_KEY=vault:secret/complaintdesk#session_key
//
// The part before `#` is a KV-v2 path (mount first), the part after is
// the key inside that secret.  References are resolved once, before
// validation, through a SecretResolver supplied by the caller.  The
// loader never talks to Vault directly, which keeps this package free of
// network dependencies in tests.

package config

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

const secretPrefix = "vault:"

// SecretTTL is how long a resolved value stays in the resolver's cache.
// Several keys may point at the same reference.
const SecretTTL = 5 * time.Minute

// ErrSecretRef marks a malformed or unresolvable vault reference.
var ErrSecretRef = errors.New("invalid secret reference")

// SecretResolver fetches one key from a KV-v2 secret.  *vault.Client and
// *vault.Lazy satisfy it.
type SecretResolver interface {
	GetKV(ctx context.Context, secretPath, key string, ttl time.Duration) (string, error)
}

// IsSecretRef reports whether v uses the vault: prefix.
func IsSecretRef(v string) bool { return strings.HasPrefix(v, secretPrefix) }

// ParseSecretRef splits "vault:mount/path#key" into path and key.
func ParseSecretRef(v string) (path, key string, err error) {
	if !IsSecretRef(v) {
		return "", "", fmt.Errorf("%w: missing %q prefix", ErrSecretRef, secretPrefix)
	}
	path, key, ok := strings.Cut(strings.TrimPrefix(v, secretPrefix), "#")
	path = strings.Trim(path, "/")
	if !ok || path == "" || key == "" {
		return "", "", fmt.Errorf("%w: want vault:<mount>/<path>#<key>", ErrSecretRef)
	}
	return path, key, nil
}

// resolveSecrets replaces every vault reference in cfg in place.
func resolveSecrets(ctx context.Context, cfg *Config, r SecretResolver) error {
	fields := []struct {
		key string
		dst *string
	}{
		{KeySecretKey, &cfg.SecretKey},
		{KeyDatabaseURI, &cfg.DatabaseURI},
		{KeyAPIKey, &cfg.APIKey},
		{KeyMailPassword, &cfg.Mail.Password},
		{KeySSLKeyPassword, &cfg.Transport.KeyPassword},
	}

	var errs []error
	for _, f := range fields {
		if !IsSecretRef(*f.dst) {
			continue
		}
		name := strings.ToUpper(f.key)

		path, key, err := ParseSecretRef(*f.dst)
		if err != nil {
			errs = append(errs, fmt.Errorf("config: %s: %w", name, err))
			continue
		}
		if r == nil {
			errs = append(errs, fmt.Errorf("config: %s: %w: no secret resolver configured", name, ErrSecretRef))
			continue
		}

		val, err := r.GetKV(ctx, path, key, SecretTTL)
		if err != nil {
			errs = append(errs, fmt.Errorf("config: %s: %w", name, err))
			continue
		}
		*f.dst = val
	}
	return errors.Join(errs...)
}
