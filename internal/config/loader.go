// internal/config/loader.go
//
// Configuration loader.
//
/*
Context
--------
`Load()` builds one immutable `Config` from four layers (highest
precedence last):

  1. Built-in defaults (see `keys.go`).
  2. Optional YAML file: CONFIG_FILE, else `<root>/conf/app.yaml`.
  3. Optional `.env`: Options.EnvFile, else `<root>/.env`.  godotenv never
     overrides variables that are already set.
  4. Process environment, restricted to the known key set.

The merged tree is coerced into typed fields, derived defaults are
filled in (cookie flags and URL scheme follow REQUIRE_HTTPS), vault
references are resolved, and the struct is validated.  The snapshot is
returned to the caller; there is no package-level copy.

Instrumentation
---------------
  • DEBUG spans: root discovery, YAML read.
  • ERROR spans: YAML parse, env overlay, coercion, validation failures.
  • INFO  span:  final "config loaded" with key highlights.
  • Logs use the global sugared logger (`zap.S()`) so early boot issues
    surface on the bootstrap console logger.

Notes
-----
  • `rootDir()` climbs the cwd tree until it finds `conf/app.yaml`; this
    lets `go run ./cmd/web` work from any sub-directory.
  • Oxford commas, two spaces after periods.
*/
package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	koanf "github.com/knadh/koanf/v2"
	"go.uber.org/zap"
)

// Options tunes Load.  The zero value discovers everything.
type Options struct {
	Root    string         // overrides APP_ROOT and discovery
	EnvFile string         // explicit dotenv file; must exist when set
	Secrets SecretResolver // nil rejects vault: references
}

/*──────────────────────────── root discovery ───────────────────────────────*/

// rootDir resolves APP_ROOT or climbs directories until conf/app.yaml is
// found.  Falls back to the executable heuristic, then the working dir.
func rootDir() string {
	if r := os.Getenv("APP_ROOT"); r != "" {
		return r
	}

	wd, _ := os.Getwd()
	dir := wd
	for {
		if _, err := os.Stat(filepath.Join(dir, "conf", "app.yaml")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir { // reached filesystem root
			break
		}
		dir = parent
	}

	exe, _ := os.Executable()
	if filepath.Base(filepath.Dir(exe)) == "bin" {
		return filepath.Dir(filepath.Dir(exe))
	}
	return wd
}

/*─────────────────────────────── loader ───────────────────────────────────*/

// Load reads YAML, .env, and env overrides, then validates the snapshot.
func Load(ctx context.Context, opts Options) (*Config, error) {
	root := opts.Root
	if root == "" {
		root = rootDir()
	}
	zap.S().Debugw("config root resolved", "root", root)

	if err := loadDotenv(root, opts.EnvFile); err != nil {
		zap.S().Errorw("config dotenv load failed", "err", err)
		return nil, err
	}

	k := koanf.New(".")

	yamlPath := os.Getenv("CONFIG_FILE")
	if yamlPath == "" {
		yamlPath = filepath.Join(root, "conf", "app.yaml")
	}
	if _, err := os.Stat(yamlPath); err == nil {
		if err := k.Load(file.Provider(yamlPath), yaml.Parser()); err != nil {
			zap.S().Errorw("config yaml load failed", "file", yamlPath, "err", err)
			return nil, fmt.Errorf("config: load %s: %w", yamlPath, err)
		}
		zap.S().Debugw("config yaml loaded", "file", yamlPath)
	} else if os.Getenv("CONFIG_FILE") != "" {
		return nil, fmt.Errorf("config: CONFIG_FILE %s: %w", yamlPath, err)
	}

	// Env overrides: REQUIRE_HTTPS → require_https.  Unknown vars are dropped.
	if err := k.Load(env.Provider("", ".", func(s string) string {
		key := strings.ToLower(s)
		if _, ok := knownKeys[key]; ok {
			return key
		}
		return ""
	}), nil); err != nil {
		zap.S().Errorw("config env overlay failed", "err", err)
		return nil, err
	}

	cfg, err := resolve(k, root)
	if err != nil {
		zap.S().Errorw("config coercion failed", "err", err)
		return nil, err
	}

	if err := resolveSecrets(ctx, cfg, opts.Secrets); err != nil {
		zap.S().Errorw("config secret resolution failed", "err", err)
		return nil, err
	}

	if err := validateStruct(cfg); err != nil {
		zap.S().Errorw("config validation failed", "err", err)
		return nil, err
	}

	zap.S().Infow("config loaded",
		"listen_addr", cfg.HTTP.ListenAddr,
		"require_https", cfg.Transport.RequireHTTPS,
		"tls_material", cfg.Transport.HasTLSMaterial(),
		"debug", cfg.Debug,
		"root", cfg.Paths.Root,
	)
	return cfg, nil
}

// resolve turns the merged tree into a typed snapshot and fills in the
// defaults that depend on other keys.
func resolve(k *koanf.Koanf, root string) (*Config, error) {
	s := &source{k: k}

	requireHTTPS := s.boolean(KeyRequireHTTPS, false)

	sameSite, scheme := "Lax", "http"
	if requireHTTPS {
		sameSite, scheme = "Strict", "https"
	}

	hsts := s.integer(KeyHSTSSeconds, DefaultHSTSSeconds)
	if hsts < 0 {
		hsts = 0
	}

	mailUser := s.str(KeyMailUsername, "")

	cfg := &Config{
		SecretKey:   s.str(KeySecretKey, ""),
		DatabaseURI: s.str(KeyDatabaseURI, ""),
		Debug:       s.boolean(KeyDebug, false),
		APIKey:      s.str(KeyAPIKey, ""),
		HTTP: HTTP{
			ListenAddr: s.str(KeyListenAddr, DefaultListenAddr),
			GeoIPPath:  s.str(KeyGeoIPPath, ""),
		},
		Uploads: Uploads{
			Folder:           s.str(KeyUploadFolder, filepath.Join(root, "uploads")),
			AvatarSubdir:     s.str(KeyAvatarSubdir, DefaultAvatarSubdir),
			ComplaintSubdir:  s.str(KeyComplaintSubdir, DefaultComplaintSubdir),
			MaxContentLength: s.int64(KeyMaxContentLength, DefaultMaxContentLength),
		},
		Mail: Mail{
			Enabled:        s.boolean(KeyMailEnabled, true),
			Server:         s.str(KeyMailServer, ""),
			Port:           s.integer(KeyMailPort, DefaultMailPort),
			UseTLS:         s.boolean(KeyMailUseTLS, false),
			UseSSL:         s.boolean(KeyMailUseSSL, true),
			Username:       mailUser,
			Password:       s.str(KeyMailPassword, ""),
			DefaultSender:  s.str(KeyMailDefaultSender, mailUser),
			TimeoutSeconds: s.integer(KeyMailTimeout, DefaultMailTimeout),
		},
		Auth: Auth{
			PortalLoginURL: s.str(KeyPortalLoginURL, ""),
			GoogleClientID: s.str(KeyGoogleClientID, ""),
		},
		Session: Session{
			TTLSeconds:           s.integer(KeySessionTTL, DefaultSessionTTL),
			MaxIdleSeconds:       s.integer(KeySessionMaxIdle, DefaultSessionMaxIdle),
			RotateSeconds:        s.integer(KeySessionRotate, DefaultSessionRotate),
			TokenBytes:           s.integer(KeySessionTokenBytes, DefaultSessionTokenLen),
			CookieSecure:         s.boolean(KeySessionCookieSecure, requireHTTPS),
			RememberCookieSecure: s.boolean(KeyRememberCookieSecure, requireHTTPS),
			CookieSameSite:       s.str(KeySessionCookieSameSite, sameSite),
			CookieHTTPOnly:       s.boolean(KeySessionCookieHTTPOnly, true),
		},
		TwoFactor: TwoFactor{
			CodeLength:  s.integer(KeyTwoFactorCodeLength, DefaultTwoFactorCodeLen),
			TTLSeconds:  s.integer(KeyTwoFactorTTL, DefaultTwoFactorTTL),
			MaxAttempts: s.integer(KeyTwoFactorMaxAttempts, DefaultTwoFactorTries),
		},
		Transport: Transport{
			RequireHTTPS:       requireHTTPS,
			CertPath:           s.str(KeySSLCertPath, ""),
			KeyPath:            s.str(KeySSLKeyPath, ""),
			KeyPassword:        s.str(KeySSLKeyPassword, ""),
			CABundle:           s.str(KeySSLCABundle, ""),
			HSTSSeconds:        hsts,
			PreferredURLScheme: scheme,
		},
		Paths: Paths{
			Root:   root,
			LogDir: s.str(KeyLogDir, filepath.Join(root, "logs")),
		},
	}

	if err := s.err(); err != nil {
		return nil, err
	}
	return cfg, nil
}

/*──────────────────────────── helpers ─────────────────────────────────────*/

// loadDotenv applies an explicit env file (must exist) or the optional
// <root>/.env (silently skipped when absent).
func loadDotenv(root, explicit string) error {
	if explicit != "" {
		if err := godotenv.Load(explicit); err != nil {
			return fmt.Errorf("config: env file %s: %w", explicit, err)
		}
		return nil
	}
	err := godotenv.Load(filepath.Join(root, ".env"))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("config: .env: %w", err)
	}
	return nil
}
