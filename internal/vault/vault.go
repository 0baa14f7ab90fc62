// internal/vault/vault.go
//
// Vault client wrapper.
//
// Context
// -------
//   - Wraps the HashiCorp Vault Go SDK with background token renewal, a
//     KV-v2 single-key helper, and per-key caching.
//   - `config.Load` resolves `vault:<mount>/<path>#<key>` references through
//     the `config.SecretResolver` interface; both *Client and *Lazy satisfy
//     it.
//   - Most deployments never set a vault reference, so the CLI hands the
//     loader a *Lazy that only dials Vault on first use.
//
// Public workflow
// ---------------
//  1. cli, err := vault.New(ctx, log)               // during boot.
//  2. pw,  err := cli.GetKV(ctx, path, key, ttl)    // while resolving config.
//
// Notes
// -----
//   - VAULT_ADDR and VAULT_TOKEN are read by the SDK (`ReadEnvironment`).
//   - Oxford commas, two spaces after periods.
package vault

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	vault "github.com/hashicorp/vault/api"
	"go.uber.org/zap"
)

/*──────────────────────────── public façade ────────────────────────────────*/

// Client is safe for concurrent use.  Zero value is invalid.
type Client struct {
	api *vault.Client
	log *zap.SugaredLogger

	cacheMu sync.RWMutex
	cache   map[string]cached // path#key → value + expiry.
}

type cached struct {
	val string
	exp time.Time
}

// New constructs a Vault client and starts a background token-renewal loop
// bound to ctx.
func New(ctx context.Context, log *zap.SugaredLogger) (*Client, error) {
	if log == nil {
		log = zap.NewNop().Sugar()
	}

	cfg := vault.DefaultConfig()
	if err := cfg.ReadEnvironment(); err != nil {
		return nil, fmt.Errorf("vault: env config: %w", err)
	}

	api, err := vault.NewClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("vault: api client: %w", err)
	}
	if tok := os.Getenv("VAULT_TOKEN"); tok != "" {
		api.SetToken(tok)
	}

	c := &Client{
		api:   api,
		log:   log,
		cache: make(map[string]cached),
	}
	go c.renewLoop(ctx)

	log.Debugw("vault client ready", "addr", cfg.Address)
	return c, nil
}

// GetKV fetches a single key from a KV-v2 secret.  When ttl > 0 the value
// is cached for that long.
func (c *Client) GetKV(ctx context.Context, secretPath, key string, ttl time.Duration) (string, error) {
	if secretPath == "" || key == "" {
		return "", errors.New("vault: secret path and key must be non-empty")
	}

	canonical := secretPath + "#" + key

	if ttl > 0 {
		c.cacheMu.RLock()
		if cv, ok := c.cache[canonical]; ok && time.Now().Before(cv.exp) {
			c.cacheMu.RUnlock()
			return cv.val, nil
		}
		c.cacheMu.RUnlock()
	}

	mount, rel := splitMount(secretPath)
	if rel == "" {
		return "", fmt.Errorf("vault: %q has no path below the mount", secretPath)
	}

	sec, err := c.api.KVv2(mount).Get(ctx, rel)
	if err != nil {
		return "", fmt.Errorf("vault: get %s: %w", secretPath, err)
	}

	raw, ok := sec.Data[key]
	if !ok {
		return "", fmt.Errorf("vault: key %q not found in %q", key, secretPath)
	}
	val, ok := raw.(string)
	if !ok {
		return "", fmt.Errorf("vault: value at %s is not a string", canonical)
	}

	if ttl > 0 {
		c.cacheMu.Lock()
		c.cache[canonical] = cached{val: val, exp: time.Now().Add(ttl)}
		c.cacheMu.Unlock()
	}
	return val, nil
}

/*──────────────────────────── lazy resolver ────────────────────────────────*/

// Lazy defers New until the first GetKV call.  The construction error, if
// any, is sticky.
type Lazy struct {
	ctx context.Context
	log *zap.SugaredLogger

	once    sync.Once
	cli     *Client
	err     error
	started atomic.Pointer[Client]

	newFn func(context.Context, *zap.SugaredLogger) (*Client, error)
}

// NewLazy returns a resolver whose renewal loop, once started, is bound to
// ctx.
func NewLazy(ctx context.Context, log *zap.SugaredLogger) *Lazy {
	return &Lazy{ctx: ctx, log: log, newFn: New}
}

// GetKV builds the client on first use, then delegates.
func (l *Lazy) GetKV(ctx context.Context, secretPath, key string, ttl time.Duration) (string, error) {
	l.once.Do(func() {
		l.cli, l.err = l.newFn(l.ctx, l.log)
		if l.err == nil {
			l.started.Store(l.cli)
		}
	})
	if l.err != nil {
		return "", l.err
	}
	return l.cli.GetKV(ctx, secretPath, key, ttl)
}

// Started reports whether a client has been built.  Safe to call while
// another goroutine is inside GetKV.
func (l *Lazy) Started() bool { return l.started.Load() != nil }

/*──────────────────────── background token renewal ─────────────────────────*/

func (c *Client) renewLoop(ctx context.Context) {
	for ctx.Err() == nil {
		wait := c.renewOnce(ctx)
		sleep(ctx, wait)
	}
}

// renewOnce probes the token and, when renewable, watches it until the
// renewer gives up.  It returns how long to wait before probing again.
func (c *Client) renewOnce(ctx context.Context) time.Duration {
	sec, err := c.api.Auth().Token().RenewSelfWithContext(ctx, 0)
	if err != nil {
		c.log.Warnw("vault token renew failed", "err", err)
		return 30 * time.Second
	}
	if sec == nil || sec.Auth == nil || !sec.Auth.Renewable {
		c.log.Infow("vault token is not renewable, sleeping 1h")
		return time.Hour
	}

	watcher, err := c.api.NewLifetimeWatcher(&vault.LifetimeWatcherInput{
		Secret: sec,
	})
	if err != nil {
		c.log.Warnw("vault watcher init failed", "err", err)
		return 30 * time.Second
	}
	go watcher.Start()
	defer watcher.Stop()

	for {
		select {
		case <-ctx.Done():
			return 0
		case err := <-watcher.DoneCh():
			if err != nil {
				c.log.Warnw("vault token renewal stopped", "err", err)
			}
			return 15 * time.Second
		case ev := <-watcher.RenewCh():
			if ev != nil && ev.Secret != nil && ev.Secret.Auth != nil {
				c.log.Debugw("vault token renewed", "ttl_s", ev.Secret.Auth.LeaseDuration)
			}
		}
	}
}

/*─────────────────────────────── helpers ───────────────────────────────────*/

// splitMount turns "secret/app/db" into ("secret", "app/db").
func splitMount(p string) (mount, rel string) {
	mount, rel, _ = strings.Cut(strings.Trim(p, "/"), "/")
	return mount, rel
}

func sleep(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
