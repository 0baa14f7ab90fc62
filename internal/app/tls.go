package app

import (
	"crypto/tls"
	"errors"

	"go.uber.org/zap"

	"github.com/yanizio/complaintdesk/internal/config"
	"github.com/yanizio/complaintdesk/internal/metrics"
	"github.com/yanizio/complaintdesk/internal/tlsconfig"
)

// ErrTLSRequired is returned when REQUIRE_HTTPS is set but no certificate
// and key are configured.
var ErrTLSRequired = errors.New("app: REQUIRE_HTTPS is enabled but SSL_CERT_PATH / SSL_KEY_PATH were not provided")

// TLSConfig builds the server TLS context for the self-hosted run path.
// A nil result with a nil error means plaintext is allowed.  Every error
// is logged here and must be treated as fatal by the caller.
func TLSConfig(cfg *config.Config, log *zap.SugaredLogger) (*tls.Config, error) {
	t := cfg.Transport

	tlsCfg, loaded, err := tlsconfig.BuildWithReport(tlsconfig.Options{
		CertPath:    t.CertPath,
		KeyPath:     t.KeyPath,
		KeyPassword: t.KeyPassword,
		CABundle:    t.CABundle,
	})
	if err != nil {
		log.Errorw("failed to initialise TLS context", "err", err)
		return nil, err
	}

	if tlsCfg == nil {
		metrics.TLSContextLoaded.Set(0)
		if t.RequireHTTPS {
			log.Errorw("no TLS material while HTTPS is required", "err", ErrTLSRequired)
			return nil, ErrTLSRequired
		}
		log.Warnw("starting server without TLS; set REQUIRE_HTTPS=true and configure SSL_CERT_PATH/SSL_KEY_PATH")
		return nil, nil
	}

	metrics.TLSContextLoaded.Set(1)
	log.Infow("loaded TLS artifacts",
		"cert", loaded.CertPath,
		"key", loaded.KeyPath,
		"ca_bundle", loaded.CABundle,
		"encrypted_key", loaded.Encrypted,
	)
	return tlsCfg, nil
}
