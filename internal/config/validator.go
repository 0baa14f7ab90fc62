// internal/config/validator.go
//
// Thin wrapper around go-playground/validator.
//
// Context
// -------
// `loader.go` calls `validateStruct` right after typed resolution and
// secret lookup.  Any tag mismatch aborts startup, so the binary never
// serves traffic with a half-valid snapshot.  Range rules live on the
// struct tags in `model.go`.  Rules the library lacks are registered here:
//
//   - `listen_addr`: host:port for net.Listen.  The host may be empty,
//     a hostname, IPv4, or bracketed IPv6 (`[::]:5001`); the port is
//     0..65535.
package config

import (
	"net"
	"strconv"

	"github.com/go-playground/validator/v10"
)

var v = newValidator()

func newValidator() *validator.Validate {
	val := validator.New(validator.WithRequiredStructEnabled())
	err := val.RegisterValidation("listen_addr", func(fl validator.FieldLevel) bool {
		host, port, err := net.SplitHostPort(fl.Field().String())
		if err != nil {
			return false
		}
		if n, err := strconv.Atoi(port); err != nil || n < 0 || n > 65535 {
			return false
		}
		if host == "" || net.ParseIP(host) != nil {
			return true
		}
		return val.Var(host, "hostname_rfc1123") == nil
	})
	if err != nil {
		panic(err)
	}
	return val
}

// validateStruct returns the validation errors, or nil on success.
func validateStruct(c *Config) error {
	return v.Struct(c)
}
