// internal/config/env.go
//
// Typed coercion over the merged koanf tree.
//
// Context
// -------
// Every value reaches us as a string, whether it came from the process
// environment, `.env`, or YAML (koanf stringifies scalars on String()).
// The rules are deliberately small:
//
//   - bool: unset → default, otherwise membership in {1, true, yes, on}
//     after trimming and lower-casing.  An empty value is false.
//   - int:  unset → default, otherwise a trimmed base-10 parse.  Anything
//     else is an *Error; the loader joins them and aborts startup.
//   - string: unset → default.
//
// Notes
// -----
//   - A key counts as set when koanf has it, even with an empty value.
//   - Oxford commas, two spaces after periods.

package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	koanf "github.com/knadh/koanf/v2"
)

// ErrInvalid marks a malformed configuration value.
var ErrInvalid = errors.New("invalid configuration value")

// Error describes one malformed value.  errors.Is(err, ErrInvalid) holds.
type Error struct {
	Key    string // upper-case env name
	Value  string
	Reason string
}

func (e *Error) Error() string {
	return fmt.Sprintf("config: %s=%q: %s", e.Key, e.Value, e.Reason)
}

func (e *Error) Unwrap() error { return ErrInvalid }

var truthy = map[string]struct{}{"1": {}, "true": {}, "yes": {}, "on": {}}

// ParseBool reports whether raw is one of the truthy tokens.
func ParseBool(raw string) bool {
	_, ok := truthy[strings.ToLower(strings.TrimSpace(raw))]
	return ok
}

// source reads typed values from a koanf tree and collects parse errors
// so one startup run reports every bad key at once.
type source struct {
	k    *koanf.Koanf
	errs []error
}

func (s *source) has(key string) bool { return s.k.Exists(key) }

func (s *source) str(key, def string) string {
	if !s.has(key) {
		return def
	}
	return s.k.String(key)
}

func (s *source) boolean(key string, def bool) bool {
	if !s.has(key) {
		return def
	}
	return ParseBool(s.k.String(key))
}

func (s *source) integer(key string, def int) int {
	if !s.has(key) {
		return def
	}
	raw := s.k.String(key)
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		s.errs = append(s.errs, &Error{
			Key:    strings.ToUpper(key),
			Value:  raw,
			Reason: "not an integer",
		})
		return def
	}
	return n
}

func (s *source) int64(key string, def int64) int64 {
	if !s.has(key) {
		return def
	}
	raw := s.k.String(key)
	n, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		s.errs = append(s.errs, &Error{
			Key:    strings.ToUpper(key),
			Value:  raw,
			Reason: "not an integer",
		})
		return def
	}
	return n
}

func (s *source) err() error { return errors.Join(s.errs...) }
