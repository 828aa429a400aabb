package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// envReader reads typed environment values. A malformed value keeps the
// default and is recorded so Load can reject it.
type envReader struct {
	errs []error
}

func (r *envReader) lookup(key string) (string, bool) {
	value, ok := os.LookupEnv(key)
	value = strings.TrimSpace(value)
	return value, ok && value != ""
}

func (r *envReader) invalid(key, value, want string) {
	r.errs = append(r.errs, fmt.Errorf("%s=%q is not a valid %s", key, value, want))
}

func (r *envReader) str(key, def string) string {
	if value, ok := r.lookup(key); ok {
		return value
	}
	return def
}

func (r *envReader) integer(key string, def int) int {
	value, ok := r.lookup(key)
	if !ok {
		return def
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		r.invalid(key, value, "integer")
		return def
	}
	return n
}

func (r *envReader) boolean(key string, def bool) bool {
	value, ok := r.lookup(key)
	if !ok {
		return def
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		r.invalid(key, value, "boolean")
		return def
	}
	return b
}

func (r *envReader) duration(key string, def time.Duration) time.Duration {
	value, ok := r.lookup(key)
	if !ok {
		return def
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		r.invalid(key, value, "duration")
		return def
	}
	return d
}

// list splits a comma separated value, dropping blanks.
func (r *envReader) list(key string, def []string) []string {
	value, ok := r.lookup(key)
	if !ok {
		return def
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
