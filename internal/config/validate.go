package config

import (
	"fmt"
	"strings"
)

// knownKeys lists the keys cobweb reads, sorted.
var knownKeys = []string{KeyEditor, KeyUser}

// ValidateKey reports an error for keys cobweb does not know about.
func ValidateKey(key string) error {
	for _, k := range knownKeys {
		if k == key {
			return nil
		}
	}
	return fmt.Errorf("unknown config key %q (known: %s)", key, strings.Join(knownKeys, ", "))
}

// Validate checks the values stored for known keys. Values are free text
// but must fit on one line. It returns an error describing every invalid
// value found, or nil if all values are valid. Unknown keys are ignored.
func Validate(s Store) error {
	all := s.All()
	var errs []string

	for _, key := range knownKeys {
		val, ok := all[key]
		if !ok {
			continue
		}
		if strings.ContainsAny(val, "\n\r") {
			errs = append(errs, fmt.Sprintf("%s: value must be a single line", key))
		}
	}

	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("config validation failed:\n  %s", strings.Join(errs, "\n  "))
}
