// Package config handles cobweb repository configuration.
//
// Configuration is a flat key/value map persisted in .cobweb/config.yaml.
// It is read once per invocation into an immutable Config value that is
// passed explicitly to the operations that need it.
package config

// Known configuration keys.
const (
	KeyUser   = "user"   // default author for new issues
	KeyEditor = "editor" // editor used for long text
)

// UserPlaceholder stands for "whoever runs the command" and is resolved
// from the environment rather than stored verbatim as an author.
const UserPlaceholder = "${USER}"

// Config is the resolved repository configuration.
type Config struct {
	// User is the configured default author, empty if unset.
	User string
	// Editor is the preferred editor command, empty if unset.
	Editor string
}

// Load builds a Config from the values in s.
func Load(s Store) Config {
	var cfg Config
	if v, ok := s.Get(KeyUser); ok && v != UserPlaceholder {
		cfg.User = v
	}
	if v, ok := s.Get(KeyEditor); ok {
		cfg.Editor = v
	}
	return cfg
}
