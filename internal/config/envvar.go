package config

import "os"

// Environment variable names for cobweb configuration.
const (
	EnvUser   = "COBWEB_USER"   // Override default author
	EnvEditor = "COBWEB_EDITOR" // Override editor
)

// ApplyEnvOverrides checks COBWEB_USER and COBWEB_EDITOR env vars
// and overrides the corresponding config values in memory.
// These overrides are not persisted to the config file.
func ApplyEnvOverrides(s Store) {
	if user := os.Getenv(EnvUser); user != "" {
		s.SetInMemory(KeyUser, user)
	}
	if editor := os.Getenv(EnvEditor); editor != "" {
		s.SetInMemory(KeyEditor, editor)
	}
}
