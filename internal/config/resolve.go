package config

// ResolveUser determines the author recorded on new issues.
// Resolution priority:
//  1. the configured user (COBWEB_USER already applied by ApplyEnvOverrides)
//  2. $USER
//  3. $USERNAME
//  4. "unknown"
func ResolveUser(cfg Config, getenv func(string) string) string {
	if cfg.User != "" {
		return cfg.User
	}
	for _, key := range []string{"USER", "USERNAME"} {
		if v := getenv(key); v != "" {
			return v
		}
	}
	return "unknown"
}
