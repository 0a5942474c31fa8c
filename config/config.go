// Package config loads and validates the settings controlling a run of the
// normalization/parsing pipeline and the optional domain-stack server, in
// the shape of the teacher's server/config.go: plain structs, a
// FillDefaults/Validate pair rather than a constructor that can fail
// halfway, and a TOML file as the on-disk format (BurntSushi/toml, as used
// by internal/tqw/tqw.go's FileInfo/toml.Unmarshal).
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/dekarrin/llcore/grammar"
)

// ConflictMode names how LL(1) table construction should react to two
// productions of the same nonterminal claiming the same cell (§4.3 "Table
// construction").
type ConflictMode string

const (
	// ConflictAbort stops at the first conflict (grammar.CollisionAbort).
	ConflictAbort ConflictMode = "abort"

	// ConflictDiagnose keeps building and reports every conflict found
	// (grammar.CollisionDiagnose).
	ConflictDiagnose ConflictMode = "diagnose"
)

// ParseConflictMode parses a config/flag value into a ConflictMode.
func ParseConflictMode(s string) (ConflictMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case string(ConflictAbort):
		return ConflictAbort, nil
	case string(ConflictDiagnose):
		return ConflictDiagnose, nil
	default:
		return "", fmt.Errorf("conflict mode not one of 'abort' or 'diagnose': %q", s)
	}
}

// CollisionMode converts m to the grammar package's table-building mode.
func (m ConflictMode) CollisionMode() grammar.CollisionMode {
	if m == ConflictDiagnose {
		return grammar.CollisionDiagnose
	}
	return grammar.CollisionAbort
}

// Normalize holds the settings controlling the normalization pipeline.
type Normalize struct {
	// ConflictMode controls LL(1) table-construction behavior on collision.
	ConflictMode ConflictMode `toml:"conflict_mode"`

	// NullableWhitelist names nonterminals allowed to retain an
	// ε-production through epsilon-elimination even though they are not the
	// start symbol (§4.2 stage 4, the "list-tail" relaxation).
	NullableWhitelist []string `toml:"nullable_whitelist"`
}

// Diagnostics holds the settings controlling the diagnostic stream (§6).
type Diagnostics struct {
	// Enabled turns the diagnostic log on at all.
	Enabled bool `toml:"enabled"`

	// Verbosity is passed straight through to diagnostics.NewLog.
	Verbosity int `toml:"verbosity"`
}

// Server holds domain-stack HTTP server settings.
type Server struct {
	// ListenAddr is the address the HTTP server binds, e.g. ":8080".
	ListenAddr string `toml:"listen_addr"`

	// TokenSecret signs the bearer tokens guarding write endpoints. If
	// empty after FillDefaults, a development-only default is used.
	TokenSecret string `toml:"token_secret"`

	// UnauthDelayMillis is the anti-flood delay (server/config.go's
	// UnauthDelayMillis) added before a 401/403/500 response is written.
	UnauthDelayMillis int `toml:"unauth_delay_millis"`
}

// UnauthDelay returns Server.UnauthDelayMillis as a time.Duration.
func (s Server) UnauthDelay() time.Duration {
	if s.UnauthDelayMillis < 1 {
		return 0
	}
	return time.Duration(s.UnauthDelayMillis) * time.Millisecond
}

// Store holds run-persistence settings.
type Store struct {
	// DataDir is the directory the SQLite store keeps its database file in.
	// Empty means runs are kept in memory only (store.NewInMemory).
	DataDir string `toml:"data_dir"`
}

// Config is the full set of settings for one invocation of the toolkit,
// loaded from TOML (§2 "Configuration").
type Config struct {
	Normalize   Normalize   `toml:"normalize"`
	Diagnostics Diagnostics `toml:"diagnostics"`
	Server      Server      `toml:"server"`
	Store       Store       `toml:"store"`
}

const (
	// MinSecretSize mirrors server/config.go's MinSecretSize: below this
	// length a shared secret is rejected outright rather than silently
	// accepted and used to sign tokens nobody could forge-proof against.
	MinSecretSize = 16

	defaultTokenSecret = "DEFAULT_TOKEN_SECRET-DO_NOT_USE_IN_PROD!"
)

// Load reads and parses the TOML file at path, then fills in defaults. An
// empty path returns the all-defaults Config without touching the
// filesystem.
func Load(path string) (Config, error) {
	var cfg Config
	if path == "" {
		return cfg.FillDefaults(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	return cfg.FillDefaults(), nil
}

// FillDefaults returns a copy of cfg with unset fields replaced by their
// defaults, mirroring server/config.go's Config.FillDefaults.
func (cfg Config) FillDefaults() Config {
	out := cfg

	if out.Normalize.ConflictMode == "" {
		out.Normalize.ConflictMode = ConflictAbort
	}
	if out.Server.TokenSecret == "" {
		out.Server.TokenSecret = defaultTokenSecret
	}
	if out.Server.UnauthDelayMillis == 0 {
		out.Server.UnauthDelayMillis = 1000
	}
	if out.Server.ListenAddr == "" {
		out.Server.ListenAddr = ":8080"
	}

	return out
}

// Validate returns an error if cfg has invalid field values. Call it on the
// result of FillDefaults, not on a raw just-parsed Config, the same
// division of labor as server/config.go.
func (cfg Config) Validate() error {
	if _, err := ParseConflictMode(string(cfg.Normalize.ConflictMode)); err != nil {
		return fmt.Errorf("normalize.conflict_mode: %w", err)
	}
	if len(cfg.Server.TokenSecret) < MinSecretSize {
		return fmt.Errorf("server.token_secret: must be at least %d bytes, but is %d", MinSecretSize, len(cfg.Server.TokenSecret))
	}
	return nil
}
