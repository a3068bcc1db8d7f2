// file: pact/config/config.go
package config

import (
	"fmt"

	"github.com/mitchellh/mapstructure"
)

// Config is a generic key/value store assembled from defaults, JSON files,
// and environment variables via Option. Keys read from JSON files and
// environment variables are lower-cased; lookups match keys exactly.
type Config struct {
	values map[string]any
}

// New builds a Config by applying opts in order; later options overwrite
// keys set by earlier ones.
func New(opts ...Option) (*Config, error) {
	c := &Config{values: map[string]any{}}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// Get returns the raw value for key and whether it was present.
func (c *Config) Get(key string) (any, bool) {
	v, ok := c.values[key]
	return v, ok
}

// MustString returns the string value for key, or "" if absent or not a string.
func (c *Config) MustString(key string) string {
	v, ok := c.values[key]
	if !ok {
		return ""
	}
	s, _ := v.(string)
	return s
}

// Decode binds the accumulated values into dst, a pointer to a struct
// tagged with `mapstructure`. Unknown keys are ignored.
func (c *Config) Decode(dst any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           dst,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return fmt.Errorf("build config decoder: %w", err)
	}
	return dec.Decode(c.values)
}

//---------------------
// PACT store settings
//---------------------

// StoreConfig controls how a Tree/TribleSet builds its structural hash and
// sizes its E/A/V segments.
type StoreConfig struct {
	// HashSecretMode selects how the 128-bit keyed hash secret is derived:
	// "deterministic" reuses a fixed, published key (reproducible across
	// processes, suitable for tests and content-addressed comparisons
	// between independently built trees); "random" draws a fresh key from
	// crypto/rand at startup, which prevents a hash-flooding adversary
	// from predicting bucket placement but makes hashes incomparable
	// across processes.
	HashSecretMode string `mapstructure:"hash_secret_mode"`
	// HashSecretSeed seeds the deterministic mode; ignored otherwise.
	HashSecretSeed uint64 `mapstructure:"hash_secret_seed"`
	// SegmentSizes gives the byte width of each key segment PACT branches
	// on before treating the remaining bytes as leaf suffix; TribleSet
	// uses the 16/16/32 (E/A/V) split.
	SegmentSizes []int `mapstructure:"segment_sizes"`
	// LogLevel is forwarded to x_log when a store initializes its own
	// scoped logger.
	LogLevel string `mapstructure:"log_level"`
}

// DefaultStoreConfig returns the settings used when no config file or
// environment overrides are present.
func DefaultStoreConfig() StoreConfig {
	return StoreConfig{
		HashSecretMode: "deterministic",
		HashSecretSeed: 0,
		SegmentSizes:   []int{16, 16, 32},
		LogLevel:       "info",
	}
}

// LoadStoreConfig builds a StoreConfig from defaults, optionally overlaid
// by a JSON file and by PACT_-prefixed environment variables.
func LoadStoreConfig(path string) (StoreConfig, error) {
	def := DefaultStoreConfig()
	opts := []Option{
		WithDefaults(map[string]any{
			"hash_secret_mode": def.HashSecretMode,
			"hash_secret_seed": def.HashSecretSeed,
			"segment_sizes":    def.SegmentSizes,
			"log_level":        def.LogLevel,
		}),
	}
	if path != "" {
		opts = append(opts, FromJSON(path))
	}
	opts = append(opts, FromEnv("PACT_"))

	c, err := New(opts...)
	if err != nil {
		return StoreConfig{}, err
	}

	var out StoreConfig
	if err := c.Decode(&out); err != nil {
		return StoreConfig{}, fmt.Errorf("decode store config: %w", err)
	}
	return out, nil
}
