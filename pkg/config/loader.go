package config

import (
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

var defaultEnvLoaded sync.Once

type loadOptions struct {
	envFiles []string
	prefix   string
}

// Option configures Load.
type Option func(*loadOptions)

// WithEnvFiles loads the given .env files before parsing. Variables already
// present in the process environment win. A missing file is an error.
func WithEnvFiles(paths ...string) Option {
	return func(o *loadOptions) {
		o.envFiles = append(o.envFiles, paths...)
	}
}

// WithPrefix prepends prefix to every env tag, e.g. "PAGETRACK_".
func WithPrefix(prefix string) Option {
	return func(o *loadOptions) {
		o.prefix = prefix
	}
}

// Load parses environment variables into v according to its env tags.
// The default .env in the working directory is loaded once per process if it
// exists.
//
// Example:
//
//	type Settings struct {
//		Endpoint string        `env:"ENDPOINT,required"`
//		Timeout  time.Duration `env:"TIMEOUT" envDefault:"5s"`
//	}
//
//	var s Settings
//	err := config.Load(&s, config.WithPrefix("PAGETRACK_"))
func Load[T any](v *T, opts ...Option) error {
	if v == nil {
		return ErrNilPointer
	}

	o := loadOptions{}
	for _, opt := range opts {
		opt(&o)
	}

	defaultEnvLoaded.Do(func() {
		// The default .env is optional.
		_ = godotenv.Load()
	})
	if len(o.envFiles) > 0 {
		if err := godotenv.Load(o.envFiles...); err != nil {
			return errors.Join(ErrLoadingEnvFile, err)
		}
	}

	if err := env.ParseWithOptions(v, env.Options{Prefix: o.prefix}); err != nil {
		return errors.Join(ErrParsingConfig, err)
	}
	return nil
}

// MustLoad works like Load but panics on failure.
func MustLoad[T any](v *T, opts ...Option) {
	if err := Load(v, opts...); err != nil {
		panic(fmt.Sprintf("failed to load required configuration: %v", err))
	}
}

// LoadYAML decodes the YAML file at path into v. Unknown keys are rejected.
func LoadYAML[T any](path string, v *T) error {
	if v == nil {
		return ErrNilPointer
	}

	f, err := os.Open(path)
	if err != nil {
		return errors.Join(ErrReadingFile, err)
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(v); err != nil {
		return errors.Join(ErrReadingFile, fmt.Errorf("decode %s: %w", path, err))
	}
	return nil
}
