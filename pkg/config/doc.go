// Package config loads configuration structs from environment variables and
// YAML files.
//
// Environment parsing wraps github.com/caarlos0/env/v11 with .env file
// support from github.com/joho/godotenv. YAML decoding uses gopkg.in/yaml.v3
// in strict mode.
//
// # Usage
//
//	type Settings struct {
//	    ContentEndpoint string        `env:"CONTENT_ENDPOINT"`
//	    DebounceDelay   time.Duration `env:"DEBOUNCE_DELAY" envDefault:"500ms"`
//	}
//
//	var s Settings
//	if err := config.Load(&s, config.WithPrefix("PAGETRACK_")); err != nil {
//	    log.Fatal(err)
//	}
//
//	var b Bindings
//	if err := config.LoadYAML("bindings.yaml", &b); err != nil {
//	    log.Fatal(err)
//	}
//
// # Error Handling
//
// Errors wrap one of the sentinels so callers can use errors.Is:
//
//   - ErrParsingConfig: env vars could not be parsed into the struct.
//   - ErrLoadingEnvFile: an explicit .env file is missing or invalid.
//   - ErrReadingFile: a YAML file is missing or invalid.
//   - ErrNilPointer: a nil pointer was given.
package config
