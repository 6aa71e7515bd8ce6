package config

import "errors"

var (
	// ErrParsingConfig is returned when environment variables cannot be parsed into the config struct.
	ErrParsingConfig = errors.New("failed to parse environment variables into config")

	// ErrLoadingEnvFile is returned when a .env file given to WithEnvFiles cannot be read.
	ErrLoadingEnvFile = errors.New("failed to load env file")

	// ErrReadingFile is returned when a YAML config file cannot be read or decoded.
	ErrReadingFile = errors.New("failed to read config file")

	// ErrNilPointer is returned when a nil pointer is provided to a loader.
	ErrNilPointer = errors.New("nil pointer provided to config loader")
)
