package hiera

import (
	"errors"
	"fmt"
)

// ErrEmptyKey is returned when Get is called with an empty key name.
var ErrEmptyKey = errors.New("lookup key must not be empty")

// ConfigError indicates the Hiera configuration file does not exist or is
// not a regular file. It is returned from New, never from Get.
type ConfigError struct {
	Path string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("hiera configuration file does not exist at: %s", e.Path)
}

// NotFoundError indicates the hiera binary could not be located or executed.
type NotFoundError struct {
	Binary string
	Err    error
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("could not find hiera binary at: %s", e.Binary)
}

func (e *NotFoundError) Unwrap() error {
	return e.Err
}

// LookupError indicates the hiera binary ran but exited with a nonzero
// status. Output holds the combined stdout and stderr of the failed run so
// callers can surface hiera's own diagnostics.
type LookupError struct {
	Key      string
	ExitCode int
	Output   string
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("failed to retrieve key %s: exit code %d, output: %s",
		e.Key, e.ExitCode, e.Output)
}
