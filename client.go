// Package hiera is a Go client for the Hiera hierarchical-configuration
// lookup tool. It shells out to the hiera CLI binary and returns the
// resolved value for a key, leaving hierarchy resolution entirely to the
// external tool.
package hiera

import (
	"bytes"
	"context"
	"errors"
	"os"
	"os/exec"
	"strings"

	"go.uber.org/zap"
)

const defaultBinary = "hiera"

// Client invokes the hiera binary to resolve configuration keys. It is
// immutable after construction and safe for concurrent use; each lookup
// spawns its own child process and holds no state between calls.
type Client struct {
	configPath string
	binary     string
	vars       *Vars
	logger     *zap.Logger
}

// Option configures a Client during construction.
type Option func(*Client)

// WithBinary overrides the hiera binary. A bare name is resolved through
// PATH at lookup time; anything containing a path separator is used as a
// literal path.
func WithBinary(binary string) Option {
	return func(c *Client) {
		c.binary = binary
	}
}

// WithVar appends a single context variable.
func WithVar(name, value string) Option {
	return func(c *Client) {
		c.vars.Set(name, value)
	}
}

// WithVars appends all variables from vars, preserving their order.
func WithVars(vars *Vars) Option {
	return func(c *Client) {
		for _, p := range vars.Pairs() {
			c.vars.Set(p.Name, p.Value)
		}
	}
}

// WithLogger attaches a logger for debug output. The default logger
// discards everything.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// New creates a Client for the given hiera configuration file. It returns a
// *ConfigError when the path does not refer to an existing regular file.
// The binary is not checked here; a missing binary surfaces from Get as a
// *NotFoundError.
func New(configPath string, opts ...Option) (*Client, error) {
	c := &Client{
		configPath: configPath,
		binary:     defaultBinary,
		vars:       NewVars(),
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}

	info, err := os.Stat(c.configPath)
	if err != nil || !info.Mode().IsRegular() {
		return nil, &ConfigError{Path: c.configPath}
	}

	c.logger.Debug("new hiera client",
		zap.String("config", c.configPath),
		zap.String("binary", c.binary),
		zap.Int("vars", c.vars.Len()),
	)
	return c, nil
}

// ConfigPath returns the hiera configuration file path.
func (c *Client) ConfigPath() string {
	return c.configPath
}

// Binary returns the configured hiera binary.
func (c *Client) Binary() string {
	return c.binary
}

// Vars returns a copy of the configured context variables.
func (c *Client) Vars() *Vars {
	return c.vars.clone()
}

// Get resolves key through hiera. It blocks until the child process exits.
//
// The second return value reports whether hiera produced a value: a
// successful run whose output is empty after trimming yields ("", false,
// nil), which is a valid negative result rather than an error. A spawn
// failure yields a *NotFoundError and a nonzero exit yields a
// *LookupError. The context is passed through to the child process for
// caller-driven cancellation; Get imposes no timeout of its own.
func (c *Client) Get(ctx context.Context, key string) (string, bool, error) {
	if key == "" {
		return "", false, ErrEmptyKey
	}

	args := c.command(key)
	c.logger.Debug("invoking hiera", zap.Strings("command", args))

	cmd := exec.CommandContext(ctx, args[0], args[1:]...)
	var combined bytes.Buffer
	cmd.Stdout = &combined
	cmd.Stderr = &combined

	err := cmd.Run()
	output := combined.String()

	var exitErr *exec.ExitError
	switch {
	case err == nil:
		value := strings.TrimSpace(output)
		if value == "" {
			return "", false, nil
		}
		return value, true, nil
	case errors.As(err, &exitErr):
		return "", false, &LookupError{
			Key:      key,
			ExitCode: exitErr.ExitCode(),
			Output:   output,
		}
	default:
		return "", false, &NotFoundError{Binary: c.binary, Err: err}
	}
}

// command builds the argument vector:
//
//	[binary, --config, configPath, key, name=value...]
//
// Variables appear in insertion order. Values are passed through verbatim;
// there is no shell involved and no quoting layer.
func (c *Client) command(key string) []string {
	args := make([]string, 0, 4+c.vars.Len())
	args = append(args, c.binary, "--config", c.configPath, key)
	for _, p := range c.vars.Pairs() {
		args = append(args, p.Name+"="+p.Value)
	}
	return args
}
