package integration

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"go.uber.org/zap/zaptest"

	"github.com/puppetutils/go-hiera"
	"github.com/puppetutils/go-hiera/internal/app"
	"github.com/puppetutils/go-hiera/internal/config"
)

// fakeHiera mimics the real hiera CLI: it answers known keys on stdout,
// prints nothing for unknown keys, and fails for a poisoned key.
const fakeHiera = `#!/bin/sh
key="$3"
case "$key" in
  db::host) printf 'db01.example.com\n' ;;
  db::password) printf '  s3cret  \n' ;;
  explode) printf 'no backend configured\n' >&2; exit 1 ;;
  *) exit 0 ;;
esac
`

func writeFixtures(t *testing.T) (configPath, binaryPath string) {
	t.Helper()

	if runtime.GOOS == "windows" {
		t.Skip("fake hiera binary uses a shell script")
	}

	dir := t.TempDir()
	configPath = filepath.Join(dir, "hiera.yaml")
	if err := os.WriteFile(configPath, []byte(":hierarchy:\n  - common\n"), 0o644); err != nil {
		t.Fatalf("write hiera config: %v", err)
	}

	binaryPath = filepath.Join(dir, "hiera")
	if err := os.WriteFile(binaryPath, []byte(fakeHiera), 0o755); err != nil {
		t.Fatalf("write fake hiera: %v", err)
	}
	return configPath, binaryPath
}

func newApp(t *testing.T) *app.App {
	t.Helper()

	configPath, binaryPath := writeFixtures(t)

	t.Setenv("HIERA_CONFIG", configPath)
	t.Setenv("HIERA_BINARY", binaryPath)
	t.Setenv("HIERA_VARS", "environment=integration")

	cfg, err := config.Load(nil)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}

	application, err := app.New(cfg, zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("init app: %v", err)
	}
	return application
}

func TestIntegrationFlow(t *testing.T) {
	application := newApp(t)
	ctx := context.Background()

	results, err := application.Lookup(ctx, []string{"db::host", "db::password", "absent"})
	if err != nil {
		t.Fatalf("lookup failed: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}

	if results[0].Value != "db01.example.com" || !results[0].Found {
		t.Fatalf("unexpected db::host result: %+v", results[0])
	}
	if results[1].Value != "s3cret" {
		t.Fatalf("expected trimmed password, got %q", results[1].Value)
	}
	if results[2].Found {
		t.Fatalf("expected no value for absent key, got %+v", results[2])
	}
}

func TestIntegrationLookupFailure(t *testing.T) {
	application := newApp(t)

	_, err := application.Lookup(context.Background(), []string{"explode"})

	var lookupErr *hiera.LookupError
	if !errors.As(err, &lookupErr) {
		t.Fatalf("expected *hiera.LookupError, got %v", err)
	}
	if lookupErr.Key != "explode" || lookupErr.ExitCode != 1 {
		t.Fatalf("unexpected error details: %+v", lookupErr)
	}
	if lookupErr.Output != "no backend configured\n" {
		t.Fatalf("unexpected captured output: %q", lookupErr.Output)
	}
}

func TestIntegrationMissingBinary(t *testing.T) {
	configPath, _ := writeFixtures(t)

	t.Setenv("HIERA_CONFIG", configPath)
	t.Setenv("HIERA_BINARY", filepath.Join(t.TempDir(), "no-such-hiera"))
	t.Setenv("HIERA_VARS", "")

	cfg, err := config.Load(nil)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}

	application, err := app.New(cfg, zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("init app: %v", err)
	}

	_, err = application.Lookup(context.Background(), []string{"db::host"})

	var nfErr *hiera.NotFoundError
	if !errors.As(err, &nfErr) {
		t.Fatalf("expected *hiera.NotFoundError, got %v", err)
	}
}
