package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/alecthomas/kingpin/v2"
	"go.uber.org/zap"

	"github.com/puppetutils/go-hiera/internal/app"
	"github.com/puppetutils/go-hiera/internal/config"
	"github.com/puppetutils/go-hiera/internal/logging"
	"github.com/puppetutils/go-hiera/internal/runner"
)

const (
	exitNoValue = 1
	exitFailure = 2
)

func main() {
	kingpinApp := kingpin.New("hiera-get", "Resolve keys through the hiera hierarchical-configuration CLI")
	configFile := kingpinApp.Flag("config-file", "Path to YAML configuration file").String()
	hieraConfig := kingpinApp.Flag("config", "Path to the hiera configuration file").String()
	binary := kingpinApp.Flag("binary", "Hiera binary to invoke").String()
	varsFlag := kingpinApp.Flag("var", "Context variable as name=value (repeatable)").Strings()
	rateLimitRPSFlag := kingpinApp.Flag("rate-limit-rps", "Lookups per second for batch runs (set 0 to disable)").Default("-1").Float64()
	rateLimitBurstFlag := kingpinApp.Flag("rate-limit-burst", "Burst capacity for batch pacing (set 0 to disable)").Default("-1").Int()
	verbose := kingpinApp.Flag("verbose", "Enable debug logging").Short('v').Bool()
	keys := kingpinApp.Arg("key", "Keys to look up").Required().Strings()

	kingpin.MustParse(kingpinApp.Parse(os.Args[1:]))

	overrides := &config.CLIOverrides{
		ConfigFile: *configFile,
		Vars:       *varsFlag,
	}

	if *hieraConfig != "" {
		overrides.HieraConfig = hieraConfig
	}

	if *binary != "" {
		overrides.Binary = binary
	}

	if *rateLimitRPSFlag >= 0 {
		overrides.RateLimitRPS = rateLimitRPSFlag
	}

	if *rateLimitBurstFlag >= 0 {
		overrides.RateLimitBurst = rateLimitBurstFlag
	}

	if *verbose {
		overrides.Verbose = verbose
	}

	cfg, err := config.Load(overrides)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(exitFailure)
	}

	logger, err := logging.New(cfg.Verbose)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(exitFailure)
	}
	defer func() {
		_ = logger.Sync()
	}()

	application, err := app.New(cfg, logger)
	if err != nil {
		logger.Error("failed to initialize lookup client", zap.Error(err))
		_ = logger.Sync()
		os.Exit(exitFailure)
	}

	results, err := application.Lookup(context.Background(), *keys)
	if err != nil {
		logger.Error("lookup failed", zap.Error(err))
		_ = logger.Sync()
		os.Exit(exitFailure)
	}

	if !printResults(os.Stdout, results) {
		os.Exit(exitNoValue)
	}
}

// printResults writes resolved values to w and reports whether every key
// produced a value. A single key prints its bare value; multiple keys print
// key=value lines so the output stays parseable.
func printResults(w io.Writer, results []runner.Result) bool {
	allFound := true
	single := len(results) == 1

	for _, res := range results {
		if !res.Found {
			allFound = false
			continue
		}
		if single {
			fmt.Fprintln(w, res.Value)
			continue
		}
		fmt.Fprintf(w, "%s=%s\n", res.Key, res.Value)
	}
	return allFound
}
