// Command pipeit runs a pipeline described by a YAML file through the
// catalogue of pipeable stages and prints its result as JSON.
//
//	pipeit --config pipeit.yml --log-level debug
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"

	"github.com/KasperOmsK/pipeit/catalog"
	"github.com/KasperOmsK/pipeit/internal/config"
	"github.com/KasperOmsK/pipeit/internal/logger"
	"github.com/KasperOmsK/pipeit/internal/runner"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if !errors.Is(err, pflag.ErrHelp) {
			fmt.Fprintln(os.Stderr, "pipeit:", err)
		}
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	fs := pflag.NewFlagSet("pipeit", pflag.ContinueOnError)
	fs.SetOutput(stderr)
	configFile := fs.StringP("config", "c", "", "pipeline file (default: pipeit.yml in ., ./config or ./cmd/pipeit)")
	envFile := fs.String("env", "", "env file loaded before the environment is read (default: ./.env when present)")
	fs.String("log-level", "", "log level: trace, debug, info, warn, error or disabled")
	fs.String("log-format", "", "log format: console or json")
	list := fs.Bool("list", false, "list catalogue stages and exit")
	if err := fs.Parse(args); err != nil {
		return err
	}

	reg := catalog.New(catalog.WithOutput(stdout))
	if *list {
		for _, name := range reg.Names() {
			e, _ := reg.Lookup(name)
			fmt.Fprintf(stdout, "%-12s %s\n", e.Name, e.Policy)
		}
		return nil
	}

	cfg, err := config.Load(
		config.WithConfigFile(*configFile),
		config.WithEnvFile(*envFile),
		config.WithFlags(fs),
	)
	if err != nil {
		return err
	}

	log := logger.New(cfg.Log, logger.Outputs{Stdout: stdout, Stderr: stderr})

	r, err := runner.New(reg, runner.WithLogger(log))
	if err != nil {
		return err
	}

	out, err := r.Run(ctx, cfg.Pipeline)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(stdout)
	if err := enc.Encode(jsonable(out)); err != nil {
		return fmt.Errorf("failed to encode result: %w", err)
	}
	return nil
}

// jsonable rewrites the map[any]any values the catalogue builds into
// string-keyed maps encoding/json accepts.
func jsonable(v any) any {
	switch t := v.(type) {
	case map[any]any:
		m := make(map[string]any, len(t))
		for k, x := range t {
			m[fmt.Sprint(k)] = jsonable(x)
		}
		return m
	case map[string]any:
		m := make(map[string]any, len(t))
		for k, x := range t {
			m[k] = jsonable(x)
		}
		return m
	case []any:
		s := make([]any, len(t))
		for i, x := range t {
			s[i] = jsonable(x)
		}
		return s
	}
	return v
}
