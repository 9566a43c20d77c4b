// Command sqlbgen generates sql.HasFields methods for structs marked with
// the sqlb:fields directive.
//
//	sqlbgen [-config sqlbgen.yaml] [-watch] [-v] [packages]
//
// Packages default to the patterns of the config file, then "./...".
// With -watch, sqlbgen stays running and regenerates whenever a Go file
// in a watched directory changes.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/syssam/sqlb/compiler/gen"
	"github.com/syssam/sqlb/compiler/load"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := run(ctx, os.Args[1:], os.Stderr); err != nil {
		if !errors.Is(err, flag.ErrHelp) {
			fmt.Fprintf(os.Stderr, "sqlbgen: %v\n", err)
		}
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stderr io.Writer) error {
	fs := flag.NewFlagSet("sqlbgen", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var (
		configPath = fs.String("config", "", "path to a YAML config file")
		watch      = fs.Bool("watch", false, "regenerate when sources change")
		verbose    = fs.Bool("v", false, "log every generated file")
	)
	if err := fs.Parse(args); err != nil {
		return err
	}

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	fc := &fileConfig{}
	if *configPath != "" {
		var err error
		if fc, err = readConfig(*configPath); err != nil {
			return err
		}
	}
	patterns := fs.Args()
	if len(patterns) == 0 {
		patterns = fc.Patterns
	}
	if len(patterns) == 0 {
		patterns = []string{"./..."}
	}
	cfg, err := gen.NewConfig(append(fc.options(), gen.WithLogger(logger))...)
	if err != nil {
		return err
	}
	g := &generator{
		load:     &load.Config{BuildFlags: fc.BuildFlags},
		gen:      cfg,
		patterns: patterns,
		log:      logger,
	}
	if *watch {
		return g.watch(ctx, defaultDebounce)
	}
	_, err = g.run(ctx)
	return err
}

type generator struct {
	load     *load.Config
	gen      *gen.Config
	patterns []string
	log      *slog.Logger
}

// run loads the packages and generates their files once.
func (g *generator) run(ctx context.Context) ([]*load.Package, error) {
	start := time.Now()
	pkgs, err := g.load.Load(ctx, g.patterns...)
	if err != nil {
		return nil, err
	}
	paths, err := gen.Generate(ctx, g.gen, pkgs)
	if err != nil {
		return nil, err
	}
	g.log.InfoContext(ctx, "generation complete", "packages", len(pkgs), "files", len(paths), "elapsed", time.Since(start))
	return pkgs, nil
}
