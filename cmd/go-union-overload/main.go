package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/alexflint/go-arg"
	"github.com/sirkon/message"

	"github.com/sirkon/go-union/internal/collect"
	"github.com/sirkon/go-union/internal/config"
	"github.com/sirkon/go-union/internal/generator"
)

type arguments struct {
	Config   string   `arg:"-c" help:"configuration file, .go-union.toml is used if it exists"`
	Workers  int      `arg:"-j" help:"declarations processed in parallel, 0 for the number of CPUs"`
	Rounds   int      `arg:"-r" help:"generation rounds to resolve declarations that depend on generated code"`
	Prune    bool     `help:"remove generated files no declaration produces anymore"`
	DryRun   bool     `arg:"-n" help:"print generated code instead of writing files"`
	Quiet    bool     `arg:"-q" help:"report only warnings and errors"`
	PATTERNS []string `arg:"positional" help:"package patterns to process, the current package by default"`
}

func main() {
	var args arguments
	p := arg.MustParse(&args)

	if args.Workers < 0 {
		p.Fail("workers must not be negative")
	}
	if args.Rounds < 0 {
		p.Fail("rounds must not be negative")
	}

	cfg, err := config.Load(args.Config)
	if err != nil {
		message.Fatal(err)
	}
	if args.Workers > 0 {
		cfg.Workers = args.Workers
	}
	if args.Rounds > 0 {
		cfg.Rounds = args.Rounds
	}
	if args.Prune {
		cfg.Prune = true
	}
	if len(args.PATTERNS) == 0 {
		args.PATTERNS = []string{"."}
	}

	var writer generator.Writer = generator.FileWriter{}
	if args.DryRun {
		writer = &generator.DryRunWriter{W: os.Stdout}
		// nothing is written, so nothing is stale
		cfg.Prune = false
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	loader := &collect.PackagesLoader{Tests: true}
	g := generator.New(loader, writer, reporter{quiet: args.Quiet}, cfg.Generator())
	report, err := g.Run(ctx, args.PATTERNS...)
	if err != nil {
		message.Fatal(err)
	}
	if err := report.Err(); err != nil {
		message.Fatal(err)
	}
}

// reporter prints generator diagnostics
type reporter struct {
	quiet bool
}

func (r reporter) Infof(format string, a ...interface{}) {
	if r.quiet {
		return
	}
	message.Infof(format, a...)
}

func (reporter) Warningf(format string, a ...interface{}) {
	message.Warningf(format, a...)
}

func (reporter) Errorf(format string, a ...interface{}) {
	message.Errorf(format, a...)
}
