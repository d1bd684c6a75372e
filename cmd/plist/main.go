package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/jessevdk/go-flags"
)

// Options is the root of the command line. Struct tags are interpreted by
// github.com/jessevdk/go-flags.
type Options struct {
	Config string `short:"f" long:"config" description:"YAML configuration path"`

	Run  RunCmd  `command:"run"  description:"Execute a command script from a file or stdin"`
	Repl ReplCmd `command:"repl" description:"Interactive property list shell"`
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	opts := &Options{}
	opts.Run.root = opts
	opts.Run.ctx = ctx
	opts.Repl.root = opts
	opts.Repl.ctx = ctx

	parser := flags.NewParser(opts, flags.HelpFlag|flags.PassDoubleDash)
	if _, err := parser.Parse(); err != nil {
		if fe, ok := err.(*flags.Error); ok && fe.Type == flags.ErrHelp {
			fmt.Fprintln(os.Stdout, fe.Message)
			return
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// RunCmd executes a script non-interactively.
type RunCmd struct {
	root *Options
	ctx  context.Context

	Strict bool `long:"strict" description:"Stop at the first failing command"`

	Args struct {
		File string `positional-arg-name:"FILE" description:"Script path (stdin if empty)"`
	} `positional-args:"yes"`
}

func (c *RunCmd) Execute(_ []string) error {
	a, err := setup(c.root.Config)
	if err != nil {
		return err
	}
	defer a.Close()

	in := os.Stdin
	if c.Args.File != "" && c.Args.File != "-" {
		f, err := os.Open(c.Args.File)
		if err != nil {
			return fmt.Errorf("open script: %w", err)
		}
		defer f.Close()
		in = f
	}

	sh := a.newShell(os.Stdout, c.Strict)
	defer sh.Close()
	return sh.Run(c.ctx, in)
}

// ReplCmd starts the interactive shell. Without a terminal on stdin it
// behaves like run.
type ReplCmd struct {
	root *Options
	ctx  context.Context
}

func (c *ReplCmd) Execute(_ []string) error {
	if !isTerminal(os.Stdin) {
		run := RunCmd{root: c.root, ctx: c.ctx}
		return run.Execute(nil)
	}

	a, err := setup(c.root.Config)
	if err != nil {
		return err
	}
	defer a.Close()

	return runInteractive(c.ctx, a)
}
