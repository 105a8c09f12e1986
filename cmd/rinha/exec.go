package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"rinha/interpreter-go/pkg/ast"
	"rinha/interpreter-go/pkg/driver"
	"rinha/interpreter-go/pkg/interpreter"
	"rinha/interpreter-go/pkg/runtime"
)

type runTarget struct {
	path    string
	buffer  int
	timeout time.Duration
}

func runEntry(args []string, opts globalOptions) int {
	if len(args) > 1 {
		fmt.Fprintf(os.Stderr, "rinha run: unexpected arguments: %v\n", args[1:])
		return exitUsage
	}

	target := runTarget{buffer: driver.DefaultOutputBuffer}
	if len(args) == 1 {
		target.path = args[0]
	} else {
		cfg, err := loadProjectConfig()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return exitFailure
		}
		path, err := resolveConfiguredProgram(cfg)
		if err != nil {
			fmt.Fprintln(os.Stderr, interpreter.DescribeError(err))
			return exitFailure
		}
		target.path = path
		target.buffer = cfg.Output.Buffer
		target.timeout = cfg.Timeout
	}
	if opts.timeoutSet {
		target.timeout = opts.timeout
	}
	return executeProgram(target)
}

func executeProgram(target runTarget) int {
	program, err := driver.LoadProgram(target.path)
	if err != nil {
		fmt.Fprintln(os.Stderr, interpreter.DescribeError(err))
		return exitFailure
	}

	var (
		printer interpreter.Printer
		flush   = func() error { return nil }
	)
	if target.buffer > 0 {
		buffered := interpreter.NewBufferedPrinter(os.Stdout, target.buffer)
		printer, flush = buffered, buffered.Flush
	} else {
		printer = interpreter.NewWriterPrinter(os.Stdout)
	}
	interp := interpreter.New(interpreter.WithPrinter(printer))

	ctx := context.Background()
	if target.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, target.timeout)
		defer cancel()
	}

	_, evalErr := evaluateWithContext(ctx, interp, program)
	if err := flush(); err != nil {
		fmt.Fprintf(os.Stderr, "warning: flush output: %v\n", err)
	}
	if evalErr != nil {
		fmt.Fprintln(os.Stderr, interpreter.DescribeError(evalErr))
		return exitFailure
	}
	return exitOK
}

// evaluateWithContext abandons the evaluation when ctx expires. The worker
// goroutine is left to finish on its own; the process exits right after.
func evaluateWithContext(ctx context.Context, interp *interpreter.Interpreter, program *ast.File) (runtime.Value, error) {
	if ctx.Done() == nil {
		return interp.EvaluateFile(program)
	}
	type outcome struct {
		value runtime.Value
		err   error
	}
	done := make(chan outcome, 1)
	go func() {
		value, err := interp.EvaluateFile(program)
		done <- outcome{value: value, err: err}
	}()
	select {
	case res := <-done:
		return res.value, res.err
	case <-ctx.Done():
		return nil, fmt.Errorf("evaluation of %s stopped: %w", program.Name, ctx.Err())
	}
}

func runCheck(args []string) int {
	if len(args) != 1 {
		fmt.Fprintln(os.Stderr, "rinha check expects exactly one program file")
		return exitUsage
	}
	program, err := driver.LoadProgram(args[0])
	if err != nil {
		fmt.Fprintln(os.Stderr, interpreter.DescribeError(err))
		return exitFailure
	}
	fmt.Fprintf(os.Stdout, "%s: ok\n", program.Name)
	return exitOK
}

func runFetch(args []string) int {
	if len(args) != 0 {
		fmt.Fprintf(os.Stderr, "rinha fetch: unexpected arguments: %v\n", args)
		return exitUsage
	}
	cfg, err := loadProjectConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return exitFailure
	}
	if cfg.Source == nil {
		fmt.Fprintf(os.Stderr, "warning: %s names a local program; nothing to fetch\n", cfg.Path)
		return exitOK
	}
	fetcher, err := newFetcher()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return exitFailure
	}
	fetched, err := fetcher.Fetch(cfg.Source)
	if err != nil {
		fmt.Fprintf(os.Stderr, "rinha fetch: %v\n", err)
		return exitFailure
	}
	fmt.Fprintf(os.Stdout, "fetched %s@%s -> %s\n", cfg.Source.Git, fetched.Version, fetched.Path)
	return exitOK
}

func loadProjectConfig() (*driver.Config, error) {
	path, err := driver.FindConfig(".")
	if err != nil {
		if errors.Is(err, driver.ErrConfigNotFound) {
			return nil, fmt.Errorf("no program file given and %s not found", driver.ConfigFileName)
		}
		return nil, err
	}
	return driver.LoadConfig(path)
}

func resolveConfiguredProgram(cfg *driver.Config) (string, error) {
	if cfg.Source == nil {
		return driver.ResolveProgram(cfg, nil)
	}
	fetcher, err := newFetcher()
	if err != nil {
		return "", err
	}
	return driver.ResolveProgram(cfg, fetcher)
}

func newFetcher() (*driver.GitFetcher, error) {
	dir, err := driver.DefaultCacheDir()
	if err != nil {
		return nil, err
	}
	return driver.NewGitFetcher(dir), nil
}
