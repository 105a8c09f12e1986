package main

import (
	"fmt"
	"os"
)

const cliToolVersion = "rinha-cli 0.0.0-dev"

const (
	exitOK      = 0
	exitFailure = 1
	exitUsage   = 2
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	if len(args) == 0 {
		printUsage()
		return exitUsage
	}

	opts, remaining, err := parseGlobalFlags(args)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return exitUsage
	}
	if len(remaining) == 0 {
		printUsage()
		return exitUsage
	}

	switch remaining[0] {
	case "--help", "-h":
		printUsage()
		return exitOK
	case "--version", "-V", "version":
		fmt.Fprintln(os.Stdout, cliToolVersion)
		return exitOK
	case "run":
		return runEntry(remaining[1:], opts)
	case "check":
		return runCheck(remaining[1:])
	case "fetch":
		return runFetch(remaining[1:])
	default:
		return runEntry(remaining, opts)
	}
}
