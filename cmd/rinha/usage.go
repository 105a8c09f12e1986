package main

import (
	"fmt"
	"os"
)

func printUsage() {
	fmt.Fprintln(os.Stderr, "Usage:")
	fmt.Fprintln(os.Stderr, "  rinha [--timeout=DURATION] run [file.json]")
	fmt.Fprintln(os.Stderr, "  rinha [--timeout=DURATION] <file.json>")
	fmt.Fprintln(os.Stderr, "  rinha check <file.json>")
	fmt.Fprintln(os.Stderr, "  rinha fetch")
	fmt.Fprintln(os.Stderr, "  rinha --version")
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "Without a file, run reads the program named by rinha.yml.")
}
