package driver

import (
	"fmt"
	"os"
	"path/filepath"

	"rinha/interpreter-go/pkg/ast"
)

// LoadProgram reads and decodes a JSON program file.
func LoadProgram(path string) (*ast.File, error) {
	if path == "" {
		return nil, fmt.Errorf("loader: empty path")
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("loader: resolve %s: %w", path, err)
	}
	file, err := os.Open(absPath)
	if err != nil {
		return nil, fmt.Errorf("loader: open %s: %w", absPath, err)
	}
	defer file.Close()

	program, err := ast.DecodeFile(file)
	if err != nil {
		return nil, fmt.Errorf("loader: %s: %w", absPath, err)
	}
	if program.Name == "" {
		program.Name = filepath.Base(absPath)
	}
	return program, nil
}

// ResolveProgram returns the local path of the program cfg points at,
// fetching it through fetcher when the config names a git source.
func ResolveProgram(cfg *Config, fetcher *GitFetcher) (string, error) {
	if cfg == nil {
		return "", fmt.Errorf("loader: nil config")
	}
	if cfg.Program != "" {
		return cfg.Program, nil
	}
	if cfg.Source == nil {
		return "", fmt.Errorf("loader: config %s names no program", cfg.Path)
	}
	fetched, err := fetcher.Fetch(cfg.Source)
	if err != nil {
		return "", err
	}
	return fetched.Path, nil
}
