package driver

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// ConfigFileName is the project file looked up by FindConfig.
const ConfigFileName = "rinha.yml"

// DefaultOutputBuffer is the print buffer size used when rinha.yml does not
// set one.
const DefaultOutputBuffer = 4096

var ErrConfigNotFound = errors.New("rinha.yml not found")

// Config represents the parsed contents of rinha.yml.
type Config struct {
	Path    string
	Name    string
	Program string
	Source  *GitSource
	Output  OutputConfig
	Timeout time.Duration
}

// GitSource locates a program file inside a git repository.
type GitSource struct {
	Git    string
	Rev    string
	Tag    string
	Branch string
	Path   string
}

// OutputConfig controls the print sink.
type OutputConfig struct {
	// Buffer is the sink buffer size in bytes; zero writes every line through.
	Buffer int
}

// ValidationError aggregates configuration failures.
type ValidationError struct {
	Issues []string
}

func (e *ValidationError) Error() string {
	if len(e.Issues) == 0 {
		return "config: invalid configuration"
	}
	var b strings.Builder
	b.WriteString("config validation failed:")
	for _, issue := range e.Issues {
		b.WriteString("\n- ")
		b.WriteString(issue)
	}
	return b.String()
}

type configFile struct {
	Name    string         `yaml:"name"`
	Program string         `yaml:"program"`
	Source  *gitSourceFile `yaml:"source"`
	Output  *outputFile    `yaml:"output"`
	Timeout string         `yaml:"timeout"`
}

type gitSourceFile struct {
	Git    string `yaml:"git"`
	Rev    string `yaml:"rev"`
	Tag    string `yaml:"tag"`
	Branch string `yaml:"branch"`
	Path   string `yaml:"path"`
}

type outputFile struct {
	Buffer *int `yaml:"buffer"`
}

// LoadConfig parses rinha.yml from disk, returning a validated config with
// paths resolved against the file's directory.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config: empty path")
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("config: resolve %s: %w", path, err)
	}
	file, err := os.Open(absPath)
	if err != nil {
		return nil, fmt.Errorf("config: open %s: %w", absPath, err)
	}
	defer file.Close()

	decoder := yaml.NewDecoder(file)
	decoder.KnownFields(true)

	var raw configFile
	if err := decoder.Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("config: %s is empty", absPath)
		}
		return nil, fmt.Errorf("config: parse %s: %w", absPath, err)
	}
	return raw.toConfig(absPath)
}

func (raw *configFile) toConfig(absPath string) (*Config, error) {
	var issues []string
	cfg := &Config{
		Path:   absPath,
		Name:   strings.TrimSpace(raw.Name),
		Output: OutputConfig{Buffer: DefaultOutputBuffer},
	}

	program := strings.TrimSpace(raw.Program)
	switch {
	case program != "" && raw.Source != nil:
		issues = append(issues, "program and source are mutually exclusive")
	case program == "" && raw.Source == nil:
		issues = append(issues, "one of program or source is required")
	case program != "":
		if !filepath.IsAbs(program) {
			program = filepath.Join(filepath.Dir(absPath), program)
		}
		cfg.Program = filepath.Clean(program)
	default:
		src, srcIssues := raw.Source.toGitSource()
		issues = append(issues, srcIssues...)
		cfg.Source = src
	}

	if raw.Output != nil && raw.Output.Buffer != nil {
		if *raw.Output.Buffer < 0 {
			issues = append(issues, fmt.Sprintf("output.buffer must be >= 0 (got %d)", *raw.Output.Buffer))
		} else {
			cfg.Output.Buffer = *raw.Output.Buffer
		}
	}

	if timeout := strings.TrimSpace(raw.Timeout); timeout != "" {
		d, err := time.ParseDuration(timeout)
		switch {
		case err != nil:
			issues = append(issues, fmt.Sprintf("timeout %q: %v", timeout, err))
		case d < 0:
			issues = append(issues, fmt.Sprintf("timeout must not be negative (got %s)", d))
		default:
			cfg.Timeout = d
		}
	}

	if len(issues) > 0 {
		return nil, &ValidationError{Issues: issues}
	}
	return cfg, nil
}

func (raw *gitSourceFile) toGitSource() (*GitSource, []string) {
	src := &GitSource{
		Git:    strings.TrimSpace(raw.Git),
		Rev:    strings.TrimSpace(raw.Rev),
		Tag:    strings.TrimSpace(raw.Tag),
		Branch: strings.TrimSpace(raw.Branch),
		Path:   strings.TrimSpace(raw.Path),
	}
	var issues []string
	if src.Git == "" {
		issues = append(issues, "source.git is required")
	}
	if src.Path == "" {
		issues = append(issues, "source.path is required")
	} else if filepath.IsAbs(src.Path) || strings.HasPrefix(filepath.Clean(src.Path), "..") {
		issues = append(issues, fmt.Sprintf("source.path %q must be relative to the repository root", src.Path))
	}
	selectors := 0
	for _, v := range []string{src.Rev, src.Tag, src.Branch} {
		if v != "" {
			selectors++
		}
	}
	if selectors != 1 {
		issues = append(issues, "source requires exactly one of rev, tag, or branch")
	}
	return src, issues
}

// FindConfig walks up from start looking for rinha.yml.
func FindConfig(start string) (string, error) {
	dir, err := filepath.Abs(start)
	if err != nil {
		return "", err
	}
	for {
		candidate := filepath.Join(dir, ConfigFileName)
		info, err := os.Stat(candidate)
		if err == nil && !info.IsDir() {
			return candidate, nil
		}
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return "", err
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", ErrConfigNotFound
		}
		dir = parent
	}
}
