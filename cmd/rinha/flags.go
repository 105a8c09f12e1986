package main

import (
	"fmt"
	"strings"
	"time"
)

type globalOptions struct {
	timeout    time.Duration
	timeoutSet bool
}

func parseGlobalFlags(args []string) (globalOptions, []string, error) {
	var opts globalOptions
	remaining := make([]string, 0, len(args))
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if arg == "--" {
			remaining = append(remaining, args[i+1:]...)
			break
		}
		switch {
		case arg == "--timeout":
			if i+1 >= len(args) {
				return opts, nil, fmt.Errorf("--timeout expects a value")
			}
			d, err := parseTimeoutValue(args[i+1])
			if err != nil {
				return opts, nil, err
			}
			opts.timeout, opts.timeoutSet = d, true
			i++
		case strings.HasPrefix(arg, "--timeout="):
			d, err := parseTimeoutValue(strings.TrimPrefix(arg, "--timeout="))
			if err != nil {
				return opts, nil, err
			}
			opts.timeout, opts.timeoutSet = d, true
		default:
			remaining = append(remaining, arg)
		}
	}
	return opts, remaining, nil
}

func parseTimeoutValue(value string) (time.Duration, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, fmt.Errorf("--timeout expects a value")
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid --timeout value '%s': %v", value, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("--timeout must not be negative")
	}
	return d, nil
}
