package config

import (
	"fmt"
	"strings"
)

// Output formats accepted by --output.
var validOutputs = []string{"text", "json", "yaml"}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	valid := false
	for _, o := range validOutputs {
		if c.Output == o {
			valid = true
			break
		}
	}
	if !valid {
		return fmt.Errorf("invalid output format %q (want one of %s)", c.Output, strings.Join(validOutputs, ", "))
	}
	if c.Jobs < 0 {
		return fmt.Errorf("jobs must not be negative, got %d", c.Jobs)
	}
	if c.OutDir == "" {
		return fmt.Errorf("out_dir is required")
	}
	if c.Watch.Debounce < 0 {
		return fmt.Errorf("watch.debounce must not be negative, got %s", c.Watch.Debounce)
	}
	for _, ext := range c.Watch.Extensions {
		if !strings.HasPrefix(ext, ".") {
			return fmt.Errorf("watch extension %q must start with '.'", ext)
		}
	}
	return nil
}

// OutputFormats returns the accepted --output values.
func OutputFormats() []string {
	return append([]string(nil), validOutputs...)
}
