package utils

import (
	"fmt"
	"strconv"
	"strings"
)

// BenchConfig holds the sweep configuration for the comparison benchmark.
type BenchConfig struct {
	Models       []string
	Widths       []int
	Fn           string
	Seeds        int
	Hidden       int
	Grid         int
	Epochs       int
	LearningRate float64
}

// ParseIntList parses a comma- or space-separated list of integers,
// e.g. "2,3,4" or "2 3 4".
func ParseIntList(s string) ([]int, error) {
	parts := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' '
	})
	if len(parts) == 0 {
		return nil, fmt.Errorf("empty integer list")
	}
	out := make([]int, len(parts))
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return nil, fmt.Errorf("invalid integer %q: %w", p, err)
		}
		out[i] = n
	}
	return out, nil
}

// ParseStringList splits a comma-separated list, trimming whitespace.
func ParseStringList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// ValidateBenchConfig validates the benchmark sweep configuration.
func ValidateBenchConfig(c *BenchConfig) error {
	if len(c.Models) == 0 {
		return fmt.Errorf("at least one model is required")
	}
	if len(c.Widths) == 0 {
		return fmt.Errorf("at least one input width is required")
	}
	for _, w := range c.Widths {
		if w < 1 {
			return fmt.Errorf("input width must be positive, got %d", w)
		}
	}
	if c.Seeds < 1 {
		return fmt.Errorf("seeds must be positive")
	}
	if c.Hidden < 1 {
		return fmt.Errorf("hidden size must be positive")
	}
	if c.Epochs < 1 {
		return fmt.Errorf("epochs must be positive")
	}
	if c.LearningRate <= 0 {
		return fmt.Errorf("learning rate must be positive")
	}
	return nil
}
