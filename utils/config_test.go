package utils

import (
	"testing"
)

func TestParseIntList(t *testing.T) {
	tests := []struct {
		input string
		want  []int
		err   bool
	}{
		{"2,3,4", []int{2, 3, 4}, false},
		{"2 3 4", []int{2, 3, 4}, false},
		{"7", []int{7}, false},
		{"", nil, true},
		{"2,x", nil, true},
	}
	for _, tt := range tests {
		got, err := ParseIntList(tt.input)
		if tt.err {
			if err == nil {
				t.Errorf("ParseIntList(%q): expected error", tt.input)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseIntList(%q): %v", tt.input, err)
			continue
		}
		if len(got) != len(tt.want) {
			t.Errorf("ParseIntList(%q) = %v, want %v", tt.input, got, tt.want)
			continue
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Errorf("ParseIntList(%q) = %v, want %v", tt.input, got, tt.want)
				break
			}
		}
	}
}

func TestParseStringList(t *testing.T) {
	got := ParseStringList("mlp, rnn ,,kan")
	want := []string{"mlp", "rnn", "kan"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range got {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func validConfig() *BenchConfig {
	return &BenchConfig{
		Models:       []string{"mlp"},
		Widths:       []int{2, 3},
		Fn:           "parity",
		Seeds:        3,
		Hidden:       8,
		Epochs:       100,
		LearningRate: 0.01,
	}
}

func TestValidateBenchConfig(t *testing.T) {
	if err := ValidateBenchConfig(validConfig()); err != nil {
		t.Fatalf("valid config rejected: %v", err)
	}

	mutations := []func(*BenchConfig){
		func(c *BenchConfig) { c.Models = nil },
		func(c *BenchConfig) { c.Widths = nil },
		func(c *BenchConfig) { c.Widths = []int{0} },
		func(c *BenchConfig) { c.Seeds = 0 },
		func(c *BenchConfig) { c.Hidden = 0 },
		func(c *BenchConfig) { c.Epochs = 0 },
		func(c *BenchConfig) { c.LearningRate = 0 },
	}
	for i, mutate := range mutations {
		c := validConfig()
		mutate(c)
		if err := ValidateBenchConfig(c); err == nil {
			t.Errorf("mutation %d: expected validation error", i)
		}
	}
}
