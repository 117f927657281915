package util

import "testing"

func TestParseBoolEnv(t *testing.T) {
	tests := []struct {
		value        string
		defaultValue bool
		want         bool
	}{
		{"true", false, true},
		{"1", false, true},
		{"YES", false, true},
		{"on", false, true},
		{"false", true, false},
		{"0", true, false},
		{"No", true, false},
		{"off", true, false},
		{" true ", false, true},
		{"", true, true},
		{"", false, false},
		{"maybe", true, true},
		{"maybe", false, false},
	}
	for _, tt := range tests {
		t.Setenv("TEST_BOOL", tt.value)
		if got := ParseBoolEnv("TEST_BOOL", tt.defaultValue); got != tt.want {
			t.Errorf("ParseBoolEnv(%q, %v) = %v, want %v", tt.value, tt.defaultValue, got, tt.want)
		}
	}
}

func TestParseIntEnv(t *testing.T) {
	tests := []struct {
		value        string
		defaultValue int
		want         int
	}{
		{"42", 0, 42},
		{"-7", 0, -7},
		{" 10 ", 0, 10},
		{"", 5, 5},
		{"abc", 5, 5},
		{"4.2", 5, 5},
	}
	for _, tt := range tests {
		t.Setenv("TEST_INT", tt.value)
		if got := ParseIntEnv("TEST_INT", tt.defaultValue); got != tt.want {
			t.Errorf("ParseIntEnv(%q, %d) = %d, want %d", tt.value, tt.defaultValue, got, tt.want)
		}
	}
}

func TestPickRandomLine(t *testing.T) {
	if got := PickRandomLine(nil); got != "" {
		t.Errorf("PickRandomLine(nil) = %q, want empty", got)
	}
	if got := PickRandomLine([]string{"only"}); got != "only" {
		t.Errorf("PickRandomLine single = %q, want only", got)
	}

	lines := []string{"a", "b", "c"}
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		got := PickRandomLine(lines)
		if got != "a" && got != "b" && got != "c" {
			t.Fatalf("PickRandomLine returned unexpected value %q", got)
		}
		seen[got] = true
	}
	if len(seen) < 2 {
		t.Error("PickRandomLine never varied across 100 draws")
	}
}
