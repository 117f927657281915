package avatar

import (
	"reflect"
	"testing"
)

func TestParseGeneratedOptions(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []string
	}{
		{
			name: "clean lines",
			raw:  "What do you do?\nWhy pixels?\nWho made you?",
			want: []string{"What do you do?", "Why pixels?", "Who made you?"},
		},
		{
			name: "numbered despite instructions",
			raw:  "1. What do you do?\n2. Why pixels?\n3. Who made you?",
			want: []string{"What do you do?", "Why pixels?", "Who made you?"},
		},
		{
			name: "dashes and bullets",
			raw:  "- What do you do?\n• Why pixels?\n* Who made you?",
			want: []string{"What do you do?", "Why pixels?", "Who made you?"},
		},
		{
			name: "blank lines and padding",
			raw:  "\n  What do you do?  \n\n  Why pixels?\n",
			want: []string{"What do you do?", "Why pixels?"},
		},
		{
			name: "more lines than the cap",
			raw:  "a?\nb?\nc?\nd?\ne?",
			want: []string{"a?", "b?", "c?"},
		},
		{
			name: "only markers",
			raw:  "1.\n2.\n- ",
			want: nil,
		},
		{
			name: "empty input",
			raw:  "",
			want: nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseGeneratedOptions(tt.raw, maxGeneratedOptions)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseGeneratedOptions(%q) = %v, want %v", tt.raw, got, tt.want)
			}
		})
	}
}
