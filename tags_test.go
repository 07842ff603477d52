package stackwatch

import (
	"reflect"
	"testing"
)

func TestNormalizeTags(t *testing.T) {
	tests := []struct {
		name string
		in   []string
		want []string
	}{
		{"nil", nil, []string{}},
		{"trims whitespace", []string{"  go  ", "rust "}, []string{"go", "rust"}},
		{"drops empties", []string{"go", "", "   ", "rust"}, []string{"go", "rust"}},
		{"dedups preserving order", []string{"rust", "go", "rust", "go"}, []string{"rust", "go"}},
		{"case sensitive", []string{"Go", "go"}, []string{"Go", "go"}},
		{"beyond the query cap is kept", []string{
			"t1", "t2", "t3", "t4", "t5", "t6", "t7", "t8", "t9", "t10", "t11", "t12",
		}, []string{
			"t1", "t2", "t3", "t4", "t5", "t6", "t7", "t8", "t9", "t10", "t11", "t12",
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeTags(tt.in); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("NormalizeTags(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseTagList(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"go, rust", []string{"go", "rust"}},
		{"go,rust,go", []string{"go", "rust"}},
		{"", []string{}},
		{" , , ", []string{}},
		{"single", []string{"single"}},
	}

	for _, tt := range tests {
		if got := ParseTagList(tt.in); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("ParseTagList(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
