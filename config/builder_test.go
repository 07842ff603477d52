package config

import (
	"testing"

	"github.com/higuaro/stackwatch"
)

func TestBuildOptions(t *testing.T) {
	cfg, err := Parse([]byte(`
site: superuser
tags: [linux]
poll_minutes: 7
api_key: k
dedupe: 32
`))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	w, err := stackwatch.New(BuildOptions(cfg)...)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if got := w.PollMinutes(); got != 7 {
		t.Errorf("PollMinutes() = %d, want 7", got)
	}
	tags := w.Tags()
	if len(tags) != 1 || tags[0] != "linux" {
		t.Errorf("Tags() = %v, want [linux]", tags)
	}
}

func TestBuildOptions_MinimalConfig(t *testing.T) {
	cfg, err := Parse([]byte(`tags: []`))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if _, err := stackwatch.New(BuildOptions(cfg)...); err != nil {
		t.Errorf("New() error = %v, want minimal config to build", err)
	}
}
