package config

import (
	"github.com/higuaro/stackwatch"
)

// BuildOptions converts parsed configuration into SDK options for
// [stackwatch.New].
//
// Callback and logger options are the CLI's concern and are appended by
// the caller.
func BuildOptions(cfg *Config) []stackwatch.Option {
	opts := []stackwatch.Option{
		stackwatch.WithSite(cfg.Site),
		stackwatch.WithTags(cfg.Tags...),
		stackwatch.WithPollMinutes(cfg.PollMinutes),
	}

	if cfg.APIKey != "" {
		opts = append(opts, stackwatch.WithAPIKey(cfg.APIKey))
	}
	if cfg.Dedupe > 0 {
		opts = append(opts, stackwatch.WithDeduplication(cfg.Dedupe))
	}

	return opts
}
