package stackwatch

import (
	"errors"
	"log/slog"
	"net/http"
	"time"
)

const (
	defaultSite        = "stackoverflow"
	defaultPollMinutes = 5
	defaultUserAgent   = "stackwatch"
)

// watcherConfig holds mutable state during [Watcher] construction.
type watcherConfig struct {
	site            string
	tags            []string
	pollMinutes     int
	apiKey          string
	apiRoot         string
	userAgent       string
	requestTimeout  time.Duration
	maxConcurrency  int
	logger          *slog.Logger
	resultCallbacks []func(CycleResult)
	ignorable       func(error) bool
	dedupeEnabled   bool
	dedupeCapacity  int
	httpClient      *http.Client
}

// Option is a function that configures a [Watcher] during construction.
//
// Option implements the functional options pattern, allowing optional
// configuration to be passed to [New] in a type-safe, extensible way.
// Options return an error if validation fails.
type Option func(*watcherConfig) error

// WithSite sets the Stack Exchange site to query.
//
// The value is the API's site identifier, e.g. "stackoverflow",
// "superuser", "askubuntu". Defaults to "stackoverflow".
//
// Returns an error if the site is empty.
func WithSite(site string) Option {
	return func(cfg *watcherConfig) error {
		if site == "" {
			return errors.New("site cannot be empty")
		}
		cfg.site = site
		return nil
	}
}

// WithTags sets the tags whose new questions are watched.
//
// Tags are trimmed and deduplicated preserving order; empty entries are
// dropped. An empty tag set is allowed: cycles then complete immediately
// with an empty batch and no requests issued. Only the first ten tags are
// queried per cycle (the API's fan-out limit); the rest stay in
// configuration and are ignored.
//
// Example:
//
//	w, err := stackwatch.New(
//	    stackwatch.WithTags("go", "rust"),
//	)
func WithTags(tags ...string) Option {
	return func(cfg *watcherConfig) error {
		cfg.tags = NormalizeTags(tags)
		return nil
	}
}

// WithPollMinutes sets the poll interval in whole minutes.
//
// The same value defines the search window: each cycle asks for questions
// created in the last n minutes. Defaults to 5.
//
// Returns an error if n is less than 1.
func WithPollMinutes(n int) Option {
	return func(cfg *watcherConfig) error {
		if n < 1 {
			return errors.New("poll minutes must be at least 1")
		}
		cfg.pollMinutes = n
		return nil
	}
}

// WithAPIKey sets the Stack Exchange API key sent with every request.
//
// A key raises the API's request quota considerably. Without one the
// anonymous quota applies and throttling kicks in sooner.
func WithAPIKey(key string) Option {
	return func(cfg *watcherConfig) error {
		cfg.apiKey = key
		return nil
	}
}

// WithAPIRoot overrides the API base URL.
//
// Intended for tests and API-compatible proxies. Defaults to the public
// Stack Exchange API root.
//
// Returns an error if the root is empty.
func WithAPIRoot(root string) Option {
	return func(cfg *watcherConfig) error {
		if root == "" {
			return errors.New("api root cannot be empty")
		}
		cfg.apiRoot = root
		return nil
	}
}

// WithUserAgent sets the User-Agent header sent with every request.
// Defaults to "stackwatch".
//
// Returns an error if the user agent is empty.
func WithUserAgent(ua string) Option {
	return func(cfg *watcherConfig) error {
		if ua == "" {
			return errors.New("user agent cannot be empty")
		}
		cfg.userAgent = ua
		return nil
	}
}

// WithRequestTimeout sets the per-request HTTP timeout. Defaults to 10
// seconds.
//
// Returns an error if the duration is zero or negative.
func WithRequestTimeout(d time.Duration) Option {
	return func(cfg *watcherConfig) error {
		if d <= 0 {
			return errors.New("request timeout must be positive")
		}
		cfg.requestTimeout = d
		return nil
	}
}

// WithMaxConcurrency limits the number of per-tag requests in flight at
// once within a cycle. Defaults to 10, matching the per-cycle tag cap.
//
// Returns an error if the value is zero or negative.
func WithMaxConcurrency(n int) Option {
	return func(cfg *watcherConfig) error {
		if n <= 0 {
			return errors.New("max concurrency must be positive")
		}
		cfg.maxConcurrency = n
		return nil
	}
}

// WithLogger sets a custom [slog.Logger] for the watcher.
//
// If not specified, [slog.Default] is used.
//
// Example:
//
//	logger := slog.New(slog.NewJSONHandler(os.Stderr, nil))
//	w, err := stackwatch.New(
//	    stackwatch.WithTags("go"),
//	    stackwatch.WithLogger(logger),
//	)
//
// Returns an error if the logger is nil.
func WithLogger(logger *slog.Logger) Option {
	return func(cfg *watcherConfig) error {
		if logger == nil {
			return errors.New("logger cannot be nil")
		}
		cfg.logger = logger
		return nil
	}
}

// WithResultCallback registers a function invoked once per poll cycle with
// that cycle's [CycleResult].
//
// Multiple callbacks may be registered by calling WithResultCallback
// multiple times; they execute in registration order.
//
// Callbacks must be non-blocking; long-running work should be dispatched
// to a separate goroutine, or it will delay the delivery of subsequent
// cycles. Callbacks are invoked from the cycle's goroutine. Panics within
// callbacks are recovered and logged; they do not crash the watcher.
//
// Nil callbacks are silently ignored.
func WithResultCallback(cb func(CycleResult)) Option {
	return func(cfg *watcherConfig) error {
		if cb == nil {
			return nil // no-op for nil callback (safe to call)
		}
		cfg.resultCallbacks = append(cfg.resultCallbacks, cb)
		return nil
	}
}

// WithIgnorableClassifier sets the predicate that decides which transport
// errors are transient local conditions rather than reportable failures.
//
// An ignorable per-tag error contributes an empty result instead of a
// failure, so the host machine briefly losing its network does not flood
// the failure surface. Defaults to [DefaultIgnorableClassifier].
//
// Returns an error if the classifier is nil.
func WithIgnorableClassifier(f func(error) bool) Option {
	return func(cfg *watcherConfig) error {
		if f == nil {
			return errors.New("ignorable classifier cannot be nil")
		}
		cfg.ignorable = f
		return nil
	}
}

// WithDeduplication suppresses re-delivery of questions already seen in
// earlier cycles.
//
// Poll windows overlap at cycle boundaries, so without deduplication the
// same question can appear in consecutive batches. The watcher remembers
// up to capacity delivered ids, evicting oldest first; a capacity of zero
// or less uses a default of 1024.
func WithDeduplication(capacity int) Option {
	return func(cfg *watcherConfig) error {
		cfg.dedupeEnabled = true
		cfg.dedupeCapacity = capacity
		return nil
	}
}

// WithHTTPClient overrides the HTTP client used for API requests.
//
// Intended for tests and callers with bespoke transport needs. The
// watcher still applies its per-request timeout via context.
//
// Returns an error if the client is nil.
func WithHTTPClient(c *http.Client) Option {
	return func(cfg *watcherConfig) error {
		if c == nil {
			return errors.New("http client cannot be nil")
		}
		cfg.httpClient = c
		return nil
	}
}
