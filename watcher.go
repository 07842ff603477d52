package stackwatch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/higuaro/stackwatch/internal/stackexchange"
	"github.com/higuaro/stackwatch/internal/store"
)

// State is the lifecycle state of a [Watcher].
//
// State is a string type that can hold one of four predefined values:
// [StateIdle], [StateRunning], [StateCooldown], or [StateDisabled].
type State string

const (
	// StateIdle means the watcher was never started or was explicitly
	// stopped.
	StateIdle State = "idle"

	// StateRunning means the interval timer is armed and cycles run
	// normally.
	StateRunning State = "running"

	// StateCooldown means the API signalled rate limiting and the watcher
	// is counting down before resuming. Cooldown cannot be interrupted by
	// [Watcher.Toggle].
	StateCooldown State = "cooldown"

	// StateDisabled means the caller toggled the watcher off. Re-enabling
	// via [Watcher.Toggle] returns it to [StateRunning].
	StateDisabled State = "disabled"
)

// String returns the string representation of the state.
// This implements the fmt.Stringer interface.
func (s State) String() string {
	return string(s)
}

// ErrDisabled is returned by [Watcher.Reconfigure] while the watcher is
// disabled; configuration changes are applied through a re-enable instead.
var ErrDisabled = errors.New("watcher is disabled")

// DefaultIgnorableClassifier is the transport-error classifier used when
// none is configured via [WithIgnorableClassifier].
//
// It treats cancelled requests and no-network conditions (DNS failure,
// connection refused/unreachable) as ignorable.
var DefaultIgnorableClassifier = stackexchange.DefaultIgnorable

// Watcher periodically polls the Stack Exchange API for newly created
// questions matching its configured tags.
//
// A Watcher owns at most one in-flight poll cycle and the timers driving
// it. Cycles fan out one concurrent request per tag and complete with
// exactly one [CycleResult], delivered to the registered callbacks. The
// watcher reacts to API throttling by entering a cooldown during which no
// polling occurs and [Watcher.Toggle] is ignored.
//
// All methods are safe for concurrent use.
type Watcher struct {
	client *stackexchange.Client
	logger *slog.Logger

	callbacks []func(CycleResult)
	seen      store.Store // nil when deduplication is disabled

	mu          sync.Mutex
	state       State
	site        string
	tags        []string
	pollMinutes int
	apiKey      string
	apiRoot     string

	// generation distinguishes the current cycle and timers from stale
	// ones. Stop, Toggle and Reconfigure bump it so late completions and
	// timer fires become no-ops.
	generation uint64

	intervalTimer *time.Timer
	cooldownTimer *time.Timer
	cooldownLeft  int

	// minute is the unit of both the poll interval and the cooldown tick.
	// Shortened in tests.
	minute time.Duration
}

// New creates a [Watcher] with the given options.
//
// Defaults: site "stackoverflow", poll interval 5 minutes, no tags, no
// API key, user agent "stackwatch", [slog.Default] logging. The watcher
// starts in [StateIdle]; call [Watcher.Start] to begin polling.
//
// Returns an error if any option is invalid.
func New(opts ...Option) (*Watcher, error) {
	cfg := &watcherConfig{
		site:        defaultSite,
		pollMinutes: defaultPollMinutes,
		userAgent:   defaultUserAgent,
	}

	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}

	logger := cfg.logger
	if logger == nil {
		logger = slog.Default()
	}

	client := stackexchange.NewClient(stackexchange.ClientConfig{
		UserAgent:      cfg.userAgent,
		Timeout:        cfg.requestTimeout,
		MaxConcurrency: cfg.maxConcurrency,
		Ignorable:      cfg.ignorable,
		Logger:         logger,
		HTTPClient:     cfg.httpClient,
	})

	w := &Watcher{
		client:      client,
		logger:      logger,
		callbacks:   cfg.resultCallbacks,
		state:       StateIdle,
		site:        cfg.site,
		tags:        cfg.tags,
		pollMinutes: cfg.pollMinutes,
		apiKey:      cfg.apiKey,
		apiRoot:     cfg.apiRoot,
		minute:      time.Minute,
	}
	if cfg.dedupeEnabled {
		w.seen = store.NewMemoryStore(cfg.dedupeCapacity)
	}
	return w, nil
}

// State returns the watcher's current lifecycle state.
func (w *Watcher) State() State {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state
}

// Tags returns a copy of the currently configured tag set.
func (w *Watcher) Tags() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]string(nil), w.tags...)
}

// PollMinutes returns the configured poll interval in minutes.
func (w *Watcher) PollMinutes() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.pollMinutes
}

// CooldownRemaining returns the remaining cooldown in whole minutes, or
// zero when the watcher is not cooling down.
func (w *Watcher) CooldownRemaining() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.state != StateCooldown {
		return 0
	}
	return w.cooldownLeft
}

// Start transitions the watcher to [StateRunning] and triggers an
// immediate poll cycle, then polls every configured interval.
//
// Start is valid from [StateIdle] and [StateDisabled]; in any other state
// it is a no-op. Start is non-blocking: cycles run on their own
// goroutines and report through the registered callbacks.
func (w *Watcher) Start() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.state != StateIdle && w.state != StateDisabled {
		return
	}
	w.state = StateRunning
	w.logger.Info("watcher started",
		"site", w.site,
		"tags", w.tags,
		"poll_minutes", w.pollMinutes,
	)
	w.launchCycleLocked()
}

// Stop cancels all timers, invalidates any cycle in flight, and
// transitions the watcher to [StateIdle].
//
// No cycle result is delivered after Stop returns. Stop is idempotent and
// valid from any state.
func (w *Watcher) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.invalidateLocked()
	if w.state != StateIdle {
		w.logger.Info("watcher stopped")
	}
	w.state = StateIdle
	w.client.Close()
}

// Toggle flips the watcher between enabled and disabled, the way a panel
// icon click would.
//
// From [StateDisabled] the watcher returns to [StateRunning] with an
// immediate cycle. From [StateIdle] or [StateRunning] it moves to
// [StateDisabled], invalidating any cycle in flight. While the watcher is
// in [StateCooldown] the call is ignored: rate limiting cannot be worked
// around by toggling.
func (w *Watcher) Toggle() {
	w.mu.Lock()
	defer w.mu.Unlock()

	switch w.state {
	case StateCooldown:
		w.logger.Warn("toggle ignored during cooldown", "minutes_left", w.cooldownLeft)
	case StateDisabled:
		w.state = StateRunning
		w.logger.Info("watcher enabled")
		w.launchCycleLocked()
	default: // StateIdle, StateRunning
		w.invalidateLocked()
		w.state = StateDisabled
		w.logger.Info("watcher disabled")
	}
}

// Reconfigure atomically replaces the tag set and poll interval, then
// restarts polling with a fresh immediate cycle.
//
// Any cycle in flight is invalidated; its late responses are discarded
// and its result never delivered. Valid from any state except
// [StateDisabled], where it returns [ErrDisabled]. An invalid interval
// returns an error and leaves the previous configuration active.
func (w *Watcher) Reconfigure(tags []string, pollMinutes int) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.state == StateDisabled {
		return ErrDisabled
	}
	if pollMinutes < 1 {
		return fmt.Errorf("poll minutes must be at least 1, got %d", pollMinutes)
	}

	w.invalidateLocked()
	w.tags = NormalizeTags(tags)
	w.pollMinutes = pollMinutes
	w.state = StateRunning
	w.logger.Info("watcher reconfigured", "tags", w.tags, "poll_minutes", w.pollMinutes)
	w.launchCycleLocked()
	return nil
}

// invalidateLocked cancels all timers and bumps the generation so any
// in-flight cycle or pending timer fire becomes a no-op.
func (w *Watcher) invalidateLocked() {
	w.generation++
	if w.intervalTimer != nil {
		w.intervalTimer.Stop()
		w.intervalTimer = nil
	}
	if w.cooldownTimer != nil {
		w.cooldownTimer.Stop()
		w.cooldownTimer = nil
	}
	w.cooldownLeft = 0
}

// launchCycleLocked starts a new poll cycle under a fresh generation.
func (w *Watcher) launchCycleLocked() {
	w.generation++
	gen := w.generation

	query := stackexchange.Query{
		Root:   w.apiRoot,
		Site:   w.site,
		Tags:   append([]string(nil), w.tags...),
		Window: time.Duration(w.pollMinutes) * w.minute,
		APIKey: w.apiKey,
	}

	go func() {
		questions, err := w.client.RunCycle(context.Background(), query)
		w.finishCycle(gen, questions, err)
	}()
}

// armIntervalLocked schedules the next cycle one poll interval from now.
func (w *Watcher) armIntervalLocked() {
	gen := w.generation
	w.intervalTimer = time.AfterFunc(time.Duration(w.pollMinutes)*w.minute, func() {
		w.onIntervalTick(gen)
	})
}

// onIntervalTick runs a scheduled cycle if the timer is still current.
func (w *Watcher) onIntervalTick(gen uint64) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if gen != w.generation || w.state != StateRunning {
		return
	}
	w.launchCycleLocked()
}

// armCooldownLocked schedules the next cooldown countdown tick.
func (w *Watcher) armCooldownLocked() {
	gen := w.generation
	w.cooldownTimer = time.AfterFunc(w.minute, func() {
		w.onCooldownTick(gen)
	})
}

// onCooldownTick decrements the cooldown counter and resumes polling once
// it runs out.
func (w *Watcher) onCooldownTick(gen uint64) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if gen != w.generation || w.state != StateCooldown {
		return
	}

	w.cooldownLeft--
	if w.cooldownLeft > 1 {
		w.logger.Debug("cooldown tick", "minutes_left", w.cooldownLeft)
		w.armCooldownLocked()
		return
	}

	w.cooldownTimer = nil
	w.cooldownLeft = 0
	w.state = StateRunning
	w.logger.Info("cooldown elapsed, resuming polling")
	w.launchCycleLocked()
}

// finishCycle handles a cycle completion under the stale-cycle guard and
// delivers the result to the callbacks.
func (w *Watcher) finishCycle(gen uint64, questions []stackexchange.Question, err error) {
	w.mu.Lock()

	if gen != w.generation || w.state != StateRunning {
		// stale cycle: configuration changed or the watcher was stopped
		// while the requests were in flight
		w.mu.Unlock()
		return
	}

	var result CycleResult
	var throttle *stackexchange.ThrottleError
	switch {
	case err == nil:
		batch := make([]Question, 0, len(questions))
		for _, q := range questions {
			batch = append(batch, fromAPI(q))
		}
		if w.seen != nil {
			batch = w.filterSeen(batch)
		}
		result = CycleResult{Kind: ResultSuccess, Questions: batch}
		w.armIntervalLocked()

	case errors.As(err, &throttle):
		minutes := cooldownMinutes(throttle.RetryAfter)
		w.state = StateCooldown
		w.cooldownLeft = minutes
		w.armCooldownLocked()
		w.logger.Warn("api throttled, entering cooldown",
			"retry_after_seconds", throttle.RetryAfter,
			"cooldown_minutes", minutes,
		)
		result = CycleResult{Kind: ResultThrottled, CooldownMinutes: minutes}

	default:
		// the interval timer is deliberately not re-armed: a failed cycle
		// waits for the caller rather than retrying against a possibly
		// down API
		w.logger.Error("poll cycle failed", "error", err)
		result = CycleResult{Kind: ResultFailed, Err: err}
	}

	callbacks := w.callbacks
	logger := w.logger
	w.mu.Unlock()

	for _, cb := range callbacks {
		invokeCallbackSafe(cb, result, logger)
	}
}

// filterSeen drops questions already delivered in earlier cycles and
// records the rest as delivered.
func (w *Watcher) filterSeen(batch []Question) []Question {
	ids := make([]int64, len(batch))
	for i, q := range batch {
		ids[i] = q.ID
	}
	unseen := w.seen.FilterUnseen(ids)

	keep := make(map[int64]struct{}, len(unseen))
	for _, id := range unseen {
		keep[id] = struct{}{}
	}

	filtered := batch[:0]
	for _, q := range batch {
		if _, ok := keep[q.ID]; ok {
			filtered = append(filtered, q)
		}
	}
	return filtered
}

// cooldownMinutes converts the API's retry time in seconds to the
// cooldown length in whole minutes: the ceiling plus one minute of slack
// against clock skew.
func cooldownMinutes(retryAfterSeconds int) int {
	return (retryAfterSeconds+59)/60 + 1
}

// invokeCallbackSafe calls a result callback with panic recovery.
// Panics are logged with a correlation id but do not propagate.
func invokeCallbackSafe(cb func(CycleResult), result CycleResult, logger *slog.Logger) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("result callback panicked",
				"correlation_id", uuid.NewString(),
				"panic", r,
				"kind", result.Kind,
			)
		}
	}()
	cb(result)
}
