// Package stackwatch polls the Stack Exchange API for newly created
// questions matching a set of tags and reports them through a per-cycle
// callback.
//
// Stackwatch is designed as an SDK-first library: a [Watcher] is created
// with functional options, started, and thereafter fans out one request
// per configured tag every poll interval, merging the per-tag results into
// a single deduplicated batch sorted by creation date. When the API
// enforces rate limits the watcher enters a cooldown state and resumes
// polling on its own once the cooldown elapses.
//
// # Quick Start
//
//	w, err := stackwatch.New(
//	    stackwatch.WithTags("go", "rust"),
//	    stackwatch.WithResultCallback(func(r stackwatch.CycleResult) {
//	        for _, q := range r.Questions {
//	            fmt.Println(q.Title, q.Link)
//	        }
//	    }),
//	)
//	if err != nil {
//	    slog.Error("failed to create watcher", "error", err)
//	    os.Exit(1)
//	}
//
//	w.Start()
//	defer w.Stop()
//
// # Configuration
//
// The watcher is configured with functional options: [WithSite],
// [WithTags], [WithPollMinutes], [WithAPIKey], [WithLogger],
// [WithResultCallback], [WithDeduplication] and friends. Configuration can
// be replaced at runtime with [Watcher.Reconfigure]; any cycle in flight
// when the configuration changes is invalidated and its late responses are
// discarded.
//
// # Lifecycle
//
// A watcher is in one of four states: idle, running, cooldown, or
// disabled. [Watcher.Start] and [Watcher.Stop] move between idle and
// running; [Watcher.Toggle] flips between enabled and disabled the way a
// panel-icon click would. Toggling has no effect while the watcher is
// cooling down after an API throttle signal; the cooldown cannot be
// shortened by turning the watcher off and on again.
//
// # Results
//
// Each poll cycle produces exactly one [CycleResult], delivered to every
// registered callback: a successful batch of questions, a throttle notice
// with the cooldown length, or a failure carrying the underlying error.
// Callbacks run on the cycle's goroutine and are panic-recovered.
//
// # Architecture
//
// The heavy lifting lives in internal packages:
//
//   - internal/stackexchange: query building, response parsing, and the
//     per-cycle concurrent fan-out/aggregation
//   - internal/store: cross-cycle delivery tracking for deduplication
//
// The internal packages are not part of the public API and may change
// without notice.
package stackwatch
