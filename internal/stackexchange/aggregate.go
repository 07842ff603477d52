package stackexchange

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// ThrottleError is returned by [Client.RunCycle] when the API signals rate
// limiting. It is never wrapped inside a [CycleError]; callers inspect it
// with errors.As and enter cooldown instead of treating it as a failure.
type ThrottleError struct {
	// RetryAfter is the time in seconds the API asked us to wait.
	RetryAfter int
}

func (e *ThrottleError) Error() string {
	return fmt.Sprintf("api throttled, more requests available in %d seconds", e.RetryAfter)
}

// CycleError reports a poll cycle in which no tag query succeeded. It
// carries the status code and URL of the first recorded failure for
// diagnostics.
type CycleError struct {
	StatusCode int
	URL        string
	Err        error
}

func (e *CycleError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("questions read failed trying to reach %s: %v", e.URL, e.Err)
	}
	return fmt.Sprintf("questions read failed: HTTP error %d trying to reach %s", e.StatusCode, e.URL)
}

func (e *CycleError) Unwrap() error { return e.Err }

// tagResult pairs a per-tag response with the URL it was fetched from.
type tagResult struct {
	url  string
	resp Response
}

// RunCycle performs one complete fan-out-and-aggregate poll attempt.
//
// One request is issued per tag (capped at [MaxQueryTags]), all concurrent
// up to the client's concurrency limit. Responses are merged as they
// arrive, in any order; the merge is commutative, so arrival order never
// changes the finalized batch. The batch is deduplicated by question id
// (first writer wins) and sorted ascending by creation date, ties broken
// by id.
//
// Outcomes:
//   - nil error: the batch, possibly empty. Per-tag failures are tolerated
//     as long as at least one tag succeeded; the cycle favors availability
//     over completeness.
//   - *ThrottleError: the API is rate limiting. In-flight requests are
//     cancelled, partial results are discarded, and no batch is returned;
//     a throttled cycle must not present an incomplete picture as if it
//     were complete.
//   - *CycleError: every tag either failed or was ignorable, with at least
//     one real failure recorded.
//
// An empty tag list returns an empty batch immediately with no requests
// issued. Transport errors matching the client's ignorable classifier
// count as empty per-tag results, not failures.
func (c *Client) RunCycle(ctx context.Context, q Query) ([]Question, error) {
	if len(q.Tags) == 0 {
		return []Question{}, nil
	}

	urls := BuildTagURLs(q, c.now())

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	jobs := make(chan string, len(urls))
	results := make(chan tagResult, len(urls))

	workers := c.maxConcurrency
	if workers > len(urls) {
		workers = len(urls)
	}

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for url := range jobs {
				results <- tagResult{url: url, resp: c.fetch(ctx, url)}
			}
		}()
	}
	for _, url := range urls {
		jobs <- url
	}
	close(jobs)

	collected := make(map[int64]Question)
	var firstFailure *CycleError
	succeeded := 0
	failed := 0

	for received := 0; received < len(urls); received++ {
		r := <-results

		if err := r.resp.Error; err != nil {
			if c.ignorable(err) {
				c.logger.Debug("ignoring transient request failure", "url", r.url, "error", err)
				continue
			}
			c.logger.Warn("tag query failed", "url", r.url, "error", err)
			failed++
			if firstFailure == nil {
				firstFailure = &CycleError{StatusCode: r.resp.StatusCode, URL: r.url, Err: err}
			}
			continue
		}

		outcome := ParseResponse(r.resp.StatusCode, r.resp.Body, c.logger)
		switch outcome.Kind {
		case OutcomeThrottled:
			// Abort the whole cycle: cancel in-flight requests and discard
			// everything collected so far. Late worker sends land in the
			// buffered results channel and are never read.
			cancel()
			return nil, &ThrottleError{RetryAfter: outcome.RetryAfter}
		case OutcomeFailed:
			c.logger.Warn("tag query failed",
				"url", r.url,
				"status", outcome.StatusCode,
				"latency_ms", r.resp.Latency.Milliseconds(),
			)
			failed++
			if firstFailure == nil {
				firstFailure = &CycleError{StatusCode: outcome.StatusCode, URL: r.url}
			}
		case OutcomeSuccess:
			c.logger.Debug("tag query completed",
				"url", r.url,
				"items", len(outcome.Items),
				"latency_ms", r.resp.Latency.Milliseconds(),
			)
			succeeded++
			mergeInto(collected, outcome.Items)
		}
	}
	wg.Wait()

	if failed > 0 && succeeded == 0 {
		return nil, firstFailure
	}
	return finalizeBatch(collected), nil
}

// mergeInto inserts items into collected keyed by question id. Later
// arrivals for an id already present are no-ops: item identity and fields
// do not change within a cycle, so first writer wins.
func mergeInto(collected map[int64]Question, items []Question) {
	for _, q := range items {
		if _, exists := collected[q.ID]; !exists {
			collected[q.ID] = q
		}
	}
}

// finalizeBatch turns the collected map into a slice sorted ascending by
// creation date, oldest first, ties broken by id for determinism.
func finalizeBatch(collected map[int64]Question) []Question {
	batch := make([]Question, 0, len(collected))
	for _, q := range collected {
		batch = append(batch, q)
	}
	sort.Slice(batch, func(i, j int) bool {
		if batch[i].CreationDate != batch[j].CreationDate {
			return batch[i].CreationDate < batch[j].CreationDate
		}
		return batch[i].ID < batch[j].ID
	})
	return batch
}
