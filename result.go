package stackwatch

// ResultKind classifies the outcome of one poll cycle.
//
// ResultKind is a string type that can hold one of three predefined
// values: [ResultSuccess], [ResultThrottled], or [ResultFailed]. Using a
// string type keeps logs and serialized results human-readable while
// maintaining type safety through the defined constants.
type ResultKind string

const (
	// ResultSuccess means the cycle completed and produced a batch,
	// possibly empty. Under the partial-success policy a batch may omit
	// tags whose individual queries failed, as long as at least one tag
	// succeeded.
	ResultSuccess ResultKind = "success"

	// ResultThrottled means the API signalled rate limiting. The watcher
	// has entered cooldown and the cycle produced no batch.
	ResultThrottled ResultKind = "throttled"

	// ResultFailed means no tag query succeeded. The watcher does not
	// retry on its own; the next attempt is up to the caller.
	ResultFailed ResultKind = "failed"
)

// String returns the string representation of the kind.
// This implements the fmt.Stringer interface.
func (k ResultKind) String() string {
	return string(k)
}

// CycleResult is delivered to result callbacks exactly once per poll
// cycle.
type CycleResult struct {
	// Kind classifies the outcome.
	Kind ResultKind

	// Questions is the finalized batch for [ResultSuccess]: deduplicated
	// by id, sorted ascending by creation date, oldest first. With
	// deduplication enabled it contains only questions not delivered in
	// earlier cycles.
	Questions []Question

	// CooldownMinutes is the length of the cooldown the watcher entered,
	// for [ResultThrottled].
	CooldownMinutes int

	// Err is the cycle failure, for [ResultFailed]. It carries the status
	// code and URL of the first recorded per-tag failure.
	Err error
}
