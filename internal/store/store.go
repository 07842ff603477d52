package store

// Store tracks which question ids have been delivered to the caller.
//
// Store implementations must be safe for concurrent use; the watcher
// invokes them from cycle-completion goroutines.
type Store interface {
	// FilterUnseen returns the subset of ids that have not been delivered
	// before, in their original order, and records them as delivered.
	FilterUnseen(ids []int64) []int64

	// Len reports how many ids are currently tracked.
	Len() int
}
