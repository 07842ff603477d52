// Package stackexchange provides the Stack Exchange API plumbing for
// stackwatch.
//
// This package is internal to stackwatch and handles one poll cycle against
// the Stack Exchange search API: building one query URL per configured tag,
// issuing the requests concurrently through a pooled HTTP client, parsing
// and classifying each response, and merging the per-tag results into a
// single deduplicated batch sorted by creation date.
//
// The main components are:
//
//   - [Client]: HTTP client wrapper and cycle aggregator
//   - [Query]: the parameters of one poll cycle
//   - [BuildTagURLs]: query URL construction, one URL per tag
//   - [ParseResponse]: response classification (success/throttle/failure)
//
// Users of the stackwatch library should not need to interact with this
// package directly. Configuration is done through the main stackwatch
// package.
package stackexchange
