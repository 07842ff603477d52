package stackexchange

import (
	"net/url"
	"strconv"
	"time"
)

// APIRoot is the default base URL of the Stack Exchange API.
const APIRoot = "https://api.stackexchange.com/2.2/"

// MaxQueryTags is the maximum number of tags queried per cycle. The API
// rejects broader fan-outs, so tags beyond this cap are accepted into
// configuration but never queried.
const MaxQueryTags = 10

// Query holds the parameters of a single poll cycle.
//
// Query is a value type assembled by the watcher from its current
// configuration and handed to [Client.RunCycle]. It carries no state
// across cycles.
type Query struct {
	// Root is the API base URL. Empty means [APIRoot].
	Root string

	// Site is the Stack Exchange site identifier (e.g. "stackoverflow").
	Site string

	// Tags is the normalized tag list. Only the first [MaxQueryTags]
	// entries are queried.
	Tags []string

	// Window is how far back to search for newly created questions.
	Window time.Duration

	// APIKey is the optional Stack Exchange API key. Empty omits the
	// key parameter entirely.
	APIKey string
}

// BuildTagURLs produces one query URL per tag, capped at [MaxQueryTags].
//
// Each URL requests questions created since now-Window, newest first,
// restricted to a single tag. The fromdate parameter is Unix seconds with
// the sub-second part truncated. Tag strings are percent-encoded but
// otherwise passed through verbatim; validating them is the configuration
// layer's concern, not this function's.
//
// BuildTagURLs is a pure function: same inputs, same output, no I/O.
func BuildTagURLs(q Query, now time.Time) []string {
	root := q.Root
	if root == "" {
		root = APIRoot
	}

	fromDate := now.Add(-q.Window).Unix()

	base := root + "questions?order=desc&sort=creation" +
		"&site=" + url.QueryEscape(q.Site) +
		"&fromdate=" + strconv.FormatInt(fromDate, 10)
	if q.APIKey != "" {
		base += "&key=" + url.QueryEscape(q.APIKey)
	}

	tags := q.Tags
	if len(tags) > MaxQueryTags {
		tags = tags[:MaxQueryTags]
	}

	urls := make([]string, 0, len(tags))
	for _, tag := range tags {
		urls = append(urls, base+"&tagged="+url.QueryEscape(tag))
	}
	return urls
}
