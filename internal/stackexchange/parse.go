package stackexchange

import (
	"encoding/json"
	"log/slog"
	"regexp"
	"strconv"
)

// throttleErrorID is the Stack Exchange "throttle_violation" error id.
const throttleErrorID = 502

// defaultRetryAfterSeconds is used when the API signals a throttle
// violation but the human-readable message does not carry a retry time.
const defaultRetryAfterSeconds = 60

// retryAfterPattern extracts the retry time from the API's throttle
// message, e.g. "too many requests from this IP, more requests available
// in 60 seconds". The structured error_id is checked first; the message
// match is a fallback because the text is not a stable contract.
var retryAfterPattern = regexp.MustCompile(`more requests available in (\d+) seconds$`)

// OutcomeKind classifies a parsed API response.
type OutcomeKind int

const (
	// OutcomeSuccess is a 200 response with a parsable items envelope.
	OutcomeSuccess OutcomeKind = iota

	// OutcomeThrottled is the API's rate limit signal. The cycle must be
	// aborted and the watcher placed into cooldown.
	OutcomeThrottled

	// OutcomeFailed is any other non-200 status, or a 200 body that does
	// not parse as JSON.
	OutcomeFailed
)

// Outcome is the result of classifying one per-tag response.
type Outcome struct {
	Kind OutcomeKind

	// Items holds the decoded questions for OutcomeSuccess.
	Items []Question

	// RetryAfter is the throttle retry time in seconds for
	// OutcomeThrottled.
	RetryAfter int

	// StatusCode is the HTTP status code, kept for diagnostics on
	// OutcomeFailed.
	StatusCode int
}

// Question is the wire representation of a Stack Exchange question.
//
// This is the API-internal type, decoupled from the public
// stackwatch.Question to keep JSON tags and wire quirks (Unix second
// timestamps) out of the public surface.
type Question struct {
	ID           int64    `json:"question_id"`
	Title        string   `json:"title"`
	Link         string   `json:"link"`
	CreationDate int64    `json:"creation_date"`
	Score        int      `json:"score"`
	IsAnswered   bool     `json:"is_answered"`
	Tags         []string `json:"tags"`
	Owner        Owner    `json:"owner"`
}

// Owner identifies the user who asked a question.
type Owner struct {
	DisplayName string `json:"display_name"`
	Reputation  int    `json:"reputation"`
}

// itemsEnvelope is the API's success envelope.
type itemsEnvelope struct {
	Items []json.RawMessage `json:"items"`
}

// errorEnvelope is the API's error envelope.
type errorEnvelope struct {
	ErrorID      int    `json:"error_id"`
	ErrorMessage string `json:"error_message"`
}

// ParseResponse classifies a single per-tag HTTP response.
//
// A 200 status with an items envelope yields [OutcomeSuccess]; individual
// items that fail to decode or lack a question id are skipped and logged,
// never fatal. A 400 status whose body is a throttle error envelope yields
// [OutcomeThrottled] with the retry time in seconds. Everything else,
// including a 200 body that is not valid JSON, yields [OutcomeFailed].
func ParseResponse(statusCode int, body []byte, logger *slog.Logger) Outcome {
	if statusCode != 200 {
		if statusCode == 400 {
			if seconds, ok := parseThrottle(body); ok {
				return Outcome{Kind: OutcomeThrottled, RetryAfter: seconds, StatusCode: statusCode}
			}
		}
		return Outcome{Kind: OutcomeFailed, StatusCode: statusCode}
	}

	var envelope itemsEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		logger.Warn("response body is not a valid items envelope", "error", err)
		return Outcome{Kind: OutcomeFailed, StatusCode: statusCode}
	}

	items := make([]Question, 0, len(envelope.Items))
	for i, raw := range envelope.Items {
		var q Question
		if err := json.Unmarshal(raw, &q); err != nil {
			logger.Warn("skipping malformed question item", "index", i, "error", err)
			continue
		}
		if q.ID == 0 {
			logger.Warn("skipping question item without id", "index", i)
			continue
		}
		items = append(items, q)
	}

	return Outcome{Kind: OutcomeSuccess, Items: items, StatusCode: statusCode}
}

// parseThrottle reports whether body is a throttle error envelope and, if
// so, the retry time in seconds.
//
// The structured error_id field is authoritative. The message pattern is
// consulted for the retry time, and acts as a fallback signal when the API
// reports throttling under a different id.
func parseThrottle(body []byte) (int, bool) {
	var envelope errorEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return 0, false
	}

	seconds := 0
	if match := retryAfterPattern.FindStringSubmatch(envelope.ErrorMessage); match != nil {
		seconds, _ = strconv.Atoi(match[1])
	}

	if envelope.ErrorID == throttleErrorID {
		if seconds == 0 {
			seconds = defaultRetryAfterSeconds
		}
		return seconds, true
	}
	if seconds > 0 {
		return seconds, true
	}
	return 0, false
}
