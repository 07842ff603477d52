package stackwatch

import (
	"time"

	"github.com/higuaro/stackwatch/internal/stackexchange"
)

// Owner identifies the user who asked a question.
type Owner struct {
	// DisplayName is the asker's public display name.
	DisplayName string

	// Reputation is the asker's reputation score.
	Reputation int
}

// Question is a single Stack Exchange question as delivered to result
// callbacks.
//
// Question is the public counterpart of the API wire type: timestamps are
// time.Time values rather than Unix seconds, and JSON wire names are left
// behind in the internal package.
type Question struct {
	// ID is the site-unique question identifier.
	ID int64

	// Title is the question title. May contain HTML entities as returned
	// by the API; see [FormatNotification] for display filtering.
	Title string

	// Link is the question's URL.
	Link string

	// CreationDate is when the question was asked.
	CreationDate time.Time

	// Score is the question's current vote score.
	Score int

	// IsAnswered reports whether the question has an accepted answer.
	IsAnswered bool

	// Tags are the question's tags.
	Tags []string

	// Owner identifies the asker.
	Owner Owner
}

// fromAPI converts the wire representation into the public type.
func fromAPI(q stackexchange.Question) Question {
	return Question{
		ID:           q.ID,
		Title:        q.Title,
		Link:         q.Link,
		CreationDate: time.Unix(q.CreationDate, 0).UTC(),
		Score:        q.Score,
		IsAnswered:   q.IsAnswered,
		Tags:         append([]string(nil), q.Tags...),
		Owner:        Owner{DisplayName: q.Owner.DisplayName, Reputation: q.Owner.Reputation},
	}
}
