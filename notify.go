package stackwatch

import (
	"fmt"
	"strings"
)

// notifyTimeoutSeconds is the expiry passed to notify-send.
const notifyTimeoutSeconds = 5

// FormatNotification renders a question as a desktop notification title
// and body.
//
// The title has the HTML entities the API leaves in question titles
// (&#39;, &quot;) replaced with their characters, and is prefixed with a
// check mark when the question already has an accepted answer. The body
// uses the markup subset desktop notification daemons understand: the
// question link, its vote score, its tags, and the asker's name and
// reputation.
func FormatNotification(q Question) (title, body string) {
	title = q.Title
	title = strings.ReplaceAll(title, "&#39;", "'")
	title = strings.ReplaceAll(title, "&quot;", `"`)
	if q.IsAnswered {
		title = "✔ " + title
	}

	var b strings.Builder
	b.WriteString(q.Link)
	b.WriteString("\n")
	fmt.Fprintf(&b, "Question votes: <b>%d</b>\n", q.Score)
	b.WriteString("Tags: ")
	for i, tag := range q.Tags {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "<b>%s</b>", tag)
	}
	fmt.Fprintf(&b, "\nAsked by: <b>%s</b> [rep: %d]\n", q.Owner.DisplayName, q.Owner.Reputation)

	return title, b.String()
}

// NotifyCommand builds the notify-send argument vector announcing a
// question.
//
// The command is returned as an argv slice rather than a shell string so
// question titles cannot smuggle shell metacharacters into the spawn.
// Spawning is the caller's concern; the stackwatch CLI runs it via
// os/exec.
func NotifyCommand(iconPath string, q Question) []string {
	title, body := FormatNotification(q)
	argv := []string{
		"notify-send",
		"-t", fmt.Sprintf("%d", notifyTimeoutSeconds),
	}
	if iconPath != "" {
		argv = append(argv, "--icon="+iconPath)
	}
	return append(argv, title, body)
}
