package stackwatch

import (
	"strings"
	"testing"
	"time"
)

func sampleQuestion() Question {
	return Question{
		ID:           42,
		Title:        "Why doesn&#39;t &quot;this&quot; work?",
		Link:         "https://stackoverflow.com/q/42",
		CreationDate: time.Unix(1700000000, 0),
		Score:        7,
		Tags:         []string{"go", "json"},
		Owner:        Owner{DisplayName: "gopher", Reputation: 1234},
	}
}

func TestFormatNotification_UnescapesTitle(t *testing.T) {
	title, _ := FormatNotification(sampleQuestion())
	if title != `Why doesn't "this" work?` {
		t.Errorf("title = %q", title)
	}
}

func TestFormatNotification_AnsweredPrefix(t *testing.T) {
	q := sampleQuestion()
	q.IsAnswered = true

	title, _ := FormatNotification(q)
	if !strings.HasPrefix(title, "\u2714 ") {
		t.Errorf("title = %q, want check mark prefix for answered questions", title)
	}
}

func TestFormatNotification_Body(t *testing.T) {
	_, body := FormatNotification(sampleQuestion())

	for _, want := range []string{
		"https://stackoverflow.com/q/42",
		"Question votes: <b>7</b>",
		"Tags: <b>go</b>, <b>json</b>",
		"Asked by: <b>gopher</b> [rep: 1234]",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("body missing %q:\n%s", want, body)
		}
	}
}

func TestNotifyCommand(t *testing.T) {
	argv := NotifyCommand("/tmp/icon.png", sampleQuestion())

	if argv[0] != "notify-send" {
		t.Errorf("argv[0] = %q, want notify-send", argv[0])
	}
	joined := strings.Join(argv, " ")
	if !strings.Contains(joined, "--icon=/tmp/icon.png") {
		t.Errorf("argv = %v, want icon flag", argv)
	}
	// title and body ride as discrete argv entries, never through a shell
	if len(argv) < 2 {
		t.Fatalf("argv too short: %v", argv)
	}
	title := argv[len(argv)-2]
	if title != `Why doesn't "this" work?` {
		t.Errorf("title argv = %q", title)
	}
}

func TestNotifyCommand_NoIcon(t *testing.T) {
	argv := NotifyCommand("", sampleQuestion())
	for _, arg := range argv {
		if strings.HasPrefix(arg, "--icon=") {
			t.Errorf("argv = %v, want no icon flag when path is empty", argv)
		}
	}
}
