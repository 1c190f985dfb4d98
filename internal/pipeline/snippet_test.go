package pipeline

import (
	"encoding/json"
	"fmt"
	"strings"
	"testing"
)

func TestSnippetLastLines(t *testing.T) {
	var lines []string
	for i := 0; i < 80; i++ {
		lines = append(lines, fmt.Sprintf("line %d", i))
	}
	got := Snippet(strings.Join(lines, "\n"), 50)
	gotLines := strings.Split(got, "\n")
	if len(gotLines) != 50 {
		t.Fatalf("expected 50 lines got %d", len(gotLines))
	}
	if gotLines[0] != "line 30" || gotLines[49] != "line 79" {
		t.Fatalf("wrong window: first=%q last=%q", gotLines[0], gotLines[49])
	}
}

func TestSnippetShortLogUnchangedLength(t *testing.T) {
	got := Snippet("only line", 50)
	if got != "only line" {
		t.Fatalf("expected pass-through got %q", got)
	}
}

func TestSnippetRedactsPaths(t *testing.T) {
	in := "error: could not open /home/runner/work/app/android/key.jks for writing\nat /tmp/buildrunner/project/lib/main.dart"
	got := Snippet(in, 50)
	if strings.Contains(got, "/home/runner") || strings.Contains(got, "/tmp/buildrunner") {
		t.Fatalf("paths not redacted: %q", got)
	}
	if !strings.Contains(got, PathPlaceholder) {
		t.Fatalf("expected placeholder in %q", got)
	}
}

// TestSnippetEmbedsAsJSONString confirms the encoder yields valid JSON-string
// content: quotes and backslashes escaped, newlines as literal \n sequences.
func TestSnippetEmbedsAsJSONString(t *testing.T) {
	in := "said \"boom\"\nbackslash \\ here\nat /var/lib/build/out.txt"
	snippet := Snippet(in, 50)

	encoded, err := json.Marshal(snippet)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	s := string(encoded)
	if !strings.Contains(s, `\n`) {
		t.Fatalf("expected literal \\n in %s", s)
	}
	if !strings.Contains(s, `\"boom\"`) {
		t.Fatalf("expected escaped quotes in %s", s)
	}

	var roundTrip string
	if err := json.Unmarshal(encoded, &roundTrip); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if roundTrip != snippet {
		t.Fatalf("round trip mismatch")
	}
}
