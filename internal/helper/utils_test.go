package helper

import (
	"io"
	"os"
	"strings"
	"testing"
)

func captureStdout(t *testing.T, fn func()) string {
	t.Helper()
	old := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatal(err)
	}
	os.Stdout = w
	defer func() { os.Stdout = old }()

	fn()
	w.Close()
	out, err := io.ReadAll(r)
	if err != nil {
		t.Fatal(err)
	}
	return string(out)
}

func TestPrettyPrint_MarshalErrorPrintsNothing(t *testing.T) {
	out := captureStdout(t, func() {
		PrettyPrint(make(chan int)) // channels cannot be marshaled
	})
	if strings.TrimSpace(out) != "" {
		t.Errorf("expected no output on marshal error, got %q", out)
	}
}

func TestPrettyPrint_IndentedJSON(t *testing.T) {
	out := captureStdout(t, func() {
		PrettyPrint(map[string]int{"chunks": 3})
	})
	if !strings.Contains(out, `"chunks": 3`) {
		t.Errorf("expected indented JSON output, got %q", out)
	}
}

func TestFormatPreview_ShortContentUnchanged(t *testing.T) {
	got := FormatPreview("  short text  ", 200)
	if got != "short text" {
		t.Errorf("expected trimmed content unchanged, got %q", got)
	}
}

func TestFormatPreview_BreaksAtSentence(t *testing.T) {
	content := strings.Repeat("x", 180) + ". And then some more text that runs past the limit."
	got := FormatPreview(content, 200)

	if !strings.HasSuffix(got, "...") {
		t.Errorf("expected ellipsis suffix, got %q", got)
	}
	if len(got) > 203 {
		t.Errorf("preview too long: %d chars", len(got))
	}
	if !strings.Contains(got, ".") {
		t.Errorf("expected sentence break to be preserved, got %q", got)
	}
}

func TestFormatPreview_BreaksAtWord(t *testing.T) {
	content := strings.Repeat("word ", 50)
	got := FormatPreview(content, 100)

	trimmed := strings.TrimSuffix(got, "...")
	if strings.HasSuffix(trimmed, "wor") || strings.HasSuffix(trimmed, "wo") {
		t.Errorf("preview split mid-word: %q", got)
	}
}
