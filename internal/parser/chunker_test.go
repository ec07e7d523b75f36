package parser

import (
	"strings"
	"testing"
)

func TestChunkContent_ShortContent(t *testing.T) {
	spans := chunkContent("hello world", 100, 20)
	if len(spans) != 1 {
		t.Fatalf("expected 1 chunk, got %d", len(spans))
	}
	if spans[0].text != "hello world" {
		t.Fatalf("expected content unchanged, got %q", spans[0].text)
	}
	if spans[0].offset != 0 {
		t.Fatalf("expected offset 0, got %d", spans[0].offset)
	}
}

func TestChunkContent_Empty(t *testing.T) {
	if spans := chunkContent("", 100, 20); spans != nil {
		t.Fatalf("expected nil for empty content, got %d chunks", len(spans))
	}
	if spans := chunkContent("   \n\t ", 100, 20); spans != nil {
		t.Fatalf("expected nil for whitespace-only content, got %d chunks", len(spans))
	}
	if spans := chunkContent("something", 0, 0); spans != nil {
		t.Fatalf("expected nil for non-positive chunk size, got %d chunks", len(spans))
	}
}

func TestChunkContent_RespectsSizeAndOverlap(t *testing.T) {
	content := strings.Repeat("word ", 200) // 1000 chars
	maxChars, overlap := 100, 20

	spans := chunkContent(content, maxChars, overlap)
	if len(spans) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(spans))
	}
	for i, span := range spans {
		if len(span.text) > maxChars {
			t.Errorf("chunk %d exceeds max size: %d > %d", i, len(span.text), maxChars)
		}
	}

	// consecutive windows advance by size minus overlap
	step := maxChars - overlap
	for i := 1; i < len(spans); i++ {
		if spans[i].offset <= spans[i-1].offset {
			t.Errorf("offsets not increasing: chunk %d at %d, chunk %d at %d",
				i-1, spans[i-1].offset, i, spans[i].offset)
		}
		if got := spans[i].offset - spans[i-1].offset; got > step {
			t.Errorf("window advanced by %d, want at most %d", got, step)
		}
	}
}

func TestChunkContent_OffsetsPointIntoContent(t *testing.T) {
	content := "The quick brown fox jumps over the lazy dog. " +
		"Pack my box with five dozen liquor jugs. " +
		"How vexingly quick daft zebras jump."

	spans := chunkContent(content, 50, 10)
	for i, span := range spans {
		if !strings.HasPrefix(content[span.offset:], span.text) {
			t.Errorf("chunk %d offset %d does not point at its content", i, span.offset)
		}
	}
}

func TestChunkContent_OverlapClampedToHalf(t *testing.T) {
	content := strings.Repeat("abcde ", 50)
	// overlap >= size would never advance; it must be clamped
	spans := chunkContent(content, 20, 30)
	if len(spans) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(spans))
	}
}

func TestChunkContent_PrefersCleanBreak(t *testing.T) {
	content := strings.Repeat("aaaa aaaa ", 30)
	spans := chunkContent(content, 100, 0)
	for i, span := range spans[:len(spans)-1] {
		if strings.HasSuffix(span.text, "aa") && !strings.HasSuffix(span.text, "aaaa") {
			t.Errorf("chunk %d split mid-word: %q", i, span.text[len(span.text)-10:])
		}
	}
}

func TestTrimSpan(t *testing.T) {
	content := "  hello  "
	span := trimSpan(content, 0, len(content))
	if span.text != "hello" {
		t.Fatalf("expected trimmed text, got %q", span.text)
	}
	if span.offset != 2 {
		t.Fatalf("expected offset 2 after trimming lead whitespace, got %d", span.offset)
	}
}
