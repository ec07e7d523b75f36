package parser

import "strings"

type chunkSpan struct {
	text   string
	offset int
}

// chunkContent breaks content into windows of at most maxChars characters
// with overlapChars of overlap between consecutive windows. Window ends
// prefer a whitespace or sentence break found within the last tenth of the
// window. Offsets index into the original content.
func chunkContent(content string, maxChars, overlapChars int) []chunkSpan {
	if maxChars <= 0 {
		return nil
	}
	if overlapChars < 0 {
		overlapChars = 0
	}
	if overlapChars >= maxChars {
		overlapChars = maxChars / 2
	}

	contentLen := len(content)
	if strings.TrimSpace(content) == "" {
		return nil
	}

	if lengthTrimmed(content) <= maxChars {
		return []chunkSpan{trimSpan(content, 0, contentLen)}
	}

	var chunks []chunkSpan
	start := 0
	for start < contentLen {
		end := min(start+maxChars, contentLen)

		// look for a clean break point near the window end
		if end < contentLen {
			lookBack := min(maxChars/10, end-start)
			for i := end - 1; i >= end-lookBack && i > start; i-- {
				if content[i] == ' ' || content[i] == '\n' || content[i] == '.' {
					end = i + 1
					break
				}
			}
		}

		if span := trimSpan(content, start, end); span.text != "" {
			chunks = append(chunks, span)
		}

		step := maxChars - overlapChars
		if start+step <= start {
			break
		}
		start += step
	}

	return chunks
}

// trimSpan trims surrounding whitespace while keeping the offset pointing at
// the first retained character
func trimSpan(content string, start, end int) chunkSpan {
	raw := content[start:end]
	trimmed := strings.TrimLeft(raw, " \t\n\r")
	offset := start + (len(raw) - len(trimmed))
	trimmed = strings.TrimRight(trimmed, " \t\n\r")
	return chunkSpan{text: trimmed, offset: offset}
}

func lengthTrimmed(content string) int {
	return len(strings.TrimSpace(content))
}
