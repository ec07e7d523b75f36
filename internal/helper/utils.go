package helper

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog/log"
)

// CreateFolder makes the directory if it does not exist
func CreateFolder(path string) error {
	return os.MkdirAll(path, 0o755)
}

// PrettyPrint dumps a value as indented JSON to stdout
func PrettyPrint(v interface{}) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		log.Warn().Err(err).Msg("Error pretty printing")
		return
	}
	fmt.Println(string(b))
}

// FormatPreview shortens content for display, preferring a sentence or word
// boundary near maxLength
func FormatPreview(content string, maxLength int) string {
	content = strings.TrimSpace(content)
	if len(content) <= maxLength {
		return content
	}

	preview := content[:maxLength]
	lastPeriod := strings.LastIndex(preview, ".")
	lastSpace := strings.LastIndex(preview, " ")

	if lastPeriod > maxLength-50 {
		preview = content[:lastPeriod+1]
	} else if lastSpace > maxLength-30 {
		preview = content[:lastSpace]
	}

	return preview + "..."
}
