package ocr

import (
	"strings"
)

// CleanTranscript removes what chat models tend to wrap text in: markdown
// code fences and surrounding blank space. Line breaks are normalized to
// "\n".
func CleanTranscript(content string) string {
	content = strings.ReplaceAll(content, "\r\n", "\n")
	content = strings.TrimSpace(content)

	// eliminate the opening fence and its language tag
	if strings.HasPrefix(content, "```") {
		if i := strings.Index(content, "\n"); i >= 0 {
			content = content[i+1:]
		} else {
			content = ""
		}
	}

	// eliminate the closing fence
	content = strings.TrimSpace(content)
	content = strings.TrimSuffix(content, "```")

	return strings.TrimSpace(content)
}

func countLines(text string) int {
	if text == "" {
		return 0
	}
	return strings.Count(text, "\n") + 1
}
