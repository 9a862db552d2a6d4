package utils

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

// ParseLLMJSON extracts and parses a JSON document from model output.
// Completions are untrusted: the JSON may arrive bare, wrapped in a
// markdown code fence, buried in surrounding prose, or carry trailing
// commas. Each strategy is tried in turn; the first successful
// unmarshal wins.
func ParseLLMJSON(input string, target interface{}) error {
	if strings.TrimSpace(input) == "" {
		return fmt.Errorf("empty input")
	}

	// Most completions are already valid JSON
	if err := json.Unmarshal([]byte(input), target); err == nil {
		return nil
	}

	if extracted := extractFromMarkdown(input); extracted != "" {
		if err := json.Unmarshal([]byte(extracted), target); err == nil {
			return nil
		}
	}

	if extracted := extractJSONFromText(input); extracted != "" {
		if err := json.Unmarshal([]byte(extracted), target); err == nil {
			return nil
		}
		if cleaned := cleanJSON(extracted); cleaned != "" {
			if err := json.Unmarshal([]byte(cleaned), target); err == nil {
				return nil
			}
		}
	}

	if cleaned := cleanJSON(input); cleaned != "" {
		if err := json.Unmarshal([]byte(cleaned), target); err == nil {
			return nil
		}
	}

	return fmt.Errorf("failed to parse JSON from input: %s", truncateString(input, 100))
}

var (
	fencedJSONPattern  = regexp.MustCompile("(?s)```json\\s*(.+?)\\s*```")
	fencedBlockPattern = regexp.MustCompile("(?s)```\\s*(.+?)\\s*```")
	trailingCommas     = regexp.MustCompile(`,\s*([}\]])`)
	unquotedKeys       = regexp.MustCompile(`([{,]\s*)(\w+)(\s*:)`)
	controlChars       = regexp.MustCompile(`[\x00-\x08\x0B\x0C\x0E-\x1F]`)
)

// extractFromMarkdown pulls the body out of a ```json or anonymous
// code fence.
func extractFromMarkdown(input string) string {
	if matches := fencedJSONPattern.FindStringSubmatch(input); len(matches) > 1 {
		return strings.TrimSpace(matches[1])
	}

	if matches := fencedBlockPattern.FindStringSubmatch(input); len(matches) > 1 {
		content := strings.TrimSpace(matches[1])
		if strings.HasPrefix(content, "{") || strings.HasPrefix(content, "[") {
			return content
		}
	}

	return ""
}

// extractJSONFromText finds the first balanced JSON object or array
// inside free text.
func extractJSONFromText(input string) string {
	if start := strings.Index(input, "{"); start >= 0 {
		if extracted := extractBalanced(input[start:], '{', '}'); extracted != "" {
			return extracted
		}
	}

	if start := strings.Index(input, "["); start >= 0 {
		if extracted := extractBalanced(input[start:], '[', ']'); extracted != "" {
			return extracted
		}
	}

	return ""
}

// extractBalanced returns the shortest prefix with balanced open/close
// runes, respecting string literals and escapes.
func extractBalanced(input string, open, close rune) string {
	depth := 0
	inString := false
	escape := false
	start := 0

	for i, ch := range input {
		if escape {
			escape = false
			continue
		}

		if ch == '\\' {
			escape = true
			continue
		}

		if ch == '"' {
			inString = !inString
			continue
		}

		if inString {
			continue
		}

		if ch == open {
			if depth == 0 {
				start = i
			}
			depth++
		} else if ch == close {
			depth--
			if depth == 0 {
				return input[start : i+1]
			}
		}
	}

	return ""
}

// cleanJSON fixes the malformations small models produce most often:
// trailing commas, bare keys, BOMs and stray control characters.
func cleanJSON(input string) string {
	s := strings.TrimSpace(input)
	s = strings.TrimPrefix(s, "\uFEFF")
	s = trailingCommas.ReplaceAllString(s, "$1")
	s = unquotedKeys.ReplaceAllString(s, `$1"$2"$3`)
	s = controlChars.ReplaceAllString(s, "")
	return s
}

func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
