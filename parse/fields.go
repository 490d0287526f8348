package parse

import (
	"encoding/json"
	"regexp"
	"strings"
)

// extractFields pulls labeled fields out of model output. A field's value
// starts after its uppercase label and runs until the next recognized
// label or end of text. Labels may carry markdown residue such as leading
// bullets, hashes or surrounding asterisks.
func extractFields(text string, labels []string) map[string]string {
	re := regexp.MustCompile(`(?m)^[ \t>#*-]*(` + strings.Join(labels, "|") + `)\s*:[*]*[ \t]*`)
	matches := re.FindAllStringSubmatchIndex(text, -1)

	fields := make(map[string]string, len(matches))
	for i, m := range matches {
		label := strings.ToUpper(text[m[2]:m[3]])
		end := len(text)
		if i+1 < len(matches) {
			end = matches[i+1][0]
		}
		value := strings.Trim(text[m[1]:end], " \t\r\n*")
		if _, seen := fields[label]; !seen {
			fields[label] = value
		}
	}
	return fields
}

var bulletPrefixRe = regexp.MustCompile(`^[\s\-*•+]*(?:\d+[.)]\s*)?`)

// splitList splits a list-valued field on newlines and commas and strips
// leading bullet or numbering characters from each item.
func splitList(value string) []string {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	raw := strings.FieldsFunc(value, func(r rune) bool {
		return r == '\n' || r == ','
	})

	var items []string
	for _, item := range raw {
		item = bulletPrefixRe.ReplaceAllString(item, "")
		item = strings.Trim(item, " \t\r*")
		if item != "" {
			items = append(items, item)
		}
	}
	return items
}

// splitLines splits a structured list field on newlines and bullets only,
// preserving commas inside items.
func splitLines(value string) []string {
	var items []string
	for _, line := range strings.Split(value, "\n") {
		line = bulletPrefixRe.ReplaceAllString(line, "")
		line = strings.Trim(line, " \t\r*")
		if line != "" {
			items = append(items, line)
		}
	}
	return items
}

// findJSONObject locates the first balanced JSON object embedded in text
// and unmarshals it into target. Brace matching skips over string
// literals so code snippets inside values do not break the scan.
func findJSONObject(text string, target interface{}) bool {
	for start := strings.IndexByte(text, '{'); start >= 0 && start < len(text); {
		end := matchBrace(text, start)
		if end > start {
			if err := json.Unmarshal([]byte(text[start:end+1]), target); err == nil {
				return true
			}
		}
		next := strings.IndexByte(text[start+1:], '{')
		if next < 0 {
			return false
		}
		start = start + 1 + next
	}
	return false
}

// matchBrace returns the index of the brace closing the object opened at
// start, or -1 when the object never closes.
func matchBrace(text string, start int) int {
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		c := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

// truncate returns at most n characters of s, trimmed.
func truncate(s string, n int) string {
	s = strings.TrimSpace(s)
	if len(s) <= n {
		return s
	}
	return strings.TrimSpace(s[:n])
}
