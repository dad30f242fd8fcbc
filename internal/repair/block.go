package repair

import (
	"regexp"
	"strings"
)

// blockKind classifies the fence metadata of a parsed block.
type blockKind int

const (
	// kindValid means the opening fence carried a legal language, possibly
	// with a title, or the language was recovered from the first content
	// line.
	kindValid blockKind = iota
	// kindUnnamed means the fence carried no language at all.
	kindUnnamed
	// kindInvalid means the fence carried something that is not a legal
	// identifier; it is treated as content.
	kindInvalid
	// kindDemo means the fence carried the demo placeholder title instead
	// of a language.
	kindDemo
)

func (k blockKind) reason() string {
	switch k {
	case kindUnnamed:
		return "未命名"
	case kindInvalid:
		return "标识符不合法"
	case kindDemo:
		return "带'" + DemoTitle + "'占位符"
	default:
		return ""
	}
}

var fenceFirstLine = regexp.MustCompile("^```" + `(\S*)\s*(.*)$`)

// deconstruct parses one matched fenced block (opening fence line through
// closing fence line) into its language spec and code body. The language may
// be a bare identifier or "lang title"; titles that are not legal identifiers
// stay part of the code.
func deconstruct(block string) (lang string, kind blockKind, code string) {
	lines := strings.Split(block, "\n")
	if len(lines) > 0 && strings.TrimSpace(lines[0]) == "" {
		lines = lines[1:]
	}
	if len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "" {
		lines = lines[:len(lines)-1]
	}
	if len(lines) == 0 {
		return "", kindUnnamed, ""
	}

	var codeParts []string

	m := fenceFirstLine.FindStringSubmatch(lines[0])
	if m == nil {
		kind = kindInvalid
		codeParts = append(codeParts, lines[0])
	} else {
		firstPart := m[1]
		secondPart := strings.TrimSpace(m[2])
		switch {
		case firstPart == "" || isKnownLanguage(firstPart):
			lang = firstPart
			if secondPart != "" {
				if isIdentifier(secondPart) {
					lang += " " + secondPart
				} else {
					codeParts = append(codeParts, secondPart)
				}
			}
		case firstPart == DemoTitle:
			kind = kindDemo
			if secondPart != "" {
				codeParts = append(codeParts, secondPart)
			}
		default:
			kind = kindInvalid
			if content := strings.TrimSpace(firstPart + " " + secondPart); content != "" {
				codeParts = append(codeParts, content)
			}
		}
	}

	var content []string
	if len(lines) > 1 {
		content = lines[1 : len(lines)-1]
	}

	// An unnamed block may carry its language as the first content line.
	if len(content) > 0 && lang == "" && kind == kindValid {
		if candidate := strings.TrimSpace(content[0]); isKnownLanguage(candidate) && !strings.Contains(candidate, " ") {
			lang = candidate
			content = content[1:]
		}
	}

	// A bare language may be followed by a title line. Dash-only lines are
	// dividers inside the code, never titles.
	if len(content) > 0 && lang != "" && !strings.Contains(lang, " ") {
		if title := strings.TrimSpace(content[0]); title != "" && isIdentifier(title) && !dividerOnly.MatchString(title) {
			lang += " " + title
			content = content[1:]
		}
	}

	codeParts = append(codeParts, content...)
	code = strings.Join(codeParts, "\n")
	if kind == kindValid && lang == "" {
		kind = kindUnnamed
	}
	return lang, kind, code
}

// isFenceDelimiter reports whether a line opens or closes a standard fenced
// block. Long backtick-prefixed lines are prose, not fences.
func isFenceDelimiter(line string) bool {
	trimmed := strings.TrimSpace(line)
	if !strings.HasPrefix(trimmed, "```") {
		return false
	}
	return len(strings.ReplaceAll(trimmed, "`", "")) < 15
}

var dashedDelimiter = regexp.MustCompile(`^\s*-{3,}[ \t]*$`)

// isDashedDelimiter reports whether a line is a dashed code-block delimiter.
func isDashedDelimiter(line string) bool {
	return dashedDelimiter.MatchString(line)
}
