package repair

import (
	"regexp"
	"strings"
)

var (
	boldWrap   = regexp.MustCompile(`\*\*(\w+)\*\*`)
	italicWrap = regexp.MustCompile(`\*(\w+)\*`)

	// malformedComment matches C block comments whose delimiters the
	// converter mangled into emphasis, e.g. */* ... */* or * /* ... */ *.
	malformedComment = regexp.MustCompile(`(?ms)^[ \t]*(?:\*[ \t]*/\*|\*/[ \t]*\*)\s*(.*?)\s*(?:\*/[ \t]*\*|\*[ \t]*/\*)[ \t]*$`)

	// commentEmphasis matches a single-line comment wrapped in stars,
	// e.g. *// 注释*.
	commentEmphasis = regexp.MustCompile(`(?m)^[ \t]*\*(//.*)\*[ \t]*$`)

	escapedBrackets = strings.NewReplacer(`\[`, "[", `\]`, "]")
)

// cleanCodeContent repairs converter damage inside a fenced block before the
// emphasis and formatting passes run: trailing escape backslashes, comment
// delimiters turned into emphasis, and escaped square brackets.
func cleanCodeContent(code string) string {
	code = trailingBackslash.ReplaceAllString(code, "")
	code = malformedComment.ReplaceAllString(code, "/* $1 */")
	code = commentEmphasis.ReplaceAllString(code, "$1")
	return escapedBrackets.Replace(code)
}

// cleanEmphasis removes bold and italic markers that the converter wrapped
// around identifiers inside code, e.g. (void)**pvParameters**; becomes
// (void)pvParameters;. Only markers touching a whole word with non-word
// neighbours are removed, so multiplication stays intact.
func cleanEmphasis(code string) string {
	code = unwrapEmphasis(code, boldWrap)
	return unwrapEmphasis(code, italicWrap)
}

func unwrapEmphasis(s string, re *regexp.Regexp) string {
	matches := re.FindAllStringSubmatchIndex(s, -1)
	if matches == nil {
		return s
	}
	var b strings.Builder
	last := 0
	for _, m := range matches {
		if isWordByte(s, m[0]-1) || isWordByte(s, m[1]) {
			continue
		}
		b.WriteString(s[last:m[0]])
		b.WriteString(s[m[2]:m[3]])
		last = m[1]
	}
	b.WriteString(s[last:])
	return b.String()
}

func isWordByte(s string, i int) bool {
	if i < 0 || i >= len(s) {
		return false
	}
	c := s[i]
	return c == '_' ||
		('0' <= c && c <= '9') ||
		('a' <= c && c <= 'z') ||
		('A' <= c && c <= 'Z')
}

const indentSize = 4

var (
	dividerOnly     = regexp.MustCompile(`^-{3,}$`)
	operatorSpacing = regexp.MustCompile(`[ \t]*([=+\-/])[ \t]*`)
)

// Compound operators that the spacing pass splits apart and must be rejoined.
var compoundOperators = []struct {
	split *regexp.Regexp
	op    string
}{
	{regexp.MustCompile(`\+\s+=`), "+="},
	{regexp.MustCompile(`-\s+=`), "-="},
	{regexp.MustCompile(`\*\s+=`), "*="},
	{regexp.MustCompile(`/\s+=`), "/="},
	{regexp.MustCompile(`=\s+=`), "=="},
	{regexp.MustCompile(`!\s+=`), "!="},
	{regexp.MustCompile(`\+\s+\+`), "++"},
	{regexp.MustCompile(`-\s+-`), "--"},
}

// formatCode normalizes operator spacing and re-indents brace-delimited code.
// This is a heuristic pass for C-family snippets recovered from documents,
// not a real formatter.
func formatCode(code string) string {
	lines := strings.Split(code, "\n")
	out := make([]string, 0, len(lines))
	indent := 0

	for _, line := range lines {
		if dividerOnly.MatchString(strings.TrimSpace(line)) {
			out = append(out, line)
			continue
		}

		line = operatorSpacing.ReplaceAllString(line, " $1 ")
		for _, c := range compoundOperators {
			line = c.split.ReplaceAllString(line, c.op)
		}

		trimmed := strings.TrimSpace(line)
		lineIndent := indent
		if strings.HasPrefix(trimmed, "}") && lineIndent > 0 {
			lineIndent--
		}
		if trimmed == "" {
			out = append(out, "")
		} else {
			out = append(out, strings.Repeat(" ", lineIndent*indentSize)+trimmed)
		}

		indent += strings.Count(trimmed, "{") - strings.Count(trimmed, "}")
		if indent < 0 {
			indent = 0
		}
	}
	return strings.Join(out, "\n")
}
