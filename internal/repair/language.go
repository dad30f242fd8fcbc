package repair

import (
	"regexp"
	"sort"
	"strings"

	"github.com/alecthomas/chroma/v2/lexers"
)

// KnownLanguages is the set of fence identifiers accepted as a language on
// the opening line of a code block. Anything else on that position is treated
// as content that leaked into the fence.
var KnownLanguages = map[string]bool{
	"c": true, "cpp": true, "c++": true, "python": true, "py": true,
	"java": true, "javascript": true, "js": true, "html": true,
	"css": true, "yaml": true, "bash": true, "shell": true, "sh": true,
	"sql": true, "go": true, "rust": true, "typescript": true, "ts": true,
	"markdown": true, "json": true, "xml": true, "ruby": true, "php": true,
}

// KnownLanguageList returns the known identifiers sorted.
func KnownLanguageList() []string {
	names := make([]string, 0, len(KnownLanguages))
	for name := range KnownLanguages {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

var identifierOnly = regexp.MustCompile(`^[a-zA-Z0-9_.-]+$`)

// isIdentifier reports whether s is a legal language or title identifier.
func isIdentifier(s string) bool {
	return identifierOnly.MatchString(s)
}

// isKnownLanguage reports whether s names a language from KnownLanguages.
func isKnownLanguage(s string) bool {
	return KnownLanguages[strings.ToLower(s)]
}

// AnalyseLanguage guesses the language of a code snippet from its content and
// returns a known fence identifier, or "" when no confident match exists.
func AnalyseLanguage(code string) string {
	lexer := lexers.Analyse(code)
	if lexer == nil {
		return ""
	}
	cfg := lexer.Config()
	candidates := make([]string, 0, len(cfg.Aliases)+1)
	candidates = append(candidates, cfg.Aliases...)
	candidates = append(candidates, strings.ToLower(cfg.Name))
	for _, c := range candidates {
		if KnownLanguages[c] {
			return c
		}
	}
	return ""
}
