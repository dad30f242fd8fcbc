// Package cleaner implements the HTML/table cleanup stage of the pipeline.
// It tells Markdown tables, legacy plain-text tables and fenced code blocks
// apart inside an unstructured line stream, converts the legacy tables to
// Markdown, and rewrites only free text. Recognized code blocks and Markdown
// tables pass through byte for byte.
package cleaner

import (
	"strings"
	"unicode"

	"github.com/mattn/go-runewidth"
)

// Label classifies a single input line.
type Label int

const (
	LabelText Label = iota
	// LabelCodeDivider is a single run of 3+ hyphens with no internal
	// whitespace: a horizontal divider or a dashed code-block boundary.
	LabelCodeDivider
	// LabelTableSeparator is two or more whitespace-separated hyphen runs:
	// the border of a legacy plain-text table, one run per column.
	LabelTableSeparator
	// LabelTableRow is a Markdown table row (two or more pipes).
	LabelTableRow
	// LabelAlignmentRow is a Markdown table alignment row (|---|:--:|...).
	LabelAlignmentRow
	// LabelFence is a backtick or tilde code fence.
	LabelFence
)

// String returns the label name for diagnostics.
func (l Label) String() string {
	switch l {
	case LabelCodeDivider:
		return "code-divider"
	case LabelTableSeparator:
		return "table-separator"
	case LabelTableRow:
		return "table-row"
	case LabelAlignmentRow:
		return "alignment-row"
	case LabelFence:
		return "fence"
	default:
		return "text"
	}
}

// Classify labels one line according to the priority rules of the cleanup
// engine. prev is the label assigned to the previous line; it decides whether
// a dash-only pipe row is an alignment row attached to a header above it.
//
// The load-bearing rule is the divider-vs-border one: a lone hyphen run is
// always a divider, never a table border. Only whitespace separation into two
// or more runs marks a legacy table border (one run per column).
func Classify(line string, prev Label) Label {
	s := strings.TrimSpace(line)
	switch {
	case s == "":
		return LabelText
	case dashRun(s):
		return LabelCodeDivider
	case len(dashGroups(line)) >= 2:
		return LabelTableSeparator
	case strings.Count(s, "|") >= 2:
		if prev == LabelTableRow && isAlignmentRow(s) {
			return LabelAlignmentRow
		}
		return LabelTableRow
	case isFence(s):
		return LabelFence
	}
	return LabelText
}

// dashRun reports whether s is a run of 3 or more hyphens and nothing else.
func dashRun(s string) bool {
	if len(s) < 3 {
		return false
	}
	for _, r := range s {
		if r != '-' {
			return false
		}
	}
	return true
}

// isFence reports whether s opens or closes a fenced code block. Mirroring
// the upstream behavior, a fence may carry a short info string; anything
// longer is a line that merely starts with backticks.
func isFence(s string) bool {
	if !strings.HasPrefix(s, "```") && !strings.HasPrefix(s, "~~~") {
		return false
	}
	info := strings.Trim(s, "`~")
	return len(info) < 15
}

// isAlignmentRow reports whether the cells of a pipe row contain only
// hyphens, colons and whitespace.
func isAlignmentRow(s string) bool {
	seen := false
	for _, r := range s {
		switch {
		case r == '-':
			seen = true
		case r == ':' || r == '|' || unicode.IsSpace(r):
		default:
			return false
		}
	}
	return seen
}

// dashGroup is one hyphen run of a legacy table border. Its extent is
// measured in display columns (wide runes count as two cells), because the
// exporters that emit these tables align columns visually.
type dashGroup struct {
	start int
	end   int
}

// dashGroups splits a candidate border line into hyphen runs. It returns nil
// unless the line consists solely of whitespace and at least two runs of 3+
// hyphens each. Column positions are taken from the raw line, so leading
// indentation counts toward the first column.
func dashGroups(line string) []dashGroup {
	var groups []dashGroup
	col := 0
	runStart := -1
	runDashes := 0
	flush := func() bool {
		if runStart < 0 {
			return true
		}
		if runDashes < 3 {
			return false
		}
		groups = append(groups, dashGroup{start: runStart, end: col})
		runStart = -1
		runDashes = 0
		return true
	}
	for _, r := range line {
		switch {
		case r == '-':
			if runStart < 0 {
				runStart = col
			}
			runDashes++
		case unicode.IsSpace(r):
			if !flush() {
				return nil
			}
		default:
			return nil
		}
		col += displayWidth(r)
	}
	if !flush() {
		return nil
	}
	if len(groups) < 2 {
		return nil
	}
	return groups
}

func displayWidth(r rune) int {
	if r == '\t' {
		// A tab advances at least one cell; exact stops don't matter here
		// because borders and cells are separated by runs of spaces.
		return 1
	}
	w := runewidth.RuneWidth(r)
	if w == 0 {
		return 1
	}
	return w
}
