package cleaner

import (
	"fmt"
	"strings"
)

// Mode is the protection mode of a region.
type Mode int

const (
	ModeFreeText Mode = iota
	ModeCodeBlock
	ModeMarkdownTable
	ModeLegacyTable
)

// String returns the mode name for diagnostics.
func (m Mode) String() string {
	switch m {
	case ModeCodeBlock:
		return "code-block"
	case ModeMarkdownTable:
		return "markdown-table"
	case ModeLegacyTable:
		return "legacy-table"
	default:
		return "free-text"
	}
}

// Region is a maximal contiguous span of lines sharing one mode.
// Start is the index of the first line, End is one past the last.
type Region struct {
	Mode  Mode
	Start int
	End   int

	// Table holds the parsed block for ModeLegacyTable regions.
	Table *LegacyTableBlock

	// Dashed marks a code block delimited by dash divider lines rather
	// than backtick fences. The repair stage converts these to fences;
	// the cleanup stage only protects them.
	Dashed bool

	// Verbatim marks a free-text region emitted byte for byte: the span
	// of an unterminated legacy table, left unconverted and uncleaned
	// rather than rewritten by guesswork.
	Verbatim bool
}

// Track partitions lines into regions. The regions cover the input exactly,
// in order, with no gaps and no overlaps. Mode transitions happen only at
// fence and separator boundaries; everything inside a code block passes
// through unclassified, so a table border inside a fence stays a plain line.
//
// A legacy table that never closes is not converted: its lines are emitted
// verbatim up to the next fence or divider boundary, a warning is recorded,
// and tracking resumes there so that any fence after the dangling border is
// still protected.
func Track(lines []string) ([]Region, []Warning) {
	var (
		regions []Region
		warns   []Warning
	)
	free := -1
	openFree := func(i int) {
		if free < 0 {
			free = i
		}
	}
	closeFree := func(i int) {
		if free >= 0 && i > free {
			regions = append(regions, Region{Mode: ModeFreeText, Start: free, End: i})
		}
		free = -1
	}

	prev := LabelText
	i := 0
	for i < len(lines) {
		label := Classify(lines[i], prev)
		prev = label

		switch label {
		case LabelFence:
			end := findFenceClose(lines, i+1)
			closeFree(i)
			if end < 0 {
				warns = append(warns, Warning{
					Line:    i + 1,
					Code:    WarnUnclosedFence,
					Message: "代码块未闭合，其后内容按代码保护",
				})
				regions = append(regions, Region{Mode: ModeCodeBlock, Start: i, End: len(lines)})
				return regions, warns
			}
			regions = append(regions, Region{Mode: ModeCodeBlock, Start: i, End: end + 1})
			i = end + 1

		case LabelCodeDivider:
			end := findDashClose(lines, i+1)
			if end < 0 {
				// A lone divider is a horizontal rule, not a block.
				openFree(i)
				i++
				continue
			}
			closeFree(i)
			regions = append(regions, Region{Mode: ModeCodeBlock, Start: i, End: end + 1, Dashed: true})
			i = end + 1

		case LabelTableSeparator:
			groups := dashGroups(lines[i])
			end := findLegacyClose(lines, i+1, len(groups))
			if end < 0 {
				warns = append(warns, Warning{
					Line:    i + 1,
					Code:    WarnMalformedTable,
					Message: fmt.Sprintf("表格边框未闭合（%d 列），内容保留原样", len(groups)),
				})
				stop := findLegacyStop(lines, i+1)
				closeFree(i)
				regions = append(regions, Region{Mode: ModeFreeText, Start: i, End: stop, Verbatim: true})
				i = stop
				prev = LabelText
				continue
			}
			closeFree(i)
			block, blockWarns := newLegacyTable(lines, i, end, groups)
			warns = append(warns, blockWarns...)
			regions = append(regions, Region{Mode: ModeLegacyTable, Start: i, End: end + 1, Table: block})
			i = end + 1

		case LabelTableRow:
			if i+1 < len(lines) && Classify(lines[i+1], LabelTableRow) == LabelAlignmentRow {
				end := i + 2
				for end < len(lines) {
					s := strings.TrimSpace(lines[end])
					if s == "" || !strings.Contains(s, "|") {
						break
					}
					end++
				}
				closeFree(i)
				regions = append(regions, Region{Mode: ModeMarkdownTable, Start: i, End: end})
				i = end
				prev = LabelText
				continue
			}
			// A pipe row without an alignment row below it is plain text.
			openFree(i)
			i++

		default:
			openFree(i)
			i++
		}
	}
	closeFree(len(lines))
	return regions, warns
}

// findFenceClose returns the index of the closing fence line, or -1.
func findFenceClose(lines []string, from int) int {
	for j := from; j < len(lines); j++ {
		if isFence(strings.TrimSpace(lines[j])) {
			return j
		}
	}
	return -1
}

// findDashClose returns the index of the dash line closing a dashed code
// block, or -1 when the opener was just a horizontal rule.
func findDashClose(lines []string, from int) int {
	for j := from; j < len(lines); j++ {
		s := strings.TrimSpace(lines[j])
		if dashRun(s) {
			return j
		}
		// A table border or a fence before any close means the opener did
		// not start a dashed block.
		if isFence(s) || len(dashGroups(lines[j])) >= 2 {
			return -1
		}
	}
	return -1
}

// findLegacyStop returns the index of the first line after an unterminated
// table border that must be tracked on its own (a fence, a divider or a
// border), or len(lines). The span before it is emitted verbatim.
func findLegacyStop(lines []string, from int) int {
	for j := from; j < len(lines); j++ {
		s := strings.TrimSpace(lines[j])
		if isFence(s) || dashRun(s) || len(dashGroups(lines[j])) >= 2 {
			return j
		}
	}
	return len(lines)
}

// findLegacyClose returns the index of the separator closing a legacy table
// opened with the given column-group count, or -1. The search gives up at a
// fence, a plain divider, or a border with a different column count: such a
// table is malformed and must not be converted by guesswork.
func findLegacyClose(lines []string, from, groups int) int {
	for j := from; j < len(lines); j++ {
		s := strings.TrimSpace(lines[j])
		if isFence(s) || dashRun(s) {
			return -1
		}
		if g := dashGroups(lines[j]); len(g) >= 2 {
			if len(g) == groups {
				return j
			}
			return -1
		}
	}
	return -1
}
