package cleaner

import (
	"fmt"
	"regexp"
	"strings"
)

// cellGap splits legacy table rows that cannot be cut cleanly at the border
// columns. Two or more spaces never occur inside a cell in practice, while a
// single space frequently does.
var cellGap = regexp.MustCompile(`\s{2,}`)

// LegacyTableBlock is a closed legacy plain-text table: an opening separator,
// one or more content lines, and a closing separator with the same column
// count. It is built once by the tracker and consumed whole by Markdown;
// it is never mutated afterwards.
type LegacyTableBlock struct {
	Start   int         // line index of the opening separator
	End     int         // line index of the closing separator
	Columns []dashGroup // column extents from the opening separator
	Rows    [][]string  // trimmed cells per content line, normalized to len(Columns)
}

// newLegacyTable slices the content lines between the two separators into
// cells. Rows whose cell count does not match the column count are padded
// (or right-merged) rather than rejected; the conversion is best effort and
// never blocks the pipeline.
func newLegacyTable(lines []string, open, close int, groups []dashGroup) (*LegacyTableBlock, []Warning) {
	t := &LegacyTableBlock{Start: open, End: close, Columns: groups}
	var warns []Warning
	for i := open + 1; i < close; i++ {
		if strings.TrimSpace(lines[i]) == "" {
			continue
		}
		cells := sliceRow(lines[i], groups)
		if len(cells) != len(groups) {
			warns = append(warns, Warning{
				Line:    i + 1,
				Code:    WarnRaggedRow,
				Message: fmt.Sprintf("表格行有 %d 个单元格，应为 %d 个，已补齐", len(cells), len(groups)),
			})
			cells = normalizeCells(cells, len(groups))
		}
		t.Rows = append(t.Rows, cells)
	}
	return t, warns
}

// sliceRow cuts one content line at the display columns where the border's
// dash runs begin, so cells keep their internal spaces. Exported tables align
// columns visually and CJK text can drift a cell or two, so when a cut lands
// inside a word the row falls back to splitting on runs of 2+ spaces.
func sliceRow(line string, groups []dashGroup) []string {
	cells, ok := cutAtColumns(line, groups)
	if ok {
		return cells
	}
	fields := cellGap.Split(strings.TrimSpace(line), -1)
	out := fields[:0]
	for _, f := range fields {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}

// cutAtColumns slices line at the start column of every dash group after the
// first. It reports false if any cut would split a non-space run. Columns
// that begin past the end of the line are omitted, leaving a short row for
// the caller to pad.
func cutAtColumns(line string, groups []dashGroup) ([]string, bool) {
	runes := []rune(line)
	cuts := make([]int, 0, len(groups)-1)
	for _, g := range groups[1:] {
		idx, clean, short := runeIndexAtColumn(runes, g.start)
		if !clean {
			return nil, false
		}
		if short {
			break
		}
		cuts = append(cuts, idx)
	}
	cells := make([]string, 0, len(groups))
	prev := 0
	for _, cut := range cuts {
		cells = append(cells, strings.TrimSpace(string(runes[prev:cut])))
		prev = cut
	}
	cells = append(cells, strings.TrimSpace(string(runes[prev:])))
	return cells, true
}

// runeIndexAtColumn finds the rune index covering display column col. The cut
// is clean if it falls on whitespace or exactly on the boundary between a
// space and a word. short marks a line that ends before reaching col, i.e. a
// row missing its trailing cells.
func runeIndexAtColumn(runes []rune, col int) (int, bool, bool) {
	pos := 0
	for i, r := range runes {
		if pos >= col {
			clean := r == ' ' || r == '\t' || (i > 0 && (runes[i-1] == ' ' || runes[i-1] == '\t'))
			return i, clean, false
		}
		pos += displayWidth(r)
	}
	return len(runes), true, pos < col
}

// normalizeCells pads a short row with empty cells and merges the overflow of
// a long row into its last cell.
func normalizeCells(cells []string, n int) []string {
	if len(cells) > n {
		merged := strings.Join(cells[n-1:], " ")
		cells = append(cells[:n-1], merged)
	}
	for len(cells) < n {
		cells = append(cells, "")
	}
	return cells
}

// Markdown renders the block as Markdown table lines: a header row, an
// alignment row, and one row per remaining content line. Every emitted row
// has exactly len(Columns) cells. When headerFromFirstRow is false the header
// is synthesized empty and all content lines become data rows.
func (t *LegacyTableBlock) Markdown(headerFromFirstRow bool) []string {
	n := len(t.Columns)
	rows := t.Rows
	header := make([]string, n)
	if headerFromFirstRow && len(rows) > 0 {
		header = rows[0]
		rows = rows[1:]
	}

	out := make([]string, 0, len(rows)+2)
	out = append(out, markdownRow(header))
	align := make([]string, n)
	for i := range align {
		align[i] = "---"
	}
	out = append(out, markdownRow(align))
	for _, row := range rows {
		out = append(out, markdownRow(row))
	}
	return out
}

func markdownRow(cells []string) string {
	var sb strings.Builder
	sb.WriteString("|")
	for _, c := range cells {
		sb.WriteString(" ")
		sb.WriteString(strings.ReplaceAll(c, "|", `\|`))
		sb.WriteString(" |")
	}
	return sb.String()
}
