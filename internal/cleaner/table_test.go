package cleaner

import (
	"strings"
	"testing"
)

func buildBlock(t *testing.T, lines []string) (*LegacyTableBlock, []Warning) {
	t.Helper()
	groups := dashGroups(lines[0])
	if len(groups) < 2 {
		t.Fatalf("test input %q is not a table border", lines[0])
	}
	return newLegacyTable(lines, 0, len(lines)-1, groups)
}

func TestLegacyTableConversion(t *testing.T) {
	lines := []string{
		"---------- ----------",
		"  列1       列2",
		"  数据1     数据2",
		"---------- ----------",
	}
	block, warns := buildBlock(t, lines)
	if len(warns) != 0 {
		t.Fatalf("unexpected warnings: %v", warns)
	}

	got := strings.Join(block.Markdown(true), "\n")
	want := strings.Join([]string{
		"| 列1 | 列2 |",
		"| --- | --- |",
		"| 数据1 | 数据2 |",
	}, "\n")
	if got != want {
		t.Errorf("conversion mismatch:\ngot:\n%s\nwant:\n%s", got, want)
	}
}

func TestLegacyTableCellsKeepInternalSpaces(t *testing.T) {
	lines := []string{
		"-------------- --------------",
		"first value     second value",
		"-------------- --------------",
	}
	block, _ := buildBlock(t, lines)
	if len(block.Rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(block.Rows))
	}
	if block.Rows[0][0] != "first value" || block.Rows[0][1] != "second value" {
		t.Errorf("cells = %q, internal spaces must survive", block.Rows[0])
	}
}

func TestLegacyTableRaggedRowPadded(t *testing.T) {
	lines := []string{
		"------ ------ ------",
		"甲      乙      丙",
		"丁      戊",
		"------ ------ ------",
	}
	block, warns := buildBlock(t, lines)
	if len(warns) != 1 || warns[0].Code != WarnRaggedRow {
		t.Fatalf("expected one ragged-row warning, got %v", warns)
	}
	if warns[0].Line != 3 {
		t.Errorf("warning at line %d, want 3", warns[0].Line)
	}

	// Column-count invariant: every emitted row has exactly N cells.
	for _, row := range block.Markdown(true) {
		if n := strings.Count(row, "|") - 1; n != 3 {
			t.Errorf("row %q has %d cells, want 3", row, n)
		}
	}
}

func TestLegacyTableSynthesizedHeader(t *testing.T) {
	lines := []string{
		"------ ------",
		"甲      乙",
		"------ ------",
	}
	block, _ := buildBlock(t, lines)
	rows := block.Markdown(false)
	if len(rows) != 3 {
		t.Fatalf("expected header, alignment and 1 data row, got %d lines", len(rows))
	}
	if rows[0] != "|  |  |" {
		t.Errorf("synthesized header = %q", rows[0])
	}
	if rows[2] != "| 甲 | 乙 |" {
		t.Errorf("data row = %q", rows[2])
	}
}

func TestLegacyTableEscapesPipes(t *testing.T) {
	lines := []string{
		"---------- ----------",
		"a|b         c",
		"---------- ----------",
	}
	block, _ := buildBlock(t, lines)
	rows := block.Markdown(true)
	if !strings.Contains(rows[0], `a\|b`) {
		t.Errorf("pipe not escaped in %q", rows[0])
	}
}

func TestNormalizeCells(t *testing.T) {
	tests := []struct {
		in   []string
		n    int
		want int
	}{
		{[]string{"a"}, 3, 3},
		{[]string{"a", "b", "c", "d"}, 2, 2},
		{[]string{}, 2, 2},
	}
	for _, tc := range tests {
		if got := normalizeCells(tc.in, tc.n); len(got) != tc.want {
			t.Errorf("normalizeCells(%v, %d) has %d cells, want %d", tc.in, tc.n, len(got), tc.want)
		}
	}
}
