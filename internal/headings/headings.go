// Package headings promotes standalone bold lines left over by document
// conversion to real Markdown headings. The user decides the level of every
// candidate through a Prompter; existing standard headings are collected into
// a running outline for context.
package headings

import (
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/wenku-io/docx2markdown/internal/cleaner"
	"github.com/wenku-io/docx2markdown/internal/prompt"
)

// ErrCancelled is returned when the user aborts the whole correction run.
var ErrCancelled = errors.New("heading correction cancelled")

// Heading is one entry of the document outline.
type Heading struct {
	Level int
	Text  string
}

var (
	boldLine     = regexp.MustCompile(`^\s*\*\*(.*?)\*\*\s*$`)
	standardLine = regexp.MustCompile(`^(#{1,6})\s+(.+)$`)
)

// Prompt choice values for the non-level answers.
const (
	choiceSkip   = "skip"
	choiceCancel = "cancel"
)

// Corrector walks a document and rewrites confirmed bold lines as headings.
type Corrector struct {
	prompter prompt.Prompter
	progress io.Writer

	allowLevelOne bool
	levelOneAsked bool
	tree          []Heading
}

// NewCorrector creates a corrector. A nil progress writer discards progress
// messages.
func NewCorrector(p prompt.Prompter, progress io.Writer) *Corrector {
	if progress == nil {
		progress = io.Discard
	}
	return &Corrector{
		prompter:      p,
		progress:      progress,
		allowLevelOne: true,
	}
}

// Tree returns the outline collected so far: pre-existing headings followed
// by every promoted one in document order.
func (c *Corrector) Tree() []Heading {
	return c.tree
}

func (c *Corrector) logf(format string, args ...any) {
	fmt.Fprintf(c.progress, format+"\n", args...)
}

// Correct processes one document. Bold lines inside fenced code blocks are
// never candidates.
func (c *Corrector) Correct(text string) (string, error) {
	lines := strings.Split(text, "\n")
	c.collectExisting(lines)

	out := make([]string, 0, len(lines))
	inFence := false
	for _, line := range lines {
		if isFenceDelimiter(line) {
			inFence = !inFence
			out = append(out, line)
			continue
		}
		if inFence {
			out = append(out, line)
			continue
		}

		corrected, level, err := c.correctLine(line)
		if err != nil {
			return "", err
		}
		if corrected == "" {
			out = append(out, line)
			continue
		}
		out = append(out, corrected)

		if level == 1 && !c.levelOneAsked {
			if err := c.askKeepLevelOne(); err != nil {
				return "", err
			}
		}
	}
	return strings.Join(out, "\n"), nil
}

// CorrectFile reads inPath, corrects it and writes the result to outPath.
func (c *Corrector) CorrectFile(inPath, outPath string) error {
	data, err := os.ReadFile(inPath)
	if err != nil {
		return fmt.Errorf("failed to read input file: %w", err)
	}
	corrected, err := c.Correct(string(data))
	if err != nil {
		return err
	}
	return cleaner.WriteFileAtomic(outPath, []byte(corrected))
}

// collectExisting records the standard headings already present so the
// outline shown during prompts covers the whole document.
func (c *Corrector) collectExisting(lines []string) {
	inFence := false
	for _, line := range lines {
		if isFenceDelimiter(line) {
			inFence = !inFence
			continue
		}
		if inFence {
			continue
		}
		if m := standardLine.FindStringSubmatch(strings.TrimSpace(line)); m != nil {
			c.tree = append(c.tree, Heading{Level: len(m[1]), Text: strings.TrimSpace(m[2])})
		}
	}
}

// correctLine returns the replacement heading and its level, or "" when the
// line is not a candidate or the user skipped it.
func (c *Corrector) correctLine(line string) (string, int, error) {
	m := boldLine.FindStringSubmatch(line)
	if m == nil {
		return "", 0, nil
	}
	text := strings.TrimSpace(m[1])
	if text == "" {
		return "", 0, nil
	}

	c.logf("找到潜在标题: 【%s】", text)
	title := fmt.Sprintf("修正标题: 【%s】\n%s", text, c.renderTree())

	choice, err := c.prompter.Select(title, c.levelOptions())
	if err != nil {
		return "", 0, err
	}
	switch choice {
	case choiceSkip:
		c.logf("--> 已跳过，保留原样。")
		return "", 0, nil
	case choiceCancel:
		return "", 0, ErrCancelled
	}

	level, err := strconv.Atoi(choice)
	if err != nil || level < 1 || level > 6 {
		return "", 0, fmt.Errorf("unexpected heading level choice: %q", choice)
	}

	c.logf("--> 已转换为 %d 级标题。", level)
	c.tree = append(c.tree, Heading{Level: level, Text: text})
	return strings.Repeat("#", level) + " " + text, level, nil
}

func (c *Corrector) levelOptions() []prompt.Option {
	start := 2
	if c.allowLevelOne {
		start = 1
	}
	options := make([]prompt.Option, 0, 8)
	for i := start; i <= 6; i++ {
		options = append(options, prompt.Option{
			Label: fmt.Sprintf("H%d - %s", i, strings.Repeat("#", i)),
			Value: strconv.Itoa(i),
		})
	}
	options = append(options,
		prompt.Option{Label: "跳过此项", Value: choiceSkip},
		prompt.Option{Label: "取消整个流程", Value: choiceCancel},
	)
	return options
}

// askKeepLevelOne runs once after the first level-one heading is set.
func (c *Corrector) askKeepLevelOne() error {
	c.levelOneAsked = true
	keep, err := c.prompter.Confirm("这是第一个一级标题。之后是否还需要设置一级标题?")
	if err != nil {
		return err
	}
	if !keep {
		c.allowLevelOne = false
		c.logf("--> 好的，后续将禁用一级标题的设置。")
	}
	return nil
}

// renderTree draws the collected outline for display in prompts.
func (c *Corrector) renderTree() string {
	if len(c.tree) == 0 {
		return "（暂无已处理的标题）"
	}
	var b strings.Builder
	for _, h := range c.tree {
		b.WriteString(strings.Repeat("  ", h.Level-1))
		b.WriteString(strings.Repeat("#", h.Level))
		b.WriteString(" ")
		b.WriteString(h.Text)
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

// isFenceDelimiter matches the fence rule used by the earlier stages: a
// short line starting with three backticks.
func isFenceDelimiter(line string) bool {
	trimmed := strings.TrimSpace(line)
	if !strings.HasPrefix(trimmed, "```") {
		return false
	}
	return len(strings.ReplaceAll(trimmed, "`", "")) < 15
}
