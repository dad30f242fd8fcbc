// Package repair rebuilds malformed fenced code blocks in converted
// Markdown: fused fence delimiters are split, dashed delimiters become
// standard fences, stray emphasis inside code is removed and every block gets
// a usable language spec.
package repair

import (
	"context"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"

	"github.com/wenku-io/docx2markdown/internal/cleaner"
)

// DemoTitle marks blocks whose fence metadata was reconstructed rather than
// authored. It is inserted as the first content line of auto-fixed blocks.
const DemoTitle = "演示"

// Options configures a repair run.
type Options struct {
	// DefaultLanguage is assigned to damaged blocks when no resolver can
	// name a better one.
	DefaultLanguage string

	// FormatCode enables the heuristic re-indent and operator spacing pass
	// on block contents.
	FormatCode bool
}

// DefaultOptions returns the options used by the CLI when no configuration
// overrides them.
func DefaultOptions() Options {
	return Options{
		DefaultLanguage: "c",
		FormatCode:      true,
	}
}

// Session runs one repair pass and carries its state: the options, the
// language resolver, the progress sink and the running block counter.
type Session struct {
	opts     Options
	resolver Resolver
	progress io.Writer

	// Blocks is the number of fenced blocks processed so far.
	Blocks int
}

// NewSession creates a repair session. A nil resolver keeps intact blocks
// and auto-fixes damaged ones; a nil progress writer discards progress
// messages.
func NewSession(opts Options, resolver Resolver, progress io.Writer) *Session {
	if opts.DefaultLanguage == "" {
		opts.DefaultLanguage = DefaultOptions().DefaultLanguage
	}
	if resolver == nil {
		resolver = &AutoResolver{Default: opts.DefaultLanguage}
	}
	if progress == nil {
		progress = io.Discard
	}
	return &Session{opts: opts, resolver: resolver, progress: progress}
}

func (s *Session) logf(format string, args ...any) {
	fmt.Fprintf(s.progress, format+"\n", args...)
}

var fusedFences = regexp.MustCompile("(?m)^(```[ \t]*)(```.*)$")

// Repair runs the full pass over a Markdown document and returns the
// repaired text.
func (s *Session) Repair(ctx context.Context, text string) (string, error) {
	if split := fusedFences.ReplaceAllString(text, "$1\n$2"); split != text {
		s.logf("检测到并已分离错误合并的代码块分隔符。")
		text = split
	}

	text = s.convertDashedBlocks(text)

	text, err := s.rebuildBlocks(ctx, text)
	if err != nil {
		return "", err
	}

	return s.closeUnterminated(text), nil
}

// RepairFile reads inPath, repairs it and writes the result to outPath.
func (s *Session) RepairFile(ctx context.Context, inPath, outPath string) error {
	data, err := os.ReadFile(inPath)
	if err != nil {
		return fmt.Errorf("failed to read input file: %w", err)
	}
	repaired, err := s.Repair(ctx, string(data))
	if err != nil {
		return err
	}
	return cleaner.WriteFileAtomic(outPath, []byte(repaired))
}

var trailingBackslash = regexp.MustCompile(`(?m)\\[ \t]*$`)

// convertDashedBlocks rewrites dashed code blocks into standard fences.
// Standard fenced blocks are buffered verbatim so dashed delimiters inside
// them are never touched.
func (s *Session) convertDashedBlocks(text string) string {
	const (
		outside = iota
		inFenced
		inDashed
	)

	var (
		out     []string
		buffer  []string
		opening string
		state   = outside
	)

	for _, line := range strings.Split(text, "\n") {
		switch state {
		case inFenced:
			buffer = append(buffer, line)
			if isFenceDelimiter(line) {
				out = append(out, buffer...)
				buffer = nil
				state = outside
			}
		case inDashed:
			if isDashedDelimiter(line) {
				out = append(out, s.fenceFromDashed(strings.Join(buffer, "\n")))
				buffer = nil
				state = outside
			} else {
				buffer = append(buffer, line)
			}
		default:
			switch {
			case isFenceDelimiter(line):
				state = inFenced
				buffer = append(buffer, line)
			case isDashedDelimiter(line):
				state = inDashed
				opening = line
			default:
				out = append(out, line)
			}
		}
	}

	// Anything still buffered belongs to an unterminated block; keep it
	// unconverted.
	switch state {
	case inFenced:
		s.logf("警告: 检测到文件末尾存在一个未闭合的 '```' 代码块。")
		out = append(out, buffer...)
	case inDashed:
		s.logf("警告: 检测到文件末尾存在一个未闭合的 '---' 代码块。")
		out = append(out, opening)
		out = append(out, buffer...)
	}

	return strings.Join(out, "\n")
}

// fenceFromDashed turns the interior of one dashed block into a standard
// fenced block. A leading known language and a following identifier line
// become the fence spec.
func (s *Session) fenceFromDashed(content string) string {
	content = trailingBackslash.ReplaceAllString(content, "")
	content = strings.TrimSpace(content)
	lines := strings.Split(content, "\n")

	for len(lines) > 0 && strings.TrimSpace(lines[0]) == "" {
		lines = lines[1:]
	}

	var lang, title string
	if len(lines) > 0 {
		if candidate := strings.TrimSpace(lines[0]); isKnownLanguage(candidate) {
			lang = candidate
			lines = lines[1:]
		}
	}
	if len(lines) > 0 {
		if candidate := strings.TrimSpace(lines[0]); candidate != "" && isIdentifier(candidate) && !dividerOnly.MatchString(candidate) {
			title = candidate
			lines = lines[1:]
		}
	}

	// A title without a language keeps its leading space so the rebuild
	// pass still reads it as a title, not a language.
	spec := lang
	if title != "" {
		spec += " " + title
	}
	return "```" + spec + "\n" + strings.Join(lines, "\n") + "\n```"
}

var fencedBlock = regexp.MustCompile("(?ms)^```.+?^```")

// rebuildBlocks reparses every standard fenced block and reassembles it with
// cleaned content and a resolved language spec.
func (s *Session) rebuildBlocks(ctx context.Context, text string) (string, error) {
	var firstErr error
	out := fencedBlock.ReplaceAllStringFunc(text, func(block string) string {
		if firstErr != nil {
			return block
		}
		rebuilt, err := s.rebuildBlock(ctx, block)
		if err != nil {
			firstErr = err
			return block
		}
		return rebuilt
	})
	if firstErr != nil {
		return "", firstErr
	}
	return out, nil
}

func (s *Session) rebuildBlock(ctx context.Context, block string) (string, error) {
	s.Blocks++
	lang, kind, code := deconstruct(block)

	code = cleanCodeContent(code)
	code = cleanEmphasis(code)
	if s.opts.FormatCode {
		code = formatCode(code)
	}

	if kind == kindValid {
		resolved, err := s.resolver.Resolve(ctx, Block{Index: s.Blocks, Language: lang, Code: code}, false)
		if err != nil {
			return "", err
		}
		lang = resolved
	} else {
		s.logf("第 %d 个代码块%s，已自动修正。", s.Blocks, kind.reason())
		resolved, err := s.resolver.Resolve(ctx, Block{Index: s.Blocks, Code: code}, true)
		if err != nil {
			return "", err
		}
		if resolved == "" {
			resolved = s.opts.DefaultLanguage
		}
		lang = resolved

		if !strings.HasPrefix(strings.TrimSpace(code), DemoTitle) {
			if code == "" {
				code = DemoTitle
			} else {
				code = DemoTitle + "\n" + code
			}
		}
	}

	code = strings.TrimSpace(code)
	if lang != "" {
		return "```" + lang + "\n" + code + "\n```", nil
	}
	return "```\n" + code + "\n```", nil
}

// closeUnterminated appends a closing fence when the document ends inside an
// open block.
func (s *Session) closeUnterminated(text string) string {
	open := false
	for _, line := range strings.Split(text, "\n") {
		if isFenceDelimiter(line) {
			open = !open
		}
	}
	if !open {
		return text
	}
	s.logf("警告: 文件末尾存在未闭合的代码块，已自动补全闭合标签。")
	return strings.TrimRight(text, "\n") + "\n```\n"
}
