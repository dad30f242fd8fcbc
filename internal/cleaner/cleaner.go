package cleaner

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// Warning codes recorded by the cleanup pass. All of them are non-fatal: the
// affected lines are left unconverted or padded, never dropped.
const (
	WarnMalformedTable = "malformed-table"
	WarnRaggedRow      = "ragged-row"
	WarnUnclosedFence  = "unclosed-fence"
)

// Warning is a line-numbered, non-fatal diagnostic. Line is 1-based.
type Warning struct {
	Line    int
	Code    string
	Message string
}

func (w Warning) String() string {
	return fmt.Sprintf("第 %d 行: %s", w.Line, w.Message)
}

// Options configures the cleanup pass.
type Options struct {
	// HeaderFromFirstRow uses the first content row of a legacy table as
	// the Markdown header row. When false an empty header is synthesized
	// and every content row becomes data.
	HeaderFromFirstRow bool

	// StripTags is the allow-list of inline HTML tags to remove from free
	// text. Empty means DefaultStripTags.
	StripTags []string

	// StripBackslashes removes converter-added escape backslashes from
	// free-text lines.
	StripBackslashes bool
}

// DefaultOptions returns the options used by the CLI when no configuration
// overrides them.
func DefaultOptions() Options {
	return Options{
		HeaderFromFirstRow: true,
		StripBackslashes:   true,
	}
}

// Cleaner runs the cleanup pass. It holds no per-run state: Clean is a pure
// function of its input and the options, safe to call repeatedly or from
// concurrent goroutines on independent inputs.
type Cleaner struct {
	opts  Options
	strip *regexp.Regexp
}

// New creates a Cleaner with the given options.
func New(opts Options) *Cleaner {
	return &Cleaner{opts: opts, strip: stripPattern(opts.StripTags)}
}

// Clean transforms Markdown text in a single forward pass and returns the
// result with any non-fatal warnings. Bytes inside recognized code blocks and
// Markdown tables are preserved exactly; running Clean on its own output
// yields no further changes.
func (c *Cleaner) Clean(text string) (string, []Warning) {
	text = normalizeNewlines(text)
	lines := strings.Split(text, "\n")

	regions, warns := Track(lines)
	out := make([]string, 0, len(lines))
	for _, reg := range regions {
		switch reg.Mode {
		case ModeCodeBlock, ModeMarkdownTable:
			out = append(out, lines[reg.Start:reg.End]...)
		case ModeLegacyTable:
			out = append(out, reg.Table.Markdown(c.opts.HeaderFromFirstRow)...)
		default:
			if reg.Verbatim {
				out = append(out, lines[reg.Start:reg.End]...)
				continue
			}
			out = append(out, c.cleanFreeRegion(lines[reg.Start:reg.End])...)
		}
	}
	return strings.Join(out, "\n"), warns
}

// cleanFreeRegion rewrites the lines of one free-text region and collapses
// runs of blank lines down to a single blank line. Protected regions keep
// their blank lines; only free text is compacted.
func (c *Cleaner) cleanFreeRegion(lines []string) []string {
	out := make([]string, 0, len(lines))
	blank := false
	for _, line := range lines {
		line = c.cleanLine(line)
		if strings.TrimSpace(line) == "" {
			if blank {
				continue
			}
			blank = true
			out = append(out, line)
			continue
		}
		blank = false
		out = append(out, line)
	}
	return out
}

// CleanFile reads inPath, cleans it and writes the result to outPath. The
// output is written to a temporary file first and renamed into place, so a
// failed run never leaves a partial file behind. The input is never
// overwritten.
func (c *Cleaner) CleanFile(inPath, outPath string) ([]Warning, error) {
	data, err := os.ReadFile(inPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read input file: %w", err)
	}

	cleaned, warns := c.Clean(string(data))

	if err := WriteFileAtomic(outPath, []byte(cleaned)); err != nil {
		return warns, err
	}
	return warns, nil
}

// WriteFileAtomic writes data to path via a temporary file in the same
// directory plus a rename.
func WriteFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".docx2markdown-*")
	if err != nil {
		return fmt.Errorf("failed to create temporary file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write output: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close output: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to move output into place: %w", err)
	}
	return nil
}

func normalizeNewlines(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}
