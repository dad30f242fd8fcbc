// Package splitter splits a Markdown document into one file per section at
// a chosen heading level. Heading discovery goes through the Markdown parser,
// so heading-shaped lines inside fenced code blocks never split anything.
package splitter

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	gmtext "github.com/yuin/goldmark/text"

	"github.com/wenku-io/docx2markdown/internal/cleaner"
)

// PrologueFilename holds everything before the first splitting heading.
const PrologueFilename = "00_前言.md"

// Section is one output unit. Title is the raw heading line without the
// marker; the prologue has an empty title.
type Section struct {
	Title string
	Body  string
}

// Splitter splits documents at one heading level.
type Splitter struct {
	level    int
	progress io.Writer
}

// New creates a splitter that splits at the given heading level (1-6).
// Level 0 defaults to 2; a nil progress writer discards progress messages.
func New(level int, progress io.Writer) *Splitter {
	if level < 1 || level > 6 {
		level = 2
	}
	if progress == nil {
		progress = io.Discard
	}
	return &Splitter{level: level, progress: progress}
}

func (s *Splitter) logf(format string, args ...any) {
	fmt.Fprintf(s.progress, format+"\n", args...)
}

// Split cuts the document at every heading of the configured level and
// returns the sections in document order. A non-empty prologue becomes the
// first section with an empty title.
func (s *Splitter) Split(text string) []Section {
	src := []byte(text)
	doc := goldmark.New().Parser().Parse(gmtext.NewReader(src))

	var offsets []int
	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		h, ok := n.(*ast.Heading)
		if !ok || h.Level != s.level || h.Lines().Len() == 0 {
			continue
		}
		seg := h.Lines().At(0)
		offsets = append(offsets, lineStart(src, seg.Start))
	}

	var sections []Section
	prev := 0
	started := false
	for _, off := range offsets {
		chunk := text[prev:off]
		if !started {
			if prologue := strings.TrimSpace(chunk); prologue != "" {
				sections = append(sections, Section{Body: prologue})
			}
			started = true
		} else {
			sections = append(sections, makeSection(chunk))
		}
		prev = off
	}
	if !started {
		if body := strings.TrimSpace(text); body != "" {
			sections = append(sections, Section{Body: body})
		}
		return sections
	}
	sections = append(sections, makeSection(text[prev:]))
	return sections
}

// SplitFile splits inPath into outDir and returns the created file paths in
// order.
func (s *Splitter) SplitFile(inPath, outDir string) ([]string, error) {
	data, err := os.ReadFile(inPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read input file: %w", err)
	}
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	var written []string
	used := make(map[string]bool)
	for _, sec := range s.Split(string(data)) {
		name := PrologueFilename
		if sec.Title != "" {
			name = uniqueName(used, SanitizeFilename(sec.Title))
		}
		used[name] = true

		path := filepath.Join(outDir, name)
		if err := cleaner.WriteFileAtomic(path, []byte(sec.Body)); err != nil {
			return written, err
		}
		written = append(written, path)
		s.logf("已创建文件: %s", path)
	}
	return written, nil
}

// makeSection builds a Section from a slice that starts at a heading line.
func makeSection(chunk string) Section {
	header, rest, _ := strings.Cut(chunk, "\n")
	header = strings.TrimSpace(header)
	title := strings.TrimSpace(strings.TrimLeft(header, "#"))

	body := header
	if rest = strings.TrimSpace(rest); rest != "" {
		body += "\n\n" + rest
	}
	return Section{Title: title, Body: body}
}

// lineStart returns the offset of the first byte of the line containing pos.
func lineStart(src []byte, pos int) int {
	if pos > len(src) {
		pos = len(src)
	}
	return bytes.LastIndexByte(src[:pos], '\n') + 1
}

var (
	leadingMarkers   = regexp.MustCompile(`^[#\s]+`)
	invalidFileChars = regexp.MustCompile(`[\\/*?:"<>|]`)
	whitespaceRun    = regexp.MustCompile(`\s+`)
)

const maxFilenameRunes = 100

// SanitizeFilename turns a heading into a safe .md filename.
func SanitizeFilename(name string) string {
	name = leadingMarkers.ReplaceAllString(strings.TrimSpace(name), "")
	name = invalidFileChars.ReplaceAllString(name, "")
	name = whitespaceRun.ReplaceAllString(name, "_")
	if runes := []rune(name); len(runes) > maxFilenameRunes {
		name = string(runes[:maxFilenameRunes])
	}
	if name == "" {
		name = "未命名"
	}
	return name + ".md"
}

// uniqueName appends a numeric suffix when a heading repeats.
func uniqueName(used map[string]bool, name string) string {
	if !used[name] {
		return name
	}
	base := strings.TrimSuffix(name, ".md")
	for i := 2; ; i++ {
		candidate := fmt.Sprintf("%s_%d.md", base, i)
		if !used[candidate] {
			return candidate
		}
	}
}
