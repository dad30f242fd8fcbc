// Package converter turns Word documents into Markdown by driving the
// external Pandoc binary and restructuring the media it extracts.
package converter

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strings"
)

// Converter runs one document conversion.
type Converter struct {
	// Pandoc is the binary name or path, "pandoc" by default.
	Pandoc string

	progress io.Writer
}

// New creates a converter. A nil progress writer discards progress messages.
func New(progress io.Writer) *Converter {
	if progress == nil {
		progress = io.Discard
	}
	return &Converter{Pandoc: "pandoc", progress: progress}
}

func (c *Converter) logf(format string, args ...any) {
	fmt.Fprintf(c.progress, format+"\n", args...)
}

// Convert converts docxPath into outputDir and returns the path of the
// generated Markdown file. Images are extracted under outputDir/media/media
// and the links in the Markdown are rewritten to match.
func (c *Converter) Convert(ctx context.Context, docxPath, outputDir string) (string, error) {
	if err := c.checkInput(docxPath); err != nil {
		return "", err
	}
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	base := strings.TrimSuffix(filepath.Base(docxPath), filepath.Ext(docxPath))
	outPath := filepath.Join(outputDir, base+".md")
	mediaDir := filepath.Join(outputDir, "media")

	c.logf("正在运行 Pandoc 命令...")
	cmd := exec.CommandContext(ctx, c.Pandoc, docxPath,
		"-f", "docx", "-t", "markdown",
		"--extract-media", mediaDir,
		"-o", outPath)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			return "", fmt.Errorf("未找到 Pandoc，请先从 pandoc.org 安装并加入系统路径")
		}
		return "", fmt.Errorf("Pandoc 转换失败: %s", strings.TrimSpace(stderr.String()))
	}
	c.logf("Pandoc 转换成功。")

	if err := restructureMedia(mediaDir); err != nil {
		return "", err
	}
	if err := rewriteImageLinks(outPath); err != nil {
		return "", err
	}
	c.logf("图片路径和链接已更新。")

	return outPath, nil
}

// checkInput verifies that the input exists and really is a docx. A legacy
// .doc gets a targeted message instead of an opaque Pandoc failure.
func (c *Converter) checkInput(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("无法打开输入文件: %w", err)
	}
	defer f.Close()

	format, err := DetectFormatFromReader(f)
	if err != nil {
		return fmt.Errorf("无法识别输入文件: %w", err)
	}
	switch format {
	case FormatDocx:
		return nil
	case FormatDoc:
		if isLegacyWordFile(path) {
			return fmt.Errorf("输入是旧版 .doc 文件，请先在 Word 中另存为 .docx 再转换")
		}
		return fmt.Errorf("输入是 OLE 复合文档但不是 Word 文件")
	default:
		return fmt.Errorf("不支持的文件格式，仅支持 .docx")
	}
}

// restructureMedia moves the files Pandoc placed in mediaDir down into
// mediaDir/media, producing the media/media layout the cleaned Markdown
// links against.
func restructureMedia(mediaDir string) error {
	entries, err := os.ReadDir(mediaDir)
	if err != nil {
		if os.IsNotExist(err) {
			// Document without images
			return nil
		}
		return fmt.Errorf("failed to read media directory: %w", err)
	}

	finalDir := filepath.Join(mediaDir, "media")
	if err := os.MkdirAll(finalDir, 0755); err != nil {
		return fmt.Errorf("failed to create media directory: %w", err)
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		src := filepath.Join(mediaDir, entry.Name())
		dst := filepath.Join(finalDir, entry.Name())
		if err := os.Rename(src, dst); err != nil {
			return fmt.Errorf("failed to move media file: %w", err)
		}
	}
	return nil
}

var mediaLinkPrefix = regexp.MustCompile(`!\[(.*?)\]\(media/`)

// rewriteImageLinks updates image links in the generated Markdown from
// media/ to media/media/.
func rewriteImageLinks(mdPath string) error {
	data, err := os.ReadFile(mdPath)
	if err != nil {
		return fmt.Errorf("failed to read converted file: %w", err)
	}
	updated := mediaLinkPrefix.ReplaceAll(data, []byte("![$1](media/media/"))
	if bytes.Equal(updated, data) {
		return nil
	}
	if err := os.WriteFile(mdPath, updated, 0644); err != nil {
		return fmt.Errorf("failed to update converted file: %w", err)
	}
	return nil
}
