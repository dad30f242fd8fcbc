package converter

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		expected Format
	}{
		{
			name:     "docx extension",
			path:     "document.docx",
			expected: FormatDocx,
		},
		{
			name:     "DOCX uppercase",
			path:     "DOCUMENT.DOCX",
			expected: FormatDocx,
		},
		{
			name:     "legacy doc extension",
			path:     "document.doc",
			expected: FormatDoc,
		},
		{
			name:     "unknown extension",
			path:     "document.hwp",
			expected: FormatUnknown,
		},
		{
			name:     "no extension",
			path:     "document",
			expected: FormatUnknown,
		},
		{
			name:     "path with directory",
			path:     "/path/to/document.docx",
			expected: FormatDocx,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := DetectFormat(tc.path)
			if got != tc.expected {
				t.Errorf("DetectFormat(%q) = %v, want %v", tc.path, got, tc.expected)
			}
		})
	}
}

func TestFormat_String(t *testing.T) {
	tests := []struct {
		format   Format
		expected string
	}{
		{FormatDocx, "docx"},
		{FormatDoc, "doc"},
		{FormatUnknown, "unknown"},
		{Format(999), "unknown"},
	}

	for _, tc := range tests {
		got := tc.format.String()
		if got != tc.expected {
			t.Errorf("Format(%d).String() = %q, want %q", int(tc.format), got, tc.expected)
		}
	}
}

func TestDetectFormatFromReader(t *testing.T) {
	zipHeader := []byte{0x50, 0x4B, 0x03, 0x04, 0x00, 0x00, 0x00, 0x00}
	oleHeader := []byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1}
	unknownHeader := []byte{0x00, 0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07}

	tests := []struct {
		name     string
		data     []byte
		expected Format
	}{
		{
			name:     "zip/docx format",
			data:     zipHeader,
			expected: FormatDocx,
		},
		{
			name:     "ole/doc format",
			data:     oleHeader,
			expected: FormatDoc,
		},
		{
			name:     "unknown format",
			data:     unknownHeader,
			expected: FormatUnknown,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := DetectFormatFromReader(bytes.NewReader(tc.data))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.expected {
				t.Errorf("DetectFormatFromReader() = %v, want %v", got, tc.expected)
			}
		})
	}
}

func TestDetectFormatFromReader_ShortData(t *testing.T) {
	_, err := DetectFormatFromReader(bytes.NewReader([]byte{0x50, 0x4B}))
	if err == nil {
		t.Error("expected error for short data")
	}
}

func TestRestructureMedia(t *testing.T) {
	dir := t.TempDir()
	mediaDir := filepath.Join(dir, "media")
	if err := os.MkdirAll(mediaDir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(mediaDir, "image1.png"), []byte("png"), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := restructureMedia(mediaDir); err != nil {
		t.Fatalf("restructureMedia: %v", err)
	}

	if _, err := os.Stat(filepath.Join(mediaDir, "media", "image1.png")); err != nil {
		t.Errorf("image not moved into media/media: %v", err)
	}
	if _, err := os.Stat(filepath.Join(mediaDir, "image1.png")); !os.IsNotExist(err) {
		t.Error("original image still in media/")
	}
}

func TestRestructureMediaNoImages(t *testing.T) {
	// A document without images produces no media directory at all.
	if err := restructureMedia(filepath.Join(t.TempDir(), "media")); err != nil {
		t.Errorf("missing media directory is not an error: %v", err)
	}
}

func TestRewriteImageLinks(t *testing.T) {
	dir := t.TempDir()
	md := filepath.Join(dir, "out.md")
	content := "前文\n![图一](media/image1.png)\n![](media/image2.jpeg)\n"
	if err := os.WriteFile(md, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := rewriteImageLinks(md); err != nil {
		t.Fatalf("rewriteImageLinks: %v", err)
	}

	data, err := os.ReadFile(md)
	if err != nil {
		t.Fatal(err)
	}
	want := "前文\n![图一](media/media/image1.png)\n![](media/media/image2.jpeg)\n"
	if string(data) != want {
		t.Errorf("rewritten content = %q, want %q", data, want)
	}
}

func TestConvertRejectsNonDocxInput(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "fake.docx")
	if err := os.WriteFile(in, []byte("plain text, not a zip"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := New(nil).Convert(t.Context(), in, filepath.Join(dir, "out"))
	if err == nil {
		t.Fatal("expected an error for a non-docx input")
	}
}

func TestConvertMissingInput(t *testing.T) {
	dir := t.TempDir()
	_, err := New(nil).Convert(t.Context(), filepath.Join(dir, "missing.docx"), dir)
	if err == nil {
		t.Fatal("expected an error for a missing input")
	}
}
