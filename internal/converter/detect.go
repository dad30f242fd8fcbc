package converter

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/richardlehane/mscfb"
)

// Format represents an input document format.
type Format int

const (
	FormatUnknown Format = iota
	FormatDocx
	FormatDoc // legacy Word binary format
)

// String returns the string representation of the format.
func (f Format) String() string {
	switch f {
	case FormatDocx:
		return "docx"
	case FormatDoc:
		return "doc"
	default:
		return "unknown"
	}
}

// DetectFormat detects the document format from the file path.
func DetectFormat(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".docx":
		return FormatDocx
	case ".doc":
		return FormatDoc
	default:
		return FormatUnknown
	}
}

// DetectFormatFromReader detects the format by reading magic bytes.
func DetectFormatFromReader(r io.ReaderAt) (Format, error) {
	buf := make([]byte, 8)
	n, err := r.ReadAt(buf, 0)
	if err != nil && err != io.EOF {
		return FormatUnknown, fmt.Errorf("failed to read magic bytes: %w", err)
	}
	if n < 4 {
		return FormatUnknown, fmt.Errorf("file too small to detect format")
	}

	// ZIP magic number (docx is an OOXML zip archive)
	if buf[0] == 'P' && buf[1] == 'K' {
		return FormatDocx, nil
	}

	// OLE/CFBF magic number (legacy .doc)
	if buf[0] == 0xD0 && buf[1] == 0xCF && buf[2] == 0x11 && buf[3] == 0xE0 {
		return FormatDoc, nil
	}

	return FormatUnknown, nil
}

// isLegacyWordFile reports whether path is an OLE compound file carrying a
// WordDocument stream, i.e. a real legacy .doc rather than some other OLE
// container.
func isLegacyWordFile(path string) bool {
	f, err := os.Open(path)
	if err != nil {
		return false
	}
	defer f.Close()

	doc, err := mscfb.New(f)
	if err != nil {
		return false
	}
	for entry, err := doc.Next(); err == nil; entry, err = doc.Next() {
		if entry.Name == "WordDocument" {
			return true
		}
	}
	return false
}
