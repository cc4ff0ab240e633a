// Package normalize converts supported inputs into a .docx package.
package normalize

import (
	"path/filepath"
	"strings"
)

// Format is an input document format.
type Format string

const (
	FormatUnknown Format = ""
	FormatDOCX    Format = "docx"
	FormatPDF     Format = "pdf"
	FormatXLSX    Format = "xlsx"
	// FormatDOC is the legacy binary Word format. It is recognized only to
	// be rejected.
	FormatDOC Format = "doc"
)

// Media types reported by content sniffing.
const (
	mimeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	mimeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	mimePDF  = "application/pdf"
	mimeOLE  = "application/x-ole-storage"
	mimeZIP  = "application/zip"
)

// ParseFormat accepts an extension ("docx", ".pdf") or a media type.
func ParseFormat(s string) Format {
	s = strings.ToLower(strings.TrimSpace(s))
	switch strings.TrimPrefix(s, ".") {
	case "docx", mimeDOCX:
		return FormatDOCX
	case "pdf", mimePDF:
		return FormatPDF
	case "xlsx", mimeXLSX:
		return FormatXLSX
	case "doc", "application/msword":
		return FormatDOC
	}
	return FormatUnknown
}

// FormatFromFilename returns the format implied by a file name's extension.
func FormatFromFilename(name string) Format {
	return ParseFormat(filepath.Ext(name))
}

// Extension returns the file extension for f, including the dot.
func (f Format) Extension() string {
	if f == FormatUnknown {
		return ".bin"
	}
	return "." + string(f)
}
