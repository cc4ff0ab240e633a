package normalize

import (
	"archive/zip"
	"bytes"
	"fmt"

	"github.com/gabriel-vasile/mimetype"
	"github.com/richardlehane/mscfb"

	"github.com/ukaji3/docstyle-go/pkg/docstyle/ooxml"
)

// OLE stream names that identify the container's payload.
const (
	streamEncryptionInfo   = "EncryptionInfo"
	streamEncryptedPackage = "EncryptedPackage"
	streamWordDocument     = "WordDocument"
)

// Detect sniffs the format of raw. Encrypted OOXML containers and legacy
// binary Word files are reported as ErrUnsupportedInput.
func Detect(raw []byte) (Format, error) {
	if len(raw) == 0 {
		return FormatUnknown, fmt.Errorf("%w: empty input", ErrUnsupportedInput)
	}

	for m := mimetype.Detect(raw); m != nil; m = m.Parent() {
		switch {
		case m.Is(mimeDOCX):
			return FormatDOCX, nil
		case m.Is(mimeXLSX):
			return FormatXLSX, nil
		case m.Is(mimePDF):
			return FormatPDF, nil
		case m.Is(mimeOLE):
			return detectOLE(raw)
		case m.Is(mimeZIP):
			return detectZIP(raw)
		}
	}
	return FormatUnknown, fmt.Errorf("%w: unrecognized content type %s", ErrUnsupportedInput, mimetype.Detect(raw).String())
}

// detectOLE inspects the streams of a compound file.
func detectOLE(raw []byte) (Format, error) {
	doc, err := mscfb.New(bytes.NewReader(raw))
	if err != nil {
		return FormatUnknown, fmt.Errorf("%w: unreadable compound file: %w", ErrUnsupportedInput, err)
	}

	var encrypted, word bool
	for entry, err := doc.Next(); err == nil; entry, err = doc.Next() {
		switch entry.Name {
		case streamEncryptionInfo, streamEncryptedPackage:
			encrypted = true
		case streamWordDocument:
			word = true
		}
	}

	switch {
	case encrypted:
		return FormatUnknown, fmt.Errorf("%w: document is password protected", ErrUnsupportedInput)
	case word:
		return FormatDOC, fmt.Errorf("%w: legacy .doc files are not supported, save as .docx", ErrUnsupportedInput)
	}
	return FormatUnknown, fmt.Errorf("%w: unsupported compound file", ErrUnsupportedInput)
}

// detectZIP classifies OOXML packages whose entry order defeats sniffing.
func detectZIP(raw []byte) (Format, error) {
	if ooxml.IsWordPackage(raw) {
		return FormatDOCX, nil
	}
	zr, err := zip.NewReader(bytes.NewReader(raw), int64(len(raw)))
	if err == nil {
		for _, f := range zr.File {
			if f.Name == "xl/workbook.xml" {
				return FormatXLSX, nil
			}
		}
	}
	return FormatUnknown, fmt.Errorf("%w: zip archive is not a Word or Excel package", ErrUnsupportedInput)
}
