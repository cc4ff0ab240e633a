package ooxml

import (
	"archive/zip"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
)

// XML namespaces used in WordprocessingML packages.
const (
	nsW   = "http://schemas.openxmlformats.org/wordprocessingml/2006/main"
	nsR   = "http://schemas.openxmlformats.org/officeDocument/2006/relationships"
	nsPkg = "http://schemas.openxmlformats.org/package/2006/relationships"
	nsCT  = "http://schemas.openxmlformats.org/package/2006/content-types"
)

// Relationship types referenced from word/_rels/document.xml.rels.
const (
	relOfficeDocument = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument"
	relStyles         = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/styles"
	relHeader         = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/header"
	relFooter         = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/footer"
)

// Content types for the parts this package writes.
const (
	ctDocument = "application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"
	ctStyles   = "application/vnd.openxmlformats-officedocument.wordprocessingml.styles+xml"
	ctHeader   = "application/vnd.openxmlformats-officedocument.wordprocessingml.header+xml"
	ctFooter   = "application/vnd.openxmlformats-officedocument.wordprocessingml.footer+xml"
	ctRels     = "application/vnd.openxmlformats-package.relationships+xml"
)

// MIMEType is the media type of a .docx file.
const MIMEType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"

// DocumentPart is the main document part name.
const DocumentPart = "word/document.xml"

// DefaultMaxPartSize bounds the decompressed size of a single part when no
// limit is given.
const DefaultMaxPartSize = 512 << 20

// maxExpansion is the decompressed-to-package size ratio accepted per part.
const maxExpansion = 10

// ErrPartTooLarge indicates a part that inflates past the decode limit.
var ErrPartTooLarge = errors.New("package part too large")

// PartLimit returns the per-part decompressed size limit for packages of at
// most maxPackage bytes.
func PartLimit(maxPackage int64) int64 {
	if maxPackage <= 0 {
		return DefaultMaxPartSize
	}
	return maxPackage * maxExpansion
}

// relationship is one entry of a .rels part.
type relationship struct {
	ID     string
	Type   string
	Target string
}

// readZipFile returns the content of the named entry, or nil if absent.
// Entries that inflate past limit bytes fail with ErrPartTooLarge.
func readZipFile(r *zip.Reader, name string, limit int64) ([]byte, error) {
	for _, f := range r.File {
		if f.Name == name {
			if limit > 0 && f.UncompressedSize64 > uint64(limit) {
				return nil, fmt.Errorf("%w: %s declares %d bytes", ErrPartTooLarge, name, f.UncompressedSize64)
			}
			rc, err := f.Open()
			if err != nil {
				return nil, err
			}
			defer rc.Close()
			if limit <= 0 {
				return io.ReadAll(rc)
			}
			data, err := io.ReadAll(io.LimitReader(rc, limit+1))
			if err != nil {
				return nil, err
			}
			if int64(len(data)) > limit {
				return nil, fmt.Errorf("%w: %s exceeds %d bytes", ErrPartTooLarge, name, limit)
			}
			return data, nil
		}
	}
	return nil, nil
}

// hasZipFile reports whether the archive contains the named entry.
func hasZipFile(r *zip.Reader, name string) bool {
	for _, f := range r.File {
		if f.Name == name {
			return true
		}
	}
	return false
}

// resolveRelativePath resolves a relationship target against the directory of
// the part that owns the relationship.
func resolveRelativePath(target, baseDir string) string {
	if strings.HasPrefix(target, "/") {
		return strings.TrimPrefix(target, "/")
	}
	return path.Clean(path.Join(baseDir, target))
}

// parseRels parses a .rels part.
func parseRels(data []byte) []relationship {
	var result []relationship
	decoder := xml.NewDecoder(strings.NewReader(string(data)))

	for {
		token, err := decoder.Token()
		if err != nil {
			break
		}
		if se, ok := token.(xml.StartElement); ok && se.Name.Local == "Relationship" {
			var rel relationship
			for _, attr := range se.Attr {
				switch attr.Name.Local {
				case "Id":
					rel.ID = attr.Value
				case "Type":
					rel.Type = attr.Value
				case "Target":
					rel.Target = attr.Value
				}
			}
			if rel.ID != "" && rel.Target != "" {
				result = append(result, rel)
			}
		}
	}

	return result
}

// findMainDocument locates the officeDocument part via _rels/.rels, falling
// back to the conventional location.
func findMainDocument(r *zip.Reader, limit int64) string {
	data, err := readZipFile(r, "_rels/.rels", limit)
	if err == nil && data != nil {
		for _, rel := range parseRels(data) {
			if rel.Type == relOfficeDocument {
				return resolveRelativePath(rel.Target, "")
			}
		}
	}
	return DocumentPart
}

// relsPathFor returns the .rels part name for a part, e.g.
// word/document.xml -> word/_rels/document.xml.rels.
func relsPathFor(part string) string {
	dir, file := path.Split(part)
	return dir + "_rels/" + file + ".rels"
}
