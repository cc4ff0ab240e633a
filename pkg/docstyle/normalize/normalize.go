package normalize

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/ukaji3/docstyle-go/pkg/docstyle/logger"
	"github.com/ukaji3/docstyle-go/pkg/docstyle/ooxml"
)

// ErrUnsupportedInput indicates an input format that cannot be processed.
var ErrUnsupportedInput = errors.New("unsupported input")

// ErrConversionFailed indicates a supported input whose conversion failed.
var ErrConversionFailed = errors.New("conversion failed")

// DefaultMaxInputSize is the input size limit used when none is configured.
const DefaultMaxInputSize = 50 << 20

// tempPrefix prefixes every temporary artifact.
const tempPrefix = "docstyle-"

// Config configures a Normalizer.
type Config struct {
	// TempDir holds transient artifacts. Empty means os.TempDir().
	TempDir string
	// MaxInputSize rejects larger inputs. Zero means DefaultMaxInputSize.
	MaxInputSize int64
	// Logger receives diagnostics. Nil discards them.
	Logger logger.Logger
}

// Normalizer produces .docx bytes from any supported input.
type Normalizer struct {
	tempDir string
	maxSize int64
	log     logger.Logger
}

// New creates a Normalizer.
func New(cfg Config) *Normalizer {
	n := &Normalizer{
		tempDir: cfg.TempDir,
		maxSize: cfg.MaxInputSize,
		log:     logger.OrDiscard(cfg.Logger),
	}
	if n.tempDir == "" {
		n.tempDir = os.TempDir()
	}
	if n.maxSize <= 0 {
		n.maxSize = DefaultMaxInputSize
	}
	return n
}

// converter builds a document from a spooled input file.
type converter func(ctx context.Context, path string) (*ooxml.Document, error)

// Normalize returns raw as .docx bytes. The declared format is a hint; the
// sniffed content type wins when they disagree. .docx input is returned
// unchanged.
func (n *Normalizer) Normalize(ctx context.Context, raw []byte, declared Format) ([]byte, error) {
	if int64(len(raw)) > n.maxSize {
		return nil, fmt.Errorf("%w: input is %d bytes, limit is %d", ErrUnsupportedInput, len(raw), n.maxSize)
	}
	format, err := Detect(raw)
	if err != nil {
		return nil, err
	}
	if declared != FormatUnknown && declared != format {
		n.log.Warn("declared format does not match content", "declared", declared, "detected", format)
	}
	n.log.Debug("normalizing input", "format", format, "bytes", len(raw))

	switch format {
	case FormatDOCX:
		if !ooxml.IsWordPackage(raw) {
			return nil, fmt.Errorf("%w: package has no %s", ErrUnsupportedInput, ooxml.DocumentPart)
		}
		return raw, nil
	case FormatPDF:
		return n.convert(ctx, raw, format, convertPDF)
	case FormatXLSX:
		return n.convert(ctx, raw, format, n.convertXLSX)
	}
	return nil, fmt.Errorf("%w: format %q", ErrUnsupportedInput, format)
}

// convert spools raw to a uniquely named temp file, runs fn and encodes the
// result. The file is removed on every path, including panics in fn.
func (n *Normalizer) convert(ctx context.Context, raw []byte, format Format, fn converter) (out []byte, err error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	path, err := n.spool(raw, format)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConversionFailed, err)
	}
	defer func() {
		if rmErr := os.Remove(path); rmErr != nil && !errors.Is(rmErr, fs.ErrNotExist) {
			n.log.Warn("failed to remove temporary file", "path", path, "error", rmErr)
		}
	}()
	defer func() {
		if r := recover(); r != nil {
			out = nil
			err = fmt.Errorf("%w: %s converter panicked: %v", ErrConversionFailed, format, r)
		}
	}()

	doc, err := fn(ctx, path)
	if err != nil {
		if errors.Is(err, ErrUnsupportedInput) || errors.Is(err, ErrConversionFailed) ||
			errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %s: %w", ErrConversionFailed, format, err)
	}
	data, err := ooxml.Encode(doc)
	if err != nil {
		return nil, fmt.Errorf("%w: encode: %w", ErrConversionFailed, err)
	}
	n.log.Debug("converted input", "format", format, "paragraphs", len(doc.Paragraphs()), "tables", len(doc.Tables()))
	return data, nil
}

// spool writes raw to TempDir/docstyle-<uuid>.<ext>.
func (n *Normalizer) spool(raw []byte, format Format) (string, error) {
	if err := os.MkdirAll(n.tempDir, 0o755); err != nil {
		return "", fmt.Errorf("create temp dir: %w", err)
	}
	path := filepath.Join(n.tempDir, tempPrefix+uuid.NewString()+format.Extension())
	if err := os.WriteFile(path, raw, 0o600); err != nil {
		_ = os.Remove(path)
		return "", fmt.Errorf("write temp file: %w", err)
	}
	return path, nil
}
