package docstyle

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ukaji3/docstyle-go/pkg/docstyle/models"
	"github.com/ukaji3/docstyle-go/pkg/docstyle/ooxml"
	"github.com/ukaji3/docstyle-go/pkg/docstyle/parser"
)

func strPtr(s string) *string     { return &s }
func floatPtr(f float64) *float64 { return &f }
func boolPtr(b bool) *bool        { return &b }

// styledSource builds a .docx with a Georgia body, an Arial heading and a
// "Confidential" header.
func styledSource(t *testing.T) []byte {
	t.Helper()
	var styles ooxml.Styles
	styles.DefaultRun = ooxml.RunProps{Font: strPtr("Times New Roman"), Size: floatPtr(10)}
	styles.Add(&ooxml.Style{
		ID: "Normal", Name: "Normal", Type: "paragraph", Default: true,
		PPr: ooxml.ParagraphProps{Align: "both"},
		RPr: ooxml.RunProps{Font: strPtr("Georgia"), Size: floatPtr(12), Color: strPtr("1F2937")},
	})
	styles.Add(&ooxml.Style{
		ID: "Heading1", Name: "heading 1", Type: "paragraph", BasedOn: "Normal",
		PPr: ooxml.ParagraphProps{Align: "left"},
		RPr: ooxml.RunProps{Font: strPtr("Arial"), Size: floatPtr(16), Bold: boolPtr(true)},
	})

	doc := &ooxml.Document{
		Styles: styles,
		Body: []ooxml.BodyElement{
			{Paragraph: &ooxml.Paragraph{Props: ooxml.ParagraphProps{StyleID: "Heading1"}, Runs: []ooxml.Run{{Text: "Quarterly report"}}}},
			{Paragraph: &ooxml.Paragraph{Runs: []ooxml.Run{{Text: "First paragraph."}}}},
			{Paragraph: &ooxml.Paragraph{Runs: []ooxml.Run{{Text: "Second paragraph."}}}},
		},
		Sections: []ooxml.Section{{
			EndParagraph: -1,
			PageWidth:    floatPtr(612),
			PageHeight:   floatPtr(792),
			Margins:      &ooxml.Margins{Top: 72, Bottom: 72, Left: 72, Right: 72, Header: 36, Footer: 36},
			Headers:      []ooxml.PartRef{{Type: "default", RelID: "rId10"}},
		}},
		Parts: map[string]*ooxml.Part{
			"rId10": {Kind: ooxml.PartHeader, Paragraphs: []ooxml.Paragraph{{
				Props: ooxml.ParagraphProps{Align: "right"},
				Runs:  []ooxml.Run{{Text: "Confidential", Props: ooxml.RunProps{Italic: boolPtr(true)}}},
			}}},
		},
	}
	data, err := ooxml.Encode(doc)
	require.NoError(t, err)
	return data
}

// reportSource extends styledSource with an italic quote paragraph and a
// table, giving three paragraph roles and one table template.
func reportSource(t *testing.T) []byte {
	t.Helper()
	doc, err := ooxml.Decode(styledSource(t))
	require.NoError(t, err)
	doc.Styles.Add(&ooxml.Style{
		ID: "Quote", Name: "Quote", Type: "paragraph", BasedOn: "Normal",
		RPr: ooxml.RunProps{Italic: boolPtr(true)},
	})
	doc.Body = append(doc.Body,
		ooxml.BodyElement{Paragraph: &ooxml.Paragraph{Props: ooxml.ParagraphProps{StyleID: "Quote"}, Runs: []ooxml.Run{{Text: "Numbers speak."}}}},
		ooxml.BodyElement{Table: &ooxml.Table{
			Grid: []float64{120, 120},
			Rows: []ooxml.TableRow{{Cells: []ooxml.TableCell{
				{Paragraphs: []ooxml.Paragraph{{Runs: []ooxml.Run{{Text: "Region"}}}}},
				{Paragraphs: []ooxml.Paragraph{{Runs: []ooxml.Run{{Text: "Revenue"}}}}},
			}}},
		}},
	)
	data, err := ooxml.Encode(doc)
	require.NoError(t, err)
	return data
}

func chat() []Entry {
	return []Entry{
		{Role: "user", Text: "How did the quarter go?"},
		{Role: "assistant", Text: "Revenue grew in every region."},
		{Role: "user", Text: "  "},
		{Role: "assistant", Text: "Anything else?"},
	}
}

func headerTexts(doc *ooxml.Document) []string {
	var out []string
	for _, p := range doc.Parts {
		if p.Kind != ooxml.PartHeader {
			continue
		}
		for i := range p.Paragraphs {
			out = append(out, p.Paragraphs[i].Text())
		}
	}
	return out
}

func TestRestyle(t *testing.T) {
	t.Run("Should carry the source header and fonts into the output", func(t *testing.T) {
		in := Input{Filename: "report.docx", Data: styledSource(t), Entries: chat()}
		out, err := Restyle(context.Background(), in, DefaultOptions())
		require.NoError(t, err)

		assert.Equal(t, "formatted_chat.docx", out.Filename)
		assert.Equal(t, ooxml.MIMEType, out.MIMEType)
		assert.True(t, out.Status.Success)

		doc, err := ooxml.Decode(out.Data)
		require.NoError(t, err)
		assert.Contains(t, headerTexts(doc), "Confidential")
		assert.Empty(t, doc.Tables())

		var texts []string
		for _, p := range doc.Paragraphs() {
			if txt := p.Text(); txt != "" {
				texts = append(texts, txt)
			}
		}
		assert.Equal(t, []string{
			"User: How did the quarter go?",
			"Assistant: Revenue grew in every region.",
			"Assistant: Anything else?",
		}, texts)
	})

	t.Run("Should produce a document whose fonts come from the source", func(t *testing.T) {
		src := styledSource(t)
		out, err := Restyle(context.Background(), Input{Filename: "report.docx", Data: src, Entries: chat()}, DefaultOptions())
		require.NoError(t, err)

		again, err := parser.NewExtractor(nil).ExtractBytes(out.Data)
		require.NoError(t, err)

		sourceFonts := make(map[models.FontStyle]bool)
		for _, f := range out.Profile.Fonts {
			sourceFonts[f] = true
		}
		for _, ps := range again.ParagraphStyles {
			f := again.Font(ps.FontRole)
			assert.True(t, sourceFonts[f], "font %+v of role %s not in source", f, ps.Role)
		}
		assert.LessOrEqual(t, len(again.ParagraphStyles), len(out.Profile.ParagraphStyles))
	})

	t.Run("Should restyle a chat with distinct roles and no tables", func(t *testing.T) {
		entries := []Entry{
			{Role: "Alice", Text: "Can you summarize the report?"},
			{Role: "Bot", Text: "Sales rose and costs fell."},
			{Role: "Alice", Text: "Thanks."},
		}
		out, err := Restyle(context.Background(), Input{Filename: "report.docx", Data: reportSource(t), Entries: entries}, DefaultOptions())
		require.NoError(t, err)
		require.Len(t, out.Profile.ParagraphStyles, 3)
		require.Len(t, out.Profile.Tables, 1)

		doc, err := ooxml.Decode(out.Data)
		require.NoError(t, err)
		assert.Contains(t, headerTexts(doc), "Confidential")
		assert.Empty(t, doc.Tables())

		styleByLabel := make(map[string]string)
		for _, p := range doc.Paragraphs() {
			if len(p.Runs) == 0 {
				continue
			}
			label := p.Runs[0].Text
			styleByLabel[label] = p.Props.StyleID
		}
		require.Contains(t, styleByLabel, "Alice: ")
		require.Contains(t, styleByLabel, "Bot: ")
		assert.NotEqual(t, styleByLabel["Alice: "], styleByLabel["Bot: "])

		again, err := parser.NewExtractor(nil).ExtractBytes(out.Data)
		require.NoError(t, err)
		assert.Len(t, again.ParagraphStyles, 2)
		assert.LessOrEqual(t, len(again.ParagraphStyles), len(out.Profile.ParagraphStyles))
	})

	t.Run("Should drop headers when disabled", func(t *testing.T) {
		opts := DefaultOptions()
		opts.IncludeHeaderFooter = boolPtr(false)
		out, err := Restyle(context.Background(), Input{Data: styledSource(t), Entries: chat()}, opts)
		require.NoError(t, err)

		doc, err := ooxml.Decode(out.Data)
		require.NoError(t, err)
		assert.Empty(t, headerTexts(doc))
		assert.NotEmpty(t, out.Profile.Headers)
	})

	t.Run("Should omit role labels when prefixing is off", func(t *testing.T) {
		opts := DefaultOptions()
		opts.RolePrefix = boolPtr(false)
		out, err := Restyle(context.Background(), Input{Data: styledSource(t), Entries: chat()}, opts)
		require.NoError(t, err)

		doc, err := ooxml.Decode(out.Data)
		require.NoError(t, err)
		paragraphs := doc.Paragraphs()
		require.NotEmpty(t, paragraphs)
		assert.Equal(t, "How did the quarter go?", paragraphs[0].Text())
	})

	t.Run("Should render tabular messages as tables", func(t *testing.T) {
		src, err := ooxml.Decode(styledSource(t))
		require.NoError(t, err)
		src.Body = append(src.Body, ooxml.BodyElement{Table: &ooxml.Table{
			Grid: []float64{120, 120},
			Rows: []ooxml.TableRow{
				{Header: true, Cells: []ooxml.TableCell{
					{Shading: "D9E2F3", Paragraphs: []ooxml.Paragraph{{Runs: []ooxml.Run{{Text: "Region"}}}}},
					{Paragraphs: []ooxml.Paragraph{{Runs: []ooxml.Run{{Text: "Revenue"}}}}},
				}},
			},
		}})
		data, err := ooxml.Encode(src)
		require.NoError(t, err)

		entries := []Entry{{Role: "assistant", Text: "| a | b |\n|---|---|\n| 1 | 2 |\n| 3 | 4 |"}}
		out, err := Restyle(context.Background(), Input{Data: data, Entries: entries}, DefaultOptions())
		require.NoError(t, err)

		doc, err := ooxml.Decode(out.Data)
		require.NoError(t, err)
		require.Len(t, doc.Tables(), 1)
		assert.Len(t, doc.Tables()[0].Rows, 3)
	})

	t.Run("Should apply the default font override to every rendered font", func(t *testing.T) {
		opts := DefaultOptions()
		opts.DefaultFont = &models.FontStyle{Name: "Inter", Color: "abcdef"}
		out, err := Restyle(context.Background(), Input{Data: styledSource(t), Entries: chat()}, opts)
		require.NoError(t, err)

		def := out.Profile.Font(models.DefaultFontRole)
		assert.Equal(t, "Inter", def.Name)
		assert.Equal(t, "ABCDEF", def.Color)
		assert.Equal(t, 10.0, def.Size)

		again, err := parser.NewExtractor(nil).ExtractBytes(out.Data)
		require.NoError(t, err)
		require.NotEmpty(t, again.ParagraphStyles)
		sizes := make(map[string]float64)
		for _, ps := range again.ParagraphStyles {
			f := again.Font(ps.FontRole)
			assert.Equal(t, "Inter", f.Name, "role %s", ps.Role)
			assert.Equal(t, "ABCDEF", f.Color, "role %s", ps.Role)
			sizes[ps.Role] = f.Size
		}
		assert.Equal(t, 12.0, sizes["body"])
		assert.Equal(t, 16.0, sizes["heading-1"])

		require.NotEmpty(t, again.Headers)
		for _, run := range again.Headers[0].Paragraphs[0].Runs {
			assert.Equal(t, "Inter", run.Font.Name)
		}
	})

	t.Run("Should report no content as a segment stage error", func(t *testing.T) {
		in := Input{Data: styledSource(t), Entries: []Entry{{Role: "user", Text: " \n "}}}
		_, err := Restyle(context.Background(), in, DefaultOptions())
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrNoContent)

		var stageErr *StageError
		require.True(t, errors.As(err, &stageErr))
		assert.Equal(t, StageSegment, stageErr.Stage)
		assert.Equal(t, "no_content", Report(err).ErrorKind)
	})

	t.Run("Should reject unsupported input before extraction", func(t *testing.T) {
		in := Input{Filename: "notes.txt", Data: []byte("just some text"), Entries: chat()}
		_, err := Restyle(context.Background(), in, DefaultOptions())
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrUnsupportedInput)

		var stageErr *StageError
		require.True(t, errors.As(err, &stageErr))
		assert.Equal(t, StageNormalize, stageErr.Stage)
	})

	t.Run("Should stop on a canceled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := Restyle(ctx, Input{Data: styledSource(t), Entries: chat()}, DefaultOptions())
		assert.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, "internal", ErrorKind(err))
	})
}

func TestExtractProfile(t *testing.T) {
	t.Run("Should extract roles from bytes", func(t *testing.T) {
		profile, err := ExtractProfile(context.Background(), styledSource(t), "docx", DefaultOptions())
		require.NoError(t, err)

		assert.Equal(t, "docx", profile.Source)
		heading, ok := profile.ParagraphStyle("heading-1")
		require.True(t, ok)
		assert.Equal(t, "Arial", profile.Font(heading.FontRole).Name)
		body, ok := profile.ParagraphStyle("body")
		require.True(t, ok)
		assert.Equal(t, "Georgia", profile.Font(body.FontRole).Name)
		require.Len(t, profile.Headers, 1)
		assert.Equal(t, "Confidential", profile.Headers[0].Text())
	})

	t.Run("Should read a profile from disk", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "source.docx")
		require.NoError(t, os.WriteFile(path, styledSource(t), 0o600))

		profile, err := ExtractProfileFile(context.Background(), path, DefaultOptions())
		require.NoError(t, err)
		assert.NotEmpty(t, profile.ParagraphStyles)
	})

	t.Run("Should fail for a missing file", func(t *testing.T) {
		_, err := ExtractProfileFile(context.Background(), filepath.Join(t.TempDir(), "missing.docx"), DefaultOptions())
		assert.ErrorIs(t, err, os.ErrNotExist)
	})
}

func TestReport(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		kind    string
		success bool
	}{
		{"success", nil, "", true},
		{"unsupported", NewStageError(StageNormalize, ErrUnsupportedInput), "unsupported_input", false},
		{"conversion", NewStageError(StageNormalize, ErrConversionFailed), "conversion_failed", false},
		{"malformed", NewStageError(StageExtract, ErrMalformedDocument), "malformed_document", false},
		{"empty profile", NewStageError(StageApply, ErrEmptyProfile), "empty_profile", false},
		{"serialization", NewStageError(StageRender, ErrSerialization), "serialization_error", false},
		{"other", errors.New("boom"), "internal", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Report(tt.err)
			if got.Success != tt.success {
				t.Errorf("Report(%v).Success = %v, want %v", tt.err, got.Success, tt.success)
			}
			if got.ErrorKind != tt.kind {
				t.Errorf("Report(%v).ErrorKind = %q, want %q", tt.err, got.ErrorKind, tt.kind)
			}
			if got.Message == "" {
				t.Error("Report() returned an empty message")
			}
		})
	}
}
