package normalize

import (
	"encoding/binary"
	"strconv"
	"strings"
	"testing"
	"unicode/utf16"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/ukaji3/docstyle-go/pkg/docstyle/ooxml"
)

// buildTextPDF returns a minimal PDF with one Helvetica text line per page.
func buildTextPDF(pages ...string) []byte {
	var b strings.Builder
	b.WriteString("%PDF-1.4\n")

	n := len(pages)
	fontObj := 3 + 2*n
	offsets := make([]int, fontObj+1)

	offsets[1] = b.Len()
	b.WriteString("1 0 obj\n<< /Type /Catalog /Pages 2 0 R >>\nendobj\n")

	kids := make([]string, n)
	for i := range pages {
		kids[i] = strconv.Itoa(3+2*i) + " 0 R"
	}
	offsets[2] = b.Len()
	b.WriteString("2 0 obj\n<< /Type /Pages /Kids [" + strings.Join(kids, " ") + "] /Count " + strconv.Itoa(n) + " >>\nendobj\n")

	for i, text := range pages {
		pageObj, contentObj := 3+2*i, 4+2*i
		escaped := strings.NewReplacer(`\`, `\\`, "(", `\(`, ")", `\)`).Replace(text)
		stream := "BT\n/F1 12 Tf\n72 720 Td\n(" + escaped + ") Tj\nET"

		offsets[pageObj] = b.Len()
		b.WriteString(strconv.Itoa(pageObj) + " 0 obj\n<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Contents " +
			strconv.Itoa(contentObj) + " 0 R /Resources << /Font << /F1 " + strconv.Itoa(fontObj) + " 0 R >> >> >>\nendobj\n")

		offsets[contentObj] = b.Len()
		b.WriteString(strconv.Itoa(contentObj) + " 0 obj\n<< /Length " + strconv.Itoa(len(stream)) + " >>\nstream\n")
		b.WriteString(stream)
		b.WriteString("\nendstream\nendobj\n")
	}

	offsets[fontObj] = b.Len()
	b.WriteString(strconv.Itoa(fontObj) + " 0 obj\n<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica >>\nendobj\n")

	xrefOffset := b.Len()
	b.WriteString("xref\n0 " + strconv.Itoa(fontObj+1) + "\n")
	b.WriteString("0000000000 65535 f \n")
	for i := 1; i <= fontObj; i++ {
		off := strconv.Itoa(offsets[i])
		b.WriteString(strings.Repeat("0", 10-len(off)) + off + " 00000 n \n")
	}
	b.WriteString("trailer\n<< /Size " + strconv.Itoa(fontObj+1) + " /Root 1 0 R >>\nstartxref\n")
	b.WriteString(strconv.Itoa(xrefOffset))
	b.WriteString("\n%%EOF\n")
	return []byte(b.String())
}

// Compound file constants.
const (
	cfbSectorSize = 512
	cfbFreeSect   = 0xFFFFFFFF
	cfbEndOfChain = 0xFFFFFFFE
	cfbFATSect    = 0xFFFFFFFD
	cfbNoStream   = 0xFFFFFFFF
	cfbStreamSize = 4096
)

// buildCompoundFile returns a version 3 compound file holding one 4 KiB
// stream per name. At most three streams fit the single directory sector.
func buildCompoundFile(t *testing.T, names ...string) []byte {
	t.Helper()
	require.LessOrEqual(t, len(names), 3)

	sectorsPerStream := cfbStreamSize / cfbSectorSize
	total := 2 + len(names)*sectorsPerStream
	buf := make([]byte, cfbSectorSize*(1+total))
	le := binary.LittleEndian

	h := buf[:cfbSectorSize]
	copy(h, []byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1})
	le.PutUint16(h[24:], 0x003E)
	le.PutUint16(h[26:], 0x0003)
	le.PutUint16(h[28:], 0xFFFE)
	le.PutUint16(h[30:], 9)
	le.PutUint16(h[32:], 6)
	le.PutUint32(h[44:], 1)
	le.PutUint32(h[48:], 1)
	le.PutUint32(h[56:], cfbStreamSize)
	le.PutUint32(h[60:], cfbEndOfChain)
	le.PutUint32(h[68:], cfbEndOfChain)
	le.PutUint32(h[76:], 0)
	for i := 1; i < 109; i++ {
		le.PutUint32(h[76+4*i:], cfbFreeSect)
	}

	sector := func(n int) []byte {
		off := cfbSectorSize * (n + 1)
		return buf[off : off+cfbSectorSize]
	}

	fat := sector(0)
	for i := 0; i < cfbSectorSize/4; i++ {
		le.PutUint32(fat[4*i:], cfbFreeSect)
	}
	le.PutUint32(fat[0:], cfbFATSect)
	le.PutUint32(fat[4:], cfbEndOfChain)
	for s := range names {
		start := 2 + s*sectorsPerStream
		for k := 0; k < sectorsPerStream; k++ {
			next := uint32(start + k + 1)
			if k == sectorsPerStream-1 {
				next = cfbEndOfChain
			}
			le.PutUint32(fat[4*(start+k):], next)
		}
	}

	dir := sector(1)
	writeEntry := func(idx int, name string, typ byte, right, child, start uint32, size uint64) {
		e := dir[idx*128 : (idx+1)*128]
		encoded := utf16.Encode([]rune(name))
		for i, c := range encoded {
			le.PutUint16(e[2*i:], c)
		}
		if name != "" {
			le.PutUint16(e[64:], uint16(2*(len(encoded)+1)))
		}
		e[66] = typ
		e[67] = 1
		le.PutUint32(e[68:], cfbNoStream)
		le.PutUint32(e[72:], right)
		le.PutUint32(e[76:], child)
		le.PutUint32(e[116:], start)
		le.PutUint64(e[120:], size)
	}

	child := uint32(cfbNoStream)
	if len(names) > 0 {
		child = 1
	}
	writeEntry(0, "Root Entry", 5, cfbNoStream, child, cfbEndOfChain, 0)
	for i, name := range names {
		right := uint32(cfbNoStream)
		if i < len(names)-1 {
			right = uint32(i + 2)
		}
		writeEntry(i+1, name, 2, right, cfbNoStream, uint32(2+i*sectorsPerStream), cfbStreamSize)
	}
	for i := len(names) + 1; i < 4; i++ {
		writeEntry(i, "", 0, cfbNoStream, cfbNoStream, 0, 0)
	}
	return buf
}

// buildWorkbook returns an .xlsx with a styled header row on two sheets.
func buildWorkbook(t *testing.T) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	require.NoError(t, f.SetSheetName("Sheet1", "Orders"))
	require.NoError(t, f.SetSheetRow("Orders", "B2", &[]any{"Item", "Qty"}))
	require.NoError(t, f.SetSheetRow("Orders", "B3", &[]any{"Apple", 3}))
	require.NoError(t, f.SetSheetRow("Orders", "B4", &[]any{"Pear", 5}))

	style, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Family: "Arial", Size: 12, Color: "#1F4E79"},
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#D9E2F3"}},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	require.NoError(t, err)
	require.NoError(t, f.SetCellStyle("Orders", "B2", "C2", style))

	_, err = f.NewSheet("Empty")
	require.NoError(t, err)
	_, err = f.NewSheet("Notes")
	require.NoError(t, err)
	require.NoError(t, f.SetCellValue("Notes", "A1", "remember"))

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

// buildWordPackage returns a small .docx.
func buildWordPackage(t *testing.T) []byte {
	t.Helper()
	doc := &ooxml.Document{
		Body:     []ooxml.BodyElement{{Paragraph: &ooxml.Paragraph{Runs: []ooxml.Run{{Text: "hello"}}}}},
		Sections: []ooxml.Section{{EndParagraph: -1}},
	}
	data, err := ooxml.Encode(doc)
	require.NoError(t, err)
	return data
}
