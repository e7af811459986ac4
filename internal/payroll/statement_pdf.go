package payroll

import (
	"bytes"
	"fmt"
	"strings"
)

const pdfLinesPerPage = 52

// buildStatementPDF lays lines out as monospaced text, one A4 page per
// pdfLinesPerPage lines.
func buildStatementPDF(lines []string) []byte {
	if len(lines) == 0 {
		lines = []string{"Payroll statement"}
	}

	var pages [][]string
	for start := 0; start < len(lines); start += pdfLinesPerPage {
		end := min(start+pdfLinesPerPage, len(lines))
		pages = append(pages, lines[start:end])
	}

	// objects 1..3 are catalog, page tree and font; each page adds a page
	// object and its content stream
	kids := make([]string, len(pages))
	for i := range pages {
		kids[i] = fmt.Sprintf("%d 0 R", 4+2*i)
	}

	objects := []string{
		"<< /Type /Catalog /Pages 2 0 R >>",
		fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", strings.Join(kids, " "), len(pages)),
		"<< /Type /Font /Subtype /Type1 /BaseFont /Courier >>",
	}
	for i, page := range pages {
		var content strings.Builder
		content.WriteString("BT\n/F1 10 Tf\n14 TL\n40 800 Td\n")
		for j, line := range page {
			if j == 0 {
				fmt.Fprintf(&content, "(%s) Tj\n", pdfEscape(line))
				continue
			}
			fmt.Fprintf(&content, "T* (%s) Tj\n", pdfEscape(line))
		}
		content.WriteString("ET")
		stream := content.String()

		objects = append(objects,
			fmt.Sprintf("<< /Type /Page /Parent 2 0 R /MediaBox [0 0 595 842] /Resources << /Font << /F1 3 0 R >> >> /Contents %d 0 R >>", 5+2*i),
			fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(stream), stream),
		)
	}

	var out bytes.Buffer
	out.WriteString("%PDF-1.4\n")
	offsets := make([]int, len(objects))
	for i, obj := range objects {
		offsets[i] = out.Len()
		fmt.Fprintf(&out, "%d 0 obj\n%s\nendobj\n", i+1, obj)
	}

	xrefStart := out.Len()
	fmt.Fprintf(&out, "xref\n0 %d\n", len(objects)+1)
	out.WriteString("0000000000 65535 f \n")
	for _, off := range offsets {
		fmt.Fprintf(&out, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&out, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF", len(objects)+1, xrefStart)

	return out.Bytes()
}

func pdfEscape(v string) string {
	replacer := strings.NewReplacer("\\", "\\\\", "(", "\\(", ")", "\\)")
	return replacer.Replace(v)
}
