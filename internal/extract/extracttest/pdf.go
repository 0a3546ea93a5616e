// Package extracttest builds small documents for extraction tests.
package extracttest

import (
	"bytes"
	"fmt"
	"strings"
	"testing"
)

var pdfEscaper = strings.NewReplacer(`\`, `\\`, `(`, `\(`, `)`, `\)`)

// PDF returns a valid uncompressed PDF with one page per entry of pages, each
// showing its text in Helvetica with WinAnsiEncoding.
func PDF(t testing.TB, pages ...string) []byte {
	t.Helper()

	// 1 catalog, 2 page tree, 3 font, then a page and its content per page.
	objects := make([]string, 3, 3+2*len(pages))

	kids := make([]string, 0, len(pages))
	for i, text := range pages {
		pageID := 4 + 2*i
		kids = append(kids, fmt.Sprintf("%d 0 R", pageID))

		content := fmt.Sprintf("BT /F1 12 Tf 72 712 Td (%s) Tj ET", pdfEscaper.Replace(text))
		objects = append(objects,
			fmt.Sprintf("<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Resources << /Font << /F1 3 0 R >> >> /Contents %d 0 R >>", pageID+1),
			fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(content), content),
		)
	}

	objects[0] = "<< /Type /Catalog /Pages 2 0 R >>"
	objects[1] = fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", strings.Join(kids, " "), len(pages))
	objects[2] = "<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding >>"

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")

	offsets := make([]int, len(objects))
	for i, obj := range objects {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, obj)
	}

	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", len(objects)+1)
	buf.WriteString("0000000000 65535 f \n")
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objects)+1, xref)

	return buf.Bytes()
}
