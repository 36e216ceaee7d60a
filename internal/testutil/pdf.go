package testutil

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// PDFDoc describes a single-page PDF fixture.
type PDFDoc struct {
	Title    string
	Author   string
	Subject  string
	Keywords string
	Created  string // PDF date, e.g. "D:20230115123045Z"
	Text     string // drawn on the page in Helvetica
}

// BuildPDF returns a minimal but valid one-page PDF with an info dictionary.
func BuildPDF(doc PDFDoc) []byte {
	content := fmt.Sprintf("BT /F1 12 Tf 20 100 Td (%s) Tj ET", pdfString(doc.Text))

	var info []string
	for _, kv := range [][2]string{
		{"Title", doc.Title},
		{"Author", doc.Author},
		{"Subject", doc.Subject},
		{"Keywords", doc.Keywords},
		{"CreationDate", doc.Created},
	} {
		if kv[1] != "" {
			info = append(info, fmt.Sprintf("/%s (%s)", kv[0], pdfString(kv[1])))
		}
	}

	objects := []string{
		"<< /Type /Catalog /Pages 2 0 R >>",
		"<< /Type /Pages /Kids [3 0 R] /Count 1 >>",
		"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 300 200] /Contents 4 0 R /Resources << /Font << /F1 5 0 R >> >> >>",
		fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(content), content),
		"<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica >>",
		"<< " + strings.Join(info, " ") + " >>",
	}

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
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R /Info 6 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objects)+1, xref)
	return buf.Bytes()
}

// CreateTestPDF writes BuildPDF(doc) to dir/name and returns its path.
func CreateTestPDF(t *testing.T, dir, name string, doc PDFDoc) string {
	t.Helper()
	filePath := filepath.Join(dir, name)
	if err := os.WriteFile(filePath, BuildPDF(doc), 0o644); err != nil {
		t.Fatalf("Failed to write test pdf: %v", err)
	}
	return filePath
}

func pdfString(s string) string {
	r := strings.NewReplacer(`\`, `\\`, "(", `\(`, ")", `\)`)
	return r.Replace(s)
}
