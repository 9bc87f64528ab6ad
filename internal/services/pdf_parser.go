package services

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/ledongthuc/pdf"
)

// PDFParserService reads reference documents (screening guidelines, rubrics)
// and counts résumé pages. Résumé text itself goes through TextExtractor.
type PDFParserService interface {
	ReadReference(path string) (*ReferenceContent, error)
	PageCount(raw []byte) int
}

type ReferenceContent struct {
	Text      string
	PageCount int
	Path      string
}

var errNoPDFText = errors.New("no text content found in PDF")

type pdfParserService struct{}

func NewPDFParserService() PDFParserService {
	return &pdfParserService{}
}

func (p *pdfParserService) ReadReference(path string) (*ReferenceContent, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("reference document %s: %w", path, err)
	}

	f, r, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF: %w", err)
	}
	defer f.Close()

	text := CleanText(plainText(r))
	if text == "" {
		return nil, fmt.Errorf("%s: %w", path, errNoPDFText)
	}

	return &ReferenceContent{
		Text:      text,
		PageCount: r.NumPage(),
		Path:      path,
	}, nil
}

// PageCount returns 0 for anything the PDF reader cannot open.
func (p *pdfParserService) PageCount(raw []byte) (pages int) {
	defer func() {
		if recover() != nil {
			pages = 0
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(raw), int64(len(raw)))
	if err != nil {
		return 0
	}
	return r.NumPage()
}

// plainText joins the pages that yield text with blank lines; unreadable
// pages are skipped.
func plainText(r *pdf.Reader) string {
	var b strings.Builder
	for i := 1; i <= r.NumPage(); i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		b.WriteString(text)
		b.WriteString("\n\n")
	}
	return b.String()
}

// CleanText trims every line and drops blank lines, keeping paragraph
// breaks as single blank lines.
func CleanText(text string) string {
	lines := strings.Split(strings.TrimSpace(text), "\n")
	var cleaned []string
	blank := false

	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			blank = len(cleaned) > 0
			continue
		}
		if blank {
			cleaned = append(cleaned, "")
			blank = false
		}
		cleaned = append(cleaned, line)
	}

	return strings.Join(cleaned, "\n")
}
