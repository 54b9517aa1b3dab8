package util

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path/filepath"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/fadilmartias/careerhub/internal/apperror"
	"github.com/fadilmartias/careerhub/internal/observability"
	"github.com/gen2brain/go-fitz"
	"github.com/ledongthuc/pdf"
	"go.uber.org/zap"
)

// minPDFLetters is the letter count below which a PDF text layer is treated
// as missing (scanned documents) and the slower fallbacks are tried.
const minPDFLetters = 50

var (
	reSpaces    = regexp.MustCompile(`[ \t\r\f\v]+`)
	reBlankRuns = regexp.MustCompile(`\n\s*\n+`)
)

// ExtractText returns the plain text of an uploaded document. The format is
// chosen by the file extension; callers validate the content type first.
func ExtractText(ctx context.Context, filename string, data []byte) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	format := strings.TrimPrefix(ext, ".")

	var (
		text string
		err  error
	)
	switch ext {
	case ".docx":
		text, err = ExtractDocx(data)
	case ".doc":
		text, err = ExtractDoc(data)
	case ".pdf":
		text, err = ExtractPDF(ctx, data)
	case ".txt":
		text = string(data)
	default:
		observability.ExtractionsTotal.WithLabelValues("unknown", "unsupported").Inc()
		return "", apperror.Unsupported(fmt.Sprintf("unsupported file type %q", ext), nil)
	}
	if err != nil {
		observability.ExtractionsTotal.WithLabelValues(format, "error").Inc()
		if _, ok := apperror.As(err); ok {
			return "", err
		}
		return "", apperror.InvalidInput(fmt.Sprintf("could not read %s document", format), err)
	}

	text = NormalizeText(text)
	if text == "" {
		observability.ExtractionsTotal.WithLabelValues(format, "empty").Inc()
		return "", apperror.InvalidInput("no readable text found in document", nil)
	}
	observability.ExtractionsTotal.WithLabelValues(format, "ok").Inc()
	return text, nil
}

// NormalizeText drops NULs and invalid UTF-8, turns NBSP into spaces,
// collapses horizontal whitespace and squeezes blank-line runs.
func NormalizeText(s string) string {
	s = strings.ReplaceAll(s, "\x00", "")
	if !utf8.ValidString(s) {
		s = strings.ToValidUTF8(s, "")
	}
	s = strings.ReplaceAll(s, "\u00a0", " ")
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = reSpaces.ReplaceAllString(s, " ")

	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSpace(l)
	}
	s = strings.Join(lines, "\n")
	s = reBlankRuns.ReplaceAllString(s, "\n\n")
	return strings.TrimSpace(s)
}

// ExtractPDF reads the text layer with ledongthuc/pdf, then MuPDF, and OCRs
// the rendered pages when neither yields enough letters. The richest text
// found before OCR is kept and returned when OCR cannot do better.
func ExtractPDF(ctx context.Context, data []byte) (string, error) {
	var best string
	keep := func(text string) bool {
		if countLetters(text) > countLetters(best) {
			best = text
		}
		return countLetters(best) >= minPDFLetters
	}

	text, err := extractPDFTextLayer(data)
	if err != nil {
		zap.L().Debug("pdf text layer unreadable, trying mupdf", zap.Error(err))
	} else if keep(text) {
		return best, nil
	}

	text, err = extractPDFMuPDF(data)
	if err != nil {
		zap.L().Debug("mupdf text extraction failed, trying ocr", zap.Error(err))
	} else if keep(text) {
		return best, nil
	}

	ocr, err := ExtractPDFOCR(ctx, data)
	if err == nil && countLetters(ocr) >= minPDFLetters && countLetters(ocr) > countLetters(best) {
		return ocr, nil
	}
	if countLetters(best) > 0 {
		if err != nil {
			zap.L().Info("ocr failed, using the pdf text layer", zap.Error(err))
		}
		return best, nil
	}
	if err != nil {
		return "", err
	}
	return ocr, nil
}

func extractPDFTextLayer(data []byte) (text string, err error) {
	// The pure-Go reader panics on some malformed xref tables.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("pdf reader panic: %v", r)
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", err
	}
	rs, err := r.GetPlainText()
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, rs); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func extractPDFMuPDF(data []byte) (string, error) {
	doc, err := fitz.NewFromMemory(data)
	if err != nil {
		return "", fmt.Errorf("failed to open PDF: %w", err)
	}
	defer doc.Close()

	var sb strings.Builder
	for n := 0; n < doc.NumPage(); n++ {
		pageText, err := doc.Text(n)
		if err != nil {
			return "", fmt.Errorf("page %d: %w", n+1, err)
		}
		sb.WriteString(pageText)
		sb.WriteString("\n\n")
	}
	return sb.String(), nil
}

func countLetters(s string) int {
	n := 0
	for _, r := range s {
		if unicode.IsLetter(r) {
			n++
		}
	}
	return n
}
