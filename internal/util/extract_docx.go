package util

import (
	"bytes"
	"fmt"
	"html"
	"regexp"
	"strings"

	"github.com/nguyenthenguyen/docx"
)

var (
	reDocxParagraphEnd = regexp.MustCompile(`</w:p>`)
	reDocxBreak        = regexp.MustCompile(`<w:(br|cr)\s*/>`)
	reDocxTab          = regexp.MustCompile(`<w:tab\s*/>`)
	reXMLTag           = regexp.MustCompile(`<[^>]+>`)
)

// ExtractDocx returns the body text of an Office Open XML document.
func ExtractDocx(data []byte) (string, error) {
	r, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to open docx: %w", err)
	}
	defer r.Close()

	return DocxXMLToText(r.Editable().GetContent()), nil
}

// DocxXMLToText flattens word/document.xml markup into plain text. Paragraphs
// and explicit breaks become newlines and tabs are kept.
func DocxXMLToText(xml string) string {
	xml = reDocxParagraphEnd.ReplaceAllString(xml, "\n")
	xml = reDocxBreak.ReplaceAllString(xml, "\n")
	xml = reDocxTab.ReplaceAllString(xml, "\t")
	txt := reXMLTag.ReplaceAllString(xml, "")
	return strings.TrimSpace(html.UnescapeString(txt))
}
