package util

import (
	"bytes"
	"strings"

	"github.com/fadilmartias/careerhub/internal/apperror"
)

// oleSignature opens every OLE2 compound file, which legacy Word documents are.
var oleSignature = []byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1}

const minDocRun = 4

// ExtractDoc pulls readable text out of a legacy binary .doc by scanning for
// runs of printable ASCII. It has no knowledge of the Word binary format, so
// non-ASCII text is lost and stray strings from the container may leak in.
func ExtractDoc(data []byte) (string, error) {
	if !bytes.HasPrefix(data, oleSignature) {
		return "", apperror.Unsupported("file is not a legacy Word document", nil)
	}

	var (
		runs []string
		cur  []byte
	)
	flush := func() {
		if len(cur) >= minDocRun && hasLetters(cur, 2) {
			runs = append(runs, strings.TrimSpace(string(cur)))
		}
		cur = cur[:0]
	}
	for _, b := range data[len(oleSignature):] {
		if (b >= 0x20 && b <= 0x7E) || b == '\t' {
			cur = append(cur, b)
			continue
		}
		// Paragraph marks (CR) and binary bytes both end a run.
		flush()
	}
	flush()

	return strings.Join(runs, "\n"), nil
}

func hasLetters(b []byte, min int) bool {
	n := 0
	for _, c := range b {
		if (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') {
			n++
			if n >= min {
				return true
			}
		}
	}
	return false
}
