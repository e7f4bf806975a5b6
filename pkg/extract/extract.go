// Package extract turns uploaded report files into analyzable text.
//
// Only plain text is handled here. Binary formats (PDF, images) are
// expected to be converted by an upstream service before submission.
package extract

import (
	"bytes"
	"fmt"
	"strings"
	"unicode/utf8"
)

// pdfMagic is the header every PDF file starts with.
var pdfMagic = []byte("%PDF-")

// PlainText extracts text from plain-text uploads.
type PlainText struct{}

// NewPlainText returns a plain-text extractor.
func NewPlainText() *PlainText {
	return &PlainText{}
}

// ExtractText returns the file content as a UTF-8 string.
// Binary files and invalid encodings are rejected.
func (PlainText) ExtractText(filename string, data []byte) (string, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("file %q is empty", filename)
	}
	if bytes.HasPrefix(data, pdfMagic) {
		return "", fmt.Errorf("file %q is a PDF; convert it to text before submitting", filename)
	}

	// Strip a UTF-8 BOM if present
	data = bytes.TrimPrefix(data, []byte{0xEF, 0xBB, 0xBF})

	if !utf8.Valid(data) {
		return "", fmt.Errorf("file %q is not valid UTF-8 text", filename)
	}
	if bytes.ContainsRune(data, 0) {
		return "", fmt.Errorf("file %q appears to be binary", filename)
	}

	text := strings.TrimSpace(string(data))
	if text == "" {
		return "", fmt.Errorf("file %q contains no text", filename)
	}
	return text, nil
}
