// Package text provides line-oriented cleanup for parsed document text
// (see pkg/parser/pdf and pkg/parser/docx, which run extracted text through
// TrimAdjacentBlankLines before handing it to the chunking stage).
package text

import (
	"bufio"
	"strings"

	pkgbufio "github.com/nexusrfp/engine/pkg/bufio"
)

// Lines splits the input text into separate lines.
// It returns:
// - An array with a single empty string if the input is empty or contains only whitespace
// - An array of strings representing each line in the original text otherwise
// Each line in the returned array does not include line terminators (\n, \r\n, \r).
func Lines(inputText string) []string {
	if strings.TrimSpace(inputText) == "" {
		return []string{""}
	}

	// Parsed documents (OCR output, DOCX paragraph joins) aren't guaranteed
	// Unix line endings, so split on \r\n, \r, or \n instead of the
	// stdlib's \n-only ScanLines.
	textScanner := bufio.NewScanner(strings.NewReader(inputText))
	textScanner.Split(pkgbufio.ScanLinesAllFormats)
	textLines := make([]string, 0)

	for textScanner.Scan() {
		currentLine := textScanner.Text()
		textLines = append(textLines, currentLine)
	}

	return textLines
}

// TrimAdjacentBlankLines removes consecutive blank lines from text while preserving paragraph structure.
// The function follows these rules:
//
//  1. If the current line is non-blank:
//     1.1. Check the previous line and if content has been seen before
//     1.1.1. If the previous line was blank AND we've already seen content before,
//     add exactly one blank line to preserve paragraph separation
//     1.1.2. If this is the first content line or follows another content line,
//     add the current line directly without a preceding blank line
//     1.2. Add the current non-blank line to the result
//     1.3. Set prevLineIsBlank flag to false and contentFlag to true
//
//  2. If the current line is blank:
//     2.1. Do not add it directly to the result
//     2.2. Set prevLineIsBlank flag to true to track consecutive blank lines
//
// This ensures that:
// - All leading blank lines are removed completely
// - Multiple consecutive blank lines between paragraphs are reduced to at most one blank line
// - Paragraph structure is maintained while removing excessive whitespace
// - No trailing blank lines are preserved
func TrimAdjacentBlankLines(inputText string) string {
	textLines := Lines(inputText)

	outputBuilder := strings.Builder{}
	previousLineIsBlank := true
	hasContentBeenSeen := false

	for _, currentLine := range textLines {
		currentLineIsBlank := strings.TrimSpace(currentLine) == ""

		if !currentLineIsBlank {
			// Add paragraph separator if needed
			if previousLineIsBlank && hasContentBeenSeen {
				outputBuilder.WriteString("\n")
			}

			// Add current line
			outputBuilder.WriteString(currentLine)
			outputBuilder.WriteString("\n")

			previousLineIsBlank = false
			hasContentBeenSeen = true
			continue
		}

		previousLineIsBlank = true
	}

	return outputBuilder.String()
}
