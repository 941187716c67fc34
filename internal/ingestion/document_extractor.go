package ingestion

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/kmuindi/resume-tailor/internal/models"
)

// Extraction failure kinds. Callers should test with errors.Is.
var (
	// ErrUnsupportedFormat means the file extension is not a supported
	// resume document format.
	ErrUnsupportedFormat = errors.New("unsupported document format")
	// ErrEmptyDocument means the document opened fine but yielded no text.
	ErrEmptyDocument = errors.New("no extractable text in document")
	// ErrCorruptDocument means the document bytes could not be opened at all.
	ErrCorruptDocument = errors.New("document is corrupt or unreadable")
)

const (
	// binarySampleSize is the number of bytes sampled for binary detection.
	binarySampleSize = 1000
	// binaryThreshold is the proportion of non-printable characters that
	// indicates binary data in a supposed text file.
	binaryThreshold = 0.3
)

// docLine is one extracted line of the source document with whatever
// formatting metadata the format carries. PDF and plain-text sources only
// populate Text.
type docLine struct {
	Text         string
	Formatting   *models.SectionFormatting
	HeadingLevel int
	Bullet       bool
}

// Extract turns raw document bytes into a StructuredResume. The format is
// declared by the filename extension (.pdf, .docx, .txt). Extraction never
// aborts on a single unparseable block; the worst case is an empty section.
func Extract(data []byte, filename string) (*models.StructuredResume, error) {
	ext := strings.ToLower(filepath.Ext(filename))

	var (
		lines  []docLine
		format models.SourceFormat
		source []byte
		err    error
	)

	switch ext {
	case ".txt":
		if isBinaryData(data) {
			return nil, fmt.Errorf("%w: binary content in %s", ErrCorruptDocument, filename)
		}
		lines = textLines(string(data))
		format = models.SourceFormatPlainText
	case ".pdf":
		lines, err = extractPDF(data)
		format = models.SourceFormatPDF
		source = data
	case ".docx":
		lines, err = extractDOCX(data)
		format = models.SourceFormatDOCX
		source = data
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, ext)
	}
	if err != nil {
		return nil, err
	}

	fullText := joinLines(lines)
	if strings.TrimSpace(fullText) == "" {
		return nil, fmt.Errorf("%w: %s", ErrEmptyDocument, filename)
	}

	blocks := segmentSections(lines)

	resume := &models.StructuredResume{
		FullText:     fullText,
		SourceBytes:  source,
		SourceFormat: format,
	}

	for _, block := range blocks {
		resume.Sections = append(resume.Sections, block.toSection())

		switch block.Kind {
		case models.SectionExperience:
			resume.WorkExperiences = append(resume.WorkExperiences, parseExperiences(block.Lines)...)
		case models.SectionEducation:
			resume.EducationEntries = append(resume.EducationEntries, parseEducation(block.Lines)...)
		}
	}

	resume.Skills = extractSkills(fullText, blocks)
	resume.Contact = extractContact(blocks, fullText)

	return resume, nil
}

// textLines splits flat text into lines, dropping trailing whitespace but
// keeping leading indentation for the bullet heuristic.
func textLines(text string) []docLine {
	raw := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	lines := make([]docLine, 0, len(raw))
	for _, l := range raw {
		lines = append(lines, docLine{Text: strings.TrimRight(l, " \t")})
	}
	return lines
}

func joinLines(lines []docLine) string {
	parts := make([]string, 0, len(lines))
	for _, l := range lines {
		parts = append(parts, l.Text)
	}
	return strings.Join(parts, "\n")
}

// isBinaryData reports whether content that should be text looks binary
// (container magic numbers or a high share of non-printable bytes).
func isBinaryData(content []byte) bool {
	if len(content) == 0 {
		return false
	}

	if strings.HasPrefix(string(content[:min(5, len(content))]), "%PDF-") {
		return true
	}
	if len(content) >= 2 && content[0] == 'P' && content[1] == 'K' {
		return true
	}

	sampleSize := min(binarySampleSize, len(content))
	nonPrintable := 0
	for i := 0; i < sampleSize; i++ {
		ch := content[i]
		if ch < 32 && ch != '\n' && ch != '\r' && ch != '\t' {
			nonPrintable++
		}
	}
	return float64(nonPrintable)/float64(sampleSize) > binaryThreshold
}
