package ingestion

import (
	"bytes"
	"fmt"

	"github.com/nguyenthenguyen/docx"

	"github.com/kmuindi/resume-tailor/internal/models"
	"github.com/kmuindi/resume-tailor/internal/wordml"
)

// extractDOCX opens the DOCX container, reads its main text member and
// produces one line per paragraph with the paragraph's formatting
// annotation and list classification attached.
func extractDOCX(data []byte) ([]docLine, error) {
	if len(data) < 2 || data[0] != 'P' || data[1] != 'K' {
		return nil, fmt.Errorf("%w: missing container header", ErrCorruptDocument)
	}

	reader, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptDocument, err)
	}
	defer reader.Close()

	doc := wordml.Parse(reader.Editable().GetContent())

	lines := make([]docLine, 0, len(doc.Paragraphs))
	for _, para := range doc.Paragraphs {
		lines = append(lines, docLine{
			Text:         para.Text,
			Formatting:   paragraphFormatting(doc, para),
			HeadingLevel: para.Props.HeadingLevel,
			Bullet:       para.Props.ListItem,
		})
	}
	return lines, nil
}

// paragraphFormatting lifts the first run's styling plus the paragraph
// alignment into an immutable formatting value. Empty paragraphs and
// unstyled runs yield nil.
func paragraphFormatting(doc *wordml.Document, para wordml.Paragraph) *models.SectionFormatting {
	if len(para.Runs) == 0 {
		return nil
	}

	props := doc.Runs[para.Runs[0]].Props
	f := models.SectionFormatting{
		Bold:       props.Bold,
		Italic:     props.Italic,
		FontSizePt: props.FontSizePt,
		FontFamily: props.FontFamily,
		Alignment:  para.Props.Alignment,
	}
	if f == (models.SectionFormatting{}) {
		return nil
	}
	return &f
}
