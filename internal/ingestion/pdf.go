package ingestion

import (
	"bytes"
	"fmt"

	"code.sajari.com/docconv"
)

// extractPDF pulls the flat text stream out of a PDF. PDF carries no
// usable run-level formatting for our purposes, so only Text is populated
// on the returned lines.
func extractPDF(data []byte) ([]docLine, error) {
	if !bytes.HasPrefix(data, []byte("%PDF-")) {
		return nil, fmt.Errorf("%w: missing PDF header", ErrCorruptDocument)
	}

	res, err := docconv.Convert(bytes.NewReader(data), "application/pdf", true)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptDocument, err)
	}

	return textLines(res.Body), nil
}
