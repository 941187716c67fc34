package synthesis

import (
	"bytes"
	"fmt"
	"log"

	"github.com/nguyenthenguyen/docx"

	"github.com/kmuindi/resume-tailor/internal/models"
	"github.com/kmuindi/resume-tailor/internal/wordml"
)

// substitution is one bullet replacement addressed by flattened index.
type substitution struct {
	statusIndex int
	original    string
	replacement string
}

// ResumeDocument produces the tailored resume DOCX and finalizes the
// bullet statuses on enhanced in place.
//
// The primary path edits the original document: each enhanced bullet's
// original text is matched verbatim against a single text run and only
// that run's inner text is replaced, so fonts, styles and layout survive
// untouched. A bullet whose text cannot be found in one run (it was
// edited, or the writer split it across runs) is skipped and marked not
// written. When no original DOCX bytes are available the document is
// rebuilt from the structured sections instead.
func ResumeDocument(enhanced *models.EnhancedResume) ([]byte, error) {
	resume := &enhanced.Resume

	if resume.SourceFormat == models.SourceFormatDOCX && len(resume.SourceBytes) > 0 {
		return editOriginal(enhanced)
	}

	log.Printf("No original DOCX available (format %s), rebuilding from sections", resume.SourceFormat)
	return rebuildFromSections(enhanced)
}

// editOriginal applies the pending substitutions to the original DOCX
// container, rewriting only word/document.xml.
func editOriginal(enhanced *models.EnhancedResume) ([]byte, error) {
	data := enhanced.Resume.SourceBytes
	reader, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("failed to open docx container: %w", err)
	}
	defer reader.Close()

	editable := reader.Editable()
	doc := wordml.Parse(editable.GetContent())

	replacements := map[int]string{}
	cursor := 0
	for _, sub := range pendingSubstitutions(enhanced) {
		runIndex := findRun(doc, sub.original, cursor)
		if runIndex < 0 {
			log.Printf("Bullet %d text not found in a single run, leaving original", sub.statusIndex)
			finalizeStatus(&enhanced.BulletStatuses[sub.statusIndex], false)
			continue
		}
		replacements[runIndex] = sub.replacement
		finalizeStatus(&enhanced.BulletStatuses[sub.statusIndex], true)
		cursor = runIndex + 1
	}

	editable.SetContent(doc.Apply(replacements))

	var buf bytes.Buffer
	if err := editable.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to repackage docx: %w", err)
	}
	return buf.Bytes(), nil
}

// pendingSubstitutions pairs every pending-write bullet with its original
// and rewritten text, in flattened bullet order. Substitutions are
// applied in this order so the forward cursor visits entries the way
// they appear in the document.
func pendingSubstitutions(enhanced *models.EnhancedResume) []substitution {
	originals := enhanced.Resume.FlattenedBullets()

	var rewritten []string
	for _, exp := range enhanced.Experiences {
		rewritten = append(rewritten, exp.Bullets...)
	}

	var subs []substitution
	for i, st := range enhanced.BulletStatuses {
		if st.Status != models.BulletEnhancedPendingWrite {
			continue
		}
		if st.BulletIndex >= len(originals) || st.BulletIndex >= len(rewritten) {
			continue
		}
		subs = append(subs, substitution{
			statusIndex: i,
			original:    originals[st.BulletIndex],
			replacement: rewritten[st.BulletIndex],
		})
	}
	return subs
}

// findRun scans the run index forward from cursor for a run whose whole
// text equals the wanted string. Scanning forward only means duplicate
// bullet text binds to the nearest unvisited occurrence.
func findRun(doc *wordml.Document, text string, cursor int) int {
	for i := cursor; i < len(doc.Runs); i++ {
		if doc.Runs[i].Text == text {
			return i
		}
	}
	return -1
}

// rebuildFromSections is the fallback path: a fresh document carrying
// the enhanced content, styled from the extracted formatting metadata.
// Every pending bullet lands in the rebuilt document by construction.
func rebuildFromSections(enhanced *models.EnhancedResume) ([]byte, error) {
	data, err := buildResumeDocx(enhanced)
	if err != nil {
		return nil, err
	}
	for i := range enhanced.BulletStatuses {
		finalizeStatus(&enhanced.BulletStatuses[i], true)
	}
	return data, nil
}
