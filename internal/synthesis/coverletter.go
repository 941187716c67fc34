package synthesis

import (
	"regexp"
	"strings"
	"time"

	"github.com/kmuindi/resume-tailor/internal/models"
)

// LetterSettings carries the user-configured identity for cover letters.
type LetterSettings struct {
	SenderName    string
	SenderAddress string
}

const sentencesPerParagraph = 3

// nameLineRe matches a "name-shaped" line: two to four capitalized
// words, letters only.
var nameLineRe = regexp.MustCompile(`^(?:[A-Z][a-z]+\.? ){1,3}[A-Z][a-z]+$`)

// CoverLetterDocument renders the cover-letter body into a full letter:
// sender block, date, recipient, salutation, body paragraphs, signature.
func CoverLetterDocument(enhanced *models.EnhancedResume, job *models.JobPosting, settings LetterSettings, date time.Time) ([]byte, error) {
	resume := &enhanced.Resume
	name := senderName(resume, settings)

	var body strings.Builder

	body.WriteString(paragraph(name, paraStyle{Bold: true}))
	if settings.SenderAddress != "" {
		for _, line := range splitLines(settings.SenderAddress) {
			body.WriteString(paragraph(line, paraStyle{}))
		}
	}
	if resume.Contact.Email != "" {
		body.WriteString(paragraph(resume.Contact.Email, paraStyle{}))
	}
	if resume.Contact.Phone != "" {
		body.WriteString(paragraph(resume.Contact.Phone, paraStyle{}))
	}

	body.WriteString(paragraph("", paraStyle{}))
	body.WriteString(paragraph(date.Format("January 2, 2006"), paraStyle{}))
	body.WriteString(paragraph("", paraStyle{}))

	if job.CompanyName != "" {
		body.WriteString(paragraph("Hiring Team", paraStyle{}))
		body.WriteString(paragraph(job.CompanyName, paraStyle{}))
		body.WriteString(paragraph("", paraStyle{}))
	}

	body.WriteString(paragraph("Dear Hiring Manager,", paraStyle{}))
	body.WriteString(paragraph("", paraStyle{}))

	for _, p := range bodyParagraphs(enhanced.CoverLetter) {
		body.WriteString(paragraph(p, paraStyle{}))
		body.WriteString(paragraph("", paraStyle{}))
	}

	body.WriteString(paragraph("Sincerely,", paraStyle{}))
	body.WriteString(paragraph(name, paraStyle{}))

	return packDocx(documentHeader + body.String() + documentFooter)
}

// senderName resolves the signature name: configured name first, then a
// name-shaped top line of the resume, then the email local part, then a
// placeholder.
func senderName(resume *models.StructuredResume, settings LetterSettings) string {
	if name := strings.TrimSpace(settings.SenderName); name != "" {
		return name
	}

	lines := splitLines(resume.FullText)
	if len(lines) > 0 && nameLineRe.MatchString(lines[0]) {
		return lines[0]
	}

	if email := resume.Contact.Email; email != "" {
		if at := strings.Index(email, "@"); at > 0 {
			if name := nameFromEmailLocal(email[:at]); name != "" {
				return name
			}
		}
	}

	return "Applicant"
}

// nameFromEmailLocal turns "jane.doe" or "jane_doe" into "Jane Doe".
// Purely numeric or single-character parts are rejected.
func nameFromEmailLocal(local string) string {
	parts := strings.FieldsFunc(local, func(r rune) bool {
		return r == '.' || r == '_' || r == '-'
	})

	var words []string
	for _, part := range parts {
		if len(part) < 2 || strings.IndexFunc(part, isDigit) != -1 {
			continue
		}
		words = append(words, strings.ToUpper(part[:1])+strings.ToLower(part[1:]))
	}
	return strings.Join(words, " ")
}

func isDigit(r rune) bool { return r >= '0' && r <= '9' }

// bodyParagraphs splits the letter body on blank lines; bodies that
// arrive as one block are regrouped a few sentences at a time.
func bodyParagraphs(text string) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	var paragraphs []string
	for _, block := range strings.Split(text, "\n\n") {
		if trimmed := strings.TrimSpace(strings.ReplaceAll(block, "\n", " ")); trimmed != "" {
			paragraphs = append(paragraphs, trimmed)
		}
	}
	if len(paragraphs) > 1 {
		return paragraphs
	}

	return groupSentences(paragraphs[0])
}

// groupSentences regroups a single block into paragraphs of about three
// sentences each.
func groupSentences(block string) []string {
	sentences := splitSentences(block)
	if len(sentences) <= sentencesPerParagraph {
		return []string{block}
	}

	var paragraphs []string
	for i := 0; i < len(sentences); i += sentencesPerParagraph {
		end := i + sentencesPerParagraph
		if end > len(sentences) {
			end = len(sentences)
		}
		paragraphs = append(paragraphs, strings.Join(sentences[i:end], " "))
	}
	return paragraphs
}

func splitSentences(text string) []string {
	var sentences []string
	start := 0
	for i := 0; i < len(text)-1; i++ {
		if (text[i] == '.' || text[i] == '!' || text[i] == '?') && text[i+1] == ' ' {
			sentences = append(sentences, strings.TrimSpace(text[start:i+1]))
			start = i + 2
		}
	}
	if rest := strings.TrimSpace(text[start:]); rest != "" {
		sentences = append(sentences, rest)
	}
	return sentences
}
