package synthesis

import (
	"archive/zip"
	"bytes"
	"fmt"
	"strings"

	"github.com/kmuindi/resume-tailor/internal/models"
	"github.com/kmuindi/resume-tailor/internal/wordml"
)

const (
	contentTypesXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types"><Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/><Default Extension="xml" ContentType="application/xml"/><Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/></Types>`

	relsXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships"><Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/></Relationships>`

	documentHeader = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>`

	documentFooter = `<w:sectPr/></w:body></w:document>`
)

// paraStyle is the subset of run and paragraph styling the fallback
// builder emits.
type paraStyle struct {
	Bold      bool
	Italic    bool
	SizePt    float64
	Font      string
	Alignment string
}

// buildResumeDocx renders a fresh resume document from the structured
// sections, substituting the enhanced summary and bullets for their
// originals.
func buildResumeDocx(enhanced *models.EnhancedResume) ([]byte, error) {
	var body strings.Builder
	resume := &enhanced.Resume

	experiencesRendered := false
	for _, section := range resume.Sections {
		switch section.Kind {
		case models.SectionHeader:
			renderHeader(&body, section)
		case models.SectionSummary:
			renderTitled(&body, section, summaryLines(enhanced, section), false)
		case models.SectionExperience:
			if !experiencesRendered {
				renderExperiences(&body, enhanced, section)
				experiencesRendered = true
			}
		default:
			renderTitled(&body, section, sectionLines(section), section.Kind == models.SectionSkills)
		}
	}

	if !experiencesRendered && len(resume.WorkExperiences) > 0 {
		renderExperiences(&body, enhanced, models.Section{Title: "Experience"})
	}

	return packDocx(documentHeader + body.String() + documentFooter)
}

func renderHeader(body *strings.Builder, section models.Section) {
	style := styleFrom(section.Formatting)
	for i, line := range splitLines(section.Content) {
		lineStyle := paraStyle{Alignment: style.Alignment, Font: style.Font}
		if i == 0 {
			lineStyle.Bold = true
			lineStyle.SizePt = style.SizePt
			if lineStyle.SizePt == 0 {
				lineStyle.SizePt = 16
			}
		}
		body.WriteString(paragraph(line, lineStyle))
	}
}

// renderTitled writes a section title followed by its lines, as bullets
// when asBullets is set.
func renderTitled(body *strings.Builder, section models.Section, lines []string, asBullets bool) {
	writeSectionTitle(body, section)
	for _, line := range lines {
		if asBullets {
			line = "• " + line
		}
		body.WriteString(paragraph(line, paraStyle{}))
	}
}

func renderExperiences(body *strings.Builder, enhanced *models.EnhancedResume, section models.Section) {
	writeSectionTitle(body, section)

	for i, exp := range enhanced.Resume.WorkExperiences {
		heading := exp.Title
		if exp.Company != "" {
			heading = fmt.Sprintf("%s, %s", exp.Title, exp.Company)
		}
		body.WriteString(paragraph(heading, paraStyle{Bold: true}))

		dates := exp.StartDate
		if exp.EndDate != "" {
			dates += " - " + exp.EndDate
		} else if exp.IsCurrent {
			dates += " - Present"
		}
		if exp.Location != "" {
			dates += "  |  " + exp.Location
		}
		if strings.TrimSpace(dates) != "" {
			body.WriteString(paragraph(dates, paraStyle{Italic: true}))
		}

		for _, bullet := range experienceBullets(enhanced, i) {
			body.WriteString(paragraph("• "+bullet, paraStyle{}))
		}
	}
}

func writeSectionTitle(body *strings.Builder, section models.Section) {
	if strings.TrimSpace(section.Title) == "" {
		return
	}
	style := styleFrom(section.Formatting)
	style.Bold = true
	body.WriteString(paragraph(section.Title, style))
}

// experienceBullets prefers the enhanced bullets for the experience,
// falling back to the originals.
func experienceBullets(enhanced *models.EnhancedResume, index int) []string {
	for _, exp := range enhanced.Experiences {
		if exp.ExperienceIndex == index && len(exp.Bullets) > 0 {
			return exp.Bullets
		}
	}
	return enhanced.Resume.WorkExperiences[index].BulletPoints
}

func summaryLines(enhanced *models.EnhancedResume, section models.Section) []string {
	if strings.TrimSpace(enhanced.Summary) != "" {
		return splitLines(enhanced.Summary)
	}
	return sectionLines(section)
}

func sectionLines(section models.Section) []string {
	if len(section.Items) > 0 {
		return section.Items
	}
	return splitLines(section.Content)
}

func splitLines(text string) []string {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			lines = append(lines, trimmed)
		}
	}
	return lines
}

func styleFrom(f *models.SectionFormatting) paraStyle {
	if f == nil {
		return paraStyle{}
	}
	return paraStyle{
		Bold:      f.Bold,
		Italic:    f.Italic,
		SizePt:    f.FontSizePt,
		Font:      f.FontFamily,
		Alignment: f.Alignment,
	}
}

// paragraph emits one <w:p> with the given text and styling.
func paragraph(text string, style paraStyle) string {
	var sb strings.Builder
	sb.WriteString("<w:p>")

	if style.Alignment != "" {
		sb.WriteString(fmt.Sprintf(`<w:pPr><w:jc w:val="%s"/></w:pPr>`, style.Alignment))
	}

	sb.WriteString("<w:r>")
	rPr := runProperties(style)
	if rPr != "" {
		sb.WriteString("<w:rPr>" + rPr + "</w:rPr>")
	}
	sb.WriteString(`<w:t xml:space="preserve">`)
	sb.WriteString(wordml.Escape(text))
	sb.WriteString("</w:t></w:r></w:p>")
	return sb.String()
}

func runProperties(style paraStyle) string {
	var sb strings.Builder
	if style.Bold {
		sb.WriteString("<w:b/>")
	}
	if style.Italic {
		sb.WriteString("<w:i/>")
	}
	if style.Font != "" {
		sb.WriteString(fmt.Sprintf(`<w:rFonts w:ascii="%s" w:hAnsi="%s"/>`, style.Font, style.Font))
	}
	if style.SizePt > 0 {
		sb.WriteString(fmt.Sprintf(`<w:sz w:val="%d"/>`, int(style.SizePt*2)))
	}
	return sb.String()
}

// packDocx wraps a document.xml payload in a minimal DOCX container.
func packDocx(documentXML string) ([]byte, error) {
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)

	members := []struct {
		name, content string
	}{
		{"[Content_Types].xml", contentTypesXML},
		{"_rels/.rels", relsXML},
		{"word/document.xml", documentXML},
	}
	for _, m := range members {
		f, err := w.Create(m.name)
		if err != nil {
			return nil, fmt.Errorf("failed to create %s: %w", m.name, err)
		}
		if _, err := f.Write([]byte(m.content)); err != nil {
			return nil, fmt.Errorf("failed to write %s: %w", m.name, err)
		}
	}

	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize docx container: %w", err)
	}
	return buf.Bytes(), nil
}
