package ingestion

import (
	"strings"
	"unicode"

	"github.com/kmuindi/resume-tailor/internal/models"
)

// sectionBlock is a segmented run of lines belonging to one section.
type sectionBlock struct {
	Kind       models.SectionKind
	Title      string
	Formatting *models.SectionFormatting
	Lines      []docLine
}

func (b sectionBlock) toSection() models.Section {
	section := models.Section{
		Kind:       b.Kind,
		Title:      b.Title,
		Content:    joinLines(b.Lines),
		Formatting: b.Formatting,
	}
	for _, l := range b.Lines {
		if text, ok := bulletText(l); ok {
			section.Items = append(section.Items, text)
		}
	}
	return section
}

// headerKeywords maps normalized header text fragments to section kinds.
// Order matters: more specific fragments come first so "work experience"
// is not shadowed by a generic hit.
var headerKeywords = []struct {
	fragment string
	kind     models.SectionKind
}{
	{"work experience", models.SectionExperience},
	{"professional experience", models.SectionExperience},
	{"employment history", models.SectionExperience},
	{"work history", models.SectionExperience},
	{"experience", models.SectionExperience},
	{"employment", models.SectionExperience},
	{"education", models.SectionEducation},
	{"academic background", models.SectionEducation},
	{"technical skills", models.SectionSkills},
	{"core competencies", models.SectionSkills},
	{"technologies", models.SectionSkills},
	{"skills", models.SectionSkills},
	{"professional summary", models.SectionSummary},
	{"summary", models.SectionSummary},
	{"objective", models.SectionSummary},
	{"profile", models.SectionSummary},
	{"about me", models.SectionSummary},
	{"certifications", models.SectionCertifications},
	{"certificates", models.SectionCertifications},
	{"licenses", models.SectionCertifications},
}

// maxHeaderLen filters out body lines that merely mention a keyword. A
// real section header is a short standalone line.
const maxHeaderLen = 40

// segmentSections splits the document's lines into section blocks by
// matching each line against the header-keyword table combined with
// formatting cues. The first unmatched leading block becomes the
// header/contact section.
func segmentSections(lines []docLine) []sectionBlock {
	var blocks []sectionBlock
	current := sectionBlock{Kind: models.SectionHeader}

	flush := func() {
		if len(current.Lines) > 0 || current.Title != "" {
			blocks = append(blocks, current)
		}
	}

	for _, line := range lines {
		if kind, ok := classifyHeader(line); ok {
			flush()
			current = sectionBlock{
				Kind:       kind,
				Title:      strings.TrimSpace(line.Text),
				Formatting: line.Formatting,
			}
			continue
		}
		if strings.TrimSpace(line.Text) == "" && len(current.Lines) == 0 {
			continue
		}
		current.Lines = append(current.Lines, line)
	}
	flush()

	// A resume that opens directly with a recognized header has no
	// leading block; that is fine, contact extraction falls back to the
	// full text.
	return blocks
}

// classifyHeader decides whether a line is a section header and of which
// kind. Keyword match is required; a formatting cue (heading style, bold,
// all caps, or a short standalone line ending without punctuation) guards
// against body-text false positives.
func classifyHeader(line docLine) (models.SectionKind, bool) {
	text := strings.TrimSpace(line.Text)
	if text == "" || len(text) > maxHeaderLen || line.Bullet {
		return "", false
	}

	normalized := strings.ToLower(strings.TrimRight(text, ":"))
	var kind models.SectionKind
	for _, hk := range headerKeywords {
		if strings.Contains(normalized, hk.fragment) {
			kind = hk.kind
			break
		}
	}
	if kind == "" {
		return "", false
	}

	if line.HeadingLevel > 0 {
		return kind, true
	}
	if line.Formatting != nil && line.Formatting.Bold {
		return kind, true
	}
	if isAllCaps(text) {
		return kind, true
	}
	// Short standalone line whose whole content is the keyword phrase.
	if len(normalized) <= len(longestFragment(kind))+6 {
		return kind, true
	}
	return "", false
}

func longestFragment(kind models.SectionKind) string {
	longest := ""
	for _, hk := range headerKeywords {
		if hk.kind == kind && len(hk.fragment) > len(longest) {
			longest = hk.fragment
		}
	}
	return longest
}

func isAllCaps(s string) bool {
	hasLetter := false
	for _, r := range s {
		if unicode.IsLetter(r) {
			hasLetter = true
			if unicode.IsLower(r) {
				return false
			}
		}
	}
	return hasLetter
}

// bulletText reports whether a line is bullet-marked or indented and
// returns its text with the marker stripped.
func bulletText(line docLine) (string, bool) {
	text := strings.TrimSpace(line.Text)
	if text == "" {
		return "", false
	}
	if line.Bullet {
		return strings.TrimLeft(text, "•◦▪-–—* \t"), true
	}
	for _, marker := range []string{"•", "◦", "▪", "- ", "– ", "— ", "* "} {
		if strings.HasPrefix(text, marker) {
			return strings.TrimSpace(strings.TrimPrefix(text, marker)), true
		}
	}
	if strings.HasPrefix(line.Text, "\t") || strings.HasPrefix(line.Text, "    ") {
		return text, true
	}
	return "", false
}
