package ingestion

import (
	"regexp"
	"strings"

	"github.com/kmuindi/resume-tailor/internal/models"
)

var (
	monthPattern = `(?:jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec)[a-z]*\.?`
	datePattern  = `(?:` + monthPattern + `,?\s+\d{4}|\d{1,2}/\d{4}|\d{4})`
	endPattern   = `(?:` + datePattern + `|present|current|now)`

	dateRangeRe = regexp.MustCompile(`(?i)(` + datePattern + `)\s*(?:-|–|—|to|until)\s*(` + endPattern + `)`)
	presentRe   = regexp.MustCompile(`(?i)\b(?:present|current)\b`)
	yearRe      = regexp.MustCompile(`\d{4}`)
	locationRe  = regexp.MustCompile(`[A-Z][A-Za-z .]+,\s*[A-Z]{2}\b`)
)

// companyMarkers are tokens that make a line look like a company name
// rather than a job title. Common title words ("software", "systems
// engineer") are deliberately absent.
var companyMarkers = []string{
	"inc", "llc", "ltd", "corp", "gmbh", "technologies", "labs",
	"solutions", "group", "consulting", "& co",
}

// parseExperiences groups an experience section's lines into entries.
// A line carrying a date range (or "present") anchors an entry boundary;
// subsequent bullet-marked or indented lines belong to that entry until
// the next anchor.
func parseExperiences(lines []docLine) []models.WorkExperience {
	var entries []models.WorkExperience
	var current *models.WorkExperience
	prevHeader := ""

	for _, line := range lines {
		text := strings.TrimSpace(line.Text)
		if text == "" {
			continue
		}

		if rangeMatch := dateRangeRe.FindStringSubmatch(text); rangeMatch != nil && !isBulletLine(line) {
			if current != nil {
				entries = append(entries, *current)
			}
			current = newEntry(text, rangeMatch, prevHeader)
			prevHeader = ""
			continue
		}

		if bullet, ok := bulletText(line); ok {
			if current != nil {
				current.BulletPoints = append(current.BulletPoints, bullet)
			}
			continue
		}

		// A plain line between entries is most likely the company/title
		// header of the next anchor line.
		prevHeader = text
	}
	if current != nil {
		entries = append(entries, *current)
	}
	return entries
}

func isBulletLine(line docLine) bool {
	_, ok := bulletText(line)
	return ok
}

// newEntry builds a WorkExperience from an anchor line, its date-range
// match and the preceding header line (if any).
func newEntry(text string, rangeMatch []string, prevHeader string) *models.WorkExperience {
	entry := &models.WorkExperience{
		StartDate: strings.TrimSpace(rangeMatch[1]),
		EndDate:   strings.TrimSpace(rangeMatch[2]),
		IsCurrent: presentRe.MatchString(rangeMatch[2]),
	}

	remainder := strings.TrimSpace(strings.Replace(text, rangeMatch[0], "", 1))
	remainder = strings.Trim(remainder, " |,·•-–—\t")

	if loc := locationRe.FindString(remainder); loc != "" {
		entry.Location = loc
		remainder = strings.TrimSpace(strings.Replace(remainder, loc, "", 1))
		remainder = strings.Trim(remainder, " |,·•-–—\t")
	}

	entry.Company, entry.Title = splitCompanyTitle(remainder, prevHeader)
	return entry
}

// splitCompanyTitle assigns company and title from the anchor-line
// remainder and the preceding header line. When both halves are present
// the one that looks like a company name wins that slot; otherwise the
// first half is taken as the title, matching the common
// "Title, Company" resume layout.
func splitCompanyTitle(primary, secondary string) (company, title string) {
	first, second := splitHeaderParts(primary)
	if first == "" {
		first, second = splitHeaderParts(secondary)
	} else if second == "" && secondary != "" {
		second, _ = splitHeaderParts(secondary)
	}

	switch {
	case first == "" && second == "":
		return "", ""
	case second == "":
		if looksLikeCompany(first) {
			return first, ""
		}
		return "", first
	case looksLikeCompany(first) && !looksLikeCompany(second):
		return first, second
	default:
		return second, first
	}
}

func splitHeaderParts(s string) (string, string) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", ""
	}
	for _, sep := range []string{" at ", " — ", " – ", " | ", " - ", ", "} {
		if idx := strings.Index(s, sep); idx > 0 {
			return strings.TrimSpace(s[:idx]), strings.TrimSpace(s[idx+len(sep):])
		}
	}
	return s, ""
}

func looksLikeCompany(s string) bool {
	lower := strings.ToLower(s)
	for _, marker := range companyMarkers {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}
