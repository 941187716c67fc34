package ingestion

import (
	"regexp"
	"strings"

	"github.com/kmuindi/resume-tailor/internal/models"
)

var (
	degreeRe = regexp.MustCompile(`(?i)\b(bachelor|master|doctor|ph\.?d|b\.?s\.?c?|m\.?s\.?c?|b\.?a\.?|m\.?a\.?|mba|associate|diploma)\b`)
	schoolRe = regexp.MustCompile(`(?i)\b(university|college|institute|polytechnic|school)\b`)
	gpaRe    = regexp.MustCompile(`(?i)gpa[:\s]*([0-4](?:\.\d{1,2})?)`)
	fieldRe  = regexp.MustCompile(`(?i)\b(?:in|of)\s+([A-Za-z][A-Za-z &]+)`)
)

// parseEducation groups an education section's lines into entries. A line
// naming a degree or a school anchors an entry; detail lines fill in the
// remaining fields of the open entry.
func parseEducation(lines []docLine) []models.Education {
	var entries []models.Education
	var current *models.Education

	for _, line := range lines {
		text := strings.TrimSpace(strings.TrimLeft(line.Text, "•◦▪-–—* \t"))
		if text == "" {
			continue
		}

		isDegree := degreeRe.MatchString(text)
		isSchool := schoolRe.MatchString(text)

		if isDegree || isSchool {
			// A new anchor only opens a new entry when the open entry
			// already has the corresponding field.
			if current == nil ||
				(isSchool && current.School != "") ||
				(isDegree && !isSchool && current.Degree != "") {
				if current != nil {
					entries = append(entries, *current)
				}
				current = &models.Education{}
			}
			fillEducation(current, text, isDegree, isSchool)
			continue
		}

		if current != nil {
			fillEducation(current, text, false, false)
		}
	}
	if current != nil {
		entries = append(entries, *current)
	}
	return entries
}

func fillEducation(entry *models.Education, text string, isDegree, isSchool bool) {
	if isSchool && entry.School == "" {
		entry.School = firstHeaderPart(text)
	}
	if isDegree && entry.Degree == "" {
		entry.Degree = firstHeaderPart(text)
		if m := fieldRe.FindStringSubmatch(text); m != nil {
			entry.Field = strings.TrimSpace(m[1])
		}
	}
	if entry.GraduationDate == "" && !isSchool {
		if year := yearRe.FindString(text); year != "" {
			entry.GraduationDate = year
		}
	}
	if m := gpaRe.FindStringSubmatch(text); m != nil && entry.GPA == "" {
		entry.GPA = m[1]
	}
	if loc := locationRe.FindString(text); loc != "" && entry.Location == "" && !isDegree {
		entry.Location = loc
	}
}

func firstHeaderPart(s string) string {
	part, _ := splitHeaderParts(s)
	return part
}
