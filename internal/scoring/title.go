package scoring

import (
	"fmt"
	"math"
	"regexp"
	"strings"

	"github.com/kmuindi/resume-tailor/internal/models"
)

// genericTitleRe recognizes placeholder titles produced by job-board
// scrapers, e.g. "LinkedIn Job 88213". Such titles carry no signal about
// the role, so they score a fixed low-data-quality value instead of being
// computed.
var genericTitleRe = regexp.MustCompile(`(?i)^\w+\s+job\s+\d+$`)

// genericTitleScore flags low job-data quality without zeroing the
// candidate.
const genericTitleScore = 60

// scoreTitle compares the job title against the resume's current title and
// the user's declared desired title.
func scoreTitle(resume *models.StructuredResume, job *models.JobPosting) (int, string) {
	jobTitle := strings.TrimSpace(job.Title)
	if jobTitle == "" {
		return neutralScore, "job posting has no title"
	}
	if genericTitleRe.MatchString(jobTitle) {
		return genericTitleScore, "job title is a generic placeholder"
	}

	currentTitle := ""
	if len(resume.WorkExperiences) > 0 {
		currentTitle = resume.WorkExperiences[0].Title
	}

	for _, candidate := range []string{currentTitle, resume.DesiredTitle} {
		if candidate != "" && strings.EqualFold(strings.TrimSpace(candidate), jobTitle) {
			return 100, fmt.Sprintf("exact title match: %s", candidate)
		}
	}

	overlap := tokenOverlap(currentTitle, jobTitle)
	if desired := tokenOverlap(resume.DesiredTitle, jobTitle); desired > overlap {
		overlap = desired
	}

	score := clampScore(int(math.Round(overlap * 100)))
	return score, fmt.Sprintf("token overlap %.0f%% between %q and %q", overlap*100, currentTitle, jobTitle)
}

// tokenOverlap is the Jaccard similarity of the two titles' word sets.
func tokenOverlap(a, b string) float64 {
	setA := titleTokens(a)
	setB := titleTokens(b)
	if len(setA) == 0 || len(setB) == 0 {
		return 0
	}

	intersection := 0
	for token := range setA {
		if setB[token] {
			intersection++
		}
	}
	union := len(setA) + len(setB) - intersection
	return float64(intersection) / float64(union)
}

func titleTokens(title string) map[string]bool {
	tokens := map[string]bool{}
	for _, field := range strings.Fields(strings.ToLower(title)) {
		field = strings.Trim(field, ".,()-/")
		if field != "" {
			tokens[field] = true
		}
	}
	return tokens
}
