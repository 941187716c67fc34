// Package scoring computes the weighted match score between a structured
// resume and a job posting. Scoring is a pure function: no I/O, no
// randomness, no clock reads, so identical inputs always produce
// identical output.
package scoring

import (
	"math"

	"github.com/kmuindi/resume-tailor/internal/models"
)

// Component weights. They sum to 1.0.
const (
	weightSkills     = 0.40
	weightExperience = 0.25
	weightTitle      = 0.20
	weightKeywords   = 0.15
)

// neutralScore is the deliberately mid-range component score used when the
// job posting is missing the data a component needs. It avoids rewarding
// or punishing sparse postings.
const neutralScore = 70

// Score evaluates how well a resume matches a job posting and returns the
// full breakdown with supporting evidence. It is total: malformed or
// missing job fields degrade to neutral defaults, never to an error.
func Score(resume *models.StructuredResume, job *models.JobPosting) models.MatchScoreBreakdown {
	breakdown := models.MatchScoreBreakdown{}

	breakdown.Skills, breakdown.Details.MatchedSkills, breakdown.Details.MissingSkills = scoreSkills(resume, job)
	breakdown.Experience, breakdown.Details.ExperienceGap = scoreExperience(resume, job)
	breakdown.Title, breakdown.Details.TitleSimilarity = scoreTitle(resume, job)
	breakdown.Keywords, breakdown.Details.KeywordMatches, breakdown.Details.TotalKeywords = scoreKeywords(resume, job)

	breakdown.Overall = clampScore(int(math.Round(
		weightSkills*float64(breakdown.Skills) +
			weightExperience*float64(breakdown.Experience) +
			weightTitle*float64(breakdown.Title) +
			weightKeywords*float64(breakdown.Keywords))))

	return breakdown
}

func clampScore(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}
