package scoring

import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/kmuindi/resume-tailor/internal/models"
)

var yearRe = regexp.MustCompile(`\d{4}`)

// scoreExperience compares the resume's total years of experience against
// the job's stated requirement, piecewise by the size of the gap. A
// posting without a stated requirement scores neutral, not a free 100.
func scoreExperience(resume *models.StructuredResume, job *models.JobPosting) (int, string) {
	if job.RequiredExperienceYears <= 0 {
		return neutralScore, "job posting states no experience requirement"
	}

	years := totalExperienceYears(resume)
	gap := job.RequiredExperienceYears - years

	var score int
	switch {
	case gap <= 0:
		score = 100
	case gap <= 1:
		score = 80
	case gap <= 2:
		score = 60
	case gap <= 3:
		score = 40
	default:
		score = 20
	}

	desc := fmt.Sprintf("resume shows ~%d years, job requires %d", years, job.RequiredExperienceYears)
	if gap <= 0 {
		desc = fmt.Sprintf("resume shows ~%d years, meets the %d-year requirement", years, job.RequiredExperienceYears)
	}
	return score, desc
}

// totalExperienceYears sums the year spans of all work experiences.
// Open-ended ("present") entries are closed at the latest year mentioned
// anywhere in the resume's date ranges, keeping the computation free of
// clock reads.
func totalExperienceYears(resume *models.StructuredResume) int {
	anchor := 0
	for _, exp := range resume.WorkExperiences {
		for _, date := range []string{exp.StartDate, exp.EndDate} {
			if y := parseYear(date); y > anchor {
				anchor = y
			}
		}
	}

	total := 0
	for _, exp := range resume.WorkExperiences {
		start := parseYear(exp.StartDate)
		if start == 0 {
			continue
		}
		end := parseYear(exp.EndDate)
		if end == 0 {
			if exp.IsCurrent {
				end = anchor
			} else {
				end = start
			}
		}
		if span := end - start; span > 0 {
			total += span
		} else {
			// Sub-year entries still count for something.
			total++
		}
	}
	return total
}

func parseYear(date string) int {
	m := yearRe.FindString(date)
	if m == "" {
		return 0
	}
	y, _ := strconv.Atoi(m)
	return y
}
