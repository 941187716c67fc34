package scoring

import (
	"math"
	"strings"

	"github.com/kmuindi/resume-tailor/internal/models"
)

const (
	requiredSkillWeight  = 0.70
	preferredSkillWeight = 0.30
	// similarityThreshold is the minimum edit-distance similarity for two
	// normalized skills to count as a match.
	similarityThreshold = 0.85
)

// skillAliases maps shorthand skill spellings to their canonical form.
// Both sides of a comparison are canonicalized before matching.
var skillAliases = map[string]string{
	"js":                  "javascript",
	"ts":                  "typescript",
	"golang":              "go",
	"py":                  "python",
	"k8s":                 "kubernetes",
	"postgres":            "postgresql",
	"mongo":               "mongodb",
	"tf":                  "terraform",
	"gcloud":              "gcp",
	"amazon web services": "aws",
	"google cloud":        "gcp",
	"reactjs":             "react",
	"vuejs":               "vue",
	"nodejs":              "node",
}

// scoreSkills compares the job's required and preferred skills against the
// resume skills. A neutral default applies when the posting lists no
// skills at all, so missing job data does not masquerade as a perfect or
// punitive match.
func scoreSkills(resume *models.StructuredResume, job *models.JobPosting) (score int, matched, missing []string) {
	matched = []string{}
	missing = []string{}

	if len(job.RequiredSkills) == 0 && len(job.PreferredSkills) == 0 {
		return neutralScore, matched, missing
	}

	resumeSkills := make([]string, 0, len(resume.Skills))
	for _, s := range resume.Skills {
		resumeSkills = append(resumeSkills, normalizeSkill(s))
	}

	requiredMatched := 0
	for _, skill := range job.RequiredSkills {
		if skillMatches(normalizeSkill(skill), resumeSkills) {
			requiredMatched++
			matched = append(matched, skill)
		} else {
			missing = append(missing, skill)
		}
	}

	preferredMatched := 0
	for _, skill := range job.PreferredSkills {
		if skillMatches(normalizeSkill(skill), resumeSkills) {
			preferredMatched++
			matched = append(matched, skill)
		} else {
			missing = append(missing, skill)
		}
	}

	requiredScore := float64(requiredMatched) / math.Max(1, float64(len(job.RequiredSkills)))
	preferredScore := float64(preferredMatched) / math.Max(1, float64(len(job.PreferredSkills)))

	// A posting with only one of the two lists scores the absent list
	// neutrally rather than as a total miss.
	if len(job.RequiredSkills) == 0 {
		requiredScore = 0.70
	}
	if len(job.PreferredSkills) == 0 {
		preferredScore = 0.70
	}

	score = clampScore(int(math.Round(100 * (requiredSkillWeight*requiredScore + preferredSkillWeight*preferredScore))))
	return score, matched, missing
}

// normalizeSkill lowercases, trims punctuation and strips framework-style
// ".js" suffixes, then resolves aliases to a canonical spelling.
func normalizeSkill(skill string) string {
	s := strings.ToLower(strings.TrimSpace(skill))
	s = strings.TrimSuffix(s, ".js")
	s = strings.Trim(s, ".,;:!()[]\"'")
	if canonical, ok := skillAliases[s]; ok {
		return canonical
	}
	return s
}

func skillMatches(jobSkill string, resumeSkills []string) bool {
	if jobSkill == "" {
		return false
	}
	for _, rs := range resumeSkills {
		if rs == jobSkill {
			return true
		}
		if similarity(rs, jobSkill) >= similarityThreshold {
			return true
		}
	}
	return false
}

// similarity is the normalized Levenshtein similarity of two strings in
// [0,1].
func similarity(a, b string) float64 {
	if a == b {
		return 1
	}
	longest := math.Max(float64(len(a)), float64(len(b)))
	if longest == 0 {
		return 1
	}
	return 1 - float64(levenshtein(a, b))/longest
}

func levenshtein(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	if len(ra) == 0 {
		return len(rb)
	}
	if len(rb) == 0 {
		return len(ra)
	}

	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			curr[j] = minInt(prev[j]+1, minInt(curr[j-1]+1, prev[j-1]+cost))
		}
		prev, curr = curr, prev
	}
	return prev[len(rb)]
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
