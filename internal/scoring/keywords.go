package scoring

import (
	"math"
	"regexp"
	"sort"
	"strings"

	"github.com/kmuindi/resume-tailor/internal/models"
)

const (
	// topKeywordCount is how many of the description's most frequent terms
	// are checked against the resume.
	topKeywordCount = 20
	// minDescriptionLen is the description length below which the keyword
	// component defaults to neutral rather than computing from too little
	// signal.
	minDescriptionLen = 100
)

var stopwords = map[string]bool{
	"the": true, "and": true, "for": true, "with": true, "you": true,
	"are": true, "our": true, "will": true, "that": true, "this": true,
	"have": true, "your": true, "from": true, "their": true, "they": true,
	"work": true, "team": true, "role": true, "job": true, "who": true,
	"what": true, "all": true, "can": true, "has": true, "was": true,
	"were": true, "been": true, "being": true, "than": true, "them": true,
	"then": true, "there": true, "these": true, "those": true, "into": true,
	"about": true, "across": true, "within": true, "while": true, "where": true,
	"which": true, "would": true, "should": true, "could": true, "must": true,
	"may": true, "more": true, "most": true, "other": true, "such": true,
	"using": true, "used": true, "use": true, "able": true, "well": true,
	"strong": true, "experience": true, "years": true, "skills": true,
	"including": true, "knowledge": true, "ability": true, "required": true,
	"preferred": true, "plus": true, "etc": true, "per": true, "not": true,
	"looking": true, "join": true, "candidate": true, "position": true,
	"responsibilities": true, "requirements": true, "qualifications": true,
}

var wordRe = regexp.MustCompile(`[a-z0-9][a-z0-9+#./\-]*`)

// scoreKeywords extracts the description's most frequent non-stopword
// terms and counts how many appear in the resume's full text.
func scoreKeywords(resume *models.StructuredResume, job *models.JobPosting) (score, matches, total int) {
	if len(strings.TrimSpace(job.Description)) < minDescriptionLen {
		return neutralScore, 0, 0
	}

	keywords := topKeywords(job.Description, topKeywordCount)
	total = len(keywords)

	resumeWords := map[string]bool{}
	for _, w := range wordRe.FindAllString(strings.ToLower(resume.FullText), -1) {
		resumeWords[w] = true
	}

	for _, kw := range keywords {
		if resumeWords[kw] {
			matches++
		}
	}

	score = clampScore(int(math.Round(100 * float64(matches) / math.Max(1, float64(total)))))
	return score, matches, total
}

// topKeywords returns the n most frequent non-stopword terms of the text.
// Ties break alphabetically so the result is stable across runs.
func topKeywords(text string, n int) []string {
	freq := map[string]int{}
	for _, w := range wordRe.FindAllString(strings.ToLower(text), -1) {
		if len(w) < 3 || stopwords[w] {
			continue
		}
		freq[w]++
	}

	terms := make([]string, 0, len(freq))
	for term := range freq {
		terms = append(terms, term)
	}
	sort.Slice(terms, func(i, j int) bool {
		if freq[terms[i]] != freq[terms[j]] {
			return freq[terms[i]] > freq[terms[j]]
		}
		return terms[i] < terms[j]
	})

	if len(terms) > n {
		terms = terms[:n]
	}
	return terms
}
