package ingestion

import (
	"regexp"
	"sort"
	"strings"

	"github.com/kmuindi/resume-tailor/internal/models"
)

// skillLexicon is the maintained token list for the lexicon pass, grouped
// by category. Matching is case-insensitive; single-word tokens require
// word boundaries so "go" does not fire inside "going".
var skillLexicon = []string{
	// Languages
	"go", "golang", "python", "java", "javascript", "typescript", "c++",
	"c#", "ruby", "php", "swift", "kotlin", "rust", "scala", "r", "perl",
	"sql", "html", "css", "bash",
	// Frameworks and runtimes
	"react", "angular", "vue", "node.js", "express", "django", "flask",
	"spring", "rails", ".net", "fastapi", "gin", "laravel", "next.js",
	"svelte",
	// Databases
	"postgresql", "mysql", "mongodb", "redis", "sqlite", "elasticsearch",
	"cassandra", "dynamodb", "oracle", "sql server",
	// Cloud and infrastructure
	"aws", "azure", "gcp", "google cloud", "docker", "kubernetes",
	"terraform", "ansible", "jenkins", "ci/cd", "linux", "serverless",
	"lambda", "cloudformation",
	// Tools and practices
	"git", "github", "gitlab", "jira", "agile", "scrum", "kanban",
	"rest", "graphql", "grpc", "microservices", "kafka", "rabbitmq",
	"machine learning", "data analysis", "etl", "unit testing", "tdd",
	// Soft skills
	"leadership", "communication", "mentoring", "project management",
	"problem solving", "collaboration", "stakeholder management",
	"public speaking", "team building",
}

var skillSplitRe = regexp.MustCompile(`[,;|•◦▪\n\t]+`)

// extractSkills unions two sources: the lexicon substring pass over the
// full text and, with higher confidence, the contents of any section
// literally titled as a skills section. Explicit structure is preferred
// but never overwrites the lexicon hits; both are kept, deduplicated
// case-insensitively.
func extractSkills(fullText string, blocks []sectionBlock) []string {
	seen := make(map[string]bool)
	var skills []string

	add := func(skill string) {
		normalized := strings.ToLower(strings.TrimSpace(skill))
		normalized = strings.Trim(normalized, ".:")
		if normalized == "" || len(normalized) > 40 || seen[normalized] {
			return
		}
		seen[normalized] = true
		skills = append(skills, normalized)
	}

	// Higher-confidence source first: declared skills sections.
	for _, block := range blocks {
		if block.Kind != models.SectionSkills {
			continue
		}
		for _, token := range skillSplitRe.Split(joinLines(block.Lines), -1) {
			token = strings.TrimLeft(token, "-–—* ")
			// Drop category prefixes like "Languages:" in "Languages: Go, Python".
			if idx := strings.Index(token, ":"); idx >= 0 {
				token = token[idx+1:]
			}
			add(token)
		}
	}

	lowerText := strings.ToLower(fullText)
	for _, token := range skillLexicon {
		if matchesToken(lowerText, token) {
			add(token)
		}
	}

	sort.Strings(skills)
	return skills
}

// matchesToken reports whether a lexicon token occurs in the lowercased
// text. Multi-word tokens use plain substring search; single words and
// symbol-bearing tokens require non-word neighbors on both sides.
func matchesToken(lowerText, token string) bool {
	if strings.Contains(token, " ") {
		return strings.Contains(lowerText, token)
	}

	idx := 0
	for {
		rel := strings.Index(lowerText[idx:], token)
		if rel < 0 {
			return false
		}
		start := idx + rel
		end := start + len(token)
		if boundaryBefore(lowerText, start) && boundaryAfter(lowerText, end) {
			return true
		}
		idx = start + 1
	}
}

func boundaryBefore(s string, i int) bool {
	if i == 0 {
		return true
	}
	return !isWordChar(s[i-1])
}

func boundaryAfter(s string, i int) bool {
	if i >= len(s) {
		return true
	}
	return !isWordChar(s[i])
}

func isWordChar(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= '0' && c <= '9' || c == '+' || c == '#'
}
