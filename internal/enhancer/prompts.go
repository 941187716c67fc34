package enhancer

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/kmuindi/resume-tailor/internal/llm"
	"github.com/kmuindi/resume-tailor/internal/models"
)

// bulletPrompt builds the rewrite prompt for one work experience. The
// model must answer with a JSON array matching the input bullet count so
// rewrites stay addressable by index.
func bulletPrompt(exp models.WorkExperience, job *models.JobPosting) string {
	var sb strings.Builder

	sb.WriteString("You are an expert resume writer tailoring bullet points toward a specific job posting.\n\n")

	sb.WriteString("## JOB POSTING\n")
	sb.WriteString(fmt.Sprintf("Title: %s\n", job.Title))
	sb.WriteString(fmt.Sprintf("Company: %s\n", job.CompanyName))
	if len(job.RequiredSkills) > 0 {
		sb.WriteString(fmt.Sprintf("Required skills: %s\n", strings.Join(job.RequiredSkills, ", ")))
	}
	if len(job.PreferredSkills) > 0 {
		sb.WriteString(fmt.Sprintf("Preferred skills: %s\n", strings.Join(job.PreferredSkills, ", ")))
	}
	sb.WriteString(fmt.Sprintf("Description: %s\n\n", job.Description))

	sb.WriteString("## WORK EXPERIENCE\n")
	sb.WriteString(fmt.Sprintf("Role: %s at %s\n", exp.Title, exp.Company))
	sb.WriteString("Bullet points:\n")
	for i, bullet := range exp.BulletPoints {
		sb.WriteString(fmt.Sprintf("%d. %s\n", i+1, bullet))
	}

	sb.WriteString("\n## INSTRUCTIONS\n")
	sb.WriteString("Rewrite each bullet point to emphasize the experience most relevant to this job. Rules:\n")
	sb.WriteString("- Keep every factual claim; never invent accomplishments, metrics, or technologies.\n")
	sb.WriteString("- Keep each rewrite about the same length as the original.\n")
	sb.WriteString("- Use strong action verbs and mirror the posting's terminology where truthful.\n\n")
	sb.WriteString(fmt.Sprintf("Return ONLY a JSON array of exactly %d strings, one per bullet, in the same order. No additional text.\n", len(exp.BulletPoints)))

	return sb.String()
}

func (e *Enhancer) generateSummary(ctx context.Context, resume *models.StructuredResume, job *models.JobPosting) (string, error) {
	var sb strings.Builder

	sb.WriteString("You are an expert resume writer. Write a professional summary tailored to a job posting.\n\n")

	sb.WriteString("## JOB POSTING\n")
	sb.WriteString(fmt.Sprintf("Title: %s at %s\n", job.Title, job.CompanyName))
	sb.WriteString(fmt.Sprintf("Description: %s\n\n", job.Description))

	sb.WriteString("## RESUME\n")
	sb.WriteString(resume.FullText)
	sb.WriteString("\n\n")

	sb.WriteString("## INSTRUCTIONS\n")
	sb.WriteString("Write a 2-3 sentence professional summary grounded strictly in the resume above. ")
	sb.WriteString("Emphasize the skills and experience most relevant to the posting. ")
	sb.WriteString("Return ONLY the summary text, no headings or additional text.\n")

	response, err := e.generate(ctx, sb.String(), llm.SummaryTokens)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(response), nil
}

func (e *Enhancer) generateCoverLetter(ctx context.Context, resume *models.StructuredResume, job *models.JobPosting, summary string) (string, error) {
	var sb strings.Builder

	sb.WriteString("You are an expert career writer. Write the body of a cover letter for a job application.\n\n")

	sb.WriteString("## JOB POSTING\n")
	sb.WriteString(fmt.Sprintf("Title: %s\n", job.Title))
	sb.WriteString(fmt.Sprintf("Company: %s\n", job.CompanyName))
	sb.WriteString(fmt.Sprintf("Description: %s\n\n", job.Description))

	sb.WriteString("## CANDIDATE SUMMARY\n")
	sb.WriteString(summary)
	sb.WriteString("\n\n")

	sb.WriteString("## CANDIDATE RESUME\n")
	sb.WriteString(resume.FullText)
	sb.WriteString("\n\n")

	sb.WriteString("## INSTRUCTIONS\n")
	sb.WriteString("Write 3-4 paragraphs: why the candidate fits the role, the most relevant experience, and a closing. ")
	sb.WriteString("Ground every claim in the resume; never invent experience. ")
	sb.WriteString("Do NOT include a salutation, date, address block or signature; those are added separately. ")
	sb.WriteString("Return ONLY the paragraphs, separated by blank lines.\n")

	response, err := e.generate(ctx, sb.String(), llm.CoverLetterTokens)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(response), nil
}

// parseBulletList extracts the JSON array from the response and checks
// it has exactly want entries.
func parseBulletList(response string, want int) ([]string, error) {
	startIdx := strings.Index(response, "[")
	endIdx := strings.LastIndex(response, "]")
	if startIdx == -1 || endIdx == -1 || endIdx < startIdx {
		return nil, fmt.Errorf("no JSON array found in response")
	}

	var bullets []string
	if err := json.Unmarshal([]byte(response[startIdx:endIdx+1]), &bullets); err != nil {
		return nil, fmt.Errorf("failed to unmarshal bullet array: %w", err)
	}
	if len(bullets) != want {
		return nil, fmt.Errorf("expected %d bullets, got %d", want, len(bullets))
	}
	return bullets, nil
}

// fallbackSummary prefers the resume's own summary section, then its
// leading text.
func fallbackSummary(resume *models.StructuredResume) string {
	for _, section := range resume.Sections {
		if section.Kind == models.SectionSummary && strings.TrimSpace(section.Content) != "" {
			return strings.TrimSpace(section.Content)
		}
	}

	lines := strings.Split(resume.FullText, "\n")
	for _, line := range lines[1:] { // skip the name line
		if trimmed := strings.TrimSpace(line); len(trimmed) > 40 {
			return trimmed
		}
	}
	return ""
}

// fallbackCoverLetter assembles a serviceable body from fixed phrasing
// plus whatever summary is available.
func fallbackCoverLetter(resume *models.StructuredResume, job *models.JobPosting, summary string) string {
	var paragraphs []string

	opening := fmt.Sprintf("I am writing to express my interest in the %s position", job.Title)
	if job.CompanyName != "" {
		opening += fmt.Sprintf(" at %s", job.CompanyName)
	}
	opening += ". My background aligns closely with the role's requirements."
	paragraphs = append(paragraphs, opening)

	if summary != "" {
		paragraphs = append(paragraphs, summary)
	}

	if len(resume.Skills) > 0 {
		count := len(resume.Skills)
		if count > 6 {
			count = 6
		}
		paragraphs = append(paragraphs, fmt.Sprintf(
			"My experience includes hands-on work with %s, which I would bring to bear on the challenges described in the posting.",
			strings.Join(resume.Skills[:count], ", ")))
	}

	paragraphs = append(paragraphs,
		"I would welcome the opportunity to discuss how my experience can contribute to your team. Thank you for your consideration.")

	return strings.Join(paragraphs, "\n\n")
}
