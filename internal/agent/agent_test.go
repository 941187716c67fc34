package agent

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/kmuindi/resume-tailor/internal/config"
	"github.com/kmuindi/resume-tailor/internal/models"
)

const sampleResumeText = `Jane Doe
jane.doe@example.com | 555-0100

Summary
Senior backend engineer focused on Go services.

Experience
Senior Software Engineer, Initech Inc
Jan 2021 - Present
- Developed REST APIs serving millions of requests per day
- Led migration of the billing system to a new platform

Skills
Go, Python, PostgreSQL, Kubernetes
`

type scriptedClient struct {
	respond func(prompt string) (string, error)
}

func (c *scriptedClient) GenerateContent(_ context.Context, prompt string, _ int32) (string, error) {
	return c.respond(prompt)
}

func (c *scriptedClient) Close() error { return nil }

func testAgent(t *testing.T) *TailorAgent {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.UploadsDir = t.TempDir()
	cfg.AIEnabled = false
	cfg.UserName = "Jane Doe"
	return New(cfg)
}

func uploadSample(t *testing.T, a *TailorAgent) *models.StructuredResume {
	t.Helper()
	resume, err := a.UploadResume("resume.txt", strings.NewReader(sampleResumeText))
	if err != nil {
		t.Fatalf("UploadResume() error = %v", err)
	}
	return resume
}

func sampleJob() *models.JobPosting {
	return &models.JobPosting{
		ID:             "job-1",
		Title:          "Backend Engineer",
		CompanyName:    "Acme Corp",
		Description:    strings.Repeat("Go services with PostgreSQL on Kubernetes. ", 5),
		RequiredSkills: []string{"go", "postgresql"},
	}
}

func TestUploadResumeAndCurrentResume(t *testing.T) {
	a := testAgent(t)
	defer a.Close()

	if _, err := a.CurrentResume(); !errors.Is(err, ErrNoResume) {
		t.Fatalf("CurrentResume() before upload = %v, want ErrNoResume", err)
	}

	resume := uploadSample(t, a)
	if len(resume.WorkExperiences) == 0 {
		t.Fatal("uploaded resume should have work experiences")
	}

	current, err := a.CurrentResume()
	if err != nil {
		t.Fatalf("CurrentResume() error = %v", err)
	}
	if current != resume {
		t.Error("CurrentResume() should return the extracted resume")
	}
}

func TestScore_RequiresResume(t *testing.T) {
	a := testAgent(t)
	defer a.Close()

	if _, err := a.Score(sampleJob()); !errors.Is(err, ErrNoResume) {
		t.Errorf("Score() without resume = %v, want ErrNoResume", err)
	}
}

func TestScore_RecomputedAndRecorded(t *testing.T) {
	a := testAgent(t)
	defer a.Close()
	uploadSample(t, a)

	first, err := a.Score(sampleJob())
	if err != nil {
		t.Fatalf("Score() error = %v", err)
	}
	second, err := a.Score(sampleJob())
	if err != nil {
		t.Fatalf("Score() error = %v", err)
	}
	if first.Overall != second.Overall {
		t.Errorf("repeated scoring differs: %d vs %d", first.Overall, second.Overall)
	}

	var buf bytes.Buffer
	if err := a.ExportReport(&buf); err != nil {
		t.Fatalf("ExportReport() error = %v", err)
	}
	if buf.Len() == 0 {
		t.Error("export should produce workbook bytes")
	}
}

func TestExportReport_NothingScored(t *testing.T) {
	a := testAgent(t)
	defer a.Close()

	if err := a.ExportReport(&bytes.Buffer{}); err == nil {
		t.Error("ExportReport() with no scored jobs should fail")
	}
}

func TestTailor_WithFakeLLM(t *testing.T) {
	a := testAgent(t)
	defer a.Close()
	uploadSample(t, a)

	a.SetLLMClient(&scriptedClient{respond: func(prompt string) (string, error) {
		switch {
		case strings.Contains(prompt, "JSON array"):
			return `["Designed Go REST APIs serving millions of requests daily","Led migration of the billing system onto a Go platform"]`, nil
		case strings.Contains(prompt, "professional summary"):
			return "Senior Go engineer.", nil
		default:
			return "I would be a strong fit.\n\nMy background matches.\n\nThank you.", nil
		}
	}})

	materials, err := a.Tailor(context.Background(), sampleJob())
	if err != nil {
		t.Fatalf("Tailor() error = %v", err)
	}

	if materials.JobID != "job-1" {
		t.Errorf("JobID = %q", materials.JobID)
	}
	if len(materials.ResumeDocument) == 0 || len(materials.CoverLetterDoc) == 0 {
		t.Error("tailored documents should be populated")
	}
	if materials.Enhanced.Summary != "Senior Go engineer." {
		t.Errorf("Summary = %q", materials.Enhanced.Summary)
	}

	cached, ok := a.Materials("job-1")
	if !ok {
		t.Fatal("materials should be cached under the job id")
	}
	if cached != materials {
		t.Error("Materials() should return the cached entry")
	}
}

func TestTailor_DegradesWhenAIDisabled(t *testing.T) {
	a := testAgent(t)
	defer a.Close()
	resume := uploadSample(t, a)

	materials, err := a.Tailor(context.Background(), sampleJob())
	if err != nil {
		t.Fatalf("Tailor() with AI disabled should degrade, not fail: %v", err)
	}

	if len(materials.ResumeDocument) == 0 {
		t.Error("degraded tailoring should still produce a resume document")
	}
	for i, exp := range materials.Enhanced.Experiences {
		orig := resume.WorkExperiences[i].BulletPoints
		for j, bullet := range exp.Bullets {
			if bullet != orig[j] {
				t.Errorf("bullet %d/%d = %q, want original %q", i, j, bullet, orig[j])
			}
		}
	}
	if materials.Enhanced.CoverLetter == "" {
		t.Error("degraded tailoring should fall back to the template cover letter")
	}
}

func TestTailor_RequiresJobID(t *testing.T) {
	a := testAgent(t)
	defer a.Close()
	uploadSample(t, a)

	job := sampleJob()
	job.ID = ""
	if _, err := a.Tailor(context.Background(), job); err == nil {
		t.Error("Tailor() without a job id should fail")
	}
}

func TestPutMaterials_RoundTrip(t *testing.T) {
	a := testAgent(t)
	defer a.Close()

	if err := a.PutMaterials(&models.GeneratedMaterials{}); err == nil {
		t.Error("PutMaterials() without a job id should fail")
	}

	m := &models.GeneratedMaterials{JobID: "job-9"}
	if err := a.PutMaterials(m); err != nil {
		t.Fatalf("PutMaterials() error = %v", err)
	}

	got, ok := a.Materials("job-9")
	if !ok || got != m {
		t.Error("Materials() should return the installed entry")
	}
}
