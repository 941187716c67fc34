package enhancer

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/kmuindi/resume-tailor/internal/models"
)

// fakeClient answers prompts from a user-supplied function and counts
// calls.
type fakeClient struct {
	mu      sync.Mutex
	calls   int
	respond func(prompt string) (string, error)
}

func (f *fakeClient) GenerateContent(_ context.Context, prompt string, _ int32) (string, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	return f.respond(prompt)
}

func (f *fakeClient) Close() error { return nil }

func (f *fakeClient) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func testResume() *models.StructuredResume {
	return &models.StructuredResume{
		FullText: "Jane Doe\nSenior engineer with eight years building backend services in Go and Python.",
		Skills:   []string{"go", "python", "postgresql"},
		WorkExperiences: []models.WorkExperience{
			{
				Company: "Initech",
				Title:   "Senior Software Engineer",
				BulletPoints: []string{
					"Developed REST APIs serving millions of requests per day",
					"Led migration of the billing system to a new platform",
				},
			},
			{
				Company: "Hooli",
				Title:   "Software Engineer",
				BulletPoints: []string{
					"Built internal reporting tools used across three departments",
				},
			},
		},
	}
}

func testJob() *models.JobPosting {
	return &models.JobPosting{
		ID:             "job-1",
		Title:          "Backend Engineer",
		CompanyName:    "Acme Corp",
		Description:    "We build Go services backed by PostgreSQL.",
		RequiredSkills: []string{"go", "postgresql"},
	}
}

func TestEnhanceResume_RewritesBullets(t *testing.T) {
	client := &fakeClient{respond: func(prompt string) (string, error) {
		switch {
		case strings.Contains(prompt, "Initech"):
			return `["Designed Go REST APIs serving millions of requests daily","Led migration of the billing system onto a Go platform"]`, nil
		case strings.Contains(prompt, "Hooli"):
			return `["Built internal reporting tools adopted by three departments"]`, nil
		case strings.Contains(prompt, "professional summary"):
			return "Senior engineer with eight years of Go experience.", nil
		default:
			return "I am excited to apply.\n\nMy Go background fits well.\n\nThank you for your consideration.", nil
		}
	}}

	enhanced, err := New(client).EnhanceResume(context.Background(), testResume(), testJob(), nil)
	if err != nil {
		t.Fatalf("EnhanceResume() error = %v", err)
	}

	if len(enhanced.Experiences) != 2 {
		t.Fatalf("got %d enhanced experiences, want 2", len(enhanced.Experiences))
	}
	if got := enhanced.Experiences[0].Bullets[0]; !strings.Contains(got, "Designed Go REST APIs") {
		t.Errorf("first bullet not rewritten: %q", got)
	}
	if enhanced.Summary == "" || enhanced.CoverLetter == "" {
		t.Error("summary and cover letter should be populated")
	}

	if len(enhanced.BulletStatuses) != 3 {
		t.Fatalf("got %d bullet statuses, want 3", len(enhanced.BulletStatuses))
	}
	for _, st := range enhanced.BulletStatuses {
		if st.Status != models.BulletEnhancedPendingWrite || !st.AIEnhanced {
			t.Errorf("bullet %d status = %+v, want enhancedPendingWrite", st.BulletIndex, st)
		}
		if st.WrittenToDocument {
			t.Errorf("bullet %d marked written before synthesis", st.BulletIndex)
		}
	}
}

func TestEnhanceResume_RejectsOversizedRewrite(t *testing.T) {
	oversized := strings.Repeat("An extremely long rewritten bullet. ", 10)
	client := &fakeClient{respond: func(prompt string) (string, error) {
		switch {
		case strings.Contains(prompt, "Initech"):
			return `["` + oversized + `","Led migration of the billing system onto a Go platform"]`, nil
		case strings.Contains(prompt, "Hooli"):
			return `["Built internal reporting tools adopted by three departments"]`, nil
		default:
			return "ok", nil
		}
	}}

	resume := testResume()
	enhanced, err := New(client).EnhanceResume(context.Background(), resume, testJob(), nil)
	if err != nil {
		t.Fatalf("EnhanceResume() error = %v", err)
	}

	if got := enhanced.Experiences[0].Bullets[0]; got != resume.WorkExperiences[0].BulletPoints[0] {
		t.Errorf("oversized rewrite should keep the original, got %q", got)
	}
	if st := enhanced.BulletStatuses[0]; st.AIEnhanced || st.Status != models.BulletUnchanged {
		t.Errorf("rejected bullet status = %+v, want unchanged", st)
	}
	if st := enhanced.BulletStatuses[1]; !st.AIEnhanced {
		t.Errorf("sibling bullet should still be enhanced: %+v", st)
	}
}

func TestEnhanceResume_DegradesPerExperienceOnBadResponse(t *testing.T) {
	client := &fakeClient{respond: func(prompt string) (string, error) {
		if strings.Contains(prompt, "Initech") {
			return "not json at all", nil
		}
		if strings.Contains(prompt, "Hooli") {
			return `["Built internal reporting tools adopted by three departments"]`, nil
		}
		return "ok", nil
	}}

	resume := testResume()
	enhanced, err := New(client).EnhanceResume(context.Background(), resume, testJob(), nil)
	if err != nil {
		t.Fatalf("partial failure should not surface an error, got %v", err)
	}

	if got := enhanced.Experiences[0].Bullets; !strings.HasPrefix(got[0], "Developed REST APIs") {
		t.Errorf("failed experience should keep original bullets, got %v", got)
	}
	if got := enhanced.Experiences[1].Bullets[0]; !strings.Contains(got, "adopted by three departments") {
		t.Errorf("healthy experience should still be rewritten, got %q", got)
	}
}

func TestEnhanceResume_AllCallsFailed(t *testing.T) {
	client := &fakeClient{respond: func(string) (string, error) {
		return "", errors.New("connection refused")
	}}

	resume := testResume()
	job := testJob()
	enhanced, err := New(client).EnhanceResume(context.Background(), resume, job, nil)

	if !errors.Is(err, ErrEnhancementUnavailable) {
		t.Fatalf("err = %v, want ErrEnhancementUnavailable", err)
	}
	if enhanced == nil {
		t.Fatal("degraded result should still be returned")
	}

	for i, exp := range enhanced.Experiences {
		orig := resume.WorkExperiences[i].BulletPoints
		for j, bullet := range exp.Bullets {
			if bullet != orig[j] {
				t.Errorf("experience %d bullet %d = %q, want original %q", i, j, bullet, orig[j])
			}
		}
	}
	for _, st := range enhanced.BulletStatuses {
		if st.Status != models.BulletUnchanged {
			t.Errorf("bullet %d status = %s, want unchanged", st.BulletIndex, st.Status)
		}
	}
	if !strings.Contains(enhanced.CoverLetter, job.Title) {
		t.Errorf("template cover letter should mention the job title, got %q", enhanced.CoverLetter)
	}
	if !strings.Contains(enhanced.CoverLetter, job.CompanyName) {
		t.Errorf("template cover letter should mention the company, got %q", enhanced.CoverLetter)
	}
}

func TestEnhanceResume_ReportsProgress(t *testing.T) {
	client := &fakeClient{respond: func(prompt string) (string, error) {
		if strings.Contains(prompt, "Initech") {
			return `["a b c d e f g h i j k l","a b c d e f g h i j k l"]`, nil
		}
		if strings.Contains(prompt, "Hooli") {
			return `["a b c d e f g h i j k l"]`, nil
		}
		return "ok", nil
	}}

	var mu sync.Mutex
	var messages []string
	progress := func(current, total int, message string) {
		mu.Lock()
		messages = append(messages, message)
		mu.Unlock()
		if total != 4 {
			t.Errorf("total = %d, want 4 (two experiences + summary + cover letter)", total)
		}
	}

	if _, err := New(client).EnhanceResume(context.Background(), testResume(), testJob(), progress); err != nil {
		t.Fatalf("EnhanceResume() error = %v", err)
	}
	if len(messages) != 4 {
		t.Errorf("got %d progress reports, want 4: %v", len(messages), messages)
	}
}

func TestEnhanceResume_NonRetryableErrorDoesNotRetry(t *testing.T) {
	client := &fakeClient{respond: func(string) (string, error) {
		return "", errors.New("invalid argument")
	}}

	resume := &models.StructuredResume{
		WorkExperiences: []models.WorkExperience{
			{Company: "Initech", BulletPoints: []string{"Did a thing"}},
		},
	}
	_, _ = New(client).EnhanceResume(context.Background(), resume, testJob(), nil)

	// One bullet call, one summary, one cover letter; none retried.
	if got := client.callCount(); got != 3 {
		t.Errorf("client called %d times, want 3", got)
	}
}

// TestRetryConstants tests that rate limit constants are set correctly
func TestRetryConstants(t *testing.T) {
	if maxRetries != 3 {
		t.Errorf("maxRetries = %d, want 3", maxRetries)
	}
	if retryBackoff.Seconds() != 10 {
		t.Errorf("retryBackoff = %v, want 10 seconds", retryBackoff)
	}
	if concurrentBatches < 1 {
		t.Errorf("concurrentBatches = %d, want at least 1", concurrentBatches)
	}
}

func TestParseBulletList(t *testing.T) {
	tests := []struct {
		name     string
		response string
		want     int
		wantErr  bool
	}{
		{name: "Clean array", response: `["one","two"]`, want: 2},
		{name: "Array with surrounding text", response: "Here you go:\n[\"one\",\"two\"]\nDone.", want: 2},
		{name: "Wrong count", response: `["one"]`, want: 2, wantErr: true},
		{name: "No array", response: "sorry, I cannot help", want: 1, wantErr: true},
		{name: "Malformed JSON", response: `["one",]`, want: 1, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bullets, err := parseBulletList(tt.response, tt.want)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseBulletList() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil && len(bullets) != tt.want {
				t.Errorf("got %d bullets, want %d", len(bullets), tt.want)
			}
		})
	}
}

func TestFallbackSummary_PrefersSummarySection(t *testing.T) {
	resume := &models.StructuredResume{
		FullText: "Jane Doe\nSome long line of resume text that is over forty characters.",
		Sections: []models.Section{
			{Kind: models.SectionHeader, Content: "Jane Doe"},
			{Kind: models.SectionSummary, Content: "Engineer who ships."},
		},
	}
	if got := fallbackSummary(resume); got != "Engineer who ships." {
		t.Errorf("fallbackSummary() = %q, want the summary section content", got)
	}

	resume.Sections = resume.Sections[:1]
	if got := fallbackSummary(resume); !strings.Contains(got, "forty characters") {
		t.Errorf("fallbackSummary() without a summary section = %q, want leading text", got)
	}
}
