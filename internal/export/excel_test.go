package export

import (
	"bytes"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/kmuindi/resume-tailor/internal/models"
)

func sampleJobs() []ScoredJob {
	return []ScoredJob{
		{
			Job: models.JobPosting{ID: "job-1", Title: "Backend Engineer", CompanyName: "Acme Corp"},
			Score: models.MatchScoreBreakdown{
				Overall: 82, Skills: 90, Experience: 80, Title: 75, Keywords: 70,
				Details: models.MatchDetails{
					MatchedSkills:  []string{"go", "postgresql"},
					MissingSkills:  []string{"kafka"},
					KeywordMatches: 12,
					TotalKeywords:  20,
				},
			},
		},
		{
			Job:   models.JobPosting{ID: "job-2", Title: "Data Engineer", CompanyName: "Initech"},
			Score: models.MatchScoreBreakdown{Overall: 45, Skills: 30, Experience: 60, Title: 40, Keywords: 55},
		},
	}
}

func TestWriteReport(t *testing.T) {
	var buf bytes.Buffer
	generatedAt := time.Date(2024, time.March, 15, 9, 30, 0, 0, time.UTC)

	if err := WriteReport(&buf, sampleJobs(), generatedAt); err != nil {
		t.Fatalf("WriteReport() error = %v", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("failed to reopen workbook: %v", err)
	}
	defer f.Close()

	for _, sheet := range []string{"Summary", "Score Breakdown", "Skills Detail"} {
		if idx, _ := f.GetSheetIndex(sheet); idx == -1 {
			t.Errorf("workbook missing sheet %q", sheet)
		}
	}

	if got, _ := f.GetCellValue("Summary", "B3"); got != "2024-03-15 09:30:00" {
		t.Errorf("generated timestamp = %q", got)
	}
	if got, _ := f.GetCellValue("Summary", "B4"); got != "2" {
		t.Errorf("jobs scored = %q, want 2", got)
	}

	if got, _ := f.GetCellValue("Score Breakdown", "A2"); got != "Backend Engineer" {
		t.Errorf("first breakdown row job = %q", got)
	}
	if got, _ := f.GetCellValue("Score Breakdown", "C2"); got != "82" {
		t.Errorf("first breakdown overall = %q, want 82", got)
	}

	if got, _ := f.GetCellValue("Skills Detail", "B2"); got != "go, postgresql" {
		t.Errorf("matched skills = %q", got)
	}
	if got, _ := f.GetCellValue("Skills Detail", "F2"); got != "12/20" {
		t.Errorf("keyword cell = %q, want 12/20", got)
	}
}

func TestWriteReport_EmptyJobList(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteReport(&buf, nil, time.Now()); err != nil {
		t.Fatalf("WriteReport() with no jobs should still produce a workbook, got %v", err)
	}
	if buf.Len() == 0 {
		t.Error("empty job list should still write workbook bytes")
	}
}

func TestScoreFill(t *testing.T) {
	tests := []struct {
		score int
		want  string
	}{
		{95, "C6EFCE"},
		{90, "C6EFCE"},
		{75, "FFEB9C"},
		{50, "FFC7CE"},
		{10, "FF9999"},
	}
	for _, tt := range tests {
		if got := scoreFill(tt.score); got != tt.want {
			t.Errorf("scoreFill(%d) = %s, want %s", tt.score, got, tt.want)
		}
	}
}
