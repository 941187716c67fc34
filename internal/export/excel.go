package export

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/kmuindi/resume-tailor/internal/models"
)

// ScoredJob pairs a job posting with its computed match breakdown.
type ScoredJob struct {
	Job   models.JobPosting
	Score models.MatchScoreBreakdown
}

// WriteReport builds the match-report workbook and writes it to w.
func WriteReport(w io.Writer, jobs []ScoredJob, generatedAt time.Time) error {
	f, err := buildReport(jobs, generatedAt)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write Excel report: %w", err)
	}
	return nil
}

// ExportToExcel generates the match-report workbook at outputPath.
func ExportToExcel(jobs []ScoredJob, generatedAt time.Time, outputPath string) error {
	f, err := buildReport(jobs, generatedAt)
	if err != nil {
		return err
	}
	defer f.Close()

	// Ensure output path has .xlsx extension
	if !strings.HasSuffix(strings.ToLower(outputPath), ".xlsx") {
		outputPath = outputPath + ".xlsx"
	}
	outputPath = filepath.Clean(outputPath)

	// Try to save the file directly
	if err := f.SaveAs(outputPath); err != nil {
		// If direct save fails, try buffer write fallback
		var buf bytes.Buffer
		if writeErr := f.Write(&buf); writeErr != nil {
			return fmt.Errorf("failed to save Excel file: direct save failed (%v), buffer write also failed: %w", err, writeErr)
		}
		if fileErr := os.WriteFile(outputPath, buf.Bytes(), 0644); fileErr != nil {
			return fmt.Errorf("failed to save Excel file: direct save failed (%v), file write failed: %w", err, fileErr)
		}
	}

	return nil
}

func buildReport(jobs []ScoredJob, generatedAt time.Time) (*excelize.File, error) {
	f := excelize.NewFile()

	summarySheet := "Summary"
	breakdownSheet := "Score Breakdown"
	skillsSheet := "Skills Detail"

	f.SetSheetName("Sheet1", summarySheet)
	f.NewSheet(breakdownSheet)
	f.NewSheet(skillsSheet)

	if err := createSummarySheet(f, summarySheet, jobs, generatedAt); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create summary sheet: %w", err)
	}
	if err := createBreakdownSheet(f, breakdownSheet, jobs); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create score breakdown sheet: %w", err)
	}
	if err := createSkillsSheet(f, skillsSheet, jobs); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create skills detail sheet: %w", err)
	}

	return f, nil
}

func headerStyle(f *excelize.File) (int, error) {
	return f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border:    thinBorder(),
	})
}

func thinBorder() []excelize.Border {
	return []excelize.Border{
		{Type: "left", Color: "000000", Style: 1},
		{Type: "right", Color: "000000", Style: 1},
		{Type: "top", Color: "000000", Style: 1},
		{Type: "bottom", Color: "000000", Style: 1},
	}
}

// scoreFill returns the color band for an overall match score.
func scoreFill(score int) string {
	switch {
	case score >= 90:
		return "C6EFCE"
	case score >= 70:
		return "FFEB9C"
	case score >= 50:
		return "FFC7CE"
	default:
		return "FF9999"
	}
}

// createSummarySheet writes the report header and score statistics.
func createSummarySheet(f *excelize.File, sheetName string, jobs []ScoredJob, generatedAt time.Time) error {
	f.SetColWidth(sheetName, "A", "A", 25)
	f.SetColWidth(sheetName, "B", "B", 50)

	titleStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 14, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "left", Vertical: "center"},
	})
	if err != nil {
		return err
	}

	labelStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
	})
	if err != nil {
		return err
	}

	row := 1

	f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), "Job Match Report")
	f.SetCellStyle(sheetName, fmt.Sprintf("A%d", row), fmt.Sprintf("B%d", row), titleStyle)
	f.MergeCell(sheetName, fmt.Sprintf("A%d", row), fmt.Sprintf("B%d", row))
	row += 2

	f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), "Generated:")
	f.SetCellStyle(sheetName, fmt.Sprintf("A%d", row), fmt.Sprintf("A%d", row), labelStyle)
	f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), generatedAt.Format("2006-01-02 15:04:05"))
	row++

	f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), "Jobs Scored:")
	f.SetCellStyle(sheetName, fmt.Sprintf("A%d", row), fmt.Sprintf("A%d", row), labelStyle)
	f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), len(jobs))
	row += 2

	if len(jobs) == 0 {
		return nil
	}

	f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), "Match Distribution:")
	f.SetCellStyle(sheetName, fmt.Sprintf("A%d", row), fmt.Sprintf("B%d", row), titleStyle)
	f.MergeCell(sheetName, fmt.Sprintf("A%d", row), fmt.Sprintf("B%d", row))
	row++

	excellent, good, fair, poor := 0, 0, 0, 0
	total, highest, lowest := 0, jobs[0].Score.Overall, jobs[0].Score.Overall
	for _, j := range jobs {
		score := j.Score.Overall
		switch {
		case score >= 90:
			excellent++
		case score >= 70:
			good++
		case score >= 50:
			fair++
		default:
			poor++
		}
		total += score
		if score > highest {
			highest = score
		}
		if score < lowest {
			lowest = score
		}
	}

	bands := []struct {
		label string
		count int
	}{
		{"Excellent (90-100):", excellent},
		{"Good (70-89):", good},
		{"Fair (50-69):", fair},
		{"Poor (<50):", poor},
	}
	for _, b := range bands {
		f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), b.label)
		f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), b.count)
		row++
	}
	row++

	f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), "Average Score:")
	f.SetCellStyle(sheetName, fmt.Sprintf("A%d", row), fmt.Sprintf("A%d", row), labelStyle)
	f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), fmt.Sprintf("%.2f", float64(total)/float64(len(jobs))))
	row++

	f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), "Highest Score:")
	f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), highest)
	row++

	f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), "Lowest Score:")
	f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), lowest)

	return nil
}

// createBreakdownSheet writes one color-coded row per scored job.
func createBreakdownSheet(f *excelize.File, sheetName string, jobs []ScoredJob) error {
	widths := map[string]float64{"A": 30, "B": 22, "C": 10, "D": 10, "E": 12, "F": 10, "G": 10}
	for col, w := range widths {
		f.SetColWidth(sheetName, col, col, w)
	}

	header, err := headerStyle(f)
	if err != nil {
		return err
	}

	headers := []string{"Job", "Company", "Overall", "Skills", "Experience", "Title", "Keywords"}
	for col, h := range headers {
		cell := fmt.Sprintf("%s1", string(rune('A'+col)))
		f.SetCellValue(sheetName, cell, h)
		f.SetCellStyle(sheetName, cell, cell, header)
	}

	for i, j := range jobs {
		row := i + 2
		f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), j.Job.Title)
		f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), j.Job.CompanyName)
		f.SetCellValue(sheetName, fmt.Sprintf("C%d", row), j.Score.Overall)
		f.SetCellValue(sheetName, fmt.Sprintf("D%d", row), j.Score.Skills)
		f.SetCellValue(sheetName, fmt.Sprintf("E%d", row), j.Score.Experience)
		f.SetCellValue(sheetName, fmt.Sprintf("F%d", row), j.Score.Title)
		f.SetCellValue(sheetName, fmt.Sprintf("G%d", row), j.Score.Keywords)

		rowStyle, err := f.NewStyle(&excelize.Style{
			Fill:   excelize.Fill{Type: "pattern", Color: []string{scoreFill(j.Score.Overall)}, Pattern: 1},
			Border: thinBorder(),
		})
		if err != nil {
			return err
		}
		f.SetCellStyle(sheetName, fmt.Sprintf("A%d", row), fmt.Sprintf("G%d", row), rowStyle)
	}

	if len(jobs) > 0 {
		f.AutoFilter(sheetName, fmt.Sprintf("A1:G%d", len(jobs)+1), []excelize.AutoFilterOptions{})
	}

	f.SetPanes(sheetName, &excelize.Panes{
		Freeze:      true,
		XSplit:      0,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})

	return nil
}

// createSkillsSheet writes the evidence behind each score.
func createSkillsSheet(f *excelize.File, sheetName string, jobs []ScoredJob) error {
	f.SetColWidth(sheetName, "A", "A", 30)
	f.SetColWidth(sheetName, "B", "B", 40)
	f.SetColWidth(sheetName, "C", "C", 40)
	f.SetColWidth(sheetName, "D", "D", 45)
	f.SetColWidth(sheetName, "E", "E", 45)
	f.SetColWidth(sheetName, "F", "F", 14)

	header, err := headerStyle(f)
	if err != nil {
		return err
	}

	wrapStyle, err := f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{WrapText: true, Vertical: "top"},
		Border:    thinBorder(),
	})
	if err != nil {
		return err
	}

	headers := []string{"Job", "Matched Skills", "Missing Skills", "Experience Gap", "Title Similarity", "Keywords"}
	for col, h := range headers {
		cell := fmt.Sprintf("%s1", string(rune('A'+col)))
		f.SetCellValue(sheetName, cell, h)
		f.SetCellStyle(sheetName, cell, cell, header)
	}

	for i, j := range jobs {
		row := i + 2
		details := j.Score.Details
		f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), j.Job.Title)
		f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), strings.Join(details.MatchedSkills, ", "))
		f.SetCellValue(sheetName, fmt.Sprintf("C%d", row), strings.Join(details.MissingSkills, ", "))
		f.SetCellValue(sheetName, fmt.Sprintf("D%d", row), details.ExperienceGap)
		f.SetCellValue(sheetName, fmt.Sprintf("E%d", row), details.TitleSimilarity)
		f.SetCellValue(sheetName, fmt.Sprintf("F%d", row), fmt.Sprintf("%d/%d", details.KeywordMatches, details.TotalKeywords))
		f.SetCellStyle(sheetName, fmt.Sprintf("A%d", row), fmt.Sprintf("F%d", row), wrapStyle)
		f.SetRowHeight(sheetName, row, 45)
	}

	f.SetPanes(sheetName, &excelize.Panes{
		Freeze:      true,
		XSplit:      0,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})

	return nil
}
