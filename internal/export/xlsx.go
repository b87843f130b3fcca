package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/prepdeck/mocktest-service/internal/models"
)

// ReportToExcel renders a scored report as an XLSX workbook with a summary
// sheet and a per-question breakdown sheet.
func ReportToExcel(report *models.Report) ([]byte, error) {
	f := excelize.NewFile()

	if err := writeSummarySheet(f, report); err != nil {
		return nil, err
	}
	if err := writeQuestionsSheet(f, report); err != nil {
		return nil, err
	}

	// Drop the default sheet created by excelize.
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("failed to remove default sheet: %w", err)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write Excel file: %w", err)
	}

	return buf.Bytes(), nil
}

func writeSummarySheet(f *excelize.File, report *models.Report) error {
	sheetName := "Summary"

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return fmt.Errorf("failed to create Excel sheet: %w", err)
	}
	f.SetActiveSheet(index)

	rows := [][]interface{}{
		{"Test", report.Title},
		{"Total Questions", report.TotalQuestions},
		{"Correct", report.CorrectCount},
		{"Incorrect", report.IncorrectCount},
		{"Skipped", report.SkippedCount},
		{"Score", fmt.Sprintf("%d%%", report.Percentage)},
		{"Time Taken", formatElapsed(report.ElapsedSeconds)},
	}

	for rowIndex, row := range rows {
		for colIndex, value := range row {
			cell := fmt.Sprintf("%c%d", 'A'+colIndex, rowIndex+1)
			f.SetCellValue(sheetName, cell, value)
		}
	}

	return nil
}

func writeQuestionsSheet(f *excelize.File, report *models.Report) error {
	sheetName := "Questions"

	if _, err := f.NewSheet(sheetName); err != nil {
		return fmt.Errorf("failed to create Excel sheet: %w", err)
	}

	headers := []string{
		"No.", "Question", "Your Answer", "Correct Answer", "Result", "Marked for Review", "Explanation",
	}

	for i, header := range headers {
		cell := fmt.Sprintf("%c1", 'A'+i)
		f.SetCellValue(sheetName, cell, header)
	}

	for rowIndex, result := range report.Questions {
		selected := result.SelectedOption
		if selected == "" {
			selected = "-"
		}

		marked := ""
		if result.Marked {
			marked = "Yes"
		}

		row := []interface{}{
			result.Index + 1,
			result.Text,
			selected,
			result.CorrectOptionID,
			string(result.Outcome),
			marked,
			result.Explanation,
		}

		for colIndex, value := range row {
			cell := fmt.Sprintf("%c%d", 'A'+colIndex, rowIndex+2)
			f.SetCellValue(sheetName, cell, value)
		}
	}

	return nil
}

func formatElapsed(seconds int) string {
	h := seconds / 3600
	m := (seconds % 3600) / 60
	s := seconds % 60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}
