package export

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/prepdeck/mocktest-service/internal/models"
)

func sampleReport() *models.Report {
	return &models.Report{
		Title:          "Physics Mock Test",
		TotalQuestions: 3,
		CorrectCount:   1,
		IncorrectCount: 1,
		SkippedCount:   1,
		Percentage:     33,
		ElapsedSeconds: 754,
		Questions: []models.QuestionResult{
			{Index: 0, QuestionID: 1, Text: "First question", SelectedOption: "A", CorrectOptionID: "A", Outcome: models.OutcomeCorrect},
			{Index: 1, QuestionID: 2, Text: "Second question", SelectedOption: "C", CorrectOptionID: "B", Outcome: models.OutcomeIncorrect, Marked: true},
			{Index: 2, QuestionID: 3, Text: "Third question", CorrectOptionID: "D", Outcome: models.OutcomeSkipped},
		},
	}
}

func TestReportToExcel(t *testing.T) {
	data, err := ReportToExcel(sampleReport())
	require.NoError(t, err)
	require.NotEmpty(t, data)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	assert.ElementsMatch(t, []string{"Summary", "Questions"}, f.GetSheetList())

	title, err := f.GetCellValue("Summary", "B1")
	require.NoError(t, err)
	assert.Equal(t, "Physics Mock Test", title)

	score, err := f.GetCellValue("Summary", "B6")
	require.NoError(t, err)
	assert.Equal(t, "33%", score)

	elapsed, err := f.GetCellValue("Summary", "B7")
	require.NoError(t, err)
	assert.Equal(t, "12:34", elapsed)

	rows, err := f.GetRows("Questions")
	require.NoError(t, err)
	require.Len(t, rows, 4)

	assert.Equal(t, "Your Answer", rows[0][2])
	assert.Equal(t, "A", rows[1][2])
	assert.Equal(t, "incorrect", rows[2][4])
	assert.Equal(t, "Yes", rows[2][5])
	assert.Equal(t, "-", rows[3][2])
}

func TestReportToExcel_EmptyQuestions(t *testing.T) {
	report := &models.Report{Title: "Empty", Percentage: 0}

	data, err := ReportToExcel(report)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Questions")
	require.NoError(t, err)
	require.Len(t, rows, 1)
}
