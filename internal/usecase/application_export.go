package usecase

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strconv"
	"time"

	"job-board-backend/internal/domain"
	"job-board-backend/pkg/apperror"

	"github.com/xuri/excelize/v2"
)

const (
	contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	contentTypeCSV  = "text/csv"
)

var exportColumns = []string{
	"APPLICANT NAME",
	"EMAIL",
	"STATUS",
	"APPLIED AT",
	"COVER LETTER",
	"RESUME",
	"INTERVIEW DATE",
	"INTERVIEW TIME",
	"INTERVIEW TYPE",
	"NOTES",
}

// ExportByJob renders the applications of a job as a spreadsheet or CSV file
func (u *applicationUsecase) ExportByJob(ctx context.Context, actor domain.Actor, jobID string, format domain.ExportFormat) (*domain.ExportFile, error) {
	switch format {
	case "":
		format = domain.ExportXLSX
	case domain.ExportXLSX, domain.ExportCSV:
	default:
		return nil, apperror.Validation("Unsupported export format", []string{"format: must be one of xlsx, csv"})
	}

	apps, err := u.ListByJob(ctx, actor, jobID)
	if err != nil {
		return nil, err
	}

	rows := make([][]string, 0, len(apps))
	for _, app := range apps {
		rows = append(rows, exportRow(app))
	}

	stamp := u.now().Format("20060102_150405")
	if format == domain.ExportCSV {
		data, err := exportCSV(rows)
		if err != nil {
			return nil, apperror.Internal(err)
		}
		return &domain.ExportFile{
			Filename:    fmt.Sprintf("applications_%s_%s.csv", jobID, stamp),
			ContentType: contentTypeCSV,
			Data:        data,
		}, nil
	}

	data, err := exportExcel(rows)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return &domain.ExportFile{
		Filename:    fmt.Sprintf("applications_%s_%s.xlsx", jobID, stamp),
		ContentType: contentTypeXLSX,
		Data:        data,
	}, nil
}

func exportRow(app domain.Application) []string {
	row := []string{
		app.ApplicantName,
		app.ApplicantEmail,
		string(app.Status),
		app.CreatedAt.Format(time.RFC3339),
		app.CoverLetter,
		"",
		"",
		"",
		"",
		strconv.Itoa(len(app.Notes)),
	}
	if app.Resume != nil {
		row[5] = app.Resume.Filename
	}
	if app.Interview != nil && app.Interview.Scheduled {
		row[6] = app.Interview.Date
		row[7] = app.Interview.Time
		row[8] = app.Interview.Type
	}
	return row
}

func exportExcel(rows [][]string) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Applications"
	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}

	for i, col := range exportColumns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheetName, cell, col)
	}

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#1E3A5F"}},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	endCell, _ := excelize.CoordinatesToCellName(len(exportColumns), 1)
	f.SetCellStyle(sheetName, "A1", endCell, headerStyle)

	for rowIdx, row := range rows {
		for colIdx, value := range row {
			cell, _ := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			f.SetCellValue(sheetName, cell, value)
		}
	}

	for i := range exportColumns {
		colName, _ := excelize.ColumnNumberToName(i + 1)
		f.SetColWidth(sheetName, colName, colName, 20)
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to write Excel file: %w", err)
	}
	return buf.Bytes(), nil
}

func exportCSV(rows [][]string) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(exportColumns); err != nil {
		return nil, err
	}
	if err := w.WriteAll(rows); err != nil {
		return nil, fmt.Errorf("failed to write CSV file: %w", err)
	}
	return buf.Bytes(), nil
}
