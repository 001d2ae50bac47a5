package services

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/mindcanvas/mindcanvas-service/internal/models"
	"github.com/mindcanvas/mindcanvas-service/internal/repositories"
	"github.com/mindcanvas/mindcanvas-service/internal/scoring"
)

const resultsSheet = "Results"

var exportHeaders = []string{
	"Submission ID", "Created At", "Finished At", "Name", "Email", "Phone",
	"Profile", "Flow A %", "Flow B %", "Flow C %", "Flow D %",
}

type exportService struct {
	repo   repositories.Repository
	logger *slog.Logger
	log    *ServiceLogger
}

func NewExportService(repo repositories.Repository, logger *slog.Logger) ExportService {
	log := NewServiceLogger(logger, "export")
	return &exportService{
		repo:   repo,
		logger: log.Logger(),
		log:    log,
	}
}

func (s *exportService) ExportResultsCSV(ctx context.Context, testID uint, w io.Writer) error {
	rows, err := s.resultRows(ctx, testID)
	if err != nil {
		return err
	}

	writer := csv.NewWriter(w)
	if err := writer.Write(exportHeaders); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, row := range rows {
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("CSV writer error: %w", err)
	}

	s.log.LogAudit(ctx, AuditEventExport, "test", uintToString(testID), map[string]interface{}{"format": "csv", "rows": len(rows)})
	return nil
}

func (s *exportService) ExportResultsXLSX(ctx context.Context, testID uint, w io.Writer) error {
	rows, err := s.resultRows(ctx, testID)
	if err != nil {
		return err
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), resultsSheet); err != nil {
		return fmt.Errorf("failed to create Excel sheet: %w", err)
	}

	if err := f.SetSheetRow(resultsSheet, "A1", &exportHeaders); err != nil {
		return fmt.Errorf("failed to write Excel header: %w", err)
	}

	for i, row := range rows {
		cells := make([]interface{}, len(row))
		for j, value := range row {
			cells[j] = value
		}
		// percent columns as numbers so the sheet can chart them
		for j := len(row) - 4; j < len(row); j++ {
			if n, err := strconv.Atoi(row[j]); err == nil {
				cells[j] = n
			}
		}

		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(resultsSheet, cell, &cells); err != nil {
			return fmt.Errorf("failed to write Excel row: %w", err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write Excel file: %w", err)
	}

	s.log.LogAudit(ctx, AuditEventExport, "test", uintToString(testID), map[string]interface{}{"format": "xlsx", "rows": len(rows)})
	return nil
}

// resultRows returns one row per finished submission, oldest first.
func (s *exportService) resultRows(ctx context.Context, testID uint) ([][]string, error) {
	if _, err := s.repo.Test().GetByID(ctx, nil, testID); err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrTestNotFound
		}
		return nil, NewStorageError("load test", err)
	}

	submissions, err := s.repo.Submission().ListFinishedWithResults(ctx, nil, testID)
	if err != nil {
		return nil, NewStorageError("list finished submissions", err)
	}

	rows := make([][]string, 0, len(submissions))
	for _, sub := range submissions {
		rows = append(rows, s.submissionToRow(sub))
	}
	return rows, nil
}

func (s *exportService) submissionToRow(sub *models.Submission) []string {
	finishedAt := ""
	if sub.FinishedAt != nil {
		finishedAt = sub.FinishedAt.UTC().Format(time.RFC3339)
	}

	row := []string{
		sub.ID.String(),
		sub.CreatedAt.UTC().Format(time.RFC3339),
		finishedAt,
		spreadsheetText(sub.Name),
		spreadsheetText(sub.Email),
		spreadsheetText(sub.Phone),
	}

	if sub.Result == nil {
		s.logger.Warn("Finished submission without stored result", "submission_id", sub.ID)
		return append(row, "", "", "", "", "")
	}

	percent := map[scoring.FlowCode]int{
		scoring.FlowA: sub.Result.FlowAPct,
		scoring.FlowB: sub.Result.FlowBPct,
		scoring.FlowC: sub.Result.FlowCPct,
		scoring.FlowD: sub.Result.FlowDPct,
	}
	row = append(row, sub.Result.ProfileCode)
	for _, f := range scoring.AllFlows() {
		row = append(row, strconv.Itoa(percent[f]))
	}
	return row
}

// formulaPrefixes start a formula (or a DDE payload) when a spreadsheet opens the cell.
const formulaPrefixes = "=+-@\t\r"

// spreadsheetText quotes respondent-supplied text so it is never evaluated.
func spreadsheetText(value string) string {
	if value != "" && strings.ContainsRune(formulaPrefixes, rune(value[0])) {
		return "'" + value
	}
	return value
}
