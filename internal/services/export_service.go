package services

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/xuri/excelize/v2"
)

const overridesSheet = "Overrides"

var overrideExportHeader = []interface{}{
	"ID", "Repository", "Custom Description", "Custom Image", "Live URL",
	"Featured", "Hidden", "Order", "Created At", "Updated At",
}

// ExportService writes override records as a spreadsheet.
type ExportService struct {
	store OverrideStore
}

func NewExportService(store OverrideStore) *ExportService {
	return &ExportService{store: store}
}

// WriteOverridesXLSX writes every override as one row of an XLSX workbook
func (s *ExportService) WriteOverridesXLSX(ctx context.Context, w io.Writer) error {
	overrides, err := s.store.List(ctx)
	if err != nil {
		return err
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", overridesSheet); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}
	if err := f.SetSheetRow(overridesSheet, "A1", &overrideExportHeader); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("failed to create style: %w", err)
	}
	if err := f.SetCellStyle(overridesSheet, "A1", "J1", bold); err != nil {
		return fmt.Errorf("failed to style header: %w", err)
	}

	for i, o := range overrides {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []interface{}{
			o.ID,
			o.RepoName,
			deref(o.CustomDescription),
			deref(o.CustomImage),
			deref(o.LiveURL),
			o.Featured,
			o.Hidden,
			o.Order,
			o.CreatedAt.UTC().Format(time.RFC3339),
			o.UpdatedAt.UTC().Format(time.RFC3339),
		}
		if err := f.SetSheetRow(overridesSheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	if err := f.SetColWidth(overridesSheet, "A", "A", 38); err != nil {
		return err
	}
	if err := f.SetColWidth(overridesSheet, "B", "E", 30); err != nil {
		return err
	}

	return f.Write(w)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
