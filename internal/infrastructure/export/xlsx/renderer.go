package xlsx

import (
	"fmt"
	"io"
	"math"

	"github.com/xuri/excelize/v2"

	"github.com/kirillkom/plagiarism-report/internal/core/domain"
)

const (
	contentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	sheetName   = "Rapports"
)

var header = []any{
	"Document", "Fichier", "Taille (KB)", "Date", "Statut",
	"Score (%)", "Niveau", "Sources", "Contenu unique (%)", "Mots",
}

var tierFill = map[string]string{
	"green":  "C6EFCE",
	"orange": "FFEB9C",
	"red":    "FFC7CE",
}

// Renderer writes report rows as a single-sheet Excel workbook.
type Renderer struct{}

func NewRenderer() *Renderer {
	return &Renderer{}
}

func (r *Renderer) ContentType() string {
	return contentType
}

func (r *Renderer) Render(w io.Writer, rows []domain.ReportRow) error {
	f := excelize.NewFile()
	defer func() {
		_ = f.Close()
	}()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	if err := f.SetSheetRow(sheetName, "A1", &header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("create header style: %w", err)
	}
	lastCol, err := excelize.ColumnNumberToName(len(header))
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheetName, "A1", lastCol+"1", bold); err != nil {
		return fmt.Errorf("style header: %w", err)
	}

	tierStyles := make(map[string]int, len(tierFill))
	for color, rgb := range tierFill {
		style, err := f.NewStyle(&excelize.Style{
			Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{rgb}},
		})
		if err != nil {
			return fmt.Errorf("create tier style: %w", err)
		}
		tierStyles[color] = style
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		values := rowValues(row)
		if err := f.SetSheetRow(sheetName, cell, &values); err != nil {
			return fmt.Errorf("write row %d: %w", i+2, err)
		}
		if style, ok := tierStyles[row.Tier.Color]; ok && row.HasResult {
			tierCell, _ := excelize.CoordinatesToCellName(7, i+2)
			if err := f.SetCellStyle(sheetName, tierCell, tierCell, style); err != nil {
				return fmt.Errorf("style row %d: %w", i+2, err)
			}
		}
	}

	if err := f.SetColWidth(sheetName, "A", "A", 38); err != nil {
		return err
	}
	if err := f.SetColWidth(sheetName, "B", "B", 32); err != nil {
		return err
	}
	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func rowValues(row domain.ReportRow) []any {
	values := []any{
		row.DocumentID,
		row.Filename,
		SizeKB(row.FileSize),
		row.CreatedAt.UTC().Format("2006-01-02 15:04"),
		string(row.Status),
	}
	if !row.HasResult {
		return append(values, "", "", "", "", "")
	}
	return append(values,
		row.Score,
		row.Tier.Label,
		row.SourceCount,
		row.UniqueContent,
		row.TotalWords,
	)
}

// SizeKB converts bytes to kilobytes rounded to two decimals.
func SizeKB(size int64) float64 {
	return math.Round(float64(size)/1024*100) / 100
}
