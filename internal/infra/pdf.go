package infra

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/stain603/industrial-inventory-manager/internal/production"

	"github.com/go-pdf/fpdf"
)

// Report is the printable form of a production plan or capacity report.
type Report struct {
	Title       string
	GeneratedAt time.Time
	Rows        []production.Result
	Summary     production.Summary
}

// FileName is the base name used when the report is written to disk.
func (r Report) FileName(ext string) string {
	return fmt.Sprintf("production_%s.%s", r.GeneratedAt.UTC().Format("20060102_150405"), ext)
}

// RenderReportPDF writes r as an A4 table to w.
func RenderReportPDF(r Report, w io.Writer) error {
	if err := buildReportPDF(r).Output(w); err != nil {
		return fmt.Errorf("pdf: render: %w", err)
	}
	return nil
}

// WriteReportPDF renders r into storagePath and returns the path of the
// generated file.
func WriteReportPDF(r Report, storagePath string) (string, error) {
	if err := os.MkdirAll(storagePath, 0o755); err != nil {
		return "", fmt.Errorf("pdf: create storage dir: %w", err)
	}
	filePath := filepath.Join(storagePath, r.FileName("pdf"))
	if err := buildReportPDF(r).OutputFileAndClose(filePath); err != nil {
		return "", fmt.Errorf("pdf: write file: %w", err)
	}
	return filePath, nil
}

// PruneReports removes all but the keep newest report files with extension
// ext from storagePath and returns how many were removed. Report names embed
// their timestamp, so name order is age order.
func PruneReports(storagePath, ext string, keep int) (int, error) {
	entries, err := os.ReadDir(storagePath)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, fmt.Errorf("reports: list: %w", err)
	}
	var names []string
	for _, e := range entries {
		n := e.Name()
		if e.Type().IsRegular() && strings.HasPrefix(n, "production_") && strings.HasSuffix(n, "."+ext) {
			names = append(names, n)
		}
	}
	if keep < 0 {
		keep = 0
	}
	if len(names) <= keep {
		return 0, nil
	}
	sort.Sort(sort.Reverse(sort.StringSlice(names)))

	removed := 0
	for _, n := range names[keep:] {
		if err := os.Remove(filepath.Join(storagePath, n)); err != nil {
			return removed, fmt.Errorf("reports: remove %s: %w", n, err)
		}
		removed++
	}
	return removed, nil
}

func buildReportPDF(r Report) *fpdf.Fpdf {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(12, 12, 12)
	pdf.SetAutoPageBreak(true, 14)
	pdf.AddPage()

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 24

	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(contentW, 8, r.Title, "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 8)
	pdf.CellFormat(contentW, 5, "Generated "+r.GeneratedAt.Format("2006-01-02 15:04 MST"), "", 1, "L", false, 0, "")
	pdf.Ln(3)

	widths := []float64{contentW * 0.18, contentW * 0.37, contentW * 0.15, contentW * 0.12, contentW * 0.18}
	headers := []string{"Code", "Product", "Unit price", "Qty", "Total value"}
	aligns := []string{"L", "L", "R", "R", "R"}

	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(230, 230, 230)
	for i, h := range headers {
		pdf.CellFormat(widths[i], 7, h, "1", 0, aligns[i], true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 9)
	for _, row := range r.Rows {
		cells := []string{
			truncate(row.Code, 18),
			truncate(row.Name, 40),
			row.Price.StringFixed(2),
			fmt.Sprintf("%d", row.ProducibleQuantity),
			row.TotalValue.StringFixed(2),
		}
		for i, c := range cells {
			pdf.CellFormat(widths[i], 6, c, "1", 0, aligns[i], false, 0, "")
		}
		pdf.Ln(-1)
	}

	pdf.Ln(3)
	pdf.SetFont("Helvetica", "B", 10)
	label := widths[0] + widths[1] + widths[2]
	pdf.CellFormat(label, 7, fmt.Sprintf("Total (%d products)", r.Summary.Products), "", 0, "L", false, 0, "")
	pdf.CellFormat(widths[3], 7, fmt.Sprintf("%d", r.Summary.TotalUnits), "", 0, "R", false, 0, "")
	pdf.CellFormat(widths[4], 7, r.Summary.TotalValue.StringFixed(2), "", 1, "R", false, 0, "")
	return pdf
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "..."
}
