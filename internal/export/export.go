// Package export renders a task snapshot into downloadable artifacts.
package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jung-kurt/gofpdf"

	"github.com/dverney/taskdeck/internal/todo"
)

// Format identifies an export artifact type.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
	FormatPDF  Format = "pdf"
)

// ParseFormat validates a raw format value, defaulting empty input to CSV.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(s)) {
	case "":
		return FormatCSV, nil
	case FormatCSV:
		return FormatCSV, nil
	case FormatJSON:
		return FormatJSON, nil
	case FormatPDF:
		return FormatPDF, nil
	}
	return "", fmt.Errorf("unknown export format %q", s)
}

// Filename returns the download filename for the format.
func (f Format) Filename() string { return "tasks." + string(f) }

// MIME returns the Content-Type for the format.
func (f Format) MIME() string {
	switch f {
	case FormatJSON:
		return "application/json"
	case FormatPDF:
		return "application/pdf"
	default:
		return "text/csv"
	}
}

// Export renders the records in the given format.
func Export(records []todo.Record, format Format) ([]byte, error) {
	switch format {
	case FormatCSV:
		return exportCSV(records)
	case FormatJSON:
		return json.MarshalIndent(records, "", "  ")
	case FormatPDF:
		return exportPDF(records)
	default:
		return nil, fmt.Errorf("unknown export format %q", format)
	}
}

func exportCSV(records []todo.Record) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(todo.RecordHeader()); err != nil {
		return nil, fmt.Errorf("write csv header: %w", err)
	}
	for _, r := range records {
		if err := w.Write(r.Fields()); err != nil {
			return nil, fmt.Errorf("write csv row %s: %w", r.ID, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}
	return buf.Bytes(), nil
}

func exportPDF(records []todo.Record) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Arial", "B", 14)
	pdf.Cell(40, 10, "Task List")
	pdf.Ln(12)
	pdf.SetFont("Arial", "", 10)
	for _, r := range records {
		line := fmt.Sprintf("#%s [%s] %s", r.ID, r.Status, r.Title)
		if r.Description != "" {
			line += " - " + r.Description
		}
		pdf.MultiCell(0, 6, line, "0", "L", false)
		pdf.SetFont("Arial", "I", 8)
		pdf.MultiCell(0, 5, fmt.Sprintf("created %s, updated %s", r.CreatedAt, r.UpdatedAt), "0", "L", false)
		pdf.SetFont("Arial", "", 10)
		pdf.Ln(2)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}
