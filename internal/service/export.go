package service

import (
	"bytes"
	"fmt"
	"io"

	"github.com/go-pdf/fpdf"
	"github.com/sugarsense/backend/internal/models"
)

// HistoryExporter renders a user's prediction history as a PDF table.
type HistoryExporter struct {
	title string
}

func NewHistoryExporter() *HistoryExporter {
	return &HistoryExporter{title: "Diabetes Prediction History"}
}

var historyColumns = []struct {
	header string
	width  float64
}{
	{"Date", 38},
	{"Prediction", 82},
	{"Glucose", 18},
	{"BP", 14},
	{"BMI", 14},
	{"Age", 14},
}

// WritePDF writes the history of user to w.
func (e *HistoryExporter) WritePDF(w io.Writer, user *models.User, records []models.PredictionHistory) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle(e.title, true)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, tr(e.title), "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 11)
	if user != nil {
		pdf.CellFormat(0, 8, tr(fmt.Sprintf("%s (%s)", user.Name, user.Email)), "", 1, "C", false, 0, "")
	}
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(230, 236, 245)
	for _, col := range historyColumns {
		pdf.CellFormat(col.width, 8, col.header, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 9)
	if len(records) == 0 {
		pdf.CellFormat(0, 8, "No predictions yet.", "1", 1, "C", false, 0, "")
	}
	for _, r := range records {
		cells := []string{
			r.Timestamp.Format("2006-01-02 15:04"),
			r.Prediction,
			fmt.Sprintf("%.0f", r.Glucose),
			fmt.Sprintf("%.0f", r.BloodPressure),
			fmt.Sprintf("%.1f", r.BMI),
			fmt.Sprintf("%d", r.Age),
		}
		for i, col := range historyColumns {
			align := "C"
			if i == 1 {
				align = "L"
			}
			pdf.CellFormat(col.width, 7, tr(cells[i]), "1", 0, align, false, 0, "")
		}
		pdf.Ln(-1)
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("failed to render pdf: %w", err)
	}
	return nil
}

// PDF renders the history into memory.
func (e *HistoryExporter) PDF(user *models.User, records []models.PredictionHistory) ([]byte, error) {
	var buf bytes.Buffer
	if err := e.WritePDF(&buf, user, records); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
