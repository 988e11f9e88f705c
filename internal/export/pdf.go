package export

import (
	"bytes"
	"fmt"

	"github.com/go-pdf/fpdf"

	"logframe-studio/internal/domain"
)

func renderPDF(p *domain.Project) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(p.Name, true)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.MultiCell(0, 9, p.Name, "", "L", false)
	pdf.SetFont("Helvetica", "", 11)
	pdf.MultiCell(0, 6, p.Description, "", "L", false)
	pdf.Ln(2)
	pdf.SetFont("Helvetica", "I", 9)
	pdf.MultiCell(0, 5, fmt.Sprintf("Status: %s   Progress: %d%%   Organization: %s",
		p.Status, p.Progress, p.Organization), "", "L", false)
	pdf.Ln(4)

	for _, sec := range flatten(p) {
		pdf.SetFont("Helvetica", "B", 13)
		pdf.MultiCell(0, 7, sec.Title, "", "L", false)
		pdf.SetFont("Helvetica", "", 10)
		for _, line := range sec.Lines {
			pdf.MultiCell(0, 5.5, line, "", "L", false)
		}
		pdf.Ln(3)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
