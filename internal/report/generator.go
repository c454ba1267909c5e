package report

import (
	"fmt"
	"time"

	"github.com/signintech/gopdf"

	"audit-service/internal/models"
)

const (
	pageMargin = 40.0
	lineHeight = 16.0
	pageBottom = 800.0
)

// Generator renders audit reports as PDF documents. The font path must point
// to a TTF file; gopdf cannot render text without an embedded font.
type Generator struct {
	fontPath string
}

// NewGenerator creates a new report generator
func NewGenerator(fontPath string) *Generator {
	return &Generator{fontPath: fontPath}
}

// AuditPDF renders the audit header, every checklist item and the corrective
// actions raised against it into a single PDF document.
func (g *Generator) AuditPDF(audit *models.Audit) ([]byte, error) {
	pdf := &gopdf.GoPdf{}
	pdf.Start(gopdf.Config{PageSize: *gopdf.PageSizeA4})
	pdf.AddPage()

	if err := pdf.AddTTFFont("report", g.fontPath); err != nil {
		return nil, fmt.Errorf("failed to load report font: %w", err)
	}

	w := &writer{pdf: pdf}

	w.heading(fmt.Sprintf("Safety Audit Report %s", audit.AuditNumber))
	w.line(fmt.Sprintf("Site: %s (%s)", audit.Site.Name, audit.Site.Location))
	w.line(fmt.Sprintf("Auditor: %s", audit.Auditor.Name))
	w.line(fmt.Sprintf("Date: %s", audit.Date.Format("2 January 2006")))
	w.line(fmt.Sprintf("Type: %s    Status: %s", audit.Type, audit.Status))
	if audit.Score != nil {
		w.line(fmt.Sprintf("Compliance score: %d%%", *audit.Score))
	}
	w.blank()

	w.heading("Checklist")
	for _, item := range audit.Items {
		w.line(fmt.Sprintf("%s %s [%s]", item.Template.ItemNumber, item.Template.Description, item.Status))
		if item.Notes != "" {
			w.line(fmt.Sprintf("    Notes: %s", item.Notes))
		}
		for _, action := range item.CorrectiveActions {
			w.line(fmt.Sprintf("    Action (%s, due %s): %s",
				action.Status, action.DueDate.Format("2 Jan 2006"), action.Description))
		}
	}
	w.blank()
	w.line(fmt.Sprintf("Generated %s", time.Now().Format(time.RFC1123)))

	if w.err != nil {
		return nil, w.err
	}
	return pdf.GetBytesPdf(), nil
}

// writer accumulates the first layout error so callers check once at the end
type writer struct {
	pdf *gopdf.GoPdf
	err error
}

func (w *writer) heading(text string) {
	w.write(text, 14)
}

func (w *writer) line(text string) {
	w.write(text, 10)
}

func (w *writer) blank() {
	w.pdf.Br(lineHeight)
}

func (w *writer) write(text string, size float64) {
	if w.err != nil {
		return
	}
	if w.pdf.GetY() > pageBottom {
		w.pdf.AddPage()
		w.pdf.SetY(pageMargin)
	}
	if err := w.pdf.SetFont("report", "", size); err != nil {
		w.err = err
		return
	}
	w.pdf.SetX(pageMargin)
	if err := w.pdf.Cell(nil, text); err != nil {
		w.err = err
		return
	}
	w.pdf.Br(lineHeight)
}
