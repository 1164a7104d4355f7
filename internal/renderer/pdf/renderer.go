package pdf

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jung-kurt/gofpdf"
	qrcode "github.com/skip2/go-qrcode"

	"github.com/warinco/ncr_workflow_app/internal/core/domain"
	portssvc "github.com/warinco/ncr_workflow_app/internal/core/ports/services"
)

// Renderer writes the filled non-conformance form for a report as a PDF under
// a local directory, named after the business id. The reference URL never
// depends on the report's mutable fields, so regeneration keeps the URL
// stable and only replaces file content.
type Renderer struct {
	dir     string
	baseURL string
}

// NewRenderer creates a renderer writing into dir and serving under baseURL.
func NewRenderer(dir, baseURL string) (*Renderer, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create artifact directory %s: %w", dir, err)
	}
	return &Renderer{dir: dir, baseURL: strings.TrimRight(baseURL, "/")}, nil
}

// Ensure Renderer implements the ArtifactRenderer port
var _ portssvc.ArtifactRenderer = (*Renderer)(nil)

// ArtifactURL returns the reference URL for a report's rendered form.
func (r *Renderer) ArtifactURL(reportID string) string {
	return r.baseURL + "/" + reportID + ".pdf"
}

// Render produces the PDF form for the report's current state and returns
// its reference URL.
func (r *Renderer) Render(ctx context.Context, report *domain.Report) (string, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.SetAutoPageBreak(true, 15)
	pdf.AddPage()

	// Header: title left, report id + QR code right.
	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(130, 10, "Non-Conformance Report", "", 0, "L", false, 0, "")
	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(50, 10, report.ReportID, "", 1, "R", false, 0, "")

	qrPng, err := qrcode.Encode(report.ReportID, qrcode.Medium, 256)
	if err != nil {
		return "", fmt.Errorf("failed to encode qr code: %w", err)
	}
	opts := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("qr-"+report.ReportID, opts, bytes.NewReader(qrPng))
	pdf.ImageOptions("qr-"+report.ReportID, 177, 25, 18, 18, false, opts, 0, "")

	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(0, 6, fmt.Sprintf("Status: %s", report.Status), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("Opened by %s (%s) on %s",
		report.CreatedByName, report.CreatedByRole, report.CreatedAt.Format("2006-01-02")), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	r.sectionTitle(pdf, "Product")
	r.field(pdf, "Product", report.ProductName)
	r.field(pdf, "Lot No", report.LotNo)
	r.field(pdf, "Quantity", fmt.Sprintf("%d %s", report.Quantity, report.Unit))
	r.field(pdf, "Issue", report.IssueDescription)
	r.field(pdf, "Prevention", report.Prevention)
	if report.ImagePath != nil {
		r.field(pdf, "Image", *report.ImagePath)
	}
	pdf.Ln(4)

	r.sectionTitle(pdf, "Department Approvals")
	r.stampRow(pdf, "Inventory", report.Inventory)
	r.stampRow(pdf, "QA", report.QA)
	r.stampRow(pdf, "Manufacture", report.Manufacture)
	r.stampRow(pdf, "Environment", report.Environment)
	r.stampRow(pdf, "SaleCo", report.SaleCo)
	pdf.Ln(4)

	if report.QASolution != nil {
		r.sectionTitle(pdf, "QA Solution")
		r.field(pdf, "Solution", *report.QASolution)
		if report.QASolutionDescription != nil {
			r.field(pdf, "Description", *report.QASolutionDescription)
		}
		if report.AttachmentPath != nil {
			r.field(pdf, "Attachment", *report.AttachmentPath)
		}
		pdf.Ln(4)
	}

	if report.DamageCost != nil || report.DepartmentExpense != nil {
		r.sectionTitle(pdf, "Costs")
		if report.DamageCost != nil {
			r.field(pdf, "Damage Cost", report.DamageCost.StringFixed(2))
		}
		if report.DepartmentExpense != nil {
			r.field(pdf, "Dept. Expense", report.DepartmentExpense.StringFixed(2))
		}
	}

	path := filepath.Join(r.dir, report.ReportID+".pdf")
	if err := pdf.OutputFileAndClose(path); err != nil {
		return "", fmt.Errorf("failed to write pdf %s: %w", path, err)
	}

	return r.ArtifactURL(report.ReportID), nil
}

func (r *Renderer) sectionTitle(pdf *gofpdf.Fpdf, title string) {
	pdf.SetFont("Arial", "B", 11)
	pdf.CellFormat(0, 7, title, "B", 1, "L", false, 0, "")
	pdf.SetFont("Arial", "", 10)
}

func (r *Renderer) field(pdf *gofpdf.Fpdf, label, value string) {
	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(35, 6, label, "", 0, "L", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	pdf.MultiCell(0, 6, value, "", "L", false)
}

const stampTimeLayout = "2006-01-02 15:04"

func (r *Renderer) stampRow(pdf *gofpdf.Fpdf, department string, stamp domain.DepartmentStamp) {
	value := "-"
	if stamp.Name != nil && stamp.AcceptedAt != nil {
		value = fmt.Sprintf("%s, %s", *stamp.Name, stamp.AcceptedAt.Format(stampTimeLayout))
	}
	r.field(pdf, department, value)
}
