package pdf_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warinco/ncr_workflow_app/internal/core/domain"
	"github.com/warinco/ncr_workflow_app/internal/renderer/pdf"
)

func sampleReport() *domain.Report {
	acceptedAt := time.Date(2025, time.June, 16, 9, 0, 0, 0, time.UTC)
	inventoryName := "Inventory User"
	solution := "Rework the batch"
	cost := decimal.NewFromInt(1500)

	return &domain.Report{
		ID:               42,
		ReportID:         "WNC25060008",
		Status:           domain.StatusAcceptedByInventory,
		CreatedByName:    "SaleCo User",
		CreatedByRole:    domain.RoleSaleCo,
		ProductName:      "PVC Resin",
		LotNo:            "L-4471",
		Quantity:         120,
		Unit:             "kg",
		IssueDescription: "Discoloration on delivered batch",
		Prevention:       "Inspect storage humidity",
		Inventory:        domain.DepartmentStamp{Name: &inventoryName, AcceptedAt: &acceptedAt},
		QASolution:       &solution,
		DamageCost:       &cost,
		AuditFields: domain.AuditFields{
			CreatedAt: time.Date(2025, time.June, 15, 10, 30, 0, 0, time.UTC),
		},
	}
}

func TestRenderWritesPDF(t *testing.T) {
	dir := t.TempDir()
	r, err := pdf.NewRenderer(dir, "/artifacts")
	require.NoError(t, err)

	url, err := r.Render(context.Background(), sampleReport())
	require.NoError(t, err)
	assert.Equal(t, "/artifacts/WNC25060008.pdf", url)

	data, err := os.ReadFile(filepath.Join(dir, "WNC25060008.pdf"))
	require.NoError(t, err)
	require.NotEmpty(t, data)
	assert.Equal(t, "%PDF", string(data[:4]))
}

func TestRenderReplacesExistingFile(t *testing.T) {
	dir := t.TempDir()
	r, err := pdf.NewRenderer(dir, "/artifacts")
	require.NoError(t, err)

	report := sampleReport()
	firstURL, err := r.Render(context.Background(), report)
	require.NoError(t, err)

	// Mutating the report's state must not change where the artifact lives.
	report.Status = domain.StatusSendToManufacture
	secondURL, err := r.Render(context.Background(), report)
	require.NoError(t, err)

	assert.Equal(t, firstURL, secondURL)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestArtifactURLIsDerivedFromIDOnly(t *testing.T) {
	r, err := pdf.NewRenderer(t.TempDir(), "/artifacts/")
	require.NoError(t, err)

	assert.Equal(t, "/artifacts/WNC25060001.pdf", r.ArtifactURL("WNC25060001"))
	assert.Equal(t, "/artifacts/WNC25070003.pdf", r.ArtifactURL("WNC25070003"))
}
