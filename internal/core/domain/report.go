package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ReportStatus is the lifecycle state of a non-conformance report.
type ReportStatus string

const (
	StatusCreated               ReportStatus = "Created"
	StatusAcceptedByInventory   ReportStatus = "Accepted by Inventory"
	StatusAcceptedByQA          ReportStatus = "Accepted by QA"
	StatusAcceptedByBoth        ReportStatus = "Accepted by Both"
	StatusSendToManufacture     ReportStatus = "Send to Manufacture"
	StatusSendToEnvironment     ReportStatus = "Send to Environment"
	StatusSendToSaleCo          ReportStatus = "Send to SaleCo"
	StatusAcceptedByManufacture ReportStatus = "Accepted by Manufacture"
	StatusAcceptedByEnvironment ReportStatus = "Accepted by Environment"
	StatusCompleted             ReportStatus = "Completed"

	// StatusRejected is reserved for a rejection flow that no transition
	// currently produces.
	StatusRejected ReportStatus = "Rejected"
)

// DepartmentStamp records who accepted a report for a department and when.
// Stamps are overwritten on repeat accepts, not appended.
type DepartmentStamp struct {
	Name       *string    `json:"name,omitempty"`
	AcceptedAt *time.Time `json:"acceptedAt,omitempty"`
}

// Report is a non-conformance report routed through departmental approvals.
type Report struct {
	ID       int64        `json:"id"`       // surrogate key, assigned by the store
	ReportID string       `json:"reportID"` // business id, WNCyymmnnnn
	Status   ReportStatus `json:"status"`

	CreatedByName string `json:"createdByName"`
	CreatedByRole Role   `json:"createdByRole"`

	ProductName      string  `json:"productName"`
	LotNo            string  `json:"lotNo"`
	Quantity         int64   `json:"quantity"`
	Unit             string  `json:"unit"`
	IssueDescription string  `json:"issueDescription"`
	Prevention       string  `json:"prevention"`
	ImagePath        *string `json:"imagePath,omitempty"`

	Inventory   DepartmentStamp `json:"inventory"`
	QA          DepartmentStamp `json:"qa"`
	Manufacture DepartmentStamp `json:"manufacture"`
	Environment DepartmentStamp `json:"environment"`
	SaleCo      DepartmentStamp `json:"saleCo"`

	QASolution            *string          `json:"qaSolution,omitempty"`
	QASolutionDescription *string          `json:"qaSolutionDescription,omitempty"`
	DamageCost            *decimal.Decimal `json:"damageCost,omitempty"`
	DepartmentExpense     *decimal.Decimal `json:"departmentExpense,omitempty"`
	AttachmentPath        *string          `json:"attachmentPath,omitempty"`

	// ArtifactURL caches the rendered PDF reference. It is derived state:
	// always a pure function of ReportID, so a stale value self-heals on
	// the next regeneration.
	ArtifactURL *string `json:"artifactURL,omitempty"`

	AuditFields
}
