package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/warinco/ncr_workflow_app/internal/core/domain"
)

// CreateReportRequest defines the data required to open a non-conformance report.
type CreateReportRequest struct {
	ProductName      string  `json:"productName" binding:"required"`
	LotNo            string  `json:"lotNo" binding:"required"`
	Quantity         int64   `json:"quantity" binding:"required,gt=0"`
	Unit             string  `json:"unit"`
	IssueDescription string  `json:"issueDescription" binding:"required"`
	Prevention       string  `json:"prevention"`
	ImagePath        *string `json:"imagePath"`
}

// QADetailsRequest defines the fields QA may submit with its solution.
// Destination decides where the report is routed next.
type QADetailsRequest struct {
	Destination         string           `json:"destination" binding:"required,oneof=MANUFACTURE ENVIRONMENT SALECO"`
	Solution            string           `json:"solution" binding:"required"`
	SolutionDescription *string          `json:"solutionDescription"`
	DamageCost          *decimal.Decimal `json:"damageCost"`
	AttachmentPath      *string          `json:"attachmentPath"`
}

// SaleCoCompleteRequest defines the fields SaleCo may submit when closing a report.
type SaleCoCompleteRequest struct {
	DepartmentExpense *decimal.Decimal `json:"departmentExpense"`
}

// ApplyActionInput is the allow-listed action payload handed to the report
// service. Handlers build it from the per-endpoint request types; raw client
// maps never reach the persistence layer.
type ApplyActionInput struct {
	Kind                  domain.ActionKind
	Destination           domain.SolutionDestination
	QASolution            *string
	QASolutionDescription *string
	DamageCost            *decimal.Decimal
	DepartmentExpense     *decimal.Decimal
	AttachmentPath        *string
}

// ListReportsParams defines query parameters for listing reports.
type ListReportsParams struct {
	Limit  int `form:"limit,default=20"`
	Offset int `form:"offset,default=0"`
}

// DepartmentStampResponse mirrors domain.DepartmentStamp for API responses.
type DepartmentStampResponse struct {
	Name       *string    `json:"name,omitempty"`
	AcceptedAt *time.Time `json:"acceptedAt,omitempty"`
}

// ReportResponse is the API representation of a report.
type ReportResponse struct {
	ID       int64  `json:"id"`
	ReportID string `json:"reportID"`
	Status   string `json:"status"`

	CreatedByName string `json:"createdByName"`
	CreatedByRole string `json:"createdByRole"`

	ProductName      string  `json:"productName"`
	LotNo            string  `json:"lotNo"`
	Quantity         int64   `json:"quantity"`
	Unit             string  `json:"unit,omitempty"`
	IssueDescription string  `json:"issueDescription"`
	Prevention       string  `json:"prevention,omitempty"`
	ImagePath        *string `json:"imagePath,omitempty"`

	Inventory   DepartmentStampResponse `json:"inventory"`
	QA          DepartmentStampResponse `json:"qa"`
	Manufacture DepartmentStampResponse `json:"manufacture"`
	Environment DepartmentStampResponse `json:"environment"`
	SaleCo      DepartmentStampResponse `json:"saleCo"`

	QASolution            *string          `json:"qaSolution,omitempty"`
	QASolutionDescription *string          `json:"qaSolutionDescription,omitempty"`
	DamageCost            *decimal.Decimal `json:"damageCost,omitempty"`
	DepartmentExpense     *decimal.Decimal `json:"departmentExpense,omitempty"`
	AttachmentPath        *string          `json:"attachmentPath,omitempty"`

	ArtifactURL *string `json:"artifactURL,omitempty"`

	CreatedAt     time.Time `json:"createdAt"`
	LastUpdatedAt time.Time `json:"lastUpdatedAt"`
}

// ListReportsResponse wraps the list of reports.
type ListReportsResponse struct {
	Reports []ReportResponse `json:"reports"`
}

func toStampResponse(s domain.DepartmentStamp) DepartmentStampResponse {
	return DepartmentStampResponse{Name: s.Name, AcceptedAt: s.AcceptedAt}
}

// ToReportResponse converts a domain.Report to its API representation.
func ToReportResponse(r *domain.Report) ReportResponse {
	return ReportResponse{
		ID:                    r.ID,
		ReportID:              r.ReportID,
		Status:                string(r.Status),
		CreatedByName:         r.CreatedByName,
		CreatedByRole:         string(r.CreatedByRole),
		ProductName:           r.ProductName,
		LotNo:                 r.LotNo,
		Quantity:              r.Quantity,
		Unit:                  r.Unit,
		IssueDescription:      r.IssueDescription,
		Prevention:            r.Prevention,
		ImagePath:             r.ImagePath,
		Inventory:             toStampResponse(r.Inventory),
		QA:                    toStampResponse(r.QA),
		Manufacture:           toStampResponse(r.Manufacture),
		Environment:           toStampResponse(r.Environment),
		SaleCo:                toStampResponse(r.SaleCo),
		QASolution:            r.QASolution,
		QASolutionDescription: r.QASolutionDescription,
		DamageCost:            r.DamageCost,
		DepartmentExpense:     r.DepartmentExpense,
		AttachmentPath:        r.AttachmentPath,
		ArtifactURL:           r.ArtifactURL,
		CreatedAt:             r.CreatedAt,
		LastUpdatedAt:         r.LastUpdatedAt,
	}
}

// ToListReportsResponse converts a slice of domain.Report to ListReportsResponse.
func ToListReportsResponse(reports []domain.Report) ListReportsResponse {
	out := make([]ReportResponse, len(reports))
	for i := range reports {
		out[i] = ToReportResponse(&reports[i])
	}
	return ListReportsResponse{Reports: out}
}
