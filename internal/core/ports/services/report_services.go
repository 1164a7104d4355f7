package services

import (
	"context"

	"github.com/warinco/ncr_workflow_app/internal/core/domain"
	"github.com/warinco/ncr_workflow_app/internal/dto"
)

// ReportReaderSvc defines read operations for reports
type ReportReaderSvc interface {
	// GetReportByID retrieves a report by its surrogate key.
	GetReportByID(ctx context.Context, id int64) (*domain.Report, error)

	// GetReportByReportID retrieves a report by its business id.
	GetReportByReportID(ctx context.Context, reportID string) (*domain.Report, error)

	// ListReports retrieves the reports visible to the requesting user's role.
	ListReports(ctx context.Context, requestingUserID string, limit, offset int) ([]domain.Report, error)
}

// ReportWriterSvc defines the workflow operations that mutate reports
type ReportWriterSvc interface {
	// CreateReport opens a new report with a freshly derived business id,
	// then best-effort renders its form and fires a created notification.
	CreateReport(ctx context.Context, req dto.CreateReportRequest, creatorUserID string) (*domain.Report, error)

	// ApplyAction transitions a report through the approval workflow,
	// stamping the acting department, then best-effort regenerates the
	// artifact and fires a status-change notification.
	ApplyAction(ctx context.Context, id int64, input dto.ApplyActionInput, actorUserID string) (*domain.Report, error)
}

// ReportLifecycleSvc defines operations for managing report lifecycle
type ReportLifecycleSvc interface {
	// DeleteReport removes a report. Only the creator may delete, and only
	// while the report is still in the Created state.
	DeleteReport(ctx context.Context, id int64, requestingUserID string) error
}

// ReportSvcFacade combines all report-related service interfaces
type ReportSvcFacade interface {
	ReportReaderSvc
	ReportWriterSvc
	ReportLifecycleSvc
}
