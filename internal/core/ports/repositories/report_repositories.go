package repositories

import (
	"context"
	"time"

	"github.com/warinco/ncr_workflow_app/internal/core/domain"
)

// ReportReader defines read operations for report data
type ReportReader interface {
	// FindReportByID retrieves a report by its surrogate key.
	FindReportByID(ctx context.Context, id int64) (*domain.Report, error)

	// FindReportByReportID retrieves a report by its business id (WNCyymmnnnn).
	FindReportByReportID(ctx context.Context, reportID string) (*domain.Report, error)

	// FindMaxReportIDWithPrefix returns the maximal business id carrying the
	// given monthly prefix, or the empty string when none exists.
	FindMaxReportIDWithPrefix(ctx context.Context, prefix string) (string, error)

	// ListReportsForRole retrieves the reports visible to a role, paginated.
	// For SaleCo the creator's user id narrows the result to own reports.
	ListReportsForRole(ctx context.Context, role domain.Role, userID string, limit, offset int) ([]domain.Report, error)
}

// ReportWriter defines write operations for report data
type ReportWriter interface {
	// SaveReport persists a new report and assigns its surrogate key.
	SaveReport(ctx context.Context, report *domain.Report) error

	// UpdateReportWorkflow persists the workflow-mutable fields of a report:
	// status, department stamps, QA solution fields, costs, attachment and
	// audit fields. Content fields set at creation are not touched.
	UpdateReportWorkflow(ctx context.Context, report *domain.Report) error

	// UpdateArtifactURL persists the cached rendered-artifact reference.
	UpdateArtifactURL(ctx context.Context, id int64, artifactURL string, updatedAt time.Time) error
}

// ReportLifecycleManager defines operations for managing report lifecycle
type ReportLifecycleManager interface {
	// DeleteReport removes a report. Guards (creator, Created state) are
	// enforced by the service layer.
	DeleteReport(ctx context.Context, id int64) error
}

// ReportRepositoryFacade combines all report-related repository interfaces
type ReportRepositoryFacade interface {
	ReportReader
	ReportWriter
	ReportLifecycleManager
}
