package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/warinco/ncr_workflow_app/internal/apperrors"
	"github.com/warinco/ncr_workflow_app/internal/core/domain"
	portsrepo "github.com/warinco/ncr_workflow_app/internal/core/ports/repositories"
	portssvc "github.com/warinco/ncr_workflow_app/internal/core/ports/services"
	"github.com/warinco/ncr_workflow_app/internal/dto"
)

// reportService orchestrates the non-conformance report workflow: it derives
// business ids, drives status transitions through domain.Transition, persists
// the authoritative state, and runs the best-effort side effects (artifact
// regeneration and chat notification) after the state is committed.
type reportService struct {
	BaseService
	reportRepo portsrepo.ReportRepositoryFacade
	userRepo   portsrepo.UserReader
	renderer   portssvc.ArtifactRenderer
	notifier   portssvc.NotificationSink
	now        func() time.Time
}

// ReportServiceOption is a functional option for configuring the report service
type ReportServiceOption func(*reportService)

// WithClock overrides the time source, primarily for tests.
func WithClock(now func() time.Time) ReportServiceOption {
	return func(s *reportService) {
		s.now = now
	}
}

// NewReportService creates a new report service with the provided options
func NewReportService(
	reportRepo portsrepo.ReportRepositoryFacade,
	userRepo portsrepo.UserReader,
	renderer portssvc.ArtifactRenderer,
	notifier portssvc.NotificationSink,
	options ...ReportServiceOption,
) portssvc.ReportSvcFacade {
	svc := &reportService{
		reportRepo: reportRepo,
		userRepo:   userRepo,
		renderer:   renderer,
		notifier:   notifier,
		now:        time.Now,
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

// Ensure reportService implements the ReportSvcFacade interface
var _ portssvc.ReportSvcFacade = (*reportService)(nil)

// actionRoles maps each workflow action to the department role allowed to
// perform it.
var actionRoles = map[domain.ActionKind]domain.Role{
	domain.ActionInventoryAccept:   domain.RoleInventory,
	domain.ActionQAAccept:          domain.RoleQA,
	domain.ActionQASolution:        domain.RoleQA,
	domain.ActionManufactureAccept: domain.RoleManufacture,
	domain.ActionEnvironmentAccept: domain.RoleEnvironment,
	domain.ActionSaleCoComplete:    domain.RoleSaleCo,
}

func (s *reportService) CreateReport(ctx context.Context, req dto.CreateReportRequest, creatorUserID string) (*domain.Report, error) {
	creator, err := s.requireUser(ctx, creatorUserID)
	if err != nil {
		return nil, err
	}
	if creator.Role != domain.RoleSaleCo {
		s.LogWarn(ctx, "Only SaleCo may open reports", slog.String("role", string(creator.Role)))
		return nil, apperrors.ErrForbidden
	}

	now := s.now()
	report := &domain.Report{
		Status:           domain.StatusCreated,
		CreatedByName:    creator.Name,
		CreatedByRole:    creator.Role,
		ProductName:      req.ProductName,
		LotNo:            req.LotNo,
		Quantity:         req.Quantity,
		Unit:             req.Unit,
		IssueDescription: req.IssueDescription,
		Prevention:       req.Prevention,
		ImagePath:        req.ImagePath,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creator.UserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creator.UserID,
		},
	}

	if err := s.saveWithFreshReportID(ctx, report, now); err != nil {
		return nil, err
	}
	s.LogInfo(ctx, "Report created", slog.String("report_id", report.ReportID))

	// Side effects are best-effort: the committed record is authoritative
	// even when rendering or notification fails.
	if url, err := s.renderer.Render(ctx, report); err != nil {
		s.LogError(ctx, err, "Artifact rendering failed after create", slog.String("report_id", report.ReportID))
	} else {
		s.persistArtifactURL(ctx, report, url)
	}
	if err := s.notifier.NotifyCreated(ctx, report); err != nil {
		s.LogError(ctx, err, "Created notification failed", slog.String("report_id", report.ReportID))
	}

	return report, nil
}

// saveWithFreshReportID derives the next monthly business id and persists the
// report. A duplicate id (two creators racing within the same month sequence)
// is retried once with a recomputed id before the conflict surfaces.
func (s *reportService) saveWithFreshReportID(ctx context.Context, report *domain.Report, now time.Time) error {
	prefix := domain.ReportIDPrefix(now)
	for attempt := 0; attempt < 2; attempt++ {
		last, err := s.reportRepo.FindMaxReportIDWithPrefix(ctx, prefix)
		if err != nil {
			return fmt.Errorf("failed to determine last report id for prefix %s: %w", prefix, err)
		}
		report.ReportID = domain.NextReportID(now, last)

		err = s.reportRepo.SaveReport(ctx, report)
		if err == nil {
			return nil
		}
		if errors.Is(err, apperrors.ErrDuplicate) && attempt == 0 {
			s.LogWarn(ctx, "Report id already taken, retrying with a fresh id", slog.String("report_id", report.ReportID))
			continue
		}
		return fmt.Errorf("failed to save report: %w", err)
	}
	return fmt.Errorf("failed to save report %s: %w", report.ReportID, apperrors.ErrDuplicate)
}

func (s *reportService) ApplyAction(ctx context.Context, id int64, input dto.ApplyActionInput, actorUserID string) (*domain.Report, error) {
	actor, err := s.requireUser(ctx, actorUserID)
	if err != nil {
		return nil, err
	}

	requiredRole, ok := actionRoles[input.Kind]
	if !ok {
		return nil, fmt.Errorf("%w: unknown action %s", apperrors.ErrValidation, input.Kind)
	}
	if actor.Role != requiredRole {
		s.LogWarn(ctx, "Role not allowed to perform action",
			slog.String("action", string(input.Kind)),
			slog.String("role", string(actor.Role)))
		return nil, apperrors.ErrForbidden
	}

	report, err := s.reportRepo.FindReportByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load report %d: %w", id, err)
	}
	if report == nil {
		return nil, apperrors.ErrNotFound
	}

	now := s.now()
	report.Status = domain.Transition(report.Status, domain.Action{Kind: input.Kind, Destination: input.Destination})
	s.applyActionFields(report, input, actor, now)
	report.LastUpdatedAt = now
	report.LastUpdatedBy = actor.UserID

	// The authoritative status write happens first; artifact and
	// notification failures below never roll it back.
	if err := s.reportRepo.UpdateReportWorkflow(ctx, report); err != nil {
		return nil, fmt.Errorf("failed to persist workflow update for report %s: %w", report.ReportID, err)
	}
	s.LogInfo(ctx, "Report action applied",
		slog.String("report_id", report.ReportID),
		slog.String("action", string(input.Kind)),
		slog.String("status", string(report.Status)))

	url, err := s.renderer.Render(ctx, report)
	if err != nil {
		s.LogError(ctx, err, "Artifact regeneration failed", slog.String("report_id", report.ReportID))
		// The URL is a pure function of the business id, so the derived
		// reference stays valid for the previously rendered content.
		url = s.renderer.ArtifactURL(report.ReportID)
	}
	s.persistArtifactURL(ctx, report, url)

	if err := s.notifier.NotifyStatusChanged(ctx, report, actor.Name); err != nil {
		s.LogError(ctx, err, "Status-change notification failed", slog.String("report_id", report.ReportID))
	}

	return report, nil
}

// applyActionFields writes the department stamp for the acting role and the
// allow-listed fields the action may carry. Stamps are overwritten on repeat
// accepts, not appended.
func (s *reportService) applyActionFields(report *domain.Report, input dto.ApplyActionInput, actor *domain.User, now time.Time) {
	stamp := domain.DepartmentStamp{Name: &actor.Name, AcceptedAt: &now}

	switch input.Kind {
	case domain.ActionInventoryAccept:
		report.Inventory = stamp
	case domain.ActionQAAccept:
		report.QA = stamp
	case domain.ActionQASolution:
		report.QASolution = input.QASolution
		report.QASolutionDescription = input.QASolutionDescription
		if input.DamageCost != nil {
			report.DamageCost = input.DamageCost
		}
		if input.AttachmentPath != nil {
			report.AttachmentPath = input.AttachmentPath
		}
	case domain.ActionManufactureAccept:
		report.Manufacture = stamp
	case domain.ActionEnvironmentAccept:
		report.Environment = stamp
	case domain.ActionSaleCoComplete:
		report.SaleCo = stamp
		if input.DepartmentExpense != nil {
			report.DepartmentExpense = input.DepartmentExpense
		}
	}
}

// persistArtifactURL caches the rendered-artifact reference on the report
// when it changed. Failures are logged and swallowed: the cache self-heals on
// the next regeneration.
func (s *reportService) persistArtifactURL(ctx context.Context, report *domain.Report, url string) {
	if url == "" {
		return
	}
	if report.ArtifactURL == nil || *report.ArtifactURL != url {
		if err := s.reportRepo.UpdateArtifactURL(ctx, report.ID, url, s.now()); err != nil {
			s.LogError(ctx, err, "Failed to persist artifact URL", slog.String("report_id", report.ReportID))
		}
	}
	report.ArtifactURL = &url
}

func (s *reportService) GetReportByID(ctx context.Context, id int64) (*domain.Report, error) {
	report, err := s.reportRepo.FindReportByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get report by id: %w", err)
	}
	if report == nil {
		return nil, apperrors.ErrNotFound
	}
	return report, nil
}

func (s *reportService) GetReportByReportID(ctx context.Context, reportID string) (*domain.Report, error) {
	report, err := s.reportRepo.FindReportByReportID(ctx, reportID)
	if err != nil {
		return nil, fmt.Errorf("failed to get report by report id: %w", err)
	}
	if report == nil {
		return nil, apperrors.ErrNotFound
	}
	return report, nil
}

func (s *reportService) ListReports(ctx context.Context, requestingUserID string, limit, offset int) ([]domain.Report, error) {
	user, err := s.requireUser(ctx, requestingUserID)
	if err != nil {
		return nil, err
	}
	reports, err := s.reportRepo.ListReportsForRole(ctx, user.Role, user.UserID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}
	if reports == nil {
		reports = []domain.Report{}
	}
	return reports, nil
}

func (s *reportService) DeleteReport(ctx context.Context, id int64, requestingUserID string) error {
	report, err := s.reportRepo.FindReportByID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to load report for deletion: %w", err)
	}
	if report == nil {
		return apperrors.ErrNotFound
	}
	if report.CreatedBy != requestingUserID {
		s.LogWarn(ctx, "Only the creator may delete a report", slog.String("report_id", report.ReportID))
		return apperrors.ErrForbidden
	}
	if report.Status != domain.StatusCreated {
		return fmt.Errorf("%w: report %s is in state %q, only Created reports can be deleted",
			apperrors.ErrValidation, report.ReportID, report.Status)
	}
	if err := s.reportRepo.DeleteReport(ctx, id); err != nil {
		return fmt.Errorf("failed to delete report %s: %w", report.ReportID, err)
	}
	s.LogInfo(ctx, "Report deleted", slog.String("report_id", report.ReportID))
	return nil
}

func (s *reportService) requireUser(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load user %s: %w", userID, err)
	}
	if user == nil {
		return nil, apperrors.ErrUnauthorized
	}
	return user, nil
}
