package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/warinco/ncr_workflow_app/internal/apperrors"
	"github.com/warinco/ncr_workflow_app/internal/core/domain"
	portsrepo "github.com/warinco/ncr_workflow_app/internal/core/ports/repositories"
)

type pgxReportRepository struct {
	db *pgxpool.Pool
}

func newPgxReportRepository(db *pgxpool.Pool) *pgxReportRepository {
	return &pgxReportRepository{db: db}
}

// Ensure pgxReportRepository implements the facade
var _ portsrepo.ReportRepositoryFacade = (*pgxReportRepository)(nil)

// uniqueViolation is the Postgres error code for unique-constraint violations.
const uniqueViolation = "23505"

const reportColumns = `
    id, report_id, status,
    created_by_name, created_by_role,
    product_name, lot_no, quantity, unit, issue_description, prevention, image_path,
    inventory_name, inventory_accepted_at,
    qa_name, qa_accepted_at,
    manufacture_name, manufacture_accepted_at,
    environment_name, environment_accepted_at,
    saleco_name, saleco_accepted_at,
    qa_solution, qa_solution_description, damage_cost, department_expense, attachment_path,
    artifact_url,
    created_at, created_by, last_updated_at, last_updated_by`

func (r *pgxReportRepository) SaveReport(ctx context.Context, report *domain.Report) error {
	query := `
        INSERT INTO reports (
            report_id, status,
            created_by_name, created_by_role,
            product_name, lot_no, quantity, unit, issue_description, prevention, image_path,
            created_at, created_by, last_updated_at, last_updated_by
        )
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
        RETURNING id;
    `
	err := r.db.QueryRow(ctx, query,
		report.ReportID,
		report.Status,
		report.CreatedByName,
		report.CreatedByRole,
		report.ProductName,
		report.LotNo,
		report.Quantity,
		report.Unit,
		report.IssueDescription,
		report.Prevention,
		report.ImagePath,
		report.CreatedAt,
		report.CreatedBy,
		report.LastUpdatedAt,
		report.LastUpdatedBy,
	).Scan(&report.ID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return fmt.Errorf("report id %s: %w", report.ReportID, apperrors.ErrDuplicate)
		}
		return fmt.Errorf("failed to save report: %w", err)
	}
	return nil
}

func (r *pgxReportRepository) FindReportByID(ctx context.Context, id int64) (*domain.Report, error) {
	query := `SELECT ` + reportColumns + ` FROM reports WHERE id = $1;`
	report, err := scanReport(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil // Indicate not found explicitly
		}
		return nil, fmt.Errorf("failed to find report by id: %w", err)
	}
	return report, nil
}

func (r *pgxReportRepository) FindReportByReportID(ctx context.Context, reportID string) (*domain.Report, error) {
	query := `SELECT ` + reportColumns + ` FROM reports WHERE report_id = $1;`
	report, err := scanReport(r.db.QueryRow(ctx, query, reportID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find report by report id: %w", err)
	}
	return report, nil
}

func (r *pgxReportRepository) FindMaxReportIDWithPrefix(ctx context.Context, prefix string) (string, error) {
	query := `
        SELECT COALESCE(MAX(report_id), '')
        FROM reports
        WHERE report_id LIKE $1 || '%';
    `
	var maxID string
	if err := r.db.QueryRow(ctx, query, prefix).Scan(&maxID); err != nil {
		return "", fmt.Errorf("failed to find max report id for prefix %s: %w", prefix, err)
	}
	return maxID, nil
}

func (r *pgxReportRepository) ListReportsForRole(ctx context.Context, role domain.Role, userID string, limit, offset int) ([]domain.Report, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	// Visibility per department: SaleCo sees its own reports, QA and
	// Inventory see everything, Manufacture/Environment see only reports
	// routed to them.
	where := ""
	args := []any{limit, offset}
	switch role {
	case domain.RoleSaleCo:
		where = "WHERE created_by = $3"
		args = append(args, userID)
	case domain.RoleManufacture:
		where = "WHERE status IN ($3, $4)"
		args = append(args, domain.StatusSendToManufacture, domain.StatusAcceptedByManufacture)
	case domain.RoleEnvironment:
		where = "WHERE status IN ($3, $4)"
		args = append(args, domain.StatusSendToEnvironment, domain.StatusAcceptedByEnvironment)
	}

	query := `SELECT ` + reportColumns + ` FROM reports ` + where + `
        ORDER BY created_at DESC
        LIMIT $1 OFFSET $2;`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query reports: %w", err)
	}
	defer rows.Close()

	reports := []domain.Report{}
	for rows.Next() {
		report, err := scanReport(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan report row: %w", err)
		}
		reports = append(reports, *report)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating report rows: %w", rows.Err())
	}

	return reports, nil
}

func (r *pgxReportRepository) UpdateReportWorkflow(ctx context.Context, report *domain.Report) error {
	query := `
        UPDATE reports SET
            status = $1,
            inventory_name = $2, inventory_accepted_at = $3,
            qa_name = $4, qa_accepted_at = $5,
            manufacture_name = $6, manufacture_accepted_at = $7,
            environment_name = $8, environment_accepted_at = $9,
            saleco_name = $10, saleco_accepted_at = $11,
            qa_solution = $12, qa_solution_description = $13,
            damage_cost = $14, department_expense = $15, attachment_path = $16,
            last_updated_at = $17, last_updated_by = $18
        WHERE id = $19;
    `
	cmdTag, err := r.db.Exec(ctx, query,
		report.Status,
		report.Inventory.Name, report.Inventory.AcceptedAt,
		report.QA.Name, report.QA.AcceptedAt,
		report.Manufacture.Name, report.Manufacture.AcceptedAt,
		report.Environment.Name, report.Environment.AcceptedAt,
		report.SaleCo.Name, report.SaleCo.AcceptedAt,
		report.QASolution, report.QASolutionDescription,
		nullDecimal(report.DamageCost), nullDecimal(report.DepartmentExpense), report.AttachmentPath,
		report.LastUpdatedAt, report.LastUpdatedBy,
		report.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to execute workflow update: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("report not found: %w", pgx.ErrNoRows)
	}
	return nil
}

func (r *pgxReportRepository) UpdateArtifactURL(ctx context.Context, id int64, artifactURL string, updatedAt time.Time) error {
	query := `
        UPDATE reports
        SET artifact_url = $1, last_updated_at = $2
        WHERE id = $3;
    `
	cmdTag, err := r.db.Exec(ctx, query, artifactURL, updatedAt, id)
	if err != nil {
		return fmt.Errorf("failed to update artifact url: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("report not found: %w", pgx.ErrNoRows)
	}
	return nil
}

func (r *pgxReportRepository) DeleteReport(ctx context.Context, id int64) error {
	cmdTag, err := r.db.Exec(ctx, `DELETE FROM reports WHERE id = $1;`, id)
	if err != nil {
		return fmt.Errorf("failed to delete report: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("report not found: %w", pgx.ErrNoRows)
	}
	return nil
}

// scanReport reads one report row in reportColumns order.
func scanReport(row pgx.Row) (*domain.Report, error) {
	var report domain.Report
	var damageCost, departmentExpense decimal.NullDecimal

	err := row.Scan(
		&report.ID,
		&report.ReportID,
		&report.Status,
		&report.CreatedByName,
		&report.CreatedByRole,
		&report.ProductName,
		&report.LotNo,
		&report.Quantity,
		&report.Unit,
		&report.IssueDescription,
		&report.Prevention,
		&report.ImagePath,
		&report.Inventory.Name,
		&report.Inventory.AcceptedAt,
		&report.QA.Name,
		&report.QA.AcceptedAt,
		&report.Manufacture.Name,
		&report.Manufacture.AcceptedAt,
		&report.Environment.Name,
		&report.Environment.AcceptedAt,
		&report.SaleCo.Name,
		&report.SaleCo.AcceptedAt,
		&report.QASolution,
		&report.QASolutionDescription,
		&damageCost,
		&departmentExpense,
		&report.AttachmentPath,
		&report.ArtifactURL,
		&report.CreatedAt,
		&report.CreatedBy,
		&report.LastUpdatedAt,
		&report.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}

	if damageCost.Valid {
		report.DamageCost = &damageCost.Decimal
	}
	if departmentExpense.Valid {
		report.DepartmentExpense = &departmentExpense.Decimal
	}
	return &report, nil
}

// nullDecimal adapts an optional decimal for a nullable numeric column.
func nullDecimal(d *decimal.Decimal) decimal.NullDecimal {
	if d == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: *d, Valid: true}
}
