package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"

	portsrepo "github.com/warinco/ncr_workflow_app/internal/core/ports/repositories"
)

// NewRepositoryProvider wires the pgx-backed repositories.
func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		ReportRepo: newPgxReportRepository(dbPool),
		UserRepo:   newPgxUserRepository(dbPool),
	}
}
