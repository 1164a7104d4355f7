package services

import (
	portsrepo "github.com/warinco/ncr_workflow_app/internal/core/ports/repositories"
	portssvc "github.com/warinco/ncr_workflow_app/internal/core/ports/services"
	"github.com/warinco/ncr_workflow_app/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(
	cfg *config.Config,
	repos portsrepo.RepositoryProvider,
	renderer portssvc.ArtifactRenderer,
	notifier portssvc.NotificationSink,
) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	container.User = NewUserService(repos.UserRepo)
	container.Report = NewReportService(repos.ReportRepo, repos.UserRepo, renderer, notifier)
	container.Token = NewTokenService(cfg)

	return container
}
