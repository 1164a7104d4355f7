package services

import (
	"context"

	"github.com/warinco/ncr_workflow_app/internal/core/domain"
)

// ArtifactRenderer renders the filled PDF form for a report and returns a
// stable reference URL. Rendering may fail; callers treat failures as
// best-effort and fall back to ArtifactURL.
type ArtifactRenderer interface {
	// Render produces the artifact for the report's current state and
	// returns its reference URL.
	Render(ctx context.Context, report *domain.Report) (string, error)

	// ArtifactURL returns the reference URL for a report's artifact without
	// rendering. The URL is a pure function of the business id: the same id
	// always yields the same URL, only the file content varies.
	ArtifactURL(reportID string) string
}
