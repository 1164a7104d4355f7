package chat

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	retryablehttp "github.com/hashicorp/go-retryablehttp"

	"github.com/warinco/ncr_workflow_app/internal/core/domain"
	portssvc "github.com/warinco/ncr_workflow_app/internal/core/ports/services"
)

// Notifier posts workflow events to a chat webhook as simple text messages.
// An empty webhook URL disables it, every notification becomes a no-op.
type Notifier struct {
	webhookURL string
	client     *retryablehttp.Client
}

// NewNotifier creates a chat notifier for the given webhook URL.
func NewNotifier(webhookURL string) *Notifier {
	client := retryablehttp.NewClient()
	client.RetryMax = 2
	client.RetryWaitMin = 500 * time.Millisecond
	client.RetryWaitMax = 2 * time.Second
	client.HTTPClient.Timeout = 10 * time.Second
	client.Logger = nil

	return &Notifier{webhookURL: webhookURL, client: client}
}

// Ensure Notifier implements the NotificationSink port
var _ portssvc.NotificationSink = (*Notifier)(nil)

// NotifyCreated announces a newly opened report.
func (n *Notifier) NotifyCreated(ctx context.Context, report *domain.Report) error {
	text := fmt.Sprintf("New non-conformance report %s: %s (lot %s), opened by %s.",
		report.ReportID, report.ProductName, report.LotNo, report.CreatedByName)
	if report.ImagePath != nil {
		text += "\nImage: " + *report.ImagePath
	}
	return n.post(ctx, text)
}

// NotifyStatusChanged announces a workflow step on an existing report.
func (n *Notifier) NotifyStatusChanged(ctx context.Context, report *domain.Report, actorName string) error {
	text := fmt.Sprintf("Report %s is now \"%s\" (updated by %s).",
		report.ReportID, report.Status, actorName)
	if report.ArtifactURL != nil {
		text += "\nForm: " + *report.ArtifactURL
	}
	return n.post(ctx, text)
}

type message struct {
	Text string `json:"text"`
}

func (n *Notifier) post(ctx context.Context, text string) error {
	if n.webhookURL == "" {
		return nil
	}

	body, err := json.Marshal(message{Text: text})
	if err != nil {
		return fmt.Errorf("failed to marshal chat message: %w", err)
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost, n.webhookURL, body)
	if err != nil {
		return fmt.Errorf("failed to build chat request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to post chat message: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("chat webhook returned status %d", resp.StatusCode)
	}
	return nil
}
