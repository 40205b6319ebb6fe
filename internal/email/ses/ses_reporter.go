package ses

import (
	"context"
	"fmt"
	"html"
	"log"
	"strings"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"

	"supplierx/internal/config"
	"supplierx/internal/domain"
	"supplierx/internal/port"
)

type sesReporter struct {
	client      *sesv2.Client
	fromAddress string
	fromName    string
	operatorTo  string
}

// NewSESReporter creates an SES-backed RunReporter that emails the operator whenever a
// run has failed files.
func NewSESReporter(cfg *config.EmailConfig) (port.RunReporter, error) {
	if cfg.OperatorTo == "" {
		return nil, fmt.Errorf("email.operator_to is required for the ses provider")
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(), awsconfig.WithRegion(cfg.Region))
	if err != nil {
		return nil, fmt.Errorf("loading AWS config for SES: %w", err)
	}
	return &sesReporter{
		client:      sesv2.NewFromConfig(awsCfg),
		fromAddress: cfg.FromAddress,
		fromName:    cfg.FromName,
		operatorTo:  cfg.OperatorTo,
	}, nil
}

func (r *sesReporter) ReportRun(ctx context.Context, summary domain.RunSummary) error {
	if summary.Failed == 0 {
		return nil
	}

	subject := buildSubject(summary)
	htmlBody := buildSummaryHTML(summary)
	textBody := buildSummaryText(summary)
	from := fmt.Sprintf("%s <%s>", r.fromName, r.fromAddress)

	_, err := r.client.SendEmail(ctx, &sesv2.SendEmailInput{
		FromEmailAddress: &from,
		Destination: &types.Destination{
			ToAddresses: []string{r.operatorTo},
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{Data: &subject},
				Body: &types.Body{
					Html: &types.Content{Data: &htmlBody},
					Text: &types.Content{Data: &textBody},
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("SES SendEmail: %w", err)
	}
	log.Printf("sesReporter.ReportRun: sent summary for run %s to %s", summary.RunID, r.operatorTo)
	return nil
}

func buildSubject(s domain.RunSummary) string {
	return fmt.Sprintf("Supplier extraction run: %d of %d files failed", s.Failed, s.Attempted)
}

func buildSummaryText(s domain.RunSummary) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Run %s finished at %s.\n\n", s.RunID, s.FinishedAt.Format("2006-01-02 15:04:05 MST"))
	fmt.Fprintf(&b, "Attempted: %d\nSucceeded: %d\nFailed: %d\n\n", s.Attempted, s.Succeeded, s.Failed)
	for _, e := range s.Errors {
		fmt.Fprintf(&b, "- %s [%s]: %s\n", e.Filename, e.Kind, e.Message)
	}
	return b.String()
}

func buildSummaryHTML(s domain.RunSummary) string {
	var rows strings.Builder
	for _, e := range s.Errors {
		fmt.Fprintf(&rows, `    <tr><td style="padding: 4px 8px;">%s</td><td style="padding: 4px 8px;">%s</td><td style="padding: 4px 8px; color: #666;">%s</td></tr>
`, html.EscapeString(e.Filename), html.EscapeString(string(e.Kind)), html.EscapeString(e.Message))
	}
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"></head>
<body style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px;">
  <h2 style="color: #333;">Extraction run %s</h2>
  <p>%d attempted, %d succeeded, %d failed.</p>
  <table style="border-collapse: collapse; width: 100%%;">
    <tr><th align="left">File</th><th align="left">Kind</th><th align="left">Message</th></tr>
%s  </table>
</body>
</html>`, s.RunID, s.Attempted, s.Succeeded, s.Failed, rows.String())
}
