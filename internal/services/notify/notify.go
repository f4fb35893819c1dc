// Package notify sends match report emails via AWS SES once a
// conversation reaches recommendations.
package notify

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"math"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
	"github.com/google/uuid"
	"go.uber.org/zap"

	appconfig "schemebot/internal/config"
	"schemebot/internal/models"
)

// Service handles SES email operations for match reports.
type Service struct {
	client    *ses.Client
	fromEmail string
	toEmail   string
	logger    *zap.Logger
}

// EmailParams represents parameters for sending an email.
type EmailParams struct {
	To       string
	Subject  string
	HTMLBody string
	TextBody string
}

// SendEmailResult contains the result of sending an email.
type SendEmailResult struct {
	MessageID string
	SentAt    time.Time
}

// NewService creates a new notifier. It fails when sender or recipient
// are unconfigured; callers treat a nil notifier as disabled.
func NewService(ctx context.Context, cfg *appconfig.Config, logger *zap.Logger) (*Service, error) {
	if cfg.SESFromEmail == "" || cfg.ReportToEmail == "" {
		return nil, fmt.Errorf("notifier requires SES_FROM_EMAIL and REPORT_TO_EMAIL")
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.AWSRegion))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return &Service{
		client:    ses.NewFromConfig(awsCfg),
		fromEmail: cfg.SESFromEmail,
		toEmail:   cfg.ReportToEmail,
		logger:    logger,
	}, nil
}

// SendEmail sends a basic email.
func (s *Service) SendEmail(ctx context.Context, params EmailParams) (*SendEmailResult, error) {
	input := &ses.SendEmailInput{
		Source: aws.String(s.fromEmail),
		Destination: &types.Destination{
			ToAddresses: []string{params.To},
		},
		Message: &types.Message{
			Subject: &types.Content{
				Data:    aws.String(params.Subject),
				Charset: aws.String("UTF-8"),
			},
			Body: &types.Body{},
		},
	}

	if params.HTMLBody != "" {
		input.Message.Body.Html = &types.Content{
			Data:    aws.String(params.HTMLBody),
			Charset: aws.String("UTF-8"),
		}
	}
	if params.TextBody != "" {
		input.Message.Body.Text = &types.Content{
			Data:    aws.String(params.TextBody),
			Charset: aws.String("UTF-8"),
		}
	}

	result, err := s.client.SendEmail(ctx, input)
	if err != nil {
		s.logger.Error("Failed to send email",
			zap.String("to", params.To),
			zap.String("subject", params.Subject),
			zap.Error(err),
		)
		return nil, fmt.Errorf("failed to send email: %w", err)
	}

	s.logger.Info("Email sent successfully",
		zap.String("to", params.To),
		zap.String("subject", params.Subject),
		zap.String("message_id", aws.ToString(result.MessageId)),
	)

	return &SendEmailResult{
		MessageID: aws.ToString(result.MessageId),
		SentAt:    time.Now().UTC(),
	}, nil
}

// SendMatchReport emails the recommendations generated for a session.
// A notification record is returned either way so callers can log or
// store the outcome.
func (s *Service) SendMatchReport(ctx context.Context, report *models.MatchReport) (*models.NotificationRecord, error) {
	record := &models.NotificationRecord{
		ID:        uuid.NewString(),
		SessionID: report.SessionID,
		Email:     s.toEmail,
		SentAt:    time.Now().UTC(),
		Status:    "sent",
	}

	htmlBody, err := renderReportHTML(report)
	if err != nil {
		record.Status = "failed"
		record.ErrorMessage = err.Error()
		return record, fmt.Errorf("failed to render report template: %w", err)
	}

	subject := fmt.Sprintf("SchemeBot: %d scheme matches for %s",
		len(report.Recommendations), report.Profile.Name)

	result, err := s.SendEmail(ctx, EmailParams{
		To:       s.toEmail,
		Subject:  subject,
		HTMLBody: htmlBody,
		TextBody: renderReportText(report),
	})
	if err != nil {
		record.Status = "failed"
		record.ErrorMessage = err.Error()
		return record, err
	}

	record.MessageID = result.MessageID
	record.SentAt = result.SentAt
	return record, nil
}

// reportEntry is one scheme row flattened for the templates.
type reportEntry struct {
	Name     string
	Score    int
	Category string
	Reasons  []string
	Link     string
}

type reportData struct {
	Name        string
	Gender      models.Gender
	Age         int
	State       string
	MatchCount  int
	Entries     []reportEntry
	GeneratedAt string
}

func buildReportData(report *models.MatchReport) reportData {
	entries := make([]reportEntry, 0, len(report.Recommendations))
	for _, rec := range report.Recommendations {
		entries = append(entries, reportEntry{
			Name:     rec.Scheme.Name,
			Score:    int(math.Round(rec.RelevanceScore * 100)),
			Category: rec.Scheme.Category,
			Reasons:  rec.Reasons,
			Link:     rec.Scheme.Link,
		})
	}

	return reportData{
		Name:        report.Profile.Name,
		Gender:      report.Profile.Gender,
		Age:         report.Profile.Age,
		State:       report.Profile.State,
		MatchCount:  len(entries),
		Entries:     entries,
		GeneratedAt: report.GeneratedAt.Format(time.RFC1123),
	}
}

// renderReportHTML renders the HTML report body.
func renderReportHTML(report *models.MatchReport) (string, error) {
	tmpl := `
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <style>
        body { font-family: 'Segoe UI', Tahoma, Geneva, Verdana, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px; }
        .header { background: linear-gradient(135deg, #11998e 0%, #38ef7d 100%); color: white; padding: 30px; border-radius: 10px 10px 0 0; text-align: center; }
        .header h1 { margin: 0; font-size: 24px; }
        .content { background: #f9f9f9; padding: 30px; border-radius: 0 0 10px 10px; }
        .profile { background: white; border-radius: 8px; padding: 15px 20px; margin-bottom: 15px; color: #555; }
        .scheme-card { background: white; border-radius: 8px; padding: 20px; margin: 15px 0; box-shadow: 0 2px 4px rgba(0,0,0,0.1); }
        .scheme-card h3 { margin: 0 0 10px 0; color: #11998e; }
        .scheme-card .category { color: #666; font-size: 14px; margin-bottom: 10px; }
        .scheme-card ul { margin: 10px 0; padding-left: 20px; }
        .score-badge { display: inline-block; background: #28a745; color: white; padding: 5px 12px; border-radius: 20px; font-weight: bold; }
        .footer { text-align: center; margin-top: 30px; color: #999; font-size: 12px; }
    </style>
</head>
<body>
    <div class="header">
        <h1>Scheme Matches Found</h1>
        <p>{{.MatchCount}} government schemes matched the profile of {{.Name}}</p>
    </div>
    <div class="content">
        <div class="profile">
            <strong>{{.Name}}</strong>, {{.Age}}, {{.Gender}}, {{.State}}
        </div>

        {{range .Entries}}
        <div class="scheme-card">
            <h3>{{.Name}} <span class="score-badge">{{.Score}}%</span></h3>
            {{if .Category}}<p class="category">{{.Category}}</p>{{end}}
            <ul>
                {{range .Reasons}}<li>{{.}}</li>{{end}}
            </ul>
            {{if .Link}}<a href="{{.Link}}">More information</a>{{end}}
        </div>
        {{end}}
    </div>
    <div class="footer">
        <p>This report was generated by SchemeBot on {{.GeneratedAt}}.</p>
    </div>
</body>
</html>`

	t, err := template.New("match_report").Parse(tmpl)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := t.Execute(&buf, buildReportData(report)); err != nil {
		return "", err
	}

	return buf.String(), nil
}

// renderReportText renders the plain text version.
func renderReportText(report *models.MatchReport) string {
	data := buildReportData(report)

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "SchemeBot match report for %s (%d, %s, %s)\n\n",
		data.Name, data.Age, data.Gender, data.State)
	fmt.Fprintf(&buf, "%d government schemes matched:\n\n", data.MatchCount)

	for i, entry := range data.Entries {
		fmt.Fprintf(&buf, "%d. %s (%d%% match)\n", i+1, entry.Name, entry.Score)
		for _, reason := range entry.Reasons {
			fmt.Fprintf(&buf, "   - %s\n", reason)
		}
		if entry.Link != "" {
			fmt.Fprintf(&buf, "   %s\n", entry.Link)
		}
		buf.WriteString("\n")
	}

	fmt.Fprintf(&buf, "Generated at %s\n", data.GeneratedAt)
	return buf.String()
}
