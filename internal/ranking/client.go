package ranking

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/gotcha-app/backend/internal/metrics"
)

// Service orders the default feed. Implementations return annoyance IDs,
// best first; callers fall back to newest-first when the service fails or
// returns nothing.
type Service interface {
	// Rank returns up to limit annoyance IDs for the viewer, skipping offset.
	// viewerID is empty for anonymous viewers.
	Rank(ctx context.Context, viewerID string, limit, offset int) ([]uint, error)

	// RecordFeedback reports an engagement event so future rankings improve.
	RecordFeedback(ctx context.Context, feedbackType, userID string, annoyanceID uint) error
}

// RESTClient talks to the external ranking service over HTTP.
type RESTClient struct {
	client *resty.Client
}

// rankedItem is one entry in the ranking service's response
type rankedItem struct {
	ID    uint    `json:"id"`
	Score float64 `json:"score"`
}

type rankResponse struct {
	Items []rankedItem `json:"items"`
}

type feedbackRequest struct {
	Type        string `json:"type"`
	UserID      string `json:"user_id"`
	AnnoyanceID uint   `json:"annoyance_id"`
	Timestamp   string `json:"timestamp"`
}

// NewRESTClient creates a ranking client for the given base URL.
func NewRESTClient(baseURL, apiKey string) *RESTClient {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(10 * time.Second).
		SetRetryCount(2).
		SetHeader("Content-Type", "application/json")
	if apiKey != "" {
		client.SetHeader("X-API-Key", apiKey)
	}
	return &RESTClient{client: client}
}

// Rank fetches ranked annoyance IDs for a viewer
func (c *RESTClient) Rank(ctx context.Context, viewerID string, limit, offset int) ([]uint, error) {
	m := metrics.Get()

	var result rankResponse
	resp, err := c.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"viewer": viewerID,
			"limit":  fmt.Sprintf("%d", limit),
			"offset": fmt.Sprintf("%d", offset),
		}).
		SetResult(&result).
		Get("/api/rank")
	if err != nil {
		m.RankingRequestsTotal.WithLabelValues("error").Inc()
		m.RankingErrorsTotal.Inc()
		return nil, fmt.Errorf("ranking request failed: %w", err)
	}
	if resp.IsError() {
		m.RankingRequestsTotal.WithLabelValues("error").Inc()
		m.RankingErrorsTotal.Inc()
		return nil, fmt.Errorf("ranking service returned status %d", resp.StatusCode())
	}

	m.RankingRequestsTotal.WithLabelValues("ok").Inc()

	ids := make([]uint, 0, len(result.Items))
	for _, item := range result.Items {
		ids = append(ids, item.ID)
	}
	return ids, nil
}

// RecordFeedback reports a like or comment event to the ranking service
func (c *RESTClient) RecordFeedback(ctx context.Context, feedbackType, userID string, annoyanceID uint) error {
	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(feedbackRequest{
			Type:        feedbackType,
			UserID:      userID,
			AnnoyanceID: annoyanceID,
			Timestamp:   time.Now().UTC().Format(time.RFC3339),
		}).
		Post("/api/feedback")
	if err != nil {
		return fmt.Errorf("feedback request failed: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("ranking service returned status %d", resp.StatusCode())
	}
	return nil
}

var _ Service = (*RESTClient)(nil)
