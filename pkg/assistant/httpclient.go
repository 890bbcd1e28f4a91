package assistant

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/vitgar/business-coach-sub001/pkg/otelhelper"
)

const defaultTimeout = 90 * time.Second

// HTTPClient calls a remote completion service over JSON. Navigating
// away from a section cancels the request's context, which aborts the
// in-flight call.
type HTTPClient struct {
	baseURL string
	apiKey  string
	client  *http.Client
	tracer  trace.Tracer
	logger  *slog.Logger
}

func NewHTTPClient(baseURL, apiKey string, logger *slog.Logger) *HTTPClient {
	return &HTTPClient{
		baseURL: baseURL,
		apiKey:  apiKey,
		client:  &http.Client{Timeout: defaultTimeout},
		tracer:  otel.Tracer("assistant-http"),
		logger:  logger.With("module", "assistant"),
	}
}

func (c *HTTPClient) Complete(ctx context.Context, req Request) (*Response, error) {
	ctx, span := otelhelper.StartSpan(ctx, c.tracer, "assistant.complete",
		attribute.String(otelhelper.PlanIDKey, req.PlanID),
		attribute.String(otelhelper.SectionIDKey, req.SectionID),
		attribute.String(otelhelper.AssistantKey, "http"),
	)
	defer span.End()

	body, err := json.Marshal(req)
	if err != nil {
		otelhelper.SetError(span, err)

		return nil, fmt.Errorf("failed to encode assistant request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/chat", bytes.NewReader(body))
	if err != nil {
		otelhelper.SetError(span, err)

		return nil, fmt.Errorf("failed to build assistant request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")

	if c.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.client.Do(httpReq)
	if err != nil {
		otelhelper.SetError(span, err)

		return nil, fmt.Errorf("assistant request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		otelhelper.SetError(span, err)

		return nil, fmt.Errorf("failed to read assistant response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		err := fmt.Errorf("assistant returned status %d", resp.StatusCode)
		otelhelper.SetError(span, err)
		c.logger.ErrorContext(ctx, "Assistant call failed",
			"status", resp.StatusCode, "section", req.SectionID)

		return nil, err
	}

	return c.parse(raw, req.SectionID)
}

// parse tolerates the backend's shifting response shapes. The reply
// text may arrive under "reply", "message", or "text".
func (c *HTTPClient) parse(raw []byte, sectionID string) (*Response, error) {
	var payload map[string]any

	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, fmt.Errorf("failed to decode assistant response: %w", err)
	}

	reply := ""

	for _, key := range []string{"reply", "message", "text"} {
		if s, ok := payload[key].(string); ok && s != "" {
			reply = s

			break
		}
	}

	return &Response{
		Reply: reply,
		Data:  ExtractSectionData(payload, sectionID),
	}, nil
}
