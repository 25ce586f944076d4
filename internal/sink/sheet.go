package sink

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/confinedspacecoach/coachbot/internal/config"
	"github.com/confinedspacecoach/coachbot/internal/domain"
	"go.uber.org/zap"
)

// maxSheetRedirects bounds how many Location hops the sink will chase.
const maxSheetRedirects = 3

// SheetSink POSTs the LogRecord as JSON to a spreadsheet automation
// endpoint. Those endpoints answer the first POST with a redirect to a
// final handler, and Go's default client would downgrade the
// redirected POST to a bodyless GET. Redirect following is therefore
// disabled and the POST is re-issued manually with the original body.
type SheetSink struct {
	cfg    config.SheetConfig
	client *http.Client
	logger *zap.Logger
}

// NewSheetSink creates the spreadsheet sink.
func NewSheetSink(cfg config.SheetConfig, logger *zap.Logger) *SheetSink {
	return &SheetSink{
		cfg: cfg,
		client: &http.Client{
			Timeout: cfg.Timeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
		logger: logger,
	}
}

func (s *SheetSink) Name() string { return "sheet" }

// Enabled reports whether a webhook URL is configured.
func (s *SheetSink) Enabled() bool { return s.cfg.WebhookURL != "" }

// Deliver POSTs the record, following redirects by hand.
func (s *SheetSink) Deliver(ctx context.Context, rec *domain.LogRecord) error {
	body, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to encode record: %w", err)
	}

	url := s.cfg.WebhookURL
	for hop := 0; ; hop++ {
		resp, err := s.post(ctx, url, body)
		if err != nil {
			return err
		}

		if resp.StatusCode >= 300 && resp.StatusCode < 400 {
			loc := resp.Header.Get("Location")
			resp.Body.Close()
			if loc == "" {
				return fmt.Errorf("sheet returned redirect %d without Location", resp.StatusCode)
			}
			if hop >= maxSheetRedirects {
				return fmt.Errorf("sheet exceeded %d redirects", maxSheetRedirects)
			}
			if next, err := resp.Request.URL.Parse(loc); err == nil {
				loc = next.String()
			}
			s.logger.Debug("sheet redirect, re-posting",
				zap.Int("status", resp.StatusCode),
				zap.String("location", loc),
			)
			url = loc
			continue
		}

		text, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		resp.Body.Close()
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return statusError("sheet", resp.StatusCode, string(text))
		}
		return nil
	}
}

func (s *SheetSink) post(ctx context.Context, url string, body []byte) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build sheet request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("sheet request failed: %w", err)
	}
	return resp, nil
}
