package sink

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/confinedspacecoach/coachbot/internal/config"
	"github.com/confinedspacecoach/coachbot/internal/domain"
	"go.uber.org/zap"
)

const (
	// trelloMaxAttempts bounds retries; only 429 responses are retried.
	trelloMaxAttempts = 3
	// cardTitleMax is the truncation length for card titles.
	cardTitleMax = 120
)

var whitespacePattern = regexp.MustCompile(`\s+`)

// TrelloSink creates a card per answered question on a configured
// Trello list. Question and answer text is PII-scrubbed before it is
// embedded in the card.
type TrelloSink struct {
	cfg    config.TrelloConfig
	client *http.Client
	logger *zap.Logger

	// sleep is swapped out in tests to avoid real waits.
	sleep func(time.Duration)
}

// NewTrelloSink creates the card-board sink.
func NewTrelloSink(cfg config.TrelloConfig, logger *zap.Logger) *TrelloSink {
	return &TrelloSink{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
		logger: logger,
		sleep:  time.Sleep,
	}
}

func (s *TrelloSink) Name() string { return "trello" }

// Enabled requires the flag plus every credential.
func (s *TrelloSink) Enabled() bool {
	return s.cfg.Enabled && s.cfg.Key != "" && s.cfg.Token != "" && s.cfg.ListID != ""
}

// Deliver creates the card, retrying only on rate limiting.
func (s *TrelloSink) Deliver(ctx context.Context, rec *domain.LogRecord) error {
	form := s.cardForm(rec)
	endpoint := s.cfg.APIBase + "/1/cards"

	for attempt := 1; ; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
		if err != nil {
			return fmt.Errorf("failed to build trello request: %w", err)
		}
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

		resp, err := s.client.Do(req)
		if err != nil {
			return fmt.Errorf("trello request failed: %w", err)
		}

		if resp.StatusCode == http.StatusTooManyRequests && attempt < trelloMaxAttempts {
			delay := retryAfter(resp)
			io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
			s.logger.Warn("trello rate limited, retrying",
				zap.Int("attempt", attempt),
				zap.Duration("delay", delay),
			)
			s.sleep(delay)
			continue
		}

		text, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		resp.Body.Close()
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return statusError("trello", resp.StatusCode, string(text))
		}
		return nil
	}
}

// cardForm builds the card-create form: scrubbed, truncated title and a
// markdown description with the full scrubbed texts plus metadata.
func (s *TrelloSink) cardForm(rec *domain.LogRecord) url.Values {
	cleanQ := RedactPII(strings.TrimSpace(rec.Question))
	cleanA := RedactPII(strings.TrimSpace(rec.Answer))

	title := truncate("Q: "+whitespacePattern.ReplaceAllString(cleanQ, " "), cardTitleMax)

	lines := []string{
		"**Question**",
		orDash(cleanQ),
		"",
		"**Answer**",
		orDash(cleanA),
		"",
		"**Meta**",
		"• Time (UTC): " + rec.Timestamp.Format(time.RFC3339),
	}
	if rec.UserAgent != "" {
		lines = append(lines, "• User-Agent: "+rec.UserAgent)
	}
	if page := firstNonEmpty(rec.PageURL, rec.Referrer); page != "" {
		lines = append(lines, "• Page: "+page)
	}
	if len(s.cfg.Tags) > 0 {
		lines = append(lines, "• Tags: "+strings.Join(s.cfg.Tags, ", "))
	}

	return url.Values{
		"idList": {s.cfg.ListID},
		"key":    {s.cfg.Key},
		"token":  {s.cfg.Token},
		"name":   {title},
		"desc":   {strings.Join(lines, "\n")},
	}
}

// retryAfter reads the server-supplied delay, defaulting to one second.
func retryAfter(resp *http.Response) time.Duration {
	if v := resp.Header.Get("Retry-After"); v != "" {
		if secs, err := strconv.Atoi(v); err == nil && secs > 0 {
			return time.Duration(secs) * time.Second
		}
	}
	return time.Second
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n-1]) + "…"
}

func orDash(s string) string {
	if s == "" {
		return "—"
	}
	return s
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
