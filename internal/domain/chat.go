package domain

import "time"

// ChatRequest is the question posted by the embedded widget
type ChatRequest struct {
	Question  string `json:"question" binding:"required"`
	SessionID string `json:"session_id,omitempty"`
	PagePath  string `json:"page_path,omitempty"`
	PageURL   string `json:"page_url,omitempty"`
}

// ChatResponse is the answer returned to the widget. Answer is never
// empty: downstream failures are replaced with a fallback string before
// the response is built.
type ChatResponse struct {
	Answer string `json:"answer"`
}

// RequestMeta carries transport-level metadata extracted from the
// inbound request for logging purposes.
type RequestMeta struct {
	UserAgent string
	Referrer  string
}

// LogRecord is the question/answer bundle handed to each logging sink
// after a chat response has been produced. It has no persistent
// identity; each sink receives the same record and fails independently.
type LogRecord struct {
	Question  string    `json:"question"`
	Answer    string    `json:"answer"`
	Timestamp time.Time `json:"timestamp"`
	SessionID string    `json:"session_id,omitempty"`
	PagePath  string    `json:"page_path,omitempty"`
	PageURL   string    `json:"page_url,omitempty"`
	UserAgent string    `json:"user_agent,omitempty"`
	Referrer  string    `json:"referrer,omitempty"`
	LatencyMs int64     `json:"latency_ms,omitempty"`
}

// ForwardResult reports the automation webhook's verdict back to the
// caller of the inbound relay.
type ForwardResult struct {
	Status     string `json:"status"`
	MakeStatus int    `json:"make_status"`
	MakeBody   string `json:"make_body"`
}
