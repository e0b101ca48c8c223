package http

import "github.com/randomtoy/raas-go/internal/ports"

// ReadingRequest is the JSON body of POST /v1/readings.
type ReadingRequest struct {
	ReaderAlias string          `json:"reader_alias"`
	Question    string          `json:"question"`
	Spread      string          `json:"spread,omitempty"`
	UserID      string          `json:"user_id,omitempty"`
	History     []ports.Message `json:"history,omitempty"`
}

// ReadingResponse is the JSON shape returned by POST /v1/readings.
type ReadingResponse struct {
	Reader   ReaderResp     `json:"reader"`
	Message  string         `json:"message"`
	Degraded bool           `json:"degraded"`
	Spread   string         `json:"spread"`
	Cards    []CardResponse `json:"cards"`
	Meta     MetaResp       `json:"meta"`
}

type ReaderResp struct {
	Alias   string `json:"alias"`
	Name    string `json:"name"`
	Tagline string `json:"tagline"`
}

type CardResponse struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Position int    `json:"position"`
	Label    string `json:"label"`
	ImageURL string `json:"image_url"`
	Meaning  string `json:"meaning"`
}

type MetaResp struct {
	Model     string `json:"model"`
	RequestID string `json:"request_id"`
	LatencyMS int64  `json:"latency_ms"`
}

// DrawRequest is the JSON body of POST /v1/draws.
type DrawRequest struct {
	ReaderAlias string `json:"reader_alias"`
	Spread      string `json:"spread,omitempty"`
}

type DrawResponse struct {
	Spread string         `json:"spread"`
	Cards  []CardResponse `json:"cards"`
}

// ReaderProfileResponse is returned by GET /v1/readers/:alias.
type ReaderProfileResponse struct {
	Reader ReaderResp     `json:"reader"`
	Stats  []CardStatResp `json:"stats"`
}

type CardStatResp struct {
	CardID    int64  `json:"card_id"`
	CardName  string `json:"card_name"`
	ImageURL  string `json:"image_url"`
	DrawCount int64  `json:"draw_count"`
	LastDrawn string `json:"last_drawn"`
}

// LogRequest is the JSON body of the write-only POST /v1/logs.
type LogRequest struct {
	ReaderAlias string   `json:"reader_alias"`
	UserID      string   `json:"user_id,omitempty"`
	Question    string   `json:"question,omitempty"`
	Spread      string   `json:"spread,omitempty"`
	CardNames   []string `json:"card_names,omitempty"`
	Response    string   `json:"response,omitempty"`
}

type LogResponse struct {
	Status string `json:"status"`
}

// AnalyticsResponse carries either one reader's window or the trending list.
type AnalyticsResponse struct {
	Stats    *ActivityResp  `json:"stats,omitempty"`
	Trending []ActivityResp `json:"trending,omitempty"`
}

type ActivityResp struct {
	ReaderAlias string `json:"reader_alias"`
	Readings24h int64  `json:"readings_24h"`
	Users24h    int64  `json:"users_24h"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
