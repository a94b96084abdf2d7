package gateway

import (
	"time"

	"github.com/hovde/livelink/pkg/session"
)

// updateRequest is the client-submitted telemetry body. Shapes outside
// this are rejected before the store sees them.
type updateRequest struct {
	Location        *session.Location `json:"location"`
	Frame           *string           `json:"frame"`
	UserAgent       *string           `json:"userAgent"`
	TZOffsetMinutes *int              `json:"tzOffsetMinutes"`
}

type createResponse struct {
	Token      string    `json:"token"`
	Link       string    `json:"link"`
	Monitor    string    `json:"monitor"`
	ExpiresAt  time.Time `json:"expires_at"`
	TTLSeconds int       `json:"ttl_seconds"`
}

type closeResponse struct {
	Status string `json:"status"`
	Token  string `json:"token"`
}

type statusResponse struct {
	Token        string          `json:"token"`
	Created      time.Time       `json:"created"`
	ExpiresAt    time.Time       `json:"expires_at"`
	LastSeen     *time.Time      `json:"last_seen"`
	HistoryCount int             `json:"history_count"`
	Latest       *session.Update `json:"latest"`
	TTLSeconds   int             `json:"ttl_seconds"`
}

type errorResponse struct {
	Error string `json:"error"`
}
