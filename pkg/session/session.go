package session

import (
	"strings"
	"time"
)

const (
	// DefaultTTL is how long a session stays live after creation.
	DefaultTTL = time.Hour

	// DefaultMaxUpdates bounds the per-session update history.
	DefaultMaxUpdates = 200

	// framePrefix is the only accepted media prefix for frame payloads.
	framePrefix = "data:image"
)

// Location is one geolocation sample. Fields mirror the browser
// Geolocation API and may individually be absent.
type Location struct {
	Lat      *float64 `json:"lat"`
	Lng      *float64 `json:"lng"`
	Accuracy *float64 `json:"accuracy"`
	Speed    *float64 `json:"speed"`
}

// Meta carries client context attached to every update.
type Meta struct {
	UserAgent       *string `json:"ua"`
	TZOffsetMinutes *int    `json:"tzOffsetMinutes"`
}

// Update is one telemetry sample. TS is assigned by the store at
// ingestion, never taken from the client. An update must carry at
// least one of Location or Frame.
type Update struct {
	TS       time.Time `json:"ts"`
	Location *Location `json:"location,omitempty"`
	Frame    *string   `json:"frame,omitempty"`
	Meta     Meta      `json:"meta"`
}

// hasPayload reports whether the update carries any telemetry.
func (u Update) hasPayload() bool {
	return u.Location != nil || u.Frame != nil
}

// ValidFrame reports whether s is an acceptable frame payload, i.e. a
// data URI with a declared image media type.
func ValidFrame(s string) bool {
	return strings.HasPrefix(s, framePrefix)
}

// Session is one live capture session. The store exclusively owns all
// Session values; callers only ever see copies or views.
type Session struct {
	Token     string
	CreatedAt time.Time
	ExpiresAt time.Time
	LastSeen  *time.Time
	Updates   *UpdateBuffer
}

// View is a point-in-time copy of a session, safe to retain across
// store calls.
type View struct {
	Token     string
	CreatedAt time.Time
	ExpiresAt time.Time
	LastSeen  *time.Time
	Updates   []Update
}

// Status summarizes a session for the polling monitor.
type Status struct {
	Token        string
	CreatedAt    time.Time
	ExpiresAt    time.Time
	LastSeen     *time.Time
	HistoryCount int
	Latest       *Update
}
