package session

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
)

// timeLayout is the on-disk timestamp format: lossless, sortable, and
// readable by humans.
const timeLayout = time.RFC3339Nano

// sessionRecord is the durable form of one session. Timestamps are kept
// as strings so a record with an unparsable instant can be skipped
// without aborting the whole load.
type sessionRecord struct {
	Token     string   `json:"token"`
	CreatedAt string   `json:"created_at"`
	ExpiresAt string   `json:"expires_at"`
	LastSeen  *string  `json:"last_seen"`
	Updates   []Update `json:"updates"`
}

// snapshotFile mirrors the whole store to a single JSON file, replaced
// atomically on every save. All methods are called with the store lock
// held.
type snapshotFile struct {
	path   string
	logger zerolog.Logger
}

func newSnapshotFile(path string, logger zerolog.Logger) *snapshotFile {
	return &snapshotFile{
		path:   path,
		logger: logger.With().Str("component", "snapshot").Logger(),
	}
}

// Load reads the durable file and rebuilds the session mapping. A
// missing file means no sessions. A malformed file, or any record with
// missing fields or unparsable timestamps, degrades to fewer recovered
// sessions rather than an error.
func (f *snapshotFile) Load(maxUpdates int) (map[string]*Session, error) {
	sessions := make(map[string]*Session)

	data, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return sessions, nil
		}
		return nil, fmt.Errorf("failed to read snapshot file: %w", err)
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		f.logger.Warn().Err(err).Str("path", f.path).Msg("Snapshot file unparsable, starting empty")
		return sessions, nil
	}

	for tok, payload := range raw {
		sess, err := decodeRecord(tok, payload, maxUpdates)
		if err != nil {
			f.logger.Warn().Str("token", tok).Err(err).Msg("Skipping corrupt session record")
			continue
		}
		sessions[tok] = sess
	}

	f.logger.Debug().Int("sessions", len(sessions)).Msg("Snapshot loaded")
	return sessions, nil
}

func decodeRecord(tok string, payload json.RawMessage, maxUpdates int) (*Session, error) {
	var rec sessionRecord
	if err := json.Unmarshal(payload, &rec); err != nil {
		return nil, fmt.Errorf("failed to parse record: %w", err)
	}
	if rec.CreatedAt == "" || rec.ExpiresAt == "" {
		return nil, fmt.Errorf("record is missing required timestamps")
	}

	createdAt, err := time.Parse(timeLayout, rec.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("unparsable created_at: %w", err)
	}
	expiresAt, err := time.Parse(timeLayout, rec.ExpiresAt)
	if err != nil {
		return nil, fmt.Errorf("unparsable expires_at: %w", err)
	}

	var lastSeen *time.Time
	if rec.LastSeen != nil {
		ls, err := time.Parse(timeLayout, *rec.LastSeen)
		if err != nil {
			return nil, fmt.Errorf("unparsable last_seen: %w", err)
		}
		lastSeen = &ls
	}

	buf := NewUpdateBuffer(maxUpdates)
	for _, u := range rec.Updates {
		buf.Append(u)
	}

	return &Session{
		Token:     tok,
		CreatedAt: createdAt,
		ExpiresAt: expiresAt,
		LastSeen:  lastSeen,
		Updates:   buf,
	}, nil
}

// Save serializes every session to a sibling temp file, syncs it, and
// atomically renames it over the durable path. A crash mid-write leaves
// the previous file intact.
func (f *snapshotFile) Save(sessions map[string]*Session) error {
	serializable := make(map[string]sessionRecord, len(sessions))
	for tok, sess := range sessions {
		serializable[tok] = encodeRecord(sess)
	}

	data, err := json.Marshal(serializable)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(f.path), 0700); err != nil {
		return fmt.Errorf("failed to create snapshot directory: %w", err)
	}

	tmpPath := f.path + ".tmp"
	file, err := os.OpenFile(tmpPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}

	if _, err := file.Write(data); err != nil {
		file.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write snapshot: %w", err)
	}

	if err := file.Sync(); err != nil {
		file.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to sync snapshot: %w", err)
	}

	if err := file.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	// Atomic replace
	if err := os.Rename(tmpPath, f.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to replace snapshot file: %w", err)
	}

	return nil
}

func encodeRecord(sess *Session) sessionRecord {
	var lastSeen *string
	if sess.LastSeen != nil {
		s := sess.LastSeen.Format(timeLayout)
		lastSeen = &s
	}
	return sessionRecord{
		Token:     sess.Token,
		CreatedAt: sess.CreatedAt.Format(timeLayout),
		ExpiresAt: sess.ExpiresAt.Format(timeLayout),
		LastSeen:  lastSeen,
		Updates:   sess.Updates.Snapshot(),
	}
}
