package session

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSnapshot(t *testing.T) *snapshotFile {
	t.Helper()
	return newSnapshotFile(filepath.Join(t.TempDir(), "state.json"), zerolog.Nop())
}

func TestSnapshot_MissingFileIsEmpty(t *testing.T) {
	f := testSnapshot(t)

	sessions, err := f.Load(DefaultMaxUpdates)
	require.NoError(t, err)
	assert.Empty(t, sessions)
}

func TestSnapshot_MalformedFileIsEmpty(t *testing.T) {
	f := testSnapshot(t)
	require.NoError(t, os.WriteFile(f.path, []byte("{not json"), 0600))

	sessions, err := f.Load(DefaultMaxUpdates)
	require.NoError(t, err)
	assert.Empty(t, sessions)
}

func TestSnapshot_SkipsCorruptRecords(t *testing.T) {
	f := testSnapshot(t)

	// One valid record, one with an unparsable timestamp, one missing
	// its required fields
	raw := map[string]any{
		"good": map[string]any{
			"token":      "good",
			"created_at": "2026-03-15T12:00:00Z",
			"expires_at": "2026-03-15T13:00:00Z",
			"last_seen":  nil,
			"updates":    []any{},
		},
		"badtime": map[string]any{
			"token":      "badtime",
			"created_at": "yesterday-ish",
			"expires_at": "2026-03-15T13:00:00Z",
			"updates":    []any{},
		},
		"missing": map[string]any{
			"token": "missing",
		},
	}
	data, err := json.Marshal(raw)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(f.path, data, 0600))

	sessions, err := f.Load(DefaultMaxUpdates)
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	require.Contains(t, sessions, "good")
	assert.Equal(t, "good", sessions["good"].Token)
	assert.Equal(t, 0, sessions["good"].Updates.Len())
}

func TestSnapshot_SaveLoadRoundTrip(t *testing.T) {
	f := testSnapshot(t)

	createdAt := time.Date(2026, 3, 15, 12, 0, 0, 123456789, time.UTC)
	lastSeen := createdAt.Add(90 * time.Second)
	lat, lng := 59.9139, 10.7522
	ua := "Mozilla/5.0"

	buf := NewUpdateBuffer(DefaultMaxUpdates)
	buf.Append(Update{
		TS:       lastSeen,
		Location: &Location{Lat: &lat, Lng: &lng},
		Meta:     Meta{UserAgent: &ua},
	})

	sessions := map[string]*Session{
		"abc123": {
			Token:     "abc123",
			CreatedAt: createdAt,
			ExpiresAt: createdAt.Add(time.Hour),
			LastSeen:  &lastSeen,
			Updates:   buf,
		},
	}

	require.NoError(t, f.Save(sessions))

	loaded, err := f.Load(DefaultMaxUpdates)
	require.NoError(t, err)
	require.Len(t, loaded, 1)

	sess := loaded["abc123"]
	require.NotNil(t, sess)
	assert.True(t, sess.CreatedAt.Equal(createdAt), "created_at must round-trip losslessly")
	assert.True(t, sess.ExpiresAt.Equal(createdAt.Add(time.Hour)))
	require.NotNil(t, sess.LastSeen)
	assert.True(t, sess.LastSeen.Equal(lastSeen))

	require.Equal(t, 1, sess.Updates.Len())
	u, ok := sess.Updates.Latest()
	require.True(t, ok)
	assert.True(t, u.TS.Equal(lastSeen))
	require.NotNil(t, u.Location)
	assert.Equal(t, lat, *u.Location.Lat)
	assert.Equal(t, lng, *u.Location.Lng)
	assert.Nil(t, u.Location.Accuracy)
	assert.Equal(t, ua, *u.Meta.UserAgent)
	assert.Nil(t, u.Meta.TZOffsetMinutes)
}

func TestSnapshot_NullsAreExplicit(t *testing.T) {
	f := testSnapshot(t)

	sessions := map[string]*Session{
		"tok": {
			Token:     "tok",
			CreatedAt: time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC),
			ExpiresAt: time.Date(2026, 3, 15, 13, 0, 0, 0, time.UTC),
			Updates:   NewUpdateBuffer(DefaultMaxUpdates),
		},
	}
	require.NoError(t, f.Save(sessions))

	data, err := os.ReadFile(f.path)
	require.NoError(t, err)

	var raw map[string]map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &raw))

	// An unset last_seen is serialized as an explicit null, not omitted
	lastSeen, ok := raw["tok"]["last_seen"]
	require.True(t, ok)
	assert.Equal(t, "null", string(lastSeen))
}

func TestSnapshot_SaveReplacesAtomically(t *testing.T) {
	f := testSnapshot(t)

	require.NoError(t, f.Save(map[string]*Session{}))

	// No temp file left behind after a successful save
	_, err := os.Stat(f.path + ".tmp")
	assert.True(t, os.IsNotExist(err))

	_, err = os.Stat(f.path)
	assert.NoError(t, err)
}

func TestSnapshot_FailedSaveKeepsPreviousFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "state.json")
	f := newSnapshotFile(path, zerolog.Nop())

	require.NoError(t, f.Save(map[string]*Session{}))
	previous, err := os.ReadFile(path)
	require.NoError(t, err)

	// Redirect the snapshot under a regular file so the write fails
	blocker := filepath.Join(dir, "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0600))
	broken := newSnapshotFile(filepath.Join(blocker, "state.json"), zerolog.Nop())
	assert.Error(t, broken.Save(map[string]*Session{}))

	current, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, previous, current)
}
