package session

import (
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/hovde/livelink/internal/observability"
	"github.com/hovde/livelink/pkg/token"
)

// PersistPolicy decides what an operation does when the durable write
// behind it fails. The snapshot rename is atomic either way, so the
// previous file is never corrupted.
type PersistPolicy string

const (
	// PersistDegrade logs the failure and keeps serving from memory.
	PersistDegrade PersistPolicy = "degrade"

	// PersistStrict surfaces the failure to the caller. The in-memory
	// mutation still stands.
	PersistStrict PersistPolicy = "strict"
)

// StoreOptions configures a session store.
type StoreOptions struct {
	// StateFile is the durable snapshot path. Empty means memory-only.
	StateFile string

	// TTL is the session lifetime. Defaults to DefaultTTL.
	TTL time.Duration

	// MaxUpdates bounds per-session history. Defaults to DefaultMaxUpdates.
	MaxUpdates int

	// PersistPolicy defaults to PersistDegrade.
	PersistPolicy PersistPolicy

	// Now overrides the clock, for tests.
	Now func() time.Time

	Logger *zerolog.Logger
}

// Store is the concurrent, time-bounded, durably-persisted session
// container. One store-wide mutex guards the mapping: every operation
// is a read-modify-write that may snapshot the whole mapping, so the
// store is the unit of locking.
type Store struct {
	mu       sync.Mutex
	sessions map[string]*Session

	ttl        time.Duration
	maxUpdates int
	policy     PersistPolicy
	now        func() time.Time
	snapshot   *snapshotFile
	logger     zerolog.Logger
}

// NewStore creates a store, adopting whatever sessions the snapshot
// file holds. A missing or malformed file starts the store empty.
func NewStore(opts StoreOptions) (*Store, error) {
	observability.EnsureRegistered()

	if opts.TTL <= 0 {
		opts.TTL = DefaultTTL
	}
	if opts.MaxUpdates <= 0 {
		opts.MaxUpdates = DefaultMaxUpdates
	}
	if opts.PersistPolicy == "" {
		opts.PersistPolicy = PersistDegrade
	}
	if opts.PersistPolicy != PersistDegrade && opts.PersistPolicy != PersistStrict {
		return nil, fmt.Errorf("session: unknown persist policy %q", opts.PersistPolicy)
	}
	nowFn := opts.Now
	if nowFn == nil {
		nowFn = time.Now
	}
	logger := log.Logger
	if opts.Logger != nil {
		logger = *opts.Logger
	}
	logger = logger.With().Str("component", "session-store").Logger()

	s := &Store{
		sessions:   make(map[string]*Session),
		ttl:        opts.TTL,
		maxUpdates: opts.MaxUpdates,
		policy:     opts.PersistPolicy,
		now:        nowFn,
		logger:     logger,
	}

	if opts.StateFile != "" {
		s.snapshot = newSnapshotFile(opts.StateFile, logger)

		start := time.Now()
		loaded, err := s.snapshot.Load(s.maxUpdates)
		observability.RecordSnapshotLoad(time.Since(start))
		if err != nil {
			return nil, fmt.Errorf("session: %w", err)
		}
		s.sessions = loaded
	}

	observability.SetActiveSessions(len(s.sessions))
	logger.Info().
		Int("sessions", len(s.sessions)).
		Dur("ttl", s.ttl).
		Int("max_updates", s.maxUpdates).
		Msg("Session store initialized")

	return s, nil
}

// TTL returns the configured session lifetime.
func (s *Store) TTL() time.Duration {
	return s.ttl
}

// Create mints a new session and returns its token and expiry. A token
// collision is treated as a generation anomaly and retried, not
// surfaced.
func (s *Store) Create() (string, time.Time, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var tok string
	for {
		t, err := token.New()
		if err != nil {
			return "", time.Time{}, err
		}
		if _, exists := s.sessions[t]; !exists {
			tok = t
			break
		}
		s.logger.Warn().Msg("Token collision, regenerating")
	}

	now := s.now()
	sess := &Session{
		Token:     tok,
		CreatedAt: now,
		ExpiresAt: now.Add(s.ttl),
		Updates:   NewUpdateBuffer(s.maxUpdates),
	}
	s.sessions[tok] = sess

	observability.RecordSessionCreated()
	observability.SetActiveSessions(len(s.sessions))
	s.logger.Info().Str("token", tok).Time("expires_at", sess.ExpiresAt).Msg("Session created")

	if err := s.persistLocked(); err != nil {
		return tok, sess.ExpiresAt, err
	}
	return tok, sess.ExpiresAt, nil
}

// Get returns a point-in-time copy of a live session, including its
// full ordered update history.
func (s *Store) Get(tok string) (View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.ensureLiveLocked(tok)
	if err != nil {
		return View{}, err
	}
	return View{
		Token:     sess.Token,
		CreatedAt: sess.CreatedAt,
		ExpiresAt: sess.ExpiresAt,
		LastSeen:  copyTime(sess.LastSeen),
		Updates:   sess.Updates.Snapshot(),
	}, nil
}

// Append validates and ingests one update for a live session. The
// update timestamp is assigned here; the buffer evicts its oldest entry
// when full.
func (s *Store) Append(tok string, u Update) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.ensureLiveLocked(tok)
	if err != nil {
		return err
	}

	if !u.hasPayload() {
		observability.RecordUpdateRejected()
		return ErrInvalidPayload
	}

	now := s.now()
	u.TS = now
	sess.Updates.Append(u)
	sess.LastSeen = &now

	observability.RecordUpdateIngested(updateKind(u))
	s.logger.Debug().
		Str("token", tok).
		Bool("location", u.Location != nil).
		Bool("frame", u.Frame != nil).
		Int("history", sess.Updates.Len()).
		Msg("Update appended")

	return s.persistLocked()
}

// Close removes a session unconditionally. No expiry check: removal is
// removal.
func (s *Store) Close(tok string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.sessions[tok]; !exists {
		return ErrNotFound
	}
	delete(s.sessions, tok)

	observability.RecordSessionClosed()
	observability.SetActiveSessions(len(s.sessions))
	s.logger.Info().Str("token", tok).Msg("Session closed")

	return s.persistLocked()
}

// Status summarizes a live session for the polling monitor.
func (s *Store) Status(tok string) (Status, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.ensureLiveLocked(tok)
	if err != nil {
		return Status{}, err
	}

	st := Status{
		Token:        sess.Token,
		CreatedAt:    sess.CreatedAt,
		ExpiresAt:    sess.ExpiresAt,
		LastSeen:     copyTime(sess.LastSeen),
		HistoryCount: sess.Updates.Len(),
	}
	if latest, ok := sess.Updates.Latest(); ok {
		st.Latest = &latest
	}
	return st, nil
}

// ensureLiveLocked resolves a token to a live session. The expiry check
// here is the only expiry mechanism: a session whose TTL elapsed is
// removed on the access that discovers it. The comparison is strictly
// now > expires_at, so a clock restored backward across restarts never
// evicts early.
func (s *Store) ensureLiveLocked(tok string) (*Session, error) {
	sess, exists := s.sessions[tok]
	if !exists {
		return nil, ErrNotFound
	}

	if s.now().After(sess.ExpiresAt) {
		delete(s.sessions, tok)
		observability.RecordSessionExpired()
		observability.SetActiveSessions(len(s.sessions))
		s.logger.Info().Str("token", tok).Time("expires_at", sess.ExpiresAt).Msg("Session expired")

		if err := s.persistLocked(); err != nil {
			s.logger.Error().Err(err).Msg("Failed to persist expiry eviction")
		}
		return nil, ErrExpired
	}
	return sess, nil
}

// persistLocked snapshots the whole mapping. Under the degrade policy a
// write failure is logged and the store keeps serving from memory.
func (s *Store) persistLocked() error {
	if s.snapshot == nil {
		return nil
	}

	start := time.Now()
	err := s.snapshot.Save(s.sessions)
	observability.RecordSnapshotSave(time.Since(start), err == nil)
	if err == nil {
		return nil
	}

	s.logger.Error().Err(err).Msg("Failed to persist session snapshot")
	if s.policy == PersistStrict {
		return fmt.Errorf("session: persist failed: %w", err)
	}
	return nil
}

func updateKind(u Update) string {
	switch {
	case u.Location != nil && u.Frame != nil:
		return "both"
	case u.Frame != nil:
		return "frame"
	default:
		return "location"
	}
}

func copyTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	c := *t
	return &c
}
