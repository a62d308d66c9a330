package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/nguyentantai21042004/audio-brief/internal/logger"
	"github.com/nguyentantai21042004/audio-brief/internal/summarizer"
)

// Store keeps the sessions of the hosted variant, keyed by a random ID.
type Store struct {
	summarizer summarizer.Summarizer
	opts       Options
	logger     logger.Logger

	mu       sync.RWMutex
	sessions map[string]*Session
}

func NewStore(s summarizer.Summarizer, opts Options, log logger.Logger) *Store {
	return &Store{
		summarizer: s,
		opts:       opts,
		logger:     log,
		sessions:   make(map[string]*Session),
	}
}

func (st *Store) Create() *Session {
	sess := New(uuid.NewString(), st.summarizer, st.opts, st.logger)

	st.mu.Lock()
	st.sessions[sess.ID()] = sess
	st.mu.Unlock()
	return sess
}

func (st *Store) Get(id string) (*Session, error) {
	st.mu.RLock()
	defer st.mu.RUnlock()
	sess, ok := st.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	return sess, nil
}

// Delete closes and forgets a session.
func (st *Store) Delete(ctx context.Context, id string) error {
	st.mu.Lock()
	sess, ok := st.sessions[id]
	delete(st.sessions, id)
	st.mu.Unlock()

	if !ok {
		return ErrNotFound
	}
	sess.Close(ctx)
	return nil
}

func (st *Store) Len() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.sessions)
}

// Sweep removes sessions idle for longer than ttl and returns how many
// were dropped. Sessions with a request in flight are kept.
func (st *Store) Sweep(ctx context.Context, ttl time.Duration, now time.Time) int {
	var expired []*Session

	st.mu.Lock()
	for id, sess := range st.sessions {
		last, idle := sess.idleSince()
		if idle && now.Sub(last) > ttl {
			expired = append(expired, sess)
			delete(st.sessions, id)
		}
	}
	st.mu.Unlock()

	for _, sess := range expired {
		sess.Close(ctx)
	}
	if len(expired) > 0 {
		st.logger.Info(ctx, "Expired %d idle session(s)", len(expired))
	}
	return len(expired)
}

// Run sweeps every interval until ctx is done, then closes all sessions.
func (st *Store) Run(ctx context.Context, ttl, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			st.closeAll(context.Background())
			return
		case now := <-ticker.C:
			st.Sweep(ctx, ttl, now)
		}
	}
}

func (st *Store) closeAll(ctx context.Context) {
	st.mu.Lock()
	sessions := st.sessions
	st.sessions = make(map[string]*Session)
	st.mu.Unlock()

	for _, sess := range sessions {
		sess.Close(ctx)
	}
}
