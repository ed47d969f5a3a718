package engine

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/btree"

	"github.com/Dev-Redad/cosmo-v1/internal/domain"
	"github.com/Dev-Redad/cosmo-v1/internal/metrics"
	"github.com/Dev-Redad/cosmo-v1/internal/store"
)

// expiryItem is one tracked session in the expiry index.
type expiryItem struct {
	expireAt time.Time
	key      string
	session  *domain.OrderSession
}

// expiryLess orders the index by hard-expire time ascending, then session
// key, so Min() is always the next session due.
func expiryLess(a, b expiryItem) bool {
	if !a.expireAt.Equal(b.expireAt) {
		return a.expireAt.Before(b.expireAt)
	}
	return a.key < b.key
}

// Sweeper passively expires sessions whose hard expiry has passed with no
// payment, releasing their amount locks and requesting cleanup of any
// shown payment instructions. It also reclaims orphaned locks. Expiry is
// fire-and-forget: a session settled at the same moment its expiry fires
// is detected through the store delete and becomes a no-op.
type Sweeper struct {
	interval  time.Duration
	sessions  *store.SessionStore
	locks     *store.LockStore
	messenger Messenger
	logger    *slog.Logger

	mu   sync.Mutex // protects tree
	tree *btree.BTreeG[expiryItem]
}

// NewSweeper creates a Sweeper with the given housekeeping interval.
func NewSweeper(
	interval time.Duration,
	sessions *store.SessionStore,
	locks *store.LockStore,
	messenger Messenger,
	logger *slog.Logger,
) *Sweeper {
	const degree = 32
	return &Sweeper{
		interval:  interval,
		sessions:  sessions,
		locks:     locks,
		messenger: messenger,
		logger:    logger,
		tree:      btree.NewG[expiryItem](degree, expiryLess),
	}
}

// Track registers a session for expiry.
func (s *Sweeper) Track(sess *domain.OrderSession) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tree.ReplaceOrInsert(expiryItem{
		expireAt: sess.HardExpireAt,
		key:      sess.Key,
		session:  sess,
	})
}

// Start launches a background goroutine that ticks at the configured
// interval and expires due sessions. It stops when ctx is cancelled.
func (s *Sweeper) Start(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case t := <-ticker.C:
				s.tick(t)
			}
		}
	}()
}

// tick drains every index entry due at or before now and expires it,
// then reclaims any orphaned locks whose expiry has passed.
func (s *Sweeper) tick(now time.Time) {
	s.mu.Lock()
	var due []expiryItem
	for s.tree.Len() > 0 {
		item, _ := s.tree.Min()
		if item.expireAt.After(now) {
			break
		}
		s.tree.Delete(item)
		due = append(due, item)
	}
	s.mu.Unlock()

	for _, item := range due {
		s.expireSession(item.session)
	}

	// Locks not paired with a tracked session (reservation raced with a
	// failed session create, or released rows resurrected by manual
	// edits) converge here.
	for _, key := range s.locks.ExpireDue(now) {
		s.logger.Debug("reclaimed expired lock", slog.String("amount_key", key))
	}
}

// expireSession transitions one due session to expired. The store delete
// is the single-winner gate against a concurrent settlement.
func (s *Sweeper) expireSession(sess *domain.OrderSession) {
	if !s.sessions.Delete(sess.Key) {
		// Settled in the meantime.
		return
	}
	sess.Status = domain.SessionStatusExpired

	// The key may already have been lazily reclaimed by a newer
	// reservation, so only a lock expiring with this session is released.
	s.locks.ReleaseIfExpiredBy(sess.AmountKey, sess.HardExpireAt)

	if sess.InstructionHandle != "" {
		s.messenger.DeleteMessage(sess.DeliveryTarget, sess.InstructionHandle)
	}

	s.logger.Info("session expired",
		slog.String("session_key", sess.Key),
		slog.String("amount_key", sess.AmountKey),
	)
	metrics.SessionsExpiredTotal.Inc()
}

// TrackedCount returns the number of sessions currently in the expiry
// index. Useful for testing.
func (s *Sweeper) TrackedCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tree.Len()
}
