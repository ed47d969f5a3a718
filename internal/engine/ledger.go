package engine

import (
	"time"

	"github.com/Dev-Redad/cosmo-v1/internal/domain"
	"github.com/Dev-Redad/cosmo-v1/internal/metrics"
	"github.com/Dev-Redad/cosmo-v1/internal/store"
)

// AmountLedger hands out unique payment amounts. Uniqueness of the amount
// is the only correlation signal available once a free-text notification
// arrives, so no two live sessions may ever share an amount key. The
// guarantee rests entirely on the lock store's atomic insert-if-absent;
// there is no read-then-write anywhere in the reservation path.
type AmountLedger struct {
	locks *store.LockStore
	rnd   *Rand
	now   func() time.Time
}

// NewAmountLedger creates an AmountLedger over the given lock store.
func NewAmountLedger(locks *store.LockStore, rnd *Rand) *AmountLedger {
	return &AmountLedger{
		locks: locks,
		rnd:   rnd,
		now:   time.Now,
	}
}

// Reserve attempts to lock the given amount key until hardExpireAt.
// It returns false on conflict with a live lock.
func (l *AmountLedger) Reserve(key string, hardExpireAt time.Time) bool {
	if l.locks.Reserve(key, hardExpireAt, l.now()) {
		metrics.ReservationsTotal.WithLabelValues("reserved").Inc()
		return true
	}
	metrics.ReservationsTotal.WithLabelValues("conflict").Inc()
	return false
}

// Release frees the lock for key, making the amount assignable to a new
// buyer immediately.
func (l *AmountLedger) Release(key string) {
	l.locks.Release(key)
}

// ReleaseOwned frees the lock for key only when it is the one the
// finishing session reserved, identified by its hard expiry. A newer
// lock that reclaimed the key after this session's lock lapsed is left
// in place.
func (l *AmountLedger) ReleaseOwned(key string, hardExpireAt time.Time) {
	l.locks.ReleaseIfExpiredBy(key, hardExpireAt)
}

// PickUniqueAmount reserves and returns a paise amount in
// [lowPaise, highPaise] that no live session holds. Whole-rupee values
// are tried first in uniformly random order so amount sequences are not
// predictable across buyers; when every integer is taken, two-decimal
// variants of each integer (base.01 through base.99) are tried in the same
// integer order with sequential cent suffixes.
//
// When the entire candidate space is exhausted the last integer candidate
// is returned unreserved. That amount can collide with a live session and
// exists only so a pathologically undersized amount range degrades a sale
// instead of refusing it.
func (l *AmountLedger) PickUniqueAmount(lowPaise, highPaise int64, hardExpireAt time.Time) int64 {
	lo := lowPaise / 100
	hi := highPaise / 100
	if hi < lo {
		lo, hi = hi, lo
	}

	ints := make([]int64, 0, hi-lo+1)
	for v := lo; v <= hi; v++ {
		ints = append(ints, v)
	}
	l.rnd.Shuffle(len(ints), func(i, j int) {
		ints[i], ints[j] = ints[j], ints[i]
	})

	for _, v := range ints {
		if l.Reserve(domain.AmountKey(v*100), hardExpireAt) {
			return v * 100
		}
	}

	// Integer space exhausted: fall back to cent variants.
	for _, base := range ints {
		for cent := int64(1); cent <= 99; cent++ {
			paise := base*100 + cent
			if l.Reserve(domain.AmountKey(paise), hardExpireAt) {
				return paise
			}
		}
	}

	// Degraded last resort: the whole space is held.
	metrics.ReservationsTotal.WithLabelValues("exhausted").Inc()
	return ints[len(ints)-1] * 100
}
