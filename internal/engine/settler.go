package engine

import (
	"context"
	"log/slog"
	"time"

	"github.com/Dev-Redad/cosmo-v1/internal/domain"
	"github.com/Dev-Redad/cosmo-v1/internal/metrics"
	"github.com/Dev-Redad/cosmo-v1/internal/store"
)

// Deliverer fulfills a paid order. It returns handles of any ephemeral
// messages it produced so the caller can schedule their cleanup.
// Delivery failures are per-recipient: the settler logs them and keeps
// going, they never roll back a settlement.
type Deliverer interface {
	Deliver(ctx context.Context, buyerID, itemID string) ([]string, error)
}

// Messenger is the external chat collaborator: it deletes transient
// payment-instruction messages and schedules deferred cleanup of
// delivered content.
type Messenger interface {
	DeleteMessage(target, handle string)
	ScheduleCleanup(target string, handles []string, after time.Duration)
}

// Settler matches parsed payment notifications to pending sessions and
// finalizes each matched session exactly once.
type Settler struct {
	parser       *NotificationParser
	sessions     *store.SessionStore
	products     *store.ProductStore
	orders       *store.OrderStore
	paylog       *store.PayLogStore
	ledger       *AmountLedger
	selector     *AccountSelector
	deliverer    Deliverer
	messenger    Messenger
	cleanupDelay time.Duration
	logger       *slog.Logger
}

// NewSettler creates a Settler with the given dependencies.
func NewSettler(
	parser *NotificationParser,
	sessions *store.SessionStore,
	products *store.ProductStore,
	orders *store.OrderStore,
	paylog *store.PayLogStore,
	ledger *AmountLedger,
	selector *AccountSelector,
	deliverer Deliverer,
	messenger Messenger,
	cleanupDelay time.Duration,
	logger *slog.Logger,
) *Settler {
	return &Settler{
		parser:       parser,
		sessions:     sessions,
		products:     products,
		orders:       orders,
		paylog:       paylog,
		ledger:       ledger,
		selector:     selector,
		deliverer:    deliverer,
		messenger:    messenger,
		cleanupDelay: cleanupDelay,
		logger:       logger,
	}
}

// HandleNotification processes one forwarded payment notification.
// Nothing in here is fatal: a malformed notification, a missing session,
// or a delivery failure is logged and isolated so the next notification
// is unaffected.
func (s *Settler) HandleNotification(ctx context.Context, rawText string, ts time.Time) {
	// Step 1: Gate. Irrelevant channel traffic never reaches the parser.
	if !s.parser.Gate(rawText) {
		return
	}

	// Step 2/3: Normalize and extract the amount.
	paise, ok := s.parser.ExtractAmount(rawText)
	if !ok {
		metrics.SettlementsTotal.WithLabelValues("parse_miss").Inc()
		return
	}
	key := domain.AmountKey(paise)

	// Step 4: Audit trail, independent of match outcome.
	raw := rawText
	if len(raw) > 500 {
		raw = raw[:500]
	}
	s.paylog.Append(domain.PaymentLogEntry{AmountKey: key, Timestamp: ts, RawText: raw})

	// Step 5: Match pending sessions by amount key and validity window.
	matched := s.sessions.ListByAmountKey(key, ts)
	if len(matched) == 0 {
		// Money may have been sent for an expired or foreign order:
		// manual reconciliation against the payment log.
		s.logger.Warn("no matching session for payment",
			slog.String("amount_key", key),
			slog.Time("ts", ts),
		)
		metrics.SettlementsTotal.WithLabelValues("no_session").Inc()
		return
	}

	// In correct operation this loop runs once. More than one match means
	// a reclaimed amount key (clock anomaly, manual edit); each matched
	// session is a legitimately paid order, so all of them settle.
	for _, sess := range matched {
		s.settle(ctx, sess, ts)
	}
}

// settle finalizes one matched session: claims it, delivers, records
// account usage, releases the amount lock, and schedules cleanup.
func (s *Settler) settle(ctx context.Context, sess *domain.OrderSession, ts time.Time) {
	// Claim the session. Delete returns false if expiry (or a concurrent
	// settlement of a replayed notification) got there first, making the
	// whole settlement a no-op.
	if !s.sessions.Delete(sess.Key) {
		return
	}
	sess.Status = domain.SessionStatusPaid

	// The payment-instruction message is obsolete the moment payment lands.
	if sess.InstructionHandle != "" {
		s.messenger.DeleteMessage(sess.DeliveryTarget, sess.InstructionHandle)
	}

	handles, err := s.deliverer.Deliver(ctx, sess.BuyerID, sess.ItemID)
	if err != nil {
		s.logger.Error("delivery failed",
			slog.String("session_key", sess.Key),
			slog.String("buyer_id", sess.BuyerID),
			slog.String("error", err.Error()),
		)
		metrics.DeliveryFailuresTotal.Inc()
	}

	// Channel products get an access record for join-request approval.
	if prod, err := s.products.Get(sess.ItemID); err == nil && prod.IsChannel() {
		s.orders.Upsert(&domain.Order{
			BuyerID:    sess.BuyerID,
			ResourceID: prod.ResourceID,
			ItemID:     sess.ItemID,
			PaidAt:     ts,
			Status:     domain.OrderStatusPaid,
		})
	}

	// Exactly once per settled order.
	s.selector.RecordUsage(sess.AccountID)
	s.selector.RecordAmount(sess.AccountID, sess.AmountPaise)

	// The amount is reusable the instant the lock is gone. A backdated
	// notification can settle after the wall clock passed the session's
	// expiry, so only a lock still owned by this session is released.
	s.ledger.ReleaseOwned(sess.AmountKey, sess.HardExpireAt)

	if len(handles) > 0 {
		s.messenger.ScheduleCleanup(sess.DeliveryTarget, handles, s.cleanupDelay)
	}

	s.logger.Info("session settled",
		slog.String("session_key", sess.Key),
		slog.String("amount_key", sess.AmountKey),
		slog.String("account_id", sess.AccountID),
	)
	metrics.SettlementsTotal.WithLabelValues("paid").Inc()
}
