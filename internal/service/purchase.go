package service

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/google/uuid"

	"github.com/Dev-Redad/cosmo-v1/internal/domain"
	"github.com/Dev-Redad/cosmo-v1/internal/engine"
	"github.com/Dev-Redad/cosmo-v1/internal/metrics"
	"github.com/Dev-Redad/cosmo-v1/internal/store"
)

// StartPurchaseRequest represents the input for starting a purchase.
type StartPurchaseRequest struct {
	BuyerID        string
	DeliveryTarget string
	ItemID         string
}

// PurchaseResult is what the buyer-facing collaborator renders: either a
// free delivery confirmation or the payment instruction for a pending
// session.
type PurchaseResult struct {
	Free        bool
	SessionKey  string
	Instruction *PaymentInstruction
}

// PurchaseService creates order sessions: reserves a unique amount,
// selects the receiving account, shows payment instructions, and
// registers the session for expiry.
type PurchaseService struct {
	products  *store.ProductStore
	sessions  *store.SessionStore
	orders    *store.OrderStore
	ledger    *engine.AmountLedger
	selector  *engine.AccountSelector
	sweeper   *engine.Sweeper
	deliverer engine.Deliverer
	messenger Messenger

	payWindow    time.Duration
	gracePeriod  time.Duration
	cleanupDelay time.Duration

	// Bootstrap escape hatch used when the account pool is empty.
	defaultUpiID string
	payeeName    string

	logger *slog.Logger
	now    func() time.Time
}

// NewPurchaseService creates a PurchaseService with the given dependencies.
func NewPurchaseService(
	products *store.ProductStore,
	sessions *store.SessionStore,
	orders *store.OrderStore,
	ledger *engine.AmountLedger,
	selector *engine.AccountSelector,
	sweeper *engine.Sweeper,
	deliverer engine.Deliverer,
	messenger Messenger,
	payWindow time.Duration,
	gracePeriod time.Duration,
	cleanupDelay time.Duration,
	defaultUpiID string,
	payeeName string,
	logger *slog.Logger,
) *PurchaseService {
	return &PurchaseService{
		products:     products,
		sessions:     sessions,
		orders:       orders,
		ledger:       ledger,
		selector:     selector,
		sweeper:      sweeper,
		deliverer:    deliverer,
		messenger:    messenger,
		payWindow:    payWindow,
		gracePeriod:  gracePeriod,
		cleanupDelay: cleanupDelay,
		defaultUpiID: defaultUpiID,
		payeeName:    payeeName,
		logger:       logger,
		now:          time.Now,
	}
}

// StartPurchase begins a purchase for the given buyer and item. Free
// items are delivered immediately with no session; paid items get a
// unique amount, a receiving account, and a pending session whose window
// is the pay window plus a grace period for notification clock skew.
func (s *PurchaseService) StartPurchase(ctx context.Context, req StartPurchaseRequest) (*PurchaseResult, error) {
	if req.BuyerID == "" {
		return nil, &domain.ValidationError{Message: "buyer_id is required"}
	}
	if req.ItemID == "" {
		return nil, &domain.ValidationError{Message: "item_id is required"}
	}
	if req.DeliveryTarget == "" {
		req.DeliveryTarget = req.BuyerID
	}

	prod, err := s.products.Get(req.ItemID)
	if err != nil {
		return nil, err
	}

	if prod.IsFree() {
		return s.deliverFree(ctx, req, prod)
	}
	if prod.MaxPrice <= 0 {
		return nil, domain.ErrPriceNotSet
	}

	created := s.now()
	hardExpireAt := created.Add(s.payWindow).Add(s.gracePeriod)

	amount := s.ledger.PickUniqueAmount(prod.MinPrice, prod.MaxPrice, hardExpireAt)
	amountKey := domain.AmountKey(amount)

	accountID, err := s.selector.SelectAccount(amount)
	if err != nil {
		// Empty pool: never refuse the sale, route to the configured
		// default receiving account.
		s.logger.Warn("account pool empty, using default account",
			slog.String("default_upi_id", s.defaultUpiID),
		)
		metrics.SelectionsTotal.WithLabelValues("default").Inc()
		accountID = s.defaultUpiID
	}

	sessKey := fmt.Sprintf("%s:%s:%s", req.BuyerID, req.ItemID, uuid.NewString())

	instr := PaymentInstruction{
		DisplayAmount: domain.DisplayAmount(amount),
		AccountID:     accountID,
		PayeeName:     s.payeeName,
		UpiURI:        BuildUpiURI(accountID, s.payeeName, amount, "order_"+req.BuyerID),
		ExpiresAt:     hardExpireAt,
	}
	instr.QRImageURL = QRImageURL(instr.UpiURI)

	handle, err := s.messenger.ShowInstruction(req.DeliveryTarget, instr)
	if err != nil {
		s.logger.Warn("showing payment instruction failed",
			slog.String("target", req.DeliveryTarget),
			slog.String("error", err.Error()),
		)
	}

	sess := &domain.OrderSession{
		Key:               sessKey,
		BuyerID:           req.BuyerID,
		DeliveryTarget:    req.DeliveryTarget,
		ItemID:            req.ItemID,
		AmountPaise:       amount,
		AmountKey:         amountKey,
		AccountID:         accountID,
		Status:            domain.SessionStatusPending,
		CreatedAt:         created,
		HardExpireAt:      hardExpireAt,
		InstructionHandle: handle,
	}
	s.sessions.Create(sess)
	s.sweeper.Track(sess)

	s.logger.Info("purchase started",
		slog.String("session_key", sessKey),
		slog.String("amount_key", amountKey),
		slog.String("account_id", accountID),
		slog.Time("hard_expire_at", hardExpireAt),
	)

	return &PurchaseResult{SessionKey: sessKey, Instruction: &instr}, nil
}

// deliverFree handles the zero-price path: immediate delivery, an access
// record for channel items, no amount lock and no session.
func (s *PurchaseService) deliverFree(ctx context.Context, req StartPurchaseRequest, prod *domain.Product) (*PurchaseResult, error) {
	handles, err := s.deliverer.Deliver(ctx, req.BuyerID, req.ItemID)
	if err != nil {
		s.logger.Error("free delivery failed",
			slog.String("buyer_id", req.BuyerID),
			slog.String("item_id", req.ItemID),
			slog.String("error", err.Error()),
		)
		metrics.DeliveryFailuresTotal.Inc()
	}
	if len(handles) > 0 {
		s.messenger.ScheduleCleanup(req.DeliveryTarget, handles, s.cleanupDelay)
	}

	if prod.IsChannel() {
		s.orders.Upsert(&domain.Order{
			BuyerID:    req.BuyerID,
			ResourceID: prod.ResourceID,
			ItemID:     prod.ItemID,
			PaidAt:     s.now(),
			Status:     domain.OrderStatusFree,
		})
	}

	return &PurchaseResult{Free: true}, nil
}

// GetSession returns the session with the given key.
func (s *PurchaseService) GetSession(key string) (*domain.OrderSession, error) {
	return s.sessions.Get(key)
}

// BuildUpiURI assembles the upi://pay deep link for the given account,
// payee, and amount.
func BuildUpiURI(accountID, payeeName string, paise int64, note string) string {
	q := url.Values{}
	q.Set("pa", accountID)
	q.Set("pn", payeeName)
	q.Set("am", domain.DisplayAmount(paise))
	q.Set("cu", "INR")
	q.Set("tn", note)
	return "upi://pay?" + q.Encode()
}

// QRImageURL returns the external QR-rendering URL for the given payload.
// Image rendering itself stays outside this service.
func QRImageURL(data string) string {
	return "https://api.qrserver.com/v1/create-qr-code/?data=" + url.QueryEscape(data) + "&size=512x512&qzone=2"
}
