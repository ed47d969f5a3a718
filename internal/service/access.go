package service

import (
	"log/slog"

	"github.com/Dev-Redad/cosmo-v1/internal/store"
)

// AccessService decides join-request approvals for gated resources: a
// buyer is approved only when a paid or free order exists for that
// (buyer, resource) pair.
type AccessService struct {
	orders *store.OrderStore
	logger *slog.Logger
}

// NewAccessService creates an AccessService.
func NewAccessService(orders *store.OrderStore, logger *slog.Logger) *AccessService {
	return &AccessService{orders: orders, logger: logger}
}

// HandleJoinRequest reports whether the buyer may join the resource.
func (s *AccessService) HandleJoinRequest(buyerID, resourceID string) bool {
	_, err := s.orders.Get(buyerID, resourceID)
	approved := err == nil
	s.logger.Info("join request",
		slog.String("buyer_id", buyerID),
		slog.String("resource_id", resourceID),
		slog.Bool("approved", approved),
	)
	return approved
}
