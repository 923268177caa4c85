package ledger

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/growops/backend/internal/domain/inventory"
	"github.com/growops/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// LotExpirationService sweeps lots past their expiration date and moves
// them out of the consumable pool. Expired lots keep their quantity on
// the books until a waste movement writes them off; the sweep only
// changes the lot status so FIFO planning stops selecting them.
type LotExpirationService struct {
	itemRepo inventory.InventoryItemRepository
	logger   *zap.Logger
}

// NewLotExpirationService creates a new LotExpirationService
func NewLotExpirationService(itemRepo inventory.InventoryItemRepository, logger *zap.Logger) *LotExpirationService {
	return &LotExpirationService{
		itemRepo: itemRepo,
		logger:   logger,
	}
}

// ExpirationStats contains statistics about one expiration sweep
type ExpirationStats struct {
	TotalFound  int       `json:"total_found"`
	Expired     int       `json:"expired"`
	Failed      int       `json:"failed"`
	ProcessedAt time.Time `json:"processed_at"`
}

// ExpireLots marks all of a tenant's overdue lots as expired
func (s *LotExpirationService) ExpireLots(ctx context.Context, tenantID uuid.UUID) (*ExpirationStats, error) {
	stats := &ExpirationStats{ProcessedAt: time.Now()}

	lots, err := s.itemRepo.FindExpiring(ctx, tenantID, time.Now(), shared.DefaultFilter())
	if err != nil {
		s.logger.Error("Failed to find expiring lots", zap.Error(err))
		return nil, err
	}

	stats.TotalFound = len(lots)
	if stats.TotalFound == 0 {
		s.logger.Debug("No expired lots found", zap.String("tenant_id", tenantID.String()))
		return stats, nil
	}

	for i := range lots {
		lot := &lots[i]
		if lot.LotStatus != inventory.LotStatusAvailable {
			continue
		}
		lot.MarkExpired()
		if err := s.itemRepo.SaveWithLock(ctx, lot); err != nil {
			s.logger.Error("Failed to expire lot",
				zap.String("inventory_item_id", lot.ID.String()),
				zap.String("batch_number", lot.BatchNumber),
				zap.Error(err),
			)
			stats.Failed++
			continue
		}
		stats.Expired++
		s.logger.Debug("Expired lot",
			zap.String("inventory_item_id", lot.ID.String()),
			zap.String("batch_number", lot.BatchNumber),
			zap.String("quantity", lot.QuantityAvailable.String()),
		)
	}

	s.logger.Info("Completed lot expiration sweep",
		zap.String("tenant_id", tenantID.String()),
		zap.Int("found", stats.TotalFound),
		zap.Int("expired", stats.Expired),
		zap.Int("failed", stats.Failed),
	)
	return stats, nil
}

// CountExpired returns how many available lots are past their
// expiration date
func (s *LotExpirationService) CountExpired(ctx context.Context, tenantID uuid.UUID) (int, error) {
	lots, err := s.itemRepo.FindExpiring(ctx, tenantID, time.Now(), shared.DefaultFilter())
	if err != nil {
		return 0, err
	}
	count := 0
	for i := range lots {
		if lots[i].LotStatus == inventory.LotStatusAvailable {
			count++
		}
	}
	return count, nil
}
