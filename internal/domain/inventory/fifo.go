package inventory

import (
	"sort"

	"github.com/google/uuid"
	"github.com/growops/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// LotDeduction is one lot's share of a planned consumption
type LotDeduction struct {
	ItemID         uuid.UUID
	BatchNumber    string
	Quantity       decimal.Decimal
	QuantityBefore decimal.Decimal
	QuantityAfter  decimal.Decimal
	CostPerUnit    decimal.Decimal
	TotalCost      decimal.Decimal
	FullyConsumed  bool
}

// ConsumptionPlan is the result of planning a decrease movement across
// one or more lots. The plan is computed before any lot is mutated; a
// shortfall means nothing is applied.
type ConsumptionPlan struct {
	Deductions          []LotDeduction
	TotalDeducted       decimal.Decimal
	TotalCost           decimal.Decimal
	WeightedAverageCost decimal.Decimal
	Shortfall           decimal.Decimal
	FullyFulfilled      bool
}

// PlanFIFOConsumption plans a decrease of requestedQuantity across the
// given lots, oldest received date first. Lots that are not consumable
// (terminal, non-available status, empty) are skipped. Returns an
// InsufficientStockError when the consumable lots cannot cover the
// request; in that case no plan is returned and no lot may be mutated.
func PlanFIFOConsumption(requestedQuantity decimal.Decimal, lots []*InventoryItem) (*ConsumptionPlan, error) {
	if requestedQuantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Requested quantity must be positive")
	}

	consumable := make([]*InventoryItem, 0, len(lots))
	for _, lot := range lots {
		if lot.IsConsumable() {
			consumable = append(consumable, lot)
		}
	}

	sort.SliceStable(consumable, func(a, b int) bool {
		if consumable[a].ReceivedDate.Equal(consumable[b].ReceivedDate) {
			return consumable[a].CreatedAt.Before(consumable[b].CreatedAt)
		}
		return consumable[a].ReceivedDate.Before(consumable[b].ReceivedDate)
	})

	return planDeductions(requestedQuantity, consumable)
}

// PlanSpecificConsumption plans a decrease against exactly one lot
func PlanSpecificConsumption(requestedQuantity decimal.Decimal, lot *InventoryItem) (*ConsumptionPlan, error) {
	if requestedQuantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Requested quantity must be positive")
	}
	if !lot.IsConsumable() || !lot.CanFulfill(requestedQuantity) {
		available := decimal.Zero
		if lot.IsConsumable() {
			available = lot.QuantityAvailable
		}
		return nil, NewInsufficientStockError(available, requestedQuantity)
	}
	return planDeductions(requestedQuantity, []*InventoryItem{lot})
}

// planDeductions walks already-sorted lots and accumulates the plan
func planDeductions(requestedQuantity decimal.Decimal, lots []*InventoryItem) (*ConsumptionPlan, error) {
	remaining := requestedQuantity
	deductions := make([]LotDeduction, 0, len(lots))
	totalDeducted := decimal.Zero
	totalCost := decimal.Zero

	for _, lot := range lots {
		if remaining.IsZero() {
			break
		}

		deduct := decimal.Min(remaining, lot.QuantityAvailable)
		after := lot.QuantityAvailable.Sub(deduct)
		cost := deduct.Mul(lot.CostPerUnit)

		deductions = append(deductions, LotDeduction{
			ItemID:         lot.ID,
			BatchNumber:    lot.BatchNumber,
			Quantity:       deduct,
			QuantityBefore: lot.QuantityAvailable,
			QuantityAfter:  after,
			CostPerUnit:    lot.CostPerUnit,
			TotalCost:      cost,
			FullyConsumed:  after.IsZero(),
		})

		totalDeducted = totalDeducted.Add(deduct)
		totalCost = totalCost.Add(cost)
		remaining = remaining.Sub(deduct)
	}

	if remaining.GreaterThan(decimal.Zero) {
		return nil, NewInsufficientStockError(totalDeducted, requestedQuantity)
	}

	var weightedAvgCost decimal.Decimal
	if totalDeducted.GreaterThan(decimal.Zero) {
		weightedAvgCost = totalCost.Div(totalDeducted).Round(4)
	}

	return &ConsumptionPlan{
		Deductions:          deductions,
		TotalDeducted:       totalDeducted,
		TotalCost:           totalCost,
		WeightedAverageCost: weightedAvgCost,
		Shortfall:           decimal.Zero,
		FullyFulfilled:      true,
	}, nil
}
