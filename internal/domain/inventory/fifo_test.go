package inventory

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLotReceivedAt(t *testing.T, quantity string, received time.Time) *InventoryItem {
	t.Helper()
	item, err := NewInventoryItem(uuid.New(), NewItemParams{
		ProductID:    uuid.New(),
		FacilityID:   uuid.New(),
		AreaID:       uuid.New(),
		Quantity:     decimal.RequireFromString(quantity),
		QuantityUnit: "kg",
		BatchNumber:  "NT-20260110-0001",
		ReceivedDate: received,
		CostPerUnit:  decimal.RequireFromString("2"),
		SourceType:   SourceTypePurchase,
	})
	require.NoError(t, err)
	return item
}

func TestPlanFIFOConsumption(t *testing.T) {
	day1 := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	day3 := time.Date(2026, 1, 3, 0, 0, 0, 0, time.UTC)

	t.Run("drains oldest lot first", func(t *testing.T) {
		oldest := newLotReceivedAt(t, "5", day1)
		newest := newLotReceivedAt(t, "10", day3)

		// Deliberately pass newest first; plan must reorder
		plan, err := PlanFIFOConsumption(decimal.NewFromInt(8), []*InventoryItem{newest, oldest})

		require.NoError(t, err)
		require.Len(t, plan.Deductions, 2)
		assert.Equal(t, oldest.ID, plan.Deductions[0].ItemID)
		assert.True(t, plan.Deductions[0].Quantity.Equal(decimal.NewFromInt(5)))
		assert.True(t, plan.Deductions[0].FullyConsumed)
		assert.Equal(t, newest.ID, plan.Deductions[1].ItemID)
		assert.True(t, plan.Deductions[1].Quantity.Equal(decimal.NewFromInt(3)))
		assert.True(t, plan.Deductions[1].QuantityAfter.Equal(decimal.NewFromInt(7)))
		assert.True(t, plan.FullyFulfilled)
	})

	t.Run("single lot covers whole request", func(t *testing.T) {
		lot := newLotReceivedAt(t, "50", day1)

		plan, err := PlanFIFOConsumption(decimal.NewFromInt(20), []*InventoryItem{lot})

		require.NoError(t, err)
		require.Len(t, plan.Deductions, 1)
		assert.True(t, plan.Deductions[0].QuantityAfter.Equal(decimal.NewFromInt(30)))
		assert.True(t, plan.TotalDeducted.Equal(decimal.NewFromInt(20)))
		assert.True(t, plan.TotalCost.Equal(decimal.NewFromInt(40)))
	})

	t.Run("shortfall yields typed error and no plan", func(t *testing.T) {
		a := newLotReceivedAt(t, "5", day1)
		b := newLotReceivedAt(t, "3", day3)

		plan, err := PlanFIFOConsumption(decimal.NewFromInt(10), []*InventoryItem{a, b})

		require.Error(t, err)
		assert.Nil(t, plan)
		var stockErr *InsufficientStockError
		require.ErrorAs(t, err, &stockErr)
		assert.True(t, stockErr.Available.Equal(decimal.NewFromInt(8)))
		assert.True(t, stockErr.Required.Equal(decimal.NewFromInt(10)))
		// Planning must not mutate the lots
		assert.True(t, a.QuantityAvailable.Equal(decimal.NewFromInt(5)))
		assert.True(t, b.QuantityAvailable.Equal(decimal.NewFromInt(3)))
	})

	t.Run("skips terminal and non-available lots", func(t *testing.T) {
		frozen := newLotReceivedAt(t, "50", day1)
		require.NoError(t, frozen.MarkTransformed(TransformationStatusHarvested, uuid.New(), uuid.New()))
		quarantined := newLotReceivedAt(t, "50", day1)
		quarantined.LotStatus = LotStatusQuarantine
		usable := newLotReceivedAt(t, "6", day3)

		plan, err := PlanFIFOConsumption(decimal.NewFromInt(6), []*InventoryItem{frozen, quarantined, usable})

		require.NoError(t, err)
		require.Len(t, plan.Deductions, 1)
		assert.Equal(t, usable.ID, plan.Deductions[0].ItemID)
	})

	t.Run("ties on received date break by creation time", func(t *testing.T) {
		first := newLotReceivedAt(t, "4", day1)
		second := newLotReceivedAt(t, "4", day1)
		second.CreatedAt = first.CreatedAt.Add(time.Minute)

		plan, err := PlanFIFOConsumption(decimal.NewFromInt(6), []*InventoryItem{second, first})

		require.NoError(t, err)
		assert.Equal(t, first.ID, plan.Deductions[0].ItemID)
	})

	t.Run("rejects non-positive quantity", func(t *testing.T) {
		_, err := PlanFIFOConsumption(decimal.Zero, nil)
		require.Error(t, err)
	})

	t.Run("computes weighted average cost", func(t *testing.T) {
		cheap := newLotReceivedAt(t, "10", day1)
		cheap.CostPerUnit = decimal.NewFromInt(1)
		dear := newLotReceivedAt(t, "10", day3)
		dear.CostPerUnit = decimal.NewFromInt(3)

		plan, err := PlanFIFOConsumption(decimal.NewFromInt(20), []*InventoryItem{cheap, dear})

		require.NoError(t, err)
		assert.True(t, plan.WeightedAverageCost.Equal(decimal.NewFromInt(2)))
	})
}

func TestPlanSpecificConsumption(t *testing.T) {
	day1 := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	t.Run("targets exactly one lot", func(t *testing.T) {
		lot := newLotReceivedAt(t, "10", day1)

		plan, err := PlanSpecificConsumption(decimal.NewFromInt(4), lot)

		require.NoError(t, err)
		require.Len(t, plan.Deductions, 1)
		assert.Equal(t, lot.ID, plan.Deductions[0].ItemID)
	})

	t.Run("fails when the lot cannot cover", func(t *testing.T) {
		lot := newLotReceivedAt(t, "3", day1)

		_, err := PlanSpecificConsumption(decimal.NewFromInt(4), lot)

		var stockErr *InsufficientStockError
		require.ErrorAs(t, err, &stockErr)
		assert.True(t, stockErr.Available.Equal(decimal.NewFromInt(3)))
	})

	t.Run("fails when the lot is frozen", func(t *testing.T) {
		lot := newLotReceivedAt(t, "10", day1)
		require.NoError(t, lot.MarkTransformed(TransformationStatusTransformed, uuid.New(), uuid.New()))

		_, err := PlanSpecificConsumption(decimal.NewFromInt(1), lot)

		var stockErr *InsufficientStockError
		require.ErrorAs(t, err, &stockErr)
		assert.True(t, stockErr.Available.IsZero())
	})
}
