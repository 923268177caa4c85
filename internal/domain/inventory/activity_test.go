package inventory

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewActivity(t *testing.T) {
	t.Run("allocates id up front", func(t *testing.T) {
		activity, err := NewActivity(uuid.New(), NewActivityParams{
			ActivityType: ActivityReceipt,
			FacilityID:   uuid.New(),
		})

		require.NoError(t, err)
		assert.NotEqual(t, uuid.Nil, activity.ID)
		assert.False(t, activity.PerformedAt.IsZero())
		assert.NotNil(t, activity.MaterialsConsumed)
		assert.NotNil(t, activity.MaterialsProduced)
	})

	t.Run("rejects unknown type", func(t *testing.T) {
		_, err := NewActivity(uuid.New(), NewActivityParams{
			ActivityType: ActivityType("audit"),
			FacilityID:   uuid.New(),
		})
		require.Error(t, err)
	})

	t.Run("rejects missing facility", func(t *testing.T) {
		_, err := NewActivity(uuid.New(), NewActivityParams{
			ActivityType: ActivityReceipt,
		})
		require.Error(t, err)
	})
}

func TestActivityMaterials(t *testing.T) {
	activity, err := NewActivity(uuid.New(), NewActivityParams{
		ActivityType: ActivityConsumption,
		FacilityID:   uuid.New(),
	})
	require.NoError(t, err)

	activity.RecordConsumed(MaterialConsumed{
		InventoryItemID: uuid.New(),
		Quantity:        decimal.NewFromInt(5),
	})
	activity.RecordConsumed(MaterialConsumed{
		InventoryItemID: uuid.New(),
		Quantity:        decimal.NewFromInt(3),
	})
	activity.RecordProduced(MaterialProduced{
		InventoryItemID: uuid.New(),
		Quantity:        decimal.NewFromInt(2),
	})

	assert.True(t, activity.TotalConsumed().Equal(decimal.NewFromInt(8)))
	assert.True(t, activity.TotalProduced().Equal(decimal.NewFromInt(2)))
}

func TestMaterialsJSONRoundTrip(t *testing.T) {
	itemID := uuid.New()
	consumed := MaterialsConsumed{{
		InventoryItemID: itemID,
		BatchNumber:     "SD-20260110-0001",
		Quantity:        decimal.RequireFromString("2.5"),
		QuantityUnit:    "kg",
	}}

	value, err := consumed.Value()
	require.NoError(t, err)

	var scanned MaterialsConsumed
	require.NoError(t, scanned.Scan(value))
	require.Len(t, scanned, 1)
	assert.Equal(t, itemID, scanned[0].InventoryItemID)
	assert.True(t, scanned[0].Quantity.Equal(decimal.RequireFromString("2.5")))
}

func TestActivityTypeForMovement(t *testing.T) {
	for _, m := range AllMovementTypes() {
		assert.True(t, ActivityTypeForMovement(m).IsValid(), string(m))
	}
}
