package inventory

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/growops/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// ActivityType classifies an activity record. Movement activities are
// derived from the movement type; cultivation activities are recorded
// by the batch lifecycle operations.
type ActivityType string

const (
	ActivityReceipt         ActivityType = "receipt"
	ActivityConsumption     ActivityType = "consumption"
	ActivityCorrection      ActivityType = "correction"
	ActivityWaste           ActivityType = "waste"
	ActivityTransfer        ActivityType = "transfer"
	ActivityReturn          ActivityType = "return"
	ActivityTransformation  ActivityType = "transformation"
	ActivityPhaseTransition ActivityType = "phase_transition"
	ActivityHarvest         ActivityType = "harvest"
)

// IsValid returns true if the activity type is a known one
func (t ActivityType) IsValid() bool {
	switch t {
	case ActivityReceipt, ActivityConsumption, ActivityCorrection,
		ActivityWaste, ActivityTransfer, ActivityReturn,
		ActivityTransformation, ActivityPhaseTransition, ActivityHarvest:
		return true
	}
	return false
}

// ActivityTypeForMovement maps a movement type to the activity type it
// is recorded as
func ActivityTypeForMovement(m MovementType) ActivityType {
	return ActivityType(m)
}

// MaterialConsumed records one lot debit inside an activity
type MaterialConsumed struct {
	InventoryItemID  uuid.UUID       `json:"inventoryItemId"`
	ProductID        uuid.UUID       `json:"productId"`
	BatchNumber      string          `json:"batchNumber"`
	Quantity         decimal.Decimal `json:"quantity"`
	QuantityUnit     string          `json:"quantityUnit"`
	QuantityBefore   decimal.Decimal `json:"quantityBefore"`
	QuantityAfter    decimal.Decimal `json:"quantityAfter"`
	CostPerUnit      decimal.Decimal `json:"costPerUnit"`
	LotSelectionMode string          `json:"lotSelectionMode,omitempty"`
}

// MaterialProduced records one lot credit inside an activity
type MaterialProduced struct {
	InventoryItemID uuid.UUID       `json:"inventoryItemId"`
	ProductID       uuid.UUID       `json:"productId"`
	BatchNumber     string          `json:"batchNumber"`
	Quantity        decimal.Decimal `json:"quantity"`
	QuantityUnit    string          `json:"quantityUnit"`
	CostPerUnit     decimal.Decimal `json:"costPerUnit"`
}

// MaterialsConsumed is a JSONB column of lot debits
type MaterialsConsumed []MaterialConsumed

// Value implements driver.Valuer for database storage
func (m MaterialsConsumed) Value() (driver.Value, error) {
	if m == nil {
		return "[]", nil
	}
	b, err := json.Marshal(m)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner for database retrieval
func (m *MaterialsConsumed) Scan(value any) error {
	if value == nil {
		*m = nil
		return nil
	}
	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("inventory: cannot scan type %T into MaterialsConsumed", value)
	}
	return json.Unmarshal(data, m)
}

// MaterialsProduced is a JSONB column of lot credits
type MaterialsProduced []MaterialProduced

// Value implements driver.Valuer for database storage
func (m MaterialsProduced) Value() (driver.Value, error) {
	if m == nil {
		return "[]", nil
	}
	b, err := json.Marshal(m)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner for database retrieval
func (m *MaterialsProduced) Scan(value any) error {
	if value == nil {
		*m = nil
		return nil
	}
	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("inventory: cannot scan type %T into MaterialsProduced", value)
	}
	return json.Unmarshal(data, m)
}

// ActivityMetadata is a free-form JSONB record of movement-specific
// details kept for traceability and search
type ActivityMetadata map[string]any

// Value implements driver.Valuer for database storage
func (m ActivityMetadata) Value() (driver.Value, error) {
	if m == nil {
		return "{}", nil
	}
	b, err := json.Marshal(m)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner for database retrieval
func (m *ActivityMetadata) Scan(value any) error {
	if value == nil {
		*m = nil
		return nil
	}
	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("inventory: cannot scan type %T into ActivityMetadata", value)
	}
	return json.Unmarshal(data, m)
}

// Activity is the append-only journal entry for a stock movement or a
// cultivation event. Activities are never updated or deleted after
// commit; corrections are recorded as new correction activities.
type Activity struct {
	shared.TenantAggregateRoot
	ActivityType      ActivityType      `gorm:"type:varchar(30);not null;index"`
	EntityType        string            `gorm:"type:varchar(30);not null;index:idx_activity_entity"` // "inventory_item", "batch", "plant"
	EntityID          *uuid.UUID        `gorm:"type:uuid;index:idx_activity_entity"`
	FacilityID        uuid.UUID         `gorm:"type:uuid;not null;index"`
	AreaID            *uuid.UUID        `gorm:"type:uuid;index"`
	BatchID           *uuid.UUID        `gorm:"type:uuid;index"` // Production batch context
	PerformedAt       time.Time         `gorm:"type:timestamptz;not null;index"`
	PerformedBy       *uuid.UUID        `gorm:"type:uuid"`
	QuantityBefore    decimal.Decimal   `gorm:"type:decimal(18,4);not null;default:0"`
	QuantityAfter     decimal.Decimal   `gorm:"type:decimal(18,4);not null;default:0"`
	MaterialsConsumed MaterialsConsumed `gorm:"type:jsonb"`
	MaterialsProduced MaterialsProduced `gorm:"type:jsonb"`
	Metadata          ActivityMetadata  `gorm:"type:jsonb"`
	Notes             string            `gorm:"type:text"`
	Reason            string            `gorm:"type:varchar(255)"` // Correction/waste reason
	ReferenceType     string            `gorm:"type:varchar(50)"`  // e.g. "purchase_order"
	ReferenceID       *uuid.UUID        `gorm:"type:uuid;index"`
}

// TableName returns the table name for GORM
func (Activity) TableName() string {
	return "activities"
}

// NewActivityParams carries the attributes needed to record an activity
type NewActivityParams struct {
	ActivityType  ActivityType
	EntityType    string
	EntityID      *uuid.UUID
	FacilityID    uuid.UUID
	AreaID        *uuid.UUID
	BatchID       *uuid.UUID
	PerformedAt   time.Time
	PerformedBy   *uuid.UUID
	Notes         string
	Reason        string
	ReferenceType string
	ReferenceID   *uuid.UUID
}

// NewActivity creates an activity record. The ID is allocated here so
// callers can cross-link lots to the activity before anything is
// persisted, all inside one transaction.
func NewActivity(tenantID uuid.UUID, params NewActivityParams) (*Activity, error) {
	if !params.ActivityType.IsValid() {
		return nil, shared.NewDomainError("INVALID_ACTIVITY_TYPE", "Unknown activity type")
	}
	if params.FacilityID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_FACILITY", "Facility ID cannot be empty")
	}

	performedAt := params.PerformedAt
	if performedAt.IsZero() {
		performedAt = time.Now()
	}

	return &Activity{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		ActivityType:        params.ActivityType,
		EntityType:          params.EntityType,
		EntityID:            params.EntityID,
		FacilityID:          params.FacilityID,
		AreaID:              params.AreaID,
		BatchID:             params.BatchID,
		PerformedAt:         performedAt,
		PerformedBy:         params.PerformedBy,
		MaterialsConsumed:   MaterialsConsumed{},
		MaterialsProduced:   MaterialsProduced{},
		Metadata:            ActivityMetadata{},
		Notes:               params.Notes,
		Reason:              params.Reason,
		ReferenceType:       params.ReferenceType,
		ReferenceID:         params.ReferenceID,
	}, nil
}

// SetEntity records what this activity is about
func (a *Activity) SetEntity(entityType string, entityID uuid.UUID) {
	a.EntityType = entityType
	a.EntityID = &entityID
}

// SetQuantities records the aggregate before/after quantities
func (a *Activity) SetQuantities(before, after decimal.Decimal) {
	a.QuantityBefore = before
	a.QuantityAfter = after
}

// PutMetadata records one movement-specific detail
func (a *Activity) PutMetadata(key string, value any) {
	if a.Metadata == nil {
		a.Metadata = ActivityMetadata{}
	}
	a.Metadata[key] = value
}

// RecordConsumed appends a lot debit to the activity
func (a *Activity) RecordConsumed(entry MaterialConsumed) {
	a.MaterialsConsumed = append(a.MaterialsConsumed, entry)
}

// RecordProduced appends a lot credit to the activity
func (a *Activity) RecordProduced(entry MaterialProduced) {
	a.MaterialsProduced = append(a.MaterialsProduced, entry)
}

// TotalConsumed sums the consumed quantities
func (a *Activity) TotalConsumed() decimal.Decimal {
	total := decimal.Zero
	for _, m := range a.MaterialsConsumed {
		total = total.Add(m.Quantity)
	}
	return total
}

// TotalProduced sums the produced quantities
func (a *Activity) TotalProduced() decimal.Decimal {
	total := decimal.Zero
	for _, m := range a.MaterialsProduced {
		total = total.Add(m.Quantity)
	}
	return total
}
