package inventory

// MovementType classifies a ledger movement. Every stock change is one
// of these; there is no generic "adjust" path.
type MovementType string

const (
	MovementReceipt        MovementType = "receipt"
	MovementConsumption    MovementType = "consumption"
	MovementCorrection     MovementType = "correction"
	MovementWaste          MovementType = "waste"
	MovementTransfer       MovementType = "transfer"
	MovementReturn         MovementType = "return"
	MovementTransformation MovementType = "transformation"
)

// AllMovementTypes lists every supported movement type
func AllMovementTypes() []MovementType {
	return []MovementType{
		MovementReceipt,
		MovementConsumption,
		MovementCorrection,
		MovementWaste,
		MovementTransfer,
		MovementReturn,
		MovementTransformation,
	}
}

// IsValid returns true if the movement type is a known one
func (m MovementType) IsValid() bool {
	switch m {
	case MovementReceipt, MovementConsumption, MovementCorrection,
		MovementWaste, MovementTransfer, MovementReturn, MovementTransformation:
		return true
	}
	return false
}

// IsDecrease returns true for movement types that only ever remove
// stock from the selected lots
func (m MovementType) IsDecrease() bool {
	switch m {
	case MovementConsumption, MovementWaste, MovementReturn:
		return true
	}
	return false
}

// LotSelectionMode controls how decrease movements pick their lots
type LotSelectionMode string

const (
	// SelectionFIFO walks consumable lots oldest received date first
	SelectionFIFO LotSelectionMode = "fifo"
	// SelectionSpecific targets exactly one lot named by the caller
	SelectionSpecific LotSelectionMode = "specific"
)

// IsValid returns true if the selection mode is a known one
func (m LotSelectionMode) IsValid() bool {
	return m == SelectionFIFO || m == SelectionSpecific
}

// TransformationType classifies a transformation movement
type TransformationType string

const (
	TransformationPhaseTransition TransformationType = "phase_transition"
	TransformationHarvest         TransformationType = "harvest"
	TransformationPropagation     TransformationType = "propagation"
)

// IsValid returns true if the transformation type is a known one
func (t TransformationType) IsValid() bool {
	switch t {
	case TransformationPhaseTransition, TransformationHarvest, TransformationPropagation:
		return true
	}
	return false
}

// TerminalStatus returns the terminal lot status a transformation of
// this type leaves behind on the source lot
func (t TransformationType) TerminalStatus() TransformationStatus {
	if t == TransformationHarvest {
		return TransformationStatusHarvested
	}
	return TransformationStatusTransformed
}
