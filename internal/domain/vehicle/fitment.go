package vehicle

import (
	"time"

	"github.com/google/uuid"
	"github.com/partsdepot/backend/internal/domain/shared"
)

// Fitment links a part to a vehicle model, optionally scoped to an engine
// code, indicating mechanical compatibility. The (part_id, vehicle_model_id,
// engine_code) tuple is unique; an empty engine code stands for "any engine"
// so the composite index covers the null case.
type Fitment struct {
	shared.BaseEntity
	PartID         uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_fitments_key,priority:1"`
	VehicleModelID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_fitments_key,priority:2"`
	EngineCode     string    `gorm:"type:varchar(32);not null;default:'';uniqueIndex:idx_fitments_key,priority:3"`
	Notes          string    `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (Fitment) TableName() string {
	return "fitments"
}

// NewFitment creates a new fitment link
func NewFitment(partID, modelID uuid.UUID, engineCode, notes string) (*Fitment, error) {
	if len(engineCode) > 32 {
		return nil, shared.NewDomainError("INVALID_ENGINE_CODE", "Engine code cannot exceed 32 characters")
	}
	return &Fitment{
		BaseEntity:     shared.NewBaseEntity(),
		PartID:         partID,
		VehicleModelID: modelID,
		EngineCode:     engineCode,
		Notes:          notes,
	}, nil
}

// UpdateNotes overwrites the fitment notes and reports whether they changed
func (f *Fitment) UpdateNotes(notes string) bool {
	if notes == "" || f.Notes == notes {
		return false
	}
	f.Notes = notes
	f.UpdatedAt = time.Now()
	return true
}
