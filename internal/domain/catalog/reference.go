package catalog

import (
	"github.com/google/uuid"
	"github.com/partsdepot/backend/internal/domain/shared"
)

// ReferenceType classifies a part reference code
type ReferenceType string

const (
	// ReferenceTypeOEM is a manufacturer (original equipment) reference
	ReferenceTypeOEM ReferenceType = "oem"
	// ReferenceTypeSupplier is an aftermarket supplier reference
	ReferenceTypeSupplier ReferenceType = "supplier"
)

// PartReference is an alternate lookup code attached to a part.
// The (part_id, type, code) tuple is unique; imports upsert against it.
type PartReference struct {
	shared.BaseEntity
	PartID uuid.UUID     `gorm:"type:uuid;not null;uniqueIndex:idx_part_references_key,priority:1"`
	Type   ReferenceType `gorm:"type:varchar(16);not null;uniqueIndex:idx_part_references_key,priority:2"`
	Code   string        `gorm:"type:varchar(64);not null;uniqueIndex:idx_part_references_key,priority:3"`
}

// TableName returns the table name for GORM
func (PartReference) TableName() string {
	return "part_references"
}

// NewPartReference creates a new part reference
func NewPartReference(partID uuid.UUID, refType ReferenceType, code string) (*PartReference, error) {
	if code == "" {
		return nil, shared.NewDomainError("INVALID_CODE", "Reference code cannot be empty")
	}
	if len(code) > 64 {
		return nil, shared.NewDomainError("INVALID_CODE", "Reference code cannot exceed 64 characters")
	}
	return &PartReference{
		BaseEntity: shared.NewBaseEntity(),
		PartID:     partID,
		Type:       refType,
		Code:       code,
	}, nil
}
