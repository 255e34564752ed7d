package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/partsdepot/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Part represents a spare part in the catalog.
// It is the aggregate root for part-related operations.
//
// A part is matched by two business keys: the SKU (unique when present) and the
// (reference, manufacturer_id) pair used as a fallback when no SKU is known.
type Part struct {
	shared.BaseAggregateRoot
	Reference      string          `gorm:"type:varchar(64);not null;index:idx_parts_reference_manufacturer,priority:1"`
	SKU            string          `gorm:"type:varchar(64);index:idx_parts_sku"`
	Barcode        string          `gorm:"type:varchar(64)"`
	Name           string          `gorm:"type:varchar(255);not null"`
	Description    string          `gorm:"type:text"`
	ManufacturerID *uuid.UUID      `gorm:"type:uuid;index:idx_parts_reference_manufacturer,priority:2"`
	CategoryID     *uuid.UUID      `gorm:"type:uuid;index"`
	PriceRetail    decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	PriceWholesale decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	TVARate        decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0"`
	StockReal      int             `gorm:"not null;default:0"`
	StockAvailable int             `gorm:"not null;default:0"`
	IsActive       bool            `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (Part) TableName() string {
	return "parts"
}

// NewPart creates a new part. Name falls back to the SKU, then to the
// reference, when no designation is supplied.
func NewPart(reference, sku, name string) (*Part, error) {
	if name == "" {
		name = sku
	}
	if name == "" {
		name = reference
	}
	if reference == "" && name == "" {
		return nil, shared.NewDomainError("INVALID_PART", "Part requires a reference or a name")
	}
	if len(reference) > 64 {
		return nil, shared.NewDomainError("INVALID_REFERENCE", "Reference cannot exceed 64 characters")
	}
	if len(name) > 255 {
		name = name[:255]
	}

	return &Part{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Reference:         reference,
		SKU:               sku,
		Name:              name,
		PriceRetail:       decimal.Zero,
		PriceWholesale:    decimal.Zero,
		TVARate:           decimal.Zero,
		IsActive:          true,
	}, nil
}

func (p *Part) touch() {
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
}

// UpdateName sets the part name and reports whether the stored value changed.
// Empty input never overwrites an existing name.
func (p *Part) UpdateName(name string) bool {
	if name == "" || p.Name == name {
		return false
	}
	p.Name = name
	p.touch()
	return true
}

// UpdateDescription sets the description if it differs
func (p *Part) UpdateDescription(description string) bool {
	if description == "" || p.Description == description {
		return false
	}
	p.Description = description
	p.touch()
	return true
}

// UpdateBarcode sets the barcode if it differs
func (p *Part) UpdateBarcode(barcode string) bool {
	if barcode == "" || p.Barcode == barcode {
		return false
	}
	p.Barcode = barcode
	p.touch()
	return true
}

// UpdateReference sets the supplier reference if it differs
func (p *Part) UpdateReference(reference string) bool {
	if reference == "" || p.Reference == reference {
		return false
	}
	p.Reference = reference
	p.touch()
	return true
}

// UpdateSKU sets the SKU if it differs
func (p *Part) UpdateSKU(sku string) bool {
	if sku == "" || p.SKU == sku {
		return false
	}
	p.SKU = sku
	p.touch()
	return true
}

// SetManufacturer links the part to a manufacturer if not already linked to it
func (p *Part) SetManufacturer(id *uuid.UUID) bool {
	if id == nil {
		return false
	}
	if p.ManufacturerID != nil && *p.ManufacturerID == *id {
		return false
	}
	p.ManufacturerID = id
	p.touch()
	return true
}

// SetCategory links the part to a category if not already linked to it
func (p *Part) SetCategory(id *uuid.UUID) bool {
	if id == nil {
		return false
	}
	if p.CategoryID != nil && *p.CategoryID == *id {
		return false
	}
	p.CategoryID = id
	p.touch()
	return true
}

// UpdatePriceRetail sets the retail price if it differs
func (p *Part) UpdatePriceRetail(price *decimal.Decimal) bool {
	if price == nil || price.IsNegative() || p.PriceRetail.Equal(*price) {
		return false
	}
	p.PriceRetail = *price
	p.touch()
	return true
}

// UpdatePriceWholesale sets the wholesale price if it differs
func (p *Part) UpdatePriceWholesale(price *decimal.Decimal) bool {
	if price == nil || price.IsNegative() || p.PriceWholesale.Equal(*price) {
		return false
	}
	p.PriceWholesale = *price
	p.touch()
	return true
}

// UpdateTVARate sets the VAT rate if it differs
func (p *Part) UpdateTVARate(rate *decimal.Decimal) bool {
	if rate == nil || rate.IsNegative() || p.TVARate.Equal(*rate) {
		return false
	}
	p.TVARate = *rate
	p.touch()
	return true
}

// UpdateStockReal sets the physical stock level if it differs
func (p *Part) UpdateStockReal(stock *int) bool {
	if stock == nil || p.StockReal == *stock {
		return false
	}
	p.StockReal = *stock
	p.touch()
	return true
}

// UpdateStockAvailable sets the sellable stock level if it differs.
// Keeping it at or below the physical stock is not enforced here.
func (p *Part) UpdateStockAvailable(stock *int) bool {
	if stock == nil || p.StockAvailable == *stock {
		return false
	}
	p.StockAvailable = *stock
	p.touch()
	return true
}

// HasManufacturer returns true if the part is linked to a manufacturer
func (p *Part) HasManufacturer() bool {
	return p.ManufacturerID != nil
}
