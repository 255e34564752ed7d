package persistence

import (
	"strings"
)

// ValidateSortOrder validates and normalizes the sort order to ASC or DESC.
// Returns "DESC" as the default if the input is invalid or empty.
func ValidateSortOrder(orderDir string) string {
	normalized := strings.ToUpper(strings.TrimSpace(orderDir))
	if normalized == "ASC" {
		return "ASC"
	}
	return "DESC"
}

// ValidateSortField validates the sort field against a whitelist of allowed fields.
// Returns the defaultField if the input is invalid, empty, or not in the whitelist.
func ValidateSortField(sortField string, allowedFields map[string]bool, defaultField string) string {
	trimmed := strings.TrimSpace(sortField)
	if trimmed == "" {
		return defaultField
	}
	if allowedFields[trimmed] {
		return trimmed
	}
	return defaultField
}

// CommonSortFields contains fields common to most entities
var CommonSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
}

// PartSortFields contains allowed sort fields for parts
var PartSortFields = map[string]bool{
	"id":              true,
	"created_at":      true,
	"updated_at":      true,
	"reference":       true,
	"sku":             true,
	"name":            true,
	"manufacturer_id": true,
	"category_id":     true,
	"price_retail":    true,
	"price_wholesale": true,
	"stock_real":      true,
	"stock_available": true,
	"is_active":       true,
}

// ModelSortFields contains allowed sort fields for vehicle models
var ModelSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
	"name":       true,
	"year_from":  true,
	"year_to":    true,
}
