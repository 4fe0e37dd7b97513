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

// PartSortFields contains allowed sort fields for the parts master
var PartSortFields = map[string]bool{
	"id":            true,
	"created_at":    true,
	"updated_at":    true,
	"code":          true,
	"name":          true,
	"part_number":   true,
	"category_id":   true,
	"price":         true,
	"min_stock":     true,
	"inward_stock":  true,
	"outward_stock": true,
}

// CustomerSortFields contains allowed sort fields for customers
var CustomerSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
	"name":       true,
	"phone":      true,
	"pincode":    true,
}

// VehicleSortFields contains allowed sort fields for vehicles
var VehicleSortFields = map[string]bool{
	"id":              true,
	"created_at":      true,
	"updated_at":      true,
	"registration_no": true,
	"brand":           true,
	"model":           true,
	"vehicle_type":    true,
}

// SupplierSortFields contains allowed sort fields for suppliers
var SupplierSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
	"name":       true,
	"mobile":     true,
	"location":   true,
}

// MovementSortFields contains allowed sort fields for stock movements
var MovementSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
	"product_id": true,
	"quantity":   true,
	"rate":       true,
}

// JobcardSortFields contains allowed sort fields for jobcards
var JobcardSortFields = map[string]bool{
	"id":             true,
	"created_at":     true,
	"updated_at":     true,
	"jobcard_number": true,
	"job_date":       true,
	"status":         true,
	"customer_id":    true,
}

// DocumentSortFields contains allowed sort fields for invoices and estimates
var DocumentSortFields = map[string]bool{
	"id":          true,
	"created_at":  true,
	"updated_at":  true,
	"number":      true,
	"date":        true,
	"status":      true,
	"customer_id": true,
	"amount":      true,
}

// BookingSortFields contains allowed sort fields for bookings
var BookingSortFields = map[string]bool{
	"id":            true,
	"created_at":    true,
	"updated_at":    true,
	"booking_date":  true,
	"booking_slot":  true,
	"latest_status": true,
}

// StaffSortFields contains allowed sort fields for staff
var StaffSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
	"staff_no":   true,
	"name":       true,
	"role":       true,
	"active":     true,
}
