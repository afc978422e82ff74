package service

import (
	"fmt"
	"strings"

	"github.com/BerniceZTT/cbam_end/models"
)

// ResolveSuppliers links parsed import rows to suppliers.
// Rows carrying a supplier id must reference a known supplier. Rows without one fall back to
// matching the manufacturer name, which is accepted only when exactly one supplier has that name.
func ResolveSuppliers(rows []ParsedImport, suppliers []models.Supplier) ([]ParsedImport, []models.RowError) {
	byID := make(map[string]models.Supplier, len(suppliers))
	byName := make(map[string][]models.Supplier)
	for _, s := range suppliers {
		byID[s.ID] = s
		key := nameKey(s.Name)
		byName[key] = append(byName[key], s)
	}

	var resolved []ParsedImport
	var rowErrors []models.RowError
	for _, row := range rows {
		if row.Import.SupplierID != "" {
			s, ok := byID[row.Import.SupplierID]
			if !ok {
				rowErrors = append(rowErrors, models.RowError{Row: row.Row, Message: fmt.Sprintf("unknown supplier id %q", row.Import.SupplierID)})
				continue
			}
			if row.Import.ManufacturerName == "" {
				row.Import.ManufacturerName = s.Name
			}
			resolved = append(resolved, row)
			continue
		}

		name := row.Import.ManufacturerName
		if name == "" {
			rowErrors = append(rowErrors, models.RowError{Row: row.Row, Message: "supplier id or manufacturer is required"})
			continue
		}
		matches := byName[nameKey(name)]
		switch len(matches) {
		case 0:
			rowErrors = append(rowErrors, models.RowError{Row: row.Row, Message: fmt.Sprintf("no supplier named %q", name)})
		case 1:
			row.Import.SupplierID = matches[0].ID
			resolved = append(resolved, row)
		default:
			rowErrors = append(rowErrors, models.RowError{Row: row.Row, Message: fmt.Sprintf("%d suppliers named %q, use the supplier id", len(matches), name)})
		}
	}
	return resolved, rowErrors
}

func nameKey(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), " "))
}
