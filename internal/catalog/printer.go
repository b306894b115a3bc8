package catalog

import (
	"fmt"
	"strings"
)

// Printer is a machine catalog entry. The derived per-job amortization
// values are computed by the pricing package, never stored.
type Printer struct {
	ID                 int64
	Brand              string
	Model              string
	Price              float64
	BuildXMM           int
	BuildYMM           int
	BuildZMM           int
	PowerKW            float64
	MaintenancePerYear float64
	DepreciationYears  float64
	JobsPerYear        float64
	Features           []string
	Active             bool
}

// Validate checks the printer invariants. Maintenance budget may be zero
// (a new machine under warranty); price, power, depreciation horizon and
// jobs-per-year must be positive.
func (p Printer) Validate() error {
	if p.Brand == "" || p.Model == "" {
		return fmt.Errorf("printer brand and model are required")
	}
	if p.Price <= 0 {
		return fmt.Errorf("printer price must be greater than 0")
	}
	if p.PowerKW <= 0 {
		return fmt.Errorf("printer power_kw must be greater than 0")
	}
	if p.MaintenancePerYear < 0 {
		return fmt.Errorf("printer maintenance_per_year must not be negative")
	}
	if p.DepreciationYears <= 0 {
		return fmt.Errorf("printer depreciation_years must be greater than 0")
	}
	if p.JobsPerYear <= 0 {
		return fmt.Errorf("printer jobs_per_year must be greater than 0")
	}
	return nil
}

// joinFeatures flattens feature tags for TEXT storage.
func joinFeatures(features []string) string {
	return strings.Join(features, ",")
}

func splitFeatures(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	features := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			features = append(features, p)
		}
	}
	return features
}
