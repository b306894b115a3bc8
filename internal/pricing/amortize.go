package pricing

import "github.com/h2d-systems/printcost/internal/catalog"

// Amortization spreads one-time or yearly asset costs over expected use.
// All three functions are deterministic and recomputed fresh per request.
//
// Zero denominators mean "not amortizing" and yield a zero cost line
// rather than a division error. Catalog validation normally rejects such
// entities, but the engine must stay safe against snapshots that predate
// stricter validation.

// DepreciationPerJob returns the purchase price spread over the declared
// depreciation horizon and yearly job count.
func DepreciationPerJob(p catalog.Printer) float64 {
	denominator := p.DepreciationYears * p.JobsPerYear
	if denominator == 0 {
		return 0
	}
	return p.Price / denominator
}

// MaintenancePerJob returns the yearly maintenance budget spread over the
// declared yearly job count.
func MaintenancePerJob(p catalog.Printer) float64 {
	if p.JobsPerYear == 0 {
		return 0
	}
	return p.MaintenancePerYear / p.JobsPerYear
}

// NozzleWearCost returns the share of the nozzle price consumed by a print
// of the given duration.
func NozzleWearCost(n catalog.Nozzle, durationHours float64) float64 {
	if n.LifetimeHours == 0 {
		return 0
	}
	return n.Price / n.LifetimeHours * durationHours
}
