// Package pricing computes the full cost breakdown and sale price of one
// print job. The engine is a pure function of the job request and a
// point-in-time catalog snapshot: no I/O, no shared state, so identical
// inputs always produce identical breakdowns.
//
// All monetary values are kept at full float64 precision here. Rounding to
// cents happens once, at the presentation boundary (JSON and CSV), never
// between cost lines.
package pricing

import (
	"math"

	"github.com/h2d-systems/printcost/internal/catalog"
)

// Request carries the parameters of one print job to be costed.
// Percent fields are 0-100, not fractions. PrintHours of 0 means
// "estimate from weight".
type Request struct {
	MaterialID int64 `json:"material_id"`
	PrinterID  int64 `json:"printer_id"`
	NozzleID   int64 `json:"nozzle_id"`

	WeightGrams float64 `json:"weight_grams"`
	PrintHours  float64 `json:"print_hours"`

	SupportPct        float64 `json:"support_percent"`
	FailurePct        float64 `json:"failure_rate"`
	ElectricityPerKWh float64 `json:"electricity_cost"`
	DesignHours       float64 `json:"design_hours"`
	HourlyRate        float64 `json:"hourly_rate"`
	MarkupPct         float64 `json:"markup_percent"`
	PostProcessing    float64 `json:"post_processing_cost"`
	Shipping          float64 `json:"shipping_cost"`
	OverheadPct       float64 `json:"overhead_percent"`
	TaxPct            float64 `json:"tax_percent"`

	Multicolor bool `json:"multicolor"`
	Rush       bool `json:"rush"`
	Abrasive   bool `json:"abrasive"`
}

// Config holds the engine's tunable surcharge constants.
type Config struct {
	ColorSetupFeeMin   float64
	ColorSetupFeeMax   float64
	RushSurchargePct   float64
	DefaultAdhesion    float64
	BaselinePricePerKg float64
}

// DefaultConfig mirrors the shop's standing price list: the multicolor fee
// is charged as the midpoint of the fee range, rush adds 25%.
func DefaultConfig() Config {
	return Config{
		ColorSetupFeeMin:   15,
		ColorSetupFeeMax:   30,
		RushSurchargePct:   25,
		DefaultAdhesion:    0.05,
		BaselinePricePerKg: 18.50,
	}
}

// ColorSetupFee is the flat fee added for multicolor jobs.
func (c Config) ColorSetupFee() float64 {
	return (c.ColorSetupFeeMin + c.ColorSetupFeeMax) / 2
}

// Per-job consumable adhesive cost by family. ABS and ASA need slurry or
// dedicated sheets; PLA gets by with a swipe of glue stick.
var bedAdhesionByFamily = map[catalog.Family]float64{
	catalog.FamilyPLA:     0.03,
	catalog.FamilyPLAWood: 0.05,
	catalog.FamilyPETG:    0.05,
	catalog.FamilyABS:     0.12,
	catalog.FamilyASA:     0.12,
	catalog.FamilyPC:      0.15,
	catalog.FamilyTPU:     0.02,
	catalog.FamilyPLACF:   0.08,
	catalog.FamilyPETGCF:  0.08,
	catalog.FamilyPETGGF:  0.08,
	catalog.FamilyPACF:    0.10,
}

// BedAdhesionCost returns the per-job adhesive cost for a family.
func (c Config) BedAdhesionCost(family catalog.Family) float64 {
	if cost, ok := bedAdhesionByFamily[family]; ok {
		return cost
	}
	return c.DefaultAdhesion
}

// Breakdown is the itemized, immutable output of one calculation.
// Every cost line is non-negative; Profit may be negative when the markup
// does not recover costs, and is deliberately never clamped.
type Breakdown struct {
	EffectiveWeightGrams float64
	PrintHours           float64
	EnergyKWh            float64

	MaterialCost   float64
	EnergyCost     float64
	NozzleWearCost float64
	DirectSubtotal float64

	FailureCost      float64
	DepreciationCost float64
	MaintenanceCost  float64
	BedAdhesionCost  float64
	IndirectSubtotal float64

	LaborCost          float64
	PostProcessingCost float64
	ShippingCost       float64
	OverheadCost       float64
	BusinessSubtotal   float64

	PreTaxTotal  float64
	TaxAmount    float64
	PostTaxTotal float64

	SalePrice float64
	Profit    float64
	MarginPct float64

	// BreakEvenJobs is meaningful only when Profitable is true.
	BreakEvenJobs int
	Profitable    bool
}

// Calculate runs the full cost decomposition for one job. The catalog
// entities are the snapshot resolved by the caller; they are read, never
// mutated. A ValidationError names the first field out of bounds.
func (c Config) Calculate(req Request, material catalog.Material, printer catalog.Printer, nozzle catalog.Nozzle) (Breakdown, error) {
	if req.PrintHours == 0 {
		req.PrintHours = EstimateHours(material.Family, req.WeightGrams)
	}
	if err := validate(req, material, printer, nozzle); err != nil {
		return Breakdown{}, err
	}

	b := Breakdown{PrintHours: req.PrintHours}

	// Direct costs: what the print physically consumes.
	b.EffectiveWeightGrams = req.WeightGrams * (1 + req.SupportPct/100)
	b.MaterialCost = b.EffectiveWeightGrams / 1000 * material.PricePerKg
	b.EnergyKWh = printer.PowerKW * req.PrintHours
	b.EnergyCost = b.EnergyKWh * req.ElectricityPerKWh
	b.NozzleWearCost = NozzleWearCost(nozzle, req.PrintHours)
	b.DirectSubtotal = b.MaterialCost + b.EnergyCost + b.NozzleWearCost

	// Indirect costs. A failed print wastes the direct inputs already
	// consumed, not the business overhead, so failure risk is priced
	// against the direct subtotal only.
	b.FailureCost = b.DirectSubtotal * req.FailurePct / 100
	b.DepreciationCost = DepreciationPerJob(printer)
	b.MaintenanceCost = MaintenancePerJob(printer)
	b.BedAdhesionCost = c.BedAdhesionCost(material.Family)
	b.IndirectSubtotal = b.FailureCost + b.DepreciationCost + b.MaintenanceCost + b.BedAdhesionCost

	// Business costs.
	b.LaborCost = req.DesignHours * req.HourlyRate
	b.OverheadCost = b.DirectSubtotal * req.OverheadPct / 100
	b.PostProcessingCost = req.PostProcessing
	b.ShippingCost = req.Shipping
	b.BusinessSubtotal = b.LaborCost + b.PostProcessingCost + b.ShippingCost + b.OverheadCost

	// Totals and tax.
	b.PreTaxTotal = b.DirectSubtotal + b.IndirectSubtotal + b.BusinessSubtotal
	b.TaxAmount = b.PreTaxTotal * req.TaxPct / 100
	b.PostTaxTotal = b.PreTaxTotal + b.TaxAmount

	// Sale price. The rush surcharge multiplies after the color setup fee
	// so the premium also covers the setup work.
	b.SalePrice = b.PostTaxTotal * (1 + req.MarkupPct/100)
	if req.Multicolor {
		b.SalePrice += c.ColorSetupFee()
	}
	if req.Rush {
		b.SalePrice *= 1 + c.RushSurchargePct/100
	}

	b.Profit = b.SalePrice - b.PostTaxTotal
	if b.PostTaxTotal > 0 {
		b.MarginPct = b.Profit / b.PostTaxTotal * 100
	}
	if b.Profit > 0 {
		b.Profitable = true
		b.BreakEvenJobs = int(math.Ceil(b.PostTaxTotal / b.Profit))
	}

	return b, nil
}

func validate(req Request, material catalog.Material, printer catalog.Printer, nozzle catalog.Nozzle) error {
	if req.WeightGrams <= 0 {
		return invalid("weight_grams", "must be greater than 0")
	}
	if req.PrintHours <= 0 {
		return invalid("print_hours", "must be greater than 0")
	}
	if req.SupportPct < 0 || req.SupportPct > 100 {
		return invalid("support_percent", "must be between 0 and 100")
	}
	if req.FailurePct < 0 || req.FailurePct > 100 {
		return invalid("failure_rate", "must be between 0 and 100")
	}
	if req.ElectricityPerKWh < 0 {
		return invalid("electricity_cost", "must not be negative")
	}
	if req.DesignHours < 0 {
		return invalid("design_hours", "must not be negative")
	}
	if req.HourlyRate < 0 {
		return invalid("hourly_rate", "must not be negative")
	}
	if req.MarkupPct < 0 {
		return invalid("markup_percent", "must not be negative")
	}
	if req.PostProcessing < 0 {
		return invalid("post_processing_cost", "must not be negative")
	}
	if req.Shipping < 0 {
		return invalid("shipping_cost", "must not be negative")
	}
	if req.OverheadPct < 0 {
		return invalid("overhead_percent", "must not be negative")
	}
	if req.TaxPct < 0 || req.TaxPct > 100 {
		return invalid("tax_percent", "must be between 0 and 100")
	}

	if material.PricePerKg <= 0 {
		return invalid("material.price_per_kg", "must be greater than 0")
	}
	if printer.PowerKW <= 0 {
		return invalid("printer.power_kw", "must be greater than 0")
	}
	if nozzle.Price <= 0 {
		return invalid("nozzle.price", "must be greater than 0")
	}
	if nozzle.LifetimeHours <= 0 {
		return invalid("nozzle.lifetime_hours", "must be greater than 0")
	}
	if !catalog.ValidDiameter(nozzle.DiameterMM) {
		return invalid("nozzle.diameter_mm", "is not in the supported set")
	}
	return nil
}
