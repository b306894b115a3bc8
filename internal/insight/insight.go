// Package insight inspects a finished cost breakdown together with the
// original job inputs and emits advisory warnings and suggestions. Rules
// are independent predicates evaluated in a fixed order; each can be unit
// tested in isolation. No rule mutates anything.
package insight

import (
	"fmt"

	"github.com/h2d-systems/printcost/internal/catalog"
	"github.com/h2d-systems/printcost/internal/compat"
	"github.com/h2d-systems/printcost/internal/pricing"
)

type Severity string

const (
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
)

// Insight is one advisory finding about a calculation.
type Insight struct {
	Severity Severity `json:"severity"`
	Title    string   `json:"title"`
	Message  string   `json:"message"`
}

// Recommendation suggests a concrete alternative to the chosen setup.
type Recommendation struct {
	Title   string `json:"title"`
	Message string `json:"message"`
}

// Input bundles everything the rules may look at: the computed breakdown,
// the request, the resolved entities, and the nozzle catalog snapshot for
// the best-nozzle comparison.
type Input struct {
	Breakdown pricing.Breakdown
	Request   pricing.Request
	Material  catalog.Material
	Printer   catalog.Printer
	Nozzle    catalog.Nozzle
	Nozzles   []catalog.Nozzle

	// BaselinePricePerKg anchors the cheaper-material saving estimate;
	// it is the shop's default PLA price.
	BaselinePricePerKg float64
}

type insightRule func(Input) (Insight, bool)

type recommendationRule func(Input) (Recommendation, bool)

var insightRules = []insightRule{
	highFailureRate,
	highEnergyUse,
	expensiveMaterial,
	incompatibleNozzle,
}

var recommendationRules = []recommendationRule{
	cheaperNozzle,
	betterThermalControl,
	cheaperMaterial,
}

// Insights evaluates the warning/info rules in order. The result is never
// nil; no triggers means an empty list.
func Insights(in Input) []Insight {
	out := make([]Insight, 0)
	for _, rule := range insightRules {
		if found, ok := rule(in); ok {
			out = append(out, found)
		}
	}
	return out
}

// Recommendations evaluates the suggestion rules in order. The result is
// never nil.
func Recommendations(in Input) []Recommendation {
	out := make([]Recommendation, 0)
	for _, rule := range recommendationRules {
		if found, ok := rule(in); ok {
			out = append(out, found)
		}
	}
	return out
}

func highFailureRate(in Input) (Insight, bool) {
	if in.Request.FailurePct <= 15 {
		return Insight{}, false
	}
	return Insight{
		Severity: SeverityWarning,
		Title:    "Failure rate high",
		Message:  fmt.Sprintf("An expected failure rate of %.0f%% adds €%.2f of waste to this job. Check bed leveling and filament drying.", in.Request.FailurePct, in.Breakdown.FailureCost),
	}, true
}

func highEnergyUse(in Input) (Insight, bool) {
	if in.Breakdown.EnergyKWh <= 2 {
		return Insight{}, false
	}
	return Insight{
		Severity: SeverityInfo,
		Title:    "High energy use",
		Message:  fmt.Sprintf("This job draws about %.1f kWh. Long prints on %s %s dominate the energy line.", in.Breakdown.EnergyKWh, in.Printer.Brand, in.Printer.Model),
	}, true
}

func expensiveMaterial(in Input) (Insight, bool) {
	if in.Material.PricePerKg <= 30 {
		return Insight{}, false
	}
	return Insight{
		Severity: SeverityInfo,
		Title:    "Expensive material",
		Message:  fmt.Sprintf("%s costs €%.2f/kg, well above commodity filament. Material dominates the direct cost of heavier jobs.", in.Material.Name, in.Material.PricePerKg),
	}, true
}

func incompatibleNozzle(in Input) (Insight, bool) {
	if compat.Compatible(in.Material.Family, in.Nozzle.Tip) {
		return Insight{}, false
	}
	return Insight{
		Severity: SeverityWarning,
		Title:    "Nozzle incompatibility",
		Message:  fmt.Sprintf("%s filament will wear a %s tip out far ahead of its rated lifetime. Use one of: %s.", in.Material.Family, in.Nozzle.Tip, tipList(in.Material.Family)),
	}, true
}

func tipList(family catalog.Family) string {
	tips := compat.CompatibleTips(family)
	out := ""
	for i, tip := range tips {
		if i > 0 {
			out += ", "
		}
		out += string(tip)
	}
	return out
}

func cheaperNozzle(in Input) (Recommendation, bool) {
	best, ok := compat.BestNozzle(in.Material.Family, in.Nozzle.DiameterMM, in.Nozzles)
	if !ok || best.ID == in.Nozzle.ID || best.Price >= in.Nozzle.Price {
		return Recommendation{}, false
	}
	return Recommendation{
		Title:   "Cheaper compatible nozzle",
		Message: fmt.Sprintf("%s (€%.2f) is compatible with %s at %.1f mm and cheaper than the chosen %s (€%.2f).", best.Name, best.Price, in.Material.Family, best.DiameterMM, in.Nozzle.Name, in.Nozzle.Price),
	}, true
}

func betterThermalControl(in Input) (Recommendation, bool) {
	if in.Request.FailurePct <= 10 {
		return Recommendation{}, false
	}
	return Recommendation{
		Title:   "Consider a printer with better thermal control",
		Message: "An enclosed printer with a heated chamber keeps failure rates down on warp-prone jobs.",
	}, true
}

func cheaperMaterial(in Input) (Recommendation, bool) {
	if in.Material.PricePerKg <= 25 || in.Request.WeightGrams <= 100 {
		return Recommendation{}, false
	}
	saving := (in.Material.PricePerKg - in.BaselinePricePerKg) * in.Request.WeightGrams / 1000
	return Recommendation{
		Title:   "Cheaper baseline material",
		Message: fmt.Sprintf("If this part does not need %s, printing it in baseline PLA (€%.2f/kg) would save about €%.2f.", in.Material.Name, in.BaselinePricePerKg, saving),
	}, true
}
