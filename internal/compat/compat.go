// Package compat decides which nozzle tip materials are safe for a given
// filament family and picks the cheapest acceptable nozzle from a catalog
// snapshot. Everything here is a pure function over its inputs.
package compat

import (
	"github.com/samber/lo"

	"github.com/h2d-systems/printcost/internal/catalog"
)

// tipsByFamily is exhaustive over catalog.Families. Filled families grind
// brass tips out within hours, so they only accept wear-resistant tips.
var tipsByFamily = map[catalog.Family][]catalog.TipMaterial{
	catalog.FamilyPLA:     {catalog.TipBrass, catalog.TipHardenedSteel, catalog.TipRuby, catalog.TipTungstenCarbide},
	catalog.FamilyPETG:    {catalog.TipBrass, catalog.TipHardenedSteel, catalog.TipRuby, catalog.TipTungstenCarbide},
	catalog.FamilyABS:     {catalog.TipBrass, catalog.TipHardenedSteel, catalog.TipRuby, catalog.TipTungstenCarbide},
	catalog.FamilyASA:     {catalog.TipBrass, catalog.TipHardenedSteel, catalog.TipRuby, catalog.TipTungstenCarbide},
	catalog.FamilyPC:      {catalog.TipBrass, catalog.TipHardenedSteel, catalog.TipRuby, catalog.TipTungstenCarbide},
	catalog.FamilyTPU:     {catalog.TipBrass, catalog.TipHardenedSteel, catalog.TipRuby, catalog.TipTungstenCarbide},
	catalog.FamilyPLAWood: {catalog.TipHardenedSteel, catalog.TipRuby, catalog.TipTungstenCarbide},
	catalog.FamilyPLACF:   {catalog.TipHardenedSteel, catalog.TipRuby, catalog.TipTungstenCarbide},
	catalog.FamilyPETGCF:  {catalog.TipHardenedSteel, catalog.TipRuby, catalog.TipTungstenCarbide},
	catalog.FamilyPETGGF:  {catalog.TipHardenedSteel, catalog.TipRuby, catalog.TipTungstenCarbide},
	catalog.FamilyPACF:    {catalog.TipHardenedSteel, catalog.TipRuby, catalog.TipTungstenCarbide},
}

// CompatibleTips returns the tip materials acceptable for a family.
// Unknown families fall back to plain brass.
func CompatibleTips(family catalog.Family) []catalog.TipMaterial {
	tips, ok := tipsByFamily[family]
	if !ok {
		return []catalog.TipMaterial{catalog.TipBrass}
	}
	out := make([]catalog.TipMaterial, len(tips))
	copy(out, tips)
	return out
}

// Compatible reports whether tip is acceptable for family.
func Compatible(family catalog.Family, tip catalog.TipMaterial) bool {
	return lo.Contains(CompatibleTips(family), tip)
}

// BestNozzle filters nozzles to compatible tips at exactly the requested
// diameter and returns the cheapest candidate. ok is false when nothing
// in the snapshot qualifies.
func BestNozzle(family catalog.Family, diameterMM float64, nozzles []catalog.Nozzle) (catalog.Nozzle, bool) {
	candidates := lo.Filter(nozzles, func(n catalog.Nozzle, _ int) bool {
		return n.Active && n.DiameterMM == diameterMM && Compatible(family, n.Tip)
	})
	if len(candidates) == 0 {
		return catalog.Nozzle{}, false
	}
	best := lo.MinBy(candidates, func(a, b catalog.Nozzle) bool {
		return a.Price < b.Price
	})
	return best, true
}
