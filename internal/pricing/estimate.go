package pricing

import "github.com/h2d-systems/printcost/internal/catalog"

// Average deposition rates in grams per hour, per family. TPU prints far
// slower than PLA; filled materials sit in between. Used only when the
// caller does not supply a measured print duration.
var printSpeedGramsPerHour = map[catalog.Family]float64{
	catalog.FamilyPLA:     30,
	catalog.FamilyPLAWood: 20,
	catalog.FamilyPETG:    25,
	catalog.FamilyABS:     28,
	catalog.FamilyASA:     26,
	catalog.FamilyPC:      20,
	catalog.FamilyTPU:     15,
	catalog.FamilyPLACF:   25,
	catalog.FamilyPETGCF:  22,
	catalog.FamilyPETGGF:  20,
	catalog.FamilyPACF:    18,
}

const fallbackGramsPerHour = 25.0

// EstimateHours estimates print duration from weight using the family's
// average deposition rate.
func EstimateHours(family catalog.Family, weightGrams float64) float64 {
	speed, ok := printSpeedGramsPerHour[family]
	if !ok {
		speed = fallbackGramsPerHour
	}
	return weightGrams / speed
}
