package catalog

import "fmt"

// Family identifies a filament family. The set is closed: the compatibility
// and adhesion tables are keyed by Family, so adding one is a visible change
// in every switch and table that consumes it.
type Family string

const (
	FamilyPLA     Family = "PLA"
	FamilyPLAWood Family = "PLA-WOOD"
	FamilyPETG    Family = "PETG"
	FamilyABS     Family = "ABS"
	FamilyASA     Family = "ASA"
	FamilyPC      Family = "PC"
	FamilyTPU     Family = "TPU"
	FamilyPLACF   Family = "PLA-CF"
	FamilyPETGCF  Family = "PETG-CF"
	FamilyPETGGF  Family = "PETG-GF"
	FamilyPACF    Family = "PA-CF"
)

// Families lists all known filament families in a stable order.
var Families = []Family{
	FamilyPLA,
	FamilyPLAWood,
	FamilyPETG,
	FamilyABS,
	FamilyASA,
	FamilyPC,
	FamilyTPU,
	FamilyPLACF,
	FamilyPETGCF,
	FamilyPETGGF,
	FamilyPACF,
}

// ParseFamily maps a stored family string to its Family value.
// Unknown strings are an error: the catalog only accepts known families.
func ParseFamily(s string) (Family, error) {
	for _, f := range Families {
		if string(f) == s {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown material family %q", s)
}

// Known reports whether f is a member of the closed family set.
func (f Family) Known() bool {
	for _, known := range Families {
		if f == known {
			return true
		}
	}
	return false
}

// Filled reports whether the family carries abrasive fill
// (carbon fiber, glass fiber, or wood particles).
func (f Family) Filled() bool {
	switch f {
	case FamilyPLACF, FamilyPETGCF, FamilyPETGGF, FamilyPACF, FamilyPLAWood:
		return true
	}
	return false
}

// Material is a filament catalog entry. Read-only during a calculation.
type Material struct {
	ID                int64
	Name              string
	Brand             string
	Family            Family
	PricePerKg        float64
	DensityGCM3       float64
	PrintTempMinC     int
	PrintTempMaxC     int
	DefaultSupportPct float64
	DefaultFailurePct float64
	DiameterMM        float64
	Active            bool
}

// Validate checks the material invariants: positive price and a
// coherent print temperature range.
func (m Material) Validate() error {
	if m.Name == "" {
		return fmt.Errorf("material name is required")
	}
	if !m.Family.Known() {
		return fmt.Errorf("material family %q is not recognized", m.Family)
	}
	if m.PricePerKg <= 0 {
		return fmt.Errorf("material price_per_kg must be greater than 0")
	}
	if m.PrintTempMinC >= m.PrintTempMaxC {
		return fmt.Errorf("material print temperature range is invalid: min %d >= max %d", m.PrintTempMinC, m.PrintTempMaxC)
	}
	return nil
}
